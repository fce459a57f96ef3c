// internal/api/handlers/inventory_handler.go
package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bodegapos/backend/internal/domain"
	"github.com/bodegapos/backend/internal/service"
)

type InventoryHandler struct {
	inventoryService *service.InventoryService
}

func NewInventoryHandler(inventoryService *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

// Adjust applies a signed stock delta (loss, correction) and returns the
// immutable adjustment record.
func (h *InventoryHandler) Adjust(c *gin.Context) {
	var req domain.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	adjustment, err := h.inventoryService.Adjust(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, adjustment)
}

// SetStock sets an absolute quantity (initialization).
func (h *InventoryHandler) SetStock(c *gin.Context) {
	var req domain.SetStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	row, err := h.inventoryService.SetStock(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *InventoryHandler) BranchInventory(c *gin.Context) {
	branchID := c.Param("branchId")
	if branchID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "branch id is required"})
		return
	}

	rows, err := h.inventoryService.BranchInventory(c.Request.Context(), branchID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch inventory"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *InventoryHandler) History(c *gin.Context) {
	limit := 50
	if v, err := strconv.Atoi(strings.TrimSpace(c.Query("limit"))); err == nil && v > 0 {
		limit = v
	}

	history, err := h.inventoryService.History(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch history"})
		return
	}
	c.JSON(http.StatusOK, history)
}
