// internal/api/handlers/transfer_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bodegapos/backend/internal/domain"
	"github.com/bodegapos/backend/internal/service"
)

type TransferHandler struct {
	transferService *service.TransferService
}

func NewTransferHandler(transferService *service.TransferService) *TransferHandler {
	return &TransferHandler{transferService: transferService}
}

func (h *TransferHandler) Create(c *gin.Context) {
	var req domain.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	transfer, err := h.transferService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, transfer)
}

func (h *TransferHandler) Complete(c *gin.Context) {
	if err := h.transferService.Complete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Transfer completed successfully"})
}

func (h *TransferHandler) Cancel(c *gin.Context) {
	if err := h.transferService.Cancel(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Transfer cancelled"})
}

func (h *TransferHandler) List(c *gin.Context) {
	transfers, err := h.transferService.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch transfers"})
		return
	}
	c.JSON(http.StatusOK, transfers)
}
