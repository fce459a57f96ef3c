// internal/api/handlers/finance_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bodegapos/backend/internal/domain"
	"github.com/bodegapos/backend/internal/service"
)

type FinanceHandler struct {
	shiftService *service.ShiftService
}

func NewFinanceHandler(shiftService *service.ShiftService) *FinanceHandler {
	return &FinanceHandler{shiftService: shiftService}
}

func (h *FinanceHandler) OpenShift(c *gin.Context) {
	var req domain.OpenShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	shift, err := h.shiftService.OpenShift(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, shift)
}

func (h *FinanceHandler) CloseShift(c *gin.Context) {
	var req domain.CloseShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	shift, err := h.shiftService.CloseShift(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, shift)
}

func (h *FinanceHandler) ListShifts(c *gin.Context) {
	shifts, err := h.shiftService.ListShifts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch shifts"})
		return
	}
	c.JSON(http.StatusOK, shifts)
}

func (h *FinanceHandler) CreateCashMovement(c *gin.Context) {
	var req domain.CashMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	movement, err := h.shiftService.CreateCashMovement(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, movement)
}

func (h *FinanceHandler) ListCashMovements(c *gin.Context) {
	movements, err := h.shiftService.ListCashMovements(c.Request.Context(), c.Query("branchId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch cash movements"})
		return
	}
	c.JSON(http.StatusOK, movements)
}

func (h *FinanceHandler) CreateExpense(c *gin.Context) {
	var req domain.ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	expense, err := h.shiftService.CreateExpense(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, expense)
}

func (h *FinanceHandler) ListExpenses(c *gin.Context) {
	expenses, err := h.shiftService.ListExpenses(c.Request.Context(), c.Query("branchId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch expenses"})
		return
	}
	c.JSON(http.StatusOK, expenses)
}
