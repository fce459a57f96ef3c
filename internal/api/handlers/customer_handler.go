// internal/api/handlers/customer_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bodegapos/backend/internal/domain"
	"github.com/bodegapos/backend/internal/service"
)

type CustomerHandler struct {
	creditService *service.CreditService
}

func NewCustomerHandler(creditService *service.CreditService) *CustomerHandler {
	return &CustomerHandler{creditService: creditService}
}

// RecordPayment registers a debt payment and decrements the customer's
// balance in the same transaction.
func (h *CustomerHandler) RecordPayment(c *gin.Context) {
	var req domain.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	payment, err := h.creditService.RecordPayment(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payment)
}

func (h *CustomerHandler) List(c *gin.Context) {
	customers, err := h.creditService.ListCustomers(c.Request.Context(), c.Query("branchId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch customers"})
		return
	}
	c.JSON(http.StatusOK, customers)
}
