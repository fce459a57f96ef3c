// internal/api/handlers/system_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bodegapos/backend/internal/service"
)

type SystemHandler struct {
	systemService *service.SystemService
}

func NewSystemHandler(systemService *service.SystemService) *SystemHandler {
	return &SystemHandler{systemService: systemService}
}

func (h *SystemHandler) ListLogs(c *gin.Context) {
	logs, err := h.systemService.ListLogs(c.Request.Context(), 100)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch logs"})
		return
	}
	c.JSON(http.StatusOK, logs)
}
