// internal/api/api.go
package api

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/bodegapos/backend/internal/api/handlers"
	"github.com/bodegapos/backend/internal/api/middleware"
	"github.com/bodegapos/backend/internal/config"
	"github.com/bodegapos/backend/internal/service"
)

type Services struct {
	Sales     *service.SaleService
	Transfers *service.TransferService
	Inventory *service.InventoryService
	Credit    *service.CreditService
	Shifts    *service.ShiftService
	System    *service.SystemService
}

func NewRouter(services *Services, cfg *config.Config) *gin.Engine {
	router := gin.New()

	// Add middleware
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	corsConfig := cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.Server.AllowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(cfg.Server.AllowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")
	apiGroup.Use(middleware.BearerAuth(cfg.Auth.JWTSecret))

	saleHandler := handlers.NewSaleHandler(services.Sales)
	salesGroup := apiGroup.Group("/sales")
	{
		salesGroup.POST("", saleHandler.Checkout)
		salesGroup.GET("", saleHandler.ListSales)
		salesGroup.GET("/:id", saleHandler.GetSale)
	}

	transferHandler := handlers.NewTransferHandler(services.Transfers)
	transfersGroup := apiGroup.Group("/transfers")
	{
		transfersGroup.POST("", transferHandler.Create)
		transfersGroup.GET("", transferHandler.List)
		transfersGroup.POST("/:id/complete", transferHandler.Complete)
		transfersGroup.POST("/:id/cancel", transferHandler.Cancel)
	}

	inventoryHandler := handlers.NewInventoryHandler(services.Inventory)
	inventoryGroup := apiGroup.Group("/inventory")
	{
		inventoryGroup.POST("/adjust", inventoryHandler.Adjust)
		inventoryGroup.POST("/stock", inventoryHandler.SetStock)
		inventoryGroup.GET("/history", inventoryHandler.History)
		inventoryGroup.GET("/branch/:branchId", inventoryHandler.BranchInventory)
	}

	customerHandler := handlers.NewCustomerHandler(services.Credit)
	customersGroup := apiGroup.Group("/customers")
	{
		customersGroup.POST("/payment", customerHandler.RecordPayment)
		customersGroup.GET("", customerHandler.List)
	}

	financeHandler := handlers.NewFinanceHandler(services.Shifts)
	financeGroup := apiGroup.Group("/finance")
	{
		financeGroup.POST("/shifts/open", financeHandler.OpenShift)
		financeGroup.POST("/shifts/:id/close", financeHandler.CloseShift)
		financeGroup.GET("/shifts", financeHandler.ListShifts)
		financeGroup.POST("/movements", financeHandler.CreateCashMovement)
		financeGroup.GET("/movements", financeHandler.ListCashMovements)
		financeGroup.POST("/expenses", financeHandler.CreateExpense)
		financeGroup.GET("/expenses", financeHandler.ListExpenses)
	}

	systemHandler := handlers.NewSystemHandler(services.System)
	apiGroup.GET("/system/logs", systemHandler.ListLogs)

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
