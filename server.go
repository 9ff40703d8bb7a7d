package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bitbucket.org/mmdatafocus/retail_backend/config"
	"bitbucket.org/mmdatafocus/retail_backend/handlers"
	"bitbucket.org/mmdatafocus/retail_backend/middlewares"
	"bitbucket.org/mmdatafocus/retail_backend/models"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
)

const defaultPort = "8080"

var tracer = otel.Tracer("retail-backend")

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Correlation-Id"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(middlewares.CorrelationIdMiddleware())
	router.Use(middlewares.AuthMiddleware())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.POST("/auth/login", handlers.LoginHandler())

	api := router.Group("/api", middlewares.RequireAuth())
	{
		api.GET("/reports/financial-summary", handlers.FinancialSummaryHandler())
		api.GET("/reports/financial-summary/export", handlers.ExportFinancialSummaryHandler())
		api.GET("/reports/employee-profits", handlers.EmployeeProfitReportHandler())

		api.GET("/settlements/requests", handlers.ListSettlementRequestsHandler())
		api.POST("/settlements/requests", handlers.RequestSettlementHandler())
		api.POST("/settlements/requests/:id/approve", handlers.ApproveSettlementHandler())
		api.POST("/settlements/requests/:id/reject", handlers.RejectSettlementHandler())

		api.GET("/settlements/invoices", handlers.ListInvoicesHandler())
		api.GET("/settlements/invoices/export", handlers.ExportInvoicesHandler())
		api.GET("/settlements/invoices/:id", handlers.GetInvoiceHandler())
		api.GET("/settlements/invoices/:id/orders", handlers.GetInvoiceOrdersHandler())

		api.GET("/settlements/reconciliation", handlers.ReconciliationHandler())

		api.GET("/orders/eligible", handlers.ListEligibleOrdersHandler())
		api.GET("/orders/:id", handlers.GetOrderHandler())
		api.POST("/orders/archive", handlers.ArchiveOrdersHandler())

		api.GET("/profit-records", handlers.ListProfitRecordsHandler())

		api.GET("/expenses", handlers.ListExpensesHandler())
		api.POST("/expenses", handlers.CreateExpenseHandler())

		api.GET("/users", handlers.ListUsersHandler())
		api.POST("/users", handlers.CreateUserHandler())
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		log.Printf("listening on :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	// Connect after the listener is up; the DB retry loop must not block
	// startup.
	config.ConnectDatabaseWithRetry()
	config.ConnectRedis()
	models.MigrateTable()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server shutdown: %v", err)
	}
}
