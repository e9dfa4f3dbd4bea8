package main

import (
	"log"
	"time"

	"katha-pos/internal/config"
	"katha-pos/internal/database"
	"katha-pos/internal/handlers"
	"katha-pos/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found")
	}
	cfg := config.Load()

	db, err := database.Connect(cfg.DBDSN)
	if err != nil {
		log.Fatal("❌ Database: ", err)
	}

	h := handlers.New(cfg, db)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", cfg.BaseURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "online"}) })
	r.POST("/login", h.Login)

	// Signup only opens if explicitly allowed in .env
	if cfg.AllowRegistration {
		r.POST("/register", h.Register)
		log.Println("⚠️ WARNING: Registration route is OPEN. Disable this in production!")
	} else {
		log.Println("🔒 Registration route is safely DISABLED.")
	}

	// --- PROTECTED ROUTES ---
	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware([]byte(cfg.JWTSecret)))
	{
		// STAFF & ADMIN
		api.GET("/products", h.GetProducts)
		api.POST("/checkout", h.Checkout)
		api.GET("/customers", h.GetCustomers)
		api.GET("/customers/:id/transactions", h.GetCustomerTransactions)

		// ADMIN ONLY
		admin := api.Group("/")
		admin.Use(middleware.RequireRole("admin"))
		{
			admin.POST("/products", h.AddProduct)
			admin.PUT("/products/:id", h.UpdateProduct)
			admin.DELETE("/products/:id", h.DeleteProduct)

			admin.POST("/customers", h.AddCustomer)
			admin.DELETE("/customers/:id", h.DeleteCustomer)
			admin.PUT("/customers/:id/debt", h.SetCustomerDebt)

			admin.GET("/reports", h.GetSalesReport)
			admin.GET("/reports/revenue/daily", h.GetDailyRevenue)
			admin.POST("/insights", h.GetInsights)
		}
	}

	log.Println("🚀 Server starting on " + cfg.BaseURL)
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal("Server failed to start:", err)
	}
}
