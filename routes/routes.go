package routes

import (
	"mecanosync-backend/config"
	"mecanosync-backend/controllers"
	"mecanosync-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.RequestLogger())

	auth := r.Group("/auth")
	{
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
		auth.PUT("/change-password", controllers.ChangePassword)
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	api.Use(controllers.TenantMiddleware())
	{
		// Customer routes
		customers := api.Group("/customers", controllers.RequireModule(controllers.ModuleCustomers))
		{
			customers.POST("", controllers.CreateCustomer)
			customers.GET("", controllers.GetCustomers)
			customers.GET("/:id", controllers.GetCustomer)
			customers.PUT("/:id", controllers.UpdateCustomer)
			customers.DELETE("/:id", controllers.DeleteCustomer)
		}

		// Vehicle routes (part of the customers area)
		vehicles := api.Group("/vehicles", controllers.RequireModule(controllers.ModuleCustomers))
		{
			vehicles.GET("", controllers.GetCustomerVehicles)
			vehicles.POST("", controllers.CreateVehicle)
			vehicles.GET("/:id", controllers.GetVehicle)
			vehicles.PUT("/:id", controllers.UpdateVehicle)
			vehicles.DELETE("/:id", controllers.DeleteVehicle)
		}

		// Service order routes
		orders := api.Group("/orders", controllers.RequireModule(controllers.ModuleOrders))
		{
			orders.POST("", controllers.CreateOrder)
			orders.GET("", controllers.GetOrders)
			orders.GET("/:id", controllers.GetOrder)
			orders.PUT("/:id", controllers.UpdateOrder)
			orders.PUT("/:id/status", controllers.ChangeOrderStatus)
		}

		// Payment routes
		payments := api.Group("/payments", controllers.RequireModule(controllers.ModuleBilling))
		{
			payments.GET("", controllers.GetPayments)
			payments.PUT("/:id/status", controllers.ChangePaymentStatus)
			payments.PUT("/:id/method", controllers.ChangePaymentMethod)
		}

		// Service catalog (read-only for shop users)
		catalog := api.Group("/catalog")
		{
			catalog.GET("", controllers.GetCatalog)
			catalog.GET("/:id", controllers.GetCatalogService)
		}

		// Reports routes
		reports := api.Group("/reports", controllers.RequireModule(controllers.ModuleReports))
		{
			reports.GET("/billing", controllers.GetBillingReport)
		}

		// Dashboard routes
		api.GET("/dashboard", controllers.GetDashboard)

		// Profile routes
		api.GET("/profile", controllers.GetProfile)
	}

	admin := r.Group("/admin")
	admin.Use(utils.AuthMiddleware())
	admin.Use(controllers.RequireSuperuser())
	{
		admin.GET("/overview", controllers.GetPlatformOverview)

		shops := admin.Group("/shops")
		{
			shops.POST("", controllers.CreateShop)
			shops.GET("/:id", controllers.GetShop)
			shops.PUT("/:id", controllers.UpdateShop)
			shops.PUT("/:id/toggle", controllers.ToggleShop)
			shops.DELETE("/:id", controllers.DeleteShop)
			shops.POST("/:id/reset-password", controllers.ResetOwnerPassword)
		}

		// Catalog management is platform-wide, superuser only
		catalog := admin.Group("/catalog")
		{
			catalog.POST("", controllers.CreateCatalogService)
			catalog.PUT("/:id", controllers.UpdateCatalogService)
			catalog.DELETE("/:id", controllers.DeleteCatalogService)
		}
	}

	return r
}
