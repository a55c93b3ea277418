package main

import (
	"fmt"
	"log"
	"os"

	"mecanosync-backend/config"
	"mecanosync-backend/models"
	"mecanosync-backend/routes"
	"mecanosync-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	config.InitLogger()
	config.ConnectDB()

	config.DB.AutoMigrate(
		&models.User{},
		&models.Shop{},
		&models.Customer{},
		&models.Vehicle{},
		&models.Service{},
		&models.ServiceOrder{},
		&models.ServiceOrderItem{},
		&models.Payment{},
		&models.NotificationLog{},
	)
}

func main() {
	services.NewOverdueNotifier(config.DB).StartScheduler()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r := routes.SetupRouter()
	printRoutes(r)
	r.Run(":" + port)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
