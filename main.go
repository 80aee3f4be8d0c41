package main

import (
	"fmt"
	"log"
	"os"

	"crmdesk-backend/config"
	"crmdesk-backend/models"
	"crmdesk-backend/routes"
	"crmdesk-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	config.ConnectDB()

	config.DB.AutoMigrate(
		&models.User{},
		&models.Organisation{},
		&models.Contact{},
		&models.Lead{},
		&models.Client{},
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.Payment{},
		&models.Champion{},
		&models.Activity{},
		&models.EmailTemplate{},
		&models.DispatchLog{},
	)
}

func main() {

	scheduler := services.NewSchedulerService(config.DB)
	scheduler.StartScheduler()

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
