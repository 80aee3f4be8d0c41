package routes

import (
	"os"
	"strings"

	"crmdesk-backend/config"
	"crmdesk-backend/controllers"
	"crmdesk-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func allowedOrigins() []string {
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		return strings.Split(env, ",")
	}
	return []string{"http://localhost:3000"}
}

func SetupRouter() *gin.Engine {
	r := gin.Default()

	origins := allowedOrigins()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		// Organisation routes
		organisations := api.Group("/organisations")
		{
			organisations.POST("", controllers.CreateOrganisation)
			organisations.GET("", controllers.GetOrganisations)
			organisations.GET("/:id", controllers.GetOrganisation)
			organisations.PUT("/:id", controllers.UpdateOrganisation)
			organisations.DELETE("/:id", controllers.DeleteOrganisation)
		}

		// Contact routes
		contacts := api.Group("/contacts")
		{
			contacts.POST("", controllers.CreateContact)
			contacts.GET("", controllers.GetContacts)
			contacts.GET("/:id", controllers.GetContact)
			contacts.PUT("/:id", controllers.UpdateContact)
			contacts.DELETE("/:id", controllers.DeleteContact)
		}

		// Lead routes
		leads := api.Group("/leads")
		{
			leads.POST("", controllers.CreateLead)
			leads.GET("", controllers.GetLeads)
			leads.GET("/:id", controllers.GetLead)
			leads.PUT("/:id", controllers.UpdateLead)
			leads.PUT("/:id/stage", controllers.UpdateLeadStage)
			leads.POST("/bulk-delete", controllers.BulkDeleteLeads)
		}

		// Client routes
		clients := api.Group("/clients")
		{
			clients.POST("", controllers.CreateClient)
			clients.GET("", controllers.GetClients)
			clients.GET("/views", controllers.GetClientViews)
			clients.GET("/:id", controllers.GetClient)
			clients.PUT("/:id", controllers.UpdateClient)
			clients.DELETE("/:id", controllers.DeleteClient)
			clients.POST("/:id/mrr-from-invoices", controllers.UpdateClientMRR)
			clients.GET("/:id/balance", controllers.GetClientBalance)
		}

		// Invoice routes
		invoices := api.Group("/invoices")
		{
			invoices.POST("", controllers.CreateInvoice)
			invoices.GET("", controllers.GetInvoices)
			invoices.GET("/:id", controllers.GetInvoice)
			invoices.PUT("/:id", controllers.UpdateInvoice)
			invoices.DELETE("/:id", controllers.DeleteInvoice)
			invoices.POST("/:id/send", controllers.SendInvoice)
			invoices.POST("/:id/mark-paid", controllers.MarkInvoicePaid)
		}

		// Payment routes
		payments := api.Group("/payments")
		{
			payments.POST("", controllers.CreatePayment)
			payments.GET("", controllers.GetPayments)
			payments.DELETE("/:id", controllers.DeletePayment)
		}

		// Champion routes
		champions := api.Group("/champions")
		{
			champions.POST("", controllers.CreateChampion)
			champions.GET("", controllers.GetChampions)
			champions.PUT("/:id", controllers.UpdateChampion)
			champions.DELETE("/:id", controllers.DeleteChampion)
			champions.POST("/toggle", controllers.ToggleChampion)
		}

		// Activity routes (append-only)
		activities := api.Group("/activities")
		{
			activities.POST("", controllers.CreateActivity)
			activities.GET("", controllers.GetActivities)
		}

		// Template and campaign routes
		templates := api.Group("/templates")
		{
			templates.POST("", controllers.CreateTemplate)
			templates.GET("", controllers.GetTemplates)
			templates.PUT("/:id", controllers.UpdateTemplate)
			templates.DELETE("/:id", controllers.DeleteTemplate)
		}
		campaigns := api.Group("/campaigns")
		{
			campaigns.POST("/send", controllers.SendCampaign)
			campaigns.POST("/send-sms", controllers.SendBulkSMS)
			campaigns.GET("/logs", controllers.GetDispatchLogs)
		}

		// Dashboard routes
		api.GET("/dashboard", controllers.GetDashboardOverview)
		api.GET("/pipeline", controllers.GetPipelineOverview)

		// Settings routes
		profile := auth.Group("/profile", utils.AuthMiddleware())
		{
			profile.GET("", controllers.GetProfile)
			profile.PUT("", controllers.UpdateProfile)
			profile.PUT("/settings", controllers.UpdateSettings)
		}
	}

	return r
}
