package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/laboissim/laboissim/internal/handlers"
	"github.com/laboissim/laboissim/internal/middleware"
	"github.com/laboissim/laboissim/internal/types"
)

func NewRouter() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Google OAuth bridge. The extra paths are aliases kept for older
	// frontend builds.
	google := r.Group("/auth")
	{
		google.GET("/google/login/", handlers.GoogleLogin)
		google.GET("/google/simple/", handlers.GoogleLogin)
		google.GET("/complete/google-oauth2/", handlers.GoogleLogin)
		google.GET("/google/jwt/", middleware.AuthMiddleware(), handlers.GoogleJWT)
	}

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/ws/notifications", middleware.AuthMiddleware(), handlers.NotificationSocket)

		// Credential and token exchange
		api.POST("/register/", handlers.Register)
		api.POST("/token/", handlers.TokenObtain)
		api.POST("/token/email/", handlers.TokenObtainEmail)
		api.POST("/token/refresh/", handlers.TokenRefresh)
		api.POST("/logout/", handlers.Logout)

		// Current user
		api.GET("/user/", middleware.AuthMiddleware(), handlers.Me)
		api.GET("/user/profile/", middleware.AuthMiddleware(), handlers.GetOwnProfile)
		api.PUT("/user/profile/", middleware.AuthMiddleware(), handlers.UpdateOwnProfile)
		api.POST("/user/avatar/", middleware.AuthMiddleware(), handlers.UploadAvatar)

		// Team page
		api.GET("/team-members/", handlers.TeamMembers)

		// Account administration
		users := api.Group("/users", middleware.AuthMiddleware(), middleware.StaffMiddleware())
		{
			users.POST("/:id/role", handlers.ChangeRole)
			users.POST("/:id/ban", handlers.BanUser)
			users.POST("/:id/unban", handlers.UnbanUser)
			users.DELETE("/:id", handlers.DeleteUser)
		}

		// Site content singleton
		api.GET("/site-content/", handlers.GetSiteContent)
		api.PUT("/site-content/", middleware.AuthMiddleware(), middleware.StaffMiddleware(), handlers.UpdateSiteContent)

		// Shared file library
		files := api.Group("/files", middleware.AuthMiddleware())
		{
			files.GET("", handlers.ListFiles)
			files.POST("", handlers.UploadFile)
			files.GET("/:id/download", handlers.DownloadFile)
			files.DELETE("/:id", handlers.DeleteFile)
		}

		// Publications: public read, authenticated write
		api.GET("/publications", handlers.ListPublications)
		api.GET("/publications/:id", handlers.GetPublication)
		publications := api.Group("/publications", middleware.AuthMiddleware())
		{
			publications.POST("", handlers.CreatePublication)
			publications.PUT("/:id", handlers.UpdatePublication)
			publications.DELETE("/:id", handlers.DeletePublication)
		}

		// Projects and documents: public read, authenticated write
		api.GET("/projects", handlers.ListProjects)
		api.GET("/projects/:id", handlers.GetProject)
		api.GET("/projects/:id/documents", handlers.ListProjectDocuments)
		api.GET("/project-documents/:id/download", handlers.DownloadProjectDocument)
		projects := api.Group("/projects", middleware.AuthMiddleware())
		{
			projects.POST("", handlers.CreateProject)
			projects.PUT("/:id", handlers.UpdateProject)
			projects.DELETE("/:id", handlers.DeleteProject)
			projects.POST("/:id/documents", handlers.UploadProjectDocument)
		}
		api.DELETE("/project-documents/:id", middleware.AuthMiddleware(), handlers.DeleteProjectDocument)

		// Events and registrations
		api.GET("/events", handlers.ListEvents)
		api.GET("/events/:id", handlers.GetEvent)
		events := api.Group("/events", middleware.AuthMiddleware())
		{
			events.POST("", handlers.CreateEvent)
			events.PUT("/:id", handlers.UpdateEvent)
			events.DELETE("/:id", handlers.DeleteEvent)
			events.POST("/:id/register", handlers.RegisterForEvent)
			events.POST("/:id/cancel", handlers.CancelRegistration)
		}
		api.GET("/registrations", middleware.AuthMiddleware(), handlers.MyRegistrations)
		api.POST("/registrations/:id/confirm", middleware.AuthMiddleware(), handlers.ConfirmRegistration)

		// Internal messaging
		messages := api.Group("/messages", middleware.AuthMiddleware())
		{
			messages.POST("", handlers.SendMessage)
			messages.GET("/inbox", handlers.Inbox)
			messages.GET("/sent", handlers.SentMessages)
			messages.GET("/conversation/:user_id", handlers.Conversation)
			messages.POST("/:id/read", handlers.MarkMessageRead)
			messages.DELETE("/:id", handlers.DeleteMessage)
		}

		// Public contact form and membership applications
		api.POST("/contact/", handlers.SubmitContactMessage)
		api.POST("/account-requests/", handlers.SubmitAccountRequest)
		admin := api.Group("", middleware.AuthMiddleware(), middleware.StaffMiddleware())
		{
			admin.GET("/contact/", handlers.ListContactMessages)
			admin.PUT("/contact/:id/status", handlers.UpdateContactMessageStatus)
			admin.GET("/account-requests/", handlers.ListAccountRequests)
			admin.PUT("/account-requests/:id/status", handlers.ResolveAccountRequest)
		}
	}

	return r
}
