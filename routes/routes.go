package routes

import (
	"database/sql"

	"careerpath_portal/handlers"
	"careerpath_portal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all the routes for the application
func SetupRoutes(r *gin.Engine, p *handlers.Portal, database *sql.DB) {
	// Initialize handlers
	authHandler := handlers.NewAuthHandler(p)
	exploreHandler := handlers.NewExploreHandler(p)
	commentHandler := handlers.NewCommentHandler(p)
	profileHandler := handlers.NewProfileHandler(p)
	categoryHandler := handlers.NewCategoryHandler(p)
	healthHandler := handlers.NewHealthHandler(database)

	// Public routes
	r.GET("/health", healthHandler.HealthCheck)
	r.GET("/categories", categoryHandler.GetCategories)
	r.POST("/register", authHandler.Register)
	r.POST("/login", authHandler.Login)

	// Anonymous visitors may browse
	public := r.Group("/")
	public.Use(middleware.OptionalAuth(p.Tokens, p.Sessions, p.Pages, p.Logger))
	{
		public.GET("/explore", exploreHandler.Explore)
		public.GET("/posts/:id", exploreHandler.GetPost)
	}

	// Protected routes
	protected := r.Group("/")
	protected.Use(middleware.AuthMiddleware(p.Tokens, p.Sessions, p.Pages, p.Logger))
	{
		protected.POST("/logout", authHandler.Logout)

		// Post routes
		protected.POST("/posts/:id/like", exploreHandler.LikePost)
		protected.POST("/journeys", exploreHandler.SubmitJourney)
		protected.GET("/dashboard", exploreHandler.Dashboard)

		// Comment routes
		protected.POST("/posts/:id/comments", commentHandler.CreateComment)
		protected.PUT("/posts/:id/comments/:commentId", commentHandler.UpdateComment)
		protected.DELETE("/posts/:id/comments/:commentId", commentHandler.DeleteComment)

		// Profile routes
		protected.GET("/me", profileHandler.Me)
		protected.PUT("/me", profileHandler.UpdateProfile)
		protected.POST("/me/password", profileHandler.ChangePassword)
	}
}
