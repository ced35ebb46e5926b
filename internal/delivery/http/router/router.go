// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"taskhub/internal/delivery/http/middleware"
	"taskhub/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler         *handler.AuthHandler
	TaskHandler         *handler.TaskHandler
	CategoryHandler     *handler.CategoryHandler
	CommentHandler      *handler.CommentHandler
	NotificationHandler *handler.NotificationHandler
	UserHandler         *handler.UserHandler
	StatsHandler        *handler.StatsHandler
	AuthMiddleware      *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler         *handler.AuthHandler
	taskHandler         *handler.TaskHandler
	categoryHandler     *handler.CategoryHandler
	commentHandler      *handler.CommentHandler
	notificationHandler *handler.NotificationHandler
	userHandler         *handler.UserHandler
	statsHandler        *handler.StatsHandler
	authMiddleware      *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:         params.AuthHandler,
		taskHandler:         params.TaskHandler,
		categoryHandler:     params.CategoryHandler,
		commentHandler:      params.CommentHandler,
		notificationHandler: params.NotificationHandler,
		userHandler:         params.UserHandler,
		statsHandler:        params.StatsHandler,
		authMiddleware:      params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	api := e.Group("/api")

	// Auth routes
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", r.authHandler.Register)
		authGroup.POST("/login", r.authHandler.Login)
		authGroup.POST("/refresh-token", r.authHandler.Refresh)
		authGroup.POST("/forgot-password", r.authHandler.ForgotPassword)
		authGroup.POST("/reset-password", r.authHandler.ResetPassword)
		authGroup.POST("/logout", r.authHandler.Logout, r.authMiddleware.Authenticate)
		authGroup.POST("/change-password", r.authHandler.ChangePassword, r.authMiddleware.Authenticate)
	}

	// Task routes
	taskGroup := api.Group("/tasks")
	taskGroup.Use(r.authMiddleware.Authenticate)
	{
		taskGroup.POST("", r.taskHandler.Create)
		taskGroup.GET("", r.taskHandler.List)
		taskGroup.GET("/:id", r.taskHandler.Get)
		taskGroup.PATCH("/:id", r.taskHandler.Update)
		taskGroup.DELETE("/:id", r.taskHandler.Delete)
	}

	// Category routes
	categoryGroup := api.Group("/categories")
	categoryGroup.Use(r.authMiddleware.Authenticate)
	{
		categoryGroup.POST("", r.categoryHandler.Create)
		categoryGroup.GET("", r.categoryHandler.List)
		categoryGroup.GET("/:id", r.categoryHandler.Get)
		categoryGroup.PATCH("/:id", r.categoryHandler.Update)
		categoryGroup.DELETE("/:id", r.categoryHandler.Delete)
	}

	// Comment routes
	commentGroup := api.Group("/comments")
	commentGroup.Use(r.authMiddleware.Authenticate)
	{
		commentGroup.POST("", r.commentHandler.Create)
		commentGroup.GET("", r.commentHandler.ListByTask)
		commentGroup.PATCH("/:id", r.commentHandler.Update)
		commentGroup.DELETE("/:id", r.commentHandler.Delete)
	}

	// Notification routes
	notificationGroup := api.Group("/notifications")
	notificationGroup.Use(r.authMiddleware.Authenticate)
	{
		notificationGroup.GET("", r.notificationHandler.List)
		notificationGroup.PATCH("", r.notificationHandler.MarkAllRead)
		notificationGroup.PATCH("/:id", r.notificationHandler.Update)
		notificationGroup.DELETE("/:id", r.notificationHandler.Delete)
	}

	// User routes: self-service first, then the admin surface
	userGroup := api.Group("/users")
	userGroup.Use(r.authMiddleware.Authenticate)
	{
		userGroup.GET("/me", r.userHandler.GetProfile)
		userGroup.PATCH("/me", r.userHandler.UpdateProfile)
		userGroup.GET("/me/activity", r.userHandler.GetActivity)

		userGroup.GET("", r.userHandler.List, r.authMiddleware.RequireAdmin)
		userGroup.GET("/:id", r.userHandler.Get, r.authMiddleware.RequireAdmin)
		userGroup.PATCH("/:id", r.userHandler.AdminUpdate, r.authMiddleware.RequireAdmin)
		userGroup.DELETE("/:id", r.userHandler.Delete, r.authMiddleware.RequireAdmin)
	}

	// Stats routes
	statsGroup := api.Group("/stats")
	statsGroup.Use(r.authMiddleware.Authenticate)
	{
		statsGroup.GET("/tasks", r.statsHandler.TaskStats)
		statsGroup.GET("/productivity", r.statsHandler.ProductivityStats)
		statsGroup.GET("/projects", r.statsHandler.ProjectStats, r.authMiddleware.RequireAdmin)
	}
}
