package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/emilythestrangee/subs/backend/internal/auth"
	"github.com/emilythestrangee/subs/backend/internal/config"
	"github.com/emilythestrangee/subs/backend/internal/database"
	"github.com/emilythestrangee/subs/backend/internal/handlers"
	"github.com/emilythestrangee/subs/backend/internal/middleware"
)

type Server struct {
	cfg     config.Config
	db      database.Service
	handler *handlers.Handler
	tokens  *auth.Tokens
	logger  *slog.Logger
}

func New(cfg config.Config, db database.Service, logger *slog.Logger) *Server {
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)

	return &Server{
		cfg:     cfg,
		db:      db,
		handler: handlers.NewHandler(db.GetDB(), tokens, cfg.CookieSecure, logger),
		tokens:  tokens,
		logger:  logger,
	}
}

// HTTPServer wraps the router in an http.Server with the service timeouts.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         "0.0.0.0:" + s.cfg.Port,
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(s.logger))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     s.cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		stats := s.db.Health()
		status := http.StatusOK
		if stats["status"] != "up" {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, stats)
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.Use(middleware.UserMiddleware(s.tokens, s.handler.Store, s.logger))
	{
		// Auth routes (public)
		api.POST("/auth/register", s.handler.Auth.Register)
		api.POST("/auth/login", s.handler.Auth.Login)

		// Public reads, projected for the viewer when there is one
		api.GET("/subs/:name", s.handler.Sub.GetSub)
		api.GET("/posts", s.handler.Post.GetPosts)
		api.GET("/posts/:identifier/:slug", s.handler.Post.GetPost)
		api.GET("/posts/:identifier/:slug/comments", s.handler.Comment.GetComments)
		api.GET("/users/:username", s.handler.User.GetUserProfile)

		// Protected routes (authentication required)
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.GET("/auth/me", s.handler.Auth.GetMe)
			protected.POST("/auth/logout", s.handler.Auth.Logout)

			protected.POST("/subs", s.handler.Sub.CreateSub)

			protected.POST("/posts", s.handler.Post.CreatePost)
			protected.PUT("/posts/:identifier/:slug", s.handler.Post.UpdatePost)
			protected.DELETE("/posts/:identifier/:slug", s.handler.Post.DeletePost)

			protected.POST("/posts/:identifier/:slug/comments", s.handler.Comment.CreateComment)
			protected.PUT("/comments/:identifier", s.handler.Comment.UpdateComment)
			protected.DELETE("/comments/:identifier", s.handler.Comment.DeleteComment)

			protected.POST("/votes", s.handler.Vote.Vote)
		}
	}

	return r
}
