package routes

import (
	"net/http"
	"strings"
	"time"

	"devhub/handlers"
	"devhub/middleware"
	"devhub/token"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Auth    *handlers.AuthHandler
	Profile *handlers.ProfileHandler
	Post    *handlers.PostHandler
	Github  *handlers.GithubHandler
}

func Setup(h Handlers, tokens *token.Service) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "API Running"})
	})
	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	auth := middleware.RequireAuth(tokens)
	credLimiter := middleware.NewIPRateLimiter(20, time.Minute)
	credLimit := middleware.RateLimit(credLimiter)

	// Users & auth
	router.POST("/api/users", credLimit, h.Auth.Register)
	router.POST("/api/auth", credLimit, h.Auth.Login)
	router.GET("/api/auth", auth, h.Auth.Current)

	// Profiles
	profile := router.Group("/api/profile")
	{
		profile.GET("", h.Profile.List)
		profile.GET("/me", auth, h.Profile.GetMe)
		profile.POST("", auth, h.Profile.Upsert)
		profile.DELETE("", auth, h.Profile.Delete)
		profile.GET("/user/:userId", h.Profile.GetByUser)
		profile.PUT("/experience", auth, h.Profile.AddExperience)
		profile.DELETE("/experience/:id", auth, h.Profile.DeleteExperience)
		profile.PUT("/education", auth, h.Profile.AddEducation)
		profile.DELETE("/education/:id", auth, h.Profile.DeleteEducation)
		profile.GET("/github/:username", h.Github.Repos)
	}

	// Posts
	posts := router.Group("/api/posts", auth)
	{
		posts.POST("", h.Post.Create)
		posts.GET("", h.Post.List)
		posts.GET("/:id", h.Post.GetByID)
		posts.DELETE("/:id", h.Post.Delete)
		posts.PUT("/like/:id", h.Post.Like)
		posts.PUT("/unlike/:id", h.Post.Unlike)
		posts.POST("/comment/:id", h.Post.AddComment)
		posts.DELETE("/comment/:id/:commentId", h.Post.DeleteComment)
	}

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{"msg": "Endpoint not found"})
			return
		}
		c.Status(http.StatusNotFound)
	})

	return router
}
