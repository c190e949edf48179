package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"devhub/config"
	"devhub/database"
	"devhub/github"
	"devhub/handlers"
	"devhub/repository"
	"devhub/routes"
	"devhub/token"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	log := logrus.New()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	log.Info("connecting to MongoDB")

	var store *database.Store
	for i := 1; i <= 3; i++ {
		store, err = database.Connect(context.Background(), cfg.MongoURI, cfg.DBName)
		if err == nil {
			break
		}
		log.WithError(err).Warnf("MongoDB connection attempt %d failed", i)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		log.WithError(err).Fatal("failed to connect to MongoDB")
	}
	defer store.Disconnect(context.Background())

	if err := store.EnsureIndexes(context.Background()); err != nil {
		log.WithError(err).Fatal("failed to create indexes")
	}

	log.Info("MongoDB connected")

	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	tokens := token.NewService(cfg.JWTSecret)
	users := repository.NewUserRepository(store)
	profiles := repository.NewProfileRepository(store)
	posts := repository.NewPostRepository(store)

	router := routes.Setup(routes.Handlers{
		Auth:    handlers.NewAuthHandler(users, tokens, log),
		Profile: handlers.NewProfileHandler(profiles, posts, users, log),
		Post:    handlers.NewPostHandler(posts, users, log),
		Github:  handlers.NewGithubHandler(github.NewClient(cfg.GithubToken), log),
	}, tokens)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infof("server listening on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("forced shutdown")
	}

	log.Info("server stopped")
}
