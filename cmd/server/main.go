package main

import (
	"log"
	"net/http"

	_ "quill/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"quill/internal/auth"
	"quill/internal/cache"
	"quill/internal/config"
	"quill/internal/db"
	"quill/internal/handler"
	"quill/internal/images"
	"quill/internal/mail"
	"quill/internal/metrics"
	"quill/internal/model"
	"quill/internal/repository"
	"quill/internal/router"
	"quill/internal/service"
	"quill/internal/session"
)

// @title Quill Blog API
// @version 1.0
// @description Multi-user blog with cookie sessions, password reset over email and paginated posts.
// @host localhost:8080
// @schemes http
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(&model.User{}, &model.Post{}); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	metrics.Init()

	imageStore, err := images.NewStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("image store init: %v", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	postRepo := repository.NewPostRepository(gormDB)

	// Initialize auth components
	resetSigner := auth.NewResetTokenSigner(cfg.SecretKey, cfg.ResetTokenTTL)
	tokenStore := auth.NewTokenStore(cacheClient)
	sessions := session.NewManager(cfg.SecretKey, cfg.SessionTTL, cfg.RememberTTL, tokenStore)
	mailer := mail.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailSender)

	// Initialize services
	authService := service.NewAuthService(userRepo, resetSigner, mailer, cfg.BaseURL)
	userService := service.NewUserService(userRepo, imageStore)
	postService := service.NewPostService(postRepo, userRepo, cacheClient)

	// Initialize handlers
	mainHandler := handler.NewMainHandler(postService)
	authHandler := handler.NewAuthHandler(authService, userRepo, sessions, resetSigner)
	userHandler := handler.NewUserHandler(userService, postService, userRepo, sessions)
	postHandler := handler.NewPostHandler(postService, sessions)

	// Register routes
	router.Register(
		e,
		cfg,
		sessions,
		mainHandler,
		authHandler,
		userHandler,
		postHandler,
	)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
