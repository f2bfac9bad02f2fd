package main

import (
	"database/sql"
	"net/http"
	"os"
	"time"

	_ "github.com/lib/pq"

	"eventboard/config"
	"eventboard/internal/adapters/auth"
	"eventboard/internal/adapters/email"
	"eventboard/internal/adapters/statsclient"
	delivery "eventboard/internal/delivery/http"
	"eventboard/internal/delivery/http/controllers"
	"eventboard/internal/delivery/http/middleware"
	"eventboard/internal/domain"
	"eventboard/internal/repository/postgres"
	"eventboard/internal/services"
)

const serviceTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Exit(1)
	}
	logger := config.NewLogger("main")

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("failed to ping database", "err", err)
		os.Exit(1)
	}

	eventRepo := postgres.NewEventRepository(db)
	locationRepo := postgres.NewLocationRepository(db)
	categoryRepo := postgres.NewCategoryRepository(db)
	userRepo := postgres.NewUserRepository(db)
	requestRepo := postgres.NewRequestRepository(db)
	compilationRepo := postgres.NewCompilationRepository(db)
	commentRepo := postgres.NewCommentRepository(db)

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:          cfg.Email.SESRegion,
			AccessKeyID:     cfg.Email.SESAccessKeyID,
			SecretAccessKey: cfg.Email.SESSecretAccessKey,
		},
	})
	if err != nil {
		logger.Error("failed to create mailer", "err", err)
		os.Exit(1)
	}
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer())
	stats := statsclient.NewHTTPClient(&http.Client{Timeout: 5 * time.Second}, cfg.StatsURL)

	eventService := services.NewEventService(
		eventRepo, locationRepo, categoryRepo, userRepo, requestRepo,
		stats, emailService, serviceTimeout,
	)
	requestService := services.NewRequestService(requestRepo, eventRepo, userRepo, serviceTimeout)
	categoryService := services.NewCategoryService(categoryRepo, eventRepo, serviceTimeout)
	userService := services.NewUserService(userRepo, serviceTimeout)
	compilationService := services.NewCompilationService(compilationRepo, eventRepo, eventService, serviceTimeout)
	commentService := services.NewCommentService(commentRepo, eventRepo, userRepo, serviceTimeout)

	var verifier domain.TokenVerifier
	if cfg.JWTSecret != "" {
		verifier = auth.NewJWTVerifier(cfg.JWTSecret)
	}

	mux := delivery.NewRouter(
		controllers.NewEventController(logger, eventService, stats, cfg.AppName),
		controllers.NewRequestController(logger, requestService),
		controllers.NewCategoryController(logger, categoryService),
		controllers.NewUserController(logger, userService),
		controllers.NewCompilationController(logger, compilationService),
		controllers.NewCommentController(logger, commentService),
		verifier,
	)
	handler := middleware.LoggingMiddleware(logger,
		middleware.CORS(cfg.CORSOrigins, mux))

	logger.Info("listening", "port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, handler); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
