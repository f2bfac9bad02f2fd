package main

import (
	"database/sql"
	"net/http"
	"os"
	"time"

	_ "github.com/lib/pq"

	"eventboard/config"
	delivery "eventboard/internal/delivery/http"
	"eventboard/internal/delivery/http/controllers"
	"eventboard/internal/delivery/http/middleware"
	"eventboard/internal/repository/postgres"
	"eventboard/internal/services"
)

const serviceTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Exit(1)
	}
	logger := config.NewLogger("stats")

	db, err := sql.Open("postgres", cfg.StatsDBUrl)
	if err != nil {
		logger.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("failed to ping database", "err", err)
		os.Exit(1)
	}

	hitRepo := postgres.NewHitRepository(db)
	statsService := services.NewStatsService(hitRepo, serviceTimeout)

	mux := delivery.NewStatsRouter(controllers.NewStatsController(logger, statsService))
	handler := middleware.LoggingMiddleware(logger, mux)

	logger.Info("listening", "port", cfg.StatsPort)
	if err := http.ListenAndServe(":"+cfg.StatsPort, handler); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
