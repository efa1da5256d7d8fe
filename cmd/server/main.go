package main // Entry point package

import (
	"log"
	"log/slog"
	"os"

	"github.com/felps-dev/i-revenue-api/internal/config"
	"github.com/felps-dev/i-revenue-api/internal/database"
	"github.com/felps-dev/i-revenue-api/internal/docs"
	"github.com/felps-dev/i-revenue-api/internal/middleware"
	"github.com/felps-dev/i-revenue-api/internal/repository"
	"github.com/felps-dev/i-revenue-api/internal/router"
)

func main() {
	cfg := config.Load()
	rlCfg := config.LoadRateLimitConfig()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).
		With(slog.String("service.name", cfg.ServiceName))

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	e := router.New(router.Deps{
		Cfg:      cfg,
		Logger:   logger,
		Limiter:  middleware.NewRateLimiter(rlCfg),
		Sessions: docs.NewSessionStore(docs.DefaultSessionTTL),
		Users:    repository.NewUserRepo(db),
		Revenues: repository.NewRevenueRepo(db),
	})

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
