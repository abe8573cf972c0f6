package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/rudzz/marketplace-api/internal/auth"
	"github.com/rudzz/marketplace-api/internal/config"
	"github.com/rudzz/marketplace-api/internal/database"
	"github.com/rudzz/marketplace-api/internal/handler"
	"github.com/rudzz/marketplace-api/internal/repository"
	"github.com/rudzz/marketplace-api/internal/router"
	"github.com/rudzz/marketplace-api/internal/stats"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the environment directly

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	tokens := auth.NewTokenService(cfg.JWTSecret)
	providers := repository.NewProviderRepo(db)
	appointments := repository.NewAppointmentRepo(db)
	reviews := repository.NewReviewRepo(db)
	services := repository.NewServiceRepo(db)
	engine := stats.NewEngine(repository.NewStatsRepo(db))

	rdb := config.NewRedisClient() // nil disables rate limiting
	if rdb == nil {
		log.Println("redis unavailable, auth rate limiting disabled")
	}

	e := echo.New()
	router.Register(e, router.Handlers{
		Auth:         handler.NewAuthHandler(cfg, providers, tokens),
		Appointments: handler.NewAppointmentHandler(appointments),
		Reviews:      handler.NewReviewHandler(reviews),
		Services:     handler.NewServiceHandler(services),
		Profile:      handler.NewProfileHandler(providers),
		Stats:        handler.NewStatsHandler(engine),
	}, tokens, config.LoadRateLimitConfig(), rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
