package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/medazero01-art/scuderiarentals/internal/config"
	"github.com/medazero01-art/scuderiarentals/internal/database"
	"github.com/medazero01-art/scuderiarentals/internal/handler"
	"github.com/medazero01-art/scuderiarentals/internal/middleware"
	"github.com/medazero01-art/scuderiarentals/internal/queue"
	"github.com/medazero01-art/scuderiarentals/internal/repository"
	"github.com/medazero01-art/scuderiarentals/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: a nil client disables response caching and rate
	// limiting, and the API keeps working without them.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; cache and rate limiting disabled")
	}
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	users := repository.NewUserRepo(db)
	cars := repository.NewCarRepo(db)
	reservations := repository.NewReservationRepo(db)

	authHandler := handler.NewAuthHandler(cfg, users)
	carHandler := handler.NewCarHandler(cars)
	reservationHandler := handler.NewReservationHandler(reservations, cars)

	e := echo.New()
	e.Validator = handler.NewValidator()
	e.Use(echomw.CORS())

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret, limiter)
	router.RegisterCars(e, carHandler, cfg.JWTSecret, cache)
	router.RegisterReservations(e, reservationHandler, cfg.JWTSecret, cache)

	// The status consumer reconnects on its own; run it for the life of
	// the process.
	go func() {
		if err := queue.StartStatusConsumer(); err != nil {
			log.Printf("status consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
