package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/airport-operations/internal/activity"
	"github.com/iliyamo/airport-operations/internal/config"
	"github.com/iliyamo/airport-operations/internal/database"
	"github.com/iliyamo/airport-operations/internal/handler"
	"github.com/iliyamo/airport-operations/internal/middleware"
	"github.com/iliyamo/airport-operations/internal/queue"
	"github.com/iliyamo/airport-operations/internal/repository"
	"github.com/iliyamo/airport-operations/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	runways := repository.NewRunwayRepo(db)
	flights := repository.NewFlightRepo(db)
	passengers := repository.NewPassengerRepo(db)
	alerts := repository.NewAlertRepo(db)
	activityRepo := repository.NewActivityRepo(db)
	recorder := activity.NewRecorder(activityRepo)

	e := echo.New()
	e.HideBanner = true

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), cfg.JWTSecret)

	// Redis-backed middleware is optional: without a reachable Redis
	// the service still runs, just without response caching and rate
	// limiting.
	var extra []echo.MiddlewareFunc
	if rdb := config.NewRedisClient(); rdb != nil {
		rlCfg := config.LoadRateLimitConfig()
		if rlCfg.Enabled {
			extra = append(extra, middleware.NewTokenBucket(rlCfg, rdb))
		}
		cacheCfg := config.LoadCacheConfig()
		if cacheCfg.Enabled {
			extra = append(extra, middleware.NewRedisCache(cacheCfg, rdb))
		}
	} else {
		log.Println("redis unavailable, cache and rate limiting disabled")
	}

	router.RegisterOps(e, router.OpsHandlers{
		Runways:    handler.NewRunwayHandler(runways, recorder),
		Flights:    handler.NewFlightHandler(flights, runways, alerts, recorder),
		Passengers: handler.NewPassengerHandler(passengers, recorder),
		Alerts:     handler.NewAlertHandler(alerts, recorder),
		Activity:   handler.NewActivityHandler(activityRepo),
		Admin:      handler.NewAdminHandler(users, recorder),
	}, cfg.JWTSecret, extra...)

	// Change-event consumer; reconnects on its own until shutdown.
	go func() {
		if err := queue.StartChangeConsumer(); err != nil {
			log.Printf("change consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
