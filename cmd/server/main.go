package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/classroom-auth/internal/config"
	"github.com/iliyamo/classroom-auth/internal/database"
	"github.com/iliyamo/classroom-auth/internal/handler"
	"github.com/iliyamo/classroom-auth/internal/notifier"
	"github.com/iliyamo/classroom-auth/internal/queue"
	"github.com/iliyamo/classroom-auth/internal/repository"
	"github.com/iliyamo/classroom-auth/internal/router"
	"github.com/iliyamo/classroom-auth/internal/service"
	"github.com/iliyamo/classroom-auth/internal/token"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	blacklist := repository.NewBlacklistRepo(db)

	// Redis is optional: a nil client disables the ledger cache and every
	// revocation check goes to MySQL.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; revocation ledger cache disabled")
	}
	ledger := repository.NewCachedLedger(blacklist, rdb, cfg.RefreshTTL())

	codec := token.NewCodec(cfg.JWTSecret, cfg.AccessTTL(), cfg.RefreshTTL())
	svc := service.New(users, ledger, codec, notifier.NewAMQPNotifier(), cfg.EmailTokenTTL(), cfg.BcryptCost)

	// Background email delivery: the consumer reads auth.email and sends
	// over SMTP. It owns its own reconnect loop.
	go func() {
		if err := queue.StartEmailConsumer(); err != nil {
			log.Printf("email consumer stopped: %v", err)
		}
	}()

	// Ledger retention: rows older than the refresh lifetime guard tokens
	// that can no longer verify, so they are swept daily.
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			n, err := ledger.PruneOlderThan(ctx, time.Now().UTC().Add(-cfg.RefreshTTL()))
			cancel()
			if err != nil {
				log.Printf("ledger prune failed: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("ledger prune removed %d expired entries", n)
			}
		}
	}()

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(svc), codec, svc)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
