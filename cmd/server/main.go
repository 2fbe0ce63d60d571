package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/ignite/gametrade/internal/api"
	"github.com/ignite/gametrade/internal/auth"
	"github.com/ignite/gametrade/internal/config"
	"github.com/ignite/gametrade/internal/notify"
	"github.com/ignite/gametrade/internal/repository/postgres"
	"github.com/ignite/gametrade/internal/service/game"
	"github.com/ignite/gametrade/internal/service/trade"
	"github.com/ignite/gametrade/internal/service/user"
)

func main() {
	log.Println("Starting Video Game Trading API...")

	cfg, err := config.LoadFromEnv(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelPing()
	if err := db.PingContext(pingCtx); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	log.Println("Connected to database")

	publisher := notify.NewStreamPublisher(cfg.Queue.Addr, cfg.Queue.Topic,
		time.Duration(cfg.Queue.TimeoutSeconds)*time.Second)
	defer publisher.Close()

	userRepo := postgres.NewUserRepo(db)
	gameRepo := postgres.NewGameRepo(db)
	offerRepo := postgres.NewTradeOfferRepo(db)

	users := user.NewService(userRepo, publisher)
	games := game.NewService(gameRepo, userRepo)
	trades := trade.NewService(offerRepo, gameRepo, userRepo, publisher)

	tokens := auth.NewManager(cfg.Auth.Secret, time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute)

	server := api.NewServer(api.NewHandlers(users, games, trades, tokens), tokens)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		log.Printf("Listening on %s", addr)
		if err := server.ListenAndServe(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
