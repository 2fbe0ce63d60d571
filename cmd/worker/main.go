package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ignite/gametrade/internal/config"
	"github.com/ignite/gametrade/internal/mailer"
	"github.com/ignite/gametrade/internal/worker"
)

func main() {
	log.Println("Starting notification worker...")

	cfg, err := config.LoadFromEnv(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.Queue.Addr})
	defer client.Close()

	transport := mailer.New(mailer.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.FromEmail,
		Timeout:  30 * time.Second,
	})

	consumer := worker.NewNotificationConsumer(client, cfg.Queue.Topic, cfg.Queue.Group, transport)
	if err := consumer.Start(); err != nil {
		log.Fatalf("Failed to start consumer: %v", err)
	}
	log.Printf("Consuming %s as group %s", cfg.Queue.Topic, cfg.Queue.Group)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down worker...")
	consumer.Stop()
	log.Println("Worker stopped")
}
