package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/testcontainers/testcontainers-go/modules/clickhouse"

	"medbot/internal/app"
)

// Local development entry point: boots a throwaway ClickHouse container
// for the conversation store, points the bot at it, and runs the full
// application. Telegram credentials and the assistant backend URL still
// come from .env or the environment.

const devPassword = "devpassword"

func main() {
	if err := run(context.Background()); err != nil {
		log.Fatalf("medbot-dev: %v", err)
	}
}

func run(ctx context.Context) error {
	log.Println("medbot-dev: provisioning throwaway ClickHouse for the conversation store")

	container, err := clickhouse.Run(ctx,
		"clickhouse/clickhouse-server:latest",
		clickhouse.WithUsername("default"),
		clickhouse.WithPassword(devPassword),
		clickhouse.WithDatabase("default"),
	)
	if err != nil {
		return err
	}
	defer func() {
		log.Println("medbot-dev: tearing down ClickHouse container")
		if err := container.Terminate(ctx); err != nil {
			log.Printf("medbot-dev: container teardown failed: %v", err)
		}
	}()

	host, err := container.Host(ctx)
	if err != nil {
		return err
	}
	port, err := container.MappedPort(ctx, "9000/tcp")
	if err != nil {
		return err
	}

	devEnv := map[string]string{
		"CLICKHOUSE_HOST":     host,
		"CLICKHOUSE_PORT":     port.Port(),
		"CLICKHOUSE_DATABASE": "default",
		"CLICKHOUSE_USER":     "default",
		"CLICKHOUSE_PASSWORD": devPassword,
		"CLICKHOUSE_USE_TLS":  "false",
		"USE_MOCK_DB":         "false",
		"WEBHOOK_MODE":        "false",
	}
	for key, value := range devEnv {
		os.Setenv(key, value)
	}
	if os.Getenv("PORT") == "" {
		os.Setenv("PORT", "8080")
	}

	printStartupSummary(host, port.Port())

	application, err := app.New()
	if err != nil {
		return err
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- application.Run()
	}()

	select {
	case <-sigChan:
		log.Println("medbot-dev: shutdown signal received")
		return nil
	case err := <-errChan:
		return err
	}
}

func printStartupSummary(host, port string) {
	log.Printf("medbot-dev: conversation store at %s:%s (polling mode, HTTP on :%s)",
		host, port, os.Getenv("PORT"))

	if os.Getenv("TELEGRAM_BOT_TOKEN") == "" {
		log.Println("medbot-dev: TELEGRAM_BOT_TOKEN is not set; the bot cannot authorize with Telegram")
	}
	if os.Getenv("ASSISTANT_API_URL") == "" {
		log.Println("medbot-dev: ASSISTANT_API_URL is not set; every consultation turn will get the unavailable notice")
	}
}
