package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"factflow/internal/activities"
	"factflow/internal/config"
	"factflow/internal/logging"
	"factflow/internal/providers"
	"factflow/internal/storage"
	"factflow/internal/workflows"
)

func main() {
	_ = godotenv.Load(".env")
	cfg := config.Load()
	logging.Init(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)
	lg := logging.New("worker")

	if err := cfg.Validate(providers.KeyFor); err != nil {
		log.Fatal(err)
	}

	c, err := client.Dial(client.Options{HostPort: cfg.TemporalAddress})
	if err != nil {
		log.Fatal(err)
	}
	defer c.Close()

	w := worker.New(c, cfg.TemporalTaskQueue, worker.Options{})
	workflows.Register(w)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	db, err := storage.NewDB(ctx, cfg.PostgresURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	a, err := activities.New(cfg, db)
	if err != nil {
		log.Fatal(err)
	}
	activities.Register(w, a)

	lg.Info("factflow worker listening", "temporal", cfg.TemporalAddress, "queue", cfg.TemporalTaskQueue, "config", cfg)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatal(err)
	}
}
