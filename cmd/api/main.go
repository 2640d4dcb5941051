package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	tclient "go.temporal.io/sdk/client"

	"factflow/internal/api"
	"factflow/internal/config"
	"factflow/internal/logging"
	"factflow/internal/storage"
)

func main() {
	_ = godotenv.Load(".env")
	cfg := config.Load()
	logging.Init(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)
	lg := logging.New("api")

	tc, err := tclient.Dial(tclient.Options{HostPort: cfg.TemporalAddress})
	if err != nil {
		log.Fatal(err)
	}
	defer tc.Close()

	var store api.InvestigationStore
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if db, err := storage.NewDB(ctx, cfg.PostgresURL); err != nil {
		lg.Warn("postgres unavailable, status served from workflow queries only", "err", err)
	} else {
		defer db.Close()
		store = storage.NewInvestigationRepo(db)
	}

	h := api.NewServer(cfg, api.NewTemporalOrchestrator(tc, cfg.TemporalTaskQueue), store)
	lg.Info("factflow api listening", "addr", cfg.APIAddr, "config", cfg)
	if err := http.ListenAndServe(cfg.APIAddr, h.Routes()); err != nil {
		log.Fatal(err)
	}
}
