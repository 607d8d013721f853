package main

import (
	"log"
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/vshulcz/daytally/internal/adapters/http/ginserver"
	"github.com/vshulcz/daytally/internal/adapters/http/ginserver/middlewares"
	"github.com/vshulcz/daytally/internal/config"
	"github.com/vshulcz/daytally/internal/services/tally"
)

func main() {
	cfg, err := config.LoadServerConfig(os.Args[1:], nil)
	if err != nil {
		log.Fatalf("failed to parse flags: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	repo := buildRepo(cfg, logger)
	events := buildAuditTrail(cfg, logger)

	svc := tally.New(repo, events, nil)
	h := ginserver.NewHandler(svc)

	r := ginserver.NewRouter(h,
		middlewares.ZapLogger(logger),
		middlewares.GzipRequest(),
		middlewares.GzipResponse(),
	)

	logger.Info("starting server",
		zap.String("addr", cfg.Address),
		zap.String("file", cfg.File),
		zap.Bool("postgres", cfg.DSN != ""),
	)

	if err := http.ListenAndServe(cfg.Address, r); err != nil {
		log.Fatal(err)
	}
}
