package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/spudcatalog/internal/buildinfo"
	"github.com/dmitrijs2005/spudcatalog/internal/client/cli"
	"github.com/dmitrijs2005/spudcatalog/internal/client/client"
	"github.com/dmitrijs2005/spudcatalog/internal/client/config"
	"github.com/dmitrijs2005/spudcatalog/internal/client/controller"
	"github.com/dmitrijs2005/spudcatalog/internal/client/repositories/credentials"
	"github.com/dmitrijs2005/spudcatalog/internal/client/services"
	"github.com/dmitrijs2005/spudcatalog/internal/logging"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := run(ctx, cfg); err != nil {
		log.Fatalf("%v", err)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	store, closeStore, err := openStore(ctx, cfg.SessionDB)
	if err != nil {
		return err
	}
	defer closeStore()

	api, err := client.NewHTTPClient(cfg.BackendURL, cfg.AppID, cfg.RequestTimeout, logger)
	if err != nil {
		return err
	}
	defer api.Close()

	var checker client.HealthChecker = api
	if cfg.ProbeMode == config.ProbeGRPC {
		g, err := client.NewGRPCHealthChecker(cfg.GRPCHealthAddr, "")
		if err != nil {
			return err
		}
		defer g.Close()
		checker = g
	}

	sessions := services.NewSessionService(api, store, logger)
	ctl := controller.New(
		services.NewConnectivityProbe(checker, cfg.RequestTimeout, logger),
		sessions,
		services.NewCatalogService(api, sessions, cfg.PageSize, logger),
		logger,
	)

	ctl.Start(ctx)
	cli.NewApp(ctl, os.Stdin, os.Stdout, logger).Run(ctx)
	return nil
}

// openStore opens the SQLite credential store at path, or an in-memory one
// when path is empty.
func openStore(ctx context.Context, path string) (credentials.Repository, func(), error) {
	if path == "" {
		return credentials.NewMemoryRepository(), func() {}, nil
	}

	db, err := client.InitDatabase(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	return credentials.NewSQLiteRepository(db), func() { _ = db.Close() }, nil
}
