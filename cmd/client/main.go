package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/tgcloud/internal/buildinfo"
	"github.com/dmitrijs2005/tgcloud/internal/client/cli"
	"github.com/dmitrijs2005/tgcloud/internal/client/client"
	"github.com/dmitrijs2005/tgcloud/internal/client/config"
	"github.com/dmitrijs2005/tgcloud/internal/client/repositories/records"
	"github.com/dmitrijs2005/tgcloud/internal/client/services"
	"github.com/dmitrijs2005/tgcloud/internal/client/session"
	"github.com/dmitrijs2005/tgcloud/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	logger := logging.New(os.Stderr, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, err := records.Open(ctx, cfg.StorePath, logger)
	if err != nil {
		log.Fatalf("open upload history: %v", err)
	}

	dialer, idPrefix := newDialer(cfg)

	app := cli.NewApp(os.Stdin, os.Stdout, logger, cfg.Phone)
	conns := services.NewConnectionManager(dialer, cfg.Credentials(), app, logger)
	uploads := services.NewUploadCoordinator(logger, services.WithIDPrefix(idPrefix))
	tasks := services.NewTasks(ctx, session.NewState(), conns, uploads, repo, app.Bridge(), logger)

	logger.Info(ctx, "starting", "backend", dialer.Name(), "store", cfg.StorePath, "records", repo.Len())

	if err := app.Run(ctx, tasks); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("%v", err)
	}
}

func newDialer(cfg *config.Config) (client.Dialer, string) {
	if cfg.Backend == config.BackendS3 {
		return client.NewS3Dialer(cfg.S3), "s3_file_"
	}
	return client.NewTelegramDialer(), services.DefaultIDPrefix
}
