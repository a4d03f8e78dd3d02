package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/nexus/zapcampaign/config"
	"github.com/nexus/zapcampaign/internal/server"
	"github.com/nexus/zapcampaign/internal/store"
	"github.com/nexus/zapcampaign/internal/whatsapp"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}

	os.Exit(exitCode(run(cfg, log), log))
}

// exitCode logs a failed run and flushes the logger before the process exits.
func exitCode(runErr error, log *zap.Logger) int {
	code := 0
	if runErr != nil {
		log.Error("server stopped", zap.Error(runErr))
		code = 1
	}
	_ = log.Sync()
	return code
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tasks, err := store.Open(ctx, cfg.TasksDBPath)
	if err != nil {
		return err
	}
	defer tasks.Close()

	client, err := whatsapp.NewClient(ctx, whatsapp.ClientConfig{
		DBPath:      cfg.SessionDBPath,
		CallTimeout: cfg.CallTimeout,
		QRTerminal:  cfg.QRTerminal,
	}, log.Named("whatsapp"))
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.Start(ctx); err != nil {
		return err
	}

	waService := whatsapp.NewService(client, log.Named("service"), whatsapp.WithCampaign(whatsapp.CampaignConfig{
		PhotoPath:   cfg.CampaignPhotoPath,
		SettleDelay: cfg.CampaignSettleDelay,
	}))
	app := server.NewServer(cfg, waService, tasks, log)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("🔥 ZapCampaign starting", zap.String("port", cfg.ServerPort))
		return app.Listen(":" + cfg.ServerPort)
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")
		return app.Shutdown()
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}

	zcfg := zap.NewProductionConfig()
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	return zcfg.Build()
}
