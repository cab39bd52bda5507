package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/wb-go/wbf/config"
	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"engineersday/cmd/buildCFG"
	"engineersday/internal/api/api"
	"engineersday/internal/mailer"
	"engineersday/internal/notify"
	"engineersday/internal/schedule"
	"engineersday/internal/service"
	"engineersday/internal/store"
	"engineersday/internal/store/local"
	"engineersday/internal/store/postgres"
)

func main() {
	zlog.Init()
	log := zlog.Logger

	cfg := config.New()
	if err := cfg.Load("config.yaml", "", "'"); err != nil {
		log.Fatal().Msgf("failed to load configuration: %v", err)
	}
	serverCfg := buildCFG.BuildServerConfig(cfg, &log)
	port := serverCfg.Port

	scheduleCfg, err := buildCFG.BuildScheduleConfig(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build schedule config")
	}
	provider := schedule.NewProvider(scheduleCfg, time.Now)

	masterDSN, slaveDSNs, poolOptions, err := buildCFG.BuildDBConfig(cfg, &log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build DB config")
	}
	db, err := dbpg.New(masterDSN, slaveDSNs, poolOptions)
	if err != nil {
		log.Fatal().Msgf("failed to connect to DB: %v", err)
	}
	if err := retry.Do(func() error {
		return db.Master.Ping()
	}, retry.Strategy{Attempts: 5, Delay: time.Second, Backoff: 2}); err != nil {
		log.Fatal().Msgf("DB ping failed: %v", err)
	}
	log.Info().Msg("Database connected successfully")

	primary, err := postgres.New(db, &log)
	if err != nil {
		log.Fatal().Msgf("failed to initialize primary store: %v", err)
	}
	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal().Err(err).Msg("cannot get working directory")
	}
	migrationPath := filepath.Join(cwd, "migrations/postgres")
	if err := primary.MigrateUp(migrationPath); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
	log.Info().Msg("Migrations applied successfully")

	localCfg := buildCFG.BuildLocalStoreConfig(cfg)
	fallback, err := local.Open(localCfg.Path, &log)
	if err != nil {
		log.Fatal().Msgf("failed to open local fallback store: %v", err)
	}
	defer fallback.Close()

	registrar := store.NewRegistrar(primary, fallback, primary, &log)

	rabbitCfg, err := buildCFG.BuildRabbitConfig(cfg, &log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load RabbitMQ config")
	}
	rmq, err := notify.NewRabbit(rabbitCfg.Url, rabbitCfg.Exchange, rabbitCfg.Queue)
	if err != nil {
		log.Fatal().Msgf("Failed to connect to RabbitMQ: %v", err)
	}
	defer rmq.Close()

	workerCtx, cancelWorkers := context.WithCancel(context.Background())

	mail := mailer.New(buildCFG.BuildSMTPConfig(cfg), &log)
	mailWorker := notify.NewWorker(rmq, mail)
	mailWorker.Start(workerCtx)

	poller := schedule.NewPoller(provider, time.Minute, &log)
	poller.Start(workerCtx)

	serviceInstance := service.NewService(
		primary,
		registrar,
		provider,
		rmq,
		buildCFG.BuildWorkflowOptions(cfg),
		&log,
	)
	app := api.NewRouters(&api.Routers{Service: serviceInstance})

	serverErrChan := make(chan error, 1)
	go func() {
		log.Info().Msgf("Starting server on %s", port)
		if err := app.Run(":" + port); err != nil {
			serverErrChan <- fmt.Errorf("failed to start server: %w", err)
		}
	}()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-signalChan:
		log.Info().Msgf("Received signal %s. Initiating shutdown...", sig)
	case err := <-serverErrChan:
		log.Error().Msgf("Server error: %v", err)
	}

	cancelWorkers()
	mailWorker.Stop()
	poller.Stop()

	log.Info().Msg("Shutdown complete")
}
