package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"storefront_bot/internal/bot"
	"storefront_bot/internal/config"
	"storefront_bot/internal/currency"
	"storefront_bot/internal/gateway/discord"
	"storefront_bot/internal/lock"
	"storefront_bot/internal/publisher"
	"storefront_bot/internal/scheduler"
	"storefront_bot/internal/service"
	"storefront_bot/internal/setup"
	"storefront_bot/internal/source/sellix"
	"storefront_bot/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := setupLogger("info")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}
	logger.Info("connected to database")

	// Catalog events are optional; a nil interface disables publishing.
	var events service.Publisher
	if cfg.RabbitMQ.URL != "" {
		rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			logger.Error("failed to connect to rabbitmq", "error", err)
			os.Exit(1)
		}
		defer rabbitMQ.Close()
		events = rabbitMQ
	}

	productStore := postgres.NewProductStore(db)
	configStore := postgres.NewContextConfigStore(db)
	handleStore := postgres.NewDisplayHandleStore(db)
	txManager := postgres.NewTransactionManager(db)

	sellixSource := sellix.New(sellix.Config{
		Timeout: cfg.Store.Timeout,
	}, logger)

	converter := currency.NewConverter(currency.Config{
		BaseURL:           cfg.Currency.BaseURL,
		APIKey:            cfg.Currency.APIKey,
		BaseCurrency:      cfg.Currency.BaseCurrency,
		Timeout:           cfg.Currency.Timeout,
		RequestsPerSecond: cfg.Currency.RequestsPerSecond,
	}, logger)

	gateway, err := discord.New(discord.Config{Token: cfg.Discord.Token}, logger)
	if err != nil {
		logger.Error("failed to create discord gateway", "error", err)
		os.Exit(1)
	}

	contextLock := lock.NewKeyed()

	syncService := service.NewSyncService(
		sellixSource,
		productStore,
		configStore,
		txManager,
		gateway,
		events,
		contextLock,
		logger,
		cfg.Sync,
		cfg.Display,
	)

	presenter := service.NewPresenter(
		productStore,
		configStore,
		handleStore,
		sellixSource,
		converter,
		txManager,
		gateway,
		contextLock,
		logger,
		cfg.Display,
	)

	wizard := setup.NewWizard(configStore, gateway, cfg.Setup.StepTimeout, logger)

	handler := bot.NewHandler(presenter, wizard, gateway, gateway, logger, bot.Config{
		CommandTimeout: cfg.Bot.CommandTimeout,
		Footer:         cfg.Display.Footer,
	})

	sched := scheduler.NewScheduler(syncService, cfg.Sync.Interval, cfg.Sync.Timeout, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	if err := gateway.Open(ctx, handler); err != nil {
		logger.Error("failed to connect to discord", "error", err)
		os.Exit(1)
	}
	defer gateway.Close()

	logger.Info("starting storefront bot",
		"source", sellixSource.Name(),
		"interval", cfg.Sync.Interval,
		"max_concurrency", cfg.Sync.MaxConcurrency,
		"events", events != nil,
	)

	if err := sched.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
