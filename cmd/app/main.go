package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	_ "github.com/develop-mdv/subscriptions-tg-bot/docs"
	"github.com/develop-mdv/subscriptions-tg-bot/internal/auth"
	"github.com/develop-mdv/subscriptions-tg-bot/internal/bot"
	"github.com/develop-mdv/subscriptions-tg-bot/internal/config"
	"github.com/develop-mdv/subscriptions-tg-bot/internal/conversation"
	"github.com/develop-mdv/subscriptions-tg-bot/internal/db"
	"github.com/develop-mdv/subscriptions-tg-bot/internal/events"
	"github.com/develop-mdv/subscriptions-tg-bot/internal/export"
	"github.com/develop-mdv/subscriptions-tg-bot/internal/history"
	"github.com/develop-mdv/subscriptions-tg-bot/internal/logger"
	"github.com/develop-mdv/subscriptions-tg-bot/internal/notify"
	"github.com/develop-mdv/subscriptions-tg-bot/internal/scheduler"
	"github.com/develop-mdv/subscriptions-tg-bot/internal/server"
	"github.com/develop-mdv/subscriptions-tg-bot/internal/subscription"
)

const updatesTimeout = 60

// @title Subscriptions Bot API
// @version 1.0
// @description Owner API of the subscription tracker bot. Get a token with /token in Telegram.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()
	logger.Info("Starting subscriptions bot")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logger.InitWithLevel(cfg.LogLevel)

	logger.Info("Connecting to database...")
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if err := db.RunMigrations(database, cfg.MigrationsPath); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("Migrations completed")

	rdb, err := db.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Fatalf("Failed to connect to redis: %v", err)
	}
	defer rdb.Close()

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		logger.Fatalf("Failed to authorize bot: %v", err)
	}
	logger.Info("Authorized on Telegram", "username", api.Self.UserName)

	if cfg.KafkaEnabled() {
		logger.WithFields(map[string]interface{}{
			"brokers": cfg.KafkaBrokers,
			"topic":   cfg.KafkaTopic,
		}).Info("Publishing subscription events")
	} else {
		logger.Info("KAFKA_BROKERS not set, subscription events disabled")
	}
	publisher := events.New(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer publisher.Close()

	payments := history.NewRepository(database)
	subRepo := subscription.NewCachedRepository(subscription.NewRepository(database), rdb)
	subs := subscription.NewService(subRepo, payments, publisher)

	notifier := notify.New(rdb, notify.NewTelegramSender(api, cfg.TelegramRPS))
	sched := scheduler.New(subRepo, notifier, scheduler.NewRedisGuard(rdb), payments, scheduler.Config{
		Location:   cfg.Location(),
		DaysBefore: cfg.NotificationDaysBefore,
		Tick:       cfg.SchedulerTick,
	})

	exporter := export.NewExporter(subs, cfg.Location())
	issueToken := func(ownerID int64) (string, error) {
		return auth.GenerateOwnerToken(ownerID, cfg.JWTSecret)
	}
	tgBot := bot.New(api, subs, conversation.NewRedisStore(rdb), exporter, issueToken, bot.Config{
		Location: cfg.Location(),
	})

	srv := server.New(cfg, server.Deps{
		Subscriptions: subscription.NewHandler(subs, cfg.Location()),
		Payments:      history.NewHandler(payments),
		Export:        export.NewHandler(exporter),
		Notifier:      notifier,
		Checks: map[string]server.Check{
			"postgres": database.PingContext,
			"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var workers sync.WaitGroup
	run := func(name string, fn func(context.Context)) {
		workers.Add(1)
		go func() {
			defer workers.Done()
			fn(ctx)
			logger.Info("Worker stopped", "worker", name)
		}()
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = updatesTimeout
	updates := api.GetUpdatesChan(u)

	run("notifications", notifier.Start)
	run("scheduler", sched.Start)
	run("bot", func(ctx context.Context) { tgBot.Run(ctx, updates) })

	serverErrChan := make(chan error, 1)
	go func() {
		if err := srv.Start(cfg.Port); err != nil {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Infof("Received signal: %v", sig)
	case err := <-serverErrChan:
		logger.WithError(err).Error("Server error")
	}

	logger.Info("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	api.StopReceivingUpdates()
	cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Error during server shutdown")
	}

	done := make(chan struct{})
	go func() {
		workers.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-shutdownCtx.Done():
		logger.Warn("Workers did not stop before the shutdown deadline")
	}

	logger.Info("Stopped")
}
