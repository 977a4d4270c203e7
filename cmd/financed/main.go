package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/manongfatu/dreamteamfinance/internal/amqp"
	"github.com/manongfatu/dreamteamfinance/internal/auth"
	"github.com/manongfatu/dreamteamfinance/internal/config"
	"github.com/manongfatu/dreamteamfinance/internal/core"
	apphttp "github.com/manongfatu/dreamteamfinance/internal/http"
	applog "github.com/manongfatu/dreamteamfinance/internal/log"
	"github.com/manongfatu/dreamteamfinance/internal/notify"
	"github.com/manongfatu/dreamteamfinance/internal/persist"
	"github.com/manongfatu/dreamteamfinance/internal/store"
)

func main() {
	logger := applog.New(applog.Config{
		Level:     slog.LevelInfo,
		Component: applog.ComponentApp,
	})
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", applog.FieldError, err)
		os.Exit(1)
	}

	ctx := context.Background()

	local, err := persist.NewLocalStore(cfg.SQLiteDBPath, logger)
	if err != nil {
		logger.Error("failed to open local store", applog.FieldError, err)
		os.Exit(1)
	}
	defer local.Close()

	// Start from the locally persisted snapshot when one survives; a
	// corrupt or missing blob degrades to an empty current year.
	snapshot, ok, err := local.LoadSnapshot(ctx, cfg.StorageKey)
	if err != nil || !ok {
		snapshot = core.EmptyYear(time.Now().Year())
		logger.Info("starting from empty year", applog.FieldYear, snapshot.Year)
	} else {
		logger.Info("restored local snapshot", applog.FieldYear, snapshot.Year)
	}

	st := store.New(snapshot, logger)

	var remote persist.Remote
	if cfg.MongoURI != "" {
		mongo, err := persist.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection, logger)
		if err != nil {
			logger.Error("failed to connect to remote store", applog.FieldError, err)
			os.Exit(1)
		}
		defer mongo.Close(ctx)
		remote = mongo
	}

	var events persist.EventPublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			// Event publishing is an enhancement; run without it.
			logger.Warn("AMQP unavailable, sync events disabled", applog.FieldError, err)
		} else {
			defer client.Close()
			events = client
		}
	}

	bridge := persist.NewBridge(persist.Config{
		Key:      cfg.StorageKey,
		Debounce: cfg.DebounceInterval,
		Backoff:  cfg.BackoffWindow,
		Local:    local,
		Remote:   remote,
		Events:   events,
		Adopt:    st.Replace,
		Logger:   logger,
	})
	st.SetChangeHook(bridge.OnMutation)

	users := auth.NewUserStore(local.DB())
	sessions := auth.NewSessions(cfg.AuthSecret, cfg.SessionTTL)

	var emailSender notify.EmailSender
	if cfg.EmailConfigured() {
		emailSender = notify.NewBrevoSender(cfg, logger)
	}
	var smsSender notify.SMSSender
	if cfg.SMSConfigured() {
		smsSender = notify.NewTwilioSender(cfg, logger)
	}

	scheduler := cron.New()
	if cfg.RemindersEnabled {
		reminder := notify.NewReminder(cfg, st, local, emailSender, smsSender, logger)
		if _, err := scheduler.AddFunc(cfg.ReminderCronSpec, func() {
			if err := reminder.Run(context.Background()); err != nil {
				logger.Error("reminder run failed", applog.FieldError, err)
			}
		}); err != nil {
			logger.Error("invalid reminder cron spec", applog.FieldError, err, "spec", cfg.ReminderCronSpec)
			os.Exit(1)
		}
		scheduler.Start()
		logger.Info("reminder scheduler started", "spec", cfg.ReminderCronSpec, "lead_days", cfg.ReminderLeadDays)
	}

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Store:    st,
		Bridge:   bridge,
		Users:    users,
		Sessions: sessions,
		Email:    emailSender,
		SMS:      smsSender,
		Config:   cfg,
		Logger:   logger,
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting server", applog.FieldOperation, applog.OpStartup, "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		select {
		case sig := <-sigChan:
			logger.Info("shutdown signal received", applog.FieldOperation, applog.OpShutdown, "signal", sig.String())
		case <-gctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if cfg.RemindersEnabled {
			<-scheduler.Stop().Done()
		}
		// Push any pending snapshot out before the process dies.
		if err := bridge.Flush(shutdownCtx); err != nil {
			logger.Warn("final flush failed", applog.FieldError, err)
		}
		bridge.Close()

		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server error", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("server stopped gracefully")
}
