package main

import (
	"context"
	"fmt"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/thiennguyenhieu/solana-bot/internal/alert"
	"github.com/thiennguyenhieu/solana-bot/internal/config"
	"github.com/thiennguyenhieu/solana-bot/internal/metrics"
	"github.com/thiennguyenhieu/solana-bot/internal/screener"
	"github.com/thiennguyenhieu/solana-bot/internal/util"
)

var cfgPath string

type app struct {
	cfg     *config.Config
	log     zerolog.Logger
	engine  *screener.Engine
	cleanup func()
}

func main() {
	root := &cobra.Command{
		Use:           "screener",
		Short:         "Solana memecoin screener with stateful entry/exit signals",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "config.yaml", "path to config file")

	root.AddCommand(&cobra.Command{
		Use:   "scan",
		Short: "Run a single screening cycle and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.cleanup()

			ctx, cancel := ossignal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return a.engine.RunCycle(ctx)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "watch",
		Short: "Run screening cycles on the configured poll interval",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.cleanup()

			ctx, cancel := ossignal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			if err := a.engine.RunCycle(ctx); err != nil && ctx.Err() == nil {
				a.log.Error().Err(err).Msg("cycle failed")
			}

			interval := time.Duration(a.cfg.Screener.PollIntervalMins) * time.Minute
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					a.log.Info().Msg("shutting down")
					return nil
				case <-ticker.C:
					if err := a.engine.RunCycle(ctx); err != nil && ctx.Err() == nil {
						a.log.Error().Err(err).Msg("cycle failed")
					}
				}
			}
		},
	})

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setup() (*app, error) {
	_ = godotenv.Load() // best-effort

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	log := util.NewLogger(cfg.App.LogLevel, cfg.App.Env)

	srv := metrics.Serve(cfg.App.MetricsAddr)
	log.Info().Str("addr", cfg.App.MetricsAddr).Msg("metrics up")

	notifier := alert.NewNotifier(
		cfg.Telegram.APIBase,
		os.Getenv("TELEGRAM_BOT_TOKEN"),
		os.Getenv("TELEGRAM_CHAT_ID"),
		log,
	)
	if !notifier.Enabled() {
		log.Warn().Msg("telegram credentials missing, alerts disabled")
	}

	return &app{
		cfg:     cfg,
		log:     log,
		engine:  screener.New(cfg, notifier, log),
		cleanup: func() { _ = srv.Close() },
	}, nil
}
