package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobdigest/internal/output"
	"github.com/amishk599/jobdigest/internal/scheduler"
)

var startNow bool

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the digest daemon",
	Long:  "Runs one digest on every tick of the configured cron schedule; blocks until SIGINT/SIGTERM.",
	RunE:  runStart,
}

func init() {
	startCmd.Flags().BoolVar(&startNow, "now", false, "also run one digest immediately")
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)
	cfg := mustLoad(logger)

	m, err := setupMailer(cfg, logger)
	if err != nil {
		logger.Error("failed to set up mailer", "transport", cfg.Email.Transport, "error", err)
		os.Exit(1)
	}

	st, closeStore := openStore(cfg, logger)
	defer closeStore()

	b, err := setupBuilder(cfg, st, m, output.NewWriter(cfg.Output.Path), logger)
	if err != nil {
		logger.Error("failed to set up pipeline", "error", err)
		os.Exit(1)
	}

	sched, err := scheduler.NewScheduler(cfg.Schedule, func(ctx context.Context) error {
		_, err := b.Run(ctx)
		return err
	}, logger)
	if err != nil {
		logger.Error("invalid schedule", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if startNow {
		sched.RunOnce(ctx)
	}

	if err := sched.Run(ctx); err != nil {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}

	logger.Info("goodbye")
	return nil
}
