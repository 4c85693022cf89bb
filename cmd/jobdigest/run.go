package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobdigest/internal/output"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Build and send one digest",
	Long:  "Builds the digest, writes it to output.path, saves it to history and emails it. Exits non-zero if the email cannot be sent.",
	RunE:  runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	d, err := b.Run(ctx)
	if err != nil {
		logger.Error("digest run failed", "error", err)
		closeStore()
		os.Exit(1)
	}

	logger.Info("digest complete",
		"records", len(d.Records),
		"skipped", d.Skipped,
		"output", cfg.Output.Path,
	)
	return nil
}
