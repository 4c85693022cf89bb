package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobdigest/internal/model"
	"github.com/amishk599/jobdigest/internal/render"
)

var mailCmd = &cobra.Command{
	Use:   "mail",
	Short: "Email subcommands",
}

var mailTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Send a test email",
	Long:  "Sends a one-item sample digest through the configured transport.",
	RunE:  runMailTest,
}

func init() {
	rootCmd.AddCommand(mailCmd)
	mailCmd.AddCommand(mailTestCmd)
}

func runMailTest(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)
	cfg := mustLoad(logger)

	m, err := setupMailer(cfg, logger)
	if err != nil {
		logger.Error("failed to set up mailer", "transport", cfg.Email.Transport, "error", err)
		os.Exit(1)
	}

	doc, err := render.NewAssembler(render.NewRenderer(), cfg.Digest.Heading, cfg.Digest.AgentName, nil).Assemble([]model.JobRecord{{
		Title:       "Test Position at jobdigest",
		Description: "If you can read this, email delivery works.",
		Link:        "https://example.com",
	}})
	if err != nil {
		logger.Error("failed to render test email", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = m.Send(ctx, model.Email{Subject: cfg.Email.Subject + " (test)", Body: doc, HTML: true})
	if err != nil {
		logger.Error("test email failed", "error", err)
		os.Exit(1)
	}
	logger.Info("test email sent successfully", "transport", cfg.Email.Transport, "to", cfg.Email.To)
	return nil
}
