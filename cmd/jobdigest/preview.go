package main

import (
	"context"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobdigest/internal/output"
	"github.com/amishk599/jobdigest/internal/store"
)

var (
	previewOut  string
	previewOpen bool
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Build a digest and write it to disk without sending",
	Long:  "Builds the digest and writes the HTML file only. Nothing is saved to history and no email is sent.",
	RunE:  runPreview,
}

func init() {
	previewCmd.Flags().StringVarP(&previewOut, "out", "o", "", "write the document here instead of output.path")
	previewCmd.Flags().BoolVar(&previewOpen, "open", false, "open the written file in the default browser")
	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)
	cfg := mustLoad(logger)

	path := cfg.Output.Path
	if previewOut != "" {
		path = previewOut
	}

	logger.Info("preview mode: nothing will be stored or sent")
	b, err := setupBuilder(cfg, store.NewNopStore(), nil, output.NewWriter(path), logger)
	if err != nil {
		logger.Error("failed to set up pipeline", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	d, err := b.Preview(ctx)
	if err != nil {
		logger.Error("preview failed", "error", err)
		os.Exit(1)
	}
	logger.Info("preview written", "path", path, "records", len(d.Records), "skipped", d.Skipped)

	if previewOpen {
		openFile(path)
	}
	return nil
}

// openFile opens path in the default viewer, fire-and-forget.
func openFile(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}
	var c *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		c = exec.Command("open", abs)
	case "linux":
		c = exec.Command("xdg-open", abs)
	case "windows":
		c = exec.Command("cmd", "/c", "start", abs)
	default:
		return
	}
	_ = c.Start()
}
