package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobdigest/internal/finetune"
	"github.com/amishk599/jobdigest/internal/model"
	"github.com/amishk599/jobdigest/internal/store"
)

var (
	exportOut      string
	exportFromLog  string
	exportMinLines int
	exportMaxLines int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export logged completions as a fine-tuning set",
	Long:  "Writes every logged prompt/completion pair with an acceptable line count as chat-format JSONL.",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "training_set.jsonl", "output file")
	exportCmd.Flags().StringVar(&exportFromLog, "from-log", "", "read pairs from a {prompt, completion} JSONL log instead of the history database")
	exportCmd.Flags().IntVar(&exportMinLines, "min-lines", finetune.DefaultMinLines, "skip completions shorter than this many lines")
	exportCmd.Flags().IntVar(&exportMaxLines, "max-lines", finetune.DefaultMaxLines, "skip completions longer than this many lines")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	entries, err := loadEntries()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read completions: %v\n", err)
		os.Exit(1)
	}

	f, err := os.Create(exportOut)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create %s: %v\n", exportOut, err)
		os.Exit(1)
	}

	n, err := finetune.Export(f, entries, exportMinLines, exportMaxLines)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "export failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("wrote %d of %d examples to %s\n", n, len(entries), exportOut)
	return nil
}

func loadEntries() ([]model.CompletionEntry, error) {
	if exportFromLog != "" {
		f, err := os.Open(exportFromLog)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return finetune.ReadLog(f)
	}

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return nil, err
	}
	st, err := store.NewSQLiteStore(cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	defer st.Close()
	return st.ListCompletions()
}
