package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobdigest/internal/store"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List stored digests",
	Long:  "Reads the history database and prints the most recent digests.",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "number of digests to show (0 for all)")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	st, err := store.NewSQLiteStore(cfg.Store.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open store: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	digests, err := st.ListDigests(historyLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to list digests: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%-6s %-20s %-6s %s\n", "ID", "Generated", "Jobs", "Status")
	fmt.Println(strings.Repeat("─", 44))

	sent := 0
	for _, d := range digests {
		status := "not sent"
		if d.Delivered {
			status = "sent"
			sent++
		}
		fmt.Printf("%-6d %-20s %-6d %s\n", d.ID, d.GeneratedAt.Local().Format("2006-01-02 15:04"), d.RecordCount, status)
	}

	fmt.Printf("\nShown: %d digests (%d sent, %d not sent)\n", len(digests), sent, len(digests)-sent)
	return nil
}
