package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobdigest/internal/secrets"
)

var secretCmd = &cobra.Command{
	Use:   "secret",
	Short: "Manage the SMTP password in the OS keychain",
}

var secretSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store the SMTP password",
	Long:  "Reads the SMTP (e.g. Gmail app) password from stdin and stores it in the OS keychain.",
	RunE:  runSecretSet,
}

var secretDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove the stored SMTP password",
	RunE:  runSecretDelete,
}

func init() {
	rootCmd.AddCommand(secretCmd)
	secretCmd.AddCommand(secretSetCmd, secretDeleteCmd)
}

func keyringAccount() string {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	return secrets.Account(cfg.Email.KeyringAccount, cfg.Email.Username, cfg.Email.Host)
}

func runSecretSet(cmd *cobra.Command, args []string) error {
	account := keyringAccount()

	fmt.Fprintf(os.Stderr, "SMTP password for %s: ", account)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintf(os.Stderr, "\nfailed to read password: %v\n", err)
		os.Exit(1)
	}

	if err := secrets.SetSMTPPassword(account, strings.TrimSpace(line)); err != nil {
		fmt.Fprintf(os.Stderr, "failed to store password: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("stored password for %s in keychain service %q\n", account, secrets.KeyringService)
	return nil
}

func runSecretDelete(cmd *cobra.Command, args []string) error {
	account := keyringAccount()
	if err := secrets.DeleteSMTPPassword(account); err != nil {
		fmt.Fprintf(os.Stderr, "failed to delete password: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("deleted password for %s\n", account)
	return nil
}
