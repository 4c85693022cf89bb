// Package secrets stores the SMTP password in the OS keychain.
package secrets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

// KeyringService groups the app's secrets in the OS keychain.
const KeyringService = "jobdigest"

// ErrNoPassword is returned when neither the keychain nor the fallback has a password.
var ErrNoPassword = errors.New("smtp password not found (set it with `jobdigest secret set` or GMAIL_APP_PASSWORD)")

// Account returns the keychain account name for an SMTP login.
// An explicit name from config wins.
func Account(configured, username, host string) string {
	if strings.TrimSpace(configured) != "" {
		return configured
	}
	return fmt.Sprintf("jobdigest:smtp:%s@%s", username, host)
}

// SMTPPassword returns the password stored under account, falling back to
// the value from config or the environment.
func SMTPPassword(account, fallback string) (string, error) {
	if strings.TrimSpace(account) != "" {
		pw, err := keyring.Get(KeyringService, account)
		if err == nil && strings.TrimSpace(pw) != "" {
			return pw, nil
		}
		if err != nil && !errors.Is(err, keyring.ErrNotFound) && fallback == "" {
			return "", fmt.Errorf("read keychain: %w", err)
		}
	}
	if strings.TrimSpace(fallback) != "" {
		return fallback, nil
	}
	return "", ErrNoPassword
}

// SetSMTPPassword stores password under account.
func SetSMTPPassword(account, password string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	if strings.TrimSpace(password) == "" {
		return errors.New("password is empty")
	}
	if err := keyring.Set(KeyringService, account, password); err != nil {
		return fmt.Errorf("write keychain: %w", err)
	}
	return nil
}

// DeleteSMTPPassword removes the password stored under account.
func DeleteSMTPPassword(account string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	if err := keyring.Delete(KeyringService, account); err != nil {
		return fmt.Errorf("delete from keychain: %w", err)
	}
	return nil
}
