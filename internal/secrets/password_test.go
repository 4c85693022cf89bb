package secrets

import (
	"errors"
	"testing"

	"github.com/zalando/go-keyring"
)

func TestSMTPPassword_KeychainWins(t *testing.T) {
	keyring.MockInit()
	if err := SetSMTPPassword("acct", "from-keychain"); err != nil {
		t.Fatalf("SetSMTPPassword: %v", err)
	}
	got, err := SMTPPassword("acct", "from-env")
	if err != nil {
		t.Fatalf("SMTPPassword: %v", err)
	}
	if got != "from-keychain" {
		t.Errorf("got %q, want keychain value", got)
	}
}

func TestSMTPPassword_Fallback(t *testing.T) {
	keyring.MockInit()
	got, err := SMTPPassword("missing", "from-env")
	if err != nil {
		t.Fatalf("SMTPPassword: %v", err)
	}
	if got != "from-env" {
		t.Errorf("got %q, want fallback", got)
	}
}

func TestSMTPPassword_NotFound(t *testing.T) {
	keyring.MockInit()
	if _, err := SMTPPassword("missing", ""); !errors.Is(err, ErrNoPassword) {
		t.Errorf("err = %v, want ErrNoPassword", err)
	}
}

func TestDeleteSMTPPassword(t *testing.T) {
	keyring.MockInit()
	if err := SetSMTPPassword("acct", "pw"); err != nil {
		t.Fatal(err)
	}
	if err := DeleteSMTPPassword("acct"); err != nil {
		t.Fatalf("DeleteSMTPPassword: %v", err)
	}
	if _, err := SMTPPassword("acct", ""); !errors.Is(err, ErrNoPassword) {
		t.Errorf("err = %v, want ErrNoPassword after delete", err)
	}
	if err := DeleteSMTPPassword("acct"); !errors.Is(err, keyring.ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestSetSMTPPassword_Validation(t *testing.T) {
	keyring.MockInit()
	if err := SetSMTPPassword("", "pw"); err == nil {
		t.Error("expected error for empty account")
	}
	if err := SetSMTPPassword("acct", "  "); err == nil {
		t.Error("expected error for blank password")
	}
}

func TestAccount(t *testing.T) {
	if got := Account("", "bot@example.com", "smtp.gmail.com"); got != "jobdigest:smtp:bot@example.com@smtp.gmail.com" {
		t.Errorf("derived account = %q", got)
	}
	if got := Account("personal", "bot@example.com", "smtp.gmail.com"); got != "personal" {
		t.Errorf("configured account = %q", got)
	}
}
