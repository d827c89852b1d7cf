package accounts_test

import (
	"errors"
	"testing"

	"showdeck/services/accounts"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	dir := t.TempDir()
	svc, err := accounts.NewService(dir)
	if err != nil {
		t.Fatalf("expected service, got error: %v", err)
	}

	account, err := svc.Register("alice", "hunter2")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if account.ID == "" {
		t.Fatal("expected account id to be assigned")
	}
	if account.PasswordHash == "hunter2" {
		t.Fatal("password must not be stored in plain text")
	}

	authed, err := svc.Authenticate("alice", "hunter2")
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if authed.ID != account.ID {
		t.Fatalf("expected account %q, got %q", account.ID, authed.ID)
	}

	if _, err := svc.Authenticate("alice", "wrong"); !errors.Is(err, accounts.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Authenticate("nobody", "hunter2"); !errors.Is(err, accounts.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	dir := t.TempDir()
	svc, err := accounts.NewService(dir)
	if err != nil {
		t.Fatalf("expected service, got error: %v", err)
	}

	if _, err := svc.Register("alice", "hunter2"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, err := svc.Register("ALICE", "other"); !errors.Is(err, accounts.ErrUsernameExists) {
		t.Fatalf("expected case-insensitive duplicate rejection, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	dir := t.TempDir()
	svc, err := accounts.NewService(dir)
	if err != nil {
		t.Fatalf("expected service, got error: %v", err)
	}

	if _, err := svc.Register("  ", "pw"); !errors.Is(err, accounts.ErrUsernameRequired) {
		t.Fatalf("expected ErrUsernameRequired, got %v", err)
	}
	if _, err := svc.Register("alice", " "); !errors.Is(err, accounts.ErrPasswordRequired) {
		t.Fatalf("expected ErrPasswordRequired, got %v", err)
	}
}

func TestAccountsSurviveReload(t *testing.T) {
	dir := t.TempDir()
	svc, err := accounts.NewService(dir)
	if err != nil {
		t.Fatalf("expected service, got error: %v", err)
	}
	account, err := svc.Register("alice", "hunter2")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	reloaded, err := accounts.NewService(dir)
	if err != nil {
		t.Fatalf("failed to reload service: %v", err)
	}
	if !reloaded.Exists(account.ID) {
		t.Fatal("expected account to survive reload")
	}
	if _, err := reloaded.Authenticate("alice", "hunter2"); err != nil {
		t.Fatalf("expected credentials to survive reload: %v", err)
	}
}
