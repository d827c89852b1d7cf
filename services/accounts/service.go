// Package accounts manages registered user accounts with bcrypt-hashed
// passwords, persisted as a JSON file in the data directory.
package accounts

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"showdeck/models"
)

var (
	ErrStorageDirRequired = errors.New("storage directory not provided")
	ErrUsernameRequired   = errors.New("username is required")
	ErrPasswordRequired   = errors.New("password is required")
	ErrUsernameExists     = errors.New("username already exists")
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// Service manages persistence of user accounts.
type Service struct {
	mu       sync.RWMutex
	path     string
	accounts map[string]models.Account
}

// NewService creates an accounts service storing data inside the provided directory.
func NewService(storageDir string) (*Service, error) {
	if strings.TrimSpace(storageDir) == "" {
		return nil, ErrStorageDirRequired
	}

	if err := os.MkdirAll(storageDir, 0o755); err != nil {
		return nil, fmt.Errorf("create accounts dir: %w", err)
	}

	svc := &Service{
		path:     filepath.Join(storageDir, "accounts.json"),
		accounts: make(map[string]models.Account),
	}

	if err := svc.load(); err != nil {
		return nil, err
	}
	return svc, nil
}

// Register creates a new account with the provided username and password.
func (s *Service) Register(username, password string) (models.Account, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return models.Account{}, ErrUsernameRequired
	}
	password = strings.TrimSpace(password)
	if password == "" {
		return models.Account{}, ErrPasswordRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lower := strings.ToLower(username)
	for _, a := range s.accounts {
		if strings.ToLower(a.Username) == lower {
			return models.Account{}, ErrUsernameExists
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.Account{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	account := models.Account{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	s.accounts[account.ID] = account
	if err := s.saveLocked(); err != nil {
		delete(s.accounts, account.ID)
		return models.Account{}, err
	}
	return account, nil
}

// Authenticate verifies the username/password pair and returns the account.
func (s *Service) Authenticate(username, password string) (models.Account, error) {
	account, ok := s.getByUsername(username)
	if !ok {
		// burn a bcrypt comparison anyway so response timing does not leak
		// whether the username exists
		_ = bcrypt.CompareHashAndPassword([]byte("$2a$10$0000000000000000000000"), []byte(password))
		return models.Account{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return models.Account{}, ErrInvalidCredentials
	}
	return account, nil
}

// Get returns the account with the given ID if present.
func (s *Service) Get(id string) (models.Account, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return models.Account{}, false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[id]
	return account, ok
}

// Exists reports whether an account with the provided ID is registered.
func (s *Service) Exists(id string) bool {
	_, ok := s.Get(id)
	return ok
}

// List returns all accounts sorted by creation time.
func (s *Service) List() []models.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()

	accounts := make([]models.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		accounts = append(accounts, a)
	}
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].CreatedAt.Before(accounts[j].CreatedAt)
	})
	return accounts
}

func (s *Service) getByUsername(username string) (models.Account, bool) {
	username = strings.TrimSpace(strings.ToLower(username))
	if username == "" {
		return models.Account{}, false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.accounts {
		if strings.ToLower(a.Username) == username {
			return a, true
		}
	}
	return models.Account{}, false
}

func (s *Service) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read accounts: %w", err)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode accounts: %w", err)
	}
	for _, item := range raw {
		var account models.Account
		if err := account.UnmarshalStorage(item); err != nil {
			return fmt.Errorf("decode account: %w", err)
		}
		s.accounts[account.ID] = account
	}
	return nil
}

func (s *Service) saveLocked() error {
	accounts := make([]models.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		accounts = append(accounts, a)
	}
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].CreatedAt.Before(accounts[j].CreatedAt)
	})

	encoded := make([]json.RawMessage, 0, len(accounts))
	for _, a := range accounts {
		item, err := a.MarshalStorage()
		if err != nil {
			return fmt.Errorf("encode account: %w", err)
		}
		encoded = append(encoded, item)
	}

	data, err := json.MarshalIndent(encoded, "", "  ")
	if err != nil {
		return fmt.Errorf("encode accounts: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write accounts: %w", err)
	}
	return os.Rename(tmp, s.path)
}
