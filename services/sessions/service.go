// Package sessions manages bearer-token sessions for authenticated accounts,
// persisted as a JSON file so logins survive restarts.
package sessions

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"showdeck/models"
)

var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
	ErrInvalidToken       = errors.New("invalid token")
	ErrStorageDirRequired = errors.New("storage directory not provided")
)

const (
	// DefaultSessionDuration is the default lifetime of a session.
	DefaultSessionDuration = 30 * 24 * time.Hour

	// tokenLength is the number of random bytes used for session tokens.
	tokenLength = 32
)

// Service manages session tokens for authenticated accounts.
type Service struct {
	mu       sync.RWMutex
	path     string
	sessions map[string]models.Session
	duration time.Duration
}

// NewService creates a sessions service persisting to storageDir. Expired
// sessions are swept by a background loop.
func NewService(storageDir string, duration time.Duration) (*Service, error) {
	if strings.TrimSpace(storageDir) == "" {
		return nil, ErrStorageDirRequired
	}
	if duration <= 0 {
		duration = DefaultSessionDuration
	}

	if err := os.MkdirAll(storageDir, 0o755); err != nil {
		return nil, fmt.Errorf("create sessions dir: %w", err)
	}

	svc := &Service{
		path:     filepath.Join(storageDir, "sessions.json"),
		sessions: make(map[string]models.Session),
		duration: duration,
	}

	if err := svc.load(); err != nil {
		return nil, err
	}

	go svc.cleanupLoop()
	return svc, nil
}

// Create generates a new session for the given account.
func (s *Service) Create(accountID, userAgent, ipAddress string) (models.Session, error) {
	token, err := generateToken()
	if err != nil {
		return models.Session{}, err
	}

	now := time.Now().UTC()
	session := models.Session{
		Token:     token,
		AccountID: accountID,
		ExpiresAt: now.Add(s.duration),
		CreatedAt: now,
		UserAgent: userAgent,
		IPAddress: ipAddress,
	}

	s.mu.Lock()
	s.sessions[token] = session
	if err := s.saveLocked(); err != nil {
		delete(s.sessions, token)
		s.mu.Unlock()
		return models.Session{}, err
	}
	s.mu.Unlock()

	return session, nil
}

// Validate checks if a token is valid and returns the associated session.
func (s *Service) Validate(token string) (models.Session, error) {
	if strings.TrimSpace(token) == "" {
		return models.Session{}, ErrInvalidToken
	}

	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return models.Session{}, ErrSessionNotFound
	}
	if session.IsExpired() {
		s.mu.Lock()
		delete(s.sessions, token)
		_ = s.saveLocked()
		s.mu.Unlock()
		return models.Session{}, ErrSessionExpired
	}
	return session, nil
}

// Revoke deletes the session for the given token.
func (s *Service) Revoke(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[token]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, token)
	return s.saveLocked()
}

// RevokeAccount deletes every session belonging to the account.
func (s *Service) RevokeAccount(accountID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for token, session := range s.sessions {
		if session.AccountID == accountID {
			delete(s.sessions, token)
		}
	}
	return s.saveLocked()
}

func (s *Service) cleanupLoop() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()
	for range ticker.C {
		s.mu.Lock()
		changed := false
		for token, session := range s.sessions {
			if session.IsExpired() {
				delete(s.sessions, token)
				changed = true
			}
		}
		if changed {
			_ = s.saveLocked()
		}
		s.mu.Unlock()
	}
}

func (s *Service) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read sessions: %w", err)
	}

	var sessions []models.Session
	if err := json.Unmarshal(data, &sessions); err != nil {
		return fmt.Errorf("decode sessions: %w", err)
	}
	for _, session := range sessions {
		if session.IsExpired() {
			continue
		}
		s.sessions[session.Token] = session
	}
	return nil
}

func (s *Service) saveLocked() error {
	sessions := make([]models.Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		sessions = append(sessions, session)
	}

	data, err := json.MarshalIndent(sessions, "", "  ")
	if err != nil {
		return fmt.Errorf("encode sessions: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write sessions: %w", err)
	}
	return os.Rename(tmp, s.path)
}

func generateToken() (string, error) {
	buf := make([]byte, tokenLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
