package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"showdeck/api"
	"showdeck/services/accounts"
	"showdeck/services/sessions"
)

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	accounts *accounts.Service
	sessions *sessions.Service
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(accountsSvc *accounts.Service, sessionsSvc *sessions.Service) *AuthHandler {
	return &AuthHandler{accounts: accountsSvc, sessions: sessionsSvc}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned from both Register and Login.
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"`
	AccountID string `json:"accountId"`
	Username  string `json:"username"`
}

// Register creates an account and logs it straight in.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, err := h.accounts.Register(req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, accounts.ErrUsernameRequired), errors.Is(err, accounts.ErrPasswordRequired):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, accounts.ErrUsernameExists):
			writeError(w, http.StatusConflict, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to create account")
		}
		return
	}

	h.issueSession(w, r, account.ID, account.Username)
}

// Login authenticates a user and returns a session token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, err := h.accounts.Authenticate(req.Username, req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}

	h.issueSession(w, r, account.ID, account.Username)
}

// Logout invalidates the current session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := extractBearerToken(r)
	if token == "" {
		writeError(w, http.StatusBadRequest, "no session token")
		return
	}

	if err := h.sessions.Revoke(token); err != nil && !errors.Is(err, sessions.ErrSessionNotFound) {
		writeError(w, http.StatusInternalServerError, "failed to revoke session")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// Me returns the authenticated account.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	account, ok := h.accounts.Get(api.GetAccountID(r))
	if !ok {
		writeError(w, http.StatusNotFound, "account not found")
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (h *AuthHandler) issueSession(w http.ResponseWriter, r *http.Request, accountID, username string) {
	session, err := h.sessions.Create(accountID, r.Header.Get("User-Agent"), api.GetClientIP(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt.Format("2006-01-02T15:04:05Z"),
		AccountID: accountID,
		Username:  username,
	})
}

func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
