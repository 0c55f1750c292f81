package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ecofinds/marketplace/internal/account"
)

type AccountStore interface {
	Register(ctx context.Context, email, username, password string) (*account.User, error)
	Authenticate(ctx context.Context, email, password string) (*account.User, error)
	Get(ctx context.Context, id string) (*account.User, error)
	UpdateProfile(ctx context.Context, id, username string) error
}

type AccountHandler struct {
	Accounts   AccountStore
	JWTSecret  []byte
	SessionTTL time.Duration
}

type credentialsReq struct {
	Email    string `json:"email"`
	Username string `json:"username,omitempty"`
	Password string `json:"password"`
}

type sessionResp struct {
	Token string        `json:"token"`
	User  *account.User `json:"user"`
}

func (h *AccountHandler) Register(r *chi.Mux, auth func(http.Handler) http.Handler) {
	r.Post("/auth/register", h.register)
	r.Post("/auth/login", h.login)
	r.Group(func(g chi.Router) {
		g.Use(auth)
		g.Get("/me", h.me)
		g.Patch("/me", h.updateProfile)
	})
}

func (h *AccountHandler) register(w http.ResponseWriter, r *http.Request) {
	var req credentialsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	u, err := h.Accounts.Register(ctx, req.Email, req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	token, err := IssueToken(h.JWTSecret, u.ID, h.SessionTTL)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionResp{Token: token, User: u})
}

func (h *AccountHandler) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	u, err := h.Accounts.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	token, err := IssueToken(h.JWTSecret, u.ID, h.SessionTTL)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResp{Token: token, User: u})
}

func (h *AccountHandler) me(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	u, err := h.Accounts.Get(ctx, UserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *AccountHandler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	userID := UserID(r.Context())
	if err := h.Accounts.UpdateProfile(ctx, userID, req.Username); err != nil {
		writeError(w, err)
		return
	}
	u, err := h.Accounts.Get(ctx, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}
