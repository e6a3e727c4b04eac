package auth

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	authdomain "crewledger/internal/auth"
	"crewledger/internal/transport/http/api"
	"crewledger/internal/transport/http/middleware"
)

// Handler signs in the foreman account configured through the environment.
// There is no user table; the crew never logs in, only the office does.
type Handler struct {
	Secret       string
	TokenTTL     time.Duration
	ForemanEmail string
	ForemanHash  string
}

func NewHandler(secret string, ttl time.Duration, foremanEmail, foremanHash string) *Handler {
	return &Handler{Secret: secret, TokenTTL: ttl, ForemanEmail: foremanEmail, ForemanHash: foremanHash}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/login", h.handleLogin)
	r.Get("/auth/me", h.handleMe)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid json body", reqID)
		return
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))
	if email == "" || payload.Password == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "email and password are required", reqID)
		return
	}

	if email != strings.ToLower(h.ForemanEmail) ||
		authdomain.CheckPassword(h.ForemanHash, payload.Password) != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password", reqID)
		return
	}

	token, err := authdomain.GenerateToken(h.Secret, authdomain.Claims{Email: email, Role: "foreman"}, h.TokenTTL)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "token_failed", "failed to issue token", reqID)
		return
	}

	api.Success(w, map[string]any{
		"token":     token,
		"expiresAt": time.Now().Add(h.TokenTTL).UTC().Format(time.RFC3339),
	}, reqID)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	api.Success(w, map[string]string{"email": claims.Email, "role": claims.Role}, reqID)
}
