package server

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/hansonchs/portfolio-tracker/internal/models"
)

var usernamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{2,31}$`)

// validateUsername checks a user ID is lowercase alphanumeric with dashes or
// underscores, 3-32 chars, starting with a letter or digit.
func validateUsername(userID string) bool {
	return usernamePattern.MatchString(userID)
}

// hashPassword hashes a password with bcrypt. bcrypt ignores input beyond
// 72 bytes, so longer passwords are truncated explicitly first.
func hashPassword(password string) (string, error) {
	b := []byte(password)
	if len(b) > 72 {
		b = b[:72]
	}
	hash, err := bcrypt.GenerateFromPassword(b, 10)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func checkPassword(hash, password string) bool {
	b := []byte(password)
	if len(b) > 72 {
		b = b[:72]
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), b) == nil
}

// handleUserCreate handles POST /api/users.
func (s *Server) handleUserCreate(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		UserID   string `json:"user_id"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	req.UserID = strings.ToLower(strings.TrimSpace(req.UserID))
	if !validateUsername(req.UserID) {
		WriteError(w, http.StatusBadRequest, "user_id must be 3-32 lowercase letters, digits, dashes or underscores")
		return
	}
	if len(req.Password) < 8 {
		WriteError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	ctx := r.Context()
	store := s.app.Storage.InternalStore()

	if existing, err := store.GetUser(ctx, req.UserID); err == nil && existing != nil {
		WriteError(w, http.StatusConflict, "user already exists")
		return
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash password")
		WriteError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	user := &models.InternalUser{
		UserID:       req.UserID,
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: hash,
	}
	if err := store.SaveUser(ctx, user); err != nil {
		s.logger.Error().Err(err).Str("user_id", req.UserID).Msg("Failed to save user")
		WriteError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	s.logger.Info().Str("user_id", user.UserID).Msg("User created")

	WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"status": "ok",
		"data":   user,
	})
}

// handleAuthLogin handles POST /api/auth/login and returns a bearer token.
func (s *Server) handleAuthLogin(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		UserID   string `json:"user_id"`
		Password string `json:"password"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	req.UserID = strings.ToLower(strings.TrimSpace(req.UserID))
	if req.UserID == "" || req.Password == "" {
		WriteError(w, http.StatusBadRequest, "user_id and password are required")
		return
	}

	user, err := s.app.Storage.InternalStore().GetUser(r.Context(), req.UserID)
	if err != nil || user == nil || !checkPassword(user.PasswordHash, req.Password) {
		WriteError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := signToken(user.UserID, s.app.Config)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to sign token")
		WriteError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	s.logger.Info().Str("user_id", user.UserID).Msg("User logged in")

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "ok",
		"token":      token,
		"token_type": "Bearer",
		"expires_in": int(s.app.Config.Auth.GetTokenExpiry() / time.Second),
	})
}
