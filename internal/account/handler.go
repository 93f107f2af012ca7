package account

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"account-service/internal/auth"
	"account-service/internal/observability"
)

const maxJSONBodyBytes = 1 << 20

type Store interface {
	Create(ctx context.Context, input UserInput) (int64, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	Update(ctx context.Context, id int64, input UserInput) (int64, error)
}

type Handler struct {
	store    Store
	tokens   *auth.TokenManager
	registry auth.Registry
	logger   *observability.Logger
}

func NewHandler(store Store, tokens *auth.TokenManager, registry auth.Registry, logger *observability.Logger) *Handler {
	return &Handler{store: store, tokens: tokens, registry: registry, logger: logger}
}

type loginResponse struct {
	ID          int64  `json:"id"`
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	AccessToken string `json:"access_token"`
	Msg         string `json:"msg"`
	Success     bool   `json:"success"`
}

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, "Hello World!")
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var body registerRequest
	if _, err := decodeBody(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := body.Validate(); err != nil {
		writeValidationError(w, err, profileFields)
		return
	}

	input := body.input()
	id, err := h.store.Create(r.Context(), input)
	if err != nil {
		h.storeFailure(w, r, "register_failed", "Failed to register user", err)
		return
	}

	h.logger.Info("user_registered", map[string]any{"user_id": id})
	writeJSON(w, http.StatusOK, map[string]any{
		"id":      id,
		"msg":     fmt.Sprintf("User %s registered successfully", input.FullName),
		"success": true,
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	empty, err := decodeBody(w, r, &body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if empty {
		writeError(w, http.StatusBadRequest, "No JSON payload")
		return
	}
	if err := body.Validate(); err != nil {
		writeValidationError(w, err, loginFields)
		return
	}

	email, password := *body.Email, *body.Password
	user, err := h.store.GetByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("User %s not found", email))
			return
		}
		h.storeFailure(w, r, "login_failed", "Login failed", err)
		return
	}

	if user.Password != password {
		writeError(w, http.StatusUnauthorized, "Invalid password")
		return
	}

	token, err := h.tokens.Issue(strconv.FormatInt(user.ID, 10))
	if err != nil {
		h.storeFailure(w, r, "issue_token_failed", "Login failed", err)
		return
	}

	h.logger.Info("user_logged_in", map[string]any{"user_id": user.ID, "jti": token.JTI})
	writeJSON(w, http.StatusOK, loginResponse{
		ID:          user.ID,
		FullName:    user.FullName,
		Email:       user.Email,
		AccessToken: token.AccessToken,
		Msg:         "Login successful",
		Success:     true,
	})
}

// Logout must run behind auth.Middleware.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Missing Authorization Header")
		return
	}

	revoked, err := h.registry.Revoke(r.Context(), claims.ID)
	if err != nil {
		h.storeFailure(w, r, "logout_failed", "Failed to logout", err)
		return
	}
	if !revoked {
		writeError(w, http.StatusBadRequest, "Token already blacklisted")
		return
	}

	h.logger.Info("user_logged_out", map[string]any{"user_id": claims.Subject, "jti": claims.ID})
	writeJSON(w, http.StatusOK, map[string]any{"msg": "Successfully logged out", "success": true})
}

// Update must run behind auth.Middleware. The path id is not compared with
// the token subject.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "Not Found")
		return
	}

	var body updateRequest
	if _, err := decodeBody(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := body.Validate(); err != nil {
		writeValidationError(w, err, profileFields)
		return
	}

	affected, err := h.store.Update(r.Context(), id, body.input())
	if err != nil {
		h.storeFailure(w, r, "update_failed", "Failed to update user", err)
		return
	}
	if affected != 1 {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"success": false,
			"msg":     "User not found or no changes made",
			"id":      id,
		})
		return
	}

	h.logger.Info("user_updated", map[string]any{"user_id": id})
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"msg":     "User updated successfully",
		"id":      id,
	})
}

func (h *Handler) storeFailure(w http.ResponseWriter, r *http.Request, event, message string, err error) {
	observability.CaptureError(r.Context(), err)
	h.logger.Error(event, map[string]any{"error": err.Error()})
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"msg":     message,
		"error":   err.Error(),
		"success": false,
	})
}

// decodeBody reports empty=true for a missing body, null, or {}.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) (bool, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return false, err
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return true, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, err
	}

	return len(fields) == 0, nil
}

func writeValidationError(w http.ResponseWriter, err error, declared []string) {
	missing := missingFields(err, declared)
	if len(missing) == 0 {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeError(w, http.StatusBadRequest, missingFieldsMessage(missing))
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"msg": message, "success": false})
}
