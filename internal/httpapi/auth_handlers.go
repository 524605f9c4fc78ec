package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/bunthoeuntok/salarean-sub000/internal/audit"
	"github.com/bunthoeuntok/salarean-sub000/internal/auth"
)

type tokenRequest struct {
	OwnerID string `json:"owner_id"`
}

type tokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// handleAuthToken mints a short-lived owner token from the configured secret.
// It is a development stand-in for the identity service. With no secret
// configured this endpoint cannot mint, and scoped routes fail because no
// owner identity can ever reach their context.
func (a *API) handleAuthToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req tokenRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	ownerID := strings.TrimSpace(req.OwnerID)
	if ownerID == "" {
		writeError(w, r, http.StatusBadRequest, "owner_id is required")
		return
	}

	token, err := auth.GenerateToken(ownerID, a.tokenTTL)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "token generation failed")
		return
	}

	expiresAt := time.Now().UTC().Add(a.tokenTTL)
	_ = audit.LogEvent(r.Context(), "auth.token.issued", map[string]any{
		"owner_id":   ownerID,
		"expires_at": expiresAt.Format(time.RFC3339),
	})

	writeJSON(w, http.StatusOK, tokenResponse{
		Token:     token,
		ExpiresAt: expiresAt,
	})
}
