package api

import (
	"net/http"

	"github.com/okian/candidates/internal/adapters/http/auth"
	"github.com/okian/candidates/pkg/logger"
)

// TokenHandler exchanges Basic credentials for a bearer token.
type TokenHandler struct {
	auth   *auth.Authenticator
	logger logger.Logger
}

// NewTokenHandler creates a token handler.
func NewTokenHandler(a *auth.Authenticator, l logger.Logger) *TokenHandler {
	return &TokenHandler{auth: a, logger: l}
}

// HandleIssue handles POST /auth/token. The caller is already authenticated.
func (h *TokenHandler) HandleIssue(w http.ResponseWriter, r *http.Request) {
	tok, err := h.auth.IssueToken(auth.Subject(r.Context()))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, tok)
}
