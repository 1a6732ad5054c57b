package api

import (
	"context"
	"strings"

	"github.com/secondbrain/brain-server/internal/domain"
	domainerrors "github.com/secondbrain/brain-server/internal/errors"
)

// msgMissingToken is returned when a protected route gets no token.
const msgMissingToken = "Missing or invalid token"

// authenticateRequest validates the Authorization header and returns the caller.
// The header carries the raw token; a "Bearer " prefix is accepted too.
// Every failure is a 403 that does not say why the token was rejected.
func (s *Server) authenticateRequest(ctx context.Context, authHeader string) (*domain.User, error) {
	token := strings.TrimSpace(authHeader)
	if scheme, rest, _ := strings.Cut(token, " "); strings.EqualFold(scheme, "Bearer") {
		token = strings.TrimSpace(rest)
	}
	if token == "" {
		return nil, domainerrors.Unauthorized(msgMissingToken)
	}

	return s.services.Auth.VerifyToken(ctx, token)
}

// shareLink builds the public URL of a shared record.
func (s *Server) shareLink(token string) string {
	return s.publicURL + apiPrefix + "/brain/" + token
}
