package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/secondbrain/brain-server/internal/dto"
)

func (s *Server) registerUserRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getCurrentUser",
		Method:      http.MethodGet,
		Path:        apiPrefix + "/me",
		Summary:     "Get current user",
		Description: "Returns the account the session token belongs to",
		Tags:        []string{"Users"},
		Security:    tokenSecurity,
	}, s.handleGetCurrentUser)
}

// GetCurrentUserInput contains parameters for the current user lookup.
type GetCurrentUserInput struct {
	Authorization string `header:"Authorization"`
}

// UserOutput wraps a user view for Huma.
type UserOutput struct {
	Body dto.User
}

func (s *Server) handleGetCurrentUser(ctx context.Context, input *GetCurrentUserInput) (*UserOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: dto.NewUser(user)}, nil
}
