package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/secondbrain/brain-server/internal/service"
)

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "signup",
		Method:      http.MethodPost,
		Path:        apiPrefix + "/signup",
		Summary:     "Sign up",
		Description: "Creates an account. Usernames are 3-10 letters; passwords are 8-20 characters with an uppercase letter, a lowercase letter, a digit and a special character.",
		Tags:        []string{"Authentication"},
	}, s.handleSignup)

	huma.Register(s.api, huma.Operation{
		OperationID: "signin",
		Method:      http.MethodPost,
		Path:        apiPrefix + "/signin",
		Summary:     "Sign in",
		Description: "Verifies credentials and returns a session token for the Authorization header",
		Tags:        []string{"Authentication"},
	}, s.handleSignin)
}

// === DTOs ===

// CredentialsRequest is the request body for signup and signin.
type CredentialsRequest struct {
	_        struct{} `json:"-" additionalProperties:"true"`
	Username string   `json:"username" required:"false" doc:"Username"`
	Password string   `json:"password" required:"false" doc:"Password"`
}

// CredentialsInput wraps the credentials request for Huma.
// A missing body is reported by credential validation, not by the framework.
type CredentialsInput struct {
	Body CredentialsRequest `required:"false"`
}

// MessageResponse is a plain confirmation.
type MessageResponse struct {
	Message string `json:"message" doc:"Human-readable result"`
}

// MessageOutput wraps a message response for Huma.
type MessageOutput struct {
	Body MessageResponse
}

// TokenResponse carries a session token.
type TokenResponse struct {
	Token string `json:"token" doc:"Session token; send it as the Authorization header"`
}

// TokenOutput wraps the token response for Huma.
type TokenOutput struct {
	Body TokenResponse
}

// === Handlers ===

func (s *Server) handleSignup(ctx context.Context, input *CredentialsInput) (*MessageOutput, error) {
	_, err := s.services.Auth.Signup(ctx, service.Credentials{
		Username: input.Body.Username,
		Password: input.Body.Password,
	})
	if err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Signed up"}}, nil
}

func (s *Server) handleSignin(ctx context.Context, input *CredentialsInput) (*TokenOutput, error) {
	result, err := s.services.Auth.Signin(ctx, service.Credentials{
		Username: input.Body.Username,
		Password: input.Body.Password,
	})
	if err != nil {
		return nil, err
	}

	return &TokenOutput{Body: TokenResponse{Token: result.Token}}, nil
}
