package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/secondbrain/brain-server/internal/dto"
)

func (s *Server) registerShareRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "shareContent",
		Method:      http.MethodPost,
		Path:        apiPrefix + "/brain/share",
		Summary:     "Share content",
		Description: "Returns the public link of the caller's content with the given title, creating it on first use. Repeated calls return the same link.",
		Tags:        []string{"Sharing"},
		Security:    tokenSecurity,
	}, s.handleShareContent)

	huma.Register(s.api, huma.Operation{
		OperationID: "getSharedContent",
		Method:      http.MethodGet,
		Path:        apiPrefix + "/brain/{shareId}",
		Summary:     "Get shared content",
		Description: "Public read of shared content. No token required.",
		Tags:        []string{"Sharing"},
	}, s.handleGetSharedContent)
}

// === DTOs ===

// ShareRequest names the content to share.
type ShareRequest struct {
	_           struct{} `json:"-" additionalProperties:"true"`
	ContentName string   `json:"contentName" required:"false" doc:"Title of the caller's content"`
}

// ShareInput wraps the share request for Huma.
type ShareInput struct {
	Authorization string       `header:"Authorization"`
	Body          ShareRequest `required:"false"`
}

// ShareResponse carries the public link.
type ShareResponse struct {
	Link    string `json:"link" doc:"Public URL of the shared content"`
	ShareID string `json:"share_id" doc:"Share token"`
}

// ShareOutput wraps the share response for Huma.
type ShareOutput struct {
	Body ShareResponse
}

// GetSharedInput contains the share token path parameter.
type GetSharedInput struct {
	ShareID string `path:"shareId" doc:"Share token"`
}

// SharedContentOutput wraps shared content for Huma.
type SharedContentOutput struct {
	Body dto.Content
}

// === Handlers ===

func (s *Server) handleShareContent(ctx context.Context, input *ShareInput) (*ShareOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	token, err := s.services.Content.Share(ctx, user.ID, input.Body.ContentName)
	if err != nil {
		return nil, err
	}

	return &ShareOutput{
		Body: ShareResponse{Link: s.shareLink(token), ShareID: token},
	}, nil
}

func (s *Server) handleGetSharedContent(ctx context.Context, input *GetSharedInput) (*SharedContentOutput, error) {
	content, err := s.services.Content.GetShared(ctx, input.ShareID)
	if err != nil {
		return nil, err
	}

	return &SharedContentOutput{Body: *content}, nil
}
