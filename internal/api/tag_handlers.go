package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/secondbrain/brain-server/internal/dto"
)

func (s *Server) registerTagRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listTags",
		Method:      http.MethodGet,
		Path:        apiPrefix + "/tags",
		Summary:     "List tags",
		Description: "Returns every tag, ordered by title. Tags are shared by all users.",
		Tags:        []string{"Tags"},
		Security:    tokenSecurity,
	}, s.handleListTags)
}

// ListTagsInput contains parameters for listing tags.
type ListTagsInput struct {
	Authorization string `header:"Authorization"`
}

// ListTagsResponse contains a list of tags.
type ListTagsResponse struct {
	Tags []dto.Tag `json:"tags" doc:"List of tags"`
}

// ListTagsOutput wraps the list tags response for Huma.
type ListTagsOutput struct {
	Body ListTagsResponse
}

func (s *Server) handleListTags(ctx context.Context, input *ListTagsInput) (*ListTagsOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	tags, err := s.services.Tag.ListTags(ctx)
	if err != nil {
		return nil, err
	}

	return &ListTagsOutput{Body: ListTagsResponse{Tags: dto.NewTags(tags)}}, nil
}
