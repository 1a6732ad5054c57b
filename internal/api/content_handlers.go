package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/secondbrain/brain-server/internal/dto"
	"github.com/secondbrain/brain-server/internal/service"
)

func (s *Server) registerContentRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createContent",
		Method:      http.MethodPost,
		Path:        apiPrefix + "/content",
		Summary:     "Store content",
		Description: "Stores a link for the caller. Unknown tag titles are created.",
		Tags:        []string{"Content"},
		Security:    tokenSecurity,
	}, s.handleCreateContent)

	huma.Register(s.api, huma.Operation{
		OperationID: "listContent",
		Method:      http.MethodGet,
		Path:        apiPrefix + "/content",
		Summary:     "List content",
		Description: "Returns the caller's content, oldest first, with tags and owner resolved",
		Tags:        []string{"Content"},
		Security:    tokenSecurity,
	}, s.handleListContent)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteContent",
		Method:      http.MethodDelete,
		Path:        apiPrefix + "/content",
		Summary:     "Delete content",
		Description: "Deletes one of the caller's records matching link and title exactly. Succeeds even when nothing matches.",
		Tags:        []string{"Content"},
		Security:    tokenSecurity,
	}, s.handleDeleteContent)
}

// === DTOs ===

// CreateContentRequest is the request body for storing content.
type CreateContentRequest struct {
	_     struct{} `json:"-" additionalProperties:"true"`
	Link  string   `json:"link" required:"false" doc:"URL of the content"`
	Type  string   `json:"type" required:"false" doc:"One of image, video, article, audio"`
	Title string   `json:"title" required:"false" doc:"Title; share requests refer to content by title"`
	Tags  []string `json:"tags,omitempty" required:"false" doc:"Tag titles"`
}

// CreateContentInput wraps the create content request for Huma.
type CreateContentInput struct {
	Authorization string `header:"Authorization"`
	Body          CreateContentRequest `required:"false"`
}

// CreateContentResponse confirms a stored record.
type CreateContentResponse struct {
	Message string `json:"message" doc:"Human-readable result"`
	ID      string `json:"id" doc:"Content ID"`
}

// CreateContentOutput wraps the create content response for Huma.
type CreateContentOutput struct {
	Body CreateContentResponse
}

// ListContentInput contains parameters for listing content.
type ListContentInput struct {
	Authorization string `header:"Authorization"`
}

// ListContentResponse contains the caller's content.
type ListContentResponse struct {
	Content []dto.Content `json:"content" doc:"Content records, oldest first"`
}

// ListContentOutput wraps the list content response for Huma.
type ListContentOutput struct {
	Body ListContentResponse
}

// DeleteContentRequest identifies the content to delete.
type DeleteContentRequest struct {
	_     struct{} `json:"-" additionalProperties:"true"`
	Link  string   `json:"link" required:"false" doc:"Exact link of the record"`
	Title string   `json:"title" required:"false" doc:"Exact title of the record"`
}

// DeleteContentInput wraps the delete content request for Huma.
type DeleteContentInput struct {
	Authorization string `header:"Authorization"`
	Body          DeleteContentRequest `required:"false"`
}

// === Handlers ===

func (s *Server) handleCreateContent(ctx context.Context, input *CreateContentInput) (*CreateContentOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	content, err := s.services.Content.Create(ctx, user.ID, service.CreateContentRequest{
		Link:  input.Body.Link,
		Type:  input.Body.Type,
		Title: input.Body.Title,
		Tags:  input.Body.Tags,
	})
	if err != nil {
		return nil, err
	}

	return &CreateContentOutput{
		Body: CreateContentResponse{Message: "Content stored", ID: content.ID},
	}, nil
}

func (s *Server) handleListContent(ctx context.Context, input *ListContentInput) (*ListContentOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	items, err := s.services.Content.List(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &ListContentOutput{Body: ListContentResponse{Content: items}}, nil
}

func (s *Server) handleDeleteContent(ctx context.Context, input *DeleteContentInput) (*MessageOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if _, err := s.services.Content.Delete(ctx, user.ID, service.DeleteContentRequest{
		Link:  input.Body.Link,
		Title: input.Body.Title,
	}); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Content deleted"}}, nil
}
