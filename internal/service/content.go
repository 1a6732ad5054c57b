package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/secondbrain/brain-server/internal/domain"
	"github.com/secondbrain/brain-server/internal/dto"
	domainerrors "github.com/secondbrain/brain-server/internal/errors"
	"github.com/secondbrain/brain-server/internal/id"
	"github.com/secondbrain/brain-server/internal/store"
	"github.com/secondbrain/brain-server/internal/validation"
)

// maxShareTokenAttempts bounds regeneration when a fresh token collides
// with one already in use.
const maxShareTokenAttempts = 3

// Messages returned to clients by ContentService.
const (
	MsgContentNotFound  = "Content not found or not owned"
	MsgInvalidShareLink = "Invalid share link"
	msgStoreFailed      = "Failed to store content"
	msgFetchFailed      = "Failed to fetch content"
	msgDeleteFailed     = "Failed to delete content"
	msgShareFailed      = "Failed to share content"
)

// ContentService owns content records, owner-scoped queries and sharing.
type ContentService struct {
	store     store.Store
	tags      *TagService
	enricher  *dto.Enricher
	validator *validation.Validator
	logger    *slog.Logger
}

// NewContentService creates a new content service.
func NewContentService(
	store store.Store,
	tags *TagService,
	validator *validation.Validator,
	logger *slog.Logger,
) *ContentService {
	return &ContentService{
		store:     store,
		tags:      tags,
		enricher:  dto.NewEnricher(store),
		validator: validator,
		logger:    logger,
	}
}

// CreateContentRequest is the body of a content creation request.
type CreateContentRequest struct {
	Link  string   `json:"link" validate:"required"`
	Type  string   `json:"type" validate:"required,contenttype"`
	Title string   `json:"title" validate:"required"`
	Tags  []string `json:"tags,omitempty"`
}

// DeleteContentRequest identifies the content to delete.
type DeleteContentRequest struct {
	Link  string `json:"link" validate:"required"`
	Title string `json:"title" validate:"required"`
}

// Create stores a new content record for ownerID, resolving its tags first.
// Nothing is written when validation fails.
func (s *ContentService) Create(ctx context.Context, ownerID string, req CreateContentRequest) (*domain.Content, error) {
	if ownerID == "" {
		return nil, domainerrors.InvalidInput(validation.MsgMissingFields)
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	tagIDs, err := s.tags.Resolve(ctx, req.Tags)
	if err != nil {
		if errors.Is(err, domainerrors.ErrInvalidInput) {
			return nil, err
		}
		return nil, domainerrors.Forbidden(msgStoreFailed).WithCause(err)
	}

	contentID, err := id.Generate("content")
	if err != nil {
		return nil, domainerrors.Internal(msgServerError).WithCause(fmt.Errorf("generate content ID: %w", err))
	}

	content := &domain.Content{
		Base:    domain.Base{ID: contentID},
		Link:    req.Link,
		Type:    domain.ContentType(req.Type),
		Title:   req.Title,
		TagIDs:  tagIDs,
		OwnerID: ownerID,
	}
	content.InitTimestamps()

	if err := s.store.CreateContent(ctx, content); err != nil {
		return nil, domainerrors.Forbidden(msgStoreFailed).WithCause(err)
	}

	if s.logger != nil {
		s.logger.Info("Content created",
			"content_id", content.ID,
			"owner_id", ownerID,
			"type", content.Type,
			"tags", len(tagIDs),
		)
	}

	return content, nil
}

// List returns the owner's content, oldest first, with tags and owner resolved.
func (s *ContentService) List(ctx context.Context, ownerID string) ([]dto.Content, error) {
	items, err := s.store.ListContentByOwner(ctx, ownerID)
	if err != nil {
		return nil, domainerrors.Forbidden(msgFetchFailed).WithCause(err)
	}

	views, err := s.enricher.EnrichContent(ctx, items)
	if err != nil {
		return nil, domainerrors.Forbidden(msgFetchFailed).WithCause(err)
	}
	return views, nil
}

// Delete removes at most one of the owner's records matching link and title
// exactly. Finding nothing to delete still succeeds; the returned bool
// reports whether a record was removed.
func (s *ContentService) Delete(ctx context.Context, ownerID string, req DeleteContentRequest) (bool, error) {
	if err := s.validator.Validate(req); err != nil {
		return false, err
	}

	deleted, err := s.store.DeleteContentByOwner(ctx, ownerID, req.Link, req.Title)
	if err != nil {
		return false, domainerrors.Forbidden(msgDeleteFailed).WithCause(err)
	}

	if s.logger != nil {
		s.logger.Info("Content delete",
			"owner_id", ownerID,
			"deleted", deleted,
		)
	}
	return deleted, nil
}

// Share returns the share token of the owner's content titled title,
// assigning one on first use. Repeated and concurrent calls return the
// same token. Content owned by someone else is reported exactly like
// missing content.
func (s *ContentService) Share(ctx context.Context, ownerID, title string) (string, error) {
	if title == "" {
		return "", domainerrors.InvalidInput(validation.MsgMissingFields)
	}

	content, err := s.store.GetContentByOwnerTitle(ctx, ownerID, title)
	if err != nil {
		if errors.Is(err, store.ErrContentNotFound) {
			return "", domainerrors.NotFound(MsgContentNotFound)
		}
		return "", domainerrors.Forbidden(msgShareFailed).WithCause(err)
	}

	if content.IsShared() {
		return content.ShareToken, nil
	}

	for range maxShareTokenAttempts {
		candidate, err := id.ShareToken()
		if err != nil {
			return "", domainerrors.Internal(msgServerError).WithCause(err)
		}

		token, err := s.store.AssignShareToken(ctx, content.ID, candidate)
		switch {
		case errors.Is(err, store.ErrShareTokenTaken):
			continue
		case errors.Is(err, store.ErrContentNotFound):
			return "", domainerrors.NotFound(MsgContentNotFound)
		case err != nil:
			return "", domainerrors.Forbidden(msgShareFailed).WithCause(err)
		}

		if s.logger != nil && token == candidate {
			s.logger.Info("Content shared", "content_id", content.ID, "owner_id", ownerID)
		}
		return token, nil
	}

	return "", domainerrors.Internal(msgServerError).WithCause(errors.New("share token collisions exhausted retries"))
}

// GetShared returns the content published under a share token.
// Malformed, unassigned and revoked tokens are all "invalid share link".
func (s *ContentService) GetShared(ctx context.Context, token string) (*dto.Content, error) {
	if !id.IsShareToken(token) {
		return nil, domainerrors.NotFound(MsgInvalidShareLink)
	}

	content, err := s.store.GetContentByShareToken(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrContentNotFound) {
			return nil, domainerrors.NotFound(MsgInvalidShareLink)
		}
		return nil, domainerrors.Internal(msgServerError).WithCause(err)
	}

	view, err := s.enricher.EnrichOne(ctx, content)
	if err != nil {
		return nil, domainerrors.Internal(msgServerError).WithCause(err)
	}
	return view, nil
}
