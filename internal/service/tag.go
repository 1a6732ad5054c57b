package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/secondbrain/brain-server/internal/domain"
	domainerrors "github.com/secondbrain/brain-server/internal/errors"
	"github.com/secondbrain/brain-server/internal/id"
	"github.com/secondbrain/brain-server/internal/store"
	"golang.org/x/text/unicode/norm"
)

// MsgEmptyTag is returned when a tag title is blank.
const MsgEmptyTag = "Tag titles must not be empty"

// TagService maps tag titles to global tags, creating them on first use.
// Tags are shared by all users and never deleted.
type TagService struct {
	store  store.Store
	logger *slog.Logger
}

// NewTagService creates a new tag service.
func NewTagService(store store.Store, logger *slog.Logger) *TagService {
	return &TagService{
		store:  store,
		logger: logger,
	}
}

// NormalizeTitle returns the stored form of a tag title.
// Titles are compared exactly after Unicode NFC normalization, so the
// composed and decomposed spellings of "café" are the same tag.
func NormalizeTitle(title string) string {
	return norm.NFC.String(title)
}

// Resolve returns one tag ID per title, in input order. Repeated titles
// yield repeated IDs. Unknown titles are created.
func (s *TagService) Resolve(ctx context.Context, titles []string) ([]string, error) {
	for _, title := range titles {
		if strings.TrimSpace(title) == "" {
			return nil, domainerrors.InvalidInput(MsgEmptyTag)
		}
	}

	ids := make([]string, 0, len(titles))
	for _, title := range titles {
		tag, err := s.findOrCreate(ctx, NormalizeTitle(title))
		if err != nil {
			return nil, err
		}
		ids = append(ids, tag.ID)
	}
	return ids, nil
}

// findOrCreate looks a tag up by title and creates it when absent.
// Losing a creation race to a concurrent request is not an error: the
// winner's tag is re-fetched and used.
func (s *TagService) findOrCreate(ctx context.Context, title string) (*domain.Tag, error) {
	existing, err := s.store.GetTagByTitle(ctx, title)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, store.ErrTagNotFound) {
		return nil, fmt.Errorf("lookup tag: %w", err)
	}

	tagID, err := id.Generate("tag")
	if err != nil {
		return nil, fmt.Errorf("generate tag ID: %w", err)
	}

	tag := &domain.Tag{
		Base:  domain.Base{ID: tagID},
		Title: title,
	}
	tag.InitTimestamps()

	err = s.store.CreateTag(ctx, tag)
	if errors.Is(err, store.ErrTagExists) {
		winner, err := s.store.GetTagByTitle(ctx, title)
		if err != nil {
			return nil, fmt.Errorf("re-fetch tag after conflict: %w", err)
		}
		return winner, nil
	}
	if err != nil {
		return nil, fmt.Errorf("create tag: %w", err)
	}

	if s.logger != nil {
		s.logger.Debug("Tag created", "tag_id", tag.ID, "title", tag.Title)
	}
	return tag, nil
}

// ListTags returns all tags ordered by title.
func (s *TagService) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	tags, err := s.store.ListTags(ctx)
	if err != nil {
		return nil, domainerrors.Internal(msgServerError).WithCause(err)
	}
	return tags, nil
}
