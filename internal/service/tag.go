package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/foodgram/foodgram-server/internal/access"
	"github.com/foodgram/foodgram-server/internal/color"
	"github.com/foodgram/foodgram-server/internal/domain"
	domainerrors "github.com/foodgram/foodgram-server/internal/errors"
	"github.com/foodgram/foodgram-server/internal/id"
	"github.com/foodgram/foodgram-server/internal/normalize"
	"github.com/foodgram/foodgram-server/internal/store"
	"github.com/foodgram/foodgram-server/internal/validation"
)

// maxColorAttempts bounds retries when a generated color is already taken.
const maxColorAttempts = 5

// TagService manages the tag catalogue. Tags are created by administrators
// and read by everyone.
type TagService struct {
	store      store.Store
	colors     color.Generator
	authorizer *access.Authorizer
	validator  *validation.Validator
	logger     *slog.Logger
}

// NewTagService creates a new tag service. colors supplies a color for tags
// created without one.
func NewTagService(
	store store.Store,
	colors color.Generator,
	authorizer *access.Authorizer,
	validator *validation.Validator,
	logger *slog.Logger,
) *TagService {
	if colors == nil {
		colors = color.Random
	}
	return &TagService{
		store:      store,
		colors:     colors,
		authorizer: authorizer,
		validator:  validator,
		logger:     logger,
	}
}

// CreateTagRequest describes a new tag. Color and slug are optional: the
// slug is derived from the name, the color is generated.
type CreateTagRequest struct {
	Name  string `json:"name" validate:"required,max=200"`
	Color string `json:"color,omitempty" validate:"omitempty,rgbcolor"`
	Slug  string `json:"slug,omitempty" validate:"omitempty,max=200,slug"`
}

// ListTags returns all tags ordered by name.
func (s *TagService) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	tags, err := s.store.ListTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

// GetTag returns a tag by ID.
func (s *TagService) GetTag(ctx context.Context, tagID string) (*domain.Tag, error) {
	tag, err := s.store.GetTag(ctx, tagID)
	if err != nil {
		return nil, storeError(err, "get tag", "tag")
	}
	return tag, nil
}

// CreateTag adds a tag. A generated color that collides with an existing
// tag is replaced and retried; an explicit color or slug that collides is
// a conflict.
func (s *TagService) CreateTag(ctx context.Context, actor access.Subject, req CreateTagRequest) (*domain.Tag, error) {
	if err := s.authorizer.Authorize(actor, access.ObjectTag, access.ActionCreate, ""); err != nil {
		return nil, err
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Slug = strings.TrimSpace(req.Slug)
	req.Color = color.Normalize(req.Color)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	slug := req.Slug
	if slug == "" {
		slug = normalize.Slug(req.Name)
		if slug == "" {
			return nil, domainerrors.FieldError("slug", "could not be derived from name, provide one explicitly")
		}
		if len(slug) > domain.MaxTagFieldLength {
			slug = strings.TrimRight(slug[:domain.MaxTagFieldLength], "-")
		}
	}

	tagID, err := id.Generate(id.PrefixTag)
	if err != nil {
		return nil, fmt.Errorf("generate tag ID: %w", err)
	}
	tag := &domain.Tag{ID: tagID, Name: req.Name, Slug: slug, Color: req.Color}

	attempts := 1
	if tag.Color == "" {
		attempts = maxColorAttempts
	}
	for attempt := 1; ; attempt++ {
		if req.Color == "" {
			tag.Color = color.Normalize(s.colors())
		}

		err = s.store.CreateTag(ctx, tag)
		if err == nil {
			break
		}
		if !errors.Is(err, store.ErrAlreadyExists) {
			return nil, fmt.Errorf("create tag: %w", err)
		}
		if !strings.Contains(err.Error(), "tags.color") {
			return nil, fieldConflict("slug", "a tag with this slug already exists", err)
		}
		if attempt >= attempts {
			return nil, fieldConflict("color", "a tag with this color already exists", err)
		}
		s.logger.Debug("Tag color taken, retrying", "color", tag.Color, "attempt", attempt)
	}

	s.logger.Info("Tag created", "tag_id", tag.ID, "slug", tag.Slug, "color", tag.Color)
	return tag, nil
}

// fieldConflict is a CONFLICT error whose details name the offending field.
func fieldConflict(field, msg string, cause error) error {
	return domainerrors.Conflict(msg).WithDetails(map[string]string{field: msg}).WithCause(cause)
}
