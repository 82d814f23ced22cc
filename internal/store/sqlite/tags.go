package sqlite

import (
	"context"

	"github.com/foodgram/foodgram-server/internal/domain"
)

const tagColumns = `id, name, color, slug`

func scanTag(scanner interface{ Scan(dest ...any) error }) (*domain.Tag, error) {
	var t domain.Tag
	if err := scanner.Scan(&t.ID, &t.Name, &t.Color, &t.Slug); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Store) queryTags(ctx context.Context, query string, args ...any) ([]*domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []*domain.Tag{}
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// CreateTag inserts a new tag.
// Returns store.ErrAlreadyExists if the color or slug is already used.
func (s *Store) CreateTag(ctx context.Context, t *domain.Tag) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tags (id, name, color, slug) VALUES (?, ?, ?, ?)`,
		t.ID, t.Name, t.Color, t.Slug)
	return mapConstraintError(err)
}

// GetTag retrieves a tag by ID.
// Returns store.ErrNotFound if the tag does not exist.
func (s *Store) GetTag(ctx context.Context, id string) (*domain.Tag, error) {
	t, err := scanTag(s.db.QueryRowContext(ctx, `SELECT `+tagColumns+` FROM tags WHERE id = ?`, id))
	if err != nil {
		return nil, mapConstraintError(err)
	}
	return t, nil
}

// ListTags returns all tags ordered by name.
func (s *Store) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	return s.queryTags(ctx, `SELECT `+tagColumns+` FROM tags ORDER BY name, slug`)
}

// GetTagsByIDs returns the tags that exist among ids, ordered by name.
func (s *Store) GetTagsByIDs(ctx context.Context, ids []string) ([]*domain.Tag, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return []*domain.Tag{}, nil
	}
	q, args, err := s.inQuery(`SELECT `+tagColumns+` FROM tags WHERE id IN (?) ORDER BY name, slug`, ids)
	if err != nil {
		return nil, err
	}
	return s.queryTags(ctx, q, args...)
}
