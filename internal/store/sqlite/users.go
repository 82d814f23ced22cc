package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/foodgram/foodgram-server/internal/domain"
	"github.com/foodgram/foodgram-server/internal/store"
)

// userColumns is the ordered list of columns selected in user queries.
// Must match the scan order in scanUser.
const userColumns = `id, created_at, updated_at, email, username,
	first_name, last_name, password_hash, role, last_login_at`

// scanUser scans a sql.Row (or sql.Rows via its Scan method) into a domain.User.
func scanUser(scanner interface{ Scan(dest ...any) error }) (*domain.User, error) {
	var (
		u           domain.User
		createdAt   string
		updatedAt   string
		role        string
		lastLoginAt sql.NullString
	)

	err := scanner.Scan(
		&u.ID,
		&createdAt,
		&updatedAt,
		&u.Email,
		&u.Username,
		&u.FirstName,
		&u.LastName,
		&u.PasswordHash,
		&role,
		&lastLoginAt,
	)
	if err != nil {
		return nil, err
	}

	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if u.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	if lastLoginAt.Valid {
		if u.LastLoginAt, err = parseTime(lastLoginAt.String); err != nil {
			return nil, err
		}
	}
	u.Role = domain.Role(role)

	return &u, nil
}

func (s *Store) queryUsers(ctx context.Context, query string, args ...any) ([]*domain.User, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []*domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// CreateUser inserts a new user.
// Returns store.ErrAlreadyExists if the id, email or username is taken.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	role := user.Role
	if role == "" {
		role = domain.RoleUser
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (
			id, created_at, updated_at, email, email_lower, username,
			first_name, last_name, password_hash, role, last_login_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		formatTime(user.CreatedAt),
		formatTime(user.UpdatedAt),
		user.Email,
		user.NormalizedEmail(),
		user.Username,
		user.FirstName,
		user.LastName,
		user.PasswordHash,
		string(role),
		nullTimeString(user.LastLoginAt),
	)
	return mapConstraintError(err)
}

// GetUser retrieves a user by ID.
// Returns store.ErrNotFound if the user does not exist.
func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err != nil {
		return nil, mapConstraintError(err)
	}
	return u, nil
}

// GetUsersByIDs returns the users that exist among ids, ordered by username.
func (s *Store) GetUsersByIDs(ctx context.Context, ids []string) ([]*domain.User, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return []*domain.User{}, nil
	}
	q, args, err := s.inQuery(`SELECT `+userColumns+` FROM users WHERE id IN (?) ORDER BY username`, ids)
	if err != nil {
		return nil, err
	}
	return s.queryUsers(ctx, q, args...)
}

// GetUserByEmail retrieves a user by email, case-insensitively.
// Returns store.ErrNotFound if no user has that email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email_lower = ?`, domain.NormalizeEmail(email))
	u, err := scanUser(row)
	if err != nil {
		return nil, mapConstraintError(err)
	}
	return u, nil
}

// UpdateUser performs a full row update of a user.
// Returns store.ErrNotFound if the user does not exist.
func (s *Store) UpdateUser(ctx context.Context, user *domain.User) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE users SET
			updated_at = ?,
			email = ?,
			email_lower = ?,
			username = ?,
			first_name = ?,
			last_name = ?,
			password_hash = ?,
			role = ?,
			last_login_at = ?
		WHERE id = ?`,
		formatTime(user.UpdatedAt),
		user.Email,
		user.NormalizedEmail(),
		user.Username,
		user.FirstName,
		user.LastName,
		user.PasswordHash,
		string(user.Role),
		nullTimeString(user.LastLoginAt),
		user.ID,
	)
	if err != nil {
		return mapConstraintError(err)
	}
	return expectAffected(result)
}

// DeleteUser removes a user; recipes, sessions and relations cascade.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return expectAffected(result)
}

// ListUsers returns one page of users ordered by username.
func (s *Store) ListUsers(ctx context.Context, page store.PageParams) (store.PaginatedResult[*domain.User], error) {
	total, err := s.CountUsers(ctx)
	if err != nil {
		return store.PaginatedResult[*domain.User]{}, err
	}
	users, err := s.queryUsers(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY username LIMIT ? OFFSET ?`,
		page.Limit, page.Offset())
	if err != nil {
		return store.PaginatedResult[*domain.User]{}, fmt.Errorf("list users: %w", err)
	}
	return store.PaginatedResult[*domain.User]{Items: users, Total: total}, nil
}

// CountUsers returns the number of registered users.
func (s *Store) CountUsers(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
