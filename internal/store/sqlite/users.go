package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/bibliohome/bibliohome-server/internal/domain"
	"github.com/bibliohome/bibliohome-server/internal/store"
)

// userColumns must match the scan order in scanUser.
const userColumns = `id, created_at, updated_at, username, email, password_hash, first_name,
	last_name, date_of_birth, address, phone, role, photo`

func scanUser(scanner interface{ Scan(dest ...any) error }) (*domain.User, error) {
	var (
		u                    domain.User
		createdAt, updatedAt string
		firstName, lastName  sql.NullString
		dateOfBirth          sql.NullString
		address, phone       sql.NullString
		role, photo          sql.NullString
	)
	err := scanner.Scan(
		&u.ID,
		&createdAt,
		&updatedAt,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&firstName,
		&lastName,
		&dateOfBirth,
		&address,
		&phone,
		&role,
		&photo,
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
	if u.DateOfBirth, err = parseNullableDate(dateOfBirth); err != nil {
		return nil, err
	}
	u.FirstName = firstName.String
	u.LastName = lastName.String
	u.Address = address.String
	u.Phone = phone.String
	u.Role = role.String
	u.Photo = photo.String
	return &u, nil
}

// uniqueUserMessage names the column behind a users UNIQUE violation.
func uniqueUserMessage(err error) string {
	if strings.Contains(err.Error(), "users.email") {
		return "Email already in use"
	}
	return "Username already in use"
}

// CreateUser inserts a new user. Duplicate usernames or emails return store.ErrAlreadyExists.
func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	_, err := s.q.ExecContext(ctx, `INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID,
		formatTime(u.CreatedAt),
		formatTime(u.UpdatedAt),
		u.Username,
		u.Email,
		u.PasswordHash,
		nullString(u.FirstName),
		nullString(u.LastName),
		nullDate(u.DateOfBirth),
		nullString(u.Address),
		nullString(u.Phone),
		nullString(u.Role),
		nullString(u.Photo),
	)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists.WithMessage(uniqueUserMessage(err))
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetUser retrieves a user by ID.
func (s *Store) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.getUserWhere(ctx, `id = ?`, userID)
}

// GetUserByUsername retrieves a user by username.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.getUserWhere(ctx, `username = ?`, username)
}

// GetUserByEmail retrieves a user by email, case-insensitively.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.getUserWhere(ctx, `email = ? COLLATE NOCASE`, email)
}

func (s *Store) getUserWhere(ctx context.Context, where string, arg any) (*domain.User, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE `+where, arg)
	u, err := scanUser(row)
	if err != nil {
		return nil, notFound(err, "User not found")
	}
	return u, nil
}

// UserExists reports whether a user row exists.
func (s *Store) UserExists(ctx context.Context, userID string) (bool, error) {
	n, err := s.count(ctx, `SELECT COUNT(*) FROM users WHERE id = ?`, userID)
	return n > 0, err
}

// ListUsers returns users ordered by username.
func (s *Store) ListUsers(ctx context.Context) ([]*domain.User, error) {
	rows, err := s.q.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY username COLLATE NOCASE`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var out []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// UpdateUser overwrites a user row, including the password hash.
func (s *Store) UpdateUser(ctx context.Context, u *domain.User) error {
	res, err := s.q.ExecContext(ctx, `
		UPDATE users SET updated_at = ?, username = ?, email = ?, password_hash = ?, first_name = ?,
			last_name = ?, date_of_birth = ?, address = ?, phone = ?, role = ?, photo = ?
		WHERE id = ?`,
		formatTime(u.UpdatedAt),
		u.Username,
		u.Email,
		u.PasswordHash,
		nullString(u.FirstName),
		nullString(u.LastName),
		nullDate(u.DateOfBirth),
		nullString(u.Address),
		nullString(u.Phone),
		nullString(u.Role),
		nullString(u.Photo),
		u.ID,
	)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists.WithMessage(uniqueUserMessage(err))
	}
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return expectOne(res, "User not found")
}

// DeleteUser removes a user. Reading status rows cascade and instances are unassigned.
func (s *Store) DeleteUser(ctx context.Context, userID string) error {
	res, err := s.q.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, userID)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return expectOne(res, "User not found")
}
