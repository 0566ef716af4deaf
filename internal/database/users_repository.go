package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/hostelsmart/portal/internal/domain"
)

// UsersRepository handles database operations for portal users.
type UsersRepository struct {
	db *sqlx.DB
}

// NewUsersRepository creates a new users repository.
func NewUsersRepository(db *sqlx.DB) *UsersRepository {
	return &UsersRepository{db: db}
}

const userColumns = `
	id, name, role, hostel_block, room_number, password_hash, created_at
`

// Create inserts a user. IDs are institutional (roll numbers, staff
// codes), so conflicts are caller errors.
func (r *UsersRepository) Create(ctx context.Context, user *domain.User) error {
	query := r.db.Rebind(`
		INSERT INTO users (` + userColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Name, user.Role, user.HostelBlock, user.RoomNumber,
		user.PasswordHash, user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by their institutional ID.
func (r *UsersRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := r.db.Rebind(`
		SELECT ` + userColumns + `
		FROM users
		WHERE id = ?
	`)

	var user domain.User
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.Name, &user.Role, &user.HostelBlock, &user.RoomNumber,
		&user.PasswordHash, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user %s: %w", id, err)
	}

	return &user, nil
}

// ListByIDs retrieves the named users keyed by ID. Missing IDs are
// simply absent from the result.
func (r *UsersRepository) ListByIDs(ctx context.Context, ids []string) (map[string]domain.User, error) {
	if len(ids) == 0 {
		return map[string]domain.User{}, nil
	}

	query, args, err := sqlx.In(`
		SELECT `+userColumns+`
		FROM users
		WHERE id IN (?)
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build user query: %w", err)
	}
	query = r.db.Rebind(query)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make(map[string]domain.User, len(ids))
	for rows.Next() {
		var user domain.User
		if scanErr := rows.Scan(
			&user.ID, &user.Name, &user.Role, &user.HostelBlock, &user.RoomNumber,
			&user.PasswordHash, &user.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan user: %w", scanErr)
		}
		users[user.ID] = user
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, nil
}
