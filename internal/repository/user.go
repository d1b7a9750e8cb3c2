package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mtlprog/leadflow/internal/domain"
)

var userColumns = []string{"id", "project_id", "name", "email", "role", "created_at"}

// UserRepository handles database operations for users.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.ProjectID,
		&user.Name,
		&user.Email,
		&user.Role,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &user, nil
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	query, args, err := psql.
		Select(userColumns...).
		From("users").
		Where(sq.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for user: %w", err)
	}

	return scanUser(r.pool.QueryRow(ctx, query, args...))
}

// ListByProject retrieves all users of a project ordered by name.
func (r *UserRepository) ListByProject(ctx context.Context, projectID string) ([]*domain.User, error) {
	query, args, err := psql.
		Select(userColumns...).
		From("users").
		Where(sq.Eq{"project_id": projectID}).
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ListByProject query for users: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return users, nil
}

// Create creates a new user within a transaction.
func (r *UserRepository) Create(ctx context.Context, tx pgx.Tx, user *domain.User) (*domain.User, error) {
	if user.Role == "" {
		user.Role = domain.RoleViewer
	}

	query, args, err := psql.
		Insert("users").
		Columns("project_id", "name", "email", "role").
		Values(user.ProjectID, user.Name, user.Email, user.Role).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build Create query for user: %w", err)
	}

	err = tx.QueryRow(ctx, query, args...).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}
