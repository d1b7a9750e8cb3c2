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

var projectColumns = []string{"id", "name", "steps", "created_at"}

// ProjectRepository handles database operations for projects.
type ProjectRepository struct {
	pool *pgxpool.Pool
}

// NewProjectRepository creates a new ProjectRepository.
func NewProjectRepository(pool *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{pool: pool}
}

func scanProject(row pgx.Row) (*domain.Project, error) {
	var project domain.Project
	err := row.Scan(
		&project.ID,
		&project.Name,
		&project.Steps,
		&project.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, fmt.Errorf("scan project: %w", err)
	}
	return &project, nil
}

// GetByID retrieves a project by ID.
func (r *ProjectRepository) GetByID(ctx context.Context, projectID string) (*domain.Project, error) {
	query, args, err := psql.
		Select(projectColumns...).
		From("projects").
		Where(sq.Eq{"id": projectID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for project: %w", err)
	}

	return scanProject(r.pool.QueryRow(ctx, query, args...))
}

// GetByName retrieves a project by its unique name.
func (r *ProjectRepository) GetByName(ctx context.Context, name string) (*domain.Project, error) {
	query, args, err := psql.
		Select(projectColumns...).
		From("projects").
		Where(sq.Eq{"name": name}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByName query for project: %w", err)
	}

	return scanProject(r.pool.QueryRow(ctx, query, args...))
}

// List retrieves all projects ordered by creation time.
func (r *ProjectRepository) List(ctx context.Context) ([]*domain.Project, error) {
	query, args, err := psql.
		Select(projectColumns...).
		From("projects").
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build List query for projects: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer rows.Close()

	var projects []*domain.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return projects, nil
}

// Create creates a new project within a transaction.
// Returns the project with ID and CreatedAt populated.
func (r *ProjectRepository) Create(ctx context.Context, tx pgx.Tx, project *domain.Project) (*domain.Project, error) {
	if len(project.Steps) == 0 {
		project.Steps = domain.DefaultSteps
	}

	query, args, err := psql.
		Insert("projects").
		Columns("name", "steps").
		Values(project.Name, project.Steps).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build Create query for project: %w", err)
	}

	err = tx.QueryRow(ctx, query, args...).Scan(&project.ID, &project.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	return project, nil
}
