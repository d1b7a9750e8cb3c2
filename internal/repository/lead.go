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

// leadColumns is the shared list of columns for lead queries.
var leadColumns = []string{
	"id", "project_id", "name", "email", "source", "step", "status",
	"assigned_to", "created_at", "updated_at",
}

// LeadRepository handles database operations for leads.
type LeadRepository struct {
	pool *pgxpool.Pool
}

// NewLeadRepository creates a new LeadRepository.
func NewLeadRepository(pool *pgxpool.Pool) *LeadRepository {
	return &LeadRepository{pool: pool}
}

// scanLead scans a single row into a Lead struct.
func scanLead(row pgx.Row) (*domain.Lead, error) {
	var lead domain.Lead
	err := row.Scan(
		&lead.ID,
		&lead.ProjectID,
		&lead.Name,
		&lead.Email,
		&lead.Source,
		&lead.Step,
		&lead.Status,
		&lead.AssignedTo,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrLeadNotFound
		}
		return nil, fmt.Errorf("scan lead: %w", err)
	}
	return &lead, nil
}

// scanLeads scans multiple rows into a slice of Lead structs.
func scanLeads(rows pgx.Rows) ([]*domain.Lead, error) {
	defer rows.Close()

	var leads []*domain.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return leads, nil
}

// GetByID retrieves a lead by ID.
func (r *LeadRepository) GetByID(ctx context.Context, leadID string) (*domain.Lead, error) {
	query, args, err := psql.
		Select(leadColumns...).
		From("leads").
		Where(sq.Eq{"id": leadID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for lead: %w", err)
	}

	return scanLead(r.pool.QueryRow(ctx, query, args...))
}

// GetByIDForUpdate retrieves a lead by ID with FOR UPDATE lock (within transaction).
func (r *LeadRepository) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, leadID string) (*domain.Lead, error) {
	query, args, err := psql.
		Select(leadColumns...).
		From("leads").
		Where(sq.Eq{"id": leadID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByIDForUpdate query for lead %s: %w", leadID, err)
	}

	return scanLead(tx.QueryRow(ctx, query, args...))
}

// UpdateStep moves the lead to a new step with optimistic locking.
// Returns ErrLeadConcurrentUpdate if the lead's step no longer matches oldStep.
func (r *LeadRepository) UpdateStep(
	ctx context.Context,
	tx pgx.Tx,
	leadID string,
	oldStep string,
	newStep string,
	status domain.LeadStatus,
) error {
	query, args, err := psql.
		Update("leads").
		Set("step", newStep).
		Set("status", status).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{
			"id":   leadID,
			"step": oldStep,
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build UpdateStep query for lead %s: %w", leadID, err)
	}

	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update lead step: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrLeadConcurrentUpdate
	}

	return nil
}

// UpdateAssignee sets or clears the lead's assignee.
func (r *LeadRepository) UpdateAssignee(
	ctx context.Context,
	tx pgx.Tx,
	leadID string,
	assigneeID *string,
) error {
	query, args, err := psql.
		Update("leads").
		Set("assigned_to", assigneeID).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": leadID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build UpdateAssignee query for lead %s: %w", leadID, err)
	}

	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update lead assignee: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrLeadNotFound
	}

	return nil
}

// CountByProject counts all leads belonging to a project.
func (r *LeadRepository) CountByProject(ctx context.Context, projectID string) (int, error) {
	query, args, err := psql.
		Select("COUNT(*)").
		From("leads").
		Where(sq.Eq{"project_id": projectID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build CountByProject query: %w", err)
	}

	var count int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count leads: %w", err)
	}
	return count, nil
}

// Create creates a new lead in the database within a transaction.
// Returns the created lead with ID, CreatedAt, and UpdatedAt populated.
func (r *LeadRepository) Create(ctx context.Context, tx pgx.Tx, lead *domain.Lead) (*domain.Lead, error) {
	if lead.Status == "" {
		lead.Status = domain.LeadStatusNew
	}

	query, args, err := psql.
		Insert("leads").
		Columns("project_id", "name", "email", "source", "step", "status", "assigned_to").
		Values(
			lead.ProjectID,
			lead.Name,
			lead.Email,
			lead.Source,
			lead.Step,
			lead.Status,
			lead.AssignedTo,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build Create query for lead: %w", err)
	}

	err = tx.QueryRow(ctx, query, args...).Scan(&lead.ID, &lead.CreatedAt, &lead.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create lead: %w", err)
	}

	return lead, nil
}
