package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/mtlprog/leadflow/internal/domain"
)

// LeadListFilters holds all supported filters for lead listing.
type LeadListFilters struct {
	ProjectID  string   // Optional: filter by project
	AssigneeID *string  // Optional: filter by assignee
	Unassigned bool     // Optional: show only unassigned
	Statuses   []string // Optional: filter by status
	Step       *string  // Optional: filter by pipeline step
	Source     *string  // Optional: filter by source
	Limit      int      // Page size (0 means no limit)
	Offset     int      // Page offset
}

func (f LeadListFilters) apply(qb sq.SelectBuilder) sq.SelectBuilder {
	if f.ProjectID != "" {
		qb = qb.Where(sq.Eq{"project_id": f.ProjectID})
	}
	if f.Unassigned {
		qb = qb.Where(sq.Eq{"assigned_to": nil})
	} else if f.AssigneeID != nil {
		qb = qb.Where(sq.Eq{"assigned_to": *f.AssigneeID})
	}
	if len(f.Statuses) > 0 {
		qb = qb.Where(sq.Eq{"status": f.Statuses})
	}
	if f.Step != nil {
		qb = qb.Where(sq.Eq{"step": *f.Step})
	}
	if f.Source != nil {
		qb = qb.Where(sq.Eq{"source": *f.Source})
	}
	return qb
}

// List retrieves leads with filters and pagination, plus the unpaginated total.
func (r *LeadRepository) List(ctx context.Context, filters LeadListFilters) ([]*domain.Lead, int, error) {
	qb := filters.apply(psql.Select(leadColumns...).From("leads")).
		OrderBy("created_at ASC")

	if filters.Limit > 0 {
		qb = qb.Limit(uint64(filters.Limit)).Offset(uint64(filters.Offset))
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build List query for leads: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query leads: %w", err)
	}

	leads, err := scanLeads(rows)
	if err != nil {
		return nil, 0, err
	}

	countQuery, countArgs, err := filters.apply(psql.Select("COUNT(*)").From("leads")).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build List count query for leads: %w", err)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count leads: %w", err)
	}

	return leads, total, nil
}

// ListAdvanceable retrieves non-terminal leads of a project that have not yet
// reached the given final step.
func (r *LeadRepository) ListAdvanceable(ctx context.Context, projectID, finalStep string) ([]*domain.Lead, error) {
	query, args, err := psql.
		Select(leadColumns...).
		From("leads").
		Where(sq.Eq{"project_id": projectID}).
		Where(sq.NotEq{"status": []domain.LeadStatus{domain.LeadStatusWon, domain.LeadStatusLost}}).
		Where(sq.NotEq{"step": finalStep}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ListAdvanceable query for leads: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query advanceable leads: %w", err)
	}

	return scanLeads(rows)
}
