package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mtlprog/leadflow/internal/domain"
)

// LeadEventRepository handles database operations for lead events.
type LeadEventRepository struct {
	pool *pgxpool.Pool
}

// NewLeadEventRepository creates a new LeadEventRepository.
func NewLeadEventRepository(pool *pgxpool.Pool) *LeadEventRepository {
	return &LeadEventRepository{pool: pool}
}

// LeadEventWithActor is a lead event joined with its actor's name.
type LeadEventWithActor struct {
	domain.LeadEvent
	ActorName *string
}

// Create creates a new lead event within a transaction.
func (r *LeadEventRepository) Create(
	ctx context.Context,
	tx pgx.Tx,
	event *domain.LeadEvent,
) error {
	query, args, err := psql.
		Insert("lead_events").
		Columns("lead_id", "actor_id", "type", "from_step", "to_step", "comment").
		Values(event.LeadID, event.ActorID, event.Type, event.FromStep, event.ToStep, event.Comment).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	err = tx.QueryRow(ctx, query, args...).Scan(&event.ID, &event.CreatedAt)
	if err != nil {
		return fmt.Errorf("create lead event: %w", err)
	}

	return nil
}

// GetByLeadID retrieves all events for a lead in chronological order.
func (r *LeadEventRepository) GetByLeadID(ctx context.Context, leadID string) ([]*domain.LeadEvent, error) {
	query, args, err := psql.
		Select("id", "lead_id", "actor_id", "type", "from_step", "to_step", "comment", "created_at").
		From("lead_events").
		Where(sq.Eq{"lead_id": leadID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query lead events: %w", err)
	}
	defer rows.Close()

	var events []*domain.LeadEvent
	for rows.Next() {
		var event domain.LeadEvent
		err := rows.Scan(
			&event.ID,
			&event.LeadID,
			&event.ActorID,
			&event.Type,
			&event.FromStep,
			&event.ToStep,
			&event.Comment,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan lead event: %w", err)
		}
		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return events, nil
}

// GetByLeadIDWithActors retrieves all events for a lead joined with actor names.
func (r *LeadEventRepository) GetByLeadIDWithActors(ctx context.Context, leadID string) ([]*LeadEventWithActor, error) {
	query, args, err := psql.
		Select(
			"e.id", "e.lead_id", "e.actor_id", "e.type", "e.from_step",
			"e.to_step", "e.comment", "e.created_at", "u.name",
		).
		From("lead_events e").
		LeftJoin("users u ON u.id = e.actor_id").
		Where(sq.Eq{"e.lead_id": leadID}).
		OrderBy("e.created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query lead events: %w", err)
	}
	defer rows.Close()

	var events []*LeadEventWithActor
	for rows.Next() {
		var event LeadEventWithActor
		err := rows.Scan(
			&event.ID,
			&event.LeadID,
			&event.ActorID,
			&event.Type,
			&event.FromStep,
			&event.ToStep,
			&event.Comment,
			&event.CreatedAt,
			&event.ActorName,
		)
		if err != nil {
			return nil, fmt.Errorf("scan lead event: %w", err)
		}
		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return events, nil
}
