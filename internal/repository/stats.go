package repository

import (
	"context"
	"fmt"

	"github.com/mtlprog/leadflow/internal/domain"
)

// PipelineStatsResult holds aggregate pipeline statistics for a project.
type PipelineStatsResult struct {
	TotalLeads    int
	LeadsByStep   map[string]int
	LeadsByStatus map[string]int
	LeadsBySource map[string]int
	WonCount      int
}

// UserStatsResult holds per-user lead statistics within a project.
type UserStatsResult struct {
	UserID        string
	UserName      string
	Role          string
	AssignedCount int
	WonCount      int
}

// GetPipelineStats retrieves aggregate statistics for a project's pipeline.
func (r *LeadRepository) GetPipelineStats(ctx context.Context, projectID string) (*PipelineStatsResult, error) {
	result := &PipelineStatsResult{
		LeadsByStep:   make(map[string]int),
		LeadsByStatus: make(map[string]int),
		LeadsBySource: make(map[string]int),
	}

	rows, err := r.pool.Query(ctx, `
		SELECT step, status, source, COUNT(*)
		FROM leads
		WHERE project_id = $1
		GROUP BY step, status, source
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("query pipeline stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var step, status, source string
		var count int
		if err := rows.Scan(&step, &status, &source, &count); err != nil {
			return nil, fmt.Errorf("scan pipeline stats: %w", err)
		}
		result.TotalLeads += count
		result.LeadsByStep[step] += count
		result.LeadsByStatus[status] += count
		if source != "" {
			result.LeadsBySource[source] += count
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pipeline stats rows: %w", err)
	}

	result.WonCount = result.LeadsByStatus[string(domain.LeadStatusWon)]

	return result, nil
}

// GetUserStats retrieves per-user lead counts for a project.
func (r *LeadRepository) GetUserStats(ctx context.Context, projectID string) ([]UserStatsResult, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT
			u.id,
			u.name,
			u.role,
			COUNT(l.id) as assigned_count,
			COUNT(CASE WHEN l.status = 'won' THEN 1 END) as won_count
		FROM users u
		LEFT JOIN leads l ON l.assigned_to = u.id AND l.project_id = $1
		WHERE u.project_id = $1
		GROUP BY u.id, u.name, u.role
		ORDER BY u.name
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("query user stats: %w", err)
	}
	defer rows.Close()

	var results []UserStatsResult
	for rows.Next() {
		var result UserStatsResult
		err := rows.Scan(
			&result.UserID,
			&result.UserName,
			&result.Role,
			&result.AssignedCount,
			&result.WonCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan user stats: %w", err)
		}
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user stats rows: %w", err)
	}

	return results, nil
}
