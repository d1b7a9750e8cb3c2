package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mtlprog/leadflow/internal/domain"
	"github.com/mtlprog/leadflow/internal/repository"
)

// Broadcaster pushes an event to every subscriber of a project room.
type Broadcaster interface {
	Broadcast(projectID, eventType string, data any)
}

// LeadService coordinates lead operations and pipeline movement.
type LeadService struct {
	pool        *pgxpool.Pool
	leadRepo    *repository.LeadRepository
	eventRepo   *repository.LeadEventRepository
	projectRepo *repository.ProjectRepository
	userRepo    *repository.UserRepository
	broadcaster Broadcaster
}

// NewLeadService creates a new LeadService.
func NewLeadService(
	pool *pgxpool.Pool,
	leadRepo *repository.LeadRepository,
	eventRepo *repository.LeadEventRepository,
	projectRepo *repository.ProjectRepository,
	userRepo *repository.UserRepository,
	broadcaster Broadcaster,
) *LeadService {
	return &LeadService{
		pool:        pool,
		leadRepo:    leadRepo,
		eventRepo:   eventRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
		broadcaster: broadcaster,
	}
}

func (s *LeadService) rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && err.Error() != "tx is closed" {
		slog.Error("failed to rollback transaction", "error", err)
	}
}

// createEventAndCommit persists a lead event within the transaction, then commits.
func (s *LeadService) createEventAndCommit(ctx context.Context, tx pgx.Tx, event *domain.LeadEvent) error {
	if err := s.eventRepo.Create(ctx, tx, event); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (s *LeadService) emit(projectID, eventType string, data any) {
	if s.broadcaster != nil {
		s.broadcaster.Broadcast(projectID, eventType, data)
	}
}

// CreateLeadParams holds input for CreateLead.
type CreateLeadParams struct {
	ProjectID  string
	Name       string
	Email      string
	Source     string
	Step       string
	AssignedTo *string
	ActorID    *string
}

// CreateLead creates a lead on the project's pipeline. Without an explicit
// step the lead enters at the first one.
func (s *LeadService) CreateLead(ctx context.Context, params CreateLeadParams) (*domain.Lead, error) {
	if params.Name == "" {
		return nil, domain.ErrEmptyName
	}

	project, err := s.projectRepo.GetByID(ctx, params.ProjectID)
	if err != nil {
		return nil, err
	}

	step := params.Step
	if step == "" {
		step = project.FirstStep()
	} else if !project.HasStep(step) {
		return nil, fmt.Errorf("%w: %q not in project %s", domain.ErrUnknownStep, step, project.ID)
	}

	if params.AssignedTo != nil {
		if err := s.checkProjectMember(ctx, project.ID, *params.AssignedTo); err != nil {
			return nil, err
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer s.rollback(ctx, tx)

	lead := &domain.Lead{
		ProjectID:  params.ProjectID,
		Name:       params.Name,
		Email:      params.Email,
		Source:     params.Source,
		Step:       step,
		Status:     domain.LeadStatusNew,
		AssignedTo: params.AssignedTo,
	}

	lead, err = s.leadRepo.Create(ctx, tx, lead)
	if err != nil {
		return nil, err
	}

	event := &domain.LeadEvent{
		LeadID:  lead.ID,
		ActorID: params.ActorID,
		Type:    domain.EventTypeCreated,
		ToStep:  &lead.Step,
	}

	if err := s.createEventAndCommit(ctx, tx, event); err != nil {
		return nil, err
	}

	slog.Info("lead created",
		"lead_id", lead.ID,
		"project_id", lead.ProjectID,
		"step", lead.Step,
	)

	s.emit(lead.ProjectID, "lead_created", map[string]any{
		"lead_id": lead.ID,
		"step":    lead.Step,
	})

	return lead, nil
}

// AdvanceLead moves a lead to toStep, or to the next pipeline step when
// toStep is empty. Landing on the final step marks the lead won.
func (s *LeadService) AdvanceLead(
	ctx context.Context,
	leadID string,
	actorID *string,
	toStep string,
) (*domain.Lead, *domain.LeadEvent, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer s.rollback(ctx, tx)

	lead, err := s.leadRepo.GetByIDForUpdate(ctx, tx, leadID)
	if err != nil {
		return nil, nil, err
	}

	if lead.Status.IsTerminal() {
		return nil, nil, fmt.Errorf("%w: lead %s is %s", domain.ErrLeadTerminal, lead.ID, lead.Status)
	}

	project, err := s.projectRepo.GetByID(ctx, lead.ProjectID)
	if err != nil {
		return nil, nil, fmt.Errorf("get project: %w", err)
	}

	newStep, err := ResolveStep(project, lead, toStep)
	if err != nil {
		return nil, nil, err
	}
	newStatus := StatusAfter(project, newStep)

	oldStep := lead.Step
	if err := s.leadRepo.UpdateStep(ctx, tx, leadID, oldStep, newStep, newStatus); err != nil {
		return nil, nil, err
	}

	event := &domain.LeadEvent{
		LeadID:   leadID,
		ActorID:  actorID,
		Type:     domain.EventTypeAdvanced,
		FromStep: &oldStep,
		ToStep:   &newStep,
	}
	if err := s.eventRepo.Create(ctx, tx, event); err != nil {
		return nil, nil, fmt.Errorf("create event: %w", err)
	}

	if newStatus == domain.LeadStatusWon && lead.Status != domain.LeadStatusWon {
		wonEvent := &domain.LeadEvent{
			LeadID:  leadID,
			ActorID: actorID,
			Type:    domain.EventTypeWon,
			ToStep:  &newStep,
		}
		if err := s.eventRepo.Create(ctx, tx, wonEvent); err != nil {
			return nil, nil, fmt.Errorf("create won event: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("commit transaction: %w", err)
	}

	lead.Step = newStep
	lead.Status = newStatus

	slog.Info("lead advanced",
		"lead_id", leadID,
		"from_step", oldStep,
		"to_step", newStep,
		"status", newStatus,
	)

	s.emit(lead.ProjectID, "lead_advanced", map[string]any{
		"lead_id": leadID,
		"from":    oldStep,
		"to":      newStep,
	})

	return lead, event, nil
}

// AssignLead sets or clears the lead's assignee. The assignee must belong to
// the lead's project.
func (s *LeadService) AssignLead(
	ctx context.Context,
	leadID string,
	assigneeID *string,
	actorID *string,
) (*domain.Lead, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer s.rollback(ctx, tx)

	lead, err := s.leadRepo.GetByIDForUpdate(ctx, tx, leadID)
	if err != nil {
		return nil, err
	}

	if assigneeID != nil {
		if err := s.checkProjectMember(ctx, lead.ProjectID, *assigneeID); err != nil {
			return nil, err
		}
	}

	if err := s.leadRepo.UpdateAssignee(ctx, tx, leadID, assigneeID); err != nil {
		return nil, err
	}

	event := &domain.LeadEvent{
		LeadID:  leadID,
		ActorID: actorID,
		Type:    domain.EventTypeAssigned,
	}

	if err := s.createEventAndCommit(ctx, tx, event); err != nil {
		return nil, err
	}

	lead.AssignedTo = assigneeID

	slog.Info("lead assigned",
		"lead_id", leadID,
		"assigned_to", assigneeID,
	)

	s.emit(lead.ProjectID, "lead_assigned", map[string]any{
		"lead_id":     leadID,
		"assigned_to": assigneeID,
	})

	return lead, nil
}

// CommentLead appends a comment to the lead's history.
func (s *LeadService) CommentLead(
	ctx context.Context,
	leadID string,
	actorID *string,
	comment string,
) (*domain.LeadEvent, error) {
	if comment == "" {
		return nil, domain.ErrEmptyComment
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer s.rollback(ctx, tx)

	lead, err := s.leadRepo.GetByIDForUpdate(ctx, tx, leadID)
	if err != nil {
		return nil, err
	}

	event := &domain.LeadEvent{
		LeadID:  leadID,
		ActorID: actorID,
		Type:    domain.EventTypeCommented,
		Comment: comment,
	}

	if err := s.createEventAndCommit(ctx, tx, event); err != nil {
		return nil, err
	}

	slog.Info("lead commented", "lead_id", leadID, "event_id", event.ID)

	s.emit(lead.ProjectID, "lead_commented", map[string]any{
		"lead_id": leadID,
	})

	return event, nil
}

// AdvanceRandom advances between one and four randomly chosen leads of the
// project by a single step each. Demo driver for the realtime board.
func (s *LeadService) AdvanceRandom(ctx context.Context, projectID string) (int, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return 0, err
	}

	total, err := s.leadRepo.CountByProject(ctx, projectID)
	if err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, domain.ErrNoLeadsInProject
	}

	candidates, err := s.leadRepo.ListAdvanceable(ctx, projectID, project.FinalStep())
	if err != nil {
		return 0, fmt.Errorf("list advanceable leads: %w", err)
	}
	if len(candidates) == 0 {
		return 0, nil
	}

	rand.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	n := rand.IntN(4) + 1
	if n > len(candidates) {
		n = len(candidates)
	}

	count := 0
	for _, lead := range candidates[:n] {
		if _, _, err := s.AdvanceLead(ctx, lead.ID, nil, ""); err != nil {
			slog.Error("failed to advance lead", "lead_id", lead.ID, "error", err)
			continue
		}
		count++
	}

	slog.Info("random advance completed", "project_id", projectID, "count", count)

	return count, nil
}

// checkProjectMember verifies that the user exists and belongs to the project.
func (s *LeadService) checkProjectMember(ctx context.Context, projectID, userID string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.ProjectID != projectID {
		return fmt.Errorf("%w: user %s is in project %s", domain.ErrUserProjectMismatch, userID, user.ProjectID)
	}
	return nil
}
