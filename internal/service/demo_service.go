package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mtlprog/leadflow/internal/domain"
	"github.com/mtlprog/leadflow/internal/repository"
)

const (
	demoProjectName = "Leadflow Demo"

	// The seed tops the project up to demoLeadTarget leads whenever the
	// count drops below demoLeadFloor, so repeated bootstraps are stable.
	demoLeadTarget = 120
	demoLeadFloor  = 100
)

var demoSources = []string{"ads", "events", "referral", "inbound"}

var demoUsers = []struct {
	name string
	role domain.Role
}{
	{"Ava", domain.RoleAdmin},
	{"Ben", domain.RoleSetter},
	{"Chloe", domain.RoleSetter},
	{"Diego", domain.RoleCloser},
}

// DemoData is the state of the demo project after a bootstrap.
type DemoData struct {
	Project *domain.Project
	Users   []*domain.User
	Leads   []*domain.Lead
}

// DemoService seeds and returns the demo project. Bootstrap is idempotent:
// existing data is reused and only missing pieces are created.
type DemoService struct {
	pool        *pgxpool.Pool
	projectRepo *repository.ProjectRepository
	userRepo    *repository.UserRepository
	leadRepo    *repository.LeadRepository
}

// NewDemoService creates a new DemoService.
func NewDemoService(
	pool *pgxpool.Pool,
	projectRepo *repository.ProjectRepository,
	userRepo *repository.UserRepository,
	leadRepo *repository.LeadRepository,
) *DemoService {
	return &DemoService{
		pool:        pool,
		projectRepo: projectRepo,
		userRepo:    userRepo,
		leadRepo:    leadRepo,
	}
}

// Bootstrap ensures the demo project, its users, and its leads exist.
func (s *DemoService) Bootstrap(ctx context.Context) (*DemoData, error) {
	project, err := s.ensureProject(ctx)
	if err != nil {
		return nil, err
	}

	users, err := s.ensureUsers(ctx, project)
	if err != nil {
		return nil, err
	}

	if err := s.ensureLeads(ctx, project); err != nil {
		return nil, err
	}

	leads, _, err := s.leadRepo.List(ctx, repository.LeadListFilters{ProjectID: project.ID})
	if err != nil {
		return nil, fmt.Errorf("list demo leads: %w", err)
	}

	slog.Info("demo bootstrap completed",
		"project_id", project.ID,
		"users", len(users),
		"leads", len(leads),
	)

	return &DemoData{Project: project, Users: users, Leads: leads}, nil
}

func (s *DemoService) ensureProject(ctx context.Context) (*domain.Project, error) {
	project, err := s.projectRepo.GetByName(ctx, demoProjectName)
	if err == nil {
		return project, nil
	}
	if !errors.Is(err, domain.ErrProjectNotFound) {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	project = &domain.Project{
		Name:  demoProjectName,
		Steps: domain.DefaultSteps,
	}
	if _, err := s.projectRepo.Create(ctx, tx, project); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	return project, nil
}

func (s *DemoService) ensureUsers(ctx context.Context, project *domain.Project) ([]*domain.User, error) {
	users, err := s.userRepo.ListByProject(ctx, project.ID)
	if err != nil {
		return nil, err
	}
	if len(users) > 0 {
		return users, nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, spec := range demoUsers {
		user := &domain.User{
			ProjectID: project.ID,
			Name:      spec.name,
			Email:     fmt.Sprintf("%s@leadflow.app", spec.name),
			Role:      spec.role,
		}
		if _, err := s.userRepo.Create(ctx, tx, user); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	return s.userRepo.ListByProject(ctx, project.ID)
}

func (s *DemoService) ensureLeads(ctx context.Context, project *domain.Project) error {
	count, err := s.leadRepo.CountByProject(ctx, project.ID)
	if err != nil {
		return err
	}
	if count >= demoLeadFloor {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for i := count; i < demoLeadTarget; i++ {
		step := project.Steps[rand.IntN(len(project.Steps))]
		lead := &domain.Lead{
			ProjectID: project.ID,
			Name:      fmt.Sprintf("Lead %d", i+1),
			Email:     fmt.Sprintf("lead%d@example.com", i+1),
			Source:    demoSources[rand.IntN(len(demoSources))],
			Step:      step,
			Status:    demoStatusFor(project, step),
		}
		if _, err := s.leadRepo.Create(ctx, tx, lead); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// demoStatusFor keeps seeded statuses consistent with the step the lead
// lands on.
func demoStatusFor(project *domain.Project, step string) domain.LeadStatus {
	switch {
	case project.IsFinalStep(step):
		return domain.LeadStatusWon
	case step == project.FirstStep():
		return domain.LeadStatusNew
	default:
		return domain.LeadStatusActive
	}
}
