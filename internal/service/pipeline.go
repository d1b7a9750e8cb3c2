package service

import (
	"fmt"

	"github.com/mtlprog/leadflow/internal/domain"
)

// ResolveStep determines the target step for an advance operation.
// An explicit request must name a step in the project's pipeline; otherwise
// the lead moves to the step after its current one, clamped at the final step.
func ResolveStep(project *domain.Project, lead *domain.Lead, requested string) (string, error) {
	if requested != "" {
		if !project.HasStep(requested) {
			return "", fmt.Errorf("%w: %q not in project %s", domain.ErrUnknownStep, requested, project.ID)
		}
		return requested, nil
	}
	return project.NextStep(lead.Step), nil
}

// StatusAfter returns the lead status implied by landing on a step:
// the final step wins the lead, any other step makes it active.
func StatusAfter(project *domain.Project, step string) domain.LeadStatus {
	if project.IsFinalStep(step) {
		return domain.LeadStatusWon
	}
	return domain.LeadStatusActive
}
