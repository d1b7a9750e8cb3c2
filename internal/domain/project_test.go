package domain_test

import (
	"testing"

	"github.com/mtlprog/leadflow/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestProject_NextStep(t *testing.T) {
	project := &domain.Project{Steps: []string{"New", "Qualified", "Meeting", "Closed"}}

	tests := []struct {
		name    string
		current string
		want    string
	}{
		{"first to second", "New", "Qualified"},
		{"middle step", "Qualified", "Meeting"},
		{"last before final", "Meeting", "Closed"},
		{"final clamps", "Closed", "Closed"},
		{"unknown resolves to first", "Stale", "New"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, project.NextStep(tt.current))
		})
	}
}

func TestProject_Steps(t *testing.T) {
	project := &domain.Project{Steps: domain.DefaultSteps}

	assert.Equal(t, "New", project.FirstStep())
	assert.Equal(t, "Closed", project.FinalStep())
	assert.True(t, project.IsFinalStep("Closed"))
	assert.False(t, project.IsFinalStep("New"))
	assert.True(t, project.HasStep("Meeting"))
	assert.False(t, project.HasStep("Negotiation"))
	assert.Equal(t, 2, project.StepIndex("Meeting"))
	assert.Equal(t, -1, project.StepIndex("Negotiation"))
}

func TestProject_Empty(t *testing.T) {
	project := &domain.Project{}

	assert.Equal(t, "", project.FirstStep())
	assert.Equal(t, "", project.FinalStep())
	assert.False(t, project.IsFinalStep(""))
	assert.Equal(t, "New", project.NextStep("New"))
}

func TestLeadStatus(t *testing.T) {
	assert.True(t, domain.LeadStatusWon.IsTerminal())
	assert.True(t, domain.LeadStatusLost.IsTerminal())
	assert.False(t, domain.LeadStatusActive.IsTerminal())
	assert.False(t, domain.LeadStatusPaused.IsTerminal())

	assert.True(t, domain.LeadStatusNew.IsValid())
	assert.False(t, domain.LeadStatus("stalled").IsValid())
}
