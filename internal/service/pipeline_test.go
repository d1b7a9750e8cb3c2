package service_test

import (
	"testing"

	"github.com/mtlprog/leadflow/internal/domain"
	"github.com/mtlprog/leadflow/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProject() *domain.Project {
	return &domain.Project{
		ID:    "00000000-0000-0000-0000-000000000001",
		Name:  "Test Project",
		Steps: []string{"New", "Qualified", "Meeting", "Closed"},
	}
}

func TestResolveStep(t *testing.T) {
	project := testProject()

	tests := []struct {
		name      string
		current   string
		requested string
		want      string
		wantErr   error
	}{
		{
			name:    "empty request moves to next step",
			current: "New",
			want:    "Qualified",
		},
		{
			name:    "empty request from middle step",
			current: "Qualified",
			want:    "Meeting",
		},
		{
			name:    "empty request clamps at final step",
			current: "Closed",
			want:    "Closed",
		},
		{
			name:      "explicit step is honored",
			current:   "New",
			requested: "Meeting",
			want:      "Meeting",
		},
		{
			name:      "explicit step may move backwards",
			current:   "Meeting",
			requested: "New",
			want:      "New",
		},
		{
			name:      "explicit unknown step is rejected",
			current:   "New",
			requested: "Negotiation",
			wantErr:   domain.ErrUnknownStep,
		},
		{
			name:    "unknown current step resolves to first",
			current: "Stale",
			want:    "New",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lead := &domain.Lead{Step: tt.current}

			got, err := service.ResolveStep(project, lead, tt.requested)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatusAfter(t *testing.T) {
	project := testProject()

	assert.Equal(t, domain.LeadStatusWon, service.StatusAfter(project, "Closed"))
	assert.Equal(t, domain.LeadStatusActive, service.StatusAfter(project, "New"))
	assert.Equal(t, domain.LeadStatusActive, service.StatusAfter(project, "Meeting"))
}
