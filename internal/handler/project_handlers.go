package handler

import (
	"net/http"

	"github.com/mtlprog/leadflow/internal/handler/dto"
)

// handleBootstrap seeds and returns the demo project.
// @Summary Bootstrap demo data
// @Description Idempotently seed the demo project with users and leads, and return the current state
// @Tags demo
// @Produce json
// @Success 200 {object} dto.BootstrapResponse
// @Router /demo/bootstrap [get]
func (h *Handler) handleBootstrap(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	data, err := h.demoService.Bootstrap(ctx)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusOK, dto.BootstrapResponse{
		Project: dto.ToProjectResponse(data.Project),
		Steps:   data.Project.Steps,
		Users:   dto.ToUserResponses(data.Users),
		Leads:   dto.ToLeadResponses(data.Leads),
	})
}

// handleListProjects lists all projects.
// @Summary List projects
// @Tags projects
// @Produce json
// @Success 200 {array} dto.ProjectResponse
// @Router /projects [get]
func (h *Handler) handleListProjects(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	projects, err := h.projectRepo.List(ctx)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	out := make([]dto.ProjectResponse, len(projects))
	for i, project := range projects {
		out[i] = dto.ToProjectResponse(project)
	}

	respondJSON(w, http.StatusOK, out)
}

// handleGetProject retrieves a project by ID.
// @Summary Get project
// @Tags projects
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} dto.ProjectResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /projects/{id} [get]
func (h *Handler) handleGetProject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	projectID, ok := extractID(w, r)
	if !ok {
		return
	}

	project, err := h.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToProjectResponse(project))
}

// handleProjectStats returns pipeline statistics for a project.
// @Summary Get project statistics
// @Description Lead counts per step, status, and source, plus per-user totals and the won rate
// @Tags projects
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} dto.StatsResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /projects/{id}/stats [get]
func (h *Handler) handleProjectStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	projectID, ok := extractID(w, r)
	if !ok {
		return
	}

	if _, err := h.projectRepo.GetByID(ctx, projectID); err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	pipeline, err := h.leadRepo.GetPipelineStats(ctx, projectID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch pipeline stats")
		return
	}

	userStats, err := h.leadRepo.GetUserStats(ctx, projectID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch user stats")
		return
	}

	wonRate := 0.0
	if pipeline.TotalLeads > 0 {
		wonRate = float64(pipeline.WonCount) / float64(pipeline.TotalLeads) * 100
	}

	users := make([]dto.UserStats, len(userStats))
	for i, stat := range userStats {
		users[i] = dto.UserStats{
			UserID:        stat.UserID,
			UserName:      stat.UserName,
			Role:          stat.Role,
			AssignedCount: stat.AssignedCount,
			WonCount:      stat.WonCount,
		}
	}

	respondJSON(w, http.StatusOK, dto.StatsResponse{
		ProjectID:      projectID,
		TotalLeads:     pipeline.TotalLeads,
		LeadsByStep:    pipeline.LeadsByStep,
		LeadsByStatus:  pipeline.LeadsByStatus,
		LeadsBySource:  pipeline.LeadsBySource,
		WonRatePercent: wonRate,
		Users:          users,
	})
}

// handleAdvanceRandom advances a few random leads of the project.
// @Summary Advance random leads
// @Description Advance between one and four random non-final leads by one step each; demo driver for the realtime board
// @Tags projects
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} dto.AdvanceRandomResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /projects/{id}/advance-random [post]
func (h *Handler) handleAdvanceRandom(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	projectID, ok := extractID(w, r)
	if !ok {
		return
	}

	count, err := h.leadService.AdvanceRandom(ctx, projectID)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusOK, dto.AdvanceRandomResponse{Count: count})
}
