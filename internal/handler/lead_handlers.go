package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/mtlprog/leadflow/internal/domain"
	"github.com/mtlprog/leadflow/internal/handler/dto"
	"github.com/mtlprog/leadflow/internal/repository"
	"github.com/mtlprog/leadflow/internal/service"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// handleListLeads lists leads with filters and pagination.
// @Summary List leads
// @Description List leads filtered by project, assignee, status, step, or source
// @Tags leads
// @Produce json
// @Param project_id query string false "Filter by project UUID"
// @Param assigned_to query string false "Filter by assignee UUID"
// @Param unassigned query bool false "Show only unassigned leads"
// @Param status query string false "Comma-separated statuses: new,active,won,lost,paused"
// @Param step query string false "Filter by pipeline step"
// @Param source query string false "Filter by source"
// @Param limit query int false "Page size (default 50, max 500)"
// @Param offset query int false "Page offset"
// @Success 200 {object} dto.LeadsListResponse
// @Router /leads [get]
func (h *Handler) handleListLeads(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	filters := repository.LeadListFilters{
		ProjectID: query.Get("project_id"),
		Limit:     defaultListLimit,
	}

	if assignedTo := query.Get("assigned_to"); assignedTo != "" {
		filters.AssigneeID = &assignedTo
	}
	if query.Get("unassigned") == "true" {
		filters.Unassigned = true
	}
	if status := query.Get("status"); status != "" {
		for _, s := range strings.Split(status, ",") {
			if !domain.LeadStatus(s).IsValid() {
				respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid status: "+s)
				return
			}
			filters.Statuses = append(filters.Statuses, s)
		}
	}
	if step := query.Get("step"); step != "" {
		filters.Step = &step
	}
	if source := query.Get("source"); source != "" {
		filters.Source = &source
	}
	if limitStr := query.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 || limit > maxListLimit {
			respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "limit must be between 1 and 500")
			return
		}
		filters.Limit = limit
	}
	if offsetStr := query.Get("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil || offset < 0 {
			respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "offset must be non-negative")
			return
		}
		filters.Offset = offset
	}

	leads, total, err := h.leadRepo.List(ctx, filters)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusOK, dto.LeadsListResponse{
		Leads:  dto.ToLeadResponses(leads),
		Total:  total,
		Limit:  filters.Limit,
		Offset: filters.Offset,
	})
}

// handleCreateLead creates a new lead.
// @Summary Create a lead
// @Description Creates a lead on the project's pipeline. Without an explicit step the lead enters at the first one.
// @Tags leads
// @Accept json
// @Produce json
// @Param request body dto.CreateLeadRequest true "Lead creation request"
// @Success 201 {object} dto.LeadResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /leads [post]
func (h *Handler) handleCreateLead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.CreateLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if req.ProjectID == "" {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "project_id is required")
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "name is required")
		return
	}

	lead, err := h.leadService.CreateLead(ctx, service.CreateLeadParams{
		ProjectID:  req.ProjectID,
		Name:       req.Name,
		Email:      req.Email,
		Source:     req.Source,
		Step:       req.Step,
		AssignedTo: req.AssignedTo,
	})
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusCreated, dto.ToLeadResponse(lead))
}

// handleGetLead retrieves lead details with event history.
// @Summary Get lead details
// @Description Get full lead details including event history with actor names
// @Tags leads
// @Produce json
// @Param id path string true "Lead ID"
// @Success 200 {object} dto.LeadDetailResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /leads/{id} [get]
func (h *Handler) handleGetLead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	leadID, ok := extractID(w, r)
	if !ok {
		return
	}

	lead, err := h.leadRepo.GetByID(ctx, leadID)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	events, err := h.eventRepo.GetByLeadIDWithActors(ctx, leadID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch events")
		return
	}

	response := dto.LeadDetailResponse{
		Lead:   dto.ToLeadResponse(lead),
		Events: make([]dto.LeadEventInfo, len(events)),
	}
	for i, event := range events {
		response.Events[i] = dto.ToLeadEventInfo(event)
	}

	respondJSON(w, http.StatusOK, response)
}

// handleAdvanceLead moves a lead along the pipeline.
// @Summary Advance a lead
// @Description Move a lead to an explicit step or to the next one. Landing on the final step marks the lead won.
// @Tags leads
// @Accept json
// @Produce json
// @Param id path string true "Lead ID"
// @Param request body dto.AdvanceLeadRequest true "Advance request"
// @Success 200 {object} dto.LeadResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /leads/{id}/advance [post]
func (h *Handler) handleAdvanceLead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	leadID, ok := extractID(w, r)
	if !ok {
		return
	}

	// Body is optional; an empty body advances to the next step.
	var req dto.AdvanceLeadRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
			return
		}
	}

	lead, _, err := h.leadService.AdvanceLead(ctx, leadID, req.ActorID, req.ToStep)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToLeadResponse(lead))
}

// handleAssignLead sets or clears the lead's assignee.
// @Summary Assign a lead
// @Description Assign the lead to a project member, or clear the assignment with a null user_id
// @Tags leads
// @Accept json
// @Produce json
// @Param id path string true "Lead ID"
// @Param request body dto.AssignLeadRequest true "Assign request"
// @Success 200 {object} dto.LeadResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /leads/{id}/assign [post]
func (h *Handler) handleAssignLead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	leadID, ok := extractID(w, r)
	if !ok {
		return
	}

	var req dto.AssignLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	lead, err := h.leadService.AssignLead(ctx, leadID, req.UserID, req.ActorID)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToLeadResponse(lead))
}

// handleCommentLead appends a comment to the lead's history.
// @Summary Comment on a lead
// @Description Append a comment event to the lead's history
// @Tags leads
// @Accept json
// @Produce json
// @Param id path string true "Lead ID"
// @Param request body dto.CommentLeadRequest true "Comment request"
// @Success 201 {object} dto.LeadEventInfo
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /leads/{id}/comments [post]
func (h *Handler) handleCommentLead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	leadID, ok := extractID(w, r)
	if !ok {
		return
	}

	var req dto.CommentLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if req.Comment == "" {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "comment is required")
		return
	}

	event, err := h.leadService.CommentLead(ctx, leadID, req.ActorID, req.Comment)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusCreated, dto.LeadEventInfo{
		ID:        event.ID,
		Type:      string(event.Type),
		ActorID:   event.ActorID,
		FromStep:  event.FromStep,
		ToStep:    event.ToStep,
		Comment:   event.Comment,
		CreatedAt: event.CreatedAt,
	})
}
