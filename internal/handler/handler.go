package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/mtlprog/leadflow/docs" // Import generated docs
	"github.com/mtlprog/leadflow/internal/handler/dto"
	"github.com/mtlprog/leadflow/internal/realtime"
	"github.com/mtlprog/leadflow/internal/repository"
	"github.com/mtlprog/leadflow/internal/service"
	"github.com/mtlprog/leadflow/internal/static"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	pool        *pgxpool.Pool
	leadService *service.LeadService
	demoService *service.DemoService
	leadRepo    *repository.LeadRepository
	eventRepo   *repository.LeadEventRepository
	projectRepo *repository.ProjectRepository
	userRepo    *repository.UserRepository
	hub         *realtime.Hub
}

// New creates a new Handler instance with all dependencies.
func New(pool *pgxpool.Pool, hub *realtime.Hub) *Handler {
	// Create repositories
	leadRepo := repository.NewLeadRepository(pool)
	eventRepo := repository.NewLeadEventRepository(pool)
	projectRepo := repository.NewProjectRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	// Create services
	leadService := service.NewLeadService(pool, leadRepo, eventRepo, projectRepo, userRepo, hub)
	demoService := service.NewDemoService(pool, projectRepo, userRepo, leadRepo)

	return &Handler{
		pool:        pool,
		leadService: leadService,
		demoService: demoService,
		leadRepo:    leadRepo,
		eventRepo:   eventRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
		hub:         hub,
	}
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Service banner and health check
	mux.HandleFunc("GET /{$}", h.handleRoot)
	mux.HandleFunc("GET /healthz", h.handleHealthz)

	// API usage doc
	mux.HandleFunc("GET /api.md", h.handleAPIMd)

	// Swagger UI
	mux.HandleFunc("GET /swagger/", httpSwagger.Handler())

	// Demo bootstrap
	mux.HandleFunc("GET /api/demo/bootstrap", h.handleBootstrap)

	// Projects
	mux.HandleFunc("GET /api/projects", h.handleListProjects)
	mux.HandleFunc("GET /api/projects/{id}", h.handleGetProject)
	mux.HandleFunc("GET /api/projects/{id}/stats", h.handleProjectStats)
	mux.HandleFunc("POST /api/projects/{id}/advance-random", h.handleAdvanceRandom)

	// Leads
	mux.HandleFunc("GET /api/leads", h.handleListLeads)
	mux.HandleFunc("POST /api/leads", h.handleCreateLead)
	mux.HandleFunc("GET /api/leads/{id}", h.handleGetLead)
	mux.HandleFunc("POST /api/leads/{id}/advance", h.handleAdvanceLead)
	mux.HandleFunc("POST /api/leads/{id}/assign", h.handleAssignLead)
	mux.HandleFunc("POST /api/leads/{id}/comments", h.handleCommentLead)

	// Realtime project rooms
	mux.HandleFunc("GET /ws/projects/{id}", h.handleProjectWS)
}

// handleRoot returns the service banner.
func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"service": "Leadflow API",
	})
}

// handleHealthz returns 200 OK if the database is reachable.
func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.pool.Ping(ctx); err != nil {
		slog.Error("database health check failed", "error", err)
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// handleAPIMd serves the embedded API usage doc.
func (h *Handler) handleAPIMd(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(static.APIMd))
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// respondError writes a standard error response.
func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, dto.NewErrorResponse(code, message))
}

// extractID extracts and validates a UUID path parameter.
// Returns (id, true) if valid, ("", false) if invalid (error already sent to client).
func extractID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.PathValue("id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "id is required")
		return "", false
	}

	if _, err := uuid.Parse(id); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "id must be a valid UUID")
		return "", false
	}

	return id, true
}
