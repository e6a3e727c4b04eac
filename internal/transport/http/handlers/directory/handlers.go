package directory

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"crewledger/internal/domain/ledger"
	"crewledger/internal/transport/http/api"
	"crewledger/internal/transport/http/middleware"
)

// Handler serves read-only views of the crew and job files. Employees and
// jobs are maintained out of band; the ledger only consumes them.
type Handler struct {
	Service *ledger.Service
}

func NewHandler(service *ledger.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/employees", h.handleListEmployees)
	r.Get("/jobs", h.handleListJobs)
	r.Get("/jobs/{jobID}", h.handleGetJob)
	r.Get("/jobs/{jobID}/coats", h.handleJobCoats)
}

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	api.Success(w, h.Service.Employees(), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListJobs(w http.ResponseWriter, r *http.Request) {
	api.Success(w, h.Service.Jobs(), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetJob(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	job, err := h.Service.Job(chi.URLParam(r, "jobID"))
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Success(w, job, reqID)
}

// handleJobCoats reports the job's coat sequence with the given employee's
// progress per coat, plus which coats they can still punch into.
func (h *Handler) handleJobCoats(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	jobID := chi.URLParam(r, "jobID")
	employeeID := r.URL.Query().Get("employeeId")
	if employeeID == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_input", "employeeId query parameter is required", reqID)
		return
	}

	statuses, err := h.Service.CoatStatuses(jobID, employeeID)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	available, err := h.Service.AvailableCoats(jobID, employeeID)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}

	api.Success(w, map[string]any{
		"coats":        statuses,
		"available":    available,
		"hangProgress": h.Service.HangProgress(jobID, employeeID),
	}, reqID)
}
