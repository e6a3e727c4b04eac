package payroll

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"crewledger/internal/domain/ledger"
	"crewledger/internal/report"
	"crewledger/internal/transport/http/api"
	"crewledger/internal/transport/http/middleware"
	"crewledger/internal/transport/http/shared"
)

type Handler struct {
	Service  *ledger.Service
	Exporter *report.Exporter
}

func NewHandler(service *ledger.Service, exporter *report.Exporter) *Handler {
	return &Handler{Service: service, Exporter: exporter}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payrolls", func(r chi.Router) {
		r.Post("/", h.handleGenerate)
		r.Get("/", h.handleList)
		r.Get("/{payrollID}", h.handleGet)
		r.Patch("/{payrollID}", h.handleUpdate)
		r.Get("/{payrollID}/export.csv", h.handleExportCSV)
		r.Get("/{payrollID}/export.pdf", h.handleExportPDF)
		r.Post("/{payrollID}/archive", h.handleArchive)
	})
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload struct {
		StartDate string `json:"startDate"`
		EndDate   string `json:"endDate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid json body", reqID)
		return
	}

	start, end, err := shared.ParsePeriod(payload.StartDate, payload.EndDate)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_period", err.Error(), reqID)
		return
	}

	entry, err := h.Service.GeneratePayroll(r.Context(), start, end)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Created(w, entry, reqID)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	api.Success(w, h.Service.Payrolls(), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	entry, err := h.Service.Payroll(chi.URLParam(r, "payrollID"))
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Success(w, entry, reqID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload struct {
		Updates []ledger.RowUpdate `json:"updates"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid json body", reqID)
		return
	}

	entry, err := h.Service.UpdatePayrollEntry(r.Context(), chi.URLParam(r, "payrollID"), payload.Updates)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Success(w, entry, reqID)
}

func (h *Handler) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	entry, err := h.Service.Payroll(chi.URLParam(r, "payrollID"))
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}

	data, err := h.Exporter.CSV(entry)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "export_failed", "failed to render csv", reqID)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=payroll-"+entry.ID+".csv")
	_, _ = w.Write(data)
}

func (h *Handler) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	entry, err := h.Service.Payroll(chi.URLParam(r, "payrollID"))
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}

	data, err := h.Exporter.PDF(entry)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "export_failed", "failed to render pdf", reqID)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=payroll-"+entry.ID+".pdf")
	_, _ = w.Write(data)
}

func (h *Handler) handleArchive(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	entry, err := h.Service.Payroll(chi.URLParam(r, "payrollID"))
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}

	path, err := h.Exporter.Archive(entry)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "archive_failed", "failed to archive payroll", reqID)
		return
	}
	api.Success(w, map[string]string{"path": path}, reqID)
}
