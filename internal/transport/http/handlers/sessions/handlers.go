package sessions

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"crewledger/internal/domain/ledger"
	"crewledger/internal/transport/http/api"
	"crewledger/internal/transport/http/middleware"
)

type Handler struct {
	Service *ledger.Service
}

func NewHandler(service *ledger.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/clock-in", h.handleClockIn)
		r.Post("/clock-out", h.handleClockOut)
		r.Post("/piece-rate", h.handlePieceRatePunchIn)
		r.Post("/piece-rate/complete", h.handlePieceRateComplete)
		r.Get("/active", h.handleActiveSessions)
	})
	r.Get("/employees/{employeeID}/status", h.handleEmployeeStatus)
	r.Post("/employees/{employeeID}/hour-bank/deposit", h.handleBankHours)
	r.Post("/employees/{employeeID}/hour-bank/withdraw", h.handleUseBankedHours)
}

type sessionRequest struct {
	EmployeeID string   `json:"employeeId"`
	JobID      string   `json:"jobId"`
	Coat       string   `json:"coat,omitempty"`
	Trade      string   `json:"trade,omitempty"`
	Phase      string   `json:"phase,omitempty"`
	Notes      string   `json:"notes,omitempty"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
}

func (req sessionRequest) meta() ledger.SessionMeta {
	return ledger.SessionMeta{
		Trade:     req.Trade,
		Phase:     req.Phase,
		Notes:     req.Notes,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}
}

func (h *Handler) handleClockIn(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid json body", reqID)
		return
	}

	entry, err := h.Service.ClockIn(r.Context(), payload.EmployeeID, payload.JobID, payload.meta())
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Created(w, entry, reqID)
}

func (h *Handler) handleClockOut(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload struct {
		EmployeeID      string `json:"employeeId"`
		Notes           string `json:"notes,omitempty"`
		CancelPieceRate bool   `json:"cancelPieceRate,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid json body", reqID)
		return
	}

	result, err := h.Service.ClockOut(r.Context(), payload.EmployeeID, payload.Notes, payload.CancelPieceRate)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Success(w, result, reqID)
}

func (h *Handler) handlePieceRatePunchIn(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid json body", reqID)
		return
	}

	entry, err := h.Service.PunchInPieceRate(r.Context(), payload.EmployeeID, payload.JobID, payload.Coat, payload.meta())
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Created(w, entry, reqID)
}

func (h *Handler) handlePieceRateComplete(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload ledger.CompletionInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid json body", reqID)
		return
	}

	entry, err := h.Service.CompletePieceRateEntry(r.Context(), payload)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Success(w, entry, reqID)
}

func (h *Handler) handleActiveSessions(w http.ResponseWriter, r *http.Request) {
	api.Success(w, h.Service.Sessions(), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleEmployeeStatus(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	status, err := h.Service.EmployeeStatus(chi.URLParam(r, "employeeID"))
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Success(w, map[string]string{"status": status}, reqID)
}

func (h *Handler) handleBankHours(w http.ResponseWriter, r *http.Request) {
	h.handleHourBank(w, r, h.Service.BankHours)
}

func (h *Handler) handleUseBankedHours(w http.ResponseWriter, r *http.Request) {
	h.handleHourBank(w, r, h.Service.UseBankedHours)
}

func (h *Handler) handleHourBank(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, employeeID string, hours float64) (float64, error)) {
	reqID := middleware.GetRequestID(r.Context())

	var payload struct {
		Hours float64 `json:"hours"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid json body", reqID)
		return
	}

	balance, err := op(r.Context(), chi.URLParam(r, "employeeID"), payload.Hours)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Success(w, map[string]float64{"bankedHours": balance}, reqID)
}
