// Package api exposes the read-side HTTP interface over the stored
// canonical records.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"farmwatch/internal/bootstrap/logging"
	"farmwatch/internal/domain/violation"
	"farmwatch/internal/errs"
	"farmwatch/internal/ports"
	"farmwatch/internal/usecase/query"
)

type Handler struct {
	svc *query.Service
}

// NewRouter builds the chi router for the query service.
func NewRouter(svc *query.Service) http.Handler {
	h := &Handler{svc: svc}

	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Get("/api/health", h.health)
	r.Get("/api/violations", h.listViolations)
	r.Get("/api/violations/{id}", h.getViolation)
	r.Get("/api/stats", h.stats)
	r.Get("/api/states", h.states)

	return r
}

type violationOut struct {
	ID            uint64   `json:"id"`
	FacilityName  string   `json:"facility_name"`
	Location      *string  `json:"location"`
	State         *string  `json:"state"`
	County        *string  `json:"county"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	ViolationType *string  `json:"violation_type"`
	Date          *string  `json:"date"`
	Source        string   `json:"source"`
	SourceID      *string  `json:"source_id"`
	Description   *string  `json:"description"`
	Severity      *string  `json:"severity"`
	PenaltyAmount *float64 `json:"penalty_amount"`
}

type listOut struct {
	Total   int64          `json:"total"`
	Page    int            `json:"page"`
	PerPage int            `json:"per_page"`
	Results []violationOut `json:"results"`
}

type statsOut struct {
	TotalViolations int64            `json:"total_violations"`
	BySource        map[string]int64 `json:"by_source"`
	BySeverity      map[string]int64 `json:"by_severity"`
	ByState         map[string]int64 `json:"by_state"`
	StatesCount     int64            `json:"states_count"`
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(r, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) listViolations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	in := query.ListInput{
		Filter: ports.ViolationFilter{
			Search:        q.Get("search"),
			State:         q.Get("state"),
			Source:        q.Get("source"),
			Severity:      q.Get("severity"),
			ViolationType: q.Get("violation_type"),
			DateFrom:      q.Get("date_from"),
			DateTo:        q.Get("date_to"),
		},
		Page:    intParam(q.Get("page")),
		PerPage: intParam(q.Get("per_page")),
	}

	result, err := h.svc.List(r.Context(), in)
	if err != nil {
		h.serverError(w, r, "list violations", err)
		return
	}

	out := listOut{
		Total:   result.Total,
		Page:    result.Page,
		PerPage: result.PerPage,
		Results: make([]violationOut, 0, len(result.Results)),
	}
	for _, item := range result.Results {
		out.Results = append(out.Results, toViolationOut(item))
	}
	writeJSON(r, w, http.StatusOK, out)
}

func (h *Handler) getViolation(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(strings.TrimSpace(chi.URLParam(r, "id")), 10, 64)
	if err != nil {
		writeJSON(r, w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	item, err := h.svc.Get(r.Context(), id)
	if errors.Is(err, ports.ErrViolationNotFound) {
		writeJSON(r, w, http.StatusNotFound, map[string]string{"error": "violation not found"})
		return
	}
	if err != nil {
		h.serverError(w, r, "get violation", err)
		return
	}
	writeJSON(r, w, http.StatusOK, toViolationOut(item))
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		h.serverError(w, r, "load stats", err)
		return
	}

	writeJSON(r, w, http.StatusOK, statsOut{
		TotalViolations: stats.Total,
		BySource:        stats.BySource,
		BySeverity:      stats.BySeverity,
		ByState:         stats.ByState,
		StatesCount:     stats.StatesCount,
	})
}

type stateOut struct {
	State string `json:"state"`
	Count int64  `json:"count"`
}

// states lists every state with its violation count, ordered by state code,
// as a bare JSON array.
func (h *Handler) states(w http.ResponseWriter, r *http.Request) {
	states, err := h.svc.States(r.Context())
	if err != nil {
		h.serverError(w, r, "list states", err)
		return
	}

	out := make([]stateOut, 0, len(states))
	for _, s := range states {
		out = append(out, stateOut{State: s.State, Count: s.Count})
	}
	writeJSON(r, w, http.StatusOK, out)
}

func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, action string, err error) {
	logging.Error(r.Context(), action+" failed", slog.Any("err", errs.Loggable(err)))
	writeJSON(r, w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

func toViolationOut(item ports.StoredViolation) violationOut {
	var severity *string
	if item.Record.Severity != nil {
		severity = violation.Ptr(string(*item.Record.Severity))
	}

	return violationOut{
		ID:            item.ID,
		FacilityName:  item.Record.FacilityName,
		Location:      item.Record.Location,
		State:         item.Record.State,
		County:        item.Record.County,
		Latitude:      item.Record.Latitude,
		Longitude:     item.Record.Longitude,
		ViolationType: item.Record.ViolationType,
		Date:          item.Record.Date,
		Source:        item.Record.Source,
		SourceID:      item.Record.SourceID,
		Description:   item.Record.Description,
		Severity:      severity,
		PenaltyAmount: item.Record.PenaltyAmount,
	}
}

func intParam(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return n
}

func writeJSON(r *http.Request, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Warn(r.Context(), "write response failed", slog.Any("err", err))
	}
}
