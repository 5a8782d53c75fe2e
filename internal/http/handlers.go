package http

import (
	"net/http"

	"ledger/internal/core"
	"ledger/internal/log"
)

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.Ready(r.Context()); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Readiness check failed", log.FieldError, err)
		writeFailure(w, http.StatusServiceUnavailable, "storage unavailable")
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	e, err := parseNewExpense(w, r)
	if err != nil {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Invalid expense request", log.FieldError, err)
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}

	res := s.ledger.AddExpense(r.Context(), e)
	if !res.OK() {
		writeJSON(w, http.StatusInternalServerError, res.Failure())
		return
	}
	writeJSON(w, http.StatusCreated, core.NewAddExpenseResponse(res.Value()))
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	rng, err := parseDateRange(r.URL.Query())
	if err != nil {
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}

	res := s.ledger.ListExpenses(r.Context(), rng)
	if !res.OK() {
		writeJSON(w, http.StatusInternalServerError, res.Failure())
		return
	}
	writeJSON(w, http.StatusOK, res.Value())
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	rng, err := parseDateRange(query)
	if err != nil {
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}

	res := s.ledger.Summarize(r.Context(), core.SummaryQuery{Range: rng, Category: query.Get("category")})
	if !res.OK() {
		writeJSON(w, http.StatusInternalServerError, res.Failure())
		return
	}
	writeJSON(w, http.StatusOK, res.Value())
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ledger.Categories())
}
