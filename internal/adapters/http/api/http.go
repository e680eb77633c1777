// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	GoalsDependencies
	CoachingDependencies
	JourneyDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	goalsHandler    *GoalsHandler
	coachingHandler *CoachingHandler
	journeyHandler  *JourneyHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		goalsHandler:    NewGoalsHandler(deps),
		coachingHandler: NewCoachingHandler(deps),
		journeyHandler:  NewJourneyHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", route(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", s.healthHandler.HandleHealth)
	mux.HandleFunc("/stats", route(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("/v1/goals/extract", route(s.goalsHandler.HandleExtract, "goals_extract"))
	mux.HandleFunc("/v1/goals/plan", route(s.goalsHandler.HandlePlan, "goals_plan"))
	mux.HandleFunc("/v1/goals/analyze", route(s.goalsHandler.HandleAnalyze, "goals_analyze"))

	mux.HandleFunc("/v1/advice", route(s.coachingHandler.HandleAdvice, "advice"))
	mux.HandleFunc("/v1/advice/goal", route(s.coachingHandler.HandleGoalAdvice, "advice_goal"))
	mux.HandleFunc("/v1/quote", route(s.coachingHandler.HandleQuote, "quote"))
	mux.HandleFunc("/v1/coach", route(s.coachingHandler.HandleCoach, "coach"))
	mux.HandleFunc("/v1/reflections/match", route(s.coachingHandler.HandleMatchReflection, "reflections_match"))

	mux.HandleFunc("/v1/journey", route(s.journeyHandler.HandleJourney, "journey"))
	mux.HandleFunc("/v1/traits", route(s.journeyHandler.HandleTraits, "traits"))
}

// route wraps a business handler with request ids and metrics.
func route(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return MetricsMiddleware(RequestIDMiddleware(next), endpoint)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeUpstreamError maps an error returned by a dependency to a response.
func writeUpstreamError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrBadRequest):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, "timeout", err)
	case errors.Is(err, context.Canceled):
		// client went away; status is only for metrics
		writeError(w, statusClientClosed, "canceled", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}

// statusClientClosed is the de facto status for requests the client aborted.
const statusClientClosed = 499
