package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/herocoach/internal/domain/advisor"
	"github.com/okian/herocoach/internal/domain/model"
)

// CoachingDependencies defines advice, quote, coach and reflection operations.
type CoachingDependencies interface {
	Advice(ctx context.Context, label string, traits []string) (advisor.Advice, error)
	GoalAdvice(ctx context.Context, goal, predictedLabel string, traits []string) ([]model.Advice, error)
	Quote(ctx context.Context, roleModel string, traits []string) (advisor.QuoteResult, bool, error)
	Coach(ctx context.Context, traits []string, goal string) (advisor.CoachView, error)
	MatchReflection(ctx context.Context, goal model.Goal, reflections []model.Reflection) (*model.ReflectionMatch, error)
}

// CoachingHandler handles coaching requests.
type CoachingHandler struct {
	deps CoachingDependencies
}

// NewCoachingHandler creates a new coaching handler.
func NewCoachingHandler(deps CoachingDependencies) *CoachingHandler {
	return &CoachingHandler{deps: deps}
}

type adviceRequest struct {
	Label  string   `json:"label"`
	Traits []string `json:"traits"`
}

type goalAdviceRequest struct {
	Goal           string   `json:"goal"`
	PredictedLabel string   `json:"predicted_label"`
	Traits         []string `json:"traits"`
}

type goalAdviceResponse struct {
	Advice []model.Advice `json:"advice"`
}

type quoteRequest struct {
	RoleModel string   `json:"role_model"`
	Traits    []string `json:"traits"`
}

type coachRequest struct {
	Traits []string `json:"traits"`
	Goal   string   `json:"goal,omitempty"`
}

type reflectionRequest struct {
	Goal        model.Goal         `json:"goal"`
	Reflections []model.Reflection `json:"reflections"`
}

// HandleAdvice handles POST /v1/advice requests.
func (h *CoachingHandler) HandleAdvice(w http.ResponseWriter, r *http.Request) {
	const op = "api.advice"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req adviceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if strings.TrimSpace(req.Label) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("missing label")))
		return
	}

	advice, err := h.deps.Advice(r.Context(), req.Label, req.Traits)
	if err != nil {
		writeUpstreamError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, advice)
}

// HandleGoalAdvice handles POST /v1/advice/goal requests.
func (h *CoachingHandler) HandleGoalAdvice(w http.ResponseWriter, r *http.Request) {
	const op = "api.goal_advice"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req goalAdviceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	advice, err := h.deps.GoalAdvice(r.Context(), req.Goal, req.PredictedLabel, req.Traits)
	if err != nil {
		writeUpstreamError(w, Wrap(op, err))
		return
	}
	if advice == nil {
		advice = []model.Advice{}
	}
	writeJSON(w, http.StatusOK, goalAdviceResponse{Advice: advice})
}

// HandleQuote handles POST /v1/quote requests. An empty catalog is a 404.
func (h *CoachingHandler) HandleQuote(w http.ResponseWriter, r *http.Request) {
	const op = "api.quote"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req quoteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	quote, ok, err := h.deps.Quote(r.Context(), req.RoleModel, req.Traits)
	if err != nil {
		writeUpstreamError(w, Wrap(op, err))
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", NewKind(op, ErrNotFound))
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

// HandleCoach handles POST /v1/coach requests.
func (h *CoachingHandler) HandleCoach(w http.ResponseWriter, r *http.Request) {
	const op = "api.coach"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req coachRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	coach, err := h.deps.Coach(r.Context(), req.Traits, req.Goal)
	if err != nil {
		writeUpstreamError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, coach)
}

// HandleMatchReflection handles POST /v1/reflections/match requests.
// No reflections is a 404.
func (h *CoachingHandler) HandleMatchReflection(w http.ResponseWriter, r *http.Request) {
	const op = "api.match_reflection"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req reflectionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	match, err := h.deps.MatchReflection(r.Context(), req.Goal, req.Reflections)
	if err != nil {
		writeUpstreamError(w, Wrap(op, err))
		return
	}
	if match == nil {
		writeError(w, http.StatusNotFound, "not_found", NewKind(op, ErrNotFound))
		return
	}
	writeJSON(w, http.StatusOK, match)
}
