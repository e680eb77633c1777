package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/herocoach/internal/domain/advisor"
	"github.com/okian/herocoach/internal/domain/labels"
	"github.com/okian/herocoach/internal/domain/model"
)

// GoalsDependencies defines the goal extraction operations.
type GoalsDependencies interface {
	ExtractGoals(ctx context.Context, text string) ([]model.ExtractedGoalGroup, error)
	PlanGoals(ctx context.Context, text string) ([]model.GoalDraft, error)
	AnalyzeGoal(ctx context.Context, text string, traits []string) (advisor.Analysis, error)
}

// GoalsHandler handles goal extraction requests.
type GoalsHandler struct {
	deps GoalsDependencies
}

// NewGoalsHandler creates a new goals handler.
func NewGoalsHandler(deps GoalsDependencies) *GoalsHandler {
	return &GoalsHandler{deps: deps}
}

// goalTextRequest mirrors the OpenAPI schema shared by the /v1/goals routes.
type goalTextRequest struct {
	Text   string   `json:"text"`
	Traits []string `json:"traits,omitempty"`
}

// goalGroup is an extracted group decorated with its label metadata.
type goalGroup struct {
	model.ExtractedGoalGroup
	Icon       string `json:"icon"`
	ColorIndex int    `json:"color_index"`
}

type extractResponse struct {
	Groups []goalGroup `json:"groups"`
}

type planResponse struct {
	Goals []model.GoalDraft `json:"goals"`
}

// HandleExtract handles POST /v1/goals/extract requests.
func (h *GoalsHandler) HandleExtract(w http.ResponseWriter, r *http.Request) {
	const op = "api.extract_goals"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req goalTextRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	groups, err := h.deps.ExtractGoals(r.Context(), req.Text)
	if err != nil {
		writeUpstreamError(w, Wrap(op, err))
		return
	}

	resp := extractResponse{Groups: make([]goalGroup, len(groups))}
	for i, g := range groups {
		info := labels.Lookup(g.Label)
		resp.Groups[i] = goalGroup{ExtractedGoalGroup: g, Icon: info.Icon, ColorIndex: info.ColorIndex}
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandlePlan handles POST /v1/goals/plan requests.
func (h *GoalsHandler) HandlePlan(w http.ResponseWriter, r *http.Request) {
	const op = "api.plan_goals"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req goalTextRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	drafts, err := h.deps.PlanGoals(r.Context(), req.Text)
	if err != nil {
		writeUpstreamError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, planResponse{Goals: drafts})
}

// HandleAnalyze handles POST /v1/goals/analyze requests.
func (h *GoalsHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	const op = "api.analyze_goal"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req goalTextRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("missing text")))
		return
	}

	analysis, err := h.deps.AnalyzeGoal(r.Context(), req.Text, req.Traits)
	if err != nil {
		writeUpstreamError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}
