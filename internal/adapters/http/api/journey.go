package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/okian/herocoach/internal/domain/journey"
)

// JourneyDependencies defines the profile read operations.
type JourneyDependencies interface {
	Journey(ctx context.Context, completed int) journey.Progress
	Traits(ctx context.Context) ([]string, error)
}

// JourneyHandler handles journey and trait requests.
type JourneyHandler struct {
	deps JourneyDependencies
}

// NewJourneyHandler creates a new journey handler.
func NewJourneyHandler(deps JourneyDependencies) *JourneyHandler {
	return &JourneyHandler{deps: deps}
}

type traitsResponse struct {
	Traits []string `json:"traits"`
}

// HandleJourney handles GET /v1/journey?completed=N requests. A missing
// count means 0.
func (h *JourneyHandler) HandleJourney(w http.ResponseWriter, r *http.Request) {
	const op = "api.journey"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	completed := 0
	if s := r.URL.Query().Get("completed"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "bad_request",
				WrapKind(op, ErrBadRequest, errors.New("completed must be a non-negative integer")))
			return
		}
		completed = n
	}
	writeJSON(w, http.StatusOK, h.deps.Journey(r.Context(), completed))
}

// HandleTraits handles GET /v1/traits requests.
func (h *JourneyHandler) HandleTraits(w http.ResponseWriter, r *http.Request) {
	const op = "api.traits"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	traits, err := h.deps.Traits(r.Context())
	if err != nil {
		writeUpstreamError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, traitsResponse{Traits: traits})
}
