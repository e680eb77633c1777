// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/okian/herocoach/internal/adapters/catalog"
	"github.com/okian/herocoach/internal/adapters/classifier"
	"github.com/okian/herocoach/internal/adapters/embedding"
	"github.com/okian/herocoach/internal/adapters/mq/worker"
	"github.com/okian/herocoach/internal/config"
	"github.com/okian/herocoach/internal/domain/advisor"
	"github.com/okian/herocoach/internal/domain/dates"
	"github.com/okian/herocoach/internal/domain/extraction"
	"github.com/okian/herocoach/internal/domain/journey"
	"github.com/okian/herocoach/internal/domain/labels"
	"github.com/okian/herocoach/internal/domain/model"
	"github.com/okian/herocoach/internal/domain/semantic"
	"github.com/okian/herocoach/pkg/logger"
	"github.com/okian/herocoach/pkg/metrics"
)

// Classifier is the label classification capability.
type Classifier interface {
	Classify(ctx context.Context, text string) (string, error)
}

// Service implements the API dependencies for goal extraction and coaching.
type Service struct {
	mu sync.RWMutex

	cfg *config.Config
	now func() time.Time
	rnd semantic.Rand

	// Core components
	catalog    *catalog.Catalog
	classifier Classifier
	embedding  semantic.Embedding
	pool       *worker.Pool
	extractor  *extraction.Extractor
	matcher    *semantic.Matcher
	engine     *advisor.Engine

	// State
	started   bool
	startedAt time.Time

	// Logging
	logger logger.Logger
}

// New constructs a Service from cfg. Components are built by Start.
func New(cfg *config.Config, opts ...Option) *Service {
	if cfg == nil {
		cfg = config.New()
	}
	s := &Service{
		cfg: cfg,
		now: time.Now,
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting herocoach service...")

	if s.catalog == nil {
		c, err := s.loadCatalog(ctx)
		if err != nil {
			return err
		}
		s.catalog = c
	}

	if s.classifier == nil {
		s.classifier = s.newClassifier()
	}

	if s.embedding == nil {
		s.embedding = s.newEmbedding(ctx)
	}

	if s.rnd == nil {
		seed := s.cfg.RandomSeed
		if seed == 0 {
			seed = s.now().UnixNano()
		}
		s.rnd = rand.New(rand.NewSource(seed)) //nolint:gosec // advice picks are not security sensitive
	}

	s.pool = worker.NewPool(s.cfg.WorkerCount, s.classifier,
		worker.WithQueueSize(s.cfg.QueueSize),
		worker.WithPoolLogger(s.logger),
	)
	// workers outlive the start context; only Stop ends them
	s.pool.Start(context.WithoutCancel(ctx))

	matcherOpts := []semantic.Option{
		semantic.WithConcurrency(s.cfg.SimilarityConcurrency),
		semantic.WithLogger(s.logger.Named("semantic")),
	}
	if s.embedding != nil {
		matcherOpts = append(matcherOpts, semantic.WithEmbedding(s.embedding))
	}
	s.matcher = semantic.NewMatcher(s.rnd, matcherOpts...)

	s.engine = advisor.NewEngine(s.matcher, s.catalog.Advice, s.catalog.Quotes,
		advisor.WithLogger(s.logger.Named("advisor")),
	)

	s.extractor = extraction.NewExtractor(s.pool,
		extraction.WithDateExtractor(dates.NewExtractor(dates.WithClock(s.now))),
		extraction.WithConcurrency(s.cfg.ClassifyConcurrency),
		extraction.WithClassifyTimeout(s.cfg.Classifier.Timeout()),
		extraction.WithLogger(s.logger.Named("extraction")),
	)

	s.started = true
	s.startedAt = s.now()
	s.logger.Info(ctx, "herocoach service started",
		logger.Int("workers", s.pool.Workers()),
		logger.Int("advice", len(s.catalog.Advice)),
		logger.Int("quotes", len(s.catalog.Quotes)),
		logger.String("classifier", s.cfg.Classifier.Provider),
		logger.Bool("embedding", s.embedding != nil),
	)

	return nil
}

func (s *Service) loadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	loader := catalog.NewLoader(catalog.WithLogger(s.logger.Named("catalog")))
	c, err := loader.Load(ctx, s.cfg.AdvicePath, s.cfg.QuotesPath)
	if errors.Is(err, catalog.ErrMissingResource) {
		s.logger.Warn(ctx, "catalog files missing, using built-in test data", logger.Error(err))
		c = catalog.TestData()
		metrics.UpdateCatalogRows("advice", len(c.Advice))
		metrics.UpdateCatalogRows("quotes", len(c.Quotes))
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return c, nil
}

func (s *Service) newClassifier() Classifier {
	cc := s.cfg.Classifier
	if cc.Provider == config.ClassifierOpenAI {
		return classifier.NewOpenAI(cc.APIKey, cc.BaseURL,
			classifier.WithModel(cc.Model),
			classifier.WithLabels(cc.Labels),
		)
	}
	table := classifier.DefaultKeywords
	if len(cc.Labels) > 0 {
		table = lo.Filter(table, func(lk classifier.LabelKeywords, _ int) bool {
			return lo.Contains(cc.Labels, lk.Label)
		})
	}
	return classifier.NewKeyword(table)
}

// newEmbedding builds the configured similarity capability. A vector table
// that cannot be loaded leaves the capability absent so matching falls back
// to traits instead of failing Start.
func (s *Service) newEmbedding(ctx context.Context) semantic.Embedding {
	ec := s.cfg.Embedding
	switch ec.Provider {
	case config.EmbeddingVectors:
		t, err := embedding.LoadVectorTable(ctx, ec.VectorsPath, s.logger.Named("embedding"))
		if err != nil {
			s.logger.Warn(ctx, "word vectors unavailable, continuing without embedding",
				logger.String("path", ec.VectorsPath),
				logger.Error(err),
			)
			metrics.RecordEmbeddingFallback("init")
			return nil
		}
		return t
	case config.EmbeddingOpenAI:
		return embedding.NewOpenAI(ec.APIKey, ec.BaseURL,
			embedding.WithModel(ec.Model),
			embedding.WithCacheTTL(ec.CacheTTL()),
		)
	default:
		return nil
	}
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping herocoach service...")

	if s.pool != nil {
		if err := s.pool.Shutdown(ctx); err != nil {
			s.logger.Warn(ctx, "classifier pool shutdown", logger.Error(err))
		}
	}

	s.started = false
	s.logger.Info(ctx, "herocoach service stopped")
}

func (s *Service) running() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

// ExtractGoals turns free text into labelled goal groups.
func (s *Service) ExtractGoals(ctx context.Context, text string) ([]model.ExtractedGoalGroup, error) {
	if err := s.running(); err != nil {
		return nil, err
	}
	return s.extractor.ExtractGoals(ctx, text)
}

// PlanGoals extracts goals and turns them into drafts. Mini-goals without
// a due date are due DefaultDueDays from now.
func (s *Service) PlanGoals(ctx context.Context, text string) ([]model.GoalDraft, error) {
	groups, err := s.ExtractGoals(ctx, text)
	if err != nil {
		return nil, err
	}

	now := s.now()
	defaultDue := now.AddDate(0, 0, s.cfg.DefaultDueDays)

	drafts := make([]model.GoalDraft, 0, len(groups))
	for _, g := range groups {
		d := model.GoalDraft{
			ID:        uuid.NewString(),
			Title:     g.MainGoal,
			Label:     g.Label,
			CreatedAt: now,
			MiniGoals: make([]model.MiniGoalDraft, 0, len(g.MiniGoals)),
		}
		for _, m := range g.MiniGoals {
			due := defaultDue
			if m.DueDate != nil {
				due = *m.DueDate
			}
			d.MiniGoals = append(d.MiniGoals, model.MiniGoalDraft{
				ID:      uuid.NewString(),
				Title:   m.Title,
				DueDate: due,
			})
		}
		drafts = append(drafts, d)
	}
	return drafts, nil
}

// AnalyzeGoal classifies the whole text as one goal and finds advice for
// it. A classifier failure yields the "none" label and fallback advice.
func (s *Service) AnalyzeGoal(ctx context.Context, text string, traits []string) (advisor.Analysis, error) {
	if err := s.running(); err != nil {
		return advisor.Analysis{}, err
	}

	goal := strings.TrimSpace(text)
	label, err := s.classifyWhole(ctx, goal)
	if err != nil {
		if ctx.Err() != nil {
			return advisor.Analysis{}, fmt.Errorf("analyze goal: %w", ctx.Err())
		}
		s.logger.Warn(ctx, "goal classification failed", logger.Error(err))
		label = model.NoneLabel
	}

	advice, err := s.engine.AdviceForLabel(ctx, label, traits)
	if err != nil {
		return advisor.Analysis{}, fmt.Errorf("analyze goal: %w", err)
	}

	return advisor.Analysis{
		Goal:   goal,
		Label:  label,
		Info:   labels.Lookup(label),
		Advice: advice,
	}, nil
}

func (s *Service) classifyWhole(ctx context.Context, text string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Classifier.Timeout())
	defer cancel()
	return s.pool.Classify(ctx, text)
}

// Advice returns advice for a goal label.
func (s *Service) Advice(ctx context.Context, label string, traits []string) (advisor.Advice, error) {
	if err := s.running(); err != nil {
		return advisor.Advice{}, err
	}
	return s.engine.AdviceForLabel(ctx, label, traits)
}

// GoalAdvice returns up to one advice item per trait for goal.
func (s *Service) GoalAdvice(ctx context.Context, goal, predictedLabel string, traits []string) ([]model.Advice, error) {
	if err := s.running(); err != nil {
		return nil, err
	}
	return s.engine.GoalAdvice(ctx, goal, predictedLabel, traits)
}

// Quote returns a quote for the role model and traits.
func (s *Service) Quote(_ context.Context, roleModel string, traits []string) (advisor.QuoteResult, bool, error) {
	if err := s.running(); err != nil {
		return advisor.QuoteResult{}, false, err
	}
	q, ok := s.engine.Quote(roleModel, traits)
	return q, ok, nil
}

// Coach returns the coach for traits and, when goal is set, its response.
func (s *Service) Coach(_ context.Context, traits []string, goal string) (advisor.CoachView, error) {
	if err := s.running(); err != nil {
		return advisor.CoachView{}, err
	}
	v := advisor.CoachView{Coach: s.engine.Coach(traits)}
	if goal = strings.TrimSpace(goal); goal != "" {
		v.Response = s.engine.CoachResponse(traits, goal)
	}
	return v, nil
}

// MatchReflection returns the reflection most similar to goal, or nil.
func (s *Service) MatchReflection(ctx context.Context, goal model.Goal, reflections []model.Reflection) (*model.ReflectionMatch, error) {
	if err := s.running(); err != nil {
		return nil, err
	}
	return s.engine.MatchReflection(ctx, goal, reflections)
}

// Journey returns the hero journey progress for a completed goal count.
func (s *Service) Journey(_ context.Context, completed int) journey.Progress {
	return journey.ProgressFor(completed)
}

// Traits lists the selectable traits (the advice catalog labels).
func (s *Service) Traits(_ context.Context) ([]string, error) {
	if err := s.running(); err != nil {
		return nil, err
	}
	return s.catalog.Labels(), nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":    s.started,
		"classifier": s.cfg.Classifier.Provider,
		"embedding":  s.cfg.Embedding.Provider,
	}

	if s.started {
		queueLen := s.pool.QueueLen()

		stats["workerCount"] = s.pool.Workers()
		stats["queueLength"] = queueLen
		stats["queueCapacity"] = s.pool.QueueCap()
		stats["embeddingActive"] = s.embedding != nil
		stats["classified"] = s.pool.Processed()
		stats["adviceRows"] = len(s.catalog.Advice)
		stats["quoteRows"] = len(s.catalog.Quotes)
		stats["uptimeSeconds"] = int64(s.now().Sub(s.startedAt).Seconds())

		metrics.UpdatePoolQueueDepth(queueLen)
	}

	return stats
}
