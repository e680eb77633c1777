package embedding

import (
	"context"
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sashabaranov/go-openai"
	"golang.org/x/sync/singleflight"
)

const defaultCacheTTL = time.Hour

// OpenAI fetches word vectors from the embeddings API and memoizes them.
type OpenAI struct {
	client *openai.Client
	model  openai.EmbeddingModel
	cache  *gocache.Cache
	group  singleflight.Group
}

// OpenAIOption configures the OpenAI embedding.
type OpenAIOption func(*openAIConfig)

type openAIConfig struct {
	model openai.EmbeddingModel
	ttl   time.Duration
}

// WithModel sets the embedding model.
func WithModel(model string) OpenAIOption {
	return func(c *openAIConfig) {
		if model != "" {
			c.model = openai.EmbeddingModel(model)
		}
	}
}

// WithCacheTTL sets how long a word vector is kept.
func WithCacheTTL(ttl time.Duration) OpenAIOption {
	return func(c *openAIConfig) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// NewOpenAI creates an embedding capability. An empty baseURL uses the
// public API.
func NewOpenAI(apiKey, baseURL string, opts ...OpenAIOption) *OpenAI {
	cfg := openAIConfig{model: openai.SmallEmbedding3, ttl: defaultCacheTTL}
	for _, opt := range opts {
		opt(&cfg)
	}

	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &OpenAI{
		client: openai.NewClientWithConfig(config),
		model:  cfg.model,
		cache:  gocache.New(cfg.ttl, 2*cfg.ttl),
	}
}

// Similarity returns the cosine similarity of the two words' vectors.
func (o *OpenAI) Similarity(ctx context.Context, a, b string) (float64, error) {
	va, err := o.vector(ctx, a)
	if err != nil {
		return 0, err
	}
	vb, err := o.vector(ctx, b)
	if err != nil {
		return 0, err
	}
	return cosine(va, vb), nil
}

func (o *OpenAI) vector(ctx context.Context, word string) ([]float32, error) {
	key := strings.ToLower(strings.TrimSpace(word))
	if key == "" {
		return nil, fmt.Errorf("%w: empty word", ErrUnknownWord)
	}
	if v, ok := o.cache.Get(key); ok {
		return v.([]float32), nil
	}

	v, err, _ := o.group.Do(key, func() (any, error) {
		resp, err := o.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input: []string{key},
			Model: o.model,
		})
		if err != nil {
			return nil, fmt.Errorf("create embeddings: %w", err)
		}
		if len(resp.Data) == 0 {
			return nil, ErrEmptyResponse
		}
		vec := resp.Data[0].Embedding
		o.cache.SetDefault(key, vec)
		return vec, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]float32), nil
}

// Cached is the number of memoized word vectors.
func (o *OpenAI) Cached() int { return o.cache.ItemCount() }
