package classifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/okian/herocoach/internal/domain/model"
)

const defaultModel = openai.GPT4oMini

// OpenAI classifies clauses with a chat completion constrained to a fixed
// label list.
type OpenAI struct {
	client *openai.Client
	model  string
	labels []string
}

// OpenAIOption configures the OpenAI classifier.
type OpenAIOption func(*OpenAI)

// WithModel sets the chat model.
func WithModel(model string) OpenAIOption {
	return func(o *OpenAI) {
		if model != "" {
			o.model = model
		}
	}
}

// WithLabels sets the allowed labels.
func WithLabels(labels []string) OpenAIOption {
	return func(o *OpenAI) {
		if len(labels) > 0 {
			o.labels = append([]string(nil), labels...)
		}
	}
}

// NewOpenAI creates a classifier. An empty baseURL uses the public API.
func NewOpenAI(apiKey, baseURL string, opts ...OpenAIOption) *OpenAI {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	o := &OpenAI{
		client: openai.NewClientWithConfig(config),
		model:  defaultModel,
		labels: NewKeyword(nil).Labels(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *OpenAI) prompt() string {
	var b strings.Builder
	b.WriteString("You label personal goals. Reply with exactly one label from this list, ")
	b.WriteString("or \"none\" if the text is not a goal:\n")
	for _, l := range o.labels {
		b.WriteString("- ")
		b.WriteString(l)
		b.WriteByte('\n')
	}
	return b.String()
}

// Classify asks the model for a label. Replies outside the label list are
// "none"; transport failures are returned.
func (o *OpenAI) Classify(ctx context.Context, text string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: 0,
		MaxTokens:   16,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: o.prompt()},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	}
	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	reply := strings.Trim(strings.TrimSpace(resp.Choices[0].Message.Content), `"'.`)
	for _, l := range o.labels {
		if strings.EqualFold(reply, l) {
			return l, nil
		}
	}
	return model.NoneLabel, nil
}
