package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/quangtn/vietcal/internal/model"
	"github.com/quangtn/vietcal/internal/resolve"
	"github.com/quangtn/vietcal/internal/worker"
)

const extractionPrompt = `Extract scheduling information from this Vietnamese sentence.
Reply with a single JSON object and nothing else:
{"event_name": "...", "time_phrase": "...", "location": "...", "reminder_minutes": 0}

event_name: the activity, without time or location words.
time_phrase: the verbatim time expression from the sentence, or "".
location: the place, without marker words, or "".
reminder_minutes: requested reminder offset in minutes, 0 if none.

Sentence: %s`

const taggingPrompt = `Label each token of this Vietnamese sentence with named-entity tags.
Use B-LOC for the first token of a location, I-LOC for its continuation, O otherwise.
Reply with a single JSON array and nothing else, e.g.
[{"token":"hop","label":"O"},{"token":"phong","label":"B-LOC"},{"token":"302","label":"I-LOC"}]

Sentence: %s`

// OpenAIBackend extracts scheduling fields with a chat model. It implements
// the same Process contract as the rule backend and doubles as the
// named-entity tagger fallback.
type OpenAIBackend struct {
	client   *openai.Client
	config   Config
	limiter  *worker.Limiter
	resolver *resolve.Resolver
}

// NewOpenAIBackend creates the backend. The API key is mandatory.
func NewOpenAIBackend(cfg Config) (*OpenAIBackend, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &OpenAIBackend{
		client:   openai.NewClientWithConfig(clientConfig),
		config:   cfg,
		limiter:  worker.NewLimiter(cfg.RequestsPerSecond, cfg.Burst),
		resolver: resolve.NewResolver(9),
	}, nil
}

// Name returns the backend name
func (b *OpenAIBackend) Name() string { return "openai" }

// IsAvailable checks that the endpoint answers with the configured key
func (b *OpenAIBackend) IsAvailable(ctx context.Context) bool {
	_, err := b.client.ListModels(ctx)
	return err == nil
}

// Process extracts scheduling fields from one sentence. The time phrase the
// model reports is resolved locally so both backends share one clock logic.
func (b *OpenAIBackend) Process(ctx context.Context, text string, base time.Time) (*model.Result, error) {
	content, err := b.complete(ctx, fmt.Sprintf(extractionPrompt, text))
	if err != nil {
		return nil, err
	}

	var payload struct {
		EventName       string `json:"event_name"`
		TimePhrase      string `json:"time_phrase"`
		Location        string `json:"location"`
		ReminderMinutes int    `json:"reminder_minutes"`
	}
	if err := json.Unmarshal([]byte(sliceJSON(content, '{', '}')), &payload); err != nil {
		return nil, fmt.Errorf("parse model output: %w", err)
	}
	if payload.ReminderMinutes < 0 {
		payload.ReminderMinutes = 0
	}

	var start, end *time.Time
	if payload.TimePhrase != "" {
		start, end = b.resolver.Resolve(payload.TimePhrase, base)
	}

	return &model.Result{
		EventName:       strings.TrimSpace(payload.EventName),
		StartTime:       start,
		EndTime:         end,
		Location:        strings.TrimSpace(payload.Location),
		ReminderMinutes: payload.ReminderMinutes,
		TimePhrase:      payload.TimePhrase,
		Backends:        b.Name(),
	}, nil
}

// Tag labels tokens with location entities
func (b *OpenAIBackend) Tag(ctx context.Context, text string) ([]model.TokenLabel, error) {
	content, err := b.complete(ctx, fmt.Sprintf(taggingPrompt, text))
	if err != nil {
		return nil, err
	}

	var tags []model.TokenLabel
	if err := json.Unmarshal([]byte(sliceJSON(content, '[', ']')), &tags); err != nil {
		return nil, fmt.Errorf("parse tag output: %w", err)
	}
	return tags, nil
}

// complete runs one rate-limited chat completion
func (b *OpenAIBackend) complete(ctx context.Context, prompt string) (string, error) {
	mdl := b.config.Model
	if mdl == "" {
		mdl = openai.GPT4oMini
	}

	if err := b.limiter.Wait(ctx, mdl); err != nil {
		return "", err
	}

	timeout := time.Duration(b.config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	maxTokens := b.config.MaxTokens
	if maxTokens == 0 {
		maxTokens = 500
	}

	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: mdl,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You extract structured calendar data from Vietnamese text and answer with JSON only.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.1,
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// sliceJSON cuts the first balanced-looking JSON value out of a reply that
// may be wrapped in code fences or prose.
func sliceJSON(s string, open, shut byte) string {
	i := strings.IndexByte(s, open)
	j := strings.LastIndexByte(s, shut)
	if i < 0 || j <= i {
		return s
	}
	return s[i : j+1]
}
