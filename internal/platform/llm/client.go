package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/summerstudio/meetscribe-backend/internal/platform/logger"
)

// Client is the remote model used as an opaque annotator by the pipeline
// stages: prompt in, JSON object out. The mindmap builder never touches it.
type Client interface {
	// GenerateJSON sends a system/user prompt pair and decodes the model's
	// JSON-mode reply into a generic map.
	GenerateJSON(ctx context.Context, system, user string) (map[string]any, error)

	// GenerateText sends a system/user prompt pair and returns plain text.
	GenerateText(ctx context.Context, system, user string) (string, error)

	// Model reports the resolved model name, for logging and responses.
	Model() string
}

type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	Timeout     time.Duration
}

// Placeholder values some frontends send instead of a real model name.
var badModelLiterals = map[string]bool{"": true, "string": true, "model": true}

// ResolveModel picks the requested model unless it is a known placeholder.
func ResolveModel(requested, fallback string) string {
	m := strings.TrimSpace(requested)
	if badModelLiterals[strings.ToLower(m)] {
		return fallback
	}
	return m
}

type client struct {
	api   *openai.Client
	cfg   Config
	log   *logger.Logger
	model string
}

func NewClient(cfg Config, log *logger.Logger) (Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("llm: api key is required")
	}
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = openai.GPT4oMini
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = 0.1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	return &client{
		api:   openai.NewClientWithConfig(clientConfig),
		cfg:   cfg,
		log:   log.With("client", "LLM"),
		model: model,
	}, nil
}

// WithModel returns a client bound to the given model, or the receiver
// unchanged when the name is empty or a placeholder.
func WithModel(base Client, model string) Client {
	c, ok := base.(*client)
	if !ok {
		return base
	}
	resolved := ResolveModel(model, c.model)
	if resolved == c.model {
		return base
	}
	clone := *c
	clone.model = resolved
	return &clone
}

func (c *client) Model() string { return c.model }

func (c *client) chat(ctx context.Context, system, user string, jsonMode bool) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: c.cfg.Temperature,
	}
	if jsonMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("llm: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("llm: empty response from model %s", c.model)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (c *client) GenerateJSON(ctx context.Context, system, user string) (map[string]any, error) {
	raw, err := c.chat(ctx, system, user, true)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &out); err != nil {
		return nil, fmt.Errorf("llm: decode JSON reply: %w", err)
	}
	return out, nil
}

func (c *client) GenerateText(ctx context.Context, system, user string) (string, error) {
	return c.chat(ctx, system, user, false)
}

// stripCodeFence unwraps ```json ... ``` blocks models sometimes emit even in
// JSON mode.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
