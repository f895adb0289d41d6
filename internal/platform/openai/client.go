package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"resty.dev/v3"

	"github.com/yungbote/studynotes-backend/internal/platform/httpx"
	"github.com/yungbote/studynotes-backend/internal/platform/logger"
)

const (
	defaultBaseURL = "https://api.openai.com"
	defaultModel   = "gpt-4o-mini"
)

//go:generate mockgen -source=client.go -destination=../../mocks/openai/mock_client.go -package=mock_openai Client

// Client is the subset of the OpenAI API the backend uses.
type Client interface {
	// Structured outputs (json_schema)
	GenerateJSON(ctx context.Context, system string, user string, schemaName string, schema map[string]any) (map[string]any, error)
	Model() string
}

type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Timeout     time.Duration
	MaxRetries  uint
	Temperature *float64
	// RetryDelay is the initial backoff between attempts.
	RetryDelay time.Duration
}

type client struct {
	log         *logger.Logger
	http        *resty.Client
	model       string
	maxRetries  uint
	retryDelay  time.Duration
	temperature *float64
}

func NewClient(log *logger.Logger, cfg Config) (Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("missing openai api key")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 180 * time.Second
	}
	retryDelay := cfg.RetryDelay
	if retryDelay <= 0 {
		retryDelay = time.Second
	}

	hc := resty.New()
	hc.SetBaseURL(baseURL)
	hc.SetTimeout(timeout)
	hc.SetHeader("Authorization", "Bearer "+apiKey)
	hc.SetHeader("Content-Type", "application/json")

	return &client{
		log:         log.With("client", "OpenAIClient"),
		http:        hc,
		model:       model,
		maxRetries:  cfg.MaxRetries,
		retryDelay:  retryDelay,
		temperature: cfg.Temperature,
	}, nil
}

func (c *client) Model() string { return c.model }

type openAIHTTPError struct {
	StatusCode int
	Body       string
	RetryAfter time.Duration
}

func (e *openAIHTTPError) Error() string {
	return fmt.Sprintf("openai http %d: %s", e.StatusCode, e.Body)
}

func (e *openAIHTTPError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

type inputMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responsesRequest struct {
	Model string         `json:"model"`
	Input []inputMessage `json:"input"`
	Text  struct {
		Format map[string]any `json:"format,omitempty"`
	} `json:"text,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
}

type responsesResponse struct {
	Output []struct {
		Type    string `json:"type"`
		Role    string `json:"role,omitempty"`
		Content []struct {
			Type    string `json:"type"`
			Text    string `json:"text,omitempty"`
			Refusal string `json:"refusal,omitempty"`
		} `json:"content,omitempty"`
	} `json:"output"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage,omitempty"`
}

func (r responsesResponse) outputText() (text string, refusal string) {
	var out strings.Builder
	for _, item := range r.Output {
		if item.Type != "message" || item.Role != "assistant" {
			continue
		}
		for _, part := range item.Content {
			switch part.Type {
			case "output_text":
				out.WriteString(part.Text)
			case "refusal":
				refusal = part.Refusal
			}
		}
	}
	return out.String(), refusal
}

func (c *client) GenerateJSON(ctx context.Context, system string, user string, schemaName string, schema map[string]any) (map[string]any, error) {
	if schemaName == "" {
		return nil, errors.New("schemaName required")
	}
	if schema == nil {
		return nil, errors.New("schema required")
	}

	req := responsesRequest{
		Model: c.model,
		Input: []inputMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: c.temperature,
	}
	req.Text.Format = map[string]any{
		"type":   "json_schema",
		"name":   schemaName,
		"schema": schema,
		"strict": true,
	}

	var resp responsesResponse
	if err := c.post(ctx, "/v1/responses", &req, &resp); err != nil {
		return nil, err
	}

	jsonText, refusal := resp.outputText()
	if refusal != "" {
		return nil, fmt.Errorf("model refused: %s", refusal)
	}
	if strings.TrimSpace(jsonText) == "" {
		return nil, fmt.Errorf("no output_text found in response")
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(jsonText), &obj); err != nil {
		return nil, fmt.Errorf("failed to parse model JSON: %w", err)
	}
	c.log.Debug("OpenAI response decoded",
		"model", c.model,
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
	)
	return obj, nil
}

// post sends body and decodes a 2xx response into out, retrying transient failures.
func (c *client) post(ctx context.Context, path string, body any, out any) error {
	return retry.Do(
		func() error {
			err := c.postOnce(ctx, path, body, out)
			if err != nil && !httpx.IsRetryableError(err) {
				return retry.Unrecoverable(err)
			}
			return err
		},
		retry.Context(ctx),
		retry.Attempts(c.maxRetries+1),
		retry.Delay(c.retryDelay),
		retry.MaxDelay(10*time.Second),
		retry.LastErrorOnly(true),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			var httpErr *openAIHTTPError
			if errors.As(err, &httpErr) && httpErr.RetryAfter > 0 {
				return httpErr.RetryAfter
			}
			return retry.BackOffDelay(n, err, config)
		}),
		retry.OnRetry(func(n uint, err error) {
			c.log.Warn("OpenAI request retrying",
				"path", path,
				"attempt", n+1,
				"max_retries", c.maxRetries,
				"error", err.Error(),
			)
		}),
	)
}

func (c *client) postOnce(ctx context.Context, path string, body any, out any) error {
	response, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		Post(path)
	if err != nil {
		return fmt.Errorf("openai request: %w", err)
	}
	if response.IsError() {
		httpErr := &openAIHTTPError{StatusCode: response.StatusCode(), Body: response.String()}
		if d, ok := httpx.RetryAfter(response.Header().Get("Retry-After"), 10*time.Second); ok {
			httpErr.RetryAfter = d
		}
		return httpErr
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(response.Bytes(), out); err != nil {
		return fmt.Errorf("openai decode error: %w", err)
	}
	return nil
}
