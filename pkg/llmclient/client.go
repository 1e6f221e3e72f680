// Package llmclient implements C2: a rate-limited, retrying client for
// the Cerebras chat-completions endpoint. AnalyzePatientTrialCompatibility
// (and BatchAnalyze through it) passes patient data through the
// SanitizePatientData allow-list before building the prompt;
// ChatCompletion sends the messages it is given unchanged.
package llmclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/medmatch/matching-core/internal/domain"
	"github.com/medmatch/matching-core/internal/ratelimit"
	"github.com/medmatch/matching-core/internal/retryutil"
	"github.com/medmatch/matching-core/internal/telemetry"
)

// Config configures a Client.
type Config struct {
	APIKey             string
	BaseURL            string
	Model              string
	MaxTokens          int
	Timeout            time.Duration
	RateLimitPerMinute int
	MaxRetries         int
	MaxConcurrent      int // batch_analyze bound; default 5
}

// Client is C2, the LLM inference client.
type Client struct {
	cfg        Config
	httpClient *http.Client
	limiter    *ratelimit.TokenBucket
	breaker    *gobreaker.CircuitBreaker
	policy     retryutil.Policy
	logger     *telemetry.Logger
}

// New builds a Client from cfg.
func New(cfg Config, logger *telemetry.Logger) *Client {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 5
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "cerebras-llm",
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     45 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.WithContext(context.Background()).WithFields(logger.Fields(map[string]interface{}{
				"breaker": name, "from": from.String(), "to": to.String(),
			})).Warn("llm circuit breaker state change")
		},
	})

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    ratelimit.NewTokenBucket(cfg.RateLimitPerMinute, cfg.RateLimitPerMinute/4+1),
		breaker:    breaker,
		policy:     retryutil.Policy{MaxRetries: cfg.MaxRetries, BaseDelay: time.Second, MaxDelay: 30 * time.Second},
		logger:     logger,
	}
}

// Message is one chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Usage reports token accounting from the provider.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// CompletionResult is the normalized response shared by all three
// chat-style operations.
type CompletionResult struct {
	Content      string
	Usage        Usage
	Model        string
	FinishReason string
	ResponseTime time.Duration
	RequestID    string
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature"`
	Stream      bool      `json:"stream"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message      Message `json:"message"`
		FinishReason string  `json:"finish_reason"`
	} `json:"choices"`
	Usage Usage `json:"usage"`
}

// ChatCompletion issues a single chat-completion call.
func (c *Client) ChatCompletion(ctx context.Context, messages []Message, maxTokens int, temperature float64) (*CompletionResult, error) {
	if maxTokens <= 0 {
		maxTokens = c.cfg.MaxTokens
	}

	reqBody := chatRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		Stream:      false,
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, &domain.ClientError{Kind: domain.ErrKindOther, Message: "marshal request", Err: err}
	}

	var result *CompletionResult
	start := time.Now()

	err = retryutil.Do(ctx, c.policy, func(attempt int) error {
		if waitErr := c.limiter.Wait(ctx); waitErr != nil {
			return waitErr
		}

		execResult, breakerErr := c.breaker.Execute(func() (interface{}, error) {
			return c.post(ctx, payload)
		})
		if breakerErr != nil {
			if breakerErr == gobreaker.ErrOpenState {
				return &domain.ClientError{Kind: domain.ErrKindNetwork, Message: "llm circuit breaker open"}
			}
			return breakerErr
		}

		resp := execResult.(*chatResponse)
		content, finishReason := "", ""
		if len(resp.Choices) > 0 {
			content = resp.Choices[0].Message.Content
			finishReason = resp.Choices[0].FinishReason
		}
		result = &CompletionResult{
			Content:      content,
			Usage:        resp.Usage,
			Model:        resp.Model,
			FinishReason: finishReason,
			ResponseTime: time.Since(start),
			RequestID:    resp.ID,
		}
		return nil
	}, func(err error) (bool, time.Duration) {
		var ce *domain.ClientError
		if e, ok := err.(*domain.ClientError); ok {
			ce = e
		}
		if ce != nil && ce.Kind == domain.ErrKindAuthentication {
			return false, 0
		}
		return retryutil.ClassifyClientError(err)
	})

	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) post(ctx context.Context, payload []byte) (*chatResponse, error) {
	url := c.cfg.BaseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, &domain.ClientError{Kind: domain.ErrKindOther, Message: "build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, &domain.ClientError{Kind: domain.ErrKindTimeout, Message: "request timed out", Err: err}
		}
		return nil, &domain.ClientError{Kind: domain.ErrKindNetwork, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		snippet := string(body)
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		if ce := retryutil.ClassifyHTTPStatus(resp, snippet); ce != nil {
			return nil, ce
		}
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &domain.ClientError{Kind: domain.ErrKindOther, Message: fmt.Sprintf("decode response: %v", err)}
	}
	return &parsed, nil
}
