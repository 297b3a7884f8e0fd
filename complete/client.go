package complete

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// DefaultMaxTokens is used when no token limit is configured.
const DefaultMaxTokens = 1024

// Client queries an OpenAI-compatible /v1/completions API.
//
// Query is fire-and-forget: dispatch never blocks the caller and the outcome
// is delivered asynchronously through a Continuation. Concurrent queries are
// independent and may complete in any order.
type Client struct {
	baseURL     string
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
	client      *http.Client
}

// NewClient creates a client from resolved configuration.
func NewClient(baseURL, apiKey, model string, maxTokens int, temperature float64) *Client {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &Client{
		baseURL:     baseURL,
		apiKey:      apiKey,
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		client:      &http.Client{Timeout: 60 * time.Second},
	}
}

type completionRequest struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
}

type completionResponse struct {
	Choices []completionChoice `json:"choices"`
	Error   *apiError          `json:"error,omitempty"`
}

type completionChoice struct {
	Text string `json:"text"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// Query sends prompt to the completion endpoint and invokes cont with the
// outcome once the response arrives. Dispatch returns immediately.
//
// A missing API key fails fast: Query returns a KindConfiguration *Error
// synchronously, no request is sent, and cont is never invoked. Once Query
// returns nil, cont is guaranteed to run exactly once.
func (c *Client) Query(ctx context.Context, prompt string, cont Continuation) error {
	if c.apiKey == "" {
		return &Error{Kind: KindConfiguration, Cause: fmt.Errorf("completion API key not configured")}
	}

	// deliver runs the continuation at most once.
	var once sync.Once
	deliver := func(r Result) {
		once.Do(func() { cont(r) })
	}

	go func() {
		deliver(c.do(ctx, prompt))
	}()

	return nil
}

// do performs the request and decode synchronously. All failures are caught
// here and reclassified; no raw error escapes past this boundary.
func (c *Client) do(ctx context.Context, prompt string) Result {
	reqBody := completionRequest{
		Model:       c.model,
		Prompt:      prompt,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}

	data, err := json.Marshal(reqBody)
	if err != nil {
		return Result{Err: &Error{Kind: KindParsing, Cause: err}}
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/completions", bytes.NewReader(data))
	if err != nil {
		return Result{Err: &Error{Kind: KindTransport, Cause: err}}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return Result{Err: &Error{Kind: KindTransport, Cause: err}}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{Err: &Error{Kind: KindTransport, Cause: err}}
	}

	if resp.StatusCode != 200 {
		return Result{Err: &Error{Kind: KindParsing, Cause: fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))}}
	}

	var result completionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return Result{Err: &Error{Kind: KindParsing, Cause: fmt.Errorf("failed to parse response: %w (body: %s)", err, string(body))}}
	}

	if result.Error != nil {
		return Result{Err: &Error{Kind: KindParsing, Cause: fmt.Errorf("API error: %s", result.Error.Message)}}
	}

	if len(result.Choices) == 0 {
		return Result{Err: &Error{Kind: KindParsing, Cause: fmt.Errorf("no choices in response")}}
	}

	return Result{Text: strings.TrimSpace(result.Choices[0].Text)}
}
