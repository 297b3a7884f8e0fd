package complete

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "test-key", "test-model", 16, 0)
}

// awaitResult dispatches one query and waits for its continuation.
func awaitResult(t *testing.T, c *Client, prompt string) Result {
	t.Helper()
	done := make(chan Result, 1)
	if err := c.Query(context.Background(), prompt, func(r Result) { done <- r }); err != nil {
		t.Fatalf("unexpected synchronous error: %v", err)
	}
	select {
	case r := <-done:
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("continuation never invoked")
		return Result{}
	}
}

func respondJSON(t *testing.T, body string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, body)
	}
}

func TestQueryTrimsCompletionText(t *testing.T) {
	c := newTestClient(t, respondJSON(t, `{"choices":[{"text":"  42  "}]}`))

	r := awaitResult(t, c, "meaning of life")
	if !r.Ok() {
		t.Fatalf("expected Ok, got %v", r.Err)
	}
	if r.Text != "42" {
		t.Errorf("expected trimmed %q, got %q", "42", r.Text)
	}
}

func TestQuerySendsExactWireFields(t *testing.T) {
	var got map[string]json.RawMessage
	var auth, contentType string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		contentType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &got)
		io.WriteString(w, `{"choices":[{"text":"ok"}]}`)
	})

	awaitResult(t, c, "hello")

	for _, field := range []string{"model", "prompt", "max_tokens", "temperature"} {
		if _, ok := got[field]; !ok {
			t.Errorf("expected %q field in request body, got %v", field, got)
		}
	}
	if string(got["model"]) != `"test-model"` {
		t.Errorf("expected model test-model, got %s", got["model"])
	}
	if string(got["max_tokens"]) != "16" {
		t.Errorf("expected max_tokens 16, got %s", got["max_tokens"])
	}
	if string(got["temperature"]) != "0" {
		t.Errorf("expected temperature 0, got %s", got["temperature"])
	}
	if auth != "Bearer test-key" {
		t.Errorf("expected Bearer auth, got %q", auth)
	}
	if contentType != "application/json" {
		t.Errorf("expected application/json, got %q", contentType)
	}
}

func TestQueryEmptyChoicesIsParsingError(t *testing.T) {
	c := newTestClient(t, respondJSON(t, `{"choices":[]}`))

	r := awaitResult(t, c, "p")
	if r.Ok() {
		t.Fatal("expected error for empty choices")
	}
	if r.Err.Kind != KindParsing {
		t.Errorf("expected KindParsing, got %v", r.Err.Kind)
	}
}

func TestQueryMissingChoicesIsParsingError(t *testing.T) {
	c := newTestClient(t, respondJSON(t, `{"id":"cmpl-1"}`))

	r := awaitResult(t, c, "p")
	if r.Ok() || r.Err.Kind != KindParsing {
		t.Errorf("expected KindParsing for missing choices, got %+v", r)
	}
}

func TestQueryNonStringTextIsParsingError(t *testing.T) {
	c := newTestClient(t, respondJSON(t, `{"choices":[{"text":123}]}`))

	r := awaitResult(t, c, "p")
	if r.Ok() || r.Err.Kind != KindParsing {
		t.Errorf("expected KindParsing for non-string text, got %+v", r)
	}
}

func TestQueryMalformedBodyIsParsingError(t *testing.T) {
	c := newTestClient(t, respondJSON(t, `{"choices":`))

	r := awaitResult(t, c, "p")
	if r.Ok() || r.Err.Kind != KindParsing {
		t.Errorf("expected KindParsing for malformed body, got %+v", r)
	}
}

func TestQueryErrorStatusIsParsingError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"invalid model"}}`, http.StatusBadRequest)
	})

	r := awaitResult(t, c, "p")
	if r.Ok() || r.Err.Kind != KindParsing {
		t.Errorf("expected KindParsing for error status, got %+v", r)
	}
}

func TestQueryConnectionFailureIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close() // nothing is listening anymore

	c := NewClient(url, "test-key", "test-model", 16, 0)
	r := awaitResult(t, c, "p")
	if r.Ok() || r.Err.Kind != KindTransport {
		t.Errorf("expected KindTransport for connection failure, got %+v", r)
	}
}

func TestQueryEmptyCredentialFailsFast(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, "", "test-model", 16, 0)

	invoked := make(chan struct{}, 1)
	err := c.Query(context.Background(), "p", func(Result) { invoked <- struct{}{} })
	if err == nil {
		t.Fatal("expected synchronous configuration error")
	}

	var cerr *Error
	if !errors.As(err, &cerr) || cerr.Kind != KindConfiguration {
		t.Errorf("expected KindConfiguration, got %v", err)
	}

	// No request sent, continuation never invoked.
	select {
	case <-invoked:
		t.Error("continuation must not run after a synchronous failure")
	case <-time.After(100 * time.Millisecond):
	}
	if calls.Load() != 0 {
		t.Errorf("expected no network call, got %d", calls.Load())
	}
}

func TestQueryErrorRetainsCause(t *testing.T) {
	c := newTestClient(t, respondJSON(t, `{"choices":[]}`))

	r := awaitResult(t, c, "p")
	if r.Ok() {
		t.Fatal("expected error")
	}
	if r.Err.Unwrap() == nil {
		t.Error("expected underlying cause to be retained")
	}
}

func TestQueryTwiceProducesTwoIndependentRequests(t *testing.T) {
	var calls atomic.Int64
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		io.WriteString(w, `{"choices":[{"text":"same"}]}`)
	})

	first := awaitResult(t, c, "identical prompt")
	second := awaitResult(t, c, "identical prompt")

	if calls.Load() != 2 {
		t.Errorf("expected 2 requests for identical prompts, got %d", calls.Load())
	}
	if first.Text != "same" || second.Text != "same" {
		t.Errorf("expected both deliveries, got %q and %q", first.Text, second.Text)
	}
}

func TestQueryDoesNotBlockCaller(t *testing.T) {
	// The server holds the response until released; dispatch must return
	// while the request is still in flight.
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
		io.WriteString(w, `{"choices":[{"text":"late"}]}`)
	})

	done := make(chan Result, 1)
	start := time.Now()
	if err := c.Query(context.Background(), "p", func(r Result) { done <- r }); err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("dispatch blocked for %v", elapsed)
	}
	select {
	case <-done:
		t.Fatal("continuation ran before the response was released")
	default:
	}

	close(release)
	select {
	case r := <-done:
		if r.Text != "late" {
			t.Errorf("expected %q, got %q", "late", r.Text)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("continuation never invoked")
	}
}

func TestQueryContinuationInvokedExactlyOnce(t *testing.T) {
	c := newTestClient(t, respondJSON(t, `{"choices":[{"text":"once"}]}`))

	var invocations atomic.Int64
	done := make(chan struct{}, 2)
	if err := c.Query(context.Background(), "p", func(Result) {
		invocations.Add(1)
		done <- struct{}{}
	}); err != nil {
		t.Fatal(err)
	}

	<-done
	// Allow any duplicate delivery to surface.
	time.Sleep(100 * time.Millisecond)
	if n := invocations.Load(); n != 1 {
		t.Errorf("expected exactly one invocation, got %d", n)
	}
}
