// Package engine orchestrates prompt construction, completion queries, and
// result routing for editor requests.
package engine

import (
	"context"
	"log/slog"
	"time"

	ghostwriter "github.com/greyskein/ghostwriter"
	"github.com/greyskein/ghostwriter/complete"
	"github.com/greyskein/ghostwriter/prompt"
	"github.com/greyskein/ghostwriter/route"
)

// Engine turns one editor request into one completion query and routes the
// outcome. It holds the shared display surfaces; source buffers live only for
// the duration of a replace request.
type Engine struct {
	client       *complete.Client // nil when no API key is configured
	instructions prompt.Instructions
	surfaces     *route.Registry
	config       *ghostwriter.Config
}

// NewEngine creates an engine from the on-disk configuration.
func NewEngine() *Engine {
	cfg, err := ghostwriter.LoadConfig()
	if err != nil {
		slog.Warn("failed to load config, using defaults", "error", err)
		cfg = ghostwriter.DefaultConfig()
	}

	var client *complete.Client
	apiKey := ghostwriter.ResolveAPIKey(cfg)
	if apiKey != "" {
		client = complete.NewClient(
			ghostwriter.ResolveBaseURL(cfg),
			apiKey,
			ghostwriter.ResolveModel(cfg),
			cfg.Completion.MaxTokens,
			cfg.Completion.Temperature,
		)
	} else {
		slog.Warn("completion API key not configured")
	}

	return &Engine{
		client:       client,
		instructions: prompt.LoadInstructions(),
		surfaces:     route.NewRegistry(time.Duration(cfg.Surfaces.TTLMinutes) * time.Minute),
		config:       cfg,
	}
}

// NewEngineWithClient creates an engine with explicit collaborators.
func NewEngineWithClient(client *complete.Client, cfg *ghostwriter.Config) *Engine {
	ttl := cfg.Surfaces.TTLMinutes
	if ttl <= 0 {
		ttl = ghostwriter.DefaultConfig().Surfaces.TTLMinutes
	}
	return &Engine{
		client:       client,
		instructions: prompt.DefaultInstructions(),
		surfaces:     route.NewRegistry(time.Duration(ttl) * time.Minute),
		config:       cfg,
	}
}

// Config returns the engine's loaded configuration.
func (e *Engine) Config() *ghostwriter.Config {
	return e.config
}

// Surface returns the named display surface, or nil if it does not exist.
func (e *Engine) Surface(name string) *route.Scratch {
	return e.surfaces.Lookup(name)
}

// Close releases resources held by the engine.
func (e *Engine) Close() {
	if e.surfaces != nil {
		e.surfaces.Close()
	}
}

// slogNotifier reports routing errors to the log, the daemon's standard
// error channel.
type slogNotifier struct{}

func (slogNotifier) Error(err error) {
	slog.Error("completion error", "error", err)
}

// Complete processes one editor request and returns its response. The
// underlying query is dispatched asynchronously; Complete waits for the
// delivery of that single request only and never serializes independent
// callers.
func (e *Engine) Complete(ctx context.Context, req *ghostwriter.Request) *ghostwriter.Response {
	if e.client == nil {
		return &ghostwriter.Response{
			Error: &ghostwriter.Error{
				Code:    ghostwriter.ErrCodeNotConfigured,
				Message: "completion API key not configured; set GHOSTWRITER_API_KEY or edit " + ghostwriter.ConfigPath(),
			},
		}
	}

	if errResp := validate(req); errResp != nil {
		return errResp
	}

	p := prompt.Build(req.Text, e.instruction(req), req.CommentMarker)

	var (
		router complete.Continuation
		buffer *route.Buffer
	)
	switch req.Command {
	case ghostwriter.CommandReplace:
		buffer = route.NewBuffer(req.Document)
		lookup := func() route.SourceSurface { return buffer }
		router = route.Replace(lookup, *req.Span, slogNotifier{})
	default:
		name := req.Surface
		e.surfaces.Acquire(name)
		lookup := func() route.DisplaySurface {
			// Resolved at delivery time: the surface may have expired
			// while the request was in flight.
			if s := e.surfaces.Lookup(name); s != nil {
				return s
			}
			return nil
		}
		router = route.Display(lookup, req.Interactive, slogNotifier{})
	}

	done := make(chan complete.Result, 1)
	cont := func(r complete.Result) {
		router(r)
		done <- r
	}

	if err := e.client.Query(ctx, p, cont); err != nil {
		// Fast-fail configuration error: nothing was dispatched.
		return &ghostwriter.Response{
			Error: &ghostwriter.Error{Code: ghostwriter.ErrCodeNotConfigured, Message: err.Error()},
		}
	}

	result := <-done

	if !result.Ok() {
		return &ghostwriter.Response{
			Error: &ghostwriter.Error{Code: result.Err.Kind.String(), Message: result.Err.Error()},
		}
	}

	resp := &ghostwriter.Response{Text: result.Text}
	if buffer != nil {
		resp.Document = buffer.Document()
	}
	return resp
}

// instruction resolves the instruction for a request. An explicit override
// wins, then the built-in table. CommandPrompt and CommandRegion without an
// override send the text verbatim.
func (e *Engine) instruction(req *ghostwriter.Request) string {
	if req.Instruction != "" {
		return req.Instruction
	}
	if req.Command == ghostwriter.CommandRegion {
		return ""
	}
	return e.instructions.For(req.Command)
}

func validate(req *ghostwriter.Request) *ghostwriter.Response {
	invalid := func(msg string) *ghostwriter.Response {
		return &ghostwriter.Response{
			Error: &ghostwriter.Error{Code: ghostwriter.ErrCodeInvalidRequest, Message: msg},
		}
	}

	switch req.Command {
	case ghostwriter.CommandPrompt, ghostwriter.CommandFix, ghostwriter.CommandExplain,
		ghostwriter.CommandTests, ghostwriter.CommandRefactor, ghostwriter.CommandRegion:
	case ghostwriter.CommandReplace:
		if req.Span == nil {
			return invalid("replace requires a span")
		}
		if req.Span.Start < 0 || req.Span.End < req.Span.Start || req.Span.End > len(req.Document) {
			return invalid("span out of bounds")
		}
	default:
		return invalid("unknown command: " + req.Command)
	}

	if req.Text == "" {
		return invalid("text is required")
	}
	return nil
}
