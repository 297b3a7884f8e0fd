// Package ghostwriter defines the request/response types for ghostwriter IPC.
// Messages are JSON-encoded and sent over a Unix domain socket, one per line.
package ghostwriter

// Commands accepted by the daemon. Region commands carry the selected text in
// Text; Replace additionally carries the full document and the span the
// selection occupies within it.
const (
	// CommandPrompt sends Text to the model verbatim (free-form prompting).
	CommandPrompt = "prompt"
	// CommandFix asks the model to correct the selected code.
	CommandFix = "fix"
	// CommandExplain asks the model to explain the selected code.
	CommandExplain = "explain"
	// CommandTests asks the model to write tests for the selected code.
	CommandTests = "tests"
	// CommandRefactor asks the model to refactor the selected code.
	CommandRefactor = "refactor"
	// CommandRegion prompts with the selection plus a caller-supplied
	// instruction and routes the result to a display surface.
	CommandRegion = "region"
	// CommandReplace prompts with the selection and splices the result back
	// into the document in place of the original span.
	CommandReplace = "replace"
)

// Span identifies a half-open byte range [Start, End) within a document.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Request is sent from an editor client to the daemon.
type Request struct {
	// RequestID is a per-session incrementing identifier assigned by the
	// editor. The daemon echoes it back in the response for ordering.
	RequestID int `json:"request_id"`
	// Command selects the completion task (see the Command constants).
	Command string `json:"command"`
	// Text is the selected region, or the free-form prompt for CommandPrompt.
	Text string `json:"text"`
	// Document is the full buffer content. Required for CommandReplace.
	Document string `json:"document,omitempty"`
	// Span locates Text within Document. Required for CommandReplace.
	Span *Span `json:"span,omitempty"`
	// Instruction overrides the built-in instruction for the command.
	Instruction string `json:"instruction,omitempty"`
	// CommentMarker is the line-comment marker of the buffer's language
	// (e.g. "//", "#", ";;"). The instruction is appended behind it so the
	// model reads it as an embedded directive rather than code to transform.
	CommentMarker string `json:"comment_marker,omitempty"`
	// Surface names the display surface results are routed to. Empty means
	// the default shared surface.
	Surface string `json:"surface,omitempty"`
	// SessionID identifies the editor session.
	SessionID string `json:"session_id"`
	// Interactive is true when the request is a direct user action. Only
	// interactive requests may reveal a hidden display surface.
	Interactive bool `json:"interactive,omitempty"`
}

// Response is sent from the daemon back to the editor client.
type Response struct {
	// RequestID is echoed from the request for ordering on the client side.
	RequestID int `json:"request_id"`
	// Text is the generated completion, surrounding whitespace trimmed.
	Text string `json:"text"`
	// Document is the updated buffer content (CommandReplace only).
	Document string `json:"document,omitempty"`
	// Error is set when the daemon cannot fulfill the request.
	Error *Error `json:"error,omitempty"`
}

// Error codes returned to editor clients.
const (
	// ErrCodeNotConfigured means the API credential is missing.
	ErrCodeNotConfigured = "not_configured"
	// ErrCodeInvalidRequest means the request is malformed (unknown command,
	// empty text, span out of bounds).
	ErrCodeInvalidRequest = "invalid_request"
	// ErrCodeParse means the remote endpoint returned an unusable payload.
	ErrCodeParse = "parse_error"
	// ErrCodeTransport means the remote endpoint could not be reached.
	ErrCodeTransport = "transport_error"
)

// Error describes a daemon-side error returned to the editor client.
type Error struct {
	// Code is a machine-readable error identifier (see the ErrCode constants).
	Code string `json:"code"`
	// Message is a human-readable error description.
	Message string `json:"message"`
}

// ConfigRequest is sent from an editor client for configuration operations.
type ConfigRequest struct {
	// Action is the config operation: "get", "defaults", or
	// "default_instructions".
	Action string `json:"action"`
}

// ConfigResponse is sent from the daemon in response to a ConfigRequest.
type ConfigResponse struct {
	// Config is the current configuration (for "get" and "defaults").
	Config *Config `json:"config,omitempty"`
	// Instructions maps region commands to their built-in instruction text
	// (for "default_instructions").
	Instructions map[string]string `json:"instructions,omitempty"`
	// Error is set when the operation fails.
	Error *Error `json:"error,omitempty"`
}
