package complete

// ErrorKind classifies a failed completion.
type ErrorKind int

const (
	// KindConfiguration means the client is missing its API credential.
	// Raised synchronously, before any request is sent.
	KindConfiguration ErrorKind = iota
	// KindParsing means the remote endpoint answered, but the payload did
	// not match the expected shape (missing or empty choices, non-string
	// text, malformed body, non-2xx status).
	KindParsing
	// KindTransport means the remote endpoint could not be reached or the
	// response body could not be read.
	KindTransport
)

// String returns the wire-level error code for the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindConfiguration:
		return "not_configured"
	case KindParsing:
		return "parse_error"
	case KindTransport:
		return "transport_error"
	default:
		return "unknown"
	}
}

// Error is a classified completion failure. The underlying cause is retained
// for diagnostics rather than discarded at the decode boundary.
type Error struct {
	Kind  ErrorKind
	Cause error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Cause.Error()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Cause }

// Result is the outcome of a single query: either generated text or a
// classified error, never both.
type Result struct {
	// Text is the completion with surrounding whitespace trimmed. Only valid
	// when Err is nil.
	Text string
	// Err is set when the query failed.
	Err *Error
}

// Ok reports whether the result carries generated text.
func (r Result) Ok() bool { return r.Err == nil }

// Continuation consumes the outcome of a query. For every dispatched query
// the continuation is invoked exactly once, with exactly one of text or
// error populated.
type Continuation func(Result)
