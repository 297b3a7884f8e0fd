package route

import (
	ghostwriter "github.com/greyskein/ghostwriter"
	"github.com/greyskein/ghostwriter/complete"
)

// Notifier is the environment's error-reporting channel. Failed completions
// are reported here instead of being written into a surface.
type Notifier interface {
	Error(err error)
}

// Display returns a continuation that routes a successful completion into a
// display surface: clear, repopulate, mark read-only, and — only for
// interactive requests — reveal the surface if it is not already visible.
// Programmatic callers never steal focus.
//
// The surface is resolved through lookup at delivery time; if it has been
// destroyed while the request was in flight the continuation no-ops.
func Display(lookup func() DisplaySurface, interactive bool, notify Notifier) complete.Continuation {
	return func(r complete.Result) {
		if !r.Ok() {
			notify.Error(r.Err)
			return
		}
		surface := lookup()
		if surface == nil {
			return
		}
		surface.SetText(r.Text)
		if interactive && !surface.Visible() {
			surface.Reveal()
		}
	}
}

// Replace returns a continuation that splices a successful completion into a
// source surface in place of span. On error nothing is written; the failure
// goes to notify. A nil lookup result means the surface is gone and the
// continuation no-ops.
func Replace(lookup func() SourceSurface, span ghostwriter.Span, notify Notifier) complete.Continuation {
	return func(r complete.Result) {
		if !r.Ok() {
			notify.Error(r.Err)
			return
		}
		surface := lookup()
		if surface == nil {
			return
		}
		if err := surface.ReplaceSpan(span, r.Text); err != nil {
			notify.Error(err)
		}
	}
}
