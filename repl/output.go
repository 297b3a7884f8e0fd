package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	ghostwriter "github.com/greyskein/ghostwriter"
)

// termWriter wraps a file and converts \n to \r\n when the file is a terminal
// (needed because raw mode disables the kernel's NL→CRNL translation).
// When the file is redirected, \n passes through unchanged.
func termWriter(f *os.File) io.Writer {
	if term.IsTerminal(int(f.Fd())) {
		return &crlfWriter{w: f}
	}
	return f
}

type crlfWriter struct {
	w io.Writer
}

func (c *crlfWriter) Write(p []byte) (int, error) {
	replaced := bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))
	_, err := c.w.Write(replaced)
	return len(p), err // report original length to caller
}

// writeEntry writes a single TOML-formatted transcript entry to w.
func writeEntry(w io.Writer, input string, resp *ghostwriter.Response) {
	fmt.Fprintf(w, "# %s\n\n", strings.Repeat("═", 60))

	fmt.Fprintln(w, "[request]")
	fmt.Fprintf(w, "timestamp = %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(w, "prompt = %s\n", tomlQuote(input))
	fmt.Fprintln(w)

	if resp.Error != nil {
		fmt.Fprintln(w, "[error]")
		fmt.Fprintf(w, "code = %s\n", tomlQuote(resp.Error.Code))
		fmt.Fprintf(w, "message = %s\n", tomlQuote(resp.Error.Message))
		fmt.Fprintln(w)
		return
	}

	fmt.Fprintln(w, "[response]")
	fmt.Fprintf(w, "text = %s\n", tomlQuote(resp.Text))
	fmt.Fprintln(w)
}

// tomlQuote returns a TOML basic-string quoted value.
func tomlQuote(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return "\"" + s + "\""
}
