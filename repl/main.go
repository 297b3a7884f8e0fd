// Command ghostwriter-repl is an interactive client for free-form prompting.
// It sends each line to the completion API through the same engine the daemon
// uses and writes a structured TOML transcript to stdout.
//
// Usage:
//
//	./ghostwriter-repl                  # interactive, transcript on screen
//	./ghostwriter-repl > log.toml       # prompt on screen, transcript to file
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"

	ghostwriter "github.com/greyskein/ghostwriter"
	"github.com/greyskein/ghostwriter/engine"
)

const promptString = "> "

func main() {
	godotenv.Load(ghostwriter.EnvPath())

	editor, err := NewEditor()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer editor.Close()

	tty := editor.Tty()

	fmt.Fprintf(tty, "\033[2J\033[H") // clear screen
	fmt.Fprintf(tty, "ghostwriter repl\r\n")
	fmt.Fprintf(tty, "\r\ncommands:\r\n")
	fmt.Fprintf(tty, "  :quit  exit\r\n\r\n")

	eng := engine.NewEngine()
	defer eng.Close()

	// stdout writer: converts \n → \r\n when stdout is a terminal (raw mode),
	// passes \n through unchanged when redirected to a file.
	out := termWriter(os.Stdout)

	reqID := 0

	for {
		text, err := editor.ReadLine(promptString)
		if err == io.EOF || err == ErrInterrupt {
			break
		}
		if err != nil {
			fmt.Fprintf(tty, "read error: %v\r\n", err)
			break
		}

		if text == "" {
			continue
		}

		if text == ":quit" || text == ":q" {
			break
		}

		reqID++
		req := &ghostwriter.Request{
			RequestID:   reqID,
			Command:     ghostwriter.CommandPrompt,
			Text:        text,
			SessionID:   "repl",
			Interactive: true,
		}

		resp := eng.Complete(context.Background(), req)

		// Show the outcome on the tty.
		if resp.Error != nil {
			fmt.Fprintf(tty, "error [%s]: %s\r\n", resp.Error.Code, resp.Error.Message)
		} else if resp.Text == "" {
			fmt.Fprintf(tty, "(empty completion)\r\n")
		} else {
			for _, line := range strings.Split(resp.Text, "\n") {
				fmt.Fprintf(tty, "  %s\r\n", line)
			}
		}
		fmt.Fprintf(tty, "\r\n")

		// TOML transcript to stdout (termWriter handles raw mode).
		writeEntry(out, text, resp)
	}
}
