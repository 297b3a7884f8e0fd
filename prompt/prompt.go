// Package prompt builds the text payload sent to the completion endpoint.
package prompt

import (
	"log/slog"
	"os"

	"github.com/BurntSushi/toml"

	ghostwriter "github.com/greyskein/ghostwriter"
	defaults "github.com/greyskein/ghostwriter/default"
)

// Build combines the selected text with a task instruction.
//
// With an empty instruction the selection is the prompt verbatim. Otherwise
// the instruction is appended on its own line behind the buffer's line-comment
// marker, so the model reads it as an embedded directive rather than code to
// transform:
//
//	selection
//	// instruction
//
// The marker comes from the editing context and may be empty, in which case
// the instruction line is bare.
func Build(selection, instruction, marker string) string {
	if instruction == "" {
		return selection
	}
	if marker == "" {
		return selection + "\n" + instruction
	}
	return selection + "\n" + marker + " " + instruction
}

// Instructions maps region commands to their instruction text.
type Instructions map[string]string

// For returns the instruction for the given command, or "" when the command
// has none (free-form prompting).
func (ins Instructions) For(command string) string {
	return ins[command]
}

// DefaultInstructions returns the built-in instruction table from the
// embedded default_instructions.toml.
func DefaultInstructions() Instructions {
	var ins Instructions
	if err := toml.Unmarshal(defaults.DefaultInstructionsTOML, &ins); err != nil {
		panic("ghostwriter: invalid embedded default_instructions.toml: " + err.Error())
	}
	return ins
}

// LoadInstructions returns the instruction table with any user overrides from
// <config dir>/instructions.toml applied. Commands missing from the override
// file keep their built-in text.
func LoadInstructions() Instructions {
	ins := DefaultInstructions()

	path := ghostwriter.InstructionsPath()
	data, err := os.ReadFile(path)
	if err != nil {
		return ins
	}

	var custom Instructions
	if err := toml.Unmarshal(data, &custom); err != nil {
		slog.Warn("invalid custom instructions, using defaults", "path", path, "error", err)
		return ins
	}
	for command, text := range custom {
		if text != "" {
			ins[command] = text
		}
	}

	slog.Info("loaded custom instructions", "path", path)
	return ins
}
