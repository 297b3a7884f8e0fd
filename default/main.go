// Package defaults provides embedded default assets (config and instruction table).
package defaults

import _ "embed"

//go:embed default_config.toml
var DefaultConfigTOML []byte

//go:embed default_instructions.toml
var DefaultInstructionsTOML []byte
