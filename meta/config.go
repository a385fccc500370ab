// Package meta implements the engine facade that compiles a pattern and
// selects how to search for it.
//
// The facade coordinates three pieces:
//   - Prefilter: literal-based candidate finding (optional)
//   - First-byte set: skips offsets where no match can begin (optional)
//   - Backtracker: the matcher that confirms and extracts every match
//
// Strategy selection is based on:
//   - Start anchoring (a single attempt at offset 0)
//   - Literal quality (good prefixes enable fast filtering)
//   - First-byte set size (small sets are cheap to scan for)
//
// Optimisations never change results; they only decide where the
// backtracker is tried.
package meta

import "github.com/coregx/regrep/literal"

// Config controls engine behavior and performance characteristics.
//
// Example:
//
//	config := meta.DefaultConfig()
//	config.EnablePrefilter = false // try the backtracker at every offset
//	engine, err := meta.CompileWithConfig(`\d+`, config)
type Config struct {
	// EnablePrefilter enables literal-based prefiltering.
	// When false, no prefilter is used even if literals are available.
	// Default: true
	EnablePrefilter bool

	// EnableRequiredLiteral rejects a haystack early when it does not
	// contain a literal every match must contain.
	// Default: true
	EnableRequiredLiteral bool

	// EnableFirstByte enables first-byte skipping when no prefilter applies.
	// Default: true
	EnableFirstByte bool

	// MaxLiterals limits the number of prefix literals extracted.
	// Default: 64
	MaxLiterals int

	// MaxLiteralLen limits the length of a single extracted literal.
	// Default: 64
	MaxLiteralLen int

	// MaxClassSize is the largest character class expanded into literals.
	// Zero disables class expansion.
	// Default: 10
	MaxClassSize int
}

// DefaultConfig returns a configuration with every optimisation enabled.
func DefaultConfig() Config {
	lc := literal.DefaultConfig()
	return Config{
		EnablePrefilter:       true,
		EnableRequiredLiteral: true,
		EnableFirstByte:       true,
		MaxLiterals:           lc.MaxLiterals,
		MaxLiteralLen:         lc.MaxLiteralLen,
		MaxClassSize:          lc.MaxClassSize,
	}
}

// Validate checks if the configuration is valid.
// Returns an error if any parameter is out of range.
//
// Valid ranges:
//   - MaxLiterals: 1 to 1,000
//   - MaxLiteralLen: 1 to 256
//   - MaxClassSize: 0 to 256
func (c Config) Validate() error {
	if c.MaxLiterals < 1 || c.MaxLiterals > 1_000 {
		return &ConfigError{
			Field:   "MaxLiterals",
			Message: "must be between 1 and 1,000",
		}
	}

	if c.MaxLiteralLen < 1 || c.MaxLiteralLen > 256 {
		return &ConfigError{
			Field:   "MaxLiteralLen",
			Message: "must be between 1 and 256",
		}
	}

	if c.MaxClassSize < 0 || c.MaxClassSize > 256 {
		return &ConfigError{
			Field:   "MaxClassSize",
			Message: "must be between 0 and 256",
		}
	}

	return nil
}

func (c Config) extractorConfig() literal.ExtractorConfig {
	return literal.ExtractorConfig{
		MaxLiterals:   c.MaxLiterals,
		MaxLiteralLen: c.MaxLiteralLen,
		MaxClassSize:  c.MaxClassSize,
	}
}

// ConfigError represents an invalid configuration parameter.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "regexp: invalid config: " + e.Field + ": " + e.Message
}
