package grep

import (
	"io"
	"strings"

	"github.com/pkg/errors"
)

// FilenameMode decides when output lines carry the file name.
type FilenameMode int

const (
	// FilenameAuto prefixes names when more than one file may be searched.
	FilenameAuto FilenameMode = iota
	// FilenameAlways always prefixes names.
	FilenameAlways
	// FilenameNever never prefixes names.
	FilenameNever
)

func (m FilenameMode) String() string {
	switch m {
	case FilenameAuto:
		return "auto"
	case FilenameAlways:
		return "always"
	case FilenameNever:
		return "never"
	default:
		return "unknown"
	}
}

// ParseFilenameMode parses "auto", "always" or "never".
func ParseFilenameMode(s string) (FilenameMode, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return FilenameAuto, nil
	case "always":
		return FilenameAlways, nil
	case "never":
		return FilenameNever, nil
	}
	return FilenameAuto, errors.Errorf("invalid filename mode %q", s)
}

// Options control what a Searcher selects and prints.
type Options struct {
	// Invert selects lines that do not match.
	Invert bool
	// Count prints only the number of selected lines per file.
	Count bool
	// OnlyMatching prints each non-empty match on its own line.
	OnlyMatching bool
	// LineNumbers prefixes output with the 1-based line number.
	LineNumbers bool
	// WithFilename controls the file name prefix.
	WithFilename FilenameMode
	// Quiet suppresses output and stops at the first selected line.
	Quiet bool
	// Recursive descends into directories.
	Recursive bool
	// Color highlights matches with ANSI escapes.
	Color bool
	// Workers bounds the number of files searched at once. Values below 1
	// mean 1.
	Workers int
	// StripCR removes a '\r' before each line terminator.
	StripCR bool

	// Stderr receives per-file error messages. Nil discards them.
	Stderr io.Writer
}

// Summary describes a finished run.
type Summary struct {
	Files   int   // inputs searched
	Lines   int64 // lines read
	Matched int64 // lines selected
	Bytes   int64 // bytes read, terminators included
	Errors  int   // inputs that could not be searched
}

func (s *Summary) add(o Summary) {
	s.Files += o.Files
	s.Lines += o.Lines
	s.Matched += o.Matched
	s.Bytes += o.Bytes
	s.Errors += o.Errors
}
