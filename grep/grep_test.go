package grep

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/coregx/regrep"
)

func run(t *testing.T, pattern string, opts Options, paths []string, stdin string) (string, Summary) {
	t.Helper()
	s := New(regrep.MustCompile(pattern), opts, zaptest.NewLogger(t))
	var out bytes.Buffer
	sum, err := s.Run(context.Background(), paths, strings.NewReader(stdin), &out)
	require.NoError(t, err)
	return out.String(), sum
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunStdin(t *testing.T) {
	const input = "foo\nbar\nfood\n"
	tests := []struct {
		name    string
		pattern string
		opts    Options
		want    string
		matched int64
	}{
		{"plain", "foo", Options{}, "foo\nfood\n", 2},
		{"invert", "foo", Options{Invert: true}, "bar\n", 1},
		{"count", "foo", Options{Count: true}, "2\n", 2},
		{"count invert", "foo", Options{Count: true, Invert: true}, "1\n", 1},
		{"line numbers", "o+d", Options{LineNumbers: true}, "3:food\n", 1},
		{"only matching", "o+", Options{OnlyMatching: true}, "oo\noo\n", 2},
		{"always filename", "bar", Options{WithFilename: FilenameAlways}, StdinName + ":bar\n", 1},
		{"empty pattern", "", Options{}, input, 3},
		{"no match", "baz", Options{}, "", 0},
		{"anchored", "^f.*d$", Options{}, "food\n", 1},
		{"backreference", `(o)\1`, Options{}, "foo\nfood\n", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, sum := run(t, tt.pattern, tt.opts, nil, input)
			require.Equal(t, tt.want, out)
			require.Equal(t, tt.matched, sum.Matched)
			require.Equal(t, int64(3), sum.Lines)
			require.Equal(t, 1, sum.Files)
			require.Equal(t, int64(len(input)), sum.Bytes)
		})
	}
}

func TestRunColor(t *testing.T) {
	out, _ := run(t, "an", Options{Color: true}, nil, "banana\nkiwi\n")
	require.Equal(t, "b\x1b[01;31man\x1b[m\x1b[01;31man\x1b[ma\n", out)

	out, _ = run(t, "a*", Options{Color: true, OnlyMatching: true}, nil, "baac\n")
	require.Equal(t, "\x1b[01;31maa\x1b[m\n", out)

	// inverted lines have nothing to highlight
	out, _ = run(t, "an", Options{Color: true, Invert: true}, nil, "banana\nkiwi\n")
	require.Equal(t, "kiwi\n", out)
}

func TestRunOnlyMatchingSkipsEmpty(t *testing.T) {
	out, sum := run(t, "x*", Options{OnlyMatching: true}, nil, "abc\naxxb\n")
	require.Equal(t, "xx\n", out)
	require.Equal(t, int64(2), sum.Matched)
}

func TestRunBytesWithoutTrailingNewline(t *testing.T) {
	const input = "foo\r\nbar"
	_, sum := run(t, "bar", Options{StripCR: true}, nil, input)
	require.Equal(t, int64(len(input)), sum.Bytes)
	require.Equal(t, int64(2), sum.Lines)
}

func TestRunStripCR(t *testing.T) {
	out, _ := run(t, "b$", Options{StripCR: true}, nil, "ab\r\ncd\r\n")
	require.Equal(t, "ab\n", out)

	out, _ = run(t, "b$", Options{}, nil, "ab\r\ncd\r\n")
	require.Equal(t, "", out)
}

func TestRunFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "hello\nworld\n")
	b := writeFile(t, dir, "b.txt", "hello again\n")

	out, sum := run(t, "hello", Options{}, []string{a, b}, "")
	require.Equal(t, a+":hello\n"+b+":hello again\n", out)
	require.Equal(t, 2, sum.Files)
	require.Equal(t, int64(2), sum.Matched)

	out, _ = run(t, "hello", Options{WithFilename: FilenameNever}, []string{a, b}, "")
	require.Equal(t, "hello\nhello again\n", out)

	out, _ = run(t, "world", Options{}, []string{a}, "")
	require.Equal(t, "world\n", out)

	out, _ = run(t, "hello", Options{Count: true}, []string{a, b}, "")
	require.Equal(t, a+":1\n"+b+":1\n", out)
}

func TestRunDirectoryWithoutRecursive(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "hello\n")

	var stderr bytes.Buffer
	out, sum := run(t, "hello", Options{Stderr: &stderr}, []string{dir, a}, "")
	require.Equal(t, a+":hello\n", out)
	require.Equal(t, 1, sum.Errors)
	require.Equal(t, fmt.Sprintf("regrep: %s: Is a directory\n", dir), stderr.String())
}

func TestRunRecursive(t *testing.T) {
	dir := t.TempDir()
	x := writeFile(t, dir, "sub/x.txt", "needle one\n")
	y := writeFile(t, dir, "y.txt", "hay\nneedle two\n")

	out, sum := run(t, "needle", Options{Recursive: true, LineNumbers: true}, []string{dir}, "")
	require.Equal(t, x+":1:needle one\n"+y+":2:needle two\n", out)
	require.Equal(t, 2, sum.Files)
	require.Zero(t, sum.Errors)
}

func TestRunMissingFile(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "hello\n")
	missing := filepath.Join(dir, "missing.txt")

	var stderr bytes.Buffer
	out, sum := run(t, "hello", Options{Stderr: &stderr}, []string{missing, a}, "")
	require.Equal(t, a+":hello\n", out)
	require.Equal(t, 1, sum.Errors)
	require.Contains(t, stderr.String(), "missing.txt")
}

func TestRunQuiet(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i := 0; i < 5; i++ {
		paths = append(paths, writeFile(t, dir, fmt.Sprintf("f%d.txt", i), "x\nmatch\ny\n"))
	}
	out, sum := run(t, "match", Options{Quiet: true, Workers: 2}, paths, "")
	require.Empty(t, out)
	require.GreaterOrEqual(t, sum.Matched, int64(1))
	require.Zero(t, sum.Errors)
}

func TestRunWorkersKeepOrder(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	var want strings.Builder
	for i := 0; i < 20; i++ {
		content := strings.Repeat("filler line\n", i*50) + fmt.Sprintf("hit %d\n", i)
		p := writeFile(t, dir, fmt.Sprintf("f%02d.txt", i), content)
		paths = append(paths, p)
		fmt.Fprintf(&want, "%s:hit %d\n", p, i)
	}
	out, sum := run(t, `hit \d+`, Options{Workers: 8}, paths, "")
	require.Equal(t, want.String(), out)
	require.Equal(t, int64(20), sum.Matched)
}

func TestRunCancelled(t *testing.T) {
	s := New(regrep.MustCompile("a"), Options{}, zaptest.NewLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	_, err := s.Run(ctx, nil, strings.NewReader("a\na\n"), &out)
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, out.String())
}

func TestParseFilenameMode(t *testing.T) {
	for _, mode := range []FilenameMode{FilenameAuto, FilenameAlways, FilenameNever} {
		got, err := ParseFilenameMode(mode.String())
		require.NoError(t, err)
		require.Equal(t, mode, got)
	}
	_, err := ParseFilenameMode("sometimes")
	require.Error(t, err)
}
