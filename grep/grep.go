// Package grep searches files and streams line by line with a compiled
// pattern and prints the selected lines.
package grep

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/coregx/regrep"
	"github.com/coregx/regrep/internal/scan"
)

// StdinName is the display name of standard input.
const StdinName = "(standard input)"

// Searcher runs one pattern over many inputs. It is safe to call Run
// concurrently.
type Searcher struct {
	re   *regrep.Regex
	opts Options
	log  *zap.Logger
}

// New returns a Searcher for re. A nil logger disables logging.
func New(re *regrep.Regex, opts Options, logger *zap.Logger) *Searcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Stderr == nil {
		opts.Stderr = io.Discard
	}
	return &Searcher{re: re, opts: opts, log: logger}
}

// target is one input to search, or the error that replaced it.
type target struct {
	path string
	err  error
}

// result is the buffered outcome of searching one target.
type result struct {
	out bytes.Buffer
	sum Summary
	err error
}

// Run searches paths, or stdin when paths is empty, and writes the selected
// lines to out in argument order.
//
// Failures to open or read an input are reported on Options.Stderr and
// counted in Summary.Errors; they do not stop the run. The returned error is
// reserved for cancellation and output failures.
func (s *Searcher) Run(ctx context.Context, paths []string, stdin io.Reader, out io.Writer) (Summary, error) {
	if len(paths) == 0 {
		paths = []string{"-"}
	}
	targets := s.expand(paths)
	showName := s.showName(paths)

	// quiet runs cancel the remaining inputs after the first selected line
	parent := ctx
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	results := make([]result, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)
	for i, t := range targets {
		if t.err != nil {
			results[i].err = t.err
			continue
		}
		res := &results[i]
		g.Go(func() error {
			sum, err := s.searchPath(gctx, t.path, stdin, showName, &res.out)
			res.sum = sum
			res.err = err
			if s.opts.Quiet && sum.Matched > 0 {
				cancel()
			}
			return nil
		})
	}
	_ = g.Wait()

	var total Summary
	for i := range results {
		res := &results[i]
		total.add(res.sum)
		if res.err != nil && !errors.Is(res.err, context.Canceled) {
			total.Errors++
			s.log.Warn("skipping input", zap.String("path", targets[i].path), zap.Error(res.err))
			fmt.Fprintf(s.opts.Stderr, "regrep: %v\n", res.err)
		}
		if _, err := out.Write(res.out.Bytes()); err != nil {
			return total, errors.Wrap(err, "while writing output")
		}
	}

	s.log.Debug("search finished",
		zap.Int("files", total.Files),
		zap.String("lines", humanize.Comma(total.Lines)),
		zap.String("selected", humanize.Comma(total.Matched)),
		zap.String("read", humanize.Bytes(uint64(total.Bytes))),
		zap.Int("errors", total.Errors),
		zap.String("strategy", s.re.Strategy().String()),
	)

	if err := parent.Err(); err != nil {
		return total, err
	}
	return total, nil
}

// showName reports whether output lines carry the input name.
func (s *Searcher) showName(paths []string) bool {
	switch s.opts.WithFilename {
	case FilenameAlways:
		return true
	case FilenameNever:
		return false
	}
	return len(paths) > 1 || s.opts.Recursive
}

// expand turns the argument list into searchable inputs, walking
// directories when Recursive is set.
func (s *Searcher) expand(paths []string) []target {
	var targets []target
	for _, p := range paths {
		if p == "-" {
			targets = append(targets, target{path: p})
			continue
		}
		info, err := os.Stat(p)
		if err != nil {
			targets = append(targets, target{path: p, err: errors.Wrapf(err, "while reading %s", p)})
			continue
		}
		if !info.IsDir() {
			targets = append(targets, target{path: p})
			continue
		}
		if !s.opts.Recursive {
			targets = append(targets, target{path: p, err: errors.Errorf("%s: Is a directory", p)})
			continue
		}
		walkErr := filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				targets = append(targets, target{path: path, err: errors.Wrapf(err, "while walking %s", path)})
				return nil
			}
			if d.Type().IsRegular() {
				targets = append(targets, target{path: path})
			}
			return nil
		})
		if walkErr != nil {
			targets = append(targets, target{path: p, err: errors.Wrapf(walkErr, "while walking %s", p)})
		}
	}
	return targets
}

// searchPath opens one input and searches it.
func (s *Searcher) searchPath(ctx context.Context, path string, stdin io.Reader, showName bool, w *bytes.Buffer) (Summary, error) {
	if path == "-" {
		if stdin == nil {
			return Summary{}, errors.New("no standard input")
		}
		return s.search(ctx, StdinName, stdin, showName, w)
	}
	f, err := os.Open(path)
	if err != nil {
		return Summary{}, errors.Wrapf(err, "while opening %s", path)
	}
	defer func() {
		_ = f.Close()
	}()
	return s.search(ctx, path, f, showName, w)
}

// search scans r line by line and writes the selected lines to w.
func (s *Searcher) search(ctx context.Context, name string, r io.Reader, showName bool, w *bytes.Buffer) (Summary, error) {
	sum := Summary{Files: 1}
	lr := scan.NewLineReader(r, scan.WithStripCR(s.opts.StripCR))
	p := printer{w: w, color: s.opts.Color, lineNumbers: s.opts.LineNumbers}
	if showName {
		p.name = name
	}

	for lr.Next() {
		select {
		case <-ctx.Done():
			return sum, ctx.Err()
		default:
		}

		line := lr.Line()
		sum.Lines++
		sum.Bytes += int64(lr.Size())

		if s.re.Match(line) == s.opts.Invert {
			continue
		}
		sum.Matched++
		switch {
		case s.opts.Quiet:
			return sum, nil
		case s.opts.Count:
		case s.opts.OnlyMatching:
			if !s.opts.Invert {
				p.matches(lr.Number(), line, s.re.FindAllIndex(line, -1))
			}
		case s.opts.Color && !s.opts.Invert:
			p.line(lr.Number(), line, s.re.FindAllIndex(line, -1))
		default:
			p.line(lr.Number(), line, nil)
		}
	}
	if err := lr.Err(); err != nil {
		return sum, errors.Wrapf(err, "while reading %s", name)
	}
	if s.opts.Count && !s.opts.Quiet {
		p.count(sum.Matched)
	}
	return sum, nil
}
