// Package scan splits an input stream into lines.
package scan

import (
	"bufio"
	"bytes"
	"io"
)

const defaultBufSize = 64 << 10

// LineReader reads newline-terminated lines of any length.
//
// The slice returned by Line is only valid until the next call to Next.
type LineReader struct {
	r       *bufio.Reader
	buf     bytes.Buffer
	line    []byte
	size    int
	n       int
	err     error
	done    bool
	stripCR bool
}

// Option configures a LineReader.
type Option func(*LineReader)

// WithStripCR also removes a '\r' that precedes the '\n' terminator.
func WithStripCR(on bool) Option {
	return func(l *LineReader) {
		l.stripCR = on
	}
}

// NewLineReader returns a LineReader over r.
func NewLineReader(r io.Reader, opts ...Option) *LineReader {
	l := &LineReader{r: bufio.NewReaderSize(r, defaultBufSize)}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Next advances to the next line. It returns false at end of input or on a
// read error; Err tells the two apart.
func (l *LineReader) Next() bool {
	if l.done {
		return false
	}
	l.buf.Reset()
	for {
		chunk, err := l.r.ReadSlice('\n')
		// chunk aliases the bufio buffer and must be copied out
		l.buf.Write(chunk)
		if err == bufio.ErrBufferFull {
			continue
		}
		if err == io.EOF {
			l.done = true
			if l.buf.Len() == 0 {
				return false
			}
			break
		}
		if err != nil {
			l.done = true
			l.err = err
			return false
		}
		break
	}

	line := l.buf.Bytes()
	l.size = len(line)
	if n := len(line); n > 0 && line[n-1] == '\n' {
		line = line[:n-1]
		if l.stripCR {
			if n := len(line); n > 0 && line[n-1] == '\r' {
				line = line[:n-1]
			}
		}
	}
	l.line = line
	l.n++
	return true
}

// Line returns the current line without its terminator.
func (l *LineReader) Line() []byte {
	return l.line
}

// Size returns the number of input bytes the current line occupied,
// including any terminator. A final line without '\n' counts no terminator.
func (l *LineReader) Size() int {
	return l.size
}

// Number returns the 1-based number of the current line.
func (l *LineReader) Number() int {
	return l.n
}

// Err returns the first read error other than io.EOF.
func (l *LineReader) Err() error {
	return l.err
}
