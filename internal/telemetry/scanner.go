package telemetry

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

const (
	// maxLineSize bounds a single log line. Longer lines are dropped as
	// malformed and reading resumes after their newline.
	maxLineSize = 1024 * 1024

	readBufferSize = 64 * 1024
)

// ScanStats counts what a Scanner has seen so far
type ScanStats struct {
	Lines      int64 // Lines read
	Accepted   int64 // Fix sentences returned by Next
	Ignored    int64 // Lines that are not fix sentences
	FieldCount int64 // Fix sentences dropped for a wrong field count
	InvalidFix int64 // Fix sentences dropped for fix quality
	Malformed  int64 // Fix sentences dropped for unparseable fields
}

// Skipped is the number of fix sentences that were dropped
func (s ScanStats) Skipped() int64 {
	return s.FieldCount + s.InvalidFix + s.Malformed
}

// WithRejectHook registers a callback for every line that does not yield a
// fix, with its 1-based line number and the reason.
func WithRejectHook(fn func(lineNo int64, err error)) func(*Scanner) {
	return func(s *Scanner) {
		s.onReject = fn
	}
}

// Scanner streams accepted fixes out of a payload log, in input order. Lines
// that do not yield a fix are skipped silently; only read errors stop it.
type Scanner struct {
	reader   *bufio.Reader
	line     []byte
	current  *Fix
	stats    ScanStats
	onReject func(lineNo int64, err error)
	err      error
}

// NewScanner creates a Scanner reading from r
func NewScanner(r io.Reader, options ...func(*Scanner)) *Scanner {
	s := Scanner{reader: bufio.NewReaderSize(r, readBufferSize)}
	for _, option := range options {
		option(&s)
	}
	return &s
}

// Next advances to the next accepted fix. It returns false at the end of the
// input or on a read error, see Err.
func (s *Scanner) Next() bool {
	s.current = nil
	if s.err != nil {
		return false
	}

	for {
		line, tooLong, err := s.readLine()
		if err == io.EOF {
			return false
		}
		if err != nil {
			s.err = fmt.Errorf("reading line %d: %w", s.stats.Lines+1, err)
			return false
		}
		s.stats.Lines++

		if tooLong {
			s.reject(fmt.Errorf("%w: line longer than %d bytes", ErrMalformedField, maxLineSize))
			continue
		}

		fix, err := ParseFix(string(line))
		if err != nil {
			s.reject(err)
			continue
		}

		s.stats.Accepted++
		s.current = fix
		return true
	}
}

// readLine returns the next line including its newline. The content of a
// line over maxLineSize is discarded and only reported through tooLong. A
// final line without a newline is returned before io.EOF.
func (s *Scanner) readLine() (line []byte, tooLong bool, err error) {
	s.line = s.line[:0]
	for {
		frag, readErr := s.reader.ReadSlice('\n')
		if !tooLong {
			if len(s.line)+len(frag) > maxLineSize {
				tooLong = true
				s.line = s.line[:0]
			} else {
				s.line = append(s.line, frag...)
			}
		}

		switch {
		case errors.Is(readErr, bufio.ErrBufferFull):
			continue
		case readErr == io.EOF:
			if len(s.line) == 0 && !tooLong {
				return nil, false, io.EOF
			}
			return s.line, tooLong, nil
		case readErr != nil:
			return nil, false, readErr
		}
		return s.line, tooLong, nil
	}
}

func (s *Scanner) reject(err error) {
	switch {
	case errors.Is(err, ErrNotFixSentence):
		s.stats.Ignored++
	case errors.Is(err, ErrFieldCount):
		s.stats.FieldCount++
	case errors.Is(err, ErrInvalidFix):
		s.stats.InvalidFix++
	default:
		s.stats.Malformed++
	}

	if s.onReject != nil {
		s.onReject(s.stats.Lines, err)
	}
}

// Current returns the fix found by the last call to Next
func (s *Scanner) Current() *Fix {
	return s.current
}

// Err returns the read error that stopped the scanner, if any
func (s *Scanner) Err() error {
	return s.err
}

// Stats returns the counters accumulated so far
func (s *Scanner) Stats() ScanStats {
	return s.stats
}
