package pointcloud

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
)

// Writer appends points to a .XYZ and a .XYZRGB stream in lockstep: every
// Write emits exactly one line to each, in call order.
type Writer struct {
	xyz    *bufio.Writer
	xyzrgb *bufio.Writer

	closers []io.Closer
	count   int64
	bytes   int64
	closed  bool
}

// NewWriter wraps two destination streams. Close flushes them but does not
// close them.
func NewWriter(xyz, xyzrgb io.Writer) *Writer {
	return &Writer{
		xyz:    bufio.NewWriter(xyz),
		xyzrgb: bufio.NewWriter(xyzrgb),
	}
}

// Create creates (or truncates) <base>.XYZ and <base>.XYZRGB. The files are
// owned by the Writer and released by Close.
func Create(base string) (*Writer, error) {
	xyzPath, rgbPath := Paths(base)

	xyz, err := os.Create(xyzPath)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", xyzPath, err)
	}

	rgb, err := os.Create(rgbPath)
	if err != nil {
		_ = xyz.Close()
		return nil, fmt.Errorf("creating %s: %w", rgbPath, err)
	}

	w := NewWriter(xyz, rgb)
	w.closers = []io.Closer{xyz, rgb}
	return w, nil
}

// Write appends p to both streams
func (w *Writer) Write(p Point) error {
	if w.closed {
		return errors.New("write on closed point writer")
	}

	n, err := w.xyz.WriteString(XYZLine(p) + "\n")
	w.bytes += int64(n)
	if err != nil {
		return fmt.Errorf("writing %s line: %w", ExtXYZ, err)
	}

	n, err = w.xyzrgb.WriteString(XYZRGBLine(p) + "\n")
	w.bytes += int64(n)
	if err != nil {
		return fmt.Errorf("writing %s line: %w", ExtXYZRGB, err)
	}

	w.count++
	return nil
}

// Count is the number of points written
func (w *Writer) Count() int64 {
	return w.count
}

// Bytes is the number of bytes written across both streams
func (w *Writer) Bytes() int64 {
	return w.bytes
}

// Close flushes both streams and closes the files opened by Create. Every
// step runs even if an earlier one fails; the first error is returned.
func (w *Writer) Close() (err error) {
	if w.closed {
		return nil
	}
	w.closed = true

	if fErr := w.xyz.Flush(); fErr != nil && err == nil {
		err = fmt.Errorf("flushing %s: %w", ExtXYZ, fErr)
	}
	if fErr := w.xyzrgb.Flush(); fErr != nil && err == nil {
		err = fmt.Errorf("flushing %s: %w", ExtXYZRGB, fErr)
	}
	for _, c := range w.closers {
		closeWithError(c, &err)
	}
	return err
}

func closeWithError(cl io.Closer, err *error) {
	if cErr := cl.Close(); cErr != nil && *err == nil {
		*err = cErr
	}
}
