// Package trace writes and reads per-tick simulation traces as
// zstd-compressed JSON lines. The first line is a Header; every
// following line is one frame.
package trace

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

// Version is bumped whenever the frame layout changes.
const Version = 1

// Header describes the run a trace was recorded from.
type Header struct {
	Version    int     `json:"version"`
	Scenario   string  `json:"scenario"`
	Difficulty string  `json:"difficulty,omitempty"`
	Seed       int64   `json:"seed"`
	Step       float64 `json:"step_sec"`
}

// Writer appends JSON lines through a zstd encoder.
type Writer struct {
	f      io.Closer
	enc    *zstd.Encoder
	w      *bufio.Writer
	frames int
}

// Create opens path for writing and emits the header line.
func Create(path string, h Header) (*Writer, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("trace: cannot create directory %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("trace: cannot create %s: %w", path, err)
	}
	w, err := NewWriter(f, h)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	w.f = f
	return w, nil
}

// NewWriter wraps dst and emits the header line. Closing the Writer
// does not close dst.
func NewWriter(dst io.Writer, h Header) (*Writer, error) {
	enc, err := zstd.NewWriter(dst, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, fmt.Errorf("trace: cannot create encoder: %w", err)
	}
	if h.Version == 0 {
		h.Version = Version
	}
	w := &Writer{enc: enc, w: bufio.NewWriterSize(enc, 64*1024)}
	if err := w.line(h); err != nil {
		_ = enc.Close()
		return nil, err
	}
	return w, nil
}

// Write appends one frame.
func (w *Writer) Write(frame any) error {
	if err := w.line(frame); err != nil {
		return err
	}
	w.frames++
	return nil
}

// Frames returns how many frames were written.
func (w *Writer) Frames() int {
	return w.frames
}

func (w *Writer) line(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("trace: cannot encode line: %w", err)
	}
	if _, err := w.w.Write(b); err != nil {
		return fmt.Errorf("trace: write failed: %w", err)
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return fmt.Errorf("trace: write failed: %w", err)
	}
	return nil
}

// Close flushes the encoder and closes the file opened by Create.
func (w *Writer) Close() error {
	var errs []error
	if w.w != nil {
		errs = append(errs, w.w.Flush())
		w.w = nil
	}
	if w.enc != nil {
		errs = append(errs, w.enc.Close())
		w.enc = nil
	}
	if w.f != nil {
		errs = append(errs, w.f.Close())
		w.f = nil
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("trace: close failed: %w", err)
	}
	return nil
}

// Reader decodes a trace line by line.
type Reader struct {
	f      io.Closer
	dec    *zstd.Decoder
	sc     *bufio.Scanner
	header Header
}

// Open opens a trace file and reads its header.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("trace: cannot open %s: %w", path, err)
	}
	r, err := NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	r.f = f
	return r, nil
}

// NewReader wraps src and reads the header line.
func NewReader(src io.Reader) (*Reader, error) {
	dec, err := zstd.NewReader(src)
	if err != nil {
		return nil, fmt.Errorf("trace: cannot create decoder: %w", err)
	}
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)

	r := &Reader{dec: dec, sc: sc}
	if err := r.Next(&r.header); err != nil {
		dec.Close()
		if errors.Is(err, io.EOF) {
			return nil, errors.New("trace: missing header")
		}
		return nil, err
	}
	if r.header.Version != Version {
		dec.Close()
		return nil, fmt.Errorf("trace: unsupported version %d", r.header.Version)
	}
	return r, nil
}

// Header returns the trace header.
func (r *Reader) Header() Header {
	return r.header
}

// Next decodes the next line into v. It returns io.EOF after the last line.
func (r *Reader) Next(v any) error {
	if !r.sc.Scan() {
		if err := r.sc.Err(); err != nil {
			return fmt.Errorf("trace: read failed: %w", err)
		}
		return io.EOF
	}
	if err := json.Unmarshal(r.sc.Bytes(), v); err != nil {
		return fmt.Errorf("trace: bad line: %w", err)
	}
	return nil
}

// Close releases the decoder and the file opened by Open.
func (r *Reader) Close() error {
	r.dec.Close()
	if r.f != nil {
		return r.f.Close()
	}
	return nil
}
