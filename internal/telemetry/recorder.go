// Package telemetry records flight data to disk and reads it back.
//
// A recording is one zstd stream holding a sequence of msgpack values: a
// header followed by one frame per recorded tick.
package telemetry

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
)

// FormatVersion is written into every header.
const FormatVersion = 1

var (
	// ErrClosed is returned when recording into a closed Writer.
	ErrClosed = errors.New("telemetry: recorder closed")
	// ErrUnsupported is returned for recordings of another format version.
	ErrUnsupported = errors.New("telemetry: unsupported recording version")
)

// Header identifies a recording.
type Header struct {
	Session uuid.UUID
	TickHz  float64
	Start   time.Time
}

type wireHeader struct {
	Version int       `msgpack:"version"`
	Session string    `msgpack:"session"`
	TickHz  float64   `msgpack:"tick_hz"`
	Start   time.Time `msgpack:"start"`
}

// Writer appends frames to a recording. It is not safe for concurrent use.
type Writer struct {
	file   io.Closer
	zw     *zstd.Encoder
	enc    *msgpack.Encoder
	frames int
	closed bool
}

// Create creates the file at path (and its directory) and writes the header.
func Create(path string, h Header) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create recording directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create recording: %w", err)
	}
	w, err := NewWriter(f, h)
	if err != nil {
		f.Close()
		return nil, err
	}
	w.file = f
	return w, nil
}

// NewWriter starts a recording on w and writes the header.
func NewWriter(w io.Writer, h Header) (*Writer, error) {
	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd writer: %w", err)
	}
	rec := &Writer{zw: zw, enc: msgpack.NewEncoder(zw)}

	wh := wireHeader{
		Version: FormatVersion,
		Session: h.Session.String(),
		TickHz:  h.TickHz,
		Start:   h.Start,
	}
	if err := rec.enc.Encode(&wh); err != nil {
		zw.Close()
		return nil, fmt.Errorf("failed to encode header: %w", err)
	}
	return rec, nil
}

// Record appends one frame.
func (w *Writer) Record(v any) error {
	if w.closed {
		return ErrClosed
	}
	if err := w.enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode frame %d: %w", w.frames, err)
	}
	w.frames++
	return nil
}

// Frames returns the number of frames recorded so far.
func (w *Writer) Frames() int { return w.frames }

// Close flushes the compressor and closes the underlying file, if any.
// Closing twice is a no-op.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	if err := w.zw.Close(); err != nil {
		if w.file != nil {
			w.file.Close()
		}
		return fmt.Errorf("failed to close zstd writer: %w", err)
	}
	if w.file != nil {
		if err := w.file.Close(); err != nil {
			return fmt.Errorf("failed to close recording: %w", err)
		}
	}
	return nil
}

// Reader reads a recording frame by frame.
type Reader struct {
	file   io.Closer
	zr     *zstd.Decoder
	dec    *msgpack.Decoder
	header Header
}

// Open opens the recording at path.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open recording: %w", err)
	}
	r, err := NewReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	r.file = f
	return r, nil
}

// NewReader reads and checks the header of the recording in r.
func NewReader(r io.Reader) (*Reader, error) {
	zr, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(0))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd reader: %w", err)
	}
	rd := &Reader{zr: zr, dec: msgpack.NewDecoder(zr)}

	var wh wireHeader
	if err := rd.dec.Decode(&wh); err != nil {
		zr.Close()
		return nil, fmt.Errorf("failed to decode header: %w", err)
	}
	if wh.Version != FormatVersion {
		zr.Close()
		return nil, fmt.Errorf("%w: %d", ErrUnsupported, wh.Version)
	}
	session, err := uuid.Parse(wh.Session)
	if err != nil {
		zr.Close()
		return nil, fmt.Errorf("failed to parse session id: %w", err)
	}
	rd.header = Header{Session: session, TickHz: wh.TickHz, Start: wh.Start}
	return rd, nil
}

// Header returns the recording header.
func (r *Reader) Header() Header { return r.header }

// Next decodes the next frame into v. It returns io.EOF after the last
// frame.
func (r *Reader) Next(v any) error {
	err := r.dec.Decode(v)
	if errors.Is(err, io.EOF) {
		return io.EOF
	}
	if err != nil {
		return fmt.Errorf("failed to decode frame: %w", err)
	}
	return nil
}

// Close releases the decoder and the underlying file, if any.
func (r *Reader) Close() error {
	r.zr.Close()
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}
