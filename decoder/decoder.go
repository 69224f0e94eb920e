package decoder

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/tarmac-project/stlog"
	"github.com/tarmac-project/stlog/metadata"
	"github.com/tarmac-project/stlog/stream"
)

// HostDecoder is the contract a host-side tool implements to invert the
// encoding of one event.
type HostDecoder interface {
	Decode(level stlog.Level, ordinal uint8) (Line, error)
}

// Event is one captured ordinal with its out-of-band level.
type Event struct {
	Level   stlog.Level
	Ordinal uint8
}

// Line is a decoded event.
type Line struct {
	Level    stlog.Level
	Ordinal  uint8
	Text     string
	Location *metadata.Location
}

// String formats the line as "LEVEL text", followed by the location when known.
func (l Line) String() string {
	s := strings.ToUpper(l.Level.String()) + " " + l.Text
	if l.Location != nil {
		s += " (" + l.Location.String() + ")"
	}
	return s
}

// DecodeError reports an event that could not be decoded.
type DecodeError struct {
	Event Event
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s ordinal %d: %v", e.Event.Level, e.Event.Ordinal, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Result pairs a decoded line with its event-local error.
type Result struct {
	Line Line
	Err  error
}

// Decoder decodes events against the tables of one artifact.
type Decoder struct {
	tables metadata.Tables
}

var _ HostDecoder = (*Decoder)(nil)

// New returns a Decoder for tables.
func New(tables metadata.Tables) *Decoder {
	return &Decoder{tables: tables}
}

// Open loads the tables of the artifact at path. A .yaml or .yml path is read
// as a manifest; anything else is searched for a metadata region and, when it
// holds none, tried as a manifest.
func Open(path string) (*Decoder, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		t, err := metadata.ReadManifest(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		return New(t), nil
	}

	t, err := metadata.Find(data)
	if err == nil {
		return New(t), nil
	}
	if errors.Is(err, metadata.ErrNoRegion) {
		if mt, merr := metadata.ReadManifest(bytes.NewReader(data)); merr == nil {
			return New(mt), nil
		}
	}
	return nil, err
}

// Embedded returns a Decoder for the region retained by the running
// program, for programs that decode their own captures.
func Embedded() (*Decoder, error) {
	r := stlog.Region()
	if r == "" {
		return nil, fmt.Errorf("%w: %w", stlog.ErrArtifactMismatch, metadata.ErrNoRegion)
	}

	t, err := metadata.Parse([]byte(r))
	if err != nil {
		if errors.Is(err, stlog.ErrArtifactMismatch) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", stlog.ErrArtifactMismatch, err)
	}
	return New(t), nil
}

// Tables returns the tables the decoder works from.
func (d *Decoder) Tables() metadata.Tables { return d.tables }

// Decode returns the line for ordinal in level's table.
func (d *Decoder) Decode(level stlog.Level, ordinal uint8) (Line, error) {
	rec, err := d.tables.Lookup(level, ordinal)
	if err != nil {
		return Line{}, &DecodeError{Event: Event{Level: level, Ordinal: ordinal}, Err: err}
	}
	return Line{Level: level, Ordinal: ordinal, Text: rec.Text, Location: rec.Location}, nil
}

// Events decodes every event, in order. A failed event does not stop the
// ones after it.
func (d *Decoder) Events(events []Event) []Result {
	out := make([]Result, 0, len(events))
	for _, e := range events {
		line, err := d.Decode(e.Level, e.Ordinal)
		out = append(out, Result{Line: line, Err: err})
	}
	return out
}

// Stream decodes a capture of stream frames. Event errors are yielded and
// decoding continues; a truncated frame or a read error is yielded last.
func (d *Decoder) Stream(r io.Reader) iter.Seq2[Line, error] {
	return func(yield func(Line, error) bool) {
		for {
			level, ordinal, err := stream.ReadFrame(r)
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(Line{}, err)
				return
			}
			if !yield(d.Decode(level, ordinal)) {
				return
			}
		}
	}
}
