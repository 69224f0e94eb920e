package decoder

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/tarmac-project/stlog"
	"github.com/tarmac-project/stlog/metadata"
	"github.com/tarmac-project/stlog/registrar"
	"github.com/tarmac-project/stlog/stream"
)

// tables registers an error table ["disk-full", "timeout"] and an info table ["Hello!"].
func tables(t *testing.T) metadata.Tables {
	t.Helper()

	r := registrar.New(registrar.Config{Locations: true})
	sites := []struct {
		level stlog.Level
		text  string
	}{
		{stlog.LevelError, "disk-full"},
		{stlog.LevelError, "timeout"},
		{stlog.LevelInfo, "Hello!"},
	}
	for i, s := range sites {
		if _, err := r.Register(s.level, s.text, metadata.Location{File: "main.go", Line: i + 1}); err != nil {
			t.Fatalf("Register returned error: %v", err)
		}
	}
	return r.Tables()
}

func TestDecodeScenario(t *testing.T) {
	t.Parallel()

	// The device logs "timeout" through a framed transport...
	const (
		diskFull stlog.ErrorSite = iota // disk-full
		timeout                         // timeout
	)
	var capture bytes.Buffer
	if err := stlog.Error(stream.NewFramed(&capture), timeout); err != nil {
		t.Fatalf("Error returned error: %v", err)
	}
	if got := capture.Bytes()[1]; got != 1 {
		t.Fatalf("expected ordinal 1 on the wire, got %d", got)
	}

	// ...and the host reads it back.
	d := New(tables(t))
	line, err := d.Decode(stlog.LevelError, 1)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if line.Text != "timeout" {
		t.Fatalf("expected timeout, got %q", line.Text)
	}
	if line.String() != "ERROR timeout (main.go:2)" {
		t.Fatalf("unexpected line %q", line.String())
	}
}

func TestDecodeErrors(t *testing.T) {
	t.Parallel()

	d := New(tables(t))

	tt := []struct {
		name    string
		level   stlog.Level
		ordinal uint8
		wantErr error
	}{
		{"Out of range", stlog.LevelError, 2, stlog.ErrOrdinalOutOfRange},
		{"Empty table", stlog.LevelWarn, 0, stlog.ErrOrdinalOutOfRange},
		{"Unknown level", stlog.Level(9), 0, stlog.ErrLevelTableMissing},
		{"Off has no table", stlog.LevelOff, 0, stlog.ErrLevelTableMissing},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := d.Decode(tc.level, tc.ordinal)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			var de *DecodeError
			if !errors.As(err, &de) {
				t.Fatalf("expected *DecodeError, got %T", err)
			}
			if de.Event.Level != tc.level || de.Event.Ordinal != tc.ordinal {
				t.Fatalf("expected event %s/%d, got %+v", tc.level, tc.ordinal, de.Event)
			}
		})
	}
}

func TestEventsContinueAfterError(t *testing.T) {
	t.Parallel()

	d := New(tables(t))
	results := d.Events([]Event{
		{Level: stlog.LevelError, Ordinal: 200},
		{Level: stlog.LevelInfo, Ordinal: 0},
	})

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if !errors.Is(results[0].Err, stlog.ErrOrdinalOutOfRange) {
		t.Fatalf("expected first event to fail with ErrOrdinalOutOfRange, got %v", results[0].Err)
	}
	if results[1].Err != nil || results[1].Line.Text != "Hello!" {
		t.Fatalf("expected second event to decode to Hello!, got %+v", results[1])
	}
}

func TestStream(t *testing.T) {
	t.Parallel()

	d := New(tables(t))

	var capture []byte
	capture = stream.AppendFrame(capture, stlog.LevelError, 7)
	capture = stream.AppendFrame(capture, stlog.LevelError, 0)
	capture = stream.AppendFrame(capture, stlog.LevelInfo, 0)
	capture = append(capture, byte(stlog.LevelInfo))

	var (
		texts []string
		errs  []error
	)
	for line, err := range d.Stream(bytes.NewReader(capture)) {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		texts = append(texts, line.Text)
	}

	if len(texts) != 2 || texts[0] != "disk-full" || texts[1] != "Hello!" {
		t.Fatalf("expected [disk-full Hello!], got %v", texts)
	}
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %v", errs)
	}
	if !errors.Is(errs[0], stlog.ErrOrdinalOutOfRange) {
		t.Fatalf("expected ErrOrdinalOutOfRange first, got %v", errs[0])
	}
	if !errors.Is(errs[1], stream.ErrTruncatedFrame) {
		t.Fatalf("expected ErrTruncatedFrame last, got %v", errs[1])
	}
}

func TestOpen(t *testing.T) {
	t.Parallel()

	want := tables(t)
	dir := t.TempDir()

	artifact := filepath.Join(dir, "firmware.wasm")
	image := append([]byte("\x00asm\x01\x00\x00\x00"), metadata.Encode(want)...)
	if err := os.WriteFile(artifact, image, 0o644); err != nil {
		t.Fatalf("failed to write artifact: %v", err)
	}

	var manifest bytes.Buffer
	if err := metadata.WriteManifest(&manifest, want); err != nil {
		t.Fatalf("WriteManifest returned error: %v", err)
	}
	sidecar := filepath.Join(dir, "firmware.stlog.yaml")
	if err := os.WriteFile(sidecar, manifest.Bytes(), 0o644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}

	empty := filepath.Join(dir, "empty.bin")
	if err := os.WriteFile(empty, []byte{0x7f, 'E', 'L', 'F'}, 0o644); err != nil {
		t.Fatalf("failed to write artifact: %v", err)
	}

	tt := []struct {
		name    string
		path    string
		wantErr error
	}{
		{"Artifact", artifact, nil},
		{"Manifest", sidecar, nil},
		{"No metadata", empty, stlog.ErrArtifactMismatch},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			d, err := Open(tc.path)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected error %v, got %v", tc.wantErr, err)
			}
			if err != nil {
				return
			}
			if d.Tables().Fingerprint != want.Fingerprint {
				t.Fatalf("expected fingerprint %016x, got %016x", want.Fingerprint, d.Tables().Fingerprint)
			}
			line, err := d.Decode(stlog.LevelError, 1)
			if err != nil || line.Text != "timeout" {
				t.Fatalf("expected timeout, got %q (%v)", line.Text, err)
			}
		})
	}
}

func TestEmbedded(t *testing.T) {
	if stlog.Region() == "" {
		_, err := Embedded()
		if !errors.Is(err, stlog.ErrArtifactMismatch) || !errors.Is(err, metadata.ErrNoRegion) {
			t.Errorf("Expected a missing region error, got %v", err)
		}
	}

	want := tables(t)
	stlog.Retain(string(metadata.Encode(want)))

	d, err := Embedded()
	if err != nil {
		t.Fatalf("Unexpected error - %s", err)
	}
	if d.Tables().Fingerprint != want.Fingerprint {
		t.Errorf("Expected fingerprint %016x, got %016x", want.Fingerprint, d.Tables().Fingerprint)
	}

	line, err := d.Decode(stlog.LevelError, 1)
	if err != nil || line.Text != "timeout" {
		t.Errorf("Expected timeout, got %+v, %v", line, err)
	}
}
