package metadata

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/tarmac-project/stlog"
)

// sample returns tables with an error table of two records, an info table
// of one record and an empty warn table. Debug and trace have no table.
func sample(locations bool) Tables {
	t := Tables{Locations: locations, Levels: map[stlog.Level]Table{}}

	errs := Table{Level: stlog.LevelError, Records: []Record{
		{Level: stlog.LevelError, Ordinal: 0, Text: "disk-full"},
		{Level: stlog.LevelError, Ordinal: 1, Text: "timeout"},
	}}
	info := Table{Level: stlog.LevelInfo, Records: []Record{
		{Level: stlog.LevelInfo, Ordinal: 0, Text: "Hello!"},
	}}
	if locations {
		errs.Records[0].Location = &Location{File: "main.go", Line: 10}
		errs.Records[1].Location = &Location{File: "main.go", Line: 11}
		info.Records[0].Location = &Location{File: "boot.go", Line: 3}
	}

	t.Levels[stlog.LevelError] = errs
	t.Levels[stlog.LevelWarn] = Table{Level: stlog.LevelWarn}
	t.Levels[stlog.LevelInfo] = info
	t.Seal()
	return t
}

func assertTables(t *testing.T, want, got Tables) {
	t.Helper()

	if got.Fingerprint != want.Fingerprint {
		t.Fatalf("fingerprint mismatch: want %016x, got %016x", want.Fingerprint, got.Fingerprint)
	}
	if got.Locations != want.Locations {
		t.Fatalf("locations mismatch: want %v, got %v", want.Locations, got.Locations)
	}
	if len(got.Levels) != len(want.Levels) {
		t.Fatalf("expected %d tables, got %d", len(want.Levels), len(got.Levels))
	}
	for level, wt := range want.Levels {
		gt, ok := got.Levels[level]
		if !ok {
			t.Fatalf("missing %s table", level)
		}
		if len(gt.Records) != len(wt.Records) {
			t.Fatalf("%s: expected %d records, got %d", level, len(wt.Records), len(gt.Records))
		}
		for i, wr := range wt.Records {
			gr := gt.Records[i]
			if gr.Text != wr.Text || gr.Ordinal != wr.Ordinal || gr.Level != wr.Level {
				t.Fatalf("%s[%d]: want %+v, got %+v", level, i, wr, gr)
			}
			if (gr.Location == nil) != (wr.Location == nil) {
				t.Fatalf("%s[%d]: location presence mismatch", level, i)
			}
			if gr.Location != nil && *gr.Location != *wr.Location {
				t.Fatalf("%s[%d]: want location %s, got %s", level, i, wr.Location, gr.Location)
			}
		}
	}
}

func TestFindInArtifact(t *testing.T) {
	t.Parallel()

	tt := []struct {
		name      string
		locations bool
	}{
		{"Without Locations", false},
		{"With Locations", true},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			want := sample(tc.locations)

			// Surround the region with unrelated bytes, including a stray
			// header marker that does not start a valid region.
			var artifact bytes.Buffer
			artifact.WriteString("\x7fELF\x02\x01\x01")
			artifact.WriteString(headerMarker + "garbage")
			artifact.Write(Encode(want))
			artifact.WriteString("\x00\x00.text")

			got, err := Find(artifact.Bytes())
			if err != nil {
				t.Fatalf("Find returned error: %v", err)
			}
			assertTables(t, want, got)
		})
	}
}

func TestFindNoRegion(t *testing.T) {
	t.Parallel()

	_, err := Find([]byte("\x7fELF nothing to see here"))
	if !errors.Is(err, stlog.ErrArtifactMismatch) {
		t.Fatalf("expected ErrArtifactMismatch, got %v", err)
	}
	if !errors.Is(err, ErrNoRegion) {
		t.Fatalf("expected ErrNoRegion, got %v", err)
	}
}

func TestFindCorruptRegion(t *testing.T) {
	t.Parallel()

	region := Encode(sample(false))
	i := bytes.Index(region, []byte("timeout"))
	if i < 0 {
		t.Fatalf("expected record text in region")
	}
	region[i] = 'T'

	_, err := Find(region)
	if !errors.Is(err, stlog.ErrArtifactMismatch) {
		t.Fatalf("expected ErrArtifactMismatch, got %v", err)
	}
}

func TestMarkers(t *testing.T) {
	t.Parallel()

	region := Encode(sample(false))
	for _, level := range []stlog.Level{stlog.LevelError, stlog.LevelWarn, stlog.LevelInfo} {
		start := bytes.Index(region, []byte(StartMarker(level)))
		end := bytes.Index(region, []byte(EndMarker(level)))
		if start < 0 || end < start {
			t.Fatalf("expected %s region delimited by its markers", level)
		}
	}
	if bytes.Contains(region, []byte(StartMarker(stlog.LevelDebug))) {
		t.Fatalf("expected no debug region")
	}
}

func TestLookup(t *testing.T) {
	t.Parallel()

	tables := sample(false)

	r, err := tables.Lookup(stlog.LevelError, 1)
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if r.Text != "timeout" {
		t.Fatalf("expected timeout, got %q", r.Text)
	}

	if _, err := tables.Lookup(stlog.LevelError, 2); !errors.Is(err, stlog.ErrOrdinalOutOfRange) {
		t.Fatalf("expected ErrOrdinalOutOfRange, got %v", err)
	}
	if _, err := tables.Lookup(stlog.LevelWarn, 0); !errors.Is(err, stlog.ErrOrdinalOutOfRange) {
		t.Fatalf("expected ErrOrdinalOutOfRange for an empty table, got %v", err)
	}
	if _, err := tables.Lookup(stlog.LevelTrace, 0); !errors.Is(err, stlog.ErrLevelTableMissing) {
		t.Fatalf("expected ErrLevelTableMissing, got %v", err)
	}
}

func TestManifest(t *testing.T) {
	t.Parallel()

	want := sample(true)

	var buf bytes.Buffer
	if err := WriteManifest(&buf, want); err != nil {
		t.Fatalf("WriteManifest returned error: %v", err)
	}
	if !strings.Contains(buf.String(), "text: timeout") {
		t.Fatalf("expected manifest to list timeout, got:\n%s", buf.String())
	}

	got, err := ReadManifest(&buf)
	if err != nil {
		t.Fatalf("ReadManifest returned error: %v", err)
	}
	assertTables(t, want, got)
}

func TestManifestTampered(t *testing.T) {
	t.Parallel()

	m := NewManifest(sample(false))
	m.Levels["error"][1].Text = "time-out"

	if _, err := m.Tables(); !errors.Is(err, stlog.ErrArtifactMismatch) {
		t.Fatalf("expected ErrArtifactMismatch, got %v", err)
	}

	m = NewManifest(sample(false))
	m.Levels["error"][0].Ordinal = 1
	if _, err := m.Tables(); !errors.Is(err, stlog.ErrArtifactMismatch) {
		t.Fatalf("expected ErrArtifactMismatch for a reordered entry, got %v", err)
	}
}

func TestManifestFingerprint(t *testing.T) {
	t.Parallel()

	tt := []struct {
		name        string
		fingerprint func(string) string
		err         bool
	}{
		{name: "Written", fingerprint: func(fp string) string { return fp }},
		{name: "Upper Case", fingerprint: strings.ToUpper},
		{name: "Short Form", fingerprint: func(fp string) string { return strings.TrimLeft(fp, "0") }},
		{name: "Not Hex", fingerprint: func(string) string { return "not-a-fingerprint" }, err: true},
		{name: "Empty", fingerprint: func(string) string { return "" }, err: true},
		{name: "Other Tables", fingerprint: func(string) string { return "0000000000000001" }, err: true},
	}

	for _, c := range tt {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			m := NewManifest(sample(false))
			m.Fingerprint = c.fingerprint(m.Fingerprint)

			_, err := m.Tables()
			if c.err != (err != nil) {
				t.Fatalf("expected error %t, got %v", c.err, err)
			}
			if err != nil && !errors.Is(err, stlog.ErrArtifactMismatch) {
				t.Errorf("expected ErrArtifactMismatch, got %v", err)
			}
		})
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	tables := New(true)
	for _, level := range stlog.Levels {
		n, ok := tables.Count(level)
		if !ok || n != 0 {
			t.Fatalf("expected an empty %s table, got %d (exists %v)", level, n, ok)
		}
	}
	if _, ok := tables.Count(stlog.LevelOff); ok {
		t.Fatalf("expected no table for LevelOff")
	}
}
