package metadata

import (
	"fmt"
	"io"
	"strconv"

	"github.com/tarmac-project/stlog"
	"gopkg.in/yaml.v3"
)

// Manifest is the YAML form of Tables, written next to the artifact.
type Manifest struct {
	Version     int                        `yaml:"version"`
	Fingerprint string                     `yaml:"fingerprint"`
	Locations   bool                       `yaml:"locations"`
	Levels      map[string][]ManifestEntry `yaml:"levels"`
}

// ManifestEntry is one record of a manifest level list. Ordinal is written
// for readers; the entry's position in the list is what counts.
type ManifestEntry struct {
	Ordinal int    `yaml:"ordinal"`
	Text    string `yaml:"text"`
	File    string `yaml:"file,omitempty"`
	Line    int    `yaml:"line,omitempty"`
}

// NewManifest converts t to its manifest form.
func NewManifest(t Tables) Manifest {
	m := Manifest{
		Version:     Version,
		Fingerprint: formatFingerprint(Fingerprint(t)),
		Locations:   t.Locations,
		Levels:      make(map[string][]ManifestEntry, len(t.Levels)),
	}
	for level, tbl := range t.Levels {
		entries := make([]ManifestEntry, 0, len(tbl.Records))
		for i, r := range tbl.Records {
			e := ManifestEntry{Ordinal: i, Text: r.Text}
			if r.Location != nil {
				e.File, e.Line = r.Location.File, r.Location.Line
			}
			entries = append(entries, e)
		}
		m.Levels[level.String()] = entries
	}
	return m
}

// Tables converts the manifest back to tables and checks its fingerprint.
func (m Manifest) Tables() (Tables, error) {
	if m.Version != Version {
		return Tables{}, fmt.Errorf("%w: unsupported manifest version %d", stlog.ErrArtifactMismatch, m.Version)
	}

	t := Tables{Locations: m.Locations, Levels: make(map[stlog.Level]Table, len(m.Levels))}
	for name, entries := range m.Levels {
		level, err := stlog.ParseLevel(name)
		if err != nil || !level.Valid() {
			return Tables{}, fmt.Errorf("%w: unknown level %q in manifest", stlog.ErrArtifactMismatch, name)
		}
		if len(entries) > stlog.MaxRecords {
			return Tables{}, fmt.Errorf("%w: %s lists %d records", stlog.ErrArtifactMismatch, level, len(entries))
		}

		tbl := Table{Level: level, Records: make([]Record, 0, len(entries))}
		for i, e := range entries {
			if e.Ordinal != i {
				return Tables{}, fmt.Errorf("%w: %s entry %d claims ordinal %d", stlog.ErrArtifactMismatch, level, i, e.Ordinal)
			}
			r := Record{Level: level, Ordinal: uint8(i), Text: e.Text}
			if e.File != "" {
				r.Location = &Location{File: e.File, Line: e.Line}
			}
			tbl.Records = append(tbl.Records, r)
		}
		t.Levels[level] = tbl
	}

	fp, err := ParseFingerprint(m.Fingerprint)
	if err != nil {
		return Tables{}, fmt.Errorf("%w: manifest fingerprint %q: %w", stlog.ErrArtifactMismatch, m.Fingerprint, err)
	}

	t.Seal()
	if fp != t.Fingerprint {
		return Tables{}, fmt.Errorf("%w: manifest fingerprint %016x, tables hash to %016x", stlog.ErrArtifactMismatch, fp, t.Fingerprint)
	}
	return t, nil
}

// WriteManifest writes t as YAML to w.
func WriteManifest(w io.Writer, t Tables) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(NewManifest(t)); err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	return enc.Close()
}

// ReadManifest reads YAML tables from r.
func ReadManifest(r io.Reader) (Tables, error) {
	var m Manifest
	if err := yaml.NewDecoder(r).Decode(&m); err != nil {
		return Tables{}, fmt.Errorf("%w: %w", stlog.ErrArtifactMismatch, err)
	}
	return m.Tables()
}

func formatFingerprint(fp uint64) string {
	return fmt.Sprintf("%016x", fp)
}

// ParseFingerprint parses the hexadecimal form used by manifests.
func ParseFingerprint(s string) (uint64, error) {
	return strconv.ParseUint(s, 16, 64)
}
