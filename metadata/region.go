package metadata

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/tarmac-project/stlog"
	"github.com/zeebo/xxh3"
	"google.golang.org/protobuf/encoding/protowire"
)

const (
	headerMarker  = "\x00stlog.header\x00"
	trailerMarker = "\x00stlog.trailer\x00"
	startPrefix   = "\x00stlog.start."
	endPrefix     = "\x00stlog.end."
)

// Header fields.
const (
	fieldVersion     protowire.Number = 1
	fieldFingerprint protowire.Number = 2
	fieldLocations   protowire.Number = 3
)

// Record fields. A region wraps each record in fieldEntry.
const (
	fieldEntry protowire.Number = 1
	fieldText  protowire.Number = 1
	fieldFile  protowire.Number = 2
	fieldLine  protowire.Number = 3
)

var (
	// ErrNoRegion is returned by Find when the data holds no metadata region.
	ErrNoRegion = errors.New("no stlog metadata region")

	// ErrMalformedRegion is returned when a region cannot be parsed.
	ErrMalformedRegion = errors.New("malformed stlog metadata region")
)

// StartMarker returns the name that opens level's region.
func StartMarker(level stlog.Level) string {
	return startPrefix + level.String() + "\x00"
}

// EndMarker returns the name that closes level's region.
func EndMarker(level stlog.Level) string {
	return endPrefix + level.String() + "\x00"
}

// Fingerprint hashes the level regions of t.
func Fingerprint(t Tables) uint64 {
	return xxh3.Hash(appendLevels(nil, t))
}

// Encode returns the metadata region of t. The fingerprint is recomputed
// from the tables.
func Encode(t Tables) []byte {
	levels := appendLevels(nil, t)

	var hdr []byte
	hdr = protowire.AppendTag(hdr, fieldVersion, protowire.VarintType)
	hdr = protowire.AppendVarint(hdr, Version)
	hdr = protowire.AppendTag(hdr, fieldFingerprint, protowire.Fixed64Type)
	hdr = protowire.AppendFixed64(hdr, xxh3.Hash(levels))
	hdr = protowire.AppendTag(hdr, fieldLocations, protowire.VarintType)
	hdr = protowire.AppendVarint(hdr, protowire.EncodeBool(t.Locations))

	out := make([]byte, 0, len(headerMarker)+protowire.SizeBytes(len(hdr))+len(levels)+len(trailerMarker))
	out = append(out, headerMarker...)
	out = protowire.AppendBytes(out, hdr)
	out = append(out, levels...)
	out = append(out, trailerMarker...)
	return out
}

// appendLevels appends one delimited region per table, most severe level first.
func appendLevels(b []byte, t Tables) []byte {
	for _, level := range stlog.Levels {
		tbl, ok := t.Levels[level]
		if !ok {
			continue
		}
		b = append(b, StartMarker(level)...)
		for _, r := range tbl.Records {
			var rec []byte
			rec = protowire.AppendTag(rec, fieldText, protowire.BytesType)
			rec = protowire.AppendString(rec, r.Text)
			if r.Location != nil {
				rec = protowire.AppendTag(rec, fieldFile, protowire.BytesType)
				rec = protowire.AppendString(rec, r.Location.File)
				rec = protowire.AppendTag(rec, fieldLine, protowire.VarintType)
				rec = protowire.AppendVarint(rec, uint64(r.Location.Line))
			}
			b = protowire.AppendTag(b, fieldEntry, protowire.BytesType)
			b = protowire.AppendBytes(b, rec)
		}
		b = append(b, EndMarker(level)...)
	}
	return b
}

// Find locates and parses the metadata region inside an artifact. Every
// occurrence of the header marker is tried in turn, so marker text that
// happens to appear elsewhere in the artifact is skipped.
func Find(data []byte) (Tables, error) {
	var lastErr error
	for off := 0; ; {
		i := bytes.Index(data[off:], []byte(headerMarker))
		if i < 0 {
			break
		}
		t, err := Parse(data[off+i:])
		if err == nil {
			return t, nil
		}
		lastErr = err
		off += i + 1
	}

	if errors.Is(lastErr, stlog.ErrArtifactMismatch) {
		return Tables{}, lastErr
	}
	if lastErr != nil {
		return Tables{}, fmt.Errorf("%w: %w", stlog.ErrArtifactMismatch, lastErr)
	}
	return Tables{}, fmt.Errorf("%w: %w", stlog.ErrArtifactMismatch, ErrNoRegion)
}

// Parse decodes a region that starts at the beginning of data. Bytes after
// the trailer are ignored.
func Parse(data []byte) (Tables, error) {
	rest, ok := bytes.CutPrefix(data, []byte(headerMarker))
	if !ok {
		return Tables{}, ErrNoRegion
	}

	hdr, n := protowire.ConsumeBytes(rest)
	if n < 0 {
		return Tables{}, fmt.Errorf("%w: header: %w", ErrMalformedRegion, protowire.ParseError(n))
	}
	rest = rest[n:]

	t := Tables{Levels: make(map[stlog.Level]Table, len(stlog.Levels))}
	version, err := parseHeader(hdr, &t)
	if err != nil {
		return Tables{}, err
	}
	if version != Version {
		return Tables{}, fmt.Errorf("%w: unsupported layout version %d", ErrMalformedRegion, version)
	}

	levelsStart := rest
	for {
		if bytes.HasPrefix(rest, []byte(trailerMarker)) {
			break
		}
		tbl, n, err := parseLevel(rest)
		if err != nil {
			return Tables{}, err
		}
		if _, dup := t.Levels[tbl.Level]; dup {
			return Tables{}, fmt.Errorf("%w: %s region appears twice", ErrMalformedRegion, tbl.Level)
		}
		t.Levels[tbl.Level] = tbl
		rest = rest[n:]
	}

	levels := levelsStart[:len(levelsStart)-len(rest)]
	if got := xxh3.Hash(levels); got != t.Fingerprint {
		return Tables{}, fmt.Errorf("%w: fingerprint %016x, header says %016x", stlog.ErrArtifactMismatch, got, t.Fingerprint)
	}
	return t, nil
}

func parseHeader(b []byte, t *Tables) (uint64, error) {
	var version uint64
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return 0, fmt.Errorf("%w: header: %w", ErrMalformedRegion, protowire.ParseError(n))
		}
		b = b[n:]

		switch {
		case num == fieldVersion && typ == protowire.VarintType:
			version, n = protowire.ConsumeVarint(b)
		case num == fieldFingerprint && typ == protowire.Fixed64Type:
			t.Fingerprint, n = protowire.ConsumeFixed64(b)
		case num == fieldLocations && typ == protowire.VarintType:
			var v uint64
			v, n = protowire.ConsumeVarint(b)
			t.Locations = protowire.DecodeBool(v)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return 0, fmt.Errorf("%w: header: %w", ErrMalformedRegion, protowire.ParseError(n))
		}
		b = b[n:]
	}
	return version, nil
}

// parseLevel reads one level region and returns the number of bytes it spans.
func parseLevel(b []byte) (Table, int, error) {
	rest, ok := bytes.CutPrefix(b, []byte(startPrefix))
	if !ok {
		return Table{}, 0, fmt.Errorf("%w: expected a level region", ErrMalformedRegion)
	}
	name, rest, ok := bytes.Cut(rest, []byte{0})
	if !ok {
		return Table{}, 0, fmt.Errorf("%w: unterminated level marker", ErrMalformedRegion)
	}
	level, err := stlog.ParseLevel(string(name))
	if err != nil || !level.Valid() {
		return Table{}, 0, fmt.Errorf("%w: unknown level %q", ErrMalformedRegion, name)
	}

	tbl := Table{Level: level}
	end := []byte(EndMarker(level))
	for !bytes.HasPrefix(rest, end) {
		if len(tbl.Records) == stlog.MaxRecords {
			return Table{}, 0, fmt.Errorf("%w: %s region holds more than %d records", ErrMalformedRegion, level, stlog.MaxRecords)
		}

		num, typ, n := protowire.ConsumeTag(rest)
		if n < 0 || num != fieldEntry || typ != protowire.BytesType {
			return Table{}, 0, fmt.Errorf("%w: %s region: expected a record", ErrMalformedRegion, level)
		}
		rest = rest[n:]

		entry, n := protowire.ConsumeBytes(rest)
		if n < 0 {
			return Table{}, 0, fmt.Errorf("%w: %s region: %w", ErrMalformedRegion, level, protowire.ParseError(n))
		}
		rest = rest[n:]

		rec, err := parseRecord(entry)
		if err != nil {
			return Table{}, 0, fmt.Errorf("%w: %s region: %w", ErrMalformedRegion, level, err)
		}
		rec.Level = level
		rec.Ordinal = uint8(len(tbl.Records))
		tbl.Records = append(tbl.Records, rec)
	}
	rest = rest[len(end):]

	return tbl, len(b) - len(rest), nil
}

func parseRecord(b []byte) (Record, error) {
	var (
		r   Record
		loc Location
		has bool
	)
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return Record{}, protowire.ParseError(n)
		}
		b = b[n:]

		switch {
		case num == fieldText && typ == protowire.BytesType:
			r.Text, n = protowire.ConsumeString(b)
		case num == fieldFile && typ == protowire.BytesType:
			loc.File, n = protowire.ConsumeString(b)
			has = true
		case num == fieldLine && typ == protowire.VarintType:
			var v uint64
			v, n = protowire.ConsumeVarint(b)
			loc.Line = int(v)
			has = true
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return Record{}, protowire.ParseError(n)
		}
		b = b[n:]
	}
	if has {
		r.Location = &loc
	}
	return r, nil
}
