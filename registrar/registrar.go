package registrar

import (
	"fmt"

	"github.com/tarmac-project/stlog"
	"github.com/tarmac-project/stlog/metadata"
)

// Config controls how call sites are keyed.
type Config struct {
	// Locations appends the source location to the disambiguation key and
	// stores it in each record.
	Locations bool
}

// DuplicateCallSiteError is returned when a call site repeats the key of an
// earlier one in the same level.
type DuplicateCallSiteError struct {
	Level  stlog.Level
	Text   string
	First  metadata.Location
	Second metadata.Location
}

func (e *DuplicateCallSiteError) Error() string {
	return fmt.Sprintf("%s: %s: %s %q already registered at %s", e.Second, stlog.ErrDuplicateCallSite, e.Level, e.Text, e.First)
}

func (e *DuplicateCallSiteError) Unwrap() error { return stlog.ErrDuplicateCallSite }

// TableOverflowError is returned when a level table is full.
type TableOverflowError struct {
	Level    stlog.Level
	Text     string
	Location metadata.Location
}

func (e *TableOverflowError) Error() string {
	return fmt.Sprintf("%s: %s: %s %q would be record %d of %d", e.Location, stlog.ErrTableOverflow, e.Level, e.Text, stlog.MaxRecords+1, stlog.MaxRecords)
}

func (e *TableOverflowError) Unwrap() error { return stlog.ErrTableOverflow }

type key struct {
	text string
	loc  metadata.Location
}

// Registrar collects call sites into level tables.
type Registrar struct {
	cfg    Config
	tables metadata.Tables
	seen   map[stlog.Level]map[key]metadata.Location
}

// New returns a Registrar with empty tables for every level.
func New(cfg Config) *Registrar {
	r := &Registrar{
		cfg:    cfg,
		tables: metadata.New(cfg.Locations),
		seen:   make(map[stlog.Level]map[key]metadata.Location, len(stlog.Levels)),
	}
	for _, l := range stlog.Levels {
		r.seen[l] = make(map[key]metadata.Location)
	}
	return r
}

// Register appends a call site to level's table and returns its ordinal.
// loc is used in diagnostics, and in the key and the record when
// Config.Locations is set.
func (r *Registrar) Register(level stlog.Level, text string, loc metadata.Location) (uint8, error) {
	if !level.Valid() {
		return 0, fmt.Errorf("%s: %w: %s", loc, stlog.ErrInvalidLevel, level)
	}

	k := key{text: text}
	if r.cfg.Locations {
		k.loc = loc
	}
	if first, dup := r.seen[level][k]; dup {
		return 0, &DuplicateCallSiteError{Level: level, Text: text, First: first, Second: loc}
	}

	tbl := r.tables.Levels[level]
	if len(tbl.Records) >= stlog.MaxRecords {
		return 0, &TableOverflowError{Level: level, Text: text, Location: loc}
	}

	ordinal := uint8(len(tbl.Records))
	rec := metadata.Record{Level: level, Ordinal: ordinal, Text: text}
	if r.cfg.Locations {
		l := loc
		rec.Location = &l
	}
	tbl.Records = append(tbl.Records, rec)
	r.tables.Levels[level] = tbl
	r.seen[level][k] = loc

	return ordinal, nil
}

// Count returns the number of sites registered for level.
func (r *Registrar) Count(level stlog.Level) int {
	n, _ := r.tables.Count(level)
	return n
}

// Tables returns a sealed copy of the tables registered so far.
func (r *Registrar) Tables() metadata.Tables {
	out := metadata.New(r.cfg.Locations)
	for level, tbl := range r.tables.Levels {
		out.Levels[level] = metadata.Table{
			Level:   level,
			Records: append([]metadata.Record(nil), tbl.Records...),
		}
	}
	out.Seal()
	return out
}
