package metadata

import (
	"fmt"

	"github.com/tarmac-project/stlog"
)

// Version is the layout version written into headers and manifests.
const Version = 1

// Location is the source position of a call site.
type Location struct {
	File string
	Line int
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// Record is one call site of a level table.
type Record struct {
	Level    stlog.Level
	Ordinal  uint8
	Text     string
	Location *Location
}

// Table is the ordered set of records of one level. A record's ordinal is
// its index.
type Table struct {
	Level   stlog.Level
	Records []Record
}

// Tables holds the level tables of one program.
type Tables struct {
	// Locations is set when records carry source locations.
	Locations bool

	// Fingerprint identifies the table contents, see Seal.
	Fingerprint uint64

	// Levels maps a level to its table. A level without an entry has no
	// table; an empty table is still a table.
	Levels map[stlog.Level]Table
}

// New returns empty tables for every level.
func New(locations bool) Tables {
	t := Tables{Locations: locations, Levels: make(map[stlog.Level]Table, len(stlog.Levels))}
	for _, l := range stlog.Levels {
		t.Levels[l] = Table{Level: l}
	}
	return t
}

// Seal computes the fingerprint of the tables.
func (t *Tables) Seal() {
	t.Fingerprint = Fingerprint(*t)
}

// Count returns the number of records in level's table and whether the table exists.
func (t Tables) Count(level stlog.Level) (int, bool) {
	tbl, ok := t.Levels[level]
	return len(tbl.Records), ok
}

// Lookup returns the record at ordinal in level's table.
func (t Tables) Lookup(level stlog.Level, ordinal uint8) (Record, error) {
	tbl, ok := t.Levels[level]
	if !ok {
		return Record{}, fmt.Errorf("%w: %s", stlog.ErrLevelTableMissing, level)
	}
	if int(ordinal) >= len(tbl.Records) {
		return Record{}, fmt.Errorf("%w: %s ordinal %d, table holds %d", stlog.ErrOrdinalOutOfRange, level, ordinal, len(tbl.Records))
	}
	return tbl.Records[ordinal], nil
}
