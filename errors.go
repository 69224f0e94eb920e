package stlog

import "errors"

var (
	// ErrDuplicateCallSite is returned when two call sites of one level share a disambiguation key.
	ErrDuplicateCallSite = errors.New("duplicate call site")

	// ErrTableOverflow is returned when a level table would hold more than MaxRecords entries.
	ErrTableOverflow = errors.New("level table overflow")

	// ErrOrdinalMismatch signals a site constant whose declared value differs from its table position.
	ErrOrdinalMismatch = errors.New("site value does not match its table position")

	// ErrInvalidLevel is returned for a level that has no table, such as LevelOff.
	ErrInvalidLevel = errors.New("invalid level")

	// ErrMissingGlobalBinding means implicit logging was used without a registered global logger.
	ErrMissingGlobalBinding = errors.New("no global logger registered")

	// ErrDuplicateGlobalBinding means a second global logger registration was attempted.
	ErrDuplicateGlobalBinding = errors.New("global logger already registered")

	// ErrNilLogger is returned when a nil logger is registered.
	ErrNilLogger = errors.New("logger cannot be nil")

	// ErrTransport wraps a failure reported by a local logger's transport.
	ErrTransport = errors.New("transport failed")

	// ErrOrdinalOutOfRange is returned when a decoded ordinal is past the end of its level table.
	ErrOrdinalOutOfRange = errors.New("ordinal out of range")

	// ErrLevelTableMissing is returned when the metadata has no table for a level.
	ErrLevelTableMissing = errors.New("level table missing")

	// ErrArtifactMismatch means the artifact carries no usable metadata for the capture.
	ErrArtifactMismatch = errors.New("artifact does not match")
)
