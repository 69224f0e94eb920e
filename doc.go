/*
Package stlog provides logging for resource constrained programs at O(1)
runtime cost and O(0) memory: message text never reaches the running image.

Each call site is a typed constant whose line comment is the message:

	const (
	  DiskFull stlog.ErrorSite = iota // disk-full
	  Timeout                         // timeout
	)

Logging a site sends its ordinal, a single byte, through a Logger:

	if err := stlog.Error(uart, Timeout); err != nil {
	  // transport failure
	}

The stlog build step (cmd/stlog generate) collects the sites of a program,
assigns each one its position within its level's table and records the tables
in the artifact's metadata. The host side decodes captured bytes back to text
with package decoder.

A site's value must equal its position in the level's table. Tables run
across every scanned package in directory order, then file name order, then
source order, while iota restarts at every const block. A later block of the
same level therefore starts with an offset:

	const (
	  Retry   stlog.WarnSite = iota     // retrying
	  Backoff                           // backing off
	)

	// in a file or package scanned later
	const (
	  Dropped stlog.WarnSite = iota + 2 // dropped
	)

The build step fails with ErrOrdinalMismatch and names the expression to
use when a value is off.

The generated file passes the region to Retain from init. This keeps the
region in the artifact with gc and with TinyGo, and Region returns it at
runtime.

Levels above MaxLevel are compiled out. MaxLevel is selected with build tags:
stlog_release picks the optimized profile (LevelInfo), and one of
stlog_max_off, stlog_max_error, stlog_max_warn, stlog_max_info,
stlog_max_debug or stlog_max_trace overrides the profile.

Call sites without an explicit logger use package global.
*/
package stlog
