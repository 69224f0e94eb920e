/*
Package global resolves call sites that log without an explicit logger.

A program binds exactly one stlog.GlobalLogger, once, before any implicit
call can run, typically from an init function:

	func init() {
	  global.MustSet(&uart)
	}

	global.Info(Booting)

The binding is frozen after the first Set. A second Set fails with
stlog.ErrDuplicateGlobalBinding, and an implicit call made while nothing is
bound panics with stlog.ErrMissingGlobalBinding rather than dropping the
event. The stlog build step rejects both situations before the program is
built, so the runtime checks only guard programs built without it.

Resolution is a single atomic load. The package takes no lock; the bound
logger must make its own Log safe against concurrent and nested calls.
*/
package global
