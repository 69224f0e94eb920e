/*
Package registrar allocates call site ordinals during the build.

A Registrar receives the call sites of a program in a deterministic order and
appends each one to its level's table. The ordinal of a site is its position
in that table, so rebuilding the same sources yields the same ordinals.

Two sites of one level with the same disambiguation key are rejected, naming
both locations: a repeated message should reuse one site instead of adding
an entry. The key is the message text, or the text plus file and line when
Config.Locations is set. A level table holds at most stlog.MaxRecords sites.
*/
package registrar
