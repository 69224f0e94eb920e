/*
Package metadata describes the level tables of a program and how they are
laid out in its artifact.

The tables are written into the artifact as one region:

	\x00stlog.header\x00   header {version, fingerprint, locations}
	\x00stlog.start.error\x00 record record ... \x00stlog.end.error\x00
	...                    one delimited region per level
	\x00stlog.trailer\x00

Headers and records are protobuf wire encoded. The number of records in a
level is found by reading until the level's end marker, and a record's
ordinal is its position in the region. The fingerprint is the xxh3 hash of
the level regions, so a damaged or mismatched region is detected.

Find locates the region inside any artifact (ELF, wasm, raw image). A YAML
manifest carrying the same tables can be written next to the artifact for
builds that keep the region out of the image.
*/
package metadata
