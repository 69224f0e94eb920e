/*
Package stream provides byte-stream transports.

Channels gives every level its own io.Writer, so the level travels on the
channel and each event is exactly one byte. Framed writes two-byte frames,
level then ordinal, onto one writer; it is the capture format read by
package decoder.

Both serialize writes, so they can be bound as the global logger.
*/
package stream
