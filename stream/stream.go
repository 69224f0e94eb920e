package stream

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/tarmac-project/stlog"
)

// FrameSize is the size of one frame: level, then ordinal.
const FrameSize = 2

var (
	// ErrTruncatedFrame is returned when a capture ends inside a frame.
	ErrTruncatedFrame = errors.New("truncated frame")

	// ErrNoLevel is returned by Log on transports that need a level to pick a channel.
	ErrNoLevel = errors.New("transport needs a level")

	// ErrNoChannel is returned when no writer is configured for a level.
	ErrNoChannel = errors.New("no channel for level")
)

// AppendFrame appends the frame of one event to b.
func AppendFrame(b []byte, level stlog.Level, ordinal uint8) []byte {
	return append(b, byte(level), ordinal)
}

// ReadFrame reads one frame from r. It returns io.EOF at a clean end of the capture.
func ReadFrame(r io.Reader) (stlog.Level, uint8, error) {
	var f [FrameSize]byte
	_, err := io.ReadFull(r, f[:])
	switch {
	case errors.Is(err, io.ErrUnexpectedEOF):
		return stlog.LevelOff, 0, ErrTruncatedFrame
	case err != nil:
		return stlog.LevelOff, 0, err
	}
	return stlog.Level(f[0]), f[1], nil
}

// Framed writes frames to a single writer.
type Framed struct {
	mu sync.Mutex
	w  io.Writer
}

var _ stlog.LevelLogger = (*Framed)(nil)

// NewFramed returns a Framed transport writing to w.
func NewFramed(w io.Writer) *Framed {
	return &Framed{w: w}
}

// Log fails: a frame needs a level.
func (f *Framed) Log(byte) error { return ErrNoLevel }

// LogLevel writes one frame.
func (f *Framed) LogLevel(level stlog.Level, ordinal byte) error {
	var buf [FrameSize]byte
	AppendFrame(buf[:0], level, ordinal)

	f.mu.Lock()
	defer f.mu.Unlock()
	_, err := f.w.Write(buf[:])
	return err
}

// Config assigns a writer to each level. A nil writer leaves the level
// without a channel.
type Config struct {
	Error io.Writer
	Warn  io.Writer
	Info  io.Writer
	Debug io.Writer
	Trace io.Writer
}

// Channels writes each event as one byte on its level's writer.
type Channels struct {
	mu sync.Mutex
	w  [stlog.LevelTrace + 1]io.Writer
}

var _ stlog.LevelLogger = (*Channels)(nil)

// NewChannels returns a Channels transport for cfg.
func NewChannels(cfg Config) *Channels {
	c := &Channels{}
	c.w[stlog.LevelError] = cfg.Error
	c.w[stlog.LevelWarn] = cfg.Warn
	c.w[stlog.LevelInfo] = cfg.Info
	c.w[stlog.LevelDebug] = cfg.Debug
	c.w[stlog.LevelTrace] = cfg.Trace
	return c
}

// Log fails: the channel depends on the level.
func (c *Channels) Log(byte) error { return ErrNoLevel }

// LogLevel writes ordinal on the writer of level.
func (c *Channels) LogLevel(level stlog.Level, ordinal byte) error {
	if int(level) >= len(c.w) || c.w[level] == nil {
		return fmt.Errorf("%w: %s", ErrNoChannel, level)
	}

	buf := [1]byte{ordinal}
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := c.w[level].Write(buf[:])
	return err
}
