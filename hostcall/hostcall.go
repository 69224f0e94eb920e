package hostcall

import (
	"errors"
	"fmt"

	"github.com/tarmac-project/stlog"
	wapc "github.com/wapc/wapc-guest-tinygo"
)

// DefaultNamespace is used when no explicit namespace is provided.
const DefaultNamespace = "tarmac"

const (
	capabilityName = "stlog"

	// fnLog is the operation used when the caller gives no level.
	fnLog = "log"
)

var (
	// ErrHostCall indicates that a waPC host invocation failed.
	ErrHostCall = errors.New("host call failed")
)

// payloads holds one single-byte payload per ordinal so a call does not allocate.
var payloads = func() (p [256][1]byte) {
	for i := range p {
		p[i][0] = byte(i)
	}
	return p
}()

// HostCall defines the waPC host function signature.
type HostCall func(string, string, string, []byte) ([]byte, error)

// RuntimeConfig carries the namespace used to scope host interactions.
type RuntimeConfig struct {
	Namespace string
}

// Config controls how a Client interacts with the host runtime.
type Config struct {
	// SDKConfig provides the runtime namespace used for host calls.
	SDKConfig RuntimeConfig

	// HostCall overrides the waPC host function used to send ordinals.
	HostCall HostCall
}

// Client is a stlog.LevelLogger that sends each ordinal as one host call.
type Client struct {
	runtime  RuntimeConfig
	hostCall HostCall
}

var _ stlog.LevelLogger = (*Client)(nil)

// New creates a Client with namespace defaults and an optional host-call override.
func New(cfg Config) (*Client, error) {
	runtime := cfg.SDKConfig
	if runtime.Namespace == "" {
		runtime.Namespace = DefaultNamespace
	}

	hostCall := cfg.HostCall
	if hostCall == nil {
		hostCall = wapc.HostCall
	}

	return &Client{runtime: runtime, hostCall: hostCall}, nil
}

// Config returns the runtime configuration of the client.
func (c *Client) Config() RuntimeConfig { return c.runtime }

// Log sends b on the level-less "log" operation.
func (c *Client) Log(b byte) error {
	return c.send(fnLog, b)
}

// LogLevel sends b on the operation named after level.
func (c *Client) LogLevel(level stlog.Level, b byte) error {
	return c.send(level.String(), b)
}

func (c *Client) send(fn string, b byte) error {
	if _, err := c.hostCall(c.runtime.Namespace, capabilityName, fn, payloads[b][:]); err != nil {
		return fmt.Errorf("%w: %w", ErrHostCall, err)
	}
	return nil
}

// Global adapts c into a global logger. Host call failures are dropped, as
// an implicit call has nowhere to report them. A waPC guest runs on a single
// thread, so the client needs no further serialization.
func Global(c *Client) stlog.GlobalLevelLogger {
	return stlog.BestEffort(c)
}
