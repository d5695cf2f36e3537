// Package id provides ULID-based identifiers for the terminal backend.
//
// IDs are prefixed by kind so they read well in logs:
//   - trc_*: request traces (X-Trace-ID)
//   - spn_*: spans within a trace (X-Span-ID)
//   - cmd_*: individual command executions
//
// ULIDs are lexicographically sortable by creation time, so the command log
// can be ordered without a separate timestamp.
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// TraceID identifies one inbound request and everything it triggers
type TraceID string

// SpanID identifies a single operation inside a trace
type SpanID string

// CommandID identifies one dispatched command
type CommandID string

const (
	TracePrefix   = "trc"
	SpanPrefix    = "spn"
	CommandPrefix = "cmd"
)

// Generator produces ULIDs from a shared entropy source
type Generator struct {
	entropy io.Reader
	mu      sync.Mutex
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the process-wide generator
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a generator backed by crypto/rand
func NewGenerator() *Generator {
	return &Generator{entropy: ulid.Monotonic(rand.Reader, 0)}
}

// NewGeneratorWithEntropy creates a generator with a caller-supplied entropy
// source
func NewGeneratorWithEntropy(entropy io.Reader) *Generator {
	return &Generator{entropy: entropy}
}

// Generate creates a new ULID
func (g *Generator) Generate() ulid.ULID {
	g.mu.Lock()
	defer g.mu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateWithPrefix returns "<prefix>_<ulid>"
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.Generate().String())
}

// NewTraceID generates a trace ID
func NewTraceID() TraceID {
	return TraceID(Default().GenerateWithPrefix(TracePrefix))
}

// NewSpanID generates a span ID
func NewSpanID() SpanID {
	return SpanID(Default().GenerateWithPrefix(SpanPrefix))
}

// NewCommandID generates a command ID
func NewCommandID() CommandID {
	return CommandID(Default().GenerateWithPrefix(CommandPrefix))
}

func (id TraceID) String() string   { return string(id) }
func (id SpanID) String() string    { return string(id) }
func (id CommandID) String() string { return string(id) }

// IsValid reports whether s is a bare or prefixed ULID
func IsValid(s string) bool {
	_, err := Parse(s)
	return err == nil
}

// Parse parses a bare or prefixed ULID
func Parse(s string) (ulid.ULID, error) {
	if i := strings.LastIndexByte(s, '_'); i >= 0 {
		s = s[i+1:]
	}
	return ulid.Parse(s)
}

// Timestamp extracts the creation time of a bare or prefixed ULID
func Timestamp(s string) (time.Time, error) {
	parsed, err := Parse(s)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(parsed.Time()), nil
}
