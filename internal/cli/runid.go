package cli

import (
	"log/slog"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// RunIDGenerator produces the correlation id attached to one CLI
// invocation's JSON output (CLIResponse.TraceID), so multiple `mm verify`
// runs against the same database can be told apart in aggregated logs.
type RunIDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 run ids.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
func (g UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedGenerator returns predetermined run ids for testing.
type FixedGenerator struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedGenerator creates a generator that returns ids in order.
func NewFixedGenerator(ids ...string) *FixedGenerator {
	return &FixedGenerator{ids: ids}
}

// Generate returns the next predetermined id.
//
// Panics if all ids have been consumed, to fail fast on test
// misconfiguration.
func (g *FixedGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.ids) {
		panic("FixedGenerator: all run ids exhausted")
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}

// newFormatter builds an OutputFormatter for one subcommand invocation,
// generating its run id, configuring the default slog logger, and logging
// the run id both through VerboseLog and as a structured log record.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	gen := opts.RunIDGen
	if gen == nil {
		gen = UUIDv7Generator{}
	}
	f := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
		TraceID:   gen.Generate(),
	}

	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(handler))

	f.VerboseLog("run %s", f.TraceID)
	slog.Debug("run started", "run_id", f.TraceID, "command", cmd.Name())
	return f
}
