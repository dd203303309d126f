// Package verify implements the Proof Verifier (spec.md §4.4-4.5): it
// decodes each provable's raw proof and executes it against an operand
// stack, checking hypothesis unification, essential-hypothesis matching,
// and disjoint-variable restrictions.
package verify

import (
	"errors"
	"io"
	"os"
	"runtime"
	"sync"

	"github.com/japonophile/mm/internal/db"
	"github.com/japonophile/mm/internal/proof"
)

// DefaultMaxSteps bounds the number of decoded proof steps executed for a
// single provable, per spec.md §4.7.
const DefaultMaxSteps = 100000

// Status classifies the outcome of verifying one provable.
type Status string

const (
	StatusVerified   Status = "verified"
	StatusIncomplete Status = "incomplete"
	StatusFailed     Status = "failed"
)

// Result is the outcome of verifying one provable.
type Result struct {
	Label  string
	Status Status
	Err    *ProofError
}

// Options configures VerifyAll. Constructed via functional options,
// following the teacher's EngineOption pattern.
type Options struct {
	maxSteps    int
	parallel    bool
	traceLabel  string
	traceWriter io.Writer
}

// Option configures a VerifyAll call.
type Option func(*Options)

// WithMaxSteps overrides the default per-provable step budget.
func WithMaxSteps(n int) Option {
	return func(o *Options) { o.maxSteps = n }
}

// WithParallel enables bounded-parallel verification across provables.
// Verification of any single provable is always sequential; only the set
// of independent provables may run concurrently.
func WithParallel(enabled bool) Option {
	return func(o *Options) { o.parallel = enabled }
}

// WithTrace prints the operand stack after every decoded step of the
// named provable's proof to traceWriter (stderr by default).
func WithTrace(label string) Option {
	return func(o *Options) { o.traceLabel = label }
}

// WithTraceWriter overrides the destination for --trace output.
func WithTraceWriter(w io.Writer) Option {
	return func(o *Options) { o.traceWriter = w }
}

// VerifyAll verifies every provable in d, in declaration order. Results
// are always returned in declaration order regardless of WithParallel.
func VerifyAll(d *db.Database, opts ...Option) []Result {
	cfg := Options{maxSteps: DefaultMaxSteps, traceWriter: os.Stderr}
	for _, o := range opts {
		o(&cfg)
	}

	provables := d.Provables()
	results := make([]Result, len(provables))

	if !cfg.parallel {
		for i, p := range provables {
			results[i] = verifyOne(d, p, cfg)
		}
		return results
	}

	sem := make(chan struct{}, max(1, runtime.GOMAXPROCS(0)))
	var wg sync.WaitGroup
	for i, p := range provables {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, p *db.Assertion) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = verifyOne(d, p, cfg)
		}(i, p)
	}
	wg.Wait()
	return results
}

func verifyOne(d *db.Database, a *db.Assertion, cfg Options) Result {
	label := d.LabelName(a.Label)

	if a.Proof == nil {
		return Result{Label: label, Status: StatusFailed, Err: &ProofError{Code: "E308", Label: label, Msg: "provable has no proof"}}
	}

	hypNames := make([]string, len(a.Mandatory.Hyps))
	for i, h := range a.Mandatory.Hyps {
		hypNames[i] = d.LabelName(h)
	}

	var steps []proof.Step
	var derr error
	if a.Proof.Compressed {
		steps, derr = proof.DecodeCompressed(hypNames, a.Proof.ExtraLabels, a.Proof.Chars)
	} else {
		steps, derr = proof.DecodeUncompressed(a.Proof.Tokens, hypNames)
	}
	if derr != nil {
		return Result{Label: label, Status: StatusFailed, Err: &ProofError{Code: "E308", Label: label, Msg: derr.Error()}}
	}

	for _, s := range steps {
		if s.Kind == proof.StepUnknown {
			return Result{Label: label, Status: StatusIncomplete}
		}
	}

	m := &machine{
		d:           d,
		maxSteps:    cfg.maxSteps,
		trace:       cfg.traceLabel == label,
		traceWriter: cfg.traceWriter,
		traceLabel:  label,
	}
	final, err := m.run(a, steps)
	if err != nil {
		var pe *ProofError
		if errors.As(err, &pe) {
			pe.Label = label
			return Result{Label: label, Status: StatusFailed, Err: pe}
		}
		return Result{Label: label, Status: StatusFailed, Err: &ProofError{Code: "E300", Label: label, Msg: err.Error()}}
	}

	want := append([]db.SymbolID{a.Typecode}, a.Conclusion...)
	if !exprEqual(final, want) {
		return Result{Label: label, Status: StatusFailed, Err: &ProofError{
			Code:  "E306",
			Label: label,
			Msg:   "final stack expression does not match the assertion's stated conclusion",
		}}
	}
	return Result{Label: label, Status: StatusVerified}
}
