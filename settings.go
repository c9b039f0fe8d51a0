package apreal

import (
	"context"
	"time"
)

// DefaultDivisionLimit is the binary precision below which Inverse treats
// a denominator as indistinguishable from zero (spec.md §4.6, §9).
const DefaultDivisionLimit = -65536

// MaxDivisionLimit is the least negative value `set division limit` will
// accept; the REPL clamps user input to be at most this (spec.md §6).
const MaxDivisionLimit = -1024

// Settings is the evaluation-settings record threaded through parsing and
// evaluation: the division-by-zero cutoff, a multithreading switch, a
// request timeout, and the process-wide π/e/1/e factory (spec.md §5, §9).
type Settings struct {
	DivisionLimit     int
	UseMultithreading bool
	Timeout           time.Duration // < 0 means "never cancel"

	factory *Factory
}

// NewSettings returns a Settings record with spec-default values and a
// fresh constant factory.
func NewSettings() *Settings {
	return &Settings{
		DivisionLimit:     DefaultDivisionLimit,
		UseMultithreading: false,
		Timeout:           -1,
		factory:           newFactory(),
	}
}

// Factory returns the shared π/e/1/e singleton provider.
func (s *Settings) Factory() *Factory { return s.factory }

// NewContext derives a context honoring s.Timeout: a negative timeout
// never cancels (spec.md §9 OQ2), otherwise the context is cancelled after
// s.Timeout elapses.
func (s *Settings) NewContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	if s.Timeout < 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, s.Timeout)
}

// SetDivisionLimit clamps n to be at most MaxDivisionLimit, per the REPL's
// `set division limit` command (spec.md §6).
func (s *Settings) SetDivisionLimit(n int) {
	if n > MaxDivisionLimit {
		n = MaxDivisionLimit
	}
	s.DivisionLimit = n
}
