package assembler

import (
	"errors"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/ohowland/dyn_core/internal/pkg/defaults"
	"github.com/ohowland/dyn_core/internal/pkg/frequency"
	"github.com/ohowland/dyn_core/internal/pkg/metrics"
	"github.com/ohowland/dyn_core/internal/pkg/network"
)

var (
	// ErrDuplicateModel indicates two models share a dynamic id or an equipment.
	ErrDuplicateModel = errors.New("duplicate model")
	// ErrOutsideMainComponent indicates a model bound to equipment outside the main
	// connected component.
	ErrOutsideMainComponent = errors.New("outside main connected component")
)

// Context carries the collaborators of a run. Network, Libraries and Defaults are
// read-only and may be shared between concurrent runs.
type Context struct {
	Network   network.Graph
	Libraries frequency.LibrarySource
	Defaults  *defaults.Resolver
	Log       logr.Logger
	Metrics   *metrics.Recorder
}

// Mode selects how missing defaults are handled.
type Mode int

const (
	// Strict fails the run.
	Strict Mode = iota
	// Lenient skips the connection and records a warning.
	Lenient
)

func (m Mode) String() string {
	if m == Lenient {
		return "lenient"
	}
	return "strict"
}

func (m Mode) strictness() defaults.Strictness {
	if m == Lenient {
		return defaults.Lenient
	}
	return defaults.Strict
}

// ParseMode accepts strict and lenient.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "strict":
		return Strict, nil
	case "lenient":
		return Lenient, nil
	default:
		return Strict, fmt.Errorf("unknown assembly mode %q", s)
	}
}

type Options struct {
	Mode            Mode
	Synchronization frequency.Mode
	// MainComponentOnly drops models bound outside the main connected component.
	MainComponentOnly bool
}
