package model

import (
	"errors"
	"fmt"
)

var (
	// ErrUnresolvableReference indicates a binding names equipment or a model that does not exist.
	ErrUnresolvableReference = errors.New("unresolvable reference")
	// ErrNoTopologicalTarget indicates equipment has nothing to connect to, e.g. a disconnected terminal.
	ErrNoTopologicalTarget = errors.New("no topological target")
	// ErrCapabilityMismatch indicates a target does not implement the capability its initiator requires.
	ErrCapabilityMismatch = errors.New("capability mismatch")
)

func unsupported(m Model, c Capability) error {
	return fmt.Errorf("%w: %s (%s) cannot connect to %s", ErrCapabilityMismatch, m.DynamicModelID(), m.Lib(), c)
}
