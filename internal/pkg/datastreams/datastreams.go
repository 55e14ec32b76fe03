// Package datastreams delivers assembly snapshots to external stores and
// message buses.
package datastreams

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/ohowland/dyn_core/internal/pkg/assembler"
)

// Sink receives the snapshot of a finished run.
type Sink interface {
	Name() string
	Write(ctx context.Context, s assembler.Snapshot) error
}

// WriteAll hands s to every sink in order and returns the first failure. Later
// sinks are still written.
func WriteAll(ctx context.Context, sinks []Sink, s assembler.Snapshot, log logr.Logger) error {
	var first error
	for _, sink := range sinks {
		if err := sink.Write(ctx, s); err != nil {
			log.Error(err, "snapshot not delivered", "sink", sink.Name(), "pid", s.PID)
			if first == nil {
				first = fmt.Errorf("%s: %w", sink.Name(), err)
			}
			continue
		}
		log.V(1).Info("snapshot delivered", "sink", sink.Name(), "pid", s.PID)
	}
	return first
}
