package datastreams

import (
	"context"
	"errors"
	"testing"

	"github.com/go-logr/logr/testr"
	"gotest.tools/v3/assert"

	"github.com/ohowland/dyn_core/internal/pkg/assembler"
)

type recordingSink struct {
	name    string
	err     error
	written []string
}

func (s *recordingSink) Name() string {
	return s.name
}

func (s *recordingSink) Write(ctx context.Context, snap assembler.Snapshot) error {
	if s.err != nil {
		return s.err
	}
	s.written = append(s.written, snap.PID)
	return nil
}

func TestWriteAll(t *testing.T) {
	a := &recordingSink{name: "a"}
	b := &recordingSink{name: "b"}
	snap := assembler.Snapshot{PID: "run-1"}

	err := WriteAll(context.Background(), []Sink{a, b}, snap, testr.New(t))
	assert.NilError(t, err)
	assert.DeepEqual(t, a.written, []string{"run-1"})
	assert.DeepEqual(t, b.written, []string{"run-1"})
}

func TestWriteAllContinuesAfterFailure(t *testing.T) {
	errDown := errors.New("down")
	first := &recordingSink{name: "first", err: errDown}
	second := &recordingSink{name: "second", err: errors.New("also down")}
	last := &recordingSink{name: "last"}

	err := WriteAll(context.Background(), []Sink{first, second, last}, assembler.Snapshot{PID: "run-2"}, testr.New(t))
	assert.Assert(t, errors.Is(err, errDown))
	assert.ErrorContains(t, err, "first: down")
	assert.DeepEqual(t, last.written, []string{"run-2"})
}
