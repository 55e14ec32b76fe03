package assembler

import (
	"github.com/google/uuid"

	"github.com/ohowland/dyn_core/internal/pkg/model"
)

// Result is the frozen connection graph of one run. Accessors return copies.
type Result struct {
	pid           uuid.UUID
	models        []model.Model
	shapes        []ShapeEntry
	shapeIndex    map[Key]int
	connections   []Connection
	parameterSets []model.ParameterSet
	warnings      []Warning
}

// PID identifies the run.
func (r *Result) PID() uuid.UUID {
	return r.pid
}

// Models returns the emitted models: explicit models in declaration order, then
// the synchronizer and any default not living in the network model.
func (r *Result) Models() []model.Model {
	return append([]model.Model(nil), r.models...)
}

// Shapes returns the shapes in creation order.
func (r *Result) Shapes() []ShapeEntry {
	shapes := make([]ShapeEntry, 0, len(r.shapes))
	for _, s := range r.shapes {
		shapes = append(shapes, copyEntry(s))
	}
	return shapes
}

// Shape looks up a shape by key.
func (r *Result) Shape(k Key) (ShapeEntry, bool) {
	i, ok := r.shapeIndex[k]
	if !ok {
		return ShapeEntry{}, false
	}
	return copyEntry(r.shapes[i]), true
}

// ShapeKeys returns the keys in creation order.
func (r *Result) ShapeKeys() []Key {
	keys := make([]Key, 0, len(r.shapes))
	for _, s := range r.shapes {
		keys = append(keys, s.Key())
	}
	return keys
}

// Connections returns the connections in creation order.
func (r *Result) Connections() []Connection {
	return append([]Connection(nil), r.connections...)
}

// ParameterSets returns the parameter sets in model order.
func (r *Result) ParameterSets() []model.ParameterSet {
	sets := make([]model.ParameterSet, 0, len(r.parameterSets))
	for _, s := range r.parameterSets {
		sets = append(sets, s.Clone())
	}
	return sets
}

func (r *Result) Warnings() []Warning {
	return append([]Warning(nil), r.warnings...)
}

func copyEntry(e ShapeEntry) ShapeEntry {
	e.Pairs = append([]model.VarPair(nil), e.Pairs...)
	return e
}
