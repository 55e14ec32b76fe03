package assembler

import (
	"hash/fnv"
	"strconv"
	"strings"

	"github.com/ohowland/dyn_core/internal/pkg/model"
	"github.com/ohowland/dyn_core/internal/pkg/network"
)

// Key is the canonical identity of a connector shape.
type Key string

// Shape is the template of variable pairings between two libraries. It is stored
// canonically: Lib1 sorts before or equal to Lib2 and each pair reads Lib1 to Lib2,
// so building it from either end yields the same value.
type Shape struct {
	Lib1    string
	Lib2    string
	Pairs   []model.VarPair
	swapped bool
}

// NewShape canonicalizes the pairs linking a source library to a target library.
func NewShape(srcLib, tgtLib string, pairs []model.VarPair) Shape {
	forward := append([]model.VarPair(nil), pairs...)
	switch {
	case srcLib < tgtLib:
		return Shape{Lib1: srcLib, Lib2: tgtLib, Pairs: forward}
	case srcLib > tgtLib:
		return Shape{Lib1: tgtLib, Lib2: srcLib, Pairs: reversed(forward), swapped: true}
	}
	back := reversed(forward)
	if encode(back) < encode(forward) {
		return Shape{Lib1: srcLib, Lib2: tgtLib, Pairs: back, swapped: true}
	}
	return Shape{Lib1: srcLib, Lib2: tgtLib, Pairs: forward}
}

func reversed(pairs []model.VarPair) []model.VarPair {
	out := make([]model.VarPair, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, model.VarPair{Source: p.Target, Target: p.Source})
	}
	return out
}

func encode(pairs []model.VarPair) string {
	var b strings.Builder
	for _, p := range pairs {
		b.WriteString(p.Source)
		b.WriteByte('=')
		b.WriteString(p.Target)
		b.WriteByte(';')
	}
	return b.String()
}

// Key returns the canonical key.
func (s Shape) Key() Key {
	return Key(s.Lib1 + "\x00" + s.Lib2 + "\x00" + encode(s.Pairs))
}

// Equal compares canonical forms.
func (s Shape) Equal(o Shape) bool {
	return s.Key() == o.Key()
}

// Hash is consistent with Equal.
func (s Shape) Hash() uint64 {
	h := fnv.New64a()
	h.Write([]byte(s.Key()))
	return h.Sum64()
}

// Indexed reports whether a variable carries the index placeholder.
func (s Shape) Indexed() bool {
	for _, p := range s.Pairs {
		if strings.Contains(p.Source, model.IndexPlaceholder) || strings.Contains(p.Target, model.IndexPlaceholder) {
			return true
		}
	}
	return false
}

// ShapeEntry is a shape registered in a run with its serialization id.
type ShapeEntry struct {
	ID string
	Shape
}

// registry creates each shape at most once per key. It belongs to one run.
type registry struct {
	entries []ShapeEntry
	byKey   map[Key]int
	ids     map[string]bool
}

func newRegistry() *registry {
	return &registry{
		entries: make([]ShapeEntry, 0),
		byKey:   make(map[Key]int),
		ids:     make(map[string]bool),
	}
}

// intern returns the entry of s, creating it if needed.
func (r *registry) intern(s Shape, side network.Side) (ShapeEntry, bool) {
	if i, ok := r.byKey[s.Key()]; ok {
		return r.entries[i], false
	}
	id := "MC_" + s.Lib1 + "-" + s.Lib2
	if side != network.SideNone {
		id += "_" + side.String()
	}
	unique := id
	for n := 2; r.ids[unique]; n++ {
		unique = id + "_" + strconv.Itoa(n)
	}
	entry := ShapeEntry{ID: unique, Shape: Shape{Lib1: s.Lib1, Lib2: s.Lib2, Pairs: append([]model.VarPair(nil), s.Pairs...)}}
	r.ids[unique] = true
	r.byKey[s.Key()] = len(r.entries)
	r.entries = append(r.entries, entry)
	return entry, true
}
