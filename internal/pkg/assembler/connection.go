package assembler

import (
	"github.com/ohowland/dyn_core/internal/pkg/model"
	"github.com/ohowland/dyn_core/internal/pkg/network"
)

// Endpoint is one end of a connection. Models living in the network model use the
// NETWORK endpoint and carry their static id in Name.
type Endpoint struct {
	ModelID string
	Name    string
	Index   int
	Indexed bool
}

func endpointOf(m model.Model) Endpoint {
	if a, ok := m.(model.Anchored); ok {
		return Endpoint{ModelID: model.NetworkID, Name: a.Anchor()}
	}
	return Endpoint{ModelID: m.DynamicModelID()}
}

// Connection joins two endpoints through a shape. First is the endpoint of the
// shape's Lib1.
type Connection struct {
	Shape   Key
	ShapeID string
	First   Endpoint
	Second  Endpoint
}

// Warning is a lenient mode problem. Equipment is set when a default was missing.
type Warning struct {
	Model     string
	Equipment network.Ref
	Reason    string
}

func (w Warning) String() string {
	if w.Equipment.ID != "" {
		return w.Model + " -> " + w.Equipment.String() + ": " + w.Reason
	}
	return w.Model + ": " + w.Reason
}

// indexer hands out connection indices of one initiator. Requests of the same
// participant share one index.
type indexer struct {
	next         int
	participants map[string]int
}

func newIndexer() *indexer {
	return &indexer{participants: make(map[string]int)}
}

func (ix *indexer) index(participant string) int {
	if participant != "" {
		if i, ok := ix.participants[participant]; ok {
			return i
		}
	}
	i := ix.next
	ix.next++
	if participant != "" {
		ix.participants[participant] = i
	}
	return i
}
