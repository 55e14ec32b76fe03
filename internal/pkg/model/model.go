// Package model defines the dynamic model instances bound to network equipment,
// the capabilities they claim and the variables they expose.
//
// Two flavors exist. Equipment-bound models wrap a network reference and find their
// connection targets through the network topology. Pure models, such as automata or
// frequency synchronizers, have no equipment of their own.
//
// A model that initiates connections implements Initiator. The assembler asks it for
// its requests, resolves each target, checks the requested capability and then asks
// the initiator for the variable pairs matching that capability.
package model

import (
	"github.com/ohowland/dyn_core/internal/pkg/network"
)

// NetworkID is the connection endpoint of models that live inside the network model.
const NetworkID = "NETWORK"

// Category groups libraries by the model type able to use them.
type Category int

const (
	CategoryGenerator Category = iota
	CategoryLoad
	CategoryBranch
	CategoryBus
	CategoryCurrentLimitAutomaton
	CategoryUnderVoltageAutomaton
	CategoryFrequencySynchronizer
	CategoryNetwork
)

// Library is a catalog entry: a model library name with its declared capabilities
// and variable naming scheme.
type Library struct {
	Name           string
	Category       Category
	Kinds          []network.Kind
	Caps           CapabilitySet
	Vars           map[Var]string
	HasTransformer bool
}

// VarName returns the variable the library exposes for a role.
func (l *Library) VarName(v Var) (string, bool) {
	name, ok := l.Vars[v]
	return name, ok
}

// Accepts reports whether the library can be bound to equipment of kind k.
func (l *Library) Accepts(k network.Kind) bool {
	for _, kind := range l.Kinds {
		if kind == k {
			return true
		}
	}
	return false
}

// Model is one dynamic model instance. Instances are immutable.
type Model interface {
	DynamicModelID() string
	Lib() string
	ParameterSetID() string
	Capabilities() CapabilitySet
	VarName(v Var) (string, bool)
}

// EquipmentModel is a model backed by network equipment.
type EquipmentModel interface {
	Model
	Equipment() network.Ref
}

// Anchored is implemented by models living inside the network model. They are
// connected through the NetworkID endpoint, named by their static id, and are
// never emitted as model instances.
type Anchored interface {
	Model
	Anchor() string
}

// Inertial is implemented by rotating machines weighting a frequency reference.
type Inertial interface {
	Inertia() float64
}

// Target designates what a request connects to: an explicit model when Model is
// set, the model representing Equipment otherwise.
type Target struct {
	Equipment network.Ref
	Model     string
}

// Request is one connection an initiator needs. Requests sharing a Participant share
// their connection index.
type Request struct {
	Target      Target
	Capability  Capability
	Side        network.Side
	Participant string
}

// Initiator is implemented by models that start connections.
type Initiator interface {
	Model
	Requests(g network.Graph) ([]Request, error)
	VarPairs(req Request, target Model) ([]VarPair, error)
}

// ParameterContributor is implemented by models generating parameter sets.
type ParameterContributor interface {
	ParameterSets() []ParameterSet
}

type base struct {
	id     string
	parSet string
	lib    *Library
}

func (b base) DynamicModelID() string {
	return b.id
}

func (b base) Lib() string {
	return b.lib.Name
}

func (b base) ParameterSetID() string {
	return b.parSet
}

func (b base) Capabilities() CapabilitySet {
	return b.lib.Caps
}

func (b base) VarName(v Var) (string, bool) {
	return b.lib.VarName(v)
}

func equipmentRequest(ref network.Ref, c Capability, side network.Side) Request {
	return Request{Target: Target{Equipment: ref}, Capability: c, Side: side}
}

func busRequest(g network.Graph, ref network.Ref, side network.Side) (Request, error) {
	bus, ok := g.BusOf(ref, side)
	if !ok {
		return Request{}, noBus(ref, side)
	}
	return equipmentRequest(network.Ref{Kind: network.KindBus, ID: bus.ID}, CapBus, side), nil
}
