package model

import (
	"fmt"

	"github.com/ohowland/dyn_core/internal/pkg/network"
)

// Generator is a rotating machine or converter bound to a network generator.
type Generator struct {
	base
	staticID string
	inertia  float64
}

// NewGenerator binds lib to generator staticID. inertia is the machine constant H
// in seconds; it weights the generator in frequency synchronization.
func NewGenerator(id, staticID, parSetID string, lib *Library, inertia float64) *Generator {
	return &Generator{base{id, parSetID, lib}, staticID, inertia}
}

func (g *Generator) Equipment() network.Ref {
	return network.Ref{Kind: network.KindGenerator, ID: g.staticID}
}

func (g *Generator) Inertia() float64 {
	return g.inertia
}

// HasTransformer reports whether the library embeds a step-up transformer.
func (g *Generator) HasTransformer() bool {
	return g.lib.HasTransformer
}

func (g *Generator) Requests(gr network.Graph) ([]Request, error) {
	req, err := busRequest(gr, g.Equipment(), network.SideNone)
	if err != nil {
		return nil, err
	}
	return []Request{req}, nil
}

func (g *Generator) VarPairs(req Request, target Model) ([]VarPair, error) {
	switch req.Capability {
	case CapBus:
		return Bind(g, target).
			Link(VarTerminal, VarTerminal).
			Link(VarSwitchOff, VarSwitchOff).
			Result()
	case CapInjection, CapBranch, CapFrequencySynchronizable, CapControllable, CapFixedFrequency:
		return nil, unsupported(g, req.Capability)
	default:
		return nil, unsupported(g, req.Capability)
	}
}

// Load is a dynamic load bound to a network load.
type Load struct {
	base
	staticID string
}

func NewLoad(id, staticID, parSetID string, lib *Library) *Load {
	return &Load{base{id, parSetID, lib}, staticID}
}

func (l *Load) Equipment() network.Ref {
	return network.Ref{Kind: network.KindLoad, ID: l.staticID}
}

func (l *Load) Requests(g network.Graph) ([]Request, error) {
	req, err := busRequest(g, l.Equipment(), network.SideNone)
	if err != nil {
		return nil, err
	}
	return []Request{req}, nil
}

func (l *Load) VarPairs(req Request, target Model) ([]VarPair, error) {
	switch req.Capability {
	case CapBus:
		return Bind(l, target).
			Link(VarTerminal, VarTerminal).
			Link(VarSwitchOff, VarSwitchOff).
			Result()
	case CapInjection, CapBranch, CapFrequencySynchronizable, CapControllable, CapFixedFrequency:
		return nil, unsupported(l, req.Capability)
	default:
		return nil, unsupported(l, req.Capability)
	}
}

// ParameterSets references the initial set-points of the load from the network.
func (l *Load) ParameterSets() []ParameterSet {
	if l.parSet == "" {
		return nil
	}
	set := NewParameterSet(l.parSet)
	set.AddReference("load_P0Pu", Double, "IIDM", "p0_pu")
	set.AddReference("load_Q0Pu", Double, "IIDM", "q0_pu")
	return []ParameterSet{set}
}

// Branch is a line or transformer model, connected to a bus on each side.
type Branch struct {
	base
	ref network.Ref
}

func NewBranch(id string, ref network.Ref, parSetID string, lib *Library) *Branch {
	return &Branch{base{id, parSetID, lib}, ref}
}

func (b *Branch) Equipment() network.Ref {
	return b.ref
}

func (b *Branch) Requests(g network.Graph) ([]Request, error) {
	side1, err := busRequest(g, b.ref, network.SideOne)
	if err != nil {
		return nil, err
	}
	side2, err := busRequest(g, b.ref, network.SideTwo)
	if err != nil {
		return nil, err
	}
	return []Request{side1, side2}, nil
}

func (b *Branch) VarPairs(req Request, target Model) ([]VarPair, error) {
	switch req.Capability {
	case CapBus:
		switch req.Side {
		case network.SideOne:
			return Bind(b, target).
				Link(VarTerminal1, VarTerminal).
				Link(VarSwitchOff1, VarSwitchOff).
				Result()
		case network.SideTwo:
			return Bind(b, target).
				Link(VarTerminal2, VarTerminal).
				Link(VarSwitchOff2, VarSwitchOff).
				Result()
		default:
			return nil, fmt.Errorf("%w: branch %s connects to a bus without a side", ErrCapabilityMismatch, b.id)
		}
	case CapInjection, CapBranch, CapFrequencySynchronizable, CapControllable, CapFixedFrequency:
		return nil, unsupported(b, req.Capability)
	default:
		return nil, unsupported(b, req.Capability)
	}
}

// BusModel is an explicit bus model. It initiates no connection; injections and
// branches connect to it.
type BusModel struct {
	base
	staticID string
}

func NewBusModel(id, staticID, parSetID string, lib *Library) *BusModel {
	return &BusModel{base{id, parSetID, lib}, staticID}
}

func (b *BusModel) Equipment() network.Ref {
	return network.Ref{Kind: network.KindBus, ID: b.staticID}
}

// NetworkModel is a default model: the equipment keeps its behavior from the
// network model and is reached through the NetworkID endpoint.
type NetworkModel struct {
	lib *Library
	ref network.Ref
}

func NewNetworkModel(ref network.Ref, lib *Library) *NetworkModel {
	return &NetworkModel{lib, ref}
}

func (n *NetworkModel) DynamicModelID() string {
	return NetworkID
}

func (n *NetworkModel) Lib() string {
	return n.lib.Name
}

func (n *NetworkModel) ParameterSetID() string {
	return ""
}

func (n *NetworkModel) Capabilities() CapabilitySet {
	return n.lib.Caps
}

func (n *NetworkModel) VarName(v Var) (string, bool) {
	return n.lib.VarName(v)
}

func (n *NetworkModel) Equipment() network.Ref {
	return n.ref
}

func (n *NetworkModel) Anchor() string {
	return n.ref.ID
}

func noBus(ref network.Ref, side network.Side) error {
	if side == network.SideNone {
		return fmt.Errorf("%w: %s is not connected to a bus", ErrNoTopologicalTarget, ref)
	}
	return fmt.Errorf("%w: %s is not connected to a bus on %s", ErrNoTopologicalTarget, ref, side)
}
