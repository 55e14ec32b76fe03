/*
network.go In-memory representation of the static grid. Equipment keeps the order in
which it was declared; everything downstream that must be deterministic relies on it.
*/

package network

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateEquipment = errors.New("duplicate equipment")
	ErrUnknownBus         = errors.New("unknown bus")
	ErrUnknownEquipment   = errors.New("unknown equipment")
	ErrBadTerminals       = errors.New("bad terminal count")
)

// Graph is the read-only view of the network consumed during model assembly.
type Graph interface {
	FindEquipment(kind Kind, id string) (Equipment, bool)
	BusOf(ref Ref, side Side) (Bus, bool)
	LoadsOnBus(busID string) []Equipment
}

// Bus is an electrical node. Component 0 is the main connected component.
type Bus struct {
	ID        string
	Component int
}

// LoadData holds the static set-points and measured flows of a load.
type LoadData struct {
	P0 float64
	Q0 float64
	P  float64
	Q  float64
}

// GeneratorData holds the static ratings of a generator.
type GeneratorData struct {
	RatedS float64
}

// Equipment is one element of the network. Terminals holds the bus id attached to
// each side, side one first; an empty id is a disconnected terminal.
type Equipment struct {
	ID        string
	Kind      Kind
	Terminals []string
	Load      *LoadData
	Generator *GeneratorData
}

// Ref returns the reference of the equipment.
func (e Equipment) Ref() Ref {
	return Ref{Kind: e.Kind, ID: e.ID}
}

// BusID returns the bus attached at side. SideNone selects side one.
func (e Equipment) BusID(side Side) string {
	i := 0
	if side == SideTwo {
		i = 1
	}
	if i >= len(e.Terminals) {
		return ""
	}
	return e.Terminals[i]
}

func (e Equipment) clone() Equipment {
	c := e
	c.Terminals = append([]string(nil), e.Terminals...)
	if e.Load != nil {
		l := *e.Load
		c.Load = &l
	}
	if e.Generator != nil {
		g := *e.Generator
		c.Generator = &g
	}
	return c
}

// Network is an insertion ordered equipment graph.
type Network struct {
	buses      map[string]Bus
	busOrder   []string
	equipments []Equipment
	index      map[Ref]int
}

// NewNetwork returns an empty network.
func NewNetwork() *Network {
	return &Network{
		buses:      make(map[string]Bus),
		busOrder:   make([]string, 0),
		equipments: make([]Equipment, 0),
		index:      make(map[Ref]int),
	}
}

// AddBus declares a bus.
func (n *Network) AddBus(b Bus) error {
	if _, exists := n.buses[b.ID]; exists {
		return fmt.Errorf("%w: bus %s", ErrDuplicateEquipment, b.ID)
	}
	n.buses[b.ID] = b
	n.busOrder = append(n.busOrder, b.ID)
	return nil
}

// Add appends equipment after validating its terminals.
func (n *Network) Add(e Equipment) error {
	return n.InsertAt(len(n.equipments), e)
}

// InsertAt places equipment at position in the declaration order.
func (n *Network) InsertAt(position int, e Equipment) error {
	if err := n.validate(e); err != nil {
		return err
	}
	if position < 0 || position > len(n.equipments) {
		position = len(n.equipments)
	}
	n.equipments = append(n.equipments, Equipment{})
	copy(n.equipments[position+1:], n.equipments[position:])
	n.equipments[position] = e.clone()
	n.reindex()
	return nil
}

func (n *Network) validate(e Equipment) error {
	if e.Kind == KindBus {
		return fmt.Errorf("%w: buses are declared with AddBus", ErrBadTerminals)
	}
	if _, exists := n.index[e.Ref()]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateEquipment, e.Ref())
	}
	if len(e.Terminals) != e.Kind.terminals() {
		return fmt.Errorf("%w: %s has %d terminals, want %d", ErrBadTerminals, e.Ref(), len(e.Terminals), e.Kind.terminals())
	}
	for _, busID := range e.Terminals {
		if busID == "" {
			continue
		}
		if _, ok := n.buses[busID]; !ok {
			return fmt.Errorf("%w: %s attached to %s", ErrUnknownBus, e.Ref(), busID)
		}
	}
	return nil
}

// Remove deletes equipment, reporting whether it existed.
func (n *Network) Remove(ref Ref) bool {
	i, ok := n.index[ref]
	if !ok {
		return false
	}
	n.equipments = append(n.equipments[:i], n.equipments[i+1:]...)
	n.reindex()
	return true
}

// Substitute replaces every equipment in old by repl, placed where the first of old
// was declared. Nothing is changed when an error is returned.
func (n *Network) Substitute(old []Ref, repl Equipment) error {
	if len(old) == 0 {
		return fmt.Errorf("%w: nothing to substitute", ErrUnknownEquipment)
	}
	position := -1
	for _, ref := range old {
		i, ok := n.index[ref]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownEquipment, ref)
		}
		if position < 0 || i < position {
			position = i
		}
	}

	replaced := make(map[Ref]bool, len(old))
	for _, ref := range old {
		replaced[ref] = true
	}
	if _, exists := n.index[repl.Ref()]; exists && !replaced[repl.Ref()] {
		return fmt.Errorf("%w: %s", ErrDuplicateEquipment, repl.Ref())
	}

	// position is the smallest removed index, so it is unaffected by the removals.
	work := n.Copy()
	for _, ref := range old {
		work.Remove(ref)
	}
	if err := work.InsertAt(position, repl); err != nil {
		return err
	}
	*n = *work
	return nil
}

func (n *Network) reindex() {
	n.index = make(map[Ref]int, len(n.equipments))
	for i, e := range n.equipments {
		n.index[e.Ref()] = i
	}
}

// FindEquipment looks up equipment by kind and id. Buses are found as KindBus.
func (n *Network) FindEquipment(kind Kind, id string) (Equipment, bool) {
	if kind == KindBus {
		if _, ok := n.buses[id]; ok {
			return Equipment{ID: id, Kind: KindBus}, true
		}
		return Equipment{}, false
	}
	i, ok := n.index[Ref{Kind: kind, ID: id}]
	if !ok {
		return Equipment{}, false
	}
	return n.equipments[i].clone(), true
}

// BusOf returns the bus attached to the given side of the referenced equipment.
// A bus is its own bus.
func (n *Network) BusOf(ref Ref, side Side) (Bus, bool) {
	if ref.Kind == KindBus {
		b, ok := n.buses[ref.ID]
		return b, ok
	}
	i, ok := n.index[ref]
	if !ok {
		return Bus{}, false
	}
	busID := n.equipments[i].BusID(side)
	if busID == "" {
		return Bus{}, false
	}
	b, ok := n.buses[busID]
	return b, ok
}

// LoadsOnBus returns the loads attached to busID in declaration order.
func (n *Network) LoadsOnBus(busID string) []Equipment {
	loads := make([]Equipment, 0)
	for _, e := range n.equipments {
		if e.Kind == KindLoad && e.BusID(SideOne) == busID {
			loads = append(loads, e.clone())
		}
	}
	return loads
}

// Buses returns the buses in declaration order.
func (n *Network) Buses() []Bus {
	buses := make([]Bus, 0, len(n.busOrder))
	for _, id := range n.busOrder {
		buses = append(buses, n.buses[id])
	}
	return buses
}

// Equipments returns every non-bus equipment in declaration order.
func (n *Network) Equipments() []Equipment {
	equipments := make([]Equipment, 0, len(n.equipments))
	for _, e := range n.equipments {
		equipments = append(equipments, e.clone())
	}
	return equipments
}

// Copy returns a private working copy of the network.
func (n *Network) Copy() *Network {
	c := NewNetwork()
	for _, id := range n.busOrder {
		c.buses[id] = n.buses[id]
		c.busOrder = append(c.busOrder, id)
	}
	for _, e := range n.equipments {
		c.equipments = append(c.equipments, e.clone())
	}
	c.reindex()
	return c
}
