package model

import (
	"fmt"
	"strings"
)

// Capability is a behavioral contract a model may claim. The set is closed: every
// connection site switches over it.
type Capability int

const (
	CapBus Capability = iota
	CapInjection
	CapBranch
	CapFrequencySynchronizable
	CapControllable
	CapFixedFrequency
	numCapabilities
)

// Capabilities lists every capability in declaration order.
func Capabilities() []Capability {
	all := make([]Capability, 0, numCapabilities)
	for c := Capability(0); c < numCapabilities; c++ {
		all = append(all, c)
	}
	return all
}

func (c Capability) String() string {
	switch c {
	case CapBus:
		return "Bus"
	case CapInjection:
		return "Injection"
	case CapBranch:
		return "Branch"
	case CapFrequencySynchronizable:
		return "FrequencySynchronizable"
	case CapControllable:
		return "Controllable"
	case CapFixedFrequency:
		return "FixedFrequency"
	default:
		return fmt.Sprintf("Capability(%d)", int(c))
	}
}

// CapabilitySet is a set of capabilities.
type CapabilitySet uint32

// Caps builds a set.
func Caps(cs ...Capability) CapabilitySet {
	var s CapabilitySet
	for _, c := range cs {
		s |= 1 << uint(c)
	}
	return s
}

func (s CapabilitySet) Has(c Capability) bool {
	return s&(1<<uint(c)) != 0
}

// Contains reports whether every capability of o is in s.
func (s CapabilitySet) Contains(o CapabilitySet) bool {
	return s&o == o
}

func (s CapabilitySet) List() []Capability {
	list := make([]Capability, 0)
	for _, c := range Capabilities() {
		if s.Has(c) {
			list = append(list, c)
		}
	}
	return list
}

func (s CapabilitySet) String() string {
	names := make([]string, 0)
	for _, c := range s.List() {
		names = append(names, c.String())
	}
	return "{" + strings.Join(names, ",") + "}"
}
