package model

import (
	"fmt"

	"github.com/ohowland/dyn_core/internal/pkg/network"
)

// CurrentLimitAutomaton monitors the current on one side of a branch and opens
// it when the limit is exceeded.
type CurrentLimitAutomaton struct {
	base
	branch string
	side   network.Side
}

func NewCurrentLimitAutomaton(id, branchID string, side network.Side, parSetID string, lib *Library) *CurrentLimitAutomaton {
	if side == network.SideNone {
		side = network.SideOne
	}
	return &CurrentLimitAutomaton{base{id, parSetID, lib}, branchID, side}
}

// Monitored returns the static id and side of the monitored branch.
func (a *CurrentLimitAutomaton) Monitored() (string, network.Side) {
	return a.branch, a.side
}

func (a *CurrentLimitAutomaton) Requests(g network.Graph) ([]Request, error) {
	for _, kind := range []network.Kind{network.KindLine, network.KindTransformer} {
		if _, ok := g.FindEquipment(kind, a.branch); ok {
			ref := network.Ref{Kind: kind, ID: a.branch}
			return []Request{equipmentRequest(ref, CapBranch, a.side)}, nil
		}
	}
	return nil, fmt.Errorf("%w: automaton %s monitors unknown branch %s", ErrUnresolvableReference, a.id, a.branch)
}

func (a *CurrentLimitAutomaton) VarPairs(req Request, target Model) ([]VarPair, error) {
	switch req.Capability {
	case CapBranch:
		current := VarCurrent1
		if req.Side == network.SideTwo {
			current = VarCurrent2
		}
		return Bind(a, target).
			Link(VarMonitoredCurrent, current).
			Link(VarOrder, VarState).
			Link(VarAutomatonExists, VarDisableLimits).
			Result()
	case CapBus, CapInjection, CapFrequencySynchronizable, CapControllable, CapFixedFrequency:
		return nil, unsupported(a, req.Capability)
	default:
		return nil, unsupported(a, req.Capability)
	}
}

// UnderVoltageAutomaton trips a controllable generator when its voltage stays
// below a threshold.
type UnderVoltageAutomaton struct {
	base
	generator string
}

func NewUnderVoltageAutomaton(id, generatorID, parSetID string, lib *Library) *UnderVoltageAutomaton {
	return &UnderVoltageAutomaton{base{id, parSetID, lib}, generatorID}
}

func (a *UnderVoltageAutomaton) Requests(g network.Graph) ([]Request, error) {
	ref := network.Ref{Kind: network.KindGenerator, ID: a.generator}
	if _, ok := g.FindEquipment(ref.Kind, ref.ID); !ok {
		return nil, fmt.Errorf("%w: automaton %s acts on unknown generator %s", ErrUnresolvableReference, a.id, a.generator)
	}
	return []Request{equipmentRequest(ref, CapControllable, network.SideNone)}, nil
}

func (a *UnderVoltageAutomaton) VarPairs(req Request, target Model) ([]VarPair, error) {
	switch req.Capability {
	case CapControllable:
		return Bind(a, target).
			Link(VarMonitoredU, VarU).
			Link(VarTripSignal, VarSwitchOffAutomaton).
			Result()
	case CapBus, CapInjection, CapBranch, CapFrequencySynchronizable, CapFixedFrequency:
		return nil, unsupported(a, req.Capability)
	default:
		return nil, unsupported(a, req.Capability)
	}
}
