// Package frequency builds the model giving rotating machines a common frequency
// reference.
package frequency

import (
	"fmt"
	"strconv"

	"github.com/ohowland/dyn_core/internal/pkg/model"
	"github.com/ohowland/dyn_core/internal/pkg/network"
)

// Variant is the kind of reference a synchronizer provides. Variants are mutually
// exclusive within a run.
type Variant int

const (
	// OmegaRef computes a reference weighted by machine inertia.
	OmegaRef Variant = iota
	// SetPoint pins the reference to a fixed value.
	SetPoint
)

func (v Variant) String() string {
	switch v {
	case OmegaRef:
		return "OmegaRef"
	case SetPoint:
		return "SetPoint"
	default:
		return fmt.Sprintf("Variant(%d)", int(v))
	}
}

// ID is the dynamic model id of the variant.
func (v Variant) ID() string {
	if v == SetPoint {
		return "SET_POINT"
	}
	return "OMEGA_REF"
}

// Mode selects the variant of a run.
type Mode int

const (
	// Auto selects SetPoint when a model claims a fixed frequency, OmegaRef otherwise.
	Auto Mode = iota
	ForceOmegaRef
	ForceSetPoint
	None
)

// ParseMode accepts auto, omegaref, setpoint and none.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "auto":
		return Auto, nil
	case "omegaref":
		return ForceOmegaRef, nil
	case "setpoint":
		return ForceSetPoint, nil
	case "none":
		return None, nil
	default:
		return Auto, fmt.Errorf("unknown synchronization mode %q", s)
	}
}

// Participant is a machine taking part in synchronization. Weight is H x SNom.
type Participant struct {
	Model  model.Model
	Weight float64
}

// Participants are ordered: participant i owns connection index i.
type Participants []Participant

// IDs returns the dynamic ids in order.
func (ps Participants) IDs() []string {
	ids := make([]string, 0, len(ps))
	for _, p := range ps {
		ids = append(ids, p.Model.DynamicModelID())
	}
	return ids
}

// Synchronizer is a pure model connected to every participant.
type Synchronizer struct {
	variant      Variant
	lib          *model.Library
	participants Participants
}

func New(v Variant, lib *model.Library, ps Participants) *Synchronizer {
	return &Synchronizer{variant: v, lib: lib, participants: append(Participants(nil), ps...)}
}

func (s *Synchronizer) Variant() Variant {
	return s.variant
}

func (s *Synchronizer) Participants() Participants {
	return append(Participants(nil), s.participants...)
}

// Inert reports whether the synchronizer has nothing to synchronize. An inert
// synchronizer must not be emitted.
func (s *Synchronizer) Inert() bool {
	return len(s.participants) == 0
}

func (s *Synchronizer) DynamicModelID() string {
	return s.variant.ID()
}

func (s *Synchronizer) Lib() string {
	return s.lib.Name
}

func (s *Synchronizer) ParameterSetID() string {
	return s.variant.ID()
}

func (s *Synchronizer) Capabilities() model.CapabilitySet {
	return s.lib.Caps
}

func (s *Synchronizer) VarName(v model.Var) (string, bool) {
	return s.lib.VarName(v)
}

// Requests connects to each participant, and for OmegaRef to its bus, in
// participant order. Both requests of a participant share its index.
func (s *Synchronizer) Requests(g network.Graph) ([]model.Request, error) {
	reqs := make([]model.Request, 0, 2*len(s.participants))
	for _, p := range s.participants {
		id := p.Model.DynamicModelID()
		reqs = append(reqs, model.Request{
			Target:      model.Target{Model: id},
			Capability:  model.CapFrequencySynchronizable,
			Participant: id,
		})
		if s.variant != OmegaRef {
			continue
		}
		em, ok := p.Model.(model.EquipmentModel)
		if !ok {
			return nil, fmt.Errorf("%w: participant %s has no equipment", model.ErrNoTopologicalTarget, id)
		}
		bus, ok := g.BusOf(em.Equipment(), network.SideNone)
		if !ok {
			return nil, fmt.Errorf("%w: participant %s is not connected to a bus", model.ErrNoTopologicalTarget, id)
		}
		reqs = append(reqs, model.Request{
			Target:      model.Target{Equipment: network.Ref{Kind: network.KindBus, ID: bus.ID}},
			Capability:  model.CapBus,
			Participant: id,
		})
	}
	return reqs, nil
}

func (s *Synchronizer) VarPairs(req model.Request, target model.Model) ([]model.VarPair, error) {
	switch req.Capability {
	case model.CapFrequencySynchronizable:
		if s.variant == SetPoint {
			return model.Bind(s, target).
				Link(model.VarSetPoint, model.VarOmegaRef).
				Result()
		}
		return model.Bind(s, target).
			Link(model.VarGroupOmega, model.VarOmega).
			Link(model.VarGroupOmegaRef, model.VarOmegaRef).
			Link(model.VarGroupRunning, model.VarRunning).
			Result()
	case model.CapBus:
		if s.variant == SetPoint {
			return nil, unsupported(s, req.Capability)
		}
		return model.Bind(s, target).
			Link(model.VarNodeNumCC, model.VarNumCC).
			Result()
	case model.CapInjection, model.CapBranch, model.CapControllable, model.CapFixedFrequency:
		return nil, unsupported(s, req.Capability)
	default:
		return nil, unsupported(s, req.Capability)
	}
}

// ParameterSets returns nothing for an inert synchronizer.
func (s *Synchronizer) ParameterSets() []model.ParameterSet {
	if s.Inert() {
		return nil
	}
	set := model.NewParameterSet(s.ParameterSetID())
	switch s.variant {
	case OmegaRef:
		set.AddInt("nbGen", len(s.participants))
		for i, p := range s.participants {
			set.AddDouble("weight_gen_"+strconv.Itoa(i), p.Weight)
		}
	case SetPoint:
		set.AddDouble("Value0", 1)
	}
	return []model.ParameterSet{set}
}

func unsupported(s *Synchronizer, c model.Capability) error {
	return fmt.Errorf("%w: %s (%s) cannot connect to %s", model.ErrCapabilityMismatch, s.DynamicModelID(), s.Lib(), c)
}
