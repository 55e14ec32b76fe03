package model

import (
	"errors"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/ohowland/dyn_core/internal/pkg/network"
)

var (
	genLib = &Library{
		Name:     "GenA",
		Category: CategoryGenerator,
		Kinds:    []network.Kind{network.KindGenerator},
		Caps:     Caps(CapInjection, CapFrequencySynchronizable, CapControllable),
		Vars: map[Var]string{
			VarTerminal:           "gen_terminal",
			VarSwitchOff:          "gen_switchOff",
			VarSwitchOffAutomaton: "gen_switchOff2",
			VarOmega:              "gen_omega",
			VarOmegaRef:           "gen_omegaRef",
			VarRunning:            "gen_running",
			VarU:                  "gen_U",
		},
	}
	loadLib = &Library{
		Name:     "LoadA",
		Category: CategoryLoad,
		Kinds:    []network.Kind{network.KindLoad},
		Caps:     Caps(CapInjection),
		Vars:     map[Var]string{VarTerminal: "load_terminal", VarSwitchOff: "load_switchOff"},
	}
	lineLib = &Library{
		Name:     "LineA",
		Category: CategoryBranch,
		Kinds:    []network.Kind{network.KindLine},
		Caps:     Caps(CapBranch),
		Vars: map[Var]string{
			VarTerminal1:     "line_terminal1",
			VarTerminal2:     "line_terminal2",
			VarSwitchOff1:    "line_switchOff1",
			VarSwitchOff2:    "line_switchOff2",
			VarCurrent1:      "line_i1",
			VarCurrent2:      "line_i2",
			VarState:         "line_state",
			VarDisableLimits: "line_noLimits",
		},
	}
	busLib = &Library{
		Name:     "GenBus",
		Category: CategoryBus,
		Kinds:    []network.Kind{network.KindBus},
		Caps:     Caps(CapBus),
		Vars:     map[Var]string{VarTerminal: "bus_terminal", VarSwitchOff: "bus_switchOff", VarNumCC: "bus_numcc", VarU: "bus_U"},
	}
	claLib = &Library{
		Name:     "CLA",
		Category: CategoryCurrentLimitAutomaton,
		Kinds:    []network.Kind{network.KindLine, network.KindTransformer},
		Vars:     map[Var]string{VarMonitoredCurrent: "cla_I", VarOrder: "cla_order", VarAutomatonExists: "cla_exists"},
	}
	uvaLib = &Library{
		Name:     "UVA",
		Category: CategoryUnderVoltageAutomaton,
		Kinds:    []network.Kind{network.KindGenerator},
		Vars:     map[Var]string{VarMonitoredU: "uva_U", VarTripSignal: "uva_trip"},
	}
)

func testGraph(t *testing.T) *network.Network {
	n := network.NewNetwork()
	assert.NilError(t, n.AddBus(network.Bus{ID: "B1"}))
	assert.NilError(t, n.AddBus(network.Bus{ID: "B2"}))
	assert.NilError(t, n.Add(network.Equipment{ID: "G1", Kind: network.KindGenerator, Terminals: []string{"B1"}, Generator: &network.GeneratorData{RatedS: 100}}))
	assert.NilError(t, n.Add(network.Equipment{ID: "LD1", Kind: network.KindLoad, Terminals: []string{"B2"}, Load: &network.LoadData{P0: 1}}))
	assert.NilError(t, n.Add(network.Equipment{ID: "L1", Kind: network.KindLine, Terminals: []string{"B1", "B2"}}))
	assert.NilError(t, n.Add(network.Equipment{ID: "G2", Kind: network.KindGenerator, Terminals: []string{""}}))
	return n
}

// BEGIN --- Capability Tests

func TestCapabilitySet(t *testing.T) {
	s := Caps(CapInjection, CapControllable)
	assert.Assert(t, s.Has(CapInjection))
	assert.Assert(t, !s.Has(CapBus))
	assert.Assert(t, s.Contains(Caps(CapControllable)))
	assert.Assert(t, !Caps(CapInjection).Contains(s))
	assert.DeepEqual(t, s.List(), []Capability{CapInjection, CapControllable})
	assert.Equal(t, s.String(), "{Injection,Controllable}")
}

func TestCapabilitiesAreClosed(t *testing.T) {
	all := Capabilities()
	assert.Equal(t, len(all), int(numCapabilities))
	for _, c := range all {
		assert.Assert(t, c.String() != "", c)
	}
	assert.Equal(t, Capability(99).String(), "Capability(99)")
}

// --- END Capability Tests

// BEGIN --- Initiator Tests

func TestGeneratorConnectsToItsBus(t *testing.T) {
	g := testGraph(t)
	gen := NewGenerator("GEN1", "G1", "GEN1_PAR", genLib, 5)
	reqs, err := gen.Requests(g)
	assert.NilError(t, err)
	assert.DeepEqual(t, reqs, []Request{{
		Target:     Target{Equipment: network.Ref{Kind: network.KindBus, ID: "B1"}},
		Capability: CapBus,
	}})

	bus := NewBusModel("BUS1", "B1", "", busLib)
	pairs, err := gen.VarPairs(reqs[0], bus)
	assert.NilError(t, err)
	assert.DeepEqual(t, pairs, []VarPair{
		{Source: "gen_terminal", Target: "bus_terminal"},
		{Source: "gen_switchOff", Target: "bus_switchOff"},
	})
}

func TestLoadConnectsToItsBus(t *testing.T) {
	g := testGraph(t)
	load := NewLoad("LOAD1", "LD1", "", loadLib)
	reqs, err := load.Requests(g)
	assert.NilError(t, err)
	assert.Equal(t, len(reqs), 1)
	assert.Equal(t, reqs[0].Target.Equipment, network.Ref{Kind: network.KindBus, ID: "B2"})

	pairs, err := load.VarPairs(reqs[0], NewBusModel("BUS2", "B2", "", busLib))
	assert.NilError(t, err)
	assert.DeepEqual(t, pairs, []VarPair{
		{Source: "load_terminal", Target: "bus_terminal"},
		{Source: "load_switchOff", Target: "bus_switchOff"},
	})
}

func TestDisconnectedGeneratorHasNoTarget(t *testing.T) {
	g := testGraph(t)
	gen := NewGenerator("GEN2", "G2", "", genLib, 5)
	_, err := gen.Requests(g)
	assert.Assert(t, errors.Is(err, ErrNoTopologicalTarget))
}

func TestBranchConnectsBothSides(t *testing.T) {
	g := testGraph(t)
	line := NewBranch("LINE1", network.Ref{Kind: network.KindLine, ID: "L1"}, "", lineLib)
	reqs, err := line.Requests(g)
	assert.NilError(t, err)
	assert.Equal(t, len(reqs), 2)
	assert.Equal(t, reqs[0].Target.Equipment.ID, "B1")
	assert.Equal(t, reqs[0].Side, network.SideOne)
	assert.Equal(t, reqs[1].Target.Equipment.ID, "B2")
	assert.Equal(t, reqs[1].Side, network.SideTwo)

	bus := NewBusModel("BUS2", "B2", "", busLib)
	pairs, err := line.VarPairs(reqs[1], bus)
	assert.NilError(t, err)
	assert.DeepEqual(t, pairs[0], VarPair{Source: "line_terminal2", Target: "bus_terminal"})
}

func TestCurrentLimitAutomaton(t *testing.T) {
	g := testGraph(t)
	cla := NewCurrentLimitAutomaton("CLA1", "L1", network.SideTwo, "", claLib)
	reqs, err := cla.Requests(g)
	assert.NilError(t, err)
	assert.DeepEqual(t, reqs, []Request{{
		Target:     Target{Equipment: network.Ref{Kind: network.KindLine, ID: "L1"}},
		Capability: CapBranch,
		Side:       network.SideTwo,
	}})

	line := NewBranch("LINE1", network.Ref{Kind: network.KindLine, ID: "L1"}, "", lineLib)
	pairs, err := cla.VarPairs(reqs[0], line)
	assert.NilError(t, err)
	assert.DeepEqual(t, pairs, []VarPair{
		{Source: "cla_I", Target: "line_i2"},
		{Source: "cla_order", Target: "line_state"},
		{Source: "cla_exists", Target: "line_noLimits"},
	})

	missing := NewCurrentLimitAutomaton("CLA2", "X", network.SideNone, "", claLib)
	_, err = missing.Requests(g)
	assert.Assert(t, errors.Is(err, ErrUnresolvableReference))
	_, side := missing.Monitored()
	assert.Equal(t, side, network.SideOne)
}

func TestUnderVoltageAutomaton(t *testing.T) {
	g := testGraph(t)
	uva := NewUnderVoltageAutomaton("UVA1", "G1", "", uvaLib)
	reqs, err := uva.Requests(g)
	assert.NilError(t, err)
	assert.Equal(t, reqs[0].Capability, CapControllable)

	gen := NewGenerator("GEN1", "G1", "", genLib, 5)
	pairs, err := uva.VarPairs(reqs[0], gen)
	assert.NilError(t, err)
	assert.DeepEqual(t, pairs, []VarPair{
		{Source: "uva_U", Target: "gen_U"},
		{Source: "uva_trip", Target: "gen_switchOff2"},
	})

	_, err = NewUnderVoltageAutomaton("UVA2", "LD1", "", uvaLib).Requests(g)
	assert.Assert(t, errors.Is(err, ErrUnresolvableReference))
}

// Every initiator answers every capability: pairs for the one it connects with,
// ErrCapabilityMismatch for the others.
func TestInitiatorsCoverEveryCapability(t *testing.T) {
	line := NewBranch("LINE1", network.Ref{Kind: network.KindLine, ID: "L1"}, "", lineLib)
	bus := NewBusModel("BUS1", "B1", "", busLib)
	gen := NewGenerator("GEN1", "G1", "", genLib, 5)

	cases := []struct {
		init    Initiator
		cap     Capability
		side    network.Side
		partner Model
	}{
		{gen, CapBus, network.SideNone, bus},
		{NewLoad("LOAD1", "LD1", "", loadLib), CapBus, network.SideNone, bus},
		{line, CapBus, network.SideOne, bus},
		{NewCurrentLimitAutomaton("CLA1", "L1", network.SideOne, "", claLib), CapBranch, network.SideOne, line},
		{NewUnderVoltageAutomaton("UVA1", "G1", "", uvaLib), CapControllable, network.SideNone, gen},
	}
	for _, tc := range cases {
		for _, c := range Capabilities() {
			pairs, err := tc.init.VarPairs(Request{Capability: c, Side: tc.side}, tc.partner)
			if c == tc.cap {
				assert.NilError(t, err, "%s %s", tc.init.DynamicModelID(), c)
				assert.Assert(t, len(pairs) > 0)
				continue
			}
			assert.Assert(t, errors.Is(err, ErrCapabilityMismatch), "%s %s", tc.init.DynamicModelID(), c)
		}
	}
}

func TestMissingVariableIsMismatch(t *testing.T) {
	gen := NewGenerator("GEN1", "G1", "", genLib, 5)
	bare := NewBusModel("BUS1", "B1", "", &Library{Name: "Bare", Caps: Caps(CapBus)})
	_, err := gen.VarPairs(Request{Capability: CapBus}, bare)
	assert.Assert(t, errors.Is(err, ErrCapabilityMismatch))
	assert.ErrorContains(t, err, "library Bare of model BUS1 exposes no Terminal variable")
}

func TestBranchBusRequestNeedsSide(t *testing.T) {
	line := NewBranch("LINE1", network.Ref{Kind: network.KindLine, ID: "L1"}, "", lineLib)
	bus := NewBusModel("BUS1", "B1", "", busLib)
	_, err := line.VarPairs(Request{Capability: CapBus}, bus)
	assert.Assert(t, errors.Is(err, ErrCapabilityMismatch))
}

// --- END Initiator Tests

// BEGIN --- Network Model Tests

func TestNetworkModel(t *testing.T) {
	lib := &Library{Name: "NetworkBus", Category: CategoryNetwork, Caps: Caps(CapBus),
		Vars: map[Var]string{VarTerminal: "@STATIC_ID@@NODE@_ACPIN"}}
	m := NewNetworkModel(network.Ref{Kind: network.KindBus, ID: "B1"}, lib)

	var anchored Anchored = m
	assert.Equal(t, anchored.Anchor(), "B1")
	assert.Equal(t, m.DynamicModelID(), NetworkID)
	assert.Equal(t, m.ParameterSetID(), "")
	name, ok := m.VarName(VarTerminal)
	assert.Assert(t, ok)
	assert.Equal(t, name, "@STATIC_ID@@NODE@_ACPIN")
}

// --- END Network Model Tests

// BEGIN --- Parameter Tests

func TestParameterSetKeepsFirstValue(t *testing.T) {
	s := NewParameterSet("P")
	assert.Assert(t, s.AddDouble("a", 1.5))
	assert.Assert(t, !s.AddDouble("a", 2))
	assert.Assert(t, s.AddInt("n", 3))

	p, ok := s.Param("a")
	assert.Assert(t, ok)
	assert.Equal(t, p, Param{Name: "a", Type: Double, Value: "1.5"})

	o := NewParameterSet("P")
	o.AddInt("n", 4)
	o.AddParam("flag", Bool, "true")
	o.AddReference("ref", Double, "IIDM", "p0_pu")
	s.Merge(o)
	assert.Equal(t, len(s.Params), 3)
	n, _ := s.Param("n")
	assert.Equal(t, n.Value, "3")
	assert.Equal(t, len(s.References), 1)
}

func TestParameterSetClone(t *testing.T) {
	s := NewParameterSet("P")
	s.AddDouble("a", 1)
	c := s.Clone()
	c.Params[0].Value = "2"
	assert.Equal(t, s.Params[0].Value, "1")
}

func TestLoadReferencesNetworkState(t *testing.T) {
	sets := NewLoad("LOAD1", "LD1", "LOAD_PAR", loadLib).ParameterSets()
	assert.Equal(t, len(sets), 1)
	assert.DeepEqual(t, sets[0].References, []Reference{
		{Name: "load_P0Pu", Type: Double, Origin: "IIDM", OriginName: "p0_pu"},
		{Name: "load_Q0Pu", Type: Double, Origin: "IIDM", OriginName: "q0_pu"},
	})

	assert.Equal(t, len(NewLoad("LOAD2", "LD1", "", loadLib).ParameterSets()), 0)
}

// --- END Parameter Tests
