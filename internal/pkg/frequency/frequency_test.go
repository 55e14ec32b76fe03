package frequency

import (
	"errors"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/ohowland/dyn_core/internal/pkg/catalog"
	"github.com/ohowland/dyn_core/internal/pkg/model"
	"github.com/ohowland/dyn_core/internal/pkg/network"
)

func testNetwork(t *testing.T) *network.Network {
	n := network.NewNetwork()
	for _, id := range []string{"B1", "B2", "B3"} {
		assert.NilError(t, n.AddBus(network.Bus{ID: id}))
	}
	gens := []struct {
		id, bus string
		ratedS  float64
	}{{"G1", "B1", 100}, {"G2", "B2", 200}, {"G3", "B3", 50}}
	for _, g := range gens {
		assert.NilError(t, n.Add(network.Equipment{
			ID: g.id, Kind: network.KindGenerator, Terminals: []string{g.bus},
			Generator: &network.GeneratorData{RatedS: g.ratedS},
		}))
	}
	return n
}

func testModels(t *testing.T, c *catalog.Catalog) []model.Model {
	models, err := c.BuildAll([]catalog.Binding{
		{DynamicModelID: "GEN1", StaticID: "G1", Lib: "GeneratorSynchronousFourWindings", Inertia: 5},
		{DynamicModelID: "GEN2", StaticID: "G2", Lib: "GeneratorPV"},
		{DynamicModelID: "GEN3", StaticID: "G3", Lib: "GeneratorSynchronousThreeWindings", Inertia: 2},
	})
	assert.NilError(t, err)
	return models
}

// BEGIN --- Participant Tests

func TestGatherKeepsDeclarationOrder(t *testing.T) {
	c := catalog.Standard()
	ps := Gather(testModels(t, c), testNetwork(t))
	assert.DeepEqual(t, ps.IDs(), []string{"GEN1", "GEN3"})
	assert.Equal(t, ps[0].Weight, 500.0)
	assert.Equal(t, ps[1].Weight, 100.0)
}

func TestChoose(t *testing.T) {
	c := catalog.Standard()
	models := testModels(t, c)

	v, ok := Choose(models, Auto)
	assert.Assert(t, ok)
	assert.Equal(t, v, OmegaRef)

	inf, err := c.Build(catalog.Binding{DynamicModelID: "INF", StaticID: "B1", Lib: "InfiniteBus"})
	assert.NilError(t, err)
	v, _ = Choose(append(models, inf), Auto)
	assert.Equal(t, v, SetPoint)

	v, _ = Choose(append(models, inf), ForceOmegaRef)
	assert.Equal(t, v, OmegaRef)

	_, ok = Choose(models, None)
	assert.Assert(t, !ok)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("setpoint")
	assert.NilError(t, err)
	assert.Equal(t, m, ForceSetPoint)

	_, err = ParseMode("sometimes")
	assert.ErrorContains(t, err, "unknown synchronization mode")
}

// --- END Participant Tests

// BEGIN --- Synchronizer Tests

func TestOmegaRefRequests(t *testing.T) {
	c := catalog.Standard()
	n := testNetwork(t)
	s, err := Select(testModels(t, c), n, c, Auto)
	assert.NilError(t, err)
	assert.Equal(t, s.DynamicModelID(), "OMEGA_REF")

	reqs, err := s.Requests(n)
	assert.NilError(t, err)
	assert.Equal(t, len(reqs), 4)
	assert.Equal(t, reqs[0].Target.Model, "GEN1")
	assert.Equal(t, reqs[0].Capability, model.CapFrequencySynchronizable)
	assert.Equal(t, reqs[1].Target.Equipment, network.Ref{Kind: network.KindBus, ID: "B1"})
	assert.Equal(t, reqs[1].Capability, model.CapBus)
	assert.Equal(t, reqs[1].Participant, reqs[0].Participant)
	assert.Equal(t, reqs[3].Target.Equipment.ID, "B3")
}

func TestOmegaRefParameters(t *testing.T) {
	c := catalog.Standard()
	s, err := Select(testModels(t, c), testNetwork(t), c, Auto)
	assert.NilError(t, err)

	sets := s.ParameterSets()
	assert.Equal(t, len(sets), 1)
	assert.DeepEqual(t, sets[0].Params, []model.Param{
		{Name: "nbGen", Type: model.Int, Value: "2"},
		{Name: "weight_gen_0", Type: model.Double, Value: "500"},
		{Name: "weight_gen_1", Type: model.Double, Value: "100"},
	})
}

func TestOmegaRefVarPairs(t *testing.T) {
	c := catalog.Standard()
	models := testModels(t, c)
	s, _ := Select(models, testNetwork(t), c, Auto)

	pairs, err := s.VarPairs(model.Request{Capability: model.CapFrequencySynchronizable}, models[0])
	assert.NilError(t, err)
	assert.DeepEqual(t, pairs, []model.VarPair{
		{Source: "omega_grp_@INDEX@", Target: "generator_omegaPu"},
		{Source: "omegaRef_grp_@INDEX@", Target: "generator_omegaRefPu"},
		{Source: "running_grp_@INDEX@", Target: "generator_running"},
	})

	_, err = s.VarPairs(model.Request{Capability: model.CapInjection}, models[0])
	assert.Assert(t, errors.Is(err, model.ErrCapabilityMismatch))
}

func TestSetPoint(t *testing.T) {
	c := catalog.Standard()
	n := testNetwork(t)
	models := testModels(t, c)
	s, err := Select(models, n, c, ForceSetPoint)
	assert.NilError(t, err)
	assert.Equal(t, s.DynamicModelID(), "SET_POINT")

	reqs, err := s.Requests(n)
	assert.NilError(t, err)
	assert.Equal(t, len(reqs), 2, "no bus connections")

	pairs, err := s.VarPairs(reqs[0], models[0])
	assert.NilError(t, err)
	assert.DeepEqual(t, pairs, []model.VarPair{{Source: "setPoint_setPoint", Target: "generator_omegaRefPu"}})

	_, err = s.VarPairs(model.Request{Capability: model.CapBus}, models[0])
	assert.Assert(t, errors.Is(err, model.ErrCapabilityMismatch))

	sets := s.ParameterSets()
	assert.DeepEqual(t, sets[0].Params, []model.Param{{Name: "Value0", Type: model.Double, Value: "1"}})
}

func TestInert(t *testing.T) {
	c := catalog.Standard()
	s, err := Select([]model.Model{}, testNetwork(t), c, Auto)
	assert.NilError(t, err)
	assert.Assert(t, s == nil)

	lib, _ := c.Library("OmegaRef")
	empty := New(OmegaRef, lib, nil)
	assert.Assert(t, empty.Inert())
	assert.Equal(t, len(empty.ParameterSets()), 0)
	reqs, err := empty.Requests(testNetwork(t))
	assert.NilError(t, err)
	assert.Equal(t, len(reqs), 0)
}

func TestParticipantWithoutBus(t *testing.T) {
	c := catalog.Standard()
	n := testNetwork(t)
	assert.NilError(t, n.Add(network.Equipment{ID: "G4", Kind: network.KindGenerator, Terminals: []string{""}}))
	m, err := c.Build(catalog.Binding{DynamicModelID: "GEN4", StaticID: "G4", Lib: "GeneratorSynchronousFourWindings"})
	assert.NilError(t, err)

	s, err := Select([]model.Model{m}, n, c, Auto)
	assert.NilError(t, err)
	_, err = s.Requests(n)
	assert.Assert(t, errors.Is(err, model.ErrNoTopologicalTarget))
}

// --- END Synchronizer Tests
