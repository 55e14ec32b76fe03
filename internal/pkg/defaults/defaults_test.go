package defaults

import (
	"errors"
	"testing"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/testr"
	"gotest.tools/v3/assert"

	"github.com/ohowland/dyn_core/internal/pkg/catalog"
	"github.com/ohowland/dyn_core/internal/pkg/model"
	"github.com/ohowland/dyn_core/internal/pkg/network"
)

type factories map[network.Kind][]catalog.Factory

func (f factories) FactoriesFor(kind network.Kind) []catalog.Factory {
	return f[kind]
}

func factory(name string, caps model.CapabilitySet) catalog.Factory {
	lib := &model.Library{Name: name, Category: model.CategoryNetwork, Caps: caps}
	return catalog.Factory{
		Caps: caps,
		New: func(ref network.Ref) model.Model {
			return model.NewNetworkModel(ref, lib)
		},
	}
}

var gen = network.Ref{Kind: network.KindGenerator, ID: "G1"}

// BEGIN --- Resolver Tests

func TestSingleFactoryIgnoresCapabilityChoice(t *testing.T) {
	r := New(factories{network.KindBus: {factory("NetworkBus", model.Caps(model.CapBus))}}, testr.New(t))
	m, err := r.Resolve(network.Ref{Kind: network.KindBus, ID: "B1"}, model.CapBus, Strict)
	assert.NilError(t, err)
	assert.Equal(t, m.Lib(), "NetworkBus")
}

func TestRichestCandidateWins(t *testing.T) {
	r := New(factories{network.KindGenerator: {
		factory("Plain", model.Caps(model.CapInjection)),
		factory("Controllable", model.Caps(model.CapInjection, model.CapControllable)),
	}}, testr.New(t))

	m, err := r.Resolve(gen, model.CapInjection, Strict)
	assert.NilError(t, err)
	assert.Equal(t, m.Lib(), "Controllable")

	m, err = r.Resolve(gen, model.CapControllable, Strict)
	assert.NilError(t, err)
	assert.Equal(t, m.Lib(), "Controllable")
}

func TestStandardCatalogDefaults(t *testing.T) {
	r := New(catalog.Standard(), testr.New(t))
	m, err := r.Resolve(gen, model.CapControllable, Strict)
	assert.NilError(t, err)
	assert.Equal(t, m.Lib(), "NetworkControllableGenerator")

	m, err = r.Resolve(network.Ref{Kind: network.KindTransformer, ID: "T1"}, model.CapBranch, Strict)
	assert.NilError(t, err)
	assert.Equal(t, m.Lib(), "NetworkBranch")
}

func TestNoDefaultModel(t *testing.T) {
	r := New(factories{network.KindGenerator: {
		factory("Plain", model.Caps(model.CapInjection)),
		factory("Controllable", model.Caps(model.CapInjection, model.CapControllable)),
	}}, testr.New(t))

	_, err := r.Resolve(gen, model.CapBus, Strict)
	assert.Assert(t, errors.Is(err, ErrNoDefaultModel))

	_, err = r.Resolve(network.Ref{Kind: network.KindShunt, ID: "S"}, model.CapInjection, Lenient)
	assert.Assert(t, errors.Is(err, ErrNoDefaultModel), "lenient does not hide missing factories")
	assert.ErrorContains(t, err, "Shunt S")
}

func TestAmbiguousDefault(t *testing.T) {
	r := New(factories{network.KindGenerator: {
		factory("A", model.Caps(model.CapInjection, model.CapControllable)),
		factory("B", model.Caps(model.CapInjection, model.CapFrequencySynchronizable)),
	}}, testr.New(t))
	_, err := r.Resolve(gen, model.CapInjection, Lenient)
	assert.Assert(t, errors.Is(err, ErrAmbiguousDefault))

	r = New(factories{network.KindGenerator: {
		factory("A", model.Caps(model.CapInjection)),
		factory("B", model.Caps(model.CapInjection)),
	}}, testr.New(t))
	_, err = r.Resolve(gen, model.CapInjection, Strict)
	assert.Assert(t, errors.Is(err, ErrAmbiguousDefault), "identical candidates")
}

func TestRegistrationBug(t *testing.T) {
	// declared Bus but produces a model without it
	broken := catalog.Factory{
		Caps: model.Caps(model.CapBus),
		New: func(ref network.Ref) model.Model {
			return model.NewNetworkModel(ref, &model.Library{Name: "Broken", Caps: model.Caps(model.CapInjection)})
		},
	}
	r := New(factories{network.KindBus: {broken}}, testr.New(t))
	ref := network.Ref{Kind: network.KindBus, ID: "B1"}

	_, err := r.Resolve(ref, model.CapBus, Strict)
	assert.Assert(t, errors.Is(err, model.ErrCapabilityMismatch))

	m, err := r.Resolve(ref, model.CapBus, Lenient)
	assert.NilError(t, err)
	assert.Assert(t, m == nil)
}

func TestZeroLoggerDiscards(t *testing.T) {
	r := New(catalog.Standard(), logr.Logger{})
	_, err := r.Resolve(gen, model.CapInjection, Lenient)
	assert.NilError(t, err)
}

// --- END Resolver Tests
