// Package defaults resolves the fallback model of equipment without an explicit
// binding.
package defaults

import (
	"errors"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/ohowland/dyn_core/internal/pkg/catalog"
	"github.com/ohowland/dyn_core/internal/pkg/model"
	"github.com/ohowland/dyn_core/internal/pkg/network"
)

var (
	// ErrNoDefaultModel indicates no factory serves a kind and capability.
	ErrNoDefaultModel = errors.New("no default model")
	// ErrAmbiguousDefault indicates several factories serve a kind and capability
	// with no unique richest one.
	ErrAmbiguousDefault = errors.New("ambiguous default model")
)

// Strictness selects what happens when a factory produces a model lacking the
// requested capability.
type Strictness int

const (
	// Strict fails with model.ErrCapabilityMismatch.
	Strict Strictness = iota
	// Lenient logs and returns a nil model.
	Lenient
)

func (s Strictness) String() string {
	if s == Lenient {
		return "lenient"
	}
	return "strict"
}

// FactorySource lists the default factories registered for a kind.
type FactorySource interface {
	FactoriesFor(kind network.Kind) []catalog.Factory
}

// Resolver holds no state besides its source and is safe to share.
type Resolver struct {
	src FactorySource
	log logr.Logger
}

func New(src FactorySource, log logr.Logger) *Resolver {
	if log.GetSink() == nil {
		log = logr.Discard()
	}
	return &Resolver{src: src, log: log}
}

// Resolve returns the default model of ref able to serve capability c.
func (r *Resolver) Resolve(ref network.Ref, c model.Capability, s Strictness) (model.Model, error) {
	factory, err := r.choose(ref.Kind, c)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ref, err)
	}

	m := factory.New(ref)
	if m == nil || !m.Capabilities().Has(c) {
		err := fmt.Errorf("%w: default model of %s does not implement %s", model.ErrCapabilityMismatch, ref, c)
		if s == Strict {
			return nil, err
		}
		r.log.Info("default model dropped", "equipment", ref.String(), "capability", c.String(), "reason", err.Error())
		return nil, nil
	}
	r.log.V(1).Info("default model resolved", "equipment", ref.String(), "capability", c.String(), "lib", m.Lib())
	return m, nil
}

func (r *Resolver) choose(kind network.Kind, c model.Capability) (catalog.Factory, error) {
	factories := r.src.FactoriesFor(kind)
	switch len(factories) {
	case 0:
		return catalog.Factory{}, fmt.Errorf("%w for %s", ErrNoDefaultModel, kind)
	case 1:
		return factories[0], nil
	}

	candidates := make([]catalog.Factory, 0, len(factories))
	for _, f := range factories {
		if f.Caps.Has(c) {
			candidates = append(candidates, f)
		}
	}
	if len(candidates) == 0 {
		return catalog.Factory{}, fmt.Errorf("%w for %s x %s", ErrNoDefaultModel, kind, c)
	}

	for i, f := range candidates {
		richest := true
		for j, o := range candidates {
			if i == j {
				continue
			}
			if f.Caps == o.Caps || !f.Caps.Contains(o.Caps) {
				richest = false
				break
			}
		}
		if richest {
			return f, nil
		}
	}
	return catalog.Factory{}, fmt.Errorf("%w: %d factories for %s x %s", ErrAmbiguousDefault, len(candidates), kind, c)
}
