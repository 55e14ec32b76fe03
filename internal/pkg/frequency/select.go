package frequency

import (
	"fmt"

	"github.com/ohowland/dyn_core/internal/pkg/catalog"
	"github.com/ohowland/dyn_core/internal/pkg/model"
	"github.com/ohowland/dyn_core/internal/pkg/network"
)

// LibrarySource looks up libraries by name.
type LibrarySource interface {
	Library(name string) (*model.Library, bool)
}

// Gather returns the models claiming FrequencySynchronizable in declaration order,
// weighted by inertia times the rated power of their generator.
func Gather(models []model.Model, g network.Graph) Participants {
	ps := make(Participants, 0)
	for _, m := range models {
		if !m.Capabilities().Has(model.CapFrequencySynchronizable) {
			continue
		}
		ps = append(ps, Participant{Model: m, Weight: weight(m, g)})
	}
	return ps
}

func weight(m model.Model, g network.Graph) float64 {
	inertial, ok := m.(model.Inertial)
	if !ok {
		return 0
	}
	em, ok := m.(model.EquipmentModel)
	if !ok {
		return 0
	}
	ref := em.Equipment()
	e, ok := g.FindEquipment(ref.Kind, ref.ID)
	if !ok || e.Generator == nil {
		return 0
	}
	return inertial.Inertia() * e.Generator.RatedS
}

// Choose returns the variant of a run, false when no synchronizer is wanted.
func Choose(models []model.Model, mode Mode) (Variant, bool) {
	switch mode {
	case ForceOmegaRef:
		return OmegaRef, true
	case ForceSetPoint:
		return SetPoint, true
	case None:
		return OmegaRef, false
	}
	for _, m := range models {
		if m.Capabilities().Has(model.CapFixedFrequency) {
			return SetPoint, true
		}
	}
	return OmegaRef, true
}

// Select builds the synchronizer of a run. It returns nil when mode is None or
// when no model takes part.
func Select(models []model.Model, g network.Graph, libs LibrarySource, mode Mode) (*Synchronizer, error) {
	variant, ok := Choose(models, mode)
	if !ok {
		return nil, nil
	}
	ps := Gather(models, g)
	if len(ps) == 0 {
		return nil, nil
	}
	lib, ok := libs.Library(variant.String())
	if !ok {
		return nil, fmt.Errorf("%w: %s", catalog.ErrUnknownLibrary, variant)
	}
	return New(variant, lib, ps), nil
}
