package assembler

import (
	"github.com/ohowland/dyn_core/internal/pkg/frequency"
	"github.com/ohowland/dyn_core/internal/pkg/model"
	"github.com/ohowland/dyn_core/internal/pkg/network"
)

// Diagnose runs a lenient assembly and lists, in discovery order and without
// repetition, the equipment left without a usable default model. It still fails
// on errors that are fatal in both modes.
func Diagnose(ctx Context, models []model.Model) ([]network.Ref, error) {
	opts := Options{Mode: Lenient, Synchronization: frequency.Auto}
	if ctx.Libraries == nil {
		opts.Synchronization = frequency.None
	}
	res, err := assemble(ctx, models, opts)
	if err != nil {
		return nil, err
	}
	seen := make(map[network.Ref]bool)
	refs := make([]network.Ref, 0)
	for _, w := range res.warnings {
		if w.Equipment.ID == "" || seen[w.Equipment] {
			continue
		}
		seen[w.Equipment] = true
		refs = append(refs, w.Equipment)
	}
	return refs, nil
}
