// Package assembler builds the connection graph of a dynamic simulation: which
// model represents each equipment, the connections between adjacent models, the
// deduplicated connector shapes they use and the indices of order sensitive
// connections.
//
// A run moves through Collect, Discover, Connect, Index and Freeze. It is single
// threaded and deterministic: the same ordered input gives the same shapes,
// connections and indices. Any fatal condition aborts the run without a result.
package assembler

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"github.com/ohowland/dyn_core/internal/pkg/defaults"
	"github.com/ohowland/dyn_core/internal/pkg/frequency"
	"github.com/ohowland/dyn_core/internal/pkg/metrics"
	"github.com/ohowland/dyn_core/internal/pkg/model"
	"github.com/ohowland/dyn_core/internal/pkg/network"
)

type defaultKey struct {
	ref network.Ref
	cap model.Capability
}

// run holds the private state of one assembly.
type run struct {
	ctx  Context
	opts Options
	log  logr.Logger

	models      []model.Model
	byID        map[string]model.Model
	byEquipment map[network.Ref]model.Model
	defaults    map[defaultKey]model.Model

	shapes      *registry
	connections []Connection
	indexers    map[string]*indexer
	warnings    []Warning
}

// Assemble builds the connection graph of models, given in declaration order.
func Assemble(ctx Context, models []model.Model, opts Options) (*Result, error) {
	start := time.Now()
	res, err := assemble(ctx, models, opts)
	if err != nil {
		ctx.Metrics.ObserveRun(metrics.OutcomeFailure, time.Since(start))
		return nil, err
	}
	ctx.Metrics.ObserveRun(metrics.OutcomeSuccess, time.Since(start))
	ctx.Metrics.AddShapes(len(res.shapes))
	ctx.Metrics.AddConnections(len(res.connections))
	ctx.Metrics.AddWarnings(len(res.warnings))
	return res, nil
}

func assemble(ctx Context, models []model.Model, opts Options) (*Result, error) {
	if ctx.Network == nil || ctx.Defaults == nil {
		return nil, errors.New("assembler: context needs a network and a default resolver")
	}
	pid, err := uuid.NewUUID()
	if err != nil {
		return nil, err
	}
	log := ctx.Log
	if log.GetSink() == nil {
		log = logr.Discard()
	}

	r := &run{
		ctx:         ctx,
		opts:        opts,
		log:         log.WithValues("pid", pid.String()),
		models:      make([]model.Model, 0, len(models)+1),
		byID:        make(map[string]model.Model),
		byEquipment: make(map[network.Ref]model.Model),
		defaults:    make(map[defaultKey]model.Model),
		shapes:      newRegistry(),
		connections: make([]Connection, 0),
		indexers:    make(map[string]*indexer),
		warnings:    make([]Warning, 0),
	}

	if err := r.collect(models); err != nil {
		return nil, err
	}
	if err := r.synchronize(); err != nil {
		return nil, err
	}
	for i := 0; i < len(r.models); i++ {
		init, ok := r.models[i].(model.Initiator)
		if !ok {
			continue
		}
		if err := r.connect(init); err != nil {
			return nil, err
		}
	}

	res := r.freeze(pid)
	r.log.Info("assembly complete", "models", len(res.models), "shapes", len(res.shapes),
		"connections", len(res.connections), "warnings", len(res.warnings))
	return res, nil
}

// collect validates the explicit models and indexes them. Ids and equipment of
// dropped models stay taken.
func (r *run) collect(models []model.Model) error {
	seenIDs := make(map[string]bool)
	seenRefs := make(map[network.Ref]string)
	for _, m := range models {
		id := m.DynamicModelID()
		if id == "" || id == model.NetworkID {
			return fmt.Errorf("%w: invalid dynamic model id %q", ErrDuplicateModel, id)
		}
		if _, exists := seenIDs[id]; exists {
			return fmt.Errorf("%w: dynamic model id %s", ErrDuplicateModel, id)
		}
		seenIDs[id] = true

		em, bound := m.(model.EquipmentModel)
		if bound {
			ref := em.Equipment()
			if _, ok := r.ctx.Network.FindEquipment(ref.Kind, ref.ID); !ok {
				return fmt.Errorf("%w: model %s is bound to missing %s", model.ErrUnresolvableReference, id, ref)
			}
			if other, exists := seenRefs[ref]; exists {
				return fmt.Errorf("%w: %s is bound to both %s and %s", ErrDuplicateModel, ref, other, id)
			}
			seenRefs[ref] = id
			if r.opts.MainComponentOnly && !r.inMainComponent(ref) {
				if r.opts.Mode == Strict {
					return fmt.Errorf("%w: model %s on %s", ErrOutsideMainComponent, id, ref)
				}
				r.warn(Warning{Model: id, Equipment: ref, Reason: ErrOutsideMainComponent.Error()})
				continue
			}
			r.byEquipment[ref] = m
		}
		r.byID[id] = m
		r.models = append(r.models, m)
	}
	return nil
}

func (r *run) inMainComponent(ref network.Ref) bool {
	bus, ok := r.ctx.Network.BusOf(ref, network.SideNone)
	if !ok {
		bus, ok = r.ctx.Network.BusOf(ref, network.SideTwo)
	}
	return !ok || bus.Component == 0
}

// synchronize appends the frequency synchronizer unless it is inert.
func (r *run) synchronize() error {
	if r.ctx.Libraries == nil {
		if r.opts.Synchronization == frequency.None {
			return nil
		}
		return errors.New("assembler: context needs libraries for frequency synchronization")
	}
	sync, err := frequency.Select(r.models, r.ctx.Network, r.ctx.Libraries, r.opts.Synchronization)
	if err != nil {
		return err
	}
	if sync == nil || sync.Inert() {
		return nil
	}
	if _, exists := r.byID[sync.DynamicModelID()]; exists {
		return fmt.Errorf("%w: dynamic model id %s is reserved", ErrDuplicateModel, sync.DynamicModelID())
	}
	r.log.V(1).Info("frequency synchronizer", "variant", sync.Variant().String(), "participants", len(sync.Participants()))
	r.byID[sync.DynamicModelID()] = sync
	r.models = append(r.models, sync)
	return nil
}

// connect discovers the targets of one initiator and records its connections.
func (r *run) connect(init model.Initiator) error {
	id := init.DynamicModelID()
	reqs, err := init.Requests(r.ctx.Network)
	if err != nil {
		return fmt.Errorf("model %s: %w", id, err)
	}

	for _, req := range reqs {
		target, err := r.target(id, req)
		if err != nil {
			return err
		}
		if target == nil {
			continue
		}
		if !target.Capabilities().Has(req.Capability) {
			return fmt.Errorf("%w: model %s requires %s from %s (%s), which claims %s",
				model.ErrCapabilityMismatch, id, req.Capability, target.DynamicModelID(), target.Lib(), target.Capabilities())
		}
		pairs, err := init.VarPairs(req, target)
		if err != nil {
			return fmt.Errorf("model %s: %w", id, err)
		}

		shape := NewShape(init.Lib(), target.Lib(), pairs)
		entry, created := r.shapes.intern(shape, req.Side)
		if created {
			r.log.V(1).Info("shape created", "shape", entry.ID, "lib1", entry.Lib1, "lib2", entry.Lib2)
		}

		source, dest := endpointOf(init), endpointOf(target)
		if shape.Indexed() {
			source.Index = r.indexer(id).index(req.Participant)
			source.Indexed = true
		}
		conn := Connection{Shape: shape.Key(), ShapeID: entry.ID, First: source, Second: dest}
		if shape.swapped {
			conn.First, conn.Second = dest, source
		}
		r.connections = append(r.connections, conn)
		r.log.V(1).Info("connection", "shape", entry.ID, "from", id, "to", dest.ModelID, "name", dest.Name)
	}
	return nil
}

func (r *run) indexer(id string) *indexer {
	ix, ok := r.indexers[id]
	if !ok {
		ix = newIndexer()
		r.indexers[id] = ix
	}
	return ix
}

// target resolves the model a request connects to. A nil model without error
// means the connection is skipped in lenient mode.
func (r *run) target(source string, req model.Request) (model.Model, error) {
	if req.Target.Model != "" {
		m, ok := r.byID[req.Target.Model]
		if !ok {
			return nil, fmt.Errorf("%w: model %s targets missing model %s", model.ErrUnresolvableReference, source, req.Target.Model)
		}
		return m, nil
	}

	ref := req.Target.Equipment
	if m, ok := r.byEquipment[ref]; ok {
		return m, nil
	}
	if _, ok := r.ctx.Network.FindEquipment(ref.Kind, ref.ID); !ok {
		return nil, fmt.Errorf("%w: model %s targets missing %s", model.ErrUnresolvableReference, source, ref)
	}

	key := defaultKey{ref, req.Capability}
	if m, ok := r.defaults[key]; ok {
		return m, nil
	}
	m, err := r.ctx.Defaults.Resolve(ref, req.Capability, r.opts.Mode.strictness())
	if err != nil {
		if r.opts.Mode == Lenient && errors.Is(err, defaults.ErrNoDefaultModel) {
			r.warn(Warning{Model: source, Equipment: ref, Reason: err.Error()})
			return nil, nil
		}
		return nil, fmt.Errorf("model %s: %w", source, err)
	}
	if m == nil {
		r.warn(Warning{Model: source, Equipment: ref, Reason: "default model lacks " + req.Capability.String()})
		return nil, nil
	}

	r.defaults[key] = m
	if _, anchored := m.(model.Anchored); !anchored {
		if _, exists := r.byID[m.DynamicModelID()]; !exists {
			r.byID[m.DynamicModelID()] = m
			r.models = append(r.models, m)
		}
	}
	return m, nil
}

func (r *run) warn(w Warning) {
	r.log.Info("assembly warning", "model", w.Model, "equipment", w.Equipment.String(), "reason", w.Reason)
	r.warnings = append(r.warnings, w)
}

// freeze copies the run state into an immutable result.
func (r *run) freeze(pid uuid.UUID) *Result {
	res := &Result{
		pid:         pid,
		models:      append([]model.Model(nil), r.models...),
		shapes:      make([]ShapeEntry, 0, len(r.shapes.entries)),
		shapeIndex:  make(map[Key]int, len(r.shapes.entries)),
		connections: append([]Connection(nil), r.connections...),
		warnings:    append([]Warning(nil), r.warnings...),
	}
	for i, e := range r.shapes.entries {
		res.shapes = append(res.shapes, e)
		res.shapeIndex[e.Key()] = i
	}

	sets := make([]model.ParameterSet, 0)
	byID := make(map[string]int)
	for _, m := range r.models {
		pc, ok := m.(model.ParameterContributor)
		if !ok {
			continue
		}
		for _, set := range pc.ParameterSets() {
			if i, exists := byID[set.ID]; exists {
				sets[i].Merge(set)
				continue
			}
			byID[set.ID] = len(sets)
			sets = append(sets, set.Clone())
		}
	}
	res.parameterSets = sets
	return res
}
