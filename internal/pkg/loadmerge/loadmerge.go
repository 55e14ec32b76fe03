// Package loadmerge merges co-located loads sharing a power sign combination into
// one synthetic load.
package loadmerge

import (
	"github.com/go-logr/logr"

	"github.com/ohowland/dyn_core/internal/pkg/network"
)

// Bucket is a sign combination of (P0, Q0). Zero counts as positive.
type Bucket int

const (
	PP Bucket = iota
	PN
	NP
	NN
)

func (b Bucket) String() string {
	switch b {
	case PP:
		return "PP"
	case PN:
		return "PN"
	case NP:
		return "NP"
	default:
		return "NN"
	}
}

// BucketOf returns the sign bucket of a load.
func BucketOf(l network.LoadData) Bucket {
	switch {
	case l.P0 >= 0 && l.Q0 >= 0:
		return PP
	case l.P0 >= 0:
		return PN
	case l.Q0 >= 0:
		return NP
	default:
		return NN
	}
}

// Aggregate replaces several loads of one bus and bucket.
type Aggregate struct {
	ID      string
	Bus     string
	Bucket  Bucket
	P0      float64
	Q0      float64
	P       float64
	Q       float64
	Sources []string
}

// Equipment returns the synthetic load.
func (a Aggregate) Equipment() network.Equipment {
	return network.Equipment{
		ID:        a.ID,
		Kind:      network.KindLoad,
		Terminals: []string{a.Bus},
		Load:      &network.LoadData{P0: a.P0, Q0: a.Q0, P: a.P, Q: a.Q},
	}
}

// AggregateID names the synthetic load of a bus and bucket.
func AggregateID(busID string, b Bucket) string {
	return busID + "_merged_loads_" + b.String()
}

type options struct {
	exclude func(id string) bool
	log     logr.Logger
}

// Option configures Merge.
type Option func(*options)

// Exclude keeps the loads for which skip returns true out of any aggregate.
func Exclude(skip func(id string) bool) Option {
	return func(o *options) {
		o.exclude = skip
	}
}

// WithLogger logs each aggregate created.
func WithLogger(log logr.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// Merge aggregates the loads of net in place and returns the aggregates created,
// in bus order. It never fails: a bucket that cannot be substituted is left as is.
// Callers pass a working copy, never a shared network.
func Merge(net *network.Network, opts ...Option) []Aggregate {
	o := options{exclude: func(string) bool { return false }, log: logr.Discard()}
	for _, opt := range opts {
		opt(&o)
	}

	aggregates := make([]Aggregate, 0)
	for _, bus := range net.Buses() {
		loads := net.LoadsOnBus(bus.ID)
		if len(loads) < 2 {
			continue
		}

		buckets := make(map[Bucket][]network.Equipment)
		for _, l := range loads {
			if l.Load == nil || o.exclude(l.ID) {
				continue
			}
			b := BucketOf(*l.Load)
			buckets[b] = append(buckets[b], l)
		}

		for _, b := range []Bucket{PP, PN, NP, NN} {
			members := buckets[b]
			if len(members) < 2 {
				continue
			}
			agg := aggregate(bus.ID, b, members)
			old := make([]network.Ref, 0, len(members))
			for _, m := range members {
				old = append(old, m.Ref())
			}
			if err := net.Substitute(old, agg.Equipment()); err != nil {
				o.log.Info("loads left unmerged", "bus", bus.ID, "bucket", b.String(), "reason", err.Error())
				continue
			}
			o.log.V(1).Info("loads merged", "bus", bus.ID, "aggregate", agg.ID, "count", len(members))
			aggregates = append(aggregates, agg)
		}
	}
	return aggregates
}

func aggregate(busID string, b Bucket, members []network.Equipment) Aggregate {
	agg := Aggregate{ID: AggregateID(busID, b), Bus: busID, Bucket: b, Sources: make([]string, 0, len(members))}
	for _, m := range members {
		agg.P0 += m.Load.P0
		agg.Q0 += m.Load.Q0
		agg.P += m.Load.P
		agg.Q += m.Load.Q
		agg.Sources = append(agg.Sources, m.ID)
	}
	return agg
}
