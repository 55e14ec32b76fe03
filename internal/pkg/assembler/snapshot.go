package assembler

import (
	"github.com/ohowland/dyn_core/internal/pkg/model"
)

// Snapshot is a plain record of a result, consumed by stores and publishers.
type Snapshot struct {
	PID           string               `json:"PID" bson:"_id"`
	Models        []ModelRecord        `json:"Models" bson:"models"`
	Shapes        []ShapeRecord        `json:"Shapes" bson:"shapes"`
	Connections   []ConnectionRecord   `json:"Connections" bson:"connections"`
	ParameterSets []ParameterSetRecord `json:"ParameterSets" bson:"parameter_sets"`
	Warnings      []string             `json:"Warnings" bson:"warnings"`
}

type ModelRecord struct {
	ID             string `json:"ID" bson:"id"`
	Lib            string `json:"Lib" bson:"lib"`
	ParameterSetID string `json:"ParameterSetID" bson:"parameter_set_id"`
	StaticID       string `json:"StaticID,omitempty" bson:"static_id,omitempty"`
}

type ShapeRecord struct {
	ID    string       `json:"ID" bson:"id"`
	Lib1  string       `json:"Lib1" bson:"lib1"`
	Lib2  string       `json:"Lib2" bson:"lib2"`
	Pairs []PairRecord `json:"Pairs" bson:"pairs"`
}

type PairRecord struct {
	Var1 string `json:"Var1" bson:"var1"`
	Var2 string `json:"Var2" bson:"var2"`
}

// ConnectionRecord references its shape by ID. Index1 and Index2 are nil when the
// endpoint is not indexed.
type ConnectionRecord struct {
	Shape  string `json:"Shape" bson:"shape"`
	Model1 string `json:"Model1" bson:"model1"`
	Name1  string `json:"Name1,omitempty" bson:"name1,omitempty"`
	Index1 *int   `json:"Index1,omitempty" bson:"index1,omitempty"`
	Model2 string `json:"Model2" bson:"model2"`
	Name2  string `json:"Name2,omitempty" bson:"name2,omitempty"`
	Index2 *int   `json:"Index2,omitempty" bson:"index2,omitempty"`
}

type ParameterSetRecord struct {
	ID         string            `json:"ID" bson:"id"`
	Params     []ParamRecord     `json:"Params" bson:"params"`
	References []ReferenceRecord `json:"References" bson:"references"`
}

type ParamRecord struct {
	Name  string `json:"Name" bson:"name"`
	Type  string `json:"Type" bson:"type"`
	Value string `json:"Value" bson:"value"`
}

type ReferenceRecord struct {
	Name       string `json:"Name" bson:"name"`
	Type       string `json:"Type" bson:"type"`
	Origin     string `json:"Origin" bson:"origin"`
	OriginName string `json:"OriginName" bson:"origin_name"`
}

// Snapshot records the result.
func (r *Result) Snapshot() Snapshot {
	s := Snapshot{
		PID:           r.pid.String(),
		Models:        make([]ModelRecord, 0, len(r.models)),
		Shapes:        make([]ShapeRecord, 0, len(r.shapes)),
		Connections:   make([]ConnectionRecord, 0, len(r.connections)),
		ParameterSets: make([]ParameterSetRecord, 0, len(r.parameterSets)),
		Warnings:      make([]string, 0, len(r.warnings)),
	}
	for _, m := range r.models {
		rec := ModelRecord{ID: m.DynamicModelID(), Lib: m.Lib(), ParameterSetID: m.ParameterSetID()}
		if em, ok := m.(model.EquipmentModel); ok {
			rec.StaticID = em.Equipment().ID
		}
		s.Models = append(s.Models, rec)
	}
	for _, e := range r.shapes {
		rec := ShapeRecord{ID: e.ID, Lib1: e.Lib1, Lib2: e.Lib2, Pairs: make([]PairRecord, 0, len(e.Pairs))}
		for _, p := range e.Pairs {
			rec.Pairs = append(rec.Pairs, PairRecord{Var1: p.Source, Var2: p.Target})
		}
		s.Shapes = append(s.Shapes, rec)
	}
	for _, c := range r.connections {
		s.Connections = append(s.Connections, ConnectionRecord{
			Shape:  c.ShapeID,
			Model1: c.First.ModelID,
			Name1:  c.First.Name,
			Index1: indexOf(c.First),
			Model2: c.Second.ModelID,
			Name2:  c.Second.Name,
			Index2: indexOf(c.Second),
		})
	}
	for _, set := range r.parameterSets {
		rec := ParameterSetRecord{
			ID:         set.ID,
			Params:     make([]ParamRecord, 0, len(set.Params)),
			References: make([]ReferenceRecord, 0, len(set.References)),
		}
		for _, p := range set.Params {
			rec.Params = append(rec.Params, ParamRecord{Name: p.Name, Type: p.Type.String(), Value: p.Value})
		}
		for _, ref := range set.References {
			rec.References = append(rec.References, ReferenceRecord{
				Name: ref.Name, Type: ref.Type.String(), Origin: ref.Origin, OriginName: ref.OriginName,
			})
		}
		s.ParameterSets = append(s.ParameterSets, rec)
	}
	for _, w := range r.warnings {
		s.Warnings = append(s.Warnings, w.String())
	}
	return s
}

func indexOf(e Endpoint) *int {
	if !e.Indexed {
		return nil
	}
	i := e.Index
	return &i
}
