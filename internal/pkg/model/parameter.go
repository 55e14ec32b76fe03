package model

import (
	"fmt"
	"strconv"
)

// ParamType is the declared type of a parameter value.
type ParamType int

const (
	Double ParamType = iota
	Int
	Bool
	String
)

func (t ParamType) String() string {
	switch t {
	case Double:
		return "DOUBLE"
	case Int:
		return "INT"
	case Bool:
		return "BOOL"
	case String:
		return "STRING"
	default:
		return fmt.Sprintf("ParamType(%d)", int(t))
	}
}

// Param is a named, typed value.
type Param struct {
	Name  string
	Type  ParamType
	Value string
}

// Reference is a parameter whose value is pulled from elsewhere, e.g. the network
// state, when the simulation starts.
type Reference struct {
	Name       string
	Type       ParamType
	Origin     string
	OriginName string
}

// ParameterSet is a named collection of parameters and references. Names are
// unique within a set; the first value added wins.
type ParameterSet struct {
	ID         string
	Params     []Param
	References []Reference
}

func NewParameterSet(id string) ParameterSet {
	return ParameterSet{ID: id, Params: make([]Param, 0), References: make([]Reference, 0)}
}

// AddParam appends a parameter, reporting false if the name is already taken.
func (s *ParameterSet) AddParam(name string, t ParamType, value string) bool {
	if _, ok := s.Param(name); ok {
		return false
	}
	s.Params = append(s.Params, Param{Name: name, Type: t, Value: value})
	return true
}

func (s *ParameterSet) AddDouble(name string, value float64) bool {
	return s.AddParam(name, Double, strconv.FormatFloat(value, 'g', -1, 64))
}

func (s *ParameterSet) AddInt(name string, value int) bool {
	return s.AddParam(name, Int, strconv.Itoa(value))
}

// AddReference appends a reference, reporting false if the name is already taken.
func (s *ParameterSet) AddReference(name string, t ParamType, origin, originName string) bool {
	for _, r := range s.References {
		if r.Name == name {
			return false
		}
	}
	s.References = append(s.References, Reference{Name: name, Type: t, Origin: origin, OriginName: originName})
	return true
}

func (s ParameterSet) Param(name string) (Param, bool) {
	for _, p := range s.Params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// Merge adds the parameters and references of o missing from s.
func (s *ParameterSet) Merge(o ParameterSet) {
	for _, p := range o.Params {
		s.AddParam(p.Name, p.Type, p.Value)
	}
	for _, r := range o.References {
		s.AddReference(r.Name, r.Type, r.Origin, r.OriginName)
	}
}

// Clone returns a deep copy.
func (s ParameterSet) Clone() ParameterSet {
	return ParameterSet{
		ID:         s.ID,
		Params:     append([]Param{}, s.Params...),
		References: append([]Reference{}, s.References...),
	}
}
