package network

import (
	"fmt"
	"strings"
)

// Kind identifies the type of a piece of equipment in the static network.
type Kind int

const (
	KindBus Kind = iota
	KindGenerator
	KindLoad
	KindLine
	KindTransformer
	KindShunt
	KindStaticVarCompensator
	KindHvdcLine
)

var kindNames = map[Kind]string{
	KindBus:                  "Bus",
	KindGenerator:            "Generator",
	KindLoad:                 "Load",
	KindLine:                 "Line",
	KindTransformer:          "Transformer",
	KindShunt:                "Shunt",
	KindStaticVarCompensator: "StaticVarCompensator",
	KindHvdcLine:             "HvdcLine",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind is case insensitive.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if strings.EqualFold(name, s) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown equipment kind %q", s)
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// terminals is the number of bus attachments equipment of this kind has.
func (k Kind) terminals() int {
	switch k {
	case KindBus:
		return 0
	case KindLine, KindTransformer, KindHvdcLine:
		return 2
	default:
		return 1
	}
}

// IsBranch reports whether equipment of this kind joins two buses.
func (k Kind) IsBranch() bool {
	return k.terminals() == 2
}

// Side selects a terminal of a piece of equipment.
type Side int

const (
	SideNone Side = iota
	SideOne
	SideTwo
)

func (s Side) String() string {
	switch s {
	case SideOne:
		return "side1"
	case SideTwo:
		return "side2"
	default:
		return ""
	}
}

// Ref is an opaque reference to equipment owned by the network.
type Ref struct {
	Kind Kind
	ID   string
}

func (r Ref) String() string {
	return r.Kind.String() + " " + r.ID
}
