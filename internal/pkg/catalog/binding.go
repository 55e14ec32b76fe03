package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/ohowland/dyn_core/internal/pkg/config"
	"github.com/ohowland/dyn_core/internal/pkg/model"
	"github.com/ohowland/dyn_core/internal/pkg/network"
)

// Binding declares one explicit dynamic model. Kind is optional and checked
// against the library when set. Side selects the monitored side of a current
// limit automaton.
type Binding struct {
	DynamicModelID string  `json:"DynamicModelID"`
	StaticID       string  `json:"StaticID"`
	Lib            string  `json:"Lib"`
	ParameterSetID string  `json:"ParameterSetID"`
	Kind           string  `json:"Kind"`
	Inertia        float64 `json:"Inertia"`
	Side           int     `json:"Side"`
}

type bindingsConfig struct {
	Models []Binding `json:"Models"`
}

// NewBindings parses a JSON list of bindings, keeping declaration order.
func NewBindings(jsonConfig []byte) ([]Binding, error) {
	cfg := bindingsConfig{}
	if err := json.Unmarshal(jsonConfig, &cfg); err != nil {
		return nil, err
	}
	return cfg.Models, nil
}

// LoadBindings reads the binding file at path.
func LoadBindings(path string) ([]Binding, error) {
	raw, err := config.Read(path)
	if err != nil {
		return nil, err
	}
	bindings, err := NewBindings(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return bindings, nil
}

// Build turns a binding into a model instance.
func (c *Catalog) Build(b Binding) (model.Model, error) {
	lib, ok := c.libs[b.Lib]
	if !ok {
		return nil, fmt.Errorf("%w: %s (model %s)", ErrUnknownLibrary, b.Lib, b.DynamicModelID)
	}
	if b.DynamicModelID == "" {
		return nil, fmt.Errorf("binding of %s with library %s has no DynamicModelID", b.StaticID, b.Lib)
	}
	if b.StaticID == "" {
		return nil, fmt.Errorf("model %s has no StaticID", b.DynamicModelID)
	}
	kind, err := c.bindingKind(b, lib)
	if err != nil {
		return nil, err
	}

	switch lib.Category {
	case model.CategoryGenerator:
		return model.NewGenerator(b.DynamicModelID, b.StaticID, b.ParameterSetID, lib, b.Inertia), nil
	case model.CategoryLoad:
		return model.NewLoad(b.DynamicModelID, b.StaticID, b.ParameterSetID, lib), nil
	case model.CategoryBranch:
		return model.NewBranch(b.DynamicModelID, network.Ref{Kind: kind, ID: b.StaticID}, b.ParameterSetID, lib), nil
	case model.CategoryBus:
		return model.NewBusModel(b.DynamicModelID, b.StaticID, b.ParameterSetID, lib), nil
	case model.CategoryCurrentLimitAutomaton:
		side := network.Side(b.Side)
		if side != network.SideNone && side != network.SideOne && side != network.SideTwo {
			return nil, fmt.Errorf("model %s: invalid side %d", b.DynamicModelID, b.Side)
		}
		return model.NewCurrentLimitAutomaton(b.DynamicModelID, b.StaticID, side, b.ParameterSetID, lib), nil
	case model.CategoryUnderVoltageAutomaton:
		return model.NewUnderVoltageAutomaton(b.DynamicModelID, b.StaticID, b.ParameterSetID, lib), nil
	default:
		return nil, fmt.Errorf("%w: %s cannot be bound explicitly", ErrIncompatibleLibrary, lib.Name)
	}
}

// BuildAll builds every binding, keeping declaration order.
func (c *Catalog) BuildAll(bindings []Binding) ([]model.Model, error) {
	models := make([]model.Model, 0, len(bindings))
	for _, b := range bindings {
		m, err := c.Build(b)
		if err != nil {
			return nil, err
		}
		models = append(models, m)
	}
	return models, nil
}

// bindingKind returns the equipment kind a binding refers to. Automata monitor
// equipment chosen by their own lookup and accept any kind.
func (c *Catalog) bindingKind(b Binding, lib *model.Library) (network.Kind, error) {
	if b.Kind == "" {
		if len(lib.Kinds) == 0 {
			return 0, nil
		}
		return lib.Kinds[0], nil
	}
	kind, err := network.ParseKind(b.Kind)
	if err != nil {
		return 0, fmt.Errorf("model %s: %w", b.DynamicModelID, err)
	}
	if !lib.Accepts(kind) {
		return 0, fmt.Errorf("%w: %s cannot model %s %s", ErrIncompatibleLibrary, lib.Name, kind, b.StaticID)
	}
	return kind, nil
}
