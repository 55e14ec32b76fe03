// Package catalog is the static registry of model libraries: their capabilities,
// their variable naming schemes and the factories producing default models per
// equipment kind. A Catalog is built once and shared read-only between runs.
package catalog

import (
	"errors"
	"fmt"

	"github.com/ohowland/dyn_core/internal/pkg/model"
	"github.com/ohowland/dyn_core/internal/pkg/network"
)

var (
	// ErrUnknownLibrary indicates a library name absent from the catalog.
	ErrUnknownLibrary = errors.New("unknown library")
	// ErrIncompatibleLibrary indicates a library used with the wrong equipment kind or model type.
	ErrIncompatibleLibrary = errors.New("incompatible library")
)

// Factory builds the default model of one equipment. Caps is the capability set of
// the models it produces.
type Factory struct {
	Caps model.CapabilitySet
	New  func(ref network.Ref) model.Model
}

// Catalog maps library names to libraries and equipment kinds to default factories.
type Catalog struct {
	libs      map[string]*model.Library
	order     []string
	factories map[network.Kind][]Factory
}

func New() *Catalog {
	return &Catalog{
		libs:      make(map[string]*model.Library),
		order:     make([]string, 0),
		factories: make(map[network.Kind][]Factory),
	}
}

// Register adds a library.
func (c *Catalog) Register(lib model.Library) error {
	if lib.Name == "" {
		return fmt.Errorf("%w: library without a name", ErrIncompatibleLibrary)
	}
	if _, exists := c.libs[lib.Name]; exists {
		return fmt.Errorf("library %s already registered", lib.Name)
	}
	vars := make(map[model.Var]string, len(lib.Vars))
	for v, name := range lib.Vars {
		vars[v] = name
	}
	lib.Vars = vars
	lib.Kinds = append([]network.Kind(nil), lib.Kinds...)
	c.libs[lib.Name] = &lib
	c.order = append(c.order, lib.Name)
	return nil
}

// RegisterFactory appends a default factory for kind.
func (c *Catalog) RegisterFactory(kind network.Kind, f Factory) {
	c.factories[kind] = append(c.factories[kind], f)
}

// RegisterDefault registers the network anchored library libName as a default
// for kind.
func (c *Catalog) RegisterDefault(kind network.Kind, libName string) error {
	lib, ok := c.libs[libName]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownLibrary, libName)
	}
	if lib.Category != model.CategoryNetwork || !lib.Accepts(kind) {
		return fmt.Errorf("%w: %s cannot be the default of %s", ErrIncompatibleLibrary, libName, kind)
	}
	c.RegisterFactory(kind, Factory{
		Caps: lib.Caps,
		New: func(ref network.Ref) model.Model {
			return model.NewNetworkModel(ref, lib)
		},
	})
	return nil
}

// Library looks up a library by name.
func (c *Catalog) Library(name string) (*model.Library, bool) {
	lib, ok := c.libs[name]
	return lib, ok
}

// Libraries returns the library names in registration order.
func (c *Catalog) Libraries() []string {
	return append([]string(nil), c.order...)
}

// FactoriesFor returns the default factories of kind in registration order.
func (c *Catalog) FactoriesFor(kind network.Kind) []Factory {
	return append([]Factory(nil), c.factories[kind]...)
}
