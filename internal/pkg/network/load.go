package network

import (
	"encoding/json"
	"fmt"

	"github.com/ohowland/dyn_core/internal/pkg/config"
)

// Config is the file representation of a network.
type Config struct {
	Buses      []BusConfig       `json:"Buses"`
	Equipments []EquipmentConfig `json:"Equipments"`
}

type BusConfig struct {
	ID string `json:"ID"`
}

// EquipmentConfig describes one equipment. Injections use Bus, branches use Bus1
// and Bus2.
type EquipmentConfig struct {
	ID     string  `json:"ID"`
	Kind   Kind    `json:"Kind"`
	Bus    string  `json:"Bus"`
	Bus1   string  `json:"Bus1"`
	Bus2   string  `json:"Bus2"`
	P0     float64 `json:"P0"`
	Q0     float64 `json:"Q0"`
	P      float64 `json:"P"`
	Q      float64 `json:"Q"`
	RatedS float64 `json:"RatedS"`
}

// New configures and returns a Network. Connected components are computed from
// the declared branches.
func New(jsonConfig []byte) (*Network, error) {
	cfg := Config{}
	if err := json.Unmarshal(jsonConfig, &cfg); err != nil {
		return nil, err
	}

	n := NewNetwork()
	for _, b := range cfg.Buses {
		if err := n.AddBus(Bus{ID: b.ID}); err != nil {
			return nil, err
		}
	}
	for _, ec := range cfg.Equipments {
		if ec.Kind == KindBus {
			return nil, fmt.Errorf("equipment %s: buses belong in Buses", ec.ID)
		}
		if err := n.Add(ec.equipment()); err != nil {
			return nil, err
		}
	}
	n.AssignComponents()
	return n, nil
}

// Load reads the network file at path.
func Load(path string) (*Network, error) {
	raw, err := config.Read(path)
	if err != nil {
		return nil, err
	}
	n, err := New(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return n, nil
}

func (ec EquipmentConfig) equipment() Equipment {
	e := Equipment{ID: ec.ID, Kind: ec.Kind}
	switch ec.Kind.terminals() {
	case 1:
		e.Terminals = []string{ec.Bus}
	case 2:
		e.Terminals = []string{ec.Bus1, ec.Bus2}
	}
	switch ec.Kind {
	case KindLoad:
		e.Load = &LoadData{P0: ec.P0, Q0: ec.Q0, P: ec.P, Q: ec.Q}
	case KindGenerator:
		e.Generator = &GeneratorData{RatedS: ec.RatedS}
	}
	return e
}
