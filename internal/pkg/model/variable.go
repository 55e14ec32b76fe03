package model

import "fmt"

// Var is the role of a variable in a library's naming scheme. Libraries map the
// roles they expose to concrete variable names.
type Var int

const (
	VarTerminal Var = iota
	VarTerminal1
	VarTerminal2
	VarSwitchOff
	VarSwitchOff1
	VarSwitchOff2
	VarSwitchOffAutomaton
	VarNumCC
	VarU
	VarOmega
	VarOmegaRef
	VarRunning
	VarCurrent1
	VarCurrent2
	VarState
	VarDisableLimits

	// roles exposed by automata and synchronizers
	VarMonitoredCurrent
	VarOrder
	VarAutomatonExists
	VarMonitoredU
	VarTripSignal
	VarGroupOmega
	VarGroupOmegaRef
	VarGroupRunning
	VarNodeNumCC
	VarSetPoint
)

var varNames = [...]string{
	VarTerminal:           "Terminal",
	VarTerminal1:          "Terminal1",
	VarTerminal2:          "Terminal2",
	VarSwitchOff:          "SwitchOff",
	VarSwitchOff1:         "SwitchOff1",
	VarSwitchOff2:         "SwitchOff2",
	VarSwitchOffAutomaton: "SwitchOffAutomaton",
	VarNumCC:              "NumCC",
	VarU:                  "U",
	VarOmega:              "Omega",
	VarOmegaRef:           "OmegaRef",
	VarRunning:            "Running",
	VarCurrent1:           "Current1",
	VarCurrent2:           "Current2",
	VarState:              "State",
	VarDisableLimits:      "DisableLimits",
	VarMonitoredCurrent:   "MonitoredCurrent",
	VarOrder:              "Order",
	VarAutomatonExists:    "AutomatonExists",
	VarMonitoredU:         "MonitoredU",
	VarTripSignal:         "TripSignal",
	VarGroupOmega:         "GroupOmega",
	VarGroupOmegaRef:      "GroupOmegaRef",
	VarGroupRunning:       "GroupRunning",
	VarNodeNumCC:          "NodeNumCC",
	VarSetPoint:           "SetPoint",
}

func (v Var) String() string {
	if v >= 0 && int(v) < len(varNames) {
		return varNames[v]
	}
	return fmt.Sprintf("Var(%d)", int(v))
}

// VarPair links a variable of the initiating model to a variable of its target.
type VarPair struct {
	Source string
	Target string
}

// Placeholders substituted by the serializer.
const (
	IndexPlaceholder    = "@INDEX@"
	NamePlaceholder     = "@NAME@"
	StaticIDPlaceholder = "@STATIC_ID@"
	NodePlaceholder     = "@NODE@"
)

// Binder resolves role pairs into variable names, keeping the first failure.
type Binder struct {
	source Model
	target Model
	pairs  []VarPair
	err    error
}

func Bind(source, target Model) *Binder {
	return &Binder{source: source, target: target, pairs: make([]VarPair, 0)}
}

func (b *Binder) Link(sourceVar, targetVar Var) *Binder {
	if b.err != nil {
		return b
	}
	s, ok := b.source.VarName(sourceVar)
	if !ok {
		b.err = missingVar(b.source, sourceVar)
		return b
	}
	t, ok := b.target.VarName(targetVar)
	if !ok {
		b.err = missingVar(b.target, targetVar)
		return b
	}
	b.pairs = append(b.pairs, VarPair{Source: s, Target: t})
	return b
}

func (b *Binder) Result() ([]VarPair, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.pairs, nil
}

func missingVar(m Model, v Var) error {
	return fmt.Errorf("%w: library %s of model %s exposes no %s variable", ErrCapabilityMismatch, m.Lib(), m.DynamicModelID(), v)
}
