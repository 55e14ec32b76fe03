package catalog

import (
	"github.com/ohowland/dyn_core/internal/pkg/model"
	"github.com/ohowland/dyn_core/internal/pkg/network"
)

// node prefixes the variables of buses living in the network model.
const node = model.StaticIDPlaceholder + model.NodePlaceholder

func synchronousGenerator(name string, terminal string, transformer bool) model.Library {
	return model.Library{
		Name:     name,
		Category: model.CategoryGenerator,
		Kinds:    []network.Kind{network.KindGenerator},
		Caps: model.Caps(model.CapInjection, model.CapFrequencySynchronizable,
			model.CapControllable),
		Vars: map[model.Var]string{
			model.VarTerminal:           terminal,
			model.VarSwitchOff:          "generator_switchOffSignal1",
			model.VarSwitchOffAutomaton: "generator_switchOffSignal2",
			model.VarOmega:              "generator_omegaPu",
			model.VarOmegaRef:           "generator_omegaRefPu",
			model.VarRunning:            "generator_running",
			model.VarU:                  "generator_UStatorPu",
		},
		HasTransformer: transformer,
	}
}

func branch(name, prefix string, kind network.Kind) model.Library {
	return model.Library{
		Name:     name,
		Category: model.CategoryBranch,
		Kinds:    []network.Kind{kind},
		Caps:     model.Caps(model.CapBranch),
		Vars: map[model.Var]string{
			model.VarTerminal1:     prefix + "_terminal1",
			model.VarTerminal2:     prefix + "_terminal2",
			model.VarSwitchOff1:    prefix + "_switchOffSignal1",
			model.VarSwitchOff2:    prefix + "_switchOffSignal2",
			model.VarCurrent1:      prefix + "_iSide1",
			model.VarCurrent2:      prefix + "_iSide2",
			model.VarState:         prefix + "_state",
			model.VarDisableLimits: prefix + "_desactivate_currentLimits",
		},
	}
}

func networkInjection(name string, kind network.Kind, caps model.CapabilitySet) model.Library {
	return model.Library{
		Name:     name,
		Category: model.CategoryNetwork,
		Kinds:    []network.Kind{kind},
		Caps:     caps,
		Vars: map[model.Var]string{
			model.VarSwitchOff: model.NamePlaceholder + "_state",
		},
	}
}

// StandardLibraries returns the built-in libraries.
func StandardLibraries() []model.Library {
	controllableGenerator := networkInjection("NetworkControllableGenerator", network.KindGenerator,
		model.Caps(model.CapInjection, model.CapControllable))
	controllableGenerator.Vars[model.VarU] = model.NamePlaceholder + "_U_value"
	controllableGenerator.Vars[model.VarSwitchOffAutomaton] = model.NamePlaceholder + "_state"

	return []model.Library{
		synchronousGenerator("GeneratorSynchronousFourWindings", "generator_terminal", false),
		synchronousGenerator("GeneratorSynchronousThreeWindings", "generator_terminal", false),
		synchronousGenerator("GeneratorSynchronousFourWindingsTfo", "transformer_terminal", true),
		{
			Name:     "GeneratorFictitious",
			Category: model.CategoryGenerator,
			Kinds:    []network.Kind{network.KindGenerator},
			Caps:     model.Caps(model.CapInjection),
			Vars: map[model.Var]string{
				model.VarTerminal:  "generator_terminal",
				model.VarSwitchOff: "generator_switchOffSignal1",
			},
		},
		{
			Name:     "GeneratorPV",
			Category: model.CategoryGenerator,
			Kinds:    []network.Kind{network.KindGenerator},
			Caps:     model.Caps(model.CapInjection, model.CapControllable),
			Vars: map[model.Var]string{
				model.VarTerminal:           "generator_terminal",
				model.VarSwitchOff:          "generator_switchOffSignal1",
				model.VarSwitchOffAutomaton: "generator_switchOffSignal2",
				model.VarU:                  "generator_UPu",
			},
		},
		{
			Name:     "LoadAlphaBeta",
			Category: model.CategoryLoad,
			Kinds:    []network.Kind{network.KindLoad},
			Caps:     model.Caps(model.CapInjection),
			Vars: map[model.Var]string{
				model.VarTerminal:  "load_terminal",
				model.VarSwitchOff: "load_switchOffSignal1",
			},
		},
		{
			Name:     "LoadPQ",
			Category: model.CategoryLoad,
			Kinds:    []network.Kind{network.KindLoad},
			Caps:     model.Caps(model.CapInjection),
			Vars: map[model.Var]string{
				model.VarTerminal:  "load_terminal",
				model.VarSwitchOff: "load_switchOffSignal1",
			},
		},
		branch("Line", "line", network.KindLine),
		branch("TransformerFixedRatio", "transformer", network.KindTransformer),
		{
			Name:     "Bus",
			Category: model.CategoryBus,
			Kinds:    []network.Kind{network.KindBus},
			Caps:     model.Caps(model.CapBus),
			Vars: map[model.Var]string{
				model.VarTerminal:  "bus_terminal",
				model.VarSwitchOff: "bus_switchOff",
				model.VarNumCC:     "bus_numcc",
				model.VarU:         "bus_UPu",
			},
		},
		{
			Name:     "InfiniteBus",
			Category: model.CategoryBus,
			Kinds:    []network.Kind{network.KindBus},
			Caps:     model.Caps(model.CapBus, model.CapFixedFrequency),
			Vars: map[model.Var]string{
				model.VarTerminal:  "infiniteBus_terminal",
				model.VarSwitchOff: "infiniteBus_switchOff",
				model.VarNumCC:     "infiniteBus_numcc",
				model.VarU:         "infiniteBus_UPu",
			},
		},
		{
			Name:     "CurrentLimitAutomaton",
			Category: model.CategoryCurrentLimitAutomaton,
			Kinds:    []network.Kind{network.KindLine, network.KindTransformer},
			Vars: map[model.Var]string{
				model.VarMonitoredCurrent: "currentLimitAutomaton_IMonitored",
				model.VarOrder:            "currentLimitAutomaton_order",
				model.VarAutomatonExists:  "currentLimitAutomaton_AutomatonExists",
			},
		},
		{
			Name:     "UnderVoltageAutomaton",
			Category: model.CategoryUnderVoltageAutomaton,
			Kinds:    []network.Kind{network.KindGenerator},
			Vars: map[model.Var]string{
				model.VarMonitoredU: "underVoltageAutomaton_UMonitoredPu",
				model.VarTripSignal: "underVoltageAutomaton_switchOffSignal2",
			},
		},
		{
			Name:     "OmegaRef",
			Category: model.CategoryFrequencySynchronizer,
			Vars: map[model.Var]string{
				model.VarGroupOmega:    "omega_grp_" + model.IndexPlaceholder,
				model.VarGroupOmegaRef: "omegaRef_grp_" + model.IndexPlaceholder,
				model.VarGroupRunning:  "running_grp_" + model.IndexPlaceholder,
				model.VarNodeNumCC:     "numcc_node_" + model.IndexPlaceholder,
			},
		},
		{
			Name:     "SetPoint",
			Category: model.CategoryFrequencySynchronizer,
			Vars: map[model.Var]string{
				model.VarSetPoint: "setPoint_setPoint",
			},
		},
		{
			Name:     "NetworkBus",
			Category: model.CategoryNetwork,
			Kinds:    []network.Kind{network.KindBus},
			Caps:     model.Caps(model.CapBus),
			Vars: map[model.Var]string{
				model.VarTerminal:  node + "_ACPIN",
				model.VarSwitchOff: node + "_switchOff",
				model.VarNumCC:     node + "_numcc",
				model.VarU:         node + "_U",
			},
		},
		networkInjection("NetworkGenerator", network.KindGenerator, model.Caps(model.CapInjection)),
		controllableGenerator,
		networkInjection("NetworkLoad", network.KindLoad, model.Caps(model.CapInjection)),
		{
			Name:     "NetworkBranch",
			Category: model.CategoryNetwork,
			Kinds:    []network.Kind{network.KindLine, network.KindTransformer},
			Caps:     model.Caps(model.CapBranch),
			Vars: map[model.Var]string{
				model.VarCurrent1:      model.NamePlaceholder + "_iSide1",
				model.VarCurrent2:      model.NamePlaceholder + "_iSide2",
				model.VarState:         model.NamePlaceholder + "_state",
				model.VarDisableLimits: model.NamePlaceholder + "_desactivate_currentLimits",
			},
		},
		networkInjection("NetworkShunt", network.KindShunt, model.Caps(model.CapInjection)),
		networkInjection("NetworkStaticVarCompensator", network.KindStaticVarCompensator, model.Caps(model.CapInjection)),
		networkInjection("NetworkHvdcLine", network.KindHvdcLine, model.Caps(model.CapInjection)),
	}
}

var standardDefaults = []struct {
	kind network.Kind
	lib  string
}{
	{network.KindBus, "NetworkBus"},
	{network.KindGenerator, "NetworkGenerator"},
	{network.KindGenerator, "NetworkControllableGenerator"},
	{network.KindLoad, "NetworkLoad"},
	{network.KindLine, "NetworkBranch"},
	{network.KindTransformer, "NetworkBranch"},
	{network.KindShunt, "NetworkShunt"},
	{network.KindStaticVarCompensator, "NetworkStaticVarCompensator"},
	{network.KindHvdcLine, "NetworkHvdcLine"},
}

// Standard returns a catalog holding the built-in libraries and defaults.
func Standard() *Catalog {
	c := New()
	for _, lib := range StandardLibraries() {
		if err := c.Register(lib); err != nil {
			panic(err)
		}
	}
	for _, d := range standardDefaults {
		if err := c.RegisterDefault(d.kind, d.lib); err != nil {
			panic(err)
		}
	}
	return c
}
