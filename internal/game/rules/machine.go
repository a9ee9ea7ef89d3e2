package rules

import (
	"fmt"
	"sort"

	"github.com/louisbranch/cardroom/internal/game/domain"
	"github.com/louisbranch/cardroom/internal/platform/errors"
)

// Machine is a variant's compiled phase transition table. It holds no
// table-specific state: the table's current phase is the durable state, and
// one machine per variant is shared across every table of that variant.
type Machine struct {
	phases map[domain.Phase]compiledPhase
}

type compiledPhase struct {
	category    domain.PhaseCategory
	transitions map[domain.Trigger]domain.Phase
}

// NewMachine compiles a descriptor into a transition table. It fails when a
// phase is declared twice or a transition targets an undeclared phase.
func NewMachine(desc VariantDescriptor) (*Machine, error) {
	phases := make(map[domain.Phase]compiledPhase, len(desc.Phases))
	for _, pd := range desc.Phases {
		if _, ok := phases[pd.Phase]; ok {
			return nil, fmt.Errorf("variant %s: phase %s declared twice", desc.Code, pd.Phase)
		}
		transitions := make(map[domain.Trigger]domain.Phase, len(pd.Transitions))
		for trigger, target := range pd.Transitions {
			transitions[trigger] = target
		}
		phases[pd.Phase] = compiledPhase{category: pd.Category, transitions: transitions}
	}
	for _, pd := range desc.Phases {
		for trigger, target := range pd.Transitions {
			if _, ok := phases[target]; !ok {
				return nil, fmt.Errorf("variant %s: trigger %s from %s targets undeclared phase %s",
					desc.Code, trigger, pd.Phase, target)
			}
		}
	}
	return &Machine{phases: phases}, nil
}

// PermittedTriggers returns the triggers declared for the phase, sorted by
// name for determinism. Terminal and undeclared phases yield an empty set.
func (m *Machine) PermittedTriggers(phase domain.Phase) []domain.Trigger {
	compiled, ok := m.phases[phase]
	if !ok {
		return nil
	}
	out := make([]domain.Trigger, 0, len(compiled.transitions))
	for trigger := range compiled.transitions {
		out = append(out, trigger)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Apply returns the phase the trigger leads to. It is a pure computation and
// fails with an InvalidTransition error when the trigger is not permitted
// from the phase.
func (m *Machine) Apply(phase domain.Phase, trigger domain.Trigger) (domain.Phase, error) {
	compiled, ok := m.phases[phase]
	if ok {
		if target, ok := compiled.transitions[trigger]; ok {
			return target, nil
		}
	}
	return "", errors.WithMetadata(
		errors.CodeInvalidTransition,
		fmt.Sprintf("trigger %s is not permitted from phase %s", trigger, phase),
		map[string]string{"phase": string(phase), "trigger": string(trigger)},
	)
}

// Category returns the declared category for the phase. Phases absent from
// the descriptor map to CategorySpecial; this never fails.
func (m *Machine) Category(phase domain.Phase) domain.PhaseCategory {
	compiled, ok := m.phases[phase]
	if !ok {
		return domain.CategorySpecial
	}
	return compiled.category
}

// Targets reports whether target is reachable from phase by any declared
// trigger.
func (m *Machine) Targets(phase, target domain.Phase) bool {
	compiled, ok := m.phases[phase]
	if !ok {
		return false
	}
	for _, next := range compiled.transitions {
		if next == target {
			return true
		}
	}
	return false
}
