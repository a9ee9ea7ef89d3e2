package rules

import (
	"testing"

	"github.com/louisbranch/cardroom/internal/game/domain"
	"github.com/louisbranch/cardroom/internal/platform/errors"
)

func testDescriptor() VariantDescriptor {
	return VariantDescriptor{
		Code: "test-variant",
		Name: "Test Variant",
		Phases: []PhaseDescriptor{
			{
				Phase:    domain.PhaseSetup,
				Category: domain.CategorySetup,
				Transitions: map[domain.Trigger]domain.Phase{
					domain.TriggerStartHand: domain.PhaseCollection,
					domain.TriggerEndTable:  domain.PhaseEnded,
				},
			},
			{
				Phase:    domain.PhaseCollection,
				Category: domain.CategoryCollection,
				Transitions: map[domain.Trigger]domain.Phase{
					domain.TriggerCollectAntes: domain.PhaseShowdown,
				},
			},
			{
				Phase:    domain.PhaseShowdown,
				Category: domain.CategoryResolution,
				Transitions: map[domain.Trigger]domain.Phase{
					domain.TriggerSettle: domain.PhaseSetup,
				},
			},
			{
				Phase:    domain.PhaseEnded,
				Category: domain.CategoryResolution,
			},
		},
	}
}

func TestMachineApply(t *testing.T) {
	machine, err := NewMachine(testDescriptor())
	if err != nil {
		t.Fatalf("new machine: %v", err)
	}

	next, err := machine.Apply(domain.PhaseSetup, domain.TriggerStartHand)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if next != domain.PhaseCollection {
		t.Fatalf("next = %q, want %q", next, domain.PhaseCollection)
	}
}

func TestMachineApplyRejectsUndeclaredTrigger(t *testing.T) {
	machine, err := NewMachine(testDescriptor())
	if err != nil {
		t.Fatalf("new machine: %v", err)
	}

	_, err = machine.Apply(domain.PhaseCollection, domain.TriggerSettle)
	if !errors.IsCode(err, errors.CodeInvalidTransition) {
		t.Fatalf("err = %v, want InvalidTransition", err)
	}
}

func TestMachinePermittedTriggers(t *testing.T) {
	machine, err := NewMachine(testDescriptor())
	if err != nil {
		t.Fatalf("new machine: %v", err)
	}

	triggers := machine.PermittedTriggers(domain.PhaseSetup)
	if len(triggers) != 2 {
		t.Fatalf("triggers = %v, want 2 entries", triggers)
	}
	// Sorted by name for determinism.
	if triggers[0] != domain.TriggerEndTable || triggers[1] != domain.TriggerStartHand {
		t.Fatalf("triggers = %v, want [EndTable StartHand]", triggers)
	}

	if got := machine.PermittedTriggers(domain.PhaseEnded); len(got) != 0 {
		t.Fatalf("terminal phase triggers = %v, want none", got)
	}
	if got := machine.PermittedTriggers(domain.PhaseDrawPhase); len(got) != 0 {
		t.Fatalf("undeclared phase triggers = %v, want none", got)
	}
}

func TestMachineCategoryDefaultsToSpecial(t *testing.T) {
	machine, err := NewMachine(testDescriptor())
	if err != nil {
		t.Fatalf("new machine: %v", err)
	}

	if got := machine.Category(domain.PhaseCollection); got != domain.CategoryCollection {
		t.Fatalf("category = %v, want %v", got, domain.CategoryCollection)
	}
	if got := machine.Category(domain.PhaseDrawPhase); got != domain.CategorySpecial {
		t.Fatalf("undeclared category = %v, want %v", got, domain.CategorySpecial)
	}
}

func TestNewMachineRejectsUndeclaredTarget(t *testing.T) {
	desc := testDescriptor()
	desc.Phases[1].Transitions[domain.TriggerDeal] = domain.PhaseDrawPhase

	if _, err := NewMachine(desc); err == nil {
		t.Fatal("expected error for transition targeting undeclared phase")
	}
}

func TestNewMachineRejectsDuplicatePhase(t *testing.T) {
	desc := testDescriptor()
	desc.Phases = append(desc.Phases, PhaseDescriptor{Phase: domain.PhaseSetup})

	if _, err := NewMachine(desc); err == nil {
		t.Fatal("expected error for duplicate phase declaration")
	}
}
