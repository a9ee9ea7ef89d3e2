package rules

import (
	"testing"

	"github.com/louisbranch/cardroom/internal/deck"
	"github.com/louisbranch/cardroom/internal/game/domain"
	"github.com/louisbranch/cardroom/internal/platform/errors"
	"github.com/louisbranch/cardroom/internal/poker"
)

type stubFlow struct {
	DefaultFlow
}

func (stubFlow) InitialPhase() domain.Phase    { return domain.PhaseCollection }
func (stubFlow) DealCards(*domain.Table) error { return nil }

func stubEvaluator() HandEvaluator {
	return EvaluatorFunc(func(cards deck.Hand) poker.HandStrength {
		return poker.Evaluate(cards)
	})
}

func TestCatalogRegisterAndLookup(t *testing.T) {
	catalog := NewCatalog()
	if err := catalog.Register(testDescriptor(), stubFlow{}, stubEvaluator()); err != nil {
		t.Fatalf("register: %v", err)
	}
	catalog.Freeze()

	entry, err := catalog.Lookup("test-variant")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if entry.Descriptor.Name != "Test Variant" {
		t.Fatalf("name = %q, want %q", entry.Descriptor.Name, "Test Variant")
	}
	if entry.Machine == nil {
		t.Fatal("expected compiled machine")
	}
}

func TestCatalogRejectsDuplicate(t *testing.T) {
	catalog := NewCatalog()
	if err := catalog.Register(testDescriptor(), stubFlow{}, stubEvaluator()); err != nil {
		t.Fatalf("register: %v", err)
	}

	err := catalog.Register(testDescriptor(), stubFlow{}, stubEvaluator())
	if !errors.IsCode(err, errors.CodeDuplicateVariant) {
		t.Fatalf("err = %v, want DuplicateVariant", err)
	}
}

func TestCatalogRegisterRejectsFlagMismatch(t *testing.T) {
	catalog := NewCatalog()

	desc := testDescriptor()
	desc.InlineShowdown = true
	if err := catalog.Register(desc, stubFlow{}, stubEvaluator()); err == nil {
		t.Fatal("expected error for InlineShowdown flag the flow does not implement")
	}

	desc = testDescriptor()
	desc.ChipCoverage = true
	if err := catalog.Register(desc, stubFlow{}, stubEvaluator()); err == nil {
		t.Fatal("expected error for ChipCoverage flag the flow does not implement")
	}
}

func TestCatalogUnknownVariant(t *testing.T) {
	catalog := NewCatalog()
	catalog.Freeze()

	_, err := catalog.Lookup("canasta")
	if !errors.IsCode(err, errors.CodeUnknownVariant) {
		t.Fatalf("err = %v, want UnknownVariant", err)
	}
}

func TestCatalogRegisterAfterFreezePanics(t *testing.T) {
	catalog := NewCatalog()
	catalog.Freeze()

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for registration after freeze")
		}
	}()
	_ = catalog.Register(testDescriptor(), stubFlow{}, stubEvaluator())
}
