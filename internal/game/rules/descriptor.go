// Package rules holds the per-variant rule descriptors, the phase state
// machine compiled from them, the process-wide variant catalog, and the
// contracts a variant implements to plug into the flow engine.
package rules

import (
	"github.com/louisbranch/cardroom/internal/game/domain"
)

// PhaseDescriptor declares one phase of a variant: its behavioral category
// and the named triggers that may fire from it, each mapped to the phase it
// leads to. A phase with no transitions is terminal.
type PhaseDescriptor struct {
	Phase       domain.Phase
	Category    domain.PhaseCategory
	Transitions map[domain.Trigger]domain.Phase
}

// VariantDescriptor declares a variant's full phase topology plus the flags
// the engine consults without calling into the variant's hooks.
type VariantDescriptor struct {
	// Code is the unique registry key, e.g. "five-card-draw".
	Code string
	// Name is the display name, e.g. "Five-Card Draw".
	Name string
	// Phases is the ordered set of phase declarations.
	Phases []PhaseDescriptor
	// MaxSeats caps the table size, typically by what one deck can deal.
	// Zero means no cap.
	MaxSeats int

	// SkipsAnte marks variants that collect no ante.
	SkipsAnte bool
	// InlineShowdown marks variants whose showdown runs inside the flow
	// hook rather than through the generic evaluator path.
	InlineShowdown bool
	// ChipCoverage marks variants that pause seats unable to cover a
	// forced bet (typically a pot match).
	ChipCoverage bool
}
