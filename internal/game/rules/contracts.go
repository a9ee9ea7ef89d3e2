package rules

import (
	"github.com/louisbranch/cardroom/internal/deck"
	"github.com/louisbranch/cardroom/internal/game/domain"
	"github.com/louisbranch/cardroom/internal/poker"
)

// HandEvaluator ranks a seat's cards into a totally ordered strength under
// one variant's rules. Evaluation must be total: any card set the variant's
// dealing configuration can produce maps to a strength without error.
type HandEvaluator interface {
	Evaluate(cards deck.Hand) poker.HandStrength
}

// EvaluatorFunc adapts a function to the HandEvaluator interface.
type EvaluatorFunc func(cards deck.Hand) poker.HandStrength

// Evaluate implements HandEvaluator.
func (f EvaluatorFunc) Evaluate(cards deck.Hand) poker.HandStrength {
	return f(cards)
}

// ShowdownSeat is one seat's evaluated hand at showdown.
type ShowdownSeat struct {
	SeatIndex   int
	Strength    poker.HandStrength
	Description string
}

// PotAward instructs the engine to move chips from the pot to a seat.
type PotAward struct {
	SeatIndex int
	Amount    int
}

// ShowdownResult carries everything an inline showdown decided: the ranked
// seats, the pot awards, the seats that owe a pot match, and any amount the
// variant carries into the next hand.
type ShowdownResult struct {
	Seats []ShowdownSeat
	// DeckHand is set when a lone declarer played against the deck.
	DeckHand *ShowdownSeat
	Awards   []PotAward
	// MatchPot lists seat indexes that must match the pot for the next hand.
	MatchPot []int
	// CarryOver is the amount left in the pot for the next hand.
	CarryOver int
}

// ChipCheckConfig defines how a chip-coverage variant decides whether a seat
// can afford to play the hand.
type ChipCheckConfig struct {
	// RequirePotCoverage sits out seats whose stack cannot cover the pot
	// they may be forced to match.
	RequirePotCoverage bool
}

// FlowExtension is the per-variant hook set invoked by the engine around the
// generic state machine. Hooks receive the table by exclusive reference for
// the duration of the call and must leave it consistent on success and
// failure paths alike.
type FlowExtension interface {
	// InitialPhase is the phase a new hand enters after Setup.
	InitialPhase() domain.Phase

	// OnHandStarting performs variant setup for a new hand. It must be
	// idempotent if replayed after a crash mid-transition.
	OnHandStarting(t *domain.Table) error

	// DealCards deals per the variant's configuration. It fails with an
	// InsufficientDeckCards error when the shoe cannot satisfy the seated
	// player count.
	DealCards(t *domain.Table) error

	// SkipsAnteCollection reports whether the variant collects no ante.
	SkipsAnteCollection() bool

	// ProcessDrawComplete finishes a draw phase. A returned empty phase
	// means the machine's declared target applies.
	ProcessDrawComplete(t *domain.Table) (domain.Phase, error)

	// ProcessPostShowdown runs variant-specific post-showdown flow such as
	// pot matching. A returned empty phase means the machine's declared
	// target applies.
	ProcessPostShowdown(t *domain.Table) (domain.Phase, error)

	// SupportsInlineShowdown reports whether PerformShowdown resolves pots
	// without a generic evaluation pass.
	SupportsInlineShowdown() bool

	// PerformShowdown evaluates hands and produces pot-award instructions.
	// Called only when SupportsInlineShowdown reports true.
	PerformShowdown(t *domain.Table) (*ShowdownResult, error)

	// RequiresChipCoverageCheck reports whether play pauses when a seat
	// cannot cover a forced bet.
	RequiresChipCoverageCheck() bool

	// ChipCheckConfiguration defines the coverage rule. Called only when
	// RequiresChipCoverageCheck reports true.
	ChipCheckConfiguration() ChipCheckConfig
}

// DefaultFlow provides no-op defaults for the optional FlowExtension hooks.
// Variants embed it and override what they need.
type DefaultFlow struct{}

// OnHandStarting is a no-op.
func (DefaultFlow) OnHandStarting(*domain.Table) error { return nil }

// SkipsAnteCollection reports false: antes are collected.
func (DefaultFlow) SkipsAnteCollection() bool { return false }

// ProcessDrawComplete defers to the machine's declared target.
func (DefaultFlow) ProcessDrawComplete(*domain.Table) (domain.Phase, error) { return "", nil }

// ProcessPostShowdown defers to the machine's declared target.
func (DefaultFlow) ProcessPostShowdown(*domain.Table) (domain.Phase, error) { return "", nil }

// SupportsInlineShowdown reports false: the generic showdown path applies.
func (DefaultFlow) SupportsInlineShowdown() bool { return false }

// PerformShowdown is never called for non-inline variants.
func (DefaultFlow) PerformShowdown(*domain.Table) (*ShowdownResult, error) { return nil, nil }

// RequiresChipCoverageCheck reports false: all seats may play.
func (DefaultFlow) RequiresChipCoverageCheck() bool { return false }

// ChipCheckConfiguration returns the zero configuration.
func (DefaultFlow) ChipCheckConfiguration() ChipCheckConfig { return ChipCheckConfig{} }
