// Package fivecarddraw implements the baseline draw-poker variant: ante,
// five cards down, one betting round, one draw, showdown.
package fivecarddraw

import (
	"fmt"

	"github.com/louisbranch/cardroom/internal/game/domain"
	"github.com/louisbranch/cardroom/internal/game/rules"
	"github.com/louisbranch/cardroom/internal/platform/errors"
	"github.com/louisbranch/cardroom/internal/poker"
)

// Code is the catalog code for this variant.
const Code = "five-card-draw"

const handSize = 5

// Descriptor declares the variant's phase topology.
func Descriptor() rules.VariantDescriptor {
	return rules.VariantDescriptor{
		Code:     Code,
		Name:     "Five-Card Draw",
		MaxSeats: 6,
		Phases: []rules.PhaseDescriptor{
			{
				Phase:    domain.PhaseSetup,
				Category: domain.CategorySetup,
				Transitions: map[domain.Trigger]domain.Phase{
					domain.TriggerStartHand: domain.PhaseCollection,
				},
			},
			{
				Phase:    domain.PhaseCollection,
				Category: domain.CategoryCollection,
				Transitions: map[domain.Trigger]domain.Phase{
					domain.TriggerCollectAntes: domain.PhaseDealing,
				},
			},
			{
				Phase:    domain.PhaseDealing,
				Category: domain.CategoryDealing,
				Transitions: map[domain.Trigger]domain.Phase{
					domain.TriggerDeal: domain.PhaseFirstBettingRound,
				},
			},
			{
				Phase:    domain.PhaseFirstBettingRound,
				Category: domain.CategoryBetting,
				Transitions: map[domain.Trigger]domain.Phase{
					domain.TriggerBettingAction:   domain.PhaseFirstBettingRound,
					domain.TriggerBettingComplete: domain.PhaseDrawPhase,
					domain.TriggerHandFolded:      domain.PhaseHandComplete,
				},
			},
			{
				Phase:    domain.PhaseDrawPhase,
				Category: domain.CategoryDrawing,
				Transitions: map[domain.Trigger]domain.Phase{
					domain.TriggerDrawAction:   domain.PhaseDrawPhase,
					domain.TriggerDrawComplete: domain.PhaseShowdown,
				},
			},
			{
				Phase:    domain.PhaseShowdown,
				Category: domain.CategoryResolution,
				Transitions: map[domain.Trigger]domain.Phase{
					domain.TriggerSettle: domain.PhaseHandComplete,
				},
			},
			{
				Phase: domain.PhaseHandComplete,
				Transitions: map[domain.Trigger]domain.Phase{
					domain.TriggerNextHand: domain.PhaseCollection,
					domain.TriggerEndTable: domain.PhaseEnded,
				},
			},
			{Phase: domain.PhaseEnded},
		},
	}
}

// Flow is the variant's hook implementation.
type Flow struct {
	rules.DefaultFlow
}

// InitialPhase is the phase a new hand enters.
func (Flow) InitialPhase() domain.Phase { return domain.PhaseCollection }

// DealCards deals five down cards to every contesting seat, one at a time
// starting left of the dealer.
func (Flow) DealCards(t *domain.Table) error {
	inHand := t.InHandSeatIndexes()
	need := handSize * len(inHand)
	if t.Deck.Remaining() < need {
		return errors.WithMetadata(errors.CodeInsufficientDeckCards,
			fmt.Sprintf("deck has %d cards, need %d", t.Deck.Remaining(), need),
			map[string]string{"remaining": fmt.Sprint(t.Deck.Remaining()), "need": fmt.Sprint(need)})
	}
	for round := 0; round < handSize; round++ {
		for _, idx := range dealOrder(t, inHand) {
			card, err := t.Deck.Draw()
			if err != nil {
				return errors.Wrap(errors.CodeInsufficientDeckCards, "deck exhausted mid-deal", err)
			}
			t.Seats[idx].HoleCards = append(t.Seats[idx].HoleCards, card)
		}
	}
	return nil
}

// dealOrder rotates the contesting seat indexes to start left of the dealer.
func dealOrder(t *domain.Table, inHand []int) []int {
	n := len(t.Seats)
	out := make([]int, 0, len(inHand))
	for i := 1; i <= n; i++ {
		pos := (t.DealerPos + i) % n
		for _, idx := range inHand {
			if idx == pos {
				out = append(out, idx)
			}
		}
	}
	return out
}

// Evaluator ranks hands with standard high-poker rules.
func Evaluator() rules.HandEvaluator {
	return rules.EvaluatorFunc(poker.Evaluate)
}

// Register adds the variant to the catalog.
func Register(catalog *rules.Catalog) error {
	return catalog.Register(Descriptor(), Flow{}, Evaluator())
}
