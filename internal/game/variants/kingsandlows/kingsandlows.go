// Package kingsandlows implements the kings-and-lows draw variant: kings and
// each hand's lowest non-king rank are wild, a declaration round follows the
// second betting round, and declarers who lose the showdown match the pot.
// Seats that cannot cover a potential pot match sit the hand out.
package kingsandlows

import (
	"fmt"

	"github.com/louisbranch/cardroom/internal/deck"
	"github.com/louisbranch/cardroom/internal/game/domain"
	"github.com/louisbranch/cardroom/internal/game/rules"
	"github.com/louisbranch/cardroom/internal/game/settle"
	"github.com/louisbranch/cardroom/internal/platform/errors"
	"github.com/louisbranch/cardroom/internal/poker"
)

// Code is the catalog code for this variant.
const Code = "kings-and-lows"

const handSize = 5

// Descriptor declares the variant's phase topology.
func Descriptor() rules.VariantDescriptor {
	return rules.VariantDescriptor{
		Code:           Code,
		Name:           "Kings and Lows",
		InlineShowdown: true,
		ChipCoverage:   true,
		MaxSeats:       6,
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
					domain.TriggerDrawComplete: domain.PhaseSecondBettingRound,
				},
			},
			{
				Phase:    domain.PhaseSecondBettingRound,
				Category: domain.CategoryBetting,
				Transitions: map[domain.Trigger]domain.Phase{
					domain.TriggerBettingAction:   domain.PhaseSecondBettingRound,
					domain.TriggerBettingComplete: domain.PhaseDecision,
					domain.TriggerHandFolded:      domain.PhaseHandComplete,
				},
			},
			{
				Phase:    domain.PhaseDecision,
				Category: domain.CategoryDecision,
				Transitions: map[domain.Trigger]domain.Phase{
					domain.TriggerDeclare:          domain.PhaseDecision,
					domain.TriggerDecisionComplete: domain.PhaseShowdown,
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

// DealCards deals five down cards to every contesting seat.
func (Flow) DealCards(t *domain.Table) error {
	inHand := t.InHandSeatIndexes()
	need := handSize * len(inHand)
	if t.Deck.Remaining() < need {
		return errors.WithMetadata(errors.CodeInsufficientDeckCards,
			fmt.Sprintf("deck has %d cards, need %d", t.Deck.Remaining(), need),
			map[string]string{"remaining": fmt.Sprint(t.Deck.Remaining()), "need": fmt.Sprint(need)})
	}
	for round := 0; round < handSize; round++ {
		for _, idx := range inHand {
			card, err := t.Deck.Draw()
			if err != nil {
				return errors.Wrap(errors.CodeInsufficientDeckCards, "deck exhausted mid-deal", err)
			}
			t.Seats[idx].HoleCards = append(t.Seats[idx].HoleCards, card)
		}
	}
	return nil
}

// SupportsInlineShowdown reports true: losing declarers match the pot.
func (Flow) SupportsInlineShowdown() bool { return true }

// RequiresChipCoverageCheck reports true: a seat must be able to cover a pot
// match before it may play the hand.
func (Flow) RequiresChipCoverageCheck() bool { return true }

// ChipCheckConfiguration requires pot coverage.
func (Flow) ChipCheckConfiguration() rules.ChipCheckConfig {
	return rules.ChipCheckConfig{RequirePotCoverage: true}
}

// PerformShowdown resolves the hand among the declarers. Nobody in carries
// the pot over; a lone declarer takes it; otherwise the best wild-evaluated
// hand wins and the losing declarers match the pot.
func (Flow) PerformShowdown(t *domain.Table) (*rules.ShowdownResult, error) {
	pot := t.PotTotal()

	var in []int
	for i, seat := range t.Seats {
		if seat.InHand() && seat.Declared == domain.DeclarationIn {
			in = append(in, i)
		}
	}

	if len(in) == 0 {
		return &rules.ShowdownResult{CarryOver: pot}, nil
	}
	if len(in) == 1 {
		strength := evaluate(t.Seats[in[0]].HoleCards)
		return &rules.ShowdownResult{
			Seats: []rules.ShowdownSeat{{
				SeatIndex:   in[0],
				Strength:    strength,
				Description: strength.Describe(),
			}},
			Awards: []rules.PotAward{{SeatIndex: in[0], Amount: pot}},
		}, nil
	}

	result := &rules.ShowdownResult{}
	strengths := make(map[int]poker.HandStrength, len(in))
	for _, idx := range in {
		strength := evaluate(t.Seats[idx].HoleCards)
		strengths[idx] = strength
		result.Seats = append(result.Seats, rules.ShowdownSeat{
			SeatIndex:   idx,
			Strength:    strength,
			Description: strength.Describe(),
		})
	}

	order := make([]int, 0, len(t.Seats))
	for i := 1; i <= len(t.Seats); i++ {
		order = append(order, (t.DealerPos+i)%len(t.Seats))
	}
	awards := settle.Distribute([]settle.Pot{{Amount: pot, Eligible: in}}, strengths, order)

	won := make(map[int]bool, len(awards))
	for _, award := range awards {
		result.Awards = append(result.Awards, rules.PotAward{SeatIndex: award.SeatIndex, Amount: award.Amount})
		won[award.SeatIndex] = true
	}
	for _, idx := range in {
		if !won[idx] {
			result.MatchPot = append(result.MatchPot, idx)
		}
	}
	return result, nil
}

// evaluate ranks a hand with kings wild plus the hand's lowest non-king rank
// wild.
func evaluate(cards deck.Hand) poker.HandStrength {
	var low deck.Rank
	for _, card := range cards {
		if card.Rank == deck.King {
			continue
		}
		if low == 0 || card.Rank < low {
			low = card.Rank
		}
	}
	return poker.EvaluateWild(cards, func(card deck.Card) bool {
		return card.Rank == deck.King || (low != 0 && card.Rank == low)
	})
}

// Evaluator ranks hands under the variant's wild rules.
func Evaluator() rules.HandEvaluator {
	return rules.EvaluatorFunc(evaluate)
}

// Register adds the variant to the catalog.
func Register(catalog *rules.Catalog) error {
	return catalog.Register(Descriptor(), Flow{}, Evaluator())
}
