// Package guts implements three-card guts: ante, three down cards, an
// in-or-out declaration round taken in seat order, and an inline showdown
// where losers who stayed in match the pot for the next hand. A lone
// declarer plays against a hand dealt to the deck.
package guts

import (
	"fmt"

	"github.com/louisbranch/cardroom/internal/game/domain"
	"github.com/louisbranch/cardroom/internal/game/rules"
	"github.com/louisbranch/cardroom/internal/game/settle"
	"github.com/louisbranch/cardroom/internal/platform/errors"
	"github.com/louisbranch/cardroom/internal/poker"
)

// Code is the catalog code for this variant.
const Code = "guts"

const handSize = 3

// Descriptor declares the variant's phase topology.
func Descriptor() rules.VariantDescriptor {
	return rules.VariantDescriptor{
		Code:           Code,
		Name:           "Guts",
		InlineShowdown: true,
		MaxSeats:       10,
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
					domain.TriggerDeal: domain.PhaseDecision,
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

// DealCards deals three down cards to every contesting seat.
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

// SupportsInlineShowdown reports true: the variant resolves its own pots.
func (Flow) SupportsInlineShowdown() bool { return true }

// PerformShowdown resolves the hand among the seats that declared in. With
// nobody in, the pot carries over. With one declarer, the deck is dealt a
// hand and the declarer must beat it or match the pot. With several, the
// best hand takes the pot and the other declarers match it.
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
		return showdownAgainstDeck(t, in[0], pot)
	}

	result := &rules.ShowdownResult{}
	strengths := make(map[int]poker.HandStrength, len(in))
	for _, idx := range in {
		strength := poker.Evaluate(t.Seats[idx].HoleCards)
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

// showdownAgainstDeck deals the deck a hand and pits the lone declarer
// against it.
func showdownAgainstDeck(t *domain.Table, seatIdx, pot int) (*rules.ShowdownResult, error) {
	deckHand, err := t.Deck.DrawN(handSize)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInsufficientDeckCards, "deck cannot play its own hand", err)
	}
	t.DeckHand = deckHand

	playerStrength := poker.Evaluate(t.Seats[seatIdx].HoleCards)
	deckStrength := poker.Evaluate(deckHand)

	result := &rules.ShowdownResult{
		Seats: []rules.ShowdownSeat{{
			SeatIndex:   seatIdx,
			Strength:    playerStrength,
			Description: playerStrength.Describe(),
		}},
		DeckHand: &rules.ShowdownSeat{
			SeatIndex:   -1,
			Strength:    deckStrength,
			Description: deckStrength.Describe(),
		},
	}

	if playerStrength.Beats(deckStrength) {
		result.Awards = []rules.PotAward{{SeatIndex: seatIdx, Amount: pot}}
		return result, nil
	}
	// The deck wins or ties: the pot stays and the declarer matches it.
	result.CarryOver = pot
	result.MatchPot = []int{seatIdx}
	return result, nil
}

// Evaluator ranks three-card hands with the shared strength ordering.
func Evaluator() rules.HandEvaluator {
	return rules.EvaluatorFunc(poker.Evaluate)
}

// Register adds the variant to the catalog.
func Register(catalog *rules.Catalog) error {
	return catalog.Register(Descriptor(), Flow{}, Evaluator())
}
