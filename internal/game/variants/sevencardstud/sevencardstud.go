// Package sevencardstud implements seven-card stud: two down cards and one
// up card, then four more streets each followed by a betting round, with the
// best five of seven at showdown.
package sevencardstud

import (
	"fmt"

	"github.com/louisbranch/cardroom/internal/game/domain"
	"github.com/louisbranch/cardroom/internal/game/rules"
	"github.com/louisbranch/cardroom/internal/platform/errors"
	"github.com/louisbranch/cardroom/internal/poker"
)

// Code is the catalog code for this variant.
const Code = "seven-card-stud"

// Descriptor declares the variant's phase topology: five betting rounds
// interleaved with the third-through-seventh street deals.
func Descriptor() rules.VariantDescriptor {
	return rules.VariantDescriptor{
		Code:     Code,
		Name:     "Seven-Card Stud",
		MaxSeats: 7,
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
			bettingPhase(domain.PhaseFirstBettingRound, domain.PhaseFourthStreet),
			streetPhase(domain.PhaseFourthStreet, domain.PhaseSecondBettingRound),
			bettingPhase(domain.PhaseSecondBettingRound, domain.PhaseFifthStreet),
			streetPhase(domain.PhaseFifthStreet, domain.PhaseThirdBettingRound),
			bettingPhase(domain.PhaseThirdBettingRound, domain.PhaseSixthStreet),
			streetPhase(domain.PhaseSixthStreet, domain.PhaseFourthBettingRound),
			bettingPhase(domain.PhaseFourthBettingRound, domain.PhaseSeventhStreet),
			streetPhase(domain.PhaseSeventhStreet, domain.PhaseFifthBettingRound),
			bettingPhase(domain.PhaseFifthBettingRound, domain.PhaseShowdown),
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

func bettingPhase(phase, next domain.Phase) rules.PhaseDescriptor {
	return rules.PhaseDescriptor{
		Phase:    phase,
		Category: domain.CategoryBetting,
		Transitions: map[domain.Trigger]domain.Phase{
			domain.TriggerBettingAction:   phase,
			domain.TriggerBettingComplete: next,
			domain.TriggerHandFolded:      domain.PhaseHandComplete,
		},
	}
}

func streetPhase(phase, next domain.Phase) rules.PhaseDescriptor {
	return rules.PhaseDescriptor{
		Phase:    phase,
		Category: domain.CategoryDealing,
		Transitions: map[domain.Trigger]domain.Phase{
			domain.TriggerDeal: next,
		},
	}
}

// Flow is the variant's hook implementation.
type Flow struct {
	rules.DefaultFlow
}

// InitialPhase is the phase a new hand enters.
func (Flow) InitialPhase() domain.Phase { return domain.PhaseCollection }

// DealCards deals for whichever street the table is on: two down and one up
// on the initial deal, one up card on fourth through sixth street, and the
// final card down on seventh.
func (Flow) DealCards(t *domain.Table) error {
	inHand := t.InHandSeatIndexes()

	var down, up int
	switch t.Phase {
	case domain.PhaseDealing:
		down, up = 2, 1
	case domain.PhaseFourthStreet, domain.PhaseFifthStreet, domain.PhaseSixthStreet:
		down, up = 0, 1
	case domain.PhaseSeventhStreet:
		down, up = 1, 0
	default:
		return fmt.Errorf("no street configured for phase %s", t.Phase)
	}

	need := (down + up) * len(inHand)
	if t.Deck.Remaining() < need {
		return errors.WithMetadata(errors.CodeInsufficientDeckCards,
			fmt.Sprintf("deck has %d cards, need %d", t.Deck.Remaining(), need),
			map[string]string{"remaining": fmt.Sprint(t.Deck.Remaining()), "need": fmt.Sprint(need)})
	}

	for round := 0; round < down; round++ {
		for _, idx := range inHand {
			card, err := t.Deck.Draw()
			if err != nil {
				return errors.Wrap(errors.CodeInsufficientDeckCards, "deck exhausted mid-deal", err)
			}
			t.Seats[idx].HoleCards = append(t.Seats[idx].HoleCards, card)
		}
	}
	for round := 0; round < up; round++ {
		for _, idx := range inHand {
			card, err := t.Deck.Draw()
			if err != nil {
				return errors.Wrap(errors.CodeInsufficientDeckCards, "deck exhausted mid-deal", err)
			}
			t.Seats[idx].UpCards = append(t.Seats[idx].UpCards, card)
		}
	}
	return nil
}

// Evaluator ranks the best five cards of the seven.
func Evaluator() rules.HandEvaluator {
	return rules.EvaluatorFunc(poker.Evaluate)
}

// Register adds the variant to the catalog.
func Register(catalog *rules.Catalog) error {
	return catalog.Register(Descriptor(), Flow{}, Evaluator())
}
