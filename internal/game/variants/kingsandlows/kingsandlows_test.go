package kingsandlows

import (
	"testing"

	"github.com/louisbranch/cardroom/internal/deck"
	"github.com/louisbranch/cardroom/internal/game/domain"
	"github.com/louisbranch/cardroom/internal/game/rules"
	"github.com/louisbranch/cardroom/internal/poker"
)

func hand(cards ...string) deck.Hand {
	out := make(deck.Hand, len(cards))
	for i, s := range cards {
		out[i] = deck.MustParse(s)
	}
	return out
}

func TestDescriptorCompiles(t *testing.T) {
	machine, err := rules.NewMachine(Descriptor())
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	// A second betting round and a declaration follow the draw.
	got, err := machine.Apply(domain.PhaseDrawPhase, domain.TriggerDrawComplete)
	if err != nil {
		t.Fatalf("draw complete: %v", err)
	}
	if got != domain.PhaseSecondBettingRound {
		t.Fatalf("after draw = %s, want SecondBettingRound", got)
	}
	got, err = machine.Apply(domain.PhaseSecondBettingRound, domain.TriggerBettingComplete)
	if err != nil {
		t.Fatalf("betting complete: %v", err)
	}
	if got != domain.PhaseDecision {
		t.Fatalf("after second betting = %s, want Decision", got)
	}
}

func TestFoldOutEndsHandFromEitherBettingRound(t *testing.T) {
	machine, err := rules.NewMachine(Descriptor())
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	for _, from := range []domain.Phase{domain.PhaseFirstBettingRound, domain.PhaseSecondBettingRound} {
		got, err := machine.Apply(from, domain.TriggerHandFolded)
		if err != nil {
			t.Fatalf("hand folded from %s: %v", from, err)
		}
		if got != domain.PhaseHandComplete {
			t.Fatalf("from %s = %s, want HandComplete", from, got)
		}
	}
}

func TestEvaluateKingsAndLowsAreWild(t *testing.T) {
	// A king and the low (the deuce) are wild: 9-9-wild-wild-7 plays as
	// four nines.
	strength := evaluate(hand("9s", "9d", "Kh", "2c", "7h"))
	if strength.Category != poker.FourOfAKind {
		t.Fatalf("category = %v, want FourOfAKind", strength.Category)
	}
	if strength.Tiebreaks[0] != deck.Nine {
		t.Fatalf("quads rank = %v, want nines", strength.Tiebreaks[0])
	}
}

func TestEvaluateNoWildsWithoutKings(t *testing.T) {
	// The lowest rank is still wild even with no king in hand.
	strength := evaluate(hand("9s", "9d", "4h", "4c", "4d"))
	// Fours are the low and wild: 9-9-wild-wild-wild is five nines.
	if strength.Category != poker.FiveOfAKind {
		t.Fatalf("category = %v, want FiveOfAKind", strength.Category)
	}
}

func TestEvaluateStraightOrdering(t *testing.T) {
	wild := evaluate(hand("9s", "9d", "Kh", "2c", "7h"))
	plain := evaluate(hand("As", "Kd", "9h", "5c", "3s"))
	if !wild.Beats(plain) {
		t.Fatal("wild quads must beat a plain high card")
	}
}

func TestChipCoverageConfigured(t *testing.T) {
	flow := Flow{}
	if !flow.RequiresChipCoverageCheck() {
		t.Fatal("chip coverage must be required")
	}
	if !flow.ChipCheckConfiguration().RequirePotCoverage {
		t.Fatal("pot coverage must be required")
	}
	if !flow.SupportsInlineShowdown() {
		t.Fatal("showdown must be inline for pot matching")
	}
}

func TestShowdownLoneDeclarerTakesPot(t *testing.T) {
	table := &domain.Table{DealerPos: 0}
	for i := 0; i < 3; i++ {
		table.Seats = append(table.Seats, &domain.Seat{
			PlayerID:    "p" + string(rune('0'+i)),
			Stack:       90,
			Status:      domain.SeatStatusActive,
			Contributed: 10,
		})
	}
	table.Seats[0].HoleCards = hand("9s", "9d", "Kh", "2c", "7h")
	table.Seats[0].Declared = domain.DeclarationIn
	table.Seats[1].Declared = domain.DeclarationOut
	table.Seats[2].Declared = domain.DeclarationOut

	result, err := (Flow{}).PerformShowdown(table)
	if err != nil {
		t.Fatalf("showdown: %v", err)
	}
	if len(result.Awards) != 1 || result.Awards[0].SeatIndex != 0 || result.Awards[0].Amount != 30 {
		t.Fatalf("awards = %+v, want seat 0 taking 30", result.Awards)
	}
	if len(result.MatchPot) != 0 {
		t.Fatalf("match pot = %v, want none", result.MatchPot)
	}
}
