package guts

import (
	"testing"

	"github.com/louisbranch/cardroom/internal/deck"
	"github.com/louisbranch/cardroom/internal/game/domain"
)

func hand(cards ...string) deck.Hand {
	out := make(deck.Hand, len(cards))
	for i, s := range cards {
		out[i] = deck.MustParse(s)
	}
	return out
}

func testTable() *domain.Table {
	t := &domain.Table{DealerPos: 0}
	for i := 0; i < 3; i++ {
		t.Seats = append(t.Seats, &domain.Seat{
			PlayerID:    "p" + string(rune('0'+i)),
			Stack:       95,
			Status:      domain.SeatStatusActive,
			Contributed: 5,
		})
	}
	shoe := deck.New()
	shoe.Shuffle(3)
	t.Deck = shoe
	return t
}

func TestShowdownNobodyInCarriesPot(t *testing.T) {
	table := testTable()
	for _, seat := range table.Seats {
		seat.Declared = domain.DeclarationOut
	}

	result, err := (Flow{}).PerformShowdown(table)
	if err != nil {
		t.Fatalf("showdown: %v", err)
	}
	if result.CarryOver != 15 {
		t.Fatalf("carry over = %d, want the full pot", result.CarryOver)
	}
	if len(result.Awards) != 0 || len(result.MatchPot) != 0 {
		t.Fatalf("result = %+v, want no awards and no matches", result)
	}
}

func TestShowdownBestDeclarerWinsLosersMatch(t *testing.T) {
	table := testTable()
	table.Seats[0].HoleCards = hand("As", "Ad", "Ah")
	table.Seats[0].Declared = domain.DeclarationIn
	table.Seats[1].HoleCards = hand("Ks", "Kd", "2h")
	table.Seats[1].Declared = domain.DeclarationIn
	table.Seats[2].HoleCards = hand("7s", "4d", "2c")
	table.Seats[2].Declared = domain.DeclarationOut

	result, err := (Flow{}).PerformShowdown(table)
	if err != nil {
		t.Fatalf("showdown: %v", err)
	}
	if len(result.Awards) != 1 || result.Awards[0].SeatIndex != 0 || result.Awards[0].Amount != 15 {
		t.Fatalf("awards = %+v, want seat 0 winning 15", result.Awards)
	}
	if len(result.MatchPot) != 1 || result.MatchPot[0] != 1 {
		t.Fatalf("match pot = %v, want losing declarer seat 1", result.MatchPot)
	}
	if result.CarryOver != 0 {
		t.Fatalf("carry over = %d, want 0", result.CarryOver)
	}
}

func TestLoneDeclarerBeatsDeck(t *testing.T) {
	table := testTable()
	table.Seats[0].HoleCards = hand("As", "Ad", "Ah")
	table.Seats[0].Declared = domain.DeclarationIn
	table.Seats[1].Declared = domain.DeclarationOut
	table.Seats[2].Declared = domain.DeclarationOut

	// Stack the deck with a weak house hand.
	table.Deck = &deck.Deck{Cards: hand("7s", "4d", "2c", "8h", "9h")}

	result, err := (Flow{}).PerformShowdown(table)
	if err != nil {
		t.Fatalf("showdown: %v", err)
	}
	if len(result.Awards) != 1 || result.Awards[0].Amount != 15 {
		t.Fatalf("awards = %+v, want the declarer taking the pot", result.Awards)
	}
	if result.DeckHand == nil {
		t.Fatal("deck hand must be revealed")
	}
	if len(table.DeckHand) != 3 {
		t.Fatalf("table deck hand = %d cards, want 3", len(table.DeckHand))
	}
}

func TestLoneDeclarerLosesToDeck(t *testing.T) {
	table := testTable()
	table.Seats[0].HoleCards = hand("7s", "4d", "2c")
	table.Seats[0].Declared = domain.DeclarationIn
	table.Seats[1].Declared = domain.DeclarationOut
	table.Seats[2].Declared = domain.DeclarationOut

	table.Deck = &deck.Deck{Cards: hand("As", "Ad", "Ah")}

	result, err := (Flow{}).PerformShowdown(table)
	if err != nil {
		t.Fatalf("showdown: %v", err)
	}
	if len(result.Awards) != 0 {
		t.Fatalf("awards = %+v, want none when the deck wins", result.Awards)
	}
	if result.CarryOver != 15 {
		t.Fatalf("carry over = %d, want the pot staying", result.CarryOver)
	}
	if len(result.MatchPot) != 1 || result.MatchPot[0] != 0 {
		t.Fatalf("match pot = %v, want the beaten declarer", result.MatchPot)
	}
}
