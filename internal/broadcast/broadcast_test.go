package broadcast

import (
	"testing"
	"time"

	"github.com/louisbranch/cardroom/internal/deck"
	"github.com/louisbranch/cardroom/internal/game/domain"
)

func testTable() *domain.Table {
	return &domain.Table{
		ID:         "table-1",
		Variant:    "seven-card-stud",
		Phase:      domain.PhaseFourthStreet,
		HandNum:    3,
		CurrentBet: 10,
		DealerPos:  1,
		TurnPos:    0,
		Version:    7,
		Seats: []*domain.Seat{
			{
				PlayerID:    "p1",
				Stack:       90,
				Status:      domain.SeatStatusActive,
				Committed:   10,
				Contributed: 10,
				HoleCards:   deck.Hand{deck.MustParse("As"), deck.MustParse("Kd")},
				UpCards:     deck.Hand{deck.MustParse("7c"), deck.MustParse("2h")},
			},
			{
				PlayerID:    "p2",
				Stack:       80,
				Status:      domain.SeatStatusFolded,
				Contributed: 5,
				HoleCards:   deck.Hand{deck.MustParse("9s"), deck.MustParse("9d")},
			},
		},
	}
}

func TestPublicSnapshotHidesHoleCards(t *testing.T) {
	public := Public(testTable())

	if public.TableID != "table-1" || public.Phase != "FourthStreet" {
		t.Fatalf("snapshot = %+v, want table id and phase", public)
	}
	if public.Pot != 15 {
		t.Fatalf("pot = %d, want 15", public.Pot)
	}
	if len(public.Seats) != 2 {
		t.Fatalf("seats = %d, want 2", len(public.Seats))
	}

	first := public.Seats[0]
	if first.HoleCardCount != 2 {
		t.Fatalf("hole card count = %d, want 2", first.HoleCardCount)
	}
	if len(first.UpCards) != 2 || first.UpCards[0] != "7c" {
		t.Fatalf("up cards = %v, want visible up-cards", first.UpCards)
	}
	if first.Status != "active" || public.Seats[1].Status != "folded" {
		t.Fatalf("statuses = %s,%s, want active,folded", first.Status, public.Seats[1].Status)
	}
}

func TestPrivateSnapshotsCarryOwnHoleCardsOnly(t *testing.T) {
	private := Private(testTable())

	if len(private) != 2 {
		t.Fatalf("private = %d, want one per seat", len(private))
	}
	if private[0].PlayerID != "p1" || private[0].SeatIndex != 0 {
		t.Fatalf("first = %+v, want p1 at seat 0", private[0])
	}
	if len(private[0].HoleCards) != 2 || private[0].HoleCards[0] != "As" {
		t.Fatalf("hole cards = %v, want own cards", private[0].HoleCards)
	}
	if len(private[1].HoleCards) != 2 || private[1].HoleCards[0] != "9s" {
		t.Fatalf("hole cards = %v, want own cards", private[1].HoleCards)
	}
}

func TestPublicSnapshotConcealsDeclarationsMidRound(t *testing.T) {
	table := testTable()
	table.Phase = domain.PhaseDecision
	table.Seats[0].Declared = domain.DeclarationIn

	public := Public(table)
	if public.Seats[0].Declared != "" {
		t.Fatalf("declared = %q, want concealed during the decision round", public.Seats[0].Declared)
	}

	table.Phase = domain.PhaseShowdown
	public = Public(table)
	if public.Seats[0].Declared != "in" {
		t.Fatalf("declared = %q, want visible once the round closes", public.Seats[0].Declared)
	}
}

func TestPublicSnapshotCarriesTurnDeadline(t *testing.T) {
	table := testTable()
	deadline := time.Date(2026, 3, 1, 12, 0, 30, 0, time.UTC)
	table.TurnDeadline = deadline

	public := Public(table)
	if !public.TurnDeadline.Equal(deadline) {
		t.Fatalf("deadline = %v, want %v", public.TurnDeadline, deadline)
	}
}
