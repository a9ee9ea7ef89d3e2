package settle

import (
	"testing"

	"github.com/louisbranch/cardroom/internal/deck"
	"github.com/louisbranch/cardroom/internal/poker"
)

func strength(t *testing.T, cards ...string) poker.HandStrength {
	t.Helper()
	hand := make(deck.Hand, len(cards))
	for i, s := range cards {
		hand[i] = deck.MustParse(s)
	}
	return poker.Evaluate(hand)
}

func TestBuildPotsAllInSidePot(t *testing.T) {
	// Two full 100-chip stacks and a 50-chip all-in: main pot 150 with all
	// three eligible, side pot 100 with the two full stacks.
	pots := BuildPots([]Contribution{
		{SeatIndex: 0, Amount: 100},
		{SeatIndex: 1, Amount: 100},
		{SeatIndex: 2, Amount: 50},
	}, 0)

	if len(pots) != 2 {
		t.Fatalf("pots = %d, want 2", len(pots))
	}
	if pots[0].Amount != 150 {
		t.Fatalf("main pot = %d, want 150", pots[0].Amount)
	}
	if len(pots[0].Eligible) != 3 {
		t.Fatalf("main pot eligible = %v, want 3 seats", pots[0].Eligible)
	}
	if pots[1].Amount != 100 {
		t.Fatalf("side pot = %d, want 100", pots[1].Amount)
	}
	if len(pots[1].Eligible) != 2 {
		t.Fatalf("side pot eligible = %v, want 2 seats", pots[1].Eligible)
	}
	for _, seat := range pots[1].Eligible {
		if seat == 2 {
			t.Fatal("all-in seat must not be eligible for the side pot")
		}
	}
}

func TestBuildPotsFoldedChipsStayDead(t *testing.T) {
	pots := BuildPots([]Contribution{
		{SeatIndex: 0, Amount: 40},
		{SeatIndex: 1, Amount: 40},
		{SeatIndex: 2, Amount: 15, Folded: true},
	}, 0)

	if len(pots) != 1 {
		t.Fatalf("pots = %d, want 1", len(pots))
	}
	if pots[0].Amount != 95 {
		t.Fatalf("pot = %d, want 95 including dead chips", pots[0].Amount)
	}
	for _, seat := range pots[0].Eligible {
		if seat == 2 {
			t.Fatal("folded seat must not be eligible")
		}
	}
}

func TestBuildPotsUncalledExcessReturns(t *testing.T) {
	// Seat 0 raised to 60, nobody called beyond 40.
	pots := BuildPots([]Contribution{
		{SeatIndex: 0, Amount: 60},
		{SeatIndex: 1, Amount: 40},
		{SeatIndex: 2, Amount: 40, Folded: true},
	}, 0)

	total := Total(pots)
	if total != 140 {
		t.Fatalf("total = %d, want 140", total)
	}
	last := pots[len(pots)-1]
	if last.Amount != 20 || len(last.Eligible) != 1 || last.Eligible[0] != 0 {
		t.Fatalf("excess pot = %+v, want 20 back to seat 0", last)
	}
}

func TestBuildPotsCarryOverSeedsMainPot(t *testing.T) {
	pots := BuildPots([]Contribution{
		{SeatIndex: 0, Amount: 10},
		{SeatIndex: 1, Amount: 10},
	}, 30)

	if len(pots) != 1 {
		t.Fatalf("pots = %d, want 1", len(pots))
	}
	if pots[0].Amount != 50 {
		t.Fatalf("pot = %d, want 50 including carry-over", pots[0].Amount)
	}
}

func TestDistributeBestHandWins(t *testing.T) {
	pots := BuildPots([]Contribution{
		{SeatIndex: 0, Amount: 20},
		{SeatIndex: 1, Amount: 20},
		{SeatIndex: 2, Amount: 20},
	}, 0)
	strengths := map[int]poker.HandStrength{
		0: strength(t, "As", "Kd", "9h", "5c", "2s"),
		1: strength(t, "Ts", "Td", "Th", "4c", "4s"),
		2: strength(t, "9s", "9d", "Ah", "5h", "2h"),
	}

	awards := Distribute(pots, strengths, []int{1, 2, 0})
	if len(awards) != 1 {
		t.Fatalf("awards = %+v, want a single winner", awards)
	}
	if awards[0].SeatIndex != 1 || awards[0].Amount != 60 {
		t.Fatalf("award = %+v, want seat 1 winning 60", awards[0])
	}
}

func TestDistributeTieSplitsWithOddChipToReferenceSeat(t *testing.T) {
	// 11-chip pot, two-way tie: 5 each plus the odd chip to the seat
	// closest after the dealer marker.
	pots := []Pot{{Amount: 11, Eligible: []int{0, 1}}}
	tied := strength(t, "As", "Kd", "9h", "5c", "2s")
	strengths := map[int]poker.HandStrength{
		0: tied,
		1: strength(t, "Ah", "Kc", "9d", "5s", "2d"),
	}

	awards := Distribute(pots, strengths, []int{1, 0})
	if len(awards) != 2 {
		t.Fatalf("awards = %+v, want two winners", awards)
	}
	bySeat := map[int]int{}
	for _, a := range awards {
		bySeat[a.SeatIndex] = a.Amount
	}
	if bySeat[1] != 6 {
		t.Fatalf("reference seat award = %d, want 6", bySeat[1])
	}
	if bySeat[0] != 5 {
		t.Fatalf("other seat award = %d, want 5", bySeat[0])
	}
}

func TestDistributeSidePotEligibility(t *testing.T) {
	// The all-in seat holds the best hand: it wins the main pot only, and
	// the side pot goes to the better of the two covering seats.
	pots := BuildPots([]Contribution{
		{SeatIndex: 0, Amount: 100},
		{SeatIndex: 1, Amount: 100},
		{SeatIndex: 2, Amount: 50},
	}, 0)
	strengths := map[int]poker.HandStrength{
		0: strength(t, "As", "Ad", "9h", "5c", "2s"),
		1: strength(t, "Ks", "Kd", "9d", "5s", "2d"),
		2: strength(t, "9s", "9c", "9h", "4c", "4s"),
	}

	awards := Distribute(pots, strengths, []int{0, 1, 2})
	bySeat := map[int]int{}
	for _, a := range awards {
		bySeat[a.SeatIndex] = a.Amount
	}
	if bySeat[2] != 150 {
		t.Fatalf("all-in seat award = %d, want 150", bySeat[2])
	}
	if bySeat[0] != 100 {
		t.Fatalf("side pot award = %d, want 100 to seat 0", bySeat[0])
	}
	if Total(pots) != 250 {
		t.Fatalf("total = %d, want 250", Total(pots))
	}
}

func TestDistributeConservesChips(t *testing.T) {
	pots := BuildPots([]Contribution{
		{SeatIndex: 0, Amount: 37},
		{SeatIndex: 1, Amount: 37},
		{SeatIndex: 2, Amount: 12},
	}, 7)
	strengths := map[int]poker.HandStrength{
		0: strength(t, "As", "Kd", "9h", "5c", "2s"),
		1: strength(t, "Ah", "Kc", "9d", "5s", "2d"),
		2: strength(t, "Ad", "Kh", "9c", "5d", "2h"),
	}

	awards := Distribute(pots, strengths, []int{2, 0, 1})
	awarded := 0
	for _, a := range awards {
		awarded += a.Amount
	}
	if awarded != Total(pots) {
		t.Fatalf("awarded %d, want %d", awarded, Total(pots))
	}
}
