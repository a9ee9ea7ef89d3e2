package poker

import (
	"testing"

	oracle "github.com/paulhankin/poker"

	"github.com/louisbranch/cardroom/internal/deck"
)

// toOracle converts a card to the reference evaluator's representation,
// which ranks aces as 1.
func toOracle(t *testing.T, c deck.Card) oracle.Card {
	t.Helper()
	rank := oracle.Rank(c.Rank)
	if c.Rank == deck.Ace {
		rank = 1
	}
	card, err := oracle.MakeCard(oracle.Suit(c.Suit), rank)
	if err != nil {
		t.Fatalf("make oracle card %s: %v", c, err)
	}
	return card
}

// TestEvaluateAgreesWithReference compares our ordering against an
// independent evaluator on fixed five-card hands without wilds.
func TestEvaluateAgreesWithReference(t *testing.T) {
	fixtures := [][]string{
		{"As", "Kd", "9h", "5c", "2s"},
		{"Qs", "Jd", "9h", "5c", "2s"},
		{"As", "Ad", "9h", "5c", "2s"},
		{"Ks", "Kd", "Qh", "5c", "2s"},
		{"As", "Ad", "9h", "9c", "2s"},
		{"7s", "7d", "7h", "5c", "2s"},
		{"9s", "8d", "7h", "6c", "5s"},
		{"As", "2d", "3h", "4c", "5s"},
		{"As", "Js", "9s", "5s", "2s"},
		{"Ts", "Td", "Th", "4c", "4s"},
		{"Qs", "Qd", "Qh", "Qc", "2s"},
		{"9h", "8h", "7h", "6h", "5h"},
	}

	for i := range fixtures {
		for j := range fixtures {
			mineA := Evaluate(hand(t, fixtures[i]...))
			mineB := Evaluate(hand(t, fixtures[j]...))

			var refA, refB [5]oracle.Card
			for k, s := range fixtures[i] {
				refA[k] = toOracle(t, deck.MustParse(s))
			}
			for k, s := range fixtures[j] {
				refB[k] = toOracle(t, deck.MustParse(s))
			}
			scoreA := oracle.Eval5(&refA)
			scoreB := oracle.Eval5(&refB)

			got := Compare(mineA, mineB)
			want := 0
			if scoreA > scoreB {
				want = 1
			} else if scoreA < scoreB {
				want = -1
			}
			if got != want {
				t.Fatalf("hands %v vs %v: compare = %d, reference = %d", fixtures[i], fixtures[j], got, want)
			}
		}
	}
}
