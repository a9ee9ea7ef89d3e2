// Package poker ranks card hands into totally ordered strength values.
//
// Evaluation is pure and total: any combination of cards a dealing
// configuration can produce maps to a HandStrength, and any two strengths
// are comparable. Suits never break ties.
package poker

import (
	"fmt"
	"strings"

	"github.com/louisbranch/cardroom/internal/deck"
)

// Category is the major rank class of a hand, in ascending order of strength.
type Category int

const (
	HighCard Category = iota
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	FiveOfAKind
)

var categoryNames = [...]string{
	"high card",
	"pair",
	"two pair",
	"three of a kind",
	"straight",
	"flush",
	"full house",
	"four of a kind",
	"straight flush",
	"five of a kind",
}

// String returns the lowercase category name.
func (c Category) String() string {
	if c < HighCard || c > FiveOfAKind {
		return "unknown"
	}
	return categoryNames[c]
}

// HandStrength is a totally ordered hand value: category first, then a
// descending-significance sequence of tiebreak ranks.
type HandStrength struct {
	Category  Category    `json:"category"`
	Tiebreaks []deck.Rank `json:"tiebreaks"`
}

// Compare returns -1, 0, or 1 as a sorts before, equal to, or after b.
func Compare(a, b HandStrength) int {
	if a.Category != b.Category {
		if a.Category < b.Category {
			return -1
		}
		return 1
	}
	n := len(a.Tiebreaks)
	if len(b.Tiebreaks) < n {
		n = len(b.Tiebreaks)
	}
	for i := 0; i < n; i++ {
		if a.Tiebreaks[i] != b.Tiebreaks[i] {
			if a.Tiebreaks[i] < b.Tiebreaks[i] {
				return -1
			}
			return 1
		}
	}
	// Hands of the same category and size always carry equal-length keys;
	// differing lengths only arise across hand sizes, where more cards win.
	if len(a.Tiebreaks) != len(b.Tiebreaks) {
		if len(a.Tiebreaks) < len(b.Tiebreaks) {
			return -1
		}
		return 1
	}
	return 0
}

// Beats reports whether a strictly outranks b.
func (a HandStrength) Beats(b HandStrength) bool {
	return Compare(a, b) > 0
}

var rankNames = map[deck.Rank]string{
	deck.Two: "two", deck.Three: "three", deck.Four: "four", deck.Five: "five",
	deck.Six: "six", deck.Seven: "seven", deck.Eight: "eight", deck.Nine: "nine",
	deck.Ten: "ten", deck.Jack: "jack", deck.Queen: "queen", deck.King: "king",
	deck.Ace: "ace",
}

func rankName(r deck.Rank) string {
	if name, ok := rankNames[r]; ok {
		return name
	}
	return "unknown"
}

func rankPlural(r deck.Rank) string {
	name := rankName(r)
	if strings.HasSuffix(name, "x") {
		return name + "es"
	}
	return name + "s"
}

// Describe renders a short human-readable description, e.g.
// "full house, tens over fours" or "straight, jack high".
func (a HandStrength) Describe() string {
	if len(a.Tiebreaks) == 0 {
		return a.Category.String()
	}
	top := a.Tiebreaks[0]
	switch a.Category {
	case HighCard:
		return fmt.Sprintf("%s high", rankName(top))
	case OnePair:
		return fmt.Sprintf("pair of %s", rankPlural(top))
	case TwoPair:
		if len(a.Tiebreaks) >= 2 {
			return fmt.Sprintf("two pair, %s and %s", rankPlural(top), rankPlural(a.Tiebreaks[1]))
		}
		return fmt.Sprintf("two pair, %s", rankPlural(top))
	case ThreeOfAKind:
		return fmt.Sprintf("three of a kind, %s", rankPlural(top))
	case Straight:
		return fmt.Sprintf("straight, %s high", rankName(top))
	case Flush:
		return fmt.Sprintf("flush, %s high", rankName(top))
	case FullHouse:
		if len(a.Tiebreaks) >= 2 {
			return fmt.Sprintf("full house, %s over %s", rankPlural(top), rankPlural(a.Tiebreaks[1]))
		}
		return fmt.Sprintf("full house, %s", rankPlural(top))
	case FourOfAKind:
		return fmt.Sprintf("four of a kind, %s", rankPlural(top))
	case StraightFlush:
		return fmt.Sprintf("straight flush, %s high", rankName(top))
	case FiveOfAKind:
		return fmt.Sprintf("five of a kind, %s", rankPlural(top))
	}
	return a.Category.String()
}
