// Package settle computes pot structure from hand contributions and
// distributes chips at resolution.
//
// Pots are layered by contribution level: the main pot covers the smallest
// all-in level across contesting seats, and each successive side pot covers
// the increment up to the next level. A seat is eligible for a pot only if it
// contributed at least the pot's threshold and did not fold. Distribution is
// deterministic: ties split as evenly as integer chips allow, and odd units
// go to the eligible winner closest after the dealer marker.
package settle

import (
	"sort"

	"github.com/louisbranch/cardroom/internal/poker"
)

// Contribution is one seat's total contribution to the hand.
type Contribution struct {
	SeatIndex int
	Amount    int
	// Folded excludes the seat from eligibility; its chips stay in the
	// layers it contributed to.
	Folded bool
}

// Pot is a layer of the pot with the seats eligible to contest it.
type Pot struct {
	Amount   int
	Eligible []int
}

// Award moves chips from a pot to a seat.
type Award struct {
	SeatIndex int
	Amount    int
}

// BuildPots layers contributions into a main pot and side pots. carryOver is
// added to the main pot. The returned pots are ordered main-first.
func BuildPots(contribs []Contribution, carryOver int) []Pot {
	// Levels come from contesting (non-folded) contribution amounts; folded
	// chips fill the layers below their own total.
	levelSet := make(map[int]bool)
	for _, c := range contribs {
		if !c.Folded && c.Amount > 0 {
			levelSet[c.Amount] = true
		}
	}
	levels := make([]int, 0, len(levelSet))
	for level := range levelSet {
		levels = append(levels, level)
	}
	sort.Ints(levels)

	var pots []Pot
	prev := 0
	for _, level := range levels {
		pot := Pot{}
		for _, c := range contribs {
			portion := min(c.Amount, level) - min(c.Amount, prev)
			if portion > 0 {
				pot.Amount += portion
			}
			if !c.Folded && c.Amount >= level {
				pot.Eligible = append(pot.Eligible, c.SeatIndex)
			}
		}
		if pot.Amount > 0 {
			pots = append(pots, pot)
		}
		prev = level
	}

	// Chips above the highest contesting level are an uncalled excess; they
	// return to their contributor as a single-seat pot.
	for _, c := range contribs {
		if excess := c.Amount - prev; excess > 0 {
			pots = append(pots, Pot{Amount: excess, Eligible: []int{c.SeatIndex}})
		}
	}

	if carryOver > 0 {
		if len(pots) == 0 {
			eligible := make([]int, 0, len(contribs))
			for _, c := range contribs {
				if !c.Folded {
					eligible = append(eligible, c.SeatIndex)
				}
			}
			pots = append(pots, Pot{Amount: carryOver, Eligible: eligible})
		} else {
			pots[0].Amount += carryOver
		}
	}

	return pots
}

// Total sums the amounts across pots.
func Total(pots []Pot) int {
	total := 0
	for _, pot := range pots {
		total += pot.Amount
	}
	return total
}

// Distribute awards each pot to the best strength among its eligible seats.
// referenceOrder lists seat indexes starting from the seat closest after the
// dealer marker; it breaks odd-chip ties deterministically. Seats missing
// from strengths are skipped unless a pot has exactly one eligible seat, which
// wins it outright.
func Distribute(pots []Pot, strengths map[int]poker.HandStrength, referenceOrder []int) []Award {
	position := make(map[int]int, len(referenceOrder))
	for i, seat := range referenceOrder {
		position[seat] = i
	}

	totals := make(map[int]int)
	for _, pot := range pots {
		winners := potWinners(pot, strengths)
		if len(winners) == 0 {
			continue
		}
		sort.Slice(winners, func(i, j int) bool {
			return position[winners[i]] < position[winners[j]]
		})
		share := pot.Amount / len(winners)
		remainder := pot.Amount % len(winners)
		for i, seat := range winners {
			amount := share
			// Odd units go to the winners closest to the reference seat.
			if i < remainder {
				amount++
			}
			totals[seat] += amount
		}
	}

	seats := make([]int, 0, len(totals))
	for seat := range totals {
		seats = append(seats, seat)
	}
	sort.Ints(seats)
	awards := make([]Award, 0, len(seats))
	for _, seat := range seats {
		awards = append(awards, Award{SeatIndex: seat, Amount: totals[seat]})
	}
	return awards
}

func potWinners(pot Pot, strengths map[int]poker.HandStrength) []int {
	if len(pot.Eligible) == 1 {
		return []int{pot.Eligible[0]}
	}
	var winners []int
	var best poker.HandStrength
	for _, seat := range pot.Eligible {
		strength, ok := strengths[seat]
		if !ok {
			continue
		}
		if len(winners) == 0 || strength.Beats(best) {
			winners = []int{seat}
			best = strength
			continue
		}
		if poker.Compare(strength, best) == 0 {
			winners = append(winners, seat)
		}
	}
	return winners
}
