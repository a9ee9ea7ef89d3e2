package poker

import (
	"sort"

	"github.com/louisbranch/cardroom/internal/deck"
)

// Evaluate ranks the best hand that can be made from the given cards with no
// wild cards. Hands larger than five cards are reduced to their best
// five-card combination; smaller hands are ranked as-is.
func Evaluate(cards deck.Hand) HandStrength {
	return EvaluateWild(cards, nil)
}

// EvaluateWild ranks the best hand from the given cards, treating every card
// for which isWild returns true as a wild card. A wild card assumes the
// single concrete identity that produces the strongest hand, including
// identities already present in the hand (so wilds can complete five of a
// kind). A nil isWild means no wilds.
func EvaluateWild(cards deck.Hand, isWild func(deck.Card) bool) HandStrength {
	if len(cards) <= 5 {
		return evaluateUpToFive(cards, isWild)
	}

	best := HandStrength{Category: HighCard}
	first := true
	combinations(len(cards), 5, func(idx []int) {
		combo := make(deck.Hand, 5)
		for i, j := range idx {
			combo[i] = cards[j]
		}
		hs := evaluateUpToFive(combo, isWild)
		if first || hs.Beats(best) {
			best = hs
			first = false
		}
	})
	return best
}

func evaluateUpToFive(cards deck.Hand, isWild func(deck.Card) bool) HandStrength {
	var concrete deck.Hand
	wilds := 0
	for _, c := range cards {
		if isWild != nil && isWild(c) {
			wilds++
			continue
		}
		concrete = append(concrete, c)
	}

	switch {
	case wilds == 0:
		return evaluateConcrete(concrete)
	case wilds >= 4:
		if len(concrete) == 1 {
			return HandStrength{Category: FiveOfAKind, Tiebreaks: []deck.Rank{concrete[0].Rank}}
		}
		if wilds >= 5 {
			return HandStrength{Category: FiveOfAKind, Tiebreaks: []deck.Rank{deck.Ace}}
		}
		// Four wilds and nothing else: a four-card hand of aces.
		return HandStrength{Category: FourOfAKind, Tiebreaks: []deck.Rank{deck.Ace}}
	default:
		return substituteBest(concrete, wilds)
	}
}

// substituteBest brute-forces every concrete identity for up to three wilds.
func substituteBest(concrete deck.Hand, wilds int) HandStrength {
	if wilds == 0 {
		return evaluateConcrete(concrete)
	}
	best := HandStrength{Category: HighCard}
	first := true
	hand := make(deck.Hand, len(concrete)+1)
	copy(hand, concrete)
	for suit := deck.Clubs; suit <= deck.Spades; suit++ {
		for rank := deck.Two; rank <= deck.Ace; rank++ {
			hand[len(concrete)] = deck.Card{Rank: rank, Suit: suit}
			hs := substituteBest(hand, wilds-1)
			if first || hs.Beats(best) {
				best = hs
				first = false
			}
		}
	}
	return best
}

type rankGroup struct {
	rank  deck.Rank
	count int
}

func evaluateConcrete(cards deck.Hand) HandStrength {
	if len(cards) == 0 {
		return HandStrength{Category: HighCard}
	}
	counts := make(map[deck.Rank]int, len(cards))
	for _, c := range cards {
		counts[c.Rank]++
	}
	groups := make([]rankGroup, 0, len(counts))
	for rank, count := range counts {
		groups = append(groups, rankGroup{rank: rank, count: count})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return groups[i].rank > groups[j].rank
	})

	flush := len(cards) == 5
	for _, c := range cards {
		if c.Suit != cards[0].Suit {
			flush = false
			break
		}
	}
	straightHigh := straightHighRank(groups)

	keys := func(gs []rankGroup) []deck.Rank {
		out := make([]deck.Rank, len(gs))
		for i, g := range gs {
			out[i] = g.rank
		}
		return out
	}

	switch {
	case groups[0].count == 5:
		return HandStrength{Category: FiveOfAKind, Tiebreaks: []deck.Rank{groups[0].rank}}
	case flush && straightHigh != 0:
		return HandStrength{Category: StraightFlush, Tiebreaks: []deck.Rank{straightHigh}}
	case groups[0].count == 4:
		return HandStrength{Category: FourOfAKind, Tiebreaks: keys(groups)}
	case groups[0].count == 3 && len(groups) > 1 && groups[1].count == 2:
		return HandStrength{Category: FullHouse, Tiebreaks: keys(groups)}
	case flush:
		return HandStrength{Category: Flush, Tiebreaks: sortedRanksDesc(cards)}
	case straightHigh != 0:
		return HandStrength{Category: Straight, Tiebreaks: []deck.Rank{straightHigh}}
	case groups[0].count == 3:
		return HandStrength{Category: ThreeOfAKind, Tiebreaks: keys(groups)}
	case groups[0].count == 2 && len(groups) > 1 && groups[1].count == 2:
		return HandStrength{Category: TwoPair, Tiebreaks: keys(groups)}
	case groups[0].count == 2:
		return HandStrength{Category: OnePair, Tiebreaks: keys(groups)}
	default:
		return HandStrength{Category: HighCard, Tiebreaks: keys(groups)}
	}
}

// straightHighRank returns the high rank of a five-card straight, 0 if the
// groups do not form one. The wheel (A-2-3-4-5) counts as a five-high straight.
func straightHighRank(groups []rankGroup) deck.Rank {
	if len(groups) != 5 {
		return 0
	}
	ranks := make([]int, len(groups))
	for i, g := range groups {
		ranks[i] = int(g.rank)
	}
	sort.Ints(ranks)
	if ranks[4]-ranks[0] == 4 {
		return deck.Rank(ranks[4])
	}
	if ranks[4] == int(deck.Ace) && ranks[3] == int(deck.Five) && ranks[3]-ranks[0] == 3 {
		return deck.Five
	}
	return 0
}

func sortedRanksDesc(cards deck.Hand) []deck.Rank {
	out := make([]deck.Rank, len(cards))
	for i, c := range cards {
		out[i] = c.Rank
	}
	sort.Slice(out, func(i, j int) bool { return out[i] > out[j] })
	return out
}

// combinations invokes fn with every k-subset of indices [0, n).
func combinations(n, k int, fn func(idx []int)) {
	if k > n || k <= 0 {
		return
	}
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		fn(idx)
		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}
