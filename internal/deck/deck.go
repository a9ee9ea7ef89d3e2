// Package deck provides playing cards and a seeded, drawable deck.
//
// Decks are shuffled with a caller-supplied seed so a hand can be replayed
// deterministically from its persisted state.
package deck

import (
	"errors"
	"fmt"
	"math/rand"
)

// Suit identifies one of the four French suits.
type Suit int

const (
	Clubs Suit = iota
	Diamonds
	Hearts
	Spades
)

// Rank is the numeric rank of a card. Aces are high (14); rank 2 is the lowest.
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

var suitRunes = [...]byte{'c', 'd', 'h', 's'}
var rankRunes = [...]byte{'2', '3', '4', '5', '6', '7', '8', '9', 'T', 'J', 'Q', 'K', 'A'}

// Card is a single playing card.
type Card struct {
	Rank Rank `json:"rank"`
	Suit Suit `json:"suit"`
}

// String renders the card in the conventional two-character form, e.g. "As" or "Td".
func (c Card) String() string {
	if c.Rank < Two || c.Rank > Ace || c.Suit < Clubs || c.Suit > Spades {
		return "??"
	}
	return string([]byte{rankRunes[c.Rank-Two], suitRunes[c.Suit]})
}

// Parse converts a two-character card string back into a Card.
func Parse(s string) (Card, error) {
	if len(s) != 2 {
		return Card{}, fmt.Errorf("parse card %q: want two characters", s)
	}
	var card Card
	found := false
	for i, r := range rankRunes {
		if s[0] == r {
			card.Rank = Rank(i) + Two
			found = true
			break
		}
	}
	if !found {
		return Card{}, fmt.Errorf("parse card %q: unknown rank", s)
	}
	found = false
	for i, r := range suitRunes {
		if s[1] == r {
			card.Suit = Suit(i)
			found = true
			break
		}
	}
	if !found {
		return Card{}, fmt.Errorf("parse card %q: unknown suit", s)
	}
	return card, nil
}

// MustParse parses a card string and panics on failure. Test helper.
func MustParse(s string) Card {
	card, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return card
}

// Hand is an ordered collection of cards.
type Hand []Card

// Strings renders each card in the hand.
func (h Hand) Strings() []string {
	out := make([]string, len(h))
	for i, c := range h {
		out[i] = c.String()
	}
	return out
}

// ErrInsufficientCards indicates the deck cannot satisfy a draw request.
var ErrInsufficientCards = errors.New("not enough cards left in deck")

// Deck is a drawable stack of cards. The zero value is not usable; use New.
type Deck struct {
	Cards Hand `json:"cards"`
	Next  int  `json:"next"`
}

// New returns an unshuffled 52-card deck.
func New() *Deck {
	cards := make(Hand, 0, 52)
	for suit := Clubs; suit <= Spades; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			cards = append(cards, Card{Rank: rank, Suit: suit})
		}
	}
	return &Deck{Cards: cards}
}

// Shuffle reorders the remaining deck using the given seed and resets the
// draw position.
func (d *Deck) Shuffle(seed int64) {
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(d.Cards), func(i, j int) {
		d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
	})
	d.Next = 0
}

// Remaining reports how many cards can still be drawn.
func (d *Deck) Remaining() int {
	return len(d.Cards) - d.Next
}

// Draw removes and returns the top card.
func (d *Deck) Draw() (Card, error) {
	if d.Remaining() < 1 {
		return Card{}, ErrInsufficientCards
	}
	card := d.Cards[d.Next]
	d.Next++
	return card, nil
}

// DrawN removes and returns the top n cards.
func (d *Deck) DrawN(n int) (Hand, error) {
	if n < 0 {
		return nil, fmt.Errorf("draw %d cards: negative count", n)
	}
	if d.Remaining() < n {
		return nil, ErrInsufficientCards
	}
	hand := make(Hand, n)
	copy(hand, d.Cards[d.Next:d.Next+n])
	d.Next += n
	return hand, nil
}
