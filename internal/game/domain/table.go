// Package domain defines the table aggregate and per-hand records for the
// card-game flow engine.
//
// A Table owns everything one game needs between hands: seats, stacks, the
// deck, contributions, and the current phase. The orchestration layer holds
// exclusive ownership of a table while a transition is in progress; nothing
// here is safe for concurrent mutation.
package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/cardroom/internal/deck"
	"github.com/louisbranch/cardroom/internal/id"
)

// SeatStatus describes a seat's standing within the current hand.
type SeatStatus int

const (
	// SeatStatusUnspecified represents an invalid seat status value.
	SeatStatusUnspecified SeatStatus = iota
	// SeatStatusActive indicates the seat is contesting the hand.
	SeatStatusActive
	// SeatStatusFolded indicates the seat folded this hand.
	SeatStatusFolded
	// SeatStatusAllIn indicates the seat is contesting with no chips behind.
	SeatStatusAllIn
	// SeatStatusSittingOut indicates the seat is skipping hands.
	SeatStatusSittingOut
	// SeatStatusEliminated indicates the seat is out of the game.
	SeatStatusEliminated
)

var seatStatusNames = map[SeatStatus]string{
	SeatStatusActive:     "active",
	SeatStatusFolded:     "folded",
	SeatStatusAllIn:      "all-in",
	SeatStatusSittingOut: "sitting-out",
	SeatStatusEliminated: "eliminated",
}

// String returns the seat status name.
func (s SeatStatus) String() string {
	if name, ok := seatStatusNames[s]; ok {
		return name
	}
	return "unspecified"
}

// Declaration is a seat's choice during a Decision phase.
type Declaration string

const (
	DeclarationNone Declaration = ""
	DeclarationIn   Declaration = "in"
	DeclarationOut  Declaration = "out"
)

// Seat is one position at a table.
type Seat struct {
	PlayerID    string      `json:"player_id"`
	Stack       int         `json:"stack"`
	Status      SeatStatus  `json:"status"`
	HoleCards   deck.Hand   `json:"hole_cards,omitempty"`
	UpCards     deck.Hand   `json:"up_cards,omitempty"`
	Committed   int         `json:"committed"`
	Contributed int         `json:"contributed"`
	Acted       bool        `json:"acted"`
	Drawn       bool        `json:"drawn"`
	Declared    Declaration `json:"declared,omitempty"`
}

// InHand reports whether the seat is still contesting the current hand.
func (s *Seat) InHand() bool {
	return s.Status == SeatStatusActive || s.Status == SeatStatusAllIn
}

// CanAct reports whether the seat can still take voluntary actions.
func (s *Seat) CanAct() bool {
	return s.Status == SeatStatusActive
}

// Table is the aggregate root for one running game.
type Table struct {
	ID      string `json:"id"`
	HostID  string `json:"host_id"`
	Variant string `json:"variant"`
	Phase   Phase  `json:"phase"`

	Seats     []*Seat `json:"seats"`
	DealerPos int     `json:"dealer_pos"`
	// TurnPos is the index of the seat expected to act, -1 when no seat is.
	TurnPos int `json:"turn_pos"`

	Ante       int `json:"ante"`
	MinBet     int `json:"min_bet"`
	CurrentBet int `json:"current_bet"`
	// CarryOver is pot money carried into the next hand by match-pot variants.
	CarryOver int `json:"carry_over"`

	Deck      *deck.Deck `json:"deck"`
	Community deck.Hand  `json:"community,omitempty"`
	// DeckHand is the house hand dealt when a lone declarer plays the deck.
	DeckHand deck.Hand `json:"deck_hand,omitempty"`

	HandNum int   `json:"hand_num"`
	Seed    int64 `json:"seed"`

	Paused      bool   `json:"paused"`
	PauseReason string `json:"pause_reason,omitempty"`

	PhaseStartedAt time.Time `json:"phase_started_at"`
	// TurnDeadline bounds the acting seat's think time; zero means no timer.
	TurnDeadline time.Time `json:"turn_deadline,omitzero"`

	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

var (
	// ErrEmptyHostID indicates a missing host player ID.
	ErrEmptyHostID = errors.New("host id is required")
	// ErrEmptyVariant indicates a missing variant code.
	ErrEmptyVariant = errors.New("variant code is required")
	// ErrTooFewSeats indicates fewer than two seats were supplied.
	ErrTooFewSeats = errors.New("at least two seats are required")
	// ErrInvalidStack indicates a non-positive starting stack.
	ErrInvalidStack = errors.New("starting stacks must be positive")
)

// SeatInput describes one seat for table creation.
type SeatInput struct {
	PlayerID string
	Stack    int
}

// CreateTableInput describes the metadata needed to create a table.
type CreateTableInput struct {
	HostID  string
	Variant string
	Ante    int
	MinBet  int
	Seats   []SeatInput
}

// CreateTable creates a new table in the Setup phase with a generated ID and
// timestamps.
func CreateTable(input CreateTableInput, now func() time.Time, idGenerator func() (string, error)) (Table, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	normalized, err := NormalizeCreateTableInput(input)
	if err != nil {
		return Table{}, err
	}

	tableID, err := idGenerator()
	if err != nil {
		return Table{}, fmt.Errorf("generate table id: %w", err)
	}

	seats := make([]*Seat, len(normalized.Seats))
	for i, in := range normalized.Seats {
		seats[i] = &Seat{
			PlayerID: in.PlayerID,
			Stack:    in.Stack,
			Status:   SeatStatusActive,
		}
	}

	createdAt := now().UTC()
	return Table{
		ID:             tableID,
		HostID:         normalized.HostID,
		Variant:        normalized.Variant,
		Phase:          PhaseSetup,
		Seats:          seats,
		DealerPos:      0,
		TurnPos:        -1,
		Ante:           normalized.Ante,
		MinBet:         normalized.MinBet,
		PhaseStartedAt: createdAt,
		CreatedAt:      createdAt,
		UpdatedAt:      createdAt,
	}, nil
}

// NormalizeCreateTableInput trims and validates table input metadata.
func NormalizeCreateTableInput(input CreateTableInput) (CreateTableInput, error) {
	input.HostID = strings.TrimSpace(input.HostID)
	if input.HostID == "" {
		return CreateTableInput{}, ErrEmptyHostID
	}
	input.Variant = strings.TrimSpace(input.Variant)
	if input.Variant == "" {
		return CreateTableInput{}, ErrEmptyVariant
	}
	if len(input.Seats) < 2 {
		return CreateTableInput{}, ErrTooFewSeats
	}
	if input.Ante < 0 {
		return CreateTableInput{}, errors.New("ante must not be negative")
	}
	if input.MinBet <= 0 {
		input.MinBet = 1
	}
	for i := range input.Seats {
		input.Seats[i].PlayerID = strings.TrimSpace(input.Seats[i].PlayerID)
		if input.Seats[i].PlayerID == "" {
			return CreateTableInput{}, errors.New("seat player id is required")
		}
		if input.Seats[i].Stack <= 0 {
			return CreateTableInput{}, ErrInvalidStack
		}
	}
	return input, nil
}

// SeatIndexByPlayer returns the index of the seat held by playerID, -1 if none.
func (t *Table) SeatIndexByPlayer(playerID string) int {
	for i, seat := range t.Seats {
		if seat.PlayerID == playerID {
			return i
		}
	}
	return -1
}

// InHandSeatIndexes returns the indexes of seats still contesting the hand,
// in seating order.
func (t *Table) InHandSeatIndexes() []int {
	var out []int
	for i, seat := range t.Seats {
		if seat.InHand() {
			out = append(out, i)
		}
	}
	return out
}

// PotTotal is the sum of all contributions this hand plus any carry-over.
func (t *Table) PotTotal() int {
	total := t.CarryOver
	for _, seat := range t.Seats {
		total += seat.Contributed
	}
	return total
}

// ChipTotal is the conserved quantity: stacks plus pot. It changes only on
// explicit chip-add and settlement bookkeeping, never on transitions.
func (t *Table) ChipTotal() int {
	total := t.PotTotal()
	for _, seat := range t.Seats {
		total += seat.Stack
	}
	return total
}

// NextInHandSeat returns the first seat index at or after from (wrapping)
// whose seat can still act, -1 if none can.
func (t *Table) NextInHandSeat(from int) int {
	n := len(t.Seats)
	if n == 0 {
		return -1
	}
	for i := 0; i < n; i++ {
		idx := ((from+i)%n + n) % n
		if t.Seats[idx].CanAct() {
			return idx
		}
	}
	return -1
}
