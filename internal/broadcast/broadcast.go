// Package broadcast builds the state views sent to observers after each
// committed transition.
//
// The public snapshot is safe for every observer: it carries up-cards, counts
// of concealed cards, pot and turn state, but never hole-card identities.
// Private snapshots carry one seat's own hole cards and are addressed to that
// seat's player only.
package broadcast

import (
	"context"
	"log"
	"time"

	"github.com/louisbranch/cardroom/internal/game/domain"
)

// SeatView is one seat as every observer may see it.
type SeatView struct {
	PlayerID      string   `json:"player_id"`
	Stack         int      `json:"stack"`
	Status        string   `json:"status"`
	Committed     int      `json:"committed"`
	HoleCardCount int      `json:"hole_card_count"`
	UpCards       []string `json:"up_cards,omitempty"`
	Declared      string   `json:"declared,omitempty"`
}

// PublicSnapshot is the table state visible to all observers.
type PublicSnapshot struct {
	TableID      string     `json:"table_id"`
	Variant      string     `json:"variant"`
	Phase        string     `json:"phase"`
	HandNum      int        `json:"hand_num"`
	Pot          int        `json:"pot"`
	CurrentBet   int        `json:"current_bet"`
	DealerPos    int        `json:"dealer_pos"`
	TurnPos      int        `json:"turn_pos"`
	TurnDeadline time.Time  `json:"turn_deadline,omitzero"`
	Paused       bool       `json:"paused"`
	PauseReason  string     `json:"pause_reason,omitempty"`
	Seats        []SeatView `json:"seats"`
	Community    []string   `json:"community,omitempty"`
	DeckHand     []string   `json:"deck_hand,omitempty"`
	Version      int64      `json:"version"`
}

// PrivateSnapshot is the extra state one player may see about their own seat.
type PrivateSnapshot struct {
	PlayerID  string   `json:"player_id"`
	SeatIndex int      `json:"seat_index"`
	HoleCards []string `json:"hole_cards,omitempty"`
}

// Public builds the snapshot every observer may receive.
func Public(table *domain.Table) PublicSnapshot {
	snapshot := PublicSnapshot{
		TableID:      table.ID,
		Variant:      table.Variant,
		Phase:        string(table.Phase),
		HandNum:      table.HandNum,
		Pot:          table.PotTotal(),
		CurrentBet:   table.CurrentBet,
		DealerPos:    table.DealerPos,
		TurnPos:      table.TurnPos,
		TurnDeadline: table.TurnDeadline,
		Paused:       table.Paused,
		PauseReason:  table.PauseReason,
		Community:    table.Community.Strings(),
		DeckHand:     table.DeckHand.Strings(),
		Version:      table.Version,
	}
	for _, seat := range table.Seats {
		view := SeatView{
			PlayerID:      seat.PlayerID,
			Stack:         seat.Stack,
			Status:        seat.Status.String(),
			Committed:     seat.Committed,
			HoleCardCount: len(seat.HoleCards),
			UpCards:       seat.UpCards.Strings(),
		}
		// Declarations stay concealed until the decision round closes, so a
		// later seat cannot react to an earlier seat's choice.
		if table.Phase != domain.PhaseDecision {
			view.Declared = string(seat.Declared)
		}
		snapshot.Seats = append(snapshot.Seats, view)
	}
	return snapshot
}

// Private builds per-seat snapshots, one for each seated player.
func Private(table *domain.Table) []PrivateSnapshot {
	out := make([]PrivateSnapshot, 0, len(table.Seats))
	for i, seat := range table.Seats {
		out = append(out, PrivateSnapshot{
			PlayerID:  seat.PlayerID,
			SeatIndex: i,
			HoleCards: seat.HoleCards.Strings(),
		})
	}
	return out
}

// Broadcaster delivers snapshots after a committed transition. Delivery is
// best effort; a failed broadcast never rolls a transition back.
type Broadcaster interface {
	Broadcast(ctx context.Context, public PublicSnapshot, private []PrivateSnapshot)
}

// Logger is a Broadcaster that writes one log line per public snapshot.
type Logger struct{}

// Broadcast logs the public snapshot. Private snapshots are counted, never
// logged, so hole cards stay out of process output.
func (Logger) Broadcast(_ context.Context, public PublicSnapshot, private []PrivateSnapshot) {
	log.Printf(
		"broadcast table=%s phase=%s hand=%d pot=%d turn=%d seats=%d private=%d",
		public.TableID, public.Phase, public.HandNum, public.Pot, public.TurnPos,
		len(public.Seats), len(private),
	)
}

// Nop is a Broadcaster that discards snapshots.
type Nop struct{}

// Broadcast discards the snapshots.
func (Nop) Broadcast(context.Context, PublicSnapshot, []PrivateSnapshot) {}
