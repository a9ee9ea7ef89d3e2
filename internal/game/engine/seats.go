package engine

import (
	"context"
	"fmt"

	"github.com/louisbranch/cardroom/internal/game/domain"
	"github.com/louisbranch/cardroom/internal/game/rules"
	"github.com/louisbranch/cardroom/internal/platform/errors"
)

// JoinTable seats a new player. Seats change only between hands; the new seat
// plays from the next hand onward.
func (e *Engine) JoinTable(ctx context.Context, tableID, playerID string, stack int) (domain.Table, error) {
	return e.withTable(ctx, tableID, "join_table", func(t *domain.Table, entry rules.Entry) (domain.Trigger, error) {
		if err := requireRunning(t); err != nil {
			return "", err
		}
		if err := requireBetweenHands(t); err != nil {
			return "", err
		}
		if max := entry.Descriptor.MaxSeats; max > 0 && len(t.Seats) >= max {
			return "", errors.WithMetadata(errors.CodeMalformedAction,
				fmt.Sprintf("table is full: %s seats at most %d players", entry.Descriptor.Code, max),
				map[string]string{"max_seats": fmt.Sprint(max)})
		}
		if stack <= 0 {
			return "", errors.WithMetadata(errors.CodeMalformedAction,
				"starting stack must be positive",
				map[string]string{"stack": fmt.Sprint(stack)})
		}
		if t.SeatIndexByPlayer(playerID) >= 0 {
			return "", errors.WithMetadata(errors.CodeMalformedAction,
				fmt.Sprintf("player %s is already seated", playerID),
				map[string]string{"player": playerID})
		}
		t.Seats = append(t.Seats, &domain.Seat{
			PlayerID: playerID,
			Stack:    stack,
			Status:   domain.SeatStatusActive,
		})
		return "", nil
	})
}

// LeaveTable removes a player's seat between hands. The seat's stack leaves
// the table with the player. The host ends the table instead of leaving it.
func (e *Engine) LeaveTable(ctx context.Context, tableID, playerID string) (domain.Table, error) {
	return e.withTable(ctx, tableID, "leave_table", func(t *domain.Table, _ rules.Entry) (domain.Trigger, error) {
		if err := requireRunning(t); err != nil {
			return "", err
		}
		if err := requireBetweenHands(t); err != nil {
			return "", err
		}
		if playerID == t.HostID {
			return "", errors.New(errors.CodeMalformedAction,
				"the host ends the table instead of leaving it")
		}
		idx := t.SeatIndexByPlayer(playerID)
		if idx < 0 {
			return "", errors.WithMetadata(errors.CodeMalformedAction,
				fmt.Sprintf("player %s is not seated at this table", playerID),
				map[string]string{"player": playerID})
		}
		t.Seats = append(t.Seats[:idx], t.Seats[idx+1:]...)
		if idx < t.DealerPos {
			t.DealerPos--
		}
		if t.DealerPos >= len(t.Seats) {
			t.DealerPos = 0
		}
		return "", nil
	})
}

// AddChips tops up a seat's stack between hands. This is one of the two
// events allowed to change the table's chip total.
func (e *Engine) AddChips(ctx context.Context, tableID, playerID string, amount int) (domain.Table, error) {
	return e.withTable(ctx, tableID, "add_chips", func(t *domain.Table, _ rules.Entry) (domain.Trigger, error) {
		if err := requireRunning(t); err != nil {
			return "", err
		}
		if err := requireBetweenHands(t); err != nil {
			return "", err
		}
		if amount <= 0 {
			return "", errors.WithMetadata(errors.CodeMalformedAction,
				"chip amount must be positive",
				map[string]string{"amount": fmt.Sprint(amount)})
		}
		idx := t.SeatIndexByPlayer(playerID)
		if idx < 0 {
			return "", errors.WithMetadata(errors.CodeMalformedAction,
				fmt.Sprintf("player %s is not seated at this table", playerID),
				map[string]string{"player": playerID})
		}
		t.Seats[idx].Stack += amount
		return "", nil
	})
}

// EndTable ends the table at the host's request, even mid-hand. Any pending
// turn timer is cancelled and contributions to an unresolved pot return to
// their seats.
func (e *Engine) EndTable(ctx context.Context, tableID, playerID string) (domain.Table, error) {
	return e.withTable(ctx, tableID, "end_table", func(t *domain.Table, entry rules.Entry) (domain.Trigger, error) {
		if err := requireRunning(t); err != nil {
			return "", err
		}
		if t.HostID != playerID {
			return "", errors.WithMetadata(errors.CodeMalformedAction,
				"only the host can end the table",
				map[string]string{"player": playerID})
		}
		for _, seat := range t.Seats {
			seat.Stack += seat.Contributed
			seat.Committed = 0
			seat.Contributed = 0
		}
		t.CurrentBet = 0
		e.enterPhase(t, entry, domain.PhaseEnded)
		return domain.TriggerEndTable, nil
	})
}

// requireBetweenHands rejects seat mutations while a hand is in progress.
func requireBetweenHands(t *domain.Table) error {
	if t.Phase != domain.PhaseSetup && t.Phase != domain.PhaseHandComplete {
		return errors.WithMetadata(errors.CodeInvalidTransition,
			"seats change only between hands",
			map[string]string{"phase": string(t.Phase)})
	}
	return nil
}
