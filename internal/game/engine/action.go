package engine

import (
	"context"
	"fmt"

	"github.com/louisbranch/cardroom/internal/game/domain"
	"github.com/louisbranch/cardroom/internal/game/rules"
	"github.com/louisbranch/cardroom/internal/platform/errors"
)

// ActionKind names a voluntary player action.
type ActionKind string

const (
	ActionFold    ActionKind = "fold"
	ActionCheck   ActionKind = "check"
	ActionCall    ActionKind = "call"
	ActionBet     ActionKind = "bet"
	ActionRaise   ActionKind = "raise"
	ActionDraw    ActionKind = "draw"
	ActionDeclare ActionKind = "declare"
)

// ActionRequest is one player's submitted action.
type ActionRequest struct {
	TableID  string
	PlayerID string
	Kind     ActionKind
	// Amount is the street total the seat commits to, for bet and raise.
	Amount int
	// Discards are hole-card indexes to replace, for draw.
	Discards []int
	// Declaration is the in-or-out choice, for declare.
	Declaration domain.Declaration
}

// actionTriggers maps an action kind to the machine trigger it fires.
var actionTriggers = map[ActionKind]domain.Trigger{
	ActionFold:    domain.TriggerBettingAction,
	ActionCheck:   domain.TriggerBettingAction,
	ActionCall:    domain.TriggerBettingAction,
	ActionBet:     domain.TriggerBettingAction,
	ActionRaise:   domain.TriggerBettingAction,
	ActionDraw:    domain.TriggerDrawAction,
	ActionDeclare: domain.TriggerDeclare,
}

// SubmitAction applies one player action as a single transition. The machine
// decides whether the action's trigger is permitted from the current phase;
// the handlers validate turn order and chip arithmetic.
func (e *Engine) SubmitAction(ctx context.Context, req ActionRequest) (domain.Table, error) {
	trigger, ok := actionTriggers[req.Kind]
	if !ok {
		return domain.Table{}, errors.WithMetadata(errors.CodeMalformedAction,
			fmt.Sprintf("unknown action kind %q", req.Kind),
			map[string]string{"kind": string(req.Kind)})
	}

	table, err := e.withTable(ctx, req.TableID, "submit_action", func(t *domain.Table, entry rules.Entry) (domain.Trigger, error) {
		if err := requireRunning(t); err != nil {
			return "", err
		}
		if _, err := entry.Machine.Apply(t.Phase, trigger); err != nil {
			return "", err
		}

		seatIdx := t.SeatIndexByPlayer(req.PlayerID)
		if seatIdx < 0 {
			return "", errors.WithMetadata(errors.CodeMalformedAction,
				fmt.Sprintf("player %s is not seated at this table", req.PlayerID),
				map[string]string{"player": req.PlayerID})
		}
		if t.TurnPos != seatIdx {
			return "", errors.WithMetadata(errors.CodeNotYourTurn,
				fmt.Sprintf("it is not player %s's turn", req.PlayerID),
				map[string]string{"player": req.PlayerID, "turn": fmt.Sprint(t.TurnPos)})
		}

		var err error
		switch trigger {
		case domain.TriggerBettingAction:
			err = applyBettingAction(t, seatIdx, req)
		case domain.TriggerDrawAction:
			err = applyDrawAction(t, seatIdx, req)
		case domain.TriggerDeclare:
			err = applyDeclare(t, seatIdx, req)
		}
		if err != nil {
			return "", err
		}

		e.afterPlayerAction(ctx, t, entry, trigger)
		return trigger, nil
	})
	if err != nil {
		return table, err
	}
	e.emitter.ActionApplied(ctx, req.TableID, req.PlayerID, string(req.Kind))
	return table, nil
}

// afterPlayerAction advances the turn marker after an accepted action, and
// short-circuits to settlement when only one seat is left contesting. The
// short circuit fires the variant's declared HandFolded edge; a topology
// without one resolves through its normal showdown path instead.
func (e *Engine) afterPlayerAction(ctx context.Context, t *domain.Table, entry rules.Entry, trigger domain.Trigger) {
	if trigger == domain.TriggerBettingAction {
		if inHand := t.InHandSeatIndexes(); len(inHand) == 1 {
			if target, err := entry.Machine.Apply(t.Phase, domain.TriggerHandFolded); err == nil {
				e.settleFoldWin(ctx, t, inHand[0])
				e.enterPhase(t, entry, target)
				return
			}
		}
	}

	switch trigger {
	case domain.TriggerBettingAction:
		t.TurnPos = nextBettingActor(t, t.TurnPos+1)
	case domain.TriggerDrawAction:
		// All-in seats still contest the hand, so they draw too.
		t.TurnPos = nextSeatWhere(t, t.TurnPos+1, func(s *domain.Seat) bool {
			return s.InHand() && !s.Drawn
		})
	case domain.TriggerDeclare:
		t.TurnPos = nextSeatWhere(t, t.TurnPos+1, func(s *domain.Seat) bool {
			return s.InHand() && s.Declared == domain.DeclarationNone
		})
	}

	if t.TurnPos >= 0 {
		e.armTurnTimer(t)
	} else {
		clearTurnTimer(t)
	}
}

// applyBettingAction mutates the table for one betting action. Amounts are
// street totals: a raise to 30 commits the seat to 30 for this street.
func applyBettingAction(t *domain.Table, seatIdx int, req ActionRequest) error {
	seat := t.Seats[seatIdx]
	if !seat.CanAct() {
		return errors.New(errors.CodeMalformedAction, "seat cannot act in this hand")
	}

	switch req.Kind {
	case ActionFold:
		seat.Status = domain.SeatStatusFolded

	case ActionCheck:
		if seat.Committed != t.CurrentBet {
			return errors.WithMetadata(errors.CodeMalformedAction,
				"cannot check facing a bet",
				map[string]string{"owed": fmt.Sprint(t.CurrentBet - seat.Committed)})
		}

	case ActionCall:
		owed := t.CurrentBet - seat.Committed
		if owed <= 0 {
			return errors.New(errors.CodeMalformedAction, "nothing to call")
		}
		commitChips(t, seat, min(owed, seat.Stack))

	case ActionBet:
		if t.CurrentBet != 0 {
			return errors.New(errors.CodeMalformedAction, "cannot bet facing a bet; raise instead")
		}
		if req.Amount < t.MinBet {
			return errors.WithMetadata(errors.CodeMalformedAction,
				fmt.Sprintf("bet %d is below the minimum %d", req.Amount, t.MinBet),
				map[string]string{"amount": fmt.Sprint(req.Amount), "min": fmt.Sprint(t.MinBet)})
		}
		if req.Amount > seat.Stack+seat.Committed {
			return errors.WithMetadata(errors.CodeInsufficientChips,
				fmt.Sprintf("bet %d exceeds stack %d", req.Amount, seat.Stack),
				map[string]string{"amount": fmt.Sprint(req.Amount), "stack": fmt.Sprint(seat.Stack)})
		}
		commitChips(t, seat, req.Amount-seat.Committed)
		t.CurrentBet = req.Amount
		resetActedExcept(t, seatIdx)

	case ActionRaise:
		if t.CurrentBet == 0 {
			return errors.New(errors.CodeMalformedAction, "cannot raise with no bet to raise; bet instead")
		}
		allIn := req.Amount == seat.Stack+seat.Committed
		if req.Amount < t.CurrentBet+t.MinBet && !allIn {
			return errors.WithMetadata(errors.CodeMalformedAction,
				fmt.Sprintf("raise to %d is below the minimum %d", req.Amount, t.CurrentBet+t.MinBet),
				map[string]string{"amount": fmt.Sprint(req.Amount), "min": fmt.Sprint(t.CurrentBet + t.MinBet)})
		}
		if req.Amount > seat.Stack+seat.Committed {
			return errors.WithMetadata(errors.CodeInsufficientChips,
				fmt.Sprintf("raise to %d exceeds stack %d", req.Amount, seat.Stack),
				map[string]string{"amount": fmt.Sprint(req.Amount), "stack": fmt.Sprint(seat.Stack)})
		}
		commitChips(t, seat, req.Amount-seat.Committed)
		if req.Amount > t.CurrentBet {
			t.CurrentBet = req.Amount
			resetActedExcept(t, seatIdx)
		}

	default:
		return errors.New(errors.CodeMalformedAction, "not a betting action")
	}

	seat.Acted = true
	return nil
}

// commitChips moves amount from the seat's stack into its street commitment.
func commitChips(t *domain.Table, seat *domain.Seat, amount int) {
	seat.Stack -= amount
	seat.Committed += amount
	seat.Contributed += amount
	if seat.Stack == 0 {
		seat.Status = domain.SeatStatusAllIn
	}
}

// resetActedExcept reopens the action for every other live seat after a bet
// or raise.
func resetActedExcept(t *domain.Table, seatIdx int) {
	for i, other := range t.Seats {
		if i != seatIdx && other.CanAct() {
			other.Acted = false
		}
	}
}

// applyDrawAction replaces the requested hole cards from the deck. An empty
// discard list stands pat.
func applyDrawAction(t *domain.Table, seatIdx int, req ActionRequest) error {
	seat := t.Seats[seatIdx]
	if !seat.InHand() {
		return errors.New(errors.CodeMalformedAction, "seat is not contesting this hand")
	}
	if seat.Drawn {
		return errors.New(errors.CodeMalformedAction, "seat has already drawn this round")
	}

	seen := make(map[int]bool, len(req.Discards))
	for _, idx := range req.Discards {
		if idx < 0 || idx >= len(seat.HoleCards) {
			return errors.WithMetadata(errors.CodeMalformedAction,
				fmt.Sprintf("discard index %d is out of range", idx),
				map[string]string{"index": fmt.Sprint(idx), "hand_size": fmt.Sprint(len(seat.HoleCards))})
		}
		if seen[idx] {
			return errors.WithMetadata(errors.CodeMalformedAction,
				fmt.Sprintf("discard index %d repeated", idx),
				map[string]string{"index": fmt.Sprint(idx)})
		}
		seen[idx] = true
	}

	replacements, err := t.Deck.DrawN(len(req.Discards))
	if err != nil {
		return errors.Wrap(errors.CodeInsufficientDeckCards,
			fmt.Sprintf("deck cannot supply %d replacement cards", len(req.Discards)), err)
	}
	next := 0
	for _, idx := range req.Discards {
		seat.HoleCards[idx] = replacements[next]
		next++
	}

	seat.Drawn = true
	return nil
}

// applyDeclare records the seat's in-or-out declaration.
func applyDeclare(t *domain.Table, seatIdx int, req ActionRequest) error {
	seat := t.Seats[seatIdx]
	if !seat.InHand() {
		return errors.New(errors.CodeMalformedAction, "seat is not contesting this hand")
	}
	if seat.Declared != domain.DeclarationNone {
		return errors.New(errors.CodeMalformedAction, "seat has already declared")
	}
	if req.Declaration != domain.DeclarationIn && req.Declaration != domain.DeclarationOut {
		return errors.WithMetadata(errors.CodeMalformedAction,
			fmt.Sprintf("declaration %q is not in or out", req.Declaration),
			map[string]string{"declaration": string(req.Declaration)})
	}
	seat.Declared = req.Declaration
	return nil
}

// nextBettingActor returns the first seat at or after from that still owes a
// decision this street, -1 when the round is complete.
func nextBettingActor(t *domain.Table, from int) int {
	return nextSeatWhere(t, from, func(s *domain.Seat) bool {
		return s.CanAct() && (s.Committed < t.CurrentBet || !s.Acted)
	})
}

func nextSeatWhere(t *domain.Table, from int, fn func(*domain.Seat) bool) int {
	n := len(t.Seats)
	if n == 0 {
		return -1
	}
	for i := 0; i < n; i++ {
		idx := ((from+i)%n + n) % n
		if fn(t.Seats[idx]) {
			return idx
		}
	}
	return -1
}
