package engine

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/louisbranch/cardroom/internal/game/domain"
	"github.com/louisbranch/cardroom/internal/game/rules"
)

// AutoAdvance performs at most one due transition for the table. It reports
// whether a transition was committed; a table with nothing due is a clean
// no-op, so repeated polling within a cycle converges.
func (e *Engine) AutoAdvance(ctx context.Context, tableID string) (bool, error) {
	var timedOut string
	_, err := e.withTable(ctx, tableID, "auto_advance", func(t *domain.Table, entry rules.Entry) (domain.Trigger, error) {
		timedOut = ""
		if err := requireRunning(t); err != nil {
			return "", err
		}

		if turnExpired(t, e.now()) {
			timedOut = t.Seats[t.TurnPos].PlayerID
			return e.forceTimeoutAction(ctx, t, entry)
		}

		trigger, ok := dueTrigger(t, entry)
		if !ok {
			return "", errSkipSave
		}
		return trigger, e.applyTrigger(ctx, t, entry, trigger)
	})
	if stderrors.Is(err, errSkipSave) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if timedOut != "" {
		e.emitter.ActionApplied(ctx, tableID, timedOut, "timeout")
	}
	return true, nil
}

func turnExpired(t *domain.Table, now time.Time) bool {
	return t.TurnPos >= 0 && !t.TurnDeadline.IsZero() && now.UTC().After(t.TurnDeadline)
}

// forceTimeoutAction applies the forfeiting action for the seat whose turn
// timer expired: fold in a betting phase, stand pat in a draw phase, declare
// out in a decision phase.
func (e *Engine) forceTimeoutAction(ctx context.Context, t *domain.Table, entry rules.Entry) (domain.Trigger, error) {
	seatIdx := t.TurnPos

	var trigger domain.Trigger
	var err error
	switch entry.Machine.Category(t.Phase) {
	case domain.CategoryBetting:
		trigger = domain.TriggerBettingAction
		if _, err = entry.Machine.Apply(t.Phase, trigger); err == nil {
			kind := ActionFold
			// A seat facing no bet is checked, not folded.
			if t.Seats[seatIdx].Committed == t.CurrentBet {
				kind = ActionCheck
			}
			err = applyBettingAction(t, seatIdx, ActionRequest{Kind: kind})
		}
	case domain.CategoryDrawing:
		trigger = domain.TriggerDrawAction
		if _, err = entry.Machine.Apply(t.Phase, trigger); err == nil {
			err = applyDrawAction(t, seatIdx, ActionRequest{Kind: ActionDraw})
		}
	case domain.CategoryDecision:
		trigger = domain.TriggerDeclare
		if _, err = entry.Machine.Apply(t.Phase, trigger); err == nil {
			err = applyDeclare(t, seatIdx, ActionRequest{Kind: ActionDeclare, Declaration: domain.DeclarationOut})
		}
	default:
		// A stale deadline outside an acting phase clears without a
		// transition.
		clearTurnTimer(t)
		return "", nil
	}
	if err != nil {
		return "", err
	}

	e.afterPlayerAction(ctx, t, entry, trigger)
	return trigger, nil
}

// dueTrigger decides whether the table owes a system transition right now.
// Phases that wait on player actions are due only once every expected action
// arrived; the rest advance as soon as their trigger is permitted.
func dueTrigger(t *domain.Table, entry rules.Entry) (domain.Trigger, bool) {
	permitted := make(map[domain.Trigger]bool)
	for _, trigger := range entry.Machine.PermittedTriggers(t.Phase) {
		permitted[trigger] = true
	}

	switch entry.Machine.Category(t.Phase) {
	case domain.CategorySetup:
		if permitted[domain.TriggerStartHand] && seatsWithChips(t) >= 2 {
			return domain.TriggerStartHand, true
		}
	case domain.CategoryCollection:
		if permitted[domain.TriggerCollectAntes] {
			return domain.TriggerCollectAntes, true
		}
	case domain.CategoryDealing:
		if permitted[domain.TriggerDeal] {
			return domain.TriggerDeal, true
		}
	case domain.CategoryBetting:
		if permitted[domain.TriggerBettingComplete] && t.TurnPos < 0 {
			return domain.TriggerBettingComplete, true
		}
	case domain.CategoryDrawing:
		if permitted[domain.TriggerDrawComplete] && t.TurnPos < 0 {
			return domain.TriggerDrawComplete, true
		}
	case domain.CategoryDecision:
		if permitted[domain.TriggerDecisionComplete] && t.TurnPos < 0 {
			return domain.TriggerDecisionComplete, true
		}
	case domain.CategoryResolution:
		if permitted[domain.TriggerSettle] {
			return domain.TriggerSettle, true
		}
	case domain.CategorySpecial:
		if permitted[domain.TriggerNextHand] && seatsWithChips(t) >= 2 {
			return domain.TriggerNextHand, true
		}
		if permitted[domain.TriggerEndTable] && seatsWithChips(t) < 2 {
			return domain.TriggerEndTable, true
		}
	}
	return "", false
}

// seatsWithChips counts seats able to fund the next hand. Seat statuses are
// stale between hands (folds and sit-outs persist until the next hand's
// reset), so the count goes by stack alone.
func seatsWithChips(t *domain.Table) int {
	n := 0
	for _, seat := range t.Seats {
		if seat.Stack > 0 {
			n++
		}
	}
	return n
}
