package engine

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/louisbranch/cardroom/internal/deck"
	"github.com/louisbranch/cardroom/internal/game/domain"
	"github.com/louisbranch/cardroom/internal/game/rules"
	"github.com/louisbranch/cardroom/internal/game/settle"
	"github.com/louisbranch/cardroom/internal/platform/errors"
	"github.com/louisbranch/cardroom/internal/poker"
)

// applyTrigger runs one transition: the machine validates the trigger, the
// trigger's effect mutates the table, and the table enters the target phase.
// Effects may override the machine's declared target (variant post-showdown
// flow) but never bypass the permission check.
func (e *Engine) applyTrigger(ctx context.Context, t *domain.Table, entry rules.Entry, trigger domain.Trigger) error {
	target, err := entry.Machine.Apply(t.Phase, trigger)
	if err != nil {
		return err
	}

	switch trigger {
	case domain.TriggerStartHand, domain.TriggerNextHand:
		if err := e.startHand(t, entry); err != nil {
			return err
		}
		if initial := entry.Flow.InitialPhase(); initial != "" {
			target = initial
		}
	case domain.TriggerCollectAntes:
		if !entry.Flow.SkipsAnteCollection() {
			collectAntes(t)
		}
	case domain.TriggerDeal:
		if err := entry.Flow.DealCards(t); err != nil {
			return err
		}
	case domain.TriggerBettingComplete:
		endBettingRound(t)
	case domain.TriggerDrawComplete:
		override, err := entry.Flow.ProcessDrawComplete(t)
		if err != nil {
			return err
		}
		if override != "" {
			target = override
		}
	case domain.TriggerDecisionComplete:
		endDecisionRound(t)
	case domain.TriggerSettle:
		if err := e.settleHand(ctx, t, entry); err != nil {
			return err
		}
		override, err := entry.Flow.ProcessPostShowdown(t)
		if err != nil {
			return err
		}
		if override != "" {
			target = override
		}
	case domain.TriggerEndTable:
		// No effect beyond entering the terminal phase.
	}

	e.enterPhase(t, entry, target)
	return nil
}

// enterPhase moves the table into phase and establishes turn state for
// phases that wait on seat actions.
func (e *Engine) enterPhase(t *domain.Table, entry rules.Entry, phase domain.Phase) {
	t.Phase = phase
	t.PhaseStartedAt = e.now().UTC()
	t.TurnPos = -1
	t.TurnDeadline = time.Time{}

	switch entry.Machine.Category(phase) {
	case domain.CategoryBetting:
		t.TurnPos = t.NextInHandSeat(t.DealerPos + 1)
		e.armTurnTimer(t)
	case domain.CategoryDrawing:
		// All-in seats still contest the hand, so they draw too.
		t.TurnPos = nextSeatWhere(t, t.DealerPos+1, func(s *domain.Seat) bool {
			return s.InHand() && !s.Drawn
		})
		e.armTurnTimer(t)
	case domain.CategoryDecision:
		t.TurnPos = nextSeatWhere(t, t.DealerPos+1, func(s *domain.Seat) bool {
			return s.InHand() && s.Declared == domain.DeclarationNone
		})
		e.armTurnTimer(t)
	}
}

func (e *Engine) armTurnTimer(t *domain.Table) {
	if t.TurnPos >= 0 && e.turnTimeout > 0 {
		t.TurnDeadline = e.now().UTC().Add(e.turnTimeout)
	}
}

func clearTurnTimer(t *domain.Table) {
	t.TurnDeadline = time.Time{}
}

// startHand resets per-hand seat state, rotates the dealer marker, shuffles a
// fresh deck, and runs the variant's hand setup hook.
func (e *Engine) startHand(t *domain.Table, entry rules.Entry) error {
	for _, seat := range t.Seats {
		seat.Committed = 0
		seat.Contributed = 0
		seat.Acted = false
		seat.Drawn = false
		seat.Declared = domain.DeclarationNone
		seat.HoleCards = nil
		seat.UpCards = nil
		// A coverage sit-out or an elimination lasts only while the seat has
		// no stack to play with; topping up between hands restores it.
		if seat.Stack <= 0 {
			seat.Status = domain.SeatStatusEliminated
		} else {
			seat.Status = domain.SeatStatusActive
		}
	}

	if entry.Flow.RequiresChipCoverageCheck() {
		applyChipCoverage(t, entry.Flow.ChipCheckConfiguration())
	}

	if len(playableSeats(t)) < 2 {
		return errors.New(errors.CodeInvalidTransition,
			"cannot start a hand with fewer than two playable seats")
	}

	if t.HandNum > 0 {
		t.DealerPos = nextPlayableSeat(t, t.DealerPos+1)
	}
	t.HandNum++
	t.CurrentBet = 0
	t.Community = nil
	t.DeckHand = nil

	seed, err := e.seed()
	if err != nil {
		return fmt.Errorf("generate hand seed: %w", err)
	}
	t.Seed = seed
	shoe := deck.New()
	shoe.Shuffle(seed)
	t.Deck = shoe

	if err := entry.Flow.OnHandStarting(t); err != nil {
		return fmt.Errorf("hand setup hook: %w", err)
	}
	return nil
}

// applyChipCoverage sits out seats whose stack cannot cover the pot they may
// be forced to match this hand.
func applyChipCoverage(t *domain.Table, cfg rules.ChipCheckConfig) {
	if !cfg.RequirePotCoverage {
		return
	}
	required := t.CarryOver + t.Ante
	if required <= 0 {
		return
	}
	for _, seat := range t.Seats {
		if seat.Status == domain.SeatStatusActive && seat.Stack < required {
			seat.Status = domain.SeatStatusSittingOut
		}
	}
}

// playableSeats returns indexes of seats that can play the next hand.
func playableSeats(t *domain.Table) []int {
	var out []int
	for i, seat := range t.Seats {
		if seat.Status == domain.SeatStatusActive {
			out = append(out, i)
		}
	}
	return out
}

// nextPlayableSeat returns the first active seat index at or after from,
// wrapping around the table.
func nextPlayableSeat(t *domain.Table, from int) int {
	n := len(t.Seats)
	for i := 0; i < n; i++ {
		idx := ((from+i)%n + n) % n
		if t.Seats[idx].Status == domain.SeatStatusActive {
			return idx
		}
	}
	return ((from % n) + n) % n
}

// collectAntes deducts the ante from every seat contesting the hand. A seat
// that cannot cover the full ante posts its remaining stack and is all-in.
func collectAntes(t *domain.Table) {
	if t.Ante <= 0 {
		return
	}
	for _, seat := range t.Seats {
		if !seat.InHand() {
			continue
		}
		amount := min(t.Ante, seat.Stack)
		seat.Stack -= amount
		seat.Contributed += amount
		if seat.Stack == 0 {
			seat.Status = domain.SeatStatusAllIn
		}
	}
}

// endBettingRound clears street state so the next phase starts clean.
func endBettingRound(t *domain.Table) {
	t.CurrentBet = 0
	for _, seat := range t.Seats {
		seat.Committed = 0
		seat.Acted = false
	}
}

// endDecisionRound folds every seat that declared out.
func endDecisionRound(t *domain.Table) {
	for _, seat := range t.Seats {
		if seat.Declared == domain.DeclarationOut && seat.InHand() {
			seat.Status = domain.SeatStatusFolded
		}
	}
}

// settleHand resolves the pot. Inline-showdown variants produce their own
// award instructions; everything else goes through the generic evaluation
// and side-pot distribution path. Either way chips are conserved and a hand
// record is appended.
func (e *Engine) settleHand(ctx context.Context, t *domain.Table, entry rules.Entry) error {
	before := t.ChipTotal()

	var results []domain.SeatResult
	var potAwarded int
	var err error
	if entry.Flow.SupportsInlineShowdown() {
		results, potAwarded, err = e.settleInline(t, entry)
	} else {
		results, potAwarded, err = e.settleStandard(t, entry)
	}
	if err != nil {
		return err
	}

	// Contributions were absorbed into the awarded pots or the carry-over;
	// clear them before checking conservation against stacks plus carry-over.
	for _, seat := range t.Seats {
		seat.Committed = 0
		seat.Contributed = 0
	}
	t.CurrentBet = 0

	if after := t.ChipTotal(); after != before {
		return fmt.Errorf("settlement broke chip conservation: %d != %d", after, before)
	}

	record := domain.HandRecord{
		TableID:     t.ID,
		HandNum:     t.HandNum,
		Variant:     t.Variant,
		Results:     results,
		PotAwarded:  potAwarded,
		CompletedAt: e.now().UTC(),
	}
	e.appendHandRecord(ctx, t, record)

	for _, seat := range t.Seats {
		if seat.InHand() && seat.Stack <= 0 {
			seat.Status = domain.SeatStatusEliminated
		}
	}
	return nil
}

// settleStandard evaluates every contesting hand and distributes layered
// pots.
func (e *Engine) settleStandard(t *domain.Table, entry rules.Entry) ([]domain.SeatResult, int, error) {
	contribs := make([]settle.Contribution, 0, len(t.Seats))
	for i, seat := range t.Seats {
		if seat.Contributed == 0 && !seat.InHand() {
			continue
		}
		contribs = append(contribs, settle.Contribution{
			SeatIndex: i,
			Amount:    seat.Contributed,
			Folded:    !seat.InHand(),
		})
	}
	pots := settle.BuildPots(contribs, t.CarryOver)
	t.CarryOver = 0

	strengths := make(map[int]poker.HandStrength)
	descriptions := make(map[int]string)
	for _, i := range t.InHandSeatIndexes() {
		cards := showdownCards(t, t.Seats[i])
		strength := entry.Evaluator.Evaluate(cards)
		strengths[i] = strength
		descriptions[i] = strength.Describe()
	}

	awards := settle.Distribute(pots, strengths, referenceOrder(t))
	return applyAwards(t, awards, descriptions), settle.Total(pots), nil
}

// settleInline delegates resolution to the variant and applies its award and
// pot-match instructions.
func (e *Engine) settleInline(t *domain.Table, entry rules.Entry) ([]domain.SeatResult, int, error) {
	result, err := entry.Flow.PerformShowdown(t)
	if err != nil {
		return nil, 0, fmt.Errorf("showdown hook: %w", err)
	}
	if result == nil {
		return nil, 0, fmt.Errorf("showdown hook returned no result")
	}

	descriptions := make(map[int]string)
	for _, seat := range result.Seats {
		descriptions[seat.SeatIndex] = seat.Description
	}

	potAwarded := 0
	awards := make([]settle.Award, 0, len(result.Awards))
	for _, award := range result.Awards {
		awards = append(awards, settle.Award{SeatIndex: award.SeatIndex, Amount: award.Amount})
		potAwarded += award.Amount
	}
	results := applyAwards(t, awards, descriptions)

	// Pot matching: each named seat pays the pot at stake into the next
	// hand's carry-over. The stake is what was awarded plus anything the
	// hook left carrying over.
	stake := potAwarded + result.CarryOver
	carry := result.CarryOver
	for _, seatIdx := range result.MatchPot {
		if seatIdx < 0 || seatIdx >= len(t.Seats) {
			return nil, 0, fmt.Errorf("showdown hook named invalid seat %d", seatIdx)
		}
		seat := t.Seats[seatIdx]
		amount := min(stake, seat.Stack)
		seat.Stack -= amount
		carry += amount
		matched := false
		for i := range results {
			if results[i].PlayerID == seat.PlayerID {
				results[i].NetChips -= amount
				matched = true
				break
			}
		}
		if !matched {
			results = append(results, domain.SeatResult{
				PlayerID:    seat.PlayerID,
				NetChips:    -amount,
				Description: descriptions[seatIdx],
			})
		}
	}
	t.CarryOver = carry
	return results, potAwarded, nil
}

// applyAwards credits winners and builds per-seat results covering every seat
// that put chips in or won some.
func applyAwards(t *domain.Table, awards []settle.Award, descriptions map[int]string) []domain.SeatResult {
	won := make(map[int]int, len(awards))
	for _, award := range awards {
		won[award.SeatIndex] = award.Amount
		t.Seats[award.SeatIndex].Stack += award.Amount
	}

	var results []domain.SeatResult
	for i, seat := range t.Seats {
		amount, isWinner := won[i]
		if !isWinner && seat.Contributed == 0 {
			continue
		}
		results = append(results, domain.SeatResult{
			PlayerID:    seat.PlayerID,
			NetChips:    amount - seat.Contributed,
			Description: descriptions[i],
			Won:         amount > seat.Contributed,
		})
	}
	return results
}

// settleFoldWin awards the whole pot to the last contesting seat without a
// showdown and records the hand.
func (e *Engine) settleFoldWin(ctx context.Context, t *domain.Table, winnerIdx int) {
	pot := t.PotTotal()
	t.CarryOver = 0
	t.Seats[winnerIdx].Stack += pot

	var results []domain.SeatResult
	for i, seat := range t.Seats {
		if i != winnerIdx && seat.Contributed == 0 {
			continue
		}
		net := -seat.Contributed
		if i == winnerIdx {
			net = pot - seat.Contributed
		}
		results = append(results, domain.SeatResult{
			PlayerID: seat.PlayerID,
			NetChips: net,
			Won:      i == winnerIdx,
		})
	}
	record := domain.HandRecord{
		TableID:     t.ID,
		HandNum:     t.HandNum,
		Variant:     t.Variant,
		Results:     results,
		PotAwarded:  pot,
		CompletedAt: e.now().UTC(),
	}
	e.appendHandRecord(ctx, t, record)

	for _, seat := range t.Seats {
		seat.Committed = 0
		seat.Contributed = 0
	}
	t.CurrentBet = 0
}

// appendHandRecord is best effort: settlement already mutated the table, so
// a history write failure must not abort the transition.
func (e *Engine) appendHandRecord(ctx context.Context, t *domain.Table, record domain.HandRecord) {
	if e.records != nil {
		if err := e.records.AppendHandRecord(ctx, record); err != nil {
			log.Printf("hand record append failed table=%s hand=%d err=%v", t.ID, record.HandNum, err)
		}
	}
	e.emitter.HandSettled(ctx, t.ID, record.HandNum, record.PotAwarded)
}

// showdownCards is the full card set a seat's hand is evaluated over.
func showdownCards(t *domain.Table, seat *domain.Seat) deck.Hand {
	cards := make(deck.Hand, 0, len(seat.HoleCards)+len(seat.UpCards)+len(t.Community))
	cards = append(cards, seat.HoleCards...)
	cards = append(cards, seat.UpCards...)
	cards = append(cards, t.Community...)
	return cards
}

// referenceOrder lists every seat index starting from the seat after the
// dealer marker, the deterministic order used for odd-chip assignment.
func referenceOrder(t *domain.Table) []int {
	n := len(t.Seats)
	out := make([]int, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, (t.DealerPos+i)%n)
	}
	return out
}
