package engine

import (
	"context"
	"testing"

	"github.com/louisbranch/cardroom/internal/game/domain"
	"github.com/louisbranch/cardroom/internal/platform/errors"
	"github.com/louisbranch/cardroom/internal/storage/memory"
)

func TestJoinTableBetweenHands(t *testing.T) {
	store := memory.NewStore()
	eng := newTestEngine(t, store, newFakeClock(), 0)
	table := createDrawTable(t, eng, 2)

	got, err := eng.JoinTable(context.Background(), table.ID, "p9", 150)
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if len(got.Seats) != 3 {
		t.Fatalf("seats = %d, want 3", len(got.Seats))
	}
	joined := got.Seats[2]
	if joined.PlayerID != "p9" || joined.Stack != 150 || joined.Status != domain.SeatStatusActive {
		t.Fatalf("joined seat = %+v", joined)
	}
}

func TestJoinTableRejectedMidHand(t *testing.T) {
	store := memory.NewStore()
	eng := newTestEngine(t, store, newFakeClock(), 0)
	table := createDrawTable(t, eng, 2)
	mustAdvance(t, eng, table.ID) // Setup -> Collection

	_, err := eng.JoinTable(context.Background(), table.ID, "p9", 150)
	if !errors.IsCode(err, errors.CodeInvalidTransition) {
		t.Fatalf("err = %v, want InvalidTransition", err)
	}
}

func TestJoinTableRejectsDuplicatePlayer(t *testing.T) {
	store := memory.NewStore()
	eng := newTestEngine(t, store, newFakeClock(), 0)
	table := createDrawTable(t, eng, 2)

	_, err := eng.JoinTable(context.Background(), table.ID, "p1", 150)
	if !errors.IsCode(err, errors.CodeMalformedAction) {
		t.Fatalf("err = %v, want MalformedAction", err)
	}
}

func TestJoinTableCappedByVariant(t *testing.T) {
	store := memory.NewStore()
	eng := newTestEngine(t, store, newFakeClock(), 0)
	table := createDrawTable(t, eng, 2)

	// Five-card draw seats six players at most.
	for _, player := range []string{"p2", "p3", "p4", "p5"} {
		if _, err := eng.JoinTable(context.Background(), table.ID, player, 100); err != nil {
			t.Fatalf("join %s: %v", player, err)
		}
	}

	_, err := eng.JoinTable(context.Background(), table.ID, "p6", 100)
	if !errors.IsCode(err, errors.CodeMalformedAction) {
		t.Fatalf("err = %v, want MalformedAction for a seventh seat", err)
	}
}

func TestLeaveTableAdjustsDealer(t *testing.T) {
	store := memory.NewStore()
	eng := newTestEngine(t, store, newFakeClock(), 0)
	table := createDrawTable(t, eng, 3)

	got, err := eng.LeaveTable(context.Background(), table.ID, "p1")
	if err != nil {
		t.Fatalf("leave: %v", err)
	}
	if len(got.Seats) != 2 {
		t.Fatalf("seats = %d, want 2", len(got.Seats))
	}
	if got.SeatIndexByPlayer("p1") >= 0 {
		t.Fatal("p1 still seated")
	}
	if got.DealerPos != 0 {
		t.Fatalf("dealer = %d, want 0", got.DealerPos)
	}
}

func TestLeaveTableRejectsHost(t *testing.T) {
	store := memory.NewStore()
	eng := newTestEngine(t, store, newFakeClock(), 0)
	table := createDrawTable(t, eng, 2)

	_, err := eng.LeaveTable(context.Background(), table.ID, "p0")
	if !errors.IsCode(err, errors.CodeMalformedAction) {
		t.Fatalf("err = %v, want MalformedAction", err)
	}
}

func TestAddChipsBetweenHands(t *testing.T) {
	store := memory.NewStore()
	eng := newTestEngine(t, store, newFakeClock(), 0)
	table := createDrawTable(t, eng, 2)

	got, err := eng.AddChips(context.Background(), table.ID, "p1", 50)
	if err != nil {
		t.Fatalf("add chips: %v", err)
	}
	if got.Seats[1].Stack != 150 {
		t.Fatalf("stack = %d, want 150", got.Seats[1].Stack)
	}

	mustAdvance(t, eng, table.ID) // Setup -> Collection
	if _, err := eng.AddChips(context.Background(), table.ID, "p1", 50); !errors.IsCode(err, errors.CodeInvalidTransition) {
		t.Fatalf("err = %v, want InvalidTransition", err)
	}
}

func TestEndTableRefundsContributionsMidHand(t *testing.T) {
	store := memory.NewStore()
	eng := newTestEngine(t, store, newFakeClock(), 0)
	table := createDrawTable(t, eng, 3)

	mustAdvance(t, eng, table.ID) // Setup -> Collection
	mustAdvance(t, eng, table.ID) // Collection -> Dealing, antes in the pot
	got, err := eng.Table(context.Background(), table.ID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.PotTotal() != 15 {
		t.Fatalf("pot = %d, want 15", got.PotTotal())
	}

	got, err = eng.EndTable(context.Background(), table.ID, "p0")
	if err != nil {
		t.Fatalf("end table: %v", err)
	}
	if got.Phase != domain.PhaseEnded {
		t.Fatalf("phase = %s, want Ended", got.Phase)
	}
	if got.PotTotal() != 0 {
		t.Fatalf("pot = %d, want 0 after refund", got.PotTotal())
	}
	for i, seat := range got.Seats {
		if seat.Stack != 100 {
			t.Fatalf("seat %d stack = %d, want 100", i, seat.Stack)
		}
	}
	if got.TurnPos != -1 || !got.TurnDeadline.IsZero() {
		t.Fatal("turn state must clear when the table ends")
	}

	if _, err := eng.EndTable(context.Background(), table.ID, "p0"); !errors.IsCode(err, errors.CodeInvalidTransition) {
		t.Fatalf("second end err = %v, want InvalidTransition", err)
	}
}

func TestEndTableHostOnly(t *testing.T) {
	store := memory.NewStore()
	eng := newTestEngine(t, store, newFakeClock(), 0)
	table := createDrawTable(t, eng, 2)

	_, err := eng.EndTable(context.Background(), table.ID, "p1")
	if !errors.IsCode(err, errors.CodeMalformedAction) {
		t.Fatalf("err = %v, want MalformedAction", err)
	}
}
