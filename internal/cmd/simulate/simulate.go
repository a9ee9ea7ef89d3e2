// Package simulate runs scripted hands against the flow engine with an
// in-memory store and renders each table state to the terminal. It exists to
// exercise variant flows end to end without a running service.
package simulate

import (
	"context"
	"flag"
	"fmt"
	"strconv"

	"github.com/pterm/pterm"

	"github.com/louisbranch/cardroom/internal/broadcast"
	"github.com/louisbranch/cardroom/internal/deck"
	"github.com/louisbranch/cardroom/internal/game/domain"
	"github.com/louisbranch/cardroom/internal/game/engine"
	"github.com/louisbranch/cardroom/internal/game/variants"
	platformcmd "github.com/louisbranch/cardroom/internal/platform/cmd"
	"github.com/louisbranch/cardroom/internal/poker"
	"github.com/louisbranch/cardroom/internal/storage/memory"
)

// Config holds the simulator configuration.
type Config struct {
	Variant string `env:"CARDROOM_SIM_VARIANT" envDefault:"five-card-draw"`
	Seats   int    `env:"CARDROOM_SIM_SEATS" envDefault:"3"`
	Hands   int    `env:"CARDROOM_SIM_HANDS" envDefault:"3"`
	Ante    int    `env:"CARDROOM_SIM_ANTE" envDefault:"5"`
	Stack   int    `env:"CARDROOM_SIM_STACK" envDefault:"200"`
}

// ParseConfig loads configuration from the environment, then lets flags
// override it.
func ParseConfig(args []string) (Config, error) {
	var cfg Config
	if err := platformcmd.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs := flag.NewFlagSet(platformcmd.ServiceSimulate, flag.ContinueOnError)
	fs.StringVar(&cfg.Variant, "variant", cfg.Variant, "variant code to simulate")
	fs.IntVar(&cfg.Seats, "seats", cfg.Seats, "number of seats")
	fs.IntVar(&cfg.Hands, "hands", cfg.Hands, "hands to play")
	fs.IntVar(&cfg.Ante, "ante", cfg.Ante, "ante per hand")
	fs.IntVar(&cfg.Stack, "stack", cfg.Stack, "starting stack per seat")
	if err := platformcmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run plays the configured number of hands and renders the results.
func Run(ctx context.Context, cfg Config) error {
	catalog, err := variants.NewCatalog()
	if err != nil {
		return fmt.Errorf("build variant catalog: %w", err)
	}
	store := memory.NewStore()
	eng, err := engine.New(engine.Config{
		Catalog:     catalog,
		Tables:      store,
		Records:     store,
		Broadcaster: broadcast.Nop{},
	})
	if err != nil {
		return fmt.Errorf("build engine: %w", err)
	}

	input := domain.CreateTableInput{
		HostID:  "seat-0",
		Variant: cfg.Variant,
		Ante:    cfg.Ante,
	}
	for i := 0; i < cfg.Seats; i++ {
		input.Seats = append(input.Seats, domain.SeatInput{
			PlayerID: "seat-" + strconv.Itoa(i),
			Stack:    cfg.Stack,
		})
	}
	table, err := eng.CreateTable(ctx, input)
	if err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	pterm.DefaultSection.Printf("Simulating %d hands of %s with %d seats", cfg.Hands, cfg.Variant, cfg.Seats)

	lastHand := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		tb, err := eng.Table(ctx, table.ID)
		if err != nil {
			return err
		}
		if tb.HandNum > lastHand {
			lastHand = tb.HandNum
			pterm.DefaultSection.WithLevel(2).Printf("Hand %d (dealer seat %d)", tb.HandNum, tb.DealerPos)
		}
		if tb.Phase == domain.PhaseEnded {
			pterm.Info.Println("table ended: not enough seats can continue")
			break
		}
		if tb.Phase == domain.PhaseHandComplete && tb.HandNum >= cfg.Hands {
			break
		}

		if tb.TurnPos >= 0 {
			if _, err := eng.SubmitAction(ctx, policyAction(&tb)); err != nil {
				return fmt.Errorf("hand %d: %w", tb.HandNum, err)
			}
			continue
		}

		advanced, err := eng.AutoAdvance(ctx, table.ID)
		if err != nil {
			return fmt.Errorf("advance hand %d: %w", tb.HandNum, err)
		}
		if !advanced {
			return fmt.Errorf("table stalled in phase %s", tb.Phase)
		}
	}

	return render(ctx, eng, table.ID)
}

// policyAction picks a simple scripted action for the seat on turn: check or
// call when betting, keep any pair when drawing, declare in on a pair or
// better.
func policyAction(tb *domain.Table) engine.ActionRequest {
	seat := tb.Seats[tb.TurnPos]
	req := engine.ActionRequest{TableID: tb.ID, PlayerID: seat.PlayerID}

	if tb.Phase == domain.PhaseDrawPhase {
		req.Kind = engine.ActionDraw
		req.Discards = discardsKeepingPairs(seat.HoleCards)
		return req
	}
	if tb.Phase == domain.PhaseDecision {
		req.Kind = engine.ActionDeclare
		req.Declaration = domain.DeclarationOut
		if poker.Evaluate(seat.HoleCards).Category >= poker.OnePair {
			req.Declaration = domain.DeclarationIn
		}
		return req
	}

	if seat.Committed == tb.CurrentBet {
		req.Kind = engine.ActionCheck
	} else {
		req.Kind = engine.ActionCall
	}
	return req
}

// discardsKeepingPairs returns the indexes of cards outside the hand's
// largest rank group, capped at three.
func discardsKeepingPairs(cards deck.Hand) []int {
	counts := make(map[int]int)
	for _, card := range cards {
		counts[int(card.Rank)]++
	}
	bestRank, bestCount := 0, 0
	for rank, count := range counts {
		if count > bestCount || (count == bestCount && rank > bestRank) {
			bestRank, bestCount = rank, count
		}
	}
	if bestCount < 2 {
		return nil
	}
	var out []int
	for i, card := range cards {
		if int(card.Rank) != bestRank && len(out) < 3 {
			out = append(out, i)
		}
	}
	return out
}

// render prints the final stacks and the hand history.
func render(ctx context.Context, eng *engine.Engine, tableID string) error {
	tb, err := eng.Table(ctx, tableID)
	if err != nil {
		return err
	}

	data := pterm.TableData{{"Seat", "Player", "Stack", "Status"}}
	for i, seat := range tb.Seats {
		data = append(data, []string{
			strconv.Itoa(i),
			seat.PlayerID,
			strconv.Itoa(seat.Stack),
			seat.Status.String(),
		})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		return err
	}

	records, err := eng.HandHistory(ctx, tableID, 0)
	if err != nil {
		return err
	}
	for i := len(records) - 1; i >= 0; i-- {
		record := records[i]
		for _, result := range record.Results {
			if result.Won {
				pterm.Success.Printf("hand %d: %s won %d (%s)\n",
					record.HandNum, result.PlayerID, result.NetChips, result.Description)
			}
		}
	}
	if tb.CarryOver > 0 {
		pterm.Info.Printf("pot carrying over: %d\n", tb.CarryOver)
	}
	return nil
}
