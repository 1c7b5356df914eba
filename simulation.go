// simulation.go
// Copyright (C) 2026 Kjell Haugen
// This file contains the Monte Carlo simulation engine that rolls
// out candidate plays across worker goroutines.

/*

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program.  If not, see <http://www.gnu.org/licenses/>.

*/

package skrafl

import (
	"context"
	"math"

	"github.com/op/go-logging"
	"golang.org/x/sync/errgroup"
)

var logSim = logging.MustGetLogger("skrafl/sim")

// SimEngineConfig bundles the static inputs one simulation run needs beyond
// the arms themselves: how many follow-up plies to roll out, the win-pct
// table to score the final position, and the worker count.
type SimEngineConfig struct {
	Plies      int
	WinPct     *WinPctTable
	NumWorkers int
}

// SimEngine drives the rollout loop over a fixed set of arms (SimmedPlays),
// following the per-iteration algorithm of spec.md §4.9: duplicate the
// game, seed the bag's PRNG, deal an opponent rack, play the arm, roll out
// Plies follow-up moves with record-best-only move generation, score the
// final position, and fold the result back into the arm's stats. There is
// no teacher equivalent for a rollout engine; the worker-pool shape follows
// the errgroup fan-out seen in the example pack's pre-endgame search.
type SimEngine struct {
	cfg     SimEngineConfig
	game    *Game
	movegen *MoveGenerator
	results *SimResults
	control *ThreadControl
	bai     *BAIController
}

func NewSimEngine(cfg SimEngineConfig, game *Game, movegen *MoveGenerator, results *SimResults, control *ThreadControl, bai *BAIController) *SimEngine {
	return &SimEngine{cfg: cfg, game: game, movegen: movegen, results: results, control: control, bai: bai}
}

// Run launches NumWorkers goroutines via errgroup, each looping
// runOneIteration until the BAIController's stopping conditions fire or the
// context is cancelled. It returns the first worker error, if any (a worker
// only errors on an unrecoverable game-state fault; ordinary termination
// happens through ThreadControl's status, not a returned error).
func (se *SimEngine) Run(ctx context.Context) error {
	if len(se.results.Plays) == 0 {
		return newErr(ErrSimNoMoves, "simulation requested on an empty move list")
	}
	g, ctx := errgroup.WithContext(ctx)
	workers := se.cfg.NumWorkers
	if workers < 1 {
		workers = 1
	}
	se.bai.MarkEpigons()
	se.control.SetStatus(StatusStarted)
	logSim.Infof("starting simulation: %d workers, %d arms, %d plies", workers, len(se.results.Plays), se.cfg.Plies)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for se.control.IsRunning() {
				select {
				case <-ctx.Done():
					return nil
				default:
				}
				if err := se.runOneIteration(); err != nil {
					return err
				}
			}
			return nil
		})
	}
	err := g.Wait()
	se.results.SortByWinPct(se.game.LD)
	logSim.Infof("simulation finished: %v after %d iterations, %d nodes",
		se.control.ExitReason(), se.results.IterationCount(), se.results.NodeCount())
	se.control.SetStatus(StatusFinished)
	return err
}

// runOneIteration samples the arm(s) the BAIController's sampling rule
// selects for this iteration, then evaluates the four stopping conditions,
// latching ThreadControl's status the first time one fires.
func (se *SimEngine) runOneIteration() error {
	iter := se.control.NextIterOutput()

	indices := se.bai.NextArms()
	if len(indices) == 0 {
		logSim.Debugf("iteration %d: no arm qualifies for sampling", iter.IterCount)
		se.control.SetStatus(StatusNoMoves)
		return nil
	}
	logSim.Debugf("iteration %d: sampling arms %v", iter.IterCount, indices)

	se.results.mu.Lock()
	arms := make([]*SimmedPlay, 0, len(indices))
	for _, i := range indices {
		arms = append(arms, se.results.Plays[i])
	}
	se.results.mu.Unlock()

	var nodes uint64
	for _, arm := range arms {
		n, err := se.simulateArm(arm, iter.Seed)
		if err != nil {
			return err
		}
		nodes += n
	}

	se.results.AddNodes(nodes)
	se.results.AddIteration()
	se.control.CompleteIter()

	if reason := se.bai.CheckStop(); reason != StatusStarted {
		se.control.SetStatus(reason)
	}
	return nil
}

// simulateArm performs the rollout for one arm against a duplicated game,
// per spec.md §4.9:
//  1. duplicate the game (the duplicate is discarded afterwards, which
//     leaves the shared game untouched just as an unplay would)
//  2. seed the duplicate bag's PRNG deterministically from the iteration seed
//  3. deal (or assign a known) opponent rack
//  4. play the arm's candidate move
//  5. roll out Plies further moves via record-best-only generation,
//     recording each reply's score/bingo into the per-ply stats and, on the
//     last two plies, folding the mover's leave value into the leftover
//     total (positive for the acting player, negative for the opponent)
//  6. score the final spread/leftover through the win-pct table
func (se *SimEngine) simulateArm(arm *SimmedPlay, seed int64) (uint64, error) {
	g := se.game.Clone()

	actingIdx := g.OnTurn
	oppIdx := g.Opponent(actingIdx)
	opp := g.Players[oppIdx]
	initialSpread := g.Spread(actingIdx)

	// The opponent's rack is hidden information: return whatever rack the
	// shared game state was tracking to the bag and redeal a fresh one from
	// this iteration's freshly-seeded shuffle, so every rollout samples a
	// plausible, independently-random opponent holding (spec.md §4.9 step 3).
	oldOppTiles := make([]MachineLetter, 0, opp.Rack.Total)
	for ml := 0; ml < len(opp.Rack.Counts); ml++ {
		for i := 0; i < opp.Rack.Counts[ml]; i++ {
			oldOppTiles = append(oldOppTiles, MachineLetter(ml))
		}
	}
	g.Bag.Return(oldOppTiles)
	opp.Rack = NewRack(g.LD)

	g.Bag.Seed(seed)
	g.Bag.Shuffle()

	for _, t := range g.Bag.Draw(se.movegen.RackSize) {
		opp.Rack.Add(t)
	}

	var nodes uint64

	g.PlayMove(arm.Move)
	nodes++

	plies := se.cfg.Plies
	leftover := 0.0
	for ply := 0; ply < plies && !g.IsOver(); ply++ {
		onTurn := g.OnTurn
		player := g.Players[onTurn]
		otherPlayer := g.Players[g.Opponent(onTurn)]

		best := se.movegen.GenerateBest(g.Board, player.Rack, player.KLV, onTurn, g.Bag.Count(), otherPlayer.Rack)
		nodes++
		isBingo := best.Type == MoveTypePlay && best.NumPlayed == se.movegen.RackSize
		if ply >= plies-2 {
			lv := leaveValueAfterMove(player, best)
			if onTurn == actingIdx {
				leftover += lv
			} else {
				leftover -= lv
			}
		}
		g.PlayMove(best)
		arm.RecordPly(ply, best.Score, isBingo)
	}

	spread := g.Spread(actingIdx)
	unseen := g.Bag.Count() + g.Players[oppIdx].Rack.Total
	sp := spread + int(math.Round(leftover))
	// After an even number of rollout plies the opponent holds the turn, so
	// the table is consulted from their perspective and both the spread and
	// the returned percentage are mirrored back.
	var winPct float64
	if plies%2 == 0 {
		winPct = 1 - float64(se.cfg.WinPct.Get(-sp, unseen))
	} else {
		winPct = float64(se.cfg.WinPct.Get(sp, unseen))
	}

	arm.RecordFinal(float64(spread-initialSpread)+leftover, leftover, winPct)

	return nodes, nil
}

// leaveValueAfterMove computes the KLV value of the rack the mover would
// hold right after playing m, before drawing replacements — the leave the
// leftover total accumulates on the final two rollout plies.
func leaveValueAfterMove(player *Player, m *Move) float64 {
	if player.KLV == nil {
		return 0
	}
	leave := player.Rack.Clone()
	switch m.Type {
	case MoveTypePlay:
		for _, t := range m.Tiles {
			if t == PlaythroughMarker {
				continue
			}
			if t.IsBlanked() {
				leave.Take(0)
			} else {
				leave.Take(t)
			}
		}
	case MoveTypeExchange:
		for _, t := range m.Tiles {
			leave.Take(t)
		}
	}
	if leave.IsEmpty() {
		return 0
	}
	return float64(player.KLV.LeaveValue(leave))
}
