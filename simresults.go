// simresults.go
// Copyright (C) 2026 Kjell Haugen
// This file contains per-arm simulation statistics and the
// shared SimResults container.

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
	"math"
	"sync"
	"sync/atomic"
)

// Stat is a running mean/variance accumulator (Welford's online algorithm),
// used for every per-arm, per-ply statistic the simulation engine tracks.
type Stat struct {
	n    int
	mean float64
	m2   float64
}

// Push folds x into the running statistics.
func (s *Stat) Push(x float64) {
	s.n++
	delta := x - s.mean
	s.mean += delta / float64(s.n)
	delta2 := x - s.mean
	s.m2 += delta * delta2
}

func (s *Stat) N() int { return s.n }

func (s *Stat) Mean() float64 { return s.mean }

// Variance returns the sample variance, or 0 with fewer than 2 samples.
func (s *Stat) Variance() float64 {
	if s.n < 2 {
		return 0
	}
	return s.m2 / float64(s.n-1)
}

// Stderr returns the standard error of the mean.
func (s *Stat) Stderr() float64 {
	if s.n == 0 {
		return 0
	}
	v := s.Variance()
	if v <= 0 {
		return 0
	}
	return math.Sqrt(v / float64(s.n))
}

// SimmedPlay is one arm: a candidate move paired with accumulating rollout
// statistics, guarded by its own mutex since workers update it concurrently.
type SimmedPlay struct {
	mu sync.Mutex

	Move *Move

	ScoreByPly  []Stat
	BingoByPly  []Stat
	Equity      Stat
	Leftover    Stat
	WinPct      Stat

	Ignored bool
	Epigon  bool
}

// NewSimmedPlay allocates a simmed play tracking up to plies rounds of
// rollout statistics.
func NewSimmedPlay(m *Move, plies int) *SimmedPlay {
	return &SimmedPlay{
		Move:       m,
		ScoreByPly: make([]Stat, plies),
		BingoByPly: make([]Stat, plies),
	}
}

// RecordPly folds one rollout ply's outcome into the arm's per-ply stats.
// ply is 0-indexed.
func (sp *SimmedPlay) RecordPly(ply int, score int, isBingo bool) {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	sp.ScoreByPly[ply].Push(float64(score))
	b := 0.0
	if isBingo {
		b = 1.0
	}
	sp.BingoByPly[ply].Push(b)
}

// RecordFinal folds one completed iteration's final equity, leftover, and
// win-pct observations into the arm's stats.
func (sp *SimmedPlay) RecordFinal(equity, leftover, winPct float64) {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	sp.Equity.Push(equity)
	sp.Leftover.Push(leftover)
	sp.WinPct.Push(winPct)
}

// Samples returns the arm's current sample count.
func (sp *SimmedPlay) Samples() int {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	return sp.WinPct.n
}

// SimResults bundles the whole simulation's outcome: every arm, the plies
// simulated, the iteration count, an atomic node count, and the mutex
// guarding reorderings of the play array (spec.md §4.10's "sort under the
// SimResults lock").
type SimResults struct {
	mu sync.Mutex

	Plies int
	Plays []*SimmedPlay

	nodeCount   uint64
	iterCount   uint64
}

func NewSimResults(plies int, moves []*Move) *SimResults {
	plays := make([]*SimmedPlay, len(moves))
	for i, m := range moves {
		plays[i] = NewSimmedPlay(m, plies)
	}
	return &SimResults{Plies: plies, Plays: plays}
}

// AddNodes atomically accumulates the node count (one per played move,
// across the arm play and every rollout ply).
func (sr *SimResults) AddNodes(n uint64) {
	atomic.AddUint64(&sr.nodeCount, n)
}

func (sr *SimResults) NodeCount() uint64 {
	return atomic.LoadUint64(&sr.nodeCount)
}

func (sr *SimResults) AddIteration() {
	atomic.AddUint64(&sr.iterCount, 1)
}

func (sr *SimResults) IterationCount() uint64 {
	return atomic.LoadUint64(&sr.iterCount)
}

// SortByWinPct reorders Plays descending by win-pct mean, ties broken by
// equity mean, then by lexicographic move ordering, under the results lock.
func (sr *SimResults) SortByWinPct(ld *LetterDistribution) {
	sr.mu.Lock()
	defer sr.mu.Unlock()
	plays := sr.Plays
	for i := 1; i < len(plays); i++ {
		j := i
		for j > 0 && playLess(plays[j], plays[j-1], ld) {
			plays[j], plays[j-1] = plays[j-1], plays[j]
			j--
		}
	}
}

func playLess(a, b *SimmedPlay, ld *LetterDistribution) bool {
	if a.WinPct.Mean() != b.WinPct.Mean() {
		return a.WinPct.Mean() > b.WinPct.Mean()
	}
	if a.Equity.Mean() != b.Equity.Mean() {
		return a.Equity.Mean() > b.Equity.Mean()
	}
	return a.Move.String(ld) < b.Move.String(ld)
}

// Best returns the top arm after sorting, or nil if there are none.
func (sr *SimResults) Best() *SimmedPlay {
	sr.mu.Lock()
	defer sr.mu.Unlock()
	if len(sr.Plays) == 0 {
		return nil
	}
	return sr.Plays[0]
}
