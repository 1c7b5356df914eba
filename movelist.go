// movelist.go
// Copyright (C) 2026 Kjell Haugen
// This file contains the bounded, ordered MoveList.

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

// SortBy selects whether the move list orders candidates by raw score or
// by full equity (score + leave value + pre-endgame adjustment).
type SortBy int

const (
	SortByScore SortBy = iota
	SortByEquity
)

// PassMoveEquity is the fixed equity assigned to a pass, always inserted at
// the end of generation so every call yields at least one move.
const PassMoveEquity = -1000000.0

// epsilon is the tolerance used when comparing equities, per spec.md §6.5,
// to avoid spurious reorderings from floating-point noise.
const equityEpsilon = 1e-9

// MoveList is a bounded-capacity ordered collection of candidate moves,
// sorted descending by the chosen key, with ties broken by insertion order
// (stable). A spare slot is reused across insertions to avoid allocation.
type MoveList struct {
	Capacity int
	SortBy   SortBy
	moves    []*Move
	spare    *Move
	seq      int
}

func NewMoveList(capacity int, sortBy SortBy) *MoveList {
	return &MoveList{Capacity: capacity, SortBy: sortBy, moves: make([]*Move, 0, capacity)}
}

func (ml *MoveList) key(m *Move) float64 {
	if ml.SortBy == SortByScore {
		return float64(m.Score)
	}
	return m.Equity
}

// Spare returns the list's reusable scratch move, so callers can fill it in
// place before calling InsertSpare.
func (ml *MoveList) Spare() *Move {
	if ml.spare == nil {
		ml.spare = &Move{}
	}
	return ml.spare
}

// InsertSpare inserts the spare move into the top-capacity set if it beats
// the current worst (or there is spare room), maintaining descending order.
// A stored spare is handed to the list and Spare allocates a new one; a
// rejected spare stays in place for the next candidate.
func (ml *MoveList) InsertSpare() {
	if ml.Capacity == 0 {
		return
	}
	m := ml.spare
	ml.seq++
	m.insertSeq = ml.seq
	if len(ml.moves) < ml.Capacity {
		ml.spare = nil
		ml.moves = append(ml.moves, m)
		ml.bubbleUp(len(ml.moves) - 1)
		return
	}
	worst := ml.moves[len(ml.moves)-1]
	if ml.key(m) > ml.key(worst)+equityEpsilon {
		ml.spare = nil
		ml.moves[len(ml.moves)-1] = m
		ml.bubbleUp(len(ml.moves) - 1)
	}
}

// InsertSpareTopEquity keeps only the single best move seen so far,
// discarding the spare's contents if it doesn't beat the incumbent.
func (ml *MoveList) InsertSpareTopEquity() {
	m := ml.spare
	ml.seq++
	m.insertSeq = ml.seq
	if len(ml.moves) == 0 {
		ml.spare = nil
		ml.moves = append(ml.moves, m)
		return
	}
	if ml.key(m) > ml.key(ml.moves[0])+equityEpsilon {
		ml.spare = nil
		ml.moves[0] = m
	}
}

func (ml *MoveList) bubbleUp(i int) {
	for i > 0 {
		j := i - 1
		if ml.better(ml.moves[i], ml.moves[j]) {
			ml.moves[i], ml.moves[j] = ml.moves[j], ml.moves[i]
			i = j
			continue
		}
		break
	}
}

// better reports whether a sorts ahead of b: higher key first, ties broken
// by earlier insertion sequence (stable).
func (ml *MoveList) better(a, b *Move) bool {
	ka, kb := ml.key(a), ml.key(b)
	if ka > kb+equityEpsilon {
		return true
	}
	if kb > ka+equityEpsilon {
		return false
	}
	return a.insertSeq < b.insertSeq
}

// AddPass appends the always-present pass move at the end of generation.
func (ml *MoveList) AddPass() {
	pass := &Move{Type: MoveTypePass, Equity: PassMoveEquity, Score: 0}
	ml.seq++
	pass.insertSeq = ml.seq
	ml.moves = append(ml.moves, pass)
}

// Moves returns the current list in descending order.
func (ml *MoveList) Moves() []*Move {
	return ml.moves
}

// Best returns the top move, or nil if the list is empty.
func (ml *MoveList) Best() *Move {
	if len(ml.moves) == 0 {
		return nil
	}
	return ml.moves[0]
}

// Reset empties the list for reuse (the per-worker pool pattern spec.md §9
// recommends in place of global scratch caches).
func (ml *MoveList) Reset() {
	ml.moves = ml.moves[:0]
	ml.seq = 0
}
