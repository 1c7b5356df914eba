// crossset.go
// Copyright (C) 2026 Kjell Haugen
// This file contains the cross-set generator, which computes
// for each empty square the set of tiles that form a legal
// perpendicular word there.

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
	lru "github.com/hashicorp/golang-lru/simplelru"
)

// CrossSetMode selects whether cross-sets require real lexicon words
// (Classic) or accept any ordering of letters that forms a word when
// anagrammed (Alpha).
type CrossSetMode int

const (
	CrossSetClassic CrossSetMode = iota
	CrossSetAlpha
)

// crossCacheCapacity bounds the GADDAG-walk memoization cache, mirroring
// the teacher's dawg.go crossCache (a pattern -> result memo, re-homed here
// for the packed-KWG cross-set walk instead of the teacher's byte-DAWG
// walk).
const crossCacheCapacity = 4096

// CrossSetGenerator recomputes cross-sets for a board against a word graph,
// memoizing GADDAG walks keyed by the two side-strings being joined.
type CrossSetGenerator struct {
	Graph *KWG
	Mode  CrossSetMode
	cache *lru.LRU
}

func NewCrossSetGenerator(graph *KWG, mode CrossSetMode) *CrossSetGenerator {
	c, _ := lru.NewLRU(crossCacheCapacity, nil)
	return &CrossSetGenerator{Graph: graph, Mode: mode, cache: c}
}

// Recompute fills in the CrossInfo for (row, col, dir, playerIdx), per
// spec.md §4.4. dir is the direction of the *cross* word being checked
// (i.e. perpendicular to where a new tile would be placed along the other
// axis): a tile placed at (row,col) while playing along the opposite axis
// forms a word along dir if there are neighbouring tiles in dir.
func (g *CrossSetGenerator) Recompute(b *Board, row, col int, dir Direction, playerIdx int, ld *LetterDistribution) {
	sq := b.Sq(row, col)
	info := &sq.Dirs[dir].Cross[playerIdx]
	if !sq.IsEmpty() || info.IsBrick {
		info.CrossSet = 0
		info.CrossScore = 0
		return
	}
	line, pos := g.lineAndPos(b, row, col, dir)
	aboveEmpty := pos == 0 || b.SquareAt(dir, line, pos-1).IsEmpty()
	belowEmpty := pos == b.Dim-1 || b.SquareAt(dir, line, pos+1).IsEmpty()
	if aboveEmpty && belowEmpty {
		info.CrossSet = TrivialCrossSet
		info.CrossScore = 0
		info.LeftExtSet = TrivialCrossSet
		info.RightExtSet = TrivialCrossSet
		sq.Dirs[dir].IsCrossWord = false
		return
	}
	sq.Dirs[dir].IsCrossWord = true

	leftEdge, _ := b.WordEdge(dir, line, pos)
	_, rightEdge := b.WordEdge(dir, line, pos)
	var leftLetters, rightLetters []MachineLetter
	score := 0
	for p := leftEdge; p < pos; p++ {
		l := b.SquareAt(dir, line, p).Letter
		leftLetters = append(leftLetters, l.Unblank())
		score += ld.Score(l)
	}
	for p := pos + 1; p <= rightEdge; p++ {
		l := b.SquareAt(dir, line, p).Letter
		rightLetters = append(rightLetters, l.Unblank())
		score += ld.Score(l)
	}
	info.CrossScore = score

	// extension sets: the letters legal at this square with respect to the
	// in-line runs alone (no perpendicular constraint), for shadow dead-end
	// pruning. LeftExtSet constrains a tile placed here against the run to
	// its right (the tile would start that run); RightExtSet against the run
	// to its left (the tile would end it).
	info.LeftExtSet = g.extendLeftSet(rightLetters, ld)
	info.RightExtSet = g.extendRightSet(leftLetters, ld)

	if g.Mode == CrossSetAlpha {
		rack := rackFromLetterSlice(ld, append(append([]MachineLetter{}, leftLetters...), rightLetters...))
		info.CrossSet = g.Graph.ComputeAlphaCrossSet(rack)
		return
	}

	var mask uint32
	// The GADDAG holds every word's full reversal as a plain letter string,
	// so a candidate letter L completes the cross word left+L+right iff
	// walking reversed(right) + L + reversed(left) from the GADDAG root ends
	// at an accepting node.
	revRight := reverseLetters(rightLetters)
	revLeft := reverseLetters(leftLetters)
	for ml := MachineLetter(1); int(ml) <= ld.Size(); ml++ {
		if g.walkAccepts(revRight, ml, revLeft) {
			mask |= 1 << uint(ml)
		}
	}
	// blank: accepted iff any real letter is accepted (a blank can stand in
	// for whichever letter completes the word).
	if mask != 0 {
		mask |= 1
	}
	info.CrossSet = mask
}

func rackFromLetterSlice(ld *LetterDistribution, letters []MachineLetter) *Rack {
	r := NewRack(ld)
	for _, l := range letters {
		r.Add(l)
	}
	return r
}

func reverseLetters(in []MachineLetter) []MachineLetter {
	out := make([]MachineLetter, len(in))
	for i, l := range in {
		out[len(in)-1-i] = l
	}
	return out
}

// walkAccepts walks the GADDAG root through revRight, the pivot letter ml,
// then revLeft — the full reversal of the cross word left+ml+right — and
// reports whether the walk ends at an accepting node. Results are memoized
// by the concatenated letter sequence.
func (g *CrossSetGenerator) walkAccepts(revRight []MachineLetter, ml MachineLetter, revLeft []MachineLetter) bool {
	seq := make([]MachineLetter, 0, len(revRight)+1+len(revLeft))
	seq = append(seq, revRight...)
	seq = append(seq, ml)
	seq = append(seq, revLeft...)

	key := make([]byte, len(seq))
	for i, l := range seq {
		key[i] = byte(l)
	}
	ks := string(key)
	if v, ok := g.cache.Get(ks); ok {
		return v.(bool)
	}

	ok := true
	node := g.Graph.RootGaddag()
	for i, l := range seq {
		if i == len(seq)-1 {
			ok = g.Graph.InLetterSet(node, l)
			break
		}
		node = g.Graph.NextNodeForLetter(node, l)
		if node == 0 {
			ok = false
			break
		}
	}
	g.cache.Add(ks, ok)
	return ok
}

// walkExists reports whether seq is a letter-only path from the GADDAG root.
// Letter-only GADDAG paths are exactly the reversed prefixes of dictionary
// words, so walking reversed(X) succeeds iff X occurs as a substring of some
// word.
func (g *CrossSetGenerator) walkExists(seq []MachineLetter) bool {
	node := g.Graph.RootGaddag()
	for i, l := range seq {
		sib := g.Graph.SiblingForLetter(node, l)
		if sib == 0 {
			return false
		}
		if i == len(seq)-1 {
			// the last letter only has to be present; its node may be a leaf
			return true
		}
		node = g.Graph.ArcIndex(sib)
		if node == 0 {
			return false
		}
	}
	return true
}

// extendRightSet returns the letters ml for which seq+ml occurs inside some
// dictionary word — the tiles that could legally end the run seq when placed
// on the empty square just right of it.
func (g *CrossSetGenerator) extendRightSet(seq []MachineLetter, ld *LetterDistribution) uint32 {
	if len(seq) == 0 {
		return TrivialCrossSet
	}
	rev := reverseLetters(seq)
	var mask uint32
	walk := make([]MachineLetter, 0, len(seq)+1)
	for ml := MachineLetter(1); int(ml) <= ld.Size(); ml++ {
		walk = append(walk[:0], ml)
		walk = append(walk, rev...)
		if g.walkExists(walk) {
			mask |= 1 << uint(ml)
		}
	}
	if mask != 0 {
		mask |= 1
	}
	return mask
}

// extendLeftSet returns the letters ml for which ml+seq occurs inside some
// dictionary word — the tiles that could legally start the run seq when
// placed on the empty square just left of it.
func (g *CrossSetGenerator) extendLeftSet(seq []MachineLetter, ld *LetterDistribution) uint32 {
	if len(seq) == 0 {
		return TrivialCrossSet
	}
	rev := reverseLetters(seq)
	var mask uint32
	walk := make([]MachineLetter, 0, len(seq)+1)
	for ml := MachineLetter(1); int(ml) <= ld.Size(); ml++ {
		walk = append(walk[:0], rev...)
		walk = append(walk, ml)
		if g.walkExists(walk) {
			mask |= 1 << uint(ml)
		}
	}
	if mask != 0 {
		mask |= 1
	}
	return mask
}

func (g *CrossSetGenerator) lineAndPos(b *Board, row, col int, dir Direction) (line, pos int) {
	if dir == Horizontal {
		return row, col
	}
	return col, row
}

// RecomputeDirty recomputes both directions' cross-sets for every square
// whose metadata a play along (dir, line, startPos..endPos) can invalidate:
// the played line itself plus one square beyond each end, and — for each
// square of the played segment — the empty squares just past the ends of
// the perpendicular run through it. That region covers every square whose
// neighbouring runs changed, so no stale cross-set survives a move.
func (g *CrossSetGenerator) RecomputeDirty(b *Board, dir Direction, line, startPos, endPos int, playerIdx int, ld *LetterDistribution) {
	both := func(row, col int) {
		if !b.InBounds(row, col) {
			return
		}
		g.Recompute(b, row, col, dir, playerIdx, ld)
		g.Recompute(b, row, col, dir.Other(), playerIdx, ld)
	}
	for pos := startPos - 1; pos <= endPos+1; pos++ {
		row, col := b.RowCol(dir, line, pos)
		both(row, col)
	}
	other := dir.Other()
	for pos := startPos; pos <= endPos; pos++ {
		row, col := b.RowCol(dir, line, pos)
		oline, opos := row, col
		if other == Vertical {
			oline, opos = col, row
		}
		left, right := b.WordEdge(other, oline, opos)
		r1, c1 := b.RowCol(other, oline, left-1)
		r2, c2 := b.RowCol(other, oline, right+1)
		both(r1, c1)
		both(r2, c2)
	}
}
