// movegen.go
// Copyright (C) 2026 Kjell Haugen
// This file contains code to generate all valid tile moves
// on a SCRABBLE(tm)-like board, given a player's rack: a shadow
// pass bounding each anchor's possible equity, then a GADDAG
// walk that emits the actual plays.

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

	"github.com/op/go-logging"
)

var logMovegen = logging.MustGetLogger("skrafl/movegen")

// bingoBonus is added to a play's score when it uses every tile on the rack.
const bingoBonus = 50

// MoveGenerator finds the legal plays reachable from a rack against a board:
// a shadow pass over each axis's anchors producing an equity upper bound,
// followed by a recursive GADDAG walk per anchor that emits the actual
// plays, plus exchange-move enumeration.
type MoveGenerator struct {
	Graph    *KWG
	Cross    *CrossSetGenerator
	LD       *LetterDistribution
	RackSize int
}

func NewMoveGenerator(graph *KWG, cross *CrossSetGenerator, ld *LetterDistribution, rackSize int) *MoveGenerator {
	return &MoveGenerator{Graph: graph, Cross: cross, LD: ld, RackSize: rackSize}
}

// Generate returns the move list for rack against b: exchanges, plays found
// by scanning both axes, and a trailing pass move.
func (mg *MoveGenerator) Generate(b *Board, rack *Rack, klv *KLV, playerIdx, bagTiles int, oppRack *Rack, sortBy SortBy, capacity int) *MoveList {
	ml := NewMoveList(capacity, sortBy)
	bestLeaves := mg.genExchanges(rack, klv, bagTiles, ml)
	for _, dir := range [2]Direction{Horizontal, Vertical} {
		anchors := mg.shadowPass(b, dir, rack, bestLeaves, playerIdx, bagTiles, sortBy)
		mg.generatePass(b, dir, rack, klv, playerIdx, bagTiles, oppRack, anchors, ml, sortBy)
	}
	ml.AddPass()
	return ml
}

// GenerateBest is the "record best only" entry point used by the simulation
// engine's rollout plies: it runs the full two-axis search but keeps only
// the single top-equity play.
func (mg *MoveGenerator) GenerateBest(b *Board, rack *Rack, klv *KLV, playerIdx, bagTiles int, oppRack *Rack) *Move {
	return mg.Generate(b, rack, klv, playerIdx, bagTiles, oppRack, SortByEquity, 1).Best()
}

// genExchanges enumerates every non-empty rack subset of at most RackSize-1
// letters (plus the empty exchange when the rack is full and the bag holds
// at least RackSize tiles), recording each as a candidate move and filling
// bestLeaves[kept] with the best KLV value achievable keeping that many
// tiles — the shadow pass's upper bound on leave value. Exchange moves are
// only legal (and only recorded) while the bag still holds a full rack's
// worth of tiles; bestLeaves is filled either way since board plays keep
// needing the bound.
func (mg *MoveGenerator) genExchanges(rack *Rack, klv *KLV, bagTiles int, ml *MoveList) BestLeaves {
	best := make(BestLeaves, mg.RackSize+1)
	for i := range best {
		best[i] = math.Inf(-1)
	}
	var letters []int
	for l, c := range rack.Counts {
		if c > 0 {
			letters = append(letters, l)
		}
	}
	subset := make([]int, len(rack.Counts))
	var tilesOut []MachineLetter

	var rec func(i int)
	rec = func(i int) {
		if i == len(letters) {
			size := 0
			for _, c := range subset {
				size += c
			}
			if size == 0 {
				if rack.Total != mg.RackSize || bagTiles < mg.RackSize {
					return
				}
			} else if size > mg.RackSize-1 {
				return
			}
			kept := rack.Total - size
			leave := NewRack(mg.LD)
			for l, c := range rack.Counts {
				leave.AddCount(MachineLetter(l), c-subset[l])
			}
			val := float64(klv.LeaveValue(leave))
			if kept >= 0 && kept < len(best) && val > best[kept] {
				best[kept] = val
			}
			if size > 0 && bagTiles >= mg.RackSize {
				tilesOut = tilesOut[:0]
				for l, c := range subset {
					for k := 0; k < c; k++ {
						tilesOut = append(tilesOut, MachineLetter(l))
					}
				}
				m := ml.Spare()
				*m = Move{
					Type:      MoveTypeExchange,
					Tiles:     append([]MachineLetter(nil), tilesOut...),
					Length:    len(tilesOut),
					NumPlayed: len(tilesOut),
					Equity:    val,
				}
				ml.InsertSpare()
			}
			return
		}
		l := letters[i]
		maxC := rack.Counts[l]
		for c := 0; c <= maxC; c++ {
			subset[l] = c
			rec(i + 1)
		}
		subset[l] = 0
	}
	rec(0)
	for i := range best {
		if math.IsInf(best[i], -1) {
			best[i] = 0
		}
	}
	return best
}

// shadowPass scans dir's BoardDim lines for anchors and estimates an upper
// bound on achievable equity for each, per spec.md §4.5.
func (mg *MoveGenerator) shadowPass(b *Board, dir Direction, rack *Rack, bestLeaves BestLeaves, playerIdx, bagTiles int, sortBy SortBy) *AnchorHeap {
	anchors := NewAnchorHeap()
	maxTiles := rack.Total
	if maxTiles > mg.RackSize {
		maxTiles = mg.RackSize
	}
	for line := 0; line < b.Dim; line++ {
		lastAnchorPos := -1
		for pos := 0; pos < b.Dim; pos++ {
			row, col := b.RowCol(dir, line, pos)
			if !b.IsAnchor(row, col) {
				continue
			}
			eq := mg.shadowEquity(b, dir, line, pos, lastAnchorPos, rack, maxTiles, bestLeaves, playerIdx, bagTiles, sortBy)
			anchors.Add(Anchor{
				Row: row, Col: col, Dir: dir,
				LastAnchorCol:     lastAnchorPos,
				Transposed:        dir == Vertical,
				HighestPossibleEq: eq,
			})
			lastAnchorPos = pos
		}
	}
	logMovegen.Debugf("shadow pass dir %d: %d anchors", dir, anchors.Len())
	return anchors
}

// shadowCell captures one empty square reachable from an anchor: its bonus
// multipliers and the perpendicular word it would hook, if any.
type shadowCell struct {
	lm, wm     int
	crossWord  bool
	crossScore int
}

// rackLetterMask returns the bitmask of letters the rack could place: its
// real letters, or every letter when it holds a blank.
func (mg *MoveGenerator) rackLetterMask(rack *Rack) uint32 {
	if rack.Counts[0] > 0 {
		return TrivialCrossSet
	}
	var mask uint32
	for ml := 1; ml < len(rack.Counts); ml++ {
		if rack.Counts[ml] > 0 {
			mask |= 1 << uint(ml)
		}
	}
	return mask
}

// shadowUsable reports whether any rack tile could legally land on sq: the
// perpendicular cross-set, the in-line extension sets (dead-end pruning),
// and the rack's own letters must share at least one real letter.
func (mg *MoveGenerator) shadowUsable(sq *Square, dir Direction, playerIdx int, rackMask uint32) bool {
	cross := &sq.Dirs[dir.Other()].Cross[playerIdx]
	inline := &sq.Dirs[dir].Cross[playerIdx]
	return cross.CrossSet&inline.LeftExtSet&inline.RightExtSet&rackMask&^uint32(1) != 0
}

func shadowCellOf(sq *Square, other Direction, playerIdx int) shadowCell {
	info := &sq.Dirs[other].Cross[playerIdx]
	return shadowCell{
		lm:         sq.LetterMultiplier(),
		wm:         sq.WordMultiplier(),
		crossWord:  sq.Dirs[other].IsCrossWord,
		crossScore: info.CrossScore,
	}
}

// shadowEquity computes an upper bound on the equity of any play anchored at
// (line, pos): it gathers the empty squares reachable to either side
// (passing through tiles already on the board for free, stopping at squares
// no rack tile could legally occupy), caps the word multiplier by the
// product over every reachable premium square, pairs the rack's descending
// face scores with the descending effective multipliers, and adds
// playthrough, perpendicular, bingo, and best-case leave contributions. The
// invariant preserved: no play generated from this anchor can score above
// the returned bound.
func (mg *MoveGenerator) shadowEquity(b *Board, dir Direction, line, pos, lastAnchorPos int, rack *Rack, maxTiles int, bestLeaves BestLeaves, playerIdx, bagTiles int, sortBy SortBy) float64 {
	other := dir.Other()
	rackMask := mg.rackLetterMask(rack)

	anchorSq := b.SquareAt(dir, line, pos)
	if !mg.shadowUsable(anchorSq, dir, playerIdx, rackMask) {
		return PassMoveEquity
	}
	cells := []shadowCell{shadowCellOf(anchorSq, other, playerIdx)}
	playthrough := 0

	scan := func(step, limit int) {
		budget := maxTiles - 1
		for p := pos + step; p != limit+step; p += step {
			sq := b.SquareAt(dir, line, p)
			if !sq.IsEmpty() {
				playthrough += mg.LD.Score(sq.Letter.Unblank())
				continue
			}
			if budget == 0 {
				break
			}
			if !mg.shadowUsable(sq, dir, playerIdx, rackMask) {
				break
			}
			cells = append(cells, shadowCellOf(sq, other, playerIdx))
			budget--
		}
	}
	scan(-1, lastAnchorPos+1)
	scan(1, b.Dim-1)

	wordMultCap := 1
	for _, c := range cells {
		if c.wm > 1 {
			wordMultCap *= c.wm
		}
	}
	mults := make([]int, len(cells))
	crossFixed := 0
	for i, c := range cells {
		m := c.lm * wordMultCap
		if c.crossWord {
			m += c.lm * c.wm
			crossFixed += c.crossScore * c.wm
		}
		mults[i] = m
	}

	scores := make([]int, 0, maxTiles)
	for _, ml := range mg.LD.DescendingScoreOrder() {
		for k := 0; k < rack.Counts[ml] && len(scores) < maxTiles; k++ {
			scores = append(scores, mg.LD.Score(ml))
		}
	}
	for k := 0; k < rack.Counts[0] && len(scores) < maxTiles; k++ {
		scores = append(scores, 0)
	}

	base := float64(playthrough*wordMultCap + crossFixed)
	best := PassMoveEquity
	limit := maxTiles
	if len(cells) < limit {
		limit = len(cells)
	}
	for t := 1; t <= limit; t++ {
		n := t
		if n > len(scores) {
			n = len(scores)
		}
		v := base + float64(ShadowScoreBound(scores[:n], mults))
		if t == mg.RackSize {
			v += bingoBonus
		}
		if sortBy == SortByEquity && bagTiles > 0 {
			v += ShadowEquityUpperBound(bestLeaves, rack.Total, t)
		}
		if v > best {
			best = v
		}
	}
	return best
}

// genCtx carries the mutable state threaded through one axis's generation
// pass: the working rack, the incremental leave map, and the in-progress
// strip being built at the current anchor.
type genCtx struct {
	mg         *MoveGenerator
	b          *Board
	dir        Direction
	line       int
	leftLimit  int
	rightLimit int
	anchorPos  int

	rack      *Rack
	leaveMap  *LeaveMap
	oppRack   *Rack
	bagTiles  int
	playerIdx int
	ml        *MoveList
	sortBy    SortBy

	strip     []MachineLetter
	leftEdge  int
	rightEdge int
	mainScore int
	wordMult  int
	crossSum  int
	numPlayed int
}

// generatePass consumes anchors in descending upper-bound order, stopping
// early once the current best known equity exceeds the next anchor's bound.
func (mg *MoveGenerator) generatePass(b *Board, dir Direction, rack *Rack, klv *KLV, playerIdx, bagTiles int, oppRack *Rack, anchors *AnchorHeap, ml *MoveList, sortBy SortBy) {
	leaveMap := NewLeaveMap(klv, rack)
	for {
		a, ok := anchors.PeekMax()
		if !ok {
			return
		}
		// early termination applies only in record-best mode: record-all
		// callers get every legal play regardless of the bound.
		if sortBy == SortByEquity && ml.Capacity == 1 {
			if best := ml.Best(); best != nil && a.HighestPossibleEq < best.Equity-equityEpsilon {
				logMovegen.Debugf("anchor (%d,%d) bound %.2f below best %.2f, stopping anchor scan (%d anchors left)",
					a.Row, a.Col, a.HighestPossibleEq, best.Equity, anchors.Len())
				return
			}
		}
		anchors.PopMax()

		line, anchorPos := a.Row, a.Col
		if dir == Vertical {
			line, anchorPos = a.Col, a.Row
		}
		gc := &genCtx{
			mg: mg, b: b, dir: dir, line: line,
			leftLimit: a.LastAnchorCol + 1, rightLimit: b.Dim - 1,
			anchorPos: anchorPos,
			rack:      rack, leaveMap: leaveMap, oppRack: oppRack,
			bagTiles: bagTiles, playerIdx: playerIdx, ml: ml, sortBy: sortBy,
			strip:     make([]MachineLetter, b.Dim),
			leftEdge:  anchorPos, rightEdge: anchorPos - 1,
		}
		gc.extendLeft(anchorPos, mg.Graph.RootGaddag())
	}
}

func (gc *genCtx) sqAt(pos int) *Square {
	row, col := gc.b.RowCol(gc.dir, gc.line, pos)
	return gc.b.Sq(row, col)
}

// extendLeft walks from pos down to gc.leftLimit, consuming board tiles
// (playthrough) or rack tiles (new placements), recording a play whenever
// the reversed prefix terminates at an accepting node with nothing further
// on either flank, and pivoting through the GADDAG separator to extend
// rightward from the anchor whenever the current node has a SEP edge.
func (gc *genCtx) extendLeft(pos int, arc uint32) {
	if pos < gc.leftLimit {
		return
	}
	sq := gc.sqAt(pos)
	if !sq.IsEmpty() {
		t := sq.Letter.Unblank()
		sib := gc.mg.Graph.SiblingForLetter(arc, t)
		if sib == 0 {
			return
		}
		accepts := kwgNode(gc.mg.Graph.Node(sib)).accepts()
		next := kwgNode(gc.mg.Graph.Node(sib)).arcIndex()
		prevLeft, prevRight := gc.leftEdge, gc.rightEdge
		gc.placePlaythrough(pos, t)
		gc.tryRecordLeft(pos, accepts)
		if next != 0 {
			if pos > gc.leftLimit {
				gc.extendLeft(pos-1, next)
			}
			gc.pivot(pos, next)
		}
		gc.unplacePlaythrough(pos)
		gc.leftEdge, gc.rightEdge = prevLeft, prevRight
		return
	}

	info := &sq.Dirs[gc.dir.Other()].Cross[gc.playerIdx]
	for ml := MachineLetter(1); int(ml) <= gc.mg.LD.Size(); ml++ {
		if info.CrossSet&(1<<uint(ml)) == 0 {
			continue
		}
		sib := gc.mg.Graph.SiblingForLetter(arc, ml)
		if sib == 0 {
			continue
		}
		accepts := kwgNode(gc.mg.Graph.Node(sib)).accepts()
		next := kwgNode(gc.mg.Graph.Node(sib)).arcIndex()
		cont := func() {
			gc.tryRecordLeft(pos, accepts)
			if next != 0 {
				if pos > gc.leftLimit {
					gc.extendLeft(pos-1, next)
				}
				gc.pivot(pos, next)
			}
		}
		if gc.rack.Has(ml, 1) {
			gc.withNewTile(pos, ml, sq, info, cont)
		}
		if gc.rack.Has(0, 1) {
			gc.withBlankTile(pos, ml, sq, info, cont)
		}
	}
}

// extendRight walks from pos up to gc.rightLimit, mirroring extendLeft.
func (gc *genCtx) extendRight(pos int, arc uint32) {
	if pos > gc.rightLimit {
		return
	}
	sq := gc.sqAt(pos)
	if !sq.IsEmpty() {
		t := sq.Letter.Unblank()
		sib := gc.mg.Graph.SiblingForLetter(arc, t)
		if sib == 0 {
			return
		}
		accepts := kwgNode(gc.mg.Graph.Node(sib)).accepts()
		next := kwgNode(gc.mg.Graph.Node(sib)).arcIndex()
		prevLeft, prevRight := gc.leftEdge, gc.rightEdge
		gc.placePlaythrough(pos, t)
		gc.tryRecordRight(pos, accepts)
		if next != 0 {
			gc.extendRight(pos+1, next)
		}
		gc.unplacePlaythrough(pos)
		gc.leftEdge, gc.rightEdge = prevLeft, prevRight
		return
	}

	info := &sq.Dirs[gc.dir.Other()].Cross[gc.playerIdx]
	for ml := MachineLetter(1); int(ml) <= gc.mg.LD.Size(); ml++ {
		if info.CrossSet&(1<<uint(ml)) == 0 {
			continue
		}
		sib := gc.mg.Graph.SiblingForLetter(arc, ml)
		if sib == 0 {
			continue
		}
		accepts := kwgNode(gc.mg.Graph.Node(sib)).accepts()
		next := kwgNode(gc.mg.Graph.Node(sib)).arcIndex()
		cont := func() {
			gc.tryRecordRight(pos, accepts)
			if next != 0 {
				gc.extendRight(pos+1, next)
			}
		}
		if gc.rack.Has(ml, 1) {
			gc.withNewTile(pos, ml, sq, info, cont)
		}
		if gc.rack.Has(0, 1) {
			gc.withBlankTile(pos, ml, sq, info, cont)
		}
	}
}

// pivot follows a SEP edge from arc (the node reached after consuming the
// reversed prefix so far) and, if present, begins extending rightward from
// one past the anchor. The pivot is only legal once the leftward walk has
// consumed everything abutting it: a tile immediately left of pos would
// belong to the word and must be taken by extendLeft instead.
func (gc *genCtx) pivot(pos int, arc uint32) {
	if pos > 0 && !gc.sqAt(pos-1).IsEmpty() {
		return
	}
	sepArc := gc.mg.Graph.NextNodeForLetter(arc, SepLetter)
	if sepArc == 0 || gc.anchorPos+1 > gc.rightLimit {
		return
	}
	gc.extendRight(gc.anchorPos+1, sepArc)
}

// tryRecordLeft records a word that ends at the anchor itself: legal only
// when the consumed path accepts and nothing abuts it on either flank — no
// tile left of pos (the word would continue) and no tile right of the
// anchor (ditto).
func (gc *genCtx) tryRecordLeft(pos int, accepts bool) {
	if !accepts {
		return
	}
	leftClear := pos == 0 || gc.sqAt(pos-1).IsEmpty()
	rightClear := gc.anchorPos == gc.b.Dim-1 || gc.sqAt(gc.anchorPos+1).IsEmpty()
	if leftClear && rightClear {
		gc.record()
	}
}

func (gc *genCtx) tryRecordRight(pos int, accepts bool) {
	if !accepts {
		return
	}
	if pos == gc.b.Dim-1 || gc.sqAt(pos+1).IsEmpty() {
		gc.record()
	}
}

// withNewTile places ml from the rack at pos, runs fn, then undoes the
// placement and the rack/leave-map mutation exactly.
func (gc *genCtx) withNewTile(pos int, ml MachineLetter, sq *Square, info *CrossInfo, fn func()) {
	prevLeft, prevRight := gc.leftEdge, gc.rightEdge
	gc.rack.Take(ml)
	gc.leaveMap.TakeLetter(gc.rack)
	gc.placeNew(pos, ml, sq, info)
	fn()
	gc.unplaceNew(pos, ml, sq, info)
	gc.leaveMap.AddLetter()
	gc.rack.Add(ml)
	gc.leftEdge, gc.rightEdge = prevLeft, prevRight
}

// withBlankTile is withNewTile's counterpart for playing the blank as ml.
func (gc *genCtx) withBlankTile(pos int, ml MachineLetter, sq *Square, info *CrossInfo, fn func()) {
	prevLeft, prevRight := gc.leftEdge, gc.rightEdge
	gc.rack.Take(0)
	gc.leaveMap.TakeLetter(gc.rack)
	gc.placeNew(pos, ml|BlankMask, sq, info)
	fn()
	gc.unplaceNew(pos, ml|BlankMask, sq, info)
	gc.leaveMap.AddLetter()
	gc.rack.Add(0)
	gc.leftEdge, gc.rightEdge = prevLeft, prevRight
}

func (gc *genCtx) placeNew(pos int, letter MachineLetter, sq *Square, info *CrossInfo) {
	gc.strip[pos] = letter
	if pos < gc.leftEdge {
		gc.leftEdge = pos
	}
	if pos > gc.rightEdge {
		gc.rightEdge = pos
	}
	face := gc.mg.LD.Score(letter)
	lm := sq.LetterMultiplier()
	wm := sq.WordMultiplier()
	gc.mainScore += face * lm
	if wm > 1 {
		if gc.wordMult == 0 {
			gc.wordMult = 1
		}
		gc.wordMult *= wm
	}
	if sq.Dirs[gc.dir.Other()].IsCrossWord {
		gc.crossSum += (info.CrossScore + face*lm) * wm
	}
	gc.numPlayed++
}

func (gc *genCtx) unplaceNew(pos int, letter MachineLetter, sq *Square, info *CrossInfo) {
	face := gc.mg.LD.Score(letter)
	lm := sq.LetterMultiplier()
	wm := sq.WordMultiplier()
	if sq.Dirs[gc.dir.Other()].IsCrossWord {
		gc.crossSum -= (info.CrossScore + face*lm) * wm
	}
	if wm > 1 {
		gc.wordMult /= wm
	}
	gc.mainScore -= face * lm
	gc.numPlayed--
	gc.strip[pos] = 0
}

func (gc *genCtx) placePlaythrough(pos int, t MachineLetter) {
	gc.strip[pos] = PlaythroughMarker
	if pos < gc.leftEdge {
		gc.leftEdge = pos
	}
	if pos > gc.rightEdge {
		gc.rightEdge = pos
	}
	gc.mainScore += gc.mg.LD.Score(t)
}

func (gc *genCtx) unplacePlaythrough(pos int) {
	t := gc.sqAt(pos).Letter.Unblank()
	gc.mainScore -= gc.mg.LD.Score(t)
	gc.strip[pos] = 0
}

// record emits the currently-built strip as a play, if it's at least two
// tiles long and placed at least one new tile.
func (gc *genCtx) record() {
	if gc.numPlayed == 0 || gc.rightEdge < gc.leftEdge {
		return
	}
	length := gc.rightEdge - gc.leftEdge + 1
	if length < 2 {
		return
	}
	wordMult := gc.wordMult
	if wordMult == 0 {
		wordMult = 1
	}
	score := gc.mainScore*wordMult + gc.crossSum
	if gc.numPlayed == gc.mg.RackSize {
		score += bingoBonus
	}
	row, col := gc.b.RowCol(gc.dir, gc.line, gc.leftEdge)
	tiles := append([]MachineLetter(nil), gc.strip[gc.leftEdge:gc.rightEdge+1]...)
	m := gc.ml.Spare()
	*m = Move{
		Type: MoveTypePlay, Tiles: tiles, Length: length, NumPlayed: gc.numPlayed,
		Row: row, Col: col, Dir: gc.dir, Score: score,
	}
	m.Equity = gc.equity(score)
	gc.ml.InsertSpare()
}

// equity scores the candidate strip using the incremental leave-map index
// rather than a fresh KLV walk, per spec.md §4.5.
func (gc *genCtx) equity(score int) float64 {
	if gc.sortBy == SortByScore {
		return float64(score)
	}
	eq := float64(score)
	if gc.bagTiles > 0 && !gc.rack.IsEmpty() {
		eq += float64(gc.leaveMap.Value())
	}
	eq += preEndgamePenalty(gc.mg.LD, gc.rack, gc.bagTiles)
	return eq
}
