// game.go
// Copyright (C) 2026 Kjell Haugen
// This file contains the Game state: board, bag, players,
// turn tracking, and the undo journal used during simulation.

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

// GameEndReason is the game's end-of-play state machine, per spec.md §4.11.
type GameEndReason int

const (
	GameEndNone GameEndReason = iota
	GameEndStandardPass
	GameEndRackEmptyBagEmpty
	GameEndTimePenaltyExceeded
)

// maxConsecutiveScorelessTurns is the count of scoreless turns (passes or
// zero-score exchanges/plays) that ends a game by the StandardPass rule.
const maxConsecutiveScorelessTurns = 6

// Player holds one side's mutable game state: rack, word graph, leave
// table, and score. The word graph and KLV are borrowed immutable shared
// resources (spec.md §9's "capability references" design), not owned
// copies.
type Player struct {
	Rack  *Rack
	Graph *KWG
	KLV   *KLV
	Score int
}

func (p *Player) Clone() *Player {
	return &Player{Rack: p.Rack.Clone(), Graph: p.Graph, KLV: p.KLV, Score: p.Score}
}

// squareEdit records one board square mutated while applying a move's
// strip, so UnplayMove can restore it in LIFO order.
type squareEdit struct {
	row, col   int
	prevLetter MachineLetter
}

// moveUndo captures everything PlayMove touched, so UnplayMove restores the
// game to its exact prior state: board, both racks, both scores, bag
// contents, and turn counter. This is the undo-journal design spec.md §9
// recommends in place of the source's full board/bag/rack backup-slot
// stack: bounded by tiles_played x squares-affected, trivial to size
// statically, and reversed in LIFO order.
type moveUndo struct {
	squares []squareEdit
	// drawn holds the tiles drawn from the bag to replenish the rack after
	// a play or exchange, in draw order, so they return to the bag.
	drawn []MachineLetter
	// removedFromRack holds exactly the tiles removed from the rack
	// (placed tiles for a play, or the full subset for an exchange), so
	// they can be added back.
	removedFromRack []MachineLetter
	// returnedToBag is set when removedFromRack was put into the bag
	// (exchange): undo must pull those tiles back out. A play's tiles went
	// to the board instead and the bag is left alone.
	returnedToBag bool

	prevScore           int
	prevScoreless       int
	prevEndReason       GameEndReason
	onTurn              int

	// crossDirty records the line a play touched, so UnplayMove can refresh
	// cross-sets there after restoring the board.
	crossDirty           bool
	crossDir             Direction
	crossLine            int
	crossStart, crossEnd int
}

// Game bundles the board, bag, both players, and turn-tracking state. LD is
// borrowed (shared, immutable) for the game's lifetime.
type Game struct {
	Board *Board
	Bag   *Bag
	LD    *LetterDistribution
	Cross *CrossSetGenerator

	Players        [2]*Player
	OnTurn         int
	StartingPlayer int

	ConsecutiveScorelessTurns int
	EndReason                 GameEndReason

	undoStack []moveUndo
}

// NewGame constructs a game with an empty board and a full shuffled bag,
// dealing full racks to both players. cross recomputes both players' cross-
// sets after every play, keeping the board ready for the next generation
// pass; nil disables the refresh (e.g. a board assembled directly for a
// test that never calls PlayMove).
func NewGame(ld *LetterDistribution, board *Board, p1Graph, p2Graph *KWG, p1KLV, p2KLV *KLV, rackSize int, cross *CrossSetGenerator) *Game {
	bag := NewBag(ld)
	bag.Shuffle()
	g := &Game{
		Board: board,
		Bag:   bag,
		LD:    ld,
		Cross: cross,
		Players: [2]*Player{
			{Rack: NewRack(ld), Graph: p1Graph, KLV: p1KLV},
			{Rack: NewRack(ld), Graph: p2Graph, KLV: p2KLV},
		},
	}
	for _, p := range g.Players {
		for _, t := range bag.Draw(rackSize) {
			p.Rack.Add(t)
		}
	}
	return g
}

// Opponent returns the index of the player not on turn.
func (g *Game) Opponent(playerIdx int) int {
	return 1 - playerIdx
}

// Clone duplicates the full game state (board, bag, both players, turn
// state) for a thread-local simulation rollout, per spec.md §4.9 step 1 and
// §5's "game board is per-worker" policy. The undo stack is not copied: a
// duplicate starts with a clean undo history.
func (g *Game) Clone() *Game {
	return &Game{
		Board:                     g.Board.Clone(),
		Bag:                       g.Bag.Clone(),
		LD:                        g.LD,
		Cross:                     g.Cross,
		Players:                   [2]*Player{g.Players[0].Clone(), g.Players[1].Clone()},
		OnTurn:                    g.OnTurn,
		StartingPlayer:            g.StartingPlayer,
		ConsecutiveScorelessTurns: g.ConsecutiveScorelessTurns,
		EndReason:                 g.EndReason,
	}
}

// PlayMove applies m on behalf of the player on turn, updating the board,
// rack, score, scoreless-turn counter, and end-reason, and pushing an
// undo record so UnplayMove can reverse it exactly.
func (g *Game) PlayMove(m *Move) {
	player := g.Players[g.OnTurn]
	u := moveUndo{
		prevScore:     player.Score,
		prevScoreless: g.ConsecutiveScorelessTurns,
		prevEndReason: g.EndReason,
		onTurn:        g.OnTurn,
	}

	switch m.Type {
	case MoveTypePass:
		g.ConsecutiveScorelessTurns++

	case MoveTypeExchange:
		for _, t := range m.Tiles {
			player.Rack.Take(t)
		}
		u.removedFromRack = append([]MachineLetter(nil), m.Tiles...)
		u.returnedToBag = true
		g.Bag.Return(m.Tiles)
		drawn := g.Bag.Draw(len(m.Tiles))
		for _, t := range drawn {
			player.Rack.Add(t)
		}
		u.drawn = drawn
		g.ConsecutiveScorelessTurns++

	case MoveTypePlay:
		row, col := m.Row, m.Col
		dr, dc := 0, 0
		if m.Dir == Horizontal {
			dc = 1
		} else {
			dr = 1
		}
		for i, t := range m.Tiles {
			if t == PlaythroughMarker {
				continue
			}
			r, c := row+dr*i, col+dc*i
			sq := g.Board.Sq(r, c)
			u.squares = append(u.squares, squareEdit{row: r, col: c, prevLetter: sq.Letter})
			if t.IsBlanked() {
				player.Rack.Take(0)
				u.removedFromRack = append(u.removedFromRack, 0)
			} else {
				player.Rack.Take(t)
				u.removedFromRack = append(u.removedFromRack, t)
			}
			sq.Letter = t
		}

		line, startPos := row, col
		if m.Dir == Vertical {
			line, startPos = col, row
		}
		endPos := startPos + m.Length - 1
		u.crossDirty = true
		u.crossDir, u.crossLine, u.crossStart, u.crossEnd = m.Dir, line, startPos, endPos
		if g.Cross != nil {
			for idx := 0; idx < len(g.Players); idx++ {
				g.Cross.RecomputeDirty(g.Board, m.Dir, line, startPos, endPos, idx, g.LD)
			}
		}

		player.Score += m.Score
		if m.Score > 0 {
			g.ConsecutiveScorelessTurns = 0
		} else {
			g.ConsecutiveScorelessTurns++
		}
		drawn := g.Bag.Draw(m.NumPlayed)
		for _, t := range drawn {
			player.Rack.Add(t)
		}
		u.drawn = drawn
		if player.Rack.IsEmpty() && g.Bag.Count() == 0 {
			g.EndReason = GameEndRackEmptyBagEmpty
		}
	}

	if g.EndReason == GameEndNone && g.ConsecutiveScorelessTurns >= maxConsecutiveScorelessTurns {
		g.EndReason = GameEndStandardPass
	}
	g.undoStack = append(g.undoStack, u)
	g.OnTurn = g.Opponent(g.OnTurn)
}

// UnplayMove reverses the most recent PlayMove, restoring the board, both
// racks, both scores, bag contents, and the turn counter exactly.
func (g *Game) UnplayMove() {
	n := len(g.undoStack)
	if n == 0 {
		return
	}
	u := g.undoStack[n-1]
	g.undoStack = g.undoStack[:n-1]

	player := g.Players[u.onTurn]

	// return drawn tiles to the bag first (order doesn't matter for bag
	// contents, only for the rack's add/remove pairing below)
	if len(u.drawn) > 0 {
		for _, t := range u.drawn {
			player.Rack.Take(t)
		}
		g.Bag.Return(u.drawn)
	}
	// reverse board edits in LIFO order
	for i := len(u.squares) - 1; i >= 0; i-- {
		e := u.squares[i]
		g.Board.Sq(e.row, e.col).Letter = e.prevLetter
	}
	if u.crossDirty && g.Cross != nil {
		for idx := 0; idx < len(g.Players); idx++ {
			g.Cross.RecomputeDirty(g.Board, u.crossDir, u.crossLine, u.crossStart, u.crossEnd, idx, g.LD)
		}
	}
	// restore removed rack tiles; an exchange put them into the bag, so
	// pull them back out, while a play's tiles came off the board above.
	if len(u.removedFromRack) > 0 {
		for _, t := range u.removedFromRack {
			player.Rack.Add(t)
		}
		if u.returnedToBag {
			g.Bag.RemoveKnown(u.removedFromRack)
		}
	}

	player.Score = u.prevScore
	g.ConsecutiveScorelessTurns = u.prevScoreless
	g.EndReason = u.prevEndReason
	g.OnTurn = u.onTurn
}

// IsOver reports whether further plays are permitted.
func (g *Game) IsOver() bool {
	return g.EndReason != GameEndNone
}

// Spread returns playerIdx's score minus the other player's.
func (g *Game) Spread(playerIdx int) int {
	return g.Players[playerIdx].Score - g.Players[g.Opponent(playerIdx)].Score
}
