// game_test.go
// Copyright (C) 2026 Kjell Haugen
// This file contains tests for game.go

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
	"testing"

	"github.com/stretchr/testify/assert"
)

func buildGameTestFixture(t *testing.T) (*Game, *LetterDistribution) {
	t.Helper()
	ld := EnglishLetterDistribution()
	words := [][]MachineLetter{
		toMachineLetters(t, ld, "AT"),
		toMachineLetters(t, ld, "CAT"),
	}
	graph, err := BuildKWG(ld, words, 15, OutputDawgAndGaddag)
	assert.NoError(t, err)
	klv, err := BuildKLVFromRows(ld, nil)
	assert.NoError(t, err)
	cross := NewCrossSetGenerator(graph, CrossSetClassic)

	board := NewBoard(15)
	game := NewGame(ld, board, graph, graph, klv, klv, 7, cross)
	return game, ld
}

func catMove(ld *LetterDistribution) *Move {
	c, _ := ld.MachineLetterForRune('C')
	a, _ := ld.MachineLetterForRune('A')
	tt, _ := ld.MachineLetterForRune('T')
	return &Move{
		Type:      MoveTypePlay,
		Tiles:     []MachineLetter{c, a, tt},
		Length:    3,
		NumPlayed: 3,
		Row:       7,
		Col:       6,
		Dir:       Horizontal,
		Score:     10,
	}
}

func TestPlayMoveRefreshesCrossSetsAlongPlayedLine(t *testing.T) {
	game, ld := buildGameTestFixture(t)
	player := game.Players[game.OnTurn]
	// give the player exactly the tiles the move consumes, so Take never
	// goes negative regardless of what the shuffled deal produced.
	player.Rack = NewRack(ld)
	c, _ := ld.MachineLetterForRune('C')
	a, _ := ld.MachineLetterForRune('A')
	tt, _ := ld.MachineLetterForRune('T')
	player.Rack.Add(c)
	player.Rack.Add(a)
	player.Rack.Add(tt)

	game.PlayMove(catMove(ld))

	for _, col := range []int{6, 7, 8} {
		info := game.Board.Sq(6, col).Dirs[Vertical].Cross[0]
		assert.NotEqual(t, TrivialCrossSet, info.CrossSet, "square above col %d should no longer be trivial", col)
	}
}

func TestPlayMoveAlternatesTurnAndRefillsRack(t *testing.T) {
	game, ld := buildGameTestFixture(t)
	first := game.OnTurn
	player := game.Players[first]

	player.Rack = NewRack(ld)
	c, _ := ld.MachineLetterForRune('C')
	a, _ := ld.MachineLetterForRune('A')
	tt, _ := ld.MachineLetterForRune('T')
	player.Rack.Add(c)
	player.Rack.Add(a)
	player.Rack.Add(tt)

	game.PlayMove(catMove(ld))

	assert.Equal(t, game.Opponent(first), game.OnTurn)
	assert.Equal(t, player.Score, 10)
	assert.Equal(t, 3, player.Rack.Total, "three tiles placed, three drawn back from the bag")
}

func TestUnplayMoveRestoresCrossSetsAndBoard(t *testing.T) {
	game, ld := buildGameTestFixture(t)
	player := game.Players[game.OnTurn]
	player.Rack = NewRack(ld)
	c, _ := ld.MachineLetterForRune('C')
	a, _ := ld.MachineLetterForRune('A')
	tt, _ := ld.MachineLetterForRune('T')
	player.Rack.Add(c)
	player.Rack.Add(a)
	player.Rack.Add(tt)

	game.PlayMove(catMove(ld))
	game.UnplayMove()

	assert.True(t, game.Board.Sq(7, 6).IsEmpty())
	assert.True(t, game.Board.Sq(7, 7).IsEmpty())
	assert.True(t, game.Board.Sq(7, 8).IsEmpty())
	for _, col := range []int{6, 7, 8} {
		info := game.Board.Sq(6, col).Dirs[Vertical].Cross[0]
		assert.Equal(t, TrivialCrossSet, info.CrossSet, "cross-set above col %d should revert to trivial", col)
	}
	assert.Equal(t, 0, player.Score)
}

func TestGameCloneIsIndependent(t *testing.T) {
	game, _ := buildGameTestFixture(t)
	clone := game.Clone()
	clone.Players[clone.OnTurn].Score = 999
	assert.NotEqual(t, game.Players[game.OnTurn].Score, clone.Players[clone.OnTurn].Score)
	assert.Same(t, game.Cross, clone.Cross, "cross-set generator is a shared, borrowed resource")
}

func TestGameSpreadIsScoreDifference(t *testing.T) {
	game, _ := buildGameTestFixture(t)
	game.Players[0].Score = 30
	game.Players[1].Score = 12
	assert.Equal(t, 18, game.Spread(0))
	assert.Equal(t, -18, game.Spread(1))
}

func TestGameIsOverFollowsEndReason(t *testing.T) {
	game, _ := buildGameTestFixture(t)
	assert.False(t, game.IsOver())
	game.EndReason = GameEndRackEmptyBagEmpty
	assert.True(t, game.IsOver())
}

func TestUnplayMoveRestoresBagCount(t *testing.T) {
	game, ld := buildGameTestFixture(t)
	player := game.Players[game.OnTurn]
	player.Rack = NewRack(ld)
	c, _ := ld.MachineLetterForRune('C')
	a, _ := ld.MachineLetterForRune('A')
	tt, _ := ld.MachineLetterForRune('T')
	player.Rack.Add(c)
	player.Rack.Add(a)
	player.Rack.Add(tt)

	before := game.Bag.Count()
	game.PlayMove(catMove(ld))
	game.UnplayMove()

	assert.Equal(t, before, game.Bag.Count())
	assert.Equal(t, 3, player.Rack.Total)
}

func TestUnplayExchangeRestoresBagAndRack(t *testing.T) {
	game, ld := buildGameTestFixture(t)
	player := game.Players[game.OnTurn]
	player.Rack = NewRack(ld)
	q, _ := ld.MachineLetterForRune('Q')
	z, _ := ld.MachineLetterForRune('Z')
	player.Rack.Add(q)
	player.Rack.Add(z)

	before := game.Bag.Count()
	exch := &Move{Type: MoveTypeExchange, Tiles: []MachineLetter{q, z}, Length: 2, NumPlayed: 2}
	game.PlayMove(exch)
	game.UnplayMove()

	assert.Equal(t, before, game.Bag.Count())
	assert.Equal(t, 2, player.Rack.Total)
	assert.True(t, player.Rack.Has(q, 1))
	assert.True(t, player.Rack.Has(z, 1))
}
