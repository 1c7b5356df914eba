// bai_test.go
// Copyright (C) 2026 Kjell Haugen
// This file contains tests for bai.go

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

func newTestController(cfg BAIControllerConfig, moves []*Move) (*BAIController, *SimResults) {
	results := NewSimResults(1, moves)
	control := NewThreadControl(1, 1, 0)
	ld := EnglishLetterDistribution()
	return NewBAIController(cfg, control, results, ld), results
}

func TestBAINextArmsRoundRobin(t *testing.T) {
	moves := []*Move{{Type: MoveTypePass}, {Type: MoveTypeExchange}, {Type: MoveTypePass}}
	c, _ := newTestController(BAIControllerConfig{Rule: RoundRobin}, moves)

	seen := map[int]int{}
	for i := 0; i < 9; i++ {
		arms := c.NextArms()
		assert.Len(t, arms, 1)
		seen[arms[0]]++
	}
	assert.Equal(t, 3, seen[0])
	assert.Equal(t, 3, seen[1])
	assert.Equal(t, 3, seen[2])
}

func TestBAINextArmsTopTwo(t *testing.T) {
	moves := []*Move{{Type: MoveTypePass}, {Type: MoveTypeExchange}, {Type: MoveTypePass}}
	c, results := newTestController(BAIControllerConfig{Rule: TopTwo}, moves)

	results.Plays[0].RecordFinal(0, 0, 0.9)
	results.Plays[1].RecordFinal(0, 0, 0.2)
	results.Plays[2].RecordFinal(0, 0, 0.5)

	arms := c.NextArms()
	assert.ElementsMatch(t, []int{0, 2}, arms)
}

func TestBAINextArmsSkipsIgnoredAndEpigon(t *testing.T) {
	moves := []*Move{{Type: MoveTypePass}, {Type: MoveTypeExchange}}
	c, results := newTestController(BAIControllerConfig{Rule: RoundRobin}, moves)
	results.Plays[0].Ignored = true

	arms := c.NextArms()
	assert.Equal(t, []int{1}, arms)
}

func TestBAIMarkEpigonsSameTilesUnblanked(t *testing.T) {
	ld := EnglishLetterDistribution()
	a, _ := ld.MachineLetterForRune('A')
	blankA := a | BlankMask

	m1 := &Move{Type: MoveTypePlay, Row: 7, Col: 7, Dir: Horizontal, Tiles: []MachineLetter{a}}
	m2 := &Move{Type: MoveTypePlay, Row: 7, Col: 7, Dir: Horizontal, Tiles: []MachineLetter{blankA}}
	m3 := &Move{Type: MoveTypePlay, Row: 7, Col: 8, Dir: Horizontal, Tiles: []MachineLetter{a}}

	results := NewSimResults(1, []*Move{m1, m2, m3})
	control := NewThreadControl(1, 1, 0)
	c := NewBAIController(BAIControllerConfig{Rule: RoundRobin}, control, results, ld)

	c.MarkEpigons()
	assert.False(t, results.Plays[0].Epigon)
	assert.True(t, results.Plays[1].Epigon)
	assert.False(t, results.Plays[2].Epigon)
}

func TestBAICheckStopSampleLimit(t *testing.T) {
	moves := []*Move{{Type: MoveTypePass}, {Type: MoveTypeExchange}}
	c, _ := newTestController(BAIControllerConfig{Rule: RoundRobin, SampleLimit: 2}, moves)
	c.control.NextIterOutput()
	c.control.NextIterOutput()
	assert.Equal(t, StatusSampleLimit, c.CheckStop())
}

func TestBAICheckStopOneArmRemaining(t *testing.T) {
	moves := []*Move{{Type: MoveTypePass}, {Type: MoveTypeExchange}}
	c, results := newTestController(BAIControllerConfig{Rule: RoundRobin}, moves)
	results.Plays[0].Ignored = true
	assert.Equal(t, StatusOneArmRemaining, c.CheckStop())
}

func TestZQuantile(t *testing.T) {
	assert.InDelta(t, 1.959964, zQuantile(0.95), 1e-4)
}
