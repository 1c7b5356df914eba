// simresults_test.go
// Copyright (C) 2026 Kjell Haugen
// This file contains tests for simresults.go

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
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatMeanVariance(t *testing.T) {
	var s Stat
	for _, x := range []float64{2, 4, 4, 4, 5, 5, 7, 9} {
		s.Push(x)
	}
	assert.Equal(t, 8, s.N())
	assert.InDelta(t, 5.0, s.Mean(), 1e-9)
	assert.InDelta(t, 4.571428571, s.Variance(), 1e-6)
}

func TestStatEmpty(t *testing.T) {
	var s Stat
	assert.Equal(t, 0.0, s.Mean())
	assert.Equal(t, 0.0, s.Variance())
	assert.Equal(t, 0.0, s.Stderr())
}

func TestSimmedPlayRecordFinalConcurrent(t *testing.T) {
	ld := EnglishLetterDistribution()
	m := &Move{Type: MoveTypePass}
	_ = ld
	sp := NewSimmedPlay(m, 2)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sp.RecordFinal(float64(i), 0, 0.5)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 100, sp.Samples())
}

func TestSimResultsSortByWinPct(t *testing.T) {
	ld := EnglishLetterDistribution()
	moveA := &Move{Type: MoveTypePass}
	moveB := &Move{Type: MoveTypeExchange}
	sr := NewSimResults(1, []*Move{moveA, moveB})

	sr.Plays[0].RecordFinal(10, 0, 0.3)
	sr.Plays[1].RecordFinal(20, 0, 0.8)

	sr.SortByWinPct(ld)
	best := sr.Best()
	assert.Same(t, moveB, best.Move)
}

func TestSimResultsAtomicCounters(t *testing.T) {
	sr := NewSimResults(1, nil)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sr.AddNodes(1)
			sr.AddIteration()
		}()
	}
	wg.Wait()
	assert.Equal(t, uint64(50), sr.NodeCount())
	assert.Equal(t, uint64(50), sr.IterationCount())
}
