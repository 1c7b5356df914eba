// alphabet_test.go
// Copyright (C) 2026 Kjell Haugen
// This file contains tests for alphabet.go

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

func TestMachineLetterBlankRoundTrip(t *testing.T) {
	ld := EnglishLetterDistribution()
	a, err := ld.MachineLetterForRune('A')
	assert.NoError(t, err)

	blanked := a | BlankMask
	assert.True(t, blanked.IsBlanked())
	assert.Equal(t, a, blanked.Unblank())
	assert.False(t, a.IsBlanked())
}

func TestMachineLetterForRuneUnknown(t *testing.T) {
	ld := EnglishLetterDistribution()
	_, err := ld.MachineLetterForRune('1')
	assert.Error(t, err)
	var ee *EngineError
	assert.ErrorAs(t, err, &ee)
	assert.Equal(t, ErrInvalidLetter, ee.Code)
}

func TestRuneForMachineLetterBlankedIsLowercase(t *testing.T) {
	ld := EnglishLetterDistribution()
	a, err := ld.MachineLetterForRune('A')
	assert.NoError(t, err)
	assert.Equal(t, 'a', ld.RuneForMachineLetter(a|BlankMask))
	assert.Equal(t, 'A', ld.RuneForMachineLetter(a))
}

func TestScoreBlankedIsZero(t *testing.T) {
	ld := EnglishLetterDistribution()
	a, err := ld.MachineLetterForRune('A')
	assert.NoError(t, err)
	assert.Equal(t, 1, ld.Score(a))
	assert.Equal(t, 0, ld.Score(a|BlankMask))
}

func TestDescendingScoreOrderIsSorted(t *testing.T) {
	ld := EnglishLetterDistribution()
	order := ld.DescendingScoreOrder()
	assert.Len(t, order, ld.Size())
	for i := 1; i < len(order); i++ {
		assert.GreaterOrEqual(t, ld.Scores[order[i-1]], ld.Scores[order[i]])
	}
}

func TestTotalTilesMatchesStandardSet(t *testing.T) {
	ld := EnglishLetterDistribution()
	assert.Equal(t, 100, ld.TotalTiles())
}

func TestNewLetterDistributionRejectsMismatchedLengths(t *testing.T) {
	_, err := NewLetterDistribution([]rune{'?', 'A'}, []int{1}, []int{0, 1})
	assert.Error(t, err)
	var ee *EngineError
	assert.ErrorAs(t, err, &ee)
	assert.Equal(t, ErrIO, ee.Code)
}

func TestNewLetterDistributionRejectsOversizedAlphabet(t *testing.T) {
	letters := make([]rune, MaxAlphabetSize+2)
	counts := make([]int, MaxAlphabetSize+2)
	scores := make([]int, MaxAlphabetSize+2)
	for i := range letters {
		letters[i] = rune('a' + i)
	}
	_, err := NewLetterDistribution(letters, counts, scores)
	assert.Error(t, err)
	var ee *EngineError
	assert.ErrorAs(t, err, &ee)
	assert.Equal(t, ErrIncompatibleLD, ee.Code)
}
