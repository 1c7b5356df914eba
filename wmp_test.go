// wmp_test.go
// Copyright (C) 2026 Kjell Haugen
// This file contains tests for wmp.go

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

func wmpWords(t *testing.T, ld *LetterDistribution, ss ...string) [][]MachineLetter {
	t.Helper()
	out := make([][]MachineLetter, len(ss))
	for i, s := range ss {
		out[i] = toMachineLetters(t, ld, s)
	}
	return out
}

func TestBuildWMPLookupWordFindsAnagram(t *testing.T) {
	ld := EnglishLetterDistribution()
	wmp := BuildWMP(15, map[int][][]MachineLetter{
		3: wmpWords(t, ld, "CAT", "DOG"),
	})

	key := rackFromLetters(toMachineLetters(t, ld, "TAC"))
	word, ok := wmp.LookupWord(3, key)
	assert.True(t, ok)
	assert.Equal(t, toMachineLetters(t, ld, "CAT"), word)
}

func TestBuildWMPLookupWordMissingReturnsFalse(t *testing.T) {
	ld := EnglishLetterDistribution()
	wmp := BuildWMP(15, map[int][][]MachineLetter{
		3: wmpWords(t, ld, "CAT"),
	})

	key := rackFromLetters(toMachineLetters(t, ld, "DOG"))
	_, ok := wmp.LookupWord(3, key)
	assert.False(t, ok)
}

func TestBuildWMPLookupWordLongWordUsesSideLetters(t *testing.T) {
	ld := EnglishLetterDistribution()
	long := "ABCDEFGHI" // 9 letters, exceeds the 8-byte inline payload
	wmp := BuildWMP(15, map[int][][]MachineLetter{
		9: wmpWords(t, ld, long),
	})

	key := rackFromLetters(toMachineLetters(t, ld, long))
	word, ok := wmp.LookupWord(9, key)
	assert.True(t, ok)
	assert.Equal(t, toMachineLetters(t, ld, long), word)
}

func TestBuildWMPLookupSingleBlankReturnsCompletingLetters(t *testing.T) {
	ld := EnglishLetterDistribution()
	wmp := BuildWMP(15, map[int][][]MachineLetter{
		3: wmpWords(t, ld, "CAT"),
	})

	// rack "AT" plus one blank should complete to CAT (blank stands for C).
	key := rackFromLetters(toMachineLetters(t, ld, "AT"))
	mask, ok := wmp.LookupSingleBlank(3, key)
	assert.True(t, ok)

	c, _ := ld.MachineLetterForRune('C')
	assert.NotEqual(t, uint32(0), mask&(1<<uint(c)))
}

func TestBuildWMPLookupDoubleBlankReturnsCompletingPairs(t *testing.T) {
	ld := EnglishLetterDistribution()
	wmp := BuildWMP(15, map[int][][]MachineLetter{
		3: wmpWords(t, ld, "CAT"),
	})

	// rack "T" plus two blanks should complete to CAT via the pair (A, C).
	key := rackFromLetters(toMachineLetters(t, ld, "T"))
	pairs, ok := wmp.LookupDoubleBlank(3, key)
	assert.True(t, ok)
	assert.Len(t, pairs, 1)

	a, _ := ld.MachineLetterForRune('A')
	c, _ := ld.MachineLetterForRune('C')
	want := [2]MachineLetter{a, c}
	if want[0] > want[1] {
		want[0], want[1] = want[1], want[0]
	}
	assert.Equal(t, want, pairs[0])
}

func TestBuildWMPIgnoresWordsOutsideLengthRange(t *testing.T) {
	wmp := BuildWMP(15, map[int][][]MachineLetter{
		1: {{1}},
	})
	_, ok := wmp.sections[1]
	assert.False(t, ok)
}

func TestWMPFromBytesRejectsShortData(t *testing.T) {
	_, err := WMPFromBytes([]byte{1, 2, 3}, 15)
	assert.Error(t, err)
}

func TestBuildWMPLookupAnagramsReturnsWholeClass(t *testing.T) {
	ld := EnglishLetterDistribution()
	wmp := BuildWMP(15, map[int][][]MachineLetter{
		3: wmpWords(t, ld, "CAT", "ACT", "DOG"),
	})

	key := rackFromLetters(toMachineLetters(t, ld, "TCA"))
	words, ok := wmp.LookupAnagrams(3, key)
	assert.True(t, ok)
	assert.ElementsMatch(t, wmpWords(t, ld, "CAT", "ACT"), words)
}

func TestWMPBytesRoundTrip(t *testing.T) {
	ld := EnglishLetterDistribution()
	wmp := BuildWMP(15, map[int][][]MachineLetter{
		3: wmpWords(t, ld, "CAT", "ACT"),
		9: wmpWords(t, ld, "ABCDEFGHI"),
	})

	got, err := WMPFromBytes(wmp.Bytes(), 15)
	assert.NoError(t, err)

	key := rackFromLetters(toMachineLetters(t, ld, "TCA"))
	words, ok := got.LookupAnagrams(3, key)
	assert.True(t, ok)
	assert.ElementsMatch(t, wmpWords(t, ld, "CAT", "ACT"), words)

	mask, ok := got.LookupSingleBlank(3, rackFromLetters(toMachineLetters(t, ld, "AT")))
	assert.True(t, ok)
	c, _ := ld.MachineLetterForRune('C')
	assert.NotEqual(t, uint32(0), mask&(1<<uint(c)))

	longKey := rackFromLetters(toMachineLetters(t, ld, "ABCDEFGHI"))
	word, ok := got.LookupWord(9, longKey)
	assert.True(t, ok)
	assert.Equal(t, toMachineLetters(t, ld, "ABCDEFGHI"), word)

	pairs, ok := got.LookupDoubleBlank(3, rackFromLetters(toMachineLetters(t, ld, "T")))
	assert.True(t, ok)
	assert.NotEmpty(t, pairs)
}
