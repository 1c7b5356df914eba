// alphabet.go
// Copyright (C) 2026 Kjell Haugen
// This file contains the tile alphabet and the
// LetterDistribution mapping letters to scores and bag counts.

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
	"sort"

	"github.com/op/go-logging"
)

var logAlphabet = logging.MustGetLogger("skrafl/alphabet")

// MachineLetter is the engine's internal tile representation: 0 is the
// undesignated blank, 1..N are real tiles. A blank played as tile t on the
// board is represented in its "blanked" form, t|BlankMask. Cross-set bits are
// always indexed by the unblanked letter; the blank itself sets bit 0.
type MachineLetter uint8

// BlankMask flags a MachineLetter as a blank standing in for another letter.
// The alphabet is capped at 31 real tiles plus blank (spec's bit-rack width),
// so 5 bits suffice for the unblanked value and the mask sits above them.
const BlankMask MachineLetter = 0x80

// Unblank strips the blank-designation bit, returning the letter the blank
// is standing in for (or 0 if it's the plain undesignated blank).
func (ml MachineLetter) Unblank() MachineLetter {
	return ml &^ BlankMask
}

// IsBlanked reports whether ml is a blank designated as some letter.
func (ml MachineLetter) IsBlanked() bool {
	return ml&BlankMask != 0
}

// MaxAlphabetSize is the largest number of distinct tiles (excluding blank)
// the bit-rack's 32 four-bit lanes can address, per spec.md's non-goal of
// supporting alphabets beyond this.
const MaxAlphabetSize = 31

// LetterDistribution is immutable after Load. It holds the alphabet, each
// tile's bag count and face score, and a permutation of machine-letters in
// descending score order (used by shadow pruning's best-case assignment).
type LetterDistribution struct {
	// Letters holds the human-readable rune for each machine letter index
	// (index 0 is the blank's display rune, typically '?').
	Letters []rune
	// Counts holds the number of copies of each tile in a full bag.
	Counts []int
	// Scores holds the face value of each tile (Scores[0], the blank, is 0).
	Scores []int
	// byRune maps a human letter back to its machine-letter index.
	byRune map[rune]MachineLetter
	// descByScore lists machine-letters 1..N sorted by descending score,
	// ties broken by ascending machine-letter index for determinism.
	descByScore []MachineLetter
}

// Size returns the number of distinct tiles, excluding the blank.
func (ld *LetterDistribution) Size() int {
	return len(ld.Letters) - 1
}

// NewLetterDistribution builds an LD from parallel rune/count/score slices.
// letters[0] must be the blank's display rune (conventionally '?').
func NewLetterDistribution(letters []rune, counts []int, scores []int) (*LetterDistribution, error) {
	if len(letters) != len(counts) || len(letters) != len(scores) {
		return nil, newErr(ErrIO, "letter distribution arrays must be equal length")
	}
	if len(letters)-1 > MaxAlphabetSize {
		return nil, newErr(ErrIncompatibleLD, "alphabet size %d exceeds bit-rack width", len(letters)-1)
	}
	ld := &LetterDistribution{
		Letters: append([]rune(nil), letters...),
		Counts:  append([]int(nil), counts...),
		Scores:  append([]int(nil), scores...),
		byRune:  make(map[rune]MachineLetter, len(letters)),
	}
	for i, r := range ld.Letters {
		ld.byRune[r] = MachineLetter(i)
	}
	desc := make([]MachineLetter, 0, ld.Size())
	for i := 1; i < len(ld.Letters); i++ {
		desc = append(desc, MachineLetter(i))
	}
	sort.SliceStable(desc, func(i, j int) bool {
		return ld.Scores[desc[i]] > ld.Scores[desc[j]]
	})
	ld.descByScore = desc
	logAlphabet.Debugf("built letter distribution with %d tiles", ld.Size())
	return ld, nil
}

// MachineLetterForRune converts a human-readable rune to its machine letter.
// '?' maps to the undesignated blank (0). Returns ErrInvalidLetter when the
// rune is not in the alphabet.
func (ld *LetterDistribution) MachineLetterForRune(r rune) (MachineLetter, error) {
	if ml, ok := ld.byRune[r]; ok {
		return ml, nil
	}
	return 0, newErr(ErrInvalidLetter, "rune %q not in letter distribution", r)
}

// RuneForMachineLetter is the inverse of MachineLetterForRune. Blanked
// letters (bit 7 set) render as the lowercase form of the designated letter,
// matching the convention used by the teacher's tile rendering.
func (ld *LetterDistribution) RuneForMachineLetter(ml MachineLetter) rune {
	if ml.IsBlanked() {
		r := ld.Letters[ml.Unblank()]
		return toLower(r)
	}
	return ld.Letters[ml]
}

func toLower(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}

// Score returns the face value of ml (a blanked letter always scores 0).
func (ld *LetterDistribution) Score(ml MachineLetter) int {
	if ml.IsBlanked() {
		return 0
	}
	return ld.Scores[ml]
}

// DescendingScoreOrder returns machine letters 1..N ordered by descending
// face score, used by the shadow pass's best-case tile/multiplier pairing.
func (ld *LetterDistribution) DescendingScoreOrder() []MachineLetter {
	return ld.descByScore
}

// TotalTiles returns the sum of all tile counts, the capacity of a full bag.
func (ld *LetterDistribution) TotalTiles() int {
	total := 0
	for _, c := range ld.Counts {
		total += c
	}
	return total
}

// EnglishLetterDistribution returns the standard English Scrabble tile set,
// mirroring the teacher's initTileSet table in bag.go but indexed by
// machine-letter instead of keyed by rune.
func EnglishLetterDistribution() *LetterDistribution {
	type tile struct {
		r     rune
		count int
		score int
	}
	tiles := []tile{
		{'?', 2, 0},
		{'A', 9, 1}, {'B', 2, 3}, {'C', 2, 3}, {'D', 4, 2}, {'E', 12, 1},
		{'F', 2, 4}, {'G', 3, 2}, {'H', 2, 4}, {'I', 9, 1}, {'J', 1, 8},
		{'K', 1, 5}, {'L', 4, 1}, {'M', 2, 3}, {'N', 6, 1}, {'O', 8, 1},
		{'P', 2, 3}, {'Q', 1, 10}, {'R', 6, 1}, {'S', 4, 1}, {'T', 6, 1},
		{'U', 4, 1}, {'V', 2, 4}, {'W', 2, 4}, {'X', 1, 8}, {'Y', 2, 4},
		{'Z', 1, 10},
	}
	letters := make([]rune, len(tiles))
	counts := make([]int, len(tiles))
	scores := make([]int, len(tiles))
	for i, t := range tiles {
		letters[i] = t.r
		counts[i] = t.count
		scores[i] = t.score
	}
	ld, err := NewLetterDistribution(letters, counts, scores)
	if err != nil {
		// The table above is a fixed constant, known-good at compile time.
		panic(err)
	}
	return ld
}
