// staticeval.go
// Copyright (C) 2026 Kjell Haugen
// This file contains the static evaluator: equity as score plus
// leave value plus pre-endgame adjustment, and the shadow bounds.

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

import "sort"

// BestLeaves is indexed by number-of-letters-kept (0..RackSize) and holds
// the best known KLV value achievable with that many tiles remaining —
// populated by exchange generation (spec.md §4.5's "Exchanges" step) and
// consulted by the shadow pass as an upper bound on reachable leave value.
type BestLeaves []float64

// hardToPlayLetters is the static-equity formula's substitute for the
// source's empirical pre-endgame constants (an Open Question per spec.md
// §9: any formula is acceptable as long as equity stays a pure function of
// its inputs). It penalizes leaves holding low-playability tiles (Q, Z, V,
// X, J, the blank excepted) more heavily as the bag empties, since they
// become harder to play out before the game ends.
var hardToPlayLetters = map[rune]float64{
	'Q': 10, 'Z': 4, 'V': 4, 'X': 2, 'J': 2,
}

// Equity computes move.score + leave-value + pre-endgame-bag-penalty. leave
// is the player's rack after playing m; opp_rack may be nil if unknown.
// klv and bagTiles are the acting player's KLV and the bag's remaining
// count (used to scale the pre-endgame term).
func Equity(ld *LetterDistribution, klv *KLV, m *Move, leave *Rack, oppRack *Rack, bagTiles int) float64 {
	equity := float64(m.Score)
	if bagTiles == 0 || leave.IsEmpty() {
		return equity + preEndgamePenalty(ld, leave, bagTiles)
	}
	equity += float64(klv.LeaveValue(leave))
	equity += preEndgamePenalty(ld, leave, bagTiles)
	return equity
}

// preEndgamePenalty penalizes a leave holding hard-to-play tiles in
// proportion to how empty the bag is: at a full bag the penalty is zero
// (plenty of future draws to pair them with useful letters); it rises
// linearly as the bag nears empty, since being stuck with e.g. "QZ" at
// game end costs the most.
func preEndgamePenalty(ld *LetterDistribution, leave *Rack, bagTiles int) float64 {
	if leave == nil || leave.IsEmpty() {
		return 0
	}
	const preEndgameBagThreshold = 7
	if bagTiles > preEndgameBagThreshold {
		return 0
	}
	scarcity := float64(preEndgameBagThreshold-bagTiles) / float64(preEndgameBagThreshold)
	var penalty float64
	for ml, count := range leave.Counts {
		if count == 0 || ml == 0 {
			continue
		}
		r := ld.RuneForMachineLetter(MachineLetter(ml))
		if p, ok := hardToPlayLetters[r]; ok {
			penalty += p * float64(count) * scarcity
		}
	}
	return -penalty
}

// ShadowEquityUpperBound returns an upper bound on the leave contribution
// plus pre-endgame contribution for any play consuming exactly tilesPlayed
// tiles from a rack of rackSize tiles: the best recorded leave value for
// the resulting number of tiles kept, with no pre-endgame penalty assumed
// (penalties only ever reduce equity, so omitting them keeps this an upper
// bound).
func ShadowEquityUpperBound(bestLeaves BestLeaves, rackSize, tilesPlayed int) float64 {
	kept := rackSize - tilesPlayed
	if kept < 0 {
		kept = 0
	}
	if kept >= len(bestLeaves) {
		if len(bestLeaves) == 0 {
			return 0
		}
		kept = len(bestLeaves) - 1
	}
	return bestLeaves[kept]
}

// ShadowScoreBound computes the best-case tile-score assignment for a
// shadow pass: given the tiles available (by descending face score) and
// the effective multipliers accumulated at each position (by descending
// multiplier), pairs the highest score with the highest multiplier, per
// spec.md §4.5.
func ShadowScoreBound(scores []int, multipliers []int) int {
	s := append([]int(nil), scores...)
	m := append([]int(nil), multipliers...)
	sort.Sort(sort.Reverse(sort.IntSlice(s)))
	sort.Sort(sort.Reverse(sort.IntSlice(m)))
	n := len(s)
	if len(m) < n {
		n = len(m)
	}
	total := 0
	for i := 0; i < n; i++ {
		total += s[i] * m[i]
	}
	return total
}
