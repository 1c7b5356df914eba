// bag.go
// Copyright (C) 2026 Kjell Haugen
// This file contains the Bag of undrawn tiles.

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

import "math/rand"

// Bag holds the undrawn tiles, generalized from the teacher's rune-keyed
// bag.go to machine-letters. Draws use a PRNG seeded per simulation
// iteration by ThreadControl, per spec.md §4.9 step 2.
type Bag struct {
	tiles []MachineLetter
	rng   *rand.Rand
}

// NewBag returns a full bag for ld, in a fixed (unshuffled) canonical
// order; callers that need randomness call Shuffle with a seed.
func NewBag(ld *LetterDistribution) *Bag {
	var tiles []MachineLetter
	for ml, count := range ld.Counts {
		for i := 0; i < count; i++ {
			tiles = append(tiles, MachineLetter(ml))
		}
	}
	return &Bag{tiles: tiles, rng: rand.New(rand.NewSource(1))}
}

// Clone returns an independent copy of the bag (used when duplicating the
// game for a simulation rollout).
func (b *Bag) Clone() *Bag {
	return &Bag{tiles: append([]MachineLetter(nil), b.tiles...), rng: b.rng}
}

// Seed reseeds the bag's PRNG, deterministically permuting subsequent
// Shuffle/Draw calls — the per-iteration seed from ThreadControl.
func (b *Bag) Seed(seed int64) {
	b.rng = rand.New(rand.NewSource(seed))
}

// Shuffle randomly permutes the remaining tiles using the bag's PRNG.
func (b *Bag) Shuffle() {
	b.rng.Shuffle(len(b.tiles), func(i, j int) {
		b.tiles[i], b.tiles[j] = b.tiles[j], b.tiles[i]
	})
}

// Count returns the number of tiles remaining in the bag.
func (b *Bag) Count() int {
	return len(b.tiles)
}

// Draw removes and returns up to n tiles from the end of the bag (the bag
// should already be shuffled for this to be a fair draw).
func (b *Bag) Draw(n int) []MachineLetter {
	if n > len(b.tiles) {
		n = len(b.tiles)
	}
	drawn := append([]MachineLetter(nil), b.tiles[len(b.tiles)-n:]...)
	b.tiles = b.tiles[:len(b.tiles)-n]
	return drawn
}

// Return places tiles back into the bag (used when returning an opponent's
// known rack before dealing a fresh one, per spec.md §4.9 step 3).
func (b *Bag) Return(tiles []MachineLetter) {
	b.tiles = append(b.tiles, tiles...)
}

// RemoveKnown removes specific tiles from the bag (used when the simulation
// places a known opponent rack). Returns false if the bag doesn't contain
// enough of some tile.
func (b *Bag) RemoveKnown(tiles []MachineLetter) bool {
	remaining := append([]MachineLetter(nil), b.tiles...)
	for _, t := range tiles {
		found := -1
		for i, x := range remaining {
			if x == t {
				found = i
				break
			}
		}
		if found == -1 {
			return false
		}
		remaining = append(remaining[:found], remaining[found+1:]...)
	}
	b.tiles = remaining
	return true
}
