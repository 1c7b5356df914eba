// rack.go
// Copyright (C) 2026 Kjell Haugen
// This file contains the Rack, a per-tile count vector.

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

// Rack is a per-machine-letter count vector with a cached total, generalized
// from the teacher's rune-keyed map[rune]int to a slice indexed by
// MachineLetter, sized to the letter distribution's alphabet (index 0 being
// the blank).
type Rack struct {
	Counts []int
	Total  int
}

// NewRack returns an empty rack sized for ld's alphabet.
func NewRack(ld *LetterDistribution) *Rack {
	return &Rack{Counts: make([]int, len(ld.Letters))}
}

// Clone returns an independent copy of the rack.
func (r *Rack) Clone() *Rack {
	return &Rack{Counts: append([]int(nil), r.Counts...), Total: r.Total}
}

// Add places one copy of ml on the rack, maintaining the cached total.
func (r *Rack) Add(ml MachineLetter) {
	r.Counts[ml]++
	r.Total++
}

// AddCount places n copies of ml on the rack.
func (r *Rack) AddCount(ml MachineLetter, n int) {
	r.Counts[ml] += n
	r.Total += n
}

// Take removes one copy of ml from the rack. The caller must ensure the
// rack holds at least one.
func (r *Rack) Take(ml MachineLetter) {
	r.Counts[ml]--
	r.Total--
}

// Has reports whether the rack holds at least n copies of ml.
func (r *Rack) Has(ml MachineLetter, n int) bool {
	return r.Counts[ml] >= n
}

// Subtract removes every tile in other from r. other must be a sub-multiset
// of r; violating this corrupts the cached total.
func (r *Rack) Subtract(other *Rack) {
	for ml, c := range other.Counts {
		r.Counts[ml] -= c
		r.Total -= c
	}
}

// IsEmpty reports whether the rack holds no tiles.
func (r *Rack) IsEmpty() bool {
	return r.Total == 0
}

// String renders the rack using ld's display runes, blanks last, matching
// the teacher's canonical-order rendering in rack.go.
func (r *Rack) String(ld *LetterDistribution) string {
	out := make([]rune, 0, r.Total)
	for ml := 1; ml < len(r.Counts); ml++ {
		for i := 0; i < r.Counts[ml]; i++ {
			out = append(out, ld.RuneForMachineLetter(MachineLetter(ml)))
		}
	}
	for i := 0; i < r.Counts[0]; i++ {
		out = append(out, ld.RuneForMachineLetter(0))
	}
	return string(out)
}

// RackFromString builds a rack from a human-readable letter string using
// ld's alphabet ('?' for blank).
func RackFromString(ld *LetterDistribution, s string) (*Rack, error) {
	r := NewRack(ld)
	for _, ch := range s {
		ml, err := ld.MachineLetterForRune(ch)
		if err != nil {
			return nil, err
		}
		r.Add(ml)
	}
	return r, nil
}
