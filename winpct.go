// winpct.go
// Copyright (C) 2026 Kjell Haugen
// This file contains the win-percentage lookup table.

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
	"encoding/binary"
	"math"
)

// WinPctTable maps (spread + leftover leave value, unseen tile count) to a
// win probability in [0, 1], consulted at the end of every simulation
// rollout (spec.md §4.9 step 6). Unseen tiles are the tiles neither on the
// acting player's rack nor yet played: opponent's rack plus the bag.
type WinPctTable struct {
	MinSpread int
	MaxSpread int
	MaxUnseen int
	// values[unseen][spread-MinSpread] is the win probability.
	values [][]float32
}

// NewWinPctTable builds a table over spread in [minSpread, maxSpread] and
// unseen tile counts in [0, maxUnseen], using fn to fill every cell.
func NewWinPctTable(minSpread, maxSpread, maxUnseen int, fn func(spread, unseen int) float32) *WinPctTable {
	t := &WinPctTable{MinSpread: minSpread, MaxSpread: maxSpread, MaxUnseen: maxUnseen}
	width := maxSpread - minSpread + 1
	t.values = make([][]float32, maxUnseen+1)
	for u := 0; u <= maxUnseen; u++ {
		row := make([]float32, width)
		for s := minSpread; s <= maxSpread; s++ {
			row[s-minSpread] = fn(s, u)
		}
		t.values[u] = row
	}
	return t
}

// DefaultWinPctTable builds a logistic-shaped table: a spread of zero is a
// coin flip, and the curve flattens as more tiles remain unseen (a large
// lead is less safe early in the game, when a comeback has more room).
func DefaultWinPctTable() *WinPctTable {
	const minSpread, maxSpread, maxUnseen = -200, 200, 100
	return NewWinPctTable(minSpread, maxSpread, maxUnseen, func(spread, unseen int) float32 {
		scale := 8.0 + float64(unseen)*0.35
		x := float64(spread) / scale
		return float32(1.0 / (1.0 + math.Exp(-x)))
	})
}

// Get returns the win probability for spreadPlusLeftover and unseenTiles,
// clamping both into the table's range.
func (t *WinPctTable) Get(spreadPlusLeftover, unseenTiles int) float32 {
	s := spreadPlusLeftover
	if s < t.MinSpread {
		s = t.MinSpread
	}
	if s > t.MaxSpread {
		s = t.MaxSpread
	}
	u := unseenTiles
	if u < 0 {
		u = 0
	}
	if u > t.MaxUnseen {
		u = t.MaxUnseen
	}
	return t.values[u][s-t.MinSpread]
}

// WinPctFromBytes parses a little-endian table: u32 minSpread (as a signed
// value stored via its bit pattern), u32 maxSpread, u32 maxUnseen, then
// (maxUnseen+1)*(maxSpread-minSpread+1) float32 cells in unseen-major order.
func WinPctFromBytes(data []byte) (*WinPctTable, error) {
	if len(data) < 12 {
		return nil, newErr(ErrIO, "win-pct data too short")
	}
	minSpread := int(int32(binary.LittleEndian.Uint32(data[0:])))
	maxSpread := int(int32(binary.LittleEndian.Uint32(data[4:])))
	maxUnseen := int(int32(binary.LittleEndian.Uint32(data[8:])))
	width := maxSpread - minSpread + 1
	need := 12 + (maxUnseen+1)*width*4
	if len(data) < need {
		return nil, newErr(ErrIO, "win-pct data truncated: need at least %d bytes", need)
	}
	t := &WinPctTable{MinSpread: minSpread, MaxSpread: maxSpread, MaxUnseen: maxUnseen}
	t.values = make([][]float32, maxUnseen+1)
	pos := 12
	for u := 0; u <= maxUnseen; u++ {
		row := make([]float32, width)
		for s := 0; s < width; s++ {
			row[s] = math.Float32frombits(binary.LittleEndian.Uint32(data[pos:]))
			pos += 4
		}
		t.values[u] = row
	}
	return t, nil
}

// Bytes serializes the table back to the format WinPctFromBytes parses.
func (t *WinPctTable) Bytes() []byte {
	width := t.MaxSpread - t.MinSpread + 1
	out := make([]byte, 12+(t.MaxUnseen+1)*width*4)
	binary.LittleEndian.PutUint32(out[0:], uint32(int32(t.MinSpread)))
	binary.LittleEndian.PutUint32(out[4:], uint32(int32(t.MaxSpread)))
	binary.LittleEndian.PutUint32(out[8:], uint32(int32(t.MaxUnseen)))
	pos := 12
	for u := 0; u <= t.MaxUnseen; u++ {
		for _, v := range t.values[u] {
			binary.LittleEndian.PutUint32(out[pos:], math.Float32bits(v))
			pos += 4
		}
	}
	return out
}
