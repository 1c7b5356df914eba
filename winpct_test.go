// winpct_test.go
// Copyright (C) 2026 Kjell Haugen
// This file contains tests for winpct.go

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

func TestWinPctTableClamping(t *testing.T) {
	table := NewWinPctTable(-10, 10, 5, func(spread, unseen int) float32 {
		return float32(spread)
	})
	assert.Equal(t, float32(-10), table.Get(-100, 0))
	assert.Equal(t, float32(10), table.Get(100, 0))
	assert.Equal(t, float32(0), table.Get(0, -5))
	assert.Equal(t, float32(0), table.Get(0, 50))
}

func TestDefaultWinPctTableMonotonic(t *testing.T) {
	table := DefaultWinPctTable()
	assert.InDelta(t, 0.5, table.Get(0, 20), 0.001)
	assert.Greater(t, table.Get(50, 20), table.Get(0, 20))
	assert.Less(t, table.Get(-50, 20), table.Get(0, 20))
}

func TestWinPctRoundTrip(t *testing.T) {
	orig := NewWinPctTable(-3, 3, 2, func(spread, unseen int) float32 {
		return float32(spread) + float32(unseen)*0.1
	})
	data := orig.Bytes()
	loaded, err := WinPctFromBytes(data)
	assert.NoError(t, err)
	assert.Equal(t, orig.MinSpread, loaded.MinSpread)
	assert.Equal(t, orig.MaxSpread, loaded.MaxSpread)
	assert.Equal(t, orig.MaxUnseen, loaded.MaxUnseen)
	for u := 0; u <= orig.MaxUnseen; u++ {
		for s := orig.MinSpread; s <= orig.MaxSpread; s++ {
			assert.Equal(t, orig.Get(s, u), loaded.Get(s, u))
		}
	}
}

func TestWinPctFromBytesTruncated(t *testing.T) {
	_, err := WinPctFromBytes([]byte{1, 2, 3})
	assert.Error(t, err)
	var ee *EngineError
	assert.ErrorAs(t, err, &ee)
	assert.Equal(t, ErrIO, ee.Code)
}
