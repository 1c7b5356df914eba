// rack_test.go
// Copyright (C) 2026 Kjell Haugen
// This file contains tests for rack.go

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

func TestRackAddTakeHas(t *testing.T) {
	ld := EnglishLetterDistribution()
	r := NewRack(ld)
	a, err := ld.MachineLetterForRune('A')
	assert.NoError(t, err)

	r.Add(a)
	r.Add(a)
	assert.Equal(t, 2, r.Total)
	assert.True(t, r.Has(a, 2))
	assert.False(t, r.Has(a, 3))

	r.Take(a)
	assert.Equal(t, 1, r.Total)
	assert.True(t, r.Has(a, 1))
}

func TestRackFromStringAndString(t *testing.T) {
	ld := EnglishLetterDistribution()
	r, err := RackFromString(ld, "CAT")
	assert.NoError(t, err)
	assert.Equal(t, 3, r.Total)
	assert.ElementsMatch(t, []rune("CAT"), []rune(r.String(ld)))
}

func TestRackFromStringInvalidLetter(t *testing.T) {
	ld := EnglishLetterDistribution()
	_, err := RackFromString(ld, "C1T")
	assert.Error(t, err)
}

func TestRackBlankRendersLast(t *testing.T) {
	ld := EnglishLetterDistribution()
	r, err := RackFromString(ld, "A?")
	assert.NoError(t, err)
	assert.Equal(t, "A?", r.String(ld))
}

func TestRackCloneIsIndependent(t *testing.T) {
	ld := EnglishLetterDistribution()
	r, err := RackFromString(ld, "AT")
	assert.NoError(t, err)
	clone := r.Clone()
	a, _ := ld.MachineLetterForRune('A')
	clone.Take(a)
	assert.Equal(t, 2, r.Total)
	assert.Equal(t, 1, clone.Total)
}

func TestRackSubtract(t *testing.T) {
	ld := EnglishLetterDistribution()
	r, err := RackFromString(ld, "CATS")
	assert.NoError(t, err)
	other, err := RackFromString(ld, "AT")
	assert.NoError(t, err)

	r.Subtract(other)
	assert.Equal(t, 2, r.Total)
	assert.False(t, r.IsEmpty())

	r.Subtract(r.Clone())
	assert.True(t, r.IsEmpty())
}
