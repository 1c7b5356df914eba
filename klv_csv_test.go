// klv_csv_test.go
// Copyright (C) 2026 Kjell Haugen
// This file contains tests for klv_csv.go

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

func TestParseLeaveCSVParsesRows(t *testing.T) {
	ld := EnglishLetterDistribution()
	rows, err := ParseLeaveCSV(ld, "E,2.5\nQZ,-13.4\n", 7)
	assert.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, "E", rows[0].Rack)
	assert.InDelta(t, 2.5, rows[0].Value, 1e-9)
	assert.Equal(t, "QZ", rows[1].Rack)
	assert.InDelta(t, -13.4, rows[1].Value, 1e-9)
}

func TestParseLeaveCSVSkipsBlankLines(t *testing.T) {
	ld := EnglishLetterDistribution()
	rows, err := ParseLeaveCSV(ld, "E,2.5\n\nA,1.0\n", 7)
	assert.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestParseLeaveCSVRejectsMissingComma(t *testing.T) {
	ld := EnglishLetterDistribution()
	_, err := ParseLeaveCSV(ld, "E2.5\n", 7)
	assert.Error(t, err)
}

func TestParseLeaveCSVRejectsRackTooLong(t *testing.T) {
	ld := EnglishLetterDistribution()
	_, err := ParseLeaveCSV(ld, "ABCDEFG,1.0\n", 7) // 7 letters, rackSize-1 = 6
	assert.Error(t, err)
}

func TestParseLeaveCSVRejectsUnknownLetter(t *testing.T) {
	ld := EnglishLetterDistribution()
	_, err := ParseLeaveCSV(ld, "E1,1.0\n", 7)
	assert.Error(t, err)
}

func TestParseLeaveCSVRejectsDuplicateAnagram(t *testing.T) {
	ld := EnglishLetterDistribution()
	_, err := ParseLeaveCSV(ld, "AT,1.0\nTA,2.0\n", 7)
	assert.Error(t, err)
}

func TestWriteLeaveCSVRoundTrips(t *testing.T) {
	ld := EnglishLetterDistribution()
	rows := []LeaveRow{{Rack: "E", Value: 2.5}, {Rack: "QZ", Value: -13.4}}
	out := WriteLeaveCSV(rows)
	reparsed, err := ParseLeaveCSV(ld, out, 7)
	assert.NoError(t, err)
	assert.Equal(t, rows, reparsed)
}

func TestBuildKLVFromRowsAssignsValuesByCanonicalRack(t *testing.T) {
	ld := EnglishLetterDistribution()
	rows, err := ParseLeaveCSV(ld, "E,2.5\nAT,1.0\nQZ,-13.4\n", 7)
	assert.NoError(t, err)

	klv, err := BuildKLVFromRows(ld, rows)
	assert.NoError(t, err)

	ta, err := RackFromString(ld, "TA")
	assert.NoError(t, err)
	assert.InDelta(t, 1.0, klv.LeaveValue(ta), 1e-6)

	qz, err := RackFromString(ld, "ZQ")
	assert.NoError(t, err)
	assert.InDelta(t, -13.4, klv.LeaveValue(qz), 1e-6)
}

func TestBuildKLVFromRowsEmptyRowsYieldsEmptyTable(t *testing.T) {
	ld := EnglishLetterDistribution()
	klv, err := BuildKLVFromRows(ld, nil)
	assert.NoError(t, err)
	assert.Equal(t, uint32(0), klv.Graph.RootDawg())

	e, err := RackFromString(ld, "E")
	assert.NoError(t, err)
	assert.Equal(t, float32(0), klv.LeaveValue(e))
}
