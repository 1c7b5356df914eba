// threadcontrol_test.go
// Copyright (C) 2026 Kjell Haugen
// This file contains tests for threadcontrol.go

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

func TestThreadControlStatusTransitions(t *testing.T) {
	tc := NewThreadControl(1, 4, 0)
	assert.Equal(t, StatusIdle, tc.Status())
	assert.False(t, tc.IsRunning())

	tc.SetStatus(StatusStarted)
	assert.True(t, tc.IsRunning())
	assert.False(t, tc.IsWindingDown())

	tc.SetStatus(StatusSampleLimit)
	assert.False(t, tc.IsRunning())
	assert.True(t, tc.IsWindingDown())
}

func TestThreadControlStopSetsExternalCancel(t *testing.T) {
	tc := NewThreadControl(1, 1, 0)
	tc.SetStatus(StatusStarted)
	tc.Stop()
	assert.Equal(t, StatusExternalCancel, tc.Status())
}

func TestThreadControlNextIterOutputIncrements(t *testing.T) {
	tc := NewThreadControl(5, 1, 0)
	first := tc.NextIterOutput()
	second := tc.NextIterOutput()
	assert.Equal(t, uint64(1), first.IterCount)
	assert.Equal(t, uint64(2), second.IterCount)
	assert.NotEqual(t, first.Seed, second.Seed)
	assert.Equal(t, uint64(2), tc.IterCount())
}

func TestThreadControlCompleteIterPrintCadence(t *testing.T) {
	tc := NewThreadControl(1, 1, 3)
	for i := 0; i < 2; i++ {
		out := tc.CompleteIter()
		assert.False(t, out.PrintInfo)
	}
	out := tc.CompleteIter()
	assert.True(t, out.PrintInfo)
	assert.Equal(t, uint64(3), tc.CompletedCount())
}

func TestThreadControlReset(t *testing.T) {
	tc := NewThreadControl(1, 1, 0)
	tc.SetStatus(StatusStarted)
	tc.NextIterOutput()
	tc.CompleteIter()

	tc.Reset()
	assert.Equal(t, StatusIdle, tc.Status())
	assert.Equal(t, uint64(0), tc.IterCount())
	assert.Equal(t, uint64(0), tc.CompletedCount())
}

func TestThreadControlThreads(t *testing.T) {
	tc := NewThreadControl(1, 8, 0)
	assert.Equal(t, 8, tc.Threads())
}

func TestThreadControlPrintSerializes(t *testing.T) {
	tc := NewThreadControl(1, 1, 0)
	called := false
	tc.Print(func() { called = true })
	assert.True(t, called)
}
