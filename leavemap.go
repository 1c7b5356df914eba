// leavemap.go
// Copyright (C) 2026 Kjell Haugen
// This file contains the LeaveMap, the incremental KLV index the
// move generator maintains while tiles move on and off the rack.

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

// leaveMapState is a snapshot of the leave map's position in the KLV graph:
// the current DAWG node, the running cumulative word index, and whether
// the node reached by the last letter accepts (distinguishing "no leave
// value here" from "index is genuinely 0").
type leaveMapState struct {
	node           uint32
	index          uint32
	any            bool
	lastAccepting  uint32
	hasAccepted    bool
}

// LeaveMap lets the move generator maintain a running KLV index as tiles
// move between the working rack and the strip, per spec.md §4.5. It caches
// the current KLV walk state and a stack of prior states, so TakeLetter
// followed by the matching AddLetter restores the map to its exact prior
// state in O(1) (a stack pop), satisfying the contract in spec.md §4.5.
type LeaveMap struct {
	klv   *KLV
	stack []leaveMapState
	cur   leaveMapState
}

// NewLeaveMap builds a leave map for klv, initialized against the full
// starting rack (the leave before any tiles have been placed).
func NewLeaveMap(klv *KLV, rack *Rack) *LeaveMap {
	lm := &LeaveMap{klv: klv}
	lm.cur = lm.computeState(rack)
	return lm
}

// computeState walks the KLV DAWG in canonical letter order over rack,
// mirroring KLV.LeaveValue's traversal, and returns the resulting state.
func (lm *LeaveMap) computeState(rack *Rack) leaveMapState {
	if lm.klv == nil || rack.IsEmpty() {
		return leaveMapState{}
	}
	st := leaveMapState{node: lm.klv.Graph.RootDawg()}
	for ml := 1; ml < len(rack.Counts); ml++ {
		n := rack.Counts[ml]
		for i := 0; i < n; i++ {
			if st.node == 0 {
				return leaveMapState{}
			}
			st.index += lm.klv.countBeforeTile(st.node, MachineLetter(ml))
			sib := lm.klv.findSibling(st.node, MachineLetter(ml))
			if sib == 0 {
				return leaveMapState{}
			}
			st.any = true
			if kwgNode(lm.klv.Graph.Node(sib)).accepts() {
				st.lastAccepting = st.index
				st.hasAccepted = true
				st.index++
			} else {
				st.hasAccepted = false
			}
			st.node = kwgNode(lm.klv.Graph.Node(sib)).arcIndex()
		}
	}
	return st
}

// TakeLetter removes ml from rack (the caller's working rack, already
// mutated) and recomputes the leave map's position, pushing the prior
// state so AddLetter can restore it.
func (lm *LeaveMap) TakeLetter(rack *Rack) {
	lm.stack = append(lm.stack, lm.cur)
	lm.cur = lm.computeState(rack)
}

// AddLetter restores the leave map to the state it held before the most
// recent TakeLetter, in O(1).
func (lm *LeaveMap) AddLetter() {
	n := len(lm.stack)
	if n == 0 {
		return
	}
	lm.cur = lm.stack[n-1]
	lm.stack = lm.stack[:n-1]
}

// Value returns the KLV equity delta for the current leave position.
func (lm *LeaveMap) Value() float32 {
	if lm.klv == nil || !lm.cur.hasAccepted {
		return 0
	}
	if int(lm.cur.lastAccepting) >= len(lm.klv.Values) {
		return 0
	}
	return lm.klv.Values[lm.cur.lastAccepting]
}
