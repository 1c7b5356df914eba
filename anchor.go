// anchor.go
// Copyright (C) 2026 Kjell Haugen
// This file contains the anchor heap ordered by shadow upper bound.

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

import "container/heap"

// Anchor is produced by the shadow pass and consumed by generation: a
// square from which to grow a play, paired with the bookkeeping needed to
// avoid generating the same play twice and the upper bound that lets
// generation stop early once the current best play's equity exceeds it.
type Anchor struct {
	Row, Col          int
	Dir               Direction
	LastAnchorCol     int
	Transposed        bool
	HighestPossibleEq float64
}

// AnchorHeap is a max-heap of anchors ordered descending by
// HighestPossibleEq, so the generator can stop consuming anchors as soon as
// the current best known equity exceeds the heap's maximum.
type AnchorHeap struct {
	items []Anchor
}

func NewAnchorHeap() *AnchorHeap {
	return &AnchorHeap{}
}

func (h *AnchorHeap) Len() int { return len(h.items) }
func (h *AnchorHeap) Less(i, j int) bool {
	return h.items[i].HighestPossibleEq > h.items[j].HighestPossibleEq
}
func (h *AnchorHeap) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }

func (h *AnchorHeap) Push(x any) {
	h.items = append(h.items, x.(Anchor))
}

func (h *AnchorHeap) Pop() any {
	n := len(h.items)
	item := h.items[n-1]
	h.items = h.items[:n-1]
	return item
}

// Add inserts an anchor, maintaining heap order.
func (h *AnchorHeap) Add(a Anchor) {
	heap.Push(h, a)
}

// PopMax removes and returns the anchor with the highest upper bound.
func (h *AnchorHeap) PopMax() (Anchor, bool) {
	if h.Len() == 0 {
		return Anchor{}, false
	}
	return heap.Pop(h).(Anchor), true
}

// PeekMax returns the current maximum without removing it.
func (h *AnchorHeap) PeekMax() (Anchor, bool) {
	if h.Len() == 0 {
		return Anchor{}, false
	}
	return h.items[0], true
}

// Reset empties the heap for reuse.
func (h *AnchorHeap) Reset() {
	h.items = h.items[:0]
}
