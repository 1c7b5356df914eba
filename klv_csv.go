// klv_csv.go
// Copyright (C) 2026 Kjell Haugen
// This file contains the human-readable leave CSV format and the
// KLV builder over parsed rows.

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
	"fmt"
	"strconv"
	"strings"
)

const maxLeaveCSVLineLength = 256

// LeaveRow is one parsed leave-CSV row: a rack and its equity value.
type LeaveRow struct {
	Rack  string
	Value float64
}

// ParseLeaveCSV parses the human-readable §6.4 format: each non-empty line
// is `<rack>,<value>`, rack letters drawn from ld's alphabet ('?' = blank).
// A rack longer than RackSize-1 is out of range and rejected as InvalidRow,
// per the original engine's klv_csv.c (supplementing spec.md's silence on
// this edge case).
func ParseLeaveCSV(ld *LetterDistribution, data string, rackSize int) ([]LeaveRow, error) {
	lines := strings.Split(data, "\n")
	seen := make(map[string]bool)
	var rows []LeaveRow
	for lineNo, line := range lines {
		if line == "" {
			continue
		}
		if len(line) > maxLeaveCSVLineLength {
			return nil, newErr(ErrLineExceedsMaxLength, "line %d length %d", lineNo+1, len(line))
		}
		idx := strings.LastIndexByte(line, ',')
		if idx < 0 {
			return nil, newErr(ErrInvalidRow, "line %d missing comma: %q", lineNo+1, line)
		}
		rackStr, valStr := line[:idx], line[idx+1:]
		if rackStr == "" || len(rackStr) > rackSize-1 {
			return nil, newErr(ErrInvalidRow, "line %d: rack %q out of range", lineNo+1, rackStr)
		}
		for _, ch := range rackStr {
			if _, err := ld.MachineLetterForRune(ch); err != nil {
				return nil, newErr(ErrInvalidRow, "line %d: %v", lineNo+1, err)
			}
		}
		val, err := strconv.ParseFloat(strings.TrimSpace(valStr), 64)
		if err != nil {
			return nil, newErr(ErrInvalidRow, "line %d: bad value %q", lineNo+1, valStr)
		}
		canon := canonicalizeRackString(ld, rackStr)
		if seen[canon] {
			return nil, newErr(ErrDuplicateLeave, "line %d: duplicate rack %q", lineNo+1, rackStr)
		}
		seen[canon] = true
		rows = append(rows, LeaveRow{Rack: rackStr, Value: val})
	}
	return rows, nil
}

// canonicalizeRackString sorts a rack's letters into machine-letter order
// so that anagrams of the same rack are recognized as duplicates.
func canonicalizeRackString(ld *LetterDistribution, s string) string {
	mls := make([]MachineLetter, 0, len(s))
	for _, ch := range s {
		ml, _ := ld.MachineLetterForRune(ch)
		mls = append(mls, ml)
	}
	for i := 1; i < len(mls); i++ {
		for j := i; j > 0 && mls[j-1] > mls[j]; j-- {
			mls[j-1], mls[j] = mls[j], mls[j-1]
		}
	}
	var sb strings.Builder
	for _, ml := range mls {
		fmt.Fprintf(&sb, "%d.", ml)
	}
	return sb.String()
}

// WriteLeaveCSV renders rows back to the §6.4 text format, sorted in the
// same order they were given (callers wanting canonical ordering should
// sort rows before calling).
func WriteLeaveCSV(rows []LeaveRow) string {
	var sb strings.Builder
	for _, r := range rows {
		fmt.Fprintf(&sb, "%s,%s\n", r.Rack, strconv.FormatFloat(r.Value, 'g', -1, 64))
	}
	return sb.String()
}

// BuildKLVFromRows constructs a KLV from parsed leave rows: builds a DAWG
// over the rack strings (as machine-letter strips) and assigns each leaf's
// value into the parallel array in the canonical enumeration order the
// builder's serialization produces.
func BuildKLVFromRows(ld *LetterDistribution, rows []LeaveRow) (*KLV, error) {
	wordSet := make([][]MachineLetter, 0, len(rows))
	valueByKey := make(map[string]float32)
	for _, r := range rows {
		mls := make([]MachineLetter, 0, len(r.Rack))
		for _, ch := range r.Rack {
			ml, err := ld.MachineLetterForRune(ch)
			if err != nil {
				return nil, err
			}
			mls = append(mls, ml)
		}
		sortMachineLetters(mls)
		wordSet = append(wordSet, mls)
		valueByKey[string(machineLettersToBytes(mls))] = float32(r.Value)
	}

	graph, order := buildLeaveGraph(wordSet)
	values := make([]float32, len(order))
	for i, w := range order {
		values[i] = valueByKey[string(machineLettersToBytes(w))]
	}
	return NewKLV(graph, values), nil
}

func sortMachineLetters(mls []MachineLetter) {
	for i := 1; i < len(mls); i++ {
		for j := i; j > 0 && mls[j-1] > mls[j]; j-- {
			mls[j-1], mls[j] = mls[j], mls[j-1]
		}
	}
}

func machineLettersToBytes(mls []MachineLetter) []byte {
	out := make([]byte, len(mls))
	for i, ml := range mls {
		out[i] = byte(ml)
	}
	return out
}

// buildLeaveGraph builds a DAWG over leaves of length 1..RackSize-1 and
// returns both the graph and the words in the canonical enumeration order
// that matches the value array's indexing (ascending tile order at every
// branch, as the builder's trie insertion and serialization produce).
func buildLeaveGraph(words [][]MachineLetter) (*KWG, [][]MachineLetter) {
	root := &trieRoot{}
	// leave words may be length 1, which BuildKWG's public contract
	// rejects (it enforces len>=2 for dictionary words); leave graphs use
	// the same trie/serializer machinery directly instead.
	sorted := append([][]MachineLetter(nil), words...)
	sortWords(sorted)
	sorted = dedupWords(sorted)
	for _, w := range sorted {
		root.insert(w)
	}
	ser := newSerializer()
	arc := ser.serializeSiblingList(root.children)
	nodes := make([]uint32, len(ser.out)+2)
	copy(nodes[2:], ser.out)
	nodes[0] = packNode(0, false, true, arc)
	nodes[1] = packNode(0, false, true, 0)
	graph := &KWG{Nodes: nodes}
	return graph, enumerateCanonical(root.children)
}

// enumerateCanonical lists every accepted word under children in the exact
// order precomputeCounts/countBeforeTile would assign indices: ascending
// tile order, a parent's own acceptance before its descendants' (matching
// the "add one when this node accepts, then recurse" order used by
// KLV.LeaveValue).
func enumerateCanonical(children []*buildNode) [][]MachineLetter {
	var out [][]MachineLetter
	var walk func(prefix []MachineLetter, nodes []*buildNode)
	walk = func(prefix []MachineLetter, nodes []*buildNode) {
		for _, n := range nodes {
			next := append(append([]MachineLetter(nil), prefix...), n.tile)
			if n.accepts {
				out = append(out, next)
			}
			if len(n.children) > 0 {
				walk(next, n.children)
			}
		}
	}
	walk(nil, children)
	return out
}
