// kwg_builder.go
// Copyright (C) 2026 Kjell Haugen
// This file contains the word-graph builder: trie insertion,
// GADDAG expansion, hash-consing and serialization.

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
	"sort"
	"strconv"
	"strings"

	"github.com/op/go-logging"
)

var logBuilder = logging.MustGetLogger("skrafl/kwg_builder")

// KWGOutput selects which root(s) the builder produces.
type KWGOutput int

const (
	OutputDawg KWGOutput = iota
	OutputGaddag
	OutputDawgAndGaddag
)

// buildNode is the builder's working representation of a trie node, before
// final hash-consing and serial index assignment.
type buildNode struct {
	tile     MachineLetter
	accepts  bool
	children []*buildNode // sorted ascending by tile
	// canon is filled in during hash-consing: the canonical node this one
	// was merged into (itself if it is its own canonical representative).
	canon *buildNode
	// index is the final serial index assigned during serialization.
	index uint32
}

// trieRoot is the builder's in-progress trie: a synthetic node whose
// children are the first letters of every inserted word.
type trieRoot struct {
	children []*buildNode
}

// insert adds a machine-letter string to the trie, walking down from the
// root and reusing every existing node along the word's prefix, so only the
// missing suffix gets fresh nodes. The walk starts from the root for every
// word; no node path from the previously inserted word is cached.
func (t *trieRoot) insert(word []MachineLetter) {
	children := &t.children
	for _, ml := range word {
		var found *buildNode
		for _, c := range *children {
			if c.tile == ml {
				found = c
				break
			}
		}
		if found == nil {
			found = &buildNode{tile: ml}
			*children = append(*children, found)
			sort.Slice(*children, func(i, j int) bool {
				return (*children)[i].tile < (*children)[j].tile
			})
		}
		children = &found.children
	}
	// mark the final node as accepting
	node := markPath(t, word)
	node.accepts = true
}

// markPath walks the trie along word and returns the final node, which must
// already exist (insert creates the path before calling markPath).
func markPath(t *trieRoot, word []MachineLetter) *buildNode {
	children := t.children
	var cur *buildNode
	for _, ml := range word {
		for _, c := range children {
			if c.tile == ml {
				cur = c
				children = c.children
				break
			}
		}
	}
	return cur
}

// BuildKWG constructs a packed word graph from a sorted, deduplicated list
// of dictionary words (already expressed as machine-letter strips, via
// ld.MachineLetterForRune on each character). Algorithm: incremental trie
// insertion, optional GADDAG string expansion, hash-consing of structurally
// equivalent subtrees, then a canonical-order serialization pass that
// assigns final indices and marks sibling-list ends.
func BuildKWG(ld *LetterDistribution, words [][]MachineLetter, boardDim int, output KWGOutput) (*KWG, error) {
	for _, w := range words {
		if len(w) > boardDim {
			return nil, newErr(ErrWordTooLong, "word length %d exceeds board dim %d", len(w), boardDim)
		}
		if len(w) < 2 {
			return nil, newErr(ErrWordTooShort, "word length %d", len(w))
		}
		for _, ml := range w {
			if int(ml) == 0 || int(ml) > ld.Size() {
				return nil, newErr(ErrInvalidLetter, "machine letter %d not in LD", ml)
			}
		}
	}

	var dawgRoot, gaddagRoot *trieRoot
	if output == OutputDawg || output == OutputDawgAndGaddag {
		dawgRoot = &trieRoot{}
		sorted := append([][]MachineLetter(nil), words...)
		sortWords(sorted)
		for _, w := range sorted {
			dawgRoot.insert(w)
		}
	}
	if output == OutputGaddag || output == OutputDawgAndGaddag {
		gaddagRoot = &trieRoot{}
		expanded := expandGaddagStrings(words)
		sortWords(expanded)
		expanded = dedupWords(expanded)
		for _, w := range expanded {
			gaddagRoot.insert(w)
		}
	}

	// Hash-cons both tries against a shared canonicalization table so
	// identical subtrees (e.g. common suffixes) are merged across DAWG and
	// GADDAG.
	cons := newHashConser()
	var dawgChildren, gaddagChildren []*buildNode
	if dawgRoot != nil {
		for i, c := range dawgRoot.children {
			dawgRoot.children[i] = cons.canonicalize(c)
		}
		dawgChildren = dawgRoot.children
	}
	if gaddagRoot != nil {
		for i, c := range gaddagRoot.children {
			gaddagRoot.children[i] = cons.canonicalize(c)
		}
		gaddagChildren = gaddagRoot.children
	}

	ser := newSerializer()
	// Reserve node 0 and node 1 for the DAWG/GADDAG root indicators, as the
	// binary format requires.
	dawgArc := ser.serializeSiblingList(dawgChildren)
	gaddagArc := ser.serializeSiblingList(gaddagChildren)

	nodes := make([]uint32, len(ser.out)+2)
	copy(nodes[2:], ser.out)
	nodes[0] = packNode(0, false, true, dawgArc)
	nodes[1] = packNode(0, false, true, gaddagArc)
	logBuilder.Debugf("built kwg: %d words, %d nodes", len(words), len(nodes))
	return &KWG{Nodes: nodes}, nil
}

func sortWords(words [][]MachineLetter) {
	sort.Slice(words, func(i, j int) bool {
		a, b := words[i], words[j]
		for k := 0; k < len(a) && k < len(b); k++ {
			if a[k] != b[k] {
				return a[k] < b[k]
			}
		}
		return len(a) < len(b)
	})
}

func dedupWords(words [][]MachineLetter) [][]MachineLetter {
	out := words[:0:0]
	var prev []MachineLetter
	for _, w := range words {
		if prev != nil && sameWord(prev, w) {
			continue
		}
		out = append(out, w)
		prev = w
	}
	return out
}

func sameWord(a, b []MachineLetter) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// expandGaddagStrings emits, for each dictionary word w = c1 c2 ... cn: the
// fully reversed word, and for each internal pivot k in [1, n-1], the string
// ck ck-1 ... c1 SEP ck+1 ... cn (reversed prefix, separator, forward
// suffix) — the GADDAG expansion spec.md §4.3 describes.
func expandGaddagStrings(words [][]MachineLetter) [][]MachineLetter {
	var out [][]MachineLetter
	for _, w := range words {
		n := len(w)
		rev := make([]MachineLetter, n)
		for i := 0; i < n; i++ {
			rev[i] = w[n-1-i]
		}
		out = append(out, rev)
		for k := 1; k < n; k++ {
			s := make([]MachineLetter, 0, n+1)
			for i := k - 1; i >= 0; i-- {
				s = append(s, w[i])
			}
			s = append(s, SepLetter)
			s = append(s, w[k:]...)
			out = append(out, s)
		}
	}
	return out
}

// hashConser merges structurally equivalent subtrees: two nodes are
// equivalent iff they share (tile, accepts, and the canonicalized child
// list, in order). Traversal is post-order so children are canonicalized
// before their parent's signature is computed.
type hashConser struct {
	table        map[string]*buildNode
	identity     map[*buildNode]uint32
	nextIdentity uint32
}

func newHashConser() *hashConser {
	return &hashConser{
		table:    make(map[string]*buildNode),
		identity: make(map[*buildNode]uint32),
	}
}

// canonicalize returns the canonical representative for n, merging it into
// an existing structurally-identical node if one has already been seen.
func (c *hashConser) canonicalize(n *buildNode) *buildNode {
	for i, ch := range n.children {
		n.children[i] = c.canonicalize(ch)
	}
	key := c.signature(n)
	if existing, ok := c.table[key]; ok {
		return existing
	}
	c.table[key] = n
	return n
}

func (c *hashConser) signature(n *buildNode) string {
	var sb strings.Builder
	sb.WriteString(strconv.Itoa(int(n.tile)))
	sb.WriteByte(':')
	if n.accepts {
		sb.WriteByte('1')
	} else {
		sb.WriteByte('0')
	}
	for _, ch := range n.children {
		sb.WriteByte(',')
		// children are already canonicalized, so each one is identified by
		// its tile, accepts bit and the pointer-derived nodeIdentity, which
		// is stable because canonicalized children are shared.
		sb.WriteString(strconv.Itoa(int(ch.tile)))
		if ch.accepts {
			sb.WriteByte('a')
		}
		sb.WriteString(strconv.FormatUint(uint64(c.nodeIdentity(ch)), 36))
	}
	return sb.String()
}

// nodeIdentity gives a stable small integer for a canonicalized node by its
// pointer, used only to make parent signatures distinguish different child
// identities without re-serializing whole subtrees.
func (c *hashConser) nodeIdentity(n *buildNode) uint32 {
	if id, ok := c.identity[n]; ok {
		return id
	}
	c.nextIdentity++
	c.identity[n] = c.nextIdentity
	return c.nextIdentity
}

// serializer walks canonicalized sibling lists in ascending tile order and
// assigns final serial indices, marking the last child of each list with
// end=1.
type serializer struct {
	out []uint32
	// indices is keyed by the address of a sibling list's first element, so
	// only the very same list (shared through hash-consing) is reused.
	indices map[**buildNode]uint32
}

func newSerializer() *serializer {
	return &serializer{indices: make(map[**buildNode]uint32)}
}

// serializeSiblingList serializes a (already tile-sorted) list of sibling
// nodes and returns the final node-array index of the first sibling (0 if
// the list is empty). The returned index already accounts for the two
// slots BuildKWG reserves for the DAWG/GADDAG root indicators: s.out holds
// nodes at their pre-shift position, but every arc this function hands back
// (including the one cached in s.indices and the one written into a
// parent's packed node) is the final index into the full nodes array, so 0 stays
// an unambiguous "no children" sentinel no matter which sibling list
// happens to serialize first.
func (s *serializer) serializeSiblingList(children []*buildNode) uint32 {
	if len(children) == 0 {
		return 0
	}
	if idx, ok := s.indices[&children[0]]; ok {
		return idx
	}
	physBase := uint32(len(s.out))
	arcBase := physBase + 2
	s.out = append(s.out, make([]uint32, len(children))...)
	s.indices[&children[0]] = arcBase
	for i, ch := range children {
		childArc := s.serializeSiblingList(ch.children)
		isEnd := i == len(children)-1
		s.out[physBase+uint32(i)] = packNode(ch.tile, ch.accepts, isEnd, childArc)
	}
	return arcBase
}
