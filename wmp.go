// wmp.go
// Copyright (C) 2026 Kjell Haugen
// This file contains the word map (WMP), a length-partitioned
// table from bit-racks to their anagram sets.

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
	"sort"
)

// WMPEntry is the 24-byte on-disk/in-memory entry of §3's word map: 8 bytes
// of payload, 12 bytes of BitRack quotient (as two uint64/uint32 fields
// here, a plain struct compare standing in for the spec's allowed
// byte-by-byte memcmp — see DESIGN.md's Open Question decision), 4 bytes
// padding (implicit in Go's struct layout, not stored explicitly).
//
// Payload interpretation depends on the section: blankless buckets inline
// up to 8 short letters directly in Payload, or hold a (start,count) index
// into a side letters array when the word is longer than fits (start kept
// in bytes 1-3, byte 0 left zero); single-blank
// buckets store a 32-bit bitmask of completing letters; double-blank
// buckets store a (start, count) index into a side letter-pair array. The
// "inlined vs not" distinction is whether Payload's first byte is nonzero
// (any inlined letter is >= 1, so this is unambiguous).
type WMPEntry struct {
	Payload      [8]byte
	QuotientLo   uint64
	QuotientHi   uint32
}

func (e WMPEntry) quotientEquals(q BitRack) bool {
	return e.QuotientLo == q.Lo && e.QuotientHi == uint32(q.Hi)
}

func entryFromQuotient(q BitRack, payload [8]byte) WMPEntry {
	return WMPEntry{Payload: payload, QuotientLo: q.Lo, QuotientHi: uint32(q.Hi)}
}

// lengthSection is one word-length's table for one blank-count class
// (0, 1, or 2 blanks).
type lengthSection struct {
	bucketStarts []uint32 // len = numBuckets+1, CSR-style prefix sum
	entries      []WMPEntry
	// sideLetters holds uninlined words' letters (blankless/single-blank
	// sections) packed len-per-word; pairLetters holds completing letter
	// pairs (double-blank section), 2 per entry.
	sideLetters []MachineLetter
	pairLetters []MachineLetter
}

func (s *lengthSection) numBuckets() uint32 {
	if len(s.bucketStarts) == 0 {
		return 0
	}
	return uint32(len(s.bucketStarts) - 1)
}

func (s *lengthSection) lookup(key BitRack) (WMPEntry, bool) {
	nb := s.numBuckets()
	if nb == 0 {
		return WMPEntry{}, false
	}
	q, bucket := key.DivMod32(nb)
	start, end := s.bucketStarts[bucket], s.bucketStarts[bucket+1]
	for i := start; i < end; i++ {
		if s.entries[i].quotientEquals(q) {
			return s.entries[i], true
		}
	}
	return WMPEntry{}, false
}

// wmpVersion is the current (and minimum supported) word-map file version.
const wmpVersion = 1

// WMP is the length-partitioned word map: for each word length, a blankless
// section, a single-blank section (payload = bitmask of completing
// letters), and a double-blank section (payload = index into pair letters).
type WMP struct {
	BoardDim int
	// sections[length] holds the three classes, indices 0/1/2 = 0/1/2 blanks.
	sections map[int][3]*lengthSection
}

// LookupAnagrams returns every word of the given length formed from exactly
// the tiles of a blankless bit-rack (the full anagram set of the class).
func (w *WMP) LookupAnagrams(length int, key BitRack) ([][]MachineLetter, bool) {
	sec := w.sectionFor(length, 0)
	if sec == nil {
		return nil, false
	}
	e, ok := sec.lookup(key)
	if !ok {
		return nil, false
	}
	return decodeWordPayload(e, length, sec.sideLetters), true
}

// LookupWord reports whether a blankless rack's bit-rack forms a known word
// of the given length, returning the first word of its anagram set.
func (w *WMP) LookupWord(length int, key BitRack) ([]MachineLetter, bool) {
	words, ok := w.LookupAnagrams(length, key)
	if !ok || len(words) == 0 {
		return nil, false
	}
	return words[0], true
}

// LookupSingleBlank returns the bitmask of letters that complete rack (which
// already accounts for one blank) into a word of the given length.
func (w *WMP) LookupSingleBlank(length int, key BitRack) (uint32, bool) {
	sec := w.sectionFor(length, 1)
	if sec == nil {
		return 0, false
	}
	e, ok := sec.lookup(key)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint32(e.Payload[:4]), true
}

// LookupDoubleBlank returns the completing letter-pairs for rack (already
// accounting for two blanks) into a word of the given length.
func (w *WMP) LookupDoubleBlank(length int, key BitRack) ([][2]MachineLetter, bool) {
	sec := w.sectionFor(length, 2)
	if sec == nil {
		return nil, false
	}
	e, ok := sec.lookup(key)
	if !ok {
		return nil, false
	}
	start, count := decodeIndexPayload(e)
	out := make([][2]MachineLetter, count)
	for i := 0; i < count; i++ {
		out[i] = [2]MachineLetter{sec.pairLetters[(start+i)*2], sec.pairLetters[(start+i)*2+1]}
	}
	return out, true
}

func (w *WMP) sectionFor(length, blanks int) *lengthSection {
	trio, ok := w.sections[length]
	if !ok {
		return nil
	}
	return trio[blanks]
}

func decodeWordPayload(e WMPEntry, length int, side []MachineLetter) [][]MachineLetter {
	if e.Payload[0] != 0 {
		// inlined: the anagram set's words packed back to back, one letter
		// per byte, zero-padded (a zero byte can't start a word, so it
		// terminates the set).
		var out [][]MachineLetter
		for off := 0; off+length <= len(e.Payload) && e.Payload[off] != 0; off += length {
			w := make([]MachineLetter, length)
			for i := 0; i < length; i++ {
				w[i] = MachineLetter(e.Payload[off+i])
			}
			out = append(out, w)
		}
		return out
	}
	start, count := decodeIndexPayload(e)
	start >>= 8
	out := make([][]MachineLetter, count)
	for i := 0; i < count; i++ {
		out[i] = side[(start+i)*length : (start+i+1)*length]
	}
	return out
}

func decodeIndexPayload(e WMPEntry) (start, count int) {
	start = int(binary.LittleEndian.Uint32(e.Payload[:4]))
	count = int(binary.LittleEndian.Uint32(e.Payload[4:8]))
	return
}

// WMPFromBytes parses the §6.2 binary format.
func WMPFromBytes(data []byte, boardDim int) (*WMP, error) {
	if len(data) < 16 {
		return nil, newErr(ErrIO, "wmp data too short")
	}
	r := &byteReader{data: data}
	version := r.u32()
	fileDim := int(r.u32())
	_ = r.u32() // max-word-lookup-bytes
	_ = r.u32() // max-blank-pair-bytes
	if version < wmpVersion {
		return nil, newErr(ErrUnsupportedVersion, "wmp version %d", version)
	}
	if fileDim != boardDim {
		return nil, newErr(ErrBoardDimMismatch, "file dim %d != runtime dim %d", fileDim, boardDim)
	}
	wmp := &WMP{BoardDim: boardDim, sections: make(map[int][3]*lengthSection)}
	for length := 2; length <= boardDim; length++ {
		var trio [3]*lengthSection
		// blankless
		trio[0] = r.readWordSection(length)
		// single-blank
		trio[1] = r.readBitmaskSection()
		// double-blank
		trio[2] = r.readPairSection()
		wmp.sections[length] = trio
		if r.err != nil {
			return nil, r.err
		}
	}
	return wmp, nil
}

type byteReader struct {
	data []byte
	pos  int
	err  *EngineError
}

func (r *byteReader) u32() uint32 {
	if r.err != nil || r.pos+4 > len(r.data) {
		if r.err == nil {
			r.err = newErr(ErrIO, "unexpected end of wmp data")
		}
		return 0
	}
	v := binary.LittleEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v
}

func (r *byteReader) u8() byte {
	if r.err != nil || r.pos+1 > len(r.data) {
		if r.err == nil {
			r.err = newErr(ErrIO, "unexpected end of wmp data")
		}
		return 0
	}
	b := r.data[r.pos]
	r.pos++
	return b
}

func (r *byteReader) readWordSection(length int) *lengthSection {
	sec := &lengthSection{}
	numBuckets := r.u32()
	sec.bucketStarts = make([]uint32, numBuckets+1)
	for i := range sec.bucketStarts {
		sec.bucketStarts[i] = r.u32()
	}
	numEntries := r.u32()
	sec.entries = make([]WMPEntry, numEntries)
	for i := range sec.entries {
		sec.entries[i] = r.readEntry()
	}
	numUninlined := r.u32()
	sec.sideLetters = make([]MachineLetter, int(numUninlined)*length)
	for i := range sec.sideLetters {
		sec.sideLetters[i] = MachineLetter(r.u8())
	}
	return sec
}

func (r *byteReader) readBitmaskSection() *lengthSection {
	sec := &lengthSection{}
	numBuckets := r.u32()
	sec.bucketStarts = make([]uint32, numBuckets+1)
	for i := range sec.bucketStarts {
		sec.bucketStarts[i] = r.u32()
	}
	numEntries := r.u32()
	sec.entries = make([]WMPEntry, numEntries)
	for i := range sec.entries {
		sec.entries[i] = r.readEntry()
	}
	return sec
}

func (r *byteReader) readPairSection() *lengthSection {
	sec := &lengthSection{}
	numBuckets := r.u32()
	sec.bucketStarts = make([]uint32, numBuckets+1)
	for i := range sec.bucketStarts {
		sec.bucketStarts[i] = r.u32()
	}
	numEntries := r.u32()
	sec.entries = make([]WMPEntry, numEntries)
	for i := range sec.entries {
		sec.entries[i] = r.readEntry()
	}
	numPairs := r.u32()
	sec.pairLetters = make([]MachineLetter, int(numPairs)*2)
	for i := range sec.pairLetters {
		sec.pairLetters[i] = MachineLetter(r.u8())
	}
	return sec
}

func (r *byteReader) readEntry() WMPEntry {
	var e WMPEntry
	for i := 0; i < 8; i++ {
		e.Payload[i] = r.u8()
	}
	e.QuotientLo = uint64(r.u32()) | uint64(r.u32())<<32
	e.QuotientHi = r.u32()
	r.u32() // 4 bytes padding
	return e
}

// Bytes serializes the word map back to the §6.2 binary format. Lengths
// with no words get zero-bucket sections, which readers resolve to lookup
// misses.
func (w *WMP) Bytes() []byte {
	var out []byte
	u32 := func(v uint32) {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], v)
		out = append(out, b[:]...)
	}
	writeEntry := func(e WMPEntry) {
		out = append(out, e.Payload[:]...)
		u32(uint32(e.QuotientLo))
		u32(uint32(e.QuotientLo >> 32))
		u32(e.QuotientHi)
		u32(0) // padding
	}
	writeCommon := func(sec *lengthSection) {
		if sec == nil || len(sec.bucketStarts) == 0 {
			u32(0) // num buckets
			u32(0) // the single bucketStarts entry
			u32(0) // num entries
			return
		}
		u32(sec.numBuckets())
		for _, s := range sec.bucketStarts {
			u32(s)
		}
		u32(uint32(len(sec.entries)))
		for _, e := range sec.entries {
			writeEntry(e)
		}
	}

	maxWordBytes, maxPairBytes := uint32(0), uint32(0)
	for length := 2; length <= w.BoardDim; length++ {
		if trio, ok := w.sections[length]; ok {
			if trio[0] != nil && uint32(len(trio[0].sideLetters)) > maxWordBytes {
				maxWordBytes = uint32(len(trio[0].sideLetters))
			}
			if trio[2] != nil && uint32(len(trio[2].pairLetters)) > maxPairBytes {
				maxPairBytes = uint32(len(trio[2].pairLetters))
			}
		}
	}

	u32(wmpVersion)
	u32(uint32(w.BoardDim))
	u32(maxWordBytes)
	u32(maxPairBytes)
	for length := 2; length <= w.BoardDim; length++ {
		trio := w.sections[length]
		// blankless, with its side letter array
		writeCommon(trio[0])
		if trio[0] == nil {
			u32(0)
		} else {
			u32(uint32(len(trio[0].sideLetters) / length))
			for _, l := range trio[0].sideLetters {
				out = append(out, byte(l))
			}
		}
		// single-blank
		writeCommon(trio[1])
		// double-blank, with its pair array
		writeCommon(trio[2])
		if trio[2] == nil {
			u32(0)
		} else {
			u32(uint32(len(trio[2].pairLetters) / 2))
			for _, l := range trio[2].pairLetters {
				out = append(out, byte(l))
			}
		}
	}
	return out
}

// BuildWMP constructs a word map in memory from a word list, grouped by
// length. For each length it builds the blankless anagram table, then the
// single- and double-blank completion tables by removing one or two letters
// from each word and recording which letters were removed.
func BuildWMP(boardDim int, wordsByLength map[int][][]MachineLetter) *WMP {
	wmp := &WMP{BoardDim: boardDim, sections: make(map[int][3]*lengthSection)}
	for length, words := range wordsByLength {
		if length < 2 || length > boardDim {
			continue
		}
		blankless := buildBlanklessSection(length, words)
		single := buildSingleBlankSection(words)
		double := buildDoubleBlankSection(words)
		wmp.sections[length] = [3]*lengthSection{blankless, single, double}
	}
	return wmp
}

func rackFromLetters(letters []MachineLetter) BitRack {
	var b BitRack
	counts := map[MachineLetter]int{}
	for _, l := range letters {
		counts[l]++
	}
	for l, c := range counts {
		b = b.SetLetterCount(l, c)
	}
	return b
}

func buildBlanklessSection(length int, words [][]MachineLetter) *lengthSection {
	type group struct {
		key   BitRack
		words [][]MachineLetter
	}
	byKey := map[BitRack]*group{}
	var order []BitRack
	for _, w := range words {
		k := rackFromLetters(w)
		g, ok := byKey[k]
		if !ok {
			g = &group{key: k}
			byKey[k] = g
			order = append(order, k)
		}
		g.words = append(g.words, w)
	}
	sort.Slice(order, func(i, j int) bool { return bitRackLess(order[i], order[j]) })

	numBuckets := uint32(len(order))
	if numBuckets == 0 {
		numBuckets = 1
	}
	buckets := make([][]WMPEntry, numBuckets)
	var side []MachineLetter
	for _, k := range order {
		g := byKey[k]
		q, bucket := k.DivMod32(numBuckets)
		var payload [8]byte
		if len(g.words)*length <= len(payload) {
			// the whole anagram set fits inline
			off := 0
			for _, w := range g.words {
				for _, l := range w {
					payload[off] = byte(l)
					off++
				}
			}
		} else {
			start := len(side) / length
			for _, w := range g.words {
				side = append(side, w...)
			}
			// start is shifted up one byte so the first payload byte stays
			// zero, marking the entry as not inlined
			binary.LittleEndian.PutUint32(payload[0:4], uint32(start)<<8)
			binary.LittleEndian.PutUint32(payload[4:8], uint32(len(g.words)))
		}
		buckets[bucket] = append(buckets[bucket], entryFromQuotient(q, payload))
	}
	return flattenBuckets(numBuckets, buckets, side, nil)
}

func buildSingleBlankSection(words [][]MachineLetter) *lengthSection {
	// Key: multiset of (word minus one occurrence of some letter). Payload:
	// bitmask of which letters can fill that hole across all words sharing
	// the reduced multiset.
	byKey := map[BitRack]uint32{}
	var order []BitRack
	for _, w := range words {
		seen := map[MachineLetter]bool{}
		for _, removed := range w {
			if seen[removed] {
				continue
			}
			seen[removed] = true
			reduced := make([]MachineLetter, 0, len(w)-1)
			done := false
			for _, l := range w {
				if !done && l == removed {
					done = true
					continue
				}
				reduced = append(reduced, l)
			}
			k := rackFromLetters(reduced)
			if _, ok := byKey[k]; !ok {
				order = append(order, k)
			}
			byKey[k] |= 1 << uint(removed)
		}
	}
	sort.Slice(order, func(i, j int) bool { return bitRackLess(order[i], order[j]) })
	numBuckets := uint32(len(order))
	if numBuckets == 0 {
		numBuckets = 1
	}
	buckets := make([][]WMPEntry, numBuckets)
	for _, k := range order {
		q, bucket := k.DivMod32(numBuckets)
		var payload [8]byte
		binary.LittleEndian.PutUint32(payload[0:4], byKey[k])
		buckets[bucket] = append(buckets[bucket], entryFromQuotient(q, payload))
	}
	return flattenBuckets(numBuckets, buckets, nil, nil)
}

func buildDoubleBlankSection(words [][]MachineLetter) *lengthSection {
	byKey := map[BitRack]map[[2]MachineLetter]bool{}
	var order []BitRack
	for _, w := range words {
		if len(w) < 2 {
			continue
		}
		for i := 0; i < len(w); i++ {
			for j := i + 1; j < len(w); j++ {
				reduced := make([]MachineLetter, 0, len(w)-2)
				for k, l := range w {
					if k == i || k == j {
						continue
					}
					reduced = append(reduced, l)
				}
				pair := [2]MachineLetter{w[i], w[j]}
				if pair[0] > pair[1] {
					pair[0], pair[1] = pair[1], pair[0]
				}
				key := rackFromLetters(reduced)
				if _, ok := byKey[key]; !ok {
					byKey[key] = map[[2]MachineLetter]bool{}
					order = append(order, key)
				}
				byKey[key][pair] = true
			}
		}
	}
	sort.Slice(order, func(i, j int) bool { return bitRackLess(order[i], order[j]) })
	numBuckets := uint32(len(order))
	if numBuckets == 0 {
		numBuckets = 1
	}
	buckets := make([][]WMPEntry, numBuckets)
	var pairLetters []MachineLetter
	for _, k := range order {
		q, bucket := k.DivMod32(numBuckets)
		pairs := byKey[k]
		var pairList [][2]MachineLetter
		for p := range pairs {
			pairList = append(pairList, p)
		}
		sort.Slice(pairList, func(i, j int) bool {
			if pairList[i][0] != pairList[j][0] {
				return pairList[i][0] < pairList[j][0]
			}
			return pairList[i][1] < pairList[j][1]
		})
		start := len(pairLetters) / 2
		for _, p := range pairList {
			pairLetters = append(pairLetters, p[0], p[1])
		}
		var payload [8]byte
		binary.LittleEndian.PutUint32(payload[0:4], uint32(start))
		binary.LittleEndian.PutUint32(payload[4:8], uint32(len(pairList)))
		buckets[bucket] = append(buckets[bucket], entryFromQuotient(q, payload))
	}
	return flattenBuckets(numBuckets, buckets, nil, pairLetters)
}

func flattenBuckets(numBuckets uint32, buckets [][]WMPEntry, side, pairLetters []MachineLetter) *lengthSection {
	sec := &lengthSection{bucketStarts: make([]uint32, numBuckets+1), sideLetters: side, pairLetters: pairLetters}
	var all []WMPEntry
	for i, b := range buckets {
		sec.bucketStarts[i] = uint32(len(all))
		all = append(all, b...)
	}
	sec.bucketStarts[numBuckets] = uint32(len(all))
	sec.entries = all
	return sec
}

func bitRackLess(a, b BitRack) bool {
	if a.Hi != b.Hi {
		return a.Hi < b.Hi
	}
	return a.Lo < b.Lo
}
