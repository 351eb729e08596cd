// Copyright 2017 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package spanset implements the set algebra matches are built from: a
// sparse set of nonnegative token positions with the containment, overlap,
// and distance operations the match refiner needs. It plays the role the
// teacher's stringclassifier/internal/sets.IntSet plays for diff offsets,
// but is backed by a sorted slice (rather than a map) so that Contains and
// Min/Max are answered in O(log n) / O(1) as the spec requires, and so that
// iteration order (needed for Elements, union construction) is already
// sorted without an extra pass.
package spanset

import "sort"

// Span is an immutable sorted set of unique nonnegative integer positions.
type Span struct {
	pos []int // sorted, unique
}

// New builds a Span from zero or more positions, which need not be sorted or
// unique.
func New(positions ...int) Span {
	if len(positions) == 0 {
		return Span{}
	}
	cp := append([]int(nil), positions...)
	sort.Ints(cp)
	cp = dedupeSorted(cp)
	return Span{pos: cp}
}

// Range returns the Span containing every integer in [start, end).
func Range(start, end int) Span {
	if end <= start {
		return Span{}
	}
	pos := make([]int, 0, end-start)
	for i := start; i < end; i++ {
		pos = append(pos, i)
	}
	return Span{pos: pos}
}

func dedupeSorted(s []int) []int {
	out := s[:0:0]
	for i, v := range s {
		if i == 0 || v != s[i-1] {
			out = append(out, v)
		}
	}
	return out
}

// Len returns the number of positions in the span.
func (s Span) Len() int { return len(s.pos) }

// Empty reports whether the span has no positions.
func (s Span) Empty() bool { return len(s.pos) == 0 }

// Min returns the smallest position, or 0 if the span is empty.
func (s Span) Min() int {
	if s.Empty() {
		return 0
	}
	return s.pos[0]
}

// Max returns the largest position, or 0 if the span is empty.
func (s Span) Max() int {
	if s.Empty() {
		return 0
	}
	return s.pos[len(s.pos)-1]
}

// Magnitude is max-min+1 (the width of the closed interval the span spans),
// or 0 for the empty span.
func (s Span) Magnitude() int {
	if s.Empty() {
		return 0
	}
	return s.Max() - s.Min() + 1
}

// IsContinuous reports whether the span has no internal gaps, i.e. its
// length equals its magnitude.
func (s Span) IsContinuous() bool {
	return s.Len() == s.Magnitude()
}

// Elements returns the positions in ascending order. The caller must not
// mutate the returned slice.
func (s Span) Elements() []int { return s.pos }

// Contains reports whether s is a superset of other (set containment, not
// interval containment: a span with a gap does not contain a position that
// falls in the gap).
func (s Span) Contains(other Span) bool {
	if other.Empty() {
		return true
	}
	if other.Len() > s.Len() {
		return false
	}
	for _, p := range other.pos {
		if !s.contains1(p) {
			return false
		}
	}
	return true
}

func (s Span) contains1(p int) bool {
	i := sort.SearchInts(s.pos, p)
	return i < len(s.pos) && s.pos[i] == p
}

// Overlap returns the number of positions shared by s and other.
func (s Span) Overlap(other Span) int {
	i, j, n := 0, 0, 0
	for i < len(s.pos) && j < len(other.pos) {
		switch {
		case s.pos[i] == other.pos[j]:
			n++
			i++
			j++
		case s.pos[i] < other.pos[j]:
			i++
		default:
			j++
		}
	}
	return n
}

// Overlaps reports whether s and other share at least one position.
func (s Span) Overlaps(other Span) bool { return s.Overlap(other) > 0 }

// DistanceTo returns the gap between s and other: 0 if they overlap, 1 if
// they touch without overlapping (adjacent endpoints), otherwise the
// difference between their nearest endpoints (one more than the number of
// positions strictly between them).
func (s Span) DistanceTo(other Span) int {
	if s.Empty() || other.Empty() {
		return 0
	}
	if s.Overlaps(other) {
		return 0
	}
	var gap int
	if s.Max() < other.Min() {
		gap = other.Min() - s.Max()
	} else if other.Max() < s.Min() {
		gap = s.Min() - other.Max()
	} else {
		// Magnitudes interleave without a shared position: treat as touching.
		return 1
	}
	return gap
}

// IsAfter reports whether every position of s is strictly greater than
// every position of other.
func (s Span) IsAfter(other Span) bool {
	if s.Empty() || other.Empty() {
		return false
	}
	return s.Min() > other.Max()
}

// Surround reports whether s's closed interval [min,max] surrounds other's:
// s.Min() <= other.Min() && s.Max() >= other.Max().
func (s Span) Surround(other Span) bool {
	if s.Empty() || other.Empty() {
		return false
	}
	return s.Min() <= other.Min() && s.Max() >= other.Max()
}

// Union returns the set union of s and other.
func (s Span) Union(other Span) Span {
	if s.Empty() {
		return other
	}
	if other.Empty() {
		return s
	}
	merged := make([]int, 0, len(s.pos)+len(other.pos))
	i, j := 0, 0
	for i < len(s.pos) && j < len(other.pos) {
		switch {
		case s.pos[i] == other.pos[j]:
			merged = append(merged, s.pos[i])
			i++
			j++
		case s.pos[i] < other.pos[j]:
			merged = append(merged, s.pos[i])
			i++
		default:
			merged = append(merged, other.pos[j])
			j++
		}
	}
	merged = append(merged, s.pos[i:]...)
	merged = append(merged, other.pos[j:]...)
	return Span{pos: merged}
}

// Intersect returns the set intersection of s and other.
func (s Span) Intersect(other Span) Span {
	i, j := 0, 0
	var out []int
	for i < len(s.pos) && j < len(other.pos) {
		switch {
		case s.pos[i] == other.pos[j]:
			out = append(out, s.pos[i])
			i++
			j++
		case s.pos[i] < other.pos[j]:
			i++
		default:
			j++
		}
	}
	return Span{pos: out}
}

// Difference returns the positions in s that are not in other.
func (s Span) Difference(other Span) Span {
	if other.Empty() {
		return s
	}
	out := make([]int, 0, len(s.pos))
	for _, p := range s.pos {
		if !other.contains1(p) {
			out = append(out, p)
		}
	}
	return Span{pos: out}
}

// Equal reports whether s and other contain exactly the same positions.
func (s Span) Equal(other Span) bool {
	if len(s.pos) != len(other.pos) {
		return false
	}
	for i := range s.pos {
		if s.pos[i] != other.pos[i] {
			return false
		}
	}
	return true
}
