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

package spanset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDedupesAndSorts(t *testing.T) {
	s := New(5, 1, 3, 1, 5)
	assert.Equal(t, []int{1, 3, 5}, s.Elements())
	assert.Equal(t, 3, s.Len())
}

func TestMinMaxMagnitude(t *testing.T) {
	s := New(10, 4, 7)
	assert.Equal(t, 4, s.Min())
	assert.Equal(t, 10, s.Max())
	assert.Equal(t, 7, s.Magnitude()) // 10-4+1
	assert.False(t, s.IsContinuous())

	cont := Range(4, 11)
	assert.True(t, cont.IsContinuous())
	assert.Equal(t, cont.Len(), cont.Magnitude())
}

func TestEmptySpan(t *testing.T) {
	var s Span
	assert.True(t, s.Empty())
	assert.Equal(t, 0, s.Magnitude())
	assert.Equal(t, 0, s.Min())
	assert.Equal(t, 0, s.Max())
}

func TestContains(t *testing.T) {
	outer := New(1, 2, 3, 4, 5)
	inner := New(2, 4)
	gap := New(2, 6)

	assert.True(t, outer.Contains(inner))
	assert.False(t, outer.Contains(gap))
	assert.True(t, outer.Contains(Span{}))
}

func TestOverlap(t *testing.T) {
	a := New(1, 2, 3)
	b := New(3, 4, 5)
	c := New(10, 11)

	assert.Equal(t, 1, a.Overlap(b))
	assert.True(t, a.Overlaps(b))
	assert.Equal(t, 0, a.Overlap(c))
	assert.False(t, a.Overlaps(c))
}

func TestDistanceToIsSymmetric(t *testing.T) {
	a := New(1, 2, 3)
	b := New(3, 4, 5)   // overlaps
	c := New(4, 5)       // touches (gap of 1 after a.Max()=3)
	d := New(10, 11)     // 7 apart

	assert.Equal(t, 0, a.DistanceTo(b))
	assert.Equal(t, 0, b.DistanceTo(a))

	assert.Equal(t, 1, a.DistanceTo(c))
	assert.Equal(t, 1, c.DistanceTo(a))

	assert.Equal(t, a.DistanceTo(d), d.DistanceTo(a))
	assert.True(t, a.DistanceTo(d) > 1)
}

func TestIsAfterAndSurround(t *testing.T) {
	a := New(10, 11, 12)
	b := New(1, 2)
	assert.True(t, a.IsAfter(b))
	assert.False(t, b.IsAfter(a))

	outer := New(1, 5, 10)
	inner := New(3, 7)
	assert.True(t, outer.Surround(inner))
	assert.False(t, inner.Surround(outer))
}

func TestUnionIntersectDifference(t *testing.T) {
	a := New(1, 2, 3)
	b := New(3, 4, 5)

	assert.Equal(t, []int{1, 2, 3, 4, 5}, a.Union(b).Elements())
	assert.Equal(t, []int{3}, a.Intersect(b).Elements())
	assert.Equal(t, []int{1, 2}, a.Difference(b).Elements())
}

func TestEqual(t *testing.T) {
	assert.True(t, New(1, 2, 3).Equal(New(3, 2, 1)))
	assert.False(t, New(1, 2).Equal(New(1, 2, 3)))
}
