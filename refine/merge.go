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

package refine

import (
	"sort"

	"github.com/scancode-go/licensedcode/matchers"
)

// mergePass groups matches by rule id and merges adjacent matches within a
// rule-side distance bound, per pass 1/6/14 of the pipeline.
func mergePass(in []*matchers.Match) []*matchers.Match {
	byRid := make(map[int][]*matchers.Match)
	var order []int
	for _, m := range in {
		if _, ok := byRid[m.Rid]; !ok {
			order = append(order, m.Rid)
		}
		byRid[m.Rid] = append(byRid[m.Rid], m)
	}
	sort.Ints(order)

	var out []*matchers.Match
	for _, rid := range order {
		out = append(out, mergeGroup(byRid[rid])...)
	}
	return out
}

// ruleSideMaxDist bounds how far apart two matches on the same rule may be
// and still be considered for merging: half the rule's length, floored at 1
// and capped at 100.
func ruleSideMaxDist(ruleLength int) int {
	d := ruleLength / 2
	if d < 1 {
		d = 1
	}
	if d > 100 {
		d = 100
	}
	return d
}

func mergeGroup(items []*matchers.Match) []*matchers.Match {
	if len(items) == 0 {
		return nil
	}
	sorted := append([]*matchers.Match(nil), items...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.StartToken != b.StartToken {
			return a.StartToken < b.StartToken
		}
		if a.HiLen != b.HiLen {
			return a.HiLen > b.HiLen
		}
		if a.MatchedLength != b.MatchedLength {
			return a.MatchedLength > b.MatchedLength
		}
		if a.Matcher.Rank() != b.Matcher.Rank() {
			return a.Matcher.Rank() < b.Matcher.Rank()
		}
		return a.RuleIdentifier < b.RuleIdentifier
	})

	var out []*matchers.Match
	cur := sorted[0].Clone()
	for i := 1; i < len(sorted); i++ {
		b := sorted[i]
		maxDist := ruleSideMaxDist(cur.RuleLength)
		if cur.QSpan.DistanceTo(b.QSpan) > maxDist || cur.ISpan.DistanceTo(b.ISpan) > maxDist {
			out = append(out, cur)
			cur = b.Clone()
			continue
		}

		switch {
		case cur.QSpan.Equal(b.QSpan) && cur.ISpan.Equal(b.ISpan):
			// drop b, cur unchanged

		case cur.ISpan.Equal(b.ISpan) && cur.QSpan.Overlaps(b.QSpan):
			if b.MatchedLength > cur.MatchedLength {
				cur = b.Clone()
			}

		case cur.QContains(b):
			// drop b, cur unchanged

		case b.QContains(cur):
			cur = b.Clone()

		case cur.Surround(b) && unionPreservesAlignment(cur, b):
			cur = unionInto(cur, b)

		case b.Surround(cur) && unionPreservesAlignment(cur, b):
			cur = unionInto(b, cur)

		case b.QSpan.IsAfter(cur.QSpan) && b.ISpan.IsAfter(cur.ISpan):
			cur = unionInto(cur, b)

		default:
			qov, iov := cur.QSpan.Overlap(b.QSpan), cur.ISpan.Overlap(b.ISpan)
			if qov > 0 && qov == iov {
				cur = unionInto(cur, b)
			} else {
				out = append(out, cur)
				cur = b.Clone()
			}
		}
	}
	out = append(out, cur)
	return out
}

// unionPreservesAlignment reports whether merging a and b's spans keeps the
// one-to-one qspan/ispan correspondence a match requires: the union must not
// create a qspan and ispan of different sizes.
func unionPreservesAlignment(a, b *matchers.Match) bool {
	q := a.QSpan.Union(b.QSpan)
	i := a.ISpan.Union(b.ISpan)
	return q.Len() == i.Len()
}

// unionInto merges b into a, keeping a's rule identity and the
// higher-ranked (lower Rank value) of the two matcher tags.
func unionInto(a, b *matchers.Match) *matchers.Match {
	merged := a.Clone()
	merged.QSpan = a.QSpan.Union(b.QSpan)
	merged.ISpan = a.ISpan.Union(b.ISpan)
	merged.HiSpan = a.HiSpan.Union(b.HiSpan)
	if b.Matcher.Rank() < a.Matcher.Rank() {
		merged.Matcher = b.Matcher
	}
	merged.PossibleFalsePositive = a.PossibleFalsePositive || b.PossibleFalsePositive
	merged.Recompute()
	return merged
}
