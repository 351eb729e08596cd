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

package matchers

import (
	"github.com/scancode-go/licensedcode/index"
	"github.com/scancode-go/licensedcode/query"
	"github.com/scancode-go/licensedcode/rules"
	"github.com/scancode-go/licensedcode/spanset"
)

// unknownMinNgramHits and unknownMinHiLen are the thresholds a gap must
// clear before it is flagged as license-shaped text nothing else matched.
const (
	unknownMinNgramHits = 3
	unknownMinHiLen     = 5
)

// MatchUnknown looks at the query positions no earlier matcher claimed and
// flags any contiguous run that reads like license boilerplate -- enough
// distinct legalese bigrams from the corpus, and enough legalese tokens of
// its own -- even though it matched no specific rule. The result carries
// the synthetic "unknown" license expression rather than a real rule.
func MatchUnknown(q *query.Query, ix *index.Index) []*Match {
	remaining := q.MatchableHigh().Union(q.MatchableLow())
	if remaining.Empty() {
		return nil
	}

	var out []*Match
	for _, run := range contiguousRuns(remaining) {
		qspan := spanset.New(run...)
		hispan := legaleseSpan(q, qspan, ix)
		if hispan.Len() < unknownMinHiLen {
			continue
		}

		ids := make([]uint16, len(run))
		for i, p := range run {
			ids[i] = q.Tokens[p]
		}
		if ix.CountUnknownNgramHits(ids) < unknownMinNgramHits {
			continue
		}

		synthetic := &rules.Rule{
			Rid:                   -1,
			Identifier:            "unknown",
			LicenseExpression:     "unknown",
			LicenseExpressionSPDX: "LicenseRef-scancode-unknown",
			HasUnknown:            true,
			Relevance:             50,
			Length:                qspan.Len(),
		}
		ispan := spanset.Range(0, synthetic.Length)
		out = append(out, New(Unknown, qspan, ispan, hispan, synthetic, q.LineByPos))
	}
	return out
}

// contiguousRuns splits a Span's elements into maximal runs of consecutive
// positions.
func contiguousRuns(s spanset.Span) [][]int {
	elems := s.Elements()
	if len(elems) == 0 {
		return nil
	}
	var runs [][]int
	cur := []int{elems[0]}
	for _, p := range elems[1:] {
		if p == cur[len(cur)-1]+1 {
			cur = append(cur, p)
			continue
		}
		runs = append(runs, cur)
		cur = []int{p}
	}
	runs = append(runs, cur)
	return runs
}
