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
	"context"
	"sort"

	"github.com/scancode-go/licensedcode/index"
	"github.com/scancode-go/licensedcode/query"
	"github.com/scancode-go/licensedcode/spanset"
)

// seqCandidateLimit is the top-N candidate cutoff ("approximately 50" in
// the design) after ranking by combined containment+resemblance.
const seqCandidateLimit = 50

// seqMinCombinedScore is the floor a candidate's containment+resemblance
// average must clear before block alignment is attempted at all; below
// this, the rule and the query barely share any high-value vocabulary and
// alignment would only waste time producing a match the coverage filter
// drops anyway.
const seqMinCombinedScore = 0.2

// MatchSeq runs the approximate set+sequence strategy: candidate rules are
// ranked by how much of their high-value token vocabulary overlaps the
// query's, then the top candidates are aligned against the query with a
// greedy, order-preserving alignment over the query positions that share a
// token with the rule, to produce a (possibly partial) match.
// ctx is checked once per candidate rule rather than per token: the
// per-candidate alignment is cheap enough that a finer-grained check would
// only add overhead, but a caller cancelling mid-phase still gets a prompt
// exit instead of waiting out the full candidate list.
func MatchSeq(ctx context.Context, q *query.Query, ix *index.Index) []*Match {
	querySet := highValueSet(q)
	if len(querySet) == 0 {
		return nil
	}

	candidates := rankCandidates(q, ix, querySet)
	if len(candidates) > seqCandidateLimit {
		candidates = candidates[:seqCandidateLimit]
	}

	var out []*Match
	for _, c := range candidates {
		if ctx.Err() != nil {
			break
		}
		rule := ix.Rule(c.rid)
		if rule == nil || rule.Length == 0 {
			continue
		}
		qpos, ipos := blockAlign(q, rule.Tokens)
		if len(qpos) == 0 {
			continue
		}
		qspan := spanset.New(qpos...)
		ispan := spanset.New(ipos...)
		hispan := legaleseSpan(q, qspan, ix)
		m := New(Seq, qspan, ispan, hispan, rule, q.LineByPos)
		if m.MatchCoverage < float64(rule.MinimumCoverage) {
			continue
		}
		out = append(out, m)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.HiLen != b.HiLen {
			return a.HiLen > b.HiLen
		}
		if a.MatchCoverage != b.MatchCoverage {
			return a.MatchCoverage > b.MatchCoverage
		}
		if a.MatchedLength != b.MatchedLength {
			return a.MatchedLength > b.MatchedLength
		}
		return a.Rid < b.Rid
	})
	return out
}

func highValueSet(q *query.Query) map[uint16]bool {
	set := make(map[uint16]bool)
	for _, p := range q.MatchableHigh().Elements() {
		set[q.Tokens[p]] = true
	}
	return set
}

type seqCandidate struct {
	rid   int
	score float64
}

// rankCandidates finds every rule sharing at least one high-value token
// with the query (via the posting lists, so rules with no overlap are never
// visited) and ranks them by the average of set containment and
// resemblance (Jaccard) over their legalese-token vocabularies.
func rankCandidates(q *query.Query, ix *index.Index, querySet map[uint16]bool) []seqCandidate {
	overlapCount := make(map[int]int)
	for id := range querySet {
		counted := make(map[int]bool)
		for _, p := range ix.Postings(id) {
			if counted[p.Rid] {
				continue // one token id counts once per rule, however often it occurs
			}
			counted[p.Rid] = true
			overlapCount[p.Rid]++
		}
	}

	var out []seqCandidate
	for rid, overlap := range overlapCount {
		rule := ix.Rule(rid)
		if rule == nil || rule.HighLength == 0 {
			continue
		}
		ruleSet := make(map[uint16]bool, rule.HighLength)
		for _, t := range rule.Tokens {
			if ix.Vocab.IsLegalese(t) {
				ruleSet[t] = true
			}
		}
		unionSize := len(ruleSet) + len(querySet) - overlap
		if unionSize == 0 {
			continue
		}
		containment := float64(overlap) / float64(len(ruleSet))
		resemblance := float64(overlap) / float64(unionSize)
		combined := (containment + resemblance) / 2
		if combined < seqMinCombinedScore {
			continue
		}
		out = append(out, seqCandidate{rid: rid, score: combined})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].score != out[j].score {
			return out[i].score > out[j].score
		}
		return out[i].rid < out[j].rid
	})
	return out
}

// blockAlign aligns rule tokens against the query in position order,
// anchored to the window spanned by the query's matchable positions that
// also appear in the rule. The window is read through a query.Run, whose
// matchable views are recomputed on every call rather than cached, so an
// alignment never considers a position an earlier matcher phase has already
// subtracted from the query. MatchSeq subtracts nothing between candidates,
// so alignments of different candidates in the same pass may overlap; the
// refiner resolves those overlaps afterwards.
//
// A rule token with no remaining match in the window is skipped rather than
// aborting the whole alignment: a paraphrase that drops a handful of words
// should still yield a partial match over the words it kept, not a match
// truncated at the first gap. The result is a monotonic (order-preserving)
// subsequence alignment, not a contiguous block.
func blockAlign(q *query.Query, ruleTokens []uint16) (qpos, ipos []int) {
	ruleIDs := make(map[uint16]bool, len(ruleTokens))
	for _, t := range ruleTokens {
		ruleIDs[t] = true
	}

	full := q.MatchableHigh().Union(q.MatchableLow())
	var anchors []int
	for _, p := range full.Elements() {
		if ruleIDs[q.Tokens[p]] {
			anchors = append(anchors, p)
		}
	}
	if len(anchors) == 0 {
		return nil, nil
	}
	windowStart, windowEnd := anchors[0], anchors[len(anchors)-1]

	run := query.NewRun(q, windowStart, windowEnd+1)
	matchable := run.MatchableHigh().Union(run.MatchableLow())
	matchablePos := make(map[int]bool, matchable.Len())
	for _, p := range matchable.Elements() {
		matchablePos[p] = true
	}

	qi := windowStart
	for ri, rid := range ruleTokens {
		found := -1
		for p := qi; p <= windowEnd; p++ {
			if matchablePos[p] && q.Tokens[p] == rid {
				found = p
				break
			}
		}
		if found == -1 {
			continue
		}
		qpos = append(qpos, found)
		ipos = append(ipos, ri)
		qi = found + 1
	}
	return qpos, ipos
}
