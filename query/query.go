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

// Package query holds the per-call state a detect() invocation builds and
// mutates: the tokenized input, its line map, and the matchable-position
// sets later matcher phases consume and shrink as earlier phases claim
// spans.
package query

import (
	"github.com/scancode-go/licensedcode/index"
	"github.com/scancode-go/licensedcode/spanset"
	"github.com/scancode-go/licensedcode/token"
)

// Query is created fresh for every detect() call and is never shared across
// calls; the Index it reads from is shared and read-only.
type Query struct {
	Tokens    []token.ID
	LineByPos []int
	Offsets   []token.Offset

	// Text is the normalized-to-UTF-8 source this Query was built from,
	// kept so a caller can recover the literal matched text for a span of
	// positions via Offsets.
	Text string

	// matchableHigh/matchableLow hold the positions whose token id is known
	// to the corpus (high: legalese, low: everything else in-vocabulary)
	// and has not yet been claimed by an earlier matcher phase. Positions
	// whose id is unknown to the corpus (synthetic, out-of-vocabulary) are
	// never matchable and so never appear in either set.
	matchableHigh spanset.Span
	matchableLow  spanset.Span
}

// New tokenizes text against ix's vocabulary and builds a Query ready for
// the first matcher phase.
func New(text string, ix *index.Index) *Query {
	tk := token.Tokenize(text, false)
	resolver := token.NewResolver(ix.Vocab)

	ids := make([]token.ID, len(tk.Words))
	var high, low []int
	for i, w := range tk.Words {
		id := resolver.Resolve(w)
		ids[i] = id
		if !ix.Vocab.InCorpus(id) {
			continue
		}
		if ix.Vocab.IsLegalese(id) {
			high = append(high, i)
		} else {
			low = append(low, i)
		}
	}

	return &Query{
		Tokens:        ids,
		LineByPos:     tk.LineByPos,
		Offsets:       tk.Offsets,
		Text:          text,
		matchableHigh: spanset.New(high...),
		matchableLow:  spanset.New(low...),
	}
}

// Slice returns the literal source text spanning positions [start, end) of
// the tokenized word stream, taken from the original Text by byte offset.
func (q *Query) Slice(start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(q.Offsets) {
		end = len(q.Offsets)
	}
	if start >= end {
		return ""
	}
	return q.Text[q.Offsets[start].Start:q.Offsets[end-1].End]
}

// MatchableHigh returns the legalese-token positions not yet claimed.
func (q *Query) MatchableHigh() spanset.Span { return q.matchableHigh }

// MatchableLow returns the low-value-token positions not yet claimed.
func (q *Query) MatchableLow() spanset.Span { return q.matchableLow }

// Subtract removes span's positions from both matchable sets, committing
// them as claimed by an earlier matcher phase.
func (q *Query) Subtract(span spanset.Span) {
	q.matchableHigh = q.matchableHigh.Difference(span)
	q.matchableLow = q.matchableLow.Difference(span)
}

// Len returns the number of tokens in the query.
func (q *Query) Len() int { return len(q.Tokens) }

// Run is a contiguous sub-range [Start, End) of the query, used by the
// approximate (seq) matcher. Its matchable-position views are computed
// lazily from the parent Query's current state every time they're read, so
// an intervening Subtract is always reflected -- a Run never caches a view
// that could go stale.
type Run struct {
	q          *Query
	Start, End int
}

// NewRun creates a Run over [start, end) of q.
func NewRun(q *Query, start, end int) Run {
	return Run{q: q, Start: start, End: end}
}

// bounds returns the run's position range as a Span.
func (r Run) bounds() spanset.Span { return spanset.Range(r.Start, r.End) }

// MatchableHigh is the parent query's currently-unclaimed legalese
// positions restricted to this run's bounds.
func (r Run) MatchableHigh() spanset.Span {
	return r.q.MatchableHigh().Intersect(r.bounds())
}

// MatchableLow is the parent query's currently-unclaimed low-value
// positions restricted to this run's bounds.
func (r Run) MatchableLow() spanset.Span {
	return r.q.MatchableLow().Intersect(r.bounds())
}

// IsMatchable reports whether this run overlaps any unclaimed legalese
// position, i.e. whether it's still worth considering as a match candidate.
func (r Run) IsMatchable() bool {
	return r.MatchableHigh().Len() > 0
}

// Tokens returns the run's token ids.
func (r Run) Tokens() []token.ID {
	if r.Start >= r.End {
		return nil
	}
	return r.q.Tokens[r.Start:r.End]
}
