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

package detect

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/scancode-go/licensedcode/index"
	"github.com/scancode-go/licensedcode/internal/errs"
	"github.com/scancode-go/licensedcode/matchers"
	"github.com/scancode-go/licensedcode/query"
	"github.com/scancode-go/licensedcode/refine"
)

// Engine drives the tokenize/match/refine/assemble pipeline over a single
// piece of input text, against a shared, read-only Index. An Engine is safe
// for unlimited concurrent Detect calls: all mutable state lives in the
// per-call Query.
type Engine struct {
	ix          *index.Index
	log         *logrus.Entry
	minScore    float64
	tokenCap    int
	includeText bool
}

// Option configures an Engine at construction.
type Option func(*Engine)

// WithLogger attaches a structured logger; without one, Engine logs nothing.
func WithLogger(log *logrus.Entry) Option {
	return func(e *Engine) { e.log = log }
}

// WithMinScore sets the default minimum detection score Detect applies.
func WithMinScore(minScore float64) Option {
	return func(e *Engine) { e.minScore = minScore }
}

// WithTokenCap bounds how many tokens Detect will process before returning
// errs.CapacityLimit instead of running the match pipeline. Zero (the
// default) means unbounded.
func WithTokenCap(n int) Option {
	return func(e *Engine) { e.tokenCap = n }
}

// WithIncludeText has Detect populate each DetectionMatch's MatchedText with
// the literal matched source span, recovered via the byte offsets tracked
// during tokenization (Query.Slice), not reconstructed from the lower-cased,
// stopword-stripped token stream.
func WithIncludeText(include bool) Option {
	return func(e *Engine) { e.includeText = include }
}

// discardLogger is used when the caller supplies no logger, so the library
// never writes to a caller's stderr by default.
func discardLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(discardWriter{})
	return logrus.NewEntry(l)
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// NewEngine builds an Engine over ix.
func NewEngine(ix *index.Index, opts ...Option) *Engine {
	e := &Engine{ix: ix, log: discardLogger()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Detect runs the full pipeline over data: the binary/encoding gate, then
// tokenization, then the matcher sequence (hash, spdx-id, and aho each
// refined and subtracted from the query before the next runs; then seq and
// unknown together; then a final full refinement pass), then assembly.
// filename is an optional hint the gate uses for extension-based
// short-circuiting; pass "" when the source has no name. ctx is honored
// cooperatively by the seq matcher's candidate loop.
func (e *Engine) Detect(ctx context.Context, data []byte, filename string) (detections []Detection, err error) {
	defer e.recoverInvariant(&detections, &err)

	text, ok := gate(data, filename)
	if !ok {
		e.log.Debug("gate: binary input, no detections")
		return nil, nil
	}

	q := query.New(text, e.ix)
	if e.tokenCap > 0 && q.Len() > e.tokenCap {
		return nil, &errs.CapacityLimit{Limit: e.tokenCap, Got: q.Len()}
	}

	var all []*matchers.Match

	for _, phase := range []struct {
		name string
		run  func() []*matchers.Match
	}{
		{"hash", func() []*matchers.Match { return matchers.MatchHash(q, e.ix) }},
		{"spdx-id", func() []*matchers.Match { return matchers.MatchSPDXID(text, q, e.ix) }},
		{"aho", func() []*matchers.Match { return matchers.MatchAho(q, e.ix) }},
	} {
		found := phase.run()
		e.log.WithField("phase", phase.name).WithField("found", len(found)).Debug("matcher phase")
		if len(found) == 0 {
			continue
		}
		refined := refine.Refine(found, e.ix)
		all = append(all, refined...)
		subtractLicenseText(q, refined)
	}

	if ctx.Err() == nil {
		seqMatches := matchers.MatchSeq(ctx, q, e.ix)
		e.log.WithField("phase", "seq").WithField("found", len(seqMatches)).Debug("matcher phase")
		all = append(all, seqMatches...)
		subtractLicenseText(q, seqMatches)
	}

	unknownMatches := matchers.MatchUnknown(q, e.ix)
	e.log.WithField("phase", "unknown").WithField("found", len(unknownMatches)).Debug("matcher phase")
	all = append(all, unknownMatches...)

	final := refine.Refine(all, e.ix)
	dets := Assemble(final, e.minScore)
	if e.includeText {
		fillMatchedText(dets, q)
	}
	e.log.WithField("detections", len(dets)).Info("detect complete")
	return dets, nil
}

// fillMatchedText recovers each DetectionMatch's literal source text from
// the query's original input via the byte offsets tracked during
// tokenization, rather than reconstructing it from the normalized (lower-
// cased, stopword-stripped) token stream.
func fillMatchedText(dets []Detection, q *query.Query) {
	for i := range dets {
		for j := range dets[i].Matches {
			dm := &dets[i].Matches[j]
			dm.MatchedText = q.Slice(dm.StartToken, dm.EndToken)
		}
	}
}

// subtractLicenseText commits each is_license_text match's span as claimed,
// per §4.9: only license text (not notices/references/tags/intros/clues)
// is removed from the query between matcher phases, since those lighter
// signals may still legitimately overlap a later, more specific match.
func subtractLicenseText(q *query.Query, matches []*matchers.Match) {
	for _, m := range matches {
		if m.IsLicenseText {
			q.Subtract(m.QSpan)
		}
	}
}

// recoverInvariant turns a panic raised anywhere in the pipeline into an
// empty detection slice plus a logged error, per §7: InvariantViolation is a
// programmer-visible bug sentinel that must never escape to a caller.
func (e *Engine) recoverInvariant(detections *[]Detection, err *error) {
	if r := recover(); r != nil {
		e.log.WithField("panic", r).Error("invariant violation recovered")
		*detections = nil
		*err = nil
	}
}
