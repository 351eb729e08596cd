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

// Package matchers implements the five match strategies (hash, spdx-id,
// aho, seq, unknown) that turn a Query into raw Match records. Matchers
// never fail on "no match": they simply return an empty slice.
package matchers

import (
	"github.com/scancode-go/licensedcode/rules"
	"github.com/scancode-go/licensedcode/spanset"
	"github.com/scancode-go/licensedcode/token"
)

// Tag identifies which strategy produced a Match; it also doubles as the
// matcher string surfaced in detection output.
type Tag string

const (
	Hash    Tag = "hash"
	SpdxID  Tag = "spdx-id"
	Aho     Tag = "aho"
	Seq     Tag = "seq"
	Unknown Tag = "unknown"
)

// rank is the matcher's stable tie-break precedence, lowest first.
var rank = map[Tag]int{Hash: 1, SpdxID: 2, Aho: 3, Seq: 4, Unknown: 5}

// Rank returns the matcher's tie-break rank.
func (t Tag) Rank() int { return rank[t] }

// Match is a single rule's hit on a query, as produced by a matcher and
// consumed/mutated by the refiner.
type Match struct {
	Rid            int
	RuleIdentifier string
	Matcher        Tag

	QSpan, ISpan, HiSpan spanset.Span

	StartToken, EndToken int // EndToken is exclusive
	StartLine, EndLine   int

	MatchedLength int
	HiLen         int
	MatchCoverage float64 // 0..100
	Score         float64 // 0..100

	LicenseExpression     string
	LicenseExpressionSPDX string

	IsLicenseText      bool
	IsLicenseNotice    bool
	IsLicenseReference bool
	IsLicenseTag       bool
	IsLicenseIntro     bool
	IsLicenseClue      bool
	IsRequiredPhrase   bool
	IsContinuousRule   bool
	HasUnknown         bool

	// PossibleFalsePositive is set by the refiner's false-positive pass for
	// a heuristic (not explicit-rid) suspicion -- a short rule with a weak
	// score, or a hit starting implausibly late in the file. Unlike an
	// explicit false-positive rule, this never removes the match; it only
	// surfaces as a detection_log entry.
	PossibleFalsePositive bool

	RuleLength          int
	RuleRelevance       int
	RuleMinimumCoverage int
	RequiredPhraseSpans []token.PhraseSpan

	lineByPos []int
}

// New builds a Match for rule r given its query-side and rule-side spans,
// computing every derived field.
func New(tag Tag, qspan, ispan, hispan spanset.Span, r *rules.Rule, lineByPos []int) *Match {
	m := &Match{
		Rid:                   r.Rid,
		RuleIdentifier:        r.Identifier,
		Matcher:               tag,
		QSpan:                 qspan,
		ISpan:                 ispan,
		HiSpan:                hispan,
		LicenseExpression:     r.LicenseExpression,
		LicenseExpressionSPDX: r.LicenseExpressionSPDX,
		IsLicenseText:         r.IsLicenseText,
		IsLicenseNotice:       r.IsLicenseNotice,
		IsLicenseReference:    r.IsLicenseReference,
		IsLicenseTag:          r.IsLicenseTag,
		IsLicenseIntro:        r.IsLicenseIntro,
		IsLicenseClue:         r.IsLicenseClue,
		IsRequiredPhrase:      r.IsRequiredPhrase,
		IsContinuousRule:      r.IsContinuous,
		HasUnknown:            r.HasUnknown,
		RuleLength:            r.Length,
		RuleRelevance:         r.Relevance,
		RuleMinimumCoverage:   r.MinimumCoverage,
		RequiredPhraseSpans:   r.RequiredPhraseSpans,
		lineByPos:             lineByPos,
	}
	m.Recompute()
	return m
}

// Recompute refreshes every field derived from QSpan/ISpan/HiSpan. The
// refiner calls this after merging two matches together.
func (m *Match) Recompute() {
	m.MatchedLength = m.QSpan.Len()
	m.HiLen = m.HiSpan.Len()

	if !m.QSpan.Empty() {
		m.StartToken = m.QSpan.Min()
		m.EndToken = m.QSpan.Max() + 1
	}
	m.StartLine = m.lineAt(m.StartToken)
	m.EndLine = m.lineAt(m.EndToken - 1)

	coverage := 100.0
	if m.RuleLength > 0 {
		matched := m.MatchedLength
		if matched > m.RuleLength {
			matched = m.RuleLength
		}
		coverage = float64(matched) / float64(m.RuleLength) * 100
	}
	if coverage > 100 {
		coverage = 100
	}
	m.MatchCoverage = coverage
	m.Score = coverage * float64(m.RuleRelevance) / 100
}

func (m *Match) lineAt(pos int) int {
	if pos < 0 || pos >= len(m.lineByPos) {
		if len(m.lineByPos) > 0 {
			return m.lineByPos[len(m.lineByPos)-1]
		}
		return 0
	}
	return m.lineByPos[pos]
}

// QRegionLen is the closed-interval width [min(qspan), max(qspan)], which
// for a sparse qspan is larger than MatchedLength.
func (m *Match) QRegionLen() int { return m.QSpan.Magnitude() }

// IsContinuous reports whether the match's qspan has no internal gaps.
func (m *Match) IsContinuous() bool {
	return m.MatchedLength == m.QRegionLen()
}

// QContains reports whether m's qspan is a superset of other's.
func (m *Match) QContains(other *Match) bool { return m.QSpan.Contains(other.QSpan) }

// Surround reports whether m's qspan interval surrounds other's.
func (m *Match) Surround(other *Match) bool { return m.QSpan.Surround(other.QSpan) }

// IsAfter reports whether m's qspan lies entirely after other's.
func (m *Match) IsAfter(other *Match) bool { return m.QSpan.IsAfter(other.QSpan) }

// Clone returns a shallow copy safe to mutate independently (refiner merges
// build a new Match rather than mutating one that another pass might still
// reference).
func (m *Match) Clone() *Match {
	cp := *m
	return &cp
}
