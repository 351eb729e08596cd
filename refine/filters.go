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
	"github.com/scancode-go/licensedcode/index"
	"github.com/scancode-go/licensedcode/matchers"
)

// passRequiredPhrases drops matches whose ispan fails to cover at least one
// token of every required phrase span the rule declares.
func passRequiredPhrases(in []*matchers.Match) []*matchers.Match {
	var out []*matchers.Match
	for _, m := range in {
		if len(m.RequiredPhraseSpans) == 0 {
			out = append(out, m)
			continue
		}
		covered := true
		for _, sp := range m.RequiredPhraseSpans {
			if !ispanTouches(m, sp) {
				covered = false
				break
			}
		}
		if covered {
			out = append(out, m)
		}
	}
	return out
}

func ispanTouches(m *matchers.Match, sp tokenRange) bool {
	for _, p := range m.ISpan.Elements() {
		if p >= sp.Start && p < sp.End {
			return true
		}
	}
	return false
}

// tokenRange avoids importing the token package just for PhraseSpan's field
// shape; matchers.Match.RequiredPhraseSpans already has Start/End ints.
type tokenRange = struct{ Start, End int }

// seqLowDensityHiLenFloor is the hilen below which a low-density seq match
// is dropped outright rather than tolerated as "anchored enough".
const seqLowDensityHiLenFloor = 3

// passSpuriousSeq drops seq matches whose matched tokens are too sparse
// across their own qspan to be credible, unless they carry enough legalese
// anchors to justify the sparsity. The density floor loosens as rule
// relevance rises: a high-relevance rule's scattered partial hit is still
// meaningful evidence, while a low-relevance rule needs denser coverage
// before it's worth keeping.
func passSpuriousSeq(in []*matchers.Match) []*matchers.Match {
	var out []*matchers.Match
	for _, m := range in {
		if m.Matcher != matchers.Seq {
			out = append(out, m)
			continue
		}
		mag := m.QSpan.Magnitude()
		if mag == 0 {
			continue
		}
		density := float64(m.MatchedLength) / float64(mag)
		threshold := 0.6 - 0.3*(float64(m.RuleRelevance)/100.0)
		if density < threshold && m.HiLen < seqLowDensityHiLenFloor {
			continue
		}
		out = append(out, m)
	}
	return out
}

// passBelowMinimumCoverage drops matches under the rule's declared
// minimum_coverage.
func passBelowMinimumCoverage(in []*matchers.Match) []*matchers.Match {
	var out []*matchers.Match
	for _, m := range in {
		if m.MatchCoverage < float64(m.RuleMinimumCoverage) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// scatteredLinesPerToken bounds how many lines a match may scatter across
// per matched token before it reads as noise rather than a contiguous hit.
const scatteredLinesPerToken = 3

// passSmallPredicates applies several small, independent rejection rules.
// Exact matchers (hash, spdx-id) are exempt throughout: their evidence is
// already maximal regardless of absolute length. Short license expressions
// (e.g. bare GPL tag rules) are deliberately NOT filtered by matched length
// here -- that filtering belongs to rule-length checks in the false-positive
// pass, not to a length heuristic that would also catch legitimate short
// exact matches.
func passSmallPredicates(in []*matchers.Match) []*matchers.Match {
	var out []*matchers.Match
	for _, m := range in {
		if isExact(m) {
			out = append(out, m)
			continue
		}
		if m.MatchedLength <= 1 && m.HiLen == 0 {
			continue // single-word gibberish: one low-value token, no anchor
		}
		if m.MatchedLength <= 1 {
			continue // single-token spurious
		}
		if m.RuleLength >= 5 && m.MatchedLength < 3 {
			continue // too short relative to a substantial rule
		}
		lines := m.EndLine - m.StartLine + 1
		if lines > m.MatchedLength*scatteredLinesPerToken {
			continue // scattered across too many lines for its evidence
		}
		out = append(out, m)
	}
	return out
}

func isExact(m *matchers.Match) bool {
	return m.Matcher == matchers.Hash || m.Matcher == matchers.SpdxID
}

// lowSignalScoreFloor is the score below which a very short rule's match is
// considered a low-signal path rather than solid evidence.
const lowSignalScoreFloor = 50.0

// falsePositiveLateLineThreshold matches the spec's "begins after line
// 1000" heuristic for unsupported late-file hits.
const falsePositiveLateLineThreshold = 1000

// passFalsePositives drops matches whose rule is an explicit false positive
// outright. The bare-short-rule and late-in-file heuristics are softer
// signals -- they flag PossibleFalsePositive rather than removing the match,
// so the assembler can surface a possible-false-positive detection_log entry
// without discarding evidence a caller might still want to see.
func passFalsePositives(in []*matchers.Match, ix *index.Index) []*matchers.Match {
	var out []*matchers.Match
	for _, m := range in {
		if ix.IsFalsePositive(m.Rid) {
			continue
		}
		heuristic := (m.RuleLength <= 3 && !isExact(m) && m.Score < lowSignalScoreFloor) ||
			(m.StartLine > falsePositiveLateLineThreshold && !m.IsLicenseText && !m.IsLicenseNotice)
		if heuristic {
			flagged := m.Clone()
			flagged.PossibleFalsePositive = true
			out = append(out, flagged)
			continue
		}
		out = append(out, m)
	}
	return out
}

// licenseListMinReferences is how many is_license_reference matches must be
// present before a file is treated as a license catalog/list.
const licenseListMinReferences = 8

// licenseListShortMatchCap is the matched-length ceiling below which a
// reference match inside a suspected license list is demoted.
const licenseListShortMatchCap = 3

// passLicenseListFalsePositives demotes short, partial reference matches
// when the file looks like an enumeration of many license references rather
// than a genuine detection (e.g. a SPDX license-list data file).
func passLicenseListFalsePositives(in []*matchers.Match) []*matchers.Match {
	refCount := 0
	for _, m := range in {
		if m.IsLicenseReference {
			refCount++
		}
	}
	if refCount < licenseListMinReferences {
		return in
	}

	var out []*matchers.Match
	for _, m := range in {
		if m.IsLicenseReference && m.MatchedLength <= licenseListShortMatchCap && m.MatchCoverage < 100 {
			continue
		}
		out = append(out, m)
	}
	return out
}

// passInvalidContainedUnknown drops an unknown-matcher match whose qspan is
// contained in some other, known-license match's qspan.
func passInvalidContainedUnknown(in []*matchers.Match) []*matchers.Match {
	var out []*matchers.Match
	for _, m := range in {
		if m.Matcher != matchers.Unknown {
			out = append(out, m)
			continue
		}
		contained := false
		for _, other := range in {
			if other == m || other.Matcher == matchers.Unknown {
				continue
			}
			if other.QSpan.Contains(m.QSpan) {
				contained = true
				break
			}
		}
		if !contained {
			out = append(out, m)
		}
	}
	return out
}
