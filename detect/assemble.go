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
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/scancode-go/licensedcode/expr"
	"github.com/scancode-go/licensedcode/matchers"
)

// linesThreshold is the maximum line gap between two matches that still
// belong to the same detection group.
const linesThreshold = 4

// licenseClueCoverageCeiling is the coverage below which every member of a
// group must fall for the group to be logged as license-clues.
const licenseClueCoverageCeiling = 60.0

// extraWordsSlack is how far a detection's weighted score may fall short of
// its coverage*relevance product before it's logged as carrying extra words.
const extraWordsSlack = 0.01

// matcherPreference orders matcher tags for the tie-break §4.8 describes:
// spdx-id first (an explicit, unambiguous author declaration), then the
// exact matchers, then the approximate ones.
var matcherPreference = map[matchers.Tag]int{
	matchers.SpdxID:  0,
	matchers.Hash:    1,
	matchers.Aho:     2,
	matchers.Seq:     3,
	matchers.Unknown: 4,
}

// Assemble groups refined matches (already sorted by start_line) into
// Detections, computes their aggregate fields and log tags, and applies the
// caller's minimum-score floor, identifier dedup, and final ranking.
func Assemble(matches []*matchers.Match, minScore float64) []Detection {
	groups := group(matches)

	out := make([]Detection, 0, len(groups))
	for _, g := range groups {
		out = append(out, assembleGroup(g))
	}

	out = dropBelowMinScore(out, minScore)
	out = dedupeByIdentifier(out)

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if pa, pb := matcherPreferenceOf(a), matcherPreferenceOf(b); pa != pb {
			return pa < pb
		}
		if a.MatchCoverage != b.MatchCoverage {
			return a.MatchCoverage > b.MatchCoverage
		}
		return a.Identifier < b.Identifier
	})
	return out
}

// group partitions matches into detection groups per §4.8's rules, applied
// in priority order: an intro always continues its successor's group; a
// clue never accumulates a follower, so it flushes as soon as the next
// match arrives; an intro or a clue as the current match flushes the prior
// group before starting its own; otherwise a line gap beyond linesThreshold
// flushes.
func group(matches []*matchers.Match) [][]*matchers.Match {
	sorted := append([]*matchers.Match(nil), matches...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].StartLine < sorted[j].StartLine })

	var groups [][]*matchers.Match
	var cur []*matchers.Match

	flush := func() {
		if len(cur) > 0 {
			groups = append(groups, cur)
			cur = nil
		}
	}

	for _, m := range sorted {
		switch {
		case len(cur) == 0:
			cur = append(cur, m)

		case cur[len(cur)-1].IsLicenseIntro:
			cur = append(cur, m)

		case cur[len(cur)-1].IsLicenseClue:
			flush()
			cur = append(cur, m)

		case m.IsLicenseIntro:
			flush()
			cur = append(cur, m)

		case m.IsLicenseClue:
			flush()
			groups = append(groups, []*matchers.Match{m})

		case m.StartLine > cur[len(cur)-1].EndLine+linesThreshold:
			flush()
			cur = append(cur, m)

		default:
			cur = append(cur, m)
		}
	}
	flush()
	return groups
}

func assembleGroup(members []*matchers.Match) Detection {
	var weightedScore, weightedCoverage, weightedRelevance float64
	var totalWeight float64
	startLine, endLine := members[0].StartLine, members[0].EndLine
	internalExprs := make([]string, 0, len(members))
	spdxExprs := make([]string, 0, len(members))
	rids := make([]int, 0, len(members))

	det := Detection{Matches: make([]DetectionMatch, 0, len(members))}

	allExact100NoUnknown := true
	anyBelow100 := false
	allBelow60 := true
	anyUnknown := false
	anyPossibleFP := false

	for _, m := range members {
		weight := float64(m.MatchedLength)
		if weight <= 0 {
			weight = 1
		}
		weightedScore += m.Score * weight
		weightedCoverage += m.MatchCoverage * weight
		weightedRelevance += float64(m.RuleRelevance) * weight
		totalWeight += weight

		if m.StartLine < startLine {
			startLine = m.StartLine
		}
		if m.EndLine > endLine {
			endLine = m.EndLine
		}

		internalExprs = append(internalExprs, m.LicenseExpression)
		spdxExprs = append(spdxExprs, m.LicenseExpressionSPDX)
		rids = append(rids, m.Rid)

		if m.MatchCoverage < 100 {
			anyBelow100 = true
		}
		if m.MatchCoverage >= licenseClueCoverageCeiling {
			allBelow60 = false
		}
		if m.HasUnknown {
			anyUnknown = true
		}
		if m.PossibleFalsePositive {
			anyPossibleFP = true
		}
		if (m.Matcher != matchers.Hash && m.Matcher != matchers.SpdxID && m.Matcher != matchers.Aho) ||
			m.MatchCoverage < 100 || m.HasUnknown {
			allExact100NoUnknown = false
		}

		det.Matches = append(det.Matches, DetectionMatch{
			LicenseExpression: m.LicenseExpression,
			RuleIdentifier:    m.RuleIdentifier,
			Matcher:           string(m.Matcher),
			Score:             m.Score,
			MatchCoverage:     m.MatchCoverage,
			MatchedLength:     m.MatchedLength,
			StartLine:         m.StartLine,
			EndLine:           m.EndLine,
			StartToken:        m.StartToken,
			EndToken:          m.EndToken,
		})
	}

	if totalWeight == 0 {
		totalWeight = 1
	}
	score := weightedScore / totalWeight
	if score > 100 {
		score = 100
	}
	coverage := weightedCoverage / totalWeight
	relevance := weightedRelevance / totalWeight

	det.Score = score
	det.MatchCoverage = coverage
	det.StartLine = startLine
	det.EndLine = endLine
	det.LicenseExpression = expr.Combine(internalExprs, expr.OperatorAnd)
	det.LicenseExpressionSPDX = joinSPDX(spdxExprs)
	det.Identifier = identifierFor(det.LicenseExpression, rids)

	var log []string
	if allExact100NoUnknown {
		log = append(log, LogPerfectDetection)
	}
	if anyPossibleFP {
		log = append(log, LogPossibleFalsePositive)
	}
	if allBelow60 {
		log = append(log, LogLicenseClues)
	}
	if anyBelow100 {
		log = append(log, LogImperfectMatchCoverage)
	}
	if anyUnknown {
		log = append(log, LogUnknownMatch)
	}
	if coverage*relevance/100-score > extraWordsSlack {
		log = append(log, LogExtraWords)
	}
	det.DetectionLog = log

	return det
}

// joinSPDX combines member SPDX expressions verbatim with AND, deduplicating
// by exact text and preserving first-occurrence order. Unlike the internal
// expression, SPDX text is never reparsed through expr.Parse: SPDX symbol
// casing (e.g. "MIT", "Apache-2.0") is significant and expr.Parse
// case-folds, which would corrupt it.
func joinSPDX(expressions []string) string {
	seen := make(map[string]bool, len(expressions))
	var out []string
	for _, e := range expressions {
		if e == "" || seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	return strings.Join(out, " AND ")
}

func identifierFor(renderedExpression string, rids []int) string {
	sorted := append([]int(nil), rids...)
	sort.Ints(sorted)
	parts := make([]string, len(sorted))
	for i, r := range sorted {
		parts[i] = fmt.Sprintf("%d", r)
	}
	h := sha1.Sum([]byte(renderedExpression + "|" + strings.Join(parts, ",")))
	return hex.EncodeToString(h[:])
}

func matcherPreferenceOf(d Detection) int {
	best := len(matcherPreference)
	for _, m := range d.Matches {
		if p, ok := matcherPreference[matchers.Tag(m.Matcher)]; ok && p < best {
			best = p
		}
	}
	return best
}

func dropBelowMinScore(in []Detection, minScore float64) []Detection {
	var out []Detection
	for _, d := range in {
		if d.Score < minScore {
			continue
		}
		out = append(out, d)
	}
	return out
}

// dedupeByIdentifier keeps, for each identifier, the detection with the
// higher score. Input order is otherwise preserved for the survivors before
// Assemble's final sort.
func dedupeByIdentifier(in []Detection) []Detection {
	best := make(map[string]Detection, len(in))
	var order []string
	for _, d := range in {
		existing, ok := best[d.Identifier]
		if !ok {
			order = append(order, d.Identifier)
			best[d.Identifier] = d
			continue
		}
		if d.Score > existing.Score {
			best[d.Identifier] = d
		}
	}
	out := make([]Detection, 0, len(order))
	for _, id := range order {
		out = append(out, best[id])
	}
	return out
}
