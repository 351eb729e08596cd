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

	"github.com/scancode-go/licensedcode/expr"
	"github.com/scancode-go/licensedcode/matchers"
)

// passContainedMatches drops any match whose qspan is a subset of a
// higher-priority kept match's qspan, or whose license expression is
// subsumed (per expr.Contains) by an overlapping keeper's expression -- the
// mechanism that collapses a bare "gpl-2.0" match into a surrounding
// "gpl-2.0 WITH classpath-exception-2.0" match (spec scenario S4).
func passContainedMatches(in []*matchers.Match) []*matchers.Match {
	sorted := append([]*matchers.Match(nil), in...)
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
		return a.RuleIdentifier < b.RuleIdentifier
	})

	var kept []*matchers.Match
	for _, m := range sorted {
		subsumed := false
		for _, k := range kept {
			if k.QSpan.Contains(m.QSpan) {
				subsumed = true
				break
			}
			if k.QSpan.Overlaps(m.QSpan) && expr.Contains(k.LicenseExpression, m.LicenseExpression) {
				subsumed = true
				break
			}
		}
		if !subsumed {
			kept = append(kept, m)
		}
	}
	return kept
}

// passOverlapping resolves pairs of matches whose qspans overlap without
// one containing the other (containment is already handled by
// passContainedMatches). It returns the matches kept and the ones dropped,
// so passRestore can re-examine the dropped set once the kept set settles.
func passOverlapping(in []*matchers.Match) (kept, discarded []*matchers.Match) {
	sorted := append([]*matchers.Match(nil), in...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Score != b.Score {
			return a.Score > b.Score
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

	for _, m := range sorted {
		drop := false
		for _, k := range kept {
			if !m.QSpan.Overlaps(k.QSpan) {
				continue
			}
			if k.QSpan.Contains(m.QSpan) || m.QSpan.Contains(k.QSpan) {
				continue // containment, not this pass's concern
			}
			drop = true
			break
		}
		if drop {
			discarded = append(discarded, m)
		} else {
			kept = append(kept, m)
		}
	}
	return kept, discarded
}

// passRestore re-admits discarded matches that no longer overlap any kept
// match, since an earlier removal in the same round can free up space for a
// later discard. The caller runs this twice per the pipeline's fixed point.
func passRestore(kept, discarded []*matchers.Match) (newKept, stillDiscarded []*matchers.Match) {
	newKept = append([]*matchers.Match(nil), kept...)
	for _, d := range discarded {
		free := true
		for _, k := range newKept {
			if d.QSpan.Overlaps(k.QSpan) {
				free = false
				break
			}
		}
		if free {
			newKept = append(newKept, d)
		} else {
			stillDiscarded = append(stillDiscarded, d)
		}
	}
	return newKept, stillDiscarded
}
