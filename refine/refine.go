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

// Package refine implements the fixed, purely-functional pass pipeline that
// reduces a matcher phase's raw matches to a coherent set: merging matches
// the matcher split across a rule, dropping matches too weak to trust, and
// resolving the matches left competing for the same region of the query.
// The engine runs the whole pipeline after each of the hash, spdx-id, and
// aho phases, and once more over all accumulated matches after the seq and
// unknown phases; ordering between passes is load-bearing and must not be
// reshuffled.
package refine

import (
	"github.com/scancode-go/licensedcode/index"
	"github.com/scancode-go/licensedcode/matchers"
)

// Refine runs the full fourteen-pass pipeline over matches and returns the
// surviving, possibly-merged set.
func Refine(matches []*matchers.Match, ix *index.Index) []*matchers.Match {
	m := mergePass(matches)         // 1. merge (distance-bounded)
	m = passRequiredPhrases(m)      // 2. required phrases
	m = passSpuriousSeq(m)          // 3. spurious low-density seq
	m = passBelowMinimumCoverage(m) // 4. below rule minimum coverage
	m = passSmallPredicates(m)      // 5. single-token/too-short/scattered/gibberish
	m = mergePass(m)                // 6. merge (again)
	m = passContainedMatches(m)     // 7. contained matches (first pass)

	kept, discarded := passOverlapping(m)          // 8. overlapping matches
	kept, discarded = passRestore(kept, discarded) // 9. restore non-overlapping (pass 1)
	kept, _ = passRestore(kept, discarded)         //    restore non-overlapping (pass 2)

	m = passContainedMatches(kept)        // 10. contained matches (second pass)
	m = passFalsePositives(m, ix)         // 11. false positives
	m = passLicenseListFalsePositives(m)  // 12. license lists false positives
	m = passInvalidContainedUnknown(m)    // 13. invalid-contained-unknown
	m = mergePass(m)                      // 14. final merge
	return m
}
