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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scancode-go/licensedcode/matchers"
	"github.com/scancode-go/licensedcode/rules"
	"github.com/scancode-go/licensedcode/spanset"
)

func mitRule() *rules.Rule {
	return &rules.Rule{
		Rid: 0, Identifier: "mit_1", LicenseExpression: "mit",
		LicenseExpressionSPDX: "MIT", IsLicenseText: true, Relevance: 100, Length: 10,
	}
}

func clueRule() *rules.Rule {
	return &rules.Rule{
		Rid: 1, Identifier: "see-license-file_1", LicenseExpression: "see-license-file",
		LicenseExpressionSPDX: "see-license-file", IsLicenseClue: true, Relevance: 50, Length: 6,
	}
}

func TestAssembleSingleExactMatchIsPerfectDetection(t *testing.T) {
	mit := mitRule()
	lineByPos := []int{1, 1, 1, 1, 1, 2, 2, 2, 2, 2}
	a := matchers.New(matchers.Hash, spanset.Range(0, 10), spanset.Range(0, 10), spanset.Range(0, 10), mit, lineByPos)

	dets := Assemble([]*matchers.Match{a}, 0)
	require.Len(t, dets, 1)
	assert.Equal(t, "mit", dets[0].LicenseExpression)
	assert.Contains(t, dets[0].DetectionLog, LogPerfectDetection)
}

func TestAssembleSplitsGroupsBeyondLineThreshold(t *testing.T) {
	mit := mitRule()
	lineByPos := make([]int, 40)
	for i := range lineByPos {
		lineByPos[i] = 1 + i // one token per line
	}

	// A different rule for b, so the two groups do not collapse into one
	// detection by sharing an identifier.
	apache := &rules.Rule{
		Rid: 2, Identifier: "apache-2.0_1", LicenseExpression: "apache-2.0",
		LicenseExpressionSPDX: "Apache-2.0", IsLicenseText: true, Relevance: 100, Length: 10,
	}

	a := matchers.New(matchers.Hash, spanset.Range(0, 5), spanset.Range(0, 10), spanset.Range(0, 5), mit, lineByPos)
	b := matchers.New(matchers.Hash, spanset.Range(30, 35), spanset.Range(0, 10), spanset.Range(30, 35), apache, lineByPos)

	dets := Assemble([]*matchers.Match{a, b}, 0)
	assert.Len(t, dets, 2)
}

func TestAssembleClueIsAlwaysItsOwnGroup(t *testing.T) {
	mit := mitRule()
	clue := clueRule()
	lineByPos := []int{1, 1, 1, 1, 1, 1, 2, 2, 2, 2, 2, 2}

	clueMatch := matchers.New(matchers.Aho, spanset.Range(0, 6), spanset.Range(0, 6), spanset.Range(0, 6), clue, lineByPos)
	mitMatch := matchers.New(matchers.Hash, spanset.Range(6, 12), spanset.Range(0, 10), spanset.Range(6, 12), mit, lineByPos)

	dets := Assemble([]*matchers.Match{clueMatch, mitMatch}, 0)
	require.Len(t, dets, 2)
}

func TestAssembleDropsBelowMinScore(t *testing.T) {
	mit := mitRule()
	mit.Relevance = 40
	lineByPos := []int{1, 1, 1}
	partial := matchers.New(matchers.Seq, spanset.New(0, 1), spanset.Range(0, 10), spanset.New(0), mit, lineByPos)

	dets := Assemble([]*matchers.Match{partial}, 90)
	assert.Empty(t, dets)
}

func TestAssembleFlagsImperfectCoverage(t *testing.T) {
	mit := mitRule()
	lineByPos := []int{1, 1, 1}
	partial := matchers.New(matchers.Seq, spanset.New(0, 1), spanset.Range(0, 10), spanset.New(0), mit, lineByPos)

	dets := Assemble([]*matchers.Match{partial}, 0)
	require.Len(t, dets, 1)
	assert.Contains(t, dets[0].DetectionLog, LogImperfectMatchCoverage)
	assert.NotContains(t, dets[0].DetectionLog, LogPerfectDetection)
}

func TestAssembleSortsHigherScoreFirst(t *testing.T) {
	mit := mitRule()
	apache := &rules.Rule{
		Rid: 2, Identifier: "apache-2.0_1", LicenseExpression: "apache-2.0",
		LicenseExpressionSPDX: "Apache-2.0", IsLicenseText: true, Relevance: 100, Length: 10,
	}
	lineByPos := make([]int, 60)
	for i := range lineByPos {
		lineByPos[i] = 1 + i
	}

	weak := matchers.New(matchers.Seq, spanset.New(0, 1), spanset.Range(0, 10), spanset.New(0), apache, lineByPos)
	strong := matchers.New(matchers.Hash, spanset.Range(40, 50), spanset.Range(0, 10), spanset.Range(40, 50), mit, lineByPos)

	dets := Assemble([]*matchers.Match{weak, strong}, 0)
	require.Len(t, dets, 2)
	assert.GreaterOrEqual(t, dets[0].Score, dets[1].Score)
}

func TestAssembleDedupesRepeatedOccurrenceOfSameRuleKeepingHigherScore(t *testing.T) {
	mit := mitRule()
	lineByPos := make([]int, 60)
	for i := range lineByPos {
		lineByPos[i] = 1 + i
	}

	weak := matchers.New(matchers.Seq, spanset.New(0, 1), spanset.Range(0, 10), spanset.New(0), mit, lineByPos)
	strong := matchers.New(matchers.Hash, spanset.Range(40, 50), spanset.Range(0, 10), spanset.Range(40, 50), mit, lineByPos)

	dets := Assemble([]*matchers.Match{weak, strong}, 0)
	require.Len(t, dets, 1)
	assert.Equal(t, 100.0, dets[0].Score)
}

func TestJoinSPDXDedupesAndJoins(t *testing.T) {
	assert.Equal(t, "MIT", joinSPDX([]string{"MIT", "MIT"}))
	assert.Equal(t, "MIT AND Apache-2.0", joinSPDX([]string{"MIT", "Apache-2.0", "MIT"}))
	assert.Empty(t, joinSPDX(nil))
}

func TestIdentifierForIsStableRegardlessOfRidOrder(t *testing.T) {
	a := identifierFor("mit", []int{2, 1})
	b := identifierFor("mit", []int{1, 2})
	assert.Equal(t, a, b)
}
