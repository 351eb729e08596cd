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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scancode-go/licensedcode/index"
	"github.com/scancode-go/licensedcode/matchers"
	"github.com/scancode-go/licensedcode/rules"
	"github.com/scancode-go/licensedcode/spanset"
)

const gplRuleSource = `---
license_expression: gpl-2.0
license_expression_spdx: GPL-2.0-only
is_license_tag: yes
relevance: 100
---
GNU General Public License version 2
`

const gplWithExceptionRuleSource = `---
license_expression: gpl-2.0 WITH classpath-exception-2.0
license_expression_spdx: GPL-2.0-only WITH Classpath-exception-2.0
is_license_tag: yes
relevance: 100
---
GNU General Public License version 2 with the Classpath Exception
`

const mitRuleSourceRefine = `---
license_expression: mit
license_expression_spdx: MIT
is_license_text: yes
relevance: 100
---
Permission is hereby granted free of charge to copy the Software
`

func buildRefineTestIndex(t *testing.T) *index.Index {
	t.Helper()
	var corpus []*rules.Rule
	for id, src := range map[string]string{
		"gpl-2.0_1":                     gplRuleSource,
		"gpl-2.0-with-classpath-2.0_1":  gplWithExceptionRuleSource,
		"mit_1":                         mitRuleSourceRefine,
	} {
		r, err := rules.Load(id, []byte(src))
		require.NoError(t, err)
		corpus = append(corpus, r)
	}
	ix, err := index.Build(corpus)
	require.NoError(t, err)
	return ix
}

func ruleNamed(ix *index.Index, expr string) *rules.Rule {
	r, _ := ix.RuleByExpression(expr)
	return r
}

func TestContainedMatchesSubsumesBareUnderWithCompound(t *testing.T) {
	ix := buildRefineTestIndex(t)
	gpl := ruleNamed(ix, "gpl-2.0")
	gplWith := ruleNamed(ix, "gpl-2.0 WITH classpath-exception-2.0")
	require.NotNil(t, gpl)
	require.NotNil(t, gplWith)

	lineByPos := make([]int, 40)
	for i := range lineByPos {
		lineByPos[i] = 1 + i/10 // spread across several lines
	}

	bare := matchers.New(matchers.Aho, spanset.Range(10, 16), spanset.Range(0, gpl.Length), spanset.Range(10, 16), gpl, lineByPos)
	compound := matchers.New(matchers.Aho, spanset.Range(0, 20), spanset.Range(0, gplWith.Length), spanset.Range(0, 20), gplWith, lineByPos)

	out := passContainedMatches([]*matchers.Match{bare, compound})
	require.Len(t, out, 1)
	assert.Equal(t, gplWith.Identifier, out[0].RuleIdentifier)
}

func TestMergeJoinsAdjacentSameRuleMatches(t *testing.T) {
	ix := buildRefineTestIndex(t)
	mit := ruleNamed(ix, "mit")
	require.NotNil(t, mit)
	lineByPos := make([]int, 20)

	a := matchers.New(matchers.Seq, spanset.New(0, 1, 2), spanset.New(0, 1, 2), spanset.New(0), mit, lineByPos)
	b := matchers.New(matchers.Seq, spanset.New(3, 4, 5), spanset.New(3, 4, 5), spanset.New(3), mit, lineByPos)

	out := mergePass([]*matchers.Match{a, b})
	require.Len(t, out, 1)
	assert.Equal(t, 6, out[0].MatchedLength)
}

func TestMergeDropsDuplicateSpan(t *testing.T) {
	ix := buildRefineTestIndex(t)
	mit := ruleNamed(ix, "mit")
	lineByPos := make([]int, 20)

	a := matchers.New(matchers.Seq, spanset.New(0, 1, 2), spanset.New(0, 1, 2), spanset.New(0), mit, lineByPos)
	b := matchers.New(matchers.Aho, spanset.New(0, 1, 2), spanset.New(0, 1, 2), spanset.New(0), mit, lineByPos)

	out := mergePass([]*matchers.Match{a, b})
	require.Len(t, out, 1)
}

func TestInvalidContainedUnknownDropped(t *testing.T) {
	ix := buildRefineTestIndex(t)
	mit := ruleNamed(ix, "mit")
	lineByPos := make([]int, 20)

	known := matchers.New(matchers.Hash, spanset.Range(0, 10), spanset.Range(0, mit.Length), spanset.Range(0, 10), mit, lineByPos)

	unknownRule := &rules.Rule{Rid: -1, Identifier: "unknown", LicenseExpression: "unknown", HasUnknown: true, Relevance: 50, Length: 4}
	unknown := matchers.New(matchers.Unknown, spanset.New(3, 4, 5, 6), spanset.Range(0, 4), spanset.New(3, 4, 5, 6), unknownRule, lineByPos)

	out := passInvalidContainedUnknown([]*matchers.Match{known, unknown})
	require.Len(t, out, 1)
	assert.Equal(t, matchers.Hash, out[0].Matcher)
}

func TestInvalidContainedUnknownKeptWhenNotContained(t *testing.T) {
	ix := buildRefineTestIndex(t)
	mit := ruleNamed(ix, "mit")
	lineByPos := make([]int, 40)

	known := matchers.New(matchers.Hash, spanset.Range(0, 10), spanset.Range(0, mit.Length), spanset.Range(0, 10), mit, lineByPos)

	unknownRule := &rules.Rule{Rid: -1, Identifier: "unknown", LicenseExpression: "unknown", HasUnknown: true, Relevance: 50, Length: 6}
	unknown := matchers.New(matchers.Unknown, spanset.Range(20, 26), spanset.Range(0, 6), spanset.Range(20, 26), unknownRule, lineByPos)

	out := passInvalidContainedUnknown([]*matchers.Match{known, unknown})
	require.Len(t, out, 2)
}

func TestRefineIsIdempotent(t *testing.T) {
	ix := buildRefineTestIndex(t)
	gpl := ruleNamed(ix, "gpl-2.0")
	gplWith := ruleNamed(ix, "gpl-2.0 WITH classpath-exception-2.0")
	lineByPos := make([]int, 40)

	bare := matchers.New(matchers.Aho, spanset.Range(10, 16), spanset.Range(0, gpl.Length), spanset.Range(10, 16), gpl, lineByPos)
	compound := matchers.New(matchers.Aho, spanset.Range(0, 20), spanset.Range(0, gplWith.Length), spanset.Range(0, 20), gplWith, lineByPos)

	once := Refine([]*matchers.Match{bare, compound}, ix)
	twice := Refine(once, ix)

	require.Len(t, once, len(twice))
	for i := range once {
		assert.Equal(t, once[i].RuleIdentifier, twice[i].RuleIdentifier)
		assert.True(t, once[i].QSpan.Equal(twice[i].QSpan))
	}
}
