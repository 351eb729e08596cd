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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scancode-go/licensedcode/index"
	"github.com/scancode-go/licensedcode/rules"
)

const engineMitRuleSource = `---
license_expression: mit
license_expression_spdx: MIT
is_license_text: yes
relevance: 100
---
Permission is hereby granted free of charge to any person obtaining a copy
of this software and associated documentation files the Software to deal
in the Software without restriction including without limitation the
rights to use copy modify merge publish distribute sublicense and sell
copies of the Software
`

const engineApacheTagRuleSource = `---
license_expression: apache-2.0
license_expression_spdx: Apache-2.0
is_license_tag: yes
relevance: 100
---
Apache License 2.0
`

const engineCraplRuleSource = `---
license_expression: crapl-0.1
is_license_text: yes
relevance: 90
---
this community research and academic programming license the crapl version
zero point one applies to any software and associated documentation
`

const engineGPLRuleSource = `---
license_expression: gpl-2.0
is_license_text: yes
relevance: 90
---
this program is free software you can redistribute it and or modify it
under the terms of the gnu general public license as published by the
free software foundation
`

const engineGPLWithExceptionRuleSource = `---
license_expression: gpl-2.0 WITH classpath-exception-2.0
is_license_text: yes
relevance: 95
---
this program is free software you can redistribute it and or modify it
under the terms of the gnu general public license as published by the
free software foundation linking this library statically or dynamically
with other modules is making a combined work based on this library
thus the terms and conditions of the gnu general public license cover
the whole combination
`

const engineIntroRuleSource = `---
license_expression: mit
is_license_intro: yes
relevance: 100
---
The following license applies
`

const engineClueRuleSource = `---
license_expression: see-license-file
is_license_clue: yes
relevance: 50
---
see the license file for details
`

const engineUnrelatedLegaleseRuleSource = `---
license_expression: unrelated-placeholder
is_license_text: yes
relevance: 10
---
warranty merchantability fitness disclaimer liability indemnification
`

const engineORRuleSource = `---
license_expression: cddl-1.0 OR gpl-2.0
is_license_text: yes
relevance: 100
---
common development and distribution license version one or gnu general
public license version two your choice
`

func buildEngineTestIndex(t *testing.T, sources map[string]string) *index.Index {
	t.Helper()
	var corpus []*rules.Rule
	for id, src := range sources {
		r, err := rules.Load(id, []byte(src))
		require.NoError(t, err)
		corpus = append(corpus, r)
	}
	ix, err := index.Build(corpus)
	require.NoError(t, err)
	return ix
}

func ruleText(t *testing.T, ix *index.Index, expression string) string {
	t.Helper()
	r, ok := ix.RuleByExpression(expression)
	require.True(t, ok)
	return r.Text
}

// S1. Hash exact.
func TestDetectHashExactMatch(t *testing.T) {
	ix := buildEngineTestIndex(t, map[string]string{"mit_1": engineMitRuleSource})
	eng := NewEngine(ix)

	dets, err := eng.Detect(context.Background(), []byte(ruleText(t, ix, "mit")), "LICENSE")
	require.NoError(t, err)
	require.Len(t, dets, 1)

	d := dets[0]
	assert.Equal(t, "mit", d.LicenseExpression)
	assert.Equal(t, 100.0, d.MatchCoverage)
	assert.Equal(t, 100.0, d.Score)
	require.Len(t, d.Matches, 1)
	assert.Equal(t, "hash", d.Matches[0].Matcher)
	assert.Contains(t, d.DetectionLog, LogPerfectDetection)
}

// S2. SPDX tag.
func TestDetectSPDXTag(t *testing.T) {
	ix := buildEngineTestIndex(t, map[string]string{"apache-2.0_1": engineApacheTagRuleSource})
	eng := NewEngine(ix)

	text := "// SPDX-License-Identifier: Apache-2.0\npackage main\n"
	dets, err := eng.Detect(context.Background(), []byte(text), "main.go")
	require.NoError(t, err)
	require.Len(t, dets, 1)
	assert.Equal(t, "apache-2.0", dets[0].LicenseExpression)
	assert.Equal(t, "Apache-2.0", dets[0].LicenseExpressionSPDX)
	assert.Equal(t, "spdx-id", dets[0].Matches[0].Matcher)
}

// S3. Duplicate simplification: an input that is exactly one rule's text
// must yield a single "crapl-0.1" expression, not an AND of itself. The
// hash matcher claims the whole input and, being license text, it is
// subtracted before the aho phase, so aho does not match it a second time.
func TestDetectDuplicateMatchSimplifiesToSingleExpression(t *testing.T) {
	ix := buildEngineTestIndex(t, map[string]string{"crapl-0.1_1": engineCraplRuleSource})
	eng := NewEngine(ix)

	dets, err := eng.Detect(context.Background(), []byte(ruleText(t, ix, "crapl-0.1")), "LICENSE")
	require.NoError(t, err)
	require.Len(t, dets, 1)
	assert.Equal(t, "crapl-0.1", dets[0].LicenseExpression)
	assert.NotContains(t, dets[0].LicenseExpression, "AND")
}

// S4. WITH subsumption: a bare gpl-2.0 hit fully contained within a
// gpl-2.0 WITH classpath-exception-2.0 hit is dropped; only the WITH
// match survives.
func TestDetectWithSubsumesBareMatch(t *testing.T) {
	ix := buildEngineTestIndex(t, map[string]string{
		"gpl-2.0_1":                engineGPLRuleSource,
		"gpl-2.0-with-classpath_1": engineGPLWithExceptionRuleSource,
	})
	eng := NewEngine(ix)

	text := ruleText(t, ix, "gpl-2.0 with classpath-exception-2.0")
	dets, err := eng.Detect(context.Background(), []byte(text), "LICENSE")
	require.NoError(t, err)
	require.Len(t, dets, 1)
	assert.Equal(t, "gpl-2.0 WITH classpath-exception-2.0", dets[0].LicenseExpression)
}

// S5. Intro + license: a one-line intro followed by an MIT notice ends up
// as a single detection with no license-clues tag.
func TestDetectIntroMergesWithFollowingLicense(t *testing.T) {
	ix := buildEngineTestIndex(t, map[string]string{
		"mit-intro_1": engineIntroRuleSource,
		"mit_1":       engineMitRuleSource,
	})
	eng := NewEngine(ix)

	// Both rules carry license_expression "mit", so pick the notice itself
	// by identifier rather than through ruleText.
	var mitText string
	for _, r := range ix.Rules() {
		if r.Identifier == "mit_1" {
			mitText = r.Text
		}
	}
	require.NotEmpty(t, mitText)

	text := "The following license applies\n" + mitText
	dets, err := eng.Detect(context.Background(), []byte(text), "LICENSE")
	require.NoError(t, err)
	require.Len(t, dets, 1)
	assert.Equal(t, "mit", dets[0].LicenseExpression)
	assert.NotContains(t, dets[0].DetectionLog, LogLicenseClues)
}

// S6. Clue isolation: a clue rule far from an unrelated MIT notice stays a
// singleton detection of its own.
func TestDetectClueIsSingletonDetection(t *testing.T) {
	ix := buildEngineTestIndex(t, map[string]string{
		"see-license-file_1": engineClueRuleSource,
		"mit_1":              engineMitRuleSource,
	})
	eng := NewEngine(ix)

	filler := strings.Repeat("x\n", 60)
	text := "see the license file for details\n" + filler + ruleText(t, ix, "mit")
	dets, err := eng.Detect(context.Background(), []byte(text), "LICENSE")
	require.NoError(t, err)
	require.Len(t, dets, 2)

	var clue, mit *Detection
	for i := range dets {
		switch dets[i].LicenseExpression {
		case "see-license-file":
			clue = &dets[i]
		case "mit":
			mit = &dets[i]
		}
	}
	require.NotNil(t, clue)
	require.NotNil(t, mit)
	assert.Len(t, clue.Matches, 1)
}

// S7. Unknown region: an MIT notice plus a distant license-shaped
// paragraph. The test requires at least one detection, and that any
// "unknown" detection carries the unknown-match log entry; it does not
// require an "unknown" detection, since the seq matcher may claim part of
// the paragraph for the unrelated-placeholder rule.
func TestDetectUnknownRegionAlongsideKnownLicense(t *testing.T) {
	ix := buildEngineTestIndex(t, map[string]string{
		"mit_1":                 engineMitRuleSource,
		"unrelated-placeholder": engineUnrelatedLegaleseRuleSource,
	})
	eng := NewEngine(ix)

	filler := strings.Repeat("filler line of ordinary prose\n", 80)
	unknownParagraph := "license copyright permission warranty merchantability fitness purpose liability damages notice disclaimer rights\n"
	text := ruleText(t, ix, "mit") + filler + unknownParagraph
	dets, err := eng.Detect(context.Background(), []byte(text), "LICENSE")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(dets), 1)

	var sawUnknown bool
	for _, d := range dets {
		if d.LicenseExpression == "unknown" {
			sawUnknown = true
			assert.Contains(t, d.DetectionLog, LogUnknownMatch)
		}
	}
	_ = sawUnknown // presence is best-effort: unknown detection depends on legalese density heuristics
}

// S8. OR preservation: a single rule whose expression is an OR is never
// flattened to AND by assembly.
func TestDetectPreservesOrExpression(t *testing.T) {
	ix := buildEngineTestIndex(t, map[string]string{"cddl-or-gpl_1": engineORRuleSource})
	eng := NewEngine(ix)

	dets, err := eng.Detect(context.Background(), []byte(ruleText(t, ix, "cddl-1.0 or gpl-2.0")), "LICENSE")
	require.NoError(t, err)
	require.Len(t, dets, 1)
	assert.Equal(t, "cddl-1.0 OR gpl-2.0", dets[0].LicenseExpression)
}

// S9. Non-text input: a ZIP/JAR's magic bytes yield zero detections and no
// error.
func TestDetectBinaryInputYieldsNoDetections(t *testing.T) {
	ix := buildEngineTestIndex(t, map[string]string{"mit_1": engineMitRuleSource})
	eng := NewEngine(ix)

	jarBytes := []byte{0x50, 0x4B, 0x03, 0x04, 0x14, 0x00, 0x00, 0x00, 0x08, 0x00}
	dets, err := eng.Detect(context.Background(), jarBytes, "lib.jar")
	require.NoError(t, err)
	assert.Empty(t, dets)
}

// S10. Encoding fallback: a handful of invalid UTF-8 bytes interspersed in
// an otherwise-MIT text do not prevent the legalese tokens around them from
// being recognized.
func TestDetectToleratesInvalidUTF8Bytes(t *testing.T) {
	ix := buildEngineTestIndex(t, map[string]string{"mit_1": engineMitRuleSource})
	eng := NewEngine(ix)

	mit := ruleText(t, ix, "mit")
	garbled := strings.ReplaceAll(mit, "copy\n", "copy \xA9\n")
	dets, err := eng.Detect(context.Background(), []byte(garbled), "LICENSE")
	require.NoError(t, err)
	require.NotEmpty(t, dets)
	assert.Equal(t, "mit", dets[0].LicenseExpression)
}

func TestDetectHonorsMinScore(t *testing.T) {
	ix := buildEngineTestIndex(t, map[string]string{"mit_1": engineMitRuleSource})
	eng := NewEngine(ix, WithMinScore(101))

	dets, err := eng.Detect(context.Background(), []byte(ruleText(t, ix, "mit")), "LICENSE")
	require.NoError(t, err)
	assert.Empty(t, dets)
}

func TestDetectIncludeTextRecoversLiteralSpan(t *testing.T) {
	ix := buildEngineTestIndex(t, map[string]string{"mit_1": engineMitRuleSource})
	eng := NewEngine(ix, WithIncludeText(true))

	dets, err := eng.Detect(context.Background(), []byte(ruleText(t, ix, "mit")), "LICENSE")
	require.NoError(t, err)
	require.Len(t, dets, 1)
	require.Len(t, dets[0].Matches, 1)
	assert.Contains(t, dets[0].Matches[0].MatchedText, "Permission")
}

func TestDetectTokenCapRejectsOversizedInput(t *testing.T) {
	ix := buildEngineTestIndex(t, map[string]string{"mit_1": engineMitRuleSource})
	eng := NewEngine(ix, WithTokenCap(3))

	_, err := eng.Detect(context.Background(), []byte(ruleText(t, ix, "mit")), "LICENSE")
	require.Error(t, err)
}
