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

// Package rules loads the frontmatter-annotated rule text files that make up
// the corpus a Rule Index is built from.
package rules

import (
	"strings"

	"github.com/scancode-go/licensedcode/token"
)

// Rule is an immutable record describing one entry in the rule corpus. Load
// fills in Words (the tokenized body) and leaves Rid at -1 and the id-derived
// fields (Tokens, Length, HighLength) unset; a Rule Index assigns Rid and
// fills in the id-derived fields once the corpus vocabulary is known, per
// the rule index build process.
type Rule struct {
	Rid int // assigned by the index; -1 until then

	Identifier            string
	LicenseExpression     string
	LicenseExpressionSPDX string

	IsLicenseText      bool
	IsLicenseNotice    bool
	IsLicenseReference bool
	IsLicenseTag       bool
	IsLicenseIntro     bool
	IsLicenseClue      bool
	IsRequiredPhrase   bool
	IsContinuous       bool
	IsFalsePositive    bool
	HasUnknown         bool

	Relevance       int // 0..100
	MinimumCoverage int // 0..100

	ReferencedFilenames []string

	Text  string   // raw rule body, as loaded
	Words []string // tokenized body (stopwords removed, case-folded)

	// RequiredPhraseSpans are half-open [start,end) ranges over Words that a
	// {{...}} bracket in Text enclosed. Monotonic and non-overlapping.
	RequiredPhraseSpans []token.PhraseSpan

	// Filled in by the index once the corpus Vocabulary exists.
	Tokens     []token.ID
	Length     int
	HighLength int
}

// validate checks the invariants from the data model section: the
// intro/clue/text/notice/reference/tag flags are mutually exclusive, and
// has_unknown iff "unknown" appears in the license expression.
func (r *Rule) validate() error {
	exclusive := 0
	for _, b := range []bool{
		r.IsLicenseText, r.IsLicenseNotice, r.IsLicenseReference,
		r.IsLicenseTag, r.IsLicenseIntro, r.IsLicenseClue,
	} {
		if b {
			exclusive++
		}
	}
	if exclusive > 1 {
		return &invalidRuleError{r.Identifier, "is_license_{text,notice,reference,tag,intro,clue} are mutually exclusive"}
	}
	if r.HasUnknown != containsUnknown(r.LicenseExpression) {
		return &invalidRuleError{r.Identifier, "has_unknown must match presence of \"unknown\" in license_expression"}
	}
	for i, sp := range r.RequiredPhraseSpans {
		if sp.Start < 0 || sp.End > len(r.Words) || sp.Start >= sp.End {
			return &invalidRuleError{r.Identifier, "required phrase span out of bounds"}
		}
		if i > 0 && sp.Start < r.RequiredPhraseSpans[i-1].End {
			return &invalidRuleError{r.Identifier, "required phrase spans must be monotonic and non-overlapping"}
		}
	}
	return nil
}

func containsUnknown(expr string) bool {
	return strings.Contains(expr, "unknown")
}

type invalidRuleError struct {
	identifier string
	reason     string
}

func (e *invalidRuleError) Error() string {
	return "rule " + e.identifier + ": " + e.reason
}
