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

package rules

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"github.com/scancode-go/licensedcode/token"
)

// frontmatter mirrors the recognized YAML-like header keys from the rule
// file format. Unknown keys are ignored by yaml.Unmarshal, matching the
// "unknowns ignored" contract.
type frontmatter struct {
	LicenseExpression     string   `yaml:"license_expression"`
	LicenseExpressionSPDX string   `yaml:"license_expression_spdx"`
	IsLicenseText         bool     `yaml:"is_license_text"`
	IsLicenseNotice       bool     `yaml:"is_license_notice"`
	IsLicenseReference    bool     `yaml:"is_license_reference"`
	IsLicenseTag          bool     `yaml:"is_license_tag"`
	IsLicenseIntro        bool     `yaml:"is_license_intro"`
	IsLicenseClue         bool     `yaml:"is_license_clue"`
	IsRequiredPhrase      bool     `yaml:"is_required_phrase"`
	IsContinuous          bool     `yaml:"is_continuous"`
	IsFalsePositive       bool     `yaml:"is_false_positive"`
	Relevance             *int     `yaml:"relevance"`
	MinimumCoverage       *int     `yaml:"minimum_coverage"`
	ReferencedFilenames   []string `yaml:"referenced_filenames"`
}

const delimiter = "---"

// Load parses a single rule file's contents. identifier is the stable,
// human-readable name recorded on the Rule (conventionally the file's base
// name without extension).
func Load(identifier string, contents []byte) (*Rule, error) {
	text := string(contents)
	lines := strings.SplitN(text, "\n", -1)

	if len(lines) == 0 || strings.TrimSpace(lines[0]) != delimiter {
		return nil, &invalidRuleError{identifier, "missing frontmatter delimiter"}
	}

	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == delimiter {
			end = i
			break
		}
	}
	if end < 0 {
		return nil, &invalidRuleError{identifier, "unterminated frontmatter"}
	}

	var fm frontmatter
	header := strings.Join(lines[1:end], "\n")
	if err := yaml.Unmarshal([]byte(header), &fm); err != nil {
		return nil, &invalidRuleError{identifier, "malformed frontmatter: " + err.Error()}
	}
	if fm.LicenseExpression == "" {
		return nil, &invalidRuleError{identifier, "license_expression is required"}
	}

	body := strings.Join(lines[end+1:], "\n")
	body = strings.TrimPrefix(body, "\n")

	relevance := 100
	if fm.Relevance != nil {
		relevance = *fm.Relevance
	}
	minCoverage := 0
	if fm.MinimumCoverage != nil {
		minCoverage = *fm.MinimumCoverage
	}

	spdx := fm.LicenseExpressionSPDX
	if spdx == "" {
		spdx = fm.LicenseExpression
	}

	tokenized := token.Tokenize(body, fm.IsRequiredPhrase)

	r := &Rule{
		Rid:                   -1,
		Identifier:            identifier,
		LicenseExpression:     strings.ToLower(strings.TrimSpace(fm.LicenseExpression)),
		LicenseExpressionSPDX: spdx,
		IsLicenseText:         fm.IsLicenseText,
		IsLicenseNotice:       fm.IsLicenseNotice,
		IsLicenseReference:    fm.IsLicenseReference,
		IsLicenseTag:          fm.IsLicenseTag,
		IsLicenseIntro:        fm.IsLicenseIntro,
		IsLicenseClue:         fm.IsLicenseClue,
		IsRequiredPhrase:      fm.IsRequiredPhrase,
		IsContinuous:          fm.IsContinuous,
		IsFalsePositive:       fm.IsFalsePositive,
		HasUnknown:            strings.Contains(fm.LicenseExpression, "unknown"),
		Relevance:             relevance,
		MinimumCoverage:       minCoverage,
		ReferencedFilenames:   fm.ReferencedFilenames,
		Text:                  body,
		Words:                 tokenized.Words,
		RequiredPhraseSpans:   tokenized.PhraseSpans,
	}
	if err := r.validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// LoadDir reads every *.RULE file in dir and parses it with Load. Rule
// identifiers are the file's base name with the extension stripped. Errors
// from individual files are aggregated with go-multierror so one malformed
// rule doesn't hide problems with the rest of the corpus; LoadDir returns a
// partial, but still usable, slice of Rules alongside the aggregated error.
func LoadDir(dir string) ([]*Rule, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".RULE") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names) // deterministic load order regardless of directory iteration order

	var result *multierror.Error
	out := make([]*Rule, 0, len(names))
	for _, name := range names {
		contents, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		identifier := strings.TrimSuffix(name, ".RULE")
		rule, err := Load(identifier, contents)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		out = append(out, rule)
	}
	return out, result.ErrorOrNil()
}
