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

// Package detect assembles refined matches into Detections, and provides
// the Engine that drives the whole tokenize/match/refine/assemble pipeline
// end to end over a single piece of text.
package detect

// Detection log tags, per the external detection output contract.
const (
	LogPerfectDetection       = "perfect-detection"
	LogPossibleFalsePositive  = "possible-false-positive"
	LogLicenseClues           = "license-clues"
	LogImperfectMatchCoverage = "imperfect-match-coverage"
	LogUnknownMatch           = "unknown-match"
	LogExtraWords             = "extra-words"
)

// Detection is one grouped, scored license finding.
type Detection struct {
	LicenseExpression     string           `json:"license_expression"`
	LicenseExpressionSPDX string           `json:"license_expression_spdx"`
	Score                 float64          `json:"score"`
	MatchCoverage         float64          `json:"match_coverage"`
	StartLine             int              `json:"start_line"`
	EndLine               int              `json:"end_line"`
	Identifier            string           `json:"identifier"`
	DetectionLog          []string         `json:"detection_log"`
	Matches               []DetectionMatch `json:"matches"`
}

// DetectionMatch is one member match contributing to a Detection.
type DetectionMatch struct {
	LicenseExpression string  `json:"license_expression"`
	RuleIdentifier    string  `json:"rule_identifier"`
	Matcher           string  `json:"matcher"`
	Score             float64 `json:"score"`
	MatchCoverage     float64 `json:"match_coverage"`
	MatchedLength     int     `json:"matched_length"`
	StartLine         int     `json:"start_line"`
	EndLine           int     `json:"end_line"`
	StartToken        int     `json:"start_token"`
	EndToken          int     `json:"end_token"`
	MatchedText       string  `json:"matched_text,omitempty"`
}
