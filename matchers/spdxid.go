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

package matchers

import (
	"regexp"
	"sort"
	"strings"

	"github.com/scancode-go/licensedcode/expr"
	"github.com/scancode-go/licensedcode/index"
	"github.com/scancode-go/licensedcode/query"
	"github.com/scancode-go/licensedcode/spanset"
	"github.com/scancode-go/licensedcode/token"
)

var spdxLineRe = regexp.MustCompile(`(?i)SPDX-License-Identifier\s*:\s*(.+)`)

// MatchSPDXID finds "SPDX-License-Identifier: <expr>" lines, parses the
// expression, and synthesizes one Match per resolvable leaf symbol (a bare
// license key or an atomic WITH-compound). The synthesized match's qspan
// is approximated as the tail of the line's tokens -- the label text
// ("SPDX License Identifier") always tokenizes to words that sort before
// the expression's own words in read order, so taking the trailing N
// positions (N = the tokenized length of the raw expression text) isolates
// the expression itself without needing to align individual symbols to
// individual tokens one by one.
func MatchSPDXID(text string, q *query.Query, ix *index.Index) []*Match {
	var out []*Match
	for lineNum, lineText := range lines(text) {
		sub := spdxLineRe.FindStringSubmatch(lineText)
		if sub == nil {
			continue
		}
		exprText := cleanTrailingComment(sub[1])
		node, err := expr.Parse(exprText)
		if err != nil {
			continue
		}

		linePositions := positionsOnLine(q.LineByPos, lineNum)
		if len(linePositions) == 0 {
			continue
		}
		n := len(token.Tokenize(exprText, false).Words)
		if n > len(linePositions) {
			n = len(linePositions)
		}
		exprPositions := linePositions[len(linePositions)-n:]
		qspan := spanset.New(exprPositions...)
		hispan := legaleseSpan(q, qspan, ix)

		for _, sym := range flattenSymbols(node) {
			key := expr.Render(sym)
			rule, ok := ix.RuleByExpression(key)
			if !ok {
				continue
			}
			ispan := spanset.Range(0, rule.Length)
			out = append(out, New(SpdxID, qspan, ispan, hispan, rule, q.LineByPos))
		}
	}
	return out
}

// flattenSymbols decomposes And/Or into their operands recursively; a With
// node or a bare leaf is returned as a single unit, since a rule's
// license_expression may itself be a WITH-compound.
func flattenSymbols(n expr.Node) []expr.Node {
	switch v := n.(type) {
	case expr.And:
		var out []expr.Node
		for _, op := range v.Operands {
			out = append(out, flattenSymbols(op)...)
		}
		return out
	case expr.Or:
		var out []expr.Node
		for _, op := range v.Operands {
			out = append(out, flattenSymbols(op)...)
		}
		return out
	default:
		return []expr.Node{n}
	}
}

func lines(text string) map[int]string {
	out := make(map[int]string)
	for i, l := range strings.Split(text, "\n") {
		out[i+1] = l
	}
	return out
}

func positionsOnLine(lineByPos []int, line int) []int {
	var pos []int
	for i, l := range lineByPos {
		if l == line {
			pos = append(pos, i)
		}
	}
	sort.Ints(pos)
	return pos
}

// cleanTrailingComment trims common comment-closing tails ("*/", "-->",
// "#}", "*)") and surrounding whitespace/quotes from an extracted expression.
func cleanTrailingComment(s string) string {
	s = strings.TrimSpace(s)
	for _, suffix := range []string{"*/", "-->", "#}", "*)"} {
		if idx := strings.Index(s, suffix); idx >= 0 {
			s = s[:idx]
		}
	}
	return strings.Trim(strings.TrimSpace(s), `"'`)
}
