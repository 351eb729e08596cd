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

package expr

import "strings"

// Render prints n back into expression syntax. The top level is never
// wrapped in parentheses, a With node is never wrapped regardless of its
// parent, and And/Or operands are parenthesized only when the immediate
// parent binds at a different precedence than the operand itself.
func Render(n Node) string {
	return render(n, 0)
}

// render prints n as it would appear nested under a parent whose own
// precedence is minPrec; minPrec is 0 at the top level.
func render(n Node, minPrec int) string {
	switch v := n.(type) {
	case License:
		return v.Key
	case LicenseRef:
		return "LicenseRef-" + v.Key
	case With:
		// Atomic: render the operands' own precedence (With binds tighter
		// than And/Or so its operands are rendered with With's own
		// precedence as the floor), but With itself is never wrapped.
		return render(v.Left, precWith) + " WITH " + render(v.Right, precWith)
	case And:
		parts := make([]string, len(v.Operands))
		for i, op := range v.Operands {
			parts[i] = render(op, precAnd)
		}
		s := strings.Join(parts, " AND ")
		if minPrec != 0 && minPrec != precAnd {
			return "(" + s + ")"
		}
		return s
	case Or:
		parts := make([]string, len(v.Operands))
		for i, op := range v.Operands {
			parts[i] = render(op, precOr)
		}
		s := strings.Join(parts, " OR ")
		if minPrec != 0 && minPrec != precOr {
			return "(" + s + ")"
		}
		return s
	default:
		return ""
	}
}
