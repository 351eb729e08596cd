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

// Contains reports whether every literal symbol of inner is present as a
// top-level member (or choice member, for an Or) of outer. A With-compound
// atom counts as present in outer both as itself and, for the purpose of
// subsuming a bare license match under it, via its Left operand -- so
// Contains("gpl-2.0 WITH classpath-exception-2.0", "gpl-2.0") is true. This
// drives the refiner's containment pass (spec S4): a standalone license
// match is subsumed by a WITH-compound match sharing the same left side.
func Contains(outer, inner string) bool {
	outerNode, err := Parse(outer)
	if err != nil {
		return false
	}
	innerNode, err := Parse(inner)
	if err != nil {
		return false
	}
	return contains(Simplify(outerNode), Simplify(innerNode))
}

func contains(outer, inner Node) bool {
	members := topLevelMembers(outer)
	innerMembers := topLevelMembers(inner)
	for _, im := range innerMembers {
		if !memberPresent(members, im) {
			return false
		}
	}
	return true
}

// topLevelMembers decomposes a node into its outermost choice/conjunction
// members: Or and And both decompose one level; a With or a bare leaf is its
// own single member.
func topLevelMembers(n Node) []Node {
	switch v := n.(type) {
	case Or:
		return v.Operands
	case And:
		return v.Operands
	default:
		return []Node{n}
	}
}

func memberPresent(haystack []Node, needle Node) bool {
	needleKey := Render(needle)
	for _, m := range haystack {
		if Render(m) == needleKey {
			return true
		}
		if w, ok := m.(With); ok && Render(w.Left) == needleKey {
			return true
		}
	}
	return false
}
