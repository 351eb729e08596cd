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

// Simplify flattens nested same-operator And/Or chains and deduplicates
// operands by their rendered string, preserving first-occurrence order.
// With operands are treated as indivisible wholes: a With subtree is never
// decomposed, only compared as a unit. AND is never distributed over OR or
// vice versa -- choices presented by OR are preserved exactly.
func Simplify(n Node) Node {
	switch v := n.(type) {
	case And:
		return simplifyChain(v.Operands, true)
	case Or:
		return simplifyChain(v.Operands, false)
	case With:
		return With{Left: Simplify(v.Left), Right: Simplify(v.Right)}
	default:
		return n
	}
}

func simplifyChain(operands []Node, isAnd bool) Node {
	var flat []Node
	for _, op := range operands {
		op = Simplify(op)
		switch child := op.(type) {
		case And:
			if isAnd {
				flat = append(flat, child.Operands...)
				continue
			}
		case Or:
			if !isAnd {
				flat = append(flat, child.Operands...)
				continue
			}
		}
		flat = append(flat, op)
	}

	seen := make(map[string]bool, len(flat))
	var deduped []Node
	for _, op := range flat {
		key := Render(op)
		if seen[key] {
			continue
		}
		seen[key] = true
		deduped = append(deduped, op)
	}

	if len(deduped) == 1 {
		return deduped[0]
	}
	if isAnd {
		return And{Operands: deduped}
	}
	return Or{Operands: deduped}
}

// Combine returns the flat And/Or of expressions (already-rendered strings,
// reparsed) in input order after simplification. A single-element input
// collapses to that element. Unparseable elements are treated as opaque
// License leaves (their literal text, lower-cased) rather than failing the
// whole combination, since callers assemble this from rule expressions that
// are already known-good at rule-load time.
func Combine(expressions []string, op Operator) string {
	nodes := make([]Node, 0, len(expressions))
	for _, e := range expressions {
		n, err := Parse(e)
		if err != nil {
			n = newSymbol(e)
		}
		nodes = append(nodes, n)
	}
	if len(nodes) == 0 {
		return ""
	}
	if len(nodes) == 1 {
		return Render(Simplify(nodes[0]))
	}
	var combined Node
	if op == OperatorAnd {
		combined = And{Operands: nodes}
	} else {
		combined = Or{Operands: nodes}
	}
	return Render(Simplify(combined))
}

// Operator selects which binary operator Combine joins expressions with.
type Operator int

const (
	OperatorAnd Operator = iota
	OperatorOr
)
