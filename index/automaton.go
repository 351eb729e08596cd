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

package index

// automaton is a byte-oriented Aho-Corasick automaton that, unlike
// github.com/cloudflare/ahocorasick's Matcher, reports every occurrence's
// start offset rather than just which patterns matched somewhere. The
// rules_automaton needs start offsets to enforce the even-byte-offset
// (token-boundary) alignment check the aho matcher requires (spec 4.5,
// 4.9), which cloudflare/ahocorasick's existence-only API cannot provide;
// that component is used instead for the unknown_automaton, where only a
// hit count is needed (see unknown.go). This is the one piece of this
// engine grounded on the pack's general automaton-building idiom (seen in
// rule_engine.go's trie construction) rather than lifted from a pack
// dependency, because the position-reporting requirement is specific to
// this domain.
type automaton struct {
	goTo   []map[byte]int
	fail   []int
	output [][]int // node -> indices into patterns that end at this node
	patLen []int   // length of each pattern, for recovering start offsets
}

// buildAutomaton constructs an Aho-Corasick automaton over patterns.
func buildAutomaton(patterns [][]byte) *automaton {
	a := &automaton{
		goTo:   []map[byte]int{{}},
		fail:   []int{0},
		output: [][]int{nil},
	}
	for i, p := range patterns {
		a.patLen = append(a.patLen, len(p))
		a.insert(p, i)
	}
	a.buildFailLinks()
	return a
}

func (a *automaton) insert(pattern []byte, patternIdx int) {
	node := 0
	for _, b := range pattern {
		next, ok := a.goTo[node][b]
		if !ok {
			a.goTo = append(a.goTo, map[byte]int{})
			a.fail = append(a.fail, 0)
			a.output = append(a.output, nil)
			next = len(a.goTo) - 1
			a.goTo[node][b] = next
		}
		node = next
	}
	a.output[node] = append(a.output[node], patternIdx)
}

func (a *automaton) buildFailLinks() {
	var queue []int
	for b, n := range a.goTo[0] {
		a.fail[n] = 0
		queue = append(queue, n)
		_ = b
	}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		for b, next := range a.goTo[node] {
			queue = append(queue, next)
			f := a.fail[node]
			for {
				if to, ok := a.goTo[f][b]; ok {
					a.fail[next] = to
					break
				}
				if f == 0 {
					a.fail[next] = 0
					break
				}
				f = a.fail[f]
			}
			a.output[next] = append(a.output[next], a.output[a.fail[next]]...)
		}
	}
}

// occurrence is one match of a pattern ending at a particular position.
type occurrence struct {
	PatternIdx int
	Start      int
}

// find returns every occurrence of every pattern in haystack.
func (a *automaton) find(haystack []byte) []occurrence {
	var out []occurrence
	node := 0
	for i, b := range haystack {
		for {
			if to, ok := a.goTo[node][b]; ok {
				node = to
				break
			}
			if node == 0 {
				break
			}
			node = a.fail[node]
		}
		for _, patIdx := range a.output[node] {
			end := i + 1
			start := end - a.patLen[patIdx]
			out = append(out, occurrence{PatternIdx: patIdx, Start: start})
		}
	}
	return out
}
