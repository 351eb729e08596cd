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

package token

// stopwords are dropped during tokenization, before position numbering, so
// that both rule source and query text count positions identically. This is
// a fixed, small closed-class list (articles, conjunctions, auxiliary verbs)
// rather than an attempt at general-purpose stopword removal: license text
// is formulaic enough that a short list suffices, and anything longer risks
// eating words that matter to a required phrase.
var stopwords = buildSet([]string{
	"a", "an", "the",
	"of", "in", "on", "at", "by", "for", "with", "about", "against",
	"between", "into", "through", "during", "before", "after", "to", "from",
	"up", "down", "out", "off", "over", "under", "again", "further", "then",
	"once", "here", "there", "when", "where", "why", "how", "all", "any",
	"both", "each", "few", "more", "most", "other", "some", "such", "only",
	"own", "same", "so", "than", "too", "very", "s", "t", "can", "will",
	"just", "don", "should", "now", "is", "are", "was", "were", "be", "been",
	"being", "have", "has", "had", "having", "do", "does", "did", "doing",
	"it", "its", "this", "that", "these", "those", "as", "if", "or", "and",
	"but", "i", "you", "he", "she", "we", "they", "them", "his", "her",
	"their", "our", "your", "my",
})

func buildSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
