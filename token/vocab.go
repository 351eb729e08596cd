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

import (
	"sort"

	"github.com/scancode-go/licensedcode/internal/errs"
)

// ID is a token identifier. Ids below Vocabulary.L are legalese (high-value);
// ids in [L, Size) are low-value but still known to the rule corpus; ids at
// or above Size exist only in a particular query and were never seen while
// building the corpus.
type ID = uint16

// Vocabulary is the fixed word<->id partition computed once, at rule index
// build time, over every word appearing in the rule corpus. It never
// changes after Build returns, so it can be shared read-only across
// concurrent queries.
type Vocabulary struct {
	ids  map[string]ID
	word []string // id -> word, for ids < Size
	l    ID       // legalese boundary
}

// Size is the number of ids known to the corpus (L+K in the spec).
func (v *Vocabulary) Size() ID { return ID(len(v.word)) }

// LegaleseBoundary returns L, the first id that is not legalese.
func (v *Vocabulary) LegaleseBoundary() ID { return v.l }

// IsLegalese reports whether id falls in the high-value range.
func (v *Vocabulary) IsLegalese(id ID) bool { return id < v.l }

// InCorpus reports whether id was assigned while building the vocabulary,
// as opposed to being a synthetic id minted for an unrecognized query word.
func (v *Vocabulary) InCorpus(id ID) bool { return id < v.Size() }

// Lookup returns the id assigned to word, if any.
func (v *Vocabulary) Lookup(word string) (ID, bool) {
	id, ok := v.ids[word]
	return id, ok
}

// Word returns the source word for a corpus id, or "" if id is out of range.
func (v *Vocabulary) Word(id ID) string {
	if int(id) >= len(v.word) {
		return ""
	}
	return v.word[id]
}

// NewVocabulary reconstructs a Vocabulary from a previously built word list
// and legalese boundary, without re-partitioning the corpus's words. This is
// the path a deserialized Rule Index takes to restore its vocabulary.
func NewVocabulary(words []string, l ID) *Vocabulary {
	v := &Vocabulary{
		ids:  make(map[string]ID, len(words)),
		word: append([]string(nil), words...),
		l:    l,
	}
	for i, w := range v.word {
		v.ids[w] = ID(i)
	}
	return v
}

// VocabBuilder accumulates the distinct words seen across the whole rule
// corpus before any ids are handed out, so that the legalese/low-value
// partition can be computed up front.
type VocabBuilder struct {
	legalese map[string]bool
	lowValue map[string]bool
}

// NewVocabBuilder returns an empty builder.
func NewVocabBuilder() *VocabBuilder {
	return &VocabBuilder{
		legalese: make(map[string]bool),
		lowValue: make(map[string]bool),
	}
}

// Observe registers a word encountered somewhere in the rule corpus.
func (b *VocabBuilder) Observe(word string) {
	if IsLegalese(word) {
		b.legalese[word] = true
	} else {
		b.lowValue[word] = true
	}
}

// Build finalizes the partition: legalese words get the lowest ids, sorted
// alphabetically for determinism; low-value words follow, also sorted.
func (b *VocabBuilder) Build() *Vocabulary {
	legalese := sortedKeys(b.legalese)
	lowValue := sortedKeys(b.lowValue)

	v := &Vocabulary{
		ids:  make(map[string]ID, len(legalese)+len(lowValue)),
		word: make([]string, 0, len(legalese)+len(lowValue)),
		l:    ID(len(legalese)),
	}
	for _, w := range legalese {
		v.ids[w] = ID(len(v.word))
		v.word = append(v.word, w)
	}
	for _, w := range lowValue {
		v.ids[w] = ID(len(v.word))
		v.word = append(v.word, w)
	}
	return v
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Resolver maps words to ids against a fixed Vocabulary, minting stable
// synthetic ids (scoped to the resolver instance, i.e. to one query) for
// words the corpus never saw. Rule-side lookups always go through the
// Vocabulary directly and never see synthetic ids, since a Resolver is only
// ever handed query text.
type Resolver struct {
	vocab *Vocabulary
	synth map[string]ID
	next  uint32 // wider than ID to detect overflow rather than wrap silently
}

// NewResolver creates a Resolver bound to vocab.
func NewResolver(vocab *Vocabulary) *Resolver {
	return &Resolver{
		vocab: vocab,
		synth: make(map[string]ID),
		next:  uint32(vocab.Size()),
	}
}

// Resolve returns the id for word, minting a fresh synthetic id on first
// sight of an out-of-corpus word.
func (r *Resolver) Resolve(word string) ID {
	if id, ok := r.vocab.Lookup(word); ok {
		return id
	}
	if id, ok := r.synth[word]; ok {
		return id
	}
	if r.next > uint32(^ID(0)) {
		panic(&errs.InvariantViolation{Where: "token.Resolver", Msg: "synthetic token id space exhausted"})
	}
	id := ID(r.next)
	r.next++
	r.synth[word] = id
	return id
}
