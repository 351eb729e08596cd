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

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io"

	"github.com/scancode-go/licensedcode/rules"
	"github.com/scancode-go/licensedcode/token"
)

// serializeMagic identifies the encoded stream; serializeVersion lets a
// future format change reject an old snapshot outright instead of
// misinterpreting it.
const (
	serializeMagic   = "scancode-go-licensedcode-index"
	serializeVersion = 1
)

// snapshot is the on-disk shape of an Index: the already-tokenized rule
// corpus plus the vocabulary's word list and legalese boundary. Everything
// else (postings, both automatons, the hash table, the SPDX maps) is cheap
// to rebuild from these and is never persisted, so a format change to any of
// the derived structures never invalidates an existing snapshot.
type snapshot struct {
	Magic        string
	Version      int
	VocabWords   []string
	VocabL       token.ID
	OrderedRules []*rules.Rule
}

// Serialize encodes ix into w. The format is internal and versioned; callers
// should only ever read back what this version of Serialize wrote.
func Serialize(ix *Index, w io.Writer) error {
	snap := snapshot{
		Magic:        serializeMagic,
		Version:      serializeVersion,
		VocabWords:   vocabWords(ix.Vocab),
		VocabL:       ix.Vocab.LegaleseBoundary(),
		OrderedRules: ix.rules,
	}
	return gob.NewEncoder(w).Encode(&snap)
}

// vocabWords recovers a Vocabulary's id->word table in id order, the only
// representation NewVocabulary needs to reconstruct it.
func vocabWords(v *token.Vocabulary) []string {
	words := make([]string, v.Size())
	for i := range words {
		words[i] = v.Word(token.ID(i))
	}
	return words
}

// Deserialize rebuilds an Index from a stream written by Serialize, skipping
// the rule-text tokenization and vocabulary partitioning Build would
// otherwise redo -- the fast-startup path spec.md §6 allows for.
func Deserialize(r io.Reader) (*Index, error) {
	var snap snapshot
	if err := gob.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("index: decode snapshot: %w", err)
	}
	if snap.Magic != serializeMagic {
		return nil, fmt.Errorf("index: not a licensedcode index snapshot")
	}
	if snap.Version != serializeVersion {
		return nil, fmt.Errorf("index: unsupported snapshot version %d", snap.Version)
	}

	vocab := token.NewVocabulary(snap.VocabWords, snap.VocabL)
	ix, err := buildFromTokenized(vocab, snap.OrderedRules)
	if err != nil {
		return nil, fmt.Errorf("index: rebuild from snapshot: %w", err)
	}
	return ix, nil
}

// SerializeBytes is a convenience wrapper returning the encoded snapshot as
// a byte slice, for callers that manage their own file I/O.
func SerializeBytes(ix *Index) ([]byte, error) {
	var buf bytes.Buffer
	if err := Serialize(ix, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
