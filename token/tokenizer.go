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

// Package token normalizes source text into a stream of lowercased words,
// tracks the line each word falls on, and recognizes the {{...}} required
// phrase brackets used by rule source. It does not assign numeric ids on its
// own; a Vocabulary (see vocab.go) maps words to ids once the partition
// between legalese and low-value tokens is known.
package token

import (
	"regexp"
	"strings"
)

// wordPattern matches a maximal run of word characters with an optional
// trailing "+" (the license "plus" variant marker, e.g. "gpl-2.0+") followed
// by more word characters, or the required-phrase brackets.
var wordPattern = regexp.MustCompile(`\{\{|\}\}|[0-9A-Za-z]+\+?[0-9A-Za-z]*`)

// PhraseSpan is a half-open range [Start, End) of positions in the Words
// slice that a single {{...}} bracket in the source enclosed.
type PhraseSpan struct {
	Start, End int
}

// Offset is the half-open byte range [Start, End) a word occupied in the
// original, pre-normalization text.
type Offset struct {
	Start, End int
}

// Tokens is the result of tokenizing a piece of text.
type Tokens struct {
	Words       []string
	LineByPos   []int
	Offsets     []Offset
	PhraseSpans []PhraseSpan
}

// Tokenize normalizes text into words, dropping stopwords, and optionally
// tracks {{...}} required-phrase brackets. Marker tokens never advance the
// position counter (they produce no entry in Words), and neither do dropped
// stopwords, so positions in the returned PhraseSpans line up exactly with
// the indices a caller will later see after vocabulary resolution.
func Tokenize(text string, trackPhrases bool) Tokens {
	var out Tokens
	out.Words = make([]string, 0, len(text)/6)
	out.LineByPos = make([]int, 0, len(text)/6)
	out.Offsets = make([]Offset, 0, len(text)/6)

	line := 1
	lastEnd := 0
	inPhrase := false
	phraseStart := 0

	for _, m := range wordPattern.FindAllStringIndex(text, -1) {
		start, end := m[0], m[1]
		line += strings.Count(text[lastEnd:start], "\n")
		lastEnd = start

		switch text[start:end] {
		case "{{":
			if trackPhrases {
				inPhrase = true
				phraseStart = len(out.Words)
			}
			continue
		case "}}":
			if trackPhrases && inPhrase {
				if end := len(out.Words); end > phraseStart {
					out.PhraseSpans = append(out.PhraseSpans, PhraseSpan{Start: phraseStart, End: end})
				}
				inPhrase = false
			}
			continue
		}

		word := strings.ToLower(text[start:end])
		if stopwords[word] {
			continue
		}
		out.Words = append(out.Words, word)
		out.LineByPos = append(out.LineByPos, line)
		out.Offsets = append(out.Offsets, Offset{Start: start, End: end})
	}
	return out
}
