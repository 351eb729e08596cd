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

package detect

import (
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
)

// gateHeadBytes is how much of the input the content-type classifier
// inspects; file-type magic bytes live well within the first few kilobytes.
const gateHeadBytes = 8192

// knownBinaryExtensions short-circuits the archive/image/class families the
// magic-byte classifier would otherwise have to sniff, for inputs whose
// extension already gives the answer away.
var knownBinaryExtensions = map[string]bool{
	".zip": true, ".tar": true, ".gz": true, ".bz2": true, ".xz": true, ".7z": true,
	".jar": true, ".war": true, ".ear": true, ".class": true,
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".bmp": true, ".ico": true,
	".exe": true, ".dll": true, ".so": true, ".o": true, ".a": true, ".pdf": true,
}

// gate inspects data (and, if known, the source filename) and reports
// whether it looks like text worth tokenizing. For text input it returns the
// content decoded as valid UTF-8, replacing any invalid byte sequences so
// downstream tokenization always sees a well-formed string.
func gate(data []byte, filename string) (text string, ok bool) {
	if filename != "" && knownBinaryExtensions[strings.ToLower(filepath.Ext(filename))] {
		return "", false
	}

	head := data
	if len(head) > gateHeadBytes {
		head = head[:gateHeadBytes]
	}
	if looksBinary(head) {
		return "", false
	}

	return strings.ToValidUTF8(string(data), "�"), true
}

// looksBinary classifies head by magic bytes, per the archive/image/font/
// audio/video families a license text could never plausibly be.
func looksBinary(head []byte) bool {
	if len(head) == 0 {
		return false
	}
	kind, err := filetype.Match(head)
	if err != nil || kind == filetype.Unknown {
		return false
	}
	return filetype.IsImage(head) || filetype.IsVideo(head) || filetype.IsAudio(head) ||
		filetype.IsArchive(head) || filetype.IsFont(head)
}
