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
	"crypto/sha1"
	"encoding/binary"

	"github.com/scancode-go/licensedcode/token"
)

// EncodeTokens little-endian-encodes a token id sequence, 2 bytes per id, as
// used for both the hash matcher's content key and the Aho-Corasick
// automatons' byte patterns. Each token occupies exactly 2 bytes so that the
// "start offset is even" alignment check (spec 4.5) is equivalent to "starts
// on a token boundary".
func EncodeTokens(ids []token.ID) []byte {
	buf := make([]byte, len(ids)*2)
	for i, id := range ids {
		binary.LittleEndian.PutUint16(buf[i*2:], id)
	}
	return buf
}

// HashTokens computes the whole-input hash key the hash matcher looks up:
// a SHA-1 digest of the little-endian token encoding.
func HashTokens(ids []token.ID) [sha1.Size]byte {
	return sha1.Sum(EncodeTokens(ids))
}
