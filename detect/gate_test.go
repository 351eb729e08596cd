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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGateAcceptsPlainText(t *testing.T) {
	text, ok := gate([]byte("Permission is hereby granted free of charge"), "LICENSE")
	assert.True(t, ok)
	assert.Equal(t, "Permission is hereby granted free of charge", text)
}

func TestGateRejectsKnownBinaryExtension(t *testing.T) {
	_, ok := gate([]byte("this is actually text"), "archive.zip")
	assert.False(t, ok)
}

func TestGateRejectsPNGMagicBytes(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}
	_, ok := gate(png, "")
	assert.False(t, ok)
}

func TestGateReplacesInvalidUTF8(t *testing.T) {
	data := append([]byte("hello "), 0xFF, 0xFE)
	data = append(data, []byte(" world")...)
	text, ok := gate(data, "")
	assert.True(t, ok)
	assert.True(t, strings.HasPrefix(text, "hello "))
	assert.True(t, strings.HasSuffix(text, " world"))
}

func TestGateAcceptsTextWithoutFilename(t *testing.T) {
	_, ok := gate([]byte("no filename hint here"), "")
	assert.True(t, ok)
}
