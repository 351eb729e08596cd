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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeDeserializeRoundTripsRules(t *testing.T) {
	ix := buildTestIndex(t)

	var buf bytes.Buffer
	require.NoError(t, Serialize(ix, &buf))

	restored, err := Deserialize(&buf)
	require.NoError(t, err)

	mit, ok := restored.RuleByExpression("mit")
	require.True(t, ok)
	assert.Equal(t, "mit_1", mit.Identifier)
	assert.Equal(t, ix.Vocab.Size(), restored.Vocab.Size())
	assert.Equal(t, ix.Vocab.LegaleseBoundary(), restored.Vocab.LegaleseBoundary())
}

func TestSerializeDeserializeRoundTripsHashLookup(t *testing.T) {
	ix := buildTestIndex(t)
	mit, _ := ix.RuleByExpression("mit")

	data, err := SerializeBytes(ix)
	require.NoError(t, err)

	restored, err := Deserialize(bytes.NewReader(data))
	require.NoError(t, err)

	found, ok := restored.RuleByExpression("mit")
	require.True(t, ok)
	assert.Equal(t, mit.Rid, found.Rid)
	assert.Equal(t, mit.Text, found.Text)

	byHash, ok := restored.RuleByHash(HashTokens(mit.Tokens))
	require.True(t, ok)
	assert.Equal(t, mit.Identifier, byHash.Identifier)
}

func TestDeserializeRejectsForeignData(t *testing.T) {
	_, err := Deserialize(bytes.NewReader([]byte("not a snapshot")))
	assert.Error(t, err)
}

func TestDeserializeRejectsWrongVersion(t *testing.T) {
	bad := snapshot{Magic: serializeMagic, Version: serializeVersion + 1}
	var buf bytes.Buffer
	require.NoError(t, gob.NewEncoder(&buf).Encode(&bad))

	_, err := Deserialize(&buf)
	assert.Error(t, err)
}

func TestDeserializeRejectsWrongMagic(t *testing.T) {
	bad := snapshot{Magic: "not-the-right-magic", Version: serializeVersion}
	var buf bytes.Buffer
	require.NoError(t, gob.NewEncoder(&buf).Encode(&bad))

	_, err := Deserialize(&buf)
	assert.Error(t, err)
}
