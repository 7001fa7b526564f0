// Copyright 2020-2023 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kralicky/fson/parser"
	"github.com/kralicky/fson/value"
)

const doc = `{
    app: object: {
        name: cstr: "Fossil App",
        log: object: {
            level: enum: "info"
        }
    },
    servers: array: [
        srv1: object: { port: u16: 8080 },
        srv2: object: { port: u16: 8081 }
    ]
}`

func buildIndex(t *testing.T) (*value.Value, *Index) {
	t.Helper()
	root, err := parser.Parse([]byte(doc))
	require.NoError(t, err)
	return root, Build(root)
}

func TestLookup(t *testing.T) {
	t.Parallel()
	root, ix := buildIndex(t)

	v, ok := ix.Lookup("app.log.level")
	require.True(t, ok)
	lvl, err := v.AsEnum()
	require.NoError(t, err)
	assert.Equal(t, "info", lvl)

	v, ok = ix.Lookup("servers.1.port")
	require.True(t, ok)
	port, err := v.AsU16()
	require.NoError(t, err)
	assert.Equal(t, uint16(8081), port)

	// lookups return borrowed references into the indexed tree
	direct := root.Get("servers").Index(1).Get("port")
	assert.Same(t, direct, v)

	// the empty path names the root
	v, ok = ix.Lookup("")
	require.True(t, ok)
	assert.Same(t, root, v)

	_, ok = ix.Lookup("app.log.missing")
	assert.False(t, ok)
}

func TestWalkPrefix(t *testing.T) {
	t.Parallel()
	_, ix := buildIndex(t)

	var paths []string
	ix.WalkPrefix("servers.", func(path string, v *value.Value) bool {
		paths = append(paths, path)
		return true
	})
	assert.ElementsMatch(t, []string{
		"servers.0", "servers.0.port",
		"servers.1", "servers.1.port",
	}, paths)

	// stop early
	var n int
	ix.WalkPrefix("app.", func(path string, v *value.Value) bool {
		n++
		return false
	})
	assert.Equal(t, 1, n)
}

func TestSize(t *testing.T) {
	t.Parallel()
	_, ix := buildIndex(t)
	// app, app.name, app.log, app.log.level, servers, servers.0,
	// servers.0.port, servers.1, servers.1.port
	assert.Equal(t, 9, ix.Size())

	empty := Build(nil)
	assert.Equal(t, 0, empty.Size())
	_, ok := empty.Lookup("")
	assert.False(t, ok)
}
