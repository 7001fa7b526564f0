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

package fson

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kralicky/fson/printer"
	"github.com/kralicky/fson/reporter"
	"github.com/kralicky/fson/value"
)

func TestCompile(t *testing.T) {
	t.Parallel()

	res := MapResolver{
		"app.fson":  []byte(`{ name: cstr: "app", port: u16: 8080 }`),
		"user.fson": []byte(`{ id: i32: 42 }`),
	}
	c := &Compiler{Resolver: res}

	results, err := c.Compile(context.Background(), "app.fson", "user.fson")
	require.NoError(t, err)
	require.Len(t, results, 2)

	// results preserve request order
	assert.Equal(t, "app.fson", results[0].Path)
	assert.Equal(t, "user.fson", results[1].Path)

	port, err := results[0].Value.Get("port").AsU16()
	require.NoError(t, err)
	assert.Equal(t, uint16(8080), port)

	id, err := results[1].Value.Get("id").AsI32()
	require.NoError(t, err)
	assert.Equal(t, int32(42), id)
}

func TestCompileManyConcurrently(t *testing.T) {
	t.Parallel()

	res := MapResolver{}
	paths := make([]string, 100)
	for i := range paths {
		paths[i] = fmt.Sprintf("doc%d.fson", i)
		res[paths[i]] = []byte(fmt.Sprintf("{ n: i32: %d }", i))
	}
	c := &Compiler{Resolver: res, MaxParallelism: 4}

	results, err := c.Compile(context.Background(), paths...)
	require.NoError(t, err)
	require.Len(t, results, 100)
	for i, r := range results {
		require.NoError(t, r.Err)
		n, err := r.Value.Get("n").AsI32()
		require.NoError(t, err)
		assert.Equal(t, int32(i), n)
	}
}

func TestCompileReportsFirstError(t *testing.T) {
	t.Parallel()

	res := MapResolver{
		"good.fson": []byte(`{ a: i32: 1 }`),
		"bad.fson":  []byte(`{ a: vec4: 1 }`),
	}
	c := &Compiler{Resolver: res}

	results, err := c.Compile(context.Background(), "good.fson", "bad.fson", "missing.fson")
	require.Error(t, err)
	require.Len(t, results, 3)
	assert.NoError(t, results[0].Err)
	assert.Equal(t, reporter.KindType, reporter.KindOf(results[1].Err))
	assert.ErrorIs(t, results[2].Err, ErrDocumentNotFound)
	// the first failing document in request order wins
	assert.ErrorContains(t, err, "bad.fson")
}

func TestSourceResolver(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "conf.fson")
	require.NoError(t, os.WriteFile(path, []byte(`{ debug: bool: true }`), 0o644))

	c := &Compiler{Resolver: &SourceResolver{ImportPaths: []string{dir}}}
	results, err := c.Compile(context.Background(), "conf.fson")
	require.NoError(t, err)
	b, err := results[0].Value.Get("debug").AsBool()
	require.NoError(t, err)
	assert.True(t, b)

	_, err = c.Compile(context.Background(), "nope.fson")
	assert.Error(t, err)
}

func TestCompositeResolver(t *testing.T) {
	t.Parallel()

	first := MapResolver{"a.fson": []byte("{ n: i32: 1 }")}
	second := MapResolver{"b.fson": []byte("{ n: i32: 2 }")}
	r := CompositeResolver{first, second}

	c := &Compiler{Resolver: r}
	results, err := c.Compile(context.Background(), "b.fson", "a.fson")
	require.NoError(t, err)
	n, err := results[0].Value.Get("n").AsI32()
	require.NoError(t, err)
	assert.Equal(t, int32(2), n)

	_, err = r.FindDocumentByPath("c.fson")
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestRoundtripHelper(t *testing.T) {
	t.Parallel()

	out, err := Roundtrip([]byte("{\n    foo: array: [\n        1: i32: 1,\n        true: bool: true,\n        null: null: null\n    ]\n}"), printer.Options{})
	require.NoError(t, err)

	v1, err := ParseString(out)
	require.NoError(t, err)
	v2, err := Parse([]byte("{ foo: array: [i32: 1, bool: true, null] }"))
	require.NoError(t, err)
	assert.True(t, value.Equal(v1, v2))

	_, err = Roundtrip([]byte("{ bad "), printer.Options{})
	assert.Error(t, err)
}
