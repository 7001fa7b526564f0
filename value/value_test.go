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

package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kralicky/fson/reporter"
)

func TestTypeNames(t *testing.T) {
	t.Parallel()
	names := map[Type]string{
		TypeNull:     "null",
		TypeBool:     "bool",
		TypeI8:       "i8",
		TypeI64:      "i64",
		TypeU32:      "u32",
		TypeF64:      "f64",
		TypeHex:      "hex",
		TypeOct:      "oct",
		TypeBin:      "bin",
		TypeCStr:     "cstr",
		TypeEnum:     "enum",
		TypeDatetime: "datetime",
		TypeDuration: "duration",
		TypeArray:    "array",
		TypeObject:   "object",
		TypeMix:      "mix",
	}
	for typ, name := range names {
		assert.Equal(t, name, typ.String())
		back, ok := TypeFromName(name)
		require.True(t, ok, name)
		assert.Equal(t, typ, back)
	}
	_, ok := TypeFromName("vec4")
	assert.False(t, ok)
	assert.Equal(t, "unknown", Type(-1).String())
}

func TestTypedAccessors(t *testing.T) {
	t.Parallel()

	b, err := Bool(true).AsBool()
	require.NoError(t, err)
	assert.True(t, b)

	i, err := Int(TypeI32, -5).AsI32()
	require.NoError(t, err)
	assert.Equal(t, int32(-5), i)

	u, err := Uint(TypeHex, 255).AsHex()
	require.NoError(t, err)
	assert.Equal(t, uint64(255), u)

	f, err := Float(TypeF64, 42.5).AsF64()
	require.NoError(t, err)
	assert.Equal(t, 42.5, f)

	s, err := Str(TypeDuration, "5m30s").AsDuration()
	require.NoError(t, err)
	assert.Equal(t, "5m30s", s)

	// mismatched tag is a type error
	_, err = Bool(true).AsI64()
	assert.Equal(t, reporter.KindType, reporter.KindOf(err))
	_, err = Int(TypeI64, 1).AsI32()
	assert.Equal(t, reporter.KindType, reporter.KindOf(err))
	_, err = Str(TypeCStr, "x").AsEnum()
	assert.Equal(t, reporter.KindType, reporter.KindOf(err))

	// nil receiver is caller misuse
	var nilVal *Value
	_, err = nilVal.AsBool()
	assert.Equal(t, reporter.KindInvalidArg, reporter.KindOf(err))
}

func TestContainerAccessors(t *testing.T) {
	t.Parallel()

	obj := NewObject()
	require.NoError(t, obj.Set("a", Int(TypeI32, 1)))
	require.NoError(t, obj.Set("b", Bool(true)))
	assert.Equal(t, 2, obj.Len())
	assert.Equal(t, []string{"a", "b"}, obj.Keys())
	assert.Nil(t, obj.Get("missing"))
	assert.Nil(t, obj.Index(0)) // not an array

	// duplicate keys are rejected
	err := obj.Set("a", Int(TypeI32, 2))
	assert.Equal(t, reporter.KindParse, reporter.KindOf(err))
	// empty keys are rejected
	err = obj.Set("", Null())
	assert.Equal(t, reporter.KindInvalidArg, reporter.KindOf(err))

	arr := NewArray(TypeI32)
	require.NoError(t, arr.Append(Int(TypeI32, 10)))
	require.NoError(t, arr.Append(Int(TypeI32, 20)))
	assert.Equal(t, 2, arr.Len())
	assert.Equal(t, TypeI32, arr.ElemType())
	assert.Nil(t, arr.Index(2))
	assert.Nil(t, arr.Index(-1))
	assert.Nil(t, arr.Get("a")) // not an object

	n, err := arr.Index(1).AsI32()
	require.NoError(t, err)
	assert.Equal(t, int32(20), n)

	// appending to a scalar is a type error
	err = Bool(true).Append(Null())
	assert.Equal(t, reporter.KindType, reporter.KindOf(err))
}

func TestConstructorPanics(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { Int(TypeU8, 1) })
	assert.Panics(t, func() { Int(TypeI8, 1000) })
	assert.Panics(t, func() { Uint(TypeI32, 1) })
	assert.Panics(t, func() { Str(TypeBool, "x") })
	assert.Panics(t, func() { NewArray(TypeObject) })
}

func TestEqual(t *testing.T) {
	t.Parallel()

	t.Run("scalars", func(t *testing.T) {
		t.Parallel()
		assert.True(t, Equal(Null(), Null()))
		assert.True(t, Equal(Bool(true), Bool(true)))
		assert.False(t, Equal(Bool(true), Bool(false)))
		assert.True(t, Equal(Int(TypeI32, 42), Int(TypeI32, 42)))
		assert.False(t, Equal(Int(TypeI32, 42), Int(TypeI32, 43)))
		// width is part of identity
		assert.False(t, Equal(Int(TypeI32, 1), Int(TypeI64, 1)))
		assert.False(t, Equal(Uint(TypeU64, 255), Uint(TypeHex, 255)))
		assert.False(t, Equal(Uint(TypeHex, 255), Uint(TypeOct, 255)))
		assert.False(t, Equal(Str(TypeCStr, "x"), Str(TypeEnum, "x")))
		assert.False(t, Equal(Null(), Bool(false)))
	})

	t.Run("containers", func(t *testing.T) {
		t.Parallel()
		a := NewObject()
		require.NoError(t, a.Set("x", Int(TypeI32, 1)))
		require.NoError(t, a.Set("y", Int(TypeI32, 2)))
		b := NewObject()
		require.NoError(t, b.Set("x", Int(TypeI32, 1)))
		require.NoError(t, b.Set("y", Int(TypeI32, 2)))
		assert.True(t, Equal(a, b))

		// object equality is order-sensitive
		c := NewObject()
		require.NoError(t, c.Set("y", Int(TypeI32, 2)))
		require.NoError(t, c.Set("x", Int(TypeI32, 1)))
		assert.False(t, Equal(a, c))

		arr1 := NewArray(TypeI32)
		require.NoError(t, arr1.Append(Int(TypeI32, 1)))
		arr2 := NewArray(TypeI32)
		require.NoError(t, arr2.Append(Int(TypeI32, 1)))
		assert.True(t, Equal(arr1, arr2))

		// declared element type is part of identity
		arr3 := NewArray(TypeMix)
		require.NoError(t, arr3.Append(Int(TypeI32, 1)))
		assert.False(t, Equal(arr1, arr3))
	})

	t.Run("reflexive and symmetric", func(t *testing.T) {
		t.Parallel()
		vals := []*Value{
			Null(), Bool(false), Int(TypeI8, -1), Uint(TypeU64, 9),
			Float(TypeF32, 1.5), Str(TypeDatetime, "2025-09-18T23:59:59Z"),
		}
		for _, v := range vals {
			assert.True(t, Equal(v, v))
			for _, w := range vals {
				assert.Equal(t, Equal(v, w), Equal(w, v))
			}
		}
	})
}

func TestClone(t *testing.T) {
	t.Parallel()

	root := NewObject()
	inner := NewObject()
	require.NoError(t, inner.Set("a", Int(TypeI32, 1)))
	arr := NewArray(TypeMix)
	require.NoError(t, arr.Append(Bool(true)))
	require.NoError(t, arr.Append(Null()))
	require.NoError(t, inner.Set("b", arr))
	require.NoError(t, root.Set("obj", inner))

	cloned := Clone(root)
	require.True(t, Equal(root, cloned))

	// the clone owns independent storage
	require.NoError(t, cloned.Get("obj").Get("b").Append(Str(TypeCStr, "extra")))
	assert.Equal(t, 2, root.Get("obj").Get("b").Len())
	assert.Equal(t, 3, cloned.Get("obj").Get("b").Len())
	assert.False(t, Equal(root, cloned))

	assert.Nil(t, Clone(nil))
}

func TestWalk(t *testing.T) {
	t.Parallel()

	root := NewObject()
	log := NewObject()
	require.NoError(t, log.Set("level", Str(TypeEnum, "info")))
	require.NoError(t, root.Set("log", log))
	arr := NewArray(TypeI32)
	require.NoError(t, arr.Append(Int(TypeI32, 7)))
	require.NoError(t, arr.Append(Int(TypeI32, 8)))
	require.NoError(t, root.Set("ports", arr))

	var paths []string
	Walk(root, func(path string, v *Value) bool {
		paths = append(paths, path)
		return true
	})
	assert.Equal(t, []string{"", "log", "log.level", "ports", "ports.0", "ports.1"}, paths)

	// early termination
	var count int
	Walk(root, func(path string, v *Value) bool {
		count++
		return path != "log.level"
	})
	assert.Equal(t, 3, count)
}
