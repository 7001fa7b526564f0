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
	"github.com/kralicky/fson/reporter"
)

// Type returns the tag of v. A nil receiver reports TypeNull.
func (v *Value) Type() Type {
	if v == nil {
		return TypeNull
	}
	return v.typ
}

// ElemType returns the declared element type of an array. It reports
// TypeNull for non-array values.
func (v *Value) ElemType() Type {
	if v == nil || v.typ != TypeArray {
		return TypeNull
	}
	return v.elem
}

// Len returns the number of elements of an array or entries of an object,
// and 0 for every other tag.
func (v *Value) Len() int {
	if v == nil {
		return 0
	}
	switch v.typ {
	case TypeArray:
		return len(v.arr)
	case TypeObject:
		return len(v.obj)
	}
	return 0
}

// Index returns the i-th element of an array. The returned reference is
// borrowed: it remains owned by v. It returns nil for non-arrays and
// out-of-range indexes.
func (v *Value) Index(i int) *Value {
	if v == nil || v.typ != TypeArray || i < 0 || i >= len(v.arr) {
		return nil
	}
	return v.arr[i]
}

// Get returns the value of the entry with the given key, or nil when v is
// not an object or has no such entry. The returned reference is borrowed.
func (v *Value) Get(key string) *Value {
	if v == nil || v.typ != TypeObject {
		return nil
	}
	for _, f := range v.obj {
		if f.Key == key {
			return f.Val
		}
	}
	return nil
}

// Keys returns the object's keys in insertion order, or nil for non-objects.
func (v *Value) Keys() []string {
	if v == nil || v.typ != TypeObject {
		return nil
	}
	keys := make([]string, len(v.obj))
	for i, f := range v.obj {
		keys[i] = f.Key
	}
	return keys
}

// Fields returns the object's ordered entries. The slice is shared with v
// and must not be mutated.
func (v *Value) Fields() []Field {
	if v == nil || v.typ != TypeObject {
		return nil
	}
	return v.obj
}

// Elems returns the array's elements. The slice is shared with v and must
// not be mutated.
func (v *Value) Elems() []*Value {
	if v == nil || v.typ != TypeArray {
		return nil
	}
	return v.arr
}

// Append adds child to the end of an array. The array takes ownership of
// child; the caller must not insert it anywhere else.
func (v *Value) Append(child *Value) error {
	if v == nil || child == nil {
		return reporter.New(reporter.KindInvalidArg, 0, "nil value")
	}
	if v.typ != TypeArray {
		return reporter.Errorf(reporter.KindType, 0, "append on %v value", v.typ)
	}
	v.arr = append(v.arr, child)
	return nil
}

// Set adds an entry to an object, taking ownership of child. Keys must be
// non-empty and unique within the object.
func (v *Value) Set(key string, child *Value) error {
	if v == nil || child == nil {
		return reporter.New(reporter.KindInvalidArg, 0, "nil value")
	}
	if v.typ != TypeObject {
		return reporter.Errorf(reporter.KindType, 0, "set on %v value", v.typ)
	}
	if key == "" {
		return reporter.New(reporter.KindInvalidArg, 0, "empty object key")
	}
	for _, f := range v.obj {
		if f.Key == key {
			return reporter.Errorf(reporter.KindParse, 0, "duplicate key %q", key)
		}
	}
	v.obj = append(v.obj, Field{Key: key, Val: child})
	return nil
}

func (v *Value) tagErr(want Type) error {
	if v == nil {
		return reporter.New(reporter.KindInvalidArg, 0, "nil value")
	}
	return reporter.Errorf(reporter.KindType, 0, "value is %v, not %v", v.typ, want)
}

// AsBool extracts a bool payload, failing with a type error for any other
// tag.
func (v *Value) AsBool() (bool, error) {
	if v == nil || v.typ != TypeBool {
		return false, v.tagErr(TypeBool)
	}
	return v.b, nil
}

func (v *Value) asInt(t Type) (int64, error) {
	if v == nil || v.typ != t {
		return 0, v.tagErr(t)
	}
	return v.i, nil
}

// AsI8 extracts an i8 payload.
func (v *Value) AsI8() (int8, error) {
	i, err := v.asInt(TypeI8)
	return int8(i), err
}

// AsI16 extracts an i16 payload.
func (v *Value) AsI16() (int16, error) {
	i, err := v.asInt(TypeI16)
	return int16(i), err
}

// AsI32 extracts an i32 payload.
func (v *Value) AsI32() (int32, error) {
	i, err := v.asInt(TypeI32)
	return int32(i), err
}

// AsI64 extracts an i64 payload.
func (v *Value) AsI64() (int64, error) {
	return v.asInt(TypeI64)
}

func (v *Value) asUint(t Type) (uint64, error) {
	if v == nil || v.typ != t {
		return 0, v.tagErr(t)
	}
	return v.u, nil
}

// AsU8 extracts a u8 payload.
func (v *Value) AsU8() (uint8, error) {
	u, err := v.asUint(TypeU8)
	return uint8(u), err
}

// AsU16 extracts a u16 payload.
func (v *Value) AsU16() (uint16, error) {
	u, err := v.asUint(TypeU16)
	return uint16(u), err
}

// AsU32 extracts a u32 payload.
func (v *Value) AsU32() (uint32, error) {
	u, err := v.asUint(TypeU32)
	return uint32(u), err
}

// AsU64 extracts a u64 payload.
func (v *Value) AsU64() (uint64, error) {
	return v.asUint(TypeU64)
}

// AsHex extracts the unsigned payload of a hex-tagged value.
func (v *Value) AsHex() (uint64, error) {
	return v.asUint(TypeHex)
}

// AsOct extracts the unsigned payload of an oct-tagged value.
func (v *Value) AsOct() (uint64, error) {
	return v.asUint(TypeOct)
}

// AsBin extracts the unsigned payload of a bin-tagged value.
func (v *Value) AsBin() (uint64, error) {
	return v.asUint(TypeBin)
}

// AsF32 extracts an f32 payload.
func (v *Value) AsF32() (float32, error) {
	if v == nil || v.typ != TypeF32 {
		return 0, v.tagErr(TypeF32)
	}
	return float32(v.f), nil
}

// AsF64 extracts an f64 payload.
func (v *Value) AsF64() (float64, error) {
	if v == nil || v.typ != TypeF64 {
		return 0, v.tagErr(TypeF64)
	}
	return v.f, nil
}

func (v *Value) asStr(t Type) (string, error) {
	if v == nil || v.typ != t {
		return "", v.tagErr(t)
	}
	return v.s, nil
}

// AsCStr extracts a cstr payload.
func (v *Value) AsCStr() (string, error) {
	return v.asStr(TypeCStr)
}

// AsEnum extracts an enum identifier.
func (v *Value) AsEnum() (string, error) {
	return v.asStr(TypeEnum)
}

// AsDatetime extracts a datetime string.
func (v *Value) AsDatetime() (string, error) {
	return v.asStr(TypeDatetime)
}

// AsDuration extracts a duration string.
func (v *Value) AsDuration() (string, error) {
	return v.asStr(TypeDuration)
}

// AsStr extracts the payload of any string-carrying tag (cstr, enum,
// datetime, duration).
func (v *Value) AsStr() (string, error) {
	if v == nil || !v.typ.IsString() {
		return "", v.tagErr(TypeCStr)
	}
	return v.s, nil
}
