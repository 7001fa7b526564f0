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

// Equal reports structural equality: equal tag and equal payload. Numeric
// values compare unequal across widths (an i32 1 is not an i64 1), arrays
// compare their declared element type as well as their elements, and
// objects are order-sensitive because the text format preserves insertion
// order. Two nils are equal.
func Equal(a, b *Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.typ != b.typ {
		return false
	}
	switch a.typ {
	case TypeNull:
		return true
	case TypeBool:
		return a.b == b.b
	case TypeF32, TypeF64:
		return a.f == b.f
	case TypeCStr, TypeEnum, TypeDatetime, TypeDuration:
		return a.s == b.s
	case TypeArray:
		if a.elem != b.elem || len(a.arr) != len(b.arr) {
			return false
		}
		for i := range a.arr {
			if !Equal(a.arr[i], b.arr[i]) {
				return false
			}
		}
		return true
	case TypeObject:
		if len(a.obj) != len(b.obj) {
			return false
		}
		for i := range a.obj {
			if a.obj[i].Key != b.obj[i].Key || !Equal(a.obj[i].Val, b.obj[i].Val) {
				return false
			}
		}
		return true
	default:
		if a.typ.IsSigned() {
			return a.i == b.i
		}
		return a.u == b.u
	}
}
