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

// Clone returns a deep, independent copy of v. Every transitively owned
// child is re-allocated, so the two trees share no storage. Clone of nil is
// nil.
func Clone(v *Value) *Value {
	if v == nil {
		return nil
	}
	out := &Value{
		typ:  v.typ,
		b:    v.b,
		i:    v.i,
		u:    v.u,
		f:    v.f,
		s:    v.s,
		elem: v.elem,
	}
	if v.arr != nil {
		out.arr = make([]*Value, len(v.arr))
		for i, e := range v.arr {
			out.arr[i] = Clone(e)
		}
	}
	if v.obj != nil {
		out.obj = make([]Field, len(v.obj))
		for i, f := range v.obj {
			out.obj[i] = Field{Key: f.Key, Val: Clone(f.Val)}
		}
	}
	return out
}
