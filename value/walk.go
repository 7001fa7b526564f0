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

import "strconv"

// Walk performs a pre-order traversal of the tree rooted at v, invoking fn
// for every node with its dotted path. The root has path ""; object
// children append their key and array children their decimal index
// ("app.log.level", "arr.2"). Returning false from fn stops the walk.
//
// The values handed to fn are borrowed references into the tree.
func Walk(v *Value, fn func(path string, v *Value) bool) {
	walk("", v, fn)
}

func walk(path string, v *Value, fn func(path string, v *Value) bool) bool {
	if v == nil {
		return true
	}
	if !fn(path, v) {
		return false
	}
	switch v.typ {
	case TypeArray:
		for i, e := range v.arr {
			if !walk(childPath(path, strconv.Itoa(i)), e, fn) {
				return false
			}
		}
	case TypeObject:
		for _, f := range v.obj {
			if !walk(childPath(path, f.Key), f.Val, fn) {
				return false
			}
		}
	}
	return true
}

func childPath(parent, seg string) string {
	if parent == "" {
		return seg
	}
	return parent + "." + seg
}
