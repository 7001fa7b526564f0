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

// Package index builds a dotted-path lookup table over a parsed FSON tree.
// Object children are addressed by key and array elements by decimal
// position, so `app.log.level` and `servers.2.port` name nested values
// without walking the tree by hand.
package index

import (
	art "github.com/plar/go-adaptive-radix-tree"

	"github.com/kralicky/fson/value"
)

// Index maps dotted paths to the nodes of a single value tree. The indexed
// references are borrowed from that tree: they stay valid exactly as long
// as the tree itself, and mutating the tree invalidates the index.
type Index struct {
	root *value.Value
	tree art.Tree
}

// Build indexes every node reachable from root. A nil root yields an empty
// index.
func Build(root *value.Value) *Index {
	ix := &Index{root: root, tree: art.New()}
	value.Walk(root, func(path string, v *value.Value) bool {
		if path != "" {
			ix.tree.Insert(art.Key(path), v)
		}
		return true
	})
	return ix
}

// Lookup returns the value at the given dotted path. The empty path names
// the root. The reference is borrowed from the indexed tree.
func (ix *Index) Lookup(path string) (*value.Value, bool) {
	if path == "" {
		if ix.root == nil {
			return nil, false
		}
		return ix.root, true
	}
	v, found := ix.tree.Search(art.Key(path))
	if !found {
		return nil, false
	}
	return v.(*value.Value), true
}

// WalkPrefix visits every indexed path beginning with prefix, in key
// order. Returning false from fn stops the walk.
func (ix *Index) WalkPrefix(prefix string, fn func(path string, v *value.Value) bool) {
	ix.tree.ForEachPrefix(art.Key(prefix), func(node art.Node) bool {
		if node.Kind() != art.Leaf {
			return true
		}
		return fn(string(node.Key()), node.Value().(*value.Value))
	})
}

// Size returns the number of indexed paths, excluding the root.
func (ix *Index) Size() int {
	return ix.tree.Size()
}
