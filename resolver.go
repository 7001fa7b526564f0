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
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/kralicky/fson/value"
)

// ErrDocumentNotFound is returned by resolvers when a path cannot be
// located. A CompositeResolver moves on to its next delegate only for this
// error.
var ErrDocumentNotFound = errors.New("document not found")

// Resolver locates FSON documents for a Compiler by path.
//
// Resolver implementations must be thread-safe: a single Compile call may
// invoke FindDocumentByPath from multiple goroutines.
type Resolver interface {
	// FindDocumentByPath searches for the document with the given path. If
	// no result is available it returns a non-nil error, such as
	// ErrDocumentNotFound.
	FindDocumentByPath(path string) (SearchResult, error)
}

// SearchResult represents a located FSON document. Exactly one field should
// be set; when multiple are set the compiler prefers them in the reverse of
// the order listed, so an already-parsed Value wins over raw bytes, which
// win over a reader.
type SearchResult struct {
	// Source is read to obtain the document text.
	Source io.Reader
	// Data is the document text.
	Data []byte
	// Value is an already-parsed document, used as-is.
	Value *value.Value
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(path string) (SearchResult, error)

func (f ResolverFunc) FindDocumentByPath(path string) (SearchResult, error) {
	return f(path)
}

// SourceResolver can resolve document paths by searching the filesystem.
type SourceResolver struct {
	// Directories to search. If empty, paths are opened as given, relative
	// to the current working directory.
	ImportPaths []string
}

var _ Resolver = (*SourceResolver)(nil)

func (r *SourceResolver) FindDocumentByPath(path string) (SearchResult, error) {
	if len(r.ImportPaths) == 0 {
		return readResult(path)
	}
	for _, dir := range r.ImportPaths {
		res, err := readResult(filepath.Join(dir, path))
		if err == nil {
			return res, nil
		}
		if !os.IsNotExist(err) {
			return SearchResult{}, err
		}
	}
	return SearchResult{}, ErrDocumentNotFound
}

func readResult(path string) (SearchResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SearchResult{}, err
	}
	return SearchResult{Data: data}, nil
}

// MapResolver serves in-memory documents keyed by path. It is mainly
// useful in tests.
type MapResolver map[string][]byte

var _ Resolver = MapResolver(nil)

func (m MapResolver) FindDocumentByPath(path string) (SearchResult, error) {
	data, ok := m[path]
	if !ok {
		return SearchResult{}, ErrDocumentNotFound
	}
	return SearchResult{Data: data}, nil
}

// CompositeResolver asks each delegate in order, moving on to the next only
// when the previous one reported ErrDocumentNotFound.
type CompositeResolver []Resolver

var _ Resolver = CompositeResolver(nil)

func (c CompositeResolver) FindDocumentByPath(path string) (SearchResult, error) {
	for _, r := range c {
		res, err := r.FindDocumentByPath(path)
		if err == nil {
			return res, nil
		}
		if !errors.Is(err, ErrDocumentNotFound) {
			return SearchResult{}, err
		}
	}
	return SearchResult{}, ErrDocumentNotFound
}
