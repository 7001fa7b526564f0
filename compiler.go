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
	"io"
	"runtime"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/kralicky/fson/parser"
	"github.com/kralicky/fson/value"
)

// Compiler parses batches of FSON documents. Distinct documents are
// independent trees, so the work fans out across goroutines bounded by
// MaxParallelism; each resulting tree is exclusively owned by the caller
// once Compile returns.
type Compiler struct {
	// Resolves paths into document text or pre-parsed values. This is how
	// the compiler loads the documents to be parsed. This field is the only
	// required field.
	Resolver Resolver
	// The maximum parallelism to use when parsing. If unspecified or set to
	// a non-positive value, then min(runtime.NumCPU(), runtime.GOMAXPROCS(-1))
	// is used.
	MaxParallelism int
}

// Result is the outcome for one requested path. Exactly one of Value and
// Err is set.
type Result struct {
	Path  string
	Value *value.Value
	Err   error
}

// Compile resolves and parses the given paths. Results preserve the
// request order regardless of which goroutine finished first. The returned
// error is the first per-document failure in request order, or the context
// error if the context was canceled; per-document outcomes remain
// available in the results either way.
func (c *Compiler) Compile(ctx context.Context, paths ...string) ([]Result, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	if c.Resolver == nil {
		return nil, fmt.Errorf("fson: compiler has no resolver")
	}

	par := c.MaxParallelism
	if par <= 0 {
		par = runtime.GOMAXPROCS(-1)
		if cpus := runtime.NumCPU(); par > cpus {
			par = cpus
		}
	}

	sem := semaphore.NewWeighted(int64(par))
	results := make([]Result, len(paths))
	var wg sync.WaitGroup
	for i, path := range paths {
		results[i].Path = path
		if err := sem.Acquire(ctx, 1); err != nil {
			results[i].Err = err
			continue
		}
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			defer sem.Release(1)
			results[i].Value, results[i].Err = c.compileOne(path)
		}(i, path)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return results, err
	}
	for i := range results {
		if results[i].Err != nil {
			return results, fmt.Errorf("%s: %w", results[i].Path, results[i].Err)
		}
	}
	return results, nil
}

func (c *Compiler) compileOne(path string) (*value.Value, error) {
	res, err := c.Resolver.FindDocumentByPath(path)
	if err != nil {
		return nil, err
	}
	switch {
	case res.Value != nil:
		return res.Value, nil
	case res.Data != nil:
		return parser.Parse(res.Data)
	case res.Source != nil:
		data, err := io.ReadAll(res.Source)
		if err != nil {
			return nil, err
		}
		return parser.Parse(data)
	}
	return nil, fmt.Errorf("fson: resolver returned empty search result for %q", path)
}
