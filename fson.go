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

// Package fson parses and serializes FSON ("Fossil Serialized Object
// Notation") documents: a typed, human-readable interchange format in which
// every value carries an explicit type tag (`key: type: value`), keys may
// be bareword identifiers, and container types may be parameterized
// (`array<i32>`, `array<array<mix>>`).
//
// The subpackages hold the moving parts: [value] is the tagged value model,
// [parser] the scanner and recursive-descent parser, [printer] the
// canonical serializer, [reporter] the shared error model, and [index] a
// path index over parsed trees. This package ties them together for the
// common single-document case and adds a concurrent batch front end for
// many documents.
package fson

import (
	"github.com/kralicky/fson/parser"
	"github.com/kralicky/fson/printer"
	"github.com/kralicky/fson/value"
)

// Parse parses a complete FSON document held in memory. On failure the
// returned error is a *reporter.Error carrying the error kind and the byte
// offset of the first problem; no partial tree is returned.
func Parse(data []byte) (*value.Value, error) {
	return parser.Parse(data)
}

// ParseString is Parse for string input.
func ParseString(text string) (*value.Value, error) {
	return parser.Parse([]byte(text))
}

// Serialize emits canonical FSON text for the given tree. The output
// re-parses to a tree structurally equal to v.
func Serialize(v *value.Value, opts printer.Options) (string, error) {
	return printer.Print(v, opts)
}

// Roundtrip parses text and re-serializes the resulting tree. It is the
// canonicalizer: insignificant whitespace is dropped, every entry gains its
// explicit type annotation, and the output re-parses to an equal tree.
func Roundtrip(data []byte, opts printer.Options) (string, error) {
	v, err := parser.Parse(data)
	if err != nil {
		return "", err
	}
	return printer.Print(v, opts)
}
