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

// Package reporter defines the error model shared by the FSON parser, the
// printer, and the typed value accessors.
package reporter

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure reported through an *Error.
type ErrorKind int

const (
	// KindOK is the zero state and never appears in a returned error.
	KindOK ErrorKind = iota
	// KindInvalidArg reports caller misuse, such as a nil value passed to a
	// typed accessor or an empty input buffer passed to the parser.
	KindInvalidArg
	// KindParse reports a syntactic failure: missing colon, missing key,
	// unterminated string, empty object, unknown escape, duplicate key,
	// invalid duration.
	KindParse
	// KindType reports a semantic type failure: an unknown type tag, a
	// malformed array type parameter, or a typed accessor applied to a value
	// with a different tag.
	KindType
	// KindRange reports a numeric literal outside its declared width.
	KindRange
	// KindAlloc reports an allocation failure. The Go runtime aborts the
	// process instead of surfacing failed allocations, so this kind is
	// declared for API completeness but never produced here.
	KindAlloc
)

var kindNames = [...]string{
	"ok",
	"invalid_arg",
	"parse",
	"type",
	"range",
	"alloc",
}

func (k ErrorKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Error describes the first unrecoverable problem encountered by an
// operation. Offset is the byte offset into the input at which the problem
// was detected; it is zero when no position is meaningful (accessor misuse,
// for example).
type Error struct {
	Kind   ErrorKind
	Offset int
	Msg    string
}

func (e *Error) Error() string {
	if e.Offset > 0 {
		return fmt.Sprintf("%s error at offset %d: %s", e.Kind, e.Offset, e.Msg)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Msg)
}

// New returns an *Error with the given kind, byte offset, and message.
func New(kind ErrorKind, offset int, msg string) *Error {
	return &Error{Kind: kind, Offset: offset, Msg: msg}
}

// Errorf is New with the message built via fmt.Sprintf.
func Errorf(kind ErrorKind, offset int, format string, args ...any) *Error {
	return &Error{Kind: kind, Offset: offset, Msg: fmt.Sprintf(format, args...)}
}

// KindOf extracts the ErrorKind from err. It returns KindOK when err is nil
// and KindInvalidArg when err is non-nil but does not carry an *Error.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindOK
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInvalidArg
}
