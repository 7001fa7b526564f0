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

// Package parser turns FSON text into a value tree. The canonical form is
// `key: type: value`; where the second colon is absent the parser falls
// back to the untyped JSON-like form and infers the tag from the literal.
package parser

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/kralicky/fson/reporter"
	"github.com/kralicky/fson/value"
)

// maxNestingDepth bounds parser recursion. Deeper documents fail with a
// parse error rather than exhausting the goroutine stack.
const maxNestingDepth = 1024

var durationRE = regexp.MustCompile(`^([0-9]+[wdhms])+$`)

// Parse parses a complete FSON document and returns the root of the value
// tree. On failure it returns a nil tree and a *reporter.Error carrying the
// kind, byte offset, and message of the first unrecoverable problem; no
// partial tree is ever returned.
func Parse(data []byte) (*value.Value, error) {
	if len(data) == 0 {
		return nil, reporter.New(reporter.KindInvalidArg, 0, "empty input")
	}
	p := &parser{s: scanner{data: data}}
	v, perr := p.parseDocument()
	if perr != nil {
		return nil, perr
	}
	return v, nil
}

// typeRef is a parsed type annotation. For arrays, elem is the declared
// element type; a nil elem means the untyped `array:` form whose elements
// each carry their own tag.
type typeRef struct {
	t    value.Type
	elem *typeRef
}

type parser struct {
	s scanner
}

func (p *parser) parseDocument() (*value.Value, *reporter.Error) {
	v, _, err := p.parseFlexibleValue(1)
	if err != nil {
		return nil, err
	}
	if !p.s.eof() {
		return nil, reporter.New(reporter.KindParse, p.s.offset(), "unexpected trailing data")
	}
	return v, nil
}

// parseFlexibleValue parses `[label ':'] [type ':'] value`, the shape
// shared by the document root and array elements. Labels are discarded;
// they only name entries in the text. annotated reports whether an explicit
// type annotation was consumed.
func (p *parser) parseFlexibleValue(depth int) (v *value.Value, annotated bool, err *reporter.Error) {
	mark := p.s.pos
	label, isIdent, ok := p.scanLabelToken()
	if ok && isIdent && label == "array" {
		// a label is never followed by '<'; this must be a parameterized
		// array annotation
		if c, have := p.s.peek(); have && c == '<' {
			p.s.pos = mark
			ref, haveAnnot, err := p.tryTypeAnnot()
			if err != nil {
				return nil, false, err
			}
			if haveAnnot {
				v, err := p.parseTypedValue(ref, depth)
				return v, true, err
			}
		}
	}
	if ok && p.s.accept(":") {
		ref, haveAnnot, err := p.tryTypeAnnot()
		if err != nil {
			return nil, false, err
		}
		if haveAnnot {
			v, err := p.parseTypedValue(ref, depth)
			return v, true, err
		}
		// No second colon. When the leading token is itself a type name
		// this is the `type: value` form; re-read it as the annotation.
		if isIdent {
			if _, isType := value.TypeFromName(label); isType {
				p.s.pos = mark
				ref, haveAnnot, err = p.tryTypeAnnot()
				if err != nil {
					return nil, false, err
				}
				if haveAnnot {
					v, err := p.parseTypedValue(ref, depth)
					return v, true, err
				}
			}
		}
		// `label: value` — untyped fallback.
		v, err2 := p.parseBareValue(depth)
		return v, false, err2
	}
	p.s.pos = mark
	v, err = p.parseBareValue(depth)
	return v, false, err
}

// scanLabelToken consumes an identifier, quoted string, or numeric literal
// in label position. The cursor is left after the token on success.
func (p *parser) scanLabelToken() (text string, isIdent bool, ok bool) {
	if id, ok := p.s.readIdent(); ok {
		return id, true, true
	}
	c, ok := p.s.peek()
	if !ok {
		return "", false, false
	}
	switch {
	case c == '"':
		s, err := p.s.readString()
		if err != nil {
			return "", false, false
		}
		return s, false, true
	case isDigit(c) || c == '-' || c == '+':
		lit, err := p.s.readNumber()
		if err != nil {
			return "", false, false
		}
		return lit.text, false, true
	}
	return "", false, false
}

// tryTypeAnnot attempts to read `type ':'` (including `array<...> ':'`) at
// the cursor. When the upcoming tokens are not a type annotation the cursor
// is restored and ok is false. Once a `<` is seen the parser is committed:
// malformed or unknown type parameters fail instead of backtracking, as do
// known-name annotations with bad arguments.
func (p *parser) tryTypeAnnot() (ref *typeRef, ok bool, err *reporter.Error) {
	mark := p.s.pos
	nameOff := p.s.tokenOffset()
	name, haveIdent := p.s.readIdent()
	if !haveIdent {
		p.s.pos = mark
		return nil, false, nil
	}
	if name == "array" {
		if p.s.accept("<") {
			elem, err := p.parseTypeArg()
			if err != nil {
				return nil, false, err
			}
			if !p.s.accept(">") {
				return nil, false, reporter.New(reporter.KindType, p.s.offset(), "malformed array type: missing '>'")
			}
			if !p.s.accept(":") {
				return nil, false, reporter.New(reporter.KindParse, p.s.offset(), "expected ':' after type")
			}
			return &typeRef{t: value.TypeArray, elem: elem}, true, nil
		}
		if !p.s.accept(":") {
			p.s.pos = mark
			return nil, false, nil
		}
		return &typeRef{t: value.TypeArray}, true, nil
	}
	if !p.s.accept(":") {
		p.s.pos = mark
		return nil, false, nil
	}
	t, known := value.TypeFromName(name)
	if !known {
		return nil, false, reporter.Errorf(reporter.KindType, nameOff, "unknown type %q", name)
	}
	if t == value.TypeMix {
		return nil, false, reporter.New(reporter.KindType, nameOff, "mix is only valid as an array element type")
	}
	return &typeRef{t: t}, true, nil
}

// parseTypeArg parses the element type inside `array<...>`.
func (p *parser) parseTypeArg() (*typeRef, *reporter.Error) {
	off := p.s.tokenOffset()
	name, ok := p.s.readIdent()
	if !ok {
		return nil, reporter.New(reporter.KindType, off, "empty array type parameter")
	}
	if name == "array" {
		if p.s.accept("<") {
			elem, err := p.parseTypeArg()
			if err != nil {
				return nil, err
			}
			if !p.s.accept(">") {
				return nil, reporter.New(reporter.KindType, p.s.offset(), "malformed array type: missing '>'")
			}
			return &typeRef{t: value.TypeArray, elem: elem}, nil
		}
		return &typeRef{t: value.TypeArray}, nil
	}
	t, known := value.TypeFromName(name)
	if !known {
		return nil, reporter.Errorf(reporter.KindType, off, "unknown array element type %q", name)
	}
	if t == value.TypeObject {
		return nil, reporter.New(reporter.KindType, off, "object is not a valid array element type")
	}
	return &typeRef{t: t}, nil
}

func (p *parser) parseBareValue(depth int) (*value.Value, *reporter.Error) {
	c, ok := p.s.peek()
	if !ok {
		return nil, reporter.New(reporter.KindParse, p.s.offset(), "unexpected end of input")
	}
	switch {
	case c == '{':
		return p.parseObject(depth + 1)
	case c == '[':
		return p.parseArray(nil, depth+1)
	case c == '"':
		s, err := p.s.readString()
		if err != nil {
			return nil, err
		}
		return value.Str(value.TypeCStr, s), nil
	case isIdentStart(c):
		id, _ := p.s.readIdent()
		switch id {
		case "true":
			return value.Bool(true), nil
		case "false":
			return value.Bool(false), nil
		case "null":
			return value.Null(), nil
		}
		return value.Str(value.TypeEnum, id), nil
	case isDigit(c) || c == '-' || c == '+':
		return p.parseBareNumber()
	}
	return nil, reporter.Errorf(reporter.KindParse, p.s.offset(), "unexpected character %q", c)
}

func (p *parser) parseBareNumber() (*value.Value, *reporter.Error) {
	lit, err := p.s.readNumber()
	if err != nil {
		return nil, err
	}
	switch lit.kind {
	case numFloat:
		f, perr := strconv.ParseFloat(lit.text, 64)
		if perr != nil {
			return nil, reporter.New(reporter.KindRange, lit.offset, "float literal out of range")
		}
		return value.Float(value.TypeF64, f), nil
	case numInt:
		i, perr := strconv.ParseInt(lit.text, 10, 64)
		if perr != nil {
			return nil, reporter.New(reporter.KindRange, lit.offset, "integer literal out of range")
		}
		return value.Int(value.TypeI64, i), nil
	default:
		if lit.neg {
			return nil, reporter.New(reporter.KindParse, lit.offset, "negative prefixed literal")
		}
		base, t := baseFor(lit.kind)
		u, perr := strconv.ParseUint(lit.digits, base, 64)
		if perr != nil {
			return nil, reporter.Errorf(reporter.KindRange, lit.offset, "%v literal out of range", t)
		}
		return value.Uint(t, u), nil
	}
}

func baseFor(kind numKind) (int, value.Type) {
	switch kind {
	case numOct:
		return 8, value.TypeOct
	case numBin:
		return 2, value.TypeBin
	default:
		return 16, value.TypeHex
	}
}

func (p *parser) parseTypedValue(ref *typeRef, depth int) (*value.Value, *reporter.Error) {
	off := p.s.tokenOffset()
	switch t := ref.t; t {
	case value.TypeObject:
		if c, ok := p.s.peek(); !ok || c != '{' {
			return nil, reporter.New(reporter.KindParse, off, "expected object")
		}
		return p.parseObject(depth + 1)
	case value.TypeArray:
		if c, ok := p.s.peek(); !ok || c != '[' {
			return nil, reporter.New(reporter.KindParse, off, "expected array")
		}
		return p.parseArray(ref.elem, depth+1)
	case value.TypeNull:
		if id, ok := p.s.readIdent(); !ok || id != "null" {
			return nil, reporter.New(reporter.KindParse, off, "expected null")
		}
		return value.Null(), nil
	case value.TypeBool:
		switch id, ok := p.s.readIdent(); {
		case ok && id == "true":
			return value.Bool(true), nil
		case ok && id == "false":
			return value.Bool(false), nil
		}
		return nil, reporter.New(reporter.KindParse, off, "expected bool")
	case value.TypeCStr:
		s, err := p.s.readString()
		if err != nil {
			return nil, err
		}
		return value.Str(value.TypeCStr, s), nil
	case value.TypeEnum:
		if c, ok := p.s.peek(); ok && c == '"' {
			s, err := p.s.readString()
			if err != nil {
				return nil, err
			}
			return value.Str(value.TypeEnum, s), nil
		}
		if id, ok := p.s.readIdent(); ok {
			return value.Str(value.TypeEnum, id), nil
		}
		return nil, reporter.New(reporter.KindParse, off, "expected enum identifier")
	case value.TypeDatetime:
		s, err := p.s.readString()
		if err != nil {
			return nil, err
		}
		return value.Str(value.TypeDatetime, s), nil
	case value.TypeDuration:
		s, err := p.s.readString()
		if err != nil {
			return nil, err
		}
		if !durationRE.MatchString(s) {
			return nil, reporter.Errorf(reporter.KindParse, off, "invalid duration %q", s)
		}
		return value.Str(value.TypeDuration, s), nil
	case value.TypeHex, value.TypeOct, value.TypeBin:
		return p.parseBaseValue(t, off)
	default:
		return p.parseTypedNumber(t, off)
	}
}

// parseBaseValue parses a hex/oct/bin value from a prefixed literal or a
// quoted string of base digits ("DEADBEEFCAFEBABE" under hex).
func (p *parser) parseBaseValue(t value.Type, off int) (*value.Value, *reporter.Error) {
	base := 16
	switch t {
	case value.TypeOct:
		base = 8
	case value.TypeBin:
		base = 2
	}
	if c, ok := p.s.peek(); ok && c == '"' {
		s, err := p.s.readString()
		if err != nil {
			return nil, err
		}
		u, perr := strconv.ParseUint(s, base, 64)
		if perr != nil {
			if errors.Is(perr, strconv.ErrRange) {
				return nil, reporter.Errorf(reporter.KindRange, off, "%v string out of range", t)
			}
			return nil, reporter.Errorf(reporter.KindParse, off, "invalid %v string %q", t, s)
		}
		return value.Uint(t, u), nil
	}
	lit, err := p.s.readNumber()
	if err != nil {
		return nil, reporter.Errorf(reporter.KindParse, off, "expected %v literal", t)
	}
	wantKind := map[value.Type]numKind{value.TypeHex: numHex, value.TypeOct: numOct, value.TypeBin: numBin}[t]
	if lit.kind != wantKind || lit.neg {
		return nil, reporter.Errorf(reporter.KindParse, lit.offset, "expected %v literal", t)
	}
	u, perr := strconv.ParseUint(lit.digits, base, 64)
	if perr != nil {
		return nil, reporter.Errorf(reporter.KindRange, lit.offset, "%v literal out of range", t)
	}
	return value.Uint(t, u), nil
}

// parseTypedNumber parses a numeric literal under an explicit width tag.
// The literal is stored with exactly the declared tag; out-of-width
// literals are range errors.
func (p *parser) parseTypedNumber(t value.Type, off int) (*value.Value, *reporter.Error) {
	lit, err := p.s.readNumber()
	if err != nil {
		return nil, reporter.Errorf(reporter.KindParse, off, "expected %v literal", t)
	}
	switch {
	case t.IsSigned():
		if lit.kind != numInt {
			return nil, reporter.Errorf(reporter.KindParse, lit.offset, "expected integer literal for %v", t)
		}
		i, perr := strconv.ParseInt(lit.text, 10, intBits(t))
		if perr != nil {
			return nil, reporter.Errorf(reporter.KindRange, lit.offset, "literal out of range for %v", t)
		}
		return value.Int(t, i), nil
	case t.IsUnsigned():
		if lit.kind != numInt {
			return nil, reporter.Errorf(reporter.KindParse, lit.offset, "expected integer literal for %v", t)
		}
		if lit.neg {
			return nil, reporter.Errorf(reporter.KindRange, lit.offset, "negative literal for %v", t)
		}
		u, perr := strconv.ParseUint(strings.TrimPrefix(lit.text, "+"), 10, intBits(t))
		if perr != nil {
			return nil, reporter.Errorf(reporter.KindRange, lit.offset, "literal out of range for %v", t)
		}
		return value.Uint(t, u), nil
	case t.IsFloat():
		if lit.kind != numInt && lit.kind != numFloat {
			return nil, reporter.Errorf(reporter.KindParse, lit.offset, "expected float literal for %v", t)
		}
		f, perr := strconv.ParseFloat(lit.text, 64)
		if perr != nil {
			return nil, reporter.Errorf(reporter.KindRange, lit.offset, "literal out of range for %v", t)
		}
		if t == value.TypeF32 {
			if !math.IsInf(f, 0) && math.IsInf(float64(float32(f)), 0) {
				return nil, reporter.New(reporter.KindRange, lit.offset, "literal out of range for f32")
			}
			f = float64(float32(f))
		}
		return value.Float(t, f), nil
	}
	return nil, reporter.Errorf(reporter.KindType, off, "type %v does not take a literal", t)
}

func intBits(t value.Type) int {
	switch t {
	case value.TypeI8, value.TypeU8:
		return 8
	case value.TypeI16, value.TypeU16:
		return 16
	case value.TypeI32, value.TypeU32:
		return 32
	default:
		return 64
	}
}

func (p *parser) parseObject(depth int) (*value.Value, *reporter.Error) {
	off := p.s.tokenOffset()
	if depth > maxNestingDepth {
		return nil, reporter.New(reporter.KindParse, off, "nesting too deep")
	}
	if !p.s.accept("{") {
		return nil, reporter.New(reporter.KindParse, off, "expected '{'")
	}
	if p.s.accept("}") {
		return nil, reporter.New(reporter.KindParse, off, "empty object")
	}
	obj := value.NewObject()
	for {
		keyOff := p.s.tokenOffset()
		key, err := p.parseKey()
		if err != nil {
			return nil, err
		}
		if !p.s.accept(":") {
			return nil, reporter.New(reporter.KindParse, p.s.offset(), "expected ':' after key")
		}
		v, err := p.parseEntryValue(depth)
		if err != nil {
			return nil, err
		}
		if serr := obj.Set(key, v); serr != nil {
			return nil, reporter.Errorf(reporter.KindParse, keyOff, "duplicate key %q", key)
		}
		if p.s.accept(",") {
			if p.s.accept("}") {
				break
			}
			continue
		}
		if p.s.accept("}") {
			break
		}
		return nil, reporter.New(reporter.KindParse, p.s.offset(), "expected ',' or '}' in object")
	}
	// an object whose only entry is null: null denotes the null value
	if obj.Len() == 1 && obj.Get("null").Type() == value.TypeNull && obj.Keys()[0] == "null" {
		return value.Null(), nil
	}
	return obj, nil
}

// parseKey parses an object key: a bareword identifier (including the
// null/true/false keywords) or a quoted string.
func (p *parser) parseKey() (string, *reporter.Error) {
	if id, ok := p.s.readIdent(); ok {
		return id, nil
	}
	if c, ok := p.s.peek(); ok && c == '"' {
		s, err := p.s.readString()
		if err != nil {
			return "", err
		}
		if s == "" {
			return "", reporter.New(reporter.KindParse, p.s.offset(), "empty object key")
		}
		return s, nil
	}
	return "", reporter.New(reporter.KindParse, p.s.offset(), "expected key")
}

// parseEntryValue parses the part after `key ':'` in an object entry:
// either `type ':' value` or a bare value.
func (p *parser) parseEntryValue(depth int) (*value.Value, *reporter.Error) {
	ref, ok, err := p.tryTypeAnnot()
	if err != nil {
		return nil, err
	}
	if ok {
		return p.parseTypedValue(ref, depth)
	}
	return p.parseBareValue(depth)
}

func (p *parser) parseArray(elem *typeRef, depth int) (*value.Value, *reporter.Error) {
	off := p.s.tokenOffset()
	if depth > maxNestingDepth {
		return nil, reporter.New(reporter.KindParse, off, "nesting too deep")
	}
	if !p.s.accept("[") {
		return nil, reporter.New(reporter.KindParse, off, "expected '['")
	}
	arr := value.NewArray(declaredElemTag(elem))
	if p.s.accept("]") {
		return arr, nil
	}
	for {
		el, err := p.parseElement(elem, depth)
		if err != nil {
			return nil, err
		}
		if aerr := arr.Append(el); aerr != nil {
			return nil, reporter.New(reporter.KindParse, p.s.offset(), "invalid array element")
		}
		if p.s.accept(",") {
			if p.s.accept("]") {
				break
			}
			continue
		}
		if p.s.accept("]") {
			break
		}
		return nil, reporter.New(reporter.KindParse, p.s.offset(), "expected ',' or ']' in array")
	}
	return arr, nil
}

func declaredElemTag(elem *typeRef) value.Type {
	switch {
	case elem == nil || elem.t == value.TypeMix:
		return value.TypeMix
	default:
		return elem.t
	}
}

// parseElement parses one array element. Under a homogeneous scalar element
// type, bare literals are coerced to the declared tag; annotated elements
// and elements that do not convert keep their own tag, leaving the array
// size intact.
func (p *parser) parseElement(elem *typeRef, depth int) (*value.Value, *reporter.Error) {
	if elem != nil && elem.t == value.TypeArray {
		if c, ok := p.s.peek(); ok && c == '[' {
			return p.parseArray(elem.elem, depth+1)
		}
	}
	v, annotated, err := p.parseFlexibleValue(depth)
	if err != nil {
		return nil, err
	}
	if !annotated && elem != nil && elem.t.IsScalar() {
		v = coerceScalar(v, elem.t)
	}
	return v, nil
}

// coerceScalar reinterprets a bare literal under the declared element type
// of a homogeneous array. Literals that cannot represent the target type
// are kept at their inferred tag; coercion never fails the parse.
func coerceScalar(v *value.Value, t value.Type) *value.Value {
	if v.Type() == t {
		return v
	}
	switch v.Type() {
	case value.TypeI64:
		i, _ := v.AsI64()
		switch {
		case t.IsSigned():
			if value.IntFits(t, i) {
				return value.Int(t, i)
			}
		case t.IsUnsigned() || t.IsBase():
			if i >= 0 && value.UintFits(t, uint64(i)) {
				return value.Uint(t, uint64(i))
			}
		case t.IsFloat():
			f := float64(i)
			if t == value.TypeF32 {
				f = float64(float32(f))
			}
			return value.Float(t, f)
		}
	case value.TypeF64:
		f, _ := v.AsF64()
		if t == value.TypeF32 && !math.IsInf(float64(float32(f)), 0) {
			return value.Float(value.TypeF32, float64(float32(f)))
		}
	case value.TypeHex, value.TypeOct, value.TypeBin:
		u := baseUint(v)
		switch {
		case t.IsBase():
			return value.Uint(t, u)
		case t.IsUnsigned():
			if value.UintFits(t, u) {
				return value.Uint(t, u)
			}
		case t.IsSigned():
			if u <= math.MaxInt64 && value.IntFits(t, int64(u)) {
				return value.Int(t, int64(u))
			}
		}
	case value.TypeCStr:
		s, _ := v.AsCStr()
		switch t {
		case value.TypeEnum, value.TypeDatetime:
			return value.Str(t, s)
		case value.TypeDuration:
			if durationRE.MatchString(s) {
				return value.Str(t, s)
			}
		case value.TypeHex:
			if u, err := strconv.ParseUint(s, 16, 64); err == nil {
				return value.Uint(value.TypeHex, u)
			}
		case value.TypeOct:
			if u, err := strconv.ParseUint(s, 8, 64); err == nil {
				return value.Uint(value.TypeOct, u)
			}
		case value.TypeBin:
			if u, err := strconv.ParseUint(s, 2, 64); err == nil {
				return value.Uint(value.TypeBin, u)
			}
		}
	case value.TypeEnum:
		s, _ := v.AsEnum()
		if t == value.TypeCStr {
			return value.Str(value.TypeCStr, s)
		}
	}
	return v
}

func baseUint(v *value.Value) uint64 {
	switch v.Type() {
	case value.TypeHex:
		u, _ := v.AsHex()
		return u
	case value.TypeOct:
		u, _ := v.AsOct()
		return u
	default:
		u, _ := v.AsBin()
		return u
	}
}
