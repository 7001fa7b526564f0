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

// Package printer emits canonical FSON text from a value tree. The output
// of Print re-parses to a tree that is structurally equal to the input;
// two equal trees produce identical compact-form bytes.
package printer

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/kralicky/fson/reporter"
	"github.com/kralicky/fson/value"
)

// Options controls the text layout. The compact form keeps the document on
// one line, with a single space after each ':' and ','; the pretty form
// breaks container entries onto their own lines with 4-space indentation.
// Both forms parse to equal trees.
type Options struct {
	Pretty bool
}

const indentUnit = "    "

// Print serializes v to FSON text.
func Print(v *value.Value, opts Options) (string, error) {
	if v == nil {
		return "", reporter.New(reporter.KindInvalidArg, 0, "nil value")
	}
	pr := &printer{pretty: opts.Pretty}
	if err := pr.writeDocument(v); err != nil {
		return "", err
	}
	return pr.sb.String(), nil
}

// Fprint serializes v to w.
func Fprint(w io.Writer, v *value.Value, opts Options) error {
	text, err := Print(v, opts)
	if err != nil {
		return err
	}
	_, werr := io.WriteString(w, text)
	return werr
}

type printer struct {
	sb     strings.Builder
	pretty bool
	depth  int
}

func (pr *printer) writeDocument(v *value.Value) error {
	switch t := v.Type(); {
	case t == value.TypeObject:
		return pr.writeObject(v)
	case t == value.TypeArray:
		if v.ElemType() == value.TypeMix {
			return pr.writeArray(v, specOf(v))
		}
		// a parameterized array needs the typed document form to keep its
		// declared element type through a reparse
		pr.sb.WriteString("value: ")
		return pr.writeAnnotated(v)
	case bareStable(v):
		return pr.writeScalarLiteral(v)
	default:
		pr.sb.WriteString("value: ")
		return pr.writeAnnotated(v)
	}
}

// bareStable reports whether the scalar's bare literal re-infers the same
// tag under the untyped fallback (int literals infer i64, floats f64,
// quoted strings cstr, identifiers enum, prefixed literals hex/oct/bin).
func bareStable(v *value.Value) bool {
	switch v.Type() {
	case value.TypeNull, value.TypeBool, value.TypeI64, value.TypeCStr,
		value.TypeHex, value.TypeOct, value.TypeBin:
		return true
	case value.TypeF64:
		f, _ := v.AsF64()
		return strings.ContainsAny(formatFloat(f, 64), ".eE")
	case value.TypeEnum:
		s, _ := v.AsEnum()
		return isBareIdent(s)
	}
	return false
}

// writeAnnotated writes `typespec: value` for any node, including
// `null: null` for the null value.
func (pr *printer) writeAnnotated(v *value.Value) error {
	switch v.Type() {
	case value.TypeNull:
		pr.sb.WriteString("null: null")
		return nil
	case value.TypeObject:
		pr.sb.WriteString("object: ")
		return pr.writeObject(v)
	case value.TypeArray:
		spec := specOf(v)
		pr.sb.WriteString(spec.String())
		pr.sb.WriteString(": ")
		return pr.writeArray(v, spec)
	default:
		pr.sb.WriteString(v.Type().String())
		pr.sb.WriteString(": ")
		return pr.writeScalarLiteral(v)
	}
}

func (pr *printer) writeObject(v *value.Value) error {
	fields := v.Fields()
	if len(fields) == 0 {
		return reporter.New(reporter.KindInvalidArg, 0, "empty object cannot be serialized")
	}
	pr.sb.WriteByte('{')
	pr.depth++
	for i, f := range fields {
		if i > 0 {
			pr.sb.WriteByte(',')
			if !pr.pretty {
				pr.sb.WriteByte(' ')
			}
		}
		pr.newline()
		pr.writeKey(f.Key)
		pr.sb.WriteString(": ")
		if err := pr.writeAnnotated(f.Val); err != nil {
			return err
		}
	}
	pr.depth--
	pr.newline()
	pr.sb.WriteByte('}')
	return nil
}

func (pr *printer) writeArray(v *value.Value, spec *specNode) error {
	elems := v.Elems()
	if len(elems) == 0 {
		pr.sb.WriteString("[]")
		return nil
	}
	pr.sb.WriteByte('[')
	pr.depth++
	for i, el := range elems {
		if i > 0 {
			pr.sb.WriteByte(',')
			if !pr.pretty {
				pr.sb.WriteByte(' ')
			}
		}
		pr.newline()
		if err := pr.writeElement(el, spec.elem); err != nil {
			return err
		}
	}
	pr.depth--
	pr.newline()
	pr.sb.WriteByte(']')
	return nil
}

// writeElement writes one array element under the declared element spec.
// Elements whose tag matches the declaration are written as bare literals;
// everything else carries its own annotation so a reparse keeps its tag.
func (pr *printer) writeElement(el *value.Value, declared *specNode) error {
	if declared != nil {
		switch {
		case declared.t == value.TypeArray && el.Type() == value.TypeArray:
			spec := specOf(el)
			if declared.elem == nil && el.ElemType() == value.TypeMix {
				return pr.writeArray(el, spec)
			}
			if declared.elem != nil && spec.String() == declared.String() {
				return pr.writeArray(el, spec)
			}
		case declared.t.IsScalar() && el.Type() == declared.t:
			if declared.t != value.TypeEnum {
				return pr.writeScalarLiteral(el)
			}
			// enums stay bare only when the identifier survives inference
			if s, _ := el.AsEnum(); isBareIdent(s) {
				return pr.writeScalarLiteral(el)
			}
		}
	}
	return pr.writeAnnotated(el)
}

func (pr *printer) writeScalarLiteral(v *value.Value) error {
	switch v.Type() {
	case value.TypeNull:
		pr.sb.WriteString("null")
	case value.TypeBool:
		b, _ := v.AsBool()
		pr.sb.WriteString(strconv.FormatBool(b))
	case value.TypeI8, value.TypeI16, value.TypeI32, value.TypeI64:
		pr.sb.WriteString(strconv.FormatInt(signedPayload(v), 10))
	case value.TypeU8, value.TypeU16, value.TypeU32, value.TypeU64:
		pr.sb.WriteString(strconv.FormatUint(unsignedPayload(v), 10))
	case value.TypeHex:
		u, _ := v.AsHex()
		pr.sb.WriteString("0x")
		pr.sb.WriteString(strings.ToUpper(strconv.FormatUint(u, 16)))
	case value.TypeOct:
		u, _ := v.AsOct()
		pr.sb.WriteString("0o")
		pr.sb.WriteString(strconv.FormatUint(u, 8))
	case value.TypeBin:
		u, _ := v.AsBin()
		pr.sb.WriteString("0b")
		pr.sb.WriteString(strconv.FormatUint(u, 2))
	case value.TypeF32:
		f, _ := v.AsF32()
		if math.IsInf(float64(f), 0) || math.IsNaN(float64(f)) {
			return reporter.New(reporter.KindInvalidArg, 0, "non-finite float has no literal form")
		}
		pr.sb.WriteString(formatFloat(float64(f), 32))
	case value.TypeF64:
		f, _ := v.AsF64()
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return reporter.New(reporter.KindInvalidArg, 0, "non-finite float has no literal form")
		}
		pr.sb.WriteString(formatFloat(f, 64))
	case value.TypeEnum:
		s, _ := v.AsEnum()
		if isBareIdent(s) {
			pr.sb.WriteString(s)
		} else {
			pr.writeQuoted(s)
		}
	case value.TypeCStr, value.TypeDatetime, value.TypeDuration:
		s, _ := v.AsStr()
		pr.writeQuoted(s)
	default:
		return reporter.Errorf(reporter.KindInvalidArg, 0, "cannot serialize %v as a scalar", v.Type())
	}
	return nil
}

func signedPayload(v *value.Value) int64 {
	switch v.Type() {
	case value.TypeI8:
		i, _ := v.AsI8()
		return int64(i)
	case value.TypeI16:
		i, _ := v.AsI16()
		return int64(i)
	case value.TypeI32:
		i, _ := v.AsI32()
		return int64(i)
	default:
		i, _ := v.AsI64()
		return i
	}
}

func unsignedPayload(v *value.Value) uint64 {
	switch v.Type() {
	case value.TypeU8:
		u, _ := v.AsU8()
		return uint64(u)
	case value.TypeU16:
		u, _ := v.AsU16()
		return uint64(u)
	case value.TypeU32:
		u, _ := v.AsU32()
		return uint64(u)
	default:
		u, _ := v.AsU64()
		return u
	}
}

func formatFloat(f float64, bits int) string {
	return strconv.FormatFloat(f, 'g', -1, bits)
}

func (pr *printer) writeKey(key string) {
	if isBareIdent(key) {
		pr.sb.WriteString(key)
		return
	}
	pr.writeQuoted(key)
}

// writeQuoted emits a double-quoted string using only the escape set the
// scanner recognizes; other control bytes become \u escapes and valid
// UTF-8 passes through raw.
func (pr *printer) writeQuoted(s string) {
	pr.sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			pr.sb.WriteString(`\"`)
		case '\\':
			pr.sb.WriteString(`\\`)
		case '\n':
			pr.sb.WriteString(`\n`)
		case '\r':
			pr.sb.WriteString(`\r`)
		case '\t':
			pr.sb.WriteString(`\t`)
		case '\b':
			pr.sb.WriteString(`\b`)
		case '\f':
			pr.sb.WriteString(`\f`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&pr.sb, `\u%04X`, r)
			} else {
				pr.sb.WriteRune(r)
			}
		}
	}
	pr.sb.WriteByte('"')
}

func (pr *printer) newline() {
	if !pr.pretty {
		return
	}
	pr.sb.WriteByte('\n')
	for i := 0; i < pr.depth; i++ {
		pr.sb.WriteString(indentUnit)
	}
}

func isBareIdent(s string) bool {
	if s == "" || s == "true" || s == "false" || s == "null" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' {
			continue
		}
		if i > 0 && c >= '0' && c <= '9' {
			continue
		}
		return false
	}
	return true
}

// specNode mirrors the parser's view of an array type parameter. A nil
// elem on an array node renders as plain `array`, whose elements each
// carry their own tag.
type specNode struct {
	t    value.Type
	elem *specNode
}

func (n *specNode) String() string {
	if n.t != value.TypeArray {
		return n.t.String()
	}
	if n.elem == nil {
		return "array"
	}
	return "array<" + n.elem.String() + ">"
}

// specOf reconstructs the declared type parameter of an array. Arrays of
// arrays only keep a one-level element tag in the value model, so the
// nested parameter is recovered from the children when they agree on one;
// otherwise the children are annotated individually.
func specOf(v *value.Value) *specNode {
	switch et := v.ElemType(); et {
	case value.TypeMix:
		return &specNode{t: value.TypeArray}
	case value.TypeArray:
		var inner *specNode
		uniform := v.Len() > 0
		for _, c := range v.Elems() {
			if c.Type() != value.TypeArray {
				uniform = false
				break
			}
			s := specOf(c)
			if inner == nil {
				inner = s
			} else if s.String() != inner.String() {
				uniform = false
				break
			}
		}
		if uniform {
			return &specNode{t: value.TypeArray, elem: inner}
		}
		return &specNode{t: value.TypeArray, elem: &specNode{t: value.TypeArray}}
	default:
		return &specNode{t: value.TypeArray, elem: &specNode{t: et}}
	}
}
