// Package vdf parses Valve's key-value serialization format, the grammar
// SteamCMD uses when it prints app info blocks.
//
// The format is a sequence of quoted string keys, each followed by either a
// quoted string value or a brace-delimited nested block:
//
//	"730"
//	{
//	        "common"
//	        {
//	                "name"          "Counter-Strike: Global Offensive"
//	        }
//	}
//
// Unquoted tokens and // line comments are tolerated since SteamCMD's output
// is not a documented contract and has drifted before.
package vdf

import (
	"fmt"
	"strings"
)

// Object is a parsed VDF block. Values are either string or Object.
type Object map[string]any

// ParseError describes a failure to parse VDF text.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("vdf: line %d: %s", e.Line, e.Message)
}

// Parse parses VDF text into an Object holding the top-level key-value
// pairs. Trailing whitespace and comments after the last pair are ignored.
func Parse(text string) (Object, error) {
	lx := &lexer{input: text, line: 1}
	obj, err := parsePairs(lx, false)
	if err != nil {
		return nil, err
	}
	return obj, nil
}

// String returns the string value at a dotted path (e.g. "common.name").
func (o Object) String(path string) (string, bool) {
	v, ok := o.lookup(path)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Object returns the nested block at a dotted path.
func (o Object) Object(path string) (Object, bool) {
	v, ok := o.lookup(path)
	if !ok {
		return nil, false
	}
	sub, ok := v.(Object)
	return sub, ok
}

func (o Object) lookup(path string) (any, bool) {
	parts := strings.Split(path, ".")
	var cur any = o
	for _, p := range parts {
		obj, ok := cur.(Object)
		if !ok {
			return nil, false
		}
		cur, ok = obj[p]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// parsePairs reads key-value pairs until EOF (nested=false) or a closing
// brace (nested=true).
func parsePairs(lx *lexer, nested bool) (Object, error) {
	obj := Object{}
	for {
		tok, err := lx.next()
		if err != nil {
			return nil, err
		}

		switch tok.kind {
		case tokenEOF:
			if nested {
				return nil, &ParseError{Line: lx.line, Message: "unexpected end of input inside block"}
			}
			return obj, nil
		case tokenCloseBrace:
			if !nested {
				return nil, &ParseError{Line: tok.line, Message: "unmatched '}'"}
			}
			return obj, nil
		case tokenOpenBrace:
			return nil, &ParseError{Line: tok.line, Message: "expected key, got '{'"}
		}

		key := tok.text

		val, err := lx.next()
		if err != nil {
			return nil, err
		}
		switch val.kind {
		case tokenString:
			obj[key] = val.text
		case tokenOpenBrace:
			sub, err := parsePairs(lx, true)
			if err != nil {
				return nil, err
			}
			obj[key] = sub
		case tokenCloseBrace:
			return nil, &ParseError{Line: val.line, Message: fmt.Sprintf("key %q has no value", key)}
		case tokenEOF:
			return nil, &ParseError{Line: lx.line, Message: fmt.Sprintf("key %q has no value", key)}
		}
	}
}

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenString
	tokenOpenBrace
	tokenCloseBrace
)

type token struct {
	kind tokenKind
	text string
	line int
}

type lexer struct {
	input string
	pos   int
	line  int
}

func (lx *lexer) next() (token, error) {
	lx.skipSpaceAndComments()
	if lx.pos >= len(lx.input) {
		return token{kind: tokenEOF, line: lx.line}, nil
	}

	switch c := lx.input[lx.pos]; c {
	case '{':
		lx.pos++
		return token{kind: tokenOpenBrace, line: lx.line}, nil
	case '}':
		lx.pos++
		return token{kind: tokenCloseBrace, line: lx.line}, nil
	case '"':
		return lx.quotedString()
	default:
		return lx.bareToken()
	}
}

func (lx *lexer) skipSpaceAndComments() {
	for lx.pos < len(lx.input) {
		c := lx.input[lx.pos]
		switch {
		case c == '\n':
			lx.line++
			lx.pos++
		case c == ' ' || c == '\t' || c == '\r':
			lx.pos++
		case c == '/' && lx.pos+1 < len(lx.input) && lx.input[lx.pos+1] == '/':
			for lx.pos < len(lx.input) && lx.input[lx.pos] != '\n' {
				lx.pos++
			}
		default:
			return
		}
	}
}

func (lx *lexer) quotedString() (token, error) {
	start := lx.line
	lx.pos++ // opening quote

	var sb strings.Builder
	for lx.pos < len(lx.input) {
		c := lx.input[lx.pos]
		switch c {
		case '"':
			lx.pos++
			return token{kind: tokenString, text: sb.String(), line: start}, nil
		case '\\':
			if lx.pos+1 >= len(lx.input) {
				return token{}, &ParseError{Line: lx.line, Message: "dangling escape at end of input"}
			}
			lx.pos++
			switch esc := lx.input[lx.pos]; esc {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case '\\', '"':
				sb.WriteByte(esc)
			default:
				// Unknown escape, keep it verbatim.
				sb.WriteByte('\\')
				sb.WriteByte(esc)
			}
			lx.pos++
		case '\n':
			return token{}, &ParseError{Line: start, Message: "unterminated string"}
		default:
			sb.WriteByte(c)
			lx.pos++
		}
	}
	return token{}, &ParseError{Line: start, Message: "unterminated string"}
}

func (lx *lexer) bareToken() (token, error) {
	start := lx.pos
	for lx.pos < len(lx.input) {
		c := lx.input[lx.pos]
		if c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '{' || c == '}' || c == '"' {
			break
		}
		lx.pos++
	}
	return token{kind: tokenString, text: lx.input[start:lx.pos], line: lx.line}, nil
}
