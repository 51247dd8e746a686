package platform

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// knownKeys lists the key = "value" predicates understood by the evaluator.
var knownKeys = map[string]bool{
	"target_arch":          true,
	"target_os":            true,
	"target_env":           true,
	"target_vendor":        true,
	"target_family":        true,
	"target_endian":        true,
	"target_pointer_width": true,
	"target_has_atomic":    true,
	"target_feature":       true,
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokString
	tokLParen
	tokRParen
	tokComma
	tokEq
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of input"
	case tokIdent:
		return "identifier"
	case tokString:
		return "string"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	case tokComma:
		return "','"
	default:
		return "'='"
	}
}

type token struct {
	kind tokenKind
	text string
	pos  int
}

// cfgParser is a recursive descent parser over a pre-lexed token slice.
// Nesting depth is bounded by the input length.
type cfgParser struct {
	input      string
	toks       []token
	pos        int
	unknownKey string // first unrecognised key, reported after a clean parse
}

func parseCfg(input string) (expr, error) {
	toks, err := lex(input)
	if err != nil {
		return nil, err
	}
	p := &cfgParser{input: input, toks: toks}

	if t := p.next(); t.kind != tokIdent || t.text != "cfg" {
		return nil, p.errorf(t, "expected cfg")
	}
	if err := p.expect(tokLParen); err != nil {
		return nil, err
	}
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expect(tokRParen); err != nil {
		return nil, err
	}
	if t := p.next(); t.kind != tokEOF {
		return nil, p.errorf(t, "unexpected trailing input")
	}
	if p.unknownKey != "" {
		return nil, &ParseError{Kind: UnknownPredicate, Input: input, Detail: p.unknownKey}
	}
	return e, nil
}

func (p *cfgParser) parseExpr() (expr, error) {
	t := p.next()
	if t.kind != tokIdent {
		return nil, p.errorf(t, "expected predicate")
	}

	switch p.peek().kind {
	case tokLParen:
		return p.parseFunc(t)
	case tokEq:
		p.next()
		v := p.next()
		if v.kind != tokString {
			return nil, p.errorf(v, "expected quoted value after %s =", t.text)
		}
		if !knownKeys[t.text] && p.unknownKey == "" {
			p.unknownKey = t.text
		}
		return keyValueExpr{key: t.text, value: v.text}, nil
	default:
		return flagExpr(t.text), nil
	}
}

func (p *cfgParser) parseFunc(name token) (expr, error) {
	if name.text != "all" && name.text != "any" && name.text != "not" {
		return nil, p.errorf(name, "unknown function %s()", name.text)
	}
	p.next() // (

	var args []expr
	for p.peek().kind != tokRParen {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.peek().kind != tokComma {
			break
		}
		p.next()
	}
	if err := p.expect(tokRParen); err != nil {
		return nil, err
	}

	switch name.text {
	case "all":
		return allExpr(args), nil
	case "any":
		return anyExpr(args), nil
	default:
		if len(args) != 1 {
			return nil, p.errorf(name, "not() takes exactly one predicate, got %d", len(args))
		}
		return notExpr{inner: args[0]}, nil
	}
}

func (p *cfgParser) peek() token { return p.toks[p.pos] }

func (p *cfgParser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *cfgParser) expect(kind tokenKind) error {
	if t := p.next(); t.kind != kind {
		return p.errorf(t, "expected %s, found %s", kind, t.kind)
	}
	return nil
}

func (p *cfgParser) errorf(t token, format string, args ...any) error {
	return &ParseError{
		Kind:   InvalidCfg,
		Input:  p.input,
		Detail: fmt.Sprintf("at offset %d: %s", t.pos, fmt.Sprintf(format, args...)),
	}
}

func lex(input string) ([]token, error) {
	var toks []token
	for i := 0; i < len(input); {
		r, size := utf8.DecodeRuneInString(input[i:])
		switch {
		case unicode.IsSpace(r):
			i += size
		case r == '(':
			toks = append(toks, token{kind: tokLParen, text: "(", pos: i})
			i++
		case r == ')':
			toks = append(toks, token{kind: tokRParen, text: ")", pos: i})
			i++
		case r == ',':
			toks = append(toks, token{kind: tokComma, text: ",", pos: i})
			i++
		case r == '=':
			toks = append(toks, token{kind: tokEq, text: "=", pos: i})
			i++
		case r == '"':
			end := i + 1
			for end < len(input) && input[end] != '"' {
				end++
			}
			if end >= len(input) {
				return nil, &ParseError{Kind: InvalidCfg, Input: input, Detail: fmt.Sprintf("at offset %d: unterminated string", i)}
			}
			toks = append(toks, token{kind: tokString, text: input[i+1 : end], pos: i})
			i = end + 1
		case isIdentStart(r):
			start := i
			for i < len(input) && isIdentByte(input[i]) {
				i++
			}
			toks = append(toks, token{kind: tokIdent, text: input[start:i], pos: start})
		default:
			return nil, &ParseError{Kind: InvalidCfg, Input: input, Detail: fmt.Sprintf("at offset %d: unexpected character %q", i, r)}
		}
	}
	return append(toks, token{kind: tokEOF, pos: len(input)}), nil
}

// Identifiers are ASCII: [A-Za-z_][A-Za-z0-9_]*.
func isIdentStart(r rune) bool {
	return r == '_' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
}

func isIdentByte(b byte) bool {
	return isIdentStart(rune(b)) || ('0' <= b && b <= '9')
}
