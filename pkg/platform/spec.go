package platform

import "strings"

// Spec is a parsed platform condition: either a cfg() expression or a bare
// target triple. Use [Parse] to obtain one.
type Spec struct {
	raw    string
	expr   expr        // set for cfg() specs
	triple *targetInfo // set for triple specs
}

// Parse parses a platform condition. Strings starting with "cfg(" are parsed
// as cfg() expressions; anything else must be a known target triple.
func Parse(s string) (*Spec, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "cfg(") {
		e, err := parseCfg(s)
		if err != nil {
			return nil, err
		}
		return &Spec{raw: s, expr: e}, nil
	}
	t, ok := targets[s]
	if !ok {
		return nil, &ParseError{Kind: UnknownTriple, Input: s, Detail: s}
	}
	return &Spec{raw: s, triple: t}, nil
}

// MustParse is like [Parse] but panics on error.
func MustParse(s string) *Spec {
	spec, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return spec
}

// Eval evaluates the spec against p.
func (s *Spec) Eval(p *Platform) Result {
	if s.triple != nil {
		return fromBool(s.triple == p.target)
	}
	return s.expr.eval(p)
}

// IsTriple reports whether the spec is a bare target triple.
func (s *Spec) IsTriple() bool { return s.triple != nil }

// String returns the spec as it was written, without surrounding whitespace.
func (s *Spec) String() string { return s.raw }

// Eval parses spec and evaluates it against the known triple, with unknown
// target features.
func Eval(spec, triple string) (Result, error) {
	s, err := Parse(spec)
	if err != nil {
		return Unknown, err
	}
	p, err := New(triple, UnknownFeatures())
	if err != nil {
		return Unknown, err
	}
	return s.Eval(p), nil
}

type expr interface {
	eval(p *Platform) Result
}

type allExpr []expr

func (a allExpr) eval(p *Platform) Result {
	res := True
	for _, e := range a {
		switch e.eval(p) {
		case False:
			return False
		case Unknown:
			res = Unknown
		}
	}
	return res
}

type anyExpr []expr

func (a anyExpr) eval(p *Platform) Result {
	res := False
	for _, e := range a {
		switch e.eval(p) {
		case True:
			return True
		case Unknown:
			res = Unknown
		}
	}
	return res
}

type notExpr struct{ inner expr }

func (n notExpr) eval(p *Platform) Result {
	switch n.inner.eval(p) {
	case True:
		return False
	case False:
		return True
	default:
		return Unknown
	}
}

type flagExpr string

func (f flagExpr) eval(p *Platform) Result { return p.flag(string(f)) }

type keyValueExpr struct{ key, value string }

func (kv keyValueExpr) eval(p *Platform) Result { return p.keyValue(kv.key, kv.value) }
