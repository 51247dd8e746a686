package platform

import "fmt"

// ParseErrorKind classifies why a platform string was rejected.
type ParseErrorKind int

const (
	// InvalidCfg means a cfg() expression is syntactically malformed.
	InvalidCfg ParseErrorKind = iota
	// UnknownTriple means a bare target triple is not in the built-in table.
	UnknownTriple
	// UnknownPredicate means a cfg() expression parsed but used an
	// unrecognised key = "value" predicate.
	UnknownPredicate
)

// String returns the kind name.
func (k ParseErrorKind) String() string {
	switch k {
	case InvalidCfg:
		return "InvalidCfg"
	case UnknownTriple:
		return "UnknownTriple"
	case UnknownPredicate:
		return "UnknownPredicate"
	default:
		return fmt.Sprintf("ParseErrorKind(%d)", int(k))
	}
}

// ParseError is returned by [Parse] and [New].
type ParseError struct {
	Kind   ParseErrorKind
	Input  string // the full string that failed
	Detail string // offending triple, predicate key or syntax message
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	switch e.Kind {
	case UnknownTriple:
		return fmt.Sprintf("unknown triple: %s", e.Detail)
	case UnknownPredicate:
		return fmt.Sprintf("cfg() expression has unknown predicate: %s", e.Detail)
	default:
		return fmt.Sprintf("invalid cfg() expression %q: %s", e.Input, e.Detail)
	}
}
