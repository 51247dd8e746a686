package platform

import (
	"errors"
	"testing"
)

func TestParse_Triple(t *testing.T) {
	spec, err := Parse("x86_64-apple-darwin")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !spec.IsTriple() {
		t.Error("IsTriple() = false, want true")
	}
	if spec.String() != "x86_64-apple-darwin" {
		t.Errorf("String() = %q, want x86_64-apple-darwin", spec.String())
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		kind   ParseErrorKind
		detail string
	}{
		{"unknown triple", "x86_64-pc-darwin", UnknownTriple, "x86_64-pc-darwin"},
		{"unknown predicate", `cfg(bogus_key = "bogus_value")`, UnknownPredicate, "bogus_key"},
		{"nested unknown predicate", `cfg(all(unix, bogus = "x"))`, UnknownPredicate, "bogus"},
		{"trailing input", "cfg(unix)this-is-extra", InvalidCfg, ""},
		{"trailing ident", "cfg(unix) extra", InvalidCfg, ""},
		{"incomplete", "cfg(not(unix)", InvalidCfg, ""},
		{"empty cfg", "cfg()", InvalidCfg, ""},
		{"not with two args", "cfg(not(unix, windows))", InvalidCfg, ""},
		{"not with no args", "cfg(not())", InvalidCfg, ""},
		{"unknown function", "cfg(some(unix))", InvalidCfg, ""},
		{"unterminated string", `cfg(target_os = "linux)`, InvalidCfg, ""},
		{"non-ascii identifier", "cfg(ünix)", InvalidCfg, ""},
		{"non-ascii key", `cfg(target_ös = "linux")`, InvalidCfg, ""},
		{"missing value", "cfg(target_os = )", InvalidCfg, ""},
		{"unquoted value", "cfg(target_os = linux)", InvalidCfg, ""},
		{"syntax error beats unknown key", `cfg(all(bogus = "x", )`, InvalidCfg, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("Parse(%q) error = %v, want *ParseError", tt.input, err)
			}
			if pe.Kind != tt.kind {
				t.Errorf("Parse(%q) kind = %v, want %v", tt.input, pe.Kind, tt.kind)
			}
			if tt.detail != "" && pe.Detail != tt.detail {
				t.Errorf("Parse(%q) detail = %q, want %q", tt.input, pe.Detail, tt.detail)
			}
		})
	}
}

func TestParse_Accepts(t *testing.T) {
	inputs := []string{
		"cfg(windows)",
		"cfg(not(windows))",
		`cfg(target_os = "windows")`,
		"cfg(foo)",
		"cfg(all())",
		"cfg(any())",
		`cfg(all(unix, target_arch = "x86_64",))`,
		`  cfg( any( windows , target_pointer_width="32" ) )  `,
	}
	for _, in := range inputs {
		if _, err := Parse(in); err != nil {
			t.Errorf("Parse(%q) error = %v", in, err)
		}
	}
}

func TestSpec_Eval(t *testing.T) {
	i686Windows := MustNew("i686-pc-windows-gnu", UnknownFeatures())
	x86Mac := MustNew("x86_64-apple-darwin", NoFeatures())
	i686Linux := MustNew("i686-unknown-linux-gnu", Features("sse2"))

	tests := []struct {
		spec string
		p    *Platform
		want Result
	}{
		{`cfg(any(windows, target_arch = "x86_64"))`, i686Windows, True},
		{`cfg(any(windows, target_arch = "x86_64"))`, x86Mac, True},
		{`cfg(any(windows, target_arch = "x86_64"))`, i686Linux, False},

		{`cfg(any(target_feature = "sse2", target_feature = "sse"))`, i686Windows, Unknown},
		{`cfg(any(target_feature = "sse2", target_feature = "sse"))`, x86Mac, False},
		{`cfg(any(target_feature = "sse2", target_feature = "sse"))`, i686Linux, True},

		// Unknown is absorbed when another operand decides the result.
		{`cfg(all(unix, target_feature = "sse2"))`, i686Windows, False},
		{`cfg(any(windows, target_feature = "sse2"))`, i686Windows, True},
		{`cfg(not(target_feature = "sse2"))`, i686Windows, Unknown},

		{"cfg(unix)", x86Mac, True},
		{"cfg(windows)", x86Mac, False},
		{`cfg(target_family = "unix")`, i686Linux, True},
		{`cfg(target_os = "macos")`, x86Mac, True},
		{`cfg(target_vendor = "apple")`, x86Mac, True},
		{`cfg(target_env = "gnu")`, i686Linux, True},
		{`cfg(target_pointer_width = "32")`, i686Linux, True},
		{`cfg(target_pointer_width = "64")`, i686Linux, False},
		{`cfg(target_endian = "little")`, x86Mac, True},
		{`cfg(target_has_atomic = "64")`, x86Mac, True},
		{"cfg(all())", x86Mac, True},
		{"cfg(any())", x86Mac, False},

		{"cfg(test)", x86Mac, False},
		{"cfg(debug_assertions)", x86Mac, False},

		{"x86_64-apple-darwin", x86Mac, True},
		{"x86_64-apple-darwin", i686Linux, False},
	}

	for _, tt := range tests {
		t.Run(tt.spec+"@"+tt.p.Triple(), func(t *testing.T) {
			spec := MustParse(tt.spec)
			if got := spec.Eval(tt.p); got != tt.want {
				t.Errorf("Eval() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSpec_EvalFlags(t *testing.T) {
	p := MustNew("x86_64-unknown-linux-gnu", NoFeatures())
	spec := MustParse("cfg(tokio_unstable)")

	if got := spec.Eval(p); got != False {
		t.Errorf("Eval() without flag = %v, want false", got)
	}
	if got := spec.Eval(p.WithFlags("tokio_unstable")); got != True {
		t.Errorf("Eval() with flag = %v, want true", got)
	}
	if got := spec.Eval(p); got != False {
		t.Error("WithFlags mutated the original platform")
	}
}

func TestEval(t *testing.T) {
	cfg := `cfg(all(unix, target_arch = "x86_64"))`
	tests := []struct {
		spec, triple string
		want         Result
	}{
		{cfg, "x86_64-unknown-linux-gnu", True},
		{cfg, "i686-unknown-linux-gnu", False},
		{cfg, "x86_64-pc-windows-msvc", False},
		{"x86_64-unknown-linux-gnu", "x86_64-unknown-linux-gnu", True},
		{"x86_64-unknown-linux-gnu", "x86_64-pc-windows-msvc", False},
	}
	for _, tt := range tests {
		got, err := Eval(tt.spec, tt.triple)
		if err != nil {
			t.Fatalf("Eval(%q, %q) error = %v", tt.spec, tt.triple, err)
		}
		if got != tt.want {
			t.Errorf("Eval(%q, %q) = %v, want %v", tt.spec, tt.triple, got, tt.want)
		}
	}

	if _, err := Eval("cfg(unix)", "mips-unknown-plan9"); err == nil {
		t.Error("Eval() with unknown triple should fail")
	}
}
