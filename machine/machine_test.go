package machine

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Chand2103/interpreter-rpal/parser"
	"github.com/Chand2103/interpreter-rpal/rewrite"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

// evaluate runs an RPAL program through the whole pipeline and returns its
// output.
func evaluate(t *testing.T, input string, opts ...Option) (string, Token, error) {
	t.Helper()
	root, err := parser.Parse(input)
	if err != nil {
		t.Fatalf("parse of %q failed: %v", input, err)
	}
	st, err := rewrite.Standardize(root)
	if err != nil {
		t.Fatalf("standardize of %q failed: %v", input, err)
	}
	deltas, err := BuildControl(st)
	if err != nil {
		t.Fatalf("flatten of %q failed: %v", input, err)
	}
	var out bytes.Buffer
	m := New(deltas, append([]Option{Output(&out)}, opts...)...)
	result, err := m.Run()
	return out.String(), result, err
}

var scenarios = []struct {
	program  string
	expected string
}{
	{"let X = 5 in Print X", "5"},
	{"let rec Fact N = N eq 0 -> 1 | N * Fact (N - 1) in Print (Fact 5)", "120"},
	{"let Sum (A, B) = A + B in Print (Sum (3, 4))", "7"},
	{"let F X = let G Y = X + Y in G in Print ((F 10) 7)", "17"},
	{"Print (Conc 'ab' 'cd')", "abcd"},
	{"Print ('hello' eq 'hello')", "true"},
	{"let T = 1, 2, 3 in Print (Order T, Null nil, T 2)", "(3, true, 2)"},
}

func TestEndToEndScenarios(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rpal.machine")
	defer teardown()
	//
	for _, sc := range scenarios {
		out, _, err := evaluate(t, sc.program)
		if err != nil {
			t.Errorf("evaluation of %q failed: %v", sc.program, err)
			continue
		}
		if out != sc.expected {
			t.Errorf("output of %q is %q, want %q", sc.program, out, sc.expected)
		}
	}
}

var printScenarios = []struct {
	program  string
	expected string
}{
	{"Print (2 ** 10)", "1024"},
	{"Print (10 / 3, 7 - 9)", "(3, -2)"},
	{"Print (3 > 2, 2 <= 1)", "(true, false)"},
	{"Print (not false, true & false, false or true)", "(true, false, true)"},
	{"let X = 3 in Print (-X + 10)", "7"},
	{"Print (Stem 'abc', Stern 'abc')", "(a, bc)"},
	{"Print (ItoS 42)", "42"},
	{"Print ('a' ne 'b')", "true"},
	{"let T = nil aug 1 aug 2 in Print (T 1, Order T)", "(1, 2)"},
	{"Print (Null (nil aug 1), Order (nil aug 1), (nil aug 1) 1)", "(false, 1, 1)"},
	{"Print (Isinteger 1, Isstring 'a', Istruthvalue true)", "(true, true, true)"},
	{"Print (Istuple nil, Isdummy dummy, Isfunction (fn X . X))", "(true, true, true)"},
	{"let X = 3 within Y = X + 1 in Print Y", "4"},
	{"let A = 1 and B = 2 in Print (A + B)", "3"},
	{"let Add X Y = X + Y in Print (1 @Add 2)", "3"},
	{"let rec Len T = Null T -> 0 | 1 + Len (Stern T) where Stern = fn S . S in Print 0", "0"},
	{"Print 'a\\nb'", "a\nb"},
	{"Print 'tab\\there'", "tab\there"},
	{"Print (fn X . X)", "[lambda closure: X: 1]"},
	{"let Twice F X = F (F X) in Print (Twice (fn N . N * 2) 5)", "20"},
	{"let rec Sum N = N eq 0 -> 0 | N + Sum (N - 1) in Print (Sum 10)", "55"},
}

func TestMorePrograms(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rpal.machine")
	defer teardown()
	//
	for _, sc := range printScenarios {
		out, _, err := evaluate(t, sc.program)
		if err != nil {
			t.Errorf("evaluation of %q failed: %v", sc.program, err)
			continue
		}
		if out != sc.expected {
			t.Errorf("output of %q is %q, want %q", sc.program, out, sc.expected)
		}
	}
}

// Without a Print call the machine writes the final value, quoted form,
// with a trailing newline.
func TestFinalValueIsPrinted(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rpal.machine")
	defer teardown()
	//
	cases := []struct {
		program  string
		expected string
	}{
		{"let X = 5 in X", "5\n"},
		{"'abc'", "'abc'\n"},
		{"1, 2, 3", "(1, 2, 3)\n"},
		{"let Print = 9 in Print", "9\n"},
		{"true & true", "true\n"},
	}
	for _, sc := range cases {
		out, _, err := evaluate(t, sc.program)
		if err != nil {
			t.Errorf("evaluation of %q failed: %v", sc.program, err)
			continue
		}
		if out != sc.expected {
			t.Errorf("output of %q is %q, want %q", sc.program, out, sc.expected)
		}
	}
}

func TestRuntimeFaults(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rpal.machine")
	defer teardown()
	//
	cases := []struct {
		program string
		subject string
	}{
		{"Print (1 / 0)", "division by zero"},
		{"Print Zyzzy", "unbound identifier"},
		{"let T = 1, 2 in Print (T 5)", "out of range"},
		{"Print (1 + 'a')", "cannot apply"},
		{"Print (not 1)", "not applied"},
		{"let Sum (A, B) = A in Print (Sum (1, 2, 3))", "tuple pattern"},
		{"Print (Order 5)", "not a tuple"},
	}
	for _, sc := range cases {
		_, _, err := evaluate(t, sc.program)
		if err == nil {
			t.Errorf("expected evaluation of %q to fail", sc.program)
			continue
		}
		if !strings.Contains(err.Error(), sc.subject) {
			t.Errorf("error of %q is %q, want mention of %q", sc.program, err, sc.subject)
		}
	}
}

func TestStepLimitStopsDivergence(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rpal.machine")
	defer teardown()
	//
	_, _, err := evaluate(t, "let rec Loop N = Loop N in Loop 1", StepLimit(500))
	if err == nil || !strings.Contains(err.Error(), "step limit") {
		t.Errorf("expected the step limit to fire, got %v", err)
	}
}

// The trace of frames must realise lexical scoping: the innermost binding
// of a name wins, and bindings survive for inner closures.
func TestLexicalScoping(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rpal.machine")
	defer teardown()
	//
	out, _, err := evaluate(t,
		"let X = 1 in let F Y = X + Y in let X = 100 in Print (F 10)")
	if err != nil {
		t.Fatal(err)
	}
	// F captured the outer X = 1, not the shadowing X = 100
	if out != "11" {
		t.Errorf("closure did not capture its defining environment: %q", out)
	}
}

func TestPrintTupleOfStrings(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rpal.machine")
	defer teardown()
	//
	out, _, err := evaluate(t, "Print ('one', 'two')")
	if err != nil {
		t.Fatal(err)
	}
	if out != "(one, two)" {
		t.Errorf("tuple of strings rendered as %q", out)
	}
}
