package parser

import (
	"strings"
	"testing"

	"github.com/Chand2103/interpreter-rpal/ast"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func treeString(t *testing.T, n *ast.Node) string {
	t.Helper()
	var sb strings.Builder
	n.Print(&sb)
	return sb.String()
}

func expectTree(t *testing.T, input string, expected []string) {
	t.Helper()
	root, err := Parse(input)
	if err != nil {
		t.Fatalf("parse of %q failed: %v", input, err)
	}
	got := treeString(t, root)
	want := strings.Join(expected, "\n") + "\n"
	if got != want {
		t.Errorf("tree for %q is\n%swant\n%s", input, got, want)
	}
}

func TestParseLet(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rpal.lang")
	defer teardown()
	//
	expectTree(t, "let X = 5 in Print X", []string{
		"let",
		".=",
		"..<ID:X>",
		"..<INT:5>",
		".gamma",
		"..<ID:Print>",
		"..<ID:X>",
	})
}

func TestParseLambdaAndConditional(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rpal.lang")
	defer teardown()
	//
	expectTree(t, "fn X Y . X eq 0 -> Y | X", []string{
		"lambda",
		".<ID:X>",
		".<ID:Y>",
		".->",
		"..eq",
		"...<ID:X>",
		"...<INT:0>",
		"..<ID:Y>",
		"..<ID:X>",
	})
}

func TestParseFunctionForm(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rpal.lang")
	defer teardown()
	//
	expectTree(t, "let Sum (A, B) = A + B in Sum", []string{
		"let",
		".function_form",
		"..<ID:Sum>",
		"..,",
		"...<ID:A>",
		"...<ID:B>",
		"..+",
		"...<ID:A>",
		"...<ID:B>",
		".<ID:Sum>",
	})
}

func TestParseTupleAndAug(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rpal.lang")
	defer teardown()
	//
	expectTree(t, "1, 2, nil aug 3", []string{
		"tau",
		".<INT:1>",
		".<INT:2>",
		".aug",
		"..<nil>",
		"..<INT:3>",
	})
}

func TestParseApplicationIsLeftAssociative(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rpal.lang")
	defer teardown()
	//
	expectTree(t, "F 1 2", []string{
		"gamma",
		".gamma",
		"..<ID:F>",
		"..<INT:1>",
		".<INT:2>",
	})
}

func TestParseAtExpression(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rpal.lang")
	defer teardown()
	//
	expectTree(t, "1 @Add 2", []string{
		"@",
		".<INT:1>",
		".<ID:Add>",
		".<INT:2>",
	})
}

func TestParseDefinitions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rpal.lang")
	defer teardown()
	//
	expectTree(t, "let A = 1 and rec B () = 2 within C = B in C", []string{
		"let",
		".within",
		"..and",
		"...=",
		"....<ID:A>",
		"....<INT:1>",
		"...rec",
		"....function_form",
		".....<ID:B>",
		".....()",
		".....<INT:2>",
		"..=",
		"...<ID:C>",
		"...<ID:B>",
		".<ID:C>",
	})
}

func TestParseComparisonSpellings(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rpal.lang")
	defer teardown()
	//
	expectTree(t, "A > 1 or B le 2", []string{
		"or",
		".gr",
		"..<ID:A>",
		"..<INT:1>",
		".le",
		"..<ID:B>",
		"..<INT:2>",
	})
}

func TestParseUnaryMinus(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rpal.lang")
	defer teardown()
	//
	expectTree(t, "-X + 1", []string{
		"+",
		".neg",
		"..<ID:X>",
		".<INT:1>",
	})
}

func TestParseErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rpal.lang")
	defer teardown()
	//
	for _, input := range []string{
		"let X = in X",
		"fn . X",
		"(1, 2",
		"1 -> 2",
		"5 )",
		"let 5 = 1 in 2",
	} {
		if _, err := Parse(input); err == nil {
			t.Errorf("expected parse of %q to fail", input)
		}
	}
}
