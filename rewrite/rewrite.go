/*
Package rewrite standardises a raw RPAL syntax tree.

Standardisation is a structural rewrite that eliminates syntactic sugar and
leaves a canonical tree containing only lambda, gamma, '=', ',', tau, '->',
aug, operators, Y*, '()' parameters, literals and identifiers. The rewrite
rules are the
classic ones:

    let X = E1 in E2      =>  gamma (lambda X E2) E1
    E1 where X = E2       =>  gamma (lambda X E1) E2
    fn X1 … Xn . E        =>  lambda X1 (lambda X2 (… (lambda Xn E)))
    f V1 … Vn = E         =>  = f (lambda V1 (… (lambda Vn E)))
    D1 within (X = E2)    =>  = X (gamma (lambda X1 E2) E1)
    E1 @ N E2             =>  gamma (gamma N E1) E2
    and (Xi = Ei)…        =>  = (, X1 … Xn) (tau E1 … En)
    rec X = E             =>  = X (gamma Y* (lambda X E))

Traversal is post-order: children are standardised before their parent is
rewritten, so the '=' nodes produced by rec, and, and function forms are in
place when the enclosing let or where fires.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package rewrite

import (
	"fmt"

	"github.com/Chand2103/interpreter-rpal/ast"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'rpal.lang'.
func tracer() tracing.Trace {
	return tracing.Select("rpal.lang")
}

// Standardize rewrites a raw AST into its canonical form. The input tree is
// consumed: subtrees are relinked into the result. Malformed input shapes
// (a let without a definition, a definition without a name) indicate a
// parser defect and yield an error.
func Standardize(root *ast.Node) (*ast.Node, error) {
	if root == nil {
		return nil, fmt.Errorf("standardize: empty tree")
	}
	return standardize(root)
}

func standardize(n *ast.Node) (*ast.Node, error) {
	// children first, keeping the sibling chain intact
	var prev *ast.Node
	for c := n.Left; c != nil; {
		next := c.Right
		sc, err := standardize(c)
		if err != nil {
			return nil, err
		}
		sc.Right = next
		if prev == nil {
			n.Left = sc
		} else {
			prev.Right = sc
		}
		prev = sc
		c = next
	}

	switch n.Kind {
	case ast.Let:
		return rewriteLet(n)
	case ast.Where:
		return rewriteWhere(n)
	case ast.Lambda:
		return rewriteLambda(n)
	case ast.FunctionForm:
		return rewriteFunctionForm(n)
	case ast.Within:
		return rewriteWithin(n)
	case ast.At:
		return rewriteAt(n)
	case ast.And:
		return rewriteAnd(n)
	case ast.Rec:
		return rewriteRec(n)
	}
	return n, nil
}

// splitDef takes a standardised '=' node apart into name part and value
// part. The name part may be an identifier or a ',' list.
func splitDef(n *ast.Node, form string) (name, value *ast.Node, err error) {
	if n == nil || n.Kind != ast.Equal || n.Left == nil || n.Left.Right == nil {
		return nil, nil, fmt.Errorf("standardize: %s requires a definition", form)
	}
	return n.Left, n.Left.Right, nil
}

// let X = E1 in E2  =>  gamma (lambda X E2) E1
func rewriteLet(n *ast.Node) (*ast.Node, error) {
	def, body := n.Left, n.Child(1)
	if body == nil {
		return nil, fmt.Errorf("standardize: let without body")
	}
	x, e1, err := splitDef(def, "let")
	if err != nil {
		return nil, err
	}
	tracer().Debugf("standardize let %v", x)
	lambda := ast.NewNode(ast.Lambda, "")
	lambda.Left = x
	x.Right = body
	body.Right = nil
	gamma := ast.NewNode(ast.Gamma, "")
	gamma.Left = lambda
	lambda.Right = e1
	e1.Right = nil
	return gamma, nil
}

// E1 where X = E2  =>  gamma (lambda X E1) E2
func rewriteWhere(n *ast.Node) (*ast.Node, error) {
	expr, def := n.Left, n.Child(1)
	x, e2, err := splitDef(def, "where")
	if err != nil {
		return nil, err
	}
	lambda := ast.NewNode(ast.Lambda, "")
	lambda.Left = x
	x.Right = expr
	expr.Right = nil
	gamma := ast.NewNode(ast.Gamma, "")
	gamma.Left = lambda
	lambda.Right = e2
	e2.Right = nil
	return gamma, nil
}

// curry folds parameters V1 … Vn over a body into nested single-parameter
// lambdas, right-associatively.
func curry(params []*ast.Node, body *ast.Node) *ast.Node {
	body.Right = nil
	for i := len(params) - 1; i >= 0; i-- {
		lambda := ast.NewNode(ast.Lambda, "")
		lambda.Left = params[i]
		params[i].Right = body
		body = lambda
	}
	return body
}

// fn X1 … Xn . E  =>  lambda X1 (lambda X2 (… (lambda Xn E)))
//
// A lambda with a single parameter (including a ',' tuple pattern) is
// already canonical.
func rewriteLambda(n *ast.Node) (*ast.Node, error) {
	kids := n.Children()
	if len(kids) < 2 {
		return nil, fmt.Errorf("standardize: lambda requires parameter and body")
	}
	if len(kids) == 2 {
		return n, nil
	}
	return curry(kids[:len(kids)-1], kids[len(kids)-1]), nil
}

// f V1 … Vn = E  =>  = f (lambda V1 (… (lambda Vn E)))
func rewriteFunctionForm(n *ast.Node) (*ast.Node, error) {
	kids := n.Children()
	if len(kids) < 3 {
		return nil, fmt.Errorf("standardize: function form requires name, parameter and body")
	}
	name := kids[0]
	lambda := curry(kids[1:len(kids)-1], kids[len(kids)-1])
	eq := ast.NewNode(ast.Equal, "")
	eq.Left = name
	name.Right = lambda
	lambda.Right = nil
	return eq, nil
}

// D1 within (X2 = E2)  =>  = X2 (gamma (lambda X1 E2) E1)
// where D1 is X1 = E1.
func rewriteWithin(n *ast.Node) (*ast.Node, error) {
	x1, e1, err := splitDef(n.Left, "within")
	if err != nil {
		return nil, err
	}
	x2, e2, err := splitDef(n.Child(1), "within")
	if err != nil {
		return nil, err
	}
	lambda := ast.NewNode(ast.Lambda, "")
	lambda.Left = x1
	x1.Right = e2
	e2.Right = nil
	gamma := ast.NewNode(ast.Gamma, "")
	gamma.Left = lambda
	lambda.Right = e1
	e1.Right = nil
	eq := ast.NewNode(ast.Equal, "")
	eq.Left = x2
	x2.Right = gamma
	return eq, nil
}

// E1 @ N E2  =>  gamma (gamma N E1) E2
func rewriteAt(n *ast.Node) (*ast.Node, error) {
	e1 := n.Left
	if e1 == nil || e1.Right == nil || e1.Right.Right == nil {
		return nil, fmt.Errorf("standardize: '@' requires three operands")
	}
	name := e1.Right
	e2 := name.Right
	inner := ast.NewNode(ast.Gamma, "")
	inner.Left = name
	name.Right = e1
	e1.Right = nil
	outer := ast.NewNode(ast.Gamma, "")
	outer.Left = inner
	inner.Right = e2
	e2.Right = nil
	return outer, nil
}

// and (X1 = E1) … (Xn = En)  =>  = (, X1 … Xn) (tau E1 … En)
func rewriteAnd(n *ast.Node) (*ast.Node, error) {
	defs := n.Children()
	if len(defs) < 2 {
		return nil, fmt.Errorf("standardize: 'and' requires at least two definitions")
	}
	comma := ast.NewNode(ast.Comma, "")
	tau := ast.NewNode(ast.Tau, "")
	for _, def := range defs {
		x, e, err := splitDef(def, "and")
		if err != nil {
			return nil, err
		}
		x.Right = nil
		e.Right = nil
		comma.AppendChild(x)
		tau.AppendChild(e)
	}
	tau.Count = len(defs)
	eq := ast.NewNode(ast.Equal, "")
	eq.Left = comma
	comma.Right = tau
	return eq, nil
}

// rec X = E  =>  = X (gamma Y* (lambda X E))
//
// The bound name appears twice in the result; the lambda gets a fresh copy.
func rewriteRec(n *ast.Node) (*ast.Node, error) {
	x, e, err := splitDef(n.Left, "rec")
	if err != nil {
		return nil, err
	}
	if x.Kind != ast.Ident {
		return nil, fmt.Errorf("standardize: rec binds a single name")
	}
	inner := ast.NewNode(ast.Ident, x.Value)
	lambda := ast.NewNode(ast.Lambda, "")
	lambda.Left = inner
	inner.Right = e
	e.Right = nil
	ystar := ast.NewNode(ast.YStar, "")
	gamma := ast.NewNode(ast.Gamma, "")
	gamma.Left = ystar
	ystar.Right = lambda
	lambda.Right = nil
	eq := ast.NewNode(ast.Equal, "")
	eq.Left = x
	x.Right = gamma
	return eq, nil
}
