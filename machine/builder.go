package machine

// The builder flattens a standardised tree into control structures. Every
// lambda body and every conditional branch is deferred into a structure of
// its own; only closures and beta tokens know their ids.

import (
	"fmt"
	"strconv"

	"github.com/Chand2103/interpreter-rpal/ast"
	"github.com/emirpasic/gods/lists/arraylist"
)

// ControlMap is the dense family of control structures of one program,
// indexed by id. Index 0 is the top-level program body.
type ControlMap [][]Token

// Builder turns a standardised tree into a ControlMap. The zero Builder is
// not usable; see BuildControl.
type Builder struct {
	deltas  ControlMap
	pending *arraylist.List // tree roots awaiting flattening, in id order
	counter int             // id of the last control structure scheduled
}

// BuildControl flattens a standardised tree. The input tree is consumed:
// conditional branches are detached while flattening.
//
// Pending bodies are processed first-in first-out. Ids are handed out in
// emission order, so the queue delivers bodies in exactly the order of
// their ids and the result is dense.
func BuildControl(root *ast.Node) (ControlMap, error) {
	if root == nil {
		return nil, fmt.Errorf("flatten: empty tree")
	}
	b := &Builder{pending: arraylist.New()}
	b.pending.Add(root)
	for !b.pending.Empty() {
		v, _ := b.pending.Get(0)
		b.pending.Remove(0)
		delta, err := b.flatten(v.(*ast.Node), nil)
		if err != nil {
			return nil, err
		}
		b.deltas = append(b.deltas, delta)
	}
	tracer().Debugf("flattened program into %d control structures", len(b.deltas))
	return b.deltas, nil
}

// schedule enqueues a subtree as the next control structure and returns its
// id.
func (b *Builder) schedule(root *ast.Node) int {
	b.counter++
	b.pending.Add(root)
	return b.counter
}

// flatten walks a subtree in pre-order, emitting tokens into delta. Left
// links descend into children, right links continue with siblings. Lambda
// bodies and conditional branches are scheduled instead of descended into.
func (b *Builder) flatten(n *ast.Node, delta []Token) ([]Token, error) {
	var err error
	switch n.Kind {
	case ast.Lambda:
		params, perr := paramSpec(n.Left)
		if perr != nil {
			return nil, perr
		}
		body := n.Left.Right
		if body == nil {
			return nil, fmt.Errorf("flatten: lambda without body")
		}
		delta = append(delta, closureTok(params, b.schedule(body)))
		if n.Right != nil {
			return b.flatten(n.Right, delta)
		}
		return delta, nil

	case ast.Arrow:
		test := n.Left
		if test == nil || test.Right == nil || test.Right.Right == nil {
			return nil, fmt.Errorf("flatten: conditional requires test and two branches")
		}
		then, otherwise := test.Right, test.Right.Right
		delta = append(delta, betaTok(b.schedule(then), b.schedule(otherwise)))
		// detach the branches so the pre-order walk stays in the test
		test.Right = nil
		then.Right = nil
		if delta, err = b.flatten(test, delta); err != nil {
			return nil, err
		}
		if n.Right != nil {
			return b.flatten(n.Right, delta)
		}
		return delta, nil
	}

	tok, err := leafToken(n)
	if err != nil {
		return nil, err
	}
	delta = append(delta, tok)
	if n.Left != nil {
		if delta, err = b.flatten(n.Left, delta); err != nil {
			return nil, err
		}
	}
	if n.Right != nil {
		if delta, err = b.flatten(n.Right, delta); err != nil {
			return nil, err
		}
	}
	return delta, nil
}

// paramSpec extracts the parameter specification of a lambda node: a single
// name, an ordered list of names (tuple pattern), or none for '()'.
func paramSpec(param *ast.Node) ([]string, error) {
	if param == nil {
		return nil, fmt.Errorf("flatten: lambda without parameter")
	}
	switch param.Kind {
	case ast.Ident:
		return []string{param.Value}, nil
	case ast.EmptyParams:
		return []string{}, nil
	case ast.Comma:
		var names []string
		for c := param.Left; c != nil; c = c.Right {
			if c.Kind != ast.Ident {
				return nil, fmt.Errorf("flatten: tuple pattern binds names only")
			}
			names = append(names, c.Value)
		}
		if len(names) < 2 {
			return nil, fmt.Errorf("flatten: tuple pattern requires at least two names")
		}
		return names, nil
	}
	return nil, fmt.Errorf("flatten: unexpected lambda parameter %s", param)
}

// leafToken translates a non-deferring tree node into its control token.
func leafToken(n *ast.Node) (Token, error) {
	switch n.Kind {
	case ast.Ident:
		return idTok(n.Value), nil
	case ast.IntLit:
		v, err := strconv.Atoi(n.Value)
		if err != nil {
			return Token{}, fmt.Errorf("flatten: bad integer literal %q", n.Value)
		}
		return intTok(v), nil
	case ast.StrLit:
		return strTok(n.Value), nil
	case ast.True:
		return truthTok(true), nil
	case ast.False:
		return truthTok(false), nil
	case ast.Nil:
		return nilTok(), nil
	case ast.Dummy:
		return dummyTok(), nil
	case ast.Gamma:
		return gammaTok(), nil
	case ast.Tau:
		return tauTok(n.Count), nil
	case ast.Aug:
		return augTok(), nil
	case ast.YStar:
		return ystarTok(), nil
	case ast.Op:
		return opTok(n.Value), nil
	case ast.Not:
		return unaryTok("not"), nil
	case ast.Neg:
		return unaryTok("neg"), nil
	}
	return Token{}, fmt.Errorf("flatten: unexpected node %s in standardised tree", n)
}
