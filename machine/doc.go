/*
Package machine implements the CSE machine: control structures, the
transition rules executing them, and the built-in functions of RPAL.

The machine pipeline has two halves. The builder (builder.go) flattens a
standardised syntax tree into a family of control structures δ0, δ1, …,
where every lambda body and every conditional branch gets a structure of its
own. The interpreter (machine.go) then executes δ0 on three stacks (control,
value, environment), stitching in lambda bodies and conditional branches as
closures are applied and conditionals are decided.

Values and control elements share one representation, the Token (token.go):
a control structure is a flat sequence of tokens, and the value stack holds
tokens computed at runtime.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package machine

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'rpal.machine'.
func tracer() tracing.Trace {
	return tracing.Select("rpal.machine")
}
