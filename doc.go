/*
Package rpal is an interpreter for the RPAL applicative language.

RPAL programs are evaluated by a CSE machine (Control stack, value Stack,
Environment tree), the classic realisation of call-by-value semantics with
lexical scoping. Package structure follows the pipeline:

■ scanner: Package scanner tokenizes RPAL source text, backed by a
lexmachine DFA.

■ parser: Package parser is a recursive-descent parser producing the raw
abstract syntax tree.

■ ast: Package ast holds the first-child/next-sibling tree nodes shared by
parser, standardiser and control-structure builder.

■ rewrite: Package rewrite standardises the raw AST into a canonical tree of
lambda/gamma/conditional/operator nodes.

■ machine: Package machine flattens the standardised tree into control
structures and executes them on the CSE machine.

■ runtime: Package runtime provides the environment-frame arena used by the
machine.

The base package contains the token types shared by the scanner and the
parser.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package rpal
