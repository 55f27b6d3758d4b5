package main

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"

	"github.com/Chand2103/interpreter-rpal/machine"
	"github.com/Chand2103/interpreter-rpal/parser"
	"github.com/Chand2103/interpreter-rpal/rewrite"
)

// main() drives the interpreter pipeline for one RPAL source file:
//
//    rpal [-ast] [-st] <file>
//
// -ast prints the raw syntax tree, -st the standardised tree; with either
// switch present the program is not evaluated. Without a file argument an
// interactive loop starts, reading one RPAL program per line.
func main() {
	initDisplay()
	gtrace.SyntaxTracer = gologadapter.New()
	astSwitch := flag.Bool("ast", false, "Print the abstract syntax tree")
	stSwitch := flag.Bool("st", false, "Print the standardised tree")
	tlevel := flag.String("trace", "Error", "Trace level [Debug|Info|Error]")
	steps := flag.Int("steps", machine.DefaultStepLimit, "Machine step limit")
	flag.Usage = usage
	flag.Parse()
	for _, key := range []string{"rpal.scanner", "rpal.lang", "rpal.machine"} {
		tracing.Select(key).SetTraceLevel(traceLevel(*tlevel))
	}
	if flag.NArg() == 0 {
		repl(*steps)
		return
	}
	if flag.NArg() > 1 {
		usage()
		os.Exit(2)
	}
	source, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(1)
	}
	if err := interpret(string(source), *astSwitch, *stSwitch, *steps, os.Stdout); err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: rpal [-ast] [-st] [-trace level] [-steps n] <file>")
	flag.PrintDefaults()
}

// interpret runs the pipeline: parse, standardise, and, unless a tree
// switch asked for printing instead, flatten and evaluate.
func interpret(source string, astSwitch, stSwitch bool, steps int, out io.Writer) error {
	root, err := parser.Parse(source)
	if err != nil {
		return err
	}
	if astSwitch {
		root.Print(out)
	}
	st, err := rewrite.Standardize(root)
	if err != nil {
		return err
	}
	if stSwitch {
		st.Print(out)
	}
	if astSwitch || stSwitch {
		return nil
	}
	deltas, err := machine.BuildControl(st)
	if err != nil {
		return err
	}
	m := machine.New(deltas, machine.Output(out), machine.StepLimit(steps))
	_, err = m.Run()
	return err
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

func traceLevel(l string) tracing.TraceLevel {
	return tracing.TraceLevelFromString(l)
}

// repl reads one RPAL program per line and evaluates it. Quit with <ctrl>D.
func repl(steps int) {
	pterm.Info.Println("Welcome to RPAL")
	rl, err := readline.New("rpal> ")
	if err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(3)
	}
	defer rl.Close()
	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		if err := interpret(line, false, false, steps, os.Stdout); err != nil {
			pterm.Error.Println(err.Error())
		}
	}
	println("Good bye!")
}
