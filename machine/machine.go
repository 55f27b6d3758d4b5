package machine

// The CSE interpreter. One Machine executes one ControlMap; the transition
// rules live in step and gamma below.
//
// Convention: control structures are emitted in pre-order and pushed onto
// the control stack front-to-back, which puts the last-emitted token on
// top. Operands therefore reach the value stack before the operator or
// gamma that consumes them, and the first value popped by a binary operator
// is its left operand. The first component popped by a tau is the first
// tuple component.

import (
	"fmt"
	"io"
	"os"

	"github.com/Chand2103/interpreter-rpal/runtime"
	"github.com/emirpasic/gods/stacks/arraystack"
)

// DefaultStepLimit caps the number of machine transitions per run; programs
// exceeding it are assumed to diverge.
const DefaultStepLimit = 5000

// Machine is a CSE machine instance. Create one with New; a Machine runs
// once.
type Machine struct {
	deltas   ControlMap
	frames   *runtime.Environment
	envStack *arraystack.Stack // ids of active environment frames
	control  []Token
	values   []Token
	currEnv  int
	out      io.Writer
	printed  bool
	limit    int
	steps    int
}

// Option configures a Machine.
type Option func(*Machine)

// Output redirects the output sink (default os.Stdout).
func Output(w io.Writer) Option {
	return func(m *Machine) {
		m.out = w
	}
}

// StepLimit overrides the transition cap.
func StepLimit(n int) Option {
	return func(m *Machine) {
		if n > 0 {
			m.limit = n
		}
	}
}

// New creates a machine for a flattened program.
func New(deltas ControlMap, opts ...Option) *Machine {
	m := &Machine{
		deltas: deltas,
		out:    os.Stdout,
		limit:  DefaultStepLimit,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run executes the program. It returns the final value; whatever Print
// emitted has been written to the output sink by then. If Print was never
// invoked, the final value itself is written, followed by a newline.
func (m *Machine) Run() (Token, error) {
	if len(m.deltas) == 0 {
		return Token{}, fmt.Errorf("machine: no control structures")
	}
	m.frames = runtime.NewEnvironment()
	m.envStack = arraystack.New()
	m.envStack.Push(runtime.RootFrame)
	m.currEnv = runtime.RootFrame
	m.control = append(m.control, envTok(runtime.RootFrame))
	m.pushDelta(0)
	m.values = append(m.values, envTok(runtime.RootFrame))

	// the bottom of the control stack is the initial environment marker;
	// the machine halts when only it is left
	for len(m.control) > 1 {
		m.steps++
		if m.steps > m.limit {
			return Token{}, fmt.Errorf("machine: step limit of %d exceeded", m.limit)
		}
		tok := m.control[len(m.control)-1]
		m.control = m.control[:len(m.control)-1]
		tracer().Debugf("step %d: %v", m.steps, tok)
		if err := m.step(tok); err != nil {
			return Token{}, err
		}
	}

	result, err := m.popValue()
	if err != nil {
		return Token{}, fmt.Errorf("machine: no result on value stack")
	}
	if len(m.values) != 1 || m.values[0].Kind != EnvType {
		return Token{}, fmt.Errorf("machine: malformed program left %d values", len(m.values))
	}
	if !m.printed {
		fmt.Fprintf(m.out, "%s\n", RenderQuoted(result))
	}
	return result, nil
}

// pushDelta pushes the tokens of one control structure onto the control
// stack, front-to-back.
func (m *Machine) pushDelta(id int) {
	m.control = append(m.control, m.deltas[id]...)
}

func (m *Machine) pushValue(t Token) {
	m.values = append(m.values, t)
}

func (m *Machine) popValue() (Token, error) {
	if len(m.values) == 0 {
		return Token{}, fmt.Errorf("machine: value stack underflow")
	}
	t := m.values[len(m.values)-1]
	m.values = m.values[:len(m.values)-1]
	return t, nil
}

// step dispatches one control token.
func (m *Machine) step(tok Token) error {
	switch tok.Kind {
	case IntType, StrType, TruthType, DummyType, NilType:
		m.pushValue(tok)
		return nil

	case IdType:
		return m.resolve(tok.Text)

	case OpType:
		return m.binaryOp(tok.Text)

	case UnaryType:
		return m.unaryOp(tok.Text)

	case YStarType:
		m.pushValue(tok)
		return nil

	case TauType:
		return m.formTuple(tok.Num)

	case AugType:
		return m.augment()

	case BetaType:
		return m.branch(tok)

	case ClosureType:
		tok.Env = m.currEnv
		m.pushValue(tok)
		return nil

	case GammaType:
		return m.gamma()

	case EnvType:
		return m.exitEnv(tok.Num)
	}
	return fmt.Errorf("machine: unexpected control token %v", tok)
}

// resolve looks a name up along the environment chain; unbound names that
// are built-ins become built-in markers.
func (m *Machine) resolve(name string) error {
	if v, ok := m.frames.Lookup(m.currEnv, name); ok {
		m.pushValue(v.(Token))
		return nil
	}
	if isBuiltinName(name) {
		m.pushValue(builtinTok(name))
		return nil
	}
	return fmt.Errorf("lookup: unbound identifier %q", name)
}

// branch decides a conditional: pops the test value and stitches in the
// control structure of the taken branch.
func (m *Machine) branch(beta Token) error {
	test, err := m.popValue()
	if err != nil {
		return err
	}
	if test.Kind != TruthType {
		return fmt.Errorf("type: conditional test is %v, not a truth value", test)
	}
	if test.Bool {
		m.pushDelta(beta.Then)
	} else {
		m.pushDelta(beta.Else)
	}
	return nil
}

// formTuple pops arity values and assembles them; the first popped value
// becomes the first component.
func (m *Machine) formTuple(arity int) error {
	comps := make([]Token, arity)
	for i := 0; i < arity; i++ {
		t, err := m.popValue()
		if err != nil {
			return err
		}
		comps[i] = t
	}
	m.pushValue(tupleTok(comps))
	return nil
}

// augment pops a tuple and an element and pushes the extended tuple.
// Augmenting nil yields a 1-tuple.
func (m *Machine) augment() error {
	tuple, err := m.popValue()
	if err != nil {
		return err
	}
	elem, err := m.popValue()
	if err != nil {
		return err
	}
	switch tuple.Kind {
	case NilType:
		m.pushValue(tupleTok([]Token{elem}))
	case TupleType:
		comps := make([]Token, 0, len(tuple.Comps)+1)
		comps = append(comps, tuple.Comps...)
		comps = append(comps, elem)
		m.pushValue(tupleTok(comps))
	default:
		return fmt.Errorf("type: aug applied to %v, not a tuple", tuple)
	}
	return nil
}

// exitEnv realises the return from a function call: the result moves over
// the environment marker below it, and the machine re-enters the calling
// environment.
func (m *Machine) exitEnv(id int) error {
	result, err := m.popValue()
	if err != nil {
		return err
	}
	marker, err := m.popValue()
	if err != nil {
		return err
	}
	if marker.Kind != EnvType || marker.Num != id {
		return fmt.Errorf("machine: environment markers out of balance (%v vs env %d)", marker, id)
	}
	m.pushValue(result)
	m.envStack.Pop()
	top, ok := m.envStack.Peek()
	if !ok {
		return fmt.Errorf("machine: environment stack underflow")
	}
	m.currEnv = top.(int)
	return nil
}

// gamma applies the value on top of the value stack.
func (m *Machine) gamma() error {
	rator, err := m.popValue()
	if err != nil {
		return err
	}
	switch rator.Kind {
	case ClosureType:
		return m.applyClosure(rator)

	case YStarType:
		// gamma(Y*, f) turns f into an eta; the next application of the
		// eta unrolls the recursion
		f, err := m.popValue()
		if err != nil {
			return err
		}
		if f.Kind != ClosureType {
			return fmt.Errorf("type: Y* applied to %v, not a function", f)
		}
		f.Kind = EtaType
		m.pushValue(f)
		return nil

	case EtaType:
		// unroll: re-apply a closure copy of the eta to the eta itself,
		// then to the original argument
		closure := rator
		closure.Kind = ClosureType
		m.pushValue(rator)
		m.pushValue(closure)
		m.control = append(m.control, gammaTok(), gammaTok())
		return nil

	case TupleType:
		return m.indexTuple(rator)

	case NilType:
		return fmt.Errorf("index: cannot index the empty tuple")

	case BuiltinType:
		return m.applyBuiltin(rator.Text)
	}
	return fmt.Errorf("type: cannot apply %v", rator)
}

// applyClosure binds the argument in a fresh frame and enters the closure
// body.
func (m *Machine) applyClosure(c Token) error {
	arg, err := m.popValue()
	if err != nil {
		return err
	}
	frame := m.frames.NewFrame(c.Env)
	switch len(c.Params) {
	case 0:
		// '()' parameter: the argument is consumed unbound
	case 1:
		frame.Bind(c.Params[0], arg)
	default:
		if !arg.IsTuple() {
			return fmt.Errorf("type: tuple pattern applied to %v", arg)
		}
		if arg.Order() != len(c.Params) {
			return fmt.Errorf("type: tuple pattern of %d names applied to tuple of order %d",
				len(c.Params), arg.Order())
		}
		for i, p := range c.Params {
			frame.Bind(p, arg.Comps[i])
		}
	}
	m.control = append(m.control, envTok(frame.ID))
	m.pushValue(envTok(frame.ID))
	m.envStack.Push(frame.ID)
	m.currEnv = frame.ID
	m.pushDelta(c.Body)
	return nil
}

// indexTuple selects a component, 1-based.
func (m *Machine) indexTuple(tuple Token) error {
	idx, err := m.popValue()
	if err != nil {
		return err
	}
	if idx.Kind != IntType {
		return fmt.Errorf("type: tuple index is %v, not an integer", idx)
	}
	if idx.Num < 1 || idx.Num > len(tuple.Comps) {
		return fmt.Errorf("index: %d out of range for tuple of order %d", idx.Num, len(tuple.Comps))
	}
	m.pushValue(tuple.Comps[idx.Num-1])
	return nil
}

// --- Operators -------------------------------------------------------------

// binaryOp pops two operands (left first) and applies an operator. The
// operand kinds select the operator family; both operands must be of the
// same kind.
func (m *Machine) binaryOp(sym string) error {
	left, err := m.popValue()
	if err != nil {
		return err
	}
	right, err := m.popValue()
	if err != nil {
		return err
	}
	switch left.Kind {
	case IntType:
		if right.Kind != IntType {
			return opTypeError(sym, left, right)
		}
		return m.intOp(sym, left.Num, right.Num)
	case StrType:
		if right.Kind != StrType {
			return opTypeError(sym, left, right)
		}
		switch sym {
		case "eq":
			m.pushValue(truthTok(left.Text == right.Text))
		case "ne":
			m.pushValue(truthTok(left.Text != right.Text))
		default:
			return opTypeError(sym, left, right)
		}
		return nil
	case TruthType:
		if right.Kind != TruthType {
			return opTypeError(sym, left, right)
		}
		switch sym {
		case "or":
			m.pushValue(truthTok(left.Bool || right.Bool))
		case "&":
			m.pushValue(truthTok(left.Bool && right.Bool))
		case "eq":
			m.pushValue(truthTok(left.Bool == right.Bool))
		case "ne":
			m.pushValue(truthTok(left.Bool != right.Bool))
		default:
			return opTypeError(sym, left, right)
		}
		return nil
	}
	return opTypeError(sym, left, right)
}

func opTypeError(sym string, left, right Token) error {
	return fmt.Errorf("type: cannot apply %q to %v and %v", sym, left, right)
}

// intOp applies an integer operator; division truncates toward zero and
// exponentiation requires a non-negative exponent.
func (m *Machine) intOp(sym string, a, b int) error {
	switch sym {
	case "+":
		m.pushValue(intTok(a + b))
	case "-":
		m.pushValue(intTok(a - b))
	case "*":
		m.pushValue(intTok(a * b))
	case "/":
		if b == 0 {
			return fmt.Errorf("arith: division by zero")
		}
		m.pushValue(intTok(a / b))
	case "**":
		if b < 0 {
			return fmt.Errorf("arith: negative exponent %d", b)
		}
		r := 1
		for i := 0; i < b; i++ {
			r *= a
		}
		m.pushValue(intTok(r))
	case "gr":
		m.pushValue(truthTok(a > b))
	case "ge":
		m.pushValue(truthTok(a >= b))
	case "ls":
		m.pushValue(truthTok(a < b))
	case "le":
		m.pushValue(truthTok(a <= b))
	case "eq":
		m.pushValue(truthTok(a == b))
	case "ne":
		m.pushValue(truthTok(a != b))
	default:
		return fmt.Errorf("type: unknown integer operator %q", sym)
	}
	return nil
}

// unaryOp applies neg or not to the top of the value stack.
func (m *Machine) unaryOp(sym string) error {
	v, err := m.popValue()
	if err != nil {
		return err
	}
	switch sym {
	case "neg":
		if v.Kind != IntType {
			return fmt.Errorf("type: neg applied to %v", v)
		}
		m.pushValue(intTok(-v.Num))
	case "not":
		if v.Kind != TruthType {
			return fmt.Errorf("type: not applied to %v", v)
		}
		m.pushValue(truthTok(!v.Bool))
	default:
		return fmt.Errorf("machine: unknown unary operator %q", sym)
	}
	return nil
}
