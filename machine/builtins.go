package machine

// The built-in functions of RPAL. Built-ins are not bound in any
// environment frame: an identifier that resolves to no binding but matches
// a name below is pushed as a built-in marker, so user code may shadow any
// of them.

import (
	"fmt"
	"strconv"
)

var builtinNames = map[string]bool{
	"Print": true, "print": true,
	"Stem": true, "stem": true,
	"Stern": true, "stern": true,
	"Conc": true, "conc": true,
	"ItoS": true, "itos": true,
	"Order":        true,
	"Null":         true,
	"Isinteger":    true,
	"Isstring":     true,
	"Istruthvalue": true,
	"Istuple":      true,
	"Isdummy":      true,
	"Isfunction":   true,
}

// isBuiltinName reports whether an unbound identifier names a built-in.
func isBuiltinName(name string) bool {
	return builtinNames[name]
}

// applyBuiltin dispatches a built-in marker consumed by gamma.
func (m *Machine) applyBuiltin(name string) error {
	switch name {
	case "Print", "print":
		return m.builtinPrint()
	case "Stem", "stem":
		return m.builtinStem()
	case "Stern", "stern":
		return m.builtinStern()
	case "Conc", "conc":
		return m.builtinConc()
	case "ItoS", "itos":
		return m.builtinItoS()
	case "Order":
		return m.builtinOrder()
	case "Null":
		return m.builtinNull()
	case "Isinteger":
		return m.typePredicate(func(t Token) bool { return t.Kind == IntType })
	case "Isstring":
		return m.typePredicate(func(t Token) bool { return t.Kind == StrType })
	case "Istruthvalue":
		return m.typePredicate(func(t Token) bool { return t.Kind == TruthType })
	case "Istuple":
		return m.typePredicate(Token.IsTuple)
	case "Isdummy":
		return m.typePredicate(func(t Token) bool { return t.Kind == DummyType })
	case "Isfunction":
		return m.typePredicate(func(t Token) bool { return t.Kind == ClosureType })
	}
	return fmt.Errorf("machine: unknown built-in %q", name)
}

// builtinPrint renders the argument to the output sink and leaves a dummy
// value.
func (m *Machine) builtinPrint() error {
	t, err := m.popValue()
	if err != nil {
		return err
	}
	fmt.Fprint(m.out, Render(t))
	m.printed = true
	m.pushValue(dummyTok())
	return nil
}

// builtinStem keeps the first character of a string.
func (m *Machine) builtinStem() error {
	s, err := m.popString("Stem")
	if err != nil {
		return err
	}
	body := inner(s.Text)
	if len(body) > 0 {
		body = body[:1]
	}
	m.pushValue(strTok("'" + body + "'"))
	return nil
}

// builtinStern drops the first character of a string.
func (m *Machine) builtinStern() error {
	s, err := m.popString("Stern")
	if err != nil {
		return err
	}
	body := inner(s.Text)
	if len(body) > 0 {
		body = body[1:]
	}
	m.pushValue(strTok("'" + body + "'"))
	return nil
}

// builtinConc concatenates two strings. Conc is the one two-argument
// built-in: its second application is absorbed here by consuming the
// pending gamma from the control stack.
func (m *Machine) builtinConc() error {
	first, err := m.popString("Conc")
	if err != nil {
		return err
	}
	second, err := m.popString("Conc")
	if err != nil {
		return err
	}
	m.pushValue(strTok("'" + inner(first.Text) + inner(second.Text) + "'"))
	if len(m.control) == 0 || m.control[len(m.control)-1].Kind != GammaType {
		return fmt.Errorf("machine: Conc expects a second application")
	}
	m.control = m.control[:len(m.control)-1]
	return nil
}

// builtinItoS converts an integer to its (quoted) string form.
func (m *Machine) builtinItoS() error {
	t, err := m.popValue()
	if err != nil {
		return err
	}
	if t.Kind != IntType {
		return fmt.Errorf("type: ItoS applied to %v", t)
	}
	m.pushValue(strTok("'" + strconv.Itoa(t.Num) + "'"))
	return nil
}

// builtinOrder yields the number of components of a tuple.
func (m *Machine) builtinOrder() error {
	t, err := m.popValue()
	if err != nil {
		return err
	}
	if !t.IsTuple() {
		return fmt.Errorf("type: Order applied to %v, not a tuple", t)
	}
	m.pushValue(intTok(t.Order()))
	return nil
}

// builtinNull tests for the empty tuple.
func (m *Machine) builtinNull() error {
	t, err := m.popValue()
	if err != nil {
		return err
	}
	m.pushValue(truthTok(t.Kind == NilType))
	return nil
}

func (m *Machine) typePredicate(pred func(Token) bool) error {
	t, err := m.popValue()
	if err != nil {
		return err
	}
	m.pushValue(truthTok(pred(t)))
	return nil
}

func (m *Machine) popString(builtin string) (Token, error) {
	t, err := m.popValue()
	if err != nil {
		return Token{}, err
	}
	if t.Kind != StrType {
		return Token{}, fmt.Errorf("type: %s applied to %v, not a string", builtin, t)
	}
	return t, nil
}
