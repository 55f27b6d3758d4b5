/*
Package runtime implements the environment model of the CSE machine,
consisting of an arena of environment frames and name bindings attached to
them.

For a thorough discussion of an interpreter's runtime environment, refer to
"Language Implementation Patterns" by Terence Parr.

Frames form a tree rooted at frame 0: every frame except the root points to
the frame of the lexical scope it was created in. Frames are created when a
closure is applied and are never deleted during a run; name lookup walks the
parent chain toward the root. Bindings are inserted once, when a function is
applied, and never mutated afterwards.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package runtime

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'rpal.machine'.
func tracer() tracing.Trace {
	return tracing.Select("rpal.machine")
}

// RootFrame is the id of the outermost frame; its parent id is NoParent.
const (
	RootFrame = 0
	NoParent  = -1
)

// Frame is one environment record: an id, the id of the lexically enclosing
// frame, and the bindings made when the frame was created. Values are opaque
// to this package; the machine stores its value tokens here.
type Frame struct {
	ID       int
	Parent   int
	bindings map[string]interface{}
}

func newFrame(id, parent int) *Frame {
	return &Frame{
		ID:       id,
		Parent:   parent,
		bindings: make(map[string]interface{}),
	}
}

// Prettyfied Stringer.
func (f *Frame) String() string {
	return fmt.Sprintf("<env %d -> %d>", f.ID, f.Parent)
}

// Bind inserts a binding into the frame. Names are never rebound within an
// existing frame; rebinding indicates a machine defect and panics.
func (f *Frame) Bind(name string, value interface{}) {
	if _, ok := f.bindings[name]; ok {
		panic(fmt.Sprintf("attempt to rebind %q in frame %d", name, f.ID))
	}
	f.bindings[name] = value
}

// Resolve checks for a binding in this frame only. Use Environment.Lookup
// for the chain walk.
func (f *Frame) Resolve(name string) (interface{}, bool) {
	v, ok := f.bindings[name]
	return v, ok
}

// Size counts the bindings of a frame.
func (f *Frame) Size() int {
	return len(f.bindings)
}

// ---------------------------------------------------------------------------

// Environment is the arena of all frames created during a run, indexed by
// frame id. Frames grow monotonically; ids are dense.
type Environment struct {
	frames []*Frame
}

// NewEnvironment constructs an environment arena, initialized with the root
// frame (id 0, no parent, no bindings).
func NewEnvironment() *Environment {
	env := &Environment{}
	env.frames = append(env.frames, newFrame(RootFrame, NoParent))
	return env
}

// NewFrame allocates a fresh frame with the given parent and returns it.
// The parent must already exist.
func (env *Environment) NewFrame(parent int) *Frame {
	if parent < 0 || parent >= len(env.frames) {
		panic(fmt.Sprintf("attempt to create frame below non-existent frame %d", parent))
	}
	f := newFrame(len(env.frames), parent)
	env.frames = append(env.frames, f)
	tracer().P("env", fmt.Sprintf("%d", f.ID)).Debugf("pushing new environment frame")
	return f
}

// Frame returns the frame with the given id.
func (env *Environment) Frame(id int) *Frame {
	if id < 0 || id >= len(env.frames) {
		panic(fmt.Sprintf("attempt to access non-existent frame %d", id))
	}
	return env.frames[id]
}

// Size counts the frames created so far.
func (env *Environment) Size() int {
	return len(env.frames)
}

// Lookup finds a binding for name, starting at frame id and walking the
// parent chain toward the root. The first frame on the chain that binds the
// name wins.
func (env *Environment) Lookup(id int, name string) (interface{}, bool) {
	for id != NoParent {
		f := env.Frame(id)
		if v, ok := f.Resolve(name); ok {
			return v, true
		}
		id = f.Parent
	}
	return nil, false
}
