package timon

// frame is one lexical block's variable bindings.
type frame struct {
	vars map[string]Value
}

func newFrame() *frame { return &frame{vars: make(map[string]Value)} }

// Env implements the scoping discipline of spec §3/§4.4: a single global
// frame holds top-level variables, and a separate global table holds every
// function definition (functions are only ever declared at the top level).
// Nested blocks (if/else/from
// bodies) push additional frames that are visible to everything else
// executing inside the same function call. Entering a function call is a
// scope boundary: the new call sees only its own frames plus the global
// frame, never the caller's locals.
type Env struct {
	global *frame
	funcs  map[string]*FunctionDef
	stack  []*frame // block frames of the currently executing function/top level, innermost last
}

// NewEnv creates an environment with an empty global frame and no active
// block stack (top-level statements bind directly into the global frame).
func NewEnv() *Env {
	return &Env{global: newFrame(), funcs: make(map[string]*FunctionDef)}
}

// PushBlock opens a new nested scope, e.g. for an if-branch or a from-loop
// body. It stays visible to everything below it until PopBlock is called.
func (e *Env) PushBlock() {
	e.stack = append(e.stack, newFrame())
}

// PopBlock closes the most recently opened nested scope.
func (e *Env) PopBlock() {
	e.stack = e.stack[:len(e.stack)-1]
}

// EnterCall establishes a function-call boundary: the caller's block stack
// is detached and replaced with a single fresh frame for the callee. The
// return value must be passed to ExitCall once the call returns.
func (e *Env) EnterCall() []*frame {
	saved := e.stack
	e.stack = []*frame{newFrame()}
	return saved
}

// ExitCall restores the block stack saved by EnterCall.
func (e *Env) ExitCall(saved []*frame) {
	e.stack = saved
}

// Lookup resolves a variable name, searching the active block stack from
// innermost to outermost and falling back to the global frame.
func (e *Env) Lookup(name string) (Value, bool) {
	for i := len(e.stack) - 1; i >= 0; i-- {
		if v, ok := e.stack[i].vars[name]; ok {
			return v, true
		}
	}
	v, ok := e.global.vars[name]
	return v, ok
}

// Define introduces name in the innermost active scope (the top block frame
// if one is open, otherwise the global frame), shadowing any outer binding
// of the same name for the rest of that scope's lifetime.
func (e *Env) Define(name string, v Value) {
	if len(e.stack) > 0 {
		e.stack[len(e.stack)-1].vars[name] = v
		return
	}
	e.global.vars[name] = v
}

// Set rebinds an existing variable in whichever scope currently has it
// visible. It reports false if name is not bound anywhere visible.
func (e *Env) Set(name string, v Value) bool {
	for i := len(e.stack) - 1; i >= 0; i-- {
		if _, ok := e.stack[i].vars[name]; ok {
			e.stack[i].vars[name] = v
			return true
		}
	}
	if _, ok := e.global.vars[name]; ok {
		e.global.vars[name] = v
		return true
	}
	return false
}

// DefineFunc registers a top-level function definition.
func (e *Env) DefineFunc(fn *FunctionDef) {
	e.funcs[fn.Name] = fn
}

// GetFunc resolves a function by name.
func (e *Env) GetFunc(name string) (*FunctionDef, bool) {
	fn, ok := e.funcs[name]
	return fn, ok
}

// HasGlobalVar reports whether name is already bound as a global variable,
// used for the variable/function namespace collision check.
func (e *Env) HasGlobalVar(name string) bool {
	_, ok := e.global.vars[name]
	return ok
}

// HasFunc reports whether name is already bound as a function.
func (e *Env) HasFunc(name string) bool {
	_, ok := e.funcs[name]
	return ok
}

// DefinedInCurrentScope reports whether name is already bound in the
// innermost active frame only (the top block frame if one is open,
// otherwise the global frame) — the scope a new Define call would land in.
// Unlike Lookup, it never considers outer frames, so shadowing a name from
// an enclosing block is still allowed.
func (e *Env) DefinedInCurrentScope(name string) bool {
	if len(e.stack) > 0 {
		_, ok := e.stack[len(e.stack)-1].vars[name]
		return ok
	}
	_, ok := e.global.vars[name]
	return ok
}
