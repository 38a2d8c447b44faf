package timon

import "io"

// returnSignal unwinds the Go call stack back to the nearest enclosing
// function call. It is never shown to users directly: a returnSignal
// reaching the top level is translated into a TimonError by Run.
type returnSignal struct {
	Value Value
}

func (r *returnSignal) Error() string { return "return" }

// Interpreter is a tree-walking evaluator over a Program.
type Interpreter struct {
	env *Env
	out io.Writer
}

// NewInterpreter creates an interpreter that writes `print` output to out.
func NewInterpreter(out io.Writer) *Interpreter {
	return &Interpreter{env: NewEnv(), out: out}
}

// Run executes every top-level statement in order.
func (it *Interpreter) Run(prog *Program) error {
	for _, s := range prog.Statements {
		if err := it.execStmt(s); err != nil {
			if _, ok := err.(*returnSignal); ok {
				return newError(TypeError, s.Pos(), "return used outside of a function")
			}
			return err
		}
	}
	return nil
}

func (it *Interpreter) execStmt(s Stmt) error {
	switch n := s.(type) {
	case *FunctionDef:
		return it.execFunctionDef(n)
	case *VarDef:
		return it.execVarDef(n)
	case *Assign:
		return it.execAssign(n)
	case *CallStmt:
		_, err := it.evalCall(n.Call)
		return err
	case *If:
		return it.execIf(n)
	case *From:
		return it.execFrom(n)
	case *Print:
		return it.execPrint(n)
	case *Return:
		var v Value = Unit
		if n.Value != nil {
			val, err := it.evalExpr(n.Value)
			if err != nil {
				return err
			}
			v = val
		}
		return &returnSignal{Value: v}
	default:
		return newError(TypeError, s.Pos(), "unsupported statement")
	}
}

func (it *Interpreter) execFunctionDef(n *FunctionDef) error {
	if it.env.HasGlobalVar(n.Name) {
		return newError(NameError, n.Pos(), "'%s' is already defined as a variable", n.Name)
	}
	if it.env.HasFunc(n.Name) {
		return newError(NameError, n.Pos(), "function '%s' is already defined", n.Name)
	}
	it.env.DefineFunc(n)
	return nil
}

func (it *Interpreter) execVarDef(n *VarDef) error {
	var val Value = Unit
	if n.Value != nil {
		v, err := it.evalExpr(n.Value)
		if err != nil {
			return err
		}
		val = v
	}
	if it.env.HasFunc(n.Name) {
		return newError(NameError, n.Pos(), "'%s' is already defined as a function", n.Name)
	}
	if it.env.DefinedInCurrentScope(n.Name) {
		return newError(NameError, n.Pos(), "'%s' is already defined in this scope", n.Name)
	}
	it.env.Define(n.Name, val)
	return nil
}

func (it *Interpreter) execAssign(n *Assign) error {
	val, err := it.evalExpr(n.Value)
	if err != nil {
		return err
	}
	if !it.env.Set(n.Name, val) {
		return newError(NameError, n.Pos(), "undefined variable '%s'", n.Name)
	}
	return nil
}

func (it *Interpreter) execIf(n *If) error {
	cond, err := it.evalExpr(n.Cond)
	if err != nil {
		return err
	}
	if cond.Kind != VBool {
		return newError(TypeError, n.Cond.Pos(), "if condition must be Bool, got %s", cond.Kind)
	}
	branch := n.Else
	if cond.Bool {
		branch = n.Then
	}
	return it.execBlock(branch)
}

func (it *Interpreter) execBlock(stmts []Stmt) error {
	it.env.PushBlock()
	defer it.env.PopBlock()
	for _, s := range stmts {
		if err := it.execStmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (it *Interpreter) execFrom(n *From) error {
	start, err := it.evalExpr(n.Start)
	if err != nil {
		return err
	}
	end, err := it.evalExpr(n.End)
	if err != nil {
		return err
	}
	if start.Kind != end.Kind {
		return newError(TypeError, n.Pos(), "'from' range endpoints must share the same variant, got %s and %s", start.Kind, end.Kind)
	}
	stepTD, err := stepTimedelta(n.Unit, start.Kind)
	if err != nil {
		return wrapOpError(err, n.Pos())
	}
	step := TimedeltaValOf(stepTD)

	cur := start
	for {
		c, err := compareOrdered(cur, end)
		if err != nil {
			return wrapOpError(err, n.Pos())
		}
		if c > 0 {
			break
		}
		it.env.PushBlock()
		it.env.Define(n.As, cur)
		for _, s := range n.Body {
			if err := it.execStmt(s); err != nil {
				it.env.PopBlock()
				return err
			}
		}
		it.env.PopBlock()

		next, err := applyBinary(PLUS, cur, step)
		if err != nil {
			return wrapOpError(err, n.Pos())
		}
		cur = next
	}
	return nil
}

func (it *Interpreter) execPrint(n *Print) error {
	val, err := it.evalExpr(n.Value)
	if err != nil {
		return err
	}
	_, err = io.WriteString(it.out, canonicalString(val)+"\n")
	return err
}

func (it *Interpreter) evalExpr(e Expr) (Value, error) {
	switch n := e.(type) {
	case *Literal:
		return n.Value, nil
	case *Var:
		v, ok := it.env.Lookup(n.Name)
		if !ok {
			return Value{}, newError(NameError, n.Pos(), "undefined variable '%s'", n.Name)
		}
		return v, nil
	case *Unary:
		operand, err := it.evalExpr(n.Operand)
		if err != nil {
			return Value{}, err
		}
		v, err := applyUnary(n.Op, operand)
		if err != nil {
			return Value{}, wrapOpError(err, n.Pos())
		}
		return v, nil
	case *Binary:
		return it.evalBinary(n)
	case *CallExpr:
		return it.evalCall(n)
	case *FieldAccess:
		target, err := it.evalExpr(n.Target)
		if err != nil {
			return Value{}, err
		}
		v, err := fieldAccess(target, n.Field)
		if err != nil {
			return Value{}, wrapOpError(err, n.Pos())
		}
		return v, nil
	default:
		return Value{}, newError(TypeError, e.Pos(), "unsupported expression")
	}
}

// evalBinary special-cases '&' and '|' so the right-hand side is only
// evaluated when the left-hand side doesn't already decide the result.
func (it *Interpreter) evalBinary(n *Binary) (Value, error) {
	if n.Op == AND || n.Op == OR {
		lhs, err := it.evalExpr(n.LHS)
		if err != nil {
			return Value{}, err
		}
		if lhs.Kind != VBool {
			return Value{}, newError(TypeError, n.LHS.Pos(), "'%s' requires Bool operands, got %s", n.Op, lhs.Kind)
		}
		if n.Op == AND && !lhs.Bool {
			return BoolVal(false), nil
		}
		if n.Op == OR && lhs.Bool {
			return BoolVal(true), nil
		}
		rhs, err := it.evalExpr(n.RHS)
		if err != nil {
			return Value{}, err
		}
		if rhs.Kind != VBool {
			return Value{}, newError(TypeError, n.RHS.Pos(), "'%s' requires Bool operands, got %s", n.Op, rhs.Kind)
		}
		return rhs, nil
	}

	lhs, err := it.evalExpr(n.LHS)
	if err != nil {
		return Value{}, err
	}
	rhs, err := it.evalExpr(n.RHS)
	if err != nil {
		return Value{}, err
	}
	v, err := applyBinary(n.Op, lhs, rhs)
	if err != nil {
		return Value{}, wrapOpError(err, n.Pos())
	}
	return v, nil
}

func (it *Interpreter) evalCall(n *CallExpr) (Value, error) {
	fn, ok := it.env.GetFunc(n.Name)
	if !ok {
		return Value{}, newError(NameError, n.Pos(), "undefined function '%s'", n.Name)
	}
	if len(n.Args) != len(fn.Params) {
		return Value{}, newError(ArityError, n.Pos(), "function '%s' expects %d argument(s), got %d", n.Name, len(fn.Params), len(n.Args))
	}
	args := make([]Value, len(n.Args))
	for i, a := range n.Args {
		v, err := it.evalExpr(a)
		if err != nil {
			return Value{}, err
		}
		args[i] = v
	}
	return it.callFunction(fn, args)
}

func (it *Interpreter) callFunction(fn *FunctionDef, args []Value) (Value, error) {
	saved := it.env.EnterCall()
	defer it.env.ExitCall(saved)

	for i, p := range fn.Params {
		it.env.Define(p, args[i])
	}

	result := Unit
	for _, s := range fn.Body {
		if err := it.execStmt(s); err != nil {
			if rs, ok := err.(*returnSignal); ok {
				result = rs.Value
				break
			}
			return Value{}, err
		}
	}
	return result, nil
}
