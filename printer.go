package timon

import (
	"fmt"
	"strings"
)

// DumpTokens lexes the entire program and renders one "LINE:COL KIND
// [payload]" line per token, including the trailing EOF. It stops at the
// first lexical error, same as the rest of the pipeline.
func DumpTokens(src string) (string, error) {
	lex := NewLexer(src)
	var b strings.Builder
	for {
		tok, err := lex.Next()
		if err != nil {
			return b.String(), err
		}
		fmt.Fprintf(&b, "%s %s", tok.Pos, tok.Type)
		if tok.Type == IDENT {
			fmt.Fprintf(&b, " %s", tok.Text)
		} else if isLiteralToken(tok.Type) {
			fmt.Fprintf(&b, " %s", debugString(tok.Value))
		}
		b.WriteByte('\n')
		if tok.Type == EOF {
			break
		}
	}
	return b.String(), nil
}

// DumpAST parses the program and renders its statements as a box-drawing
// tree, one root entry per top-level statement.
func DumpAST(src string) (string, error) {
	p, err := NewParser(src)
	if err != nil {
		return "", err
	}
	prog, err := p.ParseProgram()
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for i, s := range prog.Statements {
		last := i == len(prog.Statements)-1
		writeStmtTree(&b, s, "", last)
	}
	return b.String(), nil
}

func isLiteralToken(tt TokenType) bool {
	switch tt {
	case NUMBER, STRING, DATE, TIME, DATETIME, TIMEDELTA, BOOL:
		return true
	default:
		return false
	}
}

func branchPrefix(prefix string, last bool) (string, string) {
	if last {
		return prefix + "└── ", prefix + "    "
	}
	return prefix + "├── ", prefix + "│   "
}

func writeStmtTree(b *strings.Builder, s Stmt, prefix string, last bool) {
	line, childPrefix := branchPrefix(prefix, last)
	switch n := s.(type) {
	case *FunctionDef:
		fmt.Fprintf(b, "%sFunctionDef %s(%s) @%s\n", line, n.Name, strings.Join(n.Params, ", "), n.Pos())
		writeStmtList(b, n.Body, childPrefix)
	case *VarDef:
		fmt.Fprintf(b, "%sVarDef %s @%s\n", line, n.Name, n.Pos())
		if n.Value != nil {
			writeExprTree(b, n.Value, childPrefix, true)
		}
	case *Assign:
		fmt.Fprintf(b, "%sAssign %s @%s\n", line, n.Name, n.Pos())
		writeExprTree(b, n.Value, childPrefix, true)
	case *CallStmt:
		fmt.Fprintf(b, "%sCallStmt @%s\n", line, n.Pos())
		writeExprTree(b, n.Call, childPrefix, true)
	case *If:
		fmt.Fprintf(b, "%sIf @%s\n", line, n.Pos())
		writeExprTree(b, n.Cond, childPrefix, n.Else == nil && len(n.Then) == 0)
		writeStmtList(b, n.Then, childPrefix)
		if n.Else != nil {
			writeStmtList(b, n.Else, childPrefix)
		}
	case *From:
		fmt.Fprintf(b, "%sFrom by %s as %s @%s\n", line, n.Unit, n.As, n.Pos())
		writeExprTree(b, n.Start, childPrefix, false)
		writeExprTree(b, n.End, childPrefix, false)
		writeStmtList(b, n.Body, childPrefix)
	case *Print:
		fmt.Fprintf(b, "%sPrint @%s\n", line, n.Pos())
		writeExprTree(b, n.Value, childPrefix, true)
	case *Return:
		fmt.Fprintf(b, "%sReturn @%s\n", line, n.Pos())
		if n.Value != nil {
			writeExprTree(b, n.Value, childPrefix, true)
		}
	default:
		fmt.Fprintf(b, "%s<unknown statement> @%s\n", line, s.Pos())
	}
}

func writeStmtList(b *strings.Builder, stmts []Stmt, prefix string) {
	for i, s := range stmts {
		writeStmtTree(b, s, prefix, i == len(stmts)-1)
	}
}

func writeExprTree(b *strings.Builder, e Expr, prefix string, last bool) {
	line, childPrefix := branchPrefix(prefix, last)
	switch n := e.(type) {
	case *Literal:
		fmt.Fprintf(b, "%sLiteral %s @%s\n", line, debugString(n.Value), n.Pos())
	case *Var:
		fmt.Fprintf(b, "%sVar %s @%s\n", line, n.Name, n.Pos())
	case *Unary:
		fmt.Fprintf(b, "%sUnary %s @%s\n", line, n.Op, n.Pos())
		writeExprTree(b, n.Operand, childPrefix, true)
	case *Binary:
		fmt.Fprintf(b, "%sBinary %s @%s\n", line, n.Op, n.Pos())
		writeExprTree(b, n.LHS, childPrefix, false)
		writeExprTree(b, n.RHS, childPrefix, true)
	case *CallExpr:
		fmt.Fprintf(b, "%sCall %s @%s\n", line, n.Name, n.Pos())
		for i, a := range n.Args {
			writeExprTree(b, a, childPrefix, i == len(n.Args)-1)
		}
	case *FieldAccess:
		fmt.Fprintf(b, "%sFieldAccess .%s @%s\n", line, n.Field, n.Pos())
		writeExprTree(b, n.Target, childPrefix, true)
	default:
		fmt.Fprintf(b, "%s<unknown expression> @%s\n", line, e.Pos())
	}
}
