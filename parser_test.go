package timon

import "testing"

func mustParse(t *testing.T, src string) *Program {
	t.Helper()
	p, err := NewParser(src)
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}
	prog, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("ParseProgram: %v", err)
	}
	return prog
}

func TestParserVarDefAndPrint(t *testing.T) {
	prog := mustParse(t, "var x = 1 + 2\nprint x")
	if len(prog.Statements) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(prog.Statements))
	}
	vd, ok := prog.Statements[0].(*VarDef)
	if !ok {
		t.Fatalf("expected VarDef, got %T", prog.Statements[0])
	}
	bin, ok := vd.Value.(*Binary)
	if !ok || bin.Op != PLUS {
		t.Fatalf("expected '+' binary expr, got %#v", vd.Value)
	}
	if _, ok := prog.Statements[1].(*Print); !ok {
		t.Fatalf("expected Print, got %T", prog.Statements[1])
	}
}

func TestParserVarDefWithoutInitializer(t *testing.T) {
	prog := mustParse(t, "var x\nprint x")
	vd, ok := prog.Statements[0].(*VarDef)
	if !ok {
		t.Fatalf("expected VarDef, got %T", prog.Statements[0])
	}
	if vd.Value != nil {
		t.Fatalf("expected a nil Value for an initializer-less var, got %#v", vd.Value)
	}
}

func TestParserFunctionDefinitionRejectedInsideBlock(t *testing.T) {
	p, err := NewParser("if true {\n  fun f() {\n    return 1\n  }\n}")
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}
	if _, err := p.ParseProgram(); err == nil {
		t.Fatalf("expected ParseError for a function definition nested inside a block")
	}
}

func TestParserFunctionDef(t *testing.T) {
	prog := mustParse(t, "fun add(a, b) {\n  return a + b\n}")
	fn, ok := prog.Statements[0].(*FunctionDef)
	if !ok {
		t.Fatalf("expected FunctionDef, got %T", prog.Statements[0])
	}
	if fn.Name != "add" || len(fn.Params) != 2 {
		t.Fatalf("unexpected function shape: %+v", fn)
	}
}

func TestParserCallStatementVsAssignment(t *testing.T) {
	prog := mustParse(t, "foo(1, 2)\nx = 3")
	if _, ok := prog.Statements[0].(*CallStmt); !ok {
		t.Fatalf("expected CallStmt, got %T", prog.Statements[0])
	}
	if _, ok := prog.Statements[1].(*Assign); !ok {
		t.Fatalf("expected Assign, got %T", prog.Statements[1])
	}
}

func TestParserFromLoop(t *testing.T) {
	prog := mustParse(t, "from 01.01.2024 to 31.01.2024 by days as d {\n  print d\n}")
	fr, ok := prog.Statements[0].(*From)
	if !ok {
		t.Fatalf("expected From, got %T", prog.Statements[0])
	}
	if fr.Unit != DAYS || fr.As != "d" {
		t.Fatalf("unexpected from shape: %+v", fr)
	}
}

func TestParserIfElse(t *testing.T) {
	prog := mustParse(t, "if true {\n  print 1\n} else {\n  print 2\n}")
	ifs, ok := prog.Statements[0].(*If)
	if !ok {
		t.Fatalf("expected If, got %T", prog.Statements[0])
	}
	if len(ifs.Then) != 1 || len(ifs.Else) != 1 {
		t.Fatalf("unexpected if shape: %+v", ifs)
	}
}

func TestParserUnaryDoesNotStack(t *testing.T) {
	p, err := NewParser("var x = --1")
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}
	if _, err := p.ParseProgram(); err == nil {
		t.Fatalf("expected ParseError for stacked unary operators")
	}
}

func TestParserComparisonDoesNotChain(t *testing.T) {
	p, err := NewParser("var x = 1 < 2 < 3")
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}
	if _, err := p.ParseProgram(); err == nil {
		t.Fatalf("expected ParseError for chained comparisons")
	}
}

func TestParserFieldAccess(t *testing.T) {
	prog := mustParse(t, "var x = '1Y 2M'.months")
	vd := prog.Statements[0].(*VarDef)
	fa, ok := vd.Value.(*FieldAccess)
	if !ok || fa.Field != "months" {
		t.Fatalf("expected FieldAccess on 'months', got %#v", vd.Value)
	}
}
