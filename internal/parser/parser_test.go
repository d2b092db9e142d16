package parser_test

import (
	"strings"
	"testing"

	"github.com/velalang/vela/internal/ast"
	"github.com/velalang/vela/internal/diagnostics"
	"github.com/velalang/vela/internal/lexer"
	"github.com/velalang/vela/internal/parser"
	"github.com/velalang/vela/internal/pipeline"
)

func parse(t *testing.T, input string) *ast.Program {
	t.Helper()
	ctx := parseCtx(input)
	if ctx.HasErrors() {
		var msgs []string
		for _, e := range ctx.Errors {
			msgs = append(msgs, e.Error())
		}
		t.Fatalf("unexpected parse errors:\n%s\ninput: %s", strings.Join(msgs, "\n"), input)
	}
	return ctx.AstRoot.(*ast.Program)
}

func parseCtx(input string) *pipeline.PipelineContext {
	ctx := pipeline.NewPipelineContext(input)
	return pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
	).Run(ctx)
}

func expectParseError(t *testing.T, input string, code diagnostics.ErrorCode) {
	t.Helper()
	ctx := parseCtx(input)
	for _, e := range ctx.Errors {
		if e.Code == code {
			return
		}
	}
	var msgs []string
	for _, e := range ctx.Errors {
		msgs = append(msgs, e.Error())
	}
	t.Fatalf("expected %s, got:\n%s\ninput: %s", code, strings.Join(msgs, "\n"), input)
}

func firstStmt[T ast.Statement](t *testing.T, program *ast.Program) T {
	t.Helper()
	if len(program.Statements) == 0 {
		t.Fatal("program has no statements")
	}
	stmt, ok := program.Statements[0].(T)
	if !ok {
		t.Fatalf("statement is %T", program.Statements[0])
	}
	return stmt
}

func TestLetStatements(t *testing.T) {
	program := parse(t, "const a = 1; let b: i32 = 2; var c = 3.5;")
	if len(program.Statements) != 3 {
		t.Fatalf("want 3 statements, got %d", len(program.Statements))
	}

	tests := []struct {
		name    string
		isConst bool
		typed   bool
	}{
		{"a", true, false},
		{"b", false, true},
		{"c", false, false},
	}
	for i, tt := range tests {
		stmt, ok := program.Statements[i].(*ast.LetStatement)
		if !ok {
			t.Fatalf("statement %d is %T", i, program.Statements[i])
		}
		if stmt.Name.Value != tt.name {
			t.Errorf("statement %d: name %q, want %q", i, stmt.Name.Value, tt.name)
		}
		if stmt.IsConst() != tt.isConst {
			t.Errorf("statement %d: IsConst %v", i, stmt.IsConst())
		}
		if (stmt.TypeAnnotation != nil) != tt.typed {
			t.Errorf("statement %d: annotation presence %v", i, stmt.TypeAnnotation != nil)
		}
	}

	typed := program.Statements[1].(*ast.LetStatement)
	named, ok := typed.TypeAnnotation.(*ast.NamedType)
	if !ok || named.Name != "i32" {
		t.Fatalf("annotation = %#v, want named type i32", typed.TypeAnnotation)
	}
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		input string
		check func(t *testing.T, e ast.Expression)
	}{
		{"1 + 2 * 3", func(t *testing.T, e ast.Expression) {
			root := infix(t, e, "+")
			infix(t, root.Right, "*")
		}},
		{"(1 + 2) * 3", func(t *testing.T, e ast.Expression) {
			root := infix(t, e, "*")
			infix(t, root.Left, "+")
		}},
		{"a == b && c == d", func(t *testing.T, e ast.Expression) {
			root := infix(t, e, "&&")
			infix(t, root.Left, "==")
			infix(t, root.Right, "==")
		}},
		{"a | b & c", func(t *testing.T, e ast.Expression) {
			root := infix(t, e, "|")
			infix(t, root.Right, "&")
		}},
		{"a << 2 + 1", func(t *testing.T, e ast.Expression) {
			// Shift binds tighter than addition.
			root := infix(t, e, "+")
			infix(t, root.Left, "<<")
		}},
		{"-a * b", func(t *testing.T, e ast.Expression) {
			root := infix(t, e, "*")
			if _, ok := root.Left.(*ast.PrefixExpression); !ok {
				t.Fatalf("left is %T, want prefix", root.Left)
			}
		}},
		{"a < b == c > d", func(t *testing.T, e ast.Expression) {
			root := infix(t, e, "==")
			infix(t, root.Left, "<")
			infix(t, root.Right, ">")
		}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			program := parse(t, tt.input+";")
			stmt := firstStmt[*ast.ExpressionStatement](t, program)
			tt.check(t, stmt.Expression)
		})
	}
}

func infix(t *testing.T, e ast.Expression, op string) *ast.InfixExpression {
	t.Helper()
	ie, ok := e.(*ast.InfixExpression)
	if !ok {
		t.Fatalf("expression is %T, want infix", e)
	}
	if ie.Operator != op {
		t.Fatalf("operator %q, want %q", ie.Operator, op)
	}
	return ie
}

func TestTernaryExpression(t *testing.T) {
	program := parse(t, "let x = a > 0 ? a : -a;")
	stmt := firstStmt[*ast.LetStatement](t, program)
	te, ok := stmt.Value.(*ast.TernaryExpression)
	if !ok {
		t.Fatalf("value is %T", stmt.Value)
	}
	infix(t, te.Cond, ">")
	if _, ok := te.Then.(*ast.Identifier); !ok {
		t.Errorf("then branch is %T", te.Then)
	}
	if _, ok := te.Else.(*ast.PrefixExpression); !ok {
		t.Errorf("else branch is %T", te.Else)
	}
}

func TestAssignExpressions(t *testing.T) {
	program := parse(t, "x = 1; x += 2; a[0] *= 3;")
	ops := []string{"=", "+=", "*="}
	for i, want := range ops {
		stmt, ok := program.Statements[i].(*ast.ExpressionStatement)
		if !ok {
			t.Fatalf("statement %d is %T", i, program.Statements[i])
		}
		ae, ok := stmt.Expression.(*ast.AssignExpression)
		if !ok {
			t.Fatalf("statement %d expression is %T", i, stmt.Expression)
		}
		if string(ae.Op) != want {
			t.Errorf("statement %d: op %q, want %q", i, ae.Op, want)
		}
	}
	third := program.Statements[2].(*ast.ExpressionStatement).Expression.(*ast.AssignExpression)
	if _, ok := third.Target.(*ast.IndexExpression); !ok {
		t.Errorf("compound target is %T, want index expression", third.Target)
	}
}

func TestFunctionStatement(t *testing.T) {
	program := parse(t, `
function clamp(x: i32, lo: i32 = 0, hi) : i32 {
    return x;
}`)
	fn := firstStmt[*ast.FunctionStatement](t, program)
	if fn.Name.Value != "clamp" || fn.Receiver != nil {
		t.Fatalf("name %q receiver %v", fn.Name.Value, fn.Receiver)
	}
	if len(fn.Params) != 3 {
		t.Fatalf("want 3 params, got %d", len(fn.Params))
	}
	if fn.Params[0].TypeAnnotation == nil || fn.Params[2].TypeAnnotation != nil {
		t.Errorf("param annotations wrong: %v %v", fn.Params[0].TypeAnnotation, fn.Params[2].TypeAnnotation)
	}
	if fn.Params[1].Default == nil {
		t.Error("second param lost its default")
	}
	if rt, ok := fn.ReturnType.(*ast.NamedType); !ok || rt.Name != "i32" {
		t.Errorf("return type = %#v", fn.ReturnType)
	}
	if fn.Body == nil || len(fn.Body.Statements) != 1 {
		t.Error("body missing or wrong size")
	}
}

func TestMethodDeclaration(t *testing.T) {
	program := parse(t, "function Point.dist(self, other: Point) { return 0; }")
	fn := firstStmt[*ast.FunctionStatement](t, program)
	if fn.Receiver == nil || fn.Receiver.Value != "Point" {
		t.Fatalf("receiver = %v", fn.Receiver)
	}
	if fn.Name.Value != "dist" {
		t.Errorf("name = %q", fn.Name.Value)
	}
	if fn.SymbolName() != "Point.dist" {
		t.Errorf("symbol name = %q", fn.SymbolName())
	}
}

func TestExternalFunction(t *testing.T) {
	program := parse(t, "external function write(fd: i32, buf: u8[]) : i64;")
	fn := firstStmt[*ast.FunctionStatement](t, program)
	if !fn.External {
		t.Fatal("not marked external")
	}
	if fn.Body != nil {
		t.Error("external function should have no body")
	}
	if _, ok := fn.Params[1].TypeAnnotation.(*ast.ArrayType); !ok {
		t.Errorf("second param annotation = %#v", fn.Params[1].TypeAnnotation)
	}
}

func TestVariadicFunction(t *testing.T) {
	program := parse(t, "external function print(...args);")
	fn := firstStmt[*ast.FunctionStatement](t, program)
	if !fn.Variadic {
		t.Fatal("not marked variadic")
	}
	if len(fn.Params) != 1 || fn.Params[0].Name.Value != "args" {
		t.Fatalf("params = %v", fn.Params)
	}
}

func TestStructStatement(t *testing.T) {
	program := parse(t, `
struct Point {
    x: i32,
    y: i32 = 0,
    tag: string = "p"
}`)
	st := firstStmt[*ast.StructStatement](t, program)
	if st.Name.Value != "Point" || len(st.Fields) != 3 {
		t.Fatalf("name %q fields %d", st.Name.Value, len(st.Fields))
	}
	if st.Fields[0].Default != nil {
		t.Error("x should have no default")
	}
	if st.Fields[1].Default == nil || st.Fields[2].Default == nil {
		t.Error("defaults on y and tag were dropped")
	}
}

func TestEnumStatement(t *testing.T) {
	program := parse(t, `
enum Shape {
    Circle(radius: double),
    Rect(w: double, h: double),
    Empty
}`)
	en := firstStmt[*ast.EnumStatement](t, program)
	if en.Name.Value != "Shape" || len(en.Variants) != 3 {
		t.Fatalf("name %q variants %d", en.Name.Value, len(en.Variants))
	}
	if len(en.Variants[1].Fields) != 2 {
		t.Errorf("Rect payload has %d fields", len(en.Variants[1].Fields))
	}
	if len(en.Variants[2].Fields) != 0 {
		t.Errorf("Empty should carry no payload")
	}
}

func TestTypeAliasStatement(t *testing.T) {
	program := parse(t, "type Sizes = u64[4];")
	alias := firstStmt[*ast.TypeAliasStatement](t, program)
	if alias.Name.Value != "Sizes" {
		t.Fatalf("name = %q", alias.Name.Value)
	}
	arr, ok := alias.Target.(*ast.ArrayType)
	if !ok || arr.Size == nil {
		t.Fatalf("target = %#v, want sized array", alias.Target)
	}
}

func TestRefTypeAnnotation(t *testing.T) {
	program := parse(t, "let p: ref<mut i32[]>;")
	stmt := firstStmt[*ast.LetStatement](t, program)
	rt, ok := stmt.TypeAnnotation.(*ast.RefType)
	if !ok {
		t.Fatalf("annotation = %#v", stmt.TypeAnnotation)
	}
	if !rt.Mutable {
		t.Error("mut was dropped")
	}
	if _, ok := rt.Target.(*ast.ArrayType); !ok {
		t.Errorf("target = %#v, want array", rt.Target)
	}
}

func TestNamespacedTypeAnnotation(t *testing.T) {
	program := parse(t, "let p: geo.Point = origin;")
	stmt := firstStmt[*ast.LetStatement](t, program)
	nt, ok := stmt.TypeAnnotation.(*ast.NamedType)
	if !ok {
		t.Fatalf("annotation = %#v", stmt.TypeAnnotation)
	}
	if nt.Namespace != "geo" || nt.Name != "Point" {
		t.Errorf("annotation = %s.%s, want geo.Point", nt.Namespace, nt.Name)
	}
}

func TestNamespacedTypeArraySuffix(t *testing.T) {
	program := parse(t, "let ps: geo.Point[4];")
	stmt := firstStmt[*ast.LetStatement](t, program)
	at, ok := stmt.TypeAnnotation.(*ast.ArrayType)
	if !ok {
		t.Fatalf("annotation = %#v", stmt.TypeAnnotation)
	}
	nt, ok := at.Elem.(*ast.NamedType)
	if !ok || nt.Namespace != "geo" || nt.Name != "Point" {
		t.Errorf("element = %#v, want geo.Point", at.Elem)
	}
}

func TestNamespacedTypeSingleHopOnly(t *testing.T) {
	expectParseError(t, "let p: a.b.C = x;", diagnostics.ErrP005)
}

func TestImportStatement(t *testing.T) {
	program := parse(t, `import geo from "lib/geo";`)
	if len(program.Imports) != 1 {
		t.Fatalf("imports = %d", len(program.Imports))
	}
	imp := program.Imports[0]
	if imp.Namespace.Value != "geo" || imp.Path.Value != "lib/geo" {
		t.Errorf("namespace %q path %q", imp.Namespace.Value, imp.Path.Value)
	}
}

func TestExportedDeclarations(t *testing.T) {
	program := parse(t, `
export const K = 1;
export function f(x: i32) : i32 { return x; }
export struct S { a: i32 }
`)
	if !program.Statements[0].(*ast.LetStatement).Exported {
		t.Error("const not exported")
	}
	if !program.Statements[1].(*ast.FunctionStatement).Exported {
		t.Error("function not exported")
	}
	if !program.Statements[2].(*ast.StructStatement).Exported {
		t.Error("struct not exported")
	}
}

func TestIsExpressionPatterns(t *testing.T) {
	program := parse(t, "let ok = v is Shape.Circle(let r, var s, _);")
	stmt := firstStmt[*ast.LetStatement](t, program)
	ie, ok := stmt.Value.(*ast.IsExpression)
	if !ok {
		t.Fatalf("value = %T", stmt.Value)
	}
	if ie.EnumName.Value != "Shape" || ie.Variant.Value != "Circle" {
		t.Fatalf("enum %v variant %v", ie.EnumName, ie.Variant)
	}
	if len(ie.Bindings) != 3 {
		t.Fatalf("bindings = %d", len(ie.Bindings))
	}
	if ie.Bindings[0].Mutable || !ie.Bindings[1].Mutable {
		t.Error("mutability of bindings wrong")
	}
	if !ie.Bindings[2].Wildcard {
		t.Error("third binding should be wildcard")
	}
}

func TestIsExpressionBareVariant(t *testing.T) {
	program := parse(t, "let ok = v is Empty;")
	stmt := firstStmt[*ast.LetStatement](t, program)
	ie := stmt.Value.(*ast.IsExpression)
	if ie.EnumName != nil {
		t.Errorf("enum name should be nil, got %v", ie.EnumName)
	}
	if ie.Variant.Value != "Empty" {
		t.Errorf("variant = %q", ie.Variant.Value)
	}
}

func TestNewAndRefExpressions(t *testing.T) {
	program := parse(t, "let buf = new u8[n * 2]; let r = ref mut buf;")
	ne, ok := program.Statements[0].(*ast.LetStatement).Value.(*ast.NewExpression)
	if !ok {
		t.Fatalf("first value is %T", program.Statements[0].(*ast.LetStatement).Value)
	}
	if nt, ok := ne.ElemType.(*ast.NamedType); !ok || nt.Name != "u8" {
		t.Errorf("elem type = %#v", ne.ElemType)
	}
	infix(t, ne.Size, "*")

	re, ok := program.Statements[1].(*ast.LetStatement).Value.(*ast.RefExpression)
	if !ok || !re.Mutable {
		t.Fatalf("second value = %#v", program.Statements[1].(*ast.LetStatement).Value)
	}
}

func TestCallAndMemberChains(t *testing.T) {
	program := parse(t, "geo.dist(a, b)[0].x;")
	stmt := firstStmt[*ast.ExpressionStatement](t, program)
	outer, ok := stmt.Expression.(*ast.MemberExpression)
	if !ok || outer.Property.Value != "x" {
		t.Fatalf("outer = %#v", stmt.Expression)
	}
	idx, ok := outer.Object.(*ast.IndexExpression)
	if !ok {
		t.Fatalf("object = %T, want index", outer.Object)
	}
	call, ok := idx.Left.(*ast.CallExpression)
	if !ok || len(call.Arguments) != 2 {
		t.Fatalf("call = %#v", idx.Left)
	}
	if _, ok := call.Function.(*ast.MemberExpression); !ok {
		t.Errorf("callee = %T, want member", call.Function)
	}
}

func TestErrorRecoveryContinuesParsing(t *testing.T) {
	ctx := parseCtx(`
let = 1;
let ok = 2;
`)
	if !ctx.HasErrors() {
		t.Fatal("expected a syntax error")
	}
	program := ctx.AstRoot.(*ast.Program)
	for _, stmt := range program.Statements {
		if ls, ok := stmt.(*ast.LetStatement); ok && ls.Name.Value == "ok" {
			return
		}
	}
	t.Fatal("statement after the error was not parsed")
}

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		input string
		code  diagnostics.ErrorCode
	}{
		{"let x = ;", diagnostics.ErrP001},
		{"let = 1;", diagnostics.ErrP002},
		{"function f( {", diagnostics.ErrP002},
		{"let x: 42 = 1;", diagnostics.ErrP005},
		{"let x = 99999999999999999999;", diagnostics.ErrP004},
		{"export 1 + 2;", diagnostics.ErrP006},
		{"1 = 2;", diagnostics.ErrP006},
		{"enum E { }", diagnostics.ErrP008},
		{"enum E { A(x: i32; }", diagnostics.ErrP008},
		{"let ok = v is Circle(r);", diagnostics.ErrP009},
		{`let s = "abc;`, diagnostics.ErrP003},
		{"let x = @;", diagnostics.ErrP010},
		{"let x = [1, 2; let y = 3;", diagnostics.ErrP001},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectParseError(t, tt.input, tt.code)
		})
	}
}

func TestDeeplyNestedExpressionLimit(t *testing.T) {
	input := "let x = " + strings.Repeat("(", parser.MaxRecursionDepth+10) +
		"1" + strings.Repeat(")", parser.MaxRecursionDepth+10) + ";"
	expectParseError(t, input, diagnostics.ErrP007)
}
