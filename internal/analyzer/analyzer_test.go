package analyzer_test

import (
	"strings"
	"testing"

	"github.com/velalang/vela/internal/analyzer"
	"github.com/velalang/vela/internal/ast"
	"github.com/velalang/vela/internal/diagnostics"
	"github.com/velalang/vela/internal/lexer"
	"github.com/velalang/vela/internal/parser"
	"github.com/velalang/vela/internal/pipeline"
	"github.com/velalang/vela/internal/types"
)

// analyze runs the full pipeline over one source string.
func analyze(input string) *pipeline.PipelineContext {
	ctx := pipeline.NewPipelineContext(input)
	return pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		&analyzer.SemanticProcessor{},
	).Run(ctx)
}

// expectCode asserts at least one diagnostic with the given code.
func expectCode(t *testing.T, input string, code diagnostics.ErrorCode) *diagnostics.DiagnosticError {
	t.Helper()
	ctx := analyze(input)
	for _, e := range ctx.Errors {
		if e.Code == code {
			return e
		}
	}
	var msgs []string
	for _, e := range ctx.Errors {
		msgs = append(msgs, e.Error())
	}
	t.Fatalf("expected %s, got:\n%s\ninput: %s", code, strings.Join(msgs, "\n"), input)
	return nil
}

// expectClean asserts analysis without error-severity diagnostics and
// returns the context for further assertions.
func expectClean(t *testing.T, input string) *pipeline.PipelineContext {
	t.Helper()
	ctx := analyze(input)
	if ctx.HasErrors() {
		var msgs []string
		for _, e := range ctx.Errors {
			msgs = append(msgs, e.Error())
		}
		t.Fatalf("expected no errors, got:\n%s\ninput: %s", strings.Join(msgs, "\n"), input)
	}
	return ctx
}

// typeOf resolves the type a top-level symbol ended up with.
func typeOf(t *testing.T, ctx *pipeline.PipelineContext, name string) *types.TypeInfo {
	t.Helper()
	sym := ctx.Scope.Resolve(name)
	if sym == nil {
		t.Fatalf("symbol %q not declared", name)
	}
	if sym.Type == nil {
		t.Fatalf("symbol %q has no type", name)
	}
	return sym.Type
}

func TestLetInference(t *testing.T) {
	ctx := expectClean(t, `
		let x = 1;
		let y = x + 2;
		let s = "abc";
		let b = x < y;
	`)
	if got := typeOf(t, ctx, "y").Resolve(); got != ctx.TypeRegistry.I32 {
		t.Errorf("y: want i32, got %s", got)
	}
	if got := typeOf(t, ctx, "s").Resolve(); got != ctx.TypeRegistry.String {
		t.Errorf("s: want string, got %s", got)
	}
	if got := typeOf(t, ctx, "b").Resolve(); got != ctx.TypeRegistry.Bool {
		t.Errorf("b: want bool, got %s", got)
	}
}

func TestIntToDoublePromotion(t *testing.T) {
	ctx := expectClean(t, `
		let x = 1 + 2.5;
		let y = 2.5 * 2;
	`)
	if got := typeOf(t, ctx, "x").Resolve(); got != ctx.TypeRegistry.Double {
		t.Errorf("x: want double, got %s", got)
	}
	if got := typeOf(t, ctx, "y").Resolve(); got != ctx.TypeRegistry.Double {
		t.Errorf("y: want double, got %s", got)
	}
}

func TestAnnotatedLet(t *testing.T) {
	ctx := expectClean(t, `
		let x: i64 = 5;
		let d: double = 1;
	`)
	if got := typeOf(t, ctx, "x").Resolve(); got != ctx.TypeRegistry.I64 {
		t.Errorf("x: want i64, got %s", got)
	}
	if got := typeOf(t, ctx, "d").Resolve(); got != ctx.TypeRegistry.Double {
		t.Errorf("d: want double, got %s", got)
	}
}

func TestT301_UndefinedVariable(t *testing.T) {
	expectCode(t, `let x = missing;`, diagnostics.ErrT301)
}

func TestT302_UndefinedTypeInSignature(t *testing.T) {
	expectCode(t, `function f(x: Missing) { return x; }`, diagnostics.ErrT302)
}

func TestT310_OperatorNotDefined(t *testing.T) {
	expectCode(t, `let x = true + 1;`, diagnostics.ErrT310)
}

func TestT310_StringMinus(t *testing.T) {
	expectCode(t, `let x = "a" - "b";`, diagnostics.ErrT310)
}

func TestStringConcat(t *testing.T) {
	ctx := expectClean(t, `let x = "a" + "b";`)
	if got := typeOf(t, ctx, "x").Resolve(); got != ctx.TypeRegistry.String {
		t.Errorf("x: want string, got %s", got)
	}
}

func TestT314_AnnotationMismatch(t *testing.T) {
	expectCode(t, `let x: bool = 1;`, diagnostics.ErrT314)
}

func TestT319_NonBoolCondition(t *testing.T) {
	expectCode(t, `
		let x = 1;
		if x { let y = 2; }
	`, diagnostics.ErrT319)
}

func TestT320_AssignToConstant(t *testing.T) {
	expectCode(t, `
		const A = 1;
		A = 2;
	`, diagnostics.ErrT320)
}

func TestT325_DuplicateSymbol(t *testing.T) {
	expectCode(t, `
		let x = 1;
		let x = 2;
	`, diagnostics.ErrT325)
}

func TestStructLiteralFieldOrder(t *testing.T) {
	ctx := expectClean(t, `
		struct Point { x: i32, y: i32 }
		let p: Point = { y: 2, x: 1 };
		let v = p.x;
	`)
	if got := typeOf(t, ctx, "v").Resolve(); got != ctx.TypeRegistry.I32 {
		t.Errorf("v: want i32, got %s", got)
	}
	// The literal itself is rewritten to declared field order.
	program := ctx.AstRoot.(*ast.Program)
	lit := program.Statements[1].(*ast.LetStatement).Value.(*ast.ObjectLiteral)
	if len(lit.Fields) != 2 || lit.Fields[0].Name.Value != "x" || lit.Fields[1].Name.Value != "y" {
		t.Errorf("literal fields not in declared order: %v", fieldNames(lit))
	}
}

func fieldNames(lit *ast.ObjectLiteral) []string {
	var names []string
	for _, f := range lit.Fields {
		names = append(names, f.Name.Value)
	}
	return names
}

func TestStructLiteralDefaultFill(t *testing.T) {
	ctx := expectClean(t, `
		struct Config { retries: i32 = 3, verbose: bool = false, limit: i32 }
		let c: Config = { limit: 10 };
	`)
	program := ctx.AstRoot.(*ast.Program)
	lit := program.Statements[1].(*ast.LetStatement).Value.(*ast.ObjectLiteral)
	if len(lit.Fields) != 3 {
		t.Fatalf("literal has %d fields, want 3: %v", len(lit.Fields), fieldNames(lit))
	}
	want := []string{"retries", "verbose", "limit"}
	for i, name := range want {
		if lit.Fields[i].Name.Value != name {
			t.Fatalf("field %d = %q, want %q", i, lit.Fields[i].Name.Value, name)
		}
	}
	if v, ok := lit.Fields[0].Value.(*ast.IntegerLiteral); !ok || v.Value != 3 {
		t.Errorf("retries default not filled in: %v", lit.Fields[0].Value)
	}
	if v, ok := lit.Fields[1].Value.(*ast.BooleanLiteral); !ok || v.Value {
		t.Errorf("verbose default not filled in: %v", lit.Fields[1].Value)
	}
}

func TestStructLiteralDefaults(t *testing.T) {
	expectClean(t, `
		struct Config { retries: i32 = 3, verbose: bool = false, name: string }
		let c: Config = { name: "main" };
	`)
}

func TestT305_UnknownStructField(t *testing.T) {
	expectCode(t, `
		struct Point { x: i32, y: i32 }
		let p: Point = { x: 1, y: 2, z: 3 };
	`, diagnostics.ErrT305)
}

func TestT306_MissingStructField(t *testing.T) {
	expectCode(t, `
		struct Point { x: i32, y: i32 }
		let p: Point = { x: 1 };
	`, diagnostics.ErrT306)
}

func TestT307_BadFieldDefault(t *testing.T) {
	expectCode(t, `
		struct Server { port: i32 = true }
	`, diagnostics.ErrT307)
}

func TestFieldDefaultWidening(t *testing.T) {
	expectClean(t, `
		struct Sample { weight: double = 1 }
		let s: Sample = {};
	`)
}

func TestT307_BadEnumPayloadDefault(t *testing.T) {
	expectCode(t, `
		enum Shape { Circle(r: double = "big") }
	`, diagnostics.ErrT307)
}

func TestT307_StructFieldTypeMismatch(t *testing.T) {
	expectCode(t, `
		struct Point { x: i32, y: i32 }
		let p: Point = { x: 1, y: true };
	`, diagnostics.ErrT307)
}

func TestAnonymousObjectInterning(t *testing.T) {
	ctx := expectClean(t, `
		let a = { x: 1, y: 2 };
		let b = { x: 5, y: 6 };
	`)
	ta := typeOf(t, ctx, "a").Resolve()
	tb := typeOf(t, ctx, "b").Resolve()
	if ta != tb {
		t.Errorf("same shape interned to distinct types %s and %s", ta.Name, tb.Name)
	}
	if !strings.HasPrefix(ta.Name, "Object_") {
		t.Errorf("anonymous object name %q", ta.Name)
	}
}

func TestArrayLiteral(t *testing.T) {
	ctx := expectClean(t, `
		let a = [1, 2, 3];
		let x = a[0];
		let n = a.length;
	`)
	if got := typeOf(t, ctx, "x").Resolve(); got != ctx.TypeRegistry.I32 {
		t.Errorf("x: want i32, got %s", got)
	}
	if got := typeOf(t, ctx, "n").Resolve(); got != ctx.TypeRegistry.U32 {
		t.Errorf("n: want u32, got %s", got)
	}
}

func TestLengthBuiltinCall(t *testing.T) {
	ctx := expectClean(t, `
		let a = [1, 2, 3];
		let n = length(a);
		let m = length("abc");
	`)
	if got := typeOf(t, ctx, "n").Resolve(); got != ctx.TypeRegistry.U32 {
		t.Errorf("n: want u32, got %s", got)
	}
	if got := typeOf(t, ctx, "m").Resolve(); got != ctx.TypeRegistry.U32 {
		t.Errorf("m: want u32, got %s", got)
	}
}

func TestT310_LengthOnNonContainer(t *testing.T) {
	expectCode(t, `let n = length(5);`, diagnostics.ErrT310)
}

func TestDeclaredLengthShadowsBuiltin(t *testing.T) {
	ctx := expectClean(t, `
		function length(x: i32): i32 { return x * 2; }
		let n = length(5);
	`)
	if got := typeOf(t, ctx, "n").Resolve(); got != ctx.TypeRegistry.I32 {
		t.Errorf("n: want i32, got %s", got)
	}
}

func TestArrayLiteralPromotion(t *testing.T) {
	ctx := expectClean(t, `let a = [1, 2.5];`)
	at := typeOf(t, ctx, "a").Resolve()
	if at.Kind != types.KindArray || at.Array.Elem.Resolve() != ctx.TypeRegistry.Double {
		t.Errorf("a: want double[], got %s", at)
	}
}

func TestT324_ArrayElementMismatch(t *testing.T) {
	expectCode(t, `let a = [1, true];`, diagnostics.ErrT324)
}

func TestStringIndexYieldsByte(t *testing.T) {
	ctx := expectClean(t, `
		let s = "abc";
		let c = s[0];
	`)
	if got := typeOf(t, ctx, "c").Resolve(); got != ctx.TypeRegistry.U8 {
		t.Errorf("c: want u8, got %s", got)
	}
}

func TestT311_BadIndexType(t *testing.T) {
	expectCode(t, `
		let a = [1, 2];
		let x = a[true];
	`, diagnostics.ErrT311)
}

func TestIndexKeyCoercion(t *testing.T) {
	// A u8 key has no direct Index impl; the single From conversion
	// to i32 carries it and is recorded on the index node.
	ctx := expectClean(t, `
		let a = [1, 2, 3];
		let k: u8 = 1;
		let x = a[k];
	`)
	program := ctx.AstRoot.(*ast.Program)
	let := program.Statements[2].(*ast.LetStatement)
	idx := let.Value.(*ast.IndexExpression)
	if idx.KeyCoercion == nil || !idx.KeyCoercion.IsInteger() {
		t.Errorf("key coercion = %v, want i32", idx.KeyCoercion)
	}
}

func TestT326_DeleteNonReference(t *testing.T) {
	expectCode(t, `delete 5;`, diagnostics.ErrT326)
}

func TestDeleteArray(t *testing.T) {
	expectClean(t, `
		let a = new i32[8];
		delete a;
	`)
}

func TestRefTypes(t *testing.T) {
	ctx := expectClean(t, `
		let x = 1;
		let r = ref mut x;
	`)
	rt := typeOf(t, ctx, "r").Resolve()
	if rt.Kind != types.KindRef || !rt.Ref.Mutable {
		t.Errorf("r: want mutable ref, got %s", rt)
	}
}

func TestTypeAliasResolution(t *testing.T) {
	ctx := expectClean(t, `
		type Id = i64;
		let x: Id = 5;
		let y = x + 1;
	`)
	if got := typeOf(t, ctx, "y").Resolve(); got != ctx.TypeRegistry.I64 {
		t.Errorf("y: want i64, got %s", got)
	}
}

func TestDeclarationOrderIndependence(t *testing.T) {
	expectClean(t, `
		struct Wrapper { inner: Payload, tag: Tag }
		type Tag = i32;
		struct Payload { data: i32[4] }
	`)
}

func TestT308_DuplicateType(t *testing.T) {
	expectCode(t, `
		struct S { a: i32 }
		struct S { b: i32 }
	`, diagnostics.ErrT308)
}

func TestT309_UnresolvableStruct(t *testing.T) {
	expectCode(t, `struct S { field: Missing }`, diagnostics.ErrT309)
}

func TestBuiltinPrint(t *testing.T) {
	expectClean(t, `
		let x = 42;
		print("value", x);
	`)
}
