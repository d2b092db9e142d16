package analyzer_test

import (
	"testing"

	"github.com/velalang/vela/internal/diagnostics"
)

const shapeDecl = `
	enum Shape {
		Circle(r: i32),
		Rect(w: i32, h: i32),
		Empty
	}
`

func TestVariantConstruction(t *testing.T) {
	ctx := expectClean(t, shapeDecl+`
		let c = Shape.Circle(3);
		let e = Shape.Empty;
	`)
	if got := typeOf(t, ctx, "c"); got.Name != "Shape" {
		t.Errorf("c: want Shape, got %s", got)
	}
	if got := typeOf(t, ctx, "e"); got.Name != "Shape" {
		t.Errorf("e: want Shape, got %s", got)
	}
}

func TestT316_UnknownVariant(t *testing.T) {
	expectCode(t, shapeDecl+`
		let x = Shape.Triangle(1);
	`, diagnostics.ErrT316)
}

func TestT304_VariantArity(t *testing.T) {
	expectCode(t, shapeDecl+`
		let x = Shape.Rect(1);
	`, diagnostics.ErrT304)
}

func TestPatternDestructure(t *testing.T) {
	ctx := expectClean(t, shapeDecl+`
		let s = Shape.Circle(3);
		var area = 0;
		if s is Shape.Circle(let r) {
			area = r * r;
		}
	`)
	if got := typeOf(t, ctx, "area").Resolve(); got != ctx.TypeRegistry.I32 {
		t.Errorf("area: want i32, got %s", got)
	}
}

func TestPatternMultiFieldDestructure(t *testing.T) {
	expectClean(t, shapeDecl+`
		let s = Shape.Rect(2, 3);
		if s is Shape.Rect(let w, let h) {
			let area = w * h;
		}
	`)
}

func TestPatternWildcard(t *testing.T) {
	expectClean(t, shapeDecl+`
		let s = Shape.Rect(2, 3);
		if s is Shape.Rect(let w, _) {
			let x = w + 1;
		}
	`)
}

func TestPatternWholePayloadCapture(t *testing.T) {
	// One binding against a multi-field payload receives the
	// synthesized per-variant struct.
	expectClean(t, shapeDecl+`
		let s = Shape.Rect(2, 3);
		if s is Shape.Rect(let rect) {
			let area = rect.w * rect.h;
		}
	`)
}

func TestT317_BindingCountMismatch(t *testing.T) {
	expectCode(t, shapeDecl+`
		let s = Shape.Rect(2, 3);
		if s is Shape.Rect(let a, let b, let c) { }
	`, diagnostics.ErrT317)
}

func TestT315_IsOnNonEnum(t *testing.T) {
	expectCode(t, shapeDecl+`
		let x = 1;
		if x is Shape.Circle(let r) { }
	`, diagnostics.ErrT315)
}

func TestBindingNotVisibleInElse(t *testing.T) {
	expectCode(t, shapeDecl+`
		let s = Shape.Circle(3);
		if s is Shape.Circle(let r) {
			let a = r;
		} else {
			let b = r;
		}
	`, diagnostics.ErrT301)
}

func TestBindingNotVisibleAfterIf(t *testing.T) {
	expectCode(t, shapeDecl+`
		let s = Shape.Circle(3);
		if s is Shape.Circle(let r) { }
		let x = r;
	`, diagnostics.ErrT301)
}

func TestAndChainKeepsBindings(t *testing.T) {
	expectClean(t, shapeDecl+`
		let s = Shape.Circle(3);
		let big = true;
		if s is Shape.Circle(let r) && big {
			let a = r + 1;
		}
	`)
}

func TestOrDisablesBindings(t *testing.T) {
	expectCode(t, shapeDecl+`
		let s = Shape.Circle(3);
		if s is Shape.Circle(let r) || true {
			let a = r;
		}
	`, diagnostics.ErrT301)
}

func TestWhileBindingVisibleInBody(t *testing.T) {
	expectClean(t, shapeDecl+`
		let s = Shape.Circle(3);
		while s is Shape.Circle(let r) {
			let a = r + 1;
			break;
		}
	`)
}

func TestWhileBindingNotVisibleAfterLoop(t *testing.T) {
	expectCode(t, shapeDecl+`
		let s = Shape.Circle(3);
		while s is Shape.Circle(let r) { break; }
		let x = r;
	`, diagnostics.ErrT301)
}

func TestWhileOrDisablesBindings(t *testing.T) {
	expectCode(t, shapeDecl+`
		let s = Shape.Circle(3);
		while s is Shape.Circle(let r) || false {
			let a = r;
			break;
		}
	`, diagnostics.ErrT301)
}

func TestEnumEquality(t *testing.T) {
	expectClean(t, shapeDecl+`
		let a = Shape.Empty;
		let b = Shape.Empty;
		let same = a == b;
	`)
}

func TestMutablePatternBinding(t *testing.T) {
	expectClean(t, shapeDecl+`
		let s = Shape.Circle(3);
		if s is Shape.Circle(var r) {
			r = r + 1;
		}
	`)
}
