package ast

// Deep clone of statements and expressions. Specialization clones a
// function body before inferring it with concrete parameter types;
// every node and every nested declaration must be fresh so that
// symbol tables built over the clone point at cloned declarations,
// never at the original body.

func CloneBlock(b *BlockStatement) *BlockStatement {
	if b == nil {
		return nil
	}
	out := &BlockStatement{Token: b.Token}
	out.Statements = make([]Statement, len(b.Statements))
	for i, s := range b.Statements {
		out.Statements[i] = CloneStatement(s)
	}
	return out
}

func CloneStatement(s Statement) Statement {
	switch s := s.(type) {
	case nil:
		return nil
	case *LetStatement:
		if s == nil {
			return nil
		}
		return &LetStatement{
			Token:          s.Token,
			Name:           cloneIdent(s.Name),
			TypeAnnotation: CloneTypeExpr(s.TypeAnnotation),
			Value:          CloneExpression(s.Value),
			Exported:       s.Exported,
		}
	case *FunctionStatement:
		if s == nil {
			return nil
		}
		out := &FunctionStatement{
			Token:      s.Token,
			Name:       cloneIdent(s.Name),
			Receiver:   cloneIdent(s.Receiver),
			ReturnType: CloneTypeExpr(s.ReturnType),
			Body:       CloneBlock(s.Body),
			Variadic:   s.Variadic,
			External:   s.External,
			Exported:   s.Exported,
		}
		out.Params = make([]*Param, len(s.Params))
		for i, p := range s.Params {
			out.Params[i] = &Param{
				Token:          p.Token,
				Name:           cloneIdent(p.Name),
				TypeAnnotation: CloneTypeExpr(p.TypeAnnotation),
				Default:        CloneExpression(p.Default),
			}
		}
		return out
	case *ReturnStatement:
		if s == nil {
			return nil
		}
		return &ReturnStatement{Token: s.Token, Value: CloneExpression(s.Value)}
	case *BlockStatement:
		return CloneBlock(s)
	case *IfStatement:
		if s == nil {
			return nil
		}
		return &IfStatement{
			Token: s.Token,
			Cond:  CloneExpression(s.Cond),
			Then:  CloneBlock(s.Then),
			Else:  CloneStatement(s.Else),
		}
	case *WhileStatement:
		if s == nil {
			return nil
		}
		return &WhileStatement{
			Token: s.Token,
			Cond:  CloneExpression(s.Cond),
			Body:  CloneBlock(s.Body),
		}
	case *ForStatement:
		if s == nil {
			return nil
		}
		return &ForStatement{
			Token: s.Token,
			Init:  CloneStatement(s.Init),
			Cond:  CloneExpression(s.Cond),
			Post:  CloneStatement(s.Post),
			Body:  CloneBlock(s.Body),
		}
	case *BreakStatement:
		if s == nil {
			return nil
		}
		return &BreakStatement{Token: s.Token}
	case *ContinueStatement:
		if s == nil {
			return nil
		}
		return &ContinueStatement{Token: s.Token}
	case *DeleteStatement:
		if s == nil {
			return nil
		}
		return &DeleteStatement{Token: s.Token, Target: CloneExpression(s.Target)}
	case *ExpressionStatement:
		if s == nil {
			return nil
		}
		return &ExpressionStatement{Token: s.Token, Expression: CloneExpression(s.Expression)}
	default:
		// Declarations that never appear inside function bodies
		// (structs, enums, imports, aliases) are not cloned.
		return s
	}
}

func CloneExpression(e Expression) Expression {
	switch e := e.(type) {
	case nil:
		return nil
	case *Identifier:
		return cloneIdent(e)
	case *IntegerLiteral:
		if e == nil {
			return nil
		}
		out := *e
		return &out
	case *FloatLiteral:
		if e == nil {
			return nil
		}
		out := *e
		return &out
	case *StringLiteral:
		if e == nil {
			return nil
		}
		out := *e
		return &out
	case *BooleanLiteral:
		if e == nil {
			return nil
		}
		out := *e
		return &out
	case *ArrayLiteral:
		if e == nil {
			return nil
		}
		out := &ArrayLiteral{Token: e.Token}
		out.Type = e.Type
		out.Elements = make([]Expression, len(e.Elements))
		for i, el := range e.Elements {
			out.Elements[i] = CloneExpression(el)
		}
		return out
	case *ObjectLiteral:
		if e == nil {
			return nil
		}
		out := &ObjectLiteral{Token: e.Token}
		out.Type = e.Type
		out.Fields = make([]*ObjectField, len(e.Fields))
		for i, f := range e.Fields {
			out.Fields[i] = &ObjectField{
				Token: f.Token,
				Name:  cloneIdent(f.Name),
				Value: CloneExpression(f.Value),
			}
		}
		return out
	case *PrefixExpression:
		if e == nil {
			return nil
		}
		out := &PrefixExpression{Token: e.Token, Operator: e.Operator, Right: CloneExpression(e.Right)}
		out.Type = e.Type
		return out
	case *InfixExpression:
		if e == nil {
			return nil
		}
		out := &InfixExpression{
			Token:    e.Token,
			Left:     CloneExpression(e.Left),
			Operator: e.Operator,
			Right:    CloneExpression(e.Right),
		}
		out.Type = e.Type
		return out
	case *AssignExpression:
		if e == nil {
			return nil
		}
		out := &AssignExpression{
			Token:  e.Token,
			Target: CloneExpression(e.Target),
			Op:     e.Op,
			Value:  CloneExpression(e.Value),
		}
		out.Type = e.Type
		return out
	case *TernaryExpression:
		if e == nil {
			return nil
		}
		out := &TernaryExpression{
			Token: e.Token,
			Cond:  CloneExpression(e.Cond),
			Then:  CloneExpression(e.Then),
			Else:  CloneExpression(e.Else),
		}
		out.Type = e.Type
		return out
	case *CallExpression:
		if e == nil {
			return nil
		}
		out := &CallExpression{
			Token:        e.Token,
			Function:     CloneExpression(e.Function),
			ResolvedName: e.ResolvedName,
		}
		out.Type = e.Type
		out.Arguments = make([]Expression, len(e.Arguments))
		for i, a := range e.Arguments {
			out.Arguments[i] = CloneExpression(a)
		}
		return out
	case *MemberExpression:
		if e == nil {
			return nil
		}
		out := &MemberExpression{
			Token:    e.Token,
			Object:   CloneExpression(e.Object),
			Property: cloneIdent(e.Property),
		}
		out.Type = e.Type
		return out
	case *IndexExpression:
		if e == nil {
			return nil
		}
		out := &IndexExpression{
			Token: e.Token,
			Left:  CloneExpression(e.Left),
			Index: CloneExpression(e.Index),
		}
		out.Type = e.Type
		return out
	case *IsExpression:
		if e == nil {
			return nil
		}
		out := &IsExpression{
			Token:    e.Token,
			Value:    CloneExpression(e.Value),
			EnumName: cloneIdent(e.EnumName),
			Variant:  cloneIdent(e.Variant),
		}
		out.Type = e.Type
		out.Bindings = make([]*PatternBinding, len(e.Bindings))
		for i, b := range e.Bindings {
			out.Bindings[i] = &PatternBinding{
				Token:    b.Token,
				Name:     cloneIdent(b.Name),
				Wildcard: b.Wildcard,
				Mutable:  b.Mutable,
			}
		}
		return out
	case *NewExpression:
		if e == nil {
			return nil
		}
		out := &NewExpression{
			Token:    e.Token,
			ElemType: CloneTypeExpr(e.ElemType),
			Size:     CloneExpression(e.Size),
		}
		out.Type = e.Type
		return out
	case *RefExpression:
		if e == nil {
			return nil
		}
		out := &RefExpression{
			Token:   e.Token,
			Target:  CloneExpression(e.Target),
			Mutable: e.Mutable,
		}
		out.Type = e.Type
		return out
	default:
		return e
	}
}

func CloneTypeExpr(t TypeExpr) TypeExpr {
	switch t := t.(type) {
	case nil:
		return nil
	case *NamedType:
		if t == nil {
			return nil
		}
		out := *t
		return &out
	case *ArrayType:
		if t == nil {
			return nil
		}
		return &ArrayType{
			Token: t.Token,
			Elem:  CloneTypeExpr(t.Elem),
			Size:  CloneExpression(t.Size),
		}
	case *RefType:
		if t == nil {
			return nil
		}
		return &RefType{
			Token:   t.Token,
			Target:  CloneTypeExpr(t.Target),
			Mutable: t.Mutable,
		}
	default:
		return t
	}
}

func cloneIdent(i *Identifier) *Identifier {
	if i == nil {
		return nil
	}
	out := &Identifier{Token: i.Token, Value: i.Value}
	out.Type = i.Type
	return out
}
