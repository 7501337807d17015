package lang

// ToMap converts a node into nested maps and slices suitable for JSON or
// YAML encoding. Every map has a "kind" key naming the node type and a
// "source" key with the rendered text of the node.
func ToMap(n Node) map[string]any {
	if n == nil {
		return nil
	}

	m := map[string]any{"kind": kindOf(n), "source": String(n)}
	if t, ok := n.(Type); ok {
		if _, isExpr := n.(Expr); !isExpr {
			m["source"] = TypeString(t)
		}
	}

	switch n := n.(type) {
	case *Path:
		segs := make([]any, len(n.Segments))
		for i, seg := range n.Segments {
			s := map[string]any{"name": seg.Name}
			if len(seg.Args) > 0 {
				s["args"] = typesToList(seg.Args)
			}

			segs[i] = s
		}

		m["segments"] = segs
		if n.Global {
			m["global"] = true
		}

	case *Lit:
		m["literal"] = n.Kind.String()

	case *Tuple:
		m["elems"] = exprsToList(n.Elems)

	case *Paren:
		m["x"] = ToMap(n.X)

	case *Array:
		m["elems"] = exprsToList(n.Elems)
		if n.Len != nil {
			m["len"] = ToMap(n.Len)
		}

	case *Call:
		m["fn"] = ToMap(n.Fn)
		m["args"] = exprsToList(n.Args)

	case *MethodCall:
		m["recv"] = ToMap(n.Recv)
		m["method"] = n.Method
		m["args"] = exprsToList(n.Args)

	case *Field:
		m["x"] = ToMap(n.X)
		m["name"] = n.Name

	case *Index:
		m["x"] = ToMap(n.X)
		m["index"] = ToMap(n.Index)

	case *Try:
		m["x"] = ToMap(n.X)

	case *Unary:
		m["op"] = n.Op
		m["x"] = ToMap(n.X)

	case *Ref:
		m["mut"] = n.Mut
		m["x"] = ToMap(n.X)

	case *Binary:
		m["op"] = n.Op
		m["x"] = ToMap(n.X)
		m["y"] = ToMap(n.Y)

	case *Assign:
		m["op"] = n.Op
		m["x"] = ToMap(n.X)
		m["y"] = ToMap(n.Y)

	case *Cast:
		m["x"] = ToMap(n.X)
		m["type"] = TypeString(n.Type)

	case *Closure:
		params := make([]any, len(n.Params))
		for i, p := range n.Params {
			pm := map[string]any{"pattern": String(p.Pat)}
			if p.Type != nil {
				pm["type"] = TypeString(p.Type)
			}

			params[i] = pm
		}

		m["params"] = params
		m["body"] = ToMap(n.Body)

	case *Macro:
		m["path"] = String(n.Path)

	case *Block:
		stmts := make([]any, len(n.Stmts))
		for i, s := range n.Stmts {
			stmts[i] = String(s)
		}

		m["stmts"] = stmts
		if n.Tail != nil {
			m["tail"] = ToMap(n.Tail)
		}
	}

	return m
}

func exprsToList(list []Expr) []any {
	out := make([]any, len(list))
	for i, x := range list {
		out[i] = ToMap(x)
	}

	return out
}

func typesToList(list []Type) []any {
	out := make([]any, len(list))
	for i, t := range list {
		out[i] = TypeString(t)
	}

	return out
}

func kindOf(n Node) string {
	switch n.(type) {
	case *Path:
		return "path"
	case *Lit:
		return "literal"
	case *Tuple:
		return "tuple"
	case *Paren:
		return "paren"
	case *Array:
		return "array"
	case *Call:
		return "call"
	case *MethodCall:
		return "method_call"
	case *Field:
		return "field"
	case *Index:
		return "index"
	case *Try:
		return "try"
	case *Unary:
		return "unary"
	case *Ref:
		return "reference"
	case *Binary:
		return "binary"
	case *Assign:
		return "assign"
	case *Cast:
		return "cast"
	case *Closure:
		return "closure"
	case *Macro:
		return "macro"
	case *Block:
		return "block"
	case *Let:
		return "let"
	case *ExprStmt:
		return "statement"
	case Pattern:
		return "pattern"
	default:
		return "type"
	}
}
