package compiler

import (
	"strings"

	"github.com/deepnoodle-ai/quill/ast"
	"github.com/deepnoodle-ai/quill/errors"
	"github.com/deepnoodle-ai/quill/internal/scan"
	"github.com/deepnoodle-ai/quill/internal/token"
	"github.com/deepnoodle-ai/quill/object"
)

// member is one declaration read from a prototype body.
type member struct {
	typeName string
	typeAt   int
	name     string
	nameAt   int
	init     *ast.Span
}

// parseProto parses the body of a prototype declaration, the range
// [start, end) between its braces, working directly on the source buffer.
//
// Each declaration is scanned with a small state machine:
//
//	first token -> (type, awaiting name) -> name -> ';'
//	                                             -> '=' initializer ';'
//	first token -> ';'                  (member of open type)
//	"def" / "function" -> function parser -> first token
//
// Initializers are captured up to the next ';' outside brackets and quoted
// literals, then compiled as expressions.
func parseProto(ctx *Context, name string, declStart, start, end int) (*ast.Proto, error) {
	src := ctx.src
	proto := ast.NewProto(name, declStart)

	prev := ctx.current
	ctx.current = proto
	defer func() { ctx.current = prev }()

	cursor := start
	for {
		cursor = scan.SkipWhitespace(src, cursor)
		if cursor >= end {
			return proto, nil
		}
		c := src.At(cursor)
		if c == ';' {
			cursor++
			continue
		}
		if !scan.IsIdentifierStart(c) {
			return nil, ctx.errorf(errors.E1003, cursor,
				"unexpected %q in declaration of prototype %s", c, name)
		}

		wordAt := cursor
		cursor = scan.ScanIdentifier(src, cursor, end)
		word := src.Slice(wordAt, cursor)
		if word == "def" || word == "function" {
			next, err := parseMethod(ctx, proto, wordAt, cursor, end)
			if err != nil {
				return nil, err
			}
			cursor = next
			continue
		}

		m := member{name: word, nameAt: wordAt}
		cursor = scan.SkipWhitespace(src, cursor)
		if cursor < end && scan.IsIdentifierStart(src.At(cursor)) {
			m.typeName, m.typeAt = word, wordAt
			m.nameAt = cursor
			cursor = scan.ScanIdentifier(src, cursor, end)
			m.name = src.Slice(m.nameAt, cursor)
			cursor = scan.SkipWhitespace(src, cursor)
		}
		if cursor >= end {
			return nil, ctx.errorf(errors.E1011, m.nameAt,
				"unterminated declaration of %s in prototype %s (missing ';')", m.name, name)
		}

		switch c := src.At(cursor); c {
		case ';':
			cursor++
		case '=':
			term, err := scan.CaptureToTerminator(src, cursor+1, end, ';')
			if err != nil {
				offset := cursor
				if unbalanced, ok := err.(*scan.UnbalancedError); ok {
					offset = unbalanced.Offset
				}
				return nil, ctx.errorf(errors.E1007, offset,
					"unclosed delimiter in initializer of %s in prototype %s", m.name, name)
			}
			if term >= end {
				return nil, ctx.errorf(errors.E1011, m.nameAt,
					"unterminated declaration of %s in prototype %s (missing ';')", m.name, name)
			}
			if strings.TrimSpace(src.Slice(cursor+1, term)) == "" {
				return nil, ctx.errorf(errors.E1004, cursor,
					"missing initializer for %s in prototype %s", m.name, name)
			}
			m.init = &ast.Span{Start: cursor + 1, End: term}
			cursor = term + 1
		default:
			return nil, ctx.errorf(errors.E1003, cursor,
				"unexpected %q after %s in declaration of prototype %s", c, m.name, name)
		}

		if err := declareMember(ctx, proto, m); err != nil {
			return nil, err
		}
	}
}

// declareMember resolves the member's type, compiles its initializer and
// adds it to the prototype. An unresolvable type is an error when compiling
// ahead of time; in the interpreted mode it is deferred until a prototype
// of that name is registered.
func declareMember(ctx *Context, proto *ast.Proto, m member) error {
	if token.LookupIdentifier(m.name) != token.IDENT {
		return ctx.errorf(errors.E1006, m.nameAt, "expected a member name (got keyword %q)", m.name)
	}
	r := &ast.Receiver{Name: m.name, Offset: m.nameAt}
	deferred := false
	if m.typeName != "" {
		rt, ok := ctx.ResolveType(m.typeName)
		switch {
		case ok:
			r.Type = rt
		case ctx.interpreted:
			deferred = true
		default:
			return ctx.errorf(errors.E2012, m.typeAt, "could not resolve type: %s", m.typeName).
				WithSuggestions(m.typeName, ctx.TypeNames())
		}
	}

	if m.init != nil {
		// Fields declared so far are bound by name while initializers run.
		ctx.PushFunction(proto.Names())
		init, err := compileExpression(ctx, m.init.Start, m.init.End)
		ctx.Pop()
		if err != nil {
			return err
		}
		if err := checkInitializer(ctx, r, init, m); err != nil {
			return err
		}
		r.Init = init
	}

	if err := proto.Declare(r); err != nil {
		return ctx.errorf(errors.E2015, m.nameAt, "%s", err.Error())
	}
	if deferred {
		ctx.deferred.Enqueue(&DeferredEntry{Name: m.typeName, Owner: proto, Receiver: r, Offset: m.typeAt})
	}
	return nil
}

func checkInitializer(ctx *Context, r *ast.Receiver, init ast.Node, m member) error {
	if ctx.interpreted {
		return nil
	}
	vt := init.ResultType()
	if !vt.IsKnown() || vt == object.NIL {
		return nil
	}
	var expected object.Type
	switch r.Type.Kind {
	case ast.HostReceiver:
		expected = r.Type.Host
	case ast.ProtoReceiver:
		expected = object.INSTANCE
	default:
		return nil
	}
	if !expected.IsKnown() || vt == expected {
		return nil
	}
	return ctx.errorf(errors.E2011, m.init.Start,
		"type mismatch: cannot initialize %s %s with %s", r.Type, m.name, vt)
}

// parseMethod hands a "def name(...) { ... }" member to the function parser
// and returns the offset just past it.
func parseMethod(ctx *Context, proto *ast.Proto, kwAt, cursor, end int) (int, error) {
	src := ctx.src
	cursor = scan.SkipWhitespace(src, cursor)
	if cursor >= end {
		return 0, ctx.errorf(errors.E1013, kwAt,
			"unexpected end of declaration in prototype %s", proto.Name)
	}
	if !scan.IsIdentifierStart(src.At(cursor)) {
		return 0, ctx.errorf(errors.E1012, cursor,
			"anonymous function declared as a member of prototype %s", proto.Name)
	}
	nameAt := cursor
	cursor = scan.ScanIdentifier(src, cursor, end)
	name := src.Slice(nameAt, cursor)

	fn, next, err := ctx.functions.ParseFunction(ctx, name, cursor, end)
	if err != nil {
		return 0, err
	}
	fn.DefPos = src.Position(kwAt)
	r := &ast.Receiver{
		Name:   name,
		Type:   ast.ReceiverType{Kind: ast.MethodReceiver, Name: "function"},
		Method: fn,
		Offset: nameAt,
	}
	if err := proto.Declare(r); err != nil {
		return 0, ctx.errorf(errors.E2015, nameAt, "%s", err.Error())
	}
	return next, nil
}
