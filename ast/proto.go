package ast

import (
	"context"
	"fmt"
	"strings"

	"github.com/deepnoodle-ai/quill/errors"
	"github.com/deepnoodle-ai/quill/object"
	"github.com/deepnoodle-ai/quill/op"
	"github.com/deepnoodle-ai/quill/scope"
)

// ReceiverKind classifies the declared type of a Receiver.
type ReceiverKind int

const (
	// OpenReceiver has no declared type and accepts any value.
	OpenReceiver ReceiverKind = iota
	// HostReceiver is typed with a host type such as int or string.
	HostReceiver
	// ProtoReceiver is typed with another prototype.
	ProtoReceiver
	// DeferredReceiver names a prototype that has not been declared yet.
	DeferredReceiver
	// MethodReceiver holds a default method body.
	MethodReceiver
)

func (k ReceiverKind) String() string {
	switch k {
	case OpenReceiver:
		return "open"
	case HostReceiver:
		return "host"
	case ProtoReceiver:
		return "proto"
	case DeferredReceiver:
		return "deferred"
	case MethodReceiver:
		return "method"
	default:
		return "unknown"
	}
}

// ReceiverType is the declared type of a Receiver.
type ReceiverType struct {
	Kind  ReceiverKind
	Name  string      // type name as written in the declaration
	Host  object.Type // set for HostReceiver
	Proto *Proto      // set for ProtoReceiver
}

func (t ReceiverType) String() string {
	switch t.Kind {
	case OpenReceiver:
		return "any"
	case MethodReceiver:
		return "function"
	case ProtoReceiver:
		if t.Proto != nil {
			return t.Proto.Name
		}
	}
	return t.Name
}

// Check returns a type error if value may not be stored in a receiver of
// this type. Nil is accepted by every type.
func (t ReceiverType) Check(value object.Object) error {
	if value == object.Nil {
		return nil
	}
	switch t.Kind {
	case OpenReceiver:
		return nil
	case HostReceiver:
		if !t.Host.IsKnown() || value.Type() == t.Host {
			return nil
		}
	case ProtoReceiver:
		if inst, ok := value.(*object.Instance); ok && inst.Proto() == t.String() {
			return nil
		}
	case MethodReceiver:
		if value.Type() == object.FUNCTION {
			return nil
		}
	case DeferredReceiver:
		return errors.EvalErrorf("eval error: unresolved type: %s", t.Name)
	}
	return object.TypeErrorf("type error: expected %s (%s given)", t, value.Type())
}

// Receiver is a named member of a prototype: a typed field with an optional
// initializer, or a default method body.
type Receiver struct {
	Name   string
	Type   ReceiverType
	Init   Node
	Method *Function
	Offset int // byte offset of the declaration in the source
}

func (r *Receiver) String() string {
	if r.Method != nil {
		if r.Method.Body == nil {
			return r.Method.Inspect() + " {}"
		}
		return r.Method.Inspect() + " { " + r.Method.Body.String() + " }"
	}
	var out strings.Builder
	if r.Type.Kind != OpenReceiver {
		out.WriteString(r.Type.String())
		out.WriteString(" ")
	}
	out.WriteString(r.Name)
	if r.Init != nil {
		out.WriteString(" = ")
		out.WriteString(r.Init.String())
	}
	return out.String()
}

// Proto is a named, ordered collection of Receivers. Its identity is its
// name. CursorStart and CursorEnd are the byte offsets of the "proto"
// keyword and of the closing brace of the declaration.
type Proto struct {
	Name        string
	Receivers   []*Receiver
	CursorStart int
	CursorEnd   int
	index       map[string]*Receiver
}

// NewProto returns an empty prototype.
func NewProto(name string, start int) *Proto {
	return &Proto{Name: name, CursorStart: start, CursorEnd: -1, index: map[string]*Receiver{}}
}

// Declare appends a receiver. Receiver names are unique within a prototype.
func (p *Proto) Declare(r *Receiver) error {
	if p.index == nil {
		p.index = map[string]*Receiver{}
	}
	if _, ok := p.index[r.Name]; ok {
		return fmt.Errorf("duplicate receiver %q in prototype %s", r.Name, p.Name)
	}
	p.index[r.Name] = r
	p.Receivers = append(p.Receivers, r)
	return nil
}

// Receiver returns the receiver with the given name.
func (p *Proto) Receiver(name string) (*Receiver, bool) {
	r, ok := p.index[name]
	return r, ok
}

// Names returns the receiver names in declaration order.
func (p *Proto) Names() []string {
	names := make([]string, 0, len(p.Receivers))
	for _, r := range p.Receivers {
		names = append(names, r.Name)
	}
	return names
}

// Instantiate creates an instance of the prototype. Receivers are filled in
// declaration order: methods with their function, fields with the value of
// their initializer or nil. Initializers run in a child scope of s in which
// the fields filled so far are bound by name.
func (p *Proto) Instantiate(ctx context.Context, s *scope.Scope, interpreted bool) (*object.Instance, error) {
	inst := object.NewInstance(p.Name)
	fs := scope.New(s)
	for _, r := range p.Receivers {
		var value object.Object = object.Nil
		switch {
		case r.Method != nil:
			value = r.Method
		case r.Init != nil:
			v, err := evaluate(ctx, r.Init, fs, interpreted)
			if err != nil {
				return nil, err
			}
			value = v
		}
		if err := r.Type.Check(value); err != nil {
			return nil, err
		}
		if err := inst.SetAttr(r.Name, value); err != nil {
			return nil, err
		}
		fs.Define(r.Name, value)
	}
	return inst, nil
}

func (p *Proto) Type() object.Type {
	return object.PROTO
}

func (p *Proto) Inspect() string {
	var out strings.Builder
	out.WriteString("proto ")
	out.WriteString(p.Name)
	out.WriteString(" {")
	for _, r := range p.Receivers {
		out.WriteString(" ")
		out.WriteString(r.String())
		out.WriteString(";")
	}
	out.WriteString(" }")
	return out.String()
}

func (p *Proto) Interface() interface{} {
	return p.Describe()
}

func (p *Proto) Equals(other object.Object) bool {
	return p == other
}

func (p *Proto) IsTruthy() bool {
	return true
}

func (p *Proto) RunOperation(opType op.BinaryOpType, right object.Object) (object.Object, error) {
	return nil, object.TypeErrorf("type error: unsupported operation for proto: %v", opType)
}

// ProtoInfo is a serializable description of a prototype.
type ProtoInfo struct {
	Name      string         `json:"name"`
	Receivers []ReceiverInfo `json:"receivers"`
}

// ReceiverInfo is a serializable description of a receiver.
type ReceiverInfo struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
	Type string `json:"type"`
	Init string `json:"init,omitempty"`
}

// Describe returns a serializable description of the prototype.
func (p *Proto) Describe() ProtoInfo {
	info := ProtoInfo{Name: p.Name, Receivers: []ReceiverInfo{}}
	for _, r := range p.Receivers {
		ri := ReceiverInfo{Name: r.Name, Kind: r.Type.Kind.String(), Type: r.Type.String()}
		if r.Init != nil {
			ri.Init = r.Init.String()
		}
		info.Receivers = append(info.Receivers, ri)
	}
	return info
}
