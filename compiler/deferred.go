package compiler

import (
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"github.com/deepnoodle-ai/quill/ast"
	"github.com/deepnoodle-ai/quill/errors"
	"github.com/deepnoodle-ai/quill/internal/token"
)

// DeferredEntry records a prototype member whose type names a prototype that
// had not been declared when the member was parsed.
type DeferredEntry struct {
	Name     string        // the unresolved type name
	Owner    *ast.Proto    // prototype declaring the member
	Receiver *ast.Receiver // member whose type is bound on resolution
	Offset   int           // byte offset of the type name in the source
}

// SatisfiedBy returns true if registering p resolves the entry.
func (e *DeferredEntry) SatisfiedBy(p *ast.Proto) bool {
	return p.Name == e.Name
}

// DeferredQueue holds the unresolved entries of one compilation unit. Each
// entry is either satisfied by a prototype registered later in the unit or
// reported by Err.
type DeferredQueue struct {
	entries []*DeferredEntry
	logger  zerolog.Logger
}

// NewDeferredQueue returns an empty queue.
func NewDeferredQueue(logger zerolog.Logger) *DeferredQueue {
	return &DeferredQueue{logger: logger}
}

// Enqueue adds an entry and marks its receiver with a deferred placeholder
// type.
func (q *DeferredQueue) Enqueue(e *DeferredEntry) {
	e.Receiver.Type = ast.ReceiverType{Kind: ast.DeferredReceiver, Name: e.Name}
	q.entries = append(q.entries, e)
	q.logger.Debug().
		Str("type", e.Name).
		Str("proto", e.Owner.Name).
		Str("receiver", e.Receiver.Name).
		Msg("deferred type resolution")
}

// Notify binds and removes every entry satisfied by p, returning how many
// were satisfied.
func (q *DeferredQueue) Notify(p *ast.Proto) int {
	remaining := q.entries[:0]
	satisfied := 0
	for _, e := range q.entries {
		if !e.SatisfiedBy(p) {
			remaining = append(remaining, e)
			continue
		}
		e.Receiver.Type = ast.ReceiverType{Kind: ast.ProtoReceiver, Name: p.Name, Proto: p}
		satisfied++
		q.logger.Debug().
			Str("type", p.Name).
			Str("proto", e.Owner.Name).
			Str("receiver", e.Receiver.Name).
			Msg("deferred type resolved")
	}
	for i := len(remaining); i < len(q.entries); i++ {
		q.entries[i] = nil
	}
	q.entries = remaining
	return satisfied
}

// Pending returns true if any entry is unsatisfied.
func (q *DeferredQueue) Pending() bool {
	return len(q.entries) > 0
}

// Len returns the number of unsatisfied entries.
func (q *DeferredQueue) Len() int {
	return len(q.entries)
}

// Next returns the oldest unsatisfied entry.
func (q *DeferredQueue) Next() (*DeferredEntry, bool) {
	if len(q.entries) == 0 {
		return nil, false
	}
	return q.entries[0], true
}

// Names returns the unresolved type names, oldest first, without duplicates.
func (q *DeferredQueue) Names() []string {
	seen := map[string]bool{}
	var names []string
	for _, e := range q.entries {
		if !seen[e.Name] {
			seen[e.Name] = true
			names = append(names, e.Name)
		}
	}
	return names
}

// Err returns an error reporting every unsatisfied entry, or nil. The error
// is a *multierror.Error whose members are *errors.CompileError values.
func (q *DeferredQueue) Err(src *token.Source, candidates []string) error {
	var result *multierror.Error
	for _, e := range q.entries {
		err := errors.NewCompileError(errors.E2014, src, e.Offset,
			"unresolved forward reference: type %s is never declared (used by %s.%s)",
			e.Name, e.Owner.Name, e.Receiver.Name).WithSuggestions(e.Name, candidates)
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}
