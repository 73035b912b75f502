package lang

import "slices"

// ScopeID addresses a scope record in an [Env] arena.
type ScopeID int

// NoScope is the parent of the global scope.
const NoScope ScopeID = -1

// scope is one name-to-value mapping layer.
type scope struct {
	vars     map[string]Value
	parent   ScopeID
	captured bool // a function value was defined in this scope
	released bool // popped by its owner
}

// Env is an arena of scope records addressed by index. Each record holds
// its bindings and the index of its parent.
//
// The global scope is created with the Env and lives as long as it does.
// Call scopes are pushed on function entry and popped on return; a popped
// scope is reclaimed once it is at the top of the arena, unless a function
// value defined in it still refers to it.
type Env struct {
	scopes []scope
}

// NewEnv returns an Env holding only the global scope.
func NewEnv() *Env {
	e := new(Env)
	e.Push(NoScope)

	return e
}

// Global returns the ID of the global scope.
func (*Env) Global() ScopeID { return 0 }

// Len returns the number of scope records currently held in the arena.
func (e *Env) Len() int { return len(e.scopes) }

// Push creates a fresh scope whose parent is parent and returns its ID.
func (e *Env) Push(parent ScopeID) ScopeID {
	e.scopes = append(e.scopes, scope{
		vars:   make(map[string]Value),
		parent: parent,
	})

	return ScopeID(len(e.scopes) - 1)
}

// Pop releases the scope id. Released scopes at the top of the arena are
// reclaimed unless captured.
func (e *Env) Pop(id ScopeID) {
	if id <= e.Global() || int(id) >= len(e.scopes) {
		return
	}

	e.scopes[id].released = true

	n := len(e.scopes)
	for n > 1 && e.scopes[n-1].released && !e.scopes[n-1].captured {
		n--
	}

	clear(e.scopes[n:])
	e.scopes = e.scopes[:n]
}

// Capture marks id as referenced by a function value so it is never
// reclaimed.
func (e *Env) Capture(id ScopeID) {
	e.scopes[id].captured = true
}

// Parent returns the parent of id, or [NoScope] for the global scope.
func (e *Env) Parent(id ScopeID) ScopeID {
	return e.scopes[id].parent
}

// Define binds name to v in scope id, shadowing any outer binding.
func (e *Env) Define(id ScopeID, name string, v Value) {
	e.scopes[id].vars[name] = v
}

// Assign rebinds name in scope id. It reports false, leaving the scope
// unchanged, if id itself does not bind name.
func (e *Env) Assign(id ScopeID, name string, v Value) bool {
	vars := e.scopes[id].vars
	if _, ok := vars[name]; !ok {
		return false
	}

	vars[name] = v

	return true
}

// Lookup resolves name starting at scope id and walking outward to the
// global scope.
func (e *Env) Lookup(id ScopeID, name string) (Value, bool) {
	for id != NoScope {
		s := &e.scopes[id]
		if v, ok := s.vars[name]; ok {
			return v, true
		}

		id = s.parent
	}

	return nil, false
}

// Owner returns the innermost scope, starting at id, that binds name.
func (e *Env) Owner(id ScopeID, name string) (ScopeID, bool) {
	for id != NoScope {
		s := &e.scopes[id]
		if _, ok := s.vars[name]; ok {
			return id, true
		}

		id = s.parent
	}

	return NoScope, false
}

// Names returns the sorted set of names visible from scope id.
func (e *Env) Names(id ScopeID) []string {
	seen := make(map[string]struct{})

	var names []string

	for id != NoScope {
		for name := range e.scopes[id].vars {
			if _, ok := seen[name]; ok {
				continue
			}

			seen[name] = struct{}{}
			names = append(names, name)
		}

		id = e.scopes[id].parent
	}

	slices.Sort(names)

	return names
}

// Bindings returns the bindings of scope id alone, without its ancestors.
func (e *Env) Bindings(id ScopeID) map[string]Value {
	return e.scopes[id].vars
}
