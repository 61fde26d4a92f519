// Package namespace implements the persistent objects backing named modules
// in an incremental, form-at-a-time evaluation workflow.
//
// A Namespace is created once per dotted name and lives for the process
// lifetime. It carries two mapping surfaces: the export mapping written by
// definition operators, and the persisted-locals slot written by the capture
// step at the end of each successful evaluation pass and read back at the
// start of the next one. Identity is the contract: every pass that enters a
// name gets the same object, so state established by earlier passes (started
// resources, resolved dependencies) survives re-evaluation of the source
// that produced it.
package namespace

import "sync"

// AliasOrigin records how an alias-produced local was derived, so a later
// pass can restore the binding without re-invoking the action.
type AliasOrigin struct {
	Action string
	Target string
}

// Local is one persisted local binding. Origin is non-nil only for bindings
// produced by alias resolution.
type Local struct {
	Value  any
	Origin *AliasOrigin
}

// Namespace is the live object backing one named module.
type Namespace struct {
	mu      sync.RWMutex
	name    string
	exports map[string]any
	locals  map[string]Local
}

func newNamespace(name string, base map[string]any) *Namespace {
	exports := make(map[string]any, len(base))
	for k, v := range base {
		exports[k] = v
	}
	return &Namespace{
		name:    name,
		exports: exports,
		locals:  make(map[string]Local),
	}
}

// Name returns the dotted name the namespace was registered under.
func (ns *Namespace) Name() string {
	return ns.name
}

// Define writes name -> value into the export mapping, overwriting any
// prior value (including base-seeded entries).
func (ns *Namespace) Define(name string, value any) {
	ns.mu.Lock()
	ns.exports[name] = value
	ns.mu.Unlock()
}

// DefineOnce writes name -> value only if name is absent and returns the
// value that survives. Re-evaluating defining source is a no-op, which is
// what lets exports hold live resources that must not be restarted.
func (ns *Namespace) DefineOnce(name string, value any) any {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	if existing, ok := ns.exports[name]; ok {
		return existing
	}
	ns.exports[name] = value
	return value
}

// Get returns an exported value and a presence flag.
func (ns *Namespace) Get(name string) (any, bool) {
	ns.mu.RLock()
	v, ok := ns.exports[name]
	ns.mu.RUnlock()
	return v, ok
}

// Exports returns a copy of the export mapping.
func (ns *Namespace) Exports() map[string]any {
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	out := make(map[string]any, len(ns.exports))
	for k, v := range ns.exports {
		out[k] = v
	}
	return out
}

// Locals returns a copy of the persisted-locals slot.
func (ns *Namespace) Locals() map[string]Local {
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	out := make(map[string]Local, len(ns.locals))
	for k, v := range ns.locals {
		out[k] = v
	}
	return out
}

// MergeLocals merges captured bindings into the persisted-locals slot.
// The merged map is built aside and swapped in whole, so readers never
// observe a half-written slot.
func (ns *Namespace) MergeLocals(captured map[string]Local) {
	if len(captured) == 0 {
		return
	}
	ns.mu.Lock()
	merged := make(map[string]Local, len(ns.locals)+len(captured))
	for k, v := range ns.locals {
		merged[k] = v
	}
	for k, v := range captured {
		merged[k] = v
	}
	ns.locals = merged
	ns.mu.Unlock()
}
