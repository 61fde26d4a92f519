package namespace

import (
	"fmt"
	"sort"
	"sync"

	"github.com/funvibe/livens/internal/utils"
)

// Registry maps dotted names to their live namespace objects. It guarantees
// at-most-one object per name for the registry's lifetime: every GetOrCreate
// for a name returns the identical pointer, never a copy. Entries are never
// removed.
//
// A Registry is an owned object constructed at process start and injected
// wherever namespace lookup is needed; there is no package-level instance.
type Registry struct {
	mu         sync.RWMutex
	namespaces map[string]*Namespace
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{namespaces: make(map[string]*Namespace)}
}

// GetOrCreate returns the namespace registered under name, creating it with
// empty surfaces on first reference. Malformed names fail before anything is
// registered.
func (r *Registry) GetOrCreate(name string) (*Namespace, error) {
	return r.GetOrCreateWithBase(name, nil)
}

// GetOrCreateWithBase is GetOrCreate with a base mapping seeded into the
// export mapping at creation time only. If the namespace already exists the
// base is ignored: base contents never overwrite exports established by
// earlier passes.
func (r *Registry) GetOrCreateWithBase(name string, base map[string]any) (*Namespace, error) {
	if !utils.IsValidName(name) {
		return nil, fmt.Errorf("namespace %q: %w", name, ErrInvalidName)
	}

	r.mu.RLock()
	ns, ok := r.namespaces[name]
	r.mu.RUnlock()
	if ok {
		return ns, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if ns, ok := r.namespaces[name]; ok {
		return ns, nil
	}
	ns = newNamespace(name, base)
	r.namespaces[name] = ns
	return ns, nil
}

// Lookup returns a registered namespace without creating one.
func (r *Registry) Lookup(name string) (*Namespace, bool) {
	r.mu.RLock()
	ns, ok := r.namespaces[name]
	r.mu.RUnlock()
	return ns, ok
}

// Names returns all registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.namespaces))
	for name := range r.namespaces {
		names = append(names, name)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}
