package actions

import (
	"github.com/funvibe/livens/internal/config"
	"github.com/funvibe/livens/internal/namespace"
)

// RegisterDefaults installs the built-in actions against a registry.
//
// "require" binds the alias to the target's namespace handle. Repeating it
// is cheap: the registry returns the same object every time, so resources
// held in the target's exports are never duplicated.
//
// "include" binds the alias to a snapshot of the target's exports, for
// callers that want the definitions rather than the namespace handle.
func (r *Resolver) RegisterDefaults(reg *namespace.Registry) error {
	if err := r.Register(config.ActionRequire, func(target string) (any, error) {
		return reg.GetOrCreate(target)
	}); err != nil {
		return err
	}
	return r.Register(config.ActionInclude, func(target string) (any, error) {
		ns, err := reg.GetOrCreate(target)
		if err != nil {
			return nil, err
		}
		return ns.Exports(), nil
	})
}
