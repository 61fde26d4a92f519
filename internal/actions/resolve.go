package actions

import (
	"fmt"
	"sort"

	"github.com/funvibe/livens/internal/pass"
)

// RequestTable maps action name -> alias -> target.
type RequestTable map[string]map[string]string

// ResolveAliases binds the aliases of one namespace entry into the pass
// context and returns the full alias -> value set for the pass.
//
// Three phases, in order:
//
//  1. Validate. Every requested action must have a handler. This runs before
//     any handler is invoked, so a misconfigured request table aborts the
//     pass before any definition operator or side effect.
//  2. Explicit requests. Handlers run in sorted (action, alias) order for
//     determinism, and each result is bound with provenance. An alias that
//     also has a persisted cached value is re-resolved here: an explicit
//     request always wins over cached state.
//  3. Restore. Persisted locals from the previous pass that carry an alias
//     origin and were not explicitly re-requested are re-bound from their
//     cached value without invoking the handler, so side-effecting actions
//     are not repeated merely because the source was re-evaluated.
func (r *Resolver) ResolveAliases(pc *pass.Context, requests RequestTable) (map[string]any, error) {
	for _, action := range sortedKeys(requests) {
		if !r.Handles(action) {
			return nil, fmt.Errorf("resolve aliases for %s: action %q: %w",
				pc.Namespace().Name(), action, ErrUnknownAction)
		}
	}

	bound := make(map[string]any)
	explicit := make(map[string]bool)

	for _, action := range sortedKeys(requests) {
		handler, _ := r.handler(action)
		aliases := requests[action]
		for _, alias := range sortedKeys(aliases) {
			target := aliases[alias]
			value, err := handler(target)
			if err != nil {
				return nil, fmt.Errorf("resolve alias %s (%s %s): %w", alias, action, target, err)
			}
			pc.BindAlias(alias, value, action, target)
			bound[alias] = value
			explicit[alias] = true
		}
	}

	for alias, local := range pc.Namespace().Locals() {
		if local.Origin == nil || explicit[alias] {
			continue
		}
		pc.Restore(alias, local)
		bound[alias] = local.Value
		r.logger.Debug("restored alias from persisted locals",
			"namespace", pc.Namespace().Name(), "alias", alias,
			"action", local.Origin.Action, "target", local.Origin.Target)
	}

	return bound, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
