// Package actions implements alias resolution for namespace entry.
//
// An alias request table maps an action name ("require", "include", or any
// caller-chosen name) to alias -> target pairs. Actions are capabilities: a
// handler function registered under the action name, invoked with the target
// and producing the value the alias is bound to. Requesting an action with
// no registered handler is a configuration error surfaced before anything
// else in the pass runs; a silently missing alias would otherwise show up
// much later as a confusing undefined-name failure.
package actions

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

var (
	// ErrUnknownAction is returned when an alias request names an action
	// with no registered handler.
	ErrUnknownAction = errors.New("unknown alias action")

	// ErrDuplicateAction is returned when registering an action name twice.
	ErrDuplicateAction = errors.New("action already registered")
)

// Handler resolves one alias target to the value the alias is bound to.
type Handler func(target string) (any, error)

// Resolver holds the action handler table.
type Resolver struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	logger   *slog.Logger
}

// Option mutates resolver construction.
type Option func(*Resolver)

// WithLogger sets the logger used for restore diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewResolver creates a resolver with an empty handler table.
func NewResolver(options ...Option) *Resolver {
	r := &Resolver{
		handlers: make(map[string]Handler),
		logger:   slog.Default(),
	}
	for _, option := range options {
		option(r)
	}
	return r
}

// Register installs a handler under an action name.
func (r *Resolver) Register(action string, handler Handler) error {
	if action == "" {
		return fmt.Errorf("register action: empty name")
	}
	if handler == nil {
		return fmt.Errorf("register action %s: nil handler", action)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[action]; exists {
		return fmt.Errorf("register action %s: %w", action, ErrDuplicateAction)
	}
	r.handlers[action] = handler
	return nil
}

// Handles reports whether an action has a registered handler.
func (r *Resolver) Handles(action string) bool {
	r.mu.RLock()
	_, ok := r.handlers[action]
	r.mu.RUnlock()
	return ok
}

func (r *Resolver) handler(action string) (Handler, bool) {
	r.mu.RLock()
	h, ok := r.handlers[action]
	r.mu.RUnlock()
	return h, ok
}
