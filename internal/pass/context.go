// Package pass implements evaluation-pass contexts.
//
// A pass is one incremental execution of a source unit against the live
// process. Instead of introspecting the caller's stack frame for locals, the
// front end threads a Context through every definition and alias-resolution
// call; the context accumulates bindings as they are created and hands them
// to the namespace's persisted-locals slot when the pass commits. A pass
// that aborts discards its accumulated bindings and leaves the persisted
// slot exactly as the last successful pass left it.
package pass

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/funvibe/livens/internal/namespace"
)

// State tracks the pass lifecycle.
type State int

const (
	StateActive State = iota
	StateCommitted
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateCommitted:
		return "committed"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Context accumulates the local bindings of one evaluation pass.
//
// Passes are serialized by whatever triggers evaluation (editor command,
// file watcher); a Context is never shared between goroutines, so it carries
// no lock of its own. The namespace it mutates is internally synchronized.
type Context struct {
	id       uuid.UUID
	ns       *namespace.Namespace
	logger   *slog.Logger
	bindings map[string]namespace.Local
	state    State
	started  time.Time
	cause    error
}

// Option mutates pass construction.
type Option func(*Context)

// WithLogger sets the logger used for degraded-capture warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Context) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Begin opens a pass against ns.
func Begin(ns *namespace.Namespace, options ...Option) *Context {
	c := &Context{
		id:       uuid.New(),
		ns:       ns,
		logger:   slog.Default(),
		bindings: make(map[string]namespace.Local),
		state:    StateActive,
		started:  time.Now(),
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// ID returns the pass identifier.
func (c *Context) ID() uuid.UUID { return c.id }

// Namespace returns the namespace this pass entered.
func (c *Context) Namespace() *namespace.Namespace { return c.ns }

// State returns the current lifecycle state.
func (c *Context) State() State { return c.state }

// Started returns when the pass began.
func (c *Context) Started() time.Time { return c.started }

// Cause returns the abort cause, or nil.
func (c *Context) Cause() error { return c.cause }

// Bind records a plain local binding for the remainder of the pass.
// Rebinding a name is allowed; last write wins.
func (c *Context) Bind(name string, value any) {
	if !c.active("bind", name) {
		return
	}
	c.bindings[name] = namespace.Local{Value: value}
}

// BindAlias records a local produced by alias resolution, with the action
// and target that derived it, so later passes can restore the binding
// without re-invoking the action.
func (c *Context) BindAlias(name string, value any, action, target string) {
	if !c.active("bind alias", name) {
		return
	}
	c.bindings[name] = namespace.Local{
		Value:  value,
		Origin: &namespace.AliasOrigin{Action: action, Target: target},
	}
}

// Restore re-binds a persisted local, preserving its provenance.
func (c *Context) Restore(name string, local namespace.Local) {
	if !c.active("restore", name) {
		return
	}
	c.bindings[name] = local
}

// Resolve looks a name up in the pass locals first, then in the namespace
// exports.
func (c *Context) Resolve(name string) (any, bool) {
	if local, ok := c.bindings[name]; ok {
		return local.Value, true
	}
	return c.ns.Get(name)
}

// Bound reports whether name is bound as a local in this pass.
func (c *Context) Bound(name string) bool {
	_, ok := c.bindings[name]
	return ok
}

// Capture snapshots the accumulated bindings. On a finished context the
// execution state is gone: the capture degrades to empty rather than fail.
func (c *Context) Capture() map[string]namespace.Local {
	if c.state != StateActive {
		c.logger.Warn("local capture degraded, pass already finished",
			"pass", c.id, "namespace", c.ns.Name(), "state", c.state.String())
		return map[string]namespace.Local{}
	}
	out := make(map[string]namespace.Local, len(c.bindings))
	for k, v := range c.bindings {
		out[k] = v
	}
	return out
}

// Commit concludes the pass: accumulated locals are merged into the
// namespace's persisted-locals slot. Committing a finished pass is the
// degraded-capture path: nothing is persisted and no error is raised.
func (c *Context) Commit() {
	captured := c.Capture()
	if c.state != StateActive {
		return
	}
	c.ns.MergeLocals(captured)
	c.state = StateCommitted
}

// Abort abandons the pass before capture. Accumulated locals are dropped
// and the persisted slot is untouched. Aborting a finished pass is a no-op.
func (c *Context) Abort(cause error) {
	if c.state != StateActive {
		return
	}
	c.state = StateAborted
	c.cause = cause
	c.bindings = make(map[string]namespace.Local)
}

func (c *Context) active(op, name string) bool {
	if c.state == StateActive {
		return true
	}
	c.logger.Warn("ignoring operation on finished pass",
		"op", op, "name", name, "pass", c.id, "state", c.state.String())
	return false
}
