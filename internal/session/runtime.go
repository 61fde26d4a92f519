// Package session ties the namespace core together for the evaluating
// front end: namespace entry, the pass lifecycle, and script replay.
package session

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/funvibe/livens/internal/actions"
	"github.com/funvibe/livens/internal/config"
	"github.com/funvibe/livens/internal/journal"
	"github.com/funvibe/livens/internal/namespace"
	"github.com/funvibe/livens/internal/pass"
)

// rtConfig stores resolved runtime settings after option application.
type rtConfig struct {
	logger  *slog.Logger
	journal *journal.Journal
	actions map[string]actions.Handler
}

// Option mutates runtime construction.
type Option func(*rtConfig)

// WithLogger configures the logger used by the runtime and its passes.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *rtConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithJournal configures an optional pass journal. The runtime does not
// close it; the owner does.
func WithJournal(j *journal.Journal) Option {
	return func(cfg *rtConfig) {
		cfg.journal = j
	}
}

// WithAction registers an extra alias action alongside the built-in
// require/include pair.
func WithAction(name string, handler actions.Handler) Option {
	return func(cfg *rtConfig) {
		cfg.actions[name] = handler
	}
}

// Runtime owns the registry and resolver and drives the pass lifecycle.
// One runtime serves one live process.
type Runtime struct {
	registry *namespace.Registry
	resolver *actions.Resolver
	journal  *journal.Journal
	logger   *slog.Logger
}

// NewRuntime creates a runtime with the built-in actions registered.
func NewRuntime(options ...Option) (*Runtime, error) {
	cfg := rtConfig{
		logger:  slog.Default(),
		actions: make(map[string]actions.Handler),
	}
	for _, option := range options {
		option(&cfg)
	}

	registry := namespace.NewRegistry()
	resolver := actions.NewResolver(actions.WithLogger(cfg.logger))
	if err := resolver.RegisterDefaults(registry); err != nil {
		return nil, fmt.Errorf("new runtime: %w", err)
	}
	for name, handler := range cfg.actions {
		if err := resolver.Register(name, handler); err != nil {
			return nil, fmt.Errorf("new runtime: %w", err)
		}
	}

	return &Runtime{
		registry: registry,
		resolver: resolver,
		journal:  cfg.journal,
		logger:   cfg.logger,
	}, nil
}

// Registry exposes the namespace registry for consumers reading exports.
func (rt *Runtime) Registry() *namespace.Registry { return rt.registry }

// Resolver exposes the action table, for front ends registering actions
// after construction.
func (rt *Runtime) Resolver() *actions.Resolver { return rt.resolver }

// EntrySpec carries the optional parts of a namespace entry.
type EntrySpec struct {
	// Aliases is the explicit alias request table for this pass.
	Aliases actions.RequestTable
	// Base seeds the export mapping if this entry creates the namespace.
	Base map[string]any
}

// Enter performs namespace entry for one evaluation pass: get or create the
// namespace, begin a pass, restore plain persisted locals from the previous
// pass, then resolve aliases. On an alias configuration error the pass is
// aborted and recorded; nothing is persisted.
func (rt *Runtime) Enter(name string, spec EntrySpec) (*pass.Context, error) {
	ns, err := rt.registry.GetOrCreateWithBase(name, spec.Base)
	if err != nil {
		return nil, err
	}

	pc := pass.Begin(ns, pass.WithLogger(rt.logger))
	rt.journalBegin(pc)
	rt.logger.Debug("pass begun", "pass", pc.ID(), "namespace", name)

	for local, entry := range ns.Locals() {
		if entry.Origin == nil {
			pc.Restore(local, entry)
		}
	}

	if _, err := rt.resolver.ResolveAliases(pc, spec.Aliases); err != nil {
		rt.Abort(pc, err)
		return nil, err
	}
	return pc, nil
}

// Commit concludes a pass successfully, capturing its locals onto the
// namespace.
func (rt *Runtime) Commit(pc *pass.Context) {
	pc.Commit()
	rt.journalOutcome(pc, config.OutcomeCommitted, "")
	rt.logger.Debug("pass committed",
		"pass", pc.ID(), "namespace", pc.Namespace().Name(),
		"elapsed", time.Since(pc.Started()))
}

// Abort abandons a pass; the namespace keeps the state of the last
// successful pass.
func (rt *Runtime) Abort(pc *pass.Context, cause error) {
	pc.Abort(cause)
	detail := ""
	if cause != nil {
		detail = cause.Error()
	}
	rt.journalOutcome(pc, config.OutcomeAborted, detail)
	rt.logger.Warn("pass aborted",
		"pass", pc.ID(), "namespace", pc.Namespace().Name(), "cause", cause)
}

func (rt *Runtime) journalBegin(pc *pass.Context) {
	if rt.journal == nil {
		return
	}
	if err := rt.journal.RecordBegin(pc.ID(), pc.Namespace().Name(), pc.Started()); err != nil {
		rt.logger.Warn("journal write failed", "pass", pc.ID(), "error", err)
	}
}

func (rt *Runtime) journalOutcome(pc *pass.Context, outcome, detail string) {
	if rt.journal == nil {
		return
	}
	if err := rt.journal.RecordOutcome(pc.ID(), outcome, detail); err != nil {
		rt.logger.Warn("journal write failed", "pass", pc.ID(), "error", err)
	}
}
