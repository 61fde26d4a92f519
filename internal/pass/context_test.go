package pass

import (
	"errors"
	"reflect"
	"testing"

	"go.uber.org/goleak"

	"github.com/funvibe/livens/internal/namespace"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func mustNamespace(t *testing.T, reg *namespace.Registry, name string) *namespace.Namespace {
	t.Helper()
	ns, err := reg.GetOrCreate(name)
	if err != nil {
		t.Fatalf("GetOrCreate(%q) failed: %v", name, err)
	}
	return ns
}

func TestBegin(t *testing.T) {
	reg := namespace.NewRegistry()
	ns := mustNamespace(t, reg, "t.begin")

	a := Begin(ns)
	b := Begin(ns)
	if a.ID() == b.ID() {
		t.Error("two passes share one ID")
	}
	if a.State() != StateActive {
		t.Errorf("fresh pass state: got %v, want active", a.State())
	}
	if a.Namespace() != ns {
		t.Error("pass does not reference the entered namespace")
	}
}

func TestDefine_BindsLocalAndExport(t *testing.T) {
	reg := namespace.NewRegistry()
	ns := mustNamespace(t, reg, "t.define")
	pc := Begin(ns)

	if got := pc.Define("x", 1); got != 1 {
		t.Errorf("Define yielded %v, want 1", got)
	}
	if v, ok := ns.Get("x"); !ok || v != 1 {
		t.Errorf("export after Define: got %v, %v", v, ok)
	}
	if v, ok := pc.Resolve("x"); !ok || v != 1 {
		t.Errorf("local after Define: got %v, %v", v, ok)
	}
	pc.Define("x", 2)
	if v, _ := ns.Get("x"); v != 2 {
		t.Errorf("redefine: got %v, want 2", v)
	}
}

func TestDefineOnce(t *testing.T) {
	reg := namespace.NewRegistry()
	ns := mustNamespace(t, reg, "t.once")

	first := Begin(ns)
	if got := first.DefineOnce("conn", "live-resource"); got != "live-resource" {
		t.Errorf("first DefineOnce yielded %v", got)
	}
	first.Commit()

	// Re-evaluation of the same defining source must not replace the value.
	second := Begin(ns)
	if got := second.DefineOnce("conn", "restarted-resource"); got != "live-resource" {
		t.Errorf("second DefineOnce yielded %v, want surviving value", got)
	}
	if v, _ := ns.Get("conn"); v != "live-resource" {
		t.Errorf("export after re-evaluation: got %v", v)
	}
	// The surviving value is what the rest of the pass sees locally.
	if v, _ := second.Resolve("conn"); v != "live-resource" {
		t.Errorf("local after DefineOnce: got %v", v)
	}
}

func TestDefineFunction(t *testing.T) {
	reg := namespace.NewRegistry()
	ns := mustNamespace(t, reg, "t.fn")
	pc := Begin(ns)

	pc.DefineFunction("double", []string{"n"}, func(args map[string]any) (any, error) {
		return args["n"].(int) * 2, nil
	})

	v, ok := ns.Get("double")
	if !ok {
		t.Fatal("function not exported")
	}
	fn, ok := v.(*namespace.Function)
	if !ok {
		t.Fatalf("export is %T, want *namespace.Function", v)
	}
	got, err := fn.Call(21)
	if err != nil {
		t.Fatalf("Call failed: %v", err)
	}
	if got != 42 {
		t.Errorf("Call: got %v, want 42", got)
	}
}

func TestResolve_LocalShadowsExport(t *testing.T) {
	reg := namespace.NewRegistry()
	ns := mustNamespace(t, reg, "t.shadow")
	ns.Define("x", "exported")

	pc := Begin(ns)
	pc.Bind("x", "local")
	if v, _ := pc.Resolve("x"); v != "local" {
		t.Errorf("Resolve: got %v, want local binding", v)
	}
	if v, _ := pc.Resolve("y"); v != nil {
		t.Errorf("Resolve of unbound name: got %v", v)
	}
	if _, ok := pc.Resolve("y"); ok {
		t.Error("Resolve reported unbound name as present")
	}
}

func TestCommit_PersistsLocals(t *testing.T) {
	reg := namespace.NewRegistry()
	ns := mustNamespace(t, reg, "t.commit")

	pc := Begin(ns)
	pc.Bind("helper", 7)
	pc.BindAlias("u", "util-value", "require", "util")
	pc.Commit()

	if pc.State() != StateCommitted {
		t.Errorf("state after Commit: got %v", pc.State())
	}
	locals := ns.Locals()
	if locals["helper"].Value != 7 {
		t.Errorf("persisted helper: got %v, want 7", locals["helper"].Value)
	}
	u := locals["u"]
	if u.Origin == nil || u.Origin.Action != "require" || u.Origin.Target != "util" {
		t.Errorf("persisted alias lost provenance: %+v", u)
	}
}

func TestAbort_LeavesNoTrace(t *testing.T) {
	reg := namespace.NewRegistry()
	ns := mustNamespace(t, reg, "t.abort")

	// Establish a baseline from one successful pass.
	setup := Begin(ns)
	setup.Bind("stable", 1)
	setup.Commit()
	before := ns.Locals()

	failing := Begin(ns)
	failing.Define("partial", "mid-pass export")
	failing.Bind("scratch", 2)
	failing.Abort(errors.New("compile error"))

	if failing.State() != StateAborted {
		t.Errorf("state after Abort: got %v", failing.State())
	}
	if failing.Cause() == nil {
		t.Error("abort cause not recorded")
	}
	after := ns.Locals()
	if !reflect.DeepEqual(before, after) {
		t.Errorf("persisted locals changed across aborted pass: before %v, after %v", before, after)
	}
	// Export writes made before the abort stand.
	if v, _ := ns.Get("partial"); v != "mid-pass export" {
		t.Errorf("direct export write rolled back: got %v", v)
	}
}

func TestFinishedPass_Degrades(t *testing.T) {
	reg := namespace.NewRegistry()
	ns := mustNamespace(t, reg, "t.finished")

	pc := Begin(ns)
	pc.Bind("a", 1)
	pc.Commit()

	// A second commit captures nothing and must not fail.
	pc.Bind("b", 2)
	pc.Commit()
	if _, ok := ns.Locals()["b"]; ok {
		t.Error("binding after commit leaked into persisted locals")
	}
	if got := len(pc.Capture()); got != 0 {
		t.Errorf("Capture on finished pass: got %d bindings, want 0", got)
	}

	// Abort after commit keeps the committed state.
	pc.Abort(errors.New("late"))
	if pc.State() != StateCommitted {
		t.Errorf("state after late abort: got %v, want committed", pc.State())
	}
}
