package session

import (
	"testing"
)

func TestParseScript_Validation(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"empty", ""},
		{"no passes", "passes: []"},
		{"missing namespace", "passes:\n  - ops: []"},
		{"op without name", "passes:\n  - namespace: a\n    ops:\n      - value: 1"},
		{"op with both names", "passes:\n  - namespace: a\n    ops:\n      - define: x\n        define_once: y"},
		{"bad yaml", "passes: ["},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseScript([]byte(tc.yaml)); err == nil {
				t.Errorf("ParseScript accepted %q", tc.yaml)
			}
		})
	}
}

const replayScript = `
passes:
  - namespace: app.util
    ops:
      - define: greeting
        value: hello
  - namespace: app.core
    base:
      version: 1
    aliases:
      require:
        u: app.util
      include:
        defs: app.util
    ops:
      - define: version
        value: 2
      - define_once: conn
        value: first
  - namespace: app.core
    ops:
      - define_once: conn
        value: second
  - namespace: app.core
    abort: simulated compile error
    ops:
      - define: aborted_export
        value: true
`

func TestScript_Run(t *testing.T) {
	script, err := ParseScript([]byte(replayScript))
	if err != nil {
		t.Fatalf("ParseScript failed: %v", err)
	}
	rt := newTestRuntime(t)
	if err := script.Run(rt); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	core, ok := rt.Registry().Lookup("app.core")
	if !ok {
		t.Fatal("app.core not registered")
	}

	// Definition overwrote the base entry.
	if v, _ := core.Get("version"); v != 2 {
		t.Errorf("version: got %v, want 2", v)
	}
	// define_once kept the first value across passes.
	if v, _ := core.Get("conn"); v != "first" {
		t.Errorf("conn: got %v, want first", v)
	}
	// The aborted pass still wrote its export directly...
	if v, _ := core.Get("aborted_export"); v != true {
		t.Errorf("aborted_export: got %v", v)
	}
	// ...but its locals never reached the persisted slot.
	if _, ok := core.Locals()["aborted_export"]; ok {
		t.Error("aborted pass leaked into persisted locals")
	}

	// Aliases from the committed pass persisted with provenance.
	locals := core.Locals()
	u, ok := locals["u"]
	if !ok || u.Origin == nil || u.Origin.Target != "app.util" {
		t.Errorf("persisted alias u: %+v", u)
	}
	defs, ok := locals["defs"].Value.(map[string]any)
	if !ok || defs["greeting"] != "hello" {
		t.Errorf("included defs: %v", locals["defs"].Value)
	}
}

func TestScript_RunStopsOnBadAction(t *testing.T) {
	script, err := ParseScript([]byte(`
passes:
  - namespace: a
    ops:
      - define: x
        value: 1
  - namespace: b
    aliases:
      bogus:
        y: a
`))
	if err != nil {
		t.Fatalf("ParseScript failed: %v", err)
	}
	rt := newTestRuntime(t)
	if err := script.Run(rt); err == nil {
		t.Fatal("Run succeeded despite unknown action")
	}

	// The committed first pass keeps its effects.
	a, ok := rt.Registry().Lookup("a")
	if !ok {
		t.Fatal("namespace a missing")
	}
	if v, _ := a.Get("x"); v != 1 {
		t.Errorf("a.x: got %v, want 1", v)
	}
}
