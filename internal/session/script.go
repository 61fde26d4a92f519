package session

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/livens/internal/actions"
)

// Script is a replayable session: an ordered list of evaluation passes.
// Scripts stand in for the compiler front end in tests and in the CLI; a
// real front end drives Runtime.Enter directly.
type Script struct {
	Passes []PassSpec `yaml:"passes"`
}

// PassSpec describes one evaluation pass.
type PassSpec struct {
	// Namespace is the dotted name entered by this pass.
	Namespace string `yaml:"namespace"`

	// Base optionally seeds exports if this pass creates the namespace.
	Base map[string]any `yaml:"base,omitempty"`

	// Aliases is the explicit alias request table: action -> alias -> target.
	Aliases map[string]map[string]string `yaml:"aliases,omitempty"`

	// Ops are the definition operations evaluated by the pass, in order.
	Ops []OpSpec `yaml:"ops,omitempty"`

	// Abort, when non-empty, abandons the pass with this message after the
	// ops have run, simulating a unit that fails before capture.
	Abort string `yaml:"abort,omitempty"`
}

// OpSpec is one definition operation. Exactly one of Define or DefineOnce
// names the export.
type OpSpec struct {
	Define     string `yaml:"define,omitempty"`
	DefineOnce string `yaml:"define_once,omitempty"`
	Value      any    `yaml:"value,omitempty"`
}

// ParseScript parses and validates YAML script data.
func ParseScript(data []byte) (*Script, error) {
	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(script.Passes) == 0 {
		return nil, errors.New("parse script: no passes")
	}
	for i, p := range script.Passes {
		if p.Namespace == "" {
			return nil, fmt.Errorf("parse script: pass %d: missing namespace", i)
		}
		for k, op := range p.Ops {
			switch {
			case op.Define == "" && op.DefineOnce == "":
				return nil, fmt.Errorf("parse script: pass %d op %d: missing define/define_once", i, k)
			case op.Define != "" && op.DefineOnce != "":
				return nil, fmt.Errorf("parse script: pass %d op %d: both define and define_once", i, k)
			}
		}
	}
	return &script, nil
}

// LoadScript reads a script from a YAML file.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load script %s: %w", path, err)
	}
	return ParseScript(data)
}

// Run replays the script's passes against rt, in order. A failed pass stops
// the replay; passes already committed keep their effects.
func (s *Script) Run(rt *Runtime) error {
	for i, spec := range s.Passes {
		if err := runPass(rt, spec); err != nil {
			return fmt.Errorf("pass %d (%s): %w", i, spec.Namespace, err)
		}
	}
	return nil
}

func runPass(rt *Runtime, spec PassSpec) error {
	pc, err := rt.Enter(spec.Namespace, EntrySpec{
		Aliases: actions.RequestTable(spec.Aliases),
		Base:    spec.Base,
	})
	if err != nil {
		return err
	}

	for _, op := range spec.Ops {
		if op.Define != "" {
			pc.Define(op.Define, op.Value)
			continue
		}
		pc.DefineOnce(op.DefineOnce, op.Value)
	}

	if spec.Abort != "" {
		rt.Abort(pc, errors.New(spec.Abort))
		return nil
	}
	rt.Commit(pc)
	return nil
}
