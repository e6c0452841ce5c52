package script

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Script defines a reproducible e-graph construction.
type Script struct {
	// Name uniquely identifies this script.
	Name string `yaml:"name"`

	// Description explains what the script demonstrates.
	Description string `yaml:"description,omitempty"`

	// Steps are executed in order against a fresh graph.
	Steps []Step `yaml:"steps"`

	// Asserts validates the canonical structure after the final rebuild.
	Asserts *Asserts `yaml:"asserts,omitempty"`
}

// Step is one operation. Exactly one of Add, Merge, or Rebuild is set.
type Step struct {
	// Add interns a node.
	Add *AddStep `yaml:"add,omitempty"`

	// Merge asserts equivalence of two bound names.
	Merge []string `yaml:"merge,omitempty"`

	// Rebuild drains the worklist and restores congruence.
	Rebuild bool `yaml:"rebuild,omitempty"`
}

// AddStep interns a node built from a symbol and previously bound children.
type AddStep struct {
	// Symbol is the operator tag or literal value.
	Symbol string `yaml:"symbol"`

	// Children lists bound names of the child classes, in order.
	Children []string `yaml:"children,omitempty"`

	// As binds the resulting class id to a name for later steps.
	// Optional; an unbound result can still dedup later adds.
	As string `yaml:"as,omitempty"`
}

// Asserts validates the graph after execution. All checks run against
// canonical state (the executor rebuilds before evaluating them).
type Asserts struct {
	// Equiv lists name pairs that must share a canonical class.
	Equiv [][]string `yaml:"equiv,omitempty"`

	// Distinct lists name pairs that must not share a canonical class.
	Distinct [][]string `yaml:"distinct,omitempty"`

	// Classes, when present, is the expected number of canonical classes.
	// Nil means unchecked; zero is a real assertion on an empty graph.
	Classes *int `yaml:"classes,omitempty"`
}

// Load reads, schema-validates, and decodes a script file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load script: %w", err)
	}
	return Parse(data)
}

// Parse schema-validates and decodes script YAML.
//
// Validation happens in two layers: the CUE schema checks shape and types,
// then resolve checks what the schema cannot express (steps set exactly one
// operation, references resolve to earlier bindings, no rebinding).
func Parse(data []byte) (*Script, error) {
	if errs := ValidateBytes(data); len(errs) > 0 {
		return nil, fmt.Errorf("parse script: %w", errs[0])
	}

	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}

	if err := s.resolve(); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	return &s, nil
}

// resolve checks the structural rules the CUE schema cannot express.
func (s *Script) resolve() error {
	bound := make(map[string]struct{})
	for i, step := range s.Steps {
		set := 0
		if step.Add != nil {
			set++
		}
		if step.Merge != nil {
			set++
		}
		if step.Rebuild {
			set++
		}
		if set != 1 {
			return &ValidationError{
				Path:    fmt.Sprintf("steps[%d]", i),
				Message: "step must set exactly one of add, merge, rebuild",
			}
		}

		switch {
		case step.Add != nil:
			for j, ref := range step.Add.Children {
				if _, ok := bound[ref]; !ok {
					return &ValidationError{
						Path:    fmt.Sprintf("steps[%d].add.children[%d]", i, j),
						Message: fmt.Sprintf("unbound reference %q", ref),
					}
				}
			}
			if name := step.Add.As; name != "" {
				if _, ok := bound[name]; ok {
					return &ValidationError{
						Path:    fmt.Sprintf("steps[%d].add.as", i),
						Message: fmt.Sprintf("name %q already bound", name),
					}
				}
				bound[name] = struct{}{}
			}
		case step.Merge != nil:
			if len(step.Merge) != 2 {
				return &ValidationError{
					Path:    fmt.Sprintf("steps[%d].merge", i),
					Message: "merge takes exactly two names",
				}
			}
			for j, ref := range step.Merge {
				if _, ok := bound[ref]; !ok {
					return &ValidationError{
						Path:    fmt.Sprintf("steps[%d].merge[%d]", i, j),
						Message: fmt.Sprintf("unbound reference %q", ref),
					}
				}
			}
		}
	}

	if s.Asserts != nil {
		for i, pair := range append(append([][]string{}, s.Asserts.Equiv...), s.Asserts.Distinct...) {
			for _, ref := range pair {
				if _, ok := bound[ref]; !ok {
					return &ValidationError{
						Path:    fmt.Sprintf("asserts[%d]", i),
						Message: fmt.Sprintf("unbound reference %q", ref),
					}
				}
			}
		}
	}

	return nil
}
