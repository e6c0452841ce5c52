package script

import (
	_ "embed"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// ValidationError reports a schema or reference violation in a script.
type ValidationError struct {
	// Path locates the offending field (CUE path or steps[i] index).
	Path string

	// Message describes the violation.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

// ValidateBytes checks script YAML against the embedded CUE schema without
// executing it. Returns all violations found, empty for a valid script.
func ValidateBytes(data []byte) []*ValidationError {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return []*ValidationError{{Message: fmt.Sprintf("not valid YAML: %v", err)}}
	}
	if doc == nil {
		return []*ValidationError{{Message: "empty script"}}
	}

	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		// The schema is embedded; failing to compile it is a defect.
		panic(fmt.Sprintf("embedded schema does not compile: %v", err))
	}

	def := schema.LookupPath(cue.ParsePath("#Script"))
	value := ctx.Encode(doc)
	if err := value.Err(); err != nil {
		return []*ValidationError{{Message: fmt.Sprintf("encoding script: %v", err)}}
	}

	unified := def.Unify(value)
	if err := unified.Validate(cue.Final(), cue.Concrete(true)); err != nil {
		var out []*ValidationError
		for _, e := range cueerrors.Errors(err) {
			out = append(out, &ValidationError{
				Path:    strings.Join(e.Path(), "."),
				Message: e.Error(),
			})
		}
		return out
	}

	return nil
}
