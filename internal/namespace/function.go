package namespace

import "fmt"

// BodyFunc is a compiled function body. The front end hands one in when it
// evaluates a function definition; arguments arrive keyed by parameter name.
type BodyFunc func(args map[string]any) (any, error)

// Function is the callable value produced by function definitions. It pairs
// a parameter list with a compiled body.
type Function struct {
	Name   string
	Params []string
	Body   BodyFunc
}

// NewFunction wraps params and body into a callable value.
func NewFunction(name string, params []string, body BodyFunc) *Function {
	return &Function{Name: name, Params: params, Body: body}
}

// Call invokes the function with positional arguments.
func (f *Function) Call(args ...any) (any, error) {
	if len(args) != len(f.Params) {
		return nil, fmt.Errorf("call %s: got %d arguments, want %d", f.Name, len(args), len(f.Params))
	}
	bound := make(map[string]any, len(args))
	for i, param := range f.Params {
		bound[param] = args[i]
	}
	if f.Body == nil {
		return nil, fmt.Errorf("call %s: nil body", f.Name)
	}
	return f.Body(bound)
}

func (f *Function) String() string {
	return fmt.Sprintf("fn %s/%d", f.Name, len(f.Params))
}
