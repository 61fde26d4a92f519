package pass

import "github.com/funvibe/livens/internal/namespace"

// Definition operators. Each writes the export surface of the namespace the
// pass entered AND binds the name as a pass local, so the remainder of the
// same evaluation pass can refer to it. None of them can fail: export names
// are assumed to be valid identifiers by the time the front end calls in.

// Define installs name -> value, overwriting any prior export, and yields
// value.
func (c *Context) Define(name string, value any) any {
	c.ns.Define(name, value)
	c.Bind(name, value)
	return value
}

// DefineOnce installs name -> value only if name is not already exported;
// otherwise the existing export survives. The surviving value is bound
// locally and returned, so re-evaluated source observes the same resource
// the first pass created.
func (c *Context) DefineOnce(name string, value any) any {
	surviving := c.ns.DefineOnce(name, value)
	c.Bind(name, surviving)
	return surviving
}

// DefineFunction wraps params and body into a callable and defines it.
func (c *Context) DefineFunction(name string, params []string, body namespace.BodyFunc) *namespace.Function {
	fn := namespace.NewFunction(name, params, body)
	c.Define(name, fn)
	return fn
}
