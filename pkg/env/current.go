package env

import "github.com/jtolds/gls"

// currentKey is the gls.Values key under which WithCurrent stashes the
// environment; it is unexported so only this package can set it.
type currentKeyType struct{}

var currentKey = currentKeyType{}

var mgr = gls.NewContextManager()

// WithCurrent runs f with e bound as the goroutine-local "current"
// environment, reachable via ReadCurrent from anywhere f's call stack
// reaches (including code that has no explicit Environment parameter).
// This is a convenience only: nothing in the evaluator depends on it, and
// code should prefer threading an Environment explicitly wherever it can.
func WithCurrent(e Environment, f func()) {
	mgr.SetValues(gls.Values{currentKey: e}, f)
}

// ReadCurrent returns the goroutine-local environment bound by the
// nearest enclosing WithCurrent call on this goroutine's stack, or
// Default if there is none.
func ReadCurrent() Environment {
	if v, ok := mgr.GetValue(currentKey); ok {
		if e, ok := v.(Environment); ok {
			return e
		}
	}
	return Default
}
