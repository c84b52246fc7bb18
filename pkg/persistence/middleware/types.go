// Package middleware wraps design stores with cross-cutting behavior.
package middleware

import "github.com/aretw0/automaton/pkg/ports"

// Middleware allows wrapping a DesignStore to add behavior.
type Middleware func(ports.DesignStore) ports.DesignStore

// Wrap applies the middlewares to store; the first one ends up outermost.
func Wrap(store ports.DesignStore, mws ...Middleware) ports.DesignStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
