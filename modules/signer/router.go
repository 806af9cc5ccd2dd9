package signer

import (
	"errors"
	"fmt"

	"cosmossdk.io/log"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Factory constructs a built-in signer backend from the startup configuration.
type Factory func(cfg Config, logger log.Logger) (Signer, error)

// Router maps built-in backend names to their factories.
type Router struct {
	routes map[string]Factory
}

// NewRouter returns an empty Router.
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]Factory),
	}
}

// AddRoute adds a backend factory under name. It returns the Router so
// AddRoute calls can be chained. It panics if the name is not alphanumeric or
// is already registered.
func (rtr *Router) AddRoute(name string, factory Factory) *Router {
	if !sdk.IsAlphaNumeric(name) {
		panic(errors.New("route expressions can only contain alphanumeric characters"))
	}
	if rtr.HasRoute(name) {
		panic(fmt.Errorf("route %s has already been registered", name))
	}

	rtr.routes[name] = factory
	return rtr
}

// HasRoute returns true if the Router has a factory registered for name.
func (rtr *Router) HasRoute(name string) bool {
	_, ok := rtr.routes[name]
	return ok
}

// GetRoute returns the factory registered for name.
func (rtr *Router) GetRoute(name string) (Factory, bool) {
	factory, ok := rtr.routes[name]
	return factory, ok
}
