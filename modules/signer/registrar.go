package signer

import (
	"errors"
	"fmt"
	"os"
	"plugin"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
)

// PluginSymbol is the name of the function every signer plugin exports. Its
// type must be func(signer.Registrar) error.
const PluginSymbol = "RegisterSigner"

// Registrar is the callback surface handed to signer plugins.
type Registrar interface {
	RegisterSigner(signer Signer)
}

// RegistrarState is the startup lifecycle state of a Builder.
type RegistrarState int

const (
	StateEmpty RegistrarState = iota
	StateLoading
	StateReady
	StateFailed
)

func (s RegistrarState) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// PluginSymbols is the lookup side of an opened plugin artifact.
type PluginSymbols interface {
	Lookup(name string) (plugin.Symbol, error)
}

// PluginOpener opens the plugin artifact at path.
type PluginOpener func(path string) (PluginSymbols, error)

// OpenPlugin opens a Go plugin built with -buildmode=plugin.
func OpenPlugin(path string) (PluginSymbols, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	p, err := plugin.Open(path)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithPluginOpener replaces the plugin loader used by LoadFromPath.
func WithPluginOpener(opener PluginOpener) BuilderOption {
	return func(b *Builder) {
		b.openPlugin = opener
	}
}

var _ Registrar = (*Builder)(nil)

// Builder accumulates signers during startup. It is not safe for concurrent
// use: every registration must happen before Build, and only the Registry
// returned by Build is shared between goroutines.
type Builder struct {
	logger     log.Logger
	openPlugin PluginOpener

	signers []Signer
	state   RegistrarState
	sealed  bool
}

// NewBuilder returns an empty Builder.
func NewBuilder(logger log.Logger, opts ...BuilderOption) *Builder {
	b := &Builder{
		logger:     logger.With("module", "signer-registrar"),
		openPlugin: OpenPlugin,
		state:      StateEmpty,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// State returns the lifecycle state of the builder.
func (b *Builder) State() RegistrarState {
	return b.state
}

// Len returns the number of signers registered so far.
func (b *Builder) Len() int {
	return len(b.signers)
}

// RegisterSigner appends signer to the registry. It never fails while the
// builder is open and panics once Build has been called.
func (b *Builder) RegisterSigner(signer Signer) {
	if b.sealed {
		panic(errors.New("signer registrar sealed; cannot register signer after build"))
	}
	if signer == nil {
		panic(errors.New("cannot register nil signer"))
	}

	b.signers = append(b.signers, signer)
	if b.state == StateEmpty {
		b.state = StateReady
	}
	b.logger.Debug("registered signer", "count", len(b.signers), "account_prefix", signer.AccountPrefix())
}

// LoadFromPath opens the plugin at path and calls its RegisterSigner entry
// point with the builder. The plugin must register at least one signer.
// Loading is only possible from the empty state; the builder ends up Ready on
// success and Failed otherwise.
func (b *Builder) LoadFromPath(path string) error {
	if b.sealed || b.state != StateEmpty {
		return errorsmod.Wrapf(ErrInvalidRegistrarState, "cannot load plugin %s in state %s", path, b.state)
	}

	b.state = StateLoading
	before := len(b.signers)

	if err := b.loadPlugin(path); err != nil {
		b.signers = b.signers[:before]
		b.state = StateFailed
		return err
	}

	if len(b.signers) == before {
		b.state = StateFailed
		return errorsmod.Wrapf(ErrNoSignerRegistered, "plugin %s", path)
	}

	b.state = StateReady
	b.logger.Info("loaded signer plugin", "path", path, "signers", len(b.signers)-before)
	return nil
}

func (b *Builder) loadPlugin(path string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errorsmod.Wrapf(ErrPluginLoad, "%s entry point of %s panicked: %v", PluginSymbol, path, r)
		}
	}()

	symbols, err := b.openPlugin(path)
	if err != nil {
		return errorsmod.Wrapf(ErrPluginLoad, "open %s: %s", path, err)
	}

	symbol, err := symbols.Lookup(PluginSymbol)
	if err != nil {
		return errorsmod.Wrapf(ErrPluginLoad, "lookup %s in %s: %s", PluginSymbol, path, err)
	}

	register, ok := symbol.(func(Registrar) error)
	if !ok {
		return errorsmod.Wrapf(ErrPluginLoad, "symbol %s in %s has type %T, expected func(signer.Registrar) error", PluginSymbol, path, symbol)
	}

	if err := register(b); err != nil {
		return errorsmod.Wrapf(ErrPluginLoad, "%s entry point of %s: %s", PluginSymbol, path, err)
	}
	return nil
}

// Build seals the builder and returns the immutable Registry.
func (b *Builder) Build() (*Registry, error) {
	if b.sealed {
		return nil, errorsmod.Wrap(ErrInvalidRegistrarState, "registrar already built")
	}

	switch b.state {
	case StateReady:
	case StateEmpty:
		return nil, ErrNoSignerRegistered
	default:
		return nil, errorsmod.Wrapf(ErrInvalidRegistrarState, "cannot build registrar in state %s", b.state)
	}

	b.sealed = true
	signers := make([]Signer, len(b.signers))
	copy(signers, b.signers)
	return &Registry{signers: signers}, nil
}

// Registry is the read-only set of signers available to the process, in
// registration order. It is safe for concurrent use.
type Registry struct {
	signers []Signer
}

// Len returns the number of registered signers.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.signers)
}

// Signers returns the registered signers in registration order.
func (r *Registry) Signers() []Signer {
	if r == nil {
		return nil
	}
	signers := make([]Signer, len(r.signers))
	copy(signers, r.signers)
	return signers
}

// First returns the earliest registered signer. It reports false when the
// registry is empty.
func (r *Registry) First() (Signer, bool) {
	if r == nil || len(r.signers) == 0 {
		return nil, false
	}
	return r.signers[0], true
}

// Last returns the most recently registered signer. It reports false when the
// registry is empty.
func (r *Registry) Last() (Signer, bool) {
	if r == nil || len(r.signers) == 0 {
		return nil, false
	}
	return r.signers[len(r.signers)-1], true
}
