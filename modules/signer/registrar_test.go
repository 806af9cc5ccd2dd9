package signer_test

import (
	"errors"
	"fmt"
	"path/filepath"
	"plugin"
	"testing"

	"github.com/stretchr/testify/require"
	testifysuite "github.com/stretchr/testify/suite"

	"cosmossdk.io/log"

	"github.com/cosmos/ibc-solo-machine/modules/signer"
)

// fakePlugin serves symbols from memory in place of a shared object.
type fakePlugin map[string]plugin.Symbol

func (p fakePlugin) Lookup(name string) (plugin.Symbol, error) {
	symbol, ok := p[name]
	if !ok {
		return nil, fmt.Errorf("plugin: symbol %s not found", name)
	}
	return symbol, nil
}

func openerFor(p fakePlugin) signer.PluginOpener {
	return func(string) (signer.PluginSymbols, error) {
		return p, nil
	}
}

func registering(signers ...signer.Signer) fakePlugin {
	return fakePlugin{
		signer.PluginSymbol: func(registrar signer.Registrar) error {
			for _, s := range signers {
				registrar.RegisterSigner(s)
			}
			return nil
		},
	}
}

type RegistrarTestSuite struct {
	testifysuite.Suite
}

func TestRegistrarTestSuite(t *testing.T) {
	testifysuite.Run(t, new(RegistrarTestSuite))
}

func (suite *RegistrarTestSuite) TestLoadFromPath() {
	var opener signer.PluginOpener

	testCases := []struct {
		name     string
		malleate func()
		expState signer.RegistrarState
		expErr   error
	}{
		{
			"success: plugin registers one signer",
			func() { opener = openerFor(registering(newFakeSigner("cosmos"))) },
			signer.StateReady,
			nil,
		},
		{
			"success: plugin registers several signers",
			func() { opener = openerFor(registering(newFakeSigner("cosmos"), newFakeSigner("cro"))) },
			signer.StateReady,
			nil,
		},
		{
			"failure: artifact cannot be opened",
			func() {
				opener = func(path string) (signer.PluginSymbols, error) {
					return nil, fmt.Errorf("plugin.Open(%q): realpath failed", path)
				}
			},
			signer.StateFailed,
			signer.ErrPluginLoad,
		},
		{
			"failure: entry point missing",
			func() { opener = openerFor(fakePlugin{}) },
			signer.StateFailed,
			signer.ErrPluginLoad,
		},
		{
			"failure: entry point has wrong type",
			func() {
				opener = openerFor(fakePlugin{signer.PluginSymbol: func() error { return nil }})
			},
			signer.StateFailed,
			signer.ErrPluginLoad,
		},
		{
			"failure: entry point errors",
			func() {
				opener = openerFor(fakePlugin{signer.PluginSymbol: func(signer.Registrar) error {
					return errors.New("ledger not connected")
				}})
			},
			signer.StateFailed,
			signer.ErrPluginLoad,
		},
		{
			"failure: entry point registers a nil signer",
			func() {
				opener = openerFor(fakePlugin{signer.PluginSymbol: func(r signer.Registrar) error {
					r.RegisterSigner(nil)
					return nil
				}})
			},
			signer.StateFailed,
			signer.ErrPluginLoad,
		},
		{
			"failure: entry point panics after registering",
			func() {
				opener = openerFor(fakePlugin{signer.PluginSymbol: func(r signer.Registrar) error {
					r.RegisterSigner(newFakeSigner("cosmos"))
					panic("boom")
				}})
			},
			signer.StateFailed,
			signer.ErrPluginLoad,
		},
		{
			"failure: plugin registers nothing",
			func() { opener = openerFor(registering()) },
			signer.StateFailed,
			signer.ErrNoSignerRegistered,
		},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			tc.malleate()

			builder := signer.NewBuilder(log.NewNopLogger(), signer.WithPluginOpener(opener))
			suite.Require().Equal(signer.StateEmpty, builder.State())

			err := builder.LoadFromPath("/opt/solo-machine/signer.so")
			suite.Require().Equal(tc.expState, builder.State())

			if tc.expErr != nil {
				suite.Require().ErrorIs(err, tc.expErr)
				suite.Require().Contains(err.Error(), "/opt/solo-machine/signer.so")
				suite.Require().Zero(builder.Len())

				_, err = builder.Build()
				suite.Require().ErrorIs(err, signer.ErrInvalidRegistrarState)
				return
			}

			suite.Require().NoError(err)
			registry, err := builder.Build()
			suite.Require().NoError(err)
			suite.Require().Equal(builder.Len(), registry.Len())
		})
	}
}

func (suite *RegistrarTestSuite) TestNoTransitionsOutOfTerminalStates() {
	ready := signer.NewBuilder(log.NewNopLogger(), signer.WithPluginOpener(openerFor(registering(newFakeSigner("cosmos")))))
	suite.Require().NoError(ready.LoadFromPath("first.so"))
	err := ready.LoadFromPath("second.so")
	suite.Require().ErrorIs(err, signer.ErrInvalidRegistrarState)
	suite.Require().Equal(signer.StateReady, ready.State())
	suite.Require().Equal(1, ready.Len())

	failed := signer.NewBuilder(log.NewNopLogger(), signer.WithPluginOpener(openerFor(registering())))
	suite.Require().ErrorIs(failed.LoadFromPath("empty.so"), signer.ErrNoSignerRegistered)
	err = failed.LoadFromPath("empty.so")
	suite.Require().ErrorIs(err, signer.ErrInvalidRegistrarState)
	suite.Require().Equal(signer.StateFailed, failed.State())
}

func (suite *RegistrarTestSuite) TestRegisterSigner() {
	builder := signer.NewBuilder(log.NewNopLogger())

	_, err := builder.Build()
	suite.Require().ErrorIs(err, signer.ErrNoSignerRegistered)

	first, second := newFakeSigner("cosmos"), newFakeSigner("cosmos")
	builder.RegisterSigner(first)
	suite.Require().Equal(signer.StateReady, builder.State())

	// the same signer may be registered twice
	builder.RegisterSigner(second)
	builder.RegisterSigner(second)

	registry, err := builder.Build()
	suite.Require().NoError(err)
	suite.Require().Equal(3, registry.Len())
	got, ok := registry.First()
	suite.Require().True(ok)
	suite.Require().Same(first, got)
	got, ok = registry.Last()
	suite.Require().True(ok)
	suite.Require().Same(second, got)

	signers := registry.Signers()
	signers[0] = nil
	got, _ = registry.First()
	suite.Require().Same(first, got, "Signers must return a copy")

	suite.Require().Panics(func() { builder.RegisterSigner(newFakeSigner("cosmos")) })

	_, err = builder.Build()
	suite.Require().ErrorIs(err, signer.ErrInvalidRegistrarState)

	err = builder.LoadFromPath("late.so")
	suite.Require().ErrorIs(err, signer.ErrInvalidRegistrarState)
}

func (suite *RegistrarTestSuite) TestEmptyRegistry() {
	for _, registry := range []*signer.Registry{{}, nil} {
		suite.Require().NotPanics(func() {
			_, ok := registry.First()
			suite.Require().False(ok)
			_, ok = registry.Last()
			suite.Require().False(ok)
			suite.Require().Zero(registry.Len())
			suite.Require().Empty(registry.Signers())
		})
	}
}

func (suite *RegistrarTestSuite) TestRegisterNilSigner() {
	builder := signer.NewBuilder(log.NewNopLogger())
	suite.Require().Panics(func() { builder.RegisterSigner(nil) })
}

func (suite *RegistrarTestSuite) TestOpenPluginMissingArtifact() {
	builder := signer.NewBuilder(log.NewNopLogger())

	err := builder.LoadFromPath(filepath.Join(suite.T().TempDir(), "missing.so"))
	suite.Require().ErrorIs(err, signer.ErrPluginLoad)
	suite.Require().Equal(signer.StateFailed, builder.State())
}

func TestRegistrarStateString(t *testing.T) {
	require.Equal(t, "empty", signer.StateEmpty.String())
	require.Equal(t, "loading", signer.StateLoading.String())
	require.Equal(t, "ready", signer.StateReady.String())
	require.Equal(t, "failed", signer.StateFailed.String())
	require.Equal(t, "unknown(9)", signer.RegistrarState(9).String())
}
