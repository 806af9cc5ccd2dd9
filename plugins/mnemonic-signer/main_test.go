package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"cosmossdk.io/log"

	"github.com/cosmos/ibc-solo-machine/modules/signer"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func TestRegisterSigner(t *testing.T) {
	builder := signer.NewBuilder(log.NewNopLogger())
	require.ErrorIs(t, RegisterSigner(builder), signer.ErrInvalidConfig)
	require.Equal(t, 0, builder.Len())

	t.Setenv(signer.FlagMnemonic, testMnemonic)
	require.NoError(t, RegisterSigner(builder))

	registry, err := builder.Build()
	require.NoError(t, err)
	require.Equal(t, 1, registry.Len())

	// the symbol matches the type the loader asserts
	var _ func(signer.Registrar) error = RegisterSigner
}
