package signer_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"cosmossdk.io/log"

	"github.com/cosmos/ibc-solo-machine/modules/signer"
)

func fakeFactory(prefix string) signer.Factory {
	return func(cfg signer.Config, _ log.Logger) (signer.Signer, error) {
		return newFakeSigner(prefix + cfg.AccountPrefix), nil
	}
}

func TestRouter(t *testing.T) {
	router := signer.NewRouter()
	require.False(t, router.HasRoute("mnemonic"))

	router.AddRoute("mnemonic", fakeFactory("")).AddRoute("ledger", fakeFactory(""))
	require.True(t, router.HasRoute("mnemonic"))
	require.True(t, router.HasRoute("ledger"))

	_, ok := router.GetRoute("ledger")
	require.True(t, ok)
	_, ok = router.GetRoute("/usr/lib/signer.so")
	require.False(t, ok)

	require.Panics(t, func() { router.AddRoute("mnemonic", fakeFactory("")) })
	require.Panics(t, func() { router.AddRoute("ledger-hid", fakeFactory("")) })
}

func TestResolve(t *testing.T) {
	cfg := signer.DefaultConfig()
	errFactory := errors.New("device not found")

	router := signer.NewRouter().
		AddRoute("fake", fakeFactory("x")).
		AddRoute("broken", func(signer.Config, log.Logger) (signer.Signer, error) { return nil, errFactory })

	testCases := []struct {
		name      string
		selector  string
		expPrefix string
		expErr    error
	}{
		{"success: built-in backend", "fake", "xcosmos", nil},
		{"success: plugin path", "/usr/lib/solo-machine/fake.so", "plugin", nil},
		{"failure: backend errors", "broken", "", errFactory},
		{"failure: blank selector", "", "", signer.ErrInvalidConfig},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			builder := signer.NewBuilder(
				log.NewNopLogger(),
				signer.WithPluginOpener(openerFor(registering(newFakeSigner("plugin")))),
			)

			registry, err := signer.Resolve(builder, router, tc.selector, cfg, log.NewNopLogger())
			if tc.expErr != nil {
				require.ErrorIs(t, err, tc.expErr)
				require.Nil(t, registry)
				return
			}

			require.NoError(t, err)
			require.Equal(t, 1, registry.Len())
			first, ok := registry.First()
			require.True(t, ok)
			require.Equal(t, tc.expPrefix, first.AccountPrefix())
		})
	}
}

func TestResolvePluginFailure(t *testing.T) {
	builder := signer.NewBuilder(log.NewNopLogger(), signer.WithPluginOpener(openerFor(registering())))

	_, err := signer.Resolve(builder, signer.NewRouter(), "empty.so", signer.DefaultConfig(), log.NewNopLogger())
	require.ErrorIs(t, err, signer.ErrNoSignerRegistered)
	require.Equal(t, signer.StateFailed, builder.State())
}
