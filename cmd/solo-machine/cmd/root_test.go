package cmd

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"path/filepath"
	"plugin"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"cosmossdk.io/log"

	"github.com/cosmos/cosmos-sdk/types/tx/signing"
	"github.com/cosmos/gogoproto/proto"

	channeltypes "github.com/cosmos/ibc-go/v10/modules/core/04-channel/types"
	solomachine "github.com/cosmos/ibc-go/v10/modules/light-clients/06-solomachine"

	ibcerrors "github.com/cosmos/ibc-solo-machine/internal/errors"
	host "github.com/cosmos/ibc-solo-machine/modules/core/24-host"
	"github.com/cosmos/ibc-solo-machine/modules/core/store"
	"github.com/cosmos/ibc-solo-machine/modules/signer"
	"github.com/cosmos/ibc-solo-machine/modules/signer/mnemonic"
	ibctesting "github.com/cosmos/ibc-solo-machine/testing"
)

func execute(t *testing.T, opts []signer.BuilderOption, args ...string) (string, error) {
	t.Helper()

	rootCmd := newRootCmd(NewRouter(), opts...)
	out := new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

func tempDBURI(t *testing.T) string {
	t.Helper()
	return "sqlite://" + filepath.Join(t.TempDir(), "solo.db")
}

func TestInitCmd(t *testing.T) {
	uri := tempDBURI(t)

	out, err := execute(t, nil, "init", "--db-uri", uri)
	require.NoError(t, err)
	require.Equal(t, "initialized\n", out)

	// migrations are idempotent
	_, err = execute(t, nil, "init", "--db-uri", uri)
	require.NoError(t, err)

	_, err = execute(t, nil, "init", "--db-uri", "mysql://localhost/solo")
	require.ErrorIs(t, err, store.ErrInvalidDatabaseURI)
}

func TestInitCmdFromEnv(t *testing.T) {
	t.Setenv(EnvDBURI, tempDBURI(t))

	out, err := execute(t, nil, "init")
	require.NoError(t, err)
	require.Equal(t, "initialized\n", out)
}

func TestIBCGetCmd(t *testing.T) {
	uri := tempDBURI(t)
	_, err := execute(t, nil, "init", "--db-uri", uri)
	require.NoError(t, err)

	db, err := store.OpenDB(uri)
	require.NoError(t, err)
	channel := ibctesting.NewChannel(channeltypes.OPEN, "channel-9")
	require.NoError(t, store.NewKeeper(log.NewNopLogger()).AddChannel(context.Background(), db, ibctesting.DefaultPortID, ibctesting.DefaultChannelID, channel))
	require.NoError(t, store.CloseDB(db))

	path := host.ChannelPath(ibctesting.DefaultPortID, ibctesting.DefaultChannelID).String()

	out, err := execute(t, nil, "ibc", "get", path, "--db-uri", uri, "--hex")
	require.NoError(t, err)
	expBz, err := proto.Marshal(channel)
	require.NoError(t, err)
	require.Equal(t, hex.EncodeToString(expBz)+"\n", out)

	out, err = execute(t, nil, "ibc", "get", path, "--db-uri", uri)
	require.NoError(t, err)
	require.Contains(t, out, "channel-9")

	_, err = execute(t, nil, "ibc", "get", host.ChannelPath(ibctesting.DefaultPortID, "channel-1").String(), "--db-uri", uri)
	require.ErrorIs(t, err, store.ErrMissingPath)

	_, err = execute(t, nil, "ibc", "get", host.PortPath(ibctesting.DefaultPortID).String(), "--db-uri", uri)
	require.ErrorIs(t, err, ibcerrors.ErrInvalidRequest)

	_, err = execute(t, nil, "ibc", "get", "clients/07-tendermint-0", "--db-uri", uri)
	require.ErrorIs(t, err, host.ErrInvalidPath)
}

func TestSignerShowCmd(t *testing.T) {
	t.Setenv(EnvSigner, mnemonic.BackendName)
	t.Setenv(signer.FlagMnemonic, ibctesting.TestMnemonic)

	s := ibctesting.NewMnemonicSigner(t, ibctesting.DefaultHDPath, signer.AlgoSecp256k1)
	address, err := s.AccountAddress(context.Background())
	require.NoError(t, err)

	out, err := execute(t, nil, "signer", "show")
	require.NoError(t, err)
	require.Contains(t, out, address)

	t.Setenv(signer.FlagAccountPrefix, "cro")
	out, err = execute(t, nil, "signer", "show")
	require.NoError(t, err)
	require.Contains(t, out, "address:    cro1")
}

func TestSignerSignCmd(t *testing.T) {
	t.Setenv(signer.FlagMnemonic, ibctesting.TestMnemonic)

	msg := []byte("solo machine sign bytes")
	out, err := execute(t, nil, "signer", "sign", hex.EncodeToString(msg), "--signer", mnemonic.BackendName, "--type", signer.SignDoc.String())
	require.NoError(t, err)

	sig, err := hex.DecodeString(strings.TrimSpace(out))
	require.NoError(t, err)

	pk, err := ibctesting.NewMnemonicSigner(t, ibctesting.DefaultHDPath, signer.AlgoSecp256k1).PublicKey(context.Background())
	require.NoError(t, err)
	require.NoError(t, solomachine.VerifySignature(pk.Key, msg, &signing.SingleSignatureData{Signature: sig}))

	testCases := []struct {
		name   string
		args   []string
		expErr error
	}{
		{"failure: not hex", []string{"zz"}, ibcerrors.ErrInvalidRequest},
		{"failure: empty message", []string{""}, signer.ErrEmptyMessage},
		{"failure: unknown type", []string{"00", "--type", "tx"}, signer.ErrInvalidMessageType},
		{"failure: unknown address algo", []string{"00", "--log-level", "debug"}, signer.ErrInvalidAddressAlgo},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.expErr == signer.ErrInvalidAddressAlgo {
				t.Setenv(signer.FlagAddressAlgo, "ed25519")
			}

			args := append([]string{"signer", "sign", "--signer", mnemonic.BackendName}, tc.args...)
			_, err := execute(t, nil, args...)
			require.ErrorIs(t, err, tc.expErr)
		})
	}
}

func TestSignerFromPlugin(t *testing.T) {
	pluginPath := filepath.Join(t.TempDir(), "mnemonic-signer.so")
	s := ibctesting.NewMnemonicSigner(t, ibctesting.DefaultHDPath, signer.AlgoEthSecp256k1)

	var opened string
	opener := signer.WithPluginOpener(func(path string) (signer.PluginSymbols, error) {
		opened = path
		return symbols{
			signer.PluginSymbol: func(registrar signer.Registrar) error {
				registrar.RegisterSigner(s)
				return nil
			},
		}, nil
	})

	address, err := s.AccountAddress(context.Background())
	require.NoError(t, err)

	out, err := execute(t, []signer.BuilderOption{opener}, "signer", "show", "--signer", pluginPath)
	require.NoError(t, err)
	require.Equal(t, pluginPath, opened)
	require.Contains(t, out, address)
	require.Contains(t, out, signer.AlgoEthSecp256k1.String())

	// the default opener fails on a missing artifact
	_, err = execute(t, nil, "signer", "show", "--signer", pluginPath)
	require.ErrorIs(t, err, signer.ErrPluginLoad)

	_, err = execute(t, nil, "signer", "show")
	require.ErrorIs(t, err, signer.ErrInvalidConfig)
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := execute(t, nil, "init", "--db-uri", tempDBURI(t), "--log-level", "loud")
	require.ErrorIs(t, err, ibcerrors.ErrInvalidRequest)
}

type symbols map[string]plugin.Symbol

func (s symbols) Lookup(name string) (plugin.Symbol, error) {
	symbol, ok := s[name]
	if !ok {
		return nil, fmt.Errorf("plugin: symbol %s not found", name)
	}
	return symbol, nil
}
