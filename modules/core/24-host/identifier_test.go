package host_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	host "github.com/cosmos/ibc-solo-machine/modules/core/24-host"
)

type testCase struct {
	msg     string
	id      string
	expPass bool
}

func TestDefaultIdentifierValidator(t *testing.T) {
	testCases := []testCase{
		{"valid lowercase", "lowercaseid", true},
		{"valid id special chars", "._+-#[]<>._+-#[]<>", true},
		{"valid id lower and special chars", "lower._+-#[]<>", true},
		{"numeric id", "1234567890", true},
		{"uppercase id", "NOTLOWERCASE", true},
		{"blank id", "               ", false},
		{"id length out of range", "1", false},
		{"id is too long", "this identifier is too long to be used as a valid identifier", false},
		{"path-like id", "lower/case/id", false},
		{"invalid id", "(clientid)", false},
		{"empty string", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.msg, func(t *testing.T) {
			err := host.ClientIdentifierValidator(tc.id)
			err1 := host.ConnectionIdentifierValidator(tc.id)
			err2 := host.ChannelIdentifierValidator(tc.id)
			err3 := host.PortIdentifierValidator(tc.id)
			if tc.expPass {
				require.NoError(t, err, tc.msg)
				require.NoError(t, err1, tc.msg)
				require.NoError(t, err2, tc.msg)
				require.NoError(t, err3, tc.msg)
			} else {
				require.Error(t, err, tc.msg)
				require.Error(t, err1, tc.msg)
				require.Error(t, err2, tc.msg)
				require.Error(t, err3, tc.msg)
				require.ErrorIs(t, err, host.ErrInvalidID)
			}
		})
	}
}

func TestIdentifierConstructors(t *testing.T) {
	testCases := []struct {
		msg     string
		newFn   func() (fmt.Stringer, error)
		expErr  error
		expRule string
	}{
		{
			"valid client id",
			func() (fmt.Stringer, error) { return host.NewClientID("07-tendermint-0") },
			nil, "",
		},
		{
			"client id too short",
			func() (fmt.Stringer, error) { return host.NewClientID("07-tm-0") },
			host.ErrInvalidID, "invalid length",
		},
		{
			"valid connection id",
			func() (fmt.Stringer, error) { return host.NewConnectionID("connection-0") },
			nil, "",
		},
		{
			"connection id with separator",
			func() (fmt.Stringer, error) { return host.NewConnectionID("connection/0") },
			host.ErrInvalidID, "separator",
		},
		{
			"valid channel id",
			func() (fmt.Stringer, error) { return host.NewChannelID("channel-0") },
			nil, "",
		},
		{
			"blank channel id",
			func() (fmt.Stringer, error) { return host.NewChannelID("   ") },
			host.ErrInvalidID, "blank",
		},
		{
			"valid port id",
			func() (fmt.Stringer, error) { return host.NewPortID("transfer") },
			nil, "",
		},
		{
			"port id with disallowed characters",
			func() (fmt.Stringer, error) { return host.NewPortID("trans fer") },
			host.ErrInvalidID, "alphanumeric",
		},
		{
			"valid chain id",
			func() (fmt.Stringer, error) { return host.NewChainID("cosmoshub-4") },
			nil, "",
		},
		{
			"chain id too long",
			func() (fmt.Stringer, error) { return host.NewChainID(strings.Repeat("a", host.MaxChainIDLength+1)) },
			host.ErrInvalidID, "invalid length",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.msg, func(t *testing.T) {
			id, err := tc.newFn()
			if tc.expErr == nil {
				require.NoError(t, err)
				require.NotEmpty(t, id.String())
			} else {
				require.ErrorIs(t, err, tc.expErr)
				require.Contains(t, err.Error(), tc.expRule)
			}
		})
	}
}

func TestParseClientIdentifier(t *testing.T) {
	testCases := []struct {
		name       string
		clientID   host.ClientID
		clientType string
		sequence   uint64
		expPass    bool
	}{
		{"valid 0", "07-tendermint-0", "07-tendermint", 0, true},
		{"valid 1", "07-tendermint-1", "07-tendermint", 1, true},
		{"solo machine", "06-solomachine-12", "06-solomachine", 12, true},
		{"invalid uint64", "07-tendermint-18446744073709551616", "07-tendermint", 0, false},
		{"leading zero", "07-tendermint-01", "07-tendermint", 0, false},
		{"missing sequence", "tendermint", "", 0, false},
		{"blank client type", "-0", "", 0, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			clientType, sequence, err := host.ParseClientIdentifier(tc.clientID)
			if tc.expPass {
				require.NoError(t, err)
				require.Equal(t, tc.clientType, clientType)
				require.Equal(t, tc.sequence, sequence)
			} else {
				require.ErrorIs(t, err, host.ErrInvalidID)
			}
		})
	}
}

func TestFormatIdentifiers(t *testing.T) {
	clientID, err := host.FormatClientIdentifier("07-tendermint", 3)
	require.NoError(t, err)
	require.Equal(t, host.ClientID("07-tendermint-3"), clientID)

	_, err = host.FormatClientIdentifier("", 3)
	require.Error(t, err)

	require.Equal(t, host.ConnectionID("connection-7"), host.FormatConnectionIdentifier(7))
	require.Equal(t, host.ChannelID("channel-2"), host.FormatChannelIdentifier(2))
	require.NoError(t, host.ConnectionIdentifierValidator(host.FormatConnectionIdentifier(0).String()))
	require.NoError(t, host.ChannelIdentifierValidator(host.FormatChannelIdentifier(0).String()))
}

func TestChainIDRevisionNumber(t *testing.T) {
	require.Equal(t, uint64(4), host.ChainID("cosmoshub-4").RevisionNumber())
	require.Equal(t, uint64(0), host.ChainID("testchain").RevisionNumber())
	require.Equal(t, uint64(0), host.ChainID("testchain-").RevisionNumber())
	require.Equal(t, uint64(0), host.ChainID("evmos_9000-x").RevisionNumber())
	require.Equal(t, uint64(0), host.ChainID("chain-01").RevisionNumber())
	require.Equal(t, uint64(0), host.ChainID("chain-00").RevisionNumber())
	require.Equal(t, uint64(0), host.ChainID("chain-0").RevisionNumber())
}

func TestMustIdentifiers(t *testing.T) {
	require.NotPanics(t, func() { host.MustClientID("07-tendermint-0") })
	require.NotPanics(t, func() { host.MustConnectionID("connection-0") })
	require.NotPanics(t, func() { host.MustChannelID("channel-0") })
	require.NotPanics(t, func() { host.MustPortID("transfer") })
	require.Panics(t, func() { host.MustClientID("") })
	require.Panics(t, func() { host.MustPortID("a") })
}
