package ibctesting

import (
	"time"

	clienttypes "github.com/cosmos/ibc-go/v10/modules/core/02-client/types"
	connectiontypes "github.com/cosmos/ibc-go/v10/modules/core/03-connection/types"
	channeltypes "github.com/cosmos/ibc-go/v10/modules/core/04-channel/types"
	commitmenttypes "github.com/cosmos/ibc-go/v10/modules/core/23-commitment/types"
	ibctm "github.com/cosmos/ibc-go/v10/modules/light-clients/07-tendermint"

	host "github.com/cosmos/ibc-solo-machine/modules/core/24-host"
)

const (
	DefaultChainID         = "cosmoshub-4"
	DefaultTrustingPeriod  = time.Hour * 24 * 7 * 2
	DefaultUnbondingPeriod = time.Hour * 24 * 7 * 3
	DefaultMaxClockDrift   = time.Second * 10
	DefaultDelayPeriod     = uint64(0)

	// TestMnemonic is a well known BIP-39 test vector. Never use it for real funds.
	TestMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	// DefaultHDPath is the cosmos hub account 0 derivation path.
	DefaultHDPath = "m/44'/118'/0'/0/0"
)

var (
	DefaultClientID     = host.MustClientID("07-tendermint-0")
	DefaultConnectionID = host.MustConnectionID("connection-0")
	DefaultPortID       = host.MustPortID("transfer")
	DefaultChannelID    = host.MustChannelID("channel-0")

	DefaultHeight       = clienttypes.NewHeight(4, 100)
	DefaultUpgradePath  = []string{"upgrade", "upgradedIBCState"}
	DefaultMerklePrefix = commitmenttypes.NewMerklePrefix([]byte("ibc"))

	ConnectionVersion = connectiontypes.NewVersion("1", []string{"ORDER_ORDERED", "ORDER_UNORDERED"})
)

// NewTendermintClientState returns a tendermint client state tracking chainID at height.
func NewTendermintClientState(chainID string, height clienttypes.Height) *ibctm.ClientState {
	return &ibctm.ClientState{
		ChainId:         chainID,
		TrustLevel:      ibctm.DefaultTrustLevel,
		TrustingPeriod:  DefaultTrustingPeriod,
		UnbondingPeriod: DefaultUnbondingPeriod,
		MaxClockDrift:   DefaultMaxClockDrift,
		LatestHeight:    height,
		UpgradePath:     DefaultUpgradePath,
	}
}

// NewTendermintConsensusState returns a consensus state committing to root at timestamp.
func NewTendermintConsensusState(timestamp time.Time, root []byte) *ibctm.ConsensusState {
	return &ibctm.ConsensusState{
		Timestamp:          timestamp.UTC(),
		Root:               commitmenttypes.NewMerkleRoot(root),
		NextValidatorsHash: []byte("next-validators-hash-0000000000000"),
	}
}

// NewConnectionEnd returns a connection end of DefaultClientID in the given state.
func NewConnectionEnd(state connectiontypes.State, counterpartyConnectionID string) *connectiontypes.ConnectionEnd {
	counterparty := connectiontypes.NewCounterparty("06-solomachine-0", counterpartyConnectionID, DefaultMerklePrefix)
	connection := connectiontypes.NewConnectionEnd(state, DefaultClientID.String(), counterparty, []*connectiontypes.Version{ConnectionVersion}, DefaultDelayPeriod)
	return &connection
}

// NewChannel returns an unordered channel end on DefaultConnectionID in the given state.
func NewChannel(state channeltypes.State, counterpartyChannelID string) *channeltypes.Channel {
	counterparty := channeltypes.NewCounterparty(DefaultPortID.String(), counterpartyChannelID)
	channel := channeltypes.NewChannel(state, channeltypes.UNORDERED, counterparty, []string{DefaultConnectionID.String()}, "ics20-1")
	return &channel
}
