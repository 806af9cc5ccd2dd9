package host

import (
	"fmt"
)

const (
	// KeyClientStorePrefix defines the store prefix for IBC clients
	KeyClientStorePrefix    = "clients"
	KeyClientState          = "clientState"
	KeyConsensusStatePrefix = "consensusStates"
)

// Height is the subset of the IBC height interface needed to key consensus states.
type Height interface {
	GetRevisionNumber() uint64
	GetRevisionHeight() uint64
}

// ICS02
// The following paths are the keys to the store as defined in https://github.com/cosmos/ibc/tree/master/spec/core/ics-002-client-semantics#path-space

// FullClientPath returns the full path of a specific client path in the format:
// "clients/{clientID}/{path}".
func FullClientPath(clientID ClientID, path string) string {
	return fmt.Sprintf("%s/%s/%s", KeyClientStorePrefix, clientID, path)
}

// ClientStatePath takes a client identifier and returns a Path under which to store a
// particular client state
func ClientStatePath(clientID ClientID) Path {
	return Path(FullClientPath(clientID, KeyClientState))
}

// ConsensusStatePath takes a client identifier and returns a Path under which to
// store the consensus state of a client at the given height.
func ConsensusStatePath(clientID ClientID, height Height) Path {
	return Path(FullClientPath(clientID, consensusStateSuffix(height)))
}

func consensusStateSuffix(height Height) string {
	return fmt.Sprintf("%s/%d-%d", KeyConsensusStatePrefix, height.GetRevisionNumber(), height.GetRevisionHeight())
}
