package host

import (
	"fmt"
	"strings"

	errorsmod "cosmossdk.io/errors"
)

const (
	// KeyConnectionIdentifierPrefix is the prefix of generated connection identifiers.
	KeyConnectionIdentifierPrefix = "connection"
	// KeyChannelIdentifierPrefix is the prefix of generated channel identifiers.
	KeyChannelIdentifierPrefix = "channel"
)

// ChainID identifies a counterparty chain, e.g. "cosmoshub-4".
type ChainID string

// ClientID identifies a light client, e.g. "07-tendermint-0".
type ClientID string

// ConnectionID identifies a connection end, e.g. "connection-0".
type ConnectionID string

// ChannelID identifies a channel end, e.g. "channel-0".
type ChannelID string

// PortID identifies a port, e.g. "transfer".
type PortID string

// NewChainID validates id and returns it as a ChainID.
func NewChainID(id string) (ChainID, error) {
	if err := ChainIdentifierValidator(id); err != nil {
		return "", errorsmod.Wrap(err, "chain id")
	}
	return ChainID(id), nil
}

// NewClientID validates id and returns it as a ClientID.
func NewClientID(id string) (ClientID, error) {
	if err := ClientIdentifierValidator(id); err != nil {
		return "", errorsmod.Wrap(err, "client id")
	}
	return ClientID(id), nil
}

// NewConnectionID validates id and returns it as a ConnectionID.
func NewConnectionID(id string) (ConnectionID, error) {
	if err := ConnectionIdentifierValidator(id); err != nil {
		return "", errorsmod.Wrap(err, "connection id")
	}
	return ConnectionID(id), nil
}

// NewChannelID validates id and returns it as a ChannelID.
func NewChannelID(id string) (ChannelID, error) {
	if err := ChannelIdentifierValidator(id); err != nil {
		return "", errorsmod.Wrap(err, "channel id")
	}
	return ChannelID(id), nil
}

// NewPortID validates id and returns it as a PortID.
func NewPortID(id string) (PortID, error) {
	if err := PortIdentifierValidator(id); err != nil {
		return "", errorsmod.Wrap(err, "port id")
	}
	return PortID(id), nil
}

// MustClientID is NewClientID that panics on invalid input. Intended for constants.
func MustClientID(id string) ClientID {
	clientID, err := NewClientID(id)
	if err != nil {
		panic(err)
	}
	return clientID
}

// MustConnectionID is NewConnectionID that panics on invalid input.
func MustConnectionID(id string) ConnectionID {
	connectionID, err := NewConnectionID(id)
	if err != nil {
		panic(err)
	}
	return connectionID
}

// MustChannelID is NewChannelID that panics on invalid input.
func MustChannelID(id string) ChannelID {
	channelID, err := NewChannelID(id)
	if err != nil {
		panic(err)
	}
	return channelID
}

// MustPortID is NewPortID that panics on invalid input.
func MustPortID(id string) PortID {
	portID, err := NewPortID(id)
	if err != nil {
		panic(err)
	}
	return portID
}

func (id ChainID) String() string      { return string(id) }
func (id ClientID) String() string     { return string(id) }
func (id ConnectionID) String() string { return string(id) }
func (id ChannelID) String() string    { return string(id) }
func (id PortID) String() string       { return string(id) }

// RevisionNumber returns the revision number encoded in a chain id of the form
// {chain_name}-{revision_number}. Chain ids not in that format have revision 0.
func (id ChainID) RevisionNumber() uint64 {
	idx := strings.LastIndex(string(id), "-")
	if idx < 0 || idx == len(id)-1 {
		return 0
	}

	revision, ok := parseCanonicalUint(string(id)[idx+1:])
	if !ok {
		return 0
	}
	return revision
}

// FormatClientIdentifier returns the client identifier with the sequence appended.
// This is an SDK specific format not enforced by IBC protocol.
func FormatClientIdentifier(clientType string, sequence uint64) (ClientID, error) {
	return NewClientID(fmt.Sprintf("%s-%d", clientType, sequence))
}

// ParseClientIdentifier parses the client type and sequence from the client identifier.
func ParseClientIdentifier(clientID ClientID) (string, uint64, error) {
	split := strings.Split(string(clientID), "-")
	if len(split) < 2 {
		return "", 0, errorsmod.Wrapf(ErrInvalidID, "client identifier %s must be in format: `{client-type}-{N}`", clientID)
	}

	clientType := strings.Join(split[:len(split)-1], "-")
	if strings.TrimSpace(clientType) == "" {
		return "", 0, errorsmod.Wrap(ErrInvalidID, "client identifier must be in format: `{client-type}-{N}` and client type cannot be blank")
	}

	sequence, err := parseSequence(split[len(split)-1])
	if err != nil {
		return "", 0, errorsmod.Wrapf(err, "client identifier %s", clientID)
	}

	return clientType, sequence, nil
}

// FormatConnectionIdentifier returns the connection identifier with the sequence appended.
func FormatConnectionIdentifier(sequence uint64) ConnectionID {
	return ConnectionID(fmt.Sprintf("%s-%d", KeyConnectionIdentifierPrefix, sequence))
}

// FormatChannelIdentifier returns the channel identifier with the sequence appended.
func FormatChannelIdentifier(sequence uint64) ChannelID {
	return ChannelID(fmt.Sprintf("%s-%d", KeyChannelIdentifierPrefix, sequence))
}

func parseSequence(s string) (uint64, error) {
	if len(s) > 1 && s[0] == '0' {
		return 0, errorsmod.Wrap(ErrInvalidID, "identifier sequence cannot contain leading zeros")
	}

	sequence, ok := parseCanonicalUint(s)
	if !ok {
		return 0, errorsmod.Wrapf(ErrInvalidID, "invalid identifier sequence %s", s)
	}
	return sequence, nil
}
