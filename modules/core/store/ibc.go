package store

import (
	"context"

	"gorm.io/gorm"

	clienttypes "github.com/cosmos/ibc-go/v10/modules/core/02-client/types"
	connectiontypes "github.com/cosmos/ibc-go/v10/modules/core/03-connection/types"
	channeltypes "github.com/cosmos/ibc-go/v10/modules/core/04-channel/types"
	ibctm "github.com/cosmos/ibc-go/v10/modules/light-clients/07-tendermint"

	host "github.com/cosmos/ibc-solo-machine/modules/core/24-host"
)

// AddTendermintClientState stores the tendermint client state of clientID.
func (k Keeper) AddTendermintClientState(ctx context.Context, tx *gorm.DB, clientID host.ClientID, clientState *ibctm.ClientState) error {
	return k.Add(ctx, tx, host.ClientStatePath(clientID), clientState)
}

// GetTendermintClientState returns the tendermint client state of clientID.
func (k Keeper) GetTendermintClientState(ctx context.Context, tx *gorm.DB, clientID host.ClientID) (*ibctm.ClientState, bool, error) {
	var clientState ibctm.ClientState
	found, err := k.Get(ctx, tx, host.ClientStatePath(clientID), &clientState)
	if err != nil || !found {
		return nil, found, err
	}
	return &clientState, true, nil
}

// AddTendermintConsensusState stores the consensus state of clientID at height.
// Consensus states are immutable once stored, so there is no update counterpart.
func (k Keeper) AddTendermintConsensusState(ctx context.Context, tx *gorm.DB, clientID host.ClientID, height clienttypes.Height, consensusState *ibctm.ConsensusState) error {
	return k.Add(ctx, tx, host.ConsensusStatePath(clientID, height), consensusState)
}

// GetTendermintConsensusState returns the consensus state of clientID at height.
func (k Keeper) GetTendermintConsensusState(ctx context.Context, tx *gorm.DB, clientID host.ClientID, height clienttypes.Height) (*ibctm.ConsensusState, bool, error) {
	var consensusState ibctm.ConsensusState
	found, err := k.Get(ctx, tx, host.ConsensusStatePath(clientID, height), &consensusState)
	if err != nil || !found {
		return nil, found, err
	}
	return &consensusState, true, nil
}

// AddConnection stores a new connection end.
func (k Keeper) AddConnection(ctx context.Context, tx *gorm.DB, connectionID host.ConnectionID, connection *connectiontypes.ConnectionEnd) error {
	return k.Add(ctx, tx, host.ConnectionPath(connectionID), connection)
}

// GetConnection returns the connection end stored for connectionID.
func (k Keeper) GetConnection(ctx context.Context, tx *gorm.DB, connectionID host.ConnectionID) (*connectiontypes.ConnectionEnd, bool, error) {
	var connection connectiontypes.ConnectionEnd
	found, err := k.Get(ctx, tx, host.ConnectionPath(connectionID), &connection)
	if err != nil || !found {
		return nil, found, err
	}
	return &connection, true, nil
}

// UpdateConnection replaces an existing connection end, e.g. on a handshake state change.
func (k Keeper) UpdateConnection(ctx context.Context, tx *gorm.DB, connectionID host.ConnectionID, connection *connectiontypes.ConnectionEnd) error {
	return k.Update(ctx, tx, host.ConnectionPath(connectionID), connection)
}

// AddChannel stores a new channel end.
func (k Keeper) AddChannel(ctx context.Context, tx *gorm.DB, portID host.PortID, channelID host.ChannelID, channel *channeltypes.Channel) error {
	return k.Add(ctx, tx, host.ChannelPath(portID, channelID), channel)
}

// GetChannel returns the channel end stored for portID and channelID.
func (k Keeper) GetChannel(ctx context.Context, tx *gorm.DB, portID host.PortID, channelID host.ChannelID) (*channeltypes.Channel, bool, error) {
	var channel channeltypes.Channel
	found, err := k.Get(ctx, tx, host.ChannelPath(portID, channelID), &channel)
	if err != nil || !found {
		return nil, found, err
	}
	return &channel, true, nil
}

// UpdateChannel replaces an existing channel end.
func (k Keeper) UpdateChannel(ctx context.Context, tx *gorm.DB, portID host.PortID, channelID host.ChannelID, channel *channeltypes.Channel) error {
	return k.Update(ctx, tx, host.ChannelPath(portID, channelID), channel)
}
