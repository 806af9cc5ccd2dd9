package store_test

import (
	"time"

	clienttypes "github.com/cosmos/ibc-go/v10/modules/core/02-client/types"
	connectiontypes "github.com/cosmos/ibc-go/v10/modules/core/03-connection/types"
	channeltypes "github.com/cosmos/ibc-go/v10/modules/core/04-channel/types"

	"github.com/cosmos/ibc-solo-machine/modules/core/store"
	ibctesting "github.com/cosmos/ibc-solo-machine/testing"
)

func (suite *KeeperTestSuite) TestTendermintClientState() {
	_, found, err := suite.keeper.GetTendermintClientState(suite.ctx, suite.db, ibctesting.DefaultClientID)
	suite.Require().NoError(err)
	suite.Require().False(found)

	expected := ibctesting.NewTendermintClientState(ibctesting.DefaultChainID, ibctesting.DefaultHeight)
	suite.Require().NoError(suite.keeper.AddTendermintClientState(suite.ctx, suite.db, ibctesting.DefaultClientID, expected))

	actual, found, err := suite.keeper.GetTendermintClientState(suite.ctx, suite.db, ibctesting.DefaultClientID)
	suite.Require().NoError(err)
	suite.Require().True(found)
	suite.Require().Equal(expected, actual)

	err = suite.keeper.AddTendermintClientState(suite.ctx, suite.db, ibctesting.DefaultClientID, expected)
	suite.Require().ErrorIs(err, store.ErrDuplicatePath)
}

func (suite *KeeperTestSuite) TestTendermintConsensusState() {
	timestamp := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	first := ibctesting.NewTendermintConsensusState(timestamp, []byte("app-hash-100"))
	second := ibctesting.NewTendermintConsensusState(timestamp.Add(time.Minute), []byte("app-hash-101"))
	nextHeight := clienttypes.NewHeight(4, 101)

	suite.Require().NoError(suite.keeper.AddTendermintConsensusState(suite.ctx, suite.db, ibctesting.DefaultClientID, ibctesting.DefaultHeight, first))
	suite.Require().NoError(suite.keeper.AddTendermintConsensusState(suite.ctx, suite.db, ibctesting.DefaultClientID, nextHeight, second))

	actual, found, err := suite.keeper.GetTendermintConsensusState(suite.ctx, suite.db, ibctesting.DefaultClientID, ibctesting.DefaultHeight)
	suite.Require().NoError(err)
	suite.Require().True(found)
	suite.Require().Equal(first, actual)

	actual, found, err = suite.keeper.GetTendermintConsensusState(suite.ctx, suite.db, ibctesting.DefaultClientID, nextHeight)
	suite.Require().NoError(err)
	suite.Require().True(found)
	suite.Require().Equal(second, actual)

	// consensus states are immutable per height
	err = suite.keeper.AddTendermintConsensusState(suite.ctx, suite.db, ibctesting.DefaultClientID, nextHeight, first)
	suite.Require().ErrorIs(err, store.ErrDuplicatePath)

	_, found, err = suite.keeper.GetTendermintConsensusState(suite.ctx, suite.db, ibctesting.DefaultClientID, clienttypes.NewHeight(5, 100))
	suite.Require().NoError(err)
	suite.Require().False(found)
}

func (suite *KeeperTestSuite) TestConnectionHandshake() {
	connectionID := ibctesting.DefaultConnectionID

	err := suite.keeper.UpdateConnection(suite.ctx, suite.db, connectionID, ibctesting.NewConnectionEnd(connectiontypes.OPEN, "connection-1"))
	suite.Require().ErrorIs(err, store.ErrMissingPath)

	suite.Require().NoError(suite.keeper.AddConnection(suite.ctx, suite.db, connectionID, ibctesting.NewConnectionEnd(connectiontypes.INIT, "")))
	suite.Require().NoError(suite.keeper.UpdateConnection(suite.ctx, suite.db, connectionID, ibctesting.NewConnectionEnd(connectiontypes.OPEN, "connection-1")))

	connection, found, err := suite.keeper.GetConnection(suite.ctx, suite.db, connectionID)
	suite.Require().NoError(err)
	suite.Require().True(found)
	suite.Require().Equal(connectiontypes.OPEN, connection.State)
	suite.Require().Equal("connection-1", connection.Counterparty.ConnectionId)
	suite.Require().Equal(ibctesting.DefaultClientID.String(), connection.ClientId)
}

func (suite *KeeperTestSuite) TestChannelHandshake() {
	portID, channelID := ibctesting.DefaultPortID, ibctesting.DefaultChannelID

	suite.Require().NoError(suite.keeper.AddChannel(suite.ctx, suite.db, portID, channelID, ibctesting.NewChannel(channeltypes.INIT, "")))
	suite.Require().NoError(suite.keeper.UpdateChannel(suite.ctx, suite.db, portID, channelID, ibctesting.NewChannel(channeltypes.OPEN, "channel-4")))

	channel, found, err := suite.keeper.GetChannel(suite.ctx, suite.db, portID, channelID)
	suite.Require().NoError(err)
	suite.Require().True(found)
	suite.Require().Equal(channeltypes.OPEN, channel.State)
	suite.Require().Equal("channel-4", channel.Counterparty.ChannelId)
	suite.Require().Equal([]string{ibctesting.DefaultConnectionID.String()}, channel.ConnectionHops)
}
