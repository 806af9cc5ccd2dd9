package cmd

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	errorsmod "cosmossdk.io/errors"

	"github.com/cosmos/gogoproto/proto"

	connectiontypes "github.com/cosmos/ibc-go/v10/modules/core/03-connection/types"
	channeltypes "github.com/cosmos/ibc-go/v10/modules/core/04-channel/types"
	ibctm "github.com/cosmos/ibc-go/v10/modules/light-clients/07-tendermint"

	ibcerrors "github.com/cosmos/ibc-solo-machine/internal/errors"
	host "github.com/cosmos/ibc-solo-machine/modules/core/24-host"
	"github.com/cosmos/ibc-solo-machine/modules/core/store"
)

const flagHex = "hex"

func newIBCCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ibc",
		Short: "query IBC objects held in the state store",
	}

	cmd.AddCommand(newIBCGetCmd(a))

	return cmd
}

func newIBCGetCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get [path]",
		Short: "print the IBC object stored under an ICS 24 path",
		Example: `solo-machine ibc get clients/07-tendermint-0/clientState
solo-machine ibc get channelEnds/ports/transfer/channels/channel-0 --hex`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := host.ParsePath(args[0])
			if err != nil {
				return err
			}
			msg, err := messageFor(parsed.Kind())
			if err != nil {
				return err
			}

			db, err := a.openDB()
			if err != nil {
				return err
			}
			defer func() {
				if err := store.CloseDB(db); err != nil {
					a.logger.Error("failed to close database", "err", err)
				}
			}()

			found, err := store.NewKeeper(a.logger).Get(cmd.Context(), db, parsed.Path(), msg)
			if err != nil {
				return err
			}
			if !found {
				return errorsmod.Wrapf(store.ErrMissingPath, "%s", parsed.Path())
			}

			asHex, err := cmd.Flags().GetBool(flagHex)
			if err != nil {
				return err
			}
			if !asHex {
				_, err = fmt.Fprint(cmd.OutOrStdout(), proto.MarshalTextString(msg))
				return err
			}

			bz, err := proto.Marshal(msg)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(bz))
			return err
		},
	}

	cmd.Flags().Bool(flagHex, false, "print the protobuf encoding as hex")

	return cmd
}

// messageFor returns an empty protocol object of the type stored under paths of kind.
func messageFor(kind host.PathKind) (proto.Message, error) {
	switch kind {
	case host.KindClientState:
		return &ibctm.ClientState{}, nil
	case host.KindConsensusState:
		return &ibctm.ConsensusState{}, nil
	case host.KindConnection:
		return &connectiontypes.ConnectionEnd{}, nil
	case host.KindChannel:
		return &channeltypes.Channel{}, nil
	default:
		return nil, errorsmod.Wrapf(ibcerrors.ErrInvalidRequest, "no object type is stored under %s paths", kind)
	}
}
