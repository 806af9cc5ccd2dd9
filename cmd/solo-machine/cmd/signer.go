package cmd

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	errorsmod "cosmossdk.io/errors"

	ibcerrors "github.com/cosmos/ibc-solo-machine/internal/errors"
	"github.com/cosmos/ibc-solo-machine/modules/signer"
)

const (
	flagMessageType = "type"
	flagRequestID   = "request-id"
)

func newSignerCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signer",
		Short: "inspect and use the configured signer",
	}

	cmd.AddCommand(
		newSignerShowCmd(a),
		newSignerSignCmd(a),
	)

	return cmd
}

func newSignerShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "print the public key and account address of the signer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, release, err := a.loadSigner()
			if err != nil {
				return err
			}
			defer release()

			publicKey, err := s.PublicKey(cmd.Context())
			if err != nil {
				return err
			}
			address, err := s.AccountAddress(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "algo:       %s\n", publicKey.Algo)
			fmt.Fprintf(out, "public key: %s\n", publicKey)
			fmt.Fprintf(out, "address:    %s\n", address)
			return nil
		},
	}
}

func newSignerSignCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sign [hex-message]",
		Short:   "sign a hex encoded message and print the hex encoded signature",
		Example: "solo-machine signer sign --type sign-doc 0a0b0c",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msgType, err := cmd.Flags().GetString(flagMessageType)
			if err != nil {
				return err
			}
			parsedType, err := signer.ParseMessageType(msgType)
			if err != nil {
				return err
			}

			bz, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(args[0]), "0x"))
			if err != nil {
				return errorsmod.Wrapf(ibcerrors.ErrInvalidRequest, "message is not hex: %s", err)
			}

			requestID, err := cmd.Flags().GetString(flagRequestID)
			if err != nil {
				return err
			}

			s, release, err := a.loadSigner()
			if err != nil {
				return err
			}
			defer release()

			sig, err := s.Sign(cmd.Context(), requestID, signer.Message{Type: parsedType, Bytes: bz})
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(sig))
			return err
		},
	}

	cmd.Flags().String(flagMessageType, signer.SignBytes.String(), "message type ("+signer.SignBytes.String()+"|"+signer.SignDoc.String()+")")
	cmd.Flags().String(flagRequestID, "", "correlation id attached to the signing logs")

	return cmd
}
