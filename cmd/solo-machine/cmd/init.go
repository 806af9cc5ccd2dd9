package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cosmos/ibc-solo-machine/modules/core/store"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "create the IBC state tables in the configured database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := a.openDB()
			if err != nil {
				return err
			}
			defer func() {
				if err := store.CloseDB(db); err != nil {
					a.logger.Error("failed to close database", "err", err)
				}
			}()

			if err := store.Migrate(db); err != nil {
				return err
			}

			a.logger.Info("database initialized")
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "initialized")
			return err
		},
	}
}
