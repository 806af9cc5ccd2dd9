package main

import (
	"os"

	"cosmossdk.io/log"

	"github.com/cosmos/ibc-solo-machine/cmd/solo-machine/cmd"
)

func main() {
	rootCmd := cmd.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		log.NewLogger(rootCmd.ErrOrStderr()).Error("failure when running solo-machine", "err", err)
		os.Exit(1)
	}
}
