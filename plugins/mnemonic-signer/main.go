// Command mnemonic-signer is a software signer plugin deriving its key from
// SOLO_MNEMONIC. Build it with -buildmode=plugin.
package main

import (
	"os"

	"cosmossdk.io/log"

	"github.com/cosmos/ibc-solo-machine/modules/signer"
	"github.com/cosmos/ibc-solo-machine/modules/signer/mnemonic"
)

// RegisterSigner registers a mnemonic signer built from the environment.
func RegisterSigner(registrar signer.Registrar) error {
	cfg, err := signer.ConfigFromEnv()
	if err != nil {
		return err
	}

	s, err := mnemonic.FromConfig(cfg, log.NewLogger(os.Stderr))
	if err != nil {
		return err
	}

	registrar.RegisterSigner(s)
	return nil
}

func main() {}
