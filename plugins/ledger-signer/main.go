// Command ledger-signer is a signer plugin backed by a Ledger device. Build it
// with -buildmode=plugin and point SOLO_SIGNER at the resulting artifact.
//
// The device, derivation path and address format are taken from the
// SOLO_HD_PATH, SOLO_ACCOUNT_PREFIX, SOLO_ADDRESS_ALGO, LEDGER_CURRENCY,
// LEDGER_REQUIRE_CONFIRMATION and LEDGER_TRANSPORT environment variables.
package main

import (
	"os"

	"cosmossdk.io/log"

	"github.com/cosmos/ibc-solo-machine/modules/signer"
	"github.com/cosmos/ibc-solo-machine/modules/signer/ledger"
)

// RegisterSigner registers a Ledger signer built from the environment.
func RegisterSigner(registrar signer.Registrar) error {
	cfg, err := signer.ConfigFromEnv()
	if err != nil {
		return err
	}

	s, err := ledger.FromConfig(cfg, log.NewLogger(os.Stderr))
	if err != nil {
		return err
	}

	registrar.RegisterSigner(s)
	return nil
}

func main() {}
