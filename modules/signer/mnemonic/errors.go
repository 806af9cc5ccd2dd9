package mnemonic

import (
	errorsmod "cosmossdk.io/errors"
)

const codespace = "solomachine-" + BackendName

var (
	ErrInvalidMnemonic = errorsmod.Register(codespace, 2, "invalid mnemonic")
	ErrKeyDerivation   = errorsmod.Register(codespace, 3, "unable to derive key")
)
