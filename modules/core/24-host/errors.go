package host

import (
	errorsmod "cosmossdk.io/errors"
)

// SubModuleName defines the ICS 24 host
const SubModuleName = "host"

const codespace = "solomachine-" + SubModuleName

// IBC client sentinel errors
var (
	ErrInvalidID   = errorsmod.Register(codespace, 2, "invalid identifier")
	ErrInvalidPath = errorsmod.Register(codespace, 3, "invalid path")
)
