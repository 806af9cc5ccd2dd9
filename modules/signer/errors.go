package signer

import (
	errorsmod "cosmossdk.io/errors"
)

// ModuleName is the name of the signer capability and registrar.
const ModuleName = "signer"

const codespace = "solomachine-" + ModuleName

// Signer sentinel errors
var (
	ErrEmptyMessage          = errorsmod.Register(codespace, 2, "message to sign is empty")
	ErrInvalidMessageType    = errorsmod.Register(codespace, 3, "invalid message type")
	ErrInvalidAddressAlgo    = errorsmod.Register(codespace, 4, "invalid address generation algorithm")
	ErrInvalidPublicKey      = errorsmod.Register(codespace, 5, "invalid public key")
	ErrInvalidConfig         = errorsmod.Register(codespace, 6, "invalid signer configuration")
	ErrPluginLoad            = errorsmod.Register(codespace, 7, "unable to load signer plugin")
	ErrNoSignerRegistered    = errorsmod.Register(codespace, 8, "no signer registered")
	ErrInvalidRegistrarState = errorsmod.Register(codespace, 9, "invalid signer registrar state")
)
