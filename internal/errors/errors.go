package errors

import (
	errorsmod "cosmossdk.io/errors"
)

const codespace = "solomachine"

var (
	// ErrInvalidRequest defines an error when a caller supplied request is malformed.
	ErrInvalidRequest = errorsmod.Register(codespace, 2, "invalid request")
)
