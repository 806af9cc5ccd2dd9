package ledger

import (
	"fmt"

	ledger_go "github.com/zondax/ledger-go"

	errorsmod "cosmossdk.io/errors"
)

// ModuleName is the name of the ledger backend.
const ModuleName = "ledger"

const codespace = "solomachine-" + ModuleName

// Ledger sentinel errors
var (
	ErrDeviceNotFound   = errorsmod.Register(codespace, 2, "ledger device not found")
	ErrStatusWord       = errorsmod.Register(codespace, 3, "ledger returned an error status word")
	ErrResponseTooShort = errorsmod.Register(codespace, 4, "ledger response too short")
	ErrInvalidUTF8      = errorsmod.Register(codespace, 5, "ledger address is not valid utf-8")
	ErrInvalidPublicKey = errorsmod.Register(codespace, 6, "invalid public key returned by ledger")
	ErrNoSignature      = errorsmod.Register(codespace, 7, "ledger returned no signature")
	ErrInvalidSignature = errorsmod.Register(codespace, 8, "invalid signature returned by ledger")
	ErrEmptyMessage     = errorsmod.Register(codespace, 9, "message to sign is empty")
	ErrMessageTooLarge  = errorsmod.Register(codespace, 10, "message too large for ledger")
	ErrInvalidCurrency  = errorsmod.Register(codespace, 11, "invalid ledger currency")
	ErrInvalidVersion   = errorsmod.Register(codespace, 12, "invalid ledger app version response")
	ErrInvalidAppInfo   = errorsmod.Register(codespace, 13, "invalid ledger app info response")
	ErrInvalidTransport = errorsmod.Register(codespace, 14, "invalid ledger transport")
	ErrInvalidFrame     = errorsmod.Register(codespace, 15, "invalid ledger hid frame")
)

// StatusWordError is returned when the device answers with a status word
// other than 0x9000, e.g. because the user rejected the request, the device
// is locked or the wrong app is open.
type StatusWordError struct {
	Code        uint16
	Description string
}

// NewStatusWordError describes code using the ledger APDU error table.
func NewStatusWordError(code uint16) *StatusWordError {
	return &StatusWordError{
		Code:        code,
		Description: ledger_go.ErrorMessage(code),
	}
}

func (e *StatusWordError) Error() string {
	return fmt.Sprintf("ledger status word 0x%04x: %s", e.Code, e.Description)
}

// Unwrap makes errors.Is(err, ErrStatusWord) hold for every status word error.
func (e *StatusWordError) Unwrap() error {
	return ErrStatusWord
}
