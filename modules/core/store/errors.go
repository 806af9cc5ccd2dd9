package store

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"

	host "github.com/cosmos/ibc-solo-machine/modules/core/24-host"
)

// ModuleName is the name of the state store.
const ModuleName = "store"

const codespace = "solomachine-" + ModuleName

// State store sentinel errors
var (
	ErrDuplicatePath      = errorsmod.Register(codespace, 2, "ibc data already exists for path")
	ErrMissingPath        = errorsmod.Register(codespace, 3, "ibc data does not exist for path")
	ErrDecode             = errorsmod.Register(codespace, 4, "unable to decode protobuf bytes for ibc data")
	ErrEncode             = errorsmod.Register(codespace, 5, "unable to encode ibc data")
	ErrStorageIO          = errorsmod.Register(codespace, 6, "ibc data storage failure")
	ErrInvalidDatabaseURI = errorsmod.Register(codespace, 7, "invalid database uri")
	ErrRowsAffected       = errorsmod.Register(codespace, 8, "unexpected number of rows affected")
)

// PathError records the store operation and path that caused an error.
type PathError struct {
	Op   string
	Path host.Path
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Op, e.Path, e.Err)
}

func (e *PathError) Unwrap() error { return e.Err }

func pathError(op string, path host.Path, err error) error {
	return &PathError{Op: op, Path: path, Err: err}
}

// storageError marks err as ErrStorageIO while keeping it in the chain.
func storageError(err error) error {
	return fmt.Errorf("%w: %w", ErrStorageIO, err)
}
