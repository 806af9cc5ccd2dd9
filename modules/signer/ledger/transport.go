package ledger

import (
	"context"
	"strings"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
)

const (
	// TransportHID selects the first Ledger attached over USB.
	TransportHID = "hid"

	tcpScheme = "tcp://"
)

// Transport carries one APDU command to the device and returns its response.
// A transport does not interpret status words.
type Transport interface {
	Exchange(ctx context.Context, cmd Command) (Response, error)
	Close() error
}

// OpenTransport opens the transport described by spec: "hid" for a USB
// device or "tcp://host:port" for the APDU socket of a Speculos emulator.
func OpenTransport(ctx context.Context, spec string, logger log.Logger) (Transport, error) {
	spec = strings.TrimSpace(spec)
	switch {
	case spec == "" || spec == TransportHID:
		return OpenHID(logger)
	case strings.HasPrefix(spec, tcpScheme):
		return DialTCP(ctx, strings.TrimPrefix(spec, tcpScheme), logger)
	default:
		return nil, errorsmod.Wrapf(ErrInvalidTransport, "%q, expected %s or %shost:port", spec, TransportHID, tcpScheme)
	}
}
