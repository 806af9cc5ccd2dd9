package signer

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/cosmos/ibc-solo-machine/modules/core/metrics"
)

// PublicKeyProvider exposes the identity of a signer.
type PublicKeyProvider interface {
	// PublicKey returns the public key of the signer.
	PublicKey(ctx context.Context) (PublicKey, error)
	// AccountPrefix returns the bech32 prefix used for account addresses.
	AccountPrefix() string
	// AccountAddress returns the bech32 account address of the signer.
	AccountAddress(ctx context.Context) (string, error)
}

// Signer signs solo machine sign bytes and transaction sign docs.
//
// Implementations must be safe for concurrent use: a single Signer is shared
// by every handshake step and submission in the process.
type Signer interface {
	PublicKeyProvider

	// Sign returns the raw signature over msg.Bytes. requestID is an optional
	// correlation token; pass an empty string when there is none.
	Sign(ctx context.Context, requestID string, msg Message) ([]byte, error)
}

// RequestID returns id, or a new random id when id is empty, so every
// signing request can be correlated in logs.
func RequestID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}

// ObserveSign records the outcome and duration of a signing request made to backend.
func ObserveSign(backend string, msgType MessageType, start time.Time, err error) {
	result := metrics.ResultSuccess
	if err != nil {
		result = metrics.ResultError
	}

	metrics.SignRequests.WithLabelValues(backend, msgType.String(), result).Inc()
	metrics.SignDuration.WithLabelValues(backend).Observe(time.Since(start).Seconds())
}
