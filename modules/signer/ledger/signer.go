package ledger

import (
	"context"
	"time"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"

	"github.com/cosmos/ibc-solo-machine/modules/signer"
)

// BackendName is the route name of the ledger backend.
const BackendName = "ledger"

var _ signer.Signer = (*Signer)(nil)

const secp256k1SignatureLen = 64

// Signer implements signer.Signer on top of a Ledger device. Key material
// never leaves the device: the public key is fetched on demand and every
// signature requires a device round trip.
type Signer struct {
	logger log.Logger
	device *Device

	hdPath              BIP44Path
	accountPrefix       string
	algo                signer.AddressAlgo
	requireConfirmation bool
}

// NewSigner returns a Signer using the key at hdPath on device.
func NewSigner(device *Device, hdPath, accountPrefix string, algo signer.AddressAlgo, requireConfirmation bool, logger log.Logger) (*Signer, error) {
	path, err := ParseBIP44Path(hdPath)
	if err != nil {
		return nil, err
	}
	if _, err := signer.ParseAddressAlgo(algo.String()); err != nil {
		return nil, err
	}
	if accountPrefix == "" {
		return nil, errorsmod.Wrap(signer.ErrInvalidConfig, "account prefix cannot be blank")
	}

	return &Signer{
		logger:              logger.With("module", "signer", "backend", BackendName),
		device:              device,
		hdPath:              path,
		accountPrefix:       accountPrefix,
		algo:                algo,
		requireConfirmation: requireConfirmation,
	}, nil
}

// FromConfig opens the configured transport and returns a Signer for the
// configured currency.
func FromConfig(cfg signer.Config, logger log.Logger) (signer.Signer, error) {
	currency, err := ParseCurrency(cfg.LedgerCurrency)
	if err != nil {
		return nil, err
	}
	app, err := AppFor(currency)
	if err != nil {
		return nil, err
	}

	transport, err := OpenTransport(context.Background(), cfg.LedgerTransport, logger)
	if err != nil {
		return nil, err
	}

	s, err := NewSigner(NewDevice(transport, app, logger), cfg.HDPath, cfg.AccountPrefix, cfg.AddressAlgo, cfg.LedgerRequireConfirmation, logger)
	if err != nil {
		_ = transport.Close()
		return nil, err
	}
	return s, nil
}

// Device returns the underlying device.
func (s *Signer) Device() *Device {
	return s.device
}

// Close releases the device transport.
func (s *Signer) Close() error {
	return s.device.Close()
}

// PublicKey implements signer.PublicKeyProvider.
func (s *Signer) PublicKey(ctx context.Context) (signer.PublicKey, error) {
	pubkeyAddress, err := s.device.GetPubkeyAddress(ctx, s.accountPrefix, s.hdPath, s.requireConfirmation)
	if err != nil {
		return signer.PublicKey{}, err
	}

	publicKey, err := signer.NewPublicKey(s.algo, pubkeyAddress.PublicKey)
	if err != nil {
		return signer.PublicKey{}, errorsmod.Wrap(ErrInvalidPublicKey, err.Error())
	}
	return publicKey, nil
}

// AccountPrefix implements signer.PublicKeyProvider.
func (s *Signer) AccountPrefix() string {
	return s.accountPrefix
}

// AccountAddress implements signer.PublicKeyProvider. The address is derived
// locally from the device public key.
func (s *Signer) AccountAddress(ctx context.Context) (string, error) {
	publicKey, err := s.PublicKey(ctx)
	if err != nil {
		return "", err
	}
	return publicKey.AccountAddress(s.accountPrefix)
}

// Sign implements signer.Signer.
func (s *Signer) Sign(ctx context.Context, requestID string, msg signer.Message) (sig []byte, err error) {
	requestID = signer.RequestID(requestID)
	start := time.Now()
	defer func() { signer.ObserveSign(BackendName, msg.Type, start, err) }()

	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	s.logger.Debug("signing message on device", "request_id", requestID, "message_type", msg.Type.String(), "size", len(msg.Bytes), "hd_path", s.hdPath.String())

	sig, err = s.device.SignMessage(ctx, s.hdPath, msg.Bytes)
	if err != nil {
		s.logger.Error("ledger signing failed", "request_id", requestID, "error", err)
		return nil, err
	}

	// secp256k1 verifiers take R||S only
	if s.algo == signer.AlgoSecp256k1 {
		sig = sig[:secp256k1SignatureLen]
	}
	return sig, nil
}
