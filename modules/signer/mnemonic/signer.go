package mnemonic

import (
	"context"
	"time"

	"github.com/cosmos/go-bip39"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"

	"github.com/cosmos/cosmos-sdk/crypto/hd"
	"github.com/cosmos/cosmos-sdk/crypto/keys/secp256k1"

	"github.com/cosmos/ibc-solo-machine/modules/signer"
)

// BackendName is the route name of the mnemonic backend.
const BackendName = "mnemonic"

var _ signer.Signer = (*Signer)(nil)

// Signer signs with a secp256k1 key derived from a BIP-39 mnemonic. The key is
// derived once at construction and the Signer is immutable afterwards.
type Signer struct {
	logger log.Logger

	privKey       *secp256k1.PrivKey
	publicKey     signer.PublicKey
	accountPrefix string
}

// NewSigner derives the key at hdPath from mnemonic.
func NewSigner(mnemonic, hdPath, accountPrefix string, algo signer.AddressAlgo, logger log.Logger) (*Signer, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, errorsmod.Wrap(ErrInvalidMnemonic, "mnemonic failed bip39 validation")
	}
	if _, err := hd.NewParamsFromPath(hdPath); err != nil {
		return nil, errorsmod.Wrapf(signer.ErrInvalidConfig, "hd path %q: %s", hdPath, err)
	}
	if accountPrefix == "" {
		return nil, errorsmod.Wrap(signer.ErrInvalidConfig, "account prefix cannot be blank")
	}

	derived, err := hd.Secp256k1.Derive()(mnemonic, "", hdPath)
	if err != nil {
		return nil, errorsmod.Wrapf(ErrKeyDerivation, "hd path %s: %s", hdPath, err)
	}

	privKey := &secp256k1.PrivKey{Key: derived}
	publicKey, err := signer.NewPublicKey(algo, privKey.PubKey().Bytes())
	if err != nil {
		return nil, err
	}

	return &Signer{
		logger:        logger.With("module", "signer", "backend", BackendName),
		privKey:       privKey,
		publicKey:     publicKey,
		accountPrefix: accountPrefix,
	}, nil
}

// FromConfig builds a mnemonic signer from the startup configuration. The
// mnemonic itself is mandatory.
func FromConfig(cfg signer.Config, logger log.Logger) (signer.Signer, error) {
	if cfg.Mnemonic == "" {
		return nil, errorsmod.Wrapf(signer.ErrInvalidConfig, "%s must be set for the %s signer", signer.FlagMnemonic, BackendName)
	}
	return NewSigner(cfg.Mnemonic, cfg.HDPath, cfg.AccountPrefix, cfg.AddressAlgo, logger)
}

// PublicKey implements signer.PublicKeyProvider.
func (s *Signer) PublicKey(context.Context) (signer.PublicKey, error) {
	return s.publicKey, nil
}

// AccountPrefix implements signer.PublicKeyProvider.
func (s *Signer) AccountPrefix() string {
	return s.accountPrefix
}

// AccountAddress implements signer.PublicKeyProvider.
func (s *Signer) AccountAddress(context.Context) (string, error) {
	return s.publicKey.AccountAddress(s.accountPrefix)
}

// Sign implements signer.Signer. secp256k1 keys produce a 64 byte R||S
// signature over sha256(msg); eth-secp256k1 keys produce a 65 byte R||S||V
// signature over keccak256(msg).
func (s *Signer) Sign(ctx context.Context, requestID string, msg signer.Message) (sig []byte, err error) {
	requestID = signer.RequestID(requestID)
	start := time.Now()
	defer func() { signer.ObserveSign(BackendName, msg.Type, start, err) }()

	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.logger.Debug("signing message", "request_id", requestID, "message_type", msg.Type.String(), "size", len(msg.Bytes))

	switch s.publicKey.Algo {
	case signer.AlgoEthSecp256k1:
		key, err := ethcrypto.ToECDSA(s.privKey.Key)
		if err != nil {
			return nil, errorsmod.Wrap(ErrKeyDerivation, err.Error())
		}
		return ethcrypto.Sign(ethcrypto.Keccak256(msg.Bytes), key)
	default:
		return s.privKey.Sign(msg.Bytes)
	}
}
