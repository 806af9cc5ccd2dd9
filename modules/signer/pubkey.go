package signer

import (
	"bytes"
	"encoding/hex"

	errorsmod "cosmossdk.io/errors"

	"github.com/cosmos/gogoproto/proto"

	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	"github.com/cosmos/cosmos-sdk/crypto/keys/secp256k1"
	"github.com/cosmos/cosmos-sdk/types/bech32"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// EthSecp256k1PubKeyTypeURL is the Any type URL of ethermint secp256k1 public
// keys. They share the wire encoding of cosmos secp256k1 keys.
const EthSecp256k1PubKeyTypeURL = "/ethermint.crypto.v1.ethsecp256k1.PubKey"

// PublicKey is a compressed secp256k1 public key together with the algorithm
// used to derive its account address.
type PublicKey struct {
	Algo AddressAlgo
	Key  *secp256k1.PubKey
}

// NewPublicKey validates a 33 byte compressed secp256k1 point.
func NewPublicKey(algo AddressAlgo, bz []byte) (PublicKey, error) {
	if _, err := ParseAddressAlgo(string(algo)); err != nil {
		return PublicKey{}, err
	}
	if len(bz) != secp256k1.PubKeySize {
		return PublicKey{}, errorsmod.Wrapf(ErrInvalidPublicKey, "expected %d bytes, got %d", secp256k1.PubKeySize, len(bz))
	}
	if _, err := ethcrypto.DecompressPubkey(bz); err != nil {
		return PublicKey{}, errorsmod.Wrapf(ErrInvalidPublicKey, "not a secp256k1 point: %s", err)
	}

	return PublicKey{
		Algo: algo,
		Key:  &secp256k1.PubKey{Key: bytes.Clone(bz)},
	}, nil
}

// Bytes returns a copy of the compressed key.
func (pk PublicKey) Bytes() []byte {
	if pk.Key == nil {
		return nil
	}
	return bytes.Clone(pk.Key.Key)
}

// String returns the hex encoded compressed key.
func (pk PublicKey) String() string {
	return hex.EncodeToString(pk.Bytes())
}

// Address derives the raw account address according to the key's algorithm.
func (pk PublicKey) Address() ([]byte, error) {
	if pk.Key == nil {
		return nil, errorsmod.Wrap(ErrInvalidPublicKey, "public key is empty")
	}

	switch pk.Algo {
	case AlgoSecp256k1:
		return pk.Key.Address().Bytes(), nil
	case AlgoEthSecp256k1:
		pub, err := ethcrypto.DecompressPubkey(pk.Key.Key)
		if err != nil {
			return nil, errorsmod.Wrapf(ErrInvalidPublicKey, "not a secp256k1 point: %s", err)
		}
		return ethcrypto.PubkeyToAddress(*pub).Bytes(), nil
	default:
		return nil, errorsmod.Wrapf(ErrInvalidAddressAlgo, "%q", pk.Algo)
	}
}

// AccountAddress returns the bech32 account address for the given prefix.
func (pk PublicKey) AccountAddress(prefix string) (string, error) {
	addr, err := pk.Address()
	if err != nil {
		return "", err
	}

	address, err := bech32.ConvertAndEncode(prefix, addr)
	if err != nil {
		return "", errorsmod.Wrapf(ErrInvalidConfig, "account prefix %q: %s", prefix, err)
	}
	return address, nil
}

// ToAny packs the key for use in solo machine consensus states and
// transaction signer infos.
func (pk PublicKey) ToAny() (*codectypes.Any, error) {
	if pk.Key == nil {
		return nil, errorsmod.Wrap(ErrInvalidPublicKey, "public key is empty")
	}

	if pk.Algo == AlgoEthSecp256k1 {
		bz, err := proto.Marshal(pk.Key)
		if err != nil {
			return nil, err
		}
		return &codectypes.Any{TypeUrl: EthSecp256k1PubKeyTypeURL, Value: bz}, nil
	}

	return codectypes.NewAnyWithValue(pk.Key)
}
