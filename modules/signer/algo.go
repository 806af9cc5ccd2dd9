package signer

import (
	errorsmod "cosmossdk.io/errors"
)

// AddressAlgo is the algorithm used to derive an account address from a public key.
type AddressAlgo string

const (
	// AlgoSecp256k1 derives tendermint style addresses: ripemd160(sha256(pubkey)).
	AlgoSecp256k1 AddressAlgo = "secp256k1"
	// AlgoEthSecp256k1 derives ethermint style addresses: the last 20 bytes of
	// keccak256 of the uncompressed public key.
	AlgoEthSecp256k1 AddressAlgo = "eth-secp256k1"
)

func (a AddressAlgo) String() string { return string(a) }

// ParseAddressAlgo parses the textual form of an address algorithm.
func ParseAddressAlgo(s string) (AddressAlgo, error) {
	switch AddressAlgo(s) {
	case AlgoSecp256k1, AlgoEthSecp256k1:
		return AddressAlgo(s), nil
	default:
		return "", errorsmod.Wrapf(ErrInvalidAddressAlgo, "%q, expected %s or %s", s, AlgoSecp256k1, AlgoEthSecp256k1)
	}
}
