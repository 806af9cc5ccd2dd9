package ledger

import (
	"encoding/binary"
	"fmt"

	errorsmod "cosmossdk.io/errors"

	"github.com/cosmos/cosmos-sdk/crypto/hd"

	"github.com/cosmos/ibc-solo-machine/modules/signer"
)

const hardened = 0x80000000

// BIP44Path is a five level derivation path m/purpose'/coin'/account'/change/index.
type BIP44Path struct {
	Purpose      uint32
	CoinType     uint32
	Account      uint32
	Change       uint32
	AddressIndex uint32
}

// ParseBIP44Path parses paths such as m/44'/118'/0'/0/0.
func ParseBIP44Path(path string) (BIP44Path, error) {
	params, err := hd.NewParamsFromPath(path)
	if err != nil {
		return BIP44Path{}, errorsmod.Wrapf(signer.ErrInvalidConfig, "hd path %q: %s", path, err)
	}

	var change uint32
	if params.Change {
		change = 1
	}

	return BIP44Path{
		Purpose:      params.Purpose,
		CoinType:     params.CoinType,
		Account:      params.Account,
		Change:       change,
		AddressIndex: params.AddressIndex,
	}, nil
}

// Serialize encodes the path as five little endian uint32 with the hardened
// bit set on purpose, coin type and account.
func (p BIP44Path) Serialize() []byte {
	bz := make([]byte, 20)
	binary.LittleEndian.PutUint32(bz[0:], hardened|p.Purpose)
	binary.LittleEndian.PutUint32(bz[4:], hardened|p.CoinType)
	binary.LittleEndian.PutUint32(bz[8:], hardened|p.Account)
	binary.LittleEndian.PutUint32(bz[12:], p.Change)
	binary.LittleEndian.PutUint32(bz[16:], p.AddressIndex)
	return bz
}

// ParseSerializedBIP44Path decodes the output of Serialize.
func ParseSerializedBIP44Path(bz []byte) (BIP44Path, error) {
	if len(bz) != 20 {
		return BIP44Path{}, fmt.Errorf("serialized bip44 path must be 20 bytes, got %d", len(bz))
	}

	return BIP44Path{
		Purpose:      binary.LittleEndian.Uint32(bz[0:]) &^ hardened,
		CoinType:     binary.LittleEndian.Uint32(bz[4:]) &^ hardened,
		Account:      binary.LittleEndian.Uint32(bz[8:]) &^ hardened,
		Change:       binary.LittleEndian.Uint32(bz[12:]),
		AddressIndex: binary.LittleEndian.Uint32(bz[16:]),
	}, nil
}

func (p BIP44Path) String() string {
	return fmt.Sprintf("m/%d'/%d'/%d'/%d/%d", p.Purpose, p.CoinType, p.Account, p.Change, p.AddressIndex)
}
