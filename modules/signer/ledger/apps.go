package ledger

import (
	errorsmod "cosmossdk.io/errors"
)

// Currency selects the Ledger app a signer talks to.
type Currency string

const (
	CurrencyCryptoCom Currency = "crypto-com"
	CurrencyCosmos    Currency = "cosmos"
)

func (c Currency) String() string { return string(c) }

// ParseCurrency parses the textual form of a ledger currency.
func ParseCurrency(s string) (Currency, error) {
	switch Currency(s) {
	case CurrencyCryptoCom, CurrencyCosmos:
		return Currency(s), nil
	default:
		return "", errorsmod.Wrapf(ErrInvalidCurrency, "%q, only %s and %s are supported", s, CurrencyCryptoCom, CurrencyCosmos)
	}
}

// App is the instruction table of a Ledger app. Using the table of one app
// against another is not detected by the protocol.
type App struct {
	Name                string
	CLA                 byte
	InsGetAddrSecp256k1 byte
	InsSignSecp256k1    byte
	PubKeyLen           int
	SignatureLen        int
}

var (
	// CryptoComApp is the Crypto.org chain app.
	CryptoComApp = App{
		Name:                "Crypto.org Chain",
		CLA:                 0x55,
		InsGetAddrSecp256k1: 0x04,
		InsSignSecp256k1:    0x02,
		PubKeyLen:           33,
		SignatureLen:        65,
	}

	// CosmosApp is the Cosmos hub app. Public keys are compressed secp256k1 points.
	CosmosApp = App{
		Name:                "Cosmos",
		CLA:                 0x55,
		InsGetAddrSecp256k1: 0x04,
		InsSignSecp256k1:    0x02,
		PubKeyLen:           33,
		SignatureLen:        65,
	}
)

// AppFor returns the instruction table of currency.
func AppFor(currency Currency) (App, error) {
	switch currency {
	case CurrencyCryptoCom:
		return CryptoComApp, nil
	case CurrencyCosmos:
		return CosmosApp, nil
	default:
		return App{}, errorsmod.Wrapf(ErrInvalidCurrency, "%q", currency)
	}
}
