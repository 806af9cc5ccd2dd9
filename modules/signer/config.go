package signer

import (
	"strings"

	"github.com/spf13/viper"

	errorsmod "cosmossdk.io/errors"

	"github.com/cosmos/cosmos-sdk/crypto/hd"
)

// Environment keys read by LoadConfig.
const (
	FlagHDPath                    = "SOLO_HD_PATH"
	FlagAccountPrefix             = "SOLO_ACCOUNT_PREFIX"
	FlagAddressAlgo               = "SOLO_ADDRESS_ALGO"
	FlagMnemonic                  = "SOLO_MNEMONIC"
	FlagLedgerCurrency            = "LEDGER_CURRENCY"
	FlagLedgerRequireConfirmation = "LEDGER_REQUIRE_CONFIRMATION"
	FlagLedgerTransport           = "LEDGER_TRANSPORT"
)

// Default configuration values.
const (
	DefaultHDPath          = "m/44'/118'/0'/0/0"
	DefaultAccountPrefix   = "cosmos"
	DefaultAddressAlgo     = AlgoSecp256k1
	DefaultLedgerCurrency  = "cosmos"
	DefaultLedgerTransport = "hid"
)

// Config holds the settings every signer backend is built from. It is read
// once at startup and never changes afterwards.
type Config struct {
	HDPath        string
	AccountPrefix string
	AddressAlgo   AddressAlgo
	Mnemonic      string

	LedgerCurrency            string
	LedgerRequireConfirmation bool
	LedgerTransport           string
}

// DefaultConfig returns the configuration used when no environment is set.
func DefaultConfig() Config {
	return Config{
		HDPath:          DefaultHDPath,
		AccountPrefix:   DefaultAccountPrefix,
		AddressAlgo:     DefaultAddressAlgo,
		LedgerCurrency:  DefaultLedgerCurrency,
		LedgerTransport: DefaultLedgerTransport,
	}
}

// SetDefaults registers the default value of every signer key on v.
func SetDefaults(v *viper.Viper) {
	cfg := DefaultConfig()
	v.SetDefault(FlagHDPath, cfg.HDPath)
	v.SetDefault(FlagAccountPrefix, cfg.AccountPrefix)
	v.SetDefault(FlagAddressAlgo, cfg.AddressAlgo.String())
	v.SetDefault(FlagLedgerCurrency, cfg.LedgerCurrency)
	v.SetDefault(FlagLedgerRequireConfirmation, cfg.LedgerRequireConfirmation)
	v.SetDefault(FlagLedgerTransport, cfg.LedgerTransport)
}

// LoadConfig reads and validates the signer configuration from v.
func LoadConfig(v *viper.Viper) (Config, error) {
	SetDefaults(v)

	algo, err := ParseAddressAlgo(strings.TrimSpace(v.GetString(FlagAddressAlgo)))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		HDPath:                    strings.TrimSpace(v.GetString(FlagHDPath)),
		AccountPrefix:             strings.TrimSpace(v.GetString(FlagAccountPrefix)),
		AddressAlgo:               algo,
		Mnemonic:                  strings.TrimSpace(v.GetString(FlagMnemonic)),
		LedgerCurrency:            strings.TrimSpace(v.GetString(FlagLedgerCurrency)),
		LedgerRequireConfirmation: v.GetBool(FlagLedgerRequireConfirmation),
		LedgerTransport:           strings.TrimSpace(v.GetString(FlagLedgerTransport)),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ConfigFromEnv reads the signer configuration from the process environment.
func ConfigFromEnv() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	return LoadConfig(v)
}

// Validate checks the backend independent fields.
func (cfg Config) Validate() error {
	if _, err := hd.NewParamsFromPath(cfg.HDPath); err != nil {
		return errorsmod.Wrapf(ErrInvalidConfig, "hd path %q: %s", cfg.HDPath, err)
	}
	if cfg.AccountPrefix == "" {
		return errorsmod.Wrap(ErrInvalidConfig, "account prefix cannot be blank")
	}
	if _, err := ParseAddressAlgo(cfg.AddressAlgo.String()); err != nil {
		return err
	}
	return nil
}
