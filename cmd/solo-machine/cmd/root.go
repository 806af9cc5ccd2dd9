package cmd

import (
	"io"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gorm.io/gorm"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"

	ibcerrors "github.com/cosmos/ibc-solo-machine/internal/errors"
	"github.com/cosmos/ibc-solo-machine/modules/core/metrics"
	"github.com/cosmos/ibc-solo-machine/modules/core/store"
	"github.com/cosmos/ibc-solo-machine/modules/signer"
	"github.com/cosmos/ibc-solo-machine/modules/signer/ledger"
	"github.com/cosmos/ibc-solo-machine/modules/signer/mnemonic"
)

const (
	flagDBURI    = "db-uri"
	flagSigner   = "signer"
	flagLogLevel = "log-level"
	flagLogJSON  = "log-json"

	// EnvDBURI is the database URI, e.g. sqlite://solo.db or postgres://...
	EnvDBURI = "SOLO_DB_URI"
	// EnvSigner selects the signer: a built-in backend name or a plugin path.
	EnvSigner = "SOLO_SIGNER"

	defaultDBURI    = "sqlite://solo-machine.db"
	defaultLogLevel = "info"
)

// app carries the state shared by every command. It is filled in by the
// root command's persistent pre-run.
type app struct {
	viper  *viper.Viper
	logger log.Logger
	router *signer.Router
	opts   []signer.BuilderOption
}

// NewRootCmd returns the solo-machine root command.
func NewRootCmd() *cobra.Command {
	return newRootCmd(NewRouter())
}

// NewRouter returns the router of the built-in signer backends.
func NewRouter() *signer.Router {
	return signer.NewRouter().
		AddRoute(mnemonic.BackendName, mnemonic.FromConfig).
		AddRoute(ledger.BackendName, ledger.FromConfig)
}

func newRootCmd(router *signer.Router, opts ...signer.BuilderOption) *cobra.Command {
	a := &app{
		viper:  viper.New(),
		logger: log.NewNopLogger(),
		router: router,
		opts:   opts,
	}

	rootCmd := &cobra.Command{
		Use:           "solo-machine",
		Short:         "IBC solo machine state store and signer",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(cmd.ErrOrStderr(), a.viper.GetString(flagLogLevel), a.viper.GetBool(flagLogJSON))
			if err != nil {
				return err
			}
			a.logger = logger

			return metrics.Register(prometheus.DefaultRegisterer)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String(flagDBURI, defaultDBURI, "database URI (sqlite://<file>, sqlite::memory:, postgres://...) ["+EnvDBURI+"]")
	flags.String(flagSigner, "", "signer backend ("+mnemonic.BackendName+", "+ledger.BackendName+") or path to a signer plugin ["+EnvSigner+"]")
	flags.String(flagLogLevel, defaultLogLevel, "log level (debug|info|warn|error) or per module filter, e.g. ledger:debug,*:info")
	flags.Bool(flagLogJSON, false, "log as JSON")

	a.viper.AutomaticEnv()
	if err := a.viper.BindPFlags(flags); err != nil {
		panic(err)
	}
	_ = a.viper.BindEnv(flagDBURI, EnvDBURI)
	_ = a.viper.BindEnv(flagSigner, EnvSigner)

	rootCmd.AddCommand(
		newInitCmd(a),
		newSignerCmd(a),
		newIBCCmd(a),
	)

	return rootCmd
}

func newLogger(w io.Writer, level string, json bool) (log.Logger, error) {
	filter, err := log.ParseLogLevel(strings.TrimSpace(level))
	if err != nil {
		return nil, errorsmod.Wrapf(ibcerrors.ErrInvalidRequest, "log level %q: %s", level, err)
	}

	opts := []log.Option{log.FilterOption(filter)}
	if json {
		opts = append(opts, log.OutputJSONOption())
	}
	return log.NewLogger(w, opts...), nil
}

// openDB opens the configured database.
func (a *app) openDB() (*gorm.DB, error) {
	uri := strings.TrimSpace(a.viper.GetString(flagDBURI))
	a.logger.Debug("opening database", "scheme", strings.SplitN(uri, ":", 2)[0])
	return store.OpenDB(uri)
}

// loadSigner resolves the configured signer. The returned release func closes
// backends holding a device.
func (a *app) loadSigner() (signer.Signer, func(), error) {
	cfg, err := signer.LoadConfig(a.viper)
	if err != nil {
		return nil, nil, err
	}

	builder := signer.NewBuilder(a.logger, a.opts...)
	registry, err := signer.Resolve(builder, a.router, strings.TrimSpace(a.viper.GetString(flagSigner)), cfg, a.logger)
	if err != nil {
		return nil, nil, err
	}

	first, ok := registry.First()
	if !ok {
		return nil, nil, signer.ErrNoSignerRegistered
	}

	release := func() {
		for _, s := range registry.Signers() {
			if closer, ok := s.(io.Closer); ok {
				if err := closer.Close(); err != nil {
					a.logger.Error("failed to release signer", "err", err)
				}
			}
		}
	}
	return first, release, nil
}
