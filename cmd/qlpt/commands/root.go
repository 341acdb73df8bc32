// Package commands is the qlpt command line client: it signs in against the
// rental backend, keeps the session on disk and drives the room and contract
// screens from the terminal.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/qlpt/rental-portal/gateway"
	"github.com/qlpt/rental-portal/internal/config"
	"github.com/qlpt/rental-portal/internal/errors"
	"github.com/qlpt/rental-portal/internal/logging"
	"github.com/qlpt/rental-portal/session"
	"github.com/qlpt/rental-portal/storage"
	"github.com/qlpt/rental-portal/storage/filestore"
	"github.com/qlpt/rental-portal/storage/memstore"
	"github.com/qlpt/rental-portal/storage/sqlstore"
	"github.com/qlpt/rental-portal/users"
	"github.com/qlpt/rental-portal/viewrouter"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app is everything a command needs once the root pre-run has finished.
type app struct {
	cfg     config.Config
	log     zerolog.Logger
	store   storage.Store
	auth    *gateway.Client // unauthenticated calls: login, refresh, register
	api     *gateway.Client // resource calls carrying the session
	session *session.Manager
	router  *viewrouter.Router
	out     io.Writer
}

var (
	// Global flags
	configPath string
	apiURL     string
	storeKind  string
	storePath  string
	outputJSON bool
	verbose    bool

	current *app

	rootCmd = &cobra.Command{
		Use:           "qlpt",
		Short:         "Quản lý phòng trọ - rental management client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			current = a
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if current == nil {
				return nil
			}
			err := current.store.Close()
			current = nil
			return err
		},
	}
)

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	err := rootCmd.ExecuteContext(context.Background())
	if current != nil {
		// PersistentPostRunE is skipped when a command fails.
		_ = current.store.Close()
	}
	if err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), errorLine(err))
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (default $QLPT_CONFIG or ~/.config/qlpt/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "backend base URL (overrides QLPT_API_URL)")
	rootCmd.PersistentFlags().StringVar(&storeKind, "store", "", "session store: file, sqlite or memory (overrides QLPT_STORE)")
	rootCmd.PersistentFlags().StringVar(&storePath, "store-path", "", "session store location (overrides QLPT_STORE_PATH)")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "print JSON instead of tables")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func newApp(ctx context.Context, out, errOut io.Writer) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	cfg = withOverrides(cfg)

	level := cfg.GetLogLevel()
	if verbose {
		level = zerolog.DebugLevel.String()
	}
	logger := logging.Setup(level, cfg.GetLogFormat(), errOut)

	store, err := openStore(ctx, cfg.GetStoreKind(), cfg.GetStorePath())
	switch {
	case err == nil:
	case errors.Is(err, storage.ErrCorrupt) && store != nil:
		// The unreadable data has been set aside; carry on signed out.
		logger.Warn().Err(err).Msg("stored session discarded")
	default:
		return nil, err
	}

	a := &app{cfg: cfg, log: logger, store: store, out: out}
	a.auth = gateway.New(cfg.GetAPIURL(), gateway.WithTimeout(cfg.GetRequestTimeout()), gateway.WithLogger(logger))
	a.session = session.New(a.auth, store,
		session.WithLogger(logger),
		session.WithRefreshTimeout(cfg.GetRequestTimeout()),
		session.WithRedirectHandler(func(target string) {
			if target == session.PathLogin {
				fmt.Fprintln(errOut, session.MsgSessionExpired)
			}
		}),
	)
	a.api = gateway.New(cfg.GetAPIURL(),
		gateway.WithTimeout(cfg.GetRequestTimeout()),
		gateway.WithLogger(logger),
		gateway.WithTransport(a.session.Transport(nil)),
	)
	a.router = viewrouter.New(a.session)

	if err := a.session.Bootstrap(ctx); err != nil {
		// A corrupt snapshot has already been cleared; carry on signed out.
		logger.Warn().Err(err).Msg("stored session discarded")
	}
	return a, nil
}

// overrides layers command line flags over the loaded configuration.
type overrides struct {
	config.Config
}

func withOverrides(cfg config.Config) config.Config {
	if apiURL == "" && storeKind == "" && storePath == "" {
		return cfg
	}
	return overrides{Config: cfg}
}

func (o overrides) GetAPIURL() string {
	if apiURL != "" {
		return apiURL
	}
	return o.Config.GetAPIURL()
}

func (o overrides) GetStoreKind() string {
	if storeKind != "" {
		return storeKind
	}
	return o.Config.GetStoreKind()
}

func (o overrides) GetStorePath() string {
	if storePath != "" {
		return storePath
	}
	if storeKind != "" && storeKind != o.Config.GetStoreKind() {
		// The configured path belongs to the other store kind.
		return config.FromSettings(config.Settings{StoreKind: storeKind}).GetStorePath()
	}
	return o.Config.GetStorePath()
}

// openStore picks the snapshot backend named by the configuration. A store
// is returned with an error only when the error wraps storage.ErrCorrupt.
func openStore(ctx context.Context, kind, path string) (storage.Store, error) {
	switch kind {
	case config.StoreMemory:
		return memstore.New(), nil
	case config.StoreSQLite:
		s, err := sqlstore.Open(ctx, path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.StoreFile, "":
		s, err := filestore.Open(path)
		if s == nil {
			return nil, err
		}
		return s, err
	default:
		return nil, errors.Wrapf(errors.ErrInvalidInput, "[openStore] unknown store %q", kind)
	}
}

// requireSession fails fast when no one is signed in.
func (a *app) requireSession() (*users.User, error) {
	user, ok := a.session.CurrentPrincipal()
	if !ok {
		return nil, errors.Wrapf(session.ErrNotAuthenticated, msgNotSignedIn)
	}
	return user, nil
}
