// Command journeyctl browses and posts career journeys from the terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"careerpath_portal/apiclient"
	"careerpath_portal/config"
	"careerpath_portal/explore"
	"careerpath_portal/logging"
	"careerpath_portal/session"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	apiURL      string
	sessionFile string
	timeout     time.Duration
	verbose     bool
	debounce    time.Duration

	logger *zap.Logger
)

var errNotLoggedIn = errors.New("not logged in, run 'journeyctl login' first")

var rootCmd = &cobra.Command{
	Use:   "journeyctl",
	Short: "Browse and share alumni career journeys",
	Long: `journeyctl talks to the career journey forum API.

Anyone can explore and read journeys. Logged in users can like posts and
comment; alumni and admins can also post their own journey.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if apiURL == "" {
			apiURL = cfg.UpstreamURL
		}
		if sessionFile == "" {
			sessionFile = cfg.CLISessionFile
		}
		if timeout == 0 {
			timeout = cfg.UpstreamTimeout
		}
		if debounce == 0 {
			debounce = cfg.SearchDebounce
		}
		logger, err = logging.NewCLI(verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "forum API base URL (default $FORUM_API_URL)")
	rootCmd.PersistentFlags().StringVar(&sessionFile, "session-file", "", "where the login session is kept (default $JOURNEYCTL_SESSION)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "per request timeout, 0 waits forever")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log requests to stderr")

	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, whoamiCmd)
	rootCmd.AddCommand(exploreCmd, showCmd, likeCmd, postCmd, dashboardCmd)
	rootCmd.AddCommand(commentCmd)
}

// env is what every command needs to reach the forum.
type env struct {
	api      *apiclient.Client
	store    *session.FileStore
	sessions *session.Manager
}

func newEnv() (*env, error) {
	var client *http.Client
	if timeout > 0 {
		client = &http.Client{Timeout: timeout}
	}
	api, err := apiclient.New(apiURL, client, logger.Named("forum"))
	if err != nil {
		return nil, err
	}
	store := session.NewFileStore(sessionFile)
	return &env{api: api, store: store, sessions: session.NewManager(store, api, logger)}, nil
}

// current returns the saved session.
func (e *env) current(ctx context.Context) (*session.Session, error) {
	s, err := e.store.Current(ctx)
	if errors.Is(err, session.ErrNotFound) {
		return nil, errNotLoggedIn
	}
	return s, err
}

// optional returns the saved session or nil for an anonymous visitor.
func (e *env) optional(ctx context.Context) (*session.Session, error) {
	s, err := e.store.Current(ctx)
	if errors.Is(err, session.ErrNotFound) {
		return nil, nil
	}
	return s, err
}

func (e *env) page(s *session.Session) *explore.Page {
	if s == nil {
		return explore.NewPage(e.api, "", nil, logger)
	}
	return explore.NewPage(e.api, s.Token, s.User, logger)
}

// check clears the saved session when the forum rejected its token.
func (e *env) check(ctx context.Context, s *session.Session, err error) error {
	if err == nil {
		return nil
	}
	if s != nil && errors.Is(err, apiclient.ErrUnauthorized) {
		e.sessions.Invalidate(ctx, s)
		return errors.New("session expired, please login again")
	}
	return err
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
