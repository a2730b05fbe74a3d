package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/lukman83/storefront/config"
	"github.com/lukman83/storefront/internal/catalog"
	"github.com/lukman83/storefront/internal/httputil"
	"github.com/lukman83/storefront/internal/logger"
	"github.com/lukman83/storefront/internal/session"
	"github.com/lukman83/storefront/internal/transport"
)

var (
	cfg *config.Config
	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:               "storefront",
	Short:             "Storefront - product catalog CLI & MCP server",
	Long:              "Browse, search and edit a remote product catalog from the terminal, or serve it to MCP clients.",
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
}

func Execute() {
	ctx, stop := signalContext()
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("base-url", "", "Catalog base URL (default https://dummyjson.com)")
	rootCmd.PersistentFlags().Int("per-page", 0, "Products per page (default 20)")
	rootCmd.PersistentFlags().Int("max-retries", 0, "Retries for transport errors and 5xx answers")
	rootCmd.PersistentFlags().Bool("respect-robots", false, "Respect robots.txt rules")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: console, json")
	rootCmd.PersistentFlags().String("session-file", "", "Where the login cookie is kept")
}

func initConfig(cmd *cobra.Command, args []string) error {
	cfg = config.DefaultConfig()
	cfg.LoadFromEnv()

	// Override from flags
	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.BaseURL, _ = flags.GetString("base-url")
	}
	if flags.Changed("per-page") {
		cfg.ItemsPerPage, _ = flags.GetInt("per-page")
	}
	if flags.Changed("max-retries") {
		cfg.MaxRetries, _ = flags.GetInt("max-retries")
	}
	if flags.Changed("respect-robots") {
		cfg.RespectRobots, _ = flags.GetBool("respect-robots")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-format") {
		cfg.LogFormat, _ = flags.GetString("log-format")
	}
	if flags.Changed("session-file") {
		cfg.SessionFile, _ = flags.GetString("session-file")
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	log = logger.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	return nil
}

// app holds the collaborators every command shares.
type app struct {
	session *session.Store
	client  *catalog.Client
}

// newApp builds the catalog client behind the transport pipeline.
func newApp() *app {
	store := session.NewStore(cfg.SessionFile)
	limiter := rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.RateBurst)

	robotsClient := httputil.NewHTTPClient(nil, cfg.Timeout)
	robots := transport.NewRobotsChecker(robotsClient, cfg.RespectRobots)

	tr := &transport.Transport{
		Base:      httputil.NewBaseTransport(),
		UserAgent: cfg.UserAgent,
		Token: func() string {
			tok, _ := store.Token()
			return tok
		},
		Robots:      robots,
		RateLimiter: limiter,
		Log:         log,
	}

	client := catalog.NewClient(
		httputil.NewHTTPClient(tr, cfg.Timeout),
		cfg.BaseURL,
		catalog.WithMaxRetries(cfg.MaxRetries),
		catalog.WithLogger(log),
	)
	return &app{session: store, client: client}
}

// signalContext is cancelled on SIGINT, SIGTERM or SIGQUIT.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
}
