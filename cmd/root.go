package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/nftlens/cli/internal/config"
	"github.com/nftlens/cli/internal/host"
	"github.com/nftlens/cli/internal/logger"
	"github.com/nftlens/cli/pkg/analytics"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Metadata describes the build.
type Metadata struct {
	Version string
	Commit  string
	Date    string
}

var metadata = Metadata{Version: "dev", Commit: "none", Date: "unknown"}

// newKeyStore opens the store the API key is kept in. Replaced in tests.
var newKeyStore = func() host.KeyValueStore {
	return host.NewKeyringStore()
}

var rootCmd = &cobra.Command{
	Use:   "nftlens",
	Short: "NFT analytics from your terminal",
	Long: `nftlens extracts an NFT (chain, contract, token id) from a marketplace
asset URL or your browser's active tab and shows market, price, trader and
washtrade analytics for it.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadRuntime,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to the config file (default $XDG_CONFIG_HOME/nftlens/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Diagnostic log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format: json")
}

// Execute runs the root command.
func Execute(m Metadata) {
	metadata = m
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(m.Version),
		fang.WithCommit(m.Commit),
	); err != nil {
		os.Exit(1)
	}
}

type runtimeKey struct{}

// runtimeState is what every command needs after flags and config are resolved.
type runtimeState struct {
	cfg *config.Config
	log zerolog.Logger
}

func loadRuntime(cmd *cobra.Command, args []string) error {
	cfgFlag, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(config.GetConfigPath(cfgFlag))
	if err != nil {
		return err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	log, err := logger.New(logger.Options{Level: cfg.LogLevel, Format: logger.Format(cfg.LogFormat), Out: os.Stderr})
	if err != nil {
		return err
	}
	log.Debug().Str("base_url", cfg.API.BaseURL).Str("host_match", cfg.Marketplace.HostMatch).Msg("configuration loaded")
	cmd.Flags().Visit(func(f *pflag.Flag) {
		log.Debug().Str("flag", f.Name).Str("value", f.Value.String()).Msg("flag set")
	})

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, runtimeKey{}, &runtimeState{cfg: cfg, log: log}))
	return nil
}

func getRuntime(cmd *cobra.Command) *runtimeState {
	if ctx := cmd.Context(); ctx != nil {
		if rt, ok := ctx.Value(runtimeKey{}).(*runtimeState); ok {
			return rt
		}
	}
	return &runtimeState{cfg: config.Default(), log: zerolog.Nop()}
}

func getOutput(cmd *cobra.Command) (string, error) {
	output, _ := cmd.Flags().GetString("output")
	if output != "" && output != "json" {
		return "", fmt.Errorf("unsupported --output value %q (only json is supported)", output)
	}
	return output, nil
}

// getAnalyticsClient builds an API client from the resolved config and stored key.
func getAnalyticsClient(cmd *cobra.Command) (*analytics.Client, error) {
	rt := getRuntime(cmd)
	key, err := config.ResolveAPIKey(newKeyStore())
	if err != nil {
		return nil, err
	}
	if key == "" {
		return nil, analytics.ErrNoAPIKey
	}
	return analytics.NewClient(
		analytics.WithAPIKey(key),
		analytics.WithBaseURL(rt.cfg.API.BaseURL),
		analytics.WithRequestTimeout(rt.cfg.API.Timeout),
		analytics.WithLogger(rt.log),
	), nil
}

// getTabSource returns the URL given on the command line, or the browser's
// active tab when none was given.
func getTabSource(cmd *cobra.Command, args []string) host.TabSource {
	if len(args) > 0 {
		return host.StaticTab(args[0])
	}
	return host.NewDevToolsTab(resolveCDPURL(cmd))
}

// resolveCDPURL returns the DevTools endpoint from --cdp-url, the config, or a
// locally running Chrome, in that order. It returns "" when none is found.
func resolveCDPURL(cmd *cobra.Command) string {
	rt := getRuntime(cmd)
	cdpURL, _ := cmd.Flags().GetString("cdp-url")
	if cdpURL == "" {
		cdpURL = rt.cfg.CDPURL
	}
	if cdpURL != "" {
		return cdpURL
	}
	dirs, err := host.ChromeUserDataDirs()
	if err != nil {
		rt.log.Debug().Err(err).Msg("cannot look for Chrome user data")
		return ""
	}
	endpoint, err := host.DiscoverDevTools(dirs)
	if err != nil {
		rt.log.Debug().Err(err).Strs("dirs", dirs).Msg("no DevTools endpoint discovered")
		return ""
	}
	rt.log.Debug().Str("endpoint", endpoint).Msg("discovered DevTools endpoint")
	return endpoint
}
