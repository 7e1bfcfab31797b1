package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/nftlens/cli/internal/config"
	"github.com/nftlens/cli/internal/host"
	"github.com/nftlens/cli/pkg/analytics"
	"github.com/nftlens/cli/pkg/locator"
	"github.com/nftlens/cli/pkg/util"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

type statusCheck struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type statusResponse struct {
	Status string        `json:"status"`
	Checks []statusCheck `json:"checks"`
}

const (
	statusOK      = "ok"
	statusWarning = "warning"
	statusFailed  = "failed"
	statusSkipped = "skipped"
)

// StatusCmd checks that nftlens can reach everything it depends on.
// A nil blockchains service means no API key is configured; a nil tabs
// source means no DevTools endpoint is configured.
type StatusCmd struct {
	configPath  string
	blockchains BlockchainService
	tabs        host.TabSource
	extractor   locator.Extractor
}

type StatusInput struct {
	Output string
}

// Check runs every check and prints the results. It fails only when the analytics API is unusable.
func (s StatusCmd) Check(ctx context.Context, in StatusInput) error {
	resp := statusResponse{Status: statusOK}

	cfgCheck := statusCheck{Name: "Config file", Status: statusOK, Detail: s.configPath}
	if s.configPath == "" {
		cfgCheck.Status, cfgCheck.Detail = statusSkipped, "using defaults"
	}
	resp.Checks = append(resp.Checks, cfgCheck)

	resp.Checks = append(resp.Checks, s.checkAPI(ctx))
	resp.Checks = append(resp.Checks, s.checkBrowser(ctx))

	for _, c := range resp.Checks {
		if c.Status == statusFailed {
			resp.Status = statusFailed
			break
		}
		if c.Status == statusWarning {
			resp.Status = statusWarning
		}
	}

	if in.Output == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(resp); err != nil {
			return err
		}
	} else {
		printStatus(resp)
	}

	if resp.Status == statusFailed {
		return fmt.Errorf("one or more checks failed")
	}
	return nil
}

func (s StatusCmd) checkAPI(ctx context.Context) statusCheck {
	c := statusCheck{Name: "Analytics API"}
	if s.blockchains == nil {
		c.Status, c.Detail = statusFailed, "no API key configured (run 'nftlens apikey set')"
		return c
	}
	start := time.Now()
	list, err := s.blockchains.List(ctx, analytics.BlockchainListParams{Limit: 1})
	if err != nil {
		c.Status, c.Detail = statusFailed, util.CleanedUpSdkError{Err: err}.Error()
		return c
	}
	c.Status = statusOK
	c.Detail = fmt.Sprintf("reachable in %s", time.Since(start).Round(time.Millisecond))
	if len(list.Blockchains) == 0 {
		c.Status, c.Detail = statusWarning, "reachable but returned no blockchains"
	}
	return c
}

func (s StatusCmd) checkBrowser(ctx context.Context) statusCheck {
	c := statusCheck{Name: "Browser tab"}
	if s.tabs == nil {
		c.Status, c.Detail = statusSkipped, "no DevTools endpoint (pass a URL or --cdp-url)"
		return c
	}
	url, err := s.tabs.ActiveTabURL(ctx)
	if err != nil {
		c.Status, c.Detail = statusWarning, err.Error()
		return c
	}
	out := s.extractor.Classify(url)
	c.Status = statusOK
	if out.OK() {
		c.Detail = "active tab: " + out.Locator.String()
	} else {
		c.Detail = fmt.Sprintf("active tab is not an NFT page (%s)", out.Reason)
	}
	return c
}

var statusDisplay = map[string]struct {
	label string
	rgb   pterm.RGB
}{
	statusOK:      {label: "OK", rgb: pterm.NewRGB(31, 163, 130)},
	statusWarning: {label: "Warning", rgb: pterm.NewRGB(245, 158, 11)},
	statusFailed:  {label: "Failed", rgb: pterm.NewRGB(239, 68, 68)},
	statusSkipped: {label: "Skipped", rgb: pterm.NewRGB(128, 128, 128)},
}

func getStatusDisplay(status string) (string, pterm.RGB) {
	if d, ok := statusDisplay[status]; ok {
		return d.label, d.rgb
	}
	return "Unknown", pterm.NewRGB(128, 128, 128)
}

func coloredDot(rgb pterm.RGB) string {
	return rgb.Sprint("●")
}

func printStatus(resp statusResponse) {
	label, rgb := getStatusDisplay(resp.Status)
	pterm.Println()
	pterm.Println("  nftlens status: " + rgb.Sprint(label))
	pterm.Println()
	for _, c := range resp.Checks {
		checkLabel, checkColor := getStatusDisplay(c.Status)
		pterm.Printf("    %s %-15s %-8s %s\n", coloredDot(checkColor), c.Name, checkLabel, c.Detail)
	}
	pterm.Println()
}

// --- Cobra wiring ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check configuration, API access and browser connectivity",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().String("cdp-url", "", "Chrome DevTools endpoint to check")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	rt := getRuntime(cmd)
	output, err := getOutput(cmd)
	if err != nil {
		return err
	}
	ex, err := rt.cfg.Extractor()
	if err != nil {
		return err
	}
	cfgFlag, _ := cmd.Flags().GetString("config")
	s := StatusCmd{configPath: config.GetConfigPath(cfgFlag), extractor: ex}

	if client, err := getAnalyticsClient(cmd); err == nil {
		svc := client.Blockchains
		s.blockchains = &svc
	} else {
		rt.log.Debug().Err(err).Msg("analytics client unavailable")
	}

	if cdpURL := resolveCDPURL(cmd); cdpURL != "" {
		s.tabs = host.NewDevToolsTab(cdpURL)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
	defer cancel()
	return s.Check(ctx, StatusInput{Output: output})
}
