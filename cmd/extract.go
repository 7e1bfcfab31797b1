package cmd

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/nftlens/cli/internal/host"
	"github.com/nftlens/cli/pkg/locator"
	"github.com/nftlens/cli/pkg/util"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// ExtractCmd extracts an NFT locator from a URL or the active browser tab.
type ExtractCmd struct {
	tabs      host.TabSource
	extractor locator.Extractor
	log       zerolog.Logger
}

type ExtractInput struct {
	Output string
}

type extractResult struct {
	URL     string              `json:"url"`
	Found   bool                `json:"found"`
	Reason  string              `json:"reason"`
	Locator *locator.NftLocator `json:"locator,omitempty"`
}

// Extract prints the NFT details card, or the classification as JSON.
func (e ExtractCmd) Extract(ctx context.Context, in ExtractInput) error {
	url, out, err := locate(ctx, e.tabs, e.extractor, e.log)
	var navErr *NavigationError
	if err != nil && !errors.As(err, &navErr) {
		return err
	}

	if in.Output == "json" {
		res := extractResult{URL: url, Found: out.OK(), Reason: out.Reason.String()}
		if out.OK() {
			loc := out.Locator
			res.Locator = &loc
		}
		b, mErr := json.Marshal(res)
		if mErr != nil {
			return mErr
		}
		if pErr := util.PrintPrettyJSON(util.RawJSON(b)); pErr != nil {
			return pErr
		}
		return err
	}

	if err != nil {
		return err
	}
	pterm.Println(renderLocatorCard(out.Locator))
	return nil
}

// --- Cobra wiring ---

var extractCmd = &cobra.Command{
	Use:   "extract [url]",
	Short: "Extract the NFT from a marketplace URL",
	Long: `Extract the blockchain, contract address and token id from an OpenSea asset URL.

Without a URL argument the active tab of a running Chrome is used; pass its
DevTools endpoint with --cdp-url or set NFTLENS_CDP_URL.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().String("cdp-url", "", "Chrome DevTools endpoint to read the active tab from")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	rt := getRuntime(cmd)
	output, err := getOutput(cmd)
	if err != nil {
		return err
	}
	ex, err := rt.cfg.Extractor()
	if err != nil {
		return err
	}
	e := ExtractCmd{tabs: getTabSource(cmd, args), extractor: ex, log: rt.log}
	return e.Extract(cmd.Context(), ExtractInput{Output: output})
}
