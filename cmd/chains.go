package cmd

import (
	"context"
	"strconv"

	"github.com/nftlens/cli/pkg/analytics"
	"github.com/nftlens/cli/pkg/util"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// BlockchainService defines the subset of the analytics client used to list chains.
type BlockchainService interface {
	List(ctx context.Context, params analytics.BlockchainListParams) (*analytics.BlockchainList, error)
}

type ChainsCmd struct {
	blockchains BlockchainService
}

type ChainsInput struct {
	Offset int64
	Limit  int64
	Output string
}

// List prints the chains the API supports.
func (c ChainsCmd) List(ctx context.Context, in ChainsInput) error {
	list, err := c.blockchains.List(ctx, analytics.BlockchainListParams{Offset: in.Offset, Limit: in.Limit})
	if err != nil {
		return util.CleanedUpSdkError{Err: err}
	}

	if in.Output == "json" {
		return util.PrintPrettyJSON(list)
	}

	if len(list.Blockchains) == 0 {
		pterm.Info.Println("No blockchains found")
		return nil
	}

	rows := pterm.TableData{{"ID", "Name", "Currency", "Latest Data"}}
	for _, b := range list.Blockchains {
		rows = append(rows, []string{
			strconv.FormatInt(b.ID, 10),
			b.Name,
			util.OrDash(b.CurrencyID),
			util.OrDash(analytics.FormatDate(b.LatestDataTimestamp)),
		})
	}
	PrintTableNoPad(rows, true)
	return nil
}

// --- Cobra wiring ---

var chainsCmd = &cobra.Command{
	Use:   "chains",
	Short: "List supported blockchains",
	Args:  cobra.NoArgs,
	RunE:  runChains,
}

func init() {
	chainsCmd.Flags().Int64("limit", 30, "Maximum number of results")
	chainsCmd.Flags().Int64("offset", 0, "Number of results to skip")
	rootCmd.AddCommand(chainsCmd)
}

func runChains(cmd *cobra.Command, args []string) error {
	output, err := getOutput(cmd)
	if err != nil {
		return err
	}
	client, err := getAnalyticsClient(cmd)
	if err != nil {
		return err
	}
	limit, _ := cmd.Flags().GetInt64("limit")
	offset, _ := cmd.Flags().GetInt64("offset")

	svc := client.Blockchains
	c := ChainsCmd{blockchains: &svc}
	return c.List(cmd.Context(), ChainsInput{Offset: offset, Limit: limit, Output: output})
}
