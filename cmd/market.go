package cmd

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/nftlens/cli/pkg/analytics"
	"github.com/nftlens/cli/pkg/util"
	"github.com/pterm/pterm"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

type MarketTrendService interface {
	Trend(ctx context.Context, params analytics.MarketTrendParams) (*analytics.MarketTrend, error)
}

type MarketInsightsService interface {
	Traders(ctx context.Context, params analytics.MarketInsightsParams) (*analytics.TradersTrend, error)
	Washtrade(ctx context.Context, params analytics.MarketInsightsParams) (*analytics.WashtradeTrend, error)
}

// MarketCmd shows the broad market view for one chain.
type MarketCmd struct {
	blockchains BlockchainService
	market      MarketTrendService
	insights    MarketInsightsService
}

type MarketInput struct {
	Chain     string
	ChainID   int64
	Metric    string
	TimeRange string
	Currency  string
	Output    string
}

type marketView struct {
	chains    *analytics.BlockchainList
	trend     *analytics.MarketTrend
	traders   *analytics.TradersTrend
	washtrade *analytics.WashtradeTrend
}

// resolveChain returns the chain name for the v2 endpoints and the numeric id for v1.
func resolveChain(name string, id int64) (string, int64, error) {
	name = analytics.NormalizeChain(name)
	if id == 0 {
		known, ok := analytics.ChainID(name)
		if !ok {
			names := lo.Keys(analytics.ChainIDs)
			sort.Strings(names)
			return "", 0, fmt.Errorf("unknown chain %q: pass --chain-id or use one of %s", name, strings.Join(names, ", "))
		}
		return name, known, nil
	}
	if name == "" {
		found, ok := lo.FindKey(analytics.ChainIDs, id)
		if !ok {
			return "", 0, fmt.Errorf("unknown chain id %d: pass --chain as well", id)
		}
		name = found
	}
	return name, id, nil
}

func validateTimeRange(tr string) error {
	if !analytics.IsTimeRange(tr) {
		return fmt.Errorf("invalid time range %q: must be one of %s", tr, strings.Join(analytics.TimeRanges, ", "))
	}
	return nil
}

// Show fetches the chain list, the metric trend and the trader and washtrade
// series concurrently. Nothing is printed unless all four succeed.
func (m MarketCmd) Show(ctx context.Context, in MarketInput) error {
	chain, chainID, err := resolveChain(in.Chain, in.ChainID)
	if err != nil {
		return err
	}
	if err := validateTimeRange(in.TimeRange); err != nil {
		return err
	}
	if !analytics.IsMetric(in.Metric) {
		return fmt.Errorf("invalid metric %q: must be one of %s", in.Metric, strings.Join(analytics.MetricValues(), ", "))
	}

	insightParams := analytics.MarketInsightsParams{Blockchain: chain, TimeRange: in.TimeRange}
	var v marketView
	err = fanOut(ctx,
		func(ctx context.Context) (err error) {
			v.chains, err = m.blockchains.List(ctx, analytics.BlockchainListParams{})
			return err
		},
		func(ctx context.Context) (err error) {
			v.trend, err = m.market.Trend(ctx, analytics.MarketTrendParams{
				Currency:  in.Currency,
				ChainID:   chainID,
				Metric:    in.Metric,
				TimeRange: in.TimeRange,
			})
			return err
		},
		func(ctx context.Context) (err error) {
			v.traders, err = m.insights.Traders(ctx, insightParams)
			return err
		},
		func(ctx context.Context) (err error) {
			v.washtrade, err = m.insights.Washtrade(ctx, insightParams)
			return err
		},
	)
	if err != nil {
		return util.CleanedUpSdkError{Err: err}
	}

	if in.Output == "json" {
		return util.PrintPrettyJSONSections(
			util.JSONSection{Name: "blockchains", Value: v.chains},
			util.JSONSection{Name: "trend", Value: v.trend},
			util.JSONSection{Name: "traders", Value: v.traders},
			util.JSONSection{Name: "washtrade", Value: v.washtrade},
		)
	}

	chainLabel := fmt.Sprintf("%s (id %d)", chain, chainID)
	if b, ok := lo.Find(v.chains.Blockchains, func(b analytics.Blockchain) bool { return b.ID == chainID }); ok {
		chainLabel = fmt.Sprintf("%s (id %d, %s)", titleCase(b.Name), b.ID, util.OrDash(b.CurrencyID))
	}
	pterm.Info.Printf("Chain: %s  Time range: %s\n", chainLabel, in.TimeRange)

	pterm.DefaultSection.Println(analytics.MetricLabel(in.Metric))
	printTrend(v.trend)

	pterm.DefaultSection.Println("Traders")
	printTradersTrend(v.traders)

	pterm.DefaultSection.Println("Washtrade")
	printWashtradeTrend(v.washtrade)
	return nil
}

func printTrend(t *analytics.MarketTrend) {
	if len(t.Points) == 0 {
		pterm.Info.Println("No trend data")
		return
	}
	rows := pterm.TableData{{"Date", "Value"}}
	for _, p := range t.Points {
		rows = append(rows, []string{analytics.FormatDate(p.Date), util.FormatFloat(p.Value, 2)})
	}
	PrintTableNoPad(rows, true)
}

// numberAt returns ns[i], or an invalid Number when the series is shorter.
func numberAt(ns []analytics.Number, i int) analytics.Number {
	if i < len(ns) {
		return ns[i]
	}
	return analytics.Number{}
}

func printTradersTrend(t *analytics.TradersTrend) {
	if len(t.BlockDates) == 0 {
		pterm.Info.Println("No trader data")
		return
	}
	rows := pterm.TableData{{"Date", "Traders", "Buyers", "Sellers"}}
	for i, d := range t.BlockDates {
		rows = append(rows, []string{
			analytics.FormatDate(d),
			util.FormatNumber(numberAt(t.Traders, i), 0),
			util.FormatNumber(numberAt(t.Buyers, i), 0),
			util.FormatNumber(numberAt(t.Sellers, i), 0),
		})
	}
	PrintTableNoPad(rows, true)
}

func printWashtradeTrend(t *analytics.WashtradeTrend) {
	if len(t.BlockDates) == 0 {
		pterm.Info.Println("No washtrade data")
		return
	}
	rows := pterm.TableData{{"Date", "Assets", "Suspect Sales", "Volume"}}
	for i, d := range t.BlockDates {
		rows = append(rows, []string{
			analytics.FormatDate(d),
			util.FormatNumber(numberAt(t.Assets, i).Round2(), 2),
			util.FormatNumber(numberAt(t.SuspectSales, i).Round2(), 2),
			util.FormatNumber(numberAt(t.Volume, i).Round2(), 2),
		})
	}
	PrintTableNoPad(rows, true)
}

// --- Cobra wiring ---

var marketCmd = &cobra.Command{
	Use:   "market",
	Short: "Show market trends for a blockchain",
	Long:  "Show the market trend for one metric together with trader and washtrade activity on a blockchain",
	Args:  cobra.NoArgs,
	RunE:  runMarket,
}

func init() {
	marketCmd.Flags().String("chain", "", "Blockchain name (default from config, e.g. ethereum)")
	marketCmd.Flags().Int64("chain-id", 0, "Numeric blockchain id, for chains not known by name")
	marketCmd.Flags().String("metric", "", "Trend metric: "+strings.Join(analytics.MetricValues(), ", "))
	marketCmd.Flags().String("time-range", "", "Time range: "+strings.Join(analytics.TimeRanges, ", "))
	marketCmd.Flags().String("currency", "", "Currency: usd or eth")
	rootCmd.AddCommand(marketCmd)
}

func runMarket(cmd *cobra.Command, args []string) error {
	output, err := getOutput(cmd)
	if err != nil {
		return err
	}
	defaults := getRuntime(cmd).cfg.Defaults

	chain, _ := cmd.Flags().GetString("chain")
	chainID, _ := cmd.Flags().GetInt64("chain-id")
	metric, _ := cmd.Flags().GetString("metric")
	timeRange, _ := cmd.Flags().GetString("time-range")
	currency, _ := cmd.Flags().GetString("currency")
	if chain == "" && chainID == 0 {
		chain = defaults.Chain
	}

	client, err := getAnalyticsClient(cmd)
	if err != nil {
		return err
	}
	chains, market, insights := client.Blockchains, client.Market, client.MarketInsights
	m := MarketCmd{blockchains: &chains, market: &market, insights: &insights}

	return m.Show(cmd.Context(), MarketInput{
		Chain:     chain,
		ChainID:   chainID,
		Metric:    lo.CoalesceOrEmpty(metric, defaults.Metric),
		TimeRange: lo.CoalesceOrEmpty(timeRange, defaults.TimeRange),
		Currency:  strings.ToLower(lo.CoalesceOrEmpty(currency, defaults.Currency)),
		Output:    output,
	})
}
