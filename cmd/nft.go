package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/nftlens/cli/internal/host"
	"github.com/nftlens/cli/pkg/analytics"
	"github.com/nftlens/cli/pkg/locator"
	"github.com/nftlens/cli/pkg/util"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// NFTService defines the subset of the analytics client used for per-NFT views.
type NFTService interface {
	PriceEstimate(ctx context.Context, params analytics.NFTParams) (*analytics.NFTPriceEstimate, error)
	CollectionPriceEstimate(ctx context.Context, params analytics.NFTParams) (*analytics.CollectionPriceEstimate, error)
	Transactions(ctx context.Context, params analytics.NFTParams) (*analytics.TransactionList, error)
	Traders(ctx context.Context, params analytics.NFTParams) (*analytics.NFTTraders, error)
	TradersInsights(ctx context.Context, params analytics.NFTParams) (*analytics.TradersTrend, error)
	Analytics(ctx context.Context, params analytics.NFTParams) (*analytics.NFTAnalytics, error)
	Washtrade(ctx context.Context, params analytics.NFTParams) (*analytics.NFTWashtrade, error)
	Holders(ctx context.Context, params analytics.NFTParams) (*analytics.NFTHolders, error)
	Scores(ctx context.Context, params analytics.NFTParams) (*analytics.NFTScores, error)
}

// NftCmd shows analytics for the NFT on the current page.
type NftCmd struct {
	tabs      host.TabSource
	extractor locator.Extractor
	nft       NFTService
	log       zerolog.Logger
}

type NftInput struct {
	TimeRange string
	SortBy    string
	Output    string
}

// maxCollectionRows caps the collection estimate table.
const maxCollectionRows = 10

func (n NftCmd) locate(ctx context.Context) (locator.NftLocator, error) {
	_, out, err := locate(ctx, n.tabs, n.extractor, n.log)
	if err != nil {
		return locator.NftLocator{}, err
	}
	return out.Locator, nil
}

func (n NftCmd) params(loc locator.NftLocator, in NftInput) analytics.NFTParams {
	return analytics.NFTParams{
		Blockchain:      analytics.NormalizeChain(loc.Chain),
		ContractAddress: loc.ContractAddress,
		TokenID:         loc.TokenID,
		TimeRange:       in.TimeRange,
		SortBy:          in.SortBy,
	}
}

// Details prints the NFT details card.
func (n NftCmd) Details(ctx context.Context, in NftInput) error {
	loc, err := n.locate(ctx)
	if err != nil {
		return err
	}
	if in.Output == "json" {
		b, err := json.Marshal(loc)
		if err != nil {
			return err
		}
		return util.PrintPrettyJSON(util.RawJSON(b))
	}
	pterm.Println(renderLocatorCard(loc))
	return nil
}

// Price fetches the NFT's own price estimate and its collection's estimates together.
func (n NftCmd) Price(ctx context.Context, in NftInput) error {
	loc, err := n.locate(ctx)
	if err != nil {
		return err
	}
	p := n.params(loc, in)

	var (
		est  *analytics.NFTPriceEstimate
		coll *analytics.CollectionPriceEstimate
	)
	err = fanOut(ctx,
		func(ctx context.Context) (err error) {
			est, err = n.nft.PriceEstimate(ctx, p)
			return err
		},
		func(ctx context.Context) (err error) {
			coll, err = n.nft.CollectionPriceEstimate(ctx, p)
			return err
		},
	)
	if err != nil {
		return util.CleanedUpSdkError{Err: err}
	}

	if in.Output == "json" {
		return util.PrintPrettyJSONSections(
			util.JSONSection{Name: "price_estimate", Value: est},
			util.JSONSection{Name: "collection_price_estimate", Value: coll},
		)
	}

	pterm.DefaultSection.Println("Price Estimate (ETH)")
	if est.Estimate == nil {
		pterm.Info.Println("No price estimate available for this NFT")
	} else {
		e := est.Estimate
		rows := pterm.TableData{{"Property", "Value"}}
		rows = append(rows, []string{"Collection", util.OrDash(e.CollectionName)})
		rows = append(rows, []string{"Token ID", util.FirstOrDash(e.TokenID, loc.TokenID)})
		rows = append(rows, []string{"Lower Bound", util.FormatNumber(e.PriceEstimateLowerBound, 4)})
		rows = append(rows, []string{"Estimate", util.FormatNumber(e.PriceEstimate, 4)})
		rows = append(rows, []string{"Upper Bound", util.FormatNumber(e.PriceEstimateUpperBound, 4)})
		rows = append(rows, []string{"Percentile", formatPercentile(e.PredictionPercentile)})
		rows = append(rows, []string{"Collection Drivers", formatDriver(e.CollectionDrivers)})
		rows = append(rows, []string{"Rarity Drivers", formatDriver(e.NftRarityDrivers)})
		rows = append(rows, []string{"Sales Drivers", formatDriver(e.NftSalesDrivers)})
		PrintTableNoPad(rows, true)
	}

	pterm.DefaultSection.Println("Collection Price Estimates (ETH)")
	if len(coll.Estimates) == 0 {
		pterm.Info.Println("No collection estimates available")
		return nil
	}
	rows := pterm.TableData{{"Token ID", "Lower", "Estimate", "Upper", "Percentile"}}
	for _, e := range lo.Slice(coll.Estimates, 0, maxCollectionRows) {
		rows = append(rows, []string{
			util.OrDash(e.TokenID),
			util.FormatNumber(e.PriceEstimateLowerBound, 4),
			util.FormatNumber(e.PriceEstimate, 4),
			util.FormatNumber(e.PriceEstimateUpperBound, 4),
			formatPercentile(e.PredictionPercentile),
		})
	}
	PrintTableNoPad(rows, true)
	if extra := len(coll.Estimates) - maxCollectionRows; extra > 0 {
		pterm.Info.Printf("... and %d more (use -o json for all)\n", extra)
	}
	return nil
}

// formatPercentile renders a 0..1 fraction given as text as a percentage.
func formatPercentile(s string) string {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return "-"
	}
	return fmt.Sprintf("%.2f%%", f*100)
}

func formatDriver(s string) string {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return "-"
	}
	return fmt.Sprintf("%.4f", f)
}

// Transactions lists the NFT's transactions in the time range.
func (n NftCmd) Transactions(ctx context.Context, in NftInput) error {
	if err := validateTimeRange(in.TimeRange); err != nil {
		return err
	}
	loc, err := n.locate(ctx)
	if err != nil {
		return err
	}
	txs, err := n.nft.Transactions(ctx, n.params(loc, in))
	if err != nil {
		return util.CleanedUpSdkError{Err: err}
	}

	if in.Output == "json" {
		return util.PrintPrettyJSON(txs)
	}
	if len(txs.Transactions) == 0 {
		pterm.Info.Printf("No transactions in the last %s\n", in.TimeRange)
		return nil
	}

	rows := pterm.TableData{{"Date", "Type", "Price (USD)", "From", "To", "Marketplace", "Washtrade"}}
	for _, tx := range txs.Transactions {
		rows = append(rows, []string{
			analytics.FormatDate(util.FirstOrDash(tx.Timestamp, tx.BlockDate)),
			util.OrDash(tx.TransactionType),
			util.FormatUSD(tx.SalePriceUSD),
			util.ShortAddress(tx.SendingAddress),
			util.ShortAddress(tx.ReceivingAddress),
			util.OrDash(tx.Marketplace),
			util.OrDash(tx.IsWashtrade),
		})
	}
	PrintTableNoPad(rows, true)
	return nil
}

// Traders shows the NFT's trader metrics alongside its trader history.
func (n NftCmd) Traders(ctx context.Context, in NftInput) error {
	if err := validateTimeRange(in.TimeRange); err != nil {
		return err
	}
	loc, err := n.locate(ctx)
	if err != nil {
		return err
	}
	p := n.params(loc, in)

	var (
		traders *analytics.NFTTraders
		history *analytics.TradersTrend
	)
	err = fanOut(ctx,
		func(ctx context.Context) (err error) {
			traders, err = n.nft.Traders(ctx, p)
			return err
		},
		func(ctx context.Context) (err error) {
			history, err = n.nft.TradersInsights(ctx, p)
			return err
		},
	)
	if err != nil {
		return util.CleanedUpSdkError{Err: err}
	}

	if in.Output == "json" {
		return util.PrintPrettyJSONSections(
			util.JSONSection{Name: "traders", Value: traders},
			util.JSONSection{Name: "history", Value: history},
		)
	}

	pterm.DefaultSection.Println("Traders")
	if m := traders.Metrics; m == nil {
		pterm.Info.Println("No trader metrics available")
	} else {
		rows := pterm.TableData{{"Metric", "Value", "Change"}}
		rows = append(rows, []string{"Traders", util.FormatNumber(m.Traders, 0), util.FormatChange(m.TradersChange)})
		rows = append(rows, []string{"Buyers", util.FormatNumber(m.TradersBuyers, 0), util.FormatChange(m.TradersBuyersChange)})
		rows = append(rows, []string{"Sellers", util.FormatNumber(m.TradersSellers, 0), util.FormatChange(m.TradersSellersChange)})
		PrintTableNoPad(rows, true)
	}

	pterm.DefaultSection.Println("Trader History")
	printTradersTrend(history)
	return nil
}

// Analytics shows sales and activity, washtrade, holder and score metrics.
func (n NftCmd) Analytics(ctx context.Context, in NftInput) error {
	if err := validateTimeRange(in.TimeRange); err != nil {
		return err
	}
	loc, err := n.locate(ctx)
	if err != nil {
		return err
	}
	p := n.params(loc, in)

	var (
		stats   *analytics.NFTAnalytics
		wash    *analytics.NFTWashtrade
		holders *analytics.NFTHolders
		scores  *analytics.NFTScores
	)
	err = fanOut(ctx,
		func(ctx context.Context) (err error) {
			stats, err = n.nft.Analytics(ctx, p)
			return err
		},
		func(ctx context.Context) (err error) {
			wash, err = n.nft.Washtrade(ctx, p)
			return err
		},
		func(ctx context.Context) (err error) {
			holders, err = n.nft.Holders(ctx, p)
			return err
		},
		func(ctx context.Context) (err error) {
			scores, err = n.nft.Scores(ctx, p)
			return err
		},
	)
	if err != nil {
		return util.CleanedUpSdkError{Err: err}
	}

	if in.Output == "json" {
		return util.PrintPrettyJSONSections(
			util.JSONSection{Name: "analytics", Value: stats},
			util.JSONSection{Name: "washtrade", Value: wash},
			util.JSONSection{Name: "holders", Value: holders},
			util.JSONSection{Name: "scores", Value: scores},
		)
	}

	pterm.DefaultSection.Println("Analytics")
	if m := stats.Metrics; m == nil {
		pterm.Info.Println("No analytics available")
	} else {
		rows := pterm.TableData{{"Metric", "Value", "Change"}}
		rows = append(rows, []string{"Volume (USD)", util.FormatUSD(m.Volume), util.FormatChange(m.VolumeChange)})
		rows = append(rows, []string{"Sales", util.FormatNumber(m.Sales, 0), util.FormatChange(m.SalesChange)})
		rows = append(rows, []string{"Transactions", util.FormatNumber(m.Transactions, 0), util.FormatChange(m.TransactionsChange)})
		rows = append(rows, []string{"Transfers", util.FormatNumber(m.Transfers, 0), util.FormatChange(m.TransfersChange)})
		rows = append(rows, []string{"Assets", util.FormatNumber(m.Assets, 0), util.FormatChange(m.AssetsChange)})
		PrintTableNoPad(rows, true)
	}

	pterm.DefaultSection.Println("Washtrade")
	if m := wash.Metrics; m == nil {
		pterm.Info.Println("No washtrade data available")
	} else {
		rows := pterm.TableData{{"Metric", "Value", "Change"}}
		rows = append(rows, []string{"Volume (USD)", util.FormatUSD(m.Volume.Round2()), util.FormatChange(m.VolumeChange)})
		rows = append(rows, []string{"Suspect Sales", util.FormatNumber(m.SuspectSales.Round2(), 2), util.FormatChange(m.SuspectSalesChange)})
		rows = append(rows, []string{"Suspect Transactions", util.FormatNumber(m.SuspectTransactions.Round2(), 2), util.FormatChange(m.SuspectTransactionsChange)})
		rows = append(rows, []string{"Assets", util.FormatNumber(m.Assets.Round2(), 2), util.FormatChange(m.AssetsChange)})
		rows = append(rows, []string{"Wallets", util.FormatNumber(m.Wallets.Round2(), 2), util.FormatChange(m.WalletsChange)})
		PrintTableNoPad(rows, true)
	}

	pterm.DefaultSection.Println("Holders")
	if m := holders.Metrics; m == nil {
		pterm.Info.Println("No holder data available")
	} else {
		rows := pterm.TableData{{"Metric", "Value"}}
		rows = append(rows, []string{"Holders", util.FormatNumber(m.Holders, 0) + " (" + util.FormatChange(m.HoldersChange) + ")"})
		rows = append(rows, []string{"Past Owners", util.FormatNumber(m.PastOwnersCount, 0)})
		rows = append(rows, []string{"Hold Duration (days)", util.FormatNumber(m.HoldDuration, 0)})
		rows = append(rows, []string{"New Holders", util.JoinOrDash(lo.Map(m.WalletHolderNew, func(a string, _ int) string { return util.ShortAddress(a) })...)})
		PrintTableNoPad(rows, true)
	}

	pterm.DefaultSection.Println("Scores")
	if m := scores.Metrics; m == nil {
		pterm.Info.Println("No score data available")
	} else {
		rows := pterm.TableData{{"Metric", "Value"}}
		rows = append(rows, []string{"Price (USD)", util.FormatUSD(m.Price)})
		rows = append(rows, []string{"Estimated Price (USD)", util.FormatUSD(m.EstimatedPrice)})
		rows = append(rows, []string{"All-Time Low (USD)", util.FormatUSD(m.AllTimeLow)})
		rows = append(rows, []string{"Max Price (USD)", util.FormatUSD(m.MaxPrice)})
		rows = append(rows, []string{"Price Ceiling (USD)", util.FormatUSD(m.PriceCeiling)})
		rows = append(rows, []string{"Rarity Rank", util.FormatNumber(m.RarityRank, 0)})
		rows = append(rows, []string{"Rarity Score", util.FormatNumber(m.RarityScore, 2)})
		rows = append(rows, []string{"Washtrade Status", util.OrDash(m.WashtradeStatus)})
		PrintTableNoPad(rows, true)
	}
	return nil
}

// --- Cobra wiring ---

var nftCmd = &cobra.Command{
	Use:   "nft",
	Short: "Analyze a single NFT",
	Long: `Analyze the NFT at a marketplace URL.

Every subcommand takes the asset URL as its argument. Without it the active tab
of a running Chrome is used (see --cdp-url).`,
}

var nftDetailsCmd = &cobra.Command{
	Use:   "details [url]",
	Short: "Show the NFT's chain, contract and token id",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runNftDetails,
}

var nftPriceCmd = &cobra.Command{
	Use:   "price [url]",
	Short: "Show price estimates for the NFT and its collection",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runNftPrice,
}

var nftTransactionsCmd = &cobra.Command{
	Use:   "transactions [url]",
	Short: "List the NFT's transactions",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runNftTransactions,
}

var nftTradersCmd = &cobra.Command{
	Use:   "traders [url]",
	Short: "Show trader metrics and history",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runNftTraders,
}

var nftAnalyticsCmd = &cobra.Command{
	Use:   "analytics [url]",
	Short: "Show sales, washtrade, holder and score metrics",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runNftAnalytics,
}

func init() {
	nftCmd.PersistentFlags().String("cdp-url", "", "Chrome DevTools endpoint to read the active tab from")

	for _, c := range []*cobra.Command{nftTransactionsCmd, nftTradersCmd, nftAnalyticsCmd} {
		c.Flags().String("time-range", "", "Time range: "+strings.Join(analytics.TimeRanges, ", "))
	}
	nftTradersCmd.Flags().String("sort-by", "traders", "Sort traders by this field")
	nftAnalyticsCmd.Flags().String("sort-by", "sales", "Sort analytics by this field")

	nftCmd.AddCommand(nftDetailsCmd)
	nftCmd.AddCommand(nftPriceCmd)
	nftCmd.AddCommand(nftTransactionsCmd)
	nftCmd.AddCommand(nftTradersCmd)
	nftCmd.AddCommand(nftAnalyticsCmd)
	rootCmd.AddCommand(nftCmd)
}

// newNftCmd wires an NftCmd. The API client is only built when needAPI is set
// so details works without a key.
func newNftCmd(cmd *cobra.Command, args []string, needAPI bool) (NftCmd, NftInput, error) {
	rt := getRuntime(cmd)
	output, err := getOutput(cmd)
	if err != nil {
		return NftCmd{}, NftInput{}, err
	}
	ex, err := rt.cfg.Extractor()
	if err != nil {
		return NftCmd{}, NftInput{}, err
	}
	n := NftCmd{tabs: getTabSource(cmd, args), extractor: ex, log: rt.log}
	if needAPI {
		client, err := getAnalyticsClient(cmd)
		if err != nil {
			return NftCmd{}, NftInput{}, err
		}
		svc := client.NFT
		n.nft = &svc
	}

	in := NftInput{Output: output, TimeRange: rt.cfg.Defaults.TimeRange}
	if f := cmd.Flags().Lookup("time-range"); f != nil && f.Value.String() != "" {
		in.TimeRange = f.Value.String()
	}
	if f := cmd.Flags().Lookup("sort-by"); f != nil {
		in.SortBy = f.Value.String()
	}
	return n, in, nil
}

func runNftDetails(cmd *cobra.Command, args []string) error {
	n, in, err := newNftCmd(cmd, args, false)
	if err != nil {
		return err
	}
	return n.Details(cmd.Context(), in)
}

func runNftPrice(cmd *cobra.Command, args []string) error {
	n, in, err := newNftCmd(cmd, args, true)
	if err != nil {
		return err
	}
	return n.Price(cmd.Context(), in)
}

func runNftTransactions(cmd *cobra.Command, args []string) error {
	n, in, err := newNftCmd(cmd, args, true)
	if err != nil {
		return err
	}
	return n.Transactions(cmd.Context(), in)
}

func runNftTraders(cmd *cobra.Command, args []string) error {
	n, in, err := newNftCmd(cmd, args, true)
	if err != nil {
		return err
	}
	return n.Traders(cmd.Context(), in)
}

func runNftAnalytics(cmd *cobra.Command, args []string) error {
	n, in, err := newNftCmd(cmd, args, true)
	if err != nil {
		return err
	}
	return n.Analytics(cmd.Context(), in)
}
