package cmd

import (
	"bytes"
	"context"
	"io"
	"os"
	"testing"

	"github.com/nftlens/cli/pkg/analytics"
	"github.com/pterm/pterm"
	"github.com/stretchr/testify/require"
)

// outBuf collects pterm output for the current test.
var outBuf bytes.Buffer

func setupStdoutCapture(t *testing.T) {
	t.Helper()
	outBuf.Reset()
	pterm.DisableStyling()
	pterm.SetDefaultOutput(&outBuf)
	t.Cleanup(func() {
		pterm.SetDefaultOutput(os.Stdout)
		pterm.EnableStyling()
	})
}

// captureStdout redirects os.Stdout until the returned function is called,
// which returns everything written.
func captureStdout(t *testing.T) func() string {
	t.Helper()
	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	t.Cleanup(func() { os.Stdout = oldStdout })

	return func() string {
		w.Close()
		os.Stdout = oldStdout
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		return buf.String()
	}
}

func num(v float64) analytics.Number { return analytics.Number{Value: v, Valid: true} }

func raw(s string) analytics.Raw { return analytics.Raw{JSON: s} }

type FakeBlockchainService struct {
	ListFunc func(ctx context.Context, params analytics.BlockchainListParams) (*analytics.BlockchainList, error)
}

func (f *FakeBlockchainService) List(ctx context.Context, params analytics.BlockchainListParams) (*analytics.BlockchainList, error) {
	if f.ListFunc != nil {
		return f.ListFunc(ctx, params)
	}
	return &analytics.BlockchainList{}, nil
}

type FakeMarketTrendService struct {
	TrendFunc func(ctx context.Context, params analytics.MarketTrendParams) (*analytics.MarketTrend, error)
}

func (f *FakeMarketTrendService) Trend(ctx context.Context, params analytics.MarketTrendParams) (*analytics.MarketTrend, error) {
	if f.TrendFunc != nil {
		return f.TrendFunc(ctx, params)
	}
	return &analytics.MarketTrend{}, nil
}

type FakeMarketInsightsService struct {
	TradersFunc   func(ctx context.Context, params analytics.MarketInsightsParams) (*analytics.TradersTrend, error)
	WashtradeFunc func(ctx context.Context, params analytics.MarketInsightsParams) (*analytics.WashtradeTrend, error)
}

func (f *FakeMarketInsightsService) Traders(ctx context.Context, params analytics.MarketInsightsParams) (*analytics.TradersTrend, error) {
	if f.TradersFunc != nil {
		return f.TradersFunc(ctx, params)
	}
	return &analytics.TradersTrend{}, nil
}

func (f *FakeMarketInsightsService) Washtrade(ctx context.Context, params analytics.MarketInsightsParams) (*analytics.WashtradeTrend, error) {
	if f.WashtradeFunc != nil {
		return f.WashtradeFunc(ctx, params)
	}
	return &analytics.WashtradeTrend{}, nil
}

type FakeNFTService struct {
	PriceEstimateFunc           func(ctx context.Context, params analytics.NFTParams) (*analytics.NFTPriceEstimate, error)
	CollectionPriceEstimateFunc func(ctx context.Context, params analytics.NFTParams) (*analytics.CollectionPriceEstimate, error)
	TransactionsFunc            func(ctx context.Context, params analytics.NFTParams) (*analytics.TransactionList, error)
	TradersFunc                 func(ctx context.Context, params analytics.NFTParams) (*analytics.NFTTraders, error)
	TradersInsightsFunc         func(ctx context.Context, params analytics.NFTParams) (*analytics.TradersTrend, error)
	AnalyticsFunc               func(ctx context.Context, params analytics.NFTParams) (*analytics.NFTAnalytics, error)
	WashtradeFunc               func(ctx context.Context, params analytics.NFTParams) (*analytics.NFTWashtrade, error)
	HoldersFunc                 func(ctx context.Context, params analytics.NFTParams) (*analytics.NFTHolders, error)
	ScoresFunc                  func(ctx context.Context, params analytics.NFTParams) (*analytics.NFTScores, error)
}

func (f *FakeNFTService) PriceEstimate(ctx context.Context, params analytics.NFTParams) (*analytics.NFTPriceEstimate, error) {
	if f.PriceEstimateFunc != nil {
		return f.PriceEstimateFunc(ctx, params)
	}
	return &analytics.NFTPriceEstimate{}, nil
}

func (f *FakeNFTService) CollectionPriceEstimate(ctx context.Context, params analytics.NFTParams) (*analytics.CollectionPriceEstimate, error) {
	if f.CollectionPriceEstimateFunc != nil {
		return f.CollectionPriceEstimateFunc(ctx, params)
	}
	return &analytics.CollectionPriceEstimate{}, nil
}

func (f *FakeNFTService) Transactions(ctx context.Context, params analytics.NFTParams) (*analytics.TransactionList, error) {
	if f.TransactionsFunc != nil {
		return f.TransactionsFunc(ctx, params)
	}
	return &analytics.TransactionList{}, nil
}

func (f *FakeNFTService) Traders(ctx context.Context, params analytics.NFTParams) (*analytics.NFTTraders, error) {
	if f.TradersFunc != nil {
		return f.TradersFunc(ctx, params)
	}
	return &analytics.NFTTraders{}, nil
}

func (f *FakeNFTService) TradersInsights(ctx context.Context, params analytics.NFTParams) (*analytics.TradersTrend, error) {
	if f.TradersInsightsFunc != nil {
		return f.TradersInsightsFunc(ctx, params)
	}
	return &analytics.TradersTrend{}, nil
}

func (f *FakeNFTService) Analytics(ctx context.Context, params analytics.NFTParams) (*analytics.NFTAnalytics, error) {
	if f.AnalyticsFunc != nil {
		return f.AnalyticsFunc(ctx, params)
	}
	return &analytics.NFTAnalytics{}, nil
}

func (f *FakeNFTService) Washtrade(ctx context.Context, params analytics.NFTParams) (*analytics.NFTWashtrade, error) {
	if f.WashtradeFunc != nil {
		return f.WashtradeFunc(ctx, params)
	}
	return &analytics.NFTWashtrade{}, nil
}

func (f *FakeNFTService) Holders(ctx context.Context, params analytics.NFTParams) (*analytics.NFTHolders, error) {
	if f.HoldersFunc != nil {
		return f.HoldersFunc(ctx, params)
	}
	return &analytics.NFTHolders{}, nil
}

func (f *FakeNFTService) Scores(ctx context.Context, params analytics.NFTParams) (*analytics.NFTScores, error) {
	if f.ScoresFunc != nil {
		return f.ScoresFunc(ctx, params)
	}
	return &analytics.NFTScores{}, nil
}
