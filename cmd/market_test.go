package cmd

import (
	"context"
	"errors"
	"testing"

	"github.com/nftlens/cli/pkg/analytics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMarketCmd(b *FakeBlockchainService, m *FakeMarketTrendService, i *FakeMarketInsightsService) MarketCmd {
	return MarketCmd{blockchains: b, market: m, insights: i}
}

func TestResolveChain(t *testing.T) {
	name, id, err := resolveChain("Ethereum", 0)
	require.NoError(t, err)
	assert.Equal(t, "ethereum", name)
	assert.Equal(t, int64(1), id)

	name, id, err = resolveChain("matic", 0)
	require.NoError(t, err)
	assert.Equal(t, "polygon", name)
	assert.Equal(t, int64(137), id)

	name, id, err = resolveChain("", 8453)
	require.NoError(t, err)
	assert.Equal(t, "base", name)
	assert.Equal(t, int64(8453), id)

	name, id, err = resolveChain("zksync", 324)
	require.NoError(t, err)
	assert.Equal(t, "zksync", name)
	assert.Equal(t, int64(324), id)

	_, _, err = resolveChain("zksync", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown chain "zksync"`)
	assert.Contains(t, err.Error(), "avalanche, base, binance")

	_, _, err = resolveChain("", 999)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown chain id 999")
}

func TestMarketShow_Tables(t *testing.T) {
	setupStdoutCapture(t)

	var gotTrend analytics.MarketTrendParams
	var gotInsights []analytics.MarketInsightsParams
	chains := &FakeBlockchainService{
		ListFunc: func(ctx context.Context, p analytics.BlockchainListParams) (*analytics.BlockchainList, error) {
			return &analytics.BlockchainList{Blockchains: []analytics.Blockchain{
				{ID: 1, Name: "ethereum", CurrencyID: "eth"},
				{ID: 137, Name: "polygon", CurrencyID: "matic"},
			}}, nil
		},
	}
	market := &FakeMarketTrendService{
		TrendFunc: func(ctx context.Context, p analytics.MarketTrendParams) (*analytics.MarketTrend, error) {
			gotTrend = p
			return &analytics.MarketTrend{Metric: p.Metric, Points: []analytics.TrendPoint{
				{Date: "2024-03-01T00:00:00Z", Value: 1234567.891},
			}}, nil
		},
	}
	insights := &FakeMarketInsightsService{
		TradersFunc: func(ctx context.Context, p analytics.MarketInsightsParams) (*analytics.TradersTrend, error) {
			gotInsights = append(gotInsights, p)
			return &analytics.TradersTrend{
				BlockDates: []string{"2024-03-01"},
				Traders:    []analytics.Number{num(5000)},
				Buyers:     []analytics.Number{num(3000)},
				Sellers:    []analytics.Number{{}},
			}, nil
		},
		WashtradeFunc: func(ctx context.Context, p analytics.MarketInsightsParams) (*analytics.WashtradeTrend, error) {
			return &analytics.WashtradeTrend{
				BlockDates:   []string{"2024-03-01"},
				Assets:       []analytics.Number{num(10.556)},
				SuspectSales: []analytics.Number{num(3)},
				Volume:       []analytics.Number{num(99.999)},
			}, nil
		},
	}

	m := newTestMarketCmd(chains, market, insights)
	err := m.Show(context.Background(), MarketInput{Chain: "ethereum", Metric: "volume", TimeRange: "7d", Currency: "usd"})
	require.NoError(t, err)

	assert.Equal(t, analytics.MarketTrendParams{Currency: "usd", ChainID: 1, Metric: "volume", TimeRange: "7d"}, gotTrend)
	require.Len(t, gotInsights, 1)
	assert.Equal(t, "ethereum", gotInsights[0].Blockchain)

	out := outBuf.String()
	assert.Contains(t, out, "Chain: Ethereum (id 1, eth)")
	assert.Contains(t, out, "Time range: 7d")
	assert.Contains(t, out, "Volume")
	assert.Contains(t, out, "1,234,567.89")
	assert.Contains(t, out, "5,000")
	assert.Contains(t, out, "Washtrade")
	assert.Contains(t, out, "10.56")
	assert.Contains(t, out, "100.00")
}

func TestMarketShow_EmptySeries(t *testing.T) {
	setupStdoutCapture(t)

	m := newTestMarketCmd(&FakeBlockchainService{}, &FakeMarketTrendService{}, &FakeMarketInsightsService{})
	require.NoError(t, m.Show(context.Background(), MarketInput{Chain: "base", Metric: "sales", TimeRange: "24h"}))

	out := outBuf.String()
	assert.Contains(t, out, "Chain: base (id 8453)")
	assert.Contains(t, out, "No trend data")
	assert.Contains(t, out, "No trader data")
	assert.Contains(t, out, "No washtrade data")
}

func TestMarketShow_OneFailurePrintsNothing(t *testing.T) {
	setupStdoutCapture(t)

	insights := &FakeMarketInsightsService{
		WashtradeFunc: func(ctx context.Context, p analytics.MarketInsightsParams) (*analytics.WashtradeTrend, error) {
			return nil, &analytics.Error{StatusCode: 401, Message: "invalid api key"}
		},
	}
	m := newTestMarketCmd(&FakeBlockchainService{}, &FakeMarketTrendService{}, insights)
	err := m.Show(context.Background(), MarketInput{Chain: "ethereum", Metric: "volume", TimeRange: "24h"})
	require.Error(t, err)
	assert.True(t, analytics.IsUnauthorized(err))
	assert.Contains(t, err.Error(), "check your API key")
	assert.Empty(t, outBuf.String())
}

func TestMarketShow_ValidatesBeforeFetching(t *testing.T) {
	called := false
	chains := &FakeBlockchainService{
		ListFunc: func(ctx context.Context, p analytics.BlockchainListParams) (*analytics.BlockchainList, error) {
			called = true
			return &analytics.BlockchainList{}, nil
		},
	}
	m := newTestMarketCmd(chains, &FakeMarketTrendService{}, &FakeMarketInsightsService{})

	tests := []struct {
		name    string
		in      MarketInput
		wantErr string
	}{
		{"unknown chain", MarketInput{Chain: "tron", Metric: "volume", TimeRange: "24h"}, `unknown chain "tron"`},
		{"bad time range", MarketInput{Chain: "ethereum", Metric: "volume", TimeRange: "1h"}, `invalid time range "1h"`},
		{"bad metric", MarketInput{Chain: "ethereum", Metric: "floor", TimeRange: "24h"}, `invalid metric "floor"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := m.Show(context.Background(), tt.in)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
	assert.False(t, called)
}

func TestMarketShow_JSON(t *testing.T) {
	setupStdoutCapture(t)
	read := captureStdout(t)

	chains := &FakeBlockchainService{
		ListFunc: func(ctx context.Context, p analytics.BlockchainListParams) (*analytics.BlockchainList, error) {
			return &analytics.BlockchainList{Raw: raw(`{"data":[{"id":1}]}`)}, nil
		},
	}
	market := &FakeMarketTrendService{
		TrendFunc: func(ctx context.Context, p analytics.MarketTrendParams) (*analytics.MarketTrend, error) {
			return &analytics.MarketTrend{Raw: raw(`{"data":{"volume":[]}}`)}, nil
		},
	}
	m := newTestMarketCmd(chains, market, &FakeMarketInsightsService{})
	require.NoError(t, m.Show(context.Background(), MarketInput{Chain: "ethereum", Metric: "volume", TimeRange: "24h", Output: "json"}))

	out := read()
	assert.Contains(t, out, `"blockchains": {`)
	assert.Contains(t, out, `"trend": {`)
	assert.Contains(t, out, `"traders": null`)
	assert.Contains(t, out, `"washtrade": null`)
}

func TestFanOut_ReturnsFirstError(t *testing.T) {
	boom := errors.New("boom")
	err := fanOut(context.Background(),
		func(ctx context.Context) error { return boom },
		func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		},
	)
	assert.ErrorIs(t, err, boom)
}

func TestNumberAt(t *testing.T) {
	ns := []analytics.Number{num(1)}
	assert.Equal(t, num(1), numberAt(ns, 0))
	assert.False(t, numberAt(ns, 1).Valid)
}
