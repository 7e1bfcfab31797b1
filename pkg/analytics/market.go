package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"
)

// BlockchainService lists supported chains.
type BlockchainService struct {
	cfg *clientConfig
}

type BlockchainListParams struct {
	Offset int64
	Limit  int64
}

func (s BlockchainService) List(ctx context.Context, params BlockchainListParams) (*BlockchainList, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 30
	}
	body, err := s.cfg.get(ctx, request{
		path: "/api/v1/blockchains",
		query: map[string][]string{
			"sort_by": {"blockchain_name"},
			"offset":  {strconv.FormatInt(params.Offset, 10)},
			"limit":   {strconv.FormatInt(limit, 10)},
		},
		legacy: true,
	})
	if err != nil {
		return nil, err
	}

	out := &BlockchainList{Raw: Raw{JSON: string(body)}}
	var decodeErr error
	gjson.GetBytes(body, "blockchains").ForEach(func(_, v gjson.Result) bool {
		meta := v.Get("metadata")
		if !meta.Exists() {
			meta = v
		}
		var b Blockchain
		if err := json.Unmarshal([]byte(meta.Raw), &b); err != nil {
			decodeErr = err
			return false
		}
		out.Blockchains = append(out.Blockchains, b)
		return true
	})
	if decodeErr != nil {
		return nil, fmt.Errorf("failed to decode blockchains: %w", decodeErr)
	}
	return out, nil
}

// MarketService serves market-wide trends.
type MarketService struct {
	cfg *clientConfig
}

type MarketTrendParams struct {
	Currency  string
	ChainID   int64
	Metric    string
	TimeRange string
}

// Trend returns the market trend for one metric. Points whose value is not a
// number (the API reports missing data as "NA") are dropped.
func (s MarketService) Trend(ctx context.Context, params MarketTrendParams) (*MarketTrend, error) {
	currency := params.Currency
	if currency == "" {
		currency = "usd"
	}
	body, err := s.cfg.get(ctx, request{
		path: "/api/v1/market/trend",
		query: map[string][]string{
			"currency":          {currency},
			"blockchain":        {strconv.FormatInt(params.ChainID, 10)},
			"metrics":           {params.Metric},
			"time_range":        {params.TimeRange},
			"include_washtrade": {"true"},
		},
		legacy: true,
	})
	if err != nil {
		return nil, err
	}

	out := &MarketTrend{Raw: Raw{JSON: string(body)}, Metric: params.Metric}
	gjson.GetBytes(body, "data_points").ForEach(func(_, p gjson.Result) bool {
		// "NA" and other non-numeric values are skipped; numeric strings are kept
		var v Number
		_ = v.UnmarshalJSON([]byte(p.Get("values").Get(params.Metric).Raw))
		if !v.Valid {
			return true
		}
		out.Points = append(out.Points, TrendPoint{Date: p.Get("date").String(), Value: v.Value})
		return true
	})
	return out, nil
}

// MarketInsightsService serves chain-wide trader and washtrade series.
type MarketInsightsService struct {
	cfg *clientConfig
}

type MarketInsightsParams struct {
	Blockchain string
	TimeRange  string
}

func (p MarketInsightsParams) query() map[string][]string {
	return map[string][]string{
		"blockchain": {p.Blockchain},
		"time_range": {p.TimeRange},
	}
}

func (s MarketInsightsService) Traders(ctx context.Context, params MarketInsightsParams) (*TradersTrend, error) {
	body, err := s.cfg.get(ctx, request{path: "/api/v2/nft/market-insights/traders", query: params.query()})
	if err != nil {
		return nil, err
	}
	out := &TradersTrend{}
	if err := decodeInto(firstData(body), out); err != nil {
		return nil, fmt.Errorf("failed to decode traders trend: %w", err)
	}
	out.Raw.JSON = string(body)
	return out, nil
}

func (s MarketInsightsService) Washtrade(ctx context.Context, params MarketInsightsParams) (*WashtradeTrend, error) {
	body, err := s.cfg.get(ctx, request{path: "/api/v2/nft/market-insights/washtrade", query: params.query()})
	if err != nil {
		return nil, err
	}
	out := &WashtradeTrend{}
	if err := decodeInto(firstData(body), out); err != nil {
		return nil, fmt.Errorf("failed to decode washtrade trend: %w", err)
	}
	out.Raw.JSON = string(body)
	return out, nil
}

func decodeInto(raw string, v any) error {
	if raw == "" || raw == "null" {
		return nil
	}
	return json.Unmarshal([]byte(raw), v)
}
