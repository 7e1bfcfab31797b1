package analytics

import (
	"context"
	"encoding/json"
	"fmt"
)

// NFTService serves analytics for a single NFT.
type NFTService struct {
	cfg *clientConfig
}

// NFTParams identifies the NFT and the window to query. SortBy is ignored by
// endpoints that pin their own ordering.
type NFTParams struct {
	Blockchain      string
	ContractAddress string
	TokenID         string
	TimeRange       string
	SortBy          string
}

func (p NFTParams) query(withToken, withRange bool, sortBy string) map[string][]string {
	q := map[string][]string{
		"blockchain":       {p.Blockchain},
		"contract_address": {p.ContractAddress},
	}
	if withToken {
		q["token_id"] = []string{p.TokenID}
	}
	if withRange && p.TimeRange != "" {
		q["time_range"] = []string{p.TimeRange}
	}
	if sortBy != "" {
		q["sort_by"] = []string{sortBy}
	}
	return q
}

func (s NFTService) PriceEstimate(ctx context.Context, params NFTParams) (*NFTPriceEstimate, error) {
	body, err := s.cfg.get(ctx, request{path: "/api/v2/nft/liquify/price_estimate", query: params.query(true, false, "")})
	if err != nil {
		return nil, err
	}
	est, err := decodeFirst[PriceEstimate](body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode price estimate: %w", err)
	}
	return &NFTPriceEstimate{Raw: Raw{JSON: string(body)}, Estimate: est}, nil
}

func (s NFTService) CollectionPriceEstimate(ctx context.Context, params NFTParams) (*CollectionPriceEstimate, error) {
	body, err := s.cfg.get(ctx, request{path: "/api/v2/nft/liquify/collection/price_estimate", query: params.query(false, false, "")})
	if err != nil {
		return nil, err
	}
	out := &CollectionPriceEstimate{Raw: Raw{JSON: string(body)}}
	for _, raw := range allData(body) {
		var e PriceEstimate
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			return nil, fmt.Errorf("failed to decode collection price estimate: %w", err)
		}
		out.Estimates = append(out.Estimates, e)
	}
	return out, nil
}

func (s NFTService) Transactions(ctx context.Context, params NFTParams) (*TransactionList, error) {
	body, err := s.cfg.get(ctx, request{path: "/api/v2/nft/transactions", query: params.query(true, true, "")})
	if err != nil {
		return nil, err
	}
	out := &TransactionList{Raw: Raw{JSON: string(body)}}
	for _, raw := range allData(body) {
		var tx Transaction
		if err := json.Unmarshal([]byte(raw), &tx); err != nil {
			return nil, fmt.Errorf("failed to decode transaction: %w", err)
		}
		out.Transactions = append(out.Transactions, tx)
	}
	return out, nil
}

// Traders returns the trader metrics of an NFT, sorted by params.SortBy (default "traders").
func (s NFTService) Traders(ctx context.Context, params NFTParams) (*NFTTraders, error) {
	sortBy := params.SortBy
	if sortBy == "" {
		sortBy = "traders"
	}
	body, err := s.cfg.get(ctx, request{path: "/api/v2/nft/traders", query: params.query(true, true, sortBy)})
	if err != nil {
		return nil, err
	}
	m, err := decodeFirst[TraderMetrics](body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode traders: %w", err)
	}
	return &NFTTraders{Raw: Raw{JSON: string(body)}, Metrics: m}, nil
}

// TradersInsights returns the trader history of an NFT.
func (s NFTService) TradersInsights(ctx context.Context, params NFTParams) (*TradersTrend, error) {
	body, err := s.cfg.get(ctx, request{path: "/api/v2/nft/market-insights/traders", query: params.query(true, true, "")})
	if err != nil {
		return nil, err
	}
	out := &TradersTrend{}
	if err := decodeInto(firstData(body), out); err != nil {
		return nil, fmt.Errorf("failed to decode traders history: %w", err)
	}
	out.Raw.JSON = string(body)
	return out, nil
}

// Analytics returns sales, volume and activity metrics, sorted by params.SortBy (default "sales").
func (s NFTService) Analytics(ctx context.Context, params NFTParams) (*NFTAnalytics, error) {
	sortBy := params.SortBy
	if sortBy == "" {
		sortBy = "sales"
	}
	body, err := s.cfg.get(ctx, request{path: "/api/v2/nft/analytics", query: params.query(true, true, sortBy)})
	if err != nil {
		return nil, err
	}
	m, err := decodeFirst[AnalyticsMetrics](body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode analytics: %w", err)
	}
	return &NFTAnalytics{Raw: Raw{JSON: string(body)}, Metrics: m}, nil
}

func (s NFTService) Washtrade(ctx context.Context, params NFTParams) (*NFTWashtrade, error) {
	body, err := s.cfg.get(ctx, request{path: "/api/v2/nft/washtrade", query: params.query(true, true, "washtrade_volume")})
	if err != nil {
		return nil, err
	}
	m, err := decodeFirst[WashtradeMetrics](body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode washtrade: %w", err)
	}
	return &NFTWashtrade{Raw: Raw{JSON: string(body)}, Metrics: m}, nil
}

func (s NFTService) Holders(ctx context.Context, params NFTParams) (*NFTHolders, error) {
	body, err := s.cfg.get(ctx, request{path: "/api/v2/nft/holders", query: params.query(true, true, "holders")})
	if err != nil {
		return nil, err
	}
	m, err := decodeFirst[HoldersMetrics](body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode holders: %w", err)
	}
	return &NFTHolders{Raw: Raw{JSON: string(body)}, Metrics: m}, nil
}

func (s NFTService) Scores(ctx context.Context, params NFTParams) (*NFTScores, error) {
	body, err := s.cfg.get(ctx, request{path: "/api/v2/nft/scores", query: params.query(true, true, "price")})
	if err != nil {
		return nil, err
	}
	m, err := decodeFirst[ScoresMetrics](body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode scores: %w", err)
	}
	return &NFTScores{Raw: Raw{JSON: string(body)}, Metrics: m}, nil
}
