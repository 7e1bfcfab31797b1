package analytics

import (
	"strings"

	"github.com/samber/lo"
)

// TimeRanges are the windows the API accepts, shortest first.
var TimeRanges = []string{"24h", "7d", "30d", "90d", "all"}

// Metric is a market trend metric with its display label.
type Metric struct {
	Value string
	Label string
}

// Metrics are the market trend metrics offered by the CLI.
var Metrics = []Metric{
	{Value: "volume", Label: "Volume"},
	{Value: "sales", Label: "Sales"},
	{Value: "transactions", Label: "Transactions"},
	{Value: "transfers", Label: "Transfers"},
	{Value: "traders", Label: "Traders"},
	{Value: "traders_buyers", Label: "Buyers"},
	{Value: "traders_sellers", Label: "Sellers"},
	{Value: "holders", Label: "Holders"},
	{Value: "marketcap", Label: "Market Cap"},
	{Value: "washtrade_volume", Label: "Washtrade Volume"},
	{Value: "washtrade_assets", Label: "Washtrade Assets"},
	{Value: "washtrade_suspect_sales", Label: "Washtrade Suspect Sales"},
}

// ChainIDs maps chain names used by the v2 API and marketplace URLs to the
// numeric ids the v1 API expects.
var ChainIDs = map[string]int64{
	"ethereum":  1,
	"binance":   56,
	"polygon":   137,
	"avalanche": 43114,
	"linea":     59144,
	"solana":    900,
	"bitcoin":   8086,
	"base":      8453,
}

// chainAliases are marketplace slugs that differ from the API's chain names.
var chainAliases = map[string]string{
	"matic": "polygon",
	"bsc":   "binance",
	"eth":   "ethereum",
}

// NormalizeChain lowercases a chain name and resolves marketplace aliases.
func NormalizeChain(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := chainAliases[n]; ok {
		return alias
	}
	return n
}

// ChainID returns the numeric id for a chain name.
func ChainID(name string) (int64, bool) {
	id, ok := ChainIDs[NormalizeChain(name)]
	return id, ok
}

func IsTimeRange(s string) bool {
	return lo.Contains(TimeRanges, s)
}

func IsMetric(s string) bool {
	return lo.ContainsBy(Metrics, func(m Metric) bool { return m.Value == s })
}

// MetricLabel returns the display label of a metric, or the metric itself.
func MetricLabel(s string) string {
	if m, ok := lo.Find(Metrics, func(m Metric) bool { return m.Value == s }); ok {
		return m.Label
	}
	return s
}

// MetricValues lists the metric identifiers.
func MetricValues() []string {
	return lo.Map(Metrics, func(m Metric, _ int) string { return m.Value })
}
