package analytics

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// Number is a numeric field the API sends as a number, a numeric string, null or "NA".
// Valid is false for anything that is not a finite number.
type Number struct {
	Value float64
	Valid bool
}

func (n *Number) UnmarshalJSON(b []byte) error {
	*n = Number{}
	r := gjson.ParseBytes(b)
	switch r.Type {
	case gjson.Number:
		n.Value, n.Valid = r.Float(), true
	case gjson.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(r.String()), 64)
		if err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			n.Value, n.Valid = f, true
		}
	}
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// Round2 rounds to two decimals.
func (n Number) Round2() Number {
	if !n.Valid {
		return n
	}
	return Number{Value: math.Round(n.Value*100) / 100, Valid: true}
}

// Raw keeps the response body a value was decoded from.
type Raw struct {
	JSON string `json:"-"`
}

// RawJSON returns the API response the value was decoded from.
func (r Raw) RawJSON() string { return r.JSON }

// DisplayDateLayout is how timestamps are rendered in tables.
const DisplayDateLayout = "Jan 02, 2006 15:04"

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate parses the date formats the API returns.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders s with DisplayDateLayout, or returns s unchanged if it cannot be parsed.
func FormatDate(s string) string {
	if t, ok := ParseDate(s); ok {
		return t.Format(DisplayDateLayout)
	}
	return s
}

// firstData returns the "data" member of body. When it is an array, the first
// element is returned; an empty array yields "".
func firstData(body []byte) string {
	d := gjson.GetBytes(body, "data")
	if d.IsArray() {
		return d.Get("0").Raw
	}
	return d.Raw
}

// allData returns the "data" member as a list, wrapping a single object.
func allData(body []byte) []string {
	d := gjson.GetBytes(body, "data")
	if !d.Exists() || d.Type == gjson.Null {
		return nil
	}
	if !d.IsArray() {
		return []string{d.Raw}
	}
	var out []string
	d.ForEach(func(_, v gjson.Result) bool {
		if v.Type != gjson.Null {
			out = append(out, v.Raw)
		}
		return true
	})
	return out
}

// Blockchain is a chain supported by the API.
type Blockchain struct {
	ID                  int64  `json:"id"`
	Name                string `json:"name"`
	Description         string `json:"description"`
	CurrencyID          string `json:"currency_id"`
	ThumbnailURL        string `json:"thumbnail_url"`
	LatestDataTimestamp string `json:"latest_data_timestamp"`
}

type BlockchainList struct {
	Raw
	Blockchains []Blockchain
}

// TrendPoint is one data point of a market trend with a numeric value.
type TrendPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

type MarketTrend struct {
	Raw
	Metric string
	Points []TrendPoint
}

// TradersTrend is a time series of trader counts.
type TradersTrend struct {
	Raw
	BlockDates []string `json:"block_dates"`
	Traders    []Number `json:"traders_trend"`
	Buyers     []Number `json:"traders_buyers_trend"`
	Sellers    []Number `json:"traders_sellers_trend"`
}

// WashtradeTrend is a time series of suspected wash trading.
type WashtradeTrend struct {
	Raw
	BlockDates   []string `json:"block_dates"`
	Assets       []Number `json:"washtrade_assets_trend"`
	SuspectSales []Number `json:"washtrade_suspect_sales_trend"`
	Volume       []Number `json:"washtrade_volume_trend"`
}

// PriceEstimate is a model price estimate for one NFT or a collection member.
type PriceEstimate struct {
	Address                 string `json:"address"`
	ChainID                 int64  `json:"chain_id"`
	CollectionDrivers       string `json:"collection_drivers"`
	CollectionName          string `json:"collection_name"`
	NftRarityDrivers        string `json:"nft_rarity_drivers"`
	NftSalesDrivers         string `json:"nft_sales_drivers"`
	PredictionPercentile    string `json:"prediction_percentile"`
	PriceEstimate           Number `json:"price_estimate"`
	PriceEstimateLowerBound Number `json:"price_estimate_lower_bound"`
	PriceEstimateUpperBound Number `json:"price_estimate_upper_bound"`
	ThumbnailPalette        string `json:"thumbnail_palette"`
	ThumbnailURL            string `json:"thumbnail_url"`
	TokenID                 string `json:"token_id"`
	TokenImageURL           string `json:"token_image_url"`
}

type NFTPriceEstimate struct {
	Raw
	Estimate *PriceEstimate
}

type CollectionPriceEstimate struct {
	Raw
	Estimates []PriceEstimate
}

type Transaction struct {
	BlockDate           string `json:"block_date"`
	Blockchain          string `json:"blockchain"`
	ChainID             int64  `json:"chain_id"`
	Collection          string `json:"collection"`
	ContractAddress     string `json:"contract_address"`
	ContractCreatedDate string `json:"contract_created_date"`
	ContractType        string `json:"contract_type"`
	Hash                string `json:"hash"`
	IsWashtrade         string `json:"is_washtrade"`
	Marketplace         string `json:"marketplace"`
	ReceivingAddress    string `json:"receiving_address"`
	SalePriceUSD        Number `json:"sale_price_usd"`
	SendingAddress      string `json:"sending_address"`
	Timestamp           string `json:"timestamp"`
	TokenID             string `json:"token_id"`
	TransactionType     string `json:"transaction_type"`
}

type TransactionList struct {
	Raw
	Transactions []Transaction
}

type TraderMetrics struct {
	Blockchain           string `json:"blockchain"`
	ChainID              int64  `json:"chain_id"`
	ContractAddress      string `json:"contract_address"`
	TokenID              string `json:"token_id"`
	Traders              Number `json:"traders"`
	TradersChange        Number `json:"traders_change"`
	TradersBuyers        Number `json:"traders_buyers"`
	TradersBuyersChange  Number `json:"traders_buyers_change"`
	TradersSellers       Number `json:"traders_sellers"`
	TradersSellersChange Number `json:"traders_sellers_change"`
	UpdatedAt            string `json:"updated_at"`
}

type NFTTraders struct {
	Raw
	Metrics *TraderMetrics
}

type AnalyticsMetrics struct {
	BlockDates          []string `json:"block_dates"`
	PerformanceTrend    []Number `json:"performance_trend"`
	MarketActivityTrend []Number `json:"market_activity_trend"`
	PriceTrend          []Number `json:"price_trend"`
	VolumeTrend         []Number `json:"volume_trend"`
	Assets              Number   `json:"assets"`
	AssetsChange        Number   `json:"assets_change"`
	Sales               Number   `json:"sales"`
	SalesChange         Number   `json:"sales_change"`
	Transactions        Number   `json:"transactions"`
	TransactionsChange  Number   `json:"transactions_change"`
	Transfers           Number   `json:"transfers"`
	TransfersChange     Number   `json:"transfers_change"`
	Volume              Number   `json:"volume"`
	VolumeChange        Number   `json:"volume_change"`
	UpdatedAt           string   `json:"updated_at"`
}

type NFTAnalytics struct {
	Raw
	Metrics *AnalyticsMetrics
}

type WashtradeMetrics struct {
	Assets                    Number `json:"washtrade_assets"`
	AssetsChange              Number `json:"washtrade_assets_change"`
	SuspectSales              Number `json:"washtrade_suspect_sales"`
	SuspectSalesChange        Number `json:"washtrade_suspect_sales_change"`
	SuspectTransactions       Number `json:"washtrade_suspect_transactions"`
	SuspectTransactionsChange Number `json:"washtrade_suspect_transactions_change"`
	Volume                    Number `json:"washtrade_volume"`
	VolumeChange              Number `json:"washtrade_volume_change"`
	Wallets                   Number `json:"washtrade_wallets"`
	WalletsChange             Number `json:"washtrade_wallets_change"`
}

type NFTWashtrade struct {
	Raw
	Metrics *WashtradeMetrics
}

type HoldersMetrics struct {
	HoldDuration    Number   `json:"hold_duration"`
	Holders         Number   `json:"holders"`
	HoldersChange   Number   `json:"holders_change"`
	PastOwnersCount Number   `json:"past_owners_count"`
	WalletHolderNew []string `json:"wallet_holder_new"`
	MaxDate         string   `json:"max_date"`
}

type NFTHolders struct {
	Raw
	Metrics *HoldersMetrics
}

type ScoresMetrics struct {
	AllTimeLow      Number `json:"all_time_low"`
	EstimatedPrice  Number `json:"estimated_price"`
	MaxPrice        Number `json:"max_price"`
	Price           Number `json:"price"`
	PriceCeiling    Number `json:"price_ceiling"`
	RarityRank      Number `json:"rarity_rank"`
	RarityScore     Number `json:"rarity_score"`
	StartPrice      Number `json:"start_price"`
	WashtradeStatus string `json:"washtrade_status"`
}

type NFTScores struct {
	Raw
	Metrics *ScoresMetrics
}

// decodeFirst decodes the first "data" element of body into a new T, or nil when there is none.
func decodeFirst[T any](body []byte) (*T, error) {
	raw := firstData(body)
	if raw == "" || raw == "null" {
		return nil, nil
	}
	v := new(T)
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return nil, err
	}
	return v, nil
}
