package domain

// Aggregates summarises a token sequence.
type Aggregates struct {
	Count              int     `json:"count"`
	TotalMarketCap     int64   `json:"total_market_cap"`
	TotalVolume        int64   `json:"total_volume"`
	AveragePriceChange float64 `json:"average_price_change"` // 0 for an empty sequence
}

// Snapshot is the state handed to observers and the rendering layer.
type Snapshot struct {
	Tokens      []Token    `json:"tokens"`     // current view, newest first
	Aggregates  Aggregates `json:"aggregates"` // over the full store
	Running     bool       `json:"running"`
	Filter      Filter     `json:"filter"`
	GeneratedAt int64      `json:"generated_at"` // Unix ms
}
