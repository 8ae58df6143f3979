package domain

// Token represents one simulated token listing.
// All fields are fixed at creation except NewUntil, which the tracker clears
// when a newer token arrives.
type Token struct {
	ID              string  `json:"id"`               // unique opaque identifier
	Name            string  `json:"name"`             // e.g. "PEPEINU"
	Symbol          string  `json:"symbol"`           // bare symbol, no "$" marker
	ContractAddress string  `json:"contract_address"` // "T" + 33 lowercase hex chars
	CreatedAt       int64   `json:"created_at"`       // Unix timestamp in milliseconds
	MarketCap       int64   `json:"market_cap"`
	Holders         int64   `json:"holders"`
	Liquidity       int64   `json:"liquidity"`
	Volume24h       int64   `json:"volume_24h"`
	PriceChange     float64 `json:"price_change"` // signed percentage
	NewUntil        int64   `json:"-"`            // highlight expiry (ms), 0 = not new
	IsNew           bool    `json:"is_new"`       // resolved against the clock on read
}

// HighlightedAt reports whether the token is still highlighted at nowMs.
func (t *Token) HighlightedAt(nowMs int64) bool {
	return t.NewUntil > nowMs
}

// SymbolMarker is the prefix a rendering layer puts in front of Symbol.
const SymbolMarker = "$"
