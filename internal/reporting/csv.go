package reporting

import (
	"fmt"
	"strings"

	"token-tracker/internal/domain"
)

// RenderTokensCSV renders tokens as CSV, one row per token in the given order.
func RenderTokensCSV(tokens []domain.Token) string {
	var sb strings.Builder

	// Header
	sb.WriteString("id,name,symbol,contract_address,created_at_ms,")
	sb.WriteString("market_cap,holders,liquidity,volume_24h,price_change,is_new\n")

	// Rows
	for _, t := range tokens {
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%s,%d,%d,%d,%d,%d,%.6f,%t\n",
			t.ID,
			t.Name,
			t.Symbol,
			t.ContractAddress,
			t.CreatedAt,
			t.MarketCap,
			t.Holders,
			t.Liquidity,
			t.Volume24h,
			t.PriceChange,
			t.IsNew,
		))
	}

	return sb.String()
}

// RenderAggregatesCSV renders one aggregates row with a header.
func RenderAggregatesCSV(a domain.Aggregates) string {
	return fmt.Sprintf("count,total_market_cap,total_volume,average_price_change\n%d,%d,%d,%.6f\n",
		a.Count, a.TotalMarketCap, a.TotalVolume, a.AveragePriceChange)
}
