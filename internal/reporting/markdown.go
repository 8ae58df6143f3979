package reporting

import (
	"fmt"
	"strings"
	"time"

	"token-tracker/internal/domain"
)

// RenderMarkdown renders a snapshot as a Markdown report.
func RenderMarkdown(s domain.Snapshot) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Token Tracker Snapshot\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", time.UnixMilli(s.GeneratedAt).UTC().Format(time.RFC3339)))

	state := "PAUSED"
	if s.Running {
		state = "LIVE"
	}
	sb.WriteString(fmt.Sprintf("State: %s | Filter: %s\n\n", state, s.Filter))

	// Summary
	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Tokens Tracked | %d |\n", s.Aggregates.Count))
	sb.WriteString(fmt.Sprintf("| Total Market Cap | %d |\n", s.Aggregates.TotalMarketCap))
	sb.WriteString(fmt.Sprintf("| Total 24h Volume | %d |\n", s.Aggregates.TotalVolume))
	sb.WriteString(fmt.Sprintf("| Average Price Change | %.4f |\n", s.Aggregates.AveragePriceChange))
	sb.WriteString("\n")

	// Tokens
	sb.WriteString(fmt.Sprintf("## Tokens (%d)\n\n", len(s.Tokens)))
	if len(s.Tokens) == 0 {
		sb.WriteString("No tokens match the active filter.\n")
		return sb.String()
	}

	sb.WriteString("| # | Name | Symbol | Contract | Created (ms) | MarketCap | Liquidity | Holders | Change | New |\n")
	sb.WriteString("|---|------|--------|----------|--------------|-----------|-----------|---------|--------|-----|\n")
	for i, t := range s.Tokens {
		newMark := ""
		if t.IsNew {
			newMark = "yes"
		}
		sb.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %d | %d | %d | %d | %.4f | %s |\n",
			i+1, t.Name, t.Symbol, t.ContractAddress, t.CreatedAt,
			t.MarketCap, t.Liquidity, t.Holders, t.PriceChange, newMark))
	}

	return sb.String()
}
