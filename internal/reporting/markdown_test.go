package reporting

import (
	"strings"
	"testing"

	"token-tracker/internal/domain"
)

func TestRenderMarkdown(t *testing.T) {
	snap := domain.Snapshot{
		Tokens: []domain.Token{
			{ID: "a", Name: "DOGEAI", Symbol: "DOGEAI", ContractAddress: "T01", CreatedAt: 5, MarketCap: 1000, PriceChange: 1.5, IsNew: true},
			{ID: "b", Name: "FROG", Symbol: "FROG", ContractAddress: "T02", CreatedAt: 4, MarketCap: 2000, PriceChange: 3},
		},
		Aggregates:  domain.Aggregates{Count: 5, TotalMarketCap: 9000, TotalVolume: 700, AveragePriceChange: 2.25},
		Running:     true,
		Filter:      domain.FilterGainers,
		GeneratedAt: 1704067200000,
	}

	md := RenderMarkdown(snap)

	for _, want := range []string{
		"# Token Tracker Snapshot",
		"Generated: 2024-01-01T00:00:00Z",
		"State: LIVE | Filter: GAINERS",
		"| Tokens Tracked | 5 |",
		"| Total Market Cap | 9000 |",
		"| Average Price Change | 2.2500 |",
		"## Tokens (2)",
		"| 1 | DOGEAI | DOGEAI | T01 | 5 | 1000 | 0 | 0 | 1.5000 | yes |",
		"| 2 | FROG | FROG | T02 |",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestRenderMarkdown_Empty(t *testing.T) {
	md := RenderMarkdown(domain.Snapshot{Filter: domain.FilterRecentlyLaunched})

	if !strings.Contains(md, "State: PAUSED") {
		t.Error("paused snapshot should say PAUSED")
	}
	if !strings.Contains(md, "No tokens match the active filter.") {
		t.Error("empty view message missing")
	}
}
