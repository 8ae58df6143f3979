package tracker

import "token-tracker/internal/domain"

// Aggregate reduces a token sequence to summary statistics.
// The average price change of an empty sequence is 0.
func Aggregate(tokens []domain.Token) domain.Aggregates {
	agg := domain.Aggregates{Count: len(tokens)}
	if len(tokens) == 0 {
		return agg
	}

	var sumChange float64
	for _, t := range tokens {
		agg.TotalMarketCap += t.MarketCap
		agg.TotalVolume += t.Volume24h
		sumChange += t.PriceChange
	}
	agg.AveragePriceChange = sumChange / float64(len(tokens))

	return agg
}
