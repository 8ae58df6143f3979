package tracker

import "token-tracker/internal/domain"

// matches reports whether t belongs to the view selected by f at nowMs.
func matches(f domain.Filter, t *domain.Token, nowMs, recentWindowMs int64) bool {
	switch f {
	case domain.FilterGainers:
		return t.PriceChange > 0
	case domain.FilterRecentlyLaunched:
		return t.CreatedAt > nowMs-recentWindowMs
	default:
		return true
	}
}

// applyFilter keeps the tokens selected by f, preserving order, and resolves
// each token's highlight against nowMs.
func applyFilter(tokens []*domain.Token, f domain.Filter, nowMs, recentWindowMs int64) []domain.Token {
	result := make([]domain.Token, 0, len(tokens))
	for _, t := range tokens {
		if !matches(f, t, nowMs, recentWindowMs) {
			continue
		}
		tok := *t
		tok.IsNew = tok.HighlightedAt(nowMs)
		result = append(result, tok)
	}
	return result
}
