package domain

import (
	"errors"
	"testing"
)

func TestParseFilter(t *testing.T) {
	tests := []struct {
		in   string
		want Filter
	}{
		{"all", FilterAll},
		{"", FilterAll},
		{"ALL", FilterAll},
		{"gainers", FilterGainers},
		{" Gainers ", FilterGainers},
		{"recently_launched", FilterRecentlyLaunched},
		{"new", FilterRecentlyLaunched},
	}

	for _, tt := range tests {
		got, err := ParseFilter(tt.in)
		if err != nil {
			t.Fatalf("ParseFilter(%q) failed: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseFilter(%q) = %s, want %s", tt.in, got, tt.want)
		}
		if !got.IsValid() {
			t.Errorf("ParseFilter(%q) returned invalid filter %s", tt.in, got)
		}
	}
}

func TestParseFilter_RoundTrip(t *testing.T) {
	for _, f := range []Filter{FilterAll, FilterGainers, FilterRecentlyLaunched} {
		got, err := ParseFilter(f.String())
		if err != nil {
			t.Fatalf("ParseFilter(%s) failed: %v", f, err)
		}
		if got != f {
			t.Errorf("round trip: got %s, want %s", got, f)
		}
	}
}

func TestParseFilter_Unknown(t *testing.T) {
	_, err := ParseFilter("losers")
	if !errors.Is(err, ErrUnknownFilter) {
		t.Errorf("Expected ErrUnknownFilter, got %v", err)
	}
	if Filter("losers").IsValid() {
		t.Error("Filter(losers) should not be valid")
	}
}

func TestToken_HighlightedAt(t *testing.T) {
	tok := Token{CreatedAt: 1000, NewUntil: 3000}
	if !tok.HighlightedAt(2999) {
		t.Error("token should be highlighted before expiry")
	}
	if tok.HighlightedAt(3000) {
		t.Error("token should not be highlighted at expiry")
	}

	tok.NewUntil = 0
	if tok.HighlightedAt(0) {
		t.Error("cleared token should never be highlighted")
	}
}
