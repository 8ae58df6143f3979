// Package generator synthesises random token listings.
package generator

import (
	"strings"
	"sync/atomic"
	"time"

	"token-tracker/internal/domain"
	"token-tracker/internal/idhash"
)

// Address and symbol shape.
const (
	AddressMarker    = "T"
	AddressHexLength = 33
	MaxSymbolLength  = 6

	hexAlphabet = "0123456789abcdef"
)

// Numeric ranges, [min, min+span).
const (
	marketCapMin  = 1000
	marketCapSpan = 500000
	holdersMin    = 10
	holdersSpan   = 500
	liquidityMin  = 5000
	liquiditySpan = 100000
	volumeMin     = 1000
	volumeSpan    = 50000

	// priceChange = (u - priceChangeSkew) * priceChangeScale, u in [0,1).
	priceChangeSkew  = 0.3
	priceChangeScale = 200
)

// DefaultHighlightTTL is how long a freshly generated token stays highlighted.
const DefaultHighlightTTL = 2 * time.Second

// Generator produces synthetic tokens.
type Generator struct {
	rng          Rand
	now          func() time.Time
	highlightTTL time.Duration
	seq          atomic.Uint64
}

// Options contains configuration for creating a Generator.
type Options struct {
	Rand         Rand             // Default: process-wide source
	Now          func() time.Time // Default: time.Now
	HighlightTTL time.Duration    // Default: 2s
}

// New creates a token generator.
func New(opts Options) *Generator {
	g := &Generator{
		rng:          opts.Rand,
		now:          opts.Now,
		highlightTTL: opts.HighlightTTL,
	}
	if g.rng == nil {
		g.rng = DefaultRand()
	}
	if g.now == nil {
		g.now = time.Now
	}
	if g.highlightTTL <= 0 {
		g.highlightTTL = DefaultHighlightTTL
	}
	return g
}

// Generate returns a new token created now and highlighted for the TTL.
func (g *Generator) Generate() domain.Token {
	name := g.name()
	address := g.address()
	createdAt := g.now().UnixMilli()

	t := domain.Token{
		Name:            name,
		Symbol:          SymbolFor(name),
		ContractAddress: address,
		CreatedAt:       createdAt,
		MarketCap:       int64(marketCapMin + g.rng.IntN(marketCapSpan)),
		Holders:         int64(holdersMin + g.rng.IntN(holdersSpan)),
		PriceChange:     (g.rng.Float64() - priceChangeSkew) * priceChangeScale,
		Liquidity:       int64(liquidityMin + g.rng.IntN(liquiditySpan)),
		Volume24h:       int64(volumeMin + g.rng.IntN(volumeSpan)),
		NewUntil:        createdAt + g.highlightTTL.Milliseconds(),
		IsNew:           true,
	}
	t.ID = idhash.ComputeTokenID(g.seq.Add(1), address, createdAt)
	return t
}

// GenerateAt returns a non-highlighted token backdated to createdAt (Unix ms).
// Used for seed data.
func (g *Generator) GenerateAt(createdAt int64) domain.Token {
	t := g.Generate()
	t.CreatedAt = createdAt
	t.NewUntil = 0
	t.IsNew = false
	return t
}

// SymbolFor derives the bare symbol from a name: the first six characters,
// upper-cased.
func SymbolFor(name string) string {
	r := []rune(name)
	if len(r) > MaxSymbolLength {
		r = r[:MaxSymbolLength]
	}
	return strings.ToUpper(string(r))
}

func (g *Generator) name() string {
	prefix := namePrefixes[g.rng.IntN(len(namePrefixes))]
	if g.rng.Float64() <= 0.5 {
		return prefix
	}
	return prefix + nameSuffixes[g.rng.IntN(len(nameSuffixes))]
}

func (g *Generator) address() string {
	var sb strings.Builder
	sb.Grow(len(AddressMarker) + AddressHexLength)
	sb.WriteString(AddressMarker)
	for i := 0; i < AddressHexLength; i++ {
		sb.WriteByte(hexAlphabet[g.rng.IntN(len(hexAlphabet))])
	}
	return sb.String()
}
