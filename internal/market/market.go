// Package market prices crypto, the one volatile currency. The price is a
// deterministic function of time: layered simplex noise around a base
// price, so a restored game sees the same history it left.
package market

import (
	"math"
	"time"

	opensimplex "github.com/ojrac/opensimplex-go"
)

const octaves = 3

// Market quotes crypto in money.
type Market struct {
	noise     opensimplex.Noise
	basePrice float64
	swing     float64
	period    time.Duration
}

// New builds a market. swing is the fraction of basePrice the quote may
// move either way; period is roughly one full swing.
func New(seed int64, basePrice, swing float64, period time.Duration) *Market {
	return &Market{
		noise:     opensimplex.NewNormalized(seed),
		basePrice: basePrice,
		swing:     math.Max(0, math.Min(swing, 0.95)),
		period:    max(period, time.Second),
	}
}

// Price returns the money value of one crypto at t.
func (m *Market) Price(t time.Time) float64 {
	x := float64(t.UnixMilli()) / float64(m.period.Milliseconds())
	n := octaveNoise(m.noise, x, 0, octaves, 1, 0.5)
	return m.basePrice * (1 + m.swing*(2*n-1))
}

// SellValue is the floored money received for amount crypto at t.
func (m *Market) SellValue(amount float64, t time.Time) float64 {
	if amount <= 0 {
		return 0
	}
	return math.Floor(amount * m.Price(t))
}

// BuyAmount is the crypto bought with money at t. Crypto keeps fractions.
func (m *Market) BuyAmount(money float64, t time.Time) float64 {
	if money <= 0 {
		return 0
	}
	return money / m.Price(t)
}

// Bounds returns the lowest and highest possible quote.
func (m *Market) Bounds() (lo, hi float64) {
	return m.basePrice * (1 - m.swing), m.basePrice * (1 + m.swing)
}

// octaveNoise layers frequencies of normalized noise; the result stays in [0, 1].
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}
