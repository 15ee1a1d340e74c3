// Package format renders game numbers for status output and logs.
package format

import (
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

var suffixes = []string{"", "K", "M", "B", "T"}

// Number renders n compactly: 999, 1.5K, 2.25M, up to T. At most two
// decimals are kept and trailing zeros dropped.
func Number(n float64) string {
	switch {
	case math.IsNaN(n):
		return "0"
	case math.IsInf(n, 1):
		return "∞"
	case math.IsInf(n, -1):
		return "-∞"
	}
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	i := 0
	for n >= 1000 && i < len(suffixes)-1 {
		n /= 1000
		i++
	}
	return sign + twoPlaces(n) + suffixes[i]
}

// Percent renders a fraction as a percentage: 0.123 → "12.3%".
func Percent(f float64) string {
	return twoPlaces(f*100) + "%"
}

func twoPlaces(f float64) string {
	return humanize.FtoaWithDigits(math.Round(f*100)/100, 2)
}

// Duration renders whole seconds as "1h 30m", "1m 30s", "5s". Anything
// under a second is "0s".
func Duration(d time.Duration) string {
	total := int64(d / time.Second)
	if total <= 0 {
		return "0s"
	}
	h, m, s := total/3600, (total%3600)/60, total%60

	var parts []string
	if h > 0 {
		parts = append(parts, humanize.Comma(h)+"h")
	}
	if m > 0 {
		parts = append(parts, humanize.Comma(m)+"m")
	}
	if s > 0 {
		parts = append(parts, humanize.Comma(s)+"s")
	}
	return strings.Join(parts, " ")
}

// Money renders a whole amount with thousands separators: "$12,345".
// Amounts too large for an int64 fall back to the compact Number form.
func Money(n float64) string {
	if math.IsNaN(n) || math.IsInf(n, 0) || math.Abs(n) >= maxExact {
		return "$" + Number(n)
	}
	return "$" + humanize.Comma(int64(math.Floor(n)))
}

// maxExact stays below math.MaxInt64 once floored.
const maxExact = 1 << 62

// Away describes how long ago then was relative to now: "3 hours ago".
func Away(then, now time.Time) string {
	return humanize.RelTime(then, now, "ago", "from now")
}
