package util

import (
	"math"
	"net/url"
	"sort"
	"strings"
)

// NormUser normalizes a raw username into the canonical map key:
// trimmed, leading '@' stripped, lowercased.
func NormUser(u string) string {
	u = strings.TrimSpace(u)
	u = strings.TrimLeft(u, "@")
	return strings.ToLower(u)
}

// Uniq returns a copy of a with duplicates removed, first occurrence wins.
func Uniq(a []string) []string {
	seen := make(map[string]struct{}, len(a))
	out := make([]string, 0, len(a))
	for _, s := range a {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// Take returns at most the first n elements of a.
func Take(a []string, n int) []string {
	if len(a) <= n {
		return a
	}
	return a[:n]
}

// BoundedLog maps a count to [0,1] via log10(x+1)/denom, clamped.
func BoundedLog(x float64, denom float64) float64 {
	if x < 0 {
		x = 0
	}
	v := math.Log10(x+1) / denom
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Log1p is ln(1+x) over non-negative x; negatives clamp to zero.
func Log1p(x float64) float64 {
	if x < 0 {
		x = 0
	}
	return math.Log1p(x)
}

// FiniteOr returns v if it is a finite number, otherwise fallback.
func FiniteOr(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}

// ChunkString slices s into size-length pieces; the last may be shorter.
func ChunkString(s string, size int) []string {
	if size <= 0 {
		return []string{s}
	}
	var out []string
	for i := 0; i < len(s); i += size {
		end := i + size
		if end > len(s) {
			end = len(s)
		}
		out = append(out, s[i:end])
	}
	return out
}

// NormalizeHost lowercases a URL's hostname and strips a leading "www.".
// Unparseable URLs normalize to "".
func NormalizeHost(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	return strings.TrimPrefix(host, "www.")
}

// PercentileThreshold returns the value at the top-frac percentile of
// values (e.g. frac 0.10 -> the score a profile must reach to be in the
// top 10%). Empty input yields +Inf so nothing passes.
func PercentileThreshold(values []float64, topFrac float64) float64 {
	if len(values) == 0 {
		return math.Inf(1)
	}
	s := append([]float64(nil), values...)
	sort.Float64s(s)
	idx := int(math.Floor((1 - topFrac) * float64(len(s)-1)))
	if idx < 0 {
		idx = 0
	}
	if idx > len(s)-1 {
		idx = len(s) - 1
	}
	return s[idx]
}

// Median returns the median of nums, 0 for empty input.
func Median(nums []float64) float64 {
	if len(nums) == 0 {
		return 0
	}
	s := append([]float64(nil), nums...)
	sort.Float64s(s)
	m := len(s) / 2
	if len(s)%2 == 1 {
		return s[m]
	}
	return (s[m-1] + s[m]) / 2
}

// Round rounds v to p decimal places. Output formatting only.
func Round(v float64, p int) float64 {
	m := math.Pow(10, float64(p))
	return math.Round(v*m) / m
}
