package interpret

import "github.com/shopspring/decimal"

var (
	totalWeight    = decimal.RequireFromString("0.4")
	merchantWeight = decimal.RequireFromString("0.3")
	dateWeight     = decimal.RequireFromString("0.3")
)

// Confidence scores an extraction by which of total, merchant and date were
// found. The weights are additive and independent of item quality.
func Confidence(hasTotal, hasMerchant, hasDate bool) float64 {
	score := decimal.Zero
	if hasTotal {
		score = score.Add(totalWeight)
	}
	if hasMerchant {
		score = score.Add(merchantWeight)
	}
	if hasDate {
		score = score.Add(dateWeight)
	}
	return score.InexactFloat64()
}
