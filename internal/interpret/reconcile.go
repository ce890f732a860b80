package interpret

import "github.com/shopspring/decimal"

// driftTolerance is one minor currency unit.
var driftTolerance = decimal.New(1, -2)

// RoundCents rounds to two decimal places, half away from zero.
func RoundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Reconcile returns a copy of items whose prices sum to total. When the drift
// exceeds one cent the whole difference is folded into the last item, keeping
// its name and quantity.
func Reconcile(items []LineItem, total decimal.Decimal) []LineItem {
	if len(items) == 0 {
		return items
	}
	out := make([]LineItem, len(items))
	copy(out, items)

	drift := total.Sub(SumPrices(out))
	if drift.Abs().LessThanOrEqual(driftTolerance) {
		return out
	}

	last := out[len(out)-1]
	price := decimal.Zero
	if last.Price != nil {
		price = *last.Price
	}
	adjusted := RoundCents(price.Add(drift))
	last.Price = &adjusted
	out[len(out)-1] = last
	return out
}
