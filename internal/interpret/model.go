// Package interpret turns OCR text into structured receipts and, in the other
// direction, builds itemized receipts from a known total. It does no I/O and
// keeps no state between calls.
package interpret

import (
	"time"

	"github.com/shopspring/decimal"
)

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

type defaultTimeSource struct{}

func (defaultTimeSource) Now() time.Time {
	return time.Now()
}

// LineItem is a single priced line on a receipt.
type LineItem struct {
	Name     string           `json:"name"`
	Quantity int              `json:"quantity"`
	Price    *decimal.Decimal `json:"price,omitempty"`
}

// NewLineItem returns a quantity-one item with the given price.
func NewLineItem(name string, price decimal.Decimal) LineItem {
	return LineItem{Name: name, Quantity: 1, Price: &price}
}

// ExtractedReceipt is the result of reading OCR text.
type ExtractedReceipt struct {
	MerchantName *string          `json:"merchant_name,omitempty"`
	TotalAmount  *decimal.Decimal `json:"total_amount,omitempty"`
	PurchaseDate time.Time        `json:"purchase_date"`
	DateDetected bool             `json:"date_detected"`
	Category     Category         `json:"category"`
	Items        []LineItem       `json:"items"`
	Confidence   float64          `json:"confidence"`
	RawText      string           `json:"raw_text"`
}

// NeedsReview reports whether the confidence falls below threshold.
func (r ExtractedReceipt) NeedsReview(threshold float64) bool {
	return r.Confidence < threshold
}

// SynthesizedReceipt is an itemized receipt generated from a known total.
type SynthesizedReceipt struct {
	Items          []LineItem `json:"items"`
	RenderedMarkup string     `json:"rendered_markup"`
	GeneratedAt    time.Time  `json:"generated_at"`
}

// SumPrices adds the prices of all items; items without a price count as zero.
func SumPrices(items []LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		if item.Price != nil {
			sum = sum.Add(*item.Price)
		}
	}
	return sum
}
