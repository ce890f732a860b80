package receipt

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/zombor/receipt-lens/internal/interpret"
)

// Source records how a receipt entered the system.
type Source string

const (
	SourceScanned   Source = "scanned"
	SourceGenerated Source = "generated"
)

// Record is a stored receipt. Exactly one of Extracted and Synthesized is set,
// matching Source.
type Record struct {
	ID          string                        `json:"id"`
	Source      Source                        `json:"source"`
	Title       string                        `json:"title"`
	Amount      *decimal.Decimal              `json:"amount,omitempty"` // nil when no total was read
	Date        time.Time                     `json:"date"`
	Category    interpret.Category            `json:"category"`
	NeedsReview bool                          `json:"needs_review"`
	Extracted   *interpret.ExtractedReceipt   `json:"extracted,omitempty"`
	Synthesized *interpret.SynthesizedReceipt `json:"synthesized,omitempty"`
	Filename    string                        `json:"filename,omitempty"` // only scanned receipts have a file
	ContentType string                        `json:"content_type,omitempty"`
	CreatedAt   time.Time                     `json:"created_at"`
	UpdatedAt   time.Time                     `json:"updated_at"`
}

// GenerateRequest is the caller-facing input for building a receipt.
type GenerateRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	Category string          `json:"category"`
	Label    string          `json:"label"`
	Date     string          `json:"date,omitempty"` // YYYY-MM-DD
}
