package interpret

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/zombor/receipt-lens/internal/lexical"
)

var (
	// Header and boilerplate lines that never name the merchant.
	merchantSkipWords = []string{"thank", "welcome", "customer", "copy", "receipt", "transaction", "visit"}

	totalWords = []string{"total", "amount", "due"}

	// Metadata lines that never hold an item.
	itemSkipWords = []string{
		"total", "subtotal", "tax", "due", "cash", "change",
		"visa", "mastercard", "amex",
		"date:", "time:", "phone:", "tel:",
		"thank", "welcome", "call",
	}

	itemLinePattern    = regexp.MustCompile(`^(.+?)\s+\$?(\d+\.[0-9]{2})$`)
	leadingQtyPattern  = regexp.MustCompile(`^(\d+)[xX]?\s+(.+)`)
	qtyModifierPattern = regexp.MustCompile(`[xX]\s*(\d+)\s*@`)
)

const (
	minItemLineLength = 3
	minItemNameLength = 2
)

// Extractor reads OCR text into an ExtractedReceipt.
type Extractor struct {
	timeSource TimeSource
}

// NewExtractor creates an Extractor that stamps undated receipts with the
// current time.
func NewExtractor() *Extractor {
	return &Extractor{timeSource: defaultTimeSource{}}
}

// NewExtractorWithDeps creates an Extractor with a custom time source for testing
func NewExtractorWithDeps(timeSrc TimeSource) *Extractor {
	return &Extractor{timeSource: timeSrc}
}

// Extract recovers merchant, total, date, category and items from raw OCR
// text. It never fails: missing fields lower the confidence instead.
func (e *Extractor) Extract(rawText string) ExtractedReceipt {
	lines := lexical.SplitLines(rawText)

	merchant := extractMerchant(lines)
	total, explicitTotal := extractTotal(lines)
	date, dateFound := extractDate(lines)
	if !dateFound {
		date = e.timeSource.Now()
	}

	category := CategoryOther
	if merchant != nil {
		category = Classify(*merchant)
	}

	items := extractItems(lines)
	if total != nil {
		items = Reconcile(items, *total)
	}

	result := ExtractedReceipt{
		MerchantName: merchant,
		TotalAmount:  total,
		PurchaseDate: date,
		DateDetected: dateFound,
		Category:     category,
		Items:        items,
		Confidence:   Confidence(total != nil, merchant != nil, dateFound),
		RawText:      rawText,
	}

	slog.Debug("Extracted receipt",
		"lines", len(lines),
		"merchant_found", merchant != nil,
		"total_found", total != nil,
		"explicit_total", explicitTotal,
		"date_found", dateFound,
		"category", category,
		"items", len(items),
		"confidence", result.Confidence,
	)

	return result
}

// extractMerchant returns the first line that is not header boilerplate.
func extractMerchant(lines []string) *string {
	for _, line := range lines {
		if !lexical.MatchesAnyKeyword(line, merchantSkipWords) {
			merchant := line
			return &merchant
		}
	}
	return nil
}

// extractTotal prefers the first explicit total line and falls back to the
// largest amount on the receipt. The boolean reports the explicit path.
func extractTotal(lines []string) (*decimal.Decimal, bool) {
	for _, line := range lines {
		lower := strings.ToLower(line)
		if !lexical.MatchesAnyKeyword(lower, totalWords) || strings.Contains(lower, "subtotal") {
			continue
		}
		if value, ok := lexical.ExtractMonetaryValue(line, lexical.First); ok {
			return &value, true
		}
	}

	if largest, ok := lexical.MaxMonetaryValue(lines); ok && largest.IsPositive() {
		return &largest, false
	}
	return nil, false
}

func extractDate(lines []string) (date time.Time, found bool) {
	for _, line := range lines {
		token, ok := lexical.ExtractDateToken(line)
		if !ok {
			continue
		}
		if parsed, ok := lexical.ParseDate(token); ok {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// extractItems walks the lines with an explicit cursor so that a quantity
// modifier line ("x 2 @ 3.00") can be consumed together with the item above it.
func extractItems(lines []string) []LineItem {
	items := make([]LineItem, 0)

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if utf8.RuneCountInString(line) < minItemLineLength || lexical.MatchesAnyKeyword(line, itemSkipWords) {
			continue
		}

		m := itemLinePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		name := strings.TrimSpace(m[1])
		price, err := decimal.NewFromString(m[2])
		if err != nil {
			continue
		}
		quantity := 1

		if q := leadingQtyPattern.FindStringSubmatch(name); q != nil {
			if n, err := strconv.Atoi(q[1]); err == nil && n > 0 {
				quantity = n
			}
			name = q[2]
		}

		if i+1 < len(lines) {
			if mod := qtyModifierPattern.FindStringSubmatch(lines[i+1]); mod != nil {
				if n, err := strconv.Atoi(mod[1]); err == nil && n > 0 {
					quantity = n
				}
				i++
			}
		}

		if !isItemName(name) {
			continue
		}
		items = append(items, LineItem{Name: name, Quantity: quantity, Price: &price})
	}

	return items
}

// isItemName rejects stray numbers and single characters.
func isItemName(name string) bool {
	if utf8.RuneCountInString(name) < minItemNameLength {
		return false
	}
	if _, err := strconv.ParseFloat(name, 64); err == nil {
		return false
	}
	return true
}
