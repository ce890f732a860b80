package interpret

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/zombor/receipt-lens/internal/lexical"
)

// Item names used by the food-like shape.
const (
	mainItemName      = "Handcrafted Drink"
	accessoryItemName = "Pastry"
	closingItemName   = "Bakery Item"
	tripFareName      = "Trip Fare"
	taxAndFeesName    = "Tax & Fees"
)

var (
	coreShare = decimal.RequireFromString("0.85")
	// Below this remainder the food loop closes with a single final item.
	accessoryFloor = decimal.RequireFromString("0.50")
)

// RandomSource yields values in [0, 1).
type RandomSource interface {
	Float64() float64
}

// IDGenerator generates receipt numbers
type IDGenerator interface {
	Generate() string
}

// globalRandom draws from math/rand/v2's package source, which is safe for
// concurrent use.
type globalRandom struct{}

func (globalRandom) Float64() float64 {
	return rand.Float64()
}

type receiptNumberGenerator struct{}

func (receiptNumberGenerator) Generate() string {
	return strings.ToUpper(uuid.NewString()[:8])
}

// SynthesisRequest describes the receipt to build.
type SynthesisRequest struct {
	Amount   decimal.Decimal
	Category Category
	Label    string
	// Date printed on the receipt; the current time when zero.
	Date time.Time
}

// Synthesizer builds plausible itemized receipts for a known total.
type Synthesizer struct {
	random      RandomSource
	timeSource  TimeSource
	idGenerator IDGenerator
}

// NewSynthesizer creates a Synthesizer with default random, time and ID sources
func NewSynthesizer() *Synthesizer {
	return &Synthesizer{
		random:      globalRandom{},
		timeSource:  defaultTimeSource{},
		idGenerator: receiptNumberGenerator{},
	}
}

// NewSynthesizerWithDeps creates a Synthesizer with custom dependencies for testing
func NewSynthesizerWithDeps(random RandomSource, timeSrc TimeSource, idGen IDGenerator) *Synthesizer {
	return &Synthesizer{
		random:      random,
		timeSource:  timeSrc,
		idGenerator: idGen,
	}
}

// Synthesize generates items summing exactly to req.Amount and renders them.
func (s *Synthesizer) Synthesize(req SynthesisRequest) (SynthesizedReceipt, error) {
	if !req.Amount.IsPositive() {
		return SynthesizedReceipt{}, &ValidationError{
			Field:  "amount",
			Value:  req.Amount.String(),
			Reason: "must be greater than zero",
			Err:    ErrInvalidAmount,
		}
	}
	if !req.Amount.Equal(RoundCents(req.Amount)) {
		return SynthesizedReceipt{}, &ValidationError{
			Field:  "amount",
			Value:  req.Amount.String(),
			Reason: "must not have more than two decimal places",
			Err:    ErrInvalidAmount,
		}
	}

	items := Reconcile(s.GenerateItems(req.Amount, req.Category, req.Label), req.Amount)

	now := s.timeSource.Now()
	date := req.Date
	if date.IsZero() {
		date = now
	}

	markup, err := RenderHTML(ReceiptView{
		Merchant: merchantLabel(req.Label, req.Category),
		Address:  placeholderAddress,
		Phone:    placeholderPhone,
		Number:   s.idGenerator.Generate(),
		Date:     date,
		Items:    items,
		Total:    req.Amount,
	})
	if err != nil {
		return SynthesizedReceipt{}, fmt.Errorf("rendering receipt: %w", err)
	}

	slog.Debug("Synthesized receipt", "category", req.Category, "amount", req.Amount.StringFixed(2), "items", len(items))

	return SynthesizedReceipt{
		Items:          items,
		RenderedMarkup: markup,
		GeneratedAt:    now,
	}, nil
}

// GenerateItems picks the item shape for the category and label. Every price
// is rounded to cents when it is generated.
func (s *Synthesizer) GenerateItems(total decimal.Decimal, category Category, label string) []LineItem {
	switch {
	case category == CategoryFood || lexical.MatchesAnyKeyword(label, CategoryFood.Keywords()):
		return s.foodItems(total)
	case category == CategoryTransportation:
		return []LineItem{NewLineItem(tripFareName, RoundCents(total))}
	default:
		return genericItems(total, merchantLabel(label, category))
	}
}

// foodItems emits one main item, then smaller accessories until the remainder
// is too small to split, which becomes the closing item.
func (s *Synthesizer) foodItems(total decimal.Decimal) []LineItem {
	var items []LineItem
	remaining := total

	main := decimal.Min(remaining, s.randomCents(4, 7))
	if remaining.GreaterThan(main) {
		items = append(items, NewLineItem(mainItemName, main))
		remaining = remaining.Sub(main)
	}

	for remaining.IsPositive() {
		price := decimal.Min(remaining, s.randomCents(2, 5))
		if remaining.Sub(price).LessThan(accessoryFloor) {
			items = append(items, NewLineItem(closingItemName, RoundCents(remaining)))
			break
		}
		items = append(items, NewLineItem(accessoryItemName, price))
		remaining = remaining.Sub(price)
	}

	return items
}

func genericItems(total decimal.Decimal, name string) []LineItem {
	core := RoundCents(total.Mul(coreShare))
	items := []LineItem{NewLineItem(name, core)}
	if fees := total.Sub(core); fees.IsPositive() {
		items = append(items, NewLineItem(taxAndFeesName, fees))
	}
	return items
}

func (s *Synthesizer) randomCents(lo, hi float64) decimal.Decimal {
	return RoundCents(decimal.NewFromFloat(lo + s.random.Float64()*(hi-lo)))
}

func merchantLabel(label string, category Category) string {
	if label = strings.TrimSpace(label); label != "" {
		return label
	}
	return category.DisplayName()
}
