package interpret

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/shopspring/decimal"
)

// Printed on generated receipts; there is no merchant directory to look up.
const (
	placeholderAddress = "123 Innovation Blvd, Tech City, TC 94043"
	placeholderPhone   = "(555) 012-3456"
)

//go:embed templates/receipt.html.tmpl
var templateFS embed.FS

var receiptTemplate = template.Must(
	template.New("receipt.html.tmpl").
		Funcs(template.FuncMap{
			"money":    formatMoney,
			"price":    formatPrice,
			"dateTime": formatDateTime,
		}).
		ParseFS(templateFS, "templates/receipt.html.tmpl"),
)

// ReceiptView is everything the receipt markup shows.
type ReceiptView struct {
	Merchant string
	Address  string
	Phone    string
	Number   string
	Date     time.Time
	Items    []LineItem
	Total    decimal.Decimal
}

// ViewFromExtracted builds a view of a scanned receipt. The total falls back
// to the item sum when none was read.
func ViewFromExtracted(r ExtractedReceipt, number string) ReceiptView {
	view := ReceiptView{
		Merchant: "Merchant",
		Number:   number,
		Date:     r.PurchaseDate,
		Items:    r.Items,
		Total:    SumPrices(r.Items),
	}
	if r.MerchantName != nil {
		view.Merchant = *r.MerchantName
	}
	if r.TotalAmount != nil {
		view.Total = *r.TotalAmount
	}
	return view
}

// RenderHTML renders the printable HTML receipt.
func RenderHTML(view ReceiptView) (string, error) {
	var buf bytes.Buffer
	if err := receiptTemplate.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("executing receipt template: %w", err)
	}
	return buf.String(), nil
}

func formatMoney(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func formatPrice(p *decimal.Decimal) string {
	if p == nil {
		return ""
	}
	return formatMoney(*p)
}

func formatDateTime(t time.Time) string {
	return t.Format("Jan 2, 2006 3:04 PM")
}
