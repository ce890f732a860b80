package interpret

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
)

var _ = Describe("RenderHTML", func() {
	It("should render items, quantities and the total", func() {
		html, err := RenderHTML(ReceiptView{
			Merchant: "Corner Store",
			Number:   "0001",
			Date:     time.Date(2024, 1, 15, 14, 0, 0, 0, time.UTC),
			Items:    []LineItem{{Name: "Apples", Quantity: 3, Price: decimalPtr("6.00")}},
			Total:    decimal.RequireFromString("6.00"),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(html).To(ContainSubstring(`<span class="name">Apples</span>`))
		Expect(html).To(ContainSubstring(`<span class="qty">x3</span>`))
		Expect(html).To(ContainSubstring(`<span class="price">$6.00</span>`))
		Expect(html).To(ContainSubstring("Jan 15, 2024 2:00 PM"))
		Expect(html).NotTo(ContainSubstring("Tel:"))
	})

	It("should escape merchant text", func() {
		html, err := RenderHTML(ReceiptView{Merchant: "<script>alert(1)</script>"})
		Expect(err).NotTo(HaveOccurred())
		Expect(html).NotTo(ContainSubstring("<script>"))
		Expect(html).To(ContainSubstring("&lt;script&gt;"))
	})

	Describe("ViewFromExtracted", func() {
		It("should fall back to the item sum without a total", func() {
			view := ViewFromExtracted(ExtractedReceipt{
				Items: []LineItem{NewLineItem("A", decimal.RequireFromString("1.25")), NewLineItem("B", decimal.RequireFromString("2.00"))},
			}, "42")
			Expect(view.Merchant).To(Equal("Merchant"))
			Expect(view.Total.StringFixed(2)).To(Equal("3.25"))
			Expect(view.Number).To(Equal("42"))
		})
	})
})
