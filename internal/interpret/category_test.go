package interpret

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Category", func() {
	DescribeTable("Classify",
		func(merchant string, expected Category) {
			Expect(Classify(merchant)).To(Equal(expected))
		},
		Entry("coffee shop", "Blue Bottle Coffee", CategoryFood),
		Entry("food beats market", "Whole Foods Market", CategoryFood),
		Entry("retailer", "WALMART SUPERCENTER", CategoryShopping),
		Entry("fuel", "Chevron #2231", CategoryTransportation),
		Entry("cinema", "AMC Cinema 12", CategoryEntertainment),
		Entry("pharmacy", "Walgreens #1043", CategoryHealthcare),
		Entry("carrier", "Verizon Wireless", CategoryUtilities),
		Entry("lodging", "Hilton Hotel", CategoryTravel),
		Entry("unknown", "ACME Hardware", CategoryOther),
		Entry("empty", "", CategoryOther),
	)

	DescribeTable("ParseCategory",
		func(input string, expected Category) {
			c, err := ParseCategory(input)
			Expect(err).NotTo(HaveOccurred())
			Expect(c).To(Equal(expected))
		},
		Entry("raw value", "food", CategoryFood),
		Entry("upper case", "BILLS", CategoryBills),
		Entry("display name", "Food & Dining", CategoryFood),
		Entry("spelled conjunction", "rent and housing", CategoryRent),
	)

	It("should reject unknown categories", func() {
		_, err := ParseCategory("gadgets")
		Expect(err).To(HaveOccurred())
	})

	It("should expose display names", func() {
		Expect(CategoryBills.DisplayName()).To(Equal("Bills & Utilities"))
		Expect(Category("bogus").DisplayName()).To(Equal("Other"))
	})

	It("should list every category", func() {
		Expect(Categories()).To(HaveLen(13))
		Expect(Categories()).To(ContainElement(CategoryInsurance))
	})
})
