package scanning

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("RateLimited", func() {
	var (
		next    *mockScanner
		limited *RateLimited
	)

	BeforeEach(func() {
		next = &mockScanner{text: "CAFE"}
		limited = NewRateLimited(next, 1, 1)
	})

	It("passes the first call straight through", func() {
		text, err := limited.RecognizeText(context.Background(), nil, "image/png")

		Expect(err).NotTo(HaveOccurred())
		Expect(text).To(Equal("CAFE"))
		Expect(next.calls).To(Equal(1))
	})

	It("fails without calling the provider when the budget is spent and the context is done", func() {
		_, err := limited.RecognizeText(context.Background(), nil, "image/png")
		Expect(err).NotTo(HaveOccurred())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err = limited.RecognizeText(ctx, nil, "image/png")

		Expect(errors.Is(err, ErrProviderUnavailable)).To(BeTrue())
		Expect(errors.Is(err, context.Canceled)).To(BeTrue())
		Expect(next.calls).To(Equal(1))
	})

	It("returns provider errors unchanged", func() {
		providerErr := &ProviderError{Provider: "ollama", Code: 400}
		next.err = providerErr

		_, err := limited.RecognizeText(context.Background(), nil, "image/png")

		Expect(errors.Is(err, providerErr)).To(BeTrue())
	})

	When("throttling is disabled", func() {
		BeforeEach(func() {
			limited = NewRateLimited(next, 0, 0)
		})

		It("never blocks", func() {
			for i := 0; i < 5; i++ {
				_, err := limited.RecognizeText(context.Background(), nil, "image/png")
				Expect(err).NotTo(HaveOccurred())
			}
			Expect(next.calls).To(Equal(5))
		})
	})

	It("closes the wrapped scanner", func() {
		Expect(limited.Close()).To(Succeed())
		Expect(next.closed).To(BeTrue())
	})
})
