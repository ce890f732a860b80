package scanning

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ProviderError", func() {
	It("matches ErrProviderUnavailable only when unavailable", func() {
		down := unavailable("ollama", errors.New("connection refused"))
		rejected := &ProviderError{Provider: "ollama", Code: 400, Message: "bad image"}

		Expect(errors.Is(down, ErrProviderUnavailable)).To(BeTrue())
		Expect(errors.Is(rejected, ErrProviderUnavailable)).To(BeFalse())
	})

	It("unwraps the cause", func() {
		cause := errors.New("connection refused")
		err := unavailable("ollama", cause)

		Expect(errors.Is(err, cause)).To(BeTrue())
	})

	It("includes the code in the message when present", func() {
		err := &ProviderError{Provider: "google-vision", Code: 403, Message: "key invalid"}

		Expect(err.Error()).To(Equal("google-vision: ocr failed (code 403): key invalid"))
	})

	It("is reachable through errors.As when wrapped", func() {
		var wrapped error = &ProviderError{Provider: "gemini", Code: 3, Message: "bad"}
		wrapped = errors.Join(errors.New("scanning"), wrapped)

		var providerErr *ProviderError
		Expect(errors.As(wrapped, &providerErr)).To(BeTrue())
		Expect(providerErr.Provider).To(Equal("gemini"))
	})
})
