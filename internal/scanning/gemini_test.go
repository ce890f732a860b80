package scanning

import (
	"context"
	"errors"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var _ = Describe("geminiError", func() {
	DescribeTable("classifies failures",
		func(err error, expectedUnavailable bool) {
			mapped := geminiError(err)

			var providerErr *ProviderError
			Expect(errors.As(mapped, &providerErr)).To(BeTrue())
			Expect(providerErr.Provider).To(Equal("gemini"))
			Expect(errors.Is(mapped, ErrProviderUnavailable)).To(Equal(expectedUnavailable))
		},
		Entry("invalid argument", status.Error(codes.InvalidArgument, "image too large"), false),
		Entry("permission denied", status.Error(codes.PermissionDenied, "API key not valid"), false),
		Entry("unavailable", status.Error(codes.Unavailable, "try again"), true),
		Entry("quota exhausted", status.Error(codes.ResourceExhausted, "quota"), true),
		Entry("wrapped status", fmt.Errorf("calling model: %w", status.Error(codes.Internal, "oops")), true),
		Entry("deadline", context.DeadlineExceeded, true),
		Entry("plain transport error", errors.New("dial tcp: connection refused"), true),
	)

	It("keeps the status message", func() {
		var providerErr *ProviderError
		Expect(errors.As(geminiError(status.Error(codes.InvalidArgument, "image too large")), &providerErr)).To(BeTrue())
		Expect(providerErr.Message).To(Equal("image too large"))
		Expect(providerErr.Code).To(Equal(int(codes.InvalidArgument)))
	})
})

var _ = Describe("NewGemini", func() {
	It("requires an API key", func() {
		_, err := NewGemini("", "", 0)
		Expect(err).To(MatchError(ContainSubstring("api key is required")))
	})
})
