package scanning

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("cleanTranscript", func() {
	DescribeTable("normalizes model output",
		func(input, expected string) {
			Expect(cleanTranscript(input)).To(Equal(expected))
		},
		Entry("plain text", "CAFE\nTOTAL 4.50", "CAFE\nTOTAL 4.50"),
		Entry("surrounding whitespace", "  CAFE\n", "CAFE"),
		Entry("fenced block", "```\nCAFE\nTOTAL 4.50\n```", "CAFE\nTOTAL 4.50"),
		Entry("fenced block with language", "```text\nCAFE\n```", "CAFE"),
		Entry("no text marker", "NO_TEXT", ""),
		Entry("fenced no text marker", "```\nNO_TEXT\n```", ""),
		Entry("empty", "", ""),
	)
})
