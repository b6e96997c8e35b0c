package payraise_test

import (
	"encoding/json"

	"github.com/frahmantamala/payraise-portal/internal/payraise"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Amount", func() {
	DescribeTable("parses valid amounts",
		func(in, canonical, display string) {
			a, err := payraise.ParseAmount(in)
			Expect(err).NotTo(HaveOccurred())
			Expect(a.String()).To(Equal(canonical))
			Expect(a.Display()).To(Equal(display))
		},
		Entry("whole", "500", "500.00", "$500.00"),
		Entry("two decimals", "500.00", "500.00", "$500.00"),
		Entry("one decimal", "12.5", "12.50", "$12.50"),
		Entry("cents", "0.01", "0.01", "$0.01"),
		Entry("thousands", "1250.00", "1250.00", "$1,250.00"),
		Entry("millions", "1234567.89", "1234567.89", "$1,234,567.89"),
		Entry("padded", " 75 ", "75.00", "$75.00"),
	)

	DescribeTable("rejects invalid amounts",
		func(in string) {
			_, err := payraise.ParseAmount(in)
			Expect(err).To(MatchError(payraise.ErrInvalidAmount))
		},
		Entry("empty", ""),
		Entry("zero", "0"),
		Entry("zero with cents", "0.00"),
		Entry("negative", "-5"),
		Entry("plus sign", "+5"),
		Entry("three decimals", "1.234"),
		Entry("exponent", "1e3"),
		Entry("separator", "1,250.00"),
		Entry("trailing dot", "5."),
		Entry("text", "lots"),
	)

	It("keeps the literal text of JSON numbers", func() {
		var dto payraise.CreatePayRaiseDTO
		Expect(json.Unmarshal([]byte(`{"amount": 500.00, "effective_date": "2025-01-01"}`), &dto)).To(Succeed())
		Expect(string(dto.Amount)).To(Equal("500.00"))

		Expect(json.Unmarshal([]byte(`{"amount": "1250.5"}`), &dto)).To(Succeed())
		Expect(string(dto.Amount)).To(Equal("1250.5"))
	})
})
