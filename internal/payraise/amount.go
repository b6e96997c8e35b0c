package payraise

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// Amount is a positive money value in cents.
type Amount int64

var (
	ErrInvalidAmount = errors.New("amount must be a positive number with at most two decimal places")

	amountPattern = regexp.MustCompile(`^(\d{1,12})(?:\.(\d{1,2}))?$`)
)

// ParseAmount accepts "500", "500.5" and "500.50". Zero, negatives, signs,
// exponents and thousands separators are rejected.
func ParseAmount(s string) (Amount, error) {
	m := amountPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, ErrInvalidAmount
	}

	whole, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}

	frac := m[2]
	for len(frac) < 2 {
		frac += "0"
	}
	cents, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}

	a := Amount(whole*100 + cents)
	if a <= 0 {
		return 0, ErrInvalidAmount
	}
	return a, nil
}

// String is the canonical form that gets encrypted, e.g. "1250.00".
func (a Amount) String() string {
	whole, cents := int64(a)/100, int64(a)%100
	return strconv.FormatInt(whole, 10) + "." + pad2(cents)
}

// Display formats for people, e.g. "$1,250.00".
func (a Amount) Display() string {
	whole, cents := int64(a)/100, int64(a)%100
	digits := strconv.FormatInt(whole, 10)

	var b strings.Builder
	b.WriteByte('$')
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteByte('.')
	b.WriteString(pad2(cents))
	return b.String()
}

func pad2(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}
