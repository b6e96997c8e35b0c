package payraise

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/frahmantamala/payraise-portal/internal"
	"github.com/frahmantamala/payraise-portal/internal/core/common/validation"
)

// Decimal keeps the literal text of a JSON number or string so "500.00" is
// never rounded through float64.
type Decimal string

func (d *Decimal) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*d = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*d = Decimal(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*d = Decimal(n.String())
	return nil
}

type CreatePayRaiseDTO struct {
	EmployeeID    *int64  `json:"employee_id,omitempty"`
	Amount        Decimal `json:"amount"`
	EffectiveDate string  `json:"effective_date"`
	Comments      string  `json:"comments,omitempty"`
}

func (d *CreatePayRaiseDTO) Normalize() {
	d.Amount = Decimal(strings.TrimSpace(string(d.Amount)))
	d.EffectiveDate = strings.TrimSpace(d.EffectiveDate)
	d.Comments = strings.TrimSpace(d.Comments)
}

func (d CreatePayRaiseDTO) Validate() error {
	v := validation.NewValidator()
	if d.EmployeeID != nil {
		v.Field("employee_id", *d.EmployeeID).Custom(func(value interface{}) *internal.AppError {
			if id, _ := value.(int64); id <= 0 {
				return internal.NewValidationError("employee_id must be a positive id", internal.ErrCodeValidationFailed)
			}
			return nil
		})
	}
	v.Field("amount", string(d.Amount)).Required().Custom(func(value interface{}) *internal.AppError {
		if _, err := ParseAmount(value.(string)); err != nil {
			return internal.NewValidationError(err.Error(), internal.ErrCodeInvalidAmount)
		}
		return nil
	})
	v.Field("effective_date", d.EffectiveDate).Required().Date()
	v.Field("comments", d.Comments).MaxLength(1000)
	return v.Validate()
}
