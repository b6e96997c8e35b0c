package payraise

import (
	"errors"
	"time"

	"github.com/frahmantamala/payraise-portal/internal"
)

var ErrEmployeeNotFound = errors.New("employee not found")

// Record is a decrypted pay raise. When IntegrityError is set the sensitive
// fields are empty.
type Record struct {
	ID             int64                    `json:"id"`
	EmployeeID     int64                    `json:"employee_id"`
	EmployeeName   string                   `json:"employee_name"`
	CreatedBy      int64                    `json:"created_by"`
	Amount         string                   `json:"amount,omitempty"`
	AmountDisplay  string                   `json:"amount_display,omitempty"`
	EffectiveDate  string                   `json:"effective_date,omitempty"`
	Comments       string                   `json:"comments,omitempty"`
	CreatedAt      time.Time                `json:"created_at"`
	IntegrityError *internal.IntegrityError `json:"integrity_error,omitempty"`
}

func (r *Record) Intact() bool {
	return r.IntegrityError == nil
}
