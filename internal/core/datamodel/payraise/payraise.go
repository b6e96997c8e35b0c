package payraise

import "time"

// PayRaise holds only ciphertext for the amount, effective date and comments.
type PayRaise struct {
	ID                      int64     `gorm:"primaryKey"`
	EmployeeID              int64     `gorm:"column:employee_id;not null;index"`
	CreatedBy               int64     `gorm:"column:created_by;not null;index"`
	AmountCiphertext        []byte    `gorm:"column:amount_ciphertext;not null"`
	EffectiveDateCiphertext []byte    `gorm:"column:effective_date_ciphertext;not null"`
	CommentsCiphertext      []byte    `gorm:"column:comments_ciphertext"`
	CreatedAt               time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (PayRaise) TableName() string {
	return "pay_raises"
}

// Listing is a PayRaise joined with the name of its employee.
type Listing struct {
	PayRaise
	EmployeeName string `gorm:"column:employee_name"`
}
