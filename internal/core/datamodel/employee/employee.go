package employee

import "time"

type Employee struct {
	ID            int64     `gorm:"primaryKey"`
	Name          string    `gorm:"column:name;size:128;not null;index"`
	Email         string    `gorm:"column:email;size:254"`
	Department    string    `gorm:"column:department;size:128;not null"`
	SecurityLevel int       `gorm:"column:security_level;not null;default:3"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Employee) TableName() string {
	return "employees"
}
