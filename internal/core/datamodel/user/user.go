package user

import "time"

type User struct {
	ID            int64     `gorm:"primaryKey"`
	Username      string    `gorm:"column:username;size:64;uniqueIndex;not null"`
	PasswordHash  string    `gorm:"column:password_hash;not null"`
	SecurityLevel int       `gorm:"column:security_level;not null"`
	FullName      string    `gorm:"column:full_name;size:128"`
	EmployeeID    *int64    `gorm:"column:employee_id;index"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (User) TableName() string {
	return "users"
}
