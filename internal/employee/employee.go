package employee

import (
	"time"

	"github.com/frahmantamala/payraise-portal/internal/access"
	employeeDatamodel "github.com/frahmantamala/payraise-portal/internal/core/datamodel/employee"
)

type Employee struct {
	ID            int64        `json:"id"`
	Name          string       `json:"name"`
	Email         string       `json:"email,omitempty"`
	Department    string       `json:"department"`
	SecurityLevel access.Level `json:"security_level"`
	CreatedAt     time.Time    `json:"created_at"`
}

func FromDataModel(e *employeeDatamodel.Employee) *Employee {
	return &Employee{
		ID:            e.ID,
		Name:          e.Name,
		Email:         e.Email,
		Department:    e.Department,
		SecurityLevel: access.Level(e.SecurityLevel),
		CreatedAt:     e.CreatedAt,
	}
}

func ToDataModel(e *Employee) *employeeDatamodel.Employee {
	return &employeeDatamodel.Employee{
		ID:            e.ID,
		Name:          e.Name,
		Email:         e.Email,
		Department:    e.Department,
		SecurityLevel: int(e.SecurityLevel),
		CreatedAt:     e.CreatedAt,
	}
}
