package employee

import (
	"strings"

	"github.com/frahmantamala/payraise-portal/internal"
	"github.com/frahmantamala/payraise-portal/internal/access"
	"github.com/frahmantamala/payraise-portal/internal/core/common/validation"
)

type CreateEmployeeDTO struct {
	Name          string `json:"name"`
	Email         string `json:"email,omitempty"`
	Department    string `json:"department"`
	SecurityLevel int    `json:"security_level,omitempty"`
}

// Normalize trims the text fields and applies the default security level.
func (d *CreateEmployeeDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Email = strings.TrimSpace(d.Email)
	d.Department = strings.TrimSpace(d.Department)
	if d.SecurityLevel == 0 {
		d.SecurityLevel = int(access.LevelStaff)
	}
}

func (d CreateEmployeeDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(128)
	v.Field("email", d.Email).MaxLength(254).Email()
	v.Field("department", d.Department).Required().MaxLength(128)
	v.Field("security_level", d.SecurityLevel).Required().
		OneOf(internal.ErrCodeInvalidLevel, int(access.LevelAdmin), int(access.LevelManager), int(access.LevelStaff))
	return v.Validate()
}
