// Package seed loads the demo employees, logins and the first pay raise.
// Running it twice leaves the data unchanged.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/payraise-portal/internal/access"
	"github.com/frahmantamala/payraise-portal/internal/auth"
	employeeDatamodel "github.com/frahmantamala/payraise-portal/internal/core/datamodel/employee"
	payraiseDatamodel "github.com/frahmantamala/payraise-portal/internal/core/datamodel/payraise"
	userDatamodel "github.com/frahmantamala/payraise-portal/internal/core/datamodel/user"
	"github.com/frahmantamala/payraise-portal/internal/payraise"
	"gorm.io/gorm"
)

type EmployeeFixture struct {
	Name       string
	Email      string
	Department string
	Level      access.Level
}

type UserFixture struct {
	Username string
	Password string
	FullName string
	Level    access.Level
	// EmployeeEmail links the login to its employee row.
	EmployeeEmail string
}

type RaiseFixture struct {
	Username      string
	Amount        string
	EffectiveDate string
	Comments      string
}

var (
	Employees = []EmployeeFixture{
		{Name: "Alice Admin", Email: "alice.admin@example.com", Department: "Executive", Level: access.LevelAdmin},
		{Name: "Bob Manager", Email: "bob.manager@example.com", Department: "Operations", Level: access.LevelManager},
		{Name: "Cara Staff", Email: "cara.staff@example.com", Department: "Support", Level: access.LevelStaff},
	}

	Users = []UserFixture{
		{Username: "admin1", Password: "AdminPass1", FullName: "Alice Admin", Level: access.LevelAdmin, EmployeeEmail: "alice.admin@example.com"},
		{Username: "manager", Password: "Manager1", FullName: "Bob Manager", Level: access.LevelManager, EmployeeEmail: "bob.manager@example.com"},
		{Username: "staff", Password: "Staff1", FullName: "Cara Staff", Level: access.LevelStaff, EmployeeEmail: "cara.staff@example.com"},
	}

	Raises = []RaiseFixture{
		{Username: "admin1", Amount: "1250.00", EffectiveDate: "2025-01-01", Comments: "Annual merit increase"},
	}
)

type UserProvisioner interface {
	CreateUser(ctx context.Context, dto auth.CreateUserDTO) (*auth.User, error)
}

type Report struct {
	Employees int
	Users     int
	Raises    int
}

type Seeder struct {
	db     *gorm.DB
	users  auth.Repository
	auth   UserProvisioner
	raises *payraise.Service
	logger *slog.Logger
}

func NewSeeder(db *gorm.DB, users auth.Repository, provisioner UserProvisioner, raises *payraise.Service, logger *slog.Logger) *Seeder {
	return &Seeder{db: db, users: users, auth: provisioner, raises: raises, logger: logger}
}

// Clear removes every pay raise, login and employee.
func (s *Seeder) Clear(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{
			&payraiseDatamodel.PayRaise{},
			&userDatamodel.User{},
			&employeeDatamodel.Employee{},
		} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return fmt.Errorf("clear %T: %w", model, err)
			}
		}
		return nil
	})
}

func (s *Seeder) Run(ctx context.Context) (*Report, error) {
	report := &Report{}

	employeeIDs := make(map[string]int64, len(Employees))
	for _, f := range Employees {
		id, created, err := s.ensureEmployee(ctx, f)
		if err != nil {
			return nil, err
		}
		employeeIDs[f.Email] = id
		if created {
			report.Employees++
		}
	}

	accounts := make(map[string]*auth.User, len(Users))
	for _, f := range Users {
		u, created, err := s.ensureUser(ctx, f, employeeIDs)
		if err != nil {
			return nil, err
		}
		accounts[f.Username] = u
		if created {
			report.Users++
		}
	}

	for _, f := range Raises {
		u, ok := accounts[f.Username]
		if !ok {
			return nil, fmt.Errorf("raise fixture references unknown user %q", f.Username)
		}
		created, err := s.ensureRaise(ctx, u, f)
		if err != nil {
			return nil, err
		}
		if created {
			report.Raises++
		}
	}

	s.logger.Info("seed complete",
		"employees_created", report.Employees,
		"users_created", report.Users,
		"raises_created", report.Raises)
	return report, nil
}

func (s *Seeder) ensureEmployee(ctx context.Context, f EmployeeFixture) (int64, bool, error) {
	db := s.db.WithContext(ctx)

	var row employeeDatamodel.Employee
	err := db.Where("email = ?", f.Email).First(&row).Error
	if err == nil {
		return row.ID, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, fmt.Errorf("look up employee %s: %w", f.Email, err)
	}

	row = employeeDatamodel.Employee{
		Name:          f.Name,
		Email:         f.Email,
		Department:    f.Department,
		SecurityLevel: int(f.Level),
	}
	if err := db.Create(&row).Error; err != nil {
		return 0, false, fmt.Errorf("seed employee %s: %w", f.Email, err)
	}
	return row.ID, true, nil
}

func (s *Seeder) ensureUser(ctx context.Context, f UserFixture, employeeIDs map[string]int64) (*auth.User, bool, error) {
	existing, err := s.users.GetByUsername(ctx, f.Username)
	if err == nil {
		return auth.FromDataModel(existing), false, nil
	}
	if !errors.Is(err, auth.ErrUserNotFound) {
		return nil, false, fmt.Errorf("look up user %s: %w", f.Username, err)
	}

	dto := auth.CreateUserDTO{
		Username: f.Username,
		Password: f.Password,
		Level:    f.Level,
		FullName: f.FullName,
	}
	if id, ok := employeeIDs[f.EmployeeEmail]; ok {
		dto.EmployeeID = &id
	}

	u, err := s.auth.CreateUser(ctx, dto)
	if err != nil {
		return nil, false, fmt.Errorf("seed user %s: %w", f.Username, err)
	}
	return u, true, nil
}

func (s *Seeder) ensureRaise(ctx context.Context, u *auth.User, f RaiseFixture) (bool, error) {
	caller := u.Session()

	existing, err := s.raises.ListPayRaises(ctx, caller, access.ListOwnPayRaises)
	if err != nil {
		return false, fmt.Errorf("list raises of %s: %w", f.Username, err)
	}
	if len(existing) > 0 {
		return false, nil
	}

	_, err = s.raises.AddPayRaise(ctx, caller, payraise.CreatePayRaiseDTO{
		Amount:        payraise.Decimal(f.Amount),
		EffectiveDate: f.EffectiveDate,
		Comments:      f.Comments,
	})
	if err != nil {
		return false, fmt.Errorf("seed raise for %s: %w", f.Username, err)
	}
	return true, nil
}
