package employee_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/frahmantamala/payraise-portal/internal"
	"github.com/frahmantamala/payraise-portal/internal/access"
	employeeDatamodel "github.com/frahmantamala/payraise-portal/internal/core/datamodel/employee"
	"github.com/frahmantamala/payraise-portal/internal/employee"
	"github.com/frahmantamala/payraise-portal/internal/session"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestEmployee(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Employee Suite")
}

type mockRepository struct {
	rows    []*employeeDatamodel.Employee
	calls   int
	failErr error
}

func (m *mockRepository) Create(_ context.Context, e *employeeDatamodel.Employee) error {
	m.calls++
	if m.failErr != nil {
		return m.failErr
	}
	e.ID = int64(len(m.rows) + 1)
	e.CreatedAt = time.Now()
	m.rows = append(m.rows, e)
	return nil
}

func (m *mockRepository) List(_ context.Context) ([]*employeeDatamodel.Employee, error) {
	m.calls++
	if m.failErr != nil {
		return nil, m.failErr
	}
	return m.rows, nil
}

func (m *mockRepository) GetByID(_ context.Context, id int64) (*employeeDatamodel.Employee, error) {
	m.calls++
	for _, r := range m.rows {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, nil
}

func caller(level access.Level) session.Context {
	return session.Context{UserID: 10 + int64(level), Username: level.String(), Level: level}
}

var _ = Describe("Employee Service", func() {
	var (
		ctx     context.Context
		repo    *mockRepository
		service *employee.Service
	)

	BeforeEach(func() {
		ctx = context.Background()
		repo = &mockRepository{}
		service = employee.NewService(repo, access.NewPolicy(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	})

	Describe("AddEmployee", func() {
		It("lets a level-1 caller add an employee with the default level", func() {
			emp, err := service.AddEmployee(ctx, caller(access.LevelAdmin), employee.CreateEmployeeDTO{
				Name:       "  Dan Dev ",
				Email:      "dan@example.com",
				Department: "Engineering",
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(emp.ID).To(Equal(int64(1)))
			Expect(emp.Name).To(Equal("Dan Dev"))
			Expect(emp.SecurityLevel).To(Equal(access.LevelStaff))
		})

		DescribeTable("denies every other level with not-found and never touches the store",
			func(level access.Level) {
				_, err := service.AddEmployee(ctx, caller(level), employee.CreateEmployeeDTO{Name: "x", Department: "y"})
				Expect(err).To(MatchError(internal.ErrNotFound))
				Expect(repo.calls).To(BeZero())
			},
			Entry("manager", access.LevelManager),
			Entry("staff", access.LevelStaff),
		)

		It("asks anonymous callers to log in", func() {
			_, err := service.AddEmployee(ctx, session.Anonymous, employee.CreateEmployeeDTO{Name: "x", Department: "y"})
			Expect(err).To(MatchError(internal.ErrLoginRequired))
		})

		It("reports every invalid field", func() {
			_, err := service.AddEmployee(ctx, caller(access.LevelAdmin), employee.CreateEmployeeDTO{
				Email:         "not-an-email",
				SecurityLevel: 5,
			})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
			details, ok := appErr.Details.(internal.ValidationErrors)
			Expect(ok).To(BeTrue())

			var fields []string
			for _, e := range details.Errors {
				fields = append(fields, e.Field)
			}
			Expect(fields).To(ConsistOf("name", "email", "department", "security_level"))
		})

		It("hides storage failures behind a storage error", func() {
			repo.failErr = errors.New("disk full")
			_, err := service.AddEmployee(ctx, caller(access.LevelAdmin), employee.CreateEmployeeDTO{Name: "x", Department: "y"})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeStorage))
			Expect(appErr.Message).To(Equal("storage unavailable"))
		})
	})

	Describe("ListEmployees", func() {
		BeforeEach(func() {
			_, err := service.AddEmployee(ctx, caller(access.LevelAdmin), employee.CreateEmployeeDTO{Name: "Alice", Department: "Exec"})
			Expect(err).NotTo(HaveOccurred())
			repo.calls = 0
		})

		It("lists for levels 1 and 2", func() {
			for _, level := range []access.Level{access.LevelAdmin, access.LevelManager} {
				list, err := service.ListEmployees(ctx, caller(level))
				Expect(err).NotTo(HaveOccurred())
				Expect(list).To(HaveLen(1))
			}
		})

		It("denies level 3 with not-found", func() {
			_, err := service.ListEmployees(ctx, caller(access.LevelStaff))
			Expect(err).To(MatchError(internal.ErrNotFound))
			Expect(repo.calls).To(BeZero())
		})
	})
})
