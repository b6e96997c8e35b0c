package payraise_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/frahmantamala/payraise-portal/internal"
	"github.com/frahmantamala/payraise-portal/internal/access"
	"github.com/frahmantamala/payraise-portal/internal/cipherbox"
	payraiseDatamodel "github.com/frahmantamala/payraise-portal/internal/core/datamodel/payraise"
	"github.com/frahmantamala/payraise-portal/internal/payraise"
	"github.com/frahmantamala/payraise-portal/internal/session"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestPayRaise(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "PayRaise Suite")
}

type mockRepository struct {
	employees map[int64]string
	rows      []*payraiseDatamodel.PayRaise
	calls     int
	failErr   error
}

func newMockRepository() *mockRepository {
	return &mockRepository{employees: map[int64]string{1: "Alice Admin", 2: "Bob Manager", 3: "Cara Staff"}}
}

func (m *mockRepository) Create(_ context.Context, row *payraiseDatamodel.PayRaise) error {
	m.calls++
	if m.failErr != nil {
		return m.failErr
	}
	if _, ok := m.employees[row.EmployeeID]; !ok {
		return payraise.ErrEmployeeNotFound
	}
	row.ID = int64(len(m.rows) + 1)
	row.CreatedAt = time.Now()
	m.rows = append(m.rows, row)
	return nil
}

func (m *mockRepository) list(keep func(*payraiseDatamodel.PayRaise) bool) []*payraiseDatamodel.Listing {
	var out []*payraiseDatamodel.Listing
	for i := len(m.rows) - 1; i >= 0; i-- {
		if keep(m.rows[i]) {
			out = append(out, &payraiseDatamodel.Listing{PayRaise: *m.rows[i], EmployeeName: m.employees[m.rows[i].EmployeeID]})
		}
	}
	return out
}

func (m *mockRepository) ListAll(_ context.Context) ([]*payraiseDatamodel.Listing, error) {
	m.calls++
	if m.failErr != nil {
		return nil, m.failErr
	}
	return m.list(func(*payraiseDatamodel.PayRaise) bool { return true }), nil
}

func (m *mockRepository) ListByCreator(_ context.Context, userID int64) ([]*payraiseDatamodel.Listing, error) {
	m.calls++
	if m.failErr != nil {
		return nil, m.failErr
	}
	return m.list(func(r *payraiseDatamodel.PayRaise) bool { return r.CreatedBy == userID }), nil
}

func identity(id int64, level access.Level, employeeID int64) session.Context {
	return session.Context{UserID: id, Username: level.String(), Level: level, EmployeeID: &employeeID}
}

func newBox() *cipherbox.Box {
	key, err := cipherbox.GenerateKey()
	Expect(err).NotTo(HaveOccurred())
	box, err := cipherbox.New(key)
	Expect(err).NotTo(HaveOccurred())
	return box
}

var _ = Describe("PayRaise Service", func() {
	var (
		ctx     context.Context
		repo    *mockRepository
		box     *cipherbox.Box
		service *payraise.Service
		admin   session.Context
		manager session.Context
		staff   session.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		repo = newMockRepository()
		box = newBox()
		service = payraise.NewService(repo, box, access.NewPolicy(), slog.New(slog.NewTextHandler(io.Discard, nil)))
		admin = identity(1, access.LevelAdmin, 1)
		manager = identity(2, access.LevelManager, 2)
		staff = identity(3, access.LevelStaff, 3)
	})

	Describe("AddPayRaise", func() {
		It("stores only ciphertext and reads back the canonical amount", func() {
			id, err := service.AddPayRaise(ctx, admin, payraise.CreatePayRaiseDTO{
				Amount:        "500",
				EffectiveDate: "2025-03-01",
				Comments:      "promotion",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(id).To(Equal(int64(1)))

			row := repo.rows[0]
			Expect(row.CreatedBy).To(Equal(int64(1)))
			Expect(row.EmployeeID).To(Equal(int64(1)))
			Expect(string(row.AmountCiphertext)).NotTo(ContainSubstring("500"))

			plain, err := box.DecryptString(row.AmountCiphertext)
			Expect(err).NotTo(HaveOccurred())
			Expect(plain).To(Equal("500.00"))
		})

		It("uses the explicit employee when given", func() {
			other := int64(3)
			_, err := service.AddPayRaise(ctx, manager, payraise.CreatePayRaiseDTO{
				EmployeeID:    &other,
				Amount:        "10.5",
				EffectiveDate: "2025-03-01",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.rows[0].EmployeeID).To(Equal(int64(3)))
			Expect(repo.rows[0].CommentsCiphertext).To(BeEmpty())
		})

		It("requires an employee when the caller has none", func() {
			noEmployee := session.Context{UserID: 9, Username: "ops", Level: access.LevelStaff}
			_, err := service.AddPayRaise(ctx, noEmployee, payraise.CreatePayRaiseDTO{Amount: "5", EffectiveDate: "2025-01-01"})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
			Expect(repo.calls).To(BeZero())
		})

		It("rejects an unknown employee", func() {
			missing := int64(42)
			_, err := service.AddPayRaise(ctx, admin, payraise.CreatePayRaiseDTO{EmployeeID: &missing, Amount: "5", EffectiveDate: "2025-01-01"})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})

		DescribeTable("validates the input",
			func(dto payraise.CreatePayRaiseDTO, field string) {
				_, err := service.AddPayRaise(ctx, admin, dto)
				appErr, ok := internal.IsAppError(err)
				Expect(ok).To(BeTrue())
				details := appErr.Details.(internal.ValidationErrors)
				Expect(details.Errors).To(ContainElement(HaveField("Field", field)))
				Expect(repo.calls).To(BeZero())
			},
			Entry("missing amount", payraise.CreatePayRaiseDTO{EffectiveDate: "2025-01-01"}, "amount"),
			Entry("negative amount", payraise.CreatePayRaiseDTO{Amount: "-1", EffectiveDate: "2025-01-01"}, "amount"),
			Entry("three decimals", payraise.CreatePayRaiseDTO{Amount: "1.001", EffectiveDate: "2025-01-01"}, "amount"),
			Entry("missing date", payraise.CreatePayRaiseDTO{Amount: "1"}, "effective_date"),
			Entry("bad date", payraise.CreatePayRaiseDTO{Amount: "1", EffectiveDate: "01/02/2025"}, "effective_date"),
			Entry("impossible date", payraise.CreatePayRaiseDTO{Amount: "1", EffectiveDate: "2025-02-30"}, "effective_date"),
		)

		It("asks anonymous callers to log in", func() {
			_, err := service.AddPayRaise(ctx, session.Anonymous, payraise.CreatePayRaiseDTO{Amount: "5", EffectiveDate: "2025-01-01"})
			Expect(err).To(MatchError(internal.ErrLoginRequired))
		})

		It("hides storage failures", func() {
			repo.failErr = errors.New("deadlock detected")
			_, err := service.AddPayRaise(ctx, admin, payraise.CreatePayRaiseDTO{Amount: "5", EffectiveDate: "2025-01-01"})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeStorage))
		})
	})

	Describe("ListPayRaises", func() {
		BeforeEach(func() {
			shared := int64(3)
			for _, c := range []session.Context{admin, manager, staff} {
				_, err := service.AddPayRaise(ctx, c, payraise.CreatePayRaiseDTO{EmployeeID: &shared, Amount: "100", EffectiveDate: "2025-01-01"})
				Expect(err).NotTo(HaveOccurred())
			}
			repo.calls = 0
		})

		It("returns only the caller's own records even on a shared employee", func() {
			records, err := service.ListPayRaises(ctx, staff, access.ListOwnPayRaises)
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(1))
			Expect(records[0].CreatedBy).To(Equal(staff.UserID))
			Expect(records[0].Amount).To(Equal("100.00"))
			Expect(records[0].AmountDisplay).To(Equal("$100.00"))
			Expect(records[0].EmployeeName).To(Equal("Cara Staff"))
		})

		It("returns every record newest first for a manager", func() {
			records, err := service.ListPayRaises(ctx, manager, access.ListAllPayRaises)
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(3))
			Expect(records[0].ID).To(Equal(int64(3)))
			Expect(records[2].ID).To(Equal(int64(1)))
		})

		DescribeTable("denies the all-records listing to levels 1 and 3",
			func(level access.Level) {
				_, err := service.ListPayRaises(ctx, identity(7, level, 1), access.ListAllPayRaises)
				Expect(err).To(MatchError(internal.ErrNotFound))
				Expect(repo.calls).To(BeZero())
			},
			Entry("admin", access.LevelAdmin),
			Entry("staff", access.LevelStaff),
		)

		It("refuses scopes that are not listings", func() {
			_, err := service.ListPayRaises(ctx, admin, access.AddEmployee)
			Expect(err).To(MatchError(internal.ErrNotFound))
		})

		It("flags a record that no longer decrypts and keeps listing the rest", func() {
			repo.rows[1].AmountCiphertext = []byte("garbage that is long enough to look sealed")

			records, err := service.ListPayRaises(ctx, manager, access.ListAllPayRaises)
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(3))

			broken := records[1]
			Expect(broken.ID).To(Equal(int64(2)))
			Expect(broken.Intact()).To(BeFalse())
			Expect(broken.IntegrityError.RecordID).To(Equal(int64(2)))
			Expect(broken.Amount).To(BeEmpty())
			Expect(broken.EffectiveDate).To(BeEmpty())

			Expect(records[0].Intact()).To(BeTrue())
			Expect(records[2].Intact()).To(BeTrue())
		})

		It("flags every record after the key changed", func() {
			other := payraise.NewService(repo, newBox(), access.NewPolicy(), slog.New(slog.NewTextHandler(io.Discard, nil)))

			records, err := other.ListPayRaises(ctx, manager, access.ListAllPayRaises)
			Expect(err).NotTo(HaveOccurred())
			for _, r := range records {
				Expect(r.IntegrityError).NotTo(BeNil())
				Expect(r.IntegrityError.Cause).To(MatchError(cipherbox.ErrDecryptionFailed))
			}
		})
	})
})
