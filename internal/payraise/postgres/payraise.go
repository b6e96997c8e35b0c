package postgres

import (
	"context"

	employeeDatamodel "github.com/frahmantamala/payraise-portal/internal/core/datamodel/employee"
	payraiseDatamodel "github.com/frahmantamala/payraise-portal/internal/core/datamodel/payraise"
	"github.com/frahmantamala/payraise-portal/internal/payraise"
	"gorm.io/gorm"
)

type PayRaiseRepository struct {
	db *gorm.DB
}

func NewPayRaiseRepository(db *gorm.DB) payraise.RepositoryAPI {
	return &PayRaiseRepository{db: db}
}

func (r *PayRaiseRepository) Create(ctx context.Context, row *payraiseDatamodel.PayRaise) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&employeeDatamodel.Employee{}).Where("id = ?", row.EmployeeID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return payraise.ErrEmployeeNotFound
		}
		return tx.Create(row).Error
	})
}

func (r *PayRaiseRepository) ListAll(ctx context.Context) ([]*payraiseDatamodel.Listing, error) {
	var rows []*payraiseDatamodel.Listing
	err := r.listing(ctx).Scan(&rows).Error
	return rows, err
}

func (r *PayRaiseRepository) ListByCreator(ctx context.Context, userID int64) ([]*payraiseDatamodel.Listing, error) {
	var rows []*payraiseDatamodel.Listing
	err := r.listing(ctx).Where("pr.created_by = ?", userID).Scan(&rows).Error
	return rows, err
}

func (r *PayRaiseRepository) listing(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("pay_raises AS pr").
		Select("pr.id, pr.employee_id, pr.created_by, pr.amount_ciphertext, pr.effective_date_ciphertext, pr.comments_ciphertext, pr.created_at, e.name AS employee_name").
		Joins("LEFT JOIN employees e ON e.id = pr.employee_id").
		Order("pr.created_at DESC").
		Order("pr.id DESC")
}
