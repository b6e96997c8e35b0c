package payraise

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/frahmantamala/payraise-portal/internal"
	"github.com/frahmantamala/payraise-portal/internal/access"
	payraiseDatamodel "github.com/frahmantamala/payraise-portal/internal/core/datamodel/payraise"
	"github.com/frahmantamala/payraise-portal/internal/session"
)

// Cipher seals and opens the sensitive fields of a pay raise.
type Cipher interface {
	EncryptString(plaintext string) ([]byte, error)
	DecryptString(sealed []byte) (string, error)
}

type RepositoryAPI interface {
	// Create inserts the row after confirming its employee exists, inside
	// one transaction. It returns ErrEmployeeNotFound otherwise.
	Create(ctx context.Context, row *payraiseDatamodel.PayRaise) error
	ListAll(ctx context.Context) ([]*payraiseDatamodel.Listing, error)
	ListByCreator(ctx context.Context, userID int64) ([]*payraiseDatamodel.Listing, error)
}

type Service struct {
	repo         RepositoryAPI
	cipher       Cipher
	policy       access.Checker
	logger       *slog.Logger
	queryTimeout time.Duration
}

func NewService(repo RepositoryAPI, cipher Cipher, policy access.Checker, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		cipher: cipher,
		policy: policy,
		logger: logger,
	}
}

// WithQueryTimeout bounds every repository call. Zero means internal.DefaultQueryTimeout.
func (s *Service) WithQueryTimeout(d time.Duration) *Service {
	s.queryTimeout = d
	return s
}

// AddPayRaise encrypts the amount, effective date and comments and stores the
// record on behalf of caller. It returns the new record id.
func (s *Service) AddPayRaise(ctx context.Context, caller session.Context, dto CreatePayRaiseDTO) (int64, error) {
	if err := caller.Authorize(s.policy, access.AddPayRaise); err != nil {
		return 0, err
	}

	dto.Normalize()
	if dto.EmployeeID == nil && caller.EmployeeID != nil {
		id := *caller.EmployeeID
		dto.EmployeeID = &id
	}
	if err := dto.Validate(); err != nil {
		return 0, err
	}
	if dto.EmployeeID == nil {
		return 0, internal.NewValidationFieldError("employee_id", "employee_id is required", internal.ErrCodeRequired)
	}

	amount, err := ParseAmount(string(dto.Amount))
	if err != nil {
		return 0, internal.NewValidationFieldError("amount", err.Error(), internal.ErrCodeInvalidAmount)
	}

	row := &payraiseDatamodel.PayRaise{
		EmployeeID: *dto.EmployeeID,
		CreatedBy:  caller.UserID,
	}
	if row.AmountCiphertext, err = s.cipher.EncryptString(amount.String()); err != nil {
		return 0, internal.NewInternalError("could not encrypt record", err)
	}
	if row.EffectiveDateCiphertext, err = s.cipher.EncryptString(dto.EffectiveDate); err != nil {
		return 0, internal.NewInternalError("could not encrypt record", err)
	}
	if dto.Comments != "" {
		if row.CommentsCiphertext, err = s.cipher.EncryptString(dto.Comments); err != nil {
			return 0, internal.NewInternalError("could not encrypt record", err)
		}
	}

	ctx, cancel := internal.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	if err := s.repo.Create(ctx, row); err != nil {
		if errors.Is(err, ErrEmployeeNotFound) {
			return 0, internal.NewValidationFieldError("employee_id", "employee does not exist", internal.ErrCodeValidationFailed)
		}
		s.logger.Error("failed to create pay raise", "error", err, "user_id", caller.UserID)
		return 0, internal.NewStorageError(err)
	}

	s.logger.Info("pay raise created", "pay_raise_id", row.ID, "employee_id", row.EmployeeID, "user_id", caller.UserID)
	return row.ID, nil
}

// ListPayRaises returns pay raises newest first. scope is access.ListAllPayRaises
// for every record or access.ListOwnPayRaises for those the caller created.
// A record that fails to decrypt is returned with its IntegrityError set.
func (s *Service) ListPayRaises(ctx context.Context, caller session.Context, scope access.Operation) ([]*Record, error) {
	if scope != access.ListAllPayRaises && scope != access.ListOwnPayRaises {
		return nil, internal.ErrNotFound
	}
	if err := caller.Authorize(s.policy, scope); err != nil {
		return nil, err
	}

	ctx, cancel := internal.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	var (
		rows []*payraiseDatamodel.Listing
		err  error
	)
	if scope == access.ListAllPayRaises {
		rows, err = s.repo.ListAll(ctx)
	} else {
		rows, err = s.repo.ListByCreator(ctx, caller.UserID)
	}
	if err != nil {
		s.logger.Error("failed to list pay raises", "error", err, "scope", scope)
		return nil, internal.NewStorageError(err)
	}

	records := make([]*Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, s.open(row))
	}
	return records, nil
}

func (s *Service) open(row *payraiseDatamodel.Listing) *Record {
	rec := &Record{
		ID:           row.ID,
		EmployeeID:   row.EmployeeID,
		EmployeeName: row.EmployeeName,
		CreatedBy:    row.CreatedBy,
		CreatedAt:    row.CreatedAt,
	}

	fail := func(err error) *Record {
		s.logger.Warn("pay raise failed integrity check", "pay_raise_id", row.ID)
		rec.IntegrityError = internal.NewIntegrityError(row.ID, err)
		return rec
	}

	plain, err := s.cipher.DecryptString(row.AmountCiphertext)
	if err != nil {
		return fail(err)
	}
	amount, err := ParseAmount(plain)
	if err != nil {
		return fail(err)
	}

	date, err := s.cipher.DecryptString(row.EffectiveDateCiphertext)
	if err != nil {
		return fail(err)
	}

	var comments string
	if len(row.CommentsCiphertext) > 0 {
		if comments, err = s.cipher.DecryptString(row.CommentsCiphertext); err != nil {
			return fail(err)
		}
	}

	rec.Amount = amount.String()
	rec.AmountDisplay = amount.Display()
	rec.EffectiveDate = date
	rec.Comments = comments
	return rec
}
