package employee

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/payraise-portal/internal"
	"github.com/frahmantamala/payraise-portal/internal/access"
	employeeDatamodel "github.com/frahmantamala/payraise-portal/internal/core/datamodel/employee"
	"github.com/frahmantamala/payraise-portal/internal/session"
)

type RepositoryAPI interface {
	Create(ctx context.Context, e *employeeDatamodel.Employee) error
	List(ctx context.Context) ([]*employeeDatamodel.Employee, error)
	GetByID(ctx context.Context, id int64) (*employeeDatamodel.Employee, error)
}

type Service struct {
	repo         RepositoryAPI
	policy       access.Checker
	logger       *slog.Logger
	queryTimeout time.Duration
}

func NewService(repo RepositoryAPI, policy access.Checker, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		policy: policy,
		logger: logger,
	}
}

// WithQueryTimeout bounds every repository call. Zero means internal.DefaultQueryTimeout.
func (s *Service) WithQueryTimeout(d time.Duration) *Service {
	s.queryTimeout = d
	return s
}

func (s *Service) AddEmployee(ctx context.Context, caller session.Context, dto CreateEmployeeDTO) (*Employee, error) {
	if err := caller.Authorize(s.policy, access.AddEmployee); err != nil {
		return nil, err
	}

	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row := &employeeDatamodel.Employee{
		Name:          dto.Name,
		Email:         dto.Email,
		Department:    dto.Department,
		SecurityLevel: dto.SecurityLevel,
	}

	ctx, cancel := internal.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create employee", "error", err, "user_id", caller.UserID)
		return nil, internal.NewStorageError(err)
	}

	s.logger.Info("employee created", "employee_id", row.ID, "user_id", caller.UserID)
	return FromDataModel(row), nil
}

// ListEmployees returns every employee ordered by name.
func (s *Service) ListEmployees(ctx context.Context, caller session.Context) ([]*Employee, error) {
	if err := caller.Authorize(s.policy, access.ListEmployees); err != nil {
		return nil, err
	}

	ctx, cancel := internal.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	rows, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list employees", "error", err)
		return nil, internal.NewStorageError(err)
	}

	employees := make([]*Employee, 0, len(rows))
	for _, row := range rows {
		employees = append(employees, FromDataModel(row))
	}
	return employees, nil
}
