package employee

import (
	"context"

	employeeerrors "go-selfservice/internal/employee/errors"
	"go-selfservice/internal/shared/contextutil"
	"go-selfservice/internal/shared/fieldcrypt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	GetMe(ctx context.Context, employeeID string) (EmployeeResponse, error)
}

type service struct {
	repo   Repository
	crypt  fieldcrypt.Decrypter
	logger *zap.Logger
}

func NewService(repo Repository, crypt fieldcrypt.Decrypter, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		repo:   repo,
		crypt:  crypt,
		logger: l,
	}
}

func (s *service) GetMe(ctx context.Context, employeeID string) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("get employee requested",
		zap.String("request_id", rid),
		zap.String("employee_id", employeeID),
	)

	id, err := uuid.Parse(employeeID)
	if err != nil {
		s.logger.Warn("get employee invalid id", zap.String("employee_id", employeeID))
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		mapped := MapRepositoryError(err)
		s.logger.Warn("get employee failed", zap.String("employee_id", employeeID), zap.Error(err))
		return EmployeeResponse{}, mapped
	}

	summary, err := Summarize(e, s.crypt)
	if err != nil {
		s.logger.Error("get employee decrypt failed", zap.String("employee_id", employeeID), zap.Error(err))
		return EmployeeResponse{}, err
	}

	return mapToResponse(e, summary), nil
}
