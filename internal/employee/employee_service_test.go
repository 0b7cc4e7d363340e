package employee_test

import (
	"context"
	"errors"
	"testing"

	"go-selfservice/internal/employee"
	employeeerrors "go-selfservice/internal/employee/errors"
	"go-selfservice/internal/employee/mock"
	"go-selfservice/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

// plainCrypt strips an "enc:" prefix so fixtures stay readable.
type plainCrypt struct{}

func (plainCrypt) Decrypt(s string) (string, error) {
	if len(s) < 4 || s[:4] != "enc:" {
		return "", errors.New("not encrypted")
	}
	return s[4:], nil
}

func TestEmployeeService_GetMe(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	id := uuid.New()
	supervisorID := uuid.New()

	t.Run("success", func(t *testing.T) {
		repo := mock.NewMockRepository(ctrl)
		svc := employee.NewService(repo, plainCrypt{})

		repo.EXPECT().FindByID(ctx, id).Return(&employee.Employee{
			ID:               id,
			Email:            "ana@example.com",
			Name:             "enc:Ana",
			Surname:          "enc:Horvat",
			Role:             "enc:Developer",
			VacationDaysLeft: 12,
			SupervisorID:     &supervisorID,
		}, nil)

		resp, err := svc.GetMe(ctx, id.String())

		assert.NoError(t, err)
		assert.Equal(t, "Ana", resp.Name)
		assert.Equal(t, "Horvat", resp.Surname)
		assert.Equal(t, "Developer", resp.Role)
		assert.Equal(t, 12, resp.VacationDaysLeft)
		assert.Equal(t, supervisorID.String(), *resp.SupervisorID)
		assert.Nil(t, resp.HRID)
	})

	t.Run("negative invalid id", func(t *testing.T) {
		repo := mock.NewMockRepository(ctrl)
		svc := employee.NewService(repo, plainCrypt{})

		_, err := svc.GetMe(ctx, "not-a-uuid")

		assert.ErrorIs(t, err, employeeerrors.ErrInvalidEmployeeID)
	})

	t.Run("negative not found", func(t *testing.T) {
		repo := mock.NewMockRepository(ctrl)
		svc := employee.NewService(repo, plainCrypt{})

		repo.EXPECT().FindByID(ctx, id).Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.GetMe(ctx, id.String())

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})

	t.Run("negative persistence failure", func(t *testing.T) {
		repo := mock.NewMockRepository(ctrl)
		svc := employee.NewService(repo, plainCrypt{})

		repo.EXPECT().FindByID(ctx, id).Return(nil, errors.New("connection reset"))

		_, err := svc.GetMe(ctx, id.String())

		assert.Equal(t, apperror.KindPersistence, apperror.KindOf(err))
	})

	t.Run("negative decrypt failure", func(t *testing.T) {
		repo := mock.NewMockRepository(ctrl)
		svc := employee.NewService(repo, plainCrypt{})

		repo.EXPECT().FindByID(ctx, id).Return(&employee.Employee{ID: id, Name: "garbage"}, nil)

		_, err := svc.GetMe(ctx, id.String())

		assert.ErrorIs(t, err, employeeerrors.ErrDecryptEmployee)
	})
}

func TestEmployee_Eligible(t *testing.T) {
	var nilEmployee *employee.Employee
	assert.False(t, nilEmployee.Eligible())
	assert.False(t, (&employee.Employee{CurrentEmployee: true}).Eligible())
	assert.False(t, (&employee.Employee{EmailVerified: true}).Eligible())
	assert.True(t, (&employee.Employee{CurrentEmployee: true, EmailVerified: true}).Eligible())
}
