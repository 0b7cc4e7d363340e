package leave_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"go-selfservice/internal/employee"
	employeemock "go-selfservice/internal/employee/mock"
	"go-selfservice/internal/leave"
	leaveerrors "go-selfservice/internal/leave/errors"
	"go-selfservice/internal/notification"
	notificationmock "go-selfservice/internal/notification/mock"
	"go-selfservice/internal/shared/apperror"
	"go-selfservice/internal/shared/optional"
	"go-selfservice/internal/shared/uow"
	signaturemock "go-selfservice/internal/signature/mock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

type fakeLeaveRepository struct {
	createFn              func(ctx context.Context, lr *leave.LeaveRequest) error
	findByIDForUpdateFn   func(ctx context.Context, id uuid.UUID) (*leave.LeaveRequest, error)
	updateFn              func(ctx context.Context, id uuid.UUID, columns map[string]any) error
	countFn               func(ctx context.Context, f leave.ListFilter) (int64, error)
	listFn                func(ctx context.Context, f leave.ListFilter) ([]leave.LeaveRequest, error)
	createSignatureFileFn func(ctx context.Context, sf *leave.SignatureFile) error
}

func (f *fakeLeaveRepository) WithTx(tx *gorm.DB) leave.Repository {
	return f
}

func (f *fakeLeaveRepository) Create(ctx context.Context, lr *leave.LeaveRequest) error {
	if f.createFn != nil {
		return f.createFn(ctx, lr)
	}
	return nil
}

func (f *fakeLeaveRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*leave.LeaveRequest, error) {
	if f.findByIDForUpdateFn != nil {
		return f.findByIDForUpdateFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLeaveRepository) Update(ctx context.Context, id uuid.UUID, columns map[string]any) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, id, columns)
	}
	return nil
}

func (f *fakeLeaveRepository) Count(ctx context.Context, filter leave.ListFilter) (int64, error) {
	if f.countFn != nil {
		return f.countFn(ctx, filter)
	}
	return 0, nil
}

func (f *fakeLeaveRepository) List(ctx context.Context, filter leave.ListFilter) ([]leave.LeaveRequest, error) {
	if f.listFn != nil {
		return f.listFn(ctx, filter)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) CreateSignatureFile(ctx context.Context, sf *leave.SignatureFile) error {
	if f.createSignatureFileFn != nil {
		return f.createSignatureFileFn(ctx, sf)
	}
	return nil
}

// plainCrypt strips an "enc:" prefix so fixtures stay readable.
type plainCrypt struct{}

func (plainCrypt) Decrypt(s string) (string, error) {
	if !strings.HasPrefix(s, "enc:") {
		return "", errors.New("not encrypted")
	}
	return strings.TrimPrefix(s, "enc:"), nil
}

type serviceDeps struct {
	svc       leave.Service
	repo      *fakeLeaveRepository
	employees *employeemock.MockRepository
	storage   *signaturemock.MockStorage
	notifier  *notificationmock.MockNotifier
	sql       sqlmock.Sqlmock
}

func setupLeaveService(t *testing.T) serviceDeps {
	t.Helper()
	ctrl := gomock.NewController(t)

	sqlDB, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{SkipDefaultTransaction: true})
	assert.NoError(t, err)

	d := serviceDeps{
		repo:      &fakeLeaveRepository{},
		employees: employeemock.NewMockRepository(ctrl),
		storage:   signaturemock.NewMockStorage(ctrl),
		notifier:  notificationmock.NewMockNotifier(ctrl),
		sql:       mock,
	}
	d.employees.EXPECT().WithTx(gomock.Any()).Return(d.employees).AnyTimes()
	d.svc = leave.NewService(uow.New(db), d.repo, d.employees, d.storage, d.notifier, plainCrypt{})
	return d
}

type people struct {
	initiator, substitute, supervisor, hr *employee.Employee
}

func newPeople() people {
	eligible := func(email string) *employee.Employee {
		return &employee.Employee{
			ID:              uuid.New(),
			Email:           email,
			Name:            "enc:" + strings.Split(email, "@")[0],
			Surname:         "enc:Doe",
			Role:            "enc:Staff",
			CurrentEmployee: true,
			EmailVerified:   true,
		}
	}
	p := people{
		initiator:  eligible("ivy@example.com"),
		substitute: eligible("sam@example.com"),
		supervisor: eligible("sue@example.com"),
		hr:         eligible("hal@example.com"),
	}
	p.initiator.VacationDaysLeft = 10
	p.initiator.SupervisorID = &p.supervisor.ID
	p.initiator.Supervisor = p.supervisor
	p.initiator.HRID = &p.hr.ID
	p.initiator.HR = p.hr
	return p
}

func (p people) lockedInitiator() *employee.Employee {
	e := *p.initiator
	e.Supervisor, e.HR = nil, nil
	return &e
}

func createRequest(p people) leave.CreateLeaveRequest {
	return leave.CreateLeaveRequest{
		SubstituteEmail: p.substitute.Email,
		StartDate:       "2026-03-02",
		EndDate:         "2026-03-06",
		WorkDays:        5,
		LeaveType:       leave.LeaveTypeVacation,
	}
}

func TestLeaveService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success deducts vacation days", func(t *testing.T) {
		d := setupLeaveService(t)
		p := newPeople()

		d.employees.EXPECT().FindByEmail(gomock.Any(), p.substitute.Email).Return(p.substitute, nil)
		d.employees.EXPECT().FindByID(gomock.Any(), p.initiator.ID).Return(p.initiator, nil)
		d.employees.EXPECT().FindByIDForUpdate(gomock.Any(), p.initiator.ID).Return(p.lockedInitiator(), nil)
		d.employees.EXPECT().UpdateVacationDaysLeft(gomock.Any(), p.initiator.ID, 5).Return(nil)
		d.notifier.EXPECT().
			SendTemplatedEmail(gomock.Any(), p.initiator.Email, notification.TemplateSignatureRequested, gomock.Any()).
			Return(nil)

		var created *leave.LeaveRequest
		d.repo.createFn = func(ctx context.Context, lr *leave.LeaveRequest) error {
			created = lr
			return nil
		}
		d.sql.ExpectBegin()
		d.sql.ExpectCommit()

		resp, err := d.svc.Create(ctx, p.initiator.ID.String(), createRequest(p))

		assert.NoError(t, err)
		assert.Equal(t, created.ID.String(), resp.ID)
		assert.Equal(t, 5, *resp.VacationDaysLeft)
		assert.Equal(t, leave.StatusAwaitingInitiator, created.Status)
		assert.Equal(t, p.substitute.ID, created.SubstituteID)
		assert.NoError(t, d.sql.ExpectationsWereMet())
	})

	t.Run("non deducting type keeps balance", func(t *testing.T) {
		d := setupLeaveService(t)
		p := newPeople()

		d.employees.EXPECT().FindByEmail(gomock.Any(), gomock.Any()).Return(p.substitute, nil)
		d.employees.EXPECT().FindByID(gomock.Any(), gomock.Any()).Return(p.initiator, nil)
		d.employees.EXPECT().FindByIDForUpdate(gomock.Any(), gomock.Any()).Return(p.lockedInitiator(), nil)
		d.notifier.EXPECT().SendTemplatedEmail(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		d.sql.ExpectBegin()
		d.sql.ExpectCommit()

		req := createRequest(p)
		req.LeaveType = leave.LeaveTypeNoPay
		req.WorkDays = 30
		resp, err := d.svc.Create(ctx, p.initiator.ID.String(), req)

		assert.NoError(t, err)
		assert.Nil(t, resp.VacationDaysLeft)
	})

	t.Run("insufficient balance rolls back", func(t *testing.T) {
		d := setupLeaveService(t)
		p := newPeople()
		p.initiator.VacationDaysLeft = 2

		d.employees.EXPECT().FindByEmail(gomock.Any(), gomock.Any()).Return(p.substitute, nil)
		d.employees.EXPECT().FindByID(gomock.Any(), gomock.Any()).Return(p.initiator, nil)
		d.employees.EXPECT().FindByIDForUpdate(gomock.Any(), gomock.Any()).Return(p.lockedInitiator(), nil)
		d.repo.createFn = func(context.Context, *leave.LeaveRequest) error {
			t.Fatal("create must not be called")
			return nil
		}
		d.sql.ExpectBegin()
		d.sql.ExpectRollback()

		_, err := d.svc.Create(ctx, p.initiator.ID.String(), createRequest(p))

		assert.ErrorIs(t, err, leaveerrors.ErrInsufficientVacationDays)
		assert.NoError(t, d.sql.ExpectationsWereMet())
	})

	t.Run("balance write failure rolls back", func(t *testing.T) {
		d := setupLeaveService(t)
		p := newPeople()

		d.employees.EXPECT().FindByEmail(gomock.Any(), gomock.Any()).Return(p.substitute, nil)
		d.employees.EXPECT().FindByID(gomock.Any(), gomock.Any()).Return(p.initiator, nil)
		d.employees.EXPECT().FindByIDForUpdate(gomock.Any(), gomock.Any()).Return(p.lockedInitiator(), nil)
		d.employees.EXPECT().UpdateVacationDaysLeft(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("conn reset"))
		d.sql.ExpectBegin()
		d.sql.ExpectRollback()

		_, err := d.svc.Create(ctx, p.initiator.ID.String(), createRequest(p))

		assert.Equal(t, apperror.KindPersistence, apperror.KindOf(err))
		assert.NoError(t, d.sql.ExpectationsWereMet())
	})

	t.Run("notification failure does not fail create", func(t *testing.T) {
		d := setupLeaveService(t)
		p := newPeople()

		d.employees.EXPECT().FindByEmail(gomock.Any(), gomock.Any()).Return(p.substitute, nil)
		d.employees.EXPECT().FindByID(gomock.Any(), gomock.Any()).Return(p.initiator, nil)
		d.employees.EXPECT().FindByIDForUpdate(gomock.Any(), gomock.Any()).Return(p.lockedInitiator(), nil)
		d.employees.EXPECT().UpdateVacationDaysLeft(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		d.notifier.EXPECT().SendTemplatedEmail(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(apperror.ErrNotification)
		d.sql.ExpectBegin()
		d.sql.ExpectCommit()

		_, err := d.svc.Create(ctx, p.initiator.ID.String(), createRequest(p))

		assert.NoError(t, err)
	})

	participantTests := []struct {
		name   string
		mutate func(p *people)
		err    error
	}{
		{"substitute not current", func(p *people) { p.substitute.CurrentEmployee = false }, leaveerrors.ErrSubstituteNotFound},
		{"substitute not verified", func(p *people) { p.substitute.EmailVerified = false }, leaveerrors.ErrSubstituteNotFound},
		{"self substitution", func(p *people) { p.substitute = p.initiator }, leaveerrors.ErrSelfSubstitution},
		{"supervisor missing", func(p *people) { p.initiator.Supervisor, p.initiator.SupervisorID = nil, nil }, leaveerrors.ErrSupervisorNotFound},
		{"supervisor left", func(p *people) { p.supervisor.CurrentEmployee = false }, leaveerrors.ErrSupervisorNotFound},
		{"hr not verified", func(p *people) { p.hr.EmailVerified = false }, leaveerrors.ErrHRNotFound},
	}
	for _, tt := range participantTests {
		t.Run(tt.name, func(t *testing.T) {
			d := setupLeaveService(t)
			p := newPeople()
			tt.mutate(&p)

			d.employees.EXPECT().FindByEmail(gomock.Any(), gomock.Any()).Return(p.substitute, nil)
			d.employees.EXPECT().FindByID(gomock.Any(), gomock.Any()).Return(p.initiator, nil)

			_, err := d.svc.Create(ctx, p.initiator.ID.String(), createRequest(p))

			assert.ErrorIs(t, err, tt.err)
			assert.NoError(t, d.sql.ExpectationsWereMet())
		})
	}

	t.Run("substitute unknown", func(t *testing.T) {
		d := setupLeaveService(t)
		p := newPeople()

		d.employees.EXPECT().FindByEmail(gomock.Any(), gomock.Any()).Return(nil, gorm.ErrRecordNotFound)
		d.employees.EXPECT().FindByID(gomock.Any(), gomock.Any()).Return(p.initiator, nil)

		_, err := d.svc.Create(ctx, p.initiator.ID.String(), createRequest(p))

		assert.ErrorIs(t, err, leaveerrors.ErrSubstituteNotFound)
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})

	t.Run("lookup failure is persistence", func(t *testing.T) {
		d := setupLeaveService(t)
		p := newPeople()

		d.employees.EXPECT().FindByEmail(gomock.Any(), gomock.Any()).Return(nil, errors.New("timeout")).AnyTimes()
		d.employees.EXPECT().FindByID(gomock.Any(), gomock.Any()).Return(p.initiator, nil).AnyTimes()

		_, err := d.svc.Create(ctx, p.initiator.ID.String(), createRequest(p))

		assert.Equal(t, apperror.KindPersistence, apperror.KindOf(err))
	})

	t.Run("invalid input", func(t *testing.T) {
		d := setupLeaveService(t)
		p := newPeople()

		req := createRequest(p)
		req.StartDate = "2026-03-09"
		_, err := d.svc.Create(ctx, p.initiator.ID.String(), req)
		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateRange)

		_, err = d.svc.Create(ctx, "nope", createRequest(p))
		assert.ErrorIs(t, err, leaveerrors.ErrInvalidEmployeeID)
	})
}

func storedRequest(p people, status leave.Status) *leave.LeaveRequest {
	return &leave.LeaveRequest{
		ID:           uuid.New(),
		InitiatorID:  p.initiator.ID,
		SubstituteID: p.substitute.ID,
		StartDate:    time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC),
		WorkDays:     5,
		LeaveType:    leave.LeaveTypeVacation,
		Status:       status,
	}
}

func TestLeaveService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("initiator shortens request", func(t *testing.T) {
		d := setupLeaveService(t)
		p := newPeople()
		p.initiator.VacationDaysLeft = 5
		lr := storedRequest(p, leave.StatusAwaitingSubstitute)

		d.repo.findByIDForUpdateFn = func(context.Context, uuid.UUID) (*leave.LeaveRequest, error) { return lr, nil }
		var columns map[string]any
		d.repo.updateFn = func(_ context.Context, id uuid.UUID, c map[string]any) error {
			assert.Equal(t, lr.ID, id)
			columns = c
			return nil
		}
		d.employees.EXPECT().FindByIDForUpdate(gomock.Any(), p.initiator.ID).Return(p.lockedInitiator(), nil)
		d.employees.EXPECT().UpdateVacationDaysLeft(gomock.Any(), p.initiator.ID, 7).Return(nil)
		d.sql.ExpectBegin()
		d.sql.ExpectCommit()

		resp, err := d.svc.Update(ctx, p.initiator.ID.String(), lr.ID.String(), leave.UpdateLeaveRequest{
			WorkDays: optional.Of(3),
		})

		assert.NoError(t, err)
		assert.Equal(t, 7, *resp.VacationDaysLeft)
		assert.Equal(t, string(leave.StatusAwaitingSubstitute), resp.Status)
		assert.Equal(t, 3, columns["work_days"])
		assert.Contains(t, columns, "modified_at")
		assert.NoError(t, d.sql.ExpectationsWereMet())
	})

	t.Run("supervisor denies and initiator is told", func(t *testing.T) {
		d := setupLeaveService(t)
		p := newPeople()
		lr := storedRequest(p, leave.StatusAwaitingSupervisor)

		d.repo.findByIDForUpdateFn = func(context.Context, uuid.UUID) (*leave.LeaveRequest, error) { return lr, nil }
		d.employees.EXPECT().FindByIDForUpdate(gomock.Any(), p.initiator.ID).Return(p.lockedInitiator(), nil)
		d.notifier.EXPECT().
			SendTemplatedEmail(gomock.Any(), p.initiator.Email, notification.TemplateDenied, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, _ notification.Template, subs map[string]string) error {
				assert.Equal(t, "overlaps release", subs[notification.SubRejectReason])
				assert.Equal(t, lr.ID.String(), subs[notification.SubLeaveRequestID])
				return nil
			})
		d.sql.ExpectBegin()
		d.sql.ExpectCommit()

		resp, err := d.svc.Update(ctx, p.supervisor.ID.String(), lr.ID.String(), leave.UpdateLeaveRequest{
			Status:       optional.Of(leave.StatusDenied),
			RejectReason: optional.Of("overlaps release"),
		})

		assert.NoError(t, err)
		assert.Equal(t, string(leave.StatusDenied), resp.Status)
		assert.Nil(t, resp.VacationDaysLeft)
	})

	t.Run("hr approves", func(t *testing.T) {
		d := setupLeaveService(t)
		p := newPeople()
		lr := storedRequest(p, leave.StatusAwaitingHR)

		d.repo.findByIDForUpdateFn = func(context.Context, uuid.UUID) (*leave.LeaveRequest, error) { return lr, nil }
		d.employees.EXPECT().FindByIDForUpdate(gomock.Any(), gomock.Any()).Return(p.lockedInitiator(), nil)
		d.notifier.EXPECT().
			SendTemplatedEmail(gomock.Any(), p.initiator.Email, notification.TemplateApproved, gomock.Any()).
			Return(nil)
		d.sql.ExpectBegin()
		d.sql.ExpectCommit()

		resp, err := d.svc.Update(ctx, p.hr.ID.String(), lr.ID.String(), leave.UpdateLeaveRequest{
			Status: optional.Of(leave.StatusApproved),
		})

		assert.NoError(t, err)
		assert.Equal(t, string(leave.StatusApproved), resp.Status)
	})

	t.Run("forbidden rolls back without writes", func(t *testing.T) {
		d := setupLeaveService(t)
		p := newPeople()
		lr := storedRequest(p, leave.StatusApproved)

		d.repo.findByIDForUpdateFn = func(context.Context, uuid.UUID) (*leave.LeaveRequest, error) { return lr, nil }
		d.repo.updateFn = func(context.Context, uuid.UUID, map[string]any) error {
			t.Fatal("update must not be called")
			return nil
		}
		d.employees.EXPECT().FindByIDForUpdate(gomock.Any(), gomock.Any()).Return(p.lockedInitiator(), nil)
		d.sql.ExpectBegin()
		d.sql.ExpectRollback()

		_, err := d.svc.Update(ctx, p.hr.ID.String(), lr.ID.String(), leave.UpdateLeaveRequest{
			Status:       optional.Of(leave.StatusDenied),
			RejectReason: optional.Of("late"),
		})

		assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
		assert.NoError(t, d.sql.ExpectationsWereMet())
	})

	t.Run("unknown keys are forbidden for the initiator", func(t *testing.T) {
		d := setupLeaveService(t)
		p := newPeople()
		lr := storedRequest(p, leave.StatusAwaitingSubstitute)

		d.repo.findByIDForUpdateFn = func(context.Context, uuid.UUID) (*leave.LeaveRequest, error) { return lr, nil }
		d.repo.updateFn = func(context.Context, uuid.UUID, map[string]any) error {
			t.Fatal("update must not be called")
			return nil
		}
		d.employees.EXPECT().FindByIDForUpdate(gomock.Any(), p.initiator.ID).Return(p.lockedInitiator(), nil)
		d.sql.ExpectBegin()
		d.sql.ExpectRollback()

		var req leave.UpdateLeaveRequest
		body := `{"workDays":3,"substituteId":"` + uuid.NewString() + `","initiatorId":"x"}`
		assert.NoError(t, json.Unmarshal([]byte(body), &req))

		_, err := d.svc.Update(ctx, p.initiator.ID.String(), lr.ID.String(), req)

		assert.ErrorIs(t, err, leaveerrors.ErrFieldsForbidden)
		var appErr *apperror.AppError
		if assert.ErrorAs(t, err, &appErr) {
			assert.Contains(t, appErr.Detail, "initiatorId, substituteId")
		}
		assert.NoError(t, d.sql.ExpectationsWereMet())
	})

	t.Run("outsider is forbidden in every open status", func(t *testing.T) {
		for _, status := range []leave.Status{
			leave.StatusAwaitingSubstitute, leave.StatusAwaitingSupervisor, leave.StatusAwaitingHR,
		} {
			t.Run(string(status), func(t *testing.T) {
				d := setupLeaveService(t)
				p := newPeople()
				lr := storedRequest(p, status)

				d.repo.findByIDForUpdateFn = func(context.Context, uuid.UUID) (*leave.LeaveRequest, error) { return lr, nil }
				d.repo.updateFn = func(context.Context, uuid.UUID, map[string]any) error {
					t.Fatal("update must not be called")
					return nil
				}
				d.employees.EXPECT().FindByIDForUpdate(gomock.Any(), p.initiator.ID).Return(p.lockedInitiator(), nil)
				d.sql.ExpectBegin()
				d.sql.ExpectRollback()

				_, err := d.svc.Update(ctx, uuid.NewString(), lr.ID.String(), leave.UpdateLeaveRequest{
					Status:       optional.Of(leave.StatusDenied),
					RejectReason: optional.Of("no"),
				})

				assert.ErrorIs(t, err, leaveerrors.ErrUpdateForbidden)
				assert.NoError(t, d.sql.ExpectationsWereMet())
			})
		}
	})

	t.Run("request not found", func(t *testing.T) {
		d := setupLeaveService(t)
		p := newPeople()
		d.sql.ExpectBegin()
		d.sql.ExpectRollback()

		_, err := d.svc.Update(ctx, p.hr.ID.String(), uuid.NewString(), leave.UpdateLeaveRequest{
			Status: optional.Of(leave.StatusApproved),
		})

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveRequestNotFound)
	})

	t.Run("invalid leave request id", func(t *testing.T) {
		d := setupLeaveService(t)

		_, err := d.svc.Update(ctx, uuid.NewString(), "nope", leave.UpdateLeaveRequest{})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidLeaveRequestID)
	})
}

func TestLeaveService_UploadSignature(t *testing.T) {
	ctx := context.Background()

	t.Run("substitute signs and supervisor is asked", func(t *testing.T) {
		d := setupLeaveService(t)
		p := newPeople()
		lr := storedRequest(p, leave.StatusAwaitingSubstitute)

		d.repo.findByIDForUpdateFn = func(context.Context, uuid.UUID) (*leave.LeaveRequest, error) { return lr, nil }
		var sf *leave.SignatureFile
		d.repo.createSignatureFileFn = func(_ context.Context, f *leave.SignatureFile) error {
			sf = f
			return nil
		}
		d.repo.updateFn = func(_ context.Context, _ uuid.UUID, c map[string]any) error {
			assert.Equal(t, leave.StatusAwaitingSupervisor, c["status"])
			return nil
		}
		d.employees.EXPECT().FindByID(gomock.Any(), p.initiator.ID).Return(p.initiator, nil)
		d.storage.EXPECT().Put(gomock.Any(), gomock.Any(), pngBytes).Return(nil)
		d.notifier.EXPECT().
			SendTemplatedEmail(gomock.Any(), p.supervisor.Email, notification.TemplateSignatureRequested, gomock.Any()).
			Return(nil)
		d.sql.ExpectBegin()
		d.sql.ExpectCommit()

		resp, err := d.svc.UploadSignature(ctx, p.substitute.ID.String(), lr.ID.String(), pngBytes)

		assert.NoError(t, err)
		assert.Equal(t, sf.ID.String(), resp.ID)
		assert.Equal(t, string(leave.SignatureOwnerSubstitute), resp.Owner)
		assert.Equal(t, string(leave.StatusAwaitingSupervisor), resp.Status)
		assert.NoError(t, d.sql.ExpectationsWereMet())
	})

	t.Run("initiator signs and substitute is asked", func(t *testing.T) {
		d := setupLeaveService(t)
		p := newPeople()
		lr := storedRequest(p, leave.StatusAwaitingInitiator)

		d.repo.findByIDForUpdateFn = func(context.Context, uuid.UUID) (*leave.LeaveRequest, error) { return lr, nil }
		d.employees.EXPECT().FindByID(gomock.Any(), p.initiator.ID).Return(p.initiator, nil)
		d.employees.EXPECT().FindByID(gomock.Any(), p.substitute.ID).Return(p.substitute, nil)
		d.storage.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		d.notifier.EXPECT().
			SendTemplatedEmail(gomock.Any(), p.substitute.Email, notification.TemplateSignatureRequested, gomock.Any()).
			Return(nil)
		d.sql.ExpectBegin()
		d.sql.ExpectCommit()

		resp, err := d.svc.UploadSignature(ctx, p.initiator.ID.String(), lr.ID.String(), pngBytes)

		assert.NoError(t, err)
		assert.Equal(t, string(leave.StatusAwaitingSubstitute), resp.Status)
	})

	t.Run("storage failure rolls back", func(t *testing.T) {
		d := setupLeaveService(t)
		p := newPeople()
		lr := storedRequest(p, leave.StatusAwaitingSupervisor)

		d.repo.findByIDForUpdateFn = func(context.Context, uuid.UUID) (*leave.LeaveRequest, error) { return lr, nil }
		d.employees.EXPECT().FindByID(gomock.Any(), gomock.Any()).Return(p.initiator, nil)
		d.storage.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("disk full"))
		d.sql.ExpectBegin()
		d.sql.ExpectRollback()

		_, err := d.svc.UploadSignature(ctx, p.supervisor.ID.String(), lr.ID.String(), pngBytes)

		assert.Equal(t, apperror.KindPersistence, apperror.KindOf(err))
		assert.NoError(t, d.sql.ExpectationsWereMet())
	})

	t.Run("wrong signer", func(t *testing.T) {
		d := setupLeaveService(t)
		p := newPeople()
		lr := storedRequest(p, leave.StatusAwaitingSupervisor)

		d.repo.findByIDForUpdateFn = func(context.Context, uuid.UUID) (*leave.LeaveRequest, error) { return lr, nil }
		d.employees.EXPECT().FindByID(gomock.Any(), gomock.Any()).Return(p.initiator, nil)
		d.sql.ExpectBegin()
		d.sql.ExpectRollback()

		_, err := d.svc.UploadSignature(ctx, p.substitute.ID.String(), lr.ID.String(), pngBytes)

		assert.ErrorIs(t, err, leaveerrors.ErrSignatureForbidden)
	})

	t.Run("not a png", func(t *testing.T) {
		d := setupLeaveService(t)
		p := newPeople()

		_, err := d.svc.UploadSignature(ctx, p.initiator.ID.String(), uuid.NewString(), []byte("GIF89a......"))
		assert.ErrorIs(t, err, leaveerrors.ErrInvalidSignatureFile)

		_, err = d.svc.UploadSignature(ctx, p.initiator.ID.String(), uuid.NewString(), nil)
		assert.ErrorIs(t, err, leaveerrors.ErrInvalidSignatureFile)
	})
}

func TestLeaveService_Lists(t *testing.T) {
	ctx := context.Background()

	t.Run("approval list includes initiators and substitutes once", func(t *testing.T) {
		d := setupLeaveService(t)
		p := newPeople()
		a := *storedRequest(p, leave.StatusAwaitingSubstitute)
		a.Initiator, a.Substitute = p.initiator, p.substitute
		b := *storedRequest(p, leave.StatusAwaitingHR)
		b.Initiator, b.Substitute = p.initiator, p.substitute

		var seen leave.ListFilter
		d.repo.countFn = func(_ context.Context, f leave.ListFilter) (int64, error) { return 7, nil }
		d.repo.listFn = func(_ context.Context, f leave.ListFilter) ([]leave.LeaveRequest, error) {
			seen = f
			return []leave.LeaveRequest{a, b}, nil
		}

		res, err := d.svc.ListApproval(ctx, p.supervisor.ID.String(), leave.ListQuery{
			Statuses:   []leave.Status{leave.StatusAwaitingSubstitute, leave.StatusAwaitingHR},
			PageNumber: ptr(1),
			PageSize:   ptr(2),
		})

		assert.NoError(t, err)
		assert.Equal(t, int64(7), res.Total)
		assert.Len(t, res.Items, 2)
		assert.Equal(t, p.supervisor.ID.String(), *res.Items[0].Relationships.Supervisor)
		assert.Len(t, res.Included, 2)
		assert.Equal(t, "ivy", res.Included[0].Name)
		assert.Equal(t, "sam", res.Included[1].Name)
		assert.Equal(t, leave.ScopeApproval, seen.Scope)
		assert.Equal(t, 2, seen.Offset)
		assert.Equal(t, 2, seen.Limit)
	})

	t.Run("personal list without pagination", func(t *testing.T) {
		d := setupLeaveService(t)
		p := newPeople()
		a := *storedRequest(p, leave.StatusDenied)
		a.Initiator, a.Substitute = p.initiator, p.substitute

		var seen leave.ListFilter
		d.repo.countFn = func(_ context.Context, f leave.ListFilter) (int64, error) { return 1, nil }
		d.repo.listFn = func(_ context.Context, f leave.ListFilter) ([]leave.LeaveRequest, error) {
			seen = f
			return []leave.LeaveRequest{a}, nil
		}

		res, err := d.svc.ListPersonal(ctx, p.initiator.ID.String(), leave.ListQuery{PageNumber: ptr(3)})

		assert.NoError(t, err)
		assert.Len(t, res.Included, 1)
		assert.Equal(t, "sam", res.Included[0].Name)
		assert.Equal(t, leave.ScopePersonal, seen.Scope)
		assert.Equal(t, 0, seen.Limit)
	})

	t.Run("repository failure", func(t *testing.T) {
		d := setupLeaveService(t)
		p := newPeople()
		d.repo.countFn = func(context.Context, leave.ListFilter) (int64, error) { return 0, errors.New("boom") }

		_, err := d.svc.ListPersonal(ctx, p.initiator.ID.String(), leave.ListQuery{})

		assert.Equal(t, apperror.KindPersistence, apperror.KindOf(err))
	})

	t.Run("pagination bounds", func(t *testing.T) {
		cases := []struct {
			name      string
			number    int
			size      int
			parameter string
		}{
			{"page size above maximum", 0, leave.MaxPageSize + 1, "page[size]"},
			{"offset overflow", 1 << 62, 4, "page[number]"},
			{"negative page number", -1, 10, "page[number]"},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				d := setupLeaveService(t)
				p := newPeople()
				d.repo.countFn = func(context.Context, leave.ListFilter) (int64, error) {
					t.Fatal("count must not be called")
					return 0, nil
				}
				d.repo.listFn = func(context.Context, leave.ListFilter) ([]leave.LeaveRequest, error) {
					t.Fatal("list must not be called")
					return nil, nil
				}

				_, err := d.svc.ListPersonal(ctx, p.initiator.ID.String(), leave.ListQuery{
					PageNumber: ptr(tc.number),
					PageSize:   ptr(tc.size),
				})

				assert.ErrorIs(t, err, leaveerrors.ErrInvalidPagination)
				var appErr *apperror.AppError
				if assert.ErrorAs(t, err, &appErr) && assert.NotNil(t, appErr.Source) {
					assert.Equal(t, tc.parameter, appErr.Source.Parameter)
				}
			})
		}
	})

	t.Run("largest page size is accepted", func(t *testing.T) {
		d := setupLeaveService(t)
		p := newPeople()
		var seen leave.ListFilter
		d.repo.listFn = func(_ context.Context, f leave.ListFilter) ([]leave.LeaveRequest, error) {
			seen = f
			return nil, nil
		}

		_, err := d.svc.ListPersonal(ctx, p.initiator.ID.String(), leave.ListQuery{
			PageNumber: ptr(2),
			PageSize:   ptr(leave.MaxPageSize),
		})

		assert.NoError(t, err)
		assert.Equal(t, 2*leave.MaxPageSize, seen.Offset)
	})

	t.Run("invalid status filter", func(t *testing.T) {
		d := setupLeaveService(t)
		p := newPeople()

		_, err := d.svc.ListPersonal(ctx, p.initiator.ID.String(), leave.ListQuery{Statuses: []leave.Status{"OPEN"}})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidStatusFilter)
	})
}
