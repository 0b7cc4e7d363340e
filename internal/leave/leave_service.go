package leave

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go-selfservice/internal/employee"
	leaveerrors "go-selfservice/internal/leave/errors"
	"go-selfservice/internal/notification"
	"go-selfservice/internal/shared/apperror"
	"go-selfservice/internal/shared/contextutil"
	"go-selfservice/internal/shared/fieldcrypt"
	"go-selfservice/internal/shared/uow"
	"go-selfservice/internal/signature"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// MaxPageSize bounds page[size] on both lists.
const MaxPageSize = 100

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	ListApproval(ctx context.Context, employeeID string, q ListQuery) (ListResult, error)
	ListPersonal(ctx context.Context, employeeID string, q ListQuery) (ListResult, error)
	Create(ctx context.Context, employeeID string, req CreateLeaveRequest) (CreateLeaveResponse, error)
	Update(ctx context.Context, employeeID, leaveRequestID string, req UpdateLeaveRequest) (UpdateLeaveResponse, error)
	UploadSignature(ctx context.Context, employeeID, leaveRequestID string, file []byte) (SignatureResponse, error)
}

type service struct {
	uow       uow.UnitOfWork
	repo      Repository
	employees employee.Repository
	storage   signature.Storage
	notifier  notification.Notifier
	crypt     fieldcrypt.Decrypter
	now       func() time.Time
	logger    *zap.Logger
}

func NewService(
	unitOfWork uow.UnitOfWork,
	repo Repository,
	employees employee.Repository,
	storage signature.Storage,
	notifier notification.Notifier,
	crypt fieldcrypt.Decrypter,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		uow:       unitOfWork,
		repo:      repo,
		employees: employees,
		storage:   storage,
		notifier:  notifier,
		crypt:     crypt,
		now:       func() time.Time { return time.Now().UTC() },
		logger:    l,
	}
}

func (s *service) ListApproval(ctx context.Context, employeeID string, q ListQuery) (ListResult, error) {
	return s.list(ctx, ScopeApproval, employeeID, q)
}

func (s *service) ListPersonal(ctx context.Context, employeeID string, q ListQuery) (ListResult, error) {
	return s.list(ctx, ScopePersonal, employeeID, q)
}

func (s *service) list(ctx context.Context, scope ListScope, employeeID string, q ListQuery) (ListResult, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("list leave requests requested",
		zap.String("request_id", rid),
		zap.String("employee_id", employeeID),
		zap.Int("scope", int(scope)),
	)

	id, err := uuid.Parse(employeeID)
	if err != nil {
		return ListResult{}, leaveerrors.ErrInvalidEmployeeID
	}
	for _, st := range q.Statuses {
		if !st.Valid() {
			return ListResult{}, leaveerrors.ErrInvalidStatusFilter
		}
	}

	filter := ListFilter{Scope: scope, EmployeeID: id, Statuses: q.Statuses}
	if q.Paginated() {
		number, size := *q.PageNumber, *q.PageSize
		if number < 0 {
			return ListResult{}, leaveerrors.ErrInvalidPagination.WithParameter("page[number]")
		}
		if size > MaxPageSize {
			return ListResult{}, leaveerrors.ErrInvalidPagination.WithParameter("page[size]").
				WithDetail(fmt.Sprintf("page[size] must not exceed %d.", MaxPageSize))
		}
		// the offset must stay representable
		if number > math.MaxInt/size {
			return ListResult{}, leaveerrors.ErrInvalidPagination.WithParameter("page[number]")
		}
		filter.Limit = *q.PageSize
		filter.Offset = *q.PageNumber * *q.PageSize
	}

	var (
		total int64
		items []LeaveRequest
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.repo.Count(gctx, filter)
		total = n
		return err
	})
	g.Go(func() error {
		rows, err := s.repo.List(gctx, filter)
		items = rows
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("list leave requests failed",
			zap.String("request_id", rid),
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
		return ListResult{}, mapRepositoryError(err)
	}

	included, err := includedEmployees(items, scope, s.crypt)
	if err != nil {
		s.logger.Error("list leave requests decrypt failed", zap.String("request_id", rid), zap.Error(err))
		return ListResult{}, err
	}

	return ListResult{
		Items:    mapToListResponse(items),
		Included: included,
		Total:    total,
	}, nil
}

func (s *service) Create(ctx context.Context, employeeID string, req CreateLeaveRequest) (CreateLeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create leave request requested",
		zap.String("request_id", rid),
		zap.String("employee_id", employeeID),
		zap.String("leave_type", string(req.LeaveType)),
		zap.Int("work_days", req.WorkDays),
	)

	initiatorID, err := uuid.Parse(employeeID)
	if err != nil {
		return CreateLeaveResponse{}, leaveerrors.ErrInvalidEmployeeID
	}
	lr, err := newLeaveRequest(initiatorID, req)
	if err != nil {
		s.logger.Warn("create leave request validation failed", zap.String("request_id", rid), zap.Error(err))
		return CreateLeaveResponse{}, err
	}

	initiator, substitute, err := s.loadParticipants(ctx, initiatorID, req.SubstituteEmail)
	if err != nil {
		s.logger.Warn("create leave request participants rejected",
			zap.String("request_id", rid),
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
		return CreateLeaveResponse{}, err
	}
	lr.SubstituteID = substitute.ID

	var daysLeft *int
	err = s.uow.Do(ctx, func(tx *gorm.DB) error {
		employees := s.employees.WithTx(tx)

		// fresh balance, locked until commit
		locked, err := employees.FindByIDForUpdate(ctx, initiatorID)
		if err != nil {
			return initiatorError(err)
		}

		left, changed, err := VacationDaysOnCreate(locked.VacationDaysLeft, lr.LeaveType, lr.WorkDays)
		if err != nil {
			return err
		}

		now := s.now()
		lr.CreatedAt, lr.ModifiedAt = now, now
		if err := s.repo.WithTx(tx).Create(ctx, lr); err != nil {
			return mapRepositoryError(err)
		}

		if changed {
			if err := employees.UpdateVacationDaysLeft(ctx, initiatorID, left); err != nil {
				return initiatorError(err)
			}
			daysLeft = &left
		}
		return nil
	})
	if err != nil {
		s.logFailure("create leave request failed", rid, err)
		return CreateLeaveResponse{}, err
	}

	s.logger.Info("create leave request success",
		zap.String("request_id", rid),
		zap.String("leave_request_id", lr.ID.String()),
		zap.String("employee_id", employeeID),
	)

	s.notify(ctx, initiator.Email, notification.TemplateSignatureRequested, lr)

	return CreateLeaveResponse{ID: lr.ID.String(), VacationDaysLeft: daysLeft}, nil
}

func newLeaveRequest(initiatorID uuid.UUID, req CreateLeaveRequest) (*LeaveRequest, error) {
	start, err := parseDate(req.StartDate)
	if err != nil {
		return nil, leaveerrors.ErrInvalidDateFormat.WithPointer("/" + string(FieldStartDate))
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return nil, leaveerrors.ErrInvalidDateFormat.WithPointer("/" + string(FieldEndDate))
	}
	if start.After(end) {
		return nil, leaveerrors.ErrInvalidDateRange
	}
	if req.WorkDays < 1 {
		return nil, leaveerrors.ErrInvalidWorkDays
	}
	if !req.LeaveType.Valid() {
		return nil, leaveerrors.ErrInvalidLeaveType
	}
	if d := req.LeaveTypeDetails; d != nil && !lengthBetween(*d, 2, 30) {
		return nil, leaveerrors.ErrInvalidLeaveTypeDetails
	}

	return &LeaveRequest{
		ID:               uuid.New(),
		InitiatorID:      initiatorID,
		StartDate:        start,
		EndDate:          end,
		WorkDays:         req.WorkDays,
		LeaveType:        req.LeaveType,
		LeaveTypeDetails: req.LeaveTypeDetails,
		Status:           StatusAwaitingInitiator,
	}, nil
}

// loadParticipants reads the initiator and the substitute concurrently and
// checks that everyone who has to sign can do so.
func (s *service) loadParticipants(ctx context.Context, initiatorID uuid.UUID, substituteEmail string) (*employee.Employee, *employee.Employee, error) {
	var initiator, substitute *employee.Employee

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		e, err := s.employees.FindByEmail(gctx, substituteEmail)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return apperror.Persistence(err)
		}
		substitute = e
		return nil
	})
	g.Go(func() error {
		e, err := s.employees.FindByID(gctx, initiatorID)
		if err != nil {
			return initiatorError(err)
		}
		initiator = e
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	if !substitute.Eligible() {
		return nil, nil, leaveerrors.ErrSubstituteNotFound
	}
	if substitute.ID == initiator.ID {
		return nil, nil, leaveerrors.ErrSelfSubstitution
	}
	if !initiator.Supervisor.Eligible() {
		return nil, nil, leaveerrors.ErrSupervisorNotFound
	}
	if !initiator.HR.Eligible() {
		return nil, nil, leaveerrors.ErrHRNotFound
	}
	return initiator, substitute, nil
}

func (s *service) Update(
	ctx context.Context,
	employeeID, leaveRequestID string,
	req UpdateLeaveRequest,
) (UpdateLeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("update leave request requested",
		zap.String("request_id", rid),
		zap.String("employee_id", employeeID),
		zap.String("leave_request_id", leaveRequestID),
	)

	actor, err := uuid.Parse(employeeID)
	if err != nil {
		return UpdateLeaveResponse{}, leaveerrors.ErrInvalidEmployeeID
	}
	id, err := uuid.Parse(leaveRequestID)
	if err != nil {
		return UpdateLeaveResponse{}, leaveerrors.ErrInvalidLeaveRequestID
	}

	var (
		lr        *LeaveRequest
		initiator *employee.Employee
		plan      UpdatePlan
	)
	err = s.uow.Do(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		employees := s.employees.WithTx(tx)

		var err error
		if lr, err = repo.FindByIDForUpdate(ctx, id); err != nil {
			return mapRepositoryError(err)
		}
		if initiator, err = employees.FindByIDForUpdate(ctx, lr.InitiatorID); err != nil {
			return initiatorError(err)
		}

		if plan, err = PlanUpdate(actor, lr, initiator, req, s.now()); err != nil {
			return err
		}

		if err := repo.Update(ctx, id, plan.Columns); err != nil {
			return mapRepositoryError(err)
		}
		if plan.VacationDaysLeft != nil {
			if err := employees.UpdateVacationDaysLeft(ctx, initiator.ID, *plan.VacationDaysLeft); err != nil {
				return initiatorError(err)
			}
		}
		return nil
	})
	if err != nil {
		s.logFailure("update leave request failed", rid, err, zap.String("leave_request_id", leaveRequestID))
		return UpdateLeaveResponse{}, err
	}

	status := lr.Status
	if plan.Decision != nil {
		status = *plan.Decision
		lr.Status = status
		if r, ok := plan.Columns["reject_reason"].(*string); ok {
			lr.RejectReason = r
		}
	}

	s.logger.Info("update leave request success",
		zap.String("request_id", rid),
		zap.String("leave_request_id", leaveRequestID),
		zap.String("role", string(plan.Role)),
		zap.String("status", string(status)),
	)

	if plan.Decision != nil {
		tmpl := notification.TemplateDenied
		if status == StatusApproved {
			tmpl = notification.TemplateApproved
		}
		s.notify(ctx, initiator.Email, tmpl, lr)
	}

	return UpdateLeaveResponse{
		ID:               lr.ID.String(),
		Status:           string(status),
		VacationDaysLeft: plan.VacationDaysLeft,
	}, nil
}

func (s *service) UploadSignature(
	ctx context.Context,
	employeeID, leaveRequestID string,
	file []byte,
) (SignatureResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("upload signature requested",
		zap.String("request_id", rid),
		zap.String("employee_id", employeeID),
		zap.String("leave_request_id", leaveRequestID),
		zap.Int("size", len(file)),
	)

	actor, err := uuid.Parse(employeeID)
	if err != nil {
		return SignatureResponse{}, leaveerrors.ErrInvalidEmployeeID
	}
	id, err := uuid.Parse(leaveRequestID)
	if err != nil {
		return SignatureResponse{}, leaveerrors.ErrInvalidLeaveRequestID
	}
	if len(file) == 0 {
		return SignatureResponse{}, leaveerrors.ErrInvalidSignatureFile.WithDetail("Signature file is empty.")
	}
	if mt := mimetype.Detect(file); !mt.Is("image/png") {
		return SignatureResponse{}, leaveerrors.ErrInvalidSignatureFile.WithDetail(
			"Signature file must be image/png, got " + mt.String() + ".")
	}

	var (
		lr        *LeaveRequest
		initiator *employee.Employee
		sf        *SignatureFile
		next      Status
	)
	err = s.uow.Do(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		var err error
		if lr, err = repo.FindByIDForUpdate(ctx, id); err != nil {
			return mapRepositoryError(err)
		}
		if initiator, err = s.employees.WithTx(tx).FindByID(ctx, lr.InitiatorID); err != nil {
			return initiatorError(err)
		}

		var owner SignatureOwner
		owner, next, err = NextSignature(actor, lr.Status, participantsOf(lr, initiator))
		if err != nil {
			return err
		}

		now := s.now()
		sf = &SignatureFile{ID: uuid.New(), Owner: owner, LeaveRequestID: id, CreatedAt: now}
		if err := repo.CreateSignatureFile(ctx, sf); err != nil {
			return mapRepositoryError(err)
		}
		if err := repo.Update(ctx, id, map[string]any{"status": next, "modified_at": now}); err != nil {
			return mapRepositoryError(err)
		}

		// last, so a failed write rolls back the row and the status change
		if err := s.storage.Put(ctx, signature.FileKey(sf.ID.String()), file); err != nil {
			return apperror.ErrPersistence.WithDetail("Signature file could not be stored.").WithErr(err)
		}
		return nil
	})
	if err != nil {
		s.logFailure("upload signature failed", rid, err, zap.String("leave_request_id", leaveRequestID))
		return SignatureResponse{}, err
	}

	s.logger.Info("upload signature success",
		zap.String("request_id", rid),
		zap.String("leave_request_id", leaveRequestID),
		zap.String("owner", string(sf.Owner)),
		zap.String("status", string(next)),
	)

	lr.Status = next
	if address := s.nextSignerAddress(ctx, lr, initiator); address != "" {
		s.notify(ctx, address, notification.TemplateSignatureRequested, lr)
	}

	return SignatureResponse{
		ID:             sf.ID.String(),
		Owner:          string(sf.Owner),
		LeaveRequestID: id.String(),
		Status:         string(next),
	}, nil
}

// nextSignerAddress returns "" when no one has to be asked.
func (s *service) nextSignerAddress(ctx context.Context, lr *LeaveRequest, initiator *employee.Employee) string {
	switch lr.Status {
	case StatusAwaitingSubstitute:
		sub, err := s.employees.FindByID(ctx, lr.SubstituteID)
		if err != nil {
			s.logger.Warn("load substitute for notification failed",
				zap.String("leave_request_id", lr.ID.String()),
				zap.String("kind", apperror.KindNotification.String()),
				zap.Error(err),
			)
			return ""
		}
		return sub.Email
	case StatusAwaitingSupervisor:
		if initiator.Supervisor != nil {
			return initiator.Supervisor.Email
		}
	case StatusAwaitingHR:
		if initiator.HR != nil {
			return initiator.HR.Email
		}
	}
	return ""
}

// notify never fails the operation; the change is already committed.
func (s *service) notify(ctx context.Context, address string, tmpl notification.Template, lr *LeaveRequest) {
	subs := map[string]string{
		notification.SubLeaveRequestID: lr.ID.String(),
		notification.SubStartDate:      lr.StartDate.Format(dateLayout),
		notification.SubEndDate:        lr.EndDate.Format(dateLayout),
	}
	if lr.RejectReason != nil {
		subs[notification.SubRejectReason] = *lr.RejectReason
	}

	if err := s.notifier.SendTemplatedEmail(ctx, address, tmpl, subs); err != nil {
		s.logger.Error("leave request notification failed",
			zap.String("request_id", contextutil.GetRequestID(ctx)),
			zap.String("leave_request_id", lr.ID.String()),
			zap.String("template", string(tmpl)),
			zap.String("kind", apperror.KindNotification.String()),
			zap.Error(err),
		)
	}
}

// logFailure logs domain rejections as warnings and everything else as errors.
func (s *service) logFailure(msg, rid string, err error, fields ...zap.Field) {
	fields = append(fields, zap.String("request_id", rid), zap.Error(err))
	switch apperror.KindOf(err) {
	case apperror.KindPersistence, apperror.KindInternal:
		s.logger.Error(msg, fields...)
	default:
		s.logger.Warn(msg, fields...)
	}
}

func initiatorError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return leaveerrors.ErrInitiatorNotFound
	}
	return apperror.Persistence(err)
}
