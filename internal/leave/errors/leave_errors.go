package leaveerrors

import (
	"go-selfservice/internal/shared/apperror"
)

var (
	ErrInvalidEmployeeID = apperror.New(
		apperror.KindUnauthorized,
		apperror.CodeUnauthorized,
		"invalid employee id in token",
	)
	ErrInvalidLeaveRequestID = apperror.New(
		apperror.KindInvalidInput,
		apperror.CodeInvalidInput,
		"invalid leave-request id",
	).WithParameter("leaveRequestId")
	ErrInvalidDateFormat = apperror.New(
		apperror.KindInvalidInput,
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
	)
	ErrInvalidDateRange = apperror.New(
		apperror.KindInvalidInput,
		apperror.CodeInvalidInput,
		"startDate must be before or equal endDate",
	).WithPointer("/startDate")
	ErrInvalidWorkDays = apperror.New(
		apperror.KindInvalidInput,
		apperror.CodeInvalidInput,
		"workDays must be at least 1",
	).WithPointer("/workDays")
	ErrInvalidLeaveType = apperror.New(
		apperror.KindInvalidInput,
		apperror.CodeInvalidInput,
		"invalid leave type",
	).WithPointer("/leaveType")
	ErrInvalidLeaveTypeDetails = apperror.New(
		apperror.KindInvalidInput,
		apperror.CodeInvalidInput,
		"leaveTypeDetails must be between 2 and 30 characters",
	).WithPointer("/leaveTypeDetails")
	ErrInvalidRejectReason = apperror.New(
		apperror.KindInvalidInput,
		apperror.CodeInvalidInput,
		"rejectReason must be between 1 and 50 characters",
	).WithPointer("/rejectReason")
	ErrNullField = apperror.New(
		apperror.KindInvalidInput,
		apperror.CodeInvalidInput,
		"field cannot be null",
	)
	ErrNothingToUpdate = apperror.New(
		apperror.KindInvalidInput,
		apperror.CodeInvalidInput,
		"no fields to update",
	)
	ErrInvalidStatusFilter = apperror.New(
		apperror.KindInvalidInput,
		apperror.CodeInvalidInput,
		"invalid leave-request status filter",
	).WithParameter("filter[status]")
	ErrInvalidPagination = apperror.New(
		apperror.KindInvalidInput,
		apperror.CodeInvalidInput,
		"invalid pagination parameters",
	)

	ErrLeaveRequestNotFound = apperror.New(
		apperror.KindNotFound,
		apperror.CodeNotFound,
		"Leave-request not found",
	).WithParameter("leaveRequestId")
	ErrInitiatorNotFound = apperror.New(
		apperror.KindNotFound,
		apperror.CodeNotFound,
		"Initiator not found",
	).WithDetail("Employee creating leave-request not found.")
	ErrSubstituteNotFound = apperror.New(
		apperror.KindNotFound,
		apperror.CodeNotFound,
		"Substitute not found",
	).WithDetail("Substitute not found when creating leave-request.").WithPointer("/substituteEmail")
	ErrSupervisorNotFound = apperror.New(
		apperror.KindNotFound,
		apperror.CodeNotFound,
		"Supervisor not found",
	).WithDetail("Supervisor not found when creating leave-request.")
	ErrHRNotFound = apperror.New(
		apperror.KindNotFound,
		apperror.CodeNotFound,
		"HR not found",
	).WithDetail("HR not found when creating leave-request.")

	ErrSelfSubstitution = apperror.New(
		apperror.KindInvalidInput,
		apperror.CodeInvalidInput,
		"Self referencing for substitute not allowed",
	).WithDetail("Employee creating leave-request cannot be set as substitute.").WithPointer("/substituteEmail")
	ErrInsufficientVacationDays = apperror.New(
		apperror.KindInvalidInput,
		apperror.CodeInvalidInput,
		"Not enough vacation days left",
	).WithDetail("Not enough vacation days left for amount of work days absent.").WithPointer("/workDays")
	ErrInvalidStatusValue = apperror.New(
		apperror.KindInvalidInput,
		apperror.CodeInvalidInput,
		"Status can only be set to APPROVED or DENIED",
	).WithPointer("/status")
	ErrRejectReasonMismatch = apperror.New(
		apperror.KindInvalidInput,
		apperror.CodeInvalidInput,
		"Status DENIED and rejectReason must be provided together",
	).WithPointer("/rejectReason")
	ErrInvalidSignatureFile = apperror.New(
		apperror.KindInvalidInput,
		apperror.CodeInvalidInput,
		"Signature file must be a non-empty PNG image",
	)

	ErrUpdateForbidden = apperror.New(
		apperror.KindForbidden,
		apperror.CodeForbidden,
		"Missing permissions to update leave-request.",
	)
	ErrFieldsForbidden = apperror.New(
		apperror.KindForbidden,
		apperror.CodeForbidden,
		"Missing permissions to update fields.",
	)
	ErrApproveForbidden = apperror.New(
		apperror.KindForbidden,
		apperror.CodeForbidden,
		"Missing permission to set status to APPROVED.",
	).WithDetail("Leave-request can only be approved by HR when status AWAITING_HR.")
	ErrSignatureForbidden = apperror.New(
		apperror.KindForbidden,
		apperror.CodeForbidden,
		"Missing permissions to upload signature.",
	)
)
