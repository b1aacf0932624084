package approvalerrors

import (
	"net/http"

	"leavedesk/internal/shared/apperror"
)

var (
	ErrStepNotFound = apperror.New(
		apperror.CodeNotFound,
		"approval step not found",
		http.StatusNotFound,
	)

	ErrRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)

	ErrNotStepApprover = apperror.New(
		apperror.CodeUnauthorized,
		"you are not the approver assigned to this step",
		http.StatusForbidden,
	)

	ErrStepAlreadyProcessed = apperror.New(
		apperror.CodeInvalidState,
		"approval step has already been processed",
		http.StatusConflict,
	)

	ErrPrecedenceViolation = apperror.New(
		apperror.CodePrecedenceViolation,
		"earlier approval steps must be approved first",
		http.StatusConflict,
	)

	ErrWorkflowAlreadyInitiated = apperror.New(
		apperror.CodeInvalidState,
		"approval workflow already initiated for this request",
		http.StatusConflict,
	)

	ErrRequestNotPending = apperror.New(
		apperror.CodeInvalidState,
		"leave request is no longer pending",
		http.StatusConflict,
	)
)
