package carryforwarderrors

import (
	"net/http"

	"leavedesk/internal/shared/apperror"
)

var (
	ErrAlreadyProcessed = apperror.New(
		apperror.CodeConflict,
		"carry-forward already processed for this employee, leave type and year pair",
		http.StatusConflict,
	)

	ErrSourceBalanceNotFound = apperror.New(
		apperror.CodeNotFound,
		"no balance found for the source year",
		http.StatusNotFound,
	)

	ErrNothingToCarry = apperror.New(
		apperror.CodeInvalidState,
		"no remaining days to carry forward",
		http.StatusUnprocessableEntity,
	)

	ErrInvalidYearPair = apperror.New(
		apperror.CodeInvalidInput,
		"to_year must be greater than from_year",
		http.StatusBadRequest,
	)

	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"employee id must be a valid UUID",
		http.StatusBadRequest,
	)

	ErrInvalidLeaveTypeID = apperror.New(
		apperror.CodeInvalidInput,
		"leave type id must be a valid UUID",
		http.StatusBadRequest,
	)

	ErrInvalidExpiryDate = apperror.New(
		apperror.CodeInvalidInput,
		"expiry date must use the format YYYY-MM-DD",
		http.StatusBadRequest,
	)
)
