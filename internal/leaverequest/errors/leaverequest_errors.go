package leaverequesterrors

import (
	"net/http"

	"spice-hr/internal/shared/apperror"
)

var (
	ErrLeaveRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
	ErrCertificationNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request has no certification attached",
		http.StatusNotFound,
	)
	ErrZeroWorkingDays = apperror.New(
		apperror.CodeInvalidInput,
		"leave range contains no working days",
		http.StatusBadRequest,
	)
	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidState,
		"invalid leave request status transition",
		http.StatusBadRequest,
	)
	ErrRequestDecided = apperror.New(
		apperror.CodeInvalidState,
		"leave request has already been decided",
		http.StatusBadRequest,
	)
	ErrSubmitForOther = apperror.New(
		apperror.CodeForbidden,
		"a leave request may only be filed for the acting employee",
		http.StatusForbidden,
	)
	ErrEditForbidden = apperror.New(
		apperror.CodeForbidden,
		"only the submitter may edit a pending leave request",
		http.StatusForbidden,
	)
	ErrDeleteForbidden = apperror.New(
		apperror.CodeForbidden,
		"only the submitter may delete a pending leave request",
		http.StatusForbidden,
	)
	ErrDecideForbidden = apperror.New(
		apperror.CodeForbidden,
		"only an HR manager may approve or reject a leave request",
		http.StatusForbidden,
	)
	ErrOverlappingRequest = apperror.New(
		apperror.CodeConflict,
		"a leave request already exists in an overlapping period",
		http.StatusConflict,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
)
