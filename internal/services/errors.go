package services

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes service-level failures so callers can tell exactly
// which validation or store step refused the operation.
type ErrorCode string

const (
	// ErrCodeUnauthorized indicates no authenticated principal was supplied
	// for a mutating operation.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"

	// ErrCodeRecipientNotFound indicates the role recipient does not resolve
	// to an existing profile.
	ErrCodeRecipientNotFound ErrorCode = "RECIPIENT_NOT_FOUND"

	// ErrCodeSelfAssignment indicates an attempt to assign a role to oneself.
	ErrCodeSelfAssignment ErrorCode = "SELF_ASSIGNMENT_FORBIDDEN"

	// ErrCodeIncompleteDebtData indicates a debt-financier assignment with
	// missing debt fields.
	ErrCodeIncompleteDebtData ErrorCode = "INCOMPLETE_DEBT_DATA"

	// ErrCodeInsufficientPermission indicates the actor lacks the owner or
	// equity_owner role on the idea.
	ErrCodeInsufficientPermission ErrorCode = "INSUFFICIENT_PERMISSION"

	// ErrCodeInsufficientEquity indicates the actor holds no equity to
	// transfer.
	ErrCodeInsufficientEquity ErrorCode = "INSUFFICIENT_EQUITY"

	// ErrCodeExcessiveTransfer indicates the requested amount exceeds the
	// actor's holdings.
	ErrCodeExcessiveTransfer ErrorCode = "EXCESSIVE_TRANSFER"

	// ErrCodeProfileLookupFailed indicates the debt pipeline could not
	// resolve the financier's profile.
	ErrCodeProfileLookupFailed ErrorCode = "PROFILE_LOOKUP_FAILED"

	// ErrCodeMembershipInsertFailed indicates the debt pipeline failed at the
	// membership stage.
	ErrCodeMembershipInsertFailed ErrorCode = "MEMBERSHIP_INSERT_FAILED"

	// ErrCodeDebtRecordInsertFailed indicates the debt pipeline failed at the
	// debt-record stage.
	ErrCodeDebtRecordInsertFailed ErrorCode = "DEBT_RECORD_INSERT_FAILED"

	// ErrCodeTransactionInsertFailed indicates the debt pipeline failed at
	// the ledger stage.
	ErrCodeTransactionInsertFailed ErrorCode = "TRANSACTION_INSERT_FAILED"

	// ErrCodeRemovalForbidden indicates the membership removal guard refused
	// the target role or the actor.
	ErrCodeRemovalForbidden ErrorCode = "REMOVAL_FORBIDDEN"

	// ErrCodeDeleteFailed indicates a store-level failure removing a
	// membership.
	ErrCodeDeleteFailed ErrorCode = "DELETE_FAILED"

	// ErrCodeNotFound indicates a referenced record does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeInvalidInput indicates a request failed basic validation.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// Error is the structured error returned by every service operation. Message
// is safe to surface to the end user; Err carries the underlying store error
// for logs.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error { return e.Err }

func newError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

func wrapError(code ErrorCode, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// CodeOf extracts the ErrorCode from err, unwrapping as needed. Returns the
// empty string when err is not a service error.
func CodeOf(err error) ErrorCode {
	var se *Error
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// UserMessage returns the human-readable message for err, falling back to
// err.Error() for non-service errors.
func UserMessage(err error) string {
	var se *Error
	if errors.As(err, &se) {
		return se.Message
	}
	return err.Error()
}
