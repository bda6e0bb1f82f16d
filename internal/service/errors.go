package service

import "errors"

// Error categories. Handlers map them to HTTP status codes with errors.Is.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("unavailable")
	ErrInternal    = errors.New("internal error")
)

// Error is a categorised failure carrying the message shown to the caller
// and, optionally, the collaborator error that caused it.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap exposes both the category and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// Is matches another *Error with the same category and message, so wrapped
// copies still compare equal to the sentinel they were made from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind && t.Message == e.Message
}

// wrap returns a copy of base that records cause.
func wrap(base *Error, cause error) *Error {
	return &Error{Kind: base.Kind, Message: base.Message, Err: cause}
}

// Message returns the caller-facing message of err, or "" when err is not a
// service error.
func Message(err error) string {
	var se *Error
	if errors.As(err, &se) {
		return se.Message
	}
	return ""
}

var (
	ErrNoActiveSession      = &Error{Kind: ErrNotFound, Message: "No active exam session. Please wait for teacher to start the exam."}
	ErrSessionNotFound      = &Error{Kind: ErrNotFound, Message: "Session not found."}
	ErrSessionAlreadyActive = &Error{Kind: ErrConflict, Message: "Another exam session is already active."}

	ErrAlreadyEnrolled    = &Error{Kind: ErrConflict, Message: "You have already started the exam."}
	ErrRegistrationFailed = &Error{Kind: ErrUnavailable, Message: "Failed to register student data."}

	ErrStudentNotActive = &Error{Kind: ErrNotFound, Message: "Student not found in active list."}
	ErrAlreadySubmitted = &Error{Kind: ErrConflict, Message: "Exam already submitted."}
	ErrSubmissionFailed = &Error{Kind: ErrUnavailable, Message: "System error during submission."}

	ErrStudentNotFound    = &Error{Kind: ErrNotFound, Message: "Student not found."}
	ErrLockUnavailable    = &Error{Kind: ErrUnavailable, Message: "Failed to acquire lock for update."}
	ErrUpdateFailed       = &Error{Kind: ErrInternal, Message: "System error during update."}
	ErrRecordsUnavailable = &Error{Kind: ErrUnavailable, Message: "Student records are unavailable."}
)
