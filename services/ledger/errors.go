package ledger

import "errors"

// Every expected failure of the ledger is a sentinel so callers can map it
// with errors.Is instead of parsing messages.
var (
	ErrCourseNotFound        = errors.New("course not found")
	ErrCourseUnavailable     = errors.New("course is not open for enrollment")
	ErrAlreadyEnrolled       = errors.New("student already enrolled in this course")
	ErrCapacityExceeded      = errors.New("course has reached its enrollment cap")
	ErrDeadlinePassed        = errors.New("enrollment deadline has passed")
	ErrEnrollmentNotFound    = errors.New("enrollment not found")
	ErrSectionNotFound       = errors.New("section does not belong to this course")
	ErrCourseNotCompleted    = errors.New("course is not completed yet")
	ErrCertificateNotFound   = errors.New("certificate not found")
	ErrAccountNotFound       = errors.New("account not found")
	ErrUnauthorized          = errors.New("actor is not allowed to perform this operation")
	ErrDependencyUnavailable = errors.New("ledger dependency unavailable")
)
