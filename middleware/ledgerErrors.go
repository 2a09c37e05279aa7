package middleware

import (
	"errors"

	"learnhub/services/ledger"

	"github.com/gofiber/fiber/v2"
)

// LedgerErrorResponse maps a ledger error to its HTTP response. Every
// expected ledger failure has a distinct status and message; anything else
// is a 500.
func LedgerErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ledger.ErrCourseNotFound):
		return JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	case errors.Is(err, ledger.ErrCourseUnavailable):
		return JsonResponse(c, fiber.StatusForbidden, false, "Course is not open for enrollment!", nil)
	case errors.Is(err, ledger.ErrAlreadyEnrolled):
		return JsonResponse(c, fiber.StatusConflict, false, "User already enrolled in this course!", nil)
	case errors.Is(err, ledger.ErrCapacityExceeded):
		return JsonResponse(c, fiber.StatusConflict, false, "Course has reached its enrollment cap!", nil)
	case errors.Is(err, ledger.ErrDeadlinePassed):
		return JsonResponse(c, fiber.StatusForbidden, false, "Enrollment deadline has passed!", nil)
	case errors.Is(err, ledger.ErrEnrollmentNotFound):
		return JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	case errors.Is(err, ledger.ErrSectionNotFound):
		return JsonResponse(c, fiber.StatusNotFound, false, "Section not found in this course!", nil)
	case errors.Is(err, ledger.ErrCourseNotCompleted):
		return JsonResponse(c, fiber.StatusBadRequest, false, "Please complete the course first!", nil)
	case errors.Is(err, ledger.ErrCertificateNotFound):
		return JsonResponse(c, fiber.StatusNotFound, false, "Certificate not found!", nil)
	case errors.Is(err, ledger.ErrAccountNotFound):
		return JsonResponse(c, fiber.StatusNotFound, false, "Account not found!", nil)
	case errors.Is(err, ledger.ErrUnauthorized):
		return JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to perform this action!", nil)
	case errors.Is(err, ledger.ErrDependencyUnavailable):
		return JsonResponse(c, fiber.StatusServiceUnavailable, false, "Service temporarily unavailable, please retry!", nil)
	default:
		return JsonResponse(c, fiber.StatusInternalServerError, false, "Something went wrong!", nil)
	}
}
