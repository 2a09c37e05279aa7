package certificateController

import (
	"errors"
	"strings"

	"learnhub/database"
	"learnhub/middleware"
	courseModels "learnhub/models/course"
	"learnhub/services"
	"learnhub/services/ledger"

	"github.com/gofiber/fiber/v2"
)

// IssueCertificate mints (or re-returns) the certificate for a completed
// course. Safe to call repeatedly; the serial never changes once issued.
func IssueCertificate(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(uint)

	serial, err := services.Ledger.IssueCertificate(userID, courseID)
	if err != nil {
		return middleware.LedgerErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate issued successfully!", fiber.Map{
		"certificate_serial": serial,
	})
}

// VerifyCertificate is the public, unauthenticated trust check. An unknown
// serial is a clear "not valid" result, not an error.
func VerifyCertificate(c *fiber.Ctx) error {
	serial := strings.TrimSpace(c.Params("serial"))
	if serial == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Certificate serial is required!", nil)
	}

	view, err := services.Ledger.VerifyCertificate(serial)
	if err != nil {
		if errors.Is(err, ledger.ErrCertificateNotFound) {
			return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate is not valid.", fiber.Map{
				"valid": false,
			})
		}
		return middleware.LedgerErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate is valid.", fiber.Map{
		"valid":       true,
		"certificate": view,
	})
}

// GetUserCertificates gets all certificates for the current user
func GetUserCertificates(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	type CertificateWithCourse struct {
		courseModels.Certificate
		CourseTitle string `json:"course_title"`
	}

	var certificates []courseModels.Certificate
	if err := database.Database.Db.Where("student_id = ?", userID).Order("issued_at desc").Find(&certificates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificates!", nil)
	}

	result := make([]CertificateWithCourse, len(certificates))
	for i, cert := range certificates {
		var course courseModels.Course
		database.Database.Db.Where("id = ?", cert.CourseID).First(&course)
		result[i] = CertificateWithCourse{
			Certificate: cert,
			CourseTitle: course.Title,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", fiber.Map{
		"certificates": result,
		"total":        len(result),
	})
}
