package enrollmentController

import (
	"learnhub/database"
	"learnhub/middleware"
	"learnhub/models"
	courseModels "learnhub/models/course"
	"learnhub/services"
	"learnhub/services/ledger"
	enrollmentValidator "learnhub/validators/enrollment"

	"github.com/gofiber/fiber/v2"
)

// EnrollInCourse enrolls the calling student in a course
func EnrollInCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	// Check if user exists
	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(uint)
	reqData, _ := c.Locals("validatedEnroll").(*enrollmentValidator.EnrollRequest)
	paymentConfirmed := reqData != nil && reqData.PaymentConfirmed

	enrollment, err := services.Ledger.Enroll(userID, courseID, paymentConfirmed)
	if err != nil {
		return middleware.LedgerErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrolled in course successfully!", enrollment)
}

// GetEnrollments lists the calling student's enrollments with course details
func GetEnrollments(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	type EnrollmentWithCourse struct {
		courseModels.Enrollment
		CourseTitle       string  `json:"course_title"`
		CourseDescription string  `json:"course_description"`
		CoursePrice       float64 `json:"course_price"`
	}

	var enrollments []courseModels.Enrollment
	if err := database.Database.Db.Where("student_id = ?", userID).Order("created_at desc").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	result := make([]EnrollmentWithCourse, len(enrollments))
	for i, e := range enrollments {
		var course courseModels.Course
		database.Database.Db.Where("id = ?", e.CourseID).First(&course)
		result[i] = EnrollmentWithCourse{
			Enrollment:        e,
			CourseTitle:       course.Title,
			CourseDescription: course.Description,
			CoursePrice:       course.Price,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", fiber.Map{
		"enrollments": result,
		"total":       len(result),
	})
}

// CompleteSection marks a section complete and returns the updated progress
func CompleteSection(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(uint)
	sectionID := c.Locals("sectionID").(uint)

	result, err := services.Ledger.CompleteSection(userID, courseID, sectionID)
	if err != nil {
		return middleware.LedgerErrorResponse(c, err)
	}

	message := "Section marked as completed!"
	if result.IsCourseCompleted {
		message = "Congratulations, you completed the course!"
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, result)
}

// GetCourseProgress returns the enrollment's progress and per-section state
func GetCourseProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(uint)

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("student_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	}

	var sections []courseModels.Section
	database.Database.Db.Where("course_id = ? AND is_deleted = ?", courseID, false).
		Order("order_index asc").Find(&sections)

	var completions []courseModels.CompletedSection
	database.Database.Db.Where("enrollment_id = ?", enrollment.ID).Find(&completions)
	completedSet := make(map[uint]bool, len(completions))
	for _, completion := range completions {
		completedSet[completion.SectionID] = true
	}

	type SectionProgress struct {
		courseModels.Section
		IsCompleted bool `json:"is_completed"`
	}
	sectionProgress := make([]SectionProgress, len(sections))
	for i, section := range sections {
		sectionProgress[i] = SectionProgress{Section: section, IsCompleted: completedSet[section.ID]}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", fiber.Map{
		"enrollment": enrollment,
		"sections":   sectionProgress,
	})
}

// AdminRemoveEnrollment deletes an enrollment on behalf of an administrator.
// An already-issued certificate deliberately survives the removal.
func AdminRemoveEnrollment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	enrollmentID := c.Locals("enrollmentID").(uint)

	err := services.Ledger.RemoveEnrollment(enrollmentID, ledger.Actor{ID: user.ID, Role: user.Role})
	if err != nil {
		return middleware.LedgerErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment removed successfully!", nil)
}
