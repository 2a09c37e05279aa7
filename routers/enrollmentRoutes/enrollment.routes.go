package enrollmentRoutes

import (
	controllers "learnhub/controllers/enrollment"
	"learnhub/middleware"
	"learnhub/models"
	validators "learnhub/validators/enrollment"

	"github.com/gofiber/fiber/v2"
)

// SetupEnrollmentRoutes sets up enrollment and progress routes
func SetupEnrollmentRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	// Enrollment
	courseGroup.Post("/:id/enroll", middleware.JWTMiddleware, validators.EnrollCourse(), controllers.EnrollInCourse)

	// Section completion and progress tracking
	courseGroup.Post("/:course_id/section/:section_id/complete", middleware.JWTMiddleware, validators.CompleteSection(), controllers.CompleteSection)
	courseGroup.Get("/:course_id/progress", middleware.JWTMiddleware, validators.CourseProgress(), controllers.GetCourseProgress)

	// User enrollments
	userGroup := app.Group("/user")
	userGroup.Get("/enrollments", middleware.JWTMiddleware, controllers.GetEnrollments)

	// Administrative removal
	adminGroup := app.Group("/admin/enrollment",
		middleware.JWTMiddleware,
		middleware.RequireRole(models.RoleAdmin),
	)
	adminGroup.Delete("/:id", validators.RemoveEnrollment(), controllers.AdminRemoveEnrollment)
}
