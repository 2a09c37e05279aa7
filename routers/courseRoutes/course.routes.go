package courseRoutes

import (
	controllers "learnhub/controllers/course"
	"learnhub/middleware"
	"learnhub/models"
	validators "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up student-facing course routes
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	// Course listing and details (published courses)
	courseGroup.Get("/list", middleware.JWTMiddleware, validators.CourseList(), controllers.GetAllCourses)
	courseGroup.Get("/:id", middleware.JWTMiddleware, validators.CourseID(), controllers.GetCourseDetails)
}

// SetupAdminCourseRoutes sets up the instructor/admin catalog surface
func SetupAdminCourseRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin/course",
		middleware.JWTMiddleware,
		middleware.RequireRole(models.RoleInstructor, models.RoleAdmin),
	)

	adminGroup.Post("/", validators.CreateCourse(), controllers.CreateCourse)
	adminGroup.Put("/:id", validators.CourseID(), validators.UpdateCourse(), controllers.UpdateCourse)
	adminGroup.Post("/:id/publish", validators.CourseID(), controllers.PublishCourse)
	adminGroup.Delete("/:id", validators.CourseID(), controllers.DeleteCourse)

	adminGroup.Post("/:id/section", validators.CourseID(), validators.CreateSection(), controllers.CreateSection)
	adminGroup.Delete("/:id/section/:section_id", validators.CourseID(), validators.SectionID(), controllers.DeleteSection)

	dashboardGroup := app.Group("/admin/dashboard",
		middleware.JWTMiddleware,
		middleware.RequireRole(models.RoleAdmin),
	)
	dashboardGroup.Get("/", controllers.GetDashboard)
}
