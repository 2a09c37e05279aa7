package certificateRoutes

import (
	controllers "learnhub/controllers/certificate"
	"learnhub/middleware"
	courseValidators "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCertificateRoutes sets up certificate issuance, listing and the
// public verification route
func SetupCertificateRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")
	courseGroup.Post("/:id/certificate", middleware.JWTMiddleware, courseValidators.CourseID(), controllers.IssueCertificate)

	userGroup := app.Group("/user")
	userGroup.Get("/certificates", middleware.JWTMiddleware, controllers.GetUserCertificates)

	// Public trust check, no auth
	app.Get("/certificate/verify/:serial", controllers.VerifyCertificate)
}
