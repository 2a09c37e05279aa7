package courseController

import (
	"learnhub/database"
	"learnhub/middleware"
	"learnhub/models"
	courseModels "learnhub/models/course"
	courseValidator "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
)

// canManageCourse loads the course and checks the caller owns it or is an
// admin. Course management is the instructor-side catalog surface; the
// enrollment lifecycle never runs through these handlers.
func canManageCourse(c *fiber.Ctx, courseID uint) (*courseModels.Course, *models.User, bool) {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return nil, nil, false
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return nil, nil, false
	}

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return nil, &user, false
	}

	if user.Role != models.RoleAdmin && course.InstructorID != user.ID {
		return nil, &user, false
	}
	return &course, &user, true
}

// CreateCourse creates a new draft course owned by the calling instructor
func CreateCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedCourse").(*courseValidator.CourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	course := courseModels.Course{
		Title:              reqData.Title,
		Description:        reqData.Description,
		InstructorID:       userID,
		Price:              reqData.Price,
		MaxStudents:        reqData.MaxStudents,
		EnrollmentDeadline: reqData.EnrollmentDeadline,
		ThumbnailURL:       reqData.ThumbnailURL,
		IsPublished:        false,
	}

	if err := database.Database.Db.Create(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", course)
}

// UpdateCourse updates an existing course
func UpdateCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)

	course, _, allowed := canManageCourse(c, courseID)
	if !allowed {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You cannot manage this course!", nil)
	}

	reqData, ok := c.Locals("validatedCourseUpdate").(*courseValidator.CourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	course.Title = reqData.Title
	course.Description = reqData.Description
	course.Price = reqData.Price
	course.MaxStudents = reqData.MaxStudents
	course.EnrollmentDeadline = reqData.EnrollmentDeadline
	if reqData.ThumbnailURL != "" {
		course.ThumbnailURL = reqData.ThumbnailURL
	}

	if err := database.Database.Db.Save(course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", course)
}

// PublishCourse opens a course for enrollment. A course needs at least one
// section before it can go live.
func PublishCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)

	course, _, allowed := canManageCourse(c, courseID)
	if !allowed {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You cannot manage this course!", nil)
	}

	var sectionCount int64
	database.Database.Db.Model(&courseModels.Section{}).
		Where("course_id = ? AND is_deleted = ?", courseID, false).Count(&sectionCount)
	if sectionCount == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Add at least one section before publishing!", nil)
	}

	if err := database.Database.Db.Model(course).Update("is_published", true).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to publish course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course published successfully!", course)
}

// DeleteCourse soft deletes a course
func DeleteCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)

	course, _, allowed := canManageCourse(c, courseID)
	if !allowed {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You cannot manage this course!", nil)
	}

	err := database.Database.Db.Model(course).Updates(map[string]interface{}{
		"is_deleted":   true,
		"is_published": false,
	}).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully!", nil)
}

// CreateSection adds a section to a course. Existing enrollments pick the
// new denominator up on their next section completion.
func CreateSection(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)

	_, _, allowed := canManageCourse(c, courseID)
	if !allowed {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You cannot manage this course!", nil)
	}

	reqData, ok := c.Locals("validatedSection").(*courseValidator.SectionRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	section := courseModels.Section{
		CourseID:    courseID,
		Title:       reqData.Title,
		Description: reqData.Description,
		VideoURL:    reqData.VideoURL,
		OrderIndex:  reqData.OrderIndex,
	}

	if err := database.Database.Db.Create(&section).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create section!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Section created successfully!", section)
}

// DeleteSection soft deletes a section
func DeleteSection(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)
	sectionID := c.Locals("sectionID").(uint)

	_, _, allowed := canManageCourse(c, courseID)
	if !allowed {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You cannot manage this course!", nil)
	}

	var section courseModels.Section
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ?", sectionID, courseID, false).First(&section).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Section not found!", nil)
	}

	if err := database.Database.Db.Model(&section).Update("is_deleted", true).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete section!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Section deleted successfully!", nil)
}

// GetDashboard returns platform counters for admins
func GetDashboard(c *fiber.Ctx) error {
	db := database.Database.Db

	var courseCount, enrollmentCount, certificateCount int64
	db.Model(&courseModels.Course{}).Where("is_deleted = ?", false).Count(&courseCount)
	db.Model(&courseModels.Enrollment{}).Count(&enrollmentCount)
	db.Model(&courseModels.Certificate{}).Count(&certificateCount)

	var platformRevenue float64
	db.Model(&courseModels.Course{}).Select("COALESCE(SUM(platform_revenue), 0)").Scan(&platformRevenue)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard fetched successfully!", fiber.Map{
		"courses":          courseCount,
		"enrollments":      enrollmentCount,
		"certificates":     certificateCount,
		"platform_revenue": platformRevenue,
	})
}
