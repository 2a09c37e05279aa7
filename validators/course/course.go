package courseValidator

import (
	"strconv"
	"strings"
	"time"

	"learnhub/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// CourseRequest is the validated course create/update payload
type CourseRequest struct {
	Title              string     `json:"title" validate:"required,min=3,max=200"`
	Description        string     `json:"description" validate:"max=5000"`
	Price              float64    `json:"price" validate:"gte=0"`
	MaxStudents        *int       `json:"max_students" validate:"omitempty,gt=0"`
	EnrollmentDeadline *time.Time `json:"enrollment_deadline"`
	ThumbnailURL       string     `json:"thumbnail_url" validate:"omitempty,url"`
}

// SectionRequest is the validated section create/update payload
type SectionRequest struct {
	Title       string `json:"title" validate:"required,min=2,max=200"`
	Description string `json:"description" validate:"max=5000"`
	VideoURL    string `json:"video_url" validate:"omitempty,url"`
	OrderIndex  int    `json:"order_index" validate:"gte=0"`
}

// Pagination is an optional page/limit query pair
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// CourseID validates the :id route param
func CourseID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseIDStr := strings.TrimSpace(c.Params("id"))
		if courseIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course ID is required!", nil)
		}

		courseID, err := strconv.Atoi(courseIDStr)
		if err != nil || courseID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		c.Locals("courseID", uint(courseID))
		return c.Next()
	}
}

// SectionID validates the :section_id route param
func SectionID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sectionIDStr := strings.TrimSpace(c.Params("section_id"))
		sectionID, err := strconv.Atoi(sectionIDStr)
		if err != nil || sectionID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Section ID!", nil)
		}

		c.Locals("sectionID", uint(sectionID))
		return c.Next()
	}
}

func CreateCourse() fiber.Handler {
	return bodyValidator("validatedCourse", func() interface{} { return new(CourseRequest) })
}

func UpdateCourse() fiber.Handler {
	return bodyValidator("validatedCourseUpdate", func() interface{} { return new(CourseRequest) })
}

func CreateSection() fiber.Handler {
	return bodyValidator("validatedSection", func() interface{} { return new(SectionRequest) })
}

func bodyValidator(localsKey string, factory func() interface{}) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := factory()
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			errors := make(map[string]string)
			for _, fieldErr := range err.(validator.ValidationErrors) {
				errors[fieldErr.Field()] = "Invalid value for " + fieldErr.Field() + "!"
			}
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals(localsKey, reqData)
		return c.Next()
	}
}

// CourseList validates optional pagination query params, defaulting to the
// first page of ten.
func CourseList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		page := c.QueryInt("page", 1)
		limit := c.QueryInt("limit", 10)

		errors := make(map[string]string)
		if page < 1 {
			errors["page"] = "Page must be greater than 0!"
		}
		if limit < 1 || limit > 100 {
			errors["limit"] = "Limit must be between 1 and 100!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedPagination", &Pagination{Page: page, Limit: limit})
		return c.Next()
	}
}
