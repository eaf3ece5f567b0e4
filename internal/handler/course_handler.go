package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"academy/internal/service"
)

// CourseHandler handles course catalog endpoints.
type CourseHandler struct {
	catalog service.CatalogService
}

// NewCourseHandler creates a new course handler.
func NewCourseHandler(catalog service.CatalogService) *CourseHandler {
	return &CourseHandler{catalog: catalog}
}

// ListCourses godoc
// @Summary List courses
// @Tags courses
// @Produce json
// @Success 200 {array} model.Course
// @Failure 500 {object} errors.ErrorResponse
// @Router /courses [get]
func (h *CourseHandler) ListCourses(c echo.Context) error {
	courses, err := h.catalog.ListCourses(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("list courses: %v", err)
		return handleServiceError(err)
	}
	return c.JSON(http.StatusOK, courses)
}

// GetCourse godoc
// @Summary Get course by id
// @Tags courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} model.Course
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /courses/{id} [get]
func (h *CourseHandler) GetCourse(c echo.Context) error {
	course, err := h.catalog.GetCourse(c.Request().Context(), c.Param("id"))
	if err != nil {
		return handleServiceError(err)
	}
	return c.JSON(http.StatusOK, course)
}
