package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"academy/internal/service"
)

// ProgressHandler handles learner progress endpoints.
type ProgressHandler struct {
	progressService service.ProgressService
}

// NewProgressHandler creates a new progress handler.
func NewProgressHandler(progressService service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

// CompleteLessonRequest marks one lesson of a course as completed.
type CompleteLessonRequest struct {
	CourseID string `json:"courseId" validate:"required"`
	LessonID string `json:"lessonId" validate:"required"`
}

// ListProgress godoc
// @Summary List progress of the current user
// @Tags progress
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Progress
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /progress [get]
func (h *ProgressHandler) ListProgress(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return handleServiceError(err)
	}

	records, err := h.progressService.ListProgress(c.Request().Context(), userID)
	if err != nil {
		c.Logger().Errorf("list progress %s: %v", userID, err)
		return handleServiceError(err)
	}
	return c.JSON(http.StatusOK, records)
}

// CompleteLesson godoc
// @Summary Record a completed lesson
// @Tags progress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CompleteLessonRequest true "Course and lesson"
// @Success 200 {object} model.Progress
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /progress [post]
func (h *ProgressHandler) CompleteLesson(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return handleServiceError(err)
	}

	var req CompleteLessonRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(err.Error())
	}

	progress, err := h.progressService.RecordLessonCompletion(c.Request().Context(), userID, req.CourseID, req.LessonID)
	if err != nil {
		c.Logger().Warnf("complete lesson %s/%s for %s: %v", req.CourseID, req.LessonID, userID, err)
		return handleServiceError(err)
	}
	return c.JSON(http.StatusOK, progress)
}

// Summary godoc
// @Summary Completion summary per course
// @Tags progress
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.CourseProgress
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /progress/summary [get]
func (h *ProgressHandler) Summary(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return handleServiceError(err)
	}

	summary, err := h.progressService.Summary(c.Request().Context(), userID)
	if err != nil {
		c.Logger().Errorf("progress summary %s: %v", userID, err)
		return handleServiceError(err)
	}
	return c.JSON(http.StatusOK, summary)
}
