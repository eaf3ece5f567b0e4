package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"academy/internal/auth"
	"academy/internal/errors"
	"academy/internal/seed"
	"academy/internal/service"
)

// AdminRole is the role allowed to reseed the catalog.
const AdminRole = "Admin"

// SeedHandler handles seed data endpoints.
type SeedHandler struct {
	seeder  *seed.Seeder
	catalog service.CatalogService
}

// NewSeedHandler creates a new seed handler.
func NewSeedHandler(seeder *seed.Seeder, catalog service.CatalogService) *SeedHandler {
	return &SeedHandler{seeder: seeder, catalog: catalog}
}

// SeedResponse represents the seed response.
type SeedResponse struct {
	Message string      `json:"message"`
	Result  seed.Result `json:"result"`
}

// Seed godoc
// @Summary Reload the built-in users, courses and resources
// @Tags seed
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SeedResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /admin/seed [post]
func (h *SeedHandler) Seed(c echo.Context) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return handleServiceError(errors.ErrUnauthorized)
	}
	if claims.Role != AdminRole {
		return handleServiceError(errors.ErrForbidden)
	}

	data := seed.Default()
	result, err := h.seeder.Run(c.Request().Context(), data)
	if err != nil {
		c.Logger().Errorf("seed: %v", err)
		return handleServiceError(err)
	}
	h.catalog.InvalidateCache(c.Request().Context(), data.CourseIDs()...)

	return c.JSON(http.StatusOK, SeedResponse{
		Message: "seed completed",
		Result:  result,
	})
}
