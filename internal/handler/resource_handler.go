package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"academy/internal/model"
	"academy/internal/service"
)

// ResourceHandler handles the resource library.
type ResourceHandler struct {
	catalog service.CatalogService
}

// NewResourceHandler creates a new resource handler.
func NewResourceHandler(catalog service.CatalogService) *ResourceHandler {
	return &ResourceHandler{catalog: catalog}
}

// ListResources godoc
// @Summary List resources
// @Tags resources
// @Produce json
// @Param category query string false "Category, or all"
// @Param q query string false "Search in title and description"
// @Success 200 {array} model.Resource
// @Failure 500 {object} errors.ErrorResponse
// @Router /resources [get]
func (h *ResourceHandler) ListResources(c echo.Context) error {
	filter := model.ResourceFilter{
		Category: c.QueryParam("category"),
		Query:    c.QueryParam("q"),
	}
	resources, err := h.catalog.ListResources(c.Request().Context(), filter)
	if err != nil {
		c.Logger().Errorf("list resources: %v", err)
		return handleServiceError(err)
	}
	return c.JSON(http.StatusOK, resources)
}
