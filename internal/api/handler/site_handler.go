package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/swiftcargo/movers-portal/internal/core/domain"
)

// ContentSource returns the current site content. Implementations may swap
// the value on reload, so handlers read it once per request.
type ContentSource interface {
	Content() *domain.SiteContent
}

// SiteHandler serves the public marketing content as JSON.
type SiteHandler struct {
	source ContentSource
}

func NewSiteHandler(source ContentSource) *SiteHandler {
	return &SiteHandler{source: source}
}

// Services handles GET /v1/site/services.
//
// @Summary      List offered services
// @Tags         site
// @Produce      json
// @Success      200  {array}  domain.Service
// @Router       /v1/site/services [get]
func (h *SiteHandler) Services(c echo.Context) error {
	return c.JSON(http.StatusOK, h.source.Content().Services)
}

// Service handles GET /v1/site/services/:slug.
//
// @Summary      Get one service
// @Tags         site
// @Produce      json
// @Param        slug  path      string  true  "Service slug"
// @Success      200   {object}  domain.Service
// @Failure      404   {object}  errorResponse
// @Router       /v1/site/services/{slug} [get]
func (h *SiteHandler) Service(c echo.Context) error {
	svc, ok := h.source.Content().ServiceBySlug(c.Param("slug"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "service not found")
	}
	return c.JSON(http.StatusOK, svc)
}

// Branches handles GET /v1/site/branches.
//
// @Summary      List branch offices
// @Tags         site
// @Produce      json
// @Success      200  {array}  domain.Branch
// @Router       /v1/site/branches [get]
func (h *SiteHandler) Branches(c echo.Context) error {
	return c.JSON(http.StatusOK, h.source.Content().Branches)
}

// Testimonials handles GET /v1/site/testimonials.
//
// @Summary      List customer testimonials
// @Tags         site
// @Produce      json
// @Success      200  {array}  domain.Testimonial
// @Router       /v1/site/testimonials [get]
func (h *SiteHandler) Testimonials(c echo.Context) error {
	return c.JSON(http.StatusOK, h.source.Content().Testimonials)
}
