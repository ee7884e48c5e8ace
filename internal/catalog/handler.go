// Package catalog serves the landing and about pages.
package catalog

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nexloop/web/internal/models"
)

// Backend is the slice of the upstream client this handler needs.
type Backend interface {
	Courses(ctx context.Context) ([]models.Course, error)
	Testimonials(ctx context.Context) ([]models.Testimonial, error)
	TeamMembers(ctx context.Context) ([]models.TeamMember, error)
}

// Handler renders the marketing pages.
type Handler struct {
	backend Backend
	logger  *zap.Logger
}

// NewHandler creates a catalog handler.
func NewHandler(backend Backend, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{backend: backend, logger: logger}
}

// Index handles GET /. Upstream trouble degrades the page rather than
// failing it: a missing catalog shows a notice, missing testimonials just
// drop the section.
func (h *Handler) Index(c *gin.Context) {
	data := gin.H{}

	courses, err := h.backend.Courses(c.Request.Context())
	if err != nil {
		h.logger.Error("fetch courses failed", zap.Error(err))
		data["Notice"] = "Failed to load courses. Please try again later."
	} else {
		data["Courses"] = courses
	}

	testimonials, err := h.backend.Testimonials(c.Request.Context())
	if err != nil {
		h.logger.Warn("fetch testimonials failed", zap.Error(err))
	} else {
		data["Testimonials"] = testimonials
	}

	c.HTML(http.StatusOK, "index.tmpl", data)
}

// About handles GET /about.
func (h *Handler) About(c *gin.Context) {
	data := gin.H{}
	team, err := h.backend.TeamMembers(c.Request.Context())
	if err != nil {
		h.logger.Warn("fetch team members failed", zap.Error(err))
	} else {
		data["Team"] = team
	}
	c.HTML(http.StatusOK, "about.tmpl", data)
}
