// Package enroll serves the registration form and turns a valid submission
// into an upstream enrollment plus a session hand-off to the payment stage.
package enroll

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nexloop/web/internal/api"
	"github.com/nexloop/web/internal/models"
	"github.com/nexloop/web/internal/session"
)

// Backend is the slice of the upstream client this handler needs.
type Backend interface {
	Courses(ctx context.Context) ([]models.Course, error)
	Register(ctx context.Context, req models.EnrollmentRequest) (*models.EnrollmentResult, error)
}

// Handler handles the registration page and submission.
type Handler struct {
	backend Backend
	store   session.Store
	cookie  session.Cookie
	logger  *zap.Logger
}

// NewHandler creates an enrollment handler.
func NewHandler(backend Backend, store session.Store, cookie session.Cookie, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{backend: backend, store: store, cookie: cookie, logger: logger}
}

// ShowForm handles GET /register.
func (h *Handler) ShowForm(c *gin.Context) {
	courses, err := h.backend.Courses(c.Request.Context())
	if err != nil {
		h.logger.Error("fetch courses failed", zap.Error(err))
		c.HTML(http.StatusOK, "register.tmpl", gin.H{
			"Notice": "Failed to load courses. Please try again later.",
		})
		return
	}
	c.HTML(http.StatusOK, "register.tmpl", gin.H{"Courses": courses})
}

// Submit handles POST /enroll. Validation failures never reach the
// upstream; a valid submission issues exactly one enrollment call.
func (h *Handler) Submit(c *gin.Context) {
	form := Form{
		Name:        c.PostForm("name"),
		Email:       c.PostForm("email"),
		Phone:       NormalizePhone(c.PostForm("phone")),
		Referrer:    strings.ToUpper(strings.TrimSpace(c.PostForm("referrer"))),
		CourseTitle: c.PostForm("course"),
	}

	if errs := form.Validate(); len(errs) > 0 {
		c.HTML(http.StatusBadRequest, "register.tmpl", gin.H{
			"Form":   form,
			"Errors": errs,
			"Notice": "Please check all fields and try again.",
		})
		return
	}

	courses, err := h.backend.Courses(c.Request.Context())
	if err != nil {
		h.logger.Error("fetch courses failed", zap.Error(err))
		h.renderError(c, form, "An unexpected error occurred. Please try again later.")
		return
	}
	courseID, ok := resolveCourse(courses, form.CourseTitle)
	if !ok {
		c.HTML(http.StatusBadRequest, "register.tmpl", gin.H{
			"Form":    form,
			"Courses": courses,
			"Errors":  FieldErrors{"course": "Please select a valid course"},
		})
		return
	}

	req := models.EnrollmentRequest{
		FullName:    form.Name,
		Email:       form.Email,
		PhoneNumber: form.Phone,
		ReferredBy:  form.Referrer,
		Course:      courseID,
	}
	result, err := h.backend.Register(c.Request.Context(), req)
	if err != nil {
		h.handleRegisterError(c, form, courses, err)
		return
	}

	sid := h.cookie.ID(c)
	handoff := &session.RegistrationHandoff{
		FullName:          form.Name,
		Email:             form.Email,
		PhoneNumber:       form.Phone,
		ReferredBy:        form.Referrer,
		CourseID:          courseID,
		CourseTitle:       form.CourseTitle,
		RegistrationToken: result.RegistrationToken,
		OriginalAmount:    result.OriginalAmount,
		DiscountedAmount:  result.DiscountedAmount,
	}
	if err := h.store.PutHandoff(c.Request.Context(), sid, handoff); err != nil {
		h.logger.Error("store handoff failed", zap.Error(err))
		h.renderError(c, form, "An unexpected error occurred. Please try again later.")
		return
	}

	c.Redirect(http.StatusSeeOther, "/payment")
}

// handleRegisterError maps the upstream error taxonomy onto distinct
// user-facing notifications.
func (h *Handler) handleRegisterError(c *gin.Context, form Form, courses []models.Course, err error) {
	var vErr *api.ValidationError
	switch {
	case errors.Is(err, api.ErrInvalidReferral):
		c.HTML(http.StatusBadRequest, "register.tmpl", gin.H{
			"Form":    form,
			"Courses": courses,
			"Errors":  FieldErrors{"referrer": "The referral code you entered is invalid. Please check and try again."},
		})
	case errors.As(err, &vErr):
		c.HTML(http.StatusBadRequest, "register.tmpl", gin.H{
			"Form":    form,
			"Courses": courses,
			"Notice":  vErr.Details,
		})
	case errors.Is(err, api.ErrCourseNotFound):
		c.HTML(http.StatusNotFound, "register.tmpl", gin.H{
			"Form":    form,
			"Courses": courses,
			"Notice":  "The selected course is no longer available.",
		})
	default:
		h.logger.Error("enrollment failed", zap.Error(err))
		h.renderError(c, form, "An unexpected error occurred. Please try again later.")
	}
}

func (h *Handler) renderError(c *gin.Context, form Form, notice string) {
	c.HTML(http.StatusInternalServerError, "register.tmpl", gin.H{
		"Form":   form,
		"Notice": notice,
	})
}

func resolveCourse(courses []models.Course, title string) (int, bool) {
	for _, course := range courses {
		if course.Title == title {
			return course.ID, true
		}
	}
	return 0, false
}
