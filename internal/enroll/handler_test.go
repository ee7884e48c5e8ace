package enroll

import (
	"context"
	"html/template"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nexloop/web/internal/api"
	"github.com/nexloop/web/internal/models"
	"github.com/nexloop/web/internal/session"
)

const testSID = "test-session"

const testTemplates = `
{{define "register.tmpl"}}register{{with .Notice}} notice={{.}}{{end}}{{range $k, $v := .Errors}} {{$k}}={{$v}}{{end}}{{end}}
`

type mockBackend struct {
	mock.Mock
}

func (m *mockBackend) Courses(ctx context.Context) ([]models.Course, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Course), args.Error(1)
}

func (m *mockBackend) Register(ctx context.Context, req models.EnrollmentRequest) (*models.EnrollmentResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EnrollmentResult), args.Error(1)
}

func testCourses() []models.Course {
	return []models.Course{
		{ID: 1, Title: "Web Development Bootcamp", Price: 1000},
		{ID: 2, Title: "Data Science Fundamentals", Price: 1500},
	}
}

func newTestRouter(backend Backend, store session.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(backend, store, session.Cookie{Name: "sid", TTL: time.Hour}, nil)

	r := gin.New()
	r.SetHTMLTemplate(template.Must(template.New("t").Parse(testTemplates)))
	r.GET("/register", h.ShowForm)
	r.POST("/enroll", h.Submit)
	return r
}

func submitForm(r *gin.Engine, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/enroll", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "sid", Value: testSID})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func validForm() url.Values {
	return url.Values{
		"name":   {"Jane Doe"},
		"email":  {"jane@example.com"},
		"phone":  {"9876543210"},
		"course": {"Web Development Bootcamp"},
	}
}

func TestShowFormListsCourses(t *testing.T) {
	backend := new(mockBackend)
	backend.On("Courses", mock.Anything).Return(testCourses(), nil)
	r := newTestRouter(backend, session.NewMemoryStore())

	req := httptest.NewRequest(http.MethodGet, "/register", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	backend.AssertCalled(t, "Courses", mock.Anything)
}

func TestSubmitInvalidFormSkipsBackend(t *testing.T) {
	backend := new(mockBackend)
	r := newTestRouter(backend, session.NewMemoryStore())

	form := validForm()
	form.Set("name", "Jo")
	w := submitForm(r, form)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Name must be at least 3 characters")
	backend.AssertNotCalled(t, "Courses", mock.Anything)
	backend.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestSubmitCollectsAllFieldErrors(t *testing.T) {
	backend := new(mockBackend)
	r := newTestRouter(backend, session.NewMemoryStore())

	w := submitForm(r, url.Values{
		"name":  {"Jo"},
		"email": {"not-an-email"},
		"phone": {"12345"},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Name must be at least 3 characters")
	assert.Contains(t, body, "Please enter a valid email address")
	assert.Contains(t, body, "Please enter a valid 10-digit phone number")
	assert.Contains(t, body, "Please select a course")
}

func TestSubmitValidStoresHandoffAndRedirects(t *testing.T) {
	backend := new(mockBackend)
	store := session.NewMemoryStore()
	r := newTestRouter(backend, store)

	backend.On("Courses", mock.Anything).Return(testCourses(), nil)
	backend.On("Register", mock.Anything, models.EnrollmentRequest{
		FullName:    "Jane Doe",
		Email:       "jane@example.com",
		PhoneNumber: "9876543210",
		Course:      1,
	}).Return(&models.EnrollmentResult{
		RegistrationToken: "abc123",
		OriginalAmount:    1000,
		DiscountedAmount:  1000,
	}, nil)

	w := submitForm(r, validForm())

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/payment", w.Header().Get("Location"))

	h, err := store.Handoff(context.Background(), testSID)
	require.NoError(t, err)
	require.NotNil(t, h)
	assert.Equal(t, "abc123", h.RegistrationToken)
	assert.Equal(t, 1, h.CourseID)
	assert.Equal(t, 1000.0, h.DiscountedAmount)
}

func TestSubmitNormalizesPhoneAndReferrer(t *testing.T) {
	backend := new(mockBackend)
	r := newTestRouter(backend, session.NewMemoryStore())

	backend.On("Courses", mock.Anything).Return(testCourses(), nil)
	backend.On("Register", mock.Anything, mock.MatchedBy(func(req models.EnrollmentRequest) bool {
		return req.PhoneNumber == "9876543210" && req.ReferredBy == "SAVE10"
	})).Return(&models.EnrollmentResult{RegistrationToken: "abc123"}, nil)

	form := validForm()
	form.Set("phone", "(987) 654-3210")
	form.Set("referrer", " save10 ")
	w := submitForm(r, form)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	backend.AssertExpectations(t)
}

func TestSubmitInvalidReferralMapsToFieldError(t *testing.T) {
	backend := new(mockBackend)
	r := newTestRouter(backend, session.NewMemoryStore())

	backend.On("Courses", mock.Anything).Return(testCourses(), nil)
	backend.On("Register", mock.Anything, mock.Anything).Return(nil, api.ErrInvalidReferral)

	form := validForm()
	form.Set("referrer", "NOPE")
	w := submitForm(r, form)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "referral code you entered is invalid")
}

func TestSubmitValidationDetailsShown(t *testing.T) {
	backend := new(mockBackend)
	r := newTestRouter(backend, session.NewMemoryStore())

	backend.On("Courses", mock.Anything).Return(testCourses(), nil)
	backend.On("Register", mock.Anything, mock.Anything).Return(nil,
		&api.ValidationError{Details: "email already registered"})

	w := submitForm(r, validForm())

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "email already registered")
}

func TestSubmitCourseGoneUpstream(t *testing.T) {
	backend := new(mockBackend)
	r := newTestRouter(backend, session.NewMemoryStore())

	backend.On("Courses", mock.Anything).Return(testCourses(), nil)
	backend.On("Register", mock.Anything, mock.Anything).Return(nil, api.ErrCourseNotFound)

	w := submitForm(r, validForm())

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "The selected course is no longer available.")
}

func TestSubmitUnknownCourseTitle(t *testing.T) {
	backend := new(mockBackend)
	r := newTestRouter(backend, session.NewMemoryStore())

	backend.On("Courses", mock.Anything).Return(testCourses(), nil)

	form := validForm()
	form.Set("course", "Retired Course")
	w := submitForm(r, form)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Please select a valid course")
	backend.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestSubmitBackendDown(t *testing.T) {
	backend := new(mockBackend)
	r := newTestRouter(backend, session.NewMemoryStore())

	backend.On("Courses", mock.Anything).Return(nil, assert.AnError)

	w := submitForm(r, validForm())

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "An unexpected error occurred. Please try again later.")
}
