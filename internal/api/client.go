// Package api is the typed client for the upstream courses API. Every call
// takes a context and returns a decoded view model or a taxonomy error from
// errors.go; the client holds no state beyond the base URL and timeout.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/nexloop/web/internal/models"
)

// Client talks to the courses backend.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// New creates a client for the given base URL (no trailing slash).
func New(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Courses fetches the catalog. GET /courses/
func (c *Client) Courses(ctx context.Context) ([]models.Course, error) {
	var out []models.Course
	if err := c.do(ctx, http.MethodGet, "/courses/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Register creates an enrollment. POST /enroll/register
func (c *Client) Register(ctx context.Context, req models.EnrollmentRequest) (*models.EnrollmentResult, error) {
	var out models.EnrollmentResult
	if err := c.do(ctx, http.MethodPost, "/enroll/register", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Registration re-fetches a registration by its token. GET /enroll/{token}
func (c *Client) Registration(ctx context.Context, token string) (*models.RegistrationDetails, error) {
	var out models.RegistrationDetails
	if err := c.do(ctx, http.MethodGet, "/enroll/"+url.PathEscape(token), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ApplyCoupon applies a discount code. PUT /enroll/apply-coupon
func (c *Client) ApplyCoupon(ctx context.Context, req models.CouponRequest) (*models.CouponResult, error) {
	var out models.CouponResult
	if err := c.do(ctx, http.MethodPut, "/enroll/apply-coupon", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreatePayment creates or resumes a payment session.
// POST /create-payment/create-payment
func (c *Client) CreatePayment(ctx context.Context, req models.CreatePaymentRequest) (*models.PaymentSession, error) {
	var out models.PaymentSession
	if err := c.do(ctx, http.MethodPost, "/create-payment/create-payment", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyPayment polls the status of an order.
// GET /create-payment/verify/{orderId}
func (c *Client) VerifyPayment(ctx context.Context, orderID string) (*models.Verification, error) {
	var out models.Verification
	if err := c.do(ctx, http.MethodGet, "/create-payment/verify/"+url.PathEscape(orderID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Testimonials fetches landing-page quotes. GET /create-payment/testimonials
func (c *Client) Testimonials(ctx context.Context) ([]models.Testimonial, error) {
	var out []models.Testimonial
	if err := c.do(ctx, http.MethodGet, "/create-payment/testimonials", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TeamMembers fetches the about-page roster. GET /team-members/
func (c *Client) TeamMembers(ctx context.Context) ([]models.TeamMember, error) {
	var out []models.TeamMember
	if err := c.do(ctx, http.MethodGet, "/team-members/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("upstream error",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
		return decodeError(resp.StatusCode, data)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
