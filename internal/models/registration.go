package models

// EnrollmentRequest is the body for POST /enroll/register upstream.
type EnrollmentRequest struct {
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	ReferredBy  string `json:"referred_by"`
	Course      int    `json:"course"`
}

// EnrollmentResult is the upstream response to a successful enrollment.
type EnrollmentResult struct {
	RegistrationToken string  `json:"registration_token"`
	OriginalAmount    float64 `json:"original_amount"`
	DiscountedAmount  float64 `json:"discounted_amount"`
	Message           string  `json:"message"`
}

// RegistrationDetails is a registration re-fetched by its token.
// DiscountedAmount is mutated locally while a coupon is applied; everything
// else is read-only server state.
type RegistrationDetails struct {
	RegisterID        int     `json:"register_id"`
	CourseID          int     `json:"course_id"`
	FullName          string  `json:"full_name"`
	Email             string  `json:"email"`
	PhoneNumber       string  `json:"phone_number"`
	ReferredBy        string  `json:"referred_by"`
	Price             float64 `json:"price"`
	DiscountedAmount  float64 `json:"discounted_amount"`
	RegistrationToken string  `json:"registration_token"`
	Title             string  `json:"title"`
}
