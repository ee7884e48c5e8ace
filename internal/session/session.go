// Package session holds the typed per-visitor hand-off records passed
// between the registration, payment and result pages, keyed by an opaque
// session cookie. At most one pending hand-off exists per visitor; the
// terminal pages consume their record with a single read-then-clear.
package session

// AppliedCoupon is the locally stored discount state layered on top of the
// server-confirmed coupon result. Cleared on removal.
type AppliedCoupon struct {
	Code            string  `json:"code"`
	DiscountPercent float64 `json:"discount_percent"`
	DiscountedPrice float64 `json:"discounted_price"`
}

// RegistrationHandoff carries a completed registration into the payment
// stage. Written once on successful enrollment, read and mutated (coupon
// state only) by the payment page.
type RegistrationHandoff struct {
	FullName          string         `json:"full_name"`
	Email             string         `json:"email"`
	PhoneNumber       string         `json:"phone_number"`
	ReferredBy        string         `json:"referred_by"`
	CourseID          int            `json:"course"`
	CourseTitle       string         `json:"course_title"`
	RegistrationToken string         `json:"registration_token"`
	OriginalAmount    float64        `json:"original_amount"`
	DiscountedAmount  float64        `json:"discounted_amount"`
	Coupon            *AppliedCoupon `json:"coupon,omitempty"`
}

// PaymentOutcome is the pending-payment record written at checkout open,
// merged by checkout events and the verification poll, and consumed once
// by the terminal success/failure page.
type PaymentOutcome struct {
	OrderID       string  `json:"order_id"`
	Amount        float64 `json:"amount"`
	Status        string  `json:"status"`
	TransactionID string  `json:"transaction_id,omitempty"`
	Message       string  `json:"message,omitempty"`
	ErrorMessage  string  `json:"error_message,omitempty"`
	CourseTitle   string  `json:"course_title,omitempty"`
	CustomerName  string  `json:"customer_name"`
	CustomerEmail string  `json:"customer_email"`
	CustomerPhone string  `json:"customer_phone"`
}
