package models

// CouponRequest is the body for PUT /enroll/apply-coupon upstream.
type CouponRequest struct {
	RegistrationID int    `json:"registrationid"`
	CourseID       int    `json:"courseid"`
	Code           string `json:"code"`
}

// CouponResult is the server-confirmed outcome of applying a coupon code.
type CouponResult struct {
	Message         string  `json:"message"`
	OriginalPrice   float64 `json:"original_price"`
	DiscountPercent float64 `json:"discount_percent"`
	DiscountedPrice float64 `json:"discounted_price"`
	RegistrationID  int     `json:"registration_id"`
}
