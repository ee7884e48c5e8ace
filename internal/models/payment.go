package models

// Payment session statuses returned by POST /create-payment/create-payment.
// PAID short-circuits to the success page, PENDING resumes the session id
// already held by the backend, anything else is a freshly created session.
const (
	SessionStatusPaid    = "PAID"
	SessionStatusPending = "PENDING"
	SessionStatusCreated = "CREATED"
)

// Verification statuses returned by GET /create-payment/verify/{orderId}.
const (
	PaymentStatusCompleted = "Completed"
	PaymentStatusSuccess   = "Success"
	PaymentStatusFailed    = "Failed"
	PaymentStatusFailure   = "Failure"
	PaymentStatusInitiated = "Initiated"
)

// PaymentSession is one checkout attempt issued by the backend. The session
// id is what gets handed to the hosted checkout surface.
type PaymentSession struct {
	PaymentSessionID string  `json:"payment_session_id"`
	OrderID          string  `json:"order_id"`
	Amount           float64 `json:"amount"`
	Status           string  `json:"status"`
	Message          string  `json:"message"`
}

// CreatePaymentRequest is the body for POST /create-payment/create-payment.
type CreatePaymentRequest struct {
	Course             int `json:"course"`
	CourseRegistration int `json:"courseregistration"`
}

// Verification is the backend's answer to a payment status poll.
type Verification struct {
	Status        string  `json:"status"`
	Message       string  `json:"message"`
	Amount        float64 `json:"amount"`
	TransactionID string  `json:"transaction_id"`
	ErrorMessage  string  `json:"error_message"`
	CourseTitle   string  `json:"course_title"`
	CustomerName  string  `json:"customer_name"`
	CustomerEmail string  `json:"customer_email"`
	CustomerPhone string  `json:"customer_phone"`
}
