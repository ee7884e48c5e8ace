package payments

import "github.com/nexloop/web/internal/models"

// Routes the verification poll can land on.
const (
	RouteSuccess = "/payment/success"
	RouteFailure = "/payment/failure"
	RoutePayment = "/payment"
)

// RouteForStatus maps a backend verification status to the next route.
// Total and deterministic: anything outside the known terminal statuses is
// treated as pending and routed back to the payment page.
func RouteForStatus(status string) string {
	switch status {
	case models.PaymentStatusCompleted, models.PaymentStatusSuccess:
		return RouteSuccess
	case models.PaymentStatusFailed, models.PaymentStatusFailure:
		return RouteFailure
	default:
		return RoutePayment
	}
}

// Succeeded reports whether status is a success terminal.
func Succeeded(status string) bool {
	return status == models.PaymentStatusCompleted || status == models.PaymentStatusSuccess
}

// Failed reports whether status is a failure terminal.
func Failed(status string) bool {
	return status == models.PaymentStatusFailed || status == models.PaymentStatusFailure
}
