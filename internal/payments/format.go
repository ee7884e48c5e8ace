package payments

import "fmt"

// INR formats an amount for display, e.g. "₹900.00".
func INR(v float64) string {
	return fmt.Sprintf("₹%.2f", v)
}

// DiscountLine formats the applied-discount line, e.g. "-₹100.00".
func DiscountLine(original, discounted float64) string {
	return fmt.Sprintf("-₹%.2f", original-discounted)
}
