package enroll

import (
	"regexp"
	"strings"
)

var (
	nameRe  = regexp.MustCompile(`^[a-zA-Z\s]*$`)
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe = regexp.MustCompile(`^[0-9]{10}$`)
	digitRe = regexp.MustCompile(`\D`)
)

// Form is the user-entered registration input. Referrer is optional free
// text and never validated.
type Form struct {
	Name        string
	Email       string
	Phone       string
	Referrer    string
	CourseTitle string
}

// FieldErrors maps form field name to a single user-facing message.
type FieldErrors map[string]string

// NormalizePhone retains digits only and truncates to 10 characters, the
// same shaping the input applies before validation.
func NormalizePhone(v string) string {
	v = digitRe.ReplaceAllString(v, "")
	if len(v) > 10 {
		v = v[:10]
	}
	return v
}

// ValidateName checks the full name field. Empty string means valid.
func ValidateName(v string) string {
	if strings.TrimSpace(v) == "" {
		return "Name is required"
	}
	if len(strings.TrimSpace(v)) < 3 {
		return "Name must be at least 3 characters"
	}
	if !nameRe.MatchString(v) {
		return "Name should only contain letters and spaces"
	}
	return ""
}

// ValidateEmail checks the email field.
func ValidateEmail(v string) string {
	if strings.TrimSpace(v) == "" {
		return "Email is required"
	}
	if !emailRe.MatchString(v) {
		return "Please enter a valid email address"
	}
	return ""
}

// ValidatePhone checks an already normalized phone value.
func ValidatePhone(v string) string {
	if strings.TrimSpace(v) == "" {
		return "Phone number is required"
	}
	if !phoneRe.MatchString(v) {
		return "Please enter a valid 10-digit phone number"
	}
	return ""
}

// ValidateCourse checks that a course was selected.
func ValidateCourse(v string) string {
	if v == "" {
		return "Please select a course"
	}
	return ""
}

// Validate runs every field validator and collects one message per failing
// field. An empty result means the form may be submitted.
func (f Form) Validate() FieldErrors {
	errs := FieldErrors{}
	if msg := ValidateName(f.Name); msg != "" {
		errs["name"] = msg
	}
	if msg := ValidateEmail(f.Email); msg != "" {
		errs["email"] = msg
	}
	if msg := ValidatePhone(f.Phone); msg != "" {
		errs["phone"] = msg
	}
	if msg := ValidateCourse(f.CourseTitle); msg != "" {
		errs["course"] = msg
	}
	return errs
}
