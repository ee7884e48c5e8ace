package models

// Testimonial is a student quote shown on the landing page.
type Testimonial struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Institution string `json:"institution"`
	Course      string `json:"course"`
	Rating      int    `json:"rating"`
	Quote       string `json:"quote"`
	Image       string `json:"image"`
}

// TeamMember is shown on the about page.
type TeamMember struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	Bio   string `json:"bio"`
	Image string `json:"image"`
}
