package model

import "time"

// Testimonial is the data structure for an endorsement stored on the database.
// The email address is collected for contact purposes only and is never
// serialized into API responses.
type Testimonial struct {
	Id        int64     `json:"id"        db:"id"`
	Name      string    `json:"name"      db:"name"`
	Role      string    `json:"role"      db:"role"`
	Content   string    `json:"content"   db:"content"`
	Email     string    `json:"-"         db:"email"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// TestimonialSubmission is the request body of the testimonial endpoint.
// All four fields are required.
type TestimonialSubmission struct {
	Name    string `json:"name"`
	Role    string `json:"role"`
	Content string `json:"content"`
	Email   string `json:"email"`
}

// ContactMessage is the request body of the contact relay endpoint. It is
// forwarded by email and never stored.
type ContactMessage struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}
