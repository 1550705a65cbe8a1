// Package validate implements the field-level checks for the two forms the
// site accepts. Every field is checked independently so the caller can show
// all violations at once.
package validate

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"gitlab.com/anderson.palacios/portfolio-service/internal/moderation"
)

// emailPattern is the simple local@domain.tld shape, the same one the page
// enforces. It is deliberately loose; the address is only used for replies.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// filter is the content filter applied to testimonial text.
var filter = moderation.Default()

// TestimonialForm carries the raw input of the testimonial dialog.
type TestimonialForm struct {
	Name    string
	Role    string
	Content string
	Email   string
}

// ContactForm carries the raw input of the contact form.
type ContactForm struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// Testimonial validates a testimonial form. It returns whether the form may
// be submitted and a message per failing field.
func Testimonial(form TestimonialForm) (bool, map[string]string) {
	errors := map[string]string{}

	if strings.TrimSpace(form.Name) == "" {
		errors["name"] = "El nombre es obligatorio"
	} else if utf8.RuneCountInString(form.Name) < 3 {
		errors["name"] = "El nombre debe tener al menos 3 caracteres"
	}

	if strings.TrimSpace(form.Role) == "" {
		errors["role"] = "El rol es obligatorio"
	} else if utf8.RuneCountInString(form.Role) < 3 {
		errors["role"] = "El rol debe tener al menos 3 caracteres"
	}

	if strings.TrimSpace(form.Email) == "" {
		errors["email"] = "El email es obligatorio"
	} else if !emailPattern.MatchString(form.Email) {
		errors["email"] = "El email no es válido"
	}

	if strings.TrimSpace(form.Content) == "" {
		errors["content"] = "El testimonio es obligatorio"
	} else if utf8.RuneCountInString(form.Content) < 20 {
		errors["content"] = "El testimonio debe tener al menos 20 caracteres"
	} else if result := filter.Validate(form.Content); !result.IsValid {
		errors["content"] = result.ErrorMessage
	}

	return len(errors) == 0, errors
}

// Contact validates a contact form. Unlike testimonials, the message text is
// not run through the content filter.
func Contact(form ContactForm) (bool, map[string]string) {
	errors := map[string]string{}

	if strings.TrimSpace(form.Name) == "" {
		errors["name"] = "El nombre es requerido"
	}

	if strings.TrimSpace(form.Email) == "" {
		errors["email"] = "El email es requerido"
	} else if !emailPattern.MatchString(form.Email) {
		errors["email"] = "Email inválido"
	}

	if strings.TrimSpace(form.Subject) == "" {
		errors["subject"] = "El asunto es requerido"
	}

	if strings.TrimSpace(form.Message) == "" {
		errors["message"] = "El mensaje es requerido"
	} else if utf8.RuneCountInString(form.Message) < 10 {
		errors["message"] = "El mensaje debe tener al menos 10 caracteres"
	}

	return len(errors) == 0, errors
}
