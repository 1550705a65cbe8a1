package client

import "gitlab.com/anderson.palacios/portfolio-service/internal/validate"

// FormState tracks the testimonial dialog's fields together with their
// validation errors. Editing a field clears only that field's previous
// error; full validation runs again on submit.
type FormState struct {
	fields map[string]string
	errors map[string]string
}

// NewFormState returns an empty form.
func NewFormState() *FormState {
	return &FormState{
		fields: map[string]string{},
		errors: map[string]string{},
	}
}

// SetField updates one field and drops its previous error, mirroring the
// immediate per-field feedback contract of the page.
func (f *FormState) SetField(name, value string) {
	f.fields[name] = value
	delete(f.errors, name)
}

// Field returns the current value of a field.
func (f *FormState) Field(name string) string {
	return f.fields[name]
}

// Errors returns the current per-field error messages.
func (f *FormState) Errors() map[string]string {
	return f.errors
}

// Validate runs the full testimonial validation and stores the resulting
// field errors, replacing any previous ones.
func (f *FormState) Validate() bool {
	ok, fieldErrors := validate.Testimonial(f.TestimonialForm())
	f.errors = fieldErrors
	return ok
}

// TestimonialForm assembles the raw form values.
func (f *FormState) TestimonialForm() validate.TestimonialForm {
	return validate.TestimonialForm{
		Name:    f.fields["name"],
		Role:    f.fields["role"],
		Content: f.fields["content"],
		Email:   f.fields["email"],
	}
}

// Reset clears all fields and errors, as after a successful submission.
func (f *FormState) Reset() {
	f.fields = map[string]string{}
	f.errors = map[string]string{}
}
