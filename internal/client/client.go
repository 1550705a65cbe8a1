// Package client implements the submission side of the portfolio forms: it
// validates input, talks to the service, and maintains the newest-first
// testimonial list backed by the local cache.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"gitlab.com/anderson.palacios/portfolio-service/internal/cache"
	"gitlab.com/anderson.palacios/portfolio-service/internal/validate"
	"gitlab.com/anderson.palacios/portfolio-service/pkg/model"
)

// genericSubmitError is shown when the server did not provide a message of
// its own.
const genericSubmitError = "Hubo un problema al añadir tu testimonio. Por favor, inténtalo de nuevo."

// ValidationError carries the per-field messages of a rejected form. The
// request never left the process.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("form validation failed on %d field(s)", len(e.Fields))
}

// SubmissionError is a failed exchange with the service. Message is safe to
// show to the user.
type SubmissionError struct {
	StatusCode int
	Message    string
}

func (e *SubmissionError) Error() string {
	return e.Message
}

// ErrSubmissionInFlight is returned when a submission is attempted while a
// previous one has not finished. The submit control is supposed to be
// disabled during that window; this guard backs it up.
var ErrSubmissionInFlight = fmt.Errorf("a submission is already in flight")

// Client submits forms to the portfolio service. One Client corresponds to
// one page session: it owns the displayed testimonial list and its cache
// snapshot.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      *cache.Store

	mu           sync.Mutex
	submitting   bool
	testimonials []model.Testimonial
}

// New builds a client for the service at baseURL, seeding the testimonial
// list from the cache snapshot in store.
func New(baseURL string, store *cache.Store) *Client {
	return &Client{
		baseURL:      baseURL,
		httpClient:   &http.Client{Timeout: 15 * time.Second},
		store:        store,
		testimonials: store.Load(),
	}
}

// Testimonials returns a copy of the current display list, newest first.
func (c *Client) Testimonials() []model.Testimonial {
	c.mu.Lock()
	defer c.mu.Unlock()
	list := make([]model.Testimonial, len(c.testimonials))
	copy(list, c.testimonials)
	return list
}

// Submitting reports whether a submission is currently in flight.
func (c *Client) Submitting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitting
}

// SubmitTestimonial validates the form and, when it passes, sends it to the
// service in a single attempt. On success the canonical testimonial is
// prepended to the list, the cache snapshot is rewritten, and the entity is
// returned; the server-assigned id and timestamp are used when the answer
// carries them, client fallbacks otherwise. On any failure the list is
// untouched so the caller can keep the form contents and resubmit.
func (c *Client) SubmitTestimonial(ctx context.Context, form validate.TestimonialForm) (model.Testimonial, error) {
	if ok, fieldErrors := validate.Testimonial(form); !ok {
		return model.Testimonial{}, &ValidationError{Fields: fieldErrors}
	}

	if err := c.enterSubmitting(); err != nil {
		return model.Testimonial{}, err
	}
	defer c.leaveSubmitting()

	payload := map[string]string{
		"name":    form.Name,
		"role":    form.Role,
		"content": form.Content,
		"email":   form.Email,
	}
	body, err := c.post(ctx, "/api/send-testimonial", payload)
	if err != nil {
		return model.Testimonial{}, err
	}

	var ack model.SubmissionAck
	if err := json.Unmarshal(body, &ack); err != nil {
		return model.Testimonial{}, &SubmissionError{Message: genericSubmitError}
	}

	testimonial := model.Testimonial{
		Id:      string(ack.TestimonialId),
		Name:    form.Name,
		Role:    form.Role,
		Content: form.Content,
		Avatar:  model.DefaultAvatar,
		Date:    ack.CreatedAt,
	}
	if testimonial.Id == "" {
		testimonial.Id = fallbackId()
	}
	if testimonial.Date == "" {
		testimonial.Date = time.Now().UTC().Format(time.RFC3339)
	}

	c.mu.Lock()
	c.testimonials = append([]model.Testimonial{testimonial}, c.testimonials...)
	snapshot := make([]model.Testimonial, len(c.testimonials))
	copy(snapshot, c.testimonials)
	c.mu.Unlock()

	// Cache write failures are not submission failures; the server already
	// accepted the record.
	_ = c.store.Save(snapshot)
	return testimonial, nil
}

// SendContactMessage validates the contact form and relays it to the
// service. Nothing is stored locally.
func (c *Client) SendContactMessage(ctx context.Context, form validate.ContactForm) error {
	if ok, fieldErrors := validate.Contact(form); !ok {
		return &ValidationError{Fields: fieldErrors}
	}

	if err := c.enterSubmitting(); err != nil {
		return err
	}
	defer c.leaveSubmitting()

	payload := map[string]string{
		"name":    form.Name,
		"email":   form.Email,
		"subject": form.Subject,
		"message": form.Message,
	}
	_, err := c.post(ctx, "/api/send-email", payload)
	return err
}

func (c *Client) enterSubmitting() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.submitting {
		return ErrSubmissionInFlight
	}
	c.submitting = true
	return nil
}

func (c *Client) leaveSubmitting() {
	c.mu.Lock()
	c.submitting = false
	c.mu.Unlock()
}

// post sends one request, no retries. A non-2xx answer becomes a
// SubmissionError carrying the server's message when it provided one.
func (c *Client) post(ctx context.Context, path string, payload map[string]string) ([]byte, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return nil, err
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, &SubmissionError{Message: genericSubmitError}
	}
	defer response.Body.Close()

	body := new(bytes.Buffer)
	if _, err := body.ReadFrom(response.Body); err != nil {
		return nil, &SubmissionError{Message: genericSubmitError}
	}

	if response.StatusCode < 200 || response.StatusCode > 299 {
		message := genericSubmitError
		var envelope struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(body.Bytes(), &envelope); err == nil && envelope.Error != "" {
			message = envelope.Error
		}
		return nil, &SubmissionError{StatusCode: response.StatusCode, Message: message}
	}
	return body.Bytes(), nil
}

// fallbackId builds the client-side id used when the server did not assign
// one: user_<unix milliseconds>_<random suffix>.
func fallbackId() string {
	const letters = "abcdefghijklmnopqrstuvwxyz0123456789"
	suffix := make([]byte, 7)
	for i := range suffix {
		suffix[i] = letters[rand.Intn(len(letters))]
	}
	return fmt.Sprintf("user_%d_%s", time.Now().UnixMilli(), suffix)
}
