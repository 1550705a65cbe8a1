package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"gitlab.com/anderson.palacios/portfolio-service/internal/cache"
	"gitlab.com/anderson.palacios/portfolio-service/internal/client"
	"gitlab.com/anderson.palacios/portfolio-service/internal/validate"
)

// Usage examples on the command line:
//
//	> go run main.go -name "Erika Mustermann" -role "Team Lead" -email erika@example.com \
//	      -content "Great experience working together on the platform."
//	> go run main.go -kind contact -name Jane -email jane@example.com \
//	      -subject "Hiring" -message "Would love to talk about a role."
func main() {
	server := flag.String("server", "http://localhost:8080", "base URL of the portfolio service")
	cacheDir := flag.String("cache-dir", ".", "directory for the local testimonial snapshot")
	kind := flag.String("kind", "testimonial", "what to submit: testimonial or contact")
	name := flag.String("name", "", "your name")
	role := flag.String("role", "", "your role (testimonial only)")
	content := flag.String("content", "", "the testimonial text")
	email := flag.String("email", "", "your email address")
	subject := flag.String("subject", "", "the message subject (contact only)")
	message := flag.String("message", "", "the message text (contact only)")
	flag.Parse()

	c := client.New(*server, cache.NewStore(*cacheDir))
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch *kind {
	case "testimonial":
		submitTestimonial(ctx, c, validate.TestimonialForm{
			Name:    *name,
			Role:    *role,
			Content: *content,
			Email:   *email,
		})
	case "contact":
		sendContactMessage(ctx, c, validate.ContactForm{
			Name:    *name,
			Email:   *email,
			Subject: *subject,
			Message: *message,
		})
	default:
		fmt.Fprintf(os.Stderr, "unknown kind %q\n", *kind)
		os.Exit(2)
	}
}

func submitTestimonial(ctx context.Context, c *client.Client, form validate.TestimonialForm) {
	testimonial, err := c.SubmitTestimonial(ctx, form)
	if err != nil {
		reportError(err)
		os.Exit(1)
	}
	fmt.Printf("Stored as %s at %s\n", testimonial.Id, testimonial.Date)
	fmt.Println()
	fmt.Println("Current testimonials (newest first):")
	for _, entry := range c.Testimonials() {
		fmt.Printf("  %-30s %-20s %s\n", entry.Name, entry.Role, entry.Date)
	}
}

func sendContactMessage(ctx context.Context, c *client.Client, form validate.ContactForm) {
	if err := c.SendContactMessage(ctx, form); err != nil {
		reportError(err)
		os.Exit(1)
	}
	fmt.Println("Message sent.")
}

// reportError prints validation errors per field and everything else as a
// single line.
func reportError(err error) {
	var validationErr *client.ValidationError
	if errors.As(err, &validationErr) {
		fields := make([]string, 0, len(validationErr.Fields))
		for field := range validationErr.Fields {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		for _, field := range fields {
			fmt.Fprintf(os.Stderr, "%s: %s\n", field, validationErr.Fields[field])
		}
		return
	}
	fmt.Fprintln(os.Stderr, err)
}
