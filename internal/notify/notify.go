// Package notify forwards contact messages to the site owner by email.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/resend/resend-go/v2"
	"gitlab.com/anderson.palacios/portfolio-service/internal/config"
	"gitlab.com/anderson.palacios/portfolio-service/internal/logger"
	"gitlab.com/anderson.palacios/portfolio-service/internal/model"
)

type mailerMetrics struct {
	sendLatency prometheus.Histogram
	errorCount  prometheus.Counter
	sentCount   prometheus.Counter
}

// Mailer relays contact messages through Resend. A Mailer built from an
// unconfigured EmailConfig is still safe to call; every send fails with a
// configuration error that the endpoint maps to a generic 500.
type Mailer struct {
	cfg     config.EmailConfig
	client  *resend.Client
	metrics *mailerMetrics
}

// NewMailer builds a mailer registering its metrics with the default
// Prometheus registerer.
func NewMailer(cfg config.EmailConfig) *Mailer {
	return NewMailerWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewMailerWithRegistry builds a mailer with an explicit metrics registry,
// which tests use to avoid duplicate registration.
func NewMailerWithRegistry(cfg config.EmailConfig, reg prometheus.Registerer) *Mailer {
	metrics := &mailerMetrics{
		sendLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "portfolio_email_send_duration_seconds",
			Help:    "Time taken to relay contact messages",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10},
		}),
		errorCount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "portfolio_email_errors_total",
			Help: "Total number of contact relay errors",
		}),
		sentCount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "portfolio_emails_sent_total",
			Help: "Total number of contact messages relayed",
		}),
	}
	reg.MustRegister(metrics.sendLatency)
	reg.MustRegister(metrics.errorCount)
	reg.MustRegister(metrics.sentCount)

	return &Mailer{
		cfg:     cfg,
		client:  resend.NewClient(cfg.ResendAPIKey),
		metrics: metrics,
	}
}

// SendContactMessage renders the message into the relay template and sends
// it to the configured owner address. The visitor's address goes into
// Reply-To so answering works from any mail client.
func (m *Mailer) SendContactMessage(ctx context.Context, msg model.ContactMessage) error {
	startTime := time.Now()
	log := logger.GetLogger()
	defer func() {
		m.metrics.sendLatency.Observe(time.Since(startTime).Seconds())
	}()

	if !m.cfg.Configured() {
		m.metrics.errorCount.Inc()
		return fmt.Errorf("contact relay is not configured")
	}

	htmlContent, err := renderContactEmail(msg)
	if err != nil {
		m.metrics.errorCount.Inc()
		log.Errorw("Failed to render contact email", "error", err)
		return fmt.Errorf("failed to render template: %w", err)
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", m.cfg.FromName, m.cfg.FromAddress),
		To:      []string{m.cfg.ToAddress},
		ReplyTo: msg.Email,
		Subject: fmt.Sprintf("Contacto desde el portfolio: %s", msg.Subject),
		Html:    htmlContent,
	}

	_, err = m.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		m.metrics.errorCount.Inc()
		log.Errorw("Failed to relay contact message",
			"error", err,
			"from", logger.MaskEmail(msg.Email),
			"subject", msg.Subject)
		return fmt.Errorf("email send failed: %w", err)
	}

	m.metrics.sentCount.Inc()
	log.Infow("Contact message relayed",
		"from", logger.MaskEmail(msg.Email),
		"subject", msg.Subject)
	return nil
}

func renderContactEmail(msg model.ContactMessage) (string, error) {
	tmpl, err := template.New("contact").Parse(contactEmailTemplate)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, msg); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const contactEmailTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Nuevo mensaje de contacto</title>
    <style>
        body {
            font-family: 'sans-serif';
            background-color: #f7f7f7;
            color: #333333;
            margin: 0;
            padding: 20px;
        }
        .container {
            max-width: 600px;
            margin: 20px auto;
            background-color: #ffffff;
            padding: 30px;
            border-radius: 12px;
            box-shadow: 0 4px 8px rgba(0, 0, 0, 0.05);
        }
        h1 {
            color: #2563eb;
            font-size: 24px;
            margin-bottom: 20px;
        }
        .field {
            margin-bottom: 16px;
        }
        .label {
            font-weight: bold;
            color: #555555;
        }
        .message {
            white-space: pre-wrap;
            background-color: #f1f5f9;
            padding: 16px;
            border-radius: 8px;
        }
    </style>
</head>
<body>
    <div class="container">
        <h1>Nuevo mensaje de contacto</h1>
        <div class="field"><span class="label">Nombre:</span> {{.Name}}</div>
        <div class="field"><span class="label">Email:</span> {{.Email}}</div>
        <div class="field"><span class="label">Asunto:</span> {{.Subject}}</div>
        <div class="field">
            <div class="label">Mensaje:</div>
            <div class="message">{{.Message}}</div>
        </div>
    </div>
</body>
</html>`
