// Package service implements the HTTP API of the portfolio site: the
// testimonial persistence endpoint, the testimonial listing, and the
// contact relay.
package service

import (
	"database/sql"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gitlab.com/anderson.palacios/portfolio-service/internal/config"
	"gitlab.com/anderson.palacios/portfolio-service/internal/logger"
	"gitlab.com/anderson.palacios/portfolio-service/internal/model"
	"gitlab.com/anderson.palacios/portfolio-service/internal/notify"
)

// Fixed user-facing messages. The API contract pins the exact strings, so
// they are constants rather than translations.
const (
	requiredFieldsError = "Todos los campos son requeridos"
	testimonialReceived = "Testimonio recibido correctamente"
	testimonialError    = "Error al procesar el testimonio"
	contactRelayError   = "Error al enviar el mensaje"
)

// createTableStatement creates the backing table on demand. Running it is
// idempotent, so the endpoint executes it before every insert instead of
// requiring a migration step.
const createTableStatement = `
	CREATE TABLE IF NOT EXISTS testimonials (
		id INT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		role VARCHAR(255) NOT NULL,
		content TEXT NOT NULL,
		email VARCHAR(255) NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`

const insertStatement = `
	INSERT INTO testimonials (name, role, content, email)
	VALUES (?, ?, ?, ?)`

// Configuration gaps surfaced per request as generic 500 answers.
var (
	errNoDatabase = errors.New("no database configured")
	errNoMailer   = errors.New("no contact relay configured")
)

// db is a handle to the database. It stays nil when no database is
// configured; the endpoints then answer with a configuration error.
var db *sqlx.DB

// mailer relays contact messages. Nil when the relay is not set up.
var mailer *notify.Mailer

// CreateDatabase opens a database handle from the configuration. It returns
// nil when no connection details are configured; the service still starts
// and the affected endpoints degrade to 500 answers.
func CreateDatabase(cfg config.DatabaseConfig) *sql.DB {
	log := logger.GetLogger()
	if !cfg.Configured() {
		log.Warnw("No database configured, testimonial persistence disabled")
		return nil
	}
	sqlDB, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		log.Fatalw("Failed to open database handle", "error", err)
	}
	return sqlDB
}

// SetupDatabaseWrapper initializes the sqlx wrapper with the specified sql
// database. The database argument can be a real database for production use
// or a mock database within unit tests; nil disables persistence.
func SetupDatabaseWrapper(sqlDB *sql.DB) {
	if sqlDB == nil {
		db = nil
		return
	}
	db = sqlx.NewDb(sqlDB, "mysql")
}

// SetupMailer installs the contact relay mailer. Nil disables the relay.
func SetupMailer(m *notify.Mailer) {
	mailer = m
}

// SetupHttpRouter initializes the router and registers all endpoints. The
// allowed origins configure the CORS middleware; an empty list or "*"
// allows every origin.
func SetupHttpRouter(allowedOrigins []string) *gin.Engine {
	var router *gin.Engine
	if strings.EqualFold(os.Getenv("GIN_LOGGING"), "off") {
		router = gin.New()
		router.Use(gin.Recovery())
	} else {
		router = gin.Default()
	}

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	if len(allowedOrigins) == 0 || allowedOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = allowedOrigins
	}
	router.Use(cors.New(corsConfig))

	router.Static("/images", "./images")
	router.Static("/static", "./static")
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/api/testimonials", listTestimonials)
	router.POST("/api/send-testimonial", createTestimonial)
	router.POST("/api/send-email", relayContactMessage)
	return router
}

// serverError logs the cause and answers with the fixed generic message.
// Driver detail never reaches the caller.
func serverError(c *gin.Context, message string, cause error) {
	logger.GetLogger().Errorw("Request failed", "path", c.FullPath(), "error", cause)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": message})
}

// createTestimonial stores the testimonial specified in the request's JSON
// and responds with the generated id and creation timestamp. All four
// fields are required; a missing one (or an unreadable body) is answered
// with a fixed 400 message before any persistence is attempted.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/send-testimonial --request "POST" --header "Content-Type: application/json" --data '{"name": "Erika Mustermann", "role": "Team Lead", "content": "Great experience working together.", "email": "erika@example.com"}'
func createTestimonial(c *gin.Context) {
	var submission model.TestimonialSubmission
	if err := c.ShouldBindJSON(&submission); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": requiredFieldsError})
		return
	}
	if submission.Name == "" || submission.Role == "" ||
		submission.Content == "" || submission.Email == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": requiredFieldsError})
		return
	}

	if db == nil {
		serverError(c, testimonialError, errNoDatabase)
		return
	}

	// Each request works on its own connection, released on every exit path.
	ctx := c.Request.Context()
	conn, err := db.Connx(ctx)
	if err != nil {
		serverError(c, testimonialError, err)
		return
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, createTableStatement); err != nil {
		serverError(c, testimonialError, err)
		return
	}
	result, err := conn.ExecContext(ctx, insertStatement,
		submission.Name, submission.Role, submission.Content, submission.Email)
	if err != nil {
		serverError(c, testimonialError, err)
		return
	}
	id, err := result.LastInsertId()
	if err != nil {
		serverError(c, testimonialError, err)
		return
	}

	// Read back the server-assigned timestamp so the caller can display it.
	var createdAt time.Time
	err = sqlx.GetContext(ctx, conn, &createdAt,
		"SELECT created_at FROM testimonials WHERE id = ?", id)
	if err != nil {
		serverError(c, testimonialError, err)
		return
	}

	logger.GetLogger().Infow("Testimonial stored",
		"id", id, "email", logger.MaskEmail(submission.Email))
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"message":       testimonialReceived,
		"testimonialId": id,
		"createdAt":     createdAt.UTC().Format(time.RFC3339),
	})
}

// listTestimonials responds with all stored testimonials as JSON, newest
// first. An empty table yields an empty array, not an error, because an
// empty testimonial wall is a normal page state. Author emails are never
// part of the response.
//
// Example REST API call:
//
//	> curl "http://localhost:8080/api/testimonials"
func listTestimonials(c *gin.Context) {
	if db == nil {
		serverError(c, testimonialError, errNoDatabase)
		return
	}

	ctx := c.Request.Context()
	conn, err := db.Connx(ctx)
	if err != nil {
		serverError(c, testimonialError, err)
		return
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, createTableStatement); err != nil {
		serverError(c, testimonialError, err)
		return
	}
	var testimonials []model.Testimonial
	err = sqlx.SelectContext(ctx, conn, &testimonials,
		"SELECT * FROM testimonials ORDER BY created_at DESC, id DESC")
	if err != nil {
		serverError(c, testimonialError, err)
		return
	}
	if testimonials == nil {
		testimonials = []model.Testimonial{}
	}
	c.JSON(http.StatusOK, testimonials)
}

// relayContactMessage forwards a contact message to the site owner by
// email. Nothing is stored; the same four-fields-required contract applies.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/send-email --request "POST" --header "Content-Type: application/json" --data '{"name": "Jane", "email": "jane@example.com", "subject": "Hiring", "message": "Would love to talk."}'
func relayContactMessage(c *gin.Context) {
	var msg model.ContactMessage
	if err := c.ShouldBindJSON(&msg); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": requiredFieldsError})
		return
	}
	if msg.Name == "" || msg.Email == "" || msg.Subject == "" || msg.Message == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": requiredFieldsError})
		return
	}

	if mailer == nil {
		serverError(c, contactRelayError, errNoMailer)
		return
	}
	if err := mailer.SendContactMessage(c.Request.Context(), msg); err != nil {
		serverError(c, contactRelayError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
