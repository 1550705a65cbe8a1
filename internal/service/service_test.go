package service

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// createMockObjects builds a mock database handle and a mock object for
// defining our expected SQL calls.
func createMockObjects(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	return db, mock
}

// runTest executes the HTTP request with the specified arguments against a
// service backed by the given database and returns the response.
func runTest(db *sql.DB, method string, url string, body *strings.Reader) *httptest.ResponseRecorder {
	SetupDatabaseWrapper(db)
	gin.SetMode(gin.ReleaseMode)
	router := SetupHttpRouter(nil)
	recorder := httptest.NewRecorder()
	if body == nil {
		body = strings.NewReader("")
	}
	request, _ := http.NewRequest(method, url, body)
	router.ServeHTTP(recorder, request)
	return recorder
}

// TestSendTestimonial executes a POST with all four fields present. It
// expects the table creation, the insert, the timestamp read-back, and a
// success envelope with the generated id and a parseable timestamp.
func TestSendTestimonial(t *testing.T) {
	db, mock := createMockObjects(t)
	defer db.Close()

	created := time.Date(2025, time.June, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS testimonials").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO testimonials").
		WithArgs(
			"Erika Mustermann",
			"Team Lead",
			"Great experience working together on the platform.",
			"erika@example.com",
		).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectQuery("SELECT created_at FROM testimonials WHERE id = ?").
		WithArgs(int64(7)).
		WillReturnRows(mock.NewRows([]string{"created_at"}).AddRow(created))

	recorder := runTest(db, "POST", "/api/send-testimonial", strings.NewReader(`
		{
			"name": "Erika Mustermann",
			"role": "Team Lead",
			"content": "Great experience working together on the platform.",
			"email": "erika@example.com"
		}
	`))

	assert.Equal(t, http.StatusOK, recorder.Code)
	var body map[string]interface{}
	json.Unmarshal(recorder.Body.Bytes(), &body)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Testimonio recibido correctamente", body["message"])
	assert.Equal(t, 7.0, body["testimonialId"])
	parsed, err := time.Parse(time.RFC3339, body["createdAt"].(string))
	assert.NoError(t, err)
	assert.Equal(t, created, parsed)
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestSendTestimonialMissingFields executes POSTs each missing one of the
// four required fields. It expects the fixed 400 message and no database
// access at all.
func TestSendTestimonialMissingFields(t *testing.T) {
	bodies := []string{
		`{"role": "Dev", "content": "Great experience working together", "email": "a@b.com"}`,
		`{"name": "Ana", "content": "Great experience working together", "email": "a@b.com"}`,
		`{"name": "Ana", "role": "Dev", "email": "a@b.com"}`,
		`{"name": "Ana", "role": "Dev", "content": "Great experience working together"}`,
		`{"name": "", "role": "Dev", "content": "Great experience working together", "email": "a@b.com"}`,
	}
	for _, body := range bodies {
		db, mock := createMockObjects(t)

		recorder := runTest(db, "POST", "/api/send-testimonial", strings.NewReader(body))

		assert.Equal(t, http.StatusBadRequest, recorder.Code, "request body: "+body)
		var response map[string]interface{}
		json.Unmarshal(recorder.Body.Bytes(), &response)
		assert.Equal(t, "Todos los campos son requeridos", response["error"], "request body: "+body)
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("there were unfulfilled expectations: %s", err)
		}
		db.Close()
	}
}

// TestSendTestimonialMalformedBody executes a POST with an unreadable body.
// It expects the same fixed 400 answer as for missing fields.
func TestSendTestimonialMalformedBody(t *testing.T) {
	db, mock := createMockObjects(t)
	defer db.Close()

	recorder := runTest(db, "POST", "/api/send-testimonial", strings.NewReader("not JSON"))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	var response map[string]interface{}
	json.Unmarshal(recorder.Body.Bytes(), &response)
	assert.Equal(t, "Todos los campos son requeridos", response["error"])
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestSendTestimonialInsertFailure simulates a failing insert. It expects a
// generic 500 answer that does not leak the driver error.
func TestSendTestimonialInsertFailure(t *testing.T) {
	db, mock := createMockObjects(t)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS testimonials").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO testimonials").
		WillReturnError(sql.ErrConnDone)

	recorder := runTest(db, "POST", "/api/send-testimonial", strings.NewReader(`
		{
			"name": "Erika Mustermann",
			"role": "Team Lead",
			"content": "Great experience working together on the platform.",
			"email": "erika@example.com"
		}
	`))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	var response map[string]interface{}
	json.Unmarshal(recorder.Body.Bytes(), &response)
	assert.Equal(t, "Error al procesar el testimonio", response["error"])
	assert.NotContains(t, recorder.Body.String(), sql.ErrConnDone.Error())
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestSendTestimonialWithoutDatabase verifies that a missing database
// configuration is a per-request 500, not a crash.
func TestSendTestimonialWithoutDatabase(t *testing.T) {
	recorder := runTest(nil, "POST", "/api/send-testimonial", strings.NewReader(`
		{
			"name": "Erika Mustermann",
			"role": "Team Lead",
			"content": "Great experience working together on the platform.",
			"email": "erika@example.com"
		}
	`))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	var response map[string]interface{}
	json.Unmarshal(recorder.Body.Bytes(), &response)
	assert.Equal(t, "Error al procesar el testimonio", response["error"])
}

// TestListTestimonials executes a GET for the testimonial list. It expects
// the rows in the order the database returns them (newest first) and no
// email addresses in the response.
func TestListTestimonials(t *testing.T) {
	db, mock := createMockObjects(t)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS testimonials").
		WillReturnResult(sqlmock.NewResult(0, 0))
	rows := mock.NewRows([]string{"id", "name", "role", "content", "email", "created_at"}).
		AddRow(2, "Jane Roe", "Professor", "A curious and disciplined student.", "jane@example.com",
			time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC)).
		AddRow(1, "Erika Mustermann", "Team Lead", "Great experience working together.", "erika@example.com",
			time.Date(2025, time.June, 1, 10, 0, 0, 0, time.UTC))
	mock.ExpectQuery("SELECT \\* FROM testimonials ORDER BY created_at DESC, id DESC").
		WillReturnRows(rows)

	recorder := runTest(db, "GET", "/api/testimonials", nil)

	assert.Equal(t, http.StatusOK, recorder.Code)
	var testimonials []map[string]interface{}
	json.Unmarshal(recorder.Body.Bytes(), &testimonials)
	assert.Len(t, testimonials, 2)
	assert.Equal(t, 2.0, testimonials[0]["id"])
	assert.Equal(t, "Jane Roe", testimonials[0]["name"])
	assert.Equal(t, 1.0, testimonials[1]["id"])
	assert.NotContains(t, recorder.Body.String(), "example.com")
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestListTestimonialsEmpty verifies that an empty table yields an empty
// array, not an error, so a fresh deployment renders an empty wall.
func TestListTestimonialsEmpty(t *testing.T) {
	db, mock := createMockObjects(t)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS testimonials").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT \\* FROM testimonials").
		WillReturnRows(mock.NewRows([]string{"id", "name", "role", "content", "email", "created_at"}))

	recorder := runTest(db, "GET", "/api/testimonials", nil)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "[]", strings.TrimSpace(recorder.Body.String()))
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestRelayContactMessageMissingFields verifies the contact endpoint's
// required-fields contract.
func TestRelayContactMessageMissingFields(t *testing.T) {
	recorder := runTest(nil, "POST", "/api/send-email", strings.NewReader(`
		{"name": "Jane", "email": "jane@example.com", "subject": "Hi"}
	`))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	var response map[string]interface{}
	json.Unmarshal(recorder.Body.Bytes(), &response)
	assert.Equal(t, "Todos los campos son requeridos", response["error"])
}

// TestRelayContactMessageWithoutMailer verifies that an unconfigured relay
// is a generic 500, mirroring the database behavior.
func TestRelayContactMessageWithoutMailer(t *testing.T) {
	SetupMailer(nil)
	recorder := runTest(nil, "POST", "/api/send-email", strings.NewReader(`
		{"name": "Jane", "email": "jane@example.com", "subject": "Hi", "message": "Would love to talk."}
	`))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	var response map[string]interface{}
	json.Unmarshal(recorder.Body.Bytes(), &response)
	assert.Equal(t, "Error al enviar el mensaje", response["error"])
}
