package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrimpsizemoose/quizdrop/internal/app"
	"github.com/shrimpsizemoose/quizdrop/internal/models"
	"github.com/shrimpsizemoose/quizdrop/internal/store"
	"github.com/shrimpsizemoose/quizdrop/internal/store/file"
)

type testServer struct {
	handler  http.Handler
	dataFile string
}

func setupServer(t *testing.T) *testServer {
	t.Helper()
	dataFile := filepath.Join(t.TempDir(), "data.json")

	s, err := file.NewFileStore(&store.DBConfig{DSN: dataFile, Type: store.BackendFile})
	require.NoError(t, err)

	service := app.NewServiceWithStore(app.DefaultConfig(), s)
	return &testServer{handler: NewRouter(service), dataFile: dataFile}
}

func (ts *testServer) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	return ts.send(t, method, path, "application/json", body)
}

func (ts *testServer) send(t *testing.T, method, path, contentType, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	var payload map[string]interface{}
	if rec.Body.Len() > 0 && strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	}
	return rec, payload
}

func (ts *testServer) students(t *testing.T) []interface{} {
	t.Helper()
	rec, payload := ts.do(t, http.MethodGet, "/api/admin/data", "")
	require.Equal(t, http.StatusOK, rec.Code)
	students, ok := payload["students"].([]interface{})
	require.True(t, ok, "students must be an array, got %v", payload["students"])
	return students
}

func TestSubmit_AssignsPositionalIDs(t *testing.T) {
	ts := setupServer(t)

	rec, payload := ts.do(t, http.MethodPost, "/api/quiz/submit",
		`{"name":"Ana","email":"a@x.com","course":"Math","score":8,"maxScore":10}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Quiz submitted and data saved successfully!", payload["message"])
	assert.Equal(t, map[string]interface{}{
		"id":     float64(1),
		"name":   "Ana",
		"course": "Math",
	}, payload["data"])

	rec, payload = ts.do(t, http.MethodPost, "/api/quiz/submit",
		`{"name":"Bo","email":"b@x.com","course":"Art","score":5}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, float64(2), payload["data"].(map[string]interface{})["id"])
}

func TestSubmit_RecordsAppearInOrderWithExtraFields(t *testing.T) {
	ts := setupServer(t)

	bodies := []string{
		`{"name":"Ana","email":"a@x.com","course":"Math","score":8,"maxScore":10,"answers":{"q1":"A"}}`,
		`{"name":"Bo","email":"b@x.com","course":"Art","score":0}`,
		`{"name":"Cy","email":"c@x.com","course":"Math","score":null,"late":true}`,
	}
	for _, body := range bodies {
		rec, _ := ts.do(t, http.MethodPost, "/api/quiz/submit", body)
		require.Equal(t, http.StatusCreated, rec.Code, body)
	}

	students := ts.students(t)
	require.Len(t, students, 3)
	for i, body := range bodies {
		var expected map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(body), &expected))
		assert.Equal(t, expected, students[i])
	}
}

func TestSubmit_RejectsIncomplete(t *testing.T) {
	ts := setupServer(t)

	rec, _ := ts.do(t, http.MethodPost, "/api/quiz/submit",
		`{"name":"Ana","email":"a@x.com","course":"Math","score":8}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	bodies := map[string]string{
		"No score":      `{"name":"Bo","email":"b@x.com","course":"Art"}`,
		"Empty name":    `{"name":"","email":"b@x.com","course":"Art","score":1}`,
		"No email":      `{"name":"Bo","course":"Art","score":1}`,
		"No course":     `{"name":"Bo","email":"b@x.com","score":1}`,
		"Empty body":    ``,
		"Array body":    `[{"name":"Bo"}]`,
		"Null body":     `null`,
		"String course": `{"name":"Bo","email":"b@x.com","course":"","score":1}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			rec, payload := ts.do(t, http.MethodPost, "/api/quiz/submit", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "Missing required student data for submission.", payload["message"])
			assert.Len(t, ts.students(t), 1)
		})
	}
}

func TestSubmit_MalformedJSON(t *testing.T) {
	ts := setupServer(t)

	bodies := map[string]string{
		"Truncated":        `{"name":`,
		"Trailing garbage": `{"name":"Ana","email":"a@x.com","course":"Math","score":8} garbage`,
		"Second value":     `{"name":"Ana","email":"a@x.com","course":"Math","score":8}{`,
		"Two objects":      `{"name":"Ana","email":"a@x.com","course":"Math","score":8}{}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			rec, payload := ts.do(t, http.MethodPost, "/api/quiz/submit", body)
			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.NotEmpty(t, payload["message"])
			assert.Empty(t, ts.students(t))
		})
	}
}

func TestSubmit_TrailingWhitespace(t *testing.T) {
	ts := setupServer(t)

	rec, _ := ts.do(t, http.MethodPost, "/api/quiz/submit",
		"{\"name\":\"Ana\",\"email\":\"a@x.com\",\"course\":\"Math\",\"score\":8}\n \t\n")
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Len(t, ts.students(t), 1)
}

func TestSubmit_KeepsNumbersExact(t *testing.T) {
	ts := setupServer(t)

	rec, _ := ts.do(t, http.MethodPost, "/api/quiz/submit",
		`{"name":"Ana","email":"a@x.com","course":"Math","score":9007199254740993,"maxScore":1e2,"attempt":12345678901234567891}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	stored, err := os.ReadFile(ts.dataFile)
	require.NoError(t, err)
	assert.Contains(t, string(stored), `"score": 9007199254740993`)
	assert.Contains(t, string(stored), `"attempt": 12345678901234567891`)

	rec, _ = ts.do(t, http.MethodGet, "/api/admin/data", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"score":9007199254740993`)
	assert.Contains(t, rec.Body.String(), `"maxScore":1e2`)
	assert.Contains(t, rec.Body.String(), `"attempt":12345678901234567891`)
}

func TestSubmit_ContentType(t *testing.T) {
	body := `{"name":"Ana","email":"a@x.com","course":"Math","score":8}`

	testCases := []struct {
		name        string
		contentType string
		status      int
	}{
		{name: "JSON with charset", contentType: "application/json; charset=utf-8", status: http.StatusCreated},
		{name: "Mixed case JSON", contentType: "Application/JSON", status: http.StatusCreated},
		{name: "Plain text", contentType: "text/plain", status: http.StatusBadRequest},
		{name: "Form", contentType: "application/x-www-form-urlencoded", status: http.StatusBadRequest},
		{name: "No content type", contentType: "", status: http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ts := setupServer(t)

			rec, _ := ts.send(t, http.MethodPost, "/api/quiz/submit", tc.contentType, body)
			assert.Equal(t, tc.status, rec.Code)
			if tc.status == http.StatusCreated {
				assert.Len(t, ts.students(t), 1)
			} else {
				assert.Empty(t, ts.students(t))
			}
		})
	}
}

func TestSubmit_TooLarge(t *testing.T) {
	ts := setupServer(t)

	body := `{"name":"Ana","email":"a@x.com","course":"Math","score":1,"pad":"` +
		strings.Repeat("x", maxBodyBytes) + `"}`
	rec, _ := ts.do(t, http.MethodPost, "/api/quiz/submit", body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestData_EmptyWhenNoFile(t *testing.T) {
	ts := setupServer(t)

	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/data", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"students": []}`, rec.Body.String())

	_, err := os.Stat(ts.dataFile)
	assert.True(t, errors.Is(err, os.ErrNotExist), "reading must not create the data file")
}

func TestData_CorruptFileReadsAsEmpty(t *testing.T) {
	ts := setupServer(t)
	require.NoError(t, os.WriteFile(ts.dataFile, []byte("{not json"), 0o644))

	assert.Empty(t, ts.students(t))

	rec, payload := ts.do(t, http.MethodPost, "/api/quiz/submit",
		`{"name":"Ana","email":"a@x.com","course":"Math","score":8}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, float64(1), payload["data"].(map[string]interface{})["id"])
}

func TestData_Idempotent(t *testing.T) {
	ts := setupServer(t)
	ts.do(t, http.MethodPost, "/api/quiz/submit", `{"name":"Ana","email":"a@x.com","course":"Math","score":8}`)

	first, _ := ts.do(t, http.MethodGet, "/api/admin/data", "")
	second, _ := ts.do(t, http.MethodGet, "/api/admin/data", "")
	assert.Equal(t, first.Body.String(), second.Body.String())
}

func TestLogin(t *testing.T) {
	ts := setupServer(t)

	testCases := []struct {
		name   string
		body   string
		status int
	}{
		{name: "Configured pair", body: `{"username":"admin","password":"password123"}`, status: http.StatusOK},
		{name: "Wrong password", body: `{"username":"admin","password":"nope"}`, status: http.StatusUnauthorized},
		{name: "Wrong username", body: `{"username":"root","password":"password123"}`, status: http.StatusUnauthorized},
		{name: "Empty body", body: ``, status: http.StatusUnauthorized},
		{name: "Array body", body: `["admin","password123"]`, status: http.StatusUnauthorized},
		{name: "Numeric password", body: `{"username":"admin","password":123}`, status: http.StatusUnauthorized},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec, payload := ts.do(t, http.MethodPost, "/api/admin/login", tc.body)
			require.Equal(t, tc.status, rec.Code)

			if tc.status == http.StatusOK {
				assert.Equal(t, true, payload["success"])
				assert.Equal(t, "mock-auth-token-123", payload["token"])
				assert.Equal(t, "Login successful", payload["message"])
			} else {
				assert.Equal(t, false, payload["success"])
				assert.Equal(t, "Invalid credentials", payload["message"])
				assert.NotContains(t, payload, "token")
			}
		})
	}
}

func TestLogin_MalformedJSON(t *testing.T) {
	ts := setupServer(t)

	bodies := map[string]string{
		"Truncated":        `{"username":`,
		"Second value":     `{"username":"admin","password":"password123"}{`,
		"Trailing garbage": `{"username":"admin","password":"password123"} x`,
		"Array then junk":  `["admin","password123"] x`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			rec, payload := ts.do(t, http.MethodPost, "/api/admin/login", body)
			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.NotContains(t, payload, "token")
		})
	}
}

func TestLogin_ContentType(t *testing.T) {
	ts := setupServer(t)
	body := `{"username":"admin","password":"password123"}`

	rec, payload := ts.send(t, http.MethodPost, "/api/admin/login", "text/plain", body)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, false, payload["success"])

	rec, payload = ts.send(t, http.MethodPost, "/api/admin/login", "application/json; charset=utf-8", body)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "mock-auth-token-123", payload["token"])
}

func TestCORS(t *testing.T) {
	ts := setupServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/data", nil)
	req.Header.Set("Origin", "http://dashboard.example")
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	preflight := httptest.NewRequest(http.MethodOptions, "/api/quiz/submit", nil)
	preflight.Header.Set("Origin", "http://dashboard.example")
	preflight.Header.Set("Access-Control-Request-Method", http.MethodPost)
	preflight.Header.Set("Access-Control-Request-Headers", "content-type")
	rec = httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, preflight)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
}

func TestRoutes(t *testing.T) {
	ts := setupServer(t)

	rec, _ := ts.do(t, http.MethodGet, "/api/quiz/submit", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec, _ = ts.do(t, http.MethodGet, "/api/unknown", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	ts.students(t)
	rec, _ = ts.do(t, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "api_request_duration_seconds")
}

type failingStore struct {
	records []models.Submission
}

func (s *failingStore) Close() error                 { return nil }
func (s *failingStore) ApplyMigrations(string) error { return nil }
func (s *failingStore) Save(context.Context, []models.Submission) error {
	return errors.New("permission denied")
}
func (s *failingStore) Load(context.Context) ([]models.Submission, error) {
	return s.records, nil
}

func TestSubmit_WriteFailureStillAcknowledged(t *testing.T) {
	service := app.NewServiceWithStore(app.DefaultConfig(), &failingStore{})
	ts := &testServer{handler: NewRouter(service)}

	rec, payload := ts.do(t, http.MethodPost, "/api/quiz/submit",
		`{"name":"Ana","email":"a@x.com","course":"Math","score":8}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, float64(1), payload["data"].(map[string]interface{})["id"])
}
