package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"golang.org/x/crypto/bcrypt"

	"github.com/okarhu/locboard/internal/config"
)

func testConfig() config.Config {
	return config.Config{
		JWTSecret:      "test-secret-for-integration",
		JWTExpireHours: 1,
	}
}

// TestAPI_LoginThenPostAndList is an integration test: it builds the full
// router with a sqlmock-backed DB, logs in to get a JWT, posts a visit with
// the token, then lists the board with Basic credentials.
func TestAPI_LoginThenPostAndList(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	userRow := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"username", "password_hash", "email", "nickname"}).
			AddRow("integration", string(hash), "it@example.com", "itnick")
	}

	// Login: Verify looks up the stored hash.
	mock.ExpectQuery(`SELECT username, password_hash`).
		WithArgs("integration").
		WillReturnRows(userRow())

	// POST /info visit: resolve nickname, then the relative counter update.
	mock.ExpectQuery(`SELECT nickname FROM users`).
		WithArgs("integration").
		WillReturnRows(sqlmock.NewRows([]string{"nickname"}).AddRow("itnick"))
	mock.ExpectExec(`UPDATE locations SET times_visited = times_visited \+ 1`).
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	// GET /info with Basic credentials: Verify again, then the listing query.
	mock.ExpectQuery(`SELECT username, password_hash`).
		WithArgs("integration").
		WillReturnRows(userRow())
	mock.ExpectQuery(`SELECT id, name, description`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "description", "city", "country", "street_address",
			"posted_at", "latitude", "longitude", "nickname", "update_reason",
			"modified_at", "times_visited", "weather_requested",
		}).AddRow(1, "Cafe Regatta", "Seaside coffee", "Helsinki", "Finland",
			"Merikannontie 8", int64(1705314600000), 0.0, 0.0, "itnick",
			nil, nil, 1, 0))

	r := newRouter(db, testConfig())
	srv := httptest.NewServer(r)
	defer srv.Close()

	// 1) Login
	loginBody, _ := json.Marshal(map[string]string{"username": "integration", "password": "hunter2"})
	loginResp, err := http.Post(srv.URL+"/auth/login", "application/json", bytes.NewReader(loginBody))
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	defer loginResp.Body.Close()
	if loginResp.StatusCode != http.StatusOK {
		t.Fatalf("login status: got %d, want 200", loginResp.StatusCode)
	}
	var loginOut struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(loginResp.Body).Decode(&loginOut); err != nil || loginOut.Token == "" {
		t.Fatalf("login response: %v", err)
	}

	// 2) POST /info visit with Bearer token
	visit := `{"locationID": 1, "locationVisitor": "integration"}`
	req, _ := http.NewRequest("POST", srv.URL+"/info", strings.NewReader(visit))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+loginOut.Token)
	visitResp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("visit request: %v", err)
	}
	defer visitResp.Body.Close()
	if visitResp.StatusCode != http.StatusOK {
		t.Fatalf("POST /info status: got %d, want 200", visitResp.StatusCode)
	}

	// 3) GET /info with Basic credentials
	req, _ = http.NewRequest("GET", srv.URL+"/info", nil)
	req.SetBasicAuth("integration", "hunter2")
	listResp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("list request: %v", err)
	}
	defer listResp.Body.Close()
	if listResp.StatusCode != http.StatusOK {
		t.Fatalf("GET /info status: got %d, want 200", listResp.StatusCode)
	}
	var entries []struct {
		ID     int    `json:"locationID"`
		Name   string `json:"locationName"`
		Poster string `json:"originalPoster"`
	}
	if err := json.NewDecoder(listResp.Body).Decode(&entries); err != nil {
		t.Fatalf("decode entries: %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "Cafe Regatta" || entries[0].Poster != "itnick" {
		t.Errorf("unexpected entries: %+v", entries)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

// TestAPI_TopFiveIsOpen checks that the ranking endpoint needs no credentials.
func TestAPI_TopFiveIsOpen(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT id, name, times_visited`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "times_visited"}).
			AddRow(2, "Suomenlinna", 9))

	r := newRouter(db, testConfig())
	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/topfive")
	if err != nil {
		t.Fatalf("topfive request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /topfive status: got %d, want 200", resp.StatusCode)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

// TestAPI_InfoRequiresAuth checks that the board rejects anonymous requests.
func TestAPI_InfoRequiresAuth(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	r := newRouter(db, testConfig())
	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/info")
	if err != nil {
		t.Fatalf("info request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("GET /info status: got %d, want 401", resp.StatusCode)
	}
}

// TestAPI_RejectsNonJSON checks the content-type gate on the write endpoints.
func TestAPI_RejectsNonJSON(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	r := newRouter(db, testConfig())
	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/registration", "text/plain", strings.NewReader("hello"))
	if err != nil {
		t.Fatalf("registration request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnsupportedMediaType {
		t.Errorf("POST /registration status: got %d, want 415", resp.StatusCode)
	}
}

// TestAPI_Health is a quick smoke test for the health endpoint.
func TestAPI_Health(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	r := newRouter(db, testConfig())
	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("health request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /health status: got %d, want 200", resp.StatusCode)
	}
}
