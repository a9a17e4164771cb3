package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

func createTestUserWithPassword(t *testing.T, db *sqlx.DB, password string) string {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	id := uuid.New().String()
	email := fmt.Sprintf("test-%s@example.com", id)
	now := time.Now().Unix()
	_, err = db.Exec(`
		INSERT INTO users (id, email, password, name, created_at, updated_at)
		VALUES ($1, $2, $3, 'Test User', $4, $4)
	`, id, email, string(hashed), now)
	if err != nil {
		t.Fatalf("failed to insert user: %v", err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM users WHERE id = $1", id) })

	return email
}

func postLogin(t *testing.T, db *sqlx.DB, email, password string) *httptest.ResponseRecorder {
	t.Helper()
	body := fmt.Sprintf(`{"email": %q, "password": %q}`, email, password)
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	Login(db)(rec, req)
	return rec
}

// Wrong password for an existing account and an unknown email must be
// indistinguishable: same status, same body. Anything else lets callers
// probe which emails have accounts.
func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	db := setupTestDB(t)
	t.Setenv("APP_JWT_SECRET", "test-secret")

	email := createTestUserWithPassword(t, db, "correct-horse")

	wrongPassword := postLogin(t, db, email, "battery-staple")
	unknownEmail := postLogin(t, db, "nobody-"+email, "battery-staple")

	if wrongPassword.Code != http.StatusUnauthorized {
		t.Errorf("wrong password: status = %d, want %d", wrongPassword.Code, http.StatusUnauthorized)
	}
	if unknownEmail.Code != wrongPassword.Code {
		t.Errorf("statuses differ: wrong password %d, unknown email %d",
			wrongPassword.Code, unknownEmail.Code)
	}
	if unknownEmail.Body.String() != wrongPassword.Body.String() {
		t.Errorf("bodies differ: wrong password %q, unknown email %q",
			wrongPassword.Body.String(), unknownEmail.Body.String())
	}
}

func TestLoginSuccess(t *testing.T) {
	db := setupTestDB(t)
	t.Setenv("APP_JWT_SECRET", "test-secret")

	email := createTestUserWithPassword(t, db, "correct-horse")

	rec := postLogin(t, db, email, "correct-horse")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
	}

	var resp LoginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response: %v", err)
	}
	if !resp.OK || resp.Token == "" {
		t.Errorf("response = %+v, want ok with a token", resp)
	}
	if resp.User == nil || resp.User.Email != email {
		t.Errorf("user = %+v, want email %s", resp.User, email)
	}
}
