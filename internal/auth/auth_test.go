package auth

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/mattn/go-sqlite3"
)

func testTokens() TokenService {
	return TokenService{
		Secret:   []byte("test-secret"),
		Issuer:   "campusmarket-test",
		Duration: time.Hour,
	}
}

func testRepo(t *testing.T) *Repo {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE users (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL UNIQUE,
			display_name TEXT NOT NULL DEFAULT '',
			avatar_url TEXT NOT NULL DEFAULT '',
			course TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL,
			token_version INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		t.Fatalf("create schema: %v", err)
	}
	return NewRepo(db)
}

func TestSignParseRoundTrip(t *testing.T) {
	ts := testTokens()
	a := &Account{ID: "u_1", Username: "ana", Email: "ana@campus.br", TokenVersion: 3}

	token, exp, err := ts.Sign(a)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if !exp.After(time.Now()) {
		t.Fatal("expected future expiry")
	}

	claims, err := ts.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != "u_1" || claims.Username != "ana" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.TokenVersion != 3 {
		t.Fatalf("expected token_version 3, got %d", claims.TokenVersion)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	ts := testTokens()
	a := &Account{ID: "u_1", Username: "ana", Email: "ana@campus.br"}

	token, _, err := ts.Sign(a)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	other := TokenService{Secret: []byte("other-secret"), Issuer: ts.Issuer, Duration: ts.Duration}
	if _, err := other.Parse(token); err == nil {
		t.Fatal("expected parse with wrong secret to fail")
	}
}

func TestMiddlewareRejectsStaleTokenVersion(t *testing.T) {
	gin.SetMode(gin.TestMode)

	ts := testTokens()
	repo := testRepo(t)
	ctx := context.Background()

	a := Account{
		ID: "u_1", Username: "ana", Email: "ana@campus.br",
		PasswordHash: "x", TokenVersion: 0,
	}
	if err := repo.CreateAccount(ctx, a); err != nil {
		t.Fatalf("create account: %v", err)
	}

	token, _, err := ts.Sign(&a)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	r := gin.New()
	r.GET("/secure", AuthMiddleware(ts, repo), func(c *gin.Context) {
		claims := MustGetClaims(c)
		c.JSON(http.StatusOK, gin.H{"id": claims.UserID})
	})

	do := func(tok string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/secure", nil)
		if tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
		r.ServeHTTP(w, req)
		return w.Code
	}

	if code := do(token); code != http.StatusOK {
		t.Fatalf("fresh token should pass, got %d", code)
	}
	if code := do(""); code != http.StatusUnauthorized {
		t.Fatalf("missing token should be rejected, got %d", code)
	}

	// Logout bumps the version; the old token must stop working.
	if err := repo.BumpTokenVersion(ctx, a.ID); err != nil {
		t.Fatalf("bump token version: %v", err)
	}
	if code := do(token); code != http.StatusUnauthorized {
		t.Fatalf("stale token should be rejected, got %d", code)
	}
}
