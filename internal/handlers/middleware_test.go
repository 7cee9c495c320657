package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"roomstay/internal/auth"
	"roomstay/internal/csrf"
	"roomstay/internal/ratelimit"
)

const testJWTSecret = "test-jwt-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func signSessionToken(t *testing.T, secret, subject string) string {
	t.Helper()
	claims := auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func okHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func TestRateLimitMiddlewareExhaustsBudget(t *testing.T) {
	limiter := ratelimit.NewLimiter(time.Minute, map[ratelimit.RouteClass]int{
		ratelimit.ClassWrite: 3,
	}, true)

	r := gin.New()
	r.POST("/x", RateLimitMiddleware(limiter, ratelimit.ClassWrite), okHandler)

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/x", nil)
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: got status %d, want %d", i+1, w.Code, http.StatusOK)
		}
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/x", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("over-budget request: got status %d, want %d", w.Code, http.StatusTooManyRequests)
	}
}

func TestRateLimitMiddlewareDisabled(t *testing.T) {
	limiter := ratelimit.NewLimiter(time.Minute, map[ratelimit.RouteClass]int{
		ratelimit.ClassWrite: 1,
	}, false)

	r := gin.New()
	r.POST("/x", RateLimitMiddleware(limiter, ratelimit.ClassWrite), okHandler)

	for i := 0; i < 10; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/x", nil)
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d with limiter disabled: got status %d, want %d", i+1, w.Code, http.StatusOK)
		}
	}
}

func TestAuthMiddleware(t *testing.T) {
	verifier := auth.NewVerifier(testJWTSecret)

	r := gin.New()
	r.GET("/me", AuthMiddleware(verifier), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString(ctxUserID)})
	})

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"valid token", "Bearer " + signSessionToken(t, testJWTSecret, "user-1"), http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + signSessionToken(t, "other-secret", "user-1"), http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.jwt", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			r.ServeHTTP(w, req)
			if w.Code != tt.wantStatus {
				t.Errorf("got status %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestCSRFMiddleware(t *testing.T) {
	verifier := auth.NewVerifier(testJWTSecret)
	csrfService := csrf.NewService("csrf-secret", time.Hour)

	r := gin.New()
	r.POST("/write", AuthMiddleware(verifier), CSRFMiddleware(csrfService), okHandler)

	authHeader := "Bearer " + signSessionToken(t, testJWTSecret, "user-1")

	tests := []struct {
		name       string
		csrfToken  string
		wantStatus int
	}{
		{"valid token", csrfService.Generate("user-1"), http.StatusOK},
		{"missing token", "", http.StatusForbidden},
		{"other user's token", csrfService.Generate("user-2"), http.StatusForbidden},
		{"garbage token", "zzzz", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/write", nil)
			req.Header.Set("Authorization", authHeader)
			if tt.csrfToken != "" {
				req.Header.Set("X-CSRF-Token", tt.csrfToken)
			}
			r.ServeHTTP(w, req)
			if w.Code != tt.wantStatus {
				t.Errorf("got status %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestCSRFTokenReusableWithinWindow(t *testing.T) {
	verifier := auth.NewVerifier(testJWTSecret)
	csrfService := csrf.NewService("csrf-secret", time.Hour)

	r := gin.New()
	r.POST("/write", AuthMiddleware(verifier), CSRFMiddleware(csrfService), okHandler)

	authHeader := "Bearer " + signSessionToken(t, testJWTSecret, "user-1")
	token := csrfService.Generate("user-1")

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/write", nil)
		req.Header.Set("Authorization", authHeader)
		req.Header.Set("X-CSRF-Token", token)
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("reuse %d: got status %d, want %d", i+1, w.Code, http.StatusOK)
		}
	}
}

func TestAdminSecretMiddleware(t *testing.T) {
	r := gin.New()
	r.GET("/admin", AdminSecretMiddleware("hunter2"), okHandler)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"correct secret", "hunter2", http.StatusOK},
		{"wrong secret", "hunter3", http.StatusForbidden},
		{"missing header", "", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.header != "" {
				req.Header.Set("X-Admin-Secret", tt.header)
			}
			r.ServeHTTP(w, req)
			if w.Code != tt.wantStatus {
				t.Errorf("got status %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestAdminSecretMiddlewareUnconfigured(t *testing.T) {
	r := gin.New()
	r.GET("/admin", AdminSecretMiddleware(""), okHandler)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("X-Admin-Secret", "")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("unconfigured secret: got status %d, want %d", w.Code, http.StatusForbidden)
	}
}
