package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type staticTokens map[string]int64

func (s staticTokens) Parse(token string) (int64, error) {
	if id, ok := s[token]; ok {
		return id, nil
	}
	return 0, errors.New("invalid token")
}

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append(mw, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetInt64("user_id")})
	})
	r.GET("/x", handlers...)
	return r
}

func do(r http.Handler, header, value string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if header != "" {
		req.Header.Set(header, value)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWT(t *testing.T) {
	r := newRouter(JWT(staticTokens{"good": 7}))

	cases := []struct {
		name   string
		value  string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer good", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(r, "Authorization", tc.value)
			if w.Code != tc.status {
				t.Fatalf("status = %d; want %d", w.Code, tc.status)
			}
		})
	}
}

func TestServiceToken(t *testing.T) {
	r := newRouter(ServiceToken("s3cret"))
	if w := do(r, "X-Service-Token", "wrong"); w.Code != http.StatusForbidden {
		t.Fatalf("wrong token: status %d", w.Code)
	}
	if w := do(r, "", ""); w.Code != http.StatusForbidden {
		t.Fatalf("missing token: status %d", w.Code)
	}
	if w := do(r, "X-Service-Token", "s3cret"); w.Code != http.StatusOK {
		t.Fatalf("valid token: status %d", w.Code)
	}

	disabled := newRouter(ServiceToken(""))
	if w := do(disabled, "X-Service-Token", ""); w.Code != http.StatusForbidden {
		t.Fatalf("empty configured token must reject, got %d", w.Code)
	}
}

func TestSimpleRateLimit(t *testing.T) {
	r := newRouter(SimpleRateLimit(2, time.Minute))
	for i := 0; i < 2; i++ {
		if w := do(r, "", ""); w.Code != http.StatusOK {
			t.Fatalf("request %d: status %d", i, w.Code)
		}
	}
	if w := do(r, "", ""); w.Code != http.StatusTooManyRequests {
		t.Fatalf("third request: status %d; want 429", w.Code)
	}
}

func TestRedisRateLimit_NilClientFallsBack(t *testing.T) {
	r := newRouter(RedisRateLimit(nil, 1, time.Minute))
	do(r, "", "")
	if w := do(r, "", ""); w.Code != http.StatusTooManyRequests {
		t.Fatalf("status %d; want in-process limiter to block", w.Code)
	}
}

func TestRequestID(t *testing.T) {
	r := newRouter(RequestID())

	w := do(r, "", "")
	if _, err := uuid.Parse(w.Header().Get(RequestIDHeader)); err != nil {
		t.Fatalf("generated request id %q is not a uuid", w.Header().Get(RequestIDHeader))
	}

	id := uuid.NewString()
	if w := do(r, RequestIDHeader, id); w.Header().Get(RequestIDHeader) != id {
		t.Fatal("incoming request id not reused")
	}
	if w := do(r, RequestIDHeader, "not-a-uuid"); w.Header().Get(RequestIDHeader) == "not-a-uuid" {
		t.Fatal("invalid incoming request id echoed back")
	}
}
