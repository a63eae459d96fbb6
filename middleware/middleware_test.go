package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"hotel-billing/services"
	"hotel-billing/utils"
)

type stubResolver struct {
	id  services.Identity
	err error
}

func (s stubResolver) ResolveIdentity(_ context.Context, staffID uint) (services.Identity, error) {
	if s.err != nil {
		return services.Identity{}, s.err
	}
	id := s.id
	id.UserID = staffID
	return id, nil
}

func newRouter(resolver IdentityResolver) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Logger(), Auth("secret", resolver))
	r.GET("/whoami", func(c *gin.Context) {
		id := IdentityFrom(c)
		c.JSON(http.StatusOK, gin.H{"userId": id.UserID, "role": id.Role})
	})
	return r
}

func TestAuth(t *testing.T) {
	good, err := utils.NewAccessToken("secret", 7, "chef", time.Hour)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	forged, _ := utils.NewAccessToken("other", 7, "owner", time.Hour)

	chef := stubResolver{id: services.NewIdentity(0, "chef", nil)}
	cases := []struct {
		name     string
		header   string
		resolver IdentityResolver
		want     string
	}{
		{"valid token", "Bearer " + good.Token, chef, `{"role":"chef","userId":7}`},
		{"no header", "", chef, `{"role":"","userId":0}`},
		{"wrong scheme", "Basic " + good.Token, chef, `{"role":"","userId":0}`},
		{"bad signature", "Bearer " + forged.Token, chef, `{"role":"","userId":0}`},
		{"deleted account", "Bearer " + good.Token, stubResolver{err: services.ErrUnauthenticated}, `{"role":"","userId":0}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			newRouter(tc.resolver).ServeHTTP(w, req)
			if w.Body.String() != tc.want {
				t.Fatalf("body = %s, want %s", w.Body.String(), tc.want)
			}
		})
	}
}

func TestLoggerSetsRequestID(t *testing.T) {
	r := newRouter(stubResolver{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	if w.Header().Get(RequestIDHeader) == "" {
		t.Fatal("expected a generated request id")
	}

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Fatalf("request id = %q, want abc-123", got)
	}
}
