package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newAuthTestRouter(expectedKey string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AdminAuth(expectedKey))
	r.GET("/admin/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestAdminAuth(t *testing.T) {
	tests := []struct {
		name       string
		serverKey  string
		requestKey string
		sendHeader bool
		wantStatus int
	}{
		{"valid key", "secret", "secret", true, http.StatusOK},
		{"missing header", "secret", "", false, http.StatusUnauthorized},
		{"empty header value", "secret", "", true, http.StatusUnauthorized},
		{"wrong key", "secret", "wrong", true, http.StatusForbidden},
		{"unconfigured server", "", "anything", true, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newAuthTestRouter(tt.serverKey)

			req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
			if tt.sendHeader {
				req.Header.Set(AdminKeyHeader, tt.requestKey)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}
