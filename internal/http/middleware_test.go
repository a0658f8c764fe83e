package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pawclub/internal/auth"
)

const gateTestSecret = "0123456789abcdef0123456789abcdef"

func issueToken(t *testing.T, ttl time.Duration) string {
	t.Helper()
	codec := auth.NewTokenCodec(gateTestSecret, ttl)
	token, err := codec.Issue(auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "alice@example.com"},
		UserID:           42,
		Role:             "USER",
		Name:             "Alice",
	})
	require.NoError(t, err)
	return token
}

func newGateRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	codec := auth.NewTokenCodec(gateTestSecret, time.Hour)
	authn := auth.NewAuthenticator(nil, codec, "")

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	rules := []RouteRule{
		{Method: http.MethodGet, Pattern: "/public", Level: Public},
		{Method: http.MethodGet, Pattern: "/dup", Level: Public},
		{Method: http.MethodGet, Pattern: "/dup", Level: Authenticated},
		{Method: http.MethodGet, Pattern: "/private", Level: Authenticated},
	}

	router := gin.New()
	router.Use(AuthGate(authn, rules, logger))

	echo := func(c *gin.Context) {
		principal, ok := PrincipalFrom(c)
		resp := gin.H{"principal": ok}
		if ok {
			resp["email"] = principal.Email
		}
		c.JSON(http.StatusOK, resp)
	}
	router.GET("/public", echo)
	router.GET("/dup", echo)
	router.GET("/private", echo)
	router.GET("/unlisted", echo)
	return router
}

func doRequest(router *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthGate(t *testing.T) {
	router := newGateRouter()
	valid := "Bearer " + issueToken(t, time.Hour)
	expired := "Bearer " + issueToken(t, -time.Minute)

	tests := []struct {
		name          string
		path          string
		authorization string
		wantStatus    int
		wantPrincipal bool
	}{
		{"public without token", "/public", "", http.StatusOK, false},
		{"public with valid token", "/public", valid, http.StatusOK, true},
		{"public with expired token proceeds anonymously", "/public", expired, http.StatusOK, false},
		{"public with garbage token proceeds anonymously", "/public", "Bearer garbage", http.StatusOK, false},
		{"private without token", "/private", "", http.StatusUnauthorized, false},
		{"private with valid token", "/private", valid, http.StatusOK, true},
		{"private with expired token", "/private", expired, http.StatusUnauthorized, false},
		{"private with garbage token", "/private", "Bearer garbage", http.StatusUnauthorized, false},
		{"private with non-bearer scheme", "/private", "Basic abc", http.StatusUnauthorized, false},
		{"unlisted route fails closed", "/unlisted", "", http.StatusUnauthorized, false},
		{"unlisted route with valid token", "/unlisted", valid, http.StatusOK, true},
		{"first matching rule wins", "/dup", "", http.StatusOK, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(router, http.MethodGet, tt.path, tt.authorization)
			assert.Equal(t, tt.wantStatus, w.Code)

			if tt.wantStatus == http.StatusUnauthorized {
				assert.JSONEq(t, `{"error": "unauthorized"}`, w.Body.String())
				return
			}
			if tt.wantPrincipal {
				assert.Contains(t, w.Body.String(), `"principal":true`)
				assert.Contains(t, w.Body.String(), "alice@example.com")
			} else {
				assert.Contains(t, w.Body.String(), `"principal":false`)
			}
		})
	}
}

func TestAuthGate_CaseInsensitiveBearer(t *testing.T) {
	router := newGateRouter()
	token := issueToken(t, time.Hour)

	w := doRequest(router, http.MethodGet, "/private", "bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"", "", false},
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"Bearer ", "", false},
		{"Basic abc", "", false},
		{"abc", "", false},
	}
	for _, tt := range tests {
		got, ok := bearerToken(tt.header)
		assert.Equal(t, tt.ok, ok, "header %q", tt.header)
		assert.Equal(t, tt.want, got, "header %q", tt.header)
	}
}
