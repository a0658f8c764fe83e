package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"pawclub/internal/auth"
)

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	codec := auth.NewTokenCodec(gateTestSecret, time.Hour)
	authn := auth.NewAuthenticator(nil, codec, "")
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	router := gin.New()
	handler := NewHandler(authn, nil, nil, nil, nil, "", logger)
	handler.RegisterRoutes(router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "ok"}`, w.Body.String())
}
