package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/user-account-service/pkg/helpers"
)

func init() { gin.SetMode(gin.TestMode) }

func protected(tokens TokenVerifier) *gin.Engine {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/me", Auth(tokens), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(CtxUserIDKey))
	})
	return r
}

func doGet(r http.Handler, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func message(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Message
}

func TestAuth(t *testing.T) {
	jwtm := helpers.NewJWTManager("s3cret", time.Hour)
	r := protected(jwtm)
	token, err := jwtm.Generate("user-1")
	require.NoError(t, err)

	w := doGet(r, "/me", map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1", w.Body.String())

	w = doGet(r, "/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, msgLoginRequired, message(t, w))

	w = doGet(r, "/me", map[string]string{"Authorization": "Basic abc"})
	assert.Equal(t, msgLoginRequired, message(t, w))

	w = doGet(r, "/me", map[string]string{"Authorization": "Bearer not-a-jwt"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, msgInvalidToken, message(t, w))

	other, _ := helpers.NewJWTManager("other", time.Hour).Generate("user-1")
	w = doGet(r, "/me", map[string]string{"Authorization": "bearer " + other})
	assert.Equal(t, msgInvalidToken, message(t, w))
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", bearerToken("Bearer abc"))
	assert.Equal(t, "abc", bearerToken("  bearer   abc "))
	assert.Empty(t, bearerToken("Bearer"))
	assert.Empty(t, bearerToken("Token abc"))
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := doGet(r, "/", nil)
	assert.NotEmpty(t, w.Body.String())
	assert.Equal(t, w.Body.String(), w.Header().Get(RequestIDHeader))

	incoming := "0b8e2a0e-5d47-4a55-9f6c-3f5f2f1f0a11"
	w = doGet(r, "/", map[string]string{RequestIDHeader: incoming})
	assert.Equal(t, incoming, w.Body.String())

	w = doGet(r, "/", map[string]string{RequestIDHeader: "<script>"})
	assert.NotEqual(t, "<script>", w.Body.String())
}

func TestRealIP(t *testing.T) {
	r := gin.New()
	r.Use(RealIP())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("real_ip")) })

	assert.Equal(t, "1.2.3.4", doGet(r, "/", map[string]string{"CF-Connecting-IP": "1.2.3.4", "X-Forwarded-For": "5.6.7.8"}).Body.String())
	assert.Equal(t, "5.6.7.8", doGet(r, "/", map[string]string{"X-Forwarded-For": " 5.6.7.8 , 9.9.9.9"}).Body.String())
	assert.NotEmpty(t, doGet(r, "/", map[string]string{"X-Forwarded-For": "garbage"}).Body.String())
}

func TestAccessLog(t *testing.T) {
	logger, hook := test.NewNullLogger()
	r := gin.New()
	r.Use(RequestIDMiddleware(), AccessLog(logger))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	doGet(r, "/ok", nil)
	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)
	assert.Equal(t, "/ok", hook.LastEntry().Data["path"])
	assert.NotEmpty(t, hook.LastEntry().Data["request_id"])

	doGet(r, "/boom", nil)
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}
