package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/user-account-service/config"
	"github.com/oksasatya/user-account-service/internal/container"
	"github.com/oksasatya/user-account-service/internal/interface/middleware"
	"github.com/oksasatya/user-account-service/pkg/validation"
)

type envelope struct {
	Status  int             `json:"status"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Meta    map[string]any  `json:"meta"`
}

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	cfg := &config.Config{
		StoreDriver:         config.StoreMemory,
		JWTSecret:           "router-test-secret",
		JWTTTL:              time.Hour,
		BcryptCost:          4,
		DebugMetricsEnabled: true,
	}
	c := &container.Container{Config: cfg}

	engine := gin.New()
	engine.Use(middleware.RequestIDMiddleware())
	reg := NewRegistry(engine)
	InitModules(reg, c)
	reg.RegisterAll()
	return engine
}

func call(t *testing.T, h http.Handler, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") != "" && bytes.HasPrefix(bytes.TrimSpace(w.Body.Bytes()), []byte("{")) {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func TestPing(t *testing.T) {
	r := newTestEngine(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestUserAccountFlow(t *testing.T) {
	r := newTestEngine(t)

	w, env := call(t, r, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"name": "alice", "email": "Alice@Example.com", "password": "Secret1!", "birthday": "1990-05-17",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "User registered successfully", env.Message)
	var created map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &created))
	id, _ := created["id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, "alice@example.com", created["email"])
	assert.NotContains(t, created, "password")

	w, env = call(t, r, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"name": "alice2", "email": "alice@example.com", "password": "Secret1!", "birthday": "1990-05-17",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.False(t, env.Success)

	w, env = call(t, r, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email": "alice@example.com", "password": "wrong-pass1!",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, env = call(t, r, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email": "alice@example.com", "password": "Secret1!",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Login successful", env.Message)
	var login struct {
		ID    string `json:"id"`
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &login))
	assert.Equal(t, id, login.ID)
	require.NotEmpty(t, login.Token)
	token := login.Token

	w, _ = call(t, r, http.MethodGet, "/api/v1/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, env = call(t, r, http.MethodGet, "/api/v1/users", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Users fetched successfully", env.Message)
	assert.EqualValues(t, 1, env.Meta["length"])

	w, env = call(t, r, http.MethodGet, "/api/v1/users/"+id, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "User fetched successfully", env.Message)

	w, env = call(t, r, http.MethodPatch, "/api/v1/users/"+id, token, map[string]any{"name": "alicia"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "alicia", updated["name"])

	w, _ = call(t, r, http.MethodPut, "/api/v1/users/"+id, token, map[string]any{"name": "a!"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = call(t, r, http.MethodGet, "/api/v1/users/search?q=alicia", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, env.Meta["length"])

	w, env = call(t, r, http.MethodDelete, "/api/v1/users/"+id, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "User deleted successfully", env.Message)

	w, _ = call(t, r, http.MethodGet, "/api/v1/users/"+id, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBlockedUserCannotLogin(t *testing.T) {
	r := newTestEngine(t)

	w, env := call(t, r, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"name": "bob", "email": "bob@example.com", "password": "Secret1!", "birthday": "1985-01-02",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))

	_, env = call(t, r, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email": "bob@example.com", "password": "Secret1!",
	})
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &login))

	w, _ = call(t, r, http.MethodPatch, "/api/v1/users/"+created.ID, login.Token, map[string]any{"isBlocked": true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, _ = call(t, r, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email": "bob@example.com", "password": "Secret1!",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = call(t, r, http.MethodGet, "/api/v1/users/"+created.ID, login.Token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	r := newTestEngine(t)
	w, env := call(t, r, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"name": "al", "email": "nope", "password": "Secret1!", "birthday": "17/05/1990",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid payload", env.Message)
}

func TestDebugVars(t *testing.T) {
	r := newTestEngine(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/debug/vars", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
