package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/recommend-course/internal/service"
)

const (
	testSecret = "test-secret"
	testIssuer = "lms"
)

func init() { gin.SetMode(gin.TestMode) }

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	r.GET("/whoami", func(c *gin.Context) {
		caller, _ := CallerFrom(c)
		c.JSON(http.StatusOK, gin.H{"user": caller.UserID, "roles": caller.Roles, "request_id": c.GetString(requestIDKey)})
	})
	return r
}

func do(r http.Handler, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuth(t *testing.T) {
	r := newEngine(Auth(testSecret, testIssuer))

	good, err := IssueToken(testSecret, testIssuer, 42, []string{"manager"}, time.Hour)
	require.NoError(t, err)
	expired, err := IssueToken(testSecret, testIssuer, 42, nil, -time.Minute)
	require.NoError(t, err)
	wrongKey, err := IssueToken("other", testIssuer, 42, nil, time.Hour)
	require.NoError(t, err)
	wrongIssuer, err := IssueToken(testSecret, "elsewhere", 42, nil, time.Hour)
	require.NoError(t, err)
	badSubject, err := IssueToken(testSecret, testIssuer, 0, nil, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid", "Bearer " + good, http.StatusOK},
		{"lowercase scheme", "bearer " + good, http.StatusOK},
		{"missing", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"expired", "Bearer " + expired, http.StatusUnauthorized},
		{"wrong key", "Bearer " + wrongKey, http.StatusUnauthorized},
		{"wrong issuer", "Bearer " + wrongIssuer, http.StatusUnauthorized},
		{"bad subject", "Bearer " + badSubject, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, map[string]string{"Authorization": tt.header})
			assert.Equal(t, tt.status, w.Code)
		})
	}

	w := do(r, map[string]string{"Authorization": "Bearer " + good})
	assert.JSONEq(t, `{"user":42,"roles":["manager"],"request_id":""}`, w.Body.String())
}

func TestAuth_EmptySecret(t *testing.T) {
	r := newEngine(Auth("", testIssuer))

	forged, err := IssueToken("", testIssuer, 3, []string{"admin"}, time.Hour)
	require.NoError(t, err)

	w := do(r, map[string]string{"Authorization": "Bearer " + forged})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "authentication not configured")

	w = do(r, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCallerFrom_Missing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	caller, ok := CallerFrom(c)
	assert.False(t, ok)
	assert.Equal(t, service.Caller{}, caller)
}

func TestRequestID(t *testing.T) {
	r := newEngine(RequestID(), Logger())

	w := do(r, nil)
	generated := w.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)
	assert.Contains(t, w.Body.String(), generated)

	w = do(r, map[string]string{RequestIDHeader: "upstream-1"})
	assert.Equal(t, "upstream-1", w.Header().Get(RequestIDHeader))
}

func TestRateLimiter(t *testing.T) {
	l := NewRateLimiter(0.001, 2)
	r := newEngine(Auth(testSecret, testIssuer), l.Middleware())

	alice, err := IssueToken(testSecret, testIssuer, 1, nil, time.Hour)
	require.NoError(t, err)
	bob, err := IssueToken(testSecret, testIssuer, 2, nil, time.Hour)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, do(r, map[string]string{"Authorization": "Bearer " + alice}).Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, do(r, map[string]string{"Authorization": "Bearer " + alice}).Code)
	assert.Equal(t, http.StatusOK, do(r, map[string]string{"Authorization": "Bearer " + bob}).Code)
}
