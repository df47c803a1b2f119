package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/recommend-course/internal/middleware"
	"github.com/d60-Lab/recommend-course/internal/service"
	"github.com/d60-Lab/recommend-course/pkg/response"
)

type stubRecs struct {
	got service.RecommendInput
	err error
}

func (s *stubRecs) Recommend(_ context.Context, _ service.Caller, in service.RecommendInput) (int, error) {
	s.got = in
	if s.err != nil {
		return 0, s.err
	}
	return len(in.ReceiverIDs), nil
}

// withCaller 代替鉴权中间件直接注入身份
func withCaller(id int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.SetCaller(c, service.Caller{UserID: id})
		c.Next()
	}
}

func newTestEngine(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/health", h.Health)
	g := r.Group("/", withCaller(7))
	g.POST("/recommendations", h.Recommend)
	g.GET("/history", h.History)
	g.GET("/privacy/metadata", h.PrivacyMetadata)
	r.GET("/anonymous/mine", h.Mine)
	return r
}

func call(r http.Handler, method, path, body string) (*httptest.ResponseRecorder, response.Response) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var resp response.Response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func TestRecommend_PassesInput(t *testing.T) {
	recs := &stubRecs{}
	r := newTestEngine(NewHandler(Services{Recommendations: recs}))

	w, resp := call(r, http.MethodPost, "/recommendations", `{"course_id":5,"user_ids":[8,9,8]}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, response.CodeOK, resp.Code)
	assert.Equal(t, service.RecommendInput{CourseID: 5, ReceiverIDs: []int64{8, 9, 8}}, recs.got)
}

func TestRecommend_ServiceErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", service.ErrInvalidRecommendation, http.StatusBadRequest},
		{"storage", errors.New("disk full"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestEngine(NewHandler(Services{Recommendations: &stubRecs{err: tt.err}}))
			w, resp := call(r, http.MethodPost, "/recommendations", `{"course_id":5,"user_ids":[8]}`)
			assert.Equal(t, tt.status, w.Code)
			assert.NotContains(t, resp.Message, "disk full")
		})
	}
}

func TestPermission_WithoutAuthorizer(t *testing.T) {
	r := newTestEngine(NewHandler(Services{Links: service.NewLinks("https://lms.example.com", "")}))

	w, resp := call(r, http.MethodGet, "/history", "")
	require.Equal(t, http.StatusOK, w.Code)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, msgNoPermission, data["notice"])
	assert.Equal(t, "https://lms.example.com/my/", data["back_url"])

	w, _ = call(r, http.MethodGet, "/privacy/metadata", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestMine_WithoutCaller(t *testing.T) {
	r := newTestEngine(NewHandler(Services{}))
	w, _ := call(r, http.MethodGet, "/anonymous/mine", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHealth(t *testing.T) {
	r := newTestEngine(NewHandler(Services{Ping: func(context.Context) error { return nil }}))
	w, _ := call(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)

	r = newTestEngine(NewHandler(Services{Ping: func(context.Context) error { return errors.New("down") }}))
	w, resp := call(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, response.CodeUnavailable, resp.Code)
}
