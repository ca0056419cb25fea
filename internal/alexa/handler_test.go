package alexa

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
	"go.uber.org/zap"

	"github.com/codeforboston/voiceapp311-sub000/pkg/types"
)

type stubExecutor struct {
	resp *types.Response
	err  error
}

func (s *stubExecutor) Execute(_ context.Context, req *types.Request) (*types.Response, error) {
	if s.err != nil {
		return nil, s.err
	}
	resp := types.NewResponse(req)
	resp.OutputSpeech = s.resp.OutputSpeech
	resp.ShouldEndSession = s.resp.ShouldEndSession
	return resp, nil
}

func newTestRouter(exec Executor) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(exec, zap.NewNop())
	r.POST("/api/alexa", h.Webhook)
	r.GET("/api/health", h.HealthCheck)
	return r
}

func TestWebhook(t *testing.T) {
	exec := &stubExecutor{resp: &types.Response{OutputSpeech: "Hello.", ShouldEndSession: true}}
	r := newTestRouter(exec)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/alexa", strings.NewReader(intentEnvelope))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var env ResponseEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, "1.0", env.Version)
	require.NotNil(t, env.Response.OutputSpeech)
	assert.Equal(t, "Hello.", env.Response.OutputSpeech.Text)
	assert.True(t, env.Response.ShouldEndSession)
}

func TestWebhookBadBody(t *testing.T) {
	r := newTestRouter(&stubExecutor{resp: &types.Response{}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/alexa", strings.NewReader("not json"))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhookExecutorFailure(t *testing.T) {
	r := newTestRouter(&stubExecutor{err: errors.New("unrecognized intent")})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/alexa", strings.NewReader(intentEnvelope))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHealthCheck(t *testing.T) {
	r := newTestRouter(&stubExecutor{resp: &types.Response{}})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
