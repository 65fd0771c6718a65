package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutor-orchestrator/server/internal/agent/graph/tools"
	"github.com/tutor-orchestrator/server/internal/agent/model"
	errx "github.com/tutor-orchestrator/server/internal/core/error"
)

type fakeService struct {
	turns    map[string][]string
	cleared  []string
	toolArgs map[string]any
	turnErr  error
}

func newFakeService() *fakeService {
	return &fakeService{turns: map[string][]string{}}
}

func (f *fakeService) Turn(_ context.Context, sid, message string) (*model.TurnResult, error) {
	if f.turnErr != nil {
		return nil, f.turnErr
	}
	if strings.TrimSpace(message) == "" {
		return nil, errx.InvalidInput("message must not be empty")
	}
	f.turns[sid] = append(f.turns[sid], message)
	return &model.TurnResult{
		Outcome:         model.OutcomeTools,
		ClassifiedTools: []string{tools.ToolFlashcardGenerator},
		ExtractedParameters: model.ExtractedParameters{
			tools.ToolFlashcardGenerator: {"topic": "photosynthesis", "count": 5},
		},
	}, nil
}

func (f *fakeService) History(_ context.Context, sid string) ([]model.ChatMessage, error) {
	var out []model.ChatMessage
	for _, m := range f.turns[sid] {
		out = append(out, model.UserMessage(m))
	}
	return out, nil
}

func (f *fakeService) UserInfo(context.Context, string) model.UserInfo {
	return model.NewUserInfo(model.UserProfileConfig{UserID: "student123", Name: "Alex"}, model.DefaultUserState())
}

func (f *fakeService) ClearSession(_ context.Context, sid string) error {
	f.cleared = append(f.cleared, sid)
	delete(f.turns, sid)
	return nil
}

func (f *fakeService) CallTool(_ context.Context, _ string, name string, args map[string]any) (*tools.ToolResponse, error) {
	f.toolArgs = args
	if name != tools.ToolNoteMaker {
		return &tools.ToolResponse{Status: tools.StatusError, Code: http.StatusNotFound, Tool: name, Error: errx.UnknownToolMessage}, nil
	}
	return &tools.ToolResponse{Status: tools.StatusSuccess, Code: http.StatusOK, Tool: name, Result: map[string]any{"topic": args["topic"]}}, nil
}

func (f *fakeService) Tools() []tools.Descriptor {
	return tools.DefaultRegistry().Descriptors()
}

func newTestRouter(svc TutorService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(RouterConfig{Handler: NewHandler(svc)})
}

func do(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func jsonRequest(method, target, body, sid string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if sid != "" {
		req.Header.Set(SessionHeader, sid)
	}
	return req
}

func TestChatJSON(t *testing.T) {
	svc := newFakeService()
	w := do(newTestRouter(svc), jsonRequest(http.MethodPost, "/chat", `{"message":"5 flashcards on photosynthesis"}`, "s1"))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var res map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "tools", res["outcome"])
	assert.Equal(t, []any{tools.ToolFlashcardGenerator}, res["classifiedTools"])
	assert.Equal(t, []string{"5 flashcards on photosynthesis"}, svc.turns["s1"])
	assert.Equal(t, "s1", w.Header().Get(SessionHeader))
}

func TestChatForm(t *testing.T) {
	svc := newFakeService()
	form := url.Values{"userInput": {"explain osmosis"}}
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := do(newTestRouter(svc), req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	sid := w.Header().Get(SessionHeader)
	require.NotEmpty(t, sid)
	assert.Equal(t, []string{"explain osmosis"}, svc.turns[sid])

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, SessionCookie, cookies[0].Name)
	assert.Equal(t, sid, cookies[0].Value)
}

func TestSessionCookieIsReused(t *testing.T) {
	svc := newFakeService()
	req := jsonRequest(http.MethodPost, "/chat", `{"message":"hello"}`, "")
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "cookie-session"})

	w := do(newTestRouter(svc), req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, svc.turns, "cookie-session")
}

func TestInvalidSessionID(t *testing.T) {
	w := do(newTestRouter(newFakeService()), jsonRequest(http.MethodGet, "/history", "", "../etc"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"invalid session id"}`, w.Body.String())
}

func TestChatEmptyMessage(t *testing.T) {
	w := do(newTestRouter(newFakeService()), jsonRequest(http.MethodPost, "/chat", `{"message":"  "}`, "s1"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"message must not be empty"}`, w.Body.String())
}

func TestChatMapsOracleFailures(t *testing.T) {
	svc := newFakeService()
	svc.turnErr = errx.OracleUnavailable(errors.New("dial tcp: timeout"))

	w := do(newTestRouter(svc), jsonRequest(http.MethodPost, "/chat", `{"message":"quiz me"}`, "s1"))
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.JSONEq(t, `{"error":"`+errx.OracleUnavailableMessage+`"}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "dial tcp")
}

func TestHistoryAndClear(t *testing.T) {
	svc := newFakeService()
	r := newTestRouter(svc)
	do(r, jsonRequest(http.MethodPost, "/chat", `{"message":"hello"}`, "s1"))

	w := do(r, jsonRequest(http.MethodGet, "/history", "", "s1"))
	require.Equal(t, http.StatusOK, w.Code)
	var hist historyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &hist))
	assert.Equal(t, "s1", hist.SessionID)
	assert.Equal(t, []model.ChatMessage{model.UserMessage("hello")}, hist.Messages)
	assert.Equal(t, "Alex", hist.UserInfo.Name)

	w = do(r, jsonRequest(http.MethodPost, "/clear-chat", "", "s1"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"s1"}, svc.cleared)

	w = do(r, jsonRequest(http.MethodGet, "/history", "", "s1"))
	assert.Contains(t, w.Body.String(), `"messages":[]`)
}

func TestCallTool(t *testing.T) {
	svc := newFakeService()
	r := newTestRouter(svc)

	w := do(r, jsonRequest(http.MethodPost, "/call-tool/"+tools.ToolNoteMaker, `{"topic":"cells"}`, "s1"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cells", svc.toolArgs["topic"])

	w = do(r, jsonRequest(http.MethodPost, "/call-tool/EssayTool", "", "s1"))
	assert.Equal(t, http.StatusNotFound, w.Code)
	var resp tools.ToolResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, tools.StatusError, resp.Status)

	w = do(r, jsonRequest(http.MethodPost, "/call-tool/"+tools.ToolNoteMaker, `[1,2]`, "s1"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestToolsHealthMetrics(t *testing.T) {
	r := newTestRouter(newFakeService())

	w := do(r, jsonRequest(http.MethodGet, "/tools", "", "s1"))
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Tools []map[string]any `json:"tools"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Tools, 4)
	assert.Equal(t, tools.ToolNoteMaker, body.Tools[0]["name"])
	assert.Contains(t, body.Tools[0], "parameters")

	w = do(r, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get(SessionHeader))

	w = do(r, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "tutor_http_requests_total")
}
