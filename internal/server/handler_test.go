package server

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/privcheck/internal/api"
	"github.com/abhisek/privcheck/internal/content"
)

func setupRouter(t *testing.T) (*gin.Engine, *MemoryRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := NewMemoryRepo()
	reg := prometheus.NewRegistry()
	metrics, err := NewMetrics(reg)
	require.NoError(t, err)
	svc, err := NewService(repo, 16, metrics, nil)
	require.NoError(t, err)

	r := NewRouter(RouterDeps{Service: svc, Metrics: metrics, Gatherer: reg, CORSOrigins: []string{"http://localhost:3000"}})
	return r, repo
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func startAssessment(t *testing.T, r http.Handler, kind content.Kind) string {
	t.Helper()
	rec := doJSON(t, r, http.MethodPost, "/api/v1/assessments", api.StartRequest{Kind: kind}, map[string]string{"Authorization": "Bearer tok-1"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp api.StartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AssessmentID)
	return resp.AssessmentID
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) api.ErrorBody {
	t.Helper()
	var env api.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env.Error
}

func TestHealth(t *testing.T) {
	r, _ := setupRouter(t)
	rec := doJSON(t, r, http.MethodGet, "/api/v1/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestStart_RecordsOwner(t *testing.T) {
	r, repo := setupRouter(t)
	id := startAssessment(t, r, content.KindQuick)

	a, err := repo.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, tokenOwner("tok-1"), a.Owner)
	assert.NotContains(t, a.Owner, "tok-1")
	assert.Equal(t, content.KindQuick, a.Kind)
}

func TestStart_TokenNeverLogged(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	repo := NewMemoryRepo()
	svc, err := NewService(repo, 4, nil, logger)
	require.NoError(t, err)
	r := NewRouter(RouterDeps{Service: svc, Logger: logger})

	const secret = "s3cr3t-token"
	rec := doJSON(t, r, http.MethodPost, "/api/v1/assessments", api.StartRequest{Kind: content.KindQuick},
		map[string]string{"Authorization": "Bearer " + secret})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp api.StartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	a, err := repo.Get(context.Background(), resp.AssessmentID)
	require.NoError(t, err)

	assert.NotContains(t, logs.String(), secret)
	assert.Contains(t, logs.String(), a.Owner)
	assert.Regexp(t, `^tok:[0-9a-f]{16}$`, a.Owner)
}

func TestStart_UserIDHeader(t *testing.T) {
	r, repo := setupRouter(t)
	rec := doJSON(t, r, http.MethodPost, "/api/v1/assessments", api.StartRequest{Kind: content.KindAudit}, map[string]string{"X-User-Id": "alex"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp api.StartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	a, err := repo.Get(context.Background(), resp.AssessmentID)
	require.NoError(t, err)
	assert.Equal(t, "alex", a.Owner)
}

func TestStart_InvalidKind(t *testing.T) {
	r, _ := setupRouter(t)
	rec := doJSON(t, r, http.MethodPost, "/api/v1/assessments", map[string]string{"kind": "full"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, api.CodeValidation, decodeError(t, rec).Code)
}

func TestSubmitAnswer_UsesBankScore(t *testing.T) {
	r, repo := setupRouter(t)
	id := startAssessment(t, r, content.KindQuick)

	rec := doJSON(t, r, http.MethodPost, "/api/v1/assessments/"+id+"/answers",
		api.AnswerRequest{QuestionID: "two-factor", Value: "sms", Score: 5, Level: "advanced"}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())

	a, err := repo.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 3, a.Answers["two-factor"].Score)
	assert.Equal(t, "intermediate", a.Answers["two-factor"].Level)

	// Resubmission overwrites.
	rec = doJSON(t, r, http.MethodPost, "/api/v1/assessments/"+id+"/answers",
		api.AnswerRequest{QuestionID: "two-factor", Value: "none"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	a, err = repo.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 0, a.Answers["two-factor"].Score)
	assert.Len(t, a.Answers, 1)
}

func TestSubmitAnswer_Validation(t *testing.T) {
	r, _ := setupRouter(t)
	id := startAssessment(t, r, content.KindQuick)

	tests := []struct {
		name string
		body api.AnswerRequest
	}{
		{"unknown question", api.AnswerRequest{QuestionID: "nope", Value: "x"}},
		{"unknown option", api.AnswerRequest{QuestionID: "two-factor", Value: "carrier-pigeon"}},
		{"audit question on quick", api.AnswerRequest{QuestionID: "browser-cookies", Value: "blocked"}},
		{"missing value", api.AnswerRequest{QuestionID: "two-factor"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, r, http.MethodPost, "/api/v1/assessments/"+id+"/answers", tt.body, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, api.CodeValidation, decodeError(t, rec).Code)
		})
	}
}

func TestSubmitAnswer_NotFound(t *testing.T) {
	r, _ := setupRouter(t)
	rec := doJSON(t, r, http.MethodPost, "/api/v1/assessments/missing/answers",
		api.AnswerRequest{QuestionID: "two-factor", Value: "sms"}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, api.CodeNotFound, decodeError(t, rec).Code)
}

func TestComplete_Quick(t *testing.T) {
	r, _ := setupRouter(t)
	id := startAssessment(t, r, content.KindQuick)

	for _, body := range []api.AnswerRequest{
		{QuestionID: "password-reuse", Value: "never"},
		{QuestionID: "two-factor", Value: "none"},
		{QuestionID: "social-visibility", Value: "reviewed"},
	} {
		rec := doJSON(t, r, http.MethodPost, "/api/v1/assessments/"+id+"/answers", body, nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := doJSON(t, r, http.MethodPost, "/api/v1/assessments/"+id+"/complete", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp api.CompleteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Results)
	assert.Nil(t, resp.Audit)
	assert.Equal(t, 10, resp.Results.Score)
	assert.Equal(t, 15, resp.Results.MaxScore)
	assert.Equal(t, 67, resp.Results.Percentage)
	require.NotEmpty(t, resp.ActionPlan)
	assert.Equal(t, "Password Security", resp.ActionPlan[0].Category)

	// Idempotent.
	again := doJSON(t, r, http.MethodPost, "/api/v1/assessments/"+id+"/complete", nil, nil)
	require.Equal(t, http.StatusOK, again.Code)
	assert.JSONEq(t, rec.Body.String(), again.Body.String())

	// Closed for answers.
	late := doJSON(t, r, http.MethodPost, "/api/v1/assessments/"+id+"/answers",
		api.AnswerRequest{QuestionID: "device-lock", Value: "pin"}, nil)
	assert.Equal(t, http.StatusConflict, late.Code)
	assert.Equal(t, api.CodeConflict, decodeError(t, late).Code)
}

func TestComplete_Audit(t *testing.T) {
	r, _ := setupRouter(t)
	id := startAssessment(t, r, content.KindAudit)

	rec := doJSON(t, r, http.MethodPost, "/api/v1/assessments/"+id+"/answers",
		api.AnswerRequest{QuestionID: "browser-cookies", Value: "blocked"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, r, http.MethodPost, "/api/v1/assessments/"+id+"/complete", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.CompleteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Audit)
	assert.Nil(t, resp.Results)
	assert.NotNil(t, resp.ActionPlan)
	assert.Equal(t, 30, resp.Audit.Score)
	assert.NotEmpty(t, resp.Audit.Recommendations)
}

func TestStatus(t *testing.T) {
	r, _ := setupRouter(t)
	id := startAssessment(t, r, content.KindQuick)
	doJSON(t, r, http.MethodPost, "/api/v1/assessments/"+id+"/answers",
		api.AnswerRequest{QuestionID: "two-factor", Value: "sms"}, nil)

	rec := doJSON(t, r, http.MethodGet, "/api/v1/assessments/"+id, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var st api.Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.Equal(t, api.StatusInProgress, st.Status)
	assert.Equal(t, 1, st.Answered)
	assert.Equal(t, len(content.Questions(content.KindQuick)), st.Total)

	doJSON(t, r, http.MethodPost, "/api/v1/assessments/"+id+"/complete", nil, nil)
	rec = doJSON(t, r, http.MethodGet, "/api/v1/assessments/"+id, nil, nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.Equal(t, api.StatusCompleted, st.Status)
	assert.NotNil(t, st.CompletedAt)
}

func TestMetricsEndpoint(t *testing.T) {
	r, _ := setupRouter(t)
	startAssessment(t, r, content.KindQuick)

	rec := doJSON(t, r, http.MethodGet, "/metrics", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `privcheck_assessments_started_total{kind="quick"} 1`), body)
	assert.Contains(t, body, "privcheck_http_request_duration_seconds")
}

func TestCORSPreflight(t *testing.T) {
	r, _ := setupRouter(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/assessments", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), Recovery())
	r.GET("/boom", func(*gin.Context) { panic("boom") })

	rec := doJSON(t, r, http.MethodGet, "/boom", nil, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, api.CodeInternal, decodeError(t, rec).Code)
}

func TestAddr(t *testing.T) {
	assert.Equal(t, ":8080", Addr(""))
	assert.Equal(t, ":9000", Addr("9000"))
	assert.Equal(t, ":9000", Addr(":9000"))
	assert.Equal(t, "127.0.0.1:9000", Addr("127.0.0.1:9000"))
}
