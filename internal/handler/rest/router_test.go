package rest

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	outerror "github.com/webitel/webitel-go-kit/pkg/errors"

	"github.com/webitel/video-exporter/internal/errors"
	"github.com/webitel/video-exporter/internal/exporter"
	"github.com/webitel/video-exporter/internal/locale"
	"github.com/webitel/video-exporter/internal/metrics"
	"github.com/webitel/video-exporter/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeExportService struct {
	exportErr error
	result    *model.ExportResult
	exported  []int64
}

func (f *fakeExportService) Export(_ context.Context, postID int64) (*model.ExportResult, error) {
	f.exported = append(f.exported, postID)
	if f.exportErr != nil {
		return nil, f.exportErr
	}
	return f.result, nil
}

func (f *fakeExportService) GetExportStatus(_ context.Context, postID int64) (*model.PostExport, error) {
	if postID != 42 {
		return nil, errors.NotFound("post has not been exported")
	}
	return &model.PostExport{PostID: 42, Status: "queued", ExportID: "vid-9", UpdatedAt: 1}, nil
}

func (f *fakeExportService) ListErrors(context.Context) ([]model.ErrorLogEntry, error) {
	return []model.ErrorLogEntry{{PostID: 42, Message: "boom"}}, nil
}

type fakeSettingsService struct {
	updated *model.SettingsUpdate
}

func (f *fakeSettingsService) GetSettings(context.Context) (*model.SettingsView, error) {
	return &model.SettingsView{APIEndpoint: "https://video.example.com", APIToken: "****abcd", Configured: true}, nil
}

func (f *fakeSettingsService) UpdateSettings(_ context.Context, u *model.SettingsUpdate) (*model.SettingsView, error) {
	f.updated = u
	if u.APIEndpoint != nil && *u.APIEndpoint == "bad" {
		return nil, errors.BadRequest("Please enter a valid URL for the API endpoint.", errors.WithID("settings.update.endpoint"))
	}
	return &model.SettingsView{}, nil
}

func (f *fakeSettingsService) SeedCredentials(context.Context, model.Credentials) error { return nil }

func newTestRouter(t *testing.T, token string, exp *fakeExportService, set *fakeSettingsService) *gin.Engine {
	t.Helper()
	return newLocalizedRouter(t, nil, token, exp, set)
}

func newLocalizedRouter(t *testing.T, tr *locale.Translator, token string, exp *fakeExportService, set *fakeSettingsService) *gin.Engine {
	t.Helper()
	reg := prometheus.NewRegistry()
	engine, api := NewRouter(RouterConfig{
		Translator: tr,
		AdminToken: token,
		Metrics:    metrics.NewHTTPMetrics(reg),
		Gatherer:   reg,
		Health: map[string]HealthCheck{
			"postgres": func(context.Context) error { return nil },
		},
	})

	eh, err := NewExportHandler(exp)
	require.NoError(t, err)
	sh, err := NewSettingsHandler(set)
	require.NoError(t, err)
	eh.Register(api)
	sh.Register(api)
	return engine
}

func do(engine *gin.Engine, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestExportRoute(t *testing.T) {
	exp := &fakeExportService{result: &model.ExportResult{Status: "queued", ExportID: "vid-9"}}
	engine := newTestRouter(t, "", exp, &fakeSettingsService{})

	w := do(engine, http.MethodPost, "/api/posts/42/export", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp ExportResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, ExportResponse{
		Status:   "queued",
		ExportID: "vid-9",
		Message:  "Your post has been successfully sent for video generation. Export ID: vid-9",
	}, resp)
	assert.Equal(t, []int64{42}, exp.exported)
}

func TestExportRouteWithoutExportID(t *testing.T) {
	exp := &fakeExportService{result: &model.ExportResult{Status: "pending"}}
	engine := newTestRouter(t, "", exp, &fakeSettingsService{})

	w := do(engine, http.MethodPost, "/api/posts/42/export", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Export ID: N/A")
	assert.Contains(t, w.Body.String(), `"export_id":""`)
}

func TestExportRouteErrors(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		code    int
		id      string
		message string
	}{
		{
			name:    "not configured",
			err:     errors.New(exporter.NotConfiguredMessage, errors.WithID("export.not_configured"), errors.WithStatus(http.StatusPreconditionFailed)),
			code:    http.StatusPreconditionFailed,
			id:      "export.not_configured",
			message: exporter.NotConfiguredMessage,
		},
		{
			name:    "unknown post",
			err:     errors.NotFound("post not found", errors.WithID("export.post_not_found")),
			code:    http.StatusNotFound,
			id:      "export.post_not_found",
			message: "post not found",
		},
		{
			name:    "api failure",
			err:     errors.New("Failed to send data to API after 3 attempts", errors.WithStatus(http.StatusBadGateway), errors.WithCause(stderrors.New("503"))),
			code:    http.StatusBadGateway,
			message: "Failed to send data to API after 3 attempts",
		},
		{
			name:    "internal",
			err:     errors.Internal("unable to load post", errors.WithCause(stderrors.New("password=hunter2"))),
			code:    http.StatusInternalServerError,
			message: "Internal Server Error",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			engine := newTestRouter(t, "", &fakeExportService{exportErr: tc.err}, &fakeSettingsService{})

			w := do(engine, http.MethodPost, "/api/posts/42/export", "", "")
			require.Equal(t, tc.code, w.Code)

			var resp outerror.ApplicationError
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tc.message, resp.DetailedError)
			assert.Equal(t, tc.id, resp.Id)
			assert.Equal(t, tc.code, resp.StatusCode)
			assert.Equal(t, http.StatusText(tc.code), resp.Status)
			assert.NotContains(t, w.Body.String(), "hunter2")
		})
	}
}

func TestExportRouteRejectsBadID(t *testing.T) {
	exp := &fakeExportService{}
	engine := newTestRouter(t, "", exp, &fakeSettingsService{})

	for _, id := range []string{"abc", "0", "-3"} {
		w := do(engine, http.MethodPost, "/api/posts/"+id+"/export", "", "")
		assert.Equal(t, http.StatusBadRequest, w.Code, id)
	}
	assert.Empty(t, exp.exported)
}

func TestGetExportStatusRoute(t *testing.T) {
	engine := newTestRouter(t, "", &fakeExportService{}, &fakeSettingsService{})

	w := do(engine, http.MethodGet, "/api/posts/42/export", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"post_id":42,"status":"queued","export_id":"vid-9","updated_at":1}`, w.Body.String())

	w = do(engine, http.MethodGet, "/api/posts/7/export", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListErrorsRoute(t *testing.T) {
	engine := newTestRouter(t, "", &fakeExportService{}, &fakeSettingsService{})

	w := do(engine, http.MethodGet, "/api/errors", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp ErrorLogResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "boom", resp.Data[0].Message)
}

func TestSettingsRoutes(t *testing.T) {
	set := &fakeSettingsService{}
	engine := newTestRouter(t, "", &fakeExportService{}, set)

	w := do(engine, http.MethodGet, "/api/settings", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"api_endpoint":"https://video.example.com","api_token":"****abcd","configured":true}`, w.Body.String())

	w = do(engine, http.MethodPut, "/api/settings", `{"api_token":"new"}`, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, set.updated.APIToken)
	assert.Equal(t, "new", *set.updated.APIToken)
	assert.Nil(t, set.updated.APIEndpoint)

	w = do(engine, http.MethodPut, "/api/settings", `{"api_endpoint":"bad"}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Please enter a valid URL for the API endpoint.")

	w = do(engine, http.MethodPut, "/api/settings", `{not json`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminAuth(t *testing.T) {
	engine := newTestRouter(t, "s3cret", &fakeExportService{}, &fakeSettingsService{})

	assert.Equal(t, http.StatusUnauthorized, do(engine, http.MethodGet, "/api/settings", "", "").Code)
	assert.Equal(t, http.StatusForbidden, do(engine, http.MethodGet, "/api/settings", "", "wrong").Code)
	assert.Equal(t, http.StatusOK, do(engine, http.MethodGet, "/api/settings", "", "s3cret").Code)

	req := httptest.NewRequest(http.MethodGet, "/api/settings", nil)
	req.Header.Set("Authorization", "Token s3cret")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Operational routes stay open.
	assert.Equal(t, http.StatusOK, do(engine, http.MethodGet, "/healthz", "", "").Code)
}

func TestHealthReportsFailingCheck(t *testing.T) {
	engine, _ := NewRouter(RouterConfig{Health: map[string]HealthCheck{
		"postgres": func(context.Context) error { return nil },
		"redis":    func(context.Context) error { return stderrors.New("connection refused") },
	}})

	w := do(engine, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"redis":"connection refused"`)
	assert.Contains(t, w.Body.String(), `"postgres":"ok"`)
}

func TestMetricsRoute(t *testing.T) {
	engine := newTestRouter(t, "", &fakeExportService{}, &fakeSettingsService{})
	do(engine, http.MethodGet, "/api/errors", "", "")

	w := do(engine, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `video_exporter_http_requests_total{endpoint="/api/errors",method="GET",status="200"} 1`)
}

func TestRecoveryReturns500(t *testing.T) {
	engine, api := NewRouter(RouterConfig{})
	api.GET("/panic", func(*gin.Context) { panic("boom") })

	w := do(engine, http.MethodGet, "/api/panic", "", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp outerror.ApplicationError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "api.process.panic", resp.Id)
	assert.Equal(t, "Internal Server Error", resp.DetailedError)
}

func frenchTranslator(t *testing.T) *locale.Translator {
	t.Helper()
	tr, err := locale.New()
	require.NoError(t, err)
	require.NoError(t, tr.AddTranslationFile("fr.json", []byte(`[
		{"id": "export.not_configured", "translation": "L'URL et le jeton de l'API ne sont pas configurés."},
		{"id": "export.submitted", "translation": "Publication envoyée pour la génération vidéo. ID d'export : {{.ExportID}}"},
		{"id": "settings.update.endpoint", "translation": "Veuillez saisir une URL valide."}
	]`)))
	return tr
}

func doInLanguage(engine *gin.Engine, method, path, body, lang string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept-Language", lang)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestMessagesFollowAcceptLanguage(t *testing.T) {
	tr := frenchTranslator(t)

	exp := &fakeExportService{result: &model.ExportResult{Status: "queued", ExportID: "vid-9"}}
	engine := newLocalizedRouter(t, tr, "", exp, &fakeSettingsService{})
	w := doInLanguage(engine, http.MethodPost, "/api/posts/42/export", "", "fr-FR,fr;q=0.9,en;q=0.8")
	require.Equal(t, http.StatusOK, w.Code)
	var ok ExportResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ok))
	assert.Equal(t, "Publication envoyée pour la génération vidéo. ID d'export : vid-9", ok.Message)

	notConfigured := errors.New(exporter.NotConfiguredMessage, errors.WithID("export.not_configured"), errors.WithStatus(http.StatusPreconditionFailed))
	engine = newLocalizedRouter(t, tr, "", &fakeExportService{exportErr: notConfigured}, &fakeSettingsService{})
	w = doInLanguage(engine, http.MethodPost, "/api/posts/42/export", "", "fr")
	require.Equal(t, http.StatusPreconditionFailed, w.Code)
	var failed outerror.ApplicationError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &failed))
	assert.Equal(t, "L'URL et le jeton de l'API ne sont pas configurés.", failed.DetailedError)
	assert.Equal(t, "export.not_configured", failed.Id)

	w = doInLanguage(engine, http.MethodPut, "/api/settings", `{"api_endpoint":"bad"}`, "fr")
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &failed))
	assert.Equal(t, "Veuillez saisir une URL valide.", failed.DetailedError)

	// No matching language: English.
	w = doInLanguage(engine, http.MethodPost, "/api/posts/42/export", "", "de-DE")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &failed))
	assert.Equal(t, exporter.NotConfiguredMessage, failed.DetailedError)
}

func TestUntranslatedErrorKeepsItsMessage(t *testing.T) {
	apiErr := errors.New("Failed to send data to API after 3 attempts",
		errors.WithID("export.api_failure"),
		errors.WithStatus(http.StatusBadGateway),
	)
	engine := newLocalizedRouter(t, frenchTranslator(t), "", &fakeExportService{exportErr: apiErr}, &fakeSettingsService{})

	w := doInLanguage(engine, http.MethodPost, "/api/posts/42/export", "", "fr")
	require.Equal(t, http.StatusBadGateway, w.Code)
	var resp outerror.ApplicationError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Failed to send data to API after 3 attempts", resp.DetailedError)
}
