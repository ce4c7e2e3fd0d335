package server_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/0x5457/textsim/internal/compare"
	"github.com/0x5457/textsim/internal/device"
	"github.com/0x5457/textsim/internal/embeddings"
	"github.com/0x5457/textsim/internal/history"
	"github.com/0x5457/textsim/internal/logger"
	"github.com/0x5457/textsim/internal/metrics"
	"github.com/0x5457/textsim/internal/models"
	"github.com/0x5457/textsim/internal/registry"
	"github.com/0x5457/textsim/internal/server"
	"github.com/0x5457/textsim/internal/storage/memory"
	"github.com/0x5457/textsim/internal/tokenizer"
	"github.com/0x5457/textsim/internal/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingEmbedder struct{}

func (failingEmbedder) EmbedTexts(context.Context, []string) ([][]float32, error) {
	return nil, errors.New("backend unavailable")
}
func (failingEmbedder) ModelName() string { return "failing" }
func (failingEmbedder) Dimension() int    { return 4 }

func newRouter(t *testing.T, opts server.RouterOptions) http.Handler {
	t.Helper()
	tok, err := tokenizer.New(tokenizer.BasicVocab())
	require.NoError(t, err)

	reg, err := registry.New(device.CPU, map[string]embeddings.Embedder{
		models.ModelSentenceTransformers: embeddings.NewSentence(
			embeddings.NewLocalSentenceEncoder(384), "local-sentence", 384),
		models.ModelBertSmall: embeddings.NewMeanPooling(
			tok, embeddings.NewLocalTokenModel(512), "local-bert", 512, tokenizer.DefaultMaxLength),
		"failing": failingEmbedder{},
	})
	require.NoError(t, err)

	pool := worker.NewPool(2, 4)
	t.Cleanup(pool.Close)

	log := logger.NewNop()
	m := metrics.New("test")
	svc := compare.NewService(reg, pool, log, m)
	hist := history.NewService(svc, memory.NewComparisonStore())
	return server.NewRouter(server.NewHandler(svc, hist, log), m, log, opts)
}

func do(t *testing.T, h http.Handler, method, path, body string) (*http.Response, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	res := rec.Result()
	var out map[string]any
	if rec.Body.Len() > 0 && strings.HasPrefix(res.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return res, out
}

func TestComputeEmbeddings(t *testing.T) {
	h := newRouter(t, server.RouterOptions{})

	tests := []struct {
		name string
		body string
	}{
		{"default model", `{"text1":"the cat sat","text2":"a cat was sitting"}`},
		{"sentence model", `{"text1":"the cat sat","text2":"a dog ran","model":"sentence-transformers"}`},
		{"bert model", `{"text1":"the cat sat","text2":"a dog ran","model":"bert-small"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, out := do(t, h, http.MethodPost, "/compute-embeddings", tt.body)
			require.Equal(t, http.StatusOK, res.StatusCode)
			require.Contains(t, out, "similarity")
			score, ok := out["similarity"].(float64)
			require.True(t, ok)
			assert.GreaterOrEqual(t, score, -1.0)
			assert.LessOrEqual(t, score, 1.0)
		})
	}
}

func TestComputeEmbeddingsDefaultModel(t *testing.T) {
	h := newRouter(t, server.RouterOptions{})

	res, omitted := do(t, h, http.MethodPost, "/compute-embeddings",
		`{"text1":"the cat sat on the mat","text2":"a dog slept on the rug"}`)
	require.Equal(t, http.StatusOK, res.StatusCode)
	res, explicit := do(t, h, http.MethodPost, "/compute-embeddings",
		`{"text1":"the cat sat on the mat","text2":"a dog slept on the rug","model":"sentence-transformers"}`)
	require.Equal(t, http.StatusOK, res.StatusCode)
	res, bert := do(t, h, http.MethodPost, "/compute-embeddings",
		`{"text1":"the cat sat on the mat","text2":"a dog slept on the rug","model":"bert-small"}`)
	require.Equal(t, http.StatusOK, res.StatusCode)

	assert.Equal(t, explicit["similarity"], omitted["similarity"])
	assert.NotEqual(t, bert["similarity"], omitted["similarity"])
}

func TestComputeEmbeddingsIdenticalTexts(t *testing.T) {
	h := newRouter(t, server.RouterOptions{})

	_, out := do(t, h, http.MethodPost, "/compute-embeddings",
		`{"text1":"same words here","text2":"same words here","model":"bert-small"}`)
	assert.InDelta(t, 1.0, out["similarity"], 1e-5)
}

func TestComputeEmbeddingsErrors(t *testing.T) {
	h := newRouter(t, server.RouterOptions{})

	tests := []struct {
		name   string
		body   string
		status int
		detail string
	}{
		{
			name:   "unsupported model",
			body:   `{"text1":"a","text2":"b","model":"gpt-4"}`,
			status: http.StatusBadRequest,
			detail: "Unsupported model selected",
		},
		{
			name:   "explicit empty model",
			body:   `{"text1":"a","text2":"b","model":""}`,
			status: http.StatusBadRequest,
			detail: "Unsupported model selected",
		},
		{
			name:   "null model",
			body:   `{"text1":"a","text2":"b","model":null}`,
			status: http.StatusUnprocessableEntity,
			detail: "model must be a string",
		},
		{
			name:   "non-string model",
			body:   `{"text1":"a","text2":"b","model":5}`,
			status: http.StatusUnprocessableEntity,
			detail: "model must be a string",
		},
		{
			name:   "null text",
			body:   `{"text1":null,"text2":"b"}`,
			status: http.StatusUnprocessableEntity,
			detail: "text1 and text2 are required",
		},
		{
			name:   "missing text",
			body:   `{"text1":"a"}`,
			status: http.StatusUnprocessableEntity,
			detail: "text1 and text2 are required",
		},
		{
			name:   "empty text",
			body:   `{"text1":"","text2":"b"}`,
			status: http.StatusUnprocessableEntity,
			detail: compare.ErrEmptyText.Error(),
		},
		{
			name:   "inference failure",
			body:   `{"text1":"a","text2":"b","model":"failing"}`,
			status: http.StatusInternalServerError,
			detail: "Error computing embeddings: backend unavailable",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, out := do(t, h, http.MethodPost, "/compute-embeddings", tt.body)
			assert.Equal(t, tt.status, res.StatusCode)
			assert.Equal(t, tt.detail, out["detail"])
		})
	}
}

func TestComputeEmbeddingsMalformedJSON(t *testing.T) {
	h := newRouter(t, server.RouterOptions{})

	res, out := do(t, h, http.MethodPost, "/compute-embeddings", `{"text1":`)
	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	assert.Contains(t, out["detail"], "Invalid JSON payload")
}

func TestBodyTooLarge(t *testing.T) {
	h := newRouter(t, server.RouterOptions{})
	body := `{"text1":"` + strings.Repeat("a", 5<<20) + `","text2":"b"}`

	res, out := do(t, h, http.MethodPost, "/compute-embeddings", body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, res.StatusCode)
	assert.Equal(t, "Request body too large", out["detail"])

	res, out = do(t, h, http.MethodPost, "/api/compare", body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, res.StatusCode)
	assert.Equal(t, "Request body too large", out["error"])
}

func TestComputeEmbeddingsWrongMethod(t *testing.T) {
	h := newRouter(t, server.RouterOptions{})

	res, _ := do(t, h, http.MethodGet, "/compute-embeddings", "")
	assert.Equal(t, http.StatusMethodNotAllowed, res.StatusCode)
}

func TestModelsAndHealth(t *testing.T) {
	h := newRouter(t, server.RouterOptions{})

	res, out := do(t, h, http.MethodGet, "/models", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, []any{"bert-small", "failing", "sentence-transformers"}, out["models"])
	assert.Equal(t, models.DefaultModel, out["default"])

	res, out = do(t, h, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "ok", out["status"])
}

func TestComparisonHistory(t *testing.T) {
	h := newRouter(t, server.RouterOptions{})

	for _, pair := range [][2]string{{"one", "uno"}, {"two", "dos"}, {"three", "tres"}} {
		res, out := do(t, h, http.MethodPost, "/api/compare",
			`{"text1":"`+pair[0]+`","text2":"`+pair[1]+`"}`)
		require.Equal(t, http.StatusOK, res.StatusCode)
		require.Contains(t, out, "similarity")
	}

	res, out := do(t, h, http.MethodGet, "/api/compare?page=1&limit=2", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.EqualValues(t, 3, out["total"])
	assert.EqualValues(t, 1, out["page"])
	assert.EqualValues(t, 2, out["totalPages"])

	items, ok := out["comparisons"].([]any)
	require.True(t, ok)
	require.Len(t, items, 2)
	newest := items[0].(map[string]any)
	assert.Equal(t, "three", newest["text1"])
	assert.Equal(t, models.DefaultModel, newest["model"])

	res, _ = do(t, h, http.MethodDelete, "/api/compare/"+newest["id"].(string), "")
	assert.Equal(t, http.StatusNoContent, res.StatusCode)

	res, out = do(t, h, http.MethodDelete, "/api/compare/"+newest["id"].(string), "")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, "Comparison not found", out["error"])

	res, out = do(t, h, http.MethodGet, "/api/compare?page=2305843009213693953&limit=5", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.EqualValues(t, 2, out["total"])
	assert.Empty(t, out["comparisons"])

	_, out = do(t, h, http.MethodGet, "/api/compare?page=abc&limit=-3", "")
	assert.EqualValues(t, 2, out["total"])
	assert.EqualValues(t, history.DefaultPage, out["page"])
	assert.EqualValues(t, 1, out["totalPages"])
}

func TestComparisonHistoryErrors(t *testing.T) {
	h := newRouter(t, server.RouterOptions{})

	tests := []struct {
		name   string
		body   string
		status int
		error  string
	}{
		{"missing text", `{"text1":"a"}`, http.StatusBadRequest, "Both texts are required"},
		{"malformed json", `not json`, http.StatusBadRequest, "Invalid JSON payload"},
		{"unsupported model", `{"text1":"a","text2":"b","model":"gpt-4"}`, http.StatusBadRequest, "Unsupported model selected"},
		{"inference failure", `{"text1":"a","text2":"b","model":"failing"}`, http.StatusInternalServerError, "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, out := do(t, h, http.MethodPost, "/api/compare", tt.body)
			assert.Equal(t, tt.status, res.StatusCode)
			assert.Equal(t, tt.error, out["error"])
		})
	}

	_, out := do(t, h, http.MethodGet, "/api/compare", "")
	assert.EqualValues(t, 0, out["total"])
}

func TestCORSPreflight(t *testing.T) {
	h := newRouter(t, server.RouterOptions{})

	res, _ := do(t, h, http.MethodOptions, "/api/compare", "")
	assert.Equal(t, http.StatusNoContent, res.StatusCode)
	assert.Equal(t, "*", res.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, res.Header.Get("Access-Control-Allow-Methods"), "DELETE")

	res, _ = do(t, h, http.MethodGet, "/health", "")
	assert.Empty(t, res.Header.Get("Access-Control-Allow-Origin"))
}

func TestRequestID(t *testing.T) {
	h := newRouter(t, server.RouterOptions{})

	res, _ := do(t, h, http.MethodGet, "/health", "")
	assert.NotEmpty(t, res.Header.Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestMetricsEndpoint(t *testing.T) {
	h := newRouter(t, server.RouterOptions{ServeMetrics: true})

	do(t, h, http.MethodPost, "/compute-embeddings", `{"text1":"a","text2":"b"}`)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `textsim_http_requests_total`)
	assert.Contains(t, body, `route="POST /compute-embeddings"`)
	assert.Contains(t, body, `textsim_inference_duration_seconds`)

	h = newRouter(t, server.RouterOptions{})
	res, _ := do(t, h, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestRateLimit(t *testing.T) {
	h := newRouter(t, server.RouterOptions{RateLimit: 0.001, RateBurst: 1})

	res, _ := do(t, h, http.MethodGet, "/models", "")
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, out := do(t, h, http.MethodGet, "/models", "")
	assert.Equal(t, http.StatusTooManyRequests, res.StatusCode)
	assert.Equal(t, "Too many requests", out["detail"])

	res, _ = do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, res.StatusCode)
}
