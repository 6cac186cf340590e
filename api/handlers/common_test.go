// Common test helpers
package handlers

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/catalogsearch/config"
	"github.com/meghashyamc/catalogsearch/db/catalogdb"
	"github.com/meghashyamc/catalogsearch/db/kvdb"
	"github.com/meghashyamc/catalogsearch/engine"
	"github.com/meghashyamc/catalogsearch/logger"
	"github.com/meghashyamc/catalogsearch/metrics"
	"github.com/meghashyamc/catalogsearch/services/documents"
	"github.com/meghashyamc/catalogsearch/services/search"
	"github.com/meghashyamc/catalogsearch/validation"
	"github.com/stretchr/testify/require"
)

var defaultTestRequestHeaders = map[string]string{"Content-Type": "application/json"}

var testDocuments = []map[string]any{
	{"title": "Foxes", "content": "the quick brown fox", "tags": []string{"animals"}},
	{"title": "Dogs", "content": "the lazy dog", "tags": []string{"animals", "pets"}},
	{"title": "Baking", "content": "apple pie recipe", "tags": []string{"food"}},
	{"title": "Painting", "content": "the colour wheel", "tags": []string{"art"}},
}

type testCase struct {
	name           string
	requestHeaders map[string]string
	requestBody    map[string]any
	queryParams    map[string]string
	expectedStatus int
}

type envelope[T any] struct {
	Data   T        `json:"data"`
	Errors []string `json:"errors"`
}

func newTestLogger() logger.Logger {

	opts := &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: true,
	}
	handler := slog.NewJSONHandler(os.Stderr, opts)
	return slog.New(handler)
}

func setupTestServer(t *testing.T, assert *require.Assertions) *gin.Engine {

	dir := t.TempDir()
	t.Setenv("ENV", "test")
	t.Setenv("STORAGE_PATH", dir)
	t.Setenv("KVDB_PATH", filepath.Join(dir, "documents.db"))

	cfg, err := config.Load()
	assert.NoError(err, "could not load config")

	testLogger := newTestLogger()

	kvDB, err := kvdb.New(testLogger, cfg)
	assert.NoError(err, "could not create kv database")
	catalogDB, err := catalogdb.New(testLogger, cfg)
	assert.NoError(err, "could not create catalog database")
	validator, err := validation.New(testLogger)
	assert.NoError(err, "could not create validator")

	t.Cleanup(func() {
		assert.NoError(catalogDB.Close(), "could not close catalog database")
		assert.NoError(kvDB.Close(), "could not close kv database")
	})

	searchEngine := engine.New(testLogger, engine.Config{FuzzyIncrement: cfg.GetFuzzyIncrement()})
	m := metrics.New()
	documentService := documents.New(testLogger, kvDB, catalogDB, searchEngine, m)
	searchService := search.New(testLogger, searchEngine, m)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	SetupDocuments(router, testLogger, documentService, validator)
	SetupSearch(router, testLogger, searchService, validator, cfg.GetSearchDefaults())

	return router
}

func seedDocuments(router *gin.Engine, assert *require.Assertions) []string {
	ids := make([]string, 0, len(testDocuments))
	for _, doc := range testDocuments {
		w := makeTestHTTPRequest(router, assert, http.MethodPost, "/documents", defaultTestRequestHeaders, doc, nil)
		assert.Equal(http.StatusCreated, w.Code, w.Body.String())

		var created envelope[engine.Document]
		assert.NoError(json.Unmarshal(w.Body.Bytes(), &created))
		ids = append(ids, created.Data.ID)
	}
	return ids
}

func makeTestHTTPRequest(router *gin.Engine, assert *require.Assertions, method string, endpoint string, headers map[string]string, requestBodyMap map[string]interface{}, queryParams map[string]string) *httptest.ResponseRecorder {

	var err error
	w := httptest.NewRecorder()

	if len(queryParams) > 0 {
		values := url.Values{}
		for key, value := range queryParams {
			values.Set(key, value)
		}
		endpoint = endpoint + "?" + values.Encode()
	}
	var jsonBody []byte
	var req *http.Request
	if requestBodyMap != nil {
		jsonBody, err = json.Marshal(requestBodyMap)
		assert.NoError(err)
	}

	slog.Info("Making test request", "method", method, "endpoint", endpoint, "headers", headers, "body", string(jsonBody))

	if len(jsonBody) > 0 {
		req, err = http.NewRequest(method, endpoint, bytes.NewBuffer(jsonBody))
	} else {
		req, err = http.NewRequest(method, endpoint, nil)
	}
	assert.NoError(err)

	for key, value := range headers {
		req.Header.Set(key, value)
	}
	router.ServeHTTP(w, req)

	return w
}
