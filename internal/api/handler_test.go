package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/resources/internal/resource"
)

const documentYAML = `
actions:
  mine:
    items:
      wood: 2
    bonus:
      mining: 1
  chop:
    items:
      wood: 1
    bonus:
      woodcutting: 1
    requirements: [axe]
deferred:
  chop:
    - checks:
        sharp: true
      result:
        log: 2
`

type stubLoader struct {
	payload resource.Payload
	err     error
	calls   int
}

func (s *stubLoader) LoadPayload(context.Context) (resource.Payload, error) {
	s.calls++
	return s.payload, s.err
}

func newFileServer(t *testing.T, doc string) *httptest.Server {
	t.Helper()
	path := filepath.Join(t.TempDir(), "resources.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))
	loader, err := resource.NewLoader(path, zap.NewNop())
	require.NoError(t, err)
	ts := httptest.NewServer(NewHandler(loader, nil, zaptest.NewLogger(t)).Router())
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, ts *httptest.Server, path string, v any) *http.Response {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	if v != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	}
	return resp
}

func TestHealthCheck(t *testing.T) {
	ts := newFileServer(t, documentYAML)
	var body map[string]string
	resp := getJSON(t, ts, "/api/health", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestGetPayload(t *testing.T) {
	ts := newFileServer(t, documentYAML)
	var body map[string]any
	resp := getJSON(t, ts, "/api/resources", &body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	assert.Equal(t, []any{"mining", "woodcutting"}, body["skills"])
	assert.Equal(t, map[string]any{"wood": 1.0}, body["costs"])
	assert.Equal(t, []any{"axe"}, body["equipments"])
	assert.Contains(t, body["actions"], "mine")
	assert.Contains(t, body["deferred"], "chop")
}

func TestGetIndices(t *testing.T) {
	ts := newFileServer(t, documentYAML)

	var skills []string
	resp := getJSON(t, ts, "/api/resources/skills", &skills)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"mining", "woodcutting"}, skills)

	var costs map[string]float64
	resp = getJSON(t, ts, "/api/resources/costs", &costs)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]float64{"wood": 1}, costs)

	var equipments []string
	resp = getJSON(t, ts, "/api/resources/equipments", &equipments)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"axe"}, equipments)
}

func TestGetEquipments_LegacySchema(t *testing.T) {
	ts := newFileServer(t, "actions:\n  fish:\n    items: {bait: 1}\n    bonus: {fishing: 1}\ndeferred: {}\n")

	var body map[string]any
	resp := getJSON(t, ts, "/api/resources", &body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, body, "equipments")

	var errBody map[string]string
	resp = getJSON(t, ts, "/api/resources/equipments", &errBody)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.NotEmpty(t, errBody["error"])
}

func TestLoadErrorsMapToStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{err: &resource.FetchError{Location: "x", Err: errors.New("connection refused")}, want: http.StatusBadGateway},
		{err: &resource.ParseError{Path: "actions", Err: errors.New("expected a mapping")}, want: http.StatusUnprocessableEntity},
		{err: fmt.Errorf("wrapped: %w", context.DeadlineExceeded), want: http.StatusGatewayTimeout},
		{err: errors.New("unexpected"), want: http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			loader := &stubLoader{err: tc.err}
			ts := httptest.NewServer(NewHandler(loader, nil, zaptest.NewLogger(t)).Router())
			defer ts.Close()

			for _, path := range []string{"/api/resources", "/api/resources/skills", "/api/resources/costs", "/api/resources/equipments"} {
				var body map[string]string
				resp := getJSON(t, ts, path, &body)
				assert.Equal(t, tc.want, resp.StatusCode, path)
				assert.Equal(t, tc.err.Error(), body["error"], path)
			}
		})
	}
}

func TestEveryRequestLoadsAgain(t *testing.T) {
	loader := &stubLoader{}
	ts := httptest.NewServer(NewHandler(loader, nil, zap.NewNop()).Router())
	defer ts.Close()

	getJSON(t, ts, "/api/resources", nil)
	getJSON(t, ts, "/api/resources/skills", nil)
	assert.Equal(t, 2, loader.calls)
}

func TestCORSPreflight(t *testing.T) {
	ts := httptest.NewServer(NewHandler(&stubLoader{}, []string{"http://localhost:5173"}, zap.NewNop()).Router())
	defer ts.Close()

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/resources", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "GET")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
}
