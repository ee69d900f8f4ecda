package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/slotframe/pkg/core/layout"
	"github.com/matzehuels/slotframe/pkg/errors"
	"github.com/matzehuels/slotframe/pkg/observability"
	"github.com/matzehuels/slotframe/pkg/store"
)

const homeJSON = `{
  "name": "home",
  "placeholders": {
    "main": [
      {
        "name": "ContainerFiftyFifty",
        "params": {"DynamicPlaceholderId": "1"},
        "placeholders": {
          "container-fifty-left-1": [{"name": "RichText"}]
        }
      }
    ]
  }
}`

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	st, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}
	s := New(Default(), st, nil, log.NewWithOptions(io.Discard, log.Options{}))
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		ts.Close()
		_ = s.Close()
		observability.Reset()
	})
	return s, ts
}

func do(t *testing.T, method, url, contentType, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("NewRequest() error: %v", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s error: %v", method, url, err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(data)
}

func decodeError(t *testing.T, resp *http.Response) errorResponse {
	t.Helper()
	var e errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&e); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return e
}

func TestHealth(t *testing.T) {
	_, ts := newTestServer(t)

	resp := do(t, http.MethodGet, ts.URL+"/healthz", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if _, err := uuid.Parse(resp.Header.Get(RequestIDHeader)); err != nil {
		t.Errorf("%s = %q, want a UUID", RequestIDHeader, resp.Header.Get(RequestIDHeader))
	}
	var h healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if h.Status != "ok" || h.Build.Version == "" {
		t.Errorf("health = %+v", h)
	}
}

func TestRequestIDPropagated(t *testing.T) {
	_, ts := newTestServer(t)
	id := uuid.NewString()

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	req.Header.Set(RequestIDHeader, id)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if got := resp.Header.Get(RequestIDHeader); got != id {
		t.Errorf("%s = %q, want %q", RequestIDHeader, got, id)
	}
}

func TestVariants(t *testing.T) {
	_, ts := newTestServer(t)

	resp := do(t, http.MethodGet, ts.URL+"/variants", "", "")
	var out []variantInfo
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 9 {
		t.Fatalf("got %d variants, want 9", len(out))
	}
	for _, v := range out {
		if v.ID == "thirty-seventy" && strings.Join(v.Ratios, ",") != "3/10,7/10" {
			t.Errorf("thirty-seventy ratios = %v", v.Ratios)
		}
		if v.ID == "row-splitter" && v.Split != "rows" {
			t.Errorf("row-splitter split = %q", v.Split)
		}
	}
}

func TestResolve(t *testing.T) {
	_, ts := newTestServer(t)

	tests := []struct {
		name     string
		body     string
		wantKeys []string
	}{
		{
			name:     "by variant",
			body:     `{"variant":"fifty-fifty","params":{"DynamicPlaceholderId":"1"}}`,
			wantKeys: []string{"container-fifty-left-1", "container-fifty-right-1"},
		},
		{
			name:     "by component",
			body:     `{"component":"RowSplitter","params":{"DynamicPlaceholderId":"7","EnabledPlaceholders":"1,3","Styles3":"bg-gray"}}`,
			wantKeys: []string{"row-1-7", "row-3-7"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, http.MethodPost, ts.URL+"/resolve", "application/json", tt.body)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d, body %s", resp.StatusCode, readBody(t, resp))
			}
			var tree layout.Tree
			if err := json.NewDecoder(resp.Body).Decode(&tree); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got := strings.Join(tree.SlotKeys(), ","); got != strings.Join(tt.wantKeys, ",") {
				t.Errorf("slot keys = %s, want %v", got, tt.wantKeys)
			}
		})
	}
}

func TestResolveErrors(t *testing.T) {
	_, ts := newTestServer(t)

	tests := []struct {
		name     string
		body     string
		wantCode errors.Code
	}{
		{"unknown variant", `{"variant":"seventy-thirty"}`, errors.ErrCodeUnknownVariant},
		{"content component", `{"component":"RichText"}`, errors.ErrCodeUnknownVariant},
		{"nothing named", `{"params":{}}`, errors.ErrCodeInvalidInput},
		{"bad json", `{"variant":`, errors.ErrCodeInvalidInput},
		{"unknown field", `{"variant":"quarters","extra":1}`, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, http.MethodPost, ts.URL+"/resolve", "application/json", tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
			if e := decodeError(t, resp); e.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", e.Code, tt.wantCode)
			}
		})
	}
}

func TestRender(t *testing.T) {
	_, ts := newTestServer(t)

	resp := do(t, http.MethodPost, ts.URL+"/render?format=html", "application/json", homeJSON)
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
	if resp.Header.Get(HeaderIssues) != "0" {
		t.Errorf("%s = %q, want 0", HeaderIssues, resp.Header.Get(HeaderIssues))
	}
	if !strings.Contains(body, `data-slot="container-fifty-left-1"`) {
		t.Errorf("body missing slot: %s", body)
	}
}

func TestRenderYAMLBody(t *testing.T) {
	_, ts := newTestServer(t)

	yamlPage := `name: about
placeholders:
  main:
    - variant: full-width
    - name: Hero
`
	resp := do(t, http.MethodPost, ts.URL+"/render?format=json", "application/yaml", yamlPage)
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, body)
	}
	if !strings.Contains(body, "container-full-width") {
		t.Errorf("json document missing full-width layout: %s", body)
	}
}

func TestRenderErrors(t *testing.T) {
	_, ts := newTestServer(t)

	tests := []struct {
		name        string
		query       string
		contentType string
		body        string
		wantStatus  int
		wantCode    errors.Code
	}{
		{"bad format", "?format=gif", "application/json", homeJSON, 400, errors.ErrCodeInvalidFormat},
		{"bad content type", "", "text/plain", homeJSON, 400, errors.ErrCodeInvalidFormat},
		{"invalid page", "", "application/json", `{"name":""}`, 400, errors.ErrCodeInvalidPage},
		{"bad max depth", "?max_depth=zero", "application/json", homeJSON, 400, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, http.MethodPost, ts.URL+"/render"+tt.query, tt.contentType, tt.body)
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if e := decodeError(t, resp); e.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", e.Code, tt.wantCode)
			}
		})
	}
}

func TestPages(t *testing.T) {
	_, ts := newTestServer(t)

	resp := do(t, http.MethodPut, ts.URL+"/pages/home", "application/json", homeJSON)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("PUT status = %d, body %s", resp.StatusCode, readBody(t, resp))
	}

	resp = do(t, http.MethodGet, ts.URL+"/pages", "", "")
	var list map[string][]string
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if strings.Join(list["pages"], ",") != "home" {
		t.Errorf("pages = %v, want [home]", list["pages"])
	}

	resp = do(t, http.MethodGet, ts.URL+"/pages/home?format=yaml", "", "")
	if ct := resp.Header.Get("Content-Type"); ct != "application/yaml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if body := readBody(t, resp); !strings.Contains(body, "ContainerFiftyFifty") {
		t.Errorf("yaml body = %s", body)
	}

	resp = do(t, http.MethodGet, ts.URL+"/pages/home?render=dot", "", "")
	if body := readBody(t, resp); !strings.HasPrefix(body, "digraph") {
		t.Errorf("dot body = %s", body)
	}
}

func TestPutPageNameFromPath(t *testing.T) {
	_, ts := newTestServer(t)

	body := "placeholders:\n  main:\n    - variant: full-width\n"
	resp := do(t, http.MethodPut, ts.URL+"/pages/about", "application/yaml", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("PUT status = %d, body %s", resp.StatusCode, readBody(t, resp))
	}
	var got map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["page"] != "about" || got["hash"] == "" {
		t.Errorf("response = %v", got)
	}
}

func TestPagesErrors(t *testing.T) {
	_, ts := newTestServer(t)

	resp := do(t, http.MethodGet, ts.URL+"/pages/missing", "", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("GET missing status = %d, want 404", resp.StatusCode)
	}
	if e := decodeError(t, resp); e.Code != errors.ErrCodePageNotFound {
		t.Errorf("code = %s", e.Code)
	}

	resp = do(t, http.MethodPut, ts.URL+"/pages/other", "application/json", homeJSON)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("PUT mismatched name status = %d, want 400", resp.StatusCode)
	}
}

// routeRecorder captures the routes reported to the HTTP hooks.
type routeRecorder struct {
	observability.NoopHTTPHooks
	mu        sync.Mutex
	requests  []string
	responses []string
}

func (r *routeRecorder) OnRequest(_ context.Context, method, route string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = append(r.requests, method+" "+route)
}

func (r *routeRecorder) OnResponse(_ context.Context, method, route string, _ int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses = append(r.responses, method+" "+route)
}

func TestHTTPHooksReceiveRoutePatterns(t *testing.T) {
	_, ts := newTestServer(t)
	rec := &routeRecorder{}
	observability.SetHTTPHooks(rec)

	readBody(t, do(t, http.MethodGet, ts.URL+"/pages/home", "", ""))
	readBody(t, do(t, http.MethodGet, ts.URL+"/pages/about", "", ""))
	readBody(t, do(t, http.MethodGet, ts.URL+"/no/such/path", "", ""))

	want := []string{"GET /pages/{name}", "GET /pages/{name}", "GET " + unmatchedRoute}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if strings.Join(rec.requests, ",") != strings.Join(want, ",") {
		t.Errorf("OnRequest routes = %v, want %v", rec.requests, want)
	}
	if strings.Join(rec.responses, ",") != strings.Join(want, ",") {
		t.Errorf("OnResponse routes = %v, want %v", rec.responses, want)
	}
}

func TestMetrics(t *testing.T) {
	_, ts := newTestServer(t)

	do(t, http.MethodPost, ts.URL+"/resolve", "application/json", `{"variant":"quarters"}`)
	resp := do(t, http.MethodGet, ts.URL+"/metrics", "", "")
	body := readBody(t, resp)
	for _, want := range []string{
		`slotframe_http_requests_total{method="POST",route="/resolve",status="200"} 1`,
		`slotframe_layout_resolves_total{status="ok",variant="quarters"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestConfig(t *testing.T) {
	t.Setenv("SLOTFRAME_PORT", "9090")
	t.Setenv("SLOTFRAME_REDIS_URL", "redis://localhost:6379/0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Addr() != "0.0.0.0:9090" {
		t.Errorf("Addr() = %q", cfg.Addr())
	}
	if cfg.RedisURL != "redis://localhost:6379/0" || cfg.PagesDir != "pages" {
		t.Errorf("cfg = %+v", cfg)
	}
	want := Default()
	want.Port = "9090"
	want.RedisURL = "redis://localhost:6379/0"
	if *cfg != *want {
		t.Errorf("Load() = %+v, want %+v", cfg, want)
	}
}

func TestUnknownRoute(t *testing.T) {
	_, ts := newTestServer(t)

	resp := do(t, http.MethodGet, ts.URL+"/nope", "", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
	if e := decodeError(t, resp); e.Code != errors.ErrCodeNotFound {
		t.Errorf("code = %s, want %s", e.Code, errors.ErrCodeNotFound)
	}

	resp = do(t, http.MethodDelete, ts.URL+"/variants", "", "")
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("DELETE /variants status = %d, want 405", resp.StatusCode)
	}
}
