package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"qrdaconv/internal/api"
	"qrdaconv/internal/config"
	"qrdaconv/internal/convert"
	"qrdaconv/internal/handlers"
	"qrdaconv/internal/testsupport"
)

func newServer(t *testing.T, cfg *config.Config) *api.Server {
	t.Helper()
	reg, err := handlers.NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return api.NewServer(convert.New(cfg, reg, nil), cfg, nil)
}

type convertResponse struct {
	QPP      map[string]any   `json:"qpp"`
	Findings []map[string]any `json:"findings"`
	Error    string           `json:"error"`
}

func post(t *testing.T, srv http.Handler, target, contentType, body string) (*httptest.ResponseRecorder, convertResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	var resp convertResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return rec, resp
}

func TestHealth(t *testing.T) {
	srv := newServer(t, testsupport.NewConfig(t))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Fatalf("unexpected health response %d %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatal("expected request id header")
	}
}

func TestConvertReturnsQPPAndFindings(t *testing.T) {
	srv := newServer(t, testsupport.NewConfig(t))

	rec, resp := post(t, srv, "/v1/convert", "application/xml; charset=utf-8", testsupport.QRDADocument)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	if resp.QPP["programName"] != "mips" || resp.QPP["TIN"] != "123456789" {
		t.Fatalf("unexpected qpp %v", resp.QPP)
	}
	if resp.Findings == nil || len(resp.Findings) != 0 {
		t.Fatalf("expected empty findings array, got %v", resp.Findings)
	}

	rec, resp = post(t, srv, "/v1/convert", "text/xml", testsupport.IncompleteDocument)
	if rec.Code != http.StatusOK || len(resp.Findings) == 0 {
		t.Fatalf("expected findings, got %d %v", rec.Code, resp.Findings)
	}

	_, resp = post(t, srv, "/v1/convert?skipValidation=true", "text/xml", testsupport.IncompleteDocument)
	if len(resp.Findings) != 0 {
		t.Fatalf("expected validation skipped, got %v", resp.Findings)
	}
}

func TestConvertRejectsBadRequests(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.API.MaxBodyBytes = 96
	srv := newServer(t, cfg)

	tests := []struct {
		name        string
		target      string
		contentType string
		body        string
		want        int
	}{
		{"wrong content type", "/v1/convert", "application/json", "{}", http.StatusUnsupportedMediaType},
		{"missing content type", "/v1/convert", "", "<a/>", http.StatusUnsupportedMediaType},
		{"malformed xml", "/v1/convert", "application/xml", testsupport.MalformedXML, http.StatusUnprocessableEntity},
		{"bad flag", "/v1/convert?skipDefaults=maybe", "application/xml", "<a/>", http.StatusBadRequest},
		{"too large", "/v1/convert", "application/xml", "<a>" + strings.Repeat("x", 200) + "</a>", http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := post(t, srv, tt.target, tt.contentType, tt.body)
			if rec.Code != tt.want {
				t.Fatalf("status %d want %d: %s", rec.Code, tt.want, rec.Body.String())
			}
			if resp.Error == "" {
				t.Fatal("expected error message")
			}
		})
	}
}

func TestConvertNotAcceptable(t *testing.T) {
	srv := newServer(t, testsupport.NewConfig(t))
	req := httptest.NewRequest(http.MethodPost, "/v1/convert", strings.NewReader("<a/>"))
	req.Header.Set("Content-Type", "application/xml")
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotAcceptable {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	srv := newServer(t, testsupport.NewConfig(t))
	if err := srv.Listen(); err != nil {
		t.Fatalf("Listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()

	resp, err := http.Get("http://" + srv.Addr() + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Serve: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
