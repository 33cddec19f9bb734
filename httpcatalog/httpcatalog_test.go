package httpcatalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alecgard/apicatalog/catalog"
)

func testConfig() *catalog.Config {
	return &catalog.Config{
		APIs: []catalog.APIEntry{{
			ID:       "test-api",
			BasePath: "/api/v1",
			Specs:    []catalog.SpecRef{{LinkObject: catalog.LinkObject{Href: "/api/v1/openapi.json"}}},
		}},
	}
}

func TestHandler_Get(t *testing.T) {
	h, err := Handler(testConfig())
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/.well-known/api-catalog", nil)
	req.Host = "api.example.com"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "application/linkset+json") {
		t.Errorf("unexpected content type %q", ct)
	}
	if link := rec.Header().Get("Link"); link != `<http://api.example.com/.well-known/api-catalog>; rel="api-catalog"` {
		t.Errorf("unexpected link header %q", link)
	}

	var body struct {
		Linkset []struct {
			Anchor      string `json:"anchor"`
			ServiceDesc []struct {
				Href string `json:"href"`
			} `json:"service-desc"`
		} `json:"linkset"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Linkset) != 1 || body.Linkset[0].Anchor != "http://api.example.com/api/v1" {
		t.Errorf("unexpected linkset %+v", body.Linkset)
	}
	if body.Linkset[0].ServiceDesc[0].Href != "/api/v1/openapi.json" {
		t.Errorf("unexpected service-desc %+v", body.Linkset[0].ServiceDesc)
	}
}

func TestHandler_Head(t *testing.T) {
	h, _ := Handler(testConfig())

	req := httptest.NewRequest(http.MethodHead, "/.well-known/api-catalog", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("expected empty body, got %q", rec.Body.String())
	}
	if !strings.Contains(rec.Header().Get("Link"), `rel="api-catalog"`) {
		t.Errorf("missing Link header")
	}
}

func TestHandler_NotFoundAndMethodNotAllowed(t *testing.T) {
	h, _ := Handler(testConfig())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/other-path", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/.well-known/api-catalog", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); allow != "GET, HEAD" {
		t.Errorf("expected Allow: GET, HEAD, got %q", allow)
	}
}

func TestMiddleware_PassesThrough(t *testing.T) {
	mw, err := Middleware(testConfig())
	if err != nil {
		t.Fatal(err)
	}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("hello"))
	})
	h := mw(next)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/hello", nil))
	if rec.Body.String() != "hello" {
		t.Errorf("expected pass-through, got %q", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/.well-known/api-catalog", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "linkset") {
		t.Errorf("expected catalog, got %d %q", rec.Code, rec.Body.String())
	}
}

func TestRegister_ServeMux(t *testing.T) {
	mux := http.NewServeMux()
	if err := Register(mux, testConfig()); err != nil {
		t.Fatal(err)
	}

	for _, method := range []string{http.MethodGet, http.MethodHead} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(method, "/.well-known/api-catalog", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", method, rec.Code)
		}
	}
}

func TestNilConfig(t *testing.T) {
	if _, err := Handler(nil); !errors.Is(err, catalog.ErrNoConfig) {
		t.Errorf("Handler: expected ErrNoConfig, got %v", err)
	}
	if _, err := Middleware(nil); !errors.Is(err, catalog.ErrNoConfig) {
		t.Errorf("Middleware: expected ErrNoConfig, got %v", err)
	}
	if err := Register(http.NewServeMux(), nil); !errors.Is(err, catalog.ErrNoConfig) {
		t.Errorf("Register: expected ErrNoConfig, got %v", err)
	}
}

func TestObserverAndTrustedProxy(t *testing.T) {
	cfg := testConfig()
	cfg.Origin = &catalog.FromRequestStrategy{Trust: catalog.TrustAll()}

	var got catalog.OriginResult
	var status int
	s, err := New(cfg, WithObserver(func(r *http.Request, origin catalog.OriginResult, code int) {
		got, status = origin, code
	}))
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/.well-known/api-catalog", nil)
	req.Host = "internal.local"
	req.Header.Set("Forwarded", "proto=https;host=api.forwarded.dev")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if got.Origin != "https://api.forwarded.dev" || !got.Forwarded {
		t.Errorf("unexpected observed origin %+v", got)
	}
	if status != http.StatusOK {
		t.Errorf("expected observed status 200, got %d", status)
	}
	if link := rec.Header().Get("Link"); link != `<https://api.forwarded.dev/.well-known/api-catalog>; rel="api-catalog"` {
		t.Errorf("unexpected link header %q", link)
	}
}
