package echocatalog

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/alecgard/apicatalog/catalog"
)

func TestRegister(t *testing.T) {
	e := echo.New()
	cfg := &catalog.Config{
		Origin: &catalog.FromRequestStrategy{Trust: catalog.TrustAll()},
		APIs: []catalog.APIEntry{{
			ID:       "events",
			BasePath: "/events",
			Specs:    []catalog.SpecRef{catalog.AsyncAPISpec("/events/asyncapi.json", "")},
		}},
	}
	if err := Register(e, cfg); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/.well-known/api-catalog", nil)
	req.Host = "internal.local"
	req.Header.Set("X-Forwarded-Proto", "https")
	req.Header.Set("X-Forwarded-Host", "events.example.com")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"anchor":"https://events.example.com/events"`) {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
	if link := rec.Header().Get("Link"); link != `<https://events.example.com/.well-known/api-catalog>; rel="api-catalog"` {
		t.Errorf("unexpected link header %q", link)
	}

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodHead, "/.well-known/api-catalog", nil))
	if rec.Code != http.StatusOK || rec.Body.Len() != 0 {
		t.Errorf("unexpected HEAD response %d %q", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != catalog.LinksetContentType {
		t.Errorf("unexpected HEAD content type %q", ct)
	}
}

func TestRegisterGroup(t *testing.T) {
	e := echo.New()
	g := e.Group("")
	if err := Register(g, &catalog.Config{}); err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/.well-known/api-catalog", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestRegisterNilConfig(t *testing.T) {
	if err := Register(echo.New(), nil); !errors.Is(err, catalog.ErrNoConfig) {
		t.Errorf("expected ErrNoConfig, got %v", err)
	}
}
