package chicatalog

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/alecgard/apicatalog/catalog"
)

func TestRegister(t *testing.T) {
	r := chi.NewRouter()
	cfg := &catalog.Config{
		Origin: catalog.MustFixedStrategy("https://catalog.example.com", "/apis"),
		APIs:   []catalog.APIEntry{{ID: "rotation", BasePath: "/rotation"}},
	}
	if err := Register(r, cfg); err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/.well-known/api-catalog", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if link := rec.Header().Get("Link"); link != `<https://catalog.example.com/.well-known/api-catalog>; rel="api-catalog"` {
		t.Errorf("unexpected link header %q", link)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodHead, "/.well-known/api-catalog", nil))
	if rec.Code != http.StatusOK || rec.Body.Len() != 0 {
		t.Errorf("unexpected HEAD response %d %q", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/.well-known/api-catalog", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected chi to answer 405, got %d", rec.Code)
	}
}

func TestRegisterNilConfig(t *testing.T) {
	if err := Register(chi.NewRouter(), nil); !errors.Is(err, catalog.ErrNoConfig) {
		t.Errorf("expected ErrNoConfig, got %v", err)
	}
}
