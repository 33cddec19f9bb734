package gincatalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/alecgard/apicatalog/catalog"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRegister(t *testing.T) {
	g := gin.New()
	cfg := &catalog.Config{
		Publisher: "acme",
		APIs: []catalog.APIEntry{{
			ID:       "rotation",
			BasePath: "/apis/rotation",
			Specs:    []catalog.SpecRef{catalog.OpenAPISpec("/apis/rotation/openapi.json", "")},
		}},
	}
	if err := Register(g, cfg); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/.well-known/api-catalog", nil)
	req.Host = "api.example.com"
	rec := httptest.NewRecorder()
	g.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != catalog.LinksetContentType {
		t.Errorf("unexpected content type %q", ct)
	}

	var body map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	var contexts []map[string]any
	if err := json.Unmarshal(body["linkset"], &contexts); err != nil {
		t.Fatal(err)
	}
	if contexts[0]["anchor"] != "http://api.example.com/apis/rotation" {
		t.Errorf("unexpected anchor %v", contexts[0]["anchor"])
	}

	rec = httptest.NewRecorder()
	g.ServeHTTP(rec, httptest.NewRequest(http.MethodHead, "/.well-known/api-catalog", nil))
	if rec.Code != http.StatusOK || rec.Body.Len() != 0 {
		t.Errorf("unexpected HEAD response %d %q", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("Link") == "" {
		t.Error("HEAD response missing Link header")
	}
}

func TestRegisterNilConfig(t *testing.T) {
	if err := Register(gin.New(), nil); !errors.Is(err, catalog.ErrNoConfig) {
		t.Errorf("expected ErrNoConfig, got %v", err)
	}
}
