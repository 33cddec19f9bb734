package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecgard/apicatalog/catalog"
)

const testConfig = `
catalog:
  publisher: acme
  origin:
    kind: fromRequest
    base_path: /apis
  apis:
    - id: orders
      title: Orders
      base_path: /orders
      openapi: /openapi/orders.json
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "apicatalog.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cfgFile, renderOrigin, renderHead, validateSpecRoot = "", "", false, ""
	t.Chdir(t.TempDir())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRenderWithOrigin(t *testing.T) {
	path := writeConfig(t, testConfig)

	out, err := execute(t, "--config", path, "render", "--origin", "https://API.example.com:443/")
	if err != nil {
		t.Fatal(err)
	}

	var ls catalog.Linkset
	if err := json.Unmarshal([]byte(out), &ls); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(ls.Linkset) != 1 || ls.Linkset[0].Anchor != "https://api.example.com/apis/orders" {
		t.Errorf("unexpected linkset %s", out)
	}
	if !strings.Contains(out, `"href": "/openapi/orders.json"`) {
		t.Errorf("expected spec href passed through, got %s", out)
	}
}

func TestRenderLinkHeader(t *testing.T) {
	path := writeConfig(t, testConfig)

	out, err := execute(t, "--config", path, "render", "--origin", "https://api.example.com", "--link-header")
	if err != nil {
		t.Fatal(err)
	}
	want := `<https://api.example.com/.well-known/api-catalog>; rel="api-catalog"` + "\n"
	if out != want {
		t.Errorf("expected %q, got %q", want, out)
	}
}

func TestRenderRequiresOrigin(t *testing.T) {
	path := writeConfig(t, testConfig)

	if _, err := execute(t, "--config", path, "render"); err == nil {
		t.Fatal("expected error without --origin for a fromRequest catalog")
	}
}

func TestRenderFixedOrigin(t *testing.T) {
	path := writeConfig(t, `
catalog:
  origin:
    kind: fixed
    origin: https://public.example.com
  apis:
    - id: users
      base_path: /users
`)
	out, err := execute(t, "--config", path, "render")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"anchor": "https://public.example.com/users"`) {
		t.Errorf("unexpected output %s", out)
	}
}

func TestValidate(t *testing.T) {
	path := writeConfig(t, testConfig)

	out, err := execute(t, "--config", path, "validate")
	if err != nil {
		t.Fatal(err)
	}
	if out != "config ok: 1 apis, 1 spec links, origin fromRequest\n" {
		t.Errorf("unexpected output %q", out)
	}
}

func TestValidateRejectsBadConfig(t *testing.T) {
	path := writeConfig(t, `
catalog:
  origin:
    kind: fixed
    origin: ftp://files.example.com
`)
	if _, err := execute(t, "--config", path, "validate"); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if out != "apicatalog v"+version+"\n" {
		t.Errorf("unexpected output %q", out)
	}
}

func TestValidateSpecRoot(t *testing.T) {
	path := writeConfig(t, testConfig)
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "openapi"), 0o755); err != nil {
		t.Fatal(err)
	}
	doc := `{"openapi":"3.0.3","info":{"title":"Orders","version":"1.0.0"},"paths":{}}`
	if err := os.WriteFile(filepath.Join(root, "openapi", "orders.json"), []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "--config", path, "validate", "--spec-root", root)
	if err != nil {
		t.Fatalf("%v\n%s", err, out)
	}
	if !strings.Contains(out, "ok   orders /openapi/orders.json") {
		t.Errorf("unexpected output %q", out)
	}

	if _, err := execute(t, "--config", path, "validate", "--spec-root", t.TempDir()); err == nil {
		t.Fatal("expected failure when the spec file is missing")
	}
}
