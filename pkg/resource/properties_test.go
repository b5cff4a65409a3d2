package resource

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const testProperties = `app:
  name: ${RELAY_TEST_NAME:weather-relay}
  port: ${RELAY_TEST_PORT:8080}
  plain: just a value
  timeout: 10s
  targets:
    - instanceId: module_0
      latitude: "40.7"
      longitude: "-74.0"
`

func writeProperties(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "application.yml")
	if err := os.WriteFile(path, []byte(testProperties), 0o600); err != nil {
		t.Fatalf("failed to write properties: %v", err)
	}
	return path
}

func TestInitResolvesEnvironmentPlaceholders(t *testing.T) {
	t.Setenv("RELAY_TEST_PORT", "9090")

	if err := InitE(writeProperties(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := GetString("app.name"); got != "weather-relay" {
		t.Fatalf("expected default value, got %q", got)
	}
	if got := GetInt("app.port"); got != 9090 {
		t.Fatalf("expected env value, got %d", got)
	}
	if got := GetString("app.plain"); got != "just a value" {
		t.Fatalf("expected plain value, got %q", got)
	}
	if got := GetDuration("app.timeout"); got != 10*time.Second {
		t.Fatalf("unexpected duration %s", got)
	}
	if got := GetStringOrDefault("app.missing", "fallback"); got != "fallback" {
		t.Fatalf("unexpected fallback %q", got)
	}
}

func TestUnmarshalKeyDecodesLists(t *testing.T) {
	if err := InitE(writeProperties(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var targets []struct {
		InstanceID string `mapstructure:"instanceId"`
		Latitude   string `mapstructure:"latitude"`
	}
	if err := UnmarshalKey("app.targets", &targets); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(targets) != 1 || targets[0].InstanceID != "module_0" || targets[0].Latitude != "40.7" {
		t.Fatalf("unexpected targets %+v", targets)
	}
}

func TestInitEMissingFile(t *testing.T) {
	if err := InitE(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
