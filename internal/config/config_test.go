package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFrom(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("MissingFileUsesDefaults", func(t *testing.T) {
		cfg, err := LoadFrom(filepath.Join(tmpDir, "nope.yaml"))
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if cfg.Model != "gemini-1.5-flash" {
			t.Errorf("unexpected default model: %s", cfg.Model)
		}
		if cfg.Server.Port != 8184 {
			t.Errorf("unexpected default port: %d", cfg.Server.Port)
		}
		if cfg.VaultConfigured() {
			t.Error("default config must not have a credential pool")
		}
	})

	t.Run("VaultSection", func(t *testing.T) {
		path := filepath.Join(tmpDir, "config.yaml")
		content := `
vault:
  keys:
    - key-one
    - key-two
model: gemini-2.0-flash
server:
  port: 9000
personas:
  - id: statistician
    name: Statistician
    directive: Quantify everything.
`
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cfg, err := LoadFrom(path)
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if !cfg.VaultConfigured() {
			t.Fatal("vault should be configured")
		}
		// Priority order must be preserved exactly as listed.
		if cfg.Vault.Keys[0] != "key-one" || cfg.Vault.Keys[1] != "key-two" {
			t.Errorf("key order not preserved: %v", cfg.Vault.Keys)
		}
		if cfg.Model != "gemini-2.0-flash" {
			t.Errorf("unexpected model: %s", cfg.Model)
		}
		if cfg.Server.Port != 9000 {
			t.Errorf("unexpected port: %d", cfg.Server.Port)
		}
		if len(cfg.Personas) != 1 || cfg.Personas[0].ID != "statistician" {
			t.Errorf("unexpected personas: %+v", cfg.Personas)
		}
	})

	t.Run("AbsentVaultSectionIsValid", func(t *testing.T) {
		path := filepath.Join(tmpDir, "novault.yaml")
		if err := os.WriteFile(path, []byte("model: gemini-1.5-flash\n"), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cfg, err := LoadFrom(path)
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if cfg.VaultConfigured() {
			t.Error("absent vault section should mean no pool")
		}
	})
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg := Default()
	cfg.Vault.Keys = []string{"a", "b", "c"}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if len(loaded.Vault.Keys) != 3 || loaded.Vault.Keys[2] != "c" {
		t.Errorf("keys not round-tripped: %v", loaded.Vault.Keys)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	cfg := Default()

	env := map[string]string{
		"SERVER_PORT":     "9090",
		"GEMINI_MODEL":    "gemini-2.0-pro",
		"GEMINI_API_KEYS": "k1, k2 ,k3",
	}
	ApplyEnvOverrides(cfg, env)

	if cfg.Server.Port != 9090 {
		t.Errorf("port override failed: %d", cfg.Server.Port)
	}
	if cfg.Model != "gemini-2.0-pro" {
		t.Errorf("model override failed: %s", cfg.Model)
	}
	if len(cfg.Vault.Keys) != 3 || cfg.Vault.Keys[1] != "k2" {
		t.Errorf("key list override failed: %v", cfg.Vault.Keys)
	}

	// A single key appends as lowest priority.
	ApplyEnvOverrides(cfg, map[string]string{"GEMINI_API_KEY": "manual"})
	if cfg.Vault.Keys[len(cfg.Vault.Keys)-1] != "manual" {
		t.Errorf("single key not appended: %v", cfg.Vault.Keys)
	}
}

func TestLoadEnv(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")

	content := `
# Comment
KEY1=value1
KEY2="value 2"
KEY3='value 3'
KEY4=value 4 # inline comment
EMPTY=
`
	if err := os.WriteFile(envFile, []byte(content), 0644); err != nil {
		t.Fatalf("failed to create env file: %v", err)
	}

	env, err := LoadEnv(envFile)
	if err != nil {
		t.Fatalf("LoadEnv failed: %v", err)
	}

	tests := []struct {
		key      string
		expected string
	}{
		{"KEY1", "value1"},
		{"KEY2", "value 2"},
		{"KEY3", "value 3"},
		{"KEY4", "value 4"},
		{"EMPTY", ""},
	}

	for _, tt := range tests {
		if got, ok := env[tt.key]; !ok || got != tt.expected {
			t.Errorf("expected %s=%q, got %q (exists=%v)", tt.key, tt.expected, got, ok)
		}
	}
}
