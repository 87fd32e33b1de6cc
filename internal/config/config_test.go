package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadValidConfig(t *testing.T) {
	path := writeConfigFile(t, `
token: "abc.def.ghi"
owners:
  - 103841118105546752
database: "file:sentinel.db"
dev_guild: 145912075490500608
log_file: "logs/sentinel.log"
status_addr: ":8087"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Token != "abc.def.ghi" {
		t.Fatalf("unexpected token %q", cfg.Token)
	}
	if len(cfg.Owners) != 1 || cfg.Owners[0] != 103841118105546752 {
		t.Fatalf("unexpected owners %v", cfg.Owners)
	}
	if cfg.DevGuild != 145912075490500608 {
		t.Fatalf("unexpected dev guild %d", cfg.DevGuild)
	}
	if cfg.StatusAddr != ":8087" {
		t.Fatalf("unexpected status addr %q", cfg.StatusAddr)
	}
}

func TestLoadRequiresToken(t *testing.T) {
	path := writeConfigFile(t, `
database: "file:sentinel.db"
`)

	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "token") {
		t.Fatalf("expected token error, got %v", err)
	}
}

func TestLoadRequiresDatabase(t *testing.T) {
	path := writeConfigFile(t, `
token: "abc"
`)

	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "database") {
		t.Fatalf("expected database error, got %v", err)
	}
}

func TestLoadRejectsBadOwnerID(t *testing.T) {
	path := writeConfigFile(t, `
token: "abc"
database: "file:sentinel.db"
owners:
  - 12345
`)

	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "valid Discord ID") {
		t.Fatalf("expected owner id error, got %v", err)
	}
}

func TestLoadRejectsBadDevGuild(t *testing.T) {
	path := writeConfigFile(t, `
token: "abc"
database: "file:sentinel.db"
dev_guild: 99
`)

	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "dev_guild") {
		t.Fatalf("expected dev guild error, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
