package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	traverseerrors "github.com/vango-dev/traverse/internal/errors"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{}`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Address != DefaultAddress {
		t.Errorf("address = %q", cfg.Address)
	}
	if cfg.WSPath != DefaultWSPath {
		t.Errorf("wsPath = %q", cfg.WSPath)
	}
	if cfg.Shell.Dir != DefaultShellDir || cfg.Shell.Document != DefaultShellDocument {
		t.Errorf("shell = %+v", cfg.Shell)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Errorf("log = %+v", cfg.Log)
	}
	if cfg.UseS3() {
		t.Error("S3 should be disabled by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{
		"name": "myapp",
		"address": "0.0.0.0:8080",
		"shell": {"dir": "build", "s3": {"bucket": "myapp-assets", "prefix": "web/"}},
		"metrics": {"enabled": true},
		"log": {"level": "debug", "format": "json"}
	}`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Name != "myapp" || cfg.Address != "0.0.0.0:8080" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Shell.Dir != "build" {
		t.Errorf("shell.dir = %q", cfg.Shell.Dir)
	}
	// Unset fields still get defaults.
	if cfg.Shell.Document != DefaultShellDocument {
		t.Errorf("shell.document = %q", cfg.Shell.Document)
	}
	if !cfg.UseS3() || cfg.Shell.S3.Prefix != "web/" {
		t.Errorf("s3 = %+v", cfg.Shell.S3)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Path != DefaultMetricsPath {
		t.Errorf("metrics = %+v", cfg.Metrics)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(t.TempDir())
	if err == nil {
		t.Fatal("expected error")
	}

	var te *traverseerrors.TraverseError
	if !stderrors.As(err, &te) || te.Code != "T060" {
		t.Errorf("err = %v, want T060", err)
	}
}

func TestLoadMalformed(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{not json`)

	_, err := Load(dir)
	var te *traverseerrors.TraverseError
	if !stderrors.As(err, &te) || te.Code != "T061" {
		t.Errorf("err = %v, want T061", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults valid", func(c *Config) {}, true},
		{"bad address", func(c *Config) { c.Address = "nocolon" }, false},
		{"relative ws path", func(c *Config) { c.WSPath = "ws" }, false},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, false},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()

	cfg := New()
	cfg.Name = "roundtrip"
	cfg.Metrics.Enabled = true
	if err := cfg.SaveTo(filepath.Join(dir, ConfigFileName)); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Name != "roundtrip" || !loaded.Metrics.Enabled {
		t.Errorf("loaded = %+v", loaded)
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, `{}`)

	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := FindProjectRoot(nested)
	if err != nil {
		t.Fatalf("FindProjectRoot: %v", err)
	}
	// Resolve symlinks so macOS /tmp indirection does not fail the
	// comparison.
	wantResolved, _ := filepath.EvalSymlinks(root)
	gotResolved, _ := filepath.EvalSymlinks(got)
	if gotResolved != wantResolved {
		t.Errorf("root = %q, want %q", got, root)
	}
}

func TestShellDirPath(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{"shell": {"dir": "build"}}`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if got := cfg.ShellDirPath(); got != filepath.Join(dir, "build") {
		t.Errorf("ShellDirPath = %q", got)
	}

	cfg.Shell.Dir = "/abs/build"
	if got := cfg.ShellDirPath(); got != "/abs/build" {
		t.Errorf("ShellDirPath = %q", got)
	}
}
