package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	cfg, err := Load(filepath.Join(t.TempDir(), FileName))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DefaultBranch != "master" || !cfg.UI.ConfirmDangerous || cfg.Storage.Compression != "default" {
		t.Fatalf("defaults = %+v", cfg)
	}
}

func TestWriteLoad_RoundTrip(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	path := filepath.Join(t.TempDir(), FileName)
	want := Default()
	want.DefaultBranch = "trunk"
	want.UI.ConfirmDangerous = false
	want.Storage.Compression = "best"
	want.Log.Level = "debug"

	if err := Write(path, want); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *got != *want {
		t.Fatalf("Load = %+v, want %+v", got, want)
	}
	if got.LogLevel() != logrus.DebugLevel {
		t.Fatalf("LogLevel = %v", got.LogLevel())
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte("[ui]\nconfirm_dangerous = false\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.UI.ConfirmDangerous {
		t.Fatal("confirm_dangerous not read from file")
	}
	if cfg.DefaultBranch != "master" || cfg.Log.MaxBackups != 2 {
		t.Fatalf("defaults lost: %+v", cfg)
	}
}

func TestLoad_EnvOverridesLevel(t *testing.T) {
	t.Setenv(EnvLogLevel, "warn")
	cfg, err := Load(filepath.Join(t.TempDir(), FileName))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogLevel() != logrus.WarnLevel {
		t.Fatalf("LogLevel = %v, want warn", cfg.LogLevel())
	}
}

func TestLoad_RejectsInvalid(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	cases := map[string]string{
		"bad toml":        "default_branch = ",
		"empty branch":    "default_branch = \"\"\n",
		"bad compression": "[storage]\ncompression = \"max\"\n",
		"bad level":       "[log]\nlevel = \"loud\"\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), FileName)
			if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}
			if _, err := Load(path); err == nil {
				t.Fatalf("Load(%q) succeeded", body)
			}
		})
	}
}
