package commands

import (
	"os"
	"strings"
	"testing"

	"github.com/relspec/relspec/internal/cli/config"
)

func TestNewInitCommand(t *testing.T) {
	cmd := NewInitCommand()

	if cmd.Use != "init" {
		t.Errorf("expected Use to be 'init', got %s", cmd.Use)
	}

	if cmd.Flags().Lookup("force") == nil {
		t.Error("expected flag --force to be registered")
	}
}

func TestValidateProjectName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple name", "myapp", false},
		{"with dashes", "my-app", false},
		{"with underscores", "my_app", false},
		{"with numbers", "app2", false},
		{"empty", "", true},
		{"too long", strings.Repeat("a", 101), true},
		{"with spaces", "my app", true},
		{"with slash", "my/app", true},
		{"with dots", "../app", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateProjectName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateProjectName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestRenderConfigRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldWd)

	content := renderConfig("crm", "postgresql://localhost/crm_development", "postgres",
		"schema/entities.yml", "crm")
	if err := os.WriteFile("relspec.yml", []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("generated config should load, got %v", err)
	}

	if cfg.ProjectName != "crm" {
		t.Errorf("expected project name 'crm', got %s", cfg.ProjectName)
	}
	if cfg.Database.URL != "postgresql://localhost/crm_development" {
		t.Errorf("unexpected database URL: %s", cfg.Database.URL)
	}
	if cfg.Database.Driver != "postgres" {
		t.Errorf("unexpected driver: %s", cfg.Database.Driver)
	}
	if cfg.Registry.Manifest != "schema/entities.yml" {
		t.Errorf("unexpected manifest path: %s", cfg.Registry.Manifest)
	}
	if cfg.Registry.DefaultScope != "crm" {
		t.Errorf("unexpected scope: %s", cfg.Registry.DefaultScope)
	}
	if !cfg.Registry.Commit {
		t.Error("expected commit to be true")
	}
}
