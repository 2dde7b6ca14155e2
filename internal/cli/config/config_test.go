package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	// Test loading with no config file (should use defaults)
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldWd)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error loading defaults, got %v", err)
	}

	if cfg == nil {
		t.Fatal("expected config to be non-nil")
	}

	// Check defaults
	if cfg.Database.Driver != "postgres" {
		t.Errorf("expected default driver 'postgres', got %s", cfg.Database.Driver)
	}

	if cfg.Registry.Manifest != "entities.yml" {
		t.Errorf("expected default manifest 'entities.yml', got %s", cfg.Registry.Manifest)
	}

	if cfg.Registry.DefaultScope != "public" {
		t.Errorf("expected default scope 'public', got %s", cfg.Registry.DefaultScope)
	}

	if !cfg.Registry.Commit {
		t.Error("expected commit to default to true")
	}
}

func TestLoadWithConfigFile(t *testing.T) {
	// Create temporary directory with config file
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldWd)

	// Write config file
	configContent := `
project_name: test-project
database:
  url: postgresql://localhost/testdb
  driver: sqlite
registry:
  manifest: schema/entities.yml
  default_scope: app
  commit: false
`
	os.WriteFile("relspec.yml", []byte(configContent), 0644)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error loading config, got %v", err)
	}

	if cfg.ProjectName != "test-project" {
		t.Errorf("expected project name 'test-project', got %s", cfg.ProjectName)
	}

	if cfg.Database.URL != "postgresql://localhost/testdb" {
		t.Errorf("expected database URL, got %s", cfg.Database.URL)
	}

	if cfg.Database.Driver != "sqlite" {
		t.Errorf("expected driver 'sqlite', got %s", cfg.Database.Driver)
	}

	if cfg.Registry.Manifest != "schema/entities.yml" {
		t.Errorf("expected manifest 'schema/entities.yml', got %s", cfg.Registry.Manifest)
	}

	if cfg.Registry.DefaultScope != "app" {
		t.Errorf("expected scope 'app', got %s", cfg.Registry.DefaultScope)
	}

	if cfg.Registry.Commit {
		t.Error("expected commit to be false")
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldWd)

	configContent := `
database:
  driver: oracle
`
	os.WriteFile("relspec.yml", []byte(configContent), 0644)

	_, err := Load()
	if err == nil {
		t.Error("expected error for unknown driver, got nil")
	}
}

func TestGetDatabaseURL(t *testing.T) {
	// Test with environment variable
	os.Setenv("DATABASE_URL", "postgresql://env/testdb")
	defer os.Unsetenv("DATABASE_URL")

	url := GetDatabaseURL()
	if url != "postgresql://env/testdb" {
		t.Errorf("expected DATABASE_URL from environment, got %s", url)
	}
}

func TestGetDatabaseURLFromConfig(t *testing.T) {
	// Create temporary directory with config file
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldWd)

	// Ensure no environment variable
	os.Unsetenv("DATABASE_URL")

	// Write config file
	configContent := `
database:
  url: postgresql://config/testdb
`
	os.WriteFile("relspec.yml", []byte(configContent), 0644)

	url := GetDatabaseURL()
	if url != "postgresql://config/testdb" {
		t.Errorf("expected DATABASE_URL from config, got %s", url)
	}
}

func TestInProject(t *testing.T) {
	// Test in non-project directory
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldWd)

	if InProject() {
		t.Error("expected InProject to return false in non-project directory")
	}

	os.WriteFile("relspec.yml", []byte(""), 0644)

	if !InProject() {
		t.Error("expected InProject to return true in project directory")
	}
}

func TestGetProjectRoot(t *testing.T) {
	// Create nested directory structure
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	defer os.Chdir(oldWd)

	// Create project root with relspec.yml
	os.WriteFile(filepath.Join(tmpDir, "relspec.yml"), []byte(""), 0644)

	// Create nested subdirectory
	subDir := filepath.Join(tmpDir, "schema", "deep", "nested")
	os.MkdirAll(subDir, 0755)
	os.Chdir(subDir)

	root, err := GetProjectRoot()
	if err != nil {
		t.Fatalf("expected to find project root, got error: %v", err)
	}

	// On macOS, /tmp is symlinked to /private/tmp, so resolve both paths
	resolvedRoot, _ := filepath.EvalSymlinks(root)
	resolvedTmpDir, _ := filepath.EvalSymlinks(tmpDir)

	if resolvedRoot != resolvedTmpDir {
		t.Errorf("expected project root to be %s, got %s", resolvedTmpDir, resolvedRoot)
	}
}

func TestGetProjectRootNotInProject(t *testing.T) {
	// Create temporary directory with no project markers
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldWd)

	_, err := GetProjectRoot()
	if err == nil {
		t.Error("expected error when not in a project, got nil")
	}
}
