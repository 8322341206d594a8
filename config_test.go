package main

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing-config.yaml"))
	t.Setenv("TIMEZONE", "UTC")

	cfg := LoadConfig()

	if cfg.APIBaseURL != "http://localhost:5000/api" {
		t.Fatalf("unexpected api base url default: %q", cfg.APIBaseURL)
	}
	if cfg.HTTPTimeoutSeconds != 30 {
		t.Fatalf("unexpected timeout default: %d", cfg.HTTPTimeoutSeconds)
	}
	if cfg.ContactsDays != 30 || cfg.ContactsLimit != 200 {
		t.Fatalf("unexpected contacts defaults: days=%d limit=%d", cfg.ContactsDays, cfg.ContactsLimit)
	}
	if cfg.ActivitiesDays != 30 || cfg.ActivitiesLimit != 100 {
		t.Fatalf("unexpected activities defaults: days=%d limit=%d", cfg.ActivitiesDays, cfg.ActivitiesLimit)
	}
	if cfg.ReportOutputDir != "./reports" {
		t.Fatalf("unexpected report output dir default: %q", cfg.ReportOutputDir)
	}
	if cfg.TeamName != "My Team" {
		t.Fatalf("unexpected team name default: %q", cfg.TeamName)
	}
	if cfg.Location == nil || cfg.Location.String() != "UTC" {
		t.Fatalf("unexpected location: %v", cfg.Location)
	}
	if cfg.SlackConfigured() {
		t.Fatal("slack should not be configured by default")
	}
	if cfg.LLMConfigured() {
		t.Fatal("llm should not be configured by default")
	}
}

func TestLoadConfigYAMLAndEnvOverride(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	content := `
api_base_url: "http://yaml-host:5000/api/"
team_name: "YAML Team"
timezone: "America/Los_Angeles"
slack_bot_token: "xoxb-yaml"
report_channel_id: "C123"
report_projects:
  - PROJ1
  - PROJ2
`
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("CONFIG_PATH", cfgPath)
	t.Setenv("TEAM_NAME", "Env Team")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "60")

	cfg := LoadConfig()

	if cfg.TeamName != "Env Team" {
		t.Fatalf("expected team name from env override, got %q", cfg.TeamName)
	}
	if cfg.HTTPTimeoutSeconds != 60 {
		t.Fatalf("expected timeout from env override, got %d", cfg.HTTPTimeoutSeconds)
	}
	// Trailing slash is trimmed so path joins stay clean.
	if cfg.APIBaseURL != "http://yaml-host:5000/api" {
		t.Fatalf("unexpected api base url: %q", cfg.APIBaseURL)
	}
	if len(cfg.ReportProjects) != 2 || cfg.ReportProjects[0] != "PROJ1" {
		t.Fatalf("unexpected report projects: %v", cfg.ReportProjects)
	}
	if !cfg.SlackConfigured() {
		t.Fatal("slack should be configured from yaml")
	}
	if cfg.Location == nil || cfg.Location.String() != "America/Los_Angeles" {
		t.Fatalf("unexpected location: %v", cfg.Location)
	}
}

func TestLoadConfigReportProjectsEnv(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("REPORT_PROJECTS", " PROJ1, ,PROJ2 ")

	cfg := LoadConfig()
	if len(cfg.ReportProjects) != 2 || cfg.ReportProjects[0] != "PROJ1" || cfg.ReportProjects[1] != "PROJ2" {
		t.Fatalf("unexpected report projects from env: %v", cfg.ReportProjects)
	}
}

func TestEnvOverrideHelpers(t *testing.T) {
	s := "initial"
	t.Setenv("TB_TEST_STR", "value")
	envOverride(&s, "TB_TEST_STR")
	if s != "value" {
		t.Fatalf("envOverride failed, got %q", s)
	}

	i := 1
	t.Setenv("TB_TEST_INT", "42")
	envOverrideInt(&i, "TB_TEST_INT")
	if i != 42 {
		t.Fatalf("envOverrideInt failed, got %d", i)
	}
}

func TestLoadConfigInvalidTimezoneFatal(t *testing.T) {
	if os.Getenv("TEST_INVALID_TZ_FATAL") == "1" {
		_ = os.Setenv("CONFIG_PATH", filepath.Join(os.TempDir(), "no-config.yaml"))
		_ = os.Setenv("TIMEZONE", "Mars/Colony")
		LoadConfig()
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestLoadConfigInvalidTimezoneFatal")
	cmd.Env = append(os.Environ(), "TEST_INVALID_TZ_FATAL=1")
	err := cmd.Run()
	if err == nil {
		t.Fatal("expected subprocess to exit with failure")
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected ExitError, got: %v", err)
	}
}
