package main

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	APIBaseURL         string `yaml:"api_base_url"`
	HTTPTimeoutSeconds int    `yaml:"http_timeout_seconds"`

	ContactsDays    int `yaml:"contacts_days"`
	ContactsLimit   int `yaml:"contacts_limit"`
	ActivitiesDays  int `yaml:"activities_days"`
	ActivitiesLimit int `yaml:"activities_limit"`

	SlackBotToken   string `yaml:"slack_bot_token"`
	ReportChannelID string `yaml:"report_channel_id"`

	AnthropicAPIKey string `yaml:"anthropic_api_key"`
	LLMModel        string `yaml:"llm_model"`

	ReportSchedule  string   `yaml:"report_schedule"`
	ReportProjects  []string `yaml:"report_projects"`
	ReportOutputDir string   `yaml:"report_output_dir"`

	TeamName string `yaml:"team_name"`
	Timezone string `yaml:"timezone"`

	Location *time.Location `yaml:"-"`
}

func LoadConfig() Config {
	var cfg Config

	// Load from config.yaml if it exists
	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			log.Fatalf("Error parsing %s: %v", configPath, err)
		}
		log.Printf("Loaded config from %s", configPath)
	}

	// Env vars override YAML values
	envOverride(&cfg.APIBaseURL, "API_BASE_URL")
	envOverrideInt(&cfg.HTTPTimeoutSeconds, "HTTP_TIMEOUT_SECONDS")
	envOverrideInt(&cfg.ContactsDays, "CONTACTS_DAYS")
	envOverrideInt(&cfg.ContactsLimit, "CONTACTS_LIMIT")
	envOverrideInt(&cfg.ActivitiesDays, "ACTIVITIES_DAYS")
	envOverrideInt(&cfg.ActivitiesLimit, "ACTIVITIES_LIMIT")
	envOverride(&cfg.SlackBotToken, "SLACK_BOT_TOKEN")
	envOverride(&cfg.ReportChannelID, "REPORT_CHANNEL_ID")
	envOverride(&cfg.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	envOverride(&cfg.LLMModel, "LLM_MODEL")
	envOverride(&cfg.ReportSchedule, "REPORT_SCHEDULE")
	envOverride(&cfg.ReportOutputDir, "REPORT_OUTPUT_DIR")
	envOverride(&cfg.TeamName, "TEAM_NAME")
	envOverride(&cfg.Timezone, "TIMEZONE")

	if keys := os.Getenv("REPORT_PROJECTS"); keys != "" {
		cfg.ReportProjects = nil
		for _, key := range strings.Split(keys, ",") {
			key = strings.TrimSpace(key)
			if key != "" {
				cfg.ReportProjects = append(cfg.ReportProjects, key)
			}
		}
	}

	// Defaults
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = "http://localhost:5000/api"
	}
	if cfg.HTTPTimeoutSeconds == 0 {
		cfg.HTTPTimeoutSeconds = 30
	}
	if cfg.ContactsDays == 0 {
		cfg.ContactsDays = 30
	}
	if cfg.ContactsLimit == 0 {
		cfg.ContactsLimit = 200
	}
	if cfg.ActivitiesDays == 0 {
		cfg.ActivitiesDays = 30
	}
	if cfg.ActivitiesLimit == 0 {
		cfg.ActivitiesLimit = 100
	}
	if cfg.ReportOutputDir == "" {
		cfg.ReportOutputDir = "./reports"
	}
	if cfg.TeamName == "" {
		cfg.TeamName = "My Team"
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Local"
	}

	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")

	// Validate
	if cfg.HTTPTimeoutSeconds < 1 {
		log.Fatalf("invalid http_timeout_seconds '%d': must be >= 1", cfg.HTTPTimeoutSeconds)
	}
	if cfg.ContactsDays < 1 || cfg.ActivitiesDays < 1 {
		log.Fatalf("invalid contacts_days/activities_days: must be >= 1")
	}
	if cfg.ContactsLimit < 1 || cfg.ActivitiesLimit < 1 {
		log.Fatalf("invalid contacts_limit/activities_limit: must be >= 1")
	}

	if strings.EqualFold(cfg.Timezone, "Local") {
		cfg.Location = time.Local
		cfg.Timezone = time.Local.String()
	} else {
		loc, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			log.Fatalf("invalid timezone '%s': %v", cfg.Timezone, err)
		}
		cfg.Location = loc
	}

	return cfg
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func envOverrideInt(field *int, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			log.Fatalf("invalid %s '%s': %v", envKey, val, err)
		}
		*field = parsed
	}
}

// SlackConfigured reports whether report delivery to Slack is possible.
func (c Config) SlackConfigured() bool {
	return c.SlackBotToken != "" && c.ReportChannelID != ""
}

// LLMConfigured reports whether AI report summaries are enabled.
func (c Config) LLMConfigured() bool {
	return c.AnthropicAPIKey != ""
}
