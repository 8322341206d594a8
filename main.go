package main

import (
	"flag"
	"log"

	"github.com/slack-go/slack"
)

func main() {
	reportKey := flag.String("report", "", "analyze one project, post its report, and exit")
	scheduleMode := flag.Bool("schedule", false, "run the report scheduler headlessly")
	flag.Parse()

	cfg := LoadConfig()
	appliedTimeout := ConfigureExternalHTTPClient(cfg.HTTPTimeoutSeconds)
	log.Printf(
		"Config loaded. APIBaseURL=%s HTTPTimeout=%s Team=%s Timezone=%s Slack=%t LLM=%t",
		cfg.APIBaseURL,
		appliedTimeout,
		cfg.TeamName,
		cfg.Timezone,
		cfg.SlackConfigured(),
		cfg.LLMConfigured(),
	)

	client := NewAPIClient(cfg)

	switch {
	case *reportKey != "":
		runOneShotReport(cfg, client, *reportKey)

	case *scheduleMode:
		if !cfg.SlackConfigured() {
			log.Fatalf("schedule mode requires slack_bot_token and report_channel_id")
		}
		api := slack.New(cfg.SlackBotToken)
		StartReportScheduler(cfg, api, client)
		select {}

	default:
		runDashboard(cfg, client)
	}
}

func runOneShotReport(cfg Config, client *APIClient, projectKey string) {
	report, err := BuildProjectReport(cfg, client, projectKey)
	if err != nil {
		log.Fatalf("report failed: %v", err)
	}
	if cfg.SlackConfigured() {
		api := slack.New(cfg.SlackBotToken)
		if err := PostReport(api, cfg.ReportChannelID, report); err != nil {
			log.Fatalf("report post failed: %v", err)
		}
		log.Printf("report posted project=%s channel=%s", projectKey, cfg.ReportChannelID)
	}
}
