package main

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/slack-go/slack"
)

// BuildProjectReport fetches a fresh analysis for one project and
// renders it. When an Anthropic key is configured, an AI narrative is
// prepended; a summarization failure degrades to the plain report. The
// report is also written to the configured output directory. It has no
// Slack dependency so it can serve both the one-shot mode and the
// scheduler.
func BuildProjectReport(cfg Config, client *APIClient, projectKey string) (string, error) {
	analysis, err := client.AnalyzeProject(projectKey)
	if err != nil {
		return "", fmt.Errorf("analyzing %s: %w", projectKey, err)
	}

	report := BuildAnalysisReport(analysis)

	if cfg.LLMConfigured() {
		summary, usage, err := SummarizeReport(cfg, report)
		if err != nil {
			log.Printf("report summary skipped project=%s: %v", projectKey, err)
		} else {
			log.Printf("report summary project=%s tokens=%d", projectKey, usage.TotalTokens())
			report = "SUMMARY:\n" + summary + "\n\n" + report
		}
	}

	path, err := WriteReportFile(report, cfg.ReportOutputDir, time.Now().In(cfg.Location), projectKey)
	if err != nil {
		log.Printf("report file write failed project=%s: %v", projectKey, err)
	} else {
		log.Printf("report file written path=%s", path)
	}

	return report, nil
}

// runScheduledReports is one scheduler tick: build and post a report
// for every configured project. A failure on one project does not stop
// the others.
func runScheduledReports(cfg Config, api *slack.Client, client *APIClient) {
	for _, projectKey := range cfg.ReportProjects {
		report, err := BuildProjectReport(cfg, client, projectKey)
		if err != nil {
			log.Printf("scheduled report error project=%s: %v", projectKey, err)
			continue
		}
		if err := PostReport(api, cfg.ReportChannelID, report); err != nil {
			log.Printf("scheduled report post error project=%s: %v", projectKey, err)
			continue
		}
		log.Printf("scheduled report posted project=%s", projectKey)
	}
}

// StartReportScheduler starts a cron-based scheduler that periodically
// analyzes the configured projects and posts their reports to Slack.
// The schedule is a standard 5-field cron expression (minute hour
// day-of-month month day-of-week). Examples: "0 9 * * *" (daily 9am),
// "0 9 * * 1-5" (weekdays 9am), "0 9 * * 5" (Fridays 9am).
func StartReportScheduler(cfg Config, api *slack.Client, client *APIClient) {
	schedule := strings.TrimSpace(cfg.ReportSchedule)
	if schedule == "" {
		log.Println("Scheduled reports disabled (report_schedule not set)")
		return
	}
	if len(cfg.ReportProjects) == 0 {
		log.Println("Scheduled reports disabled: report_projects is empty")
		return
	}
	if !cfg.SlackConfigured() {
		log.Println("Scheduled reports disabled: Slack is not configured")
		return
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(schedule)
	if err != nil {
		log.Printf("Invalid report_schedule '%s': %v — scheduled reports disabled", schedule, err)
		return
	}

	log.Printf("Reports scheduled (cron: %s) for projects: %s", schedule, strings.Join(cfg.ReportProjects, ", "))

	go func() {
		for {
			now := time.Now().In(cfg.Location)
			next := sched.Next(now)
			wait := next.Sub(now)
			log.Printf("Next report run at %s (in %s)", next.Format("Mon Jan 2 15:04"), wait.Round(time.Minute))

			time.Sleep(wait)

			runScheduledReports(cfg, api, client)
		}
	}()
}
