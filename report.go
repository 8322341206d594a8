package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// BuildAnalysisReport renders a ProjectAnalysis as a plain-text
// completion report: per-assignee summary counts followed by ticket
// details with the verdict, confidence, reasoning, and up to three
// matched commits.
func BuildAnalysisReport(analysis *ProjectAnalysis) string {
	divider := strings.Repeat("=", 80)

	var report []string
	report = append(report, divider)
	report = append(report, fmt.Sprintf("PROJECT COMPLETION REPORT: %s", analysis.ProjectKey))
	report = append(report, fmt.Sprintf("Generated: %s", analysis.Timestamp))
	report = append(report, fmt.Sprintf("Repositories: %s", strings.Join(analysis.Repositories, ", ")))
	report = append(report, divider)

	// Map iteration order is random; sort assignees so the report is
	// stable run to run.
	assignees := make([]string, 0, len(analysis.AssigneeAnalysis))
	for assignee := range analysis.AssigneeAnalysis {
		assignees = append(assignees, assignee)
	}
	sort.Strings(assignees)

	for _, assignee := range assignees {
		data := analysis.AssigneeAnalysis[assignee]
		summary := data.Summary

		report = append(report, fmt.Sprintf("\nASSIGNEE: %s", assignee))
		report = append(report, strings.Repeat("-", 80))
		report = append(report, fmt.Sprintf("Total Tickets: %d", summary.TotalTickets))
		report = append(report, fmt.Sprintf("Total Commits: %d", summary.TotalCommits))
		report = append(report, fmt.Sprintf("Completed: %d", summary.Completed))
		report = append(report, fmt.Sprintf("Likely Done: %d", summary.LikelyDone))
		report = append(report, fmt.Sprintf("In Progress: %d", summary.InProgress))
		report = append(report, fmt.Sprintf("Pending: %d", summary.Pending))

		report = append(report, "\nTICKET DETAILS:")
		for _, match := range data.Matches {
			ticket := match.Ticket
			report = append(report, fmt.Sprintf("\n  [%s] %s", ticket.Key, ticket.Summary))
			report = append(report, fmt.Sprintf("     Jira Status: %s | Type: %s", ticket.Status, ticket.IssueType))
			report = append(report, fmt.Sprintf("     Analysis: %s (Confidence: %.0f%%)", match.Status.Label(), match.Confidence))
			reasoning := match.Reasoning
			if reasoning == "" {
				reasoning = "N/A"
			}
			report = append(report, fmt.Sprintf("     Reasoning: %s", reasoning))

			if len(match.MatchedCommits) > 0 {
				report = append(report, "     Related Commits:")
				for _, mc := range match.MatchedCommits[:min(3, len(match.MatchedCommits))] {
					commit := mc.Commit
					msg := firstLine(commit.Message)
					if len(msg) > 70 {
						msg = msg[:70]
					}
					report = append(report, fmt.Sprintf("       - [%s] %s: %s", commit.Repo, commit.SHA, msg))
				}
			}
		}
	}

	report = append(report, "\n"+divider)
	return strings.Join(report, "\n")
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}

// WriteReportFile saves a rendered report under outputDir, named by
// project key and date.
func WriteReportFile(content, outputDir string, reportDate time.Time, projectKey string) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", err
	}
	filename := fmt.Sprintf("%s_%s.txt", sanitizeFilename(projectKey), reportDate.Format("20060102"))
	path := filepath.Join(outputDir, filename)
	return path, os.WriteFile(path, []byte(content), 0644)
}

func sanitizeFilename(s string) string {
	replacer := strings.NewReplacer("/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	return replacer.Replace(s)
}
