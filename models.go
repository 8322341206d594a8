package main

import (
	"encoding/json"
	"fmt"
)

// Project is one trackable Jira project as reported by the backend.
// Identity is the key; the list is replaced wholesale on every fetch.
type Project struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// MatchStatus is the backend's verdict for a ticket: how strongly the
// commit history suggests the ticket is done.
type MatchStatus string

const (
	StatusCompleted  MatchStatus = "COMPLETED"
	StatusLikelyDone MatchStatus = "LIKELY_DONE"
	StatusInProgress MatchStatus = "IN_PROGRESS"
	StatusPending    MatchStatus = "PENDING"
)

// matchStatusOrder is the cycle order of the dashboard's status filter
// and the display order of summary counts.
var matchStatusOrder = []MatchStatus{
	StatusCompleted,
	StatusLikelyDone,
	StatusInProgress,
	StatusPending,
}

func (s MatchStatus) Known() bool {
	switch s {
	case StatusCompleted, StatusLikelyDone, StatusInProgress, StatusPending:
		return true
	}
	return false
}

// Label returns a human-readable form. Unknown statuses render like
// PENDING so a misbehaving backend never breaks the view.
func (s MatchStatus) Label() string {
	switch s {
	case StatusCompleted:
		return "Completed"
	case StatusLikelyDone:
		return "Likely Done"
	case StatusInProgress:
		return "In Progress"
	default:
		return "Pending"
	}
}

// ProjectAnalysis is the full result of one analyze run. It replaces
// any prior analysis wholesale; there is no partial update.
type ProjectAnalysis struct {
	ProjectKey       string                     `json:"project_key"`
	Repositories     []string                   `json:"repositories"`
	Timestamp        string                     `json:"timestamp"`
	AssigneeAnalysis map[string]AssigneeSummary `json:"assignee_analysis"`
}

type AssigneeSummary struct {
	Summary MatchSummary  `json:"summary"`
	Matches []TicketMatch `json:"matches"`
}

type MatchSummary struct {
	TotalTickets int `json:"total_tickets"`
	TotalCommits int `json:"total_commits"`
	Completed    int `json:"completed"`
	LikelyDone   int `json:"likely_done"`
	InProgress   int `json:"in_progress"`
	Pending      int `json:"pending"`
}

type Ticket struct {
	Key       string `json:"key"`
	Summary   string `json:"summary"`
	Status    string `json:"status"`
	IssueType string `json:"issue_type"`
	Priority  string `json:"priority"`
}

// TicketMatch pairs a ticket with the backend's completion verdict and
// the commit evidence behind it. Confidence is a 0-100 percentage.
type TicketMatch struct {
	Ticket         Ticket        `json:"ticket"`
	Status         MatchStatus   `json:"status"`
	Confidence     float64       `json:"confidence"`
	Reasoning      string        `json:"reasoning"`
	MatchedCommits []CommitMatch `json:"matched_commits"`
}

type CommitMatch struct {
	Commit Commit `json:"commit"`
}

type Commit struct {
	SHA        string `json:"sha"`
	Message    string `json:"message"`
	Repo       string `json:"repo"`
	AuthorName string `json:"author_name"`
}

// Period is the date window a HubSpot snapshot covers.
type Period struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// ContactsSnapshot is the recent-contacts view of the CRM: a count, a
// per-day lead series, and the contact records themselves.
type ContactsSnapshot struct {
	Period Period       `json:"period"`
	Data   ContactsData `json:"data"`
}

type ContactsData struct {
	TotalContacts int         `json:"total_contacts"`
	LeadsByDate   []LeadCount `json:"leads_by_date"`
	Contacts      []Contact   `json:"contacts"`
}

// LeadCount is one entry of the leads_by_date series. The backend
// sends it as a two-element [date, count] array.
type LeadCount struct {
	Date  string
	Count int
}

func (lc *LeadCount) UnmarshalJSON(data []byte) error {
	var pair []any
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("leads_by_date entry has %d elements, want 2", len(pair))
	}
	date, ok := pair[0].(string)
	if !ok {
		return fmt.Errorf("leads_by_date date is %T, want string", pair[0])
	}
	count, ok := pair[1].(float64)
	if !ok {
		return fmt.Errorf("leads_by_date count is %T, want number", pair[1])
	}
	lc.Date = date
	lc.Count = int(count)
	return nil
}

func (lc LeadCount) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{lc.Date, lc.Count})
}

type Contact struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	LifecycleStage string `json:"lifecycle_stage"`
	LeadStatus     string `json:"lead_status"`
	Company        string `json:"company,omitempty"`
	CreatedDate    string `json:"created_date"`
}

// ActivitiesSnapshot is the recent-activities view of the CRM. The
// backend reports HubSpot-side failures in-band via Data.Error.
type ActivitiesSnapshot struct {
	Data ActivitiesData `json:"data"`
}

type ActivitiesData struct {
	TotalActivities int        `json:"total_activities"`
	Activities      []Activity `json:"activities"`
	Error           string     `json:"error,omitempty"`
}

type Activity struct {
	Contact   string `json:"contact"`
	Timestamp string `json:"timestamp"`
	Type      string `json:"type"`
	Subject   string `json:"subject"`
	Details   string `json:"details,omitempty"`
}
