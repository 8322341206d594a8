package main

import (
	"errors"
	"testing"
)

func scenarioAnalysis() *ProjectAnalysis {
	return &ProjectAnalysis{
		ProjectKey:   "PROJ1",
		Repositories: []string{"r1"},
		Timestamp:    "2024-01-01T00:00:00Z",
		AssigneeAnalysis: map[string]AssigneeSummary{
			"Alice": {
				Summary: MatchSummary{TotalTickets: 1, TotalCommits: 2, Completed: 1},
				Matches: []TicketMatch{
					{
						Ticket:     Ticket{Key: "T-1", Summary: "Fix bug", Status: "Done", IssueType: "Bug", Priority: "High"},
						Status:     StatusCompleted,
						Confidence: 90,
						Reasoning:  "merged",
					},
				},
			},
		},
	}
}

func TestReduceInitialProjectLoad(t *testing.T) {
	s := Reduce(NewState(), LoadingStarted{})
	if !s.Loading {
		t.Fatal("expected loading=true after LoadingStarted")
	}

	s = Reduce(s, ProjectsLoaded{Projects: []Project{{Key: "PROJ1", Name: "Alpha"}}})
	if s.Loading {
		t.Fatal("expected loading=false after ProjectsLoaded")
	}
	if len(s.Projects) != 1 || s.Projects[0].Key != "PROJ1" || s.Projects[0].Name != "Alpha" {
		t.Fatalf("unexpected project list: %+v", s.Projects)
	}
}

func TestReduceProjectLoadFailureKeepsPrior(t *testing.T) {
	s := NewState()
	s.Projects = []Project{{Key: "OLD", Name: "Old"}}
	s.Loading = true

	s = Reduce(s, ProjectsLoaded{Err: errors.New("boom")})
	if s.Loading {
		t.Fatal("loading should clear even on failure")
	}
	if len(s.Projects) != 1 || s.Projects[0].Key != "OLD" {
		t.Fatalf("failed load should keep prior projects, got %+v", s.Projects)
	}
}

func TestReduceAnalysisLoaded(t *testing.T) {
	s := NewState()
	s.Projects = []Project{{Key: "PROJ1", Name: "Alpha"}}
	s = Reduce(s, LoadingStarted{})
	s = Reduce(s, AnalysisLoaded{ProjectKey: "PROJ1", Analysis: scenarioAnalysis()})

	if s.Loading {
		t.Fatal("expected loading=false after AnalysisLoaded")
	}
	if s.SelectedProjectKey != "PROJ1" {
		t.Fatalf("unexpected selected key: %q", s.SelectedProjectKey)
	}
	alice, ok := s.Analysis.AssigneeAnalysis["Alice"]
	if !ok {
		t.Fatal("expected Alice in assignee analysis")
	}
	if len(alice.Matches) != 1 || alice.Matches[0].Status != StatusCompleted {
		t.Fatalf("unexpected matches: %+v", alice.Matches)
	}
}

func TestReduceAnalysisFailureIsSilentNoOp(t *testing.T) {
	s := NewState()
	s = Reduce(s, LoadingStarted{})
	s = Reduce(s, AnalysisLoaded{ProjectKey: "PROJ1", Err: ErrNotSuccessful})

	if s.Analysis != nil {
		t.Fatalf("analysis should remain nil on failure, got %+v", s.Analysis)
	}
	if s.SelectedProjectKey != "" {
		t.Fatalf("selected key should remain empty on failure, got %q", s.SelectedProjectKey)
	}
	if s.Loading {
		t.Fatal("loading should clear on failure")
	}
}

func TestReduceBackClearsSelection(t *testing.T) {
	s := NewState()
	s = Reduce(s, AnalysisLoaded{ProjectKey: "PROJ1", Analysis: scenarioAnalysis()})
	s = Reduce(s, BackPressed{})

	if s.SelectedProjectKey != "" || s.Analysis != nil {
		t.Fatalf("back should clear selection and analysis: key=%q analysis=%v", s.SelectedProjectKey, s.Analysis)
	}

	// A stale analyze response arriving after back still commits; the
	// race is deliberately unguarded.
	s = Reduce(s, AnalysisLoaded{ProjectKey: "PROJ1", Analysis: scenarioAnalysis()})
	if s.SelectedProjectKey != "PROJ1" || s.Analysis == nil {
		t.Fatal("late analyze response should still write into state")
	}
}

func TestReduceHubSpotPartialSuccess(t *testing.T) {
	s := Reduce(NewState(), TabSelected{Tab: TabHubSpot})
	if s.ActiveTab != TabHubSpot {
		t.Fatal("expected hubspot tab")
	}

	contacts := &ContactsSnapshot{Data: ContactsData{TotalContacts: 3}}
	s = Reduce(s, ContactsLoaded{Contacts: contacts})
	s = Reduce(s, ActivitiesLoaded{Err: ErrTransport})

	if s.Contacts == nil || s.Contacts.Data.TotalContacts != 3 {
		t.Fatalf("contacts slice should update independently: %+v", s.Contacts)
	}
	if s.Activities != nil {
		t.Fatal("failed activities fetch should leave prior (nil) value")
	}
}

func TestReduceRacingFetchesLastWriterWins(t *testing.T) {
	// Two overlapping hubspot loads: whichever response is reduced
	// last determines the final state, and nothing crashes.
	first := &ContactsSnapshot{Data: ContactsData{TotalContacts: 1}}
	second := &ContactsSnapshot{Data: ContactsData{TotalContacts: 2}}

	s := Reduce(NewState(), TabSelected{Tab: TabHubSpot})
	s = Reduce(s, TabSelected{Tab: TabHubSpot})
	s = Reduce(s, ContactsLoaded{Contacts: second})
	s = Reduce(s, ContactsLoaded{Contacts: first})

	if s.Contacts.Data.TotalContacts != 1 {
		t.Fatalf("expected the last-reduced response to win, got %d", s.Contacts.Data.TotalContacts)
	}
}

func TestReduceSearchAndFilterAreSynchronous(t *testing.T) {
	s := NewState()
	for _, term := range []string{"f", "fi", "fix"} {
		s = Reduce(s, SearchChanged{Term: term})
		if s.SearchTerm != term {
			t.Fatalf("search term not applied synchronously: got %q want %q", s.SearchTerm, term)
		}
	}

	s = Reduce(s, StatusFilterChanged{Filter: string(StatusPending)})
	if s.StatusFilter != string(StatusPending) {
		t.Fatalf("unexpected status filter: %q", s.StatusFilter)
	}
}

func TestReduceSectionToggles(t *testing.T) {
	s := NewState()
	if !s.ShowContacts || !s.ShowActivities {
		t.Fatal("sections should start expanded")
	}
	s = Reduce(s, ContactsToggled{})
	s = Reduce(s, ActivitiesToggled{})
	if s.ShowContacts || s.ShowActivities {
		t.Fatal("toggles should collapse both sections")
	}
	s = Reduce(s, ContactsToggled{})
	if !s.ShowContacts {
		t.Fatal("second toggle should expand contacts again")
	}
	if s.ShowActivities {
		t.Fatal("toggles must be independent")
	}
}

func TestScenarioSearchOnLoadedAnalysis(t *testing.T) {
	s := NewState()
	s = Reduce(s, AnalysisLoaded{ProjectKey: "PROJ1", Analysis: scenarioAnalysis()})
	matches := s.Analysis.AssigneeAnalysis["Alice"].Matches

	if got := FilterMatches(matches, "fix", statusFilterAll); len(got) != 1 {
		t.Fatalf("searching 'fix' should return the single match, got %d", len(got))
	}
	if got := FilterMatches(matches, "zzz", statusFilterAll); len(got) != 0 {
		t.Fatalf("searching 'zzz' should return nothing, got %d", len(got))
	}
}

func TestProjectKnown(t *testing.T) {
	s := NewState()
	s.Projects = []Project{{Key: "PROJ1"}, {Key: "PROJ2"}}
	if !s.ProjectKnown("PROJ2") {
		t.Fatal("expected PROJ2 to be known")
	}
	if s.ProjectKnown("PROJ3") {
		t.Fatal("PROJ3 should not be known")
	}
}
