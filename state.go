package main

import "log"

// Tab identifies which data view is active.
type Tab int

const (
	// TabProjects shows the project list and, once a project is
	// selected, its completion analysis.
	TabProjects Tab = iota
	// TabHubSpot shows recent CRM contacts and activities.
	TabHubSpot
)

// State is an immutable snapshot of everything the dashboard renders.
// All mutation goes through Reduce; the UI event loop is the only
// writer, so there is no locking.
type State struct {
	ActiveTab Tab

	Projects           []Project
	SelectedProjectKey string
	Analysis           *ProjectAnalysis

	Contacts   *ContactsSnapshot
	Activities *ActivitiesSnapshot

	Loading      bool
	SearchTerm   string
	StatusFilter string

	ShowContacts   bool
	ShowActivities bool
}

func NewState() State {
	return State{
		StatusFilter:   statusFilterAll,
		ShowContacts:   true,
		ShowActivities: true,
	}
}

// Event is one state transition input. Fetch completion events carry
// the result and the error from the fetch; on error the reducer keeps
// the previous data so the view degrades silently instead of blanking.
type Event interface {
	isEvent()
}

type LoadingStarted struct{}

type ProjectsLoaded struct {
	Projects []Project
	Err      error
}

type AnalysisLoaded struct {
	ProjectKey string
	Analysis   *ProjectAnalysis
	Err        error
}

type BackPressed struct{}

type TabSelected struct {
	Tab Tab
}

type ContactsLoaded struct {
	Contacts *ContactsSnapshot
	Err      error
}

type ActivitiesLoaded struct {
	Activities *ActivitiesSnapshot
	Err        error
}

type SearchChanged struct {
	Term string
}

type StatusFilterChanged struct {
	Filter string
}

type ContactsToggled struct{}

type ActivitiesToggled struct{}

func (LoadingStarted) isEvent()      {}
func (ProjectsLoaded) isEvent()      {}
func (AnalysisLoaded) isEvent()      {}
func (BackPressed) isEvent()         {}
func (TabSelected) isEvent()         {}
func (ContactsLoaded) isEvent()      {}
func (ActivitiesLoaded) isEvent()    {}
func (SearchChanged) isEvent()       {}
func (StatusFilterChanged) isEvent() {}
func (ContactsToggled) isEvent()     {}
func (ActivitiesToggled) isEvent()   {}

// Reduce applies one event to the state and returns the next state.
//
// Fetch results are applied regardless of what view is current: a
// response that arrives after the user navigated away still commits
// its slice of state, and when two fetches of the same kind race the
// later arrival wins. Neither case is guarded.
func Reduce(s State, ev Event) State {
	switch ev := ev.(type) {
	case LoadingStarted:
		s.Loading = true

	case ProjectsLoaded:
		s.Loading = false
		if ev.Err != nil {
			log.Printf("state projects load failed: %v", ev.Err)
			return s
		}
		s.Projects = ev.Projects

	case AnalysisLoaded:
		s.Loading = false
		if ev.Err != nil {
			// Silent no-op: selection and analysis stay as they were.
			log.Printf("state analysis load failed project=%s: %v", ev.ProjectKey, ev.Err)
			return s
		}
		s.Analysis = ev.Analysis
		s.SelectedProjectKey = ev.ProjectKey

	case BackPressed:
		s.SelectedProjectKey = ""
		s.Analysis = nil

	case TabSelected:
		s.ActiveTab = ev.Tab

	case ContactsLoaded:
		if ev.Err != nil {
			log.Printf("state contacts load failed: %v", ev.Err)
			return s
		}
		s.Contacts = ev.Contacts

	case ActivitiesLoaded:
		if ev.Err != nil {
			log.Printf("state activities load failed: %v", ev.Err)
			return s
		}
		s.Activities = ev.Activities

	case SearchChanged:
		s.SearchTerm = ev.Term

	case StatusFilterChanged:
		s.StatusFilter = ev.Filter

	case ContactsToggled:
		s.ShowContacts = !s.ShowContacts

	case ActivitiesToggled:
		s.ShowActivities = !s.ShowActivities
	}
	return s
}

// ProjectKnown reports whether key is in the loaded project list.
func (s State) ProjectKnown(key string) bool {
	for _, p := range s.Projects {
		if p.Key == key {
			return true
		}
	}
	return false
}
