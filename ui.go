package main

import (
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Styles
var baseStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.NormalBorder()).
	BorderForeground(lipgloss.Color("240"))

var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#FAFAFA")).
	Background(lipgloss.Color("#7D56F4")).
	PaddingLeft(1).
	PaddingRight(1)

var tabActiveStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("229")).
	Underline(true)

var tabInactiveStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("244"))

var assigneeStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))

var faintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

var matchStatusStyles = map[MatchStatus]lipgloss.Style{
	StatusCompleted:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	StatusLikelyDone: lipgloss.NewStyle().Foreground(lipgloss.Color("112")),
	StatusInProgress: lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	StatusPending:    lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
}

// styleForStatus resolves the display style for a verdict. Unknown
// statuses get the pending style rather than breaking the view.
func styleForStatus(status MatchStatus) lipgloss.Style {
	if style, ok := matchStatusStyles[status]; ok {
		return style
	}
	return matchStatusStyles[StatusPending]
}

// Fetch completion messages. Each fetch lands as its own message so a
// failed contacts fetch never blocks a successful activities fetch.
type projectsFetchedMsg struct {
	projects []Project
	err      error
}

type analysisFetchedMsg struct {
	key      string
	analysis *ProjectAnalysis
	err      error
}

type contactsFetchedMsg struct {
	contacts *ContactsSnapshot
	err      error
}

type activitiesFetchedMsg struct {
	activities *ActivitiesSnapshot
	err        error
}

// dashboardModel is the top-level bubbletea model. All domain state
// lives in State and changes only through Reduce; the model itself
// holds widget state (tables, search input, spinner) and dimensions.
type dashboardModel struct {
	cfg    Config
	client *APIClient

	state State

	projectTable  table.Model
	contactTable  table.Model
	activityTable table.Model
	searchInput   textinput.Model
	spin          spinner.Model

	width  int
	height int
}

func newDashboardModel(cfg Config, client *APIClient) dashboardModel {
	projectTable := table.New(
		table.WithColumns([]table.Column{
			{Title: "Key", Width: 14},
			{Title: "Name", Width: 44},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	contactTable := table.New(
		table.WithColumns([]table.Column{
			{Title: "Name", Width: 20},
			{Title: "Email", Width: 28},
			{Title: "Stage", Width: 14},
			{Title: "Lead Status", Width: 14},
			{Title: "Created", Width: 12},
		}),
		table.WithHeight(9),
	)
	activityTable := table.New(
		table.WithColumns([]table.Column{
			{Title: "When", Width: 18},
			{Title: "Contact", Width: 20},
			{Title: "Type", Width: 10},
			{Title: "Subject", Width: 34},
		}),
		table.WithHeight(7),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240"))
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("229"))
	projectTable.SetStyles(styles)
	contactTable.SetStyles(styles)
	activityTable.SetStyles(styles)

	searchInput := textinput.New()
	searchInput.Placeholder = "ticket key or summary"
	searchInput.Prompt = "/ "
	searchInput.CharLimit = 80

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return dashboardModel{
		cfg:           cfg,
		client:        client,
		state:         Reduce(NewState(), LoadingStarted{}),
		projectTable:  projectTable,
		contactTable:  contactTable,
		activityTable: activityTable,
		searchInput:   searchInput,
		spin:          spin,
	}
}

func (m dashboardModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.fetchProjects())
}

func (m dashboardModel) fetchProjects() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		projects, err := client.ListProjects()
		return projectsFetchedMsg{projects: projects, err: err}
	}
}

func (m dashboardModel) fetchAnalysis(key string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		analysis, err := client.AnalyzeProject(key)
		return analysisFetchedMsg{key: key, analysis: analysis, err: err}
	}
}

func (m dashboardModel) fetchContacts() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		contacts, err := client.RecentContacts()
		return contactsFetchedMsg{contacts: contacts, err: err}
	}
}

func (m dashboardModel) fetchActivities() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		activities, err := client.RecentActivities()
		return activitiesFetchedMsg{activities: activities, err: err}
	}
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if h := m.height - 10; h > 4 {
			m.projectTable.SetHeight(h)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case projectsFetchedMsg:
		m.state = Reduce(m.state, ProjectsLoaded{Projects: msg.projects, Err: msg.err})
		m.projectTable.SetRows(projectRows(m.state.Projects))
		return m, nil

	case analysisFetchedMsg:
		m.state = Reduce(m.state, AnalysisLoaded{ProjectKey: msg.key, Analysis: msg.analysis, Err: msg.err})
		return m, nil

	case contactsFetchedMsg:
		m.state = Reduce(m.state, ContactsLoaded{Contacts: msg.contacts, Err: msg.err})
		if m.state.Contacts != nil {
			m.contactTable.SetRows(contactRows(m.state.Contacts.Data.Contacts))
		}
		return m, nil

	case activitiesFetchedMsg:
		m.state = Reduce(m.state, ActivitiesLoaded{Activities: msg.activities, Err: msg.err})
		if m.state.Activities != nil {
			m.activityTable.SetRows(activityRows(m.state.Activities.Data.Activities))
		}
		return m, nil
	}
	return m, nil
}

func (m dashboardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// While the search input has focus every keystroke belongs to it,
	// and each one updates the store synchronously (no debounce).
	if m.searchInput.Focused() {
		switch msg.String() {
		case "esc", "enter":
			m.searchInput.Blur()
			return m, nil
		default:
			var cmd tea.Cmd
			m.searchInput, cmd = m.searchInput.Update(msg)
			m.state = Reduce(m.state, SearchChanged{Term: m.searchInput.Value()})
			return m, cmd
		}
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "tab":
		return m.switchTab()

	case "esc":
		if m.state.ActiveTab == TabProjects && m.state.SelectedProjectKey != "" {
			// Analysis is discarded unconditionally, even mid-fetch. A
			// response that resolves after this still commits (see Reduce).
			m.state = Reduce(m.state, BackPressed{})
		}
		return m, nil

	case "enter":
		if m.state.ActiveTab == TabProjects && m.state.SelectedProjectKey == "" {
			row := m.projectTable.SelectedRow()
			if len(row) > 0 && m.state.ProjectKnown(row[0]) {
				m.state = Reduce(m.state, LoadingStarted{})
				return m, m.fetchAnalysis(row[0])
			}
		}
		return m, nil

	case "/":
		if m.state.ActiveTab == TabProjects && m.state.Analysis != nil {
			return m, m.searchInput.Focus()
		}
		return m, nil

	case "f":
		if m.state.ActiveTab == TabProjects && m.state.Analysis != nil {
			m.state = Reduce(m.state, StatusFilterChanged{Filter: cycleStatusFilter(m.state.StatusFilter)})
		}
		return m, nil

	case "c":
		if m.state.ActiveTab == TabHubSpot {
			m.state = Reduce(m.state, ContactsToggled{})
		}
		return m, nil

	case "a":
		if m.state.ActiveTab == TabHubSpot {
			m.state = Reduce(m.state, ActivitiesToggled{})
		}
		return m, nil
	}

	// Remaining keys drive whichever table is visible.
	var cmd tea.Cmd
	switch {
	case m.state.ActiveTab == TabProjects && m.state.SelectedProjectKey == "":
		m.projectTable, cmd = m.projectTable.Update(msg)
	case m.state.ActiveTab == TabHubSpot:
		m.contactTable, cmd = m.contactTable.Update(msg)
	}
	return m, cmd
}

// switchTab toggles between the two tabs. Entering the hubspot tab
// always refetches both CRM snapshots in parallel: no caching, no
// dedup of an in-flight pair, no cancellation. Whichever response
// arrives last wins.
func (m dashboardModel) switchTab() (tea.Model, tea.Cmd) {
	if m.state.ActiveTab == TabProjects {
		m.state = Reduce(m.state, TabSelected{Tab: TabHubSpot})
		return m, tea.Batch(m.fetchContacts(), m.fetchActivities())
	}
	m.state = Reduce(m.state, TabSelected{Tab: TabProjects})
	return m, nil
}

func projectRows(projects []Project) []table.Row {
	rows := make([]table.Row, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, table.Row{p.Key, p.Name})
	}
	return rows
}

func contactRows(contacts []Contact) []table.Row {
	rows := make([]table.Row, 0, len(contacts))
	for _, c := range contacts {
		name := c.Name
		if c.Company != "" {
			name = fmt.Sprintf("%s (%s)", c.Name, c.Company)
		}
		rows = append(rows, table.Row{name, c.Email, c.LifecycleStage, c.LeadStatus, c.CreatedDate})
	}
	return rows
}

func activityRows(activities []Activity) []table.Row {
	rows := make([]table.Row, 0, len(activities))
	for _, a := range activities {
		rows = append(rows, table.Row{a.Timestamp, a.Contact, a.Type, a.Subject})
	}
	return rows
}

func (m dashboardModel) View() string {
	var body string
	switch m.state.ActiveTab {
	case TabHubSpot:
		body = m.viewHubSpot()
	default:
		if m.state.Analysis != nil {
			body = m.viewAnalysis()
		} else {
			body = m.viewProjects()
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.viewHeader(),
		body,
		m.viewFooter(),
	) + "\n"
}

func (m dashboardModel) viewHeader() string {
	title := headerStyle.Render(m.cfg.TeamName + " — Project Tracker")

	projectsTab := "Projects"
	hubspotTab := "HubSpot"
	if m.state.ActiveTab == TabProjects {
		projectsTab = tabActiveStyle.Render(projectsTab)
		hubspotTab = tabInactiveStyle.Render(hubspotTab)
	} else {
		projectsTab = tabInactiveStyle.Render(projectsTab)
		hubspotTab = tabActiveStyle.Render(hubspotTab)
	}
	tabs := projectsTab + "  " + hubspotTab

	return title + "\n" + tabs
}

func (m dashboardModel) viewProjects() string {
	if m.state.Loading && len(m.state.Projects) == 0 {
		return "\n " + m.spin.View() + " loading projects..."
	}
	if len(m.state.Projects) == 0 {
		return "\n" + faintStyle.Render(" no projects available")
	}

	view := baseStyle.Render(m.projectTable.View())
	if m.state.Loading {
		view += "\n " + m.spin.View() + " analyzing " + m.projectTable.SelectedRow()[0] + "..."
	}
	return view
}

func (m dashboardModel) viewAnalysis() string {
	analysis := m.state.Analysis

	var b strings.Builder
	fmt.Fprintf(&b, "\n%s", assigneeStyle.Render(analysis.ProjectKey))
	fmt.Fprintf(&b, "  %s\n", faintStyle.Render("repos: "+strings.Join(analysis.Repositories, ", ")))
	fmt.Fprintf(&b, "%s\n", faintStyle.Render("analyzed "+analysis.Timestamp))

	// Search and filter bar. The filter engine re-runs on every render.
	if m.searchInput.Focused() || m.state.SearchTerm != "" {
		b.WriteString(m.searchInput.View() + "\n")
	}
	if m.state.StatusFilter != statusFilterAll {
		b.WriteString("filter: " + styleForStatus(MatchStatus(m.state.StatusFilter)).Render(m.state.StatusFilter) + "\n")
	}

	assignees := make([]string, 0, len(analysis.AssigneeAnalysis))
	for assignee := range analysis.AssigneeAnalysis {
		assignees = append(assignees, assignee)
	}
	sort.Strings(assignees)

	for _, assignee := range assignees {
		data := analysis.AssigneeAnalysis[assignee]
		summary := data.Summary
		fmt.Fprintf(&b, "\n%s  %s\n",
			assigneeStyle.Render(assignee),
			faintStyle.Render(fmt.Sprintf("%d tickets, %d commits", summary.TotalTickets, summary.TotalCommits)))
		fmt.Fprintf(&b, "  %s %d  %s %d  %s %d  %s %d\n",
			styleForStatus(StatusCompleted).Render("completed"), summary.Completed,
			styleForStatus(StatusLikelyDone).Render("likely done"), summary.LikelyDone,
			styleForStatus(StatusInProgress).Render("in progress"), summary.InProgress,
			styleForStatus(StatusPending).Render("pending"), summary.Pending)

		matches := FilterMatches(data.Matches, m.state.SearchTerm, m.state.StatusFilter)
		if len(matches) == 0 && len(data.Matches) > 0 {
			b.WriteString(faintStyle.Render("  no tickets match the current filter") + "\n")
			continue
		}
		for _, match := range matches {
			style := styleForStatus(match.Status)
			fmt.Fprintf(&b, "  %s [%s] %s %s\n",
				style.Render("●"),
				match.Ticket.Key,
				match.Ticket.Summary,
				style.Render(fmt.Sprintf("%s %.0f%%", match.Status.Label(), match.Confidence)))
			if match.Reasoning != "" {
				fmt.Fprintf(&b, "      %s\n", faintStyle.Render(match.Reasoning))
			}
			if len(match.MatchedCommits) > 0 {
				fmt.Fprintf(&b, "      %s\n", faintStyle.Render(fmt.Sprintf("%d matched commits", len(match.MatchedCommits))))
			}
		}
	}

	return b.String()
}

func (m dashboardModel) viewHubSpot() string {
	var b strings.Builder

	if m.state.Contacts == nil && m.state.Activities == nil {
		return "\n " + m.spin.View() + " loading CRM data..."
	}

	if contacts := m.state.Contacts; contacts != nil {
		fmt.Fprintf(&b, "\n%s  %s\n",
			assigneeStyle.Render(fmt.Sprintf("Contacts (%d)", contacts.Data.TotalContacts)),
			faintStyle.Render(contacts.Period.StartDate+" to "+contacts.Period.EndDate))
		if m.state.ShowContacts {
			b.WriteString(baseStyle.Render(m.contactTable.View()) + "\n")
			if leads := contacts.Data.LeadsByDate; len(leads) > 0 {
				total := 0
				for _, lc := range leads {
					total += lc.Count
				}
				fmt.Fprintf(&b, "%s\n", faintStyle.Render(fmt.Sprintf("%d new leads across %d days", total, len(leads))))
			}
		} else {
			b.WriteString(faintStyle.Render("  collapsed (press c)") + "\n")
		}
	}

	if activities := m.state.Activities; activities != nil {
		if activities.Data.Error != "" {
			fmt.Fprintf(&b, "\n%s\n", faintStyle.Render("activities unavailable: "+activities.Data.Error))
		} else {
			fmt.Fprintf(&b, "\n%s\n", assigneeStyle.Render(fmt.Sprintf("Activities (%d)", activities.Data.TotalActivities)))
			if m.state.ShowActivities {
				b.WriteString(baseStyle.Render(m.activityTable.View()) + "\n")
			} else {
				b.WriteString(faintStyle.Render("  collapsed (press a)") + "\n")
			}
		}
	}

	return b.String()
}

func (m dashboardModel) viewFooter() string {
	var help []string
	switch {
	case m.searchInput.Focused():
		help = []string{"[enter/esc] done typing"}
	case m.state.ActiveTab == TabProjects && m.state.Analysis != nil:
		help = []string{"[/] search", "[f] status filter", "[esc] back", "[tab] switch tab", "[q] quit"}
	case m.state.ActiveTab == TabProjects:
		help = []string{"[enter] analyze", "[up/down] navigate", "[tab] switch tab", "[q] quit"}
	default:
		help = []string{"[c] contacts", "[a] activities", "[tab] switch tab", "[q] quit"}
	}
	return "\n" + faintStyle.Render(strings.Join(help, "  "))
}

func runDashboard(cfg Config, client *APIClient) {
	p := tea.NewProgram(newDashboardModel(cfg, client), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("dashboard error: %v", err)
	}
}
