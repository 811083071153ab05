package ui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dori/tablero/internal/dashboard"
	"github.com/dori/tablero/internal/form"
	"github.com/dori/tablero/internal/ui/theme"
	"github.com/dori/tablero/internal/ui/views"
)

// Options configures the root model
type Options struct {
	AppName   string
	BaseURL   string
	PageSize  int
	StartView dashboard.View
	Logger    *slog.Logger
}

// RootModel is the main application model. It owns the dashboard state:
// views emit requests, the root runs the matching operation and feeds the
// resulting state back into every view.
type RootModel struct {
	ctx   context.Context
	fx    *dashboard.Effects
	log   *slog.Logger
	state dashboard.State
	opts  Options

	keys   KeyMap
	help   help.Model
	width  int
	height int

	dashboardView views.DashboardView
	boardView     views.BoardView
	createView    views.ProjectFormView
	usersView     views.UsersView
	reportsView   views.ReportsView
	offlineView   views.OfflineView
	helpVisible   bool

	statusMsg string
}

// NewRootModel creates a new root model. Operations run with ctx, so
// cancelling it aborts requests still in flight.
func NewRootModel(ctx context.Context, fx *dashboard.Effects, opts Options) RootModel {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	h := help.New()
	h.ShowAll = false
	h.Styles = helpStyles(theme.Current.Styles)

	m := RootModel{
		ctx:           ctx,
		fx:            fx,
		log:           opts.Logger.With("component", "ui"),
		opts:          opts,
		keys:          DefaultKeyMap(),
		help:          h,
		dashboardView: views.NewDashboardView(opts.PageSize),
		boardView:     views.NewBoardView(),
		createView:    views.NewProjectFormView(form.NewProjectForm()),
		usersView:     views.NewUsersView(),
		reportsView:   views.NewReportsView(),
		offlineView:   views.NewOfflineView(opts.BaseURL),
	}
	// Init cannot change the model, so the startup Begin is applied here
	m.apply(m.fx.Startup().Begin)
	return m
}

// State returns the current dashboard state
func (m RootModel) State() dashboard.State {
	return m.state
}

// Init runs the startup health check
func (m RootModel) Init() tea.Cmd {
	return m.exec(m.fx.Startup(), afterStartup)
}

// afterStartup opens the requested start view once the backend is up
func afterStartup(m *RootModel, err error) tea.Cmd {
	if err != nil || m.state.Offline() {
		return nil
	}
	switch m.opts.StartView {
	case dashboard.ViewUsers, dashboard.ViewReports, dashboard.ViewCreate:
		return m.navigate(m.opts.StartView)
	}
	return nil
}

// apply reduces a into the state and refreshes the views
func (m *RootModel) apply(a dashboard.Action) {
	if a == nil {
		return
	}
	m.state = dashboard.Reduce(m.state, a)
	m.dashboardView = m.dashboardView.SetState(m.state)
	m.boardView = m.boardView.SetState(m.state)
	m.usersView = m.usersView.SetState(m.state)
	m.reportsView = m.reportsView.SetState(m.state)
	m.offlineView = m.offlineView.SetState(m.state)
}

// exec returns a command that runs op without applying its Begin action
func (m *RootModel) exec(op dashboard.Op, done doneFunc) tea.Cmd {
	if op.Run == nil {
		return func() tea.Msg { return opDoneMsg{name: op.Name, done: done} }
	}
	ctx, run, log := m.ctx, op.Run, m.log
	return func() tea.Msg {
		log.Debug("operation started", "op", op.Name)
		return opDoneMsg{name: op.Name, action: run(ctx), done: done}
	}
}

// run applies op's Begin action now and runs the rest as a command
func (m *RootModel) run(op dashboard.Op, done doneFunc) tea.Cmd {
	m.apply(op.Begin)
	if op.Run == nil && done == nil {
		return nil
	}
	return m.exec(op, done)
}

// build runs an op whose construction can fail against the current state
func (m *RootModel) build(mk func(dashboard.State) (dashboard.Op, error), done doneFunc) tea.Cmd {
	op, err := mk(m.state)
	if err != nil {
		m.apply(dashboard.Failed{Err: err})
		if done != nil {
			return done(m, err)
		}
		return nil
	}
	return m.run(op, done)
}

// navigate switches the top-level view and loads what it shows
func (m *RootModel) navigate(v dashboard.View) tea.Cmd {
	switch v {
	case dashboard.ViewCreate:
		m.createView = views.NewProjectFormView(form.NewProjectForm()).SetSize(m.width, m.contentHeight())
		return m.run(m.fx.Navigate(v), nil)
	case dashboard.ViewUsers:
		return tea.Batch(m.run(m.fx.Navigate(v), nil), m.run(m.fx.LoadUsers(), nil))
	case dashboard.ViewReports:
		return tea.Batch(m.run(m.fx.Navigate(v), nil), m.run(m.fx.LoadReport(), nil))
	default:
		return m.run(m.fx.Navigate(v), nil)
	}
}

// refresh reloads whatever the current view shows
func (m *RootModel) refresh() tea.Cmd {
	switch m.state.View {
	case dashboard.ViewUsers:
		return m.run(m.fx.LoadUsers(), nil)
	case dashboard.ViewReports:
		return m.run(m.fx.LoadReport(), nil)
	case dashboard.ViewCreate:
		return nil
	}
	var cmds []tea.Cmd
	for _, op := range m.fx.Refresh(m.state) {
		cmds = append(cmds, m.run(op, nil))
	}
	return tea.Sequence(cmds...)
}

// usersForAssignees loads the user list the task form picks assignees from
func (m *RootModel) usersForAssignees() tea.Cmd {
	if m.state.Users != nil {
		return nil
	}
	return m.run(m.fx.LoadUsers(), nil)
}

func (m *RootModel) submitProject(f *form.ProjectForm) tea.Cmd {
	k, editing := f.Editing()
	return m.build(func(dashboard.State) (dashboard.Op, error) {
		if !editing {
			return m.fx.CreateProject(f.Input()), nil
		}
		id, ok := k.ID()
		if !ok {
			return dashboard.Op{}, fmt.Errorf("project %s: %w", k, dashboard.ErrNotPersisted)
		}
		return m.fx.UpdateProject(id, f.Input()), nil
	}, func(m *RootModel, err error) tea.Cmd {
		f.Finish(err)
		if err == nil {
			m.boardView = m.boardView.CloseForms()
			m.statusMsg = "Project saved"
		}
		return nil
	})
}

func (m *RootModel) submitTask(f *form.TaskForm) tea.Cmd {
	k, editing := f.Editing()
	return m.build(func(s dashboard.State) (dashboard.Op, error) {
		if editing {
			return m.fx.UpdateTask(s, k, f.Input())
		}
		return m.fx.CreateTask(s, f.Input())
	}, func(m *RootModel, err error) tea.Cmd {
		f.Finish(err)
		if err == nil {
			m.boardView = m.boardView.CloseForms()
			m.statusMsg = "Task saved"
		}
		return nil
	})
}

func (m *RootModel) submitUser(f *form.UserForm) tea.Cmd {
	k, editing := f.Editing()
	return m.build(func(s dashboard.State) (dashboard.Op, error) {
		if editing {
			return m.fx.UpdateUser(s, k, f.Input())
		}
		return m.fx.CreateUser(f.Input()), nil
	}, func(m *RootModel, err error) tea.Cmd {
		f.Finish(err)
		if err == nil {
			m.usersView = m.usersView.CloseForm()
			m.statusMsg = "User saved"
		}
		return nil
	})
}

func (m RootModel) contentHeight() int {
	// header (1) + footer (status + hints)
	return max(m.height-4, 1)
}

// isInputMode reports whether the current view wants raw keys
func (m RootModel) isInputMode() bool {
	switch m.state.View {
	case dashboard.ViewCreate:
		return true
	case dashboard.ViewDetail:
		return m.boardView.IsInputMode()
	case dashboard.ViewUsers:
		return m.usersView.IsInputMode()
	}
	return false
}

// Update handles messages
func (m RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// helpers below mutate m through a pointer, so every command is built
	// before m is returned
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = max(msg.Width-2, 0)

		h := m.contentHeight()
		m.dashboardView = m.dashboardView.SetSize(m.width, h)
		m.boardView = m.boardView.SetSize(m.width, h)
		m.createView = m.createView.SetSize(m.width, h)
		m.usersView = m.usersView.SetSize(m.width, h)
		m.reportsView = m.reportsView.SetSize(m.width, h)
		m.offlineView = m.offlineView.SetSize(m.width, h)
		return m, nil

	case opDoneMsg:
		m.apply(msg.action)
		err := dashboard.Err(msg.action)
		if err != nil {
			m.log.Debug("operation failed", "op", msg.name, "err", err)
		}
		if msg.done != nil {
			cmd = msg.done(&m, err)
		}
		return m, cmd

	case views.StatusMsg:
		m.statusMsg = msg.Message
		return m, nil

	case views.RetryRequest:
		cmd = m.run(m.fx.Startup(), afterStartup)
		return m, cmd

	case views.OpenProjectRequest:
		// assignees load after the board so Loading stays up until both are in
		cmd = m.run(m.fx.SelectProject(m.state, msg.ID), func(m *RootModel, err error) tea.Cmd {
			if err != nil {
				return nil
			}
			return m.usersForAssignees()
		})
		return m, cmd

	case views.BackRequest:
		cmd = m.run(m.fx.BackToDashboard(), nil)
		return m, cmd

	case views.NavigateRequest:
		cmd = m.navigate(msg.View)
		return m, cmd

	case views.DeleteProjectRequest:
		cmd = m.run(m.fx.DeleteProject(msg.ID), nil)
		return m, cmd

	case views.CompleteTaskRequest:
		cmd = m.build(func(s dashboard.State) (dashboard.Op, error) {
			return m.fx.CompleteTask(s, msg.Key)
		}, nil)
		return m, cmd

	case views.DeleteTaskRequest:
		cmd = m.build(func(s dashboard.State) (dashboard.Op, error) {
			return m.fx.DeleteTask(s, msg.Key)
		}, nil)
		return m, cmd

	case views.DeleteUserRequest:
		cmd = m.build(func(s dashboard.State) (dashboard.Op, error) {
			return m.fx.DeleteUser(s, msg.Key)
		}, nil)
		return m, cmd

	case views.SubmitProjectRequest:
		cmd = m.submitProject(msg.Form)
		return m, cmd

	case views.SubmitTaskRequest:
		cmd = m.submitTask(msg.Form)
		return m, cmd

	case views.SubmitUserRequest:
		cmd = m.submitUser(msg.Form)
		return m, cmd

	case tea.KeyMsg:
		m.statusMsg = ""
		inputMode := m.isInputMode()

		switch {
		case key.Matches(msg, m.keys.Quit):
			// ctrl+c always quits, q only outside text input
			if msg.String() == "ctrl+c" || !inputMode {
				return m, tea.Quit
			}
		case key.Matches(msg, m.keys.ThemeCycle):
			t := theme.Next()
			m.help.Styles = helpStyles(theme.Current.Styles)
			m.statusMsg = fmt.Sprintf("Theme: %s", t.Name)
			return m, nil
		}

		if m.state.Offline() {
			m.offlineView, cmd = m.offlineView.Update(msg)
			return m, cmd
		}

		if !inputMode {
			switch {
			case key.Matches(msg, m.keys.Help):
				m.helpVisible = !m.helpVisible
				m.help.ShowAll = m.helpVisible
				return m, nil
			case m.helpVisible && msg.String() == "esc":
				m.helpVisible = false
				m.help.ShowAll = false
				return m, nil
			case key.Matches(msg, m.keys.Dismiss):
				m.apply(m.fx.DismissError().Begin)
				return m, nil
			case key.Matches(msg, m.keys.Refresh):
				cmd = m.refresh()
				return m, cmd
			case key.Matches(msg, m.keys.DashboardView):
				cmd = m.navigate(dashboard.ViewDashboard)
				return m, cmd
			case key.Matches(msg, m.keys.UsersView):
				cmd = m.navigate(dashboard.ViewUsers)
				return m, cmd
			case key.Matches(msg, m.keys.ReportsView):
				cmd = m.navigate(dashboard.ViewReports)
				return m, cmd
			}
		}
	}

	return m.delegate(msg)
}

// delegate passes msg to the view that is on screen
func (m RootModel) delegate(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.state.View {
	case dashboard.ViewDashboard:
		m.dashboardView, cmd = m.dashboardView.Update(msg)
	case dashboard.ViewDetail:
		m.boardView, cmd = m.boardView.Update(msg)
	case dashboard.ViewCreate:
		m.createView, cmd = m.createView.Update(msg)
		if m.createView.Cancelled() {
			cmd = m.navigate(dashboard.ViewDashboard)
		}
	case dashboard.ViewUsers:
		m.usersView, cmd = m.usersView.Update(msg)
	case dashboard.ViewReports:
		m.reportsView, cmd = m.reportsView.Update(msg)
	}
	return m, cmd
}

// View renders the UI
func (m RootModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content string
	switch {
	case m.helpVisible:
		content = m.help.View(m.keys)
	case m.state.Offline():
		content = m.offlineView.View()
	default:
		switch m.state.View {
		case dashboard.ViewDashboard:
			content = m.dashboardView.View()
		case dashboard.ViewDetail:
			content = m.boardView.View()
		case dashboard.ViewCreate:
			content = m.createView.View()
		case dashboard.ViewUsers:
			content = m.usersView.View()
		case dashboard.ViewReports:
			content = m.reportsView.View()
		}
	}

	// Ensure content fills available space
	contentHeight := m.contentHeight()
	if lines := strings.Count(content, "\n") + 1; lines < contentHeight {
		content += strings.Repeat("\n", contentHeight-lines)
	}

	return strings.Join([]string{m.renderHeader(), content, m.renderFooter()}, "\n")
}

// renderHeader renders the header bar
func (m RootModel) renderHeader() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	name := m.opts.AppName
	if name == "" {
		name = "tablero"
	}
	title := styles.Header.Render(name)

	subtle := lipgloss.NewStyle().Foreground(t.Subtle).Padding(0, 1)
	indicator := subtle.Render(fmt.Sprintf("[%s]", m.state.View))
	if m.state.Loading {
		indicator += lipgloss.NewStyle().Foreground(t.Info).Render("loading…")
	}

	left := lipgloss.JoinHorizontal(lipgloss.Center, title, indicator)
	right := subtle.Render(fmt.Sprintf("theme: %s", t.Name))

	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	return left + strings.Repeat(" ", gap) + right
}

// renderFooter renders the error banner, status line and key hints
func (m RootModel) renderFooter() string {
	styles := theme.Current.Styles

	var lines []string
	switch {
	case m.state.Err != "":
		lines = append(lines, styles.ErrorBanner.Render(m.state.Err)+styles.HelpDesc.Render("  (x: dismiss)"))
	case m.statusMsg != "":
		lines = append(lines, styles.StatusBanner.Render(m.statusMsg))
	default:
		lines = append(lines, "")
	}

	if !m.helpVisible {
		lines = append(lines, m.help.ShortHelpView(m.keys.ShortHelp()))
	} else {
		lines = append(lines, styles.HelpDesc.Render("? or esc to close help"))
	}
	return styles.Footer.Render(strings.Join(lines, "\n"))
}

// helpStyles maps the theme onto the key hint renderer
func helpStyles(s theme.Styles) help.Styles {
	hs := help.New().Styles
	hs.ShortKey, hs.FullKey = s.HelpKey, s.HelpKey
	hs.ShortDesc, hs.FullDesc = s.HelpDesc, s.HelpDesc
	hs.ShortSeparator, hs.FullSeparator = s.HelpSeparator, s.HelpSeparator
	return hs
}
