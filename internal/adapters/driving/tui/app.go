package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/carsearch/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/carsearch/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/carsearch/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/carsearch/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/carsearch/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/carsearch/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/carsearch/internal/core/domain"
)

// ExitCommand typed at the prompt (any case) quits the chat.
const ExitCommand = "exit"

// Welcome is the banner shown above the input.
const Welcome = "Welcome to the Cars Dataset Retrieval Chatbot! Type 'exit' to quit."

// App is the chat application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	input     *input.QueryInput
	list      *list.ResultList
	statusbar *status.Bar

	// lastQuery is the question the current results answer.
	lastQuery string

	err error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a chat application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()
	bar := status.NewBar(s, km)
	if ports.Index != nil {
		stats := ports.Index.Stats()
		bar.SetSummary(fmt.Sprintf("%d records, %d chunks", stats.Documents, stats.Chunks))
	}

	return &App{
		ports:     ports,
		ctx:       context.Background(),
		styles:    s,
		keymap:    km,
		input:     input.NewQueryInput(s),
		list:      list.NewResultList(s),
		statusbar: bar,
	}, nil
}

// WithContext sets the context passed to retrieval calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("carsearch"),
		a.input.Init(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case messages.RetrieveRequested:
		return a, a.retrieve(msg.Query, msg.K)

	case messages.RetrieveCompleted:
		a.handleRetrieveCompleted(msg)
		return a, nil

	case messages.ErrorOccurred:
		a.setError(msg.Err)
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case keymap.Matches(msg.String(), a.keymap.Quit):
		return a, tea.Quit

	case keymap.Matches(msg.String(), a.keymap.Submit):
		return a, a.submit()

	case keymap.Matches(msg.String(), a.keymap.Clear):
		a.input.Reset()
		a.list.Clear()
		a.statusbar.Clear()
		a.lastQuery = ""
		a.err = nil
		return a, nil

	case keymap.Matches(msg.String(), a.keymap.Up), keymap.Matches(msg.String(), a.keymap.Down):
		a.list, _ = a.list.Update(msg)
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// submit turns the input into a retrieval request, or quits on ExitCommand.
func (a *App) submit() tea.Cmd {
	query := strings.TrimSpace(a.input.Value())
	if query == "" {
		return nil
	}
	if strings.EqualFold(query, ExitCommand) {
		return func() tea.Msg { return messages.Quit{} }
	}

	a.input.Reset()
	a.statusbar.SetState(status.StateRetrieving)
	k := a.ports.k()
	return func() tea.Msg {
		return messages.RetrieveRequested{Query: query, K: k}
	}
}

// retrieve runs the query off the update loop.
func (a *App) retrieve(query string, k int) tea.Cmd {
	ctx := a.ctx
	svc := a.ports.Retrieval
	return func() tea.Msg {
		results, err := svc.Retrieve(ctx, query, k)
		return messages.RetrieveCompleted{Query: query, Results: results, Err: err}
	}
}

func (a *App) handleRetrieveCompleted(msg messages.RetrieveCompleted) {
	a.lastQuery = msg.Query
	if msg.Err != nil {
		a.list.Clear()
		a.setError(msg.Err)
		return
	}

	a.err = nil
	a.list.SetResults(msg.Results)
	a.statusbar.SetMessage("")
	a.statusbar.SetState(status.StateResults)
	a.statusbar.SetResultCount(len(msg.Results))
}

func (a *App) setError(err error) {
	a.err = err
	a.statusbar.SetState(status.StateError)
	a.statusbar.SetMessage(err.Error())
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	sections := []string{
		a.styles.Title.Render(Welcome),
		"",
		a.input.View(),
		"",
	}

	if a.err != nil {
		sections = append(sections, a.styles.Error.Render("Error: "+a.err.Error()), "")
	}
	if a.lastQuery != "" {
		sections = append(sections, a.styles.Muted.Render("Q: "+a.lastQuery), a.list.View())
	}

	sections = append(sections, "", a.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions resizes the app and its components.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.input.SetWidth(width)
	// banner, input box, query line and status bar
	a.list.SetDimensions(width, max(height-10, 4))
	a.statusbar.SetWidth(width)
}

// Results returns the results currently shown.
func (a *App) Results() []domain.RetrievalResult {
	return a.list.Results()
}

// LastQuery returns the question the shown results answer.
func (a *App) LastQuery() string {
	return a.lastQuery
}

// Err returns the last error.
func (a *App) Err() error {
	return a.err
}

// Ready reports whether the first window size has been received.
func (a *App) Ready() bool {
	return a.ready
}

// Run starts the Bubbletea program and blocks until the user quits.
func Run(ctx context.Context, ports *Ports, opts ...tea.ProgramOption) error {
	app, err := NewApp(ports)
	if err != nil {
		return err
	}
	app.WithContext(ctx)

	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	if _, err := tea.NewProgram(app, opts...).Run(); err != nil {
		return fmt.Errorf("running chat: %w", err)
	}
	return nil
}
