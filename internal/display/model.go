package display

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/muurk/msgview/internal/config"
	"github.com/muurk/msgview/internal/logging"
	"github.com/muurk/msgview/internal/messageapi"
)

// Fetcher performs one outbound request for the message.
// *messageapi.Client satisfies it.
type Fetcher interface {
	FetchMessage(ctx context.Context, requestID string) (*messageapi.Payload, error)
}

// Options configures a view at construction time.
type Options struct {
	// APIURL overrides the default endpoint. Relative values resolve
	// against BaseURL.
	APIURL string

	// BaseURL is the origin for a relative APIURL. Defaults to
	// config.DefaultBaseURL.
	BaseURL string

	// Heading replaces DefaultHeading when set.
	Heading string

	// Timeout bounds each fetch. Zero means no bound.
	Timeout time.Duration

	// Logger is the diagnostic channel. Defaults to logging.GetLogger().
	Logger *zap.Logger

	// Context parents every activation. Defaults to context.Background().
	Context context.Context

	// Fetcher replaces the HTTP client built from APIURL.
	Fetcher Fetcher
}

// Messages for async operations
type activateMsg struct{}

type messageLoadedMsg struct {
	activationID string
	message      string
}

type fetchFailedMsg struct {
	activationID string
	err          error
}

// Model is the display view: a heading above either the fetched message
// or a loading placeholder.
type Model struct {
	state    State
	heading  string
	endpoint string

	fetcher Fetcher
	logger  *zap.Logger
	parent  context.Context

	// Activation bookkeeping. Results carrying any other id are stale.
	activationID string
	activations  int
	cancel       context.CancelFunc
	pending      tea.Cmd

	// UI state
	Width    int
	Height   int
	spinner  spinner.Model
	spinning bool
	help     help.Model
	keys     keyMap
}

// New builds a view from opts. The view is idle until Init or Activate.
func New(opts Options) (Model, error) {
	heading := opts.Heading
	if heading == "" {
		heading = DefaultHeading
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.GetLogger()
	}

	parent := opts.Context
	if parent == nil {
		parent = context.Background()
	}

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = config.DefaultBaseURL
	}

	endpoint, err := messageapi.ResolveEndpoint(opts.APIURL, baseURL)
	if err != nil {
		return Model{}, err
	}

	fetcher := opts.Fetcher
	if fetcher == nil {
		client := messageapi.NewClient(endpoint)
		client.Logger = logger
		client.SetTimeout(opts.Timeout)
		fetcher = client
	}

	return Model{
		heading:  heading,
		endpoint: endpoint.String(),
		fetcher:  fetcher,
		logger:   logger,
		parent:   parent,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(SpinnerStyle)),
		help:     help.New(),
		keys:     defaultKeyMap(),
	}, nil
}

// Init starts the first activation. A model already activated through
// Activate runs that activation's fetch instead of issuing another.
func (m Model) Init() tea.Cmd {
	if m.pending != nil {
		return tea.Batch(m.pending, m.spinner.Tick)
	}
	return activate
}

func activate() tea.Msg {
	return activateMsg{}
}

// Activate resets the view to loading and returns the command that issues
// exactly one request, with a handle that abandons it. Any earlier
// activation is canceled and its result will be ignored.
func (m Model) Activate(ctx context.Context) (Model, tea.Cmd, context.CancelFunc) {
	if m.cancel != nil {
		m.cancel()
	}

	fetchCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.activationID = uuid.NewString()
	m.activations++
	m.state = State{}
	m.pending = fetchCmd(fetchCtx, m.fetcher, m.activationID)

	m.logger.Debug("View activated",
		zap.String("request_id", m.activationID),
		zap.String("endpoint", m.endpoint),
		zap.Int("activation", m.activations),
	)

	return m, m.pending, cancel
}

// Deactivate abandons the outstanding request, if any. A response that
// still arrives is not observed.
func (m Model) Deactivate() Model {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.activationID = ""
	m.pending = nil
	return m
}

// Load activates the view and blocks until its single request resolves.
// Failures are logged exactly as in the interactive loop.
func (m Model) Load(ctx context.Context) Model {
	m, cmd, cancel := m.Activate(ctx)
	defer cancel()

	updated, _ := m.Update(cmd())
	return updated.(Model)
}

func fetchCmd(ctx context.Context, fetcher Fetcher, activationID string) tea.Cmd {
	return func() tea.Msg {
		payload, err := fetcher.FetchMessage(ctx, activationID)
		if err != nil {
			return fetchFailedMsg{activationID: activationID, err: err}
		}
		return messageLoadedMsg{activationID: activationID, message: payload.Message}
	}
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case activateMsg:
		var fetch tea.Cmd
		m, fetch, _ = m.Activate(m.parent)
		if m.spinning {
			return m, fetch
		}
		m.spinning = true
		return m, tea.Batch(fetch, m.spinner.Tick)

	case messageLoadedMsg:
		if msg.activationID != m.activationID {
			return m, nil
		}
		m.state.Message = msg.message
		return m, nil

	case fetchFailedMsg:
		if msg.activationID != m.activationID || messageapi.IsCanceled(msg.err) {
			return m, nil
		}
		logging.LogFetchFailure(m.logger, msg.activationID, m.endpoint, msg.err, messageapi.LogFields(msg.err)...)
		return m, nil

	case spinner.TickMsg:
		if m.state.Loaded() {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinning = true
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m = m.Deactivate()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Reload):
			return m, activate
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
	}

	return m, nil
}

// View renders the heading and the message line
func (m Model) View() string {
	var line string
	if m.state.Loaded() {
		line = MessageStyle.Render(m.state.Text())
	} else {
		line = m.spinner.View() + " " + PlaceholderStyle.Render(m.state.Text())
	}

	content := HeadingStyle.Render(m.heading) + "\n" + line
	footer := HelpStyle.Render(m.help.View(m.keys))

	return renderContainer(buildHeader(m.endpoint), content, footer, m.Width, m.Height)
}

// State returns the current display state
func (m Model) State() State {
	return m.state
}

// Heading returns the heading shown above the message
func (m Model) Heading() string {
	return m.heading
}

// Endpoint returns the resolved endpoint address
func (m Model) Endpoint() string {
	return m.endpoint
}

// ActivationID returns the id of the current activation, empty when idle
func (m Model) ActivationID() string {
	return m.activationID
}

// Activations counts how many times the view has been activated
func (m Model) Activations() int {
	return m.activations
}
