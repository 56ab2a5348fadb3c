package tui

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zappabad/marketgame/internal/game"
	"github.com/zappabad/marketgame/tui/panels"
	"github.com/zappabad/marketgame/tui/styles"
)

type stateMsg game.StateSnapshot

type bootstrapMsg game.Bootstrap

type errMsg struct{ err error }

type pollTickMsg struct{}

var quitKeys = key.NewBinding(key.WithKeys("q", "ctrl+c"))

// Model is the presenter dashboard: a read-only wall display that
// polls the game server once per second.
type Model struct {
	serverURL string
	client    *http.Client

	marketPanel      *panels.MarketPanel
	newsPanel        *panels.NewsPanel
	leaderboardPanel *panels.LeaderboardPanel

	snap    *game.StateSnapshot
	lastErr error

	width  int
	height int
	ready  bool
}

// NewModel creates a presenter model pointed at the game server.
func NewModel(serverURL string) *Model {
	return &Model{
		serverURL:        serverURL,
		client:           &http.Client{Timeout: 3 * time.Second},
		marketPanel:      panels.NewMarketPanel(),
		newsPanel:        panels.NewNewsPanel(),
		leaderboardPanel: panels.NewLeaderboardPanel(),
	}
}

// Init starts the bootstrap fetch and the poll loop.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.fetchBootstrap, m.fetchState)
}

func (m *Model) fetchBootstrap() tea.Msg {
	var b game.Bootstrap
	if err := m.getJSON("/api/bootstrap", &b); err != nil {
		return errMsg{err}
	}
	return bootstrapMsg(b)
}

func (m *Model) fetchState() tea.Msg {
	var s game.StateSnapshot
	if err := m.getJSON("/api/state", &s); err != nil {
		return errMsg{err}
	}
	return stateMsg(s)
}

func (m *Model) getJSON(path string, out any) error {
	resp, err := m.client.Get(m.serverURL + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func pollAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return pollTickMsg{} })
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, quitKeys) {
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()

	case bootstrapMsg:
		m.marketPanel.SetCompanies(msg.Companies)

	case stateMsg:
		snap := game.StateSnapshot(msg)
		m.snap = &snap
		m.lastErr = nil
		m.marketPanel.SetSnapshot(m.snap)
		m.newsPanel.SetSnapshot(m.snap)
		m.leaderboardPanel.SetSnapshot(m.snap)
		return m, pollAfter(time.Second)

	case errMsg:
		m.lastErr = msg.err
		return m, pollAfter(2 * time.Second)

	case pollTickMsg:
		return m, m.fetchState
	}
	return m, nil
}

func (m *Model) layout() {
	leftWidth := m.width * 2 / 3
	rightWidth := m.width - leftWidth
	m.marketPanel.SetSize(leftWidth, m.height-4)
	m.newsPanel.SetSize(rightWidth, m.height/2)
	m.leaderboardPanel.SetSize(rightWidth, m.height/2)
}

// View renders the dashboard.
func (m *Model) View() string {
	if !m.ready {
		return "loading..."
	}

	right := lipgloss.JoinVertical(lipgloss.Left,
		m.newsPanel.View(),
		m.leaderboardPanel.View(),
	)
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		m.marketPanel.View(),
		right,
	)

	status := m.statusBar()
	return lipgloss.JoinVertical(lipgloss.Left, body, status)
}

func (m *Model) statusBar() string {
	if m.lastErr != nil {
		return styles.StatusBarStyle.Render("connection error: " + m.lastErr.Error())
	}
	if m.snap == nil {
		return styles.StatusBarStyle.Render("connecting to " + m.serverURL)
	}
	return styles.StatusBarStyle.Render(fmt.Sprintf(
		"round %d  %s  %ds left  •  q to quit",
		m.snap.Round, m.snap.Status, m.snap.TimerSeconds))
}
