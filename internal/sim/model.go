package sim

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sweeney/focus-timer/internal/logic"
	"github.com/sweeney/focus-timer/internal/status"
)

const refreshInterval = 250 * time.Millisecond

// RefreshMsg asks the model to redraw after a device change.
type RefreshMsg struct{}

type tickMsg time.Time

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 2)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	beepStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFD166"))
)

var ledColors = map[logic.Color]lipgloss.Color{
	logic.ColorOff:   lipgloss.Color("#333333"),
	logic.ColorRed:   lipgloss.Color("#FF4B4B"),
	logic.ColorGreen: lipgloss.Color("#3DDC84"),
}

// Model is the bubbletea model for the simulator.
type Model struct {
	dev      *Device
	tracker  *status.Tracker
	quitting bool
}

// NewModel creates a model over dev. tracker may be nil.
func NewModel(dev *Device, tracker *status.Tracker) Model {
	return Model{dev: dev, tracker: tracker}
}

// Quitting reports whether the user asked to quit.
func (m Model) Quitting() bool {
	return m.quitting
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Init starts the periodic redraw.
func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles key presses and redraw messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case " ", "enter":
			m.dev.Press()
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		}
	case tickMsg:
		return m, tick()
	case RefreshMsg:
	}
	return m, nil
}

// View renders the LEDs, buzzer and timer state.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	st := m.dev.State()

	buzzer := labelStyle.Render("buzzer ·")
	if st.Buzzing {
		buzzer = beepStyle.Render("buzzer ♪ BEEP")
	}
	leds := fmt.Sprintf("%s %s   %s %s   %s",
		labelStyle.Render("front"), led(st.Front),
		labelStyle.Render("back"), led(st.Back),
		buzzer)

	lines := []string{titleStyle.Render("Focus Timer"), "", leds}
	if m.tracker != nil {
		lines = append(lines, "", timerLine(m.tracker.Snapshot()))
	}

	body := boxStyle.Render(strings.Join(lines, "\n"))
	hint := hintStyle.Render("space: press button   q: quit")
	return lipgloss.JoinVertical(lipgloss.Left, body, hint) + "\n"
}

func led(c logic.Color) string {
	color, ok := ledColors[c]
	if !ok {
		color = ledColors[logic.ColorOff]
	}
	return lipgloss.NewStyle().Foreground(color).Render("●")
}

func timerLine(snap status.Snapshot) string {
	line := fmt.Sprintf("%s %s", labelStyle.Render("phase"), snap.Phase)
	if !snap.PhaseStartedAt.IsZero() {
		line += fmt.Sprintf("  %s left", snap.PhaseRemaining().Truncate(time.Second))
	}
	return line + fmt.Sprintf("  %s %d", labelStyle.Render("breaks"), snap.BreaksTaken)
}
