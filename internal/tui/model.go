// Package tui is the interactive chat interface.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"termllm/internal/ai"
	"termllm/internal/chat"
	"termllm/internal/commands"
	"termllm/internal/i18n"
)

// Engine is the chat surface the UI needs. *chat.Engine implements it.
type Engine interface {
	Respond(ctx context.Context, prompt string, onDelta ai.StreamCallback) (*chat.Result, error)
}

type streamEvent struct {
	delta string
	done  bool
	res   *chat.Result
	err   error
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	userStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	cmdStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	inputStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// Model is the Bubble Tea model for the chat UI.
type Model struct {
	engine   Engine
	registry *commands.Registry

	input    textinput.Model
	viewport viewport.Model
	spin     spinner.Model

	// current accumulates the streamed assistant response. It is a plain
	// string because Model is copied by value on every Update; a
	// strings.Builder would trip its copy check on the second delta.
	transcript []string
	current    string
	events     chan streamEvent
	streaming  bool
	status     string
	ready      bool
}

// New creates the chat UI model.
func New(engine Engine, registry *commands.Registry) Model {
	ti := textinput.New()
	ti.Prompt = i18n.Current().UserPrompt
	ti.Placeholder = "/help"
	ti.Focus()
	ti.CharLimit = 0

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		engine:     engine,
		registry:   registry,
		input:      ti,
		viewport:   viewport.New(0, 0),
		spin:       sp,
		transcript: []string{titleStyle.Render(i18n.Current().Welcome)},
	}
}

// Init starts the text input cursor blink.
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window, and stream events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, ih := inputStyle.GetFrameSize()
		reserved := 1 + ih + 1 // title + input frame + status
		vh := msg.Height - reserved - 1
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = msg.Width
		m.viewport.Height = vh
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyCtrlD:
			return m, tea.Quit
		case tea.KeyEnter:
			if !m.streaming {
				return m.submit()
			}
			return m, nil
		case tea.KeyPgUp, tea.KeyPgDown:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case streamEvent:
		return m.handleStream(msg)

	case spinner.TickMsg:
		if m.streaming {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}
	m.input.Reset()

	if commands.IsCommand(text) {
		res, known := m.registry.Dispatch(context.Background(), text)
		if !known {
			m.append(errorStyle.Render(i18n.Current().InvalidCommand))
			return m, nil
		}
		switch res.Action {
		case commands.ActionQuit:
			m.append(cmdStyle.Render(res.Output))
			return m, tea.Quit
		case commands.ActionClear:
			m.transcript = nil
			m.refreshViewport()
			return m, nil
		default:
			m.append(cmdStyle.Render(res.Output))
			m.input.Prompt = i18n.Current().UserPrompt
			return m, nil
		}
	}

	m.append(userStyle.Render(i18n.Current().UserPrompt) + text)
	m.current = ""
	m.status = i18n.Current().Thinking
	m.streaming = true

	events := make(chan streamEvent, 64)
	m.events = events
	go func() {
		res, err := m.engine.Respond(context.Background(), text, func(delta string) {
			events <- streamEvent{delta: delta}
		})
		events <- streamEvent{done: true, res: res, err: err}
		close(events)
	}()

	return m, tea.Batch(m.spin.Tick, waitForEvent(events))
}

func (m Model) handleStream(ev streamEvent) (tea.Model, tea.Cmd) {
	if !ev.done {
		m.current += ev.delta
		m.refreshViewport()
		return m, waitForEvent(m.events)
	}

	m.streaming = false
	m.status = ""
	if ev.err != nil {
		m.current = ""
		m.append(errorStyle.Render(fmt.Sprintf(i18n.Current().ErrorMessage, ev.err)))
		return m, nil
	}

	line := ev.res.Content
	if ev.res.Cached {
		line += " " + footerStyle.Render(i18n.Current().CachedNotice)
	}
	m.current = ""
	m.append(line)
	m.status = footerStyle.Render(fmt.Sprintf(i18n.Current().ResponseTime, ev.res.Elapsed.Seconds()))
	return m, nil
}

func waitForEvent(events chan streamEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return ev
	}
}

func (m *Model) append(line string) {
	m.transcript = append(m.transcript, line)
	m.refreshViewport()
}

func (m *Model) refreshViewport() {
	content := strings.Join(m.transcript, "\n\n")
	if m.current != "" {
		content += "\n\n" + m.current
	}
	m.viewport.SetContent(content)
	m.viewport.GotoBottom()
}

// View renders the chat layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var bottom string
	if m.streaming {
		bottom = inputStyle.Render(m.spin.View() + " " + m.status)
	} else {
		bottom = inputStyle.Render(m.input.View())
	}

	status := m.status
	if m.streaming {
		status = ""
	}

	return titleStyle.Render("Terminal-LLM") + "\n" +
		m.viewport.View() + "\n" +
		bottom + "\n" +
		footerStyle.Render(status)
}

// Run starts the UI and blocks until exit.
func Run(engine Engine, registry *commands.Registry) error {
	p := tea.NewProgram(New(engine, registry), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
