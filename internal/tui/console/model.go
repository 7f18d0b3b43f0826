// ============================================================================
// mDS - DocScript Runtime
// ============================================================================
//
// Package:     console
// Description: Main Bubbletea model for the interactive DocScript console
// Author:      Mike Stoffels
// Created:     2025-08-20
// License:     MIT
// ============================================================================

package console

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/msto63/mDS/docscript"
	mdsrouter "github.com/msto63/mDS/docscript/router"
	"github.com/msto63/mDS/internal/runlog"
)

// runFinishedMsg delivers a completed run back into the update loop
type runFinishedMsg struct {
	source string
	result *mdsrouter.Result
}

// Model is the Bubbletea model for the console
type Model struct {
	width   int
	height  int
	ready   bool
	running bool

	textarea textarea.Model
	viewport viewport.Model
	spinner  spinner.Model

	engine *docscript.Engine
	store  runlog.RunStore

	transcript []string

	history      []string
	historyIndex int
}

// NewModel creates the console model
func NewModel(engine *docscript.Engine, store runlog.RunStore) Model {
	ta := textarea.New()
	ta.Placeholder = "Enter a DocScript, Ctrl+S to run, :help for commands"
	ta.Focus()
	ta.SetHeight(4)
	ta.CharLimit = 0

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ColorPrimary)

	return Model{
		textarea:     ta,
		spinner:      sp,
		engine:       engine,
		store:        store,
		historyIndex: -1,
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		inputHeight := m.textarea.Height() + 3
		m.viewport = viewport.New(msg.Width, msg.Height-inputHeight-2)
		m.viewport.SetContent(strings.Join(m.transcript, "\n"))
		m.textarea.SetWidth(msg.Width - 4)
		m.ready = true

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyCtrlS:
			if m.running {
				return m, nil
			}
			source := strings.TrimSpace(m.textarea.Value())
			if source == "" {
				return m, nil
			}
			m.textarea.Reset()
			m.history = append(m.history, source)
			m.historyIndex = -1

			if strings.HasPrefix(source, ":") {
				m.handleCommand(source)
				m.refreshViewport()
				return m, nil
			}

			m.running = true
			m.appendPrompt(source)
			m.refreshViewport()
			return m, tea.Batch(m.spinner.Tick, m.runScript(source))

		case tea.KeyCtrlP:
			m.recallHistory(-1)
		case tea.KeyCtrlN:
			m.recallHistory(1)
		}

	case runFinishedMsg:
		m.running = false
		m.appendResult(msg.result)
		m.refreshViewport()
		if m.store != nil {
			rec := runlog.FromResult(msg.source, msg.result)
			_ = m.store.Append(context.Background(), rec)
		}
		return m, nil

	case spinner.TickMsg:
		if m.running {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	var taCmd tea.Cmd
	m.textarea, taCmd = m.textarea.Update(msg)
	cmds = append(cmds, taCmd)

	var vpCmd tea.Cmd
	m.viewport, vpCmd = m.viewport.Update(msg)
	cmds = append(cmds, vpCmd)

	return m, tea.Batch(cmds...)
}

// View implements tea.Model
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("mDS console"))
	if m.running {
		b.WriteString("  " + m.spinner.View() + StatusStyle.Render(" running"))
	}
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(InputBorderStyle.Render(m.textarea.View()))
	b.WriteString("\n")
	b.WriteString(HintStyle.Render("Ctrl+S run · Ctrl+P/Ctrl+N history · Esc quit"))
	return b.String()
}

// runScript executes the script off the update loop
func (m Model) runScript(source string) tea.Cmd {
	engine := m.engine
	return func() tea.Msg {
		result := engine.Run(context.Background(), source)
		return runFinishedMsg{source: source, result: result}
	}
}

// handleCommand processes console-internal commands
func (m *Model) handleCommand(command string) {
	switch {
	case command == ":help":
		m.transcript = append(m.transcript,
			HintStyle.Render(":help  :check <script>  :state  :capabilities  :clear  :quit"))

	case command == ":quit":
		// handled by the caller quitting on next Esc; just hint
		m.transcript = append(m.transcript, HintStyle.Render("press Esc or Ctrl+C to quit"))

	case command == ":clear":
		m.transcript = nil

	case command == ":state":
		raw, err := json.MarshalIndent(m.engine.State().Snapshot(), "", "  ")
		if err != nil {
			m.transcript = append(m.transcript, ErrorStyle.Render("state: "+err.Error()))
			return
		}
		m.transcript = append(m.transcript, OutputStyle.Render(string(raw)))

	case command == ":capabilities":
		for _, name := range m.engine.Registry().Names() {
			ops := strings.Join(m.engine.Registry().OperationNames(name), ", ")
			m.transcript = append(m.transcript,
				OutputStyle.Render(fmt.Sprintf("%-10s %s", name, ops)))
		}

	case strings.HasPrefix(command, ":check "):
		check := m.engine.Check(strings.TrimPrefix(command, ":check "))
		if !check.Valid {
			m.transcript = append(m.transcript, ErrorStyle.Render("invalid: "+check.Error))
			return
		}
		if check.Privileged {
			m.transcript = append(m.transcript,
				PrivilegedStyle.Render("privileged: "+strings.Join(check.Namespaces, ", ")))
		} else {
			m.transcript = append(m.transcript, SuccessStyle.Render("local"))
		}

	default:
		m.transcript = append(m.transcript, ErrorStyle.Render("unknown command "+command))
	}
}

// appendPrompt echoes the submitted script into the transcript
func (m *Model) appendPrompt(source string) {
	for i, line := range strings.Split(source, "\n") {
		prefix := "> "
		if i > 0 {
			prefix = "… "
		}
		m.transcript = append(m.transcript, PromptStyle.Render(prefix)+OutputStyle.Render(line))
	}
}

// appendResult renders a run outcome into the transcript
func (m *Model) appendResult(result *mdsrouter.Result) {
	for _, line := range result.Output {
		m.transcript = append(m.transcript, OutputStyle.Render(line))
	}

	if result.Success {
		status := fmt.Sprintf("ok · %s", result.Duration.Round(time.Millisecond))
		if result.Privileged {
			status += " · privileged: " + strings.Join(result.Namespaces, ", ")
		}
		m.transcript = append(m.transcript, SuccessStyle.Render(status))
		return
	}

	m.transcript = append(m.transcript,
		ErrorStyle.Render(string(result.ErrorKind))+
			ErrorDetailStyle.Render(": "+result.ErrorMessage))
}

// recallHistory moves through previously submitted scripts
func (m *Model) recallHistory(delta int) {
	if len(m.history) == 0 {
		return
	}

	if m.historyIndex == -1 {
		if delta > 0 {
			return
		}
		m.historyIndex = len(m.history)
	}

	m.historyIndex += delta
	if m.historyIndex < 0 {
		m.historyIndex = 0
	}
	if m.historyIndex >= len(m.history) {
		m.historyIndex = -1
		m.textarea.Reset()
		return
	}

	m.textarea.SetValue(m.history[m.historyIndex])
}

// refreshViewport pushes the transcript into the viewport and scrolls down
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(strings.Join(m.transcript, "\n"))
	m.viewport.GotoBottom()
}

// Run starts the console program
func Run(engine *docscript.Engine, store runlog.RunStore) error {
	program := tea.NewProgram(NewModel(engine, store), tea.WithAltScreen())
	_, err := program.Run()
	return err
}
