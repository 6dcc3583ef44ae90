package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"mindstage-server/internal/engine"
	"mindstage-server/pkg/api"
)

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	replyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

const helpText = `commands:
  /ad                                   advance one home turn
  /speak --target=NAME --content=TEXT   queue a line for the next turn
  /switch_stage --stage=NAME            queue a move for the next turn
  /ed /dc /pc /se /cpp /and /th /rt     dungeon run
  /vd /hc                               debug and health
  /q                                    save and quit`

// replyMsg приносит ответ сервиса обратно в цикл интерфейса.
type replyMsg struct {
	input string
	reply api.Reply
}

type model struct {
	service  *engine.Service
	input    textinput.Model
	view     viewport.Model
	history  []string
	busy     bool
	quitting bool
	ready    bool
}

func newModel(service *engine.Service) model {
	ti := textinput.New()
	ti.Placeholder = "/ad"
	ti.Prompt = "> "
	ti.Focus()
	return model{
		service: service,
		input:   ti,
		history: []string{helpStyle.Render(helpText)},
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if !m.ready {
			m.view = viewport.New(msg.Width, msg.Height-3)
			m.ready = true
		} else {
			m.view.Width = msg.Width
			m.view.Height = msg.Height - 3
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyEnter:
			if m.busy {
				return m, nil
			}
			line := strings.TrimSpace(m.input.Value())
			if line == "" {
				return m, nil
			}
			m.input.Reset()
			cmd, err := parseLine(line)
			if err != nil {
				m.append(promptStyle.Render("> "+line), errorStyle.Render(err.Error()))
				return m, nil
			}
			m.busy = true
			return m, runCommand(m.service, line, cmd)
		}

	case replyMsg:
		m.busy = false
		rendered := replyStyle.Render(msg.reply.Text)
		if msg.reply.Kind == "error" {
			rendered = errorStyle.Render(msg.reply.Text)
		}
		m.append(promptStyle.Render("> "+msg.input), rendered)
		if msg.reply.Kind == "quit" {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return "bye\n"
	}
	status := ""
	if m.busy {
		status = helpStyle.Render(" thinking...")
	}
	return fmt.Sprintf("%s\n%s%s\n", m.view.View(), m.input.View(), status)
}

func (m *model) append(lines ...string) {
	m.history = append(m.history, lines...)
	m.refresh()
}

func (m *model) refresh() {
	m.view.SetContent(strings.Join(m.history, "\n"))
	m.view.GotoBottom()
}

// runCommand исполняет команду вне цикла интерфейса: LLM-фазы
// могут занимать десятки секунд.
func runCommand(service *engine.Service, input string, cmd api.Command) tea.Cmd {
	return func() tea.Msg {
		return replyMsg{input: input, reply: service.Process(context.Background(), cmd)}
	}
}

// parseLine разбирает строку терминала в команду протокола.
// Флаги вида --name=value собираются в полезную нагрузку.
func parseLine(line string) (api.Command, error) {
	action, rest, _ := strings.Cut(line, " ")
	if !strings.HasPrefix(action, "/") {
		return api.Command{}, fmt.Errorf("commands start with '/'; try /ad")
	}

	// Значения флагов могут содержать пробелы: режем по "--".
	flags := make(map[string]string)
	for _, part := range strings.Split(rest, "--") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, value, ok := strings.Cut(part, "=")
		if !ok {
			return api.Command{}, fmt.Errorf("flag %q needs a value: --%s=...", part, part)
		}
		flags[name] = strings.TrimSpace(value)
	}

	var payload any
	switch action {
	case api.ActionSpeak:
		payload = api.SpeakPayload{Target: flags["target"], Content: flags["content"]}
	case api.ActionSwitchStage:
		payload = api.SwitchStagePayload{Stage: flags["stage"]}
	}

	cmd := api.Command{Action: action}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return api.Command{}, err
		}
		cmd.Payload = raw
	}
	return cmd, nil
}
