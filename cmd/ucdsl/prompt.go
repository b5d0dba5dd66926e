package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// promptModel is a bubbletea model that asks for a model name.
type promptModel struct {
	input textinput.Model
	done  bool
}

func newPromptModel() promptModel {
	ti := textinput.New()
	ti.Placeholder = "Model name (e.g. SecureChannel)"
	ti.CharLimit = 128
	ti.Focus()
	return promptModel{input: ti}
}

func (m promptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			m.done = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m promptModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("Model name: %s\n", m.input.View())
}

// value is the trimmed answer.
func (m promptModel) value() string {
	return strings.TrimSpace(m.input.Value())
}

// promptName runs the TUI and returns the entered model name.
func promptName() (string, error) {
	result, err := tea.NewProgram(newPromptModel()).Run()
	if err != nil {
		return "", err
	}
	final, ok := result.(promptModel)
	if !ok || !final.done {
		return "", fmt.Errorf("prompt cancelled")
	}
	return final.value(), nil
}
