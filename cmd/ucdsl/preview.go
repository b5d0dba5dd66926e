package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ucdsl/internal/export"
	"ucdsl/internal/sink"
)

// pollInterval is how often the preview checks the model file for changes.
const pollInterval = time.Second

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")).Padding(0, 1)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Padding(0, 1)
)

// source supplies the preview with text and reports changes to it.
type source interface {
	title() string
	// modTime identifies the current version of the input.
	modTime() time.Time
	render() (string, error)
	// name is the file stem sinks write under; it follows renames.
	name() string
}

// projectSource previews a project from disk.
type projectSource struct {
	ctx context.Context
	p   *project
}

func (s projectSource) title() string { return s.p.path }

func (s projectSource) modTime() time.Time {
	info, err := os.Stat(s.p.path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}

func (s projectSource) name() string { return export.FileName(s.p.name()) }

func (s projectSource) render() (string, error) {
	if err := s.p.reload(); err != nil {
		return "", err
	}
	return s.p.generate(s.ctx), nil
}

type tickMsg time.Time

// previewModel is the bubbletea model of the live preview.
type previewModel struct {
	src   source
	sinks map[rune]sink.Sink

	vp      viewport.Model
	ready   bool
	text    string
	seen    time.Time
	status  string
	failure bool
}

func newPreviewModel(src source, sinks map[rune]sink.Sink) previewModel {
	m := previewModel{src: src, sinks: sinks}
	m.refresh()
	return m
}

// refresh regenerates the text and records the input version it came from.
func (m *previewModel) refresh() {
	m.seen = m.src.modTime()
	text, err := m.src.render()
	if err != nil {
		m.status, m.failure = err.Error(), true
		return
	}
	m.text, m.status, m.failure = text, "generated "+time.Now().Format("15:04:05"), false
	if m.ready {
		m.vp.SetContent(m.text)
	}
}

func tick() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m previewModel) Init() tea.Cmd {
	return tick()
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		height := max(msg.Height-lipgloss.Height(m.header())-lipgloss.Height(m.footer()), 1)
		if !m.ready {
			m.vp = viewport.New(msg.Width, height)
			m.vp.SetContent(m.text)
			m.ready = true
		} else {
			m.vp.Width, m.vp.Height = msg.Width, height
		}
		return m, nil
	case tickMsg:
		if !m.src.modTime().Equal(m.seen) {
			m.refresh()
		}
		return m, tick()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			m.refresh()
			return m, nil
		}
		if len(msg.Runes) == 1 {
			if s, ok := m.sinks[msg.Runes[0]]; ok {
				m.deliver(s)
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m *previewModel) deliver(s sink.Sink) {
	if err := s.Emit(m.src.name(), m.text); err != nil {
		m.status, m.failure = err.Error(), true
		return
	}
	m.status, m.failure = "sent to "+s.Name(), false
	if f, ok := s.(*sink.File); ok {
		m.status = "wrote " + f.Path
	}
}

func (m previewModel) header() string {
	return titleStyle.Render("ucdsl preview: " + m.src.title())
}

func (m previewModel) footer() string {
	style := statusStyle
	if m.failure {
		style = errorStyle
	}
	return style.Render(fmt.Sprintf("%s  |  r reload  c copy  w write  q quit", m.status))
}

func (m previewModel) View() string {
	if !m.ready {
		return "loading..."
	}
	return m.header() + "\n" + m.vp.View() + "\n" + m.footer()
}

func runPreviewTUI(ctx context.Context, p *project) error {
	sinks := map[rune]sink.Sink{
		'c': sink.Clipboard{},
		'w': &sink.File{Dir: p.settings.OutputDir(".")},
	}
	m := newPreviewModel(projectSource{ctx: ctx, p: p}, sinks)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
