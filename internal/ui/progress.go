package ui

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
)

// Progress describes one blocking controller operation shown with a spinner.
// Subscribe registers a change callback on the controller; Status renders the
// controller's current state as one line.
type Progress struct {
	Title     string
	Subscribe func(changed func()) (unsubscribe func())
	Status    func() string
	Run       func(ctx context.Context)
}

type progressChangedMsg struct{}

type progressDoneMsg struct{}

type progressModel struct {
	spinner spinner.Model
	title   string
	status  func() string
	line    string
	run     func() tea.Msg
	done    bool
}

func newProgressModel(ctx context.Context, p Progress) progressModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = LabelStyle

	return progressModel{
		spinner: s,
		title:   p.Title,
		status:  p.Status,
		run: func() tea.Msg {
			p.Run(ctx)
			return progressDoneMsg{}
		},
	}
}

func (m progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.run)
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case progressChangedMsg:
		if m.status != nil {
			m.line = m.status()
		}
	case progressDoneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m progressModel) View() string {
	if m.done {
		return ""
	}
	line := m.spinner.View() + " " + m.title
	if m.line != "" {
		line += " " + SubtitleStyle.Render(m.line)
	}
	return line + "\n"
}

// RunProgress runs p.Run to completion. On a terminal it shows a spinner and
// the live status line; otherwise it only prints the title to out.
func RunProgress(ctx context.Context, out io.Writer, p Progress) error {
	if f, ok := out.(*os.File); !ok || !isatty.IsTerminal(f.Fd()) {
		fmt.Fprintln(out, p.Title)
		p.Run(ctx)
		return nil
	}

	program := tea.NewProgram(newProgressModel(ctx, p), tea.WithOutput(out), tea.WithInput(nil), tea.WithContext(ctx))

	if p.Subscribe != nil {
		unsubscribe := p.Subscribe(func() { go program.Send(progressChangedMsg{}) })
		defer unsubscribe()
	}

	final, err := program.Run()
	if err != nil {
		return fmt.Errorf("progress display failed: %w", err)
	}
	if m, ok := final.(progressModel); ok && !m.done {
		return context.Canceled
	}
	return nil
}
