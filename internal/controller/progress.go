package controller

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
)

const progressWidth = 40

// IsTerminal reports whether w writes to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)

	return ok && term.IsTerminal(f.Fd())
}

// Progress draws a bar of finished classes while an analysis runs.
type Progress struct {
	program *tea.Program
	done    chan error
	once    sync.Once
}

// NewProgress creates a Progress that renders to output. Keyboard input is
// not read, so the run is cancelled through the usual signal handling only.
func NewProgress(output io.Writer, total int) *Progress {
	model := newProgressModel(total)

	return &Progress{
		program: tea.NewProgram(model, tea.WithOutput(output), tea.WithInput(nil), tea.WithoutSignalHandler()),
		done:    make(chan error, 1),
	}
}

// Start begins rendering in the background.
func (p *Progress) Start() {
	go func() {
		_, err := p.program.Run()
		p.done <- err
	}()
}

// Advance records a finished class. It is safe to call from several
// goroutines and matches domain.ProgressFunc.
func (p *Progress) Advance(class string, done, total int) {
	p.program.Send(classDoneMsg{class: class, done: done, total: total})
}

// Stop draws the final frame and waits for the renderer to exit.
func (p *Progress) Stop() error {
	var err error

	p.once.Do(func() {
		p.program.Send(progressFinishedMsg{})
		err = <-p.done
	})

	return err
}

type classDoneMsg struct {
	class string
	done  int
	total int
}

type progressFinishedMsg struct{}

type progressModel struct {
	bar      progress.Model
	total    int
	done     int
	last     string
	finished bool
}

func newProgressModel(total int) progressModel {
	return progressModel{
		bar:   progress.New(progress.WithDefaultGradient(), progress.WithWidth(progressWidth)),
		total: total,
	}
}

func (pm progressModel) Init() tea.Cmd {
	return nil
}

func (pm progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case classDoneMsg:
		// Workers report out of order; keep the highest count seen.
		if msg.done > pm.done {
			pm.done = msg.done
			pm.last = msg.class
		}

		if msg.total > 0 {
			pm.total = msg.total
		}

		return pm, nil

	case progressFinishedMsg:
		pm.finished = true
		return pm, tea.Quit

	case tea.WindowSizeMsg:
		if width := msg.Width - 20; width > 0 && width < progressWidth {
			pm.bar.Width = width
		}

		return pm, nil
	}

	return pm, nil
}

func (pm progressModel) percent() float64 {
	if pm.total <= 0 {
		return 0
	}

	return float64(pm.done) / float64(pm.total)
}

func (pm progressModel) View() string {
	var b strings.Builder

	b.WriteString(pm.bar.ViewAs(pm.percent()))
	fmt.Fprintf(&b, " %d/%d classes", pm.done, pm.total)

	if pm.last != "" && !pm.finished {
		b.WriteString(" " + faintStyle.Render(pm.last))
	}

	b.WriteString("\n")

	return b.String()
}
