// Package tui renders a running batch job in the terminal.
package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/AnyUserName/bandfit/internal/pipeline"
)

// recentLines is how many finished files the view lists.
const recentLines = 5

// Model is a bubbletea model fed by a job's event channel. It quits when
// the channel closes.
type Model struct {
	events  <-chan pipeline.Event
	title   string
	started time.Time
	width   int

	percent  int
	done     int
	achieved int
	skipped  int
	bytes    int64
	recent   []string

	result   *pipeline.BatchResult
	stop     func()
	stopping bool
	quitting bool
}

type doneMsg struct{}

type eventMsg pipeline.Event

// NewModel creates a model reading from events.
func NewModel(title string, events <-chan pipeline.Event) Model {
	return Model{events: events, title: title, started: time.Now()}
}

// WithStop sets the function called on ctrl+c. The model keeps reading
// until the job closes its event stream.
func (m Model) WithStop(stop func()) Model {
	m.stop = stop
	return m
}

// Result returns the job result once EventJobDone was seen.
func (m Model) Result() *pipeline.BatchResult { return m.result }

// Percent returns the last progress value.
func (m Model) Percent() int { return m.percent }

func (m Model) Init() tea.Cmd {
	return listenForEvents(m.events)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		m = m.apply(pipeline.Event(msg))
		return m, listenForEvents(m.events)
	case doneMsg:
		m.quitting = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" && !m.stopping {
			m.stopping = true
			if m.stop != nil {
				m.stop()
			}
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	default:
		return m, nil
	}
}

func (m Model) apply(ev pipeline.Event) Model {
	switch ev.Type {
	case pipeline.EventProgress:
		m.percent = ev.Percent
	case pipeline.EventFileDone:
		m.done++
		m.bytes += ev.Bytes
		var line string
		switch {
		case ev.Err != nil:
			line = errStyle.Render("✗ " + ev.File + ": " + ev.Err.Error())
		case ev.Achieved:
			m.achieved++
			line = okStyle.Render(fmt.Sprintf("✓ %s  %s", ev.File, FormatBytes(ev.Bytes)))
		default:
			line = warnStyle.Render(fmt.Sprintf("~ %s  %s (outside band)", ev.File, FormatBytes(ev.Bytes)))
		}
		m.recent = pushRecent(m.recent, line)
	case pipeline.EventFileSkipped:
		m.skipped++
		msg := "skipped " + ev.File
		if ev.Err != nil {
			msg += ": " + ev.Err.Error()
		}
		m.recent = pushRecent(m.recent, dimStyle.Render(msg))
	case pipeline.EventJobDone:
		m.result = ev.Result
	}
	return m
}

func pushRecent(recent []string, line string) []string {
	recent = append(recent, line)
	if len(recent) > recentLines {
		recent = recent[len(recent)-recentLines:]
	}
	return recent
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	barWidth := 40
	if m.width > 0 {
		barWidth = int(math.Min(60, float64(m.width-10)))
		if barWidth < 20 {
			barWidth = 20
		}
	}

	elapsed := time.Since(m.started).Round(time.Millisecond)
	lines := []string{
		titleStyle.Render(m.title),
		barStyle.Render(renderBar(barWidth, float64(m.percent)/100)) + labelStyle.Render(fmt.Sprintf(" %3d%%", m.percent)),
		labelStyle.Render(fmt.Sprintf("Files: %d  in band: %d", m.done, m.achieved)) +
			dimStyle.Render(fmt.Sprintf("  skipped:%d", m.skipped)),
		labelStyle.Render("Written: " + FormatBytes(m.bytes)),
		dimStyle.Render(fmt.Sprintf("Elapsed: %s", elapsed)),
	}
	lines = append(lines, m.recent...)
	if m.stopping {
		lines = append(lines, warnStyle.Render("stopping after the current file..."))
	}

	return strings.Join(lines, "\n")
}

func listenForEvents(events <-chan pipeline.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func renderBar(width int, ratio float64) string {
	filled := int(math.Round(ratio * float64(width)))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + strings.Repeat("=", filled) + strings.Repeat(" ", width-filled) + "]"
}
