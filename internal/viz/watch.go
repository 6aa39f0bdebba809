package viz

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/pulsesim/internal/analysis"
)

// BatchFunc runs one batch and returns its integrals.
type BatchFunc func(ctx context.Context) ([]float64, error)

// BatchMsg carries the result of a batch back into the model. Gen ties it
// to the accumulation it was started for so that results arriving after a
// reset are dropped.
type BatchMsg struct {
	Values []float64
	Err    error
	Gen    int
}

// WatchModel runs batches back to back and renders the histogram of
// everything accumulated so far.
type WatchModel struct {
	ctx      context.Context
	title    string
	run      BatchFunc
	bins     int
	target   int
	values   []float64
	batches  int
	running  bool
	inflight bool
	gen      int
	err      error
}

// NewWatchModel builds a model that stops once target integrals are
// collected; target 0 runs until quit.
func NewWatchModel(ctx context.Context, title string, run BatchFunc, bins, target int) WatchModel {
	if bins < 1 {
		bins = 1
	}
	return WatchModel{
		ctx:     ctx,
		title:   title,
		run:     run,
		bins:    bins,
		target:  target,
		running: true,
		// Init starts the first batch
		inflight: true,
	}
}

func (m WatchModel) Values() []float64 { return m.values }
func (m WatchModel) Batches() int      { return m.batches }
func (m WatchModel) Running() bool     { return m.running }
func (m WatchModel) Err() error        { return m.err }

func (m WatchModel) Init() tea.Cmd {
	return m.next()
}

func (m *WatchModel) next() tea.Cmd {
	m.inflight = true
	ctx, run, gen := m.ctx, m.run, m.gen
	return func() tea.Msg {
		values, err := run(ctx)
		return BatchMsg{Values: values, Err: err, Gen: gen}
	}
}

func (m WatchModel) done() bool {
	return m.target > 0 && len(m.values) >= m.target
}

func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			if m.err != nil || m.done() {
				return m, nil
			}
			m.running = !m.running
		case "r":
			m.values = nil
			m.batches = 0
			m.err = nil
			m.gen++
			m.running = true
		}
		if m.running && !m.inflight {
			return m, m.next()
		}
	case BatchMsg:
		m.inflight = false
		if msg.Gen == m.gen {
			if msg.Err != nil {
				m.err = msg.Err
				m.running = false
				return m, nil
			}
			m.values = append(m.values, msg.Values...)
			m.batches++
			if m.done() {
				m.running = false
			}
		}
		if m.running {
			return m, m.next()
		}
	}
	return m, nil
}

func (m WatchModel) status() string {
	switch {
	case m.err != nil:
		return StatusFailed.Render("FAILED: " + m.err.Error())
	case m.done():
		return StatusRunning.Render("DONE")
	case m.running:
		return StatusRunning.Render("RUNNING")
	default:
		return StatusPaused.Render("PAUSED")
	}
}

func (m WatchModel) View() string {
	var s strings.Builder
	s.WriteString(Title.Render(strings.ToUpper(m.title)) + "  " + m.status() + "\n")
	s.WriteString(Subtle.Render(fmt.Sprintf("%d batches, %d trials", m.batches, len(m.values))) + "\n")
	if m.target > 0 {
		s.WriteString(ProgressBar(float64(len(m.values))/float64(m.target), 40) + "\n")
	}

	summary := SummaryPanel("integral", analysis.Summarize(m.values))
	chart := Subtle.Render("(waiting for the first batch)")
	if h, err := analysis.NewHistogram(m.values, m.bins, false); err == nil {
		chart = graphStyle.Render(PlotSize(h, "integral", 50, 10))
	}
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, chart, "  ", summary) + "\n")

	s.WriteString(KeyHint.Render("SP:Pause R:Reset Q:Quit"))
	return s.String()
}
