package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"trivet/internal/driver"
)

// rowState is where one file stands in the run.
type rowState uint8

const (
	rowQueued rowState = iota
	rowActive
	rowCached
	rowVerified
	rowDone
	rowFailed
)

func (s rowState) finished() bool {
	return s == rowCached || s == rowDone || s == rowFailed
}

type fileRow struct {
	path    string
	state   rowState
	stage   driver.Stage
	elapsed time.Duration
}

// label is the status column of a row.
func (r fileRow) label() string {
	switch r.state {
	case rowActive:
		return stageVerb(r.stage)
	case rowCached:
		return "cached"
	case rowVerified:
		// fix still has to write the file after verifying it
		return "verified"
	case rowDone:
		return "done"
	case rowFailed:
		return "error"
	}
	return "queued"
}

func stageVerb(stage driver.Stage) string {
	switch stage {
	case driver.StageLoad:
		return "loading"
	case driver.StageParse:
		return "parsing"
	case driver.StageAnalyze:
		return "analyzing"
	case driver.StageFix:
		return "fixing"
	case driver.StageVerify:
		return "verifying"
	}
	return "working"
}

// stageWeight is the share of a file's work done when stage starts.
var stageWeight = map[driver.Stage]float64{
	driver.StageLoad:    0.05,
	driver.StageParse:   0.2,
	driver.StageAnalyze: 0.5,
	driver.StageFix:     0.7,
	driver.StageVerify:  0.9,
}

type styles struct {
	title, ok, failed, active, idle, dim lipgloss.Style
}

func newStyles() styles {
	fg := func(c string) lipgloss.Style { return lipgloss.NewStyle().Foreground(lipgloss.Color(c)) }
	return styles{
		title:  lipgloss.NewStyle().Bold(true),
		ok:     fg("2"),
		failed: fg("1"),
		active: fg("6"),
		idle:   fg("7"),
		dim:    fg("8"),
	}
}

func (st styles) row(s rowState) lipgloss.Style {
	switch s {
	case rowCached, rowVerified, rowDone:
		return st.ok
	case rowFailed:
		return st.failed
	case rowActive:
		return st.active
	}
	return st.idle
}

type progressModel struct {
	title   string
	events  <-chan driver.Event
	spinner spinner.Model
	bar     progress.Model
	styles  styles
	rows    []fileRow
	byPath  map[string]int
	// phase is the label of the last run-wide event.
	phase  string
	width  int
	height int
	done   bool
}

type (
	eventMsg driver.Event
	closedMsg struct{}
)

// NewProgressModel renders per-file progress of a check or fix run. The
// model quits when events is closed.
func NewProgressModel(title string, files []string, events <-chan driver.Event) tea.Model {
	st := newStyles()
	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(st.active))
	m := &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(76)),
		styles:  st,
		rows:    make([]fileRow, len(files)),
		byPath:  make(map[string]int, len(files)),
		width:   80,
	}
	for i, f := range files {
		m.rows[i] = fileRow{path: f}
		m.byPath[f] = i
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		if ev, ok := <-m.events; ok {
			return eventMsg(ev)
		}
		return closedMsg{}
	}
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.apply(driver.Event(msg)), m.next())
	case closedMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = max(msg.Width-4, 10)
		}
		m.height = msg.Height
		return m, nil
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

// apply records ev and returns the bar animation for the new total.
func (m *progressModel) apply(ev driver.Event) tea.Cmd {
	if ev.File == "" {
		if ev.Status == driver.StatusWorking {
			m.phase = stageVerb(ev.Stage)
		}
		return nil
	}
	i, ok := m.byPath[ev.File]
	if !ok {
		return nil
	}
	r := &m.rows[i]
	switch ev.Status {
	case driver.StatusQueued:
		r.state = rowQueued
	case driver.StatusWorking:
		r.state, r.stage = rowActive, ev.Stage
	case driver.StatusCached:
		r.state = rowCached
	case driver.StatusError:
		r.state = rowFailed
	case driver.StatusDone:
		r.state = rowDone
		if ev.Stage == driver.StageVerify {
			r.state = rowVerified
		}
	default:
		return nil
	}
	if ev.Elapsed > 0 {
		r.elapsed = ev.Elapsed
	}
	return m.bar.SetPercent(m.fraction())
}

func (m *progressModel) fraction() float64 {
	if len(m.rows) == 0 {
		return 0
	}
	var sum float64
	for _, r := range m.rows {
		if r.state.finished() {
			sum++
		} else if r.state != rowQueued {
			sum += stageWeight[r.stage]
		}
	}
	return sum / float64(len(m.rows))
}

func (m *progressModel) finishedCount() int {
	n := 0
	for _, r := range m.rows {
		if r.state.finished() {
			n++
		}
	}
	return n
}

func (m *progressModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}
	var b strings.Builder
	head := fmt.Sprintf("%s %d/%d", m.title, m.finishedCount(), len(m.rows))
	if m.phase != "" && !m.done {
		head += " · " + m.phase
	}
	if m.done {
		b.WriteString(m.styles.ok.Render("✓") + " ")
	} else {
		b.WriteString(m.spinner.View() + " ")
	}
	b.WriteString(m.styles.title.Render(head))
	b.WriteString("\n\n")

	const statusWidth = 10
	nameWidth := max(m.width-statusWidth-14, 20)
	for _, r := range m.visibleRows() {
		status := m.styles.row(r.state).Render(fmt.Sprintf("%*s", statusWidth, r.label()))
		fmt.Fprintf(&b, "  %s %s", status, truncate(r.path, nameWidth))
		if r.elapsed > 0 && r.state.finished() {
			b.WriteString(m.styles.dim.Render(" " + r.elapsed.Round(time.Millisecond).String()))
		}
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	if m.done {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteByte('\n')
	return b.String()
}

// visibleRows keeps the list within the terminal: queued files are the
// first to go, then the oldest finished ones.
func (m *progressModel) visibleRows() []fileRow {
	room := m.height - 6
	if m.height <= 0 || len(m.rows) <= room {
		return m.rows
	}
	room = max(room, 1)
	out := make([]fileRow, 0, room)
	for _, r := range m.rows {
		if r.state == rowActive {
			out = append(out, r)
		}
	}
	for i := len(m.rows) - 1; i >= 0 && len(out) < room; i-- {
		if r := m.rows[i]; r.state != rowActive && r.state != rowQueued {
			out = append(out, r)
		}
	}
	return out[:min(len(out), room)]
}

// truncate clips value to width display cells.
func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	tail := "..."
	if width <= len(tail) {
		tail = ""
	}
	return runewidth.Truncate(value, width, tail)
}
