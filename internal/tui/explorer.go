// ABOUTME: Bubbletea model for the interactive embedding-space explorer.
// ABOUTME: Canvas pane plus a side panel of collections, similar vectors, tooltip and status.
package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/2389-research/vectorscope/internal/embeddings"
	"github.com/2389-research/vectorscope/internal/explorer"
	"github.com/2389-research/vectorscope/internal/logger"
	"github.com/2389-research/vectorscope/internal/models"
	"github.com/2389-research/vectorscope/internal/render"
	"github.com/2389-research/vectorscope/internal/storage"
)

// Layout in terminal cells.
const (
	sidePanelWidth = 38
	minCanvasCols  = 10
	minCanvasRows  = 5
	defaultWidth   = 80
	defaultHeight  = 24
	defaultPanStep = 20.0
)

// ReloadFunc rebuilds the store and projector after the config file changes.
type ReloadFunc func(path string) (storage.PointStore, embeddings.Projector, error)

// Options configures an ExplorerModel.
type Options struct {
	Renderer      *render.Renderer
	Logger        *logger.Logger
	TopN          int
	MinSimilarity float64
	PanStep       float64 // screen pixels per arrow press
	Samples       []string
	Reload        ReloadFunc
	Watcher       *Watcher
}

// animationDoneMsg fires when the animation window of submission seq closes.
type animationDoneMsg struct {
	seq int
}

// ExplorerModel is the bubbletea model for the explorer.
type ExplorerModel struct {
	ctrl     *explorer.Controller
	renderer *render.Renderer
	log      *logger.Logger
	keys     KeyMap
	input    textinput.Model
	spinner  spinner.Model
	help     help.Model

	width  int
	height int

	topN          int
	minSimilarity float64
	panStep       float64
	samples       []string
	nextSample    int
	reload        ReloadFunc
	watcher       *Watcher

	seq      int
	status   string
	quitting bool
}

var (
	brandStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	countStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	scoreStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	tooltipStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229"))
)

// panelStyle draws the side panel with a rule on its left edge.
func panelStyle(rows int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(sidePanelWidth-1).
		Height(rows).
		MaxHeight(rows).
		Padding(0, 1).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(lipgloss.Color("238"))
}

// NewExplorerModel creates the explorer model around a controller.
func NewExplorerModel(ctrl *explorer.Controller, opts Options) ExplorerModel {
	input := textinput.New()
	input.Placeholder = "type a query"
	if len(opts.Samples) > 0 {
		input.Placeholder = strings.Join(opts.Samples[:min(2, len(opts.Samples))], ", ") + ", ..."
	}
	input.Prompt = "query> "
	input.CharLimit = 200
	input.Width = 50

	s := spinner.New()
	s.Spinner = spinner.Dot

	if opts.Renderer == nil {
		opts.Renderer = render.NewRenderer(render.DefaultOptions())
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.TopN <= 0 {
		opts.TopN = explorer.DefaultSimilarLimit
	}
	if !(opts.PanStep > 0) {
		opts.PanStep = defaultPanStep
	}

	return ExplorerModel{
		ctrl:          ctrl,
		renderer:      opts.Renderer,
		log:           opts.Logger.WithComponent("tui"),
		keys:          DefaultKeyMap(),
		input:         input,
		spinner:       s,
		help:          help.New(),
		topN:          opts.TopN,
		minSimilarity: opts.MinSimilarity,
		panStep:       opts.PanStep,
		samples:       opts.Samples,
		reload:        opts.Reload,
		watcher:       opts.Watcher,
	}
}

// Init implements tea.Model.
func (m ExplorerModel) Init() tea.Cmd {
	if m.watcher != nil {
		return m.watcher.Next()
	}
	return nil
}

// Update implements tea.Model.
func (m ExplorerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.input.Focused() {
			return m.updateInput(msg)
		}
		return m.updateKeys(msg)

	case tea.MouseMsg:
		return m.updateMouse(msg)

	case spinner.TickMsg:
		if !m.ctrl.Animating() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case animationDoneMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		if remaining := m.ctrl.AnimationRemaining(); remaining > 0 {
			return m, animationTimer(m.seq, remaining)
		}
		return m, nil

	case ConfigChangedMsg:
		m.applyReload(msg.Path)
		return m, m.nextWatch()

	case watchErrMsg:
		m.log.Warn("config watch error", "error", msg.err)
		m.status = errorStyle.Render("watch: " + msg.err.Error())
		return m, m.nextWatch()
	}

	return m, nil
}

func (m ExplorerModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Submit):
		return m.submit()

	case key.Matches(msg, m.keys.Blur):
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m ExplorerModel) submit() (tea.Model, tea.Cmd) {
	text := m.input.Value()
	if !m.ctrl.SubmitQuery(text) {
		m.status = mutedStyle.Render("Type a query first.")
		return m, nil
	}
	m.input.Blur()
	m.seq++
	m.status = fmt.Sprintf("Placed %q at %s", strings.TrimSpace(text), m.ctrl.Query().Position)
	return m, tea.Batch(m.spinner.Tick, animationTimer(m.seq, m.ctrl.AnimationRemaining()))
}

func (m ExplorerModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Query):
		m.input.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Try):
		if len(m.samples) == 0 {
			return m, nil
		}
		m.input.SetValue(m.samples[m.nextSample])
		m.nextSample = (m.nextSample + 1) % len(m.samples)
		return m.submit()

	case key.Matches(msg, m.keys.ZoomIn):
		m.ctrl.ZoomIn()
	case key.Matches(msg, m.keys.ZoomOut):
		m.ctrl.ZoomOut()

	// Arrows move the camera, so the scene shifts the other way.
	case key.Matches(msg, m.keys.Up):
		m.ctrl.Pan(0, m.panStep)
	case key.Matches(msg, m.keys.Down):
		m.ctrl.Pan(0, -m.panStep)
	case key.Matches(msg, m.keys.Left):
		m.ctrl.Pan(m.panStep, 0)
	case key.Matches(msg, m.keys.Right):
		m.ctrl.Pan(-m.panStep, 0)

	case key.Matches(msg, m.keys.Grid):
		m.ctrl.ToggleGrid()

	case key.Matches(msg, m.keys.FilterAll):
		m.ctrl.SetFilter(models.FilterAll)
	case key.Matches(msg, m.keys.FilterPrimary):
		m.ctrl.SetFilter(models.FilterPrimary)
	case key.Matches(msg, m.keys.FilterDetail):
		m.ctrl.SetFilter(models.FilterDetail)
	case key.Matches(msg, m.keys.FilterAggregate):
		m.ctrl.SetFilter(models.FilterAggregate)

	case key.Matches(msg, m.keys.Reset):
		m.ctrl.Reset()
		m.input.SetValue("")
		m.seq++
		m.status = ""
	}
	return m, nil
}

func (m ExplorerModel) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.ctrl.ZoomIn()
		return m, nil
	case tea.MouseButtonWheelDown:
		m.ctrl.ZoomOut()
		return m, nil
	}

	cols, rows := m.canvasSize()
	if msg.X < 0 || msg.Y < 0 || msg.X >= cols || msg.Y >= rows {
		m.ctrl.PointerMove(models.Vec2{X: math.NaN(), Y: math.NaN()})
		return m, nil
	}
	m.ctrl.PointerMoveCell(m.newCanvas(cols, rows).CellBounds(msg.X, msg.Y))
	return m, nil
}

func (m *ExplorerModel) applyReload(path string) {
	if m.reload == nil {
		return
	}
	store, projector, err := m.reload(path)
	if err == nil {
		err = m.ctrl.Reload(store, projector)
	}
	points := len(m.ctrl.Points(models.FilterAll))
	m.log.LogReload(path, points, err)
	if err != nil {
		m.status = errorStyle.Render("Reload failed: " + err.Error())
		return
	}
	m.seq++
	m.status = fmt.Sprintf("Reloaded %d points", points)
}

func (m ExplorerModel) nextWatch() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	return m.watcher.Next()
}

func animationTimer(seq int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return animationDoneMsg{seq: seq}
	})
}

// canvasSize returns the canvas pane size in cells.
func (m ExplorerModel) canvasSize() (int, int) {
	width, height := m.width, m.height
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}
	cols := max(width-sidePanelWidth, minCanvasCols)
	rows := max(height-lipgloss.Height(m.footer()), minCanvasRows)
	return cols, rows
}

func (m ExplorerModel) newCanvas(cols, rows int) *render.Canvas {
	w, h := m.renderer.WorldSize()
	return render.NewCanvas(cols, rows, w, h)
}

// View implements tea.Model.
func (m ExplorerModel) View() string {
	if m.quitting {
		return ""
	}
	cols, rows := m.canvasSize()
	canvas := m.newCanvas(cols, rows)
	m.renderer.Render(canvas, m.ctrl.Scene())

	panel := panelStyle(rows).Render(m.sidePanel())
	top := lipgloss.JoinHorizontal(lipgloss.Top, canvas.String(), panel)
	return top + "\n" + m.footer()
}

func (m ExplorerModel) footer() string {
	return m.input.View() + "\n" + m.help.View(m.keys)
}

func (m ExplorerModel) sidePanel() string {
	var b strings.Builder
	theme := m.renderer.Theme()
	inner := sidePanelWidth - 4

	b.WriteString(brandStyle.Render("VECTORSCOPE"))
	b.WriteString("\n\n")

	b.WriteString(headerStyle.Render("Collections"))
	b.WriteString("\n")
	counts := m.ctrl.Counts()
	for _, k := range models.Kinds {
		fmt.Fprintf(&b, "%s %s %s\n", theme.Swatch(k), k.Title(), countStyle.Render(fmt.Sprintf("%d", counts[k])))
	}
	b.WriteString("\n")

	b.WriteString(headerStyle.Render("Similar Vectors"))
	b.WriteString("\n")
	if m.ctrl.Query() == nil {
		b.WriteString(mutedStyle.Render("Press / to submit a query."))
		b.WriteString("\n")
		if len(m.samples) > 0 {
			b.WriteString(mutedStyle.Render(models.Truncate("t try: "+m.samples[m.nextSample], inner)))
			b.WriteString("\n")
		}
	} else {
		similar := m.ctrl.Similar(m.topN, m.minSimilarity)
		if len(similar) == 0 {
			b.WriteString(mutedStyle.Render("Nothing in range."))
			b.WriteString("\n")
		}
		for _, p := range similar {
			label := p.Label
			if owner, ok := m.ctrl.Lookup(p.GroupID); ok {
				label = owner.Label + " · " + label
			}
			fmt.Fprintf(&b, "%s %s %s\n",
				theme.Swatch(p.Kind),
				scoreStyle.Render(fmt.Sprintf("%3.0f%%", p.Similarity*100)),
				models.Truncate(label, inner-7))
		}
	}
	b.WriteString("\n")

	b.WriteString(headerStyle.Render("Hovered"))
	b.WriteString("\n")
	if tip := m.ctrl.Tooltip(); tip != "" {
		b.WriteString(tooltipStyle.Render(truncateLines(tip, inner)))
	} else {
		b.WriteString(mutedStyle.Render("Move the mouse over a point."))
	}
	b.WriteString("\n\n")

	v := m.ctrl.View()
	grid := "off"
	if m.ctrl.ShowGrid() {
		grid = "on"
	}
	b.WriteString(mutedStyle.Render(fmt.Sprintf("zoom %.2f  pan %s", v.Zoom, models.Vec2{X: v.PanX, Y: v.PanY})))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("filter %s  grid %s", m.ctrl.Filter(), grid)))
	b.WriteString("\n")
	if m.ctrl.Animating() {
		b.WriteString(m.spinner.View())
		b.WriteString(" projecting\n")
	}
	if m.status != "" {
		b.WriteString(m.status)
		b.WriteString("\n")
	}
	return b.String()
}

func truncateLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = models.Truncate(l, n)
	}
	return strings.Join(lines, "\n")
}

// Status returns the last status message.
func (m ExplorerModel) Status() string {
	return m.status
}

// Quitting reports whether the user asked to leave.
func (m ExplorerModel) Quitting() bool {
	return m.quitting
}
