package tui

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bep/debounce"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"fretnote/config"
	"fretnote/debug"
	"fretnote/fretboard"
	"fretnote/midi"
	"fretnote/theme"
	"fretnote/trainer"
	"fretnote/widgets"
)

const (
	flashLength  = 600 * time.Millisecond
	previewDelay = 150 * time.Millisecond
)

// Previewer sounds a pitch while the picker is scrolled
type Previewer interface {
	Play(p fretboard.Pitch)
}

// layoutBounds holds cached layout info
type layoutBounds struct {
	fretTop    int
	fretHeight int
}

// settingsForm is the min/max fret editor
type settingsForm struct {
	open  bool
	field int // 0 = min, 1 = max
	min   int
	max   int
	err   string
}

// bridges tracks the controllers forwarding into the manager
type bridges struct {
	mu sync.Mutex
	m  map[string]*midi.Bridge
}

type Model struct {
	Manager   *trainer.Manager
	DeviceMgr *midi.DeviceManager
	Theme     *theme.Theme
	Config    *config.Config

	picker    *trainer.Picker
	grid      *trainer.Grid
	settings  *settingsForm
	bridges   *bridges
	bounds    *layoutBounds
	previewer Previewer
	debounced func(f func())

	flash    *trainer.Coordinate
	flashSeq int
	status   string
	showHelp bool
	quitting bool
}

type UpdateMsg struct{}

type DeviceEventMsg midi.DeviceEvent

type flashDoneMsg struct{ seq int }

// NewModel builds the TUI. deviceMgr, cfg and preview may be nil.
func NewModel(manager *trainer.Manager, deviceMgr *midi.DeviceManager, th *theme.Theme, cfg *config.Config, preview Previewer) Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return Model{
		Manager:   manager,
		DeviceMgr: deviceMgr,
		Theme:     th,
		Config:    cfg,
		picker:    trainer.NewPicker(),
		grid:      trainer.NewGrid(),
		settings:  &settingsForm{},
		bridges:   &bridges{m: make(map[string]*midi.Bridge)},
		bounds:    &layoutBounds{},
		previewer: preview,
		debounced: debounce.New(previewDelay),
	}
}

func ListenForUpdates(manager *trainer.Manager) tea.Cmd {
	return func() tea.Msg {
		<-manager.UpdateChan
		return UpdateMsg{}
	}
}

func ListenForDevices(deviceMgr *midi.DeviceManager) tea.Cmd {
	if deviceMgr == nil {
		return nil
	}
	return func() tea.Msg {
		event, ok := <-deviceMgr.Events()
		if !ok {
			return nil
		}
		return DeviceEventMsg(event)
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		ListenForUpdates(m.Manager),
		ListenForDevices(m.DeviceMgr),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.settings.open {
			return m.updateSettings(msg)
		}
		return m.updateKeys(msg)

	case tea.MouseMsg:
		return m.updateMouse(msg)

	case UpdateMsg:
		return m, ListenForUpdates(m.Manager)

	case flashDoneMsg:
		if msg.seq == m.flashSeq {
			m.flash = nil
		}

	case DeviceEventMsg:
		m.handleDevice(midi.DeviceEvent(msg))
		return m, ListenForDevices(m.DeviceMgr)
	}

	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cfg := m.Manager.Config()

	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "tab":
		if err := m.Manager.SetInputMode(cfg.InputMode.Toggle()); err != nil {
			debug.Log("tui", "toggle mode: %v", err)
		}
		return m, nil

	case "s":
		m.settings.open = true
		m.settings.field = 0
		m.settings.min, m.settings.max = cfg.MinFret, cfg.MaxFret
		m.settings.err = ""
		return m, nil

	case "n":
		m.Manager.NextRound()
		m.status = ""
		return m, nil

	case "?":
		m.showHelp = !m.showHelp
		return m, nil
	}

	if cfg.InputMode == trainer.ModeFretboard {
		switch msg.String() {
		case "h", "left":
			m.grid.Move(0, -1)
		case "l", "right":
			m.grid.Move(0, 1)
		case "k", "up":
			m.grid.Move(-1, 0)
		case "j", "down":
			m.grid.Move(1, 0)
		case "enter", " ":
			return m.submit(m.grid)
		}
		return m, nil
	}

	switch msg.String() {
	case "left", "h":
		m.picker.SetFocus(trainer.ColumnString)
	case "right", "l":
		m.picker.SetFocus(trainer.ColumnFret)
	case "up", "k":
		m.picker.Scroll(-1)
		m.schedulePreview()
	case "down", "j":
		m.picker.Scroll(1)
		m.schedulePreview()
	case "enter", " ":
		return m.submit(m.picker)
	}
	return m, nil
}

func (m Model) updateSettings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.settings
	switch msg.String() {
	case "esc", "s":
		f.open = false
	case "up", "k", "down", "j", "tab":
		f.field = 1 - f.field
	case "left", "h", "-":
		f.adjust(-1)
	case "right", "l", "+", "=":
		f.adjust(1)
	case "enter":
		if m.saveSettings() {
			m.status = ""
		}
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (f *settingsForm) adjust(delta int) {
	f.err = ""
	if f.field == 0 {
		f.min = clampFret(f.min + delta)
	} else {
		f.max = clampFret(f.max + delta)
	}
}

func clampFret(v int) int {
	return max(0, min(v, fretboard.PickerMaxFret))
}

// saveSettings applies the form; an invalid range keeps the form open
func (m Model) saveSettings() bool {
	cfg := m.Manager.Config()
	cfg.MinFret, cfg.MaxFret = m.settings.min, m.settings.max

	if err := m.Manager.ApplyConfig(cfg); err != nil {
		if errors.Is(err, trainer.ErrInvalidRange) {
			m.settings.err = "invalid range"
		} else {
			m.settings.err = err.Error()
		}
		return false
	}
	m.settings.open = false
	m.resetBridges()

	m.Config.Trainer = cfg
	if err := m.Config.Save(); err != nil {
		debug.Log("tui", "save config: %v", err)
	}
	return true
}

func (m Model) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.settings.open {
		return m, nil
	}
	cfg := m.Manager.Config()

	if cfg.InputMode == trainer.ModePicker {
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.picker.Scroll(-1)
			m.schedulePreview()
		case tea.MouseButtonWheelDown:
			m.picker.Scroll(1)
			m.schedulePreview()
		}
		return m, nil
	}

	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	c, ok := m.hitTest(msg.X, msg.Y)
	if !ok {
		return m, nil
	}
	m.grid.Select(c.String, c.Fret)
	return m.submit(m.grid)
}

func (m Model) hitTest(x, y int) (trainer.Coordinate, bool) {
	if y < m.bounds.fretTop || y >= m.bounds.fretTop+m.bounds.fretHeight {
		return trainer.Coordinate{}, false
	}
	return widgets.FretboardHit(x, y-m.bounds.fretTop)
}

func (m Model) submit(src trainer.CandidateSource) (tea.Model, tea.Cmd) {
	c := src.Candidate()
	out, err := m.Manager.SubmitFrom(src)
	if err != nil {
		m.status = err.Error()
		return m, nil
	}

	switch out.Verdict {
	case trainer.Correct:
		m.status = "✓ " + out.Guess.String()
		if out.RoundComplete {
			m.status = fmt.Sprintf("✓ round complete (%d)", out.Completed)
		}
	case trainer.Incorrect:
		m.status = fmt.Sprintf("✗ %s", out.Guess)
		m.flashSeq++
		m.flash = &c
		seq := m.flashSeq
		return m, tea.Tick(flashLength, func(time.Time) tea.Msg {
			return flashDoneMsg{seq: seq}
		})
	}
	return m, nil
}

// schedulePreview plays the picker selection once scrolling settles
func (m Model) schedulePreview() {
	if m.previewer == nil || !m.Config.Audio.Preview {
		return
	}
	c := m.picker.Candidate()
	p, err := m.Manager.Layout().PitchOf(c.String, c.Fret)
	if err != nil {
		return
	}
	m.debounced(func() { m.previewer.Play(p) })
}

func (m Model) handleDevice(event midi.DeviceEvent) {
	m.bridges.mu.Lock()
	defer m.bridges.mu.Unlock()

	switch event.Type {
	case midi.DeviceConnected:
		b := midi.NewBridge(event.Controller, m.Manager)
		m.bridges.m[event.ID] = b
		go b.Run()
	case midi.DeviceDisconnected:
		delete(m.bridges.m, event.ID)
	}
}

func (m Model) resetBridges() {
	m.bridges.mu.Lock()
	defer m.bridges.mu.Unlock()
	for _, b := range m.bridges.m {
		b.Reset()
	}
}

func (m Model) controllerCount() int {
	m.bridges.mu.Lock()
	defer m.bridges.mu.Unlock()
	return len(m.bridges.m)
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	cfg := m.Manager.Config()
	snap := m.Manager.Snapshot()

	// Styles
	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Current()).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	statusStyle := lipgloss.NewStyle().Foreground(m.Theme.FG())
	if strings.HasPrefix(m.status, "✗") {
		statusStyle = statusStyle.Foreground(m.Theme.Wrong())
	} else if strings.HasPrefix(m.status, "✓") {
		statusStyle = statusStyle.Foreground(m.Theme.Done())
	}

	deviceStatus := ""
	if n := m.controllerCount(); n > 0 {
		deviceStatus = fmt.Sprintf("  midi:%d", n)
	}
	header := headerStyle.Render(fmt.Sprintf("fretnote  completed:%d  %s  frets %d-%d%s",
		snap.Completed, cfg.InputMode, cfg.MinFret, cfg.MaxFret, deviceStatus))

	staff := widgets.RenderStaff(m.Manager.StaffLayout(), m.Theme)
	if len(snap.Round.Notes) == 0 {
		staff += "\n" + dimStyle.Render("no notes in range")
	}
	status := statusStyle.Render(m.status)

	// Compute layout bounds: leading newline, header, staff and status each
	// followed by a blank line
	m.bounds.fretTop = 1 + lipgloss.Height(header) + 1 + lipgloss.Height(staff) + 1 + lipgloss.Height(status) + 1
	m.bounds.fretHeight = 0

	var surface, help string
	switch {
	case m.settings.open:
		surface = m.settingsView()
		help = "↑/↓:field  ←/→:change  enter:save  esc:cancel"
	case cfg.InputMode == trainer.ModeFretboard:
		surface = widgets.RenderFretboard(widgets.FretboardView{
			Cursor:     m.grid.Cursor(),
			ShowCursor: true,
			MinFret:    cfg.MinFret,
			MaxFret:    cfg.MaxFret,
			Flash:      m.flash,
			FlashColor: m.Theme.Wrong(),
		}, m.Theme)
		m.bounds.fretHeight = lipgloss.Height(surface)
		surface += "\n\n" + widgets.RenderLegendItem(m.Theme.Cursor(), "cursor", "selected position") +
			"\n" + widgets.RenderLegendItem(m.Theme.Wrong(), "miss", "last wrong answer")
		help = "hjkl:move  enter/click:answer  tab:picker  s:settings  ?:help  q:quit"
	default:
		surface = widgets.RenderPicker(m.picker, m.Theme)
		if info, err := m.Manager.DisplayInfo(m.picker.Candidate()); err == nil {
			surface += "\n\n" + dimStyle.Render(fmt.Sprintf("%s · %s", info.StringLabel, info.FretLabel))
		}
		help = "←/→:column  ↑/↓:value  enter:answer  tab:fretboard  s:settings  ?:help  q:quit"
	}
	if m.showHelp && !m.settings.open {
		help = widgets.RenderKeyHelp(keySections)
	}

	// Build output
	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")
	out.WriteString(staff)
	out.WriteString("\n\n")
	out.WriteString(status)
	out.WriteString("\n\n")
	out.WriteString(surface)
	out.WriteString("\n\n")
	out.WriteString(dimStyle.Render(help))
	return out.String()
}

var keySections = []widgets.KeySection{
	{Title: "Picker", Keys: []widgets.KeyBinding{
		{Key: "←/→", Desc: "string or fret column"},
		{Key: "↑/↓", Desc: "change value"},
		{Key: "wheel", Desc: "scroll the focused column"},
		{Key: "enter", Desc: "answer"},
	}},
	{Title: "Fretboard", Keys: []widgets.KeyBinding{
		{Key: "hjkl", Desc: "move the cursor"},
		{Key: "enter", Desc: "answer"},
		{Key: "click", Desc: "answer at a position"},
	}},
	{Title: "General", Keys: []widgets.KeyBinding{
		{Key: "tab", Desc: "switch input mode"},
		{Key: "s", Desc: "settings"},
		{Key: "n", Desc: "skip to a new round"},
		{Key: "?", Desc: "toggle this help"},
		{Key: "q", Desc: "quit"},
	}},
}

func (m Model) settingsView() string {
	f := m.settings
	label := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	focused := lipgloss.NewStyle().Foreground(m.Theme.Cursor()).Bold(true)

	row := func(i int, name string, v int) string {
		style := label
		if f.field == i {
			style = focused
		}
		return style.Render(fmt.Sprintf("%-9s ◂ %2d ▸", name, v))
	}

	lines := []string{
		"Settings",
		"",
		row(0, "Min fret", f.min),
		row(1, "Max fret", f.max),
	}
	if f.err != "" {
		lines = append(lines, "", lipgloss.NewStyle().Foreground(m.Theme.Wrong()).Render(f.err))
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.Theme.Muted()).
		Padding(0, 2).
		Render(strings.Join(lines, "\n"))
}
