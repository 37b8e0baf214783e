package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"cardwall-cli/internal/frame"
	"cardwall-cli/internal/layout"
	"cardwall-cli/internal/model"
	"cardwall-cli/internal/nav"
	"cardwall-cli/internal/render"
	"cardwall-cli/internal/scroll"
	"cardwall-cli/internal/source"
	"cardwall-cli/internal/store"
)

const (
	// Frame cadence while animation, batched rendering or timers are
	// pending; the idle cadence keeps the loop clock roughly current
	// without burning CPU.
	fastFrame = time.Second / 60
	idleFrame = 250 * time.Millisecond
)

type frameTickMsg time.Time
type notesChangedMsg struct{}

type cardsLoadedMsg struct {
	cards []model.Card
	err   error
}

type appModel struct {
	src      *source.DirSource
	set      model.CardSet
	settings store.Settings
	logger   *log.Logger

	loop     *frame.Loop
	surface  *CardSurface
	renderer *render.Renderer
	nav      *nav.Navigator
	scroller *scroll.Scroller
	keys     nav.KeyMap

	cards  []model.Card
	width  int
	height int
	status string

	pendingOpen   string
	tickScheduled bool
	lastTick      time.Time

	changes     chan struct{}
	cancelWatch context.CancelFunc
}

func newAppModel(root string, set model.CardSet, settings store.Settings, logger *log.Logger) *appModel {
	src := source.NewDirSource(root)
	src.Order = model.SortOrder(settings.SortOrder)

	loop := frame.NewLoop(time.Now())
	surface := NewCardSurface()
	renderer := render.New(surface, loop, logger)
	scroller := scroll.New(renderer, surface, loop, logger)
	navigator := nav.New(renderer, loop, scroller, logger)

	m := &appModel{
		src:      src,
		set:      set,
		settings: settings,
		logger:   logger,
		loop:     loop,
		surface:  surface,
		renderer: renderer,
		nav:      navigator,
		scroller: scroller,
		keys:     nav.DefaultKeyMap(),
		lastTick: time.Now(),
		changes:  make(chan struct{}, 1),
	}

	renderer.SetAfterRender(func() {
		// Auto-height cards report their true height only after content
		// rendering; restack so masonry columns track measured sizes.
		if m.autoHeight() {
			renderer.Restack(m.cards)
		}
		navigator.Revalidate()
	})
	navigator.SetOpenFunc(func(cardID string) { m.pendingOpen = cardID })
	return m
}

func (m *appModel) autoHeight() bool {
	return strings.EqualFold(strings.TrimSpace(m.settings.CardHeightMode), "auto")
}

func (m *appModel) Init() tea.Cmd {
	return tea.Batch(m.loadCards(), m.waitForChange(), m.scheduleFrame())
}

func (m *appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.applyLayout()
		m.renderCards()
		return m, m.scheduleFrame()

	case frameTickMsg:
		m.tickScheduled = false
		now := time.Time(msg)
		m.loop.Advance(now.Sub(m.lastTick))
		m.lastTick = now
		return m, m.scheduleFrame()

	case cardsLoadedMsg:
		if msg.err != nil {
			m.logger.Warn("card load failed", "err", msg.err)
			m.status = "load failed: " + msg.err.Error()
			return m, m.scheduleFrame()
		}
		m.status = ""
		m.cards = msg.cards
		m.renderCards()
		// Only a full-directory view sees every card; filtered views must
		// not replace the index with their subset.
		if m.set.Kind == model.CardSetFolder && strings.TrimSpace(m.set.Value) == "" {
			return m, tea.Batch(m.refreshIndex(msg.cards), m.scheduleFrame())
		}
		return m, m.scheduleFrame()

	case notesChangedMsg:
		return m, tea.Batch(m.loadCards(), m.waitForChange(), m.scheduleFrame())

	case editorDoneMsg:
		if msg.err != nil {
			m.status = "editor failed: " + msg.err.Error()
		} else {
			m.status = ""
		}
		// The watcher reloads edited files; re-render for the flag change.
		m.renderCards()
		return m, m.scheduleFrame()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.moveOrFocus(-1, 0)
	case key.Matches(msg, m.keys.Down):
		m.moveOrFocus(1, 0)
	case key.Matches(msg, m.keys.Left):
		m.moveOrFocus(0, -1)
	case key.Matches(msg, m.keys.Right):
		m.moveOrFocus(0, 1)
	case key.Matches(msg, m.keys.PageUp):
		if m.nav.Focused() {
			m.nav.PageMove(-1)
		} else {
			m.scroller.PageScroll(-1)
		}
	case key.Matches(msg, m.keys.PageDown):
		if m.nav.Focused() {
			m.nav.PageMove(1)
		} else {
			m.scroller.PageScroll(1)
		}
	case key.Matches(msg, m.keys.Home):
		m.nav.Home()
	case key.Matches(msg, m.keys.End):
		m.nav.End()
	case key.Matches(msg, m.keys.Open):
		m.nav.Open()
		if id := m.pendingOpen; id != "" {
			m.pendingOpen = ""
			m.nav.SetActiveCard(id)
			m.renderer.ApplyFlags(m.nav.FocusedID(), id)
			return m, tea.Batch(m.scheduleFrame(), openInEditor(id, m.src.AbsPath(id)))
		}
	case key.Matches(msg, m.keys.Blur):
		m.nav.Blur()
	default:
		return m.handleAppKey(msg)
	}
	return m, m.scheduleFrame()
}

func (m *appModel) handleAppKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.shutdown()
		return m, tea.Quit
	case "r":
		return m, tea.Batch(m.loadCards(), m.scheduleFrame())
	case "1", "2", "3":
		kinds := map[string]string{"1": "list", "2": "grid", "3": "masonry"}
		m.settings.LayoutType = kinds[msg.String()]
		m.persistSettings()
		m.applyLayout()
		m.renderCards()
	case "s":
		if m.settings.SortOrder == string(model.SortByModified) {
			m.settings.SortOrder = string(model.SortByName)
		} else {
			m.settings.SortOrder = string(model.SortByModified)
		}
		m.src.Order = model.SortOrder(m.settings.SortOrder)
		m.persistSettings()
		return m, tea.Batch(m.loadCards(), m.scheduleFrame())
	case "ctrl+e":
		m.scrollLine(1)
	case "ctrl+y":
		m.scrollLine(-1)
	}
	return m, m.scheduleFrame()
}

// moveOrFocus routes an arrow key: the first press acquires focus, further
// presses move it.
func (m *appModel) moveOrFocus(rowDelta, colDelta int) {
	if !m.nav.Focused() {
		m.nav.Focus()
		return
	}
	m.nav.Move(rowDelta, colDelta)
}

// scrollLine scrolls by one card along the configured axis without moving
// focus.
func (m *appModel) scrollLine(dir int) {
	if m.renderer.Config().Direction == layout.Horizontal {
		if dir > 0 {
			m.scroller.ScrollRight(1)
		} else {
			m.scroller.ScrollLeft(1)
		}
		return
	}
	if dir > 0 {
		m.scroller.ScrollDown(1)
	} else {
		m.scroller.ScrollUp(1)
	}
}

func (m *appModel) applyLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	panelH := m.height - 1 // status bar
	cfg := m.settings.LayoutConfig(m.width, panelH)

	cardH := cfg.CardHeight
	if m.autoHeight() {
		cardH = layout.HeightAuto
	}
	m.surface.Configure(cfg.CardWidth, cardH, cfg.Direction == layout.Horizontal)
	m.surface.SetSize(m.width, panelH, cfg.Padding)
	m.renderer.SetLayout(m.settings.LayoutKind(), cfg)
}

func (m *appModel) renderCards() {
	if m.width <= 0 {
		return
	}
	m.renderer.Render(m.cards, m.nav.FocusedID(), m.nav.ActiveID())
}

func (m *appModel) persistSettings() {
	if err := store.SaveSettings(m.settings); err != nil {
		m.logger.Warn("save settings failed", "err", err)
	}
}

func (m *appModel) loadCards() tea.Cmd {
	src, set := m.src, m.set
	return func() tea.Msg {
		cards, err := src.Resolve(context.Background(), set)
		return cardsLoadedMsg{cards: cards, err: err}
	}
}

// refreshIndex keeps the metadata index in step with what the panel shows,
// so tag/search queries answered from the index never go stale while the
// panel is open. Failures are logged and otherwise ignored; the index is a
// cache.
func (m *appModel) refreshIndex(cards []model.Card) tea.Cmd {
	logger := m.logger
	return func() tea.Msg {
		dir, err := store.ConfigDir()
		if err != nil {
			logger.Debug("index refresh skipped", "err", err)
			return nil
		}
		ix, err := source.OpenIndex(filepath.Join(dir, "index.db"))
		if err != nil {
			logger.Debug("index refresh skipped", "err", err)
			return nil
		}
		defer ix.Close()
		if err := ix.Rebuild(context.Background(), cards); err != nil {
			logger.Debug("index refresh failed", "err", err)
		}
		return nil
	}
}

func (m *appModel) waitForChange() tea.Cmd {
	ch := m.changes
	return func() tea.Msg {
		<-ch
		return notesChangedMsg{}
	}
}

// scheduleFrame arranges the next loop tick: fast while work is pending,
// slow otherwise. At most one tick is in flight at a time.
func (m *appModel) scheduleFrame() tea.Cmd {
	if m.tickScheduled {
		return nil
	}
	m.tickScheduled = true
	d := idleFrame
	if m.loop.Pending() || m.renderer.InFlight() || m.scroller.Animating() {
		d = fastFrame
	}
	return tea.Tick(d, func(t time.Time) tea.Msg { return frameTickMsg(t) })
}

func (m *appModel) shutdown() {
	if m.cancelWatch != nil {
		m.cancelWatch()
	}
	m.nav.Close()
	m.scroller.Close()
	m.renderer.Close()
	m.loop.Close()
}

func (m *appModel) View() string {
	if m.width <= 0 || m.height <= 0 {
		return "Loading…"
	}
	panel := normalizePane(m.surface.Frame(), m.width, m.height-1)
	return panel + "\n" + m.statusLine()
}

func (m *appModel) statusLine() string {
	label := "all cards"
	switch m.set.Kind {
	case model.CardSetTag:
		label = "#" + m.set.Value
	case model.CardSetSearch:
		label = "search: " + m.set.Value
	case model.CardSetFolder:
		if strings.TrimSpace(m.set.Value) != "" {
			label = m.set.Value
		}
	}

	parts := []string{
		label,
		fmt.Sprintf("%d cards", len(m.cards)),
		m.renderer.Kind().String(),
	}
	if id := m.nav.FocusedID(); id != "" {
		parts = append(parts, id)
	}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	return styleStatusBar().Render(truncateLine(strings.Join(parts, " · "), m.width))
}
