package ui

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/harmonica"
	clog "github.com/charmbracelet/log"
	"github.com/charmbracelet/x/ansi"
)

type applyMsg struct {
	fn func(*Root)
}

type drawMsg struct{}
type clockMsg time.Time
type animateMsg time.Time

type dashKeyMap struct {
	Open        key.Binding
	Generate    key.Binding
	Filter      key.Binding
	Personality key.Binding
	Stats       key.Binding
	Quit        key.Binding
}

func (k dashKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Generate, k.Filter, k.Personality, k.Stats, k.Quit}
}

func (k dashKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Open, k.Generate, k.Filter}, {k.Personality, k.Stats, k.Quit}}
}

const (
	focusFlag = iota
	focusChat
)

type Root struct {
	theme        Theme
	ascii        bool
	debug        bool
	ctrl         Controller
	styleVariant string
	motionLevel  string
	mouseScope   string

	mu      sync.Mutex
	program *tea.Program
	running bool

	screen Screen
	layout LayoutMode
	cols   int
	rows   int

	header       HeaderState
	dashboard    DashboardState
	challenge    ChallengeState
	conversation []ChatMessage

	assistantBusy bool
	generating    bool
	statusFlash   string

	personalityOpts []PersonalityOption
	pickerOpen      bool
	pickerIndex     int
	infoOpen        bool
	infoTitle       string
	infoText        string

	cardIndex   int
	filterIndex int
	chatScroll  int
	focus       int

	flagInput textinput.Model
	chatInput textinput.Model

	help     help.Model
	keymap   dashKeyMap
	busySpin spinner.Model
	markdown *glamour.TermRenderer
	logger   *clog.Logger

	overlayPos float64
	overlayVel float64
	spring     harmonica.Spring

	drawPending atomic.Bool

	lastInputEvent string
}

type Options struct {
	ASCIIOnly    bool
	Debug        bool
	StyleVariant string
	MotionLevel  string
	MouseScope   string
}

func New(opts Options) *Root {
	logger := clog.NewWithOptions(os.Stderr, clog.Options{Prefix: "cipherforge-ui", Level: clog.WarnLevel})
	if opts.Debug {
		logger.SetLevel(clog.DebugLevel)
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(72),
	)
	if err != nil {
		renderer = nil
	}

	h := help.New()
	h.Styles = help.DefaultDarkStyles()
	motionLevel := normalizeMotionLevel(opts.MotionLevel)
	mouseScope := normalizeMouseScope(opts.MouseScope)
	styleVariant := normalizeStyleVariant(opts.StyleVariant)
	theme := ThemeForVariant(styleVariant)
	spring := harmonica.NewSpring(harmonica.FPS(60), 10.0, 0.8)
	switch motionLevel {
	case "reduced":
		spring = harmonica.NewSpring(harmonica.FPS(30), 9.0, 0.92)
	case "off":
		spring = harmonica.NewSpring(harmonica.FPS(60), 1000.0, 1.0)
	}
	busySpin := spinner.New(
		spinner.WithSpinner(spinner.MiniDot),
		spinner.WithStyle(theme.Accent),
	)

	flagInput := textinput.New()
	flagInput.Placeholder = "CTF{...}"
	flagInput.CharLimit = 256
	chatInput := textinput.New()
	chatInput.Placeholder = "talk to the host"
	chatInput.CharLimit = 512

	r := &Root{
		theme:        theme,
		ascii:        opts.ASCIIOnly,
		debug:        opts.Debug,
		styleVariant: styleVariant,
		motionLevel:  motionLevel,
		mouseScope:   mouseScope,
		screen:       ScreenBoot,
		layout:       LayoutWide,
		cols:         120,
		rows:         30,
		help:         h,
		busySpin:     busySpin,
		markdown:     renderer,
		logger:       logger,
		spring:       spring,
		flagInput:    flagInput,
		chatInput:    chatInput,
	}
	r.keymap = dashKeyMap{
		Open:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "Open")),
		Generate:    key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "Generate")),
		Filter:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "Category")),
		Personality: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "Personality")),
		Stats:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "Stats")),
		Quit:        key.NewBinding(key.WithKeys("ctrl+q"), key.WithHelp("Ctrl+Q", "Quit")),
	}
	return r
}

func (r *Root) Init() tea.Cmd {
	return tea.Batch(clockTickCmd(), spinnerTickCmd(r.busySpin))
}

func (r *Root) Update(msg tea.Msg) (model tea.Model, cmd tea.Cmd) {
	defer func() {
		if rec := recover(); rec != nil {
			r.onModelPanic("update", rec, msg)
			model = r
			cmd = nil
		}
	}()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		r.cols = msg.Width
		r.rows = msg.Height
		r.layout = DetermineLayoutMode(r.cols, r.rows)
		r.dispatchController(func(c Controller) { c.OnResize(msg.Width, msg.Height) })
		return r, nil
	case applyMsg:
		if msg.fn != nil {
			msg.fn(r)
		}
		return r, r.animateIfNeeded()
	case drawMsg:
		r.drawPending.Store(false)
		return r, nil
	case clockMsg:
		return r, clockTickCmd()
	case animateMsg:
		target := 0.0
		if r.pickerOpen {
			target = 1.0
		}
		r.overlayPos, r.overlayVel = r.spring.Update(r.overlayPos, r.overlayVel, target)
		if r.shouldAnimate(target) {
			return r, animateTickCmd()
		}
		if target == 0 {
			r.overlayPos, r.overlayVel = 0, 0
		} else {
			r.overlayPos, r.overlayVel = 1, 0
		}
		return r, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		r.busySpin, cmd = r.busySpin.Update(msg)
		return r, cmd
	case tea.MouseClickMsg:
		return r.handleMouseClick(msg)
	case tea.MouseWheelMsg:
		return r.handleMouseWheel(msg)
	case tea.KeyPressMsg:
		return r.handleKey(msg)
	}
	return r, nil
}

func (r *Root) View() (view tea.View) {
	defer func() {
		if rec := recover(); rec != nil {
			r.onModelPanic("view", rec, nil)
			width := max(1, r.cols)
			msg := "UI recovered from a rendering panic. Check logs."
			if r.statusFlash == "" {
				r.statusFlash = "Recovered UI panic"
			}
			view = tea.NewView(r.theme.Fail.Width(width).Render(trimForWidth(msg, max(1, width-1))))
		}
	}()

	if r.cols < 1 {
		r.cols = 120
	}
	if r.rows < 1 {
		r.rows = 30
	}

	if r.layout == LayoutTooSmall {
		msg := fmt.Sprintf("Terminal too small (%dx%d). Need at least 80x24.", r.cols, r.rows)
		v := tea.NewView(lipgloss.Place(r.cols, r.rows, lipgloss.Center, lipgloss.Center, r.theme.Pending.Render(msg)))
		v.AltScreen = true
		return v
	}

	var base string
	switch r.screen {
	case ScreenBoot:
		base = r.renderBoot()
	case ScreenDashboard:
		base = r.renderDashboard()
	default:
		base = r.renderChallenge()
	}

	if overlay := r.renderOverlay(); overlay != "" {
		spec, _ := r.overlaySpec(r.topOverlay())
		row := spec.startRow
		if r.topOverlay() == "picker" && r.motionLevel != "off" {
			// Slide up from the bottom edge while the spring settles.
			row += int((1 - clampFloat(r.overlayPos, 0, 1)) * float64(r.rows-spec.startRow))
		}
		base = composeOverlayAt(base, overlay, r.cols, r.rows, row, spec.startCol)
	}
	v := tea.NewView(base)
	v.AltScreen = true
	v.MouseMode = r.currentMouseMode()
	return v
}

func (r *Root) Run() error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil
	}
	p := tea.NewProgram(r)
	r.program = p
	r.running = true
	r.mu.Unlock()

	_, err := p.Run()

	r.mu.Lock()
	r.program = nil
	r.running = false
	r.mu.Unlock()
	return err
}

func (r *Root) Stop() {
	r.mu.Lock()
	p := r.program
	r.mu.Unlock()
	if p != nil {
		p.Quit()
	}
}

func (r *Root) SetController(c Controller) {
	r.ctrl = c
}

func (r *Root) SetScreen(screen Screen) {
	r.apply(func(m *Root) {
		m.screen = screen
		switch screen {
		case ScreenChallenge:
			m.focus = focusFlag
			m.flagInput.SetValue("")
			m.flagInput.Focus()
			m.chatInput.Blur()
			m.chatScroll = 0
		case ScreenDashboard:
			m.flagInput.Blur()
			m.chatInput.Blur()
		}
	})
}

func (r *Root) SetHeader(state HeaderState) {
	r.apply(func(m *Root) {
		m.header = state
	})
}

func (r *Root) SetDashboard(state DashboardState) {
	r.apply(func(m *Root) {
		m.dashboard = state
		if m.cardIndex >= len(state.Cards) {
			m.cardIndex = max(0, len(state.Cards)-1)
		}
		for i, f := range state.Filters {
			if f == state.FilterLabel {
				m.filterIndex = i
			}
		}
	})
}

func (r *Root) SetChallenge(state ChallengeState) {
	r.apply(func(m *Root) {
		m.challenge = state
	})
}

func (r *Root) SetConversation(messages []ChatMessage) {
	r.apply(func(m *Root) {
		m.conversation = append([]ChatMessage(nil), messages...)
		m.chatScroll = 0
	})
}

func (r *Root) SetAssistantBusy(busy bool) {
	r.apply(func(m *Root) {
		m.assistantBusy = busy
	})
}

func (r *Root) SetGenerating(generating bool) {
	r.apply(func(m *Root) {
		m.generating = generating
	})
}

func (r *Root) SetPersonalityPicker(options []PersonalityOption, open bool) {
	r.apply(func(m *Root) {
		if options != nil {
			m.personalityOpts = append([]PersonalityOption(nil), options...)
			for i, opt := range m.personalityOpts {
				if opt.Selected {
					m.pickerIndex = i
				}
			}
		}
		m.pickerOpen = open
	})
}

func (r *Root) SetInfo(title, text string, open bool) {
	r.apply(func(m *Root) {
		m.infoTitle = title
		m.infoText = text
		m.infoOpen = open
	})
}

func (r *Root) FlashStatus(msg string) {
	r.apply(func(m *Root) {
		m.statusFlash = msg
	})
}

func (r *Root) RequestDraw() {
	r.mu.Lock()
	p := r.program
	running := r.running
	r.mu.Unlock()
	if !running || p == nil {
		return
	}
	if !r.drawPending.CompareAndSwap(false, true) {
		return
	}
	time.AfterFunc(16*time.Millisecond, func() {
		r.mu.Lock()
		p := r.program
		running := r.running
		r.mu.Unlock()
		if !running || p == nil {
			r.drawPending.Store(false)
			return
		}
		p.Send(drawMsg{})
	})
}

func (r *Root) apply(fn func(*Root)) {
	if fn == nil {
		return
	}
	r.mu.Lock()
	p := r.program
	running := r.running
	if !running || p == nil {
		fn(r)
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()
	p.Send(applyMsg{fn: fn})
}

func (r *Root) dispatchController(fn func(Controller)) {
	if fn == nil || r.ctrl == nil {
		return
	}
	ctrl := r.ctrl
	go fn(ctrl)
}

func (r *Root) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	r.recordInputEvent(fmt.Sprintf("key:%v mod:%v text:%q", msg.Code, msg.Mod, msg.Text))

	if key.Matches(msg, r.keymap.Quit) {
		r.dispatchController(func(c Controller) { c.OnQuit() })
		return r, nil
	}

	if r.overlayActive() {
		return r.handleOverlayKey(msg)
	}

	switch r.screen {
	case ScreenBoot:
		return r.handleBootKey(msg)
	case ScreenDashboard:
		return r.handleDashboardKey(msg)
	default:
		return r.handleChallengeKey(msg)
	}
}

func (r *Root) handleBootKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.Code {
	case tea.KeyEnter, ' ':
		r.dispatchController(func(c Controller) { c.OnOpenDashboard() })
	case tea.KeyEsc:
		r.dispatchController(func(c Controller) { c.OnQuit() })
	}
	return r, nil
}

func (r *Root) handleDashboardKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	cards := r.dashboard.Cards
	cols := r.dashboardColumns()
	switch msg.Code {
	case tea.KeyUp:
		r.cardIndex = clampIndex(r.cardIndex-cols, len(cards))
	case tea.KeyDown:
		r.cardIndex = clampIndex(r.cardIndex+cols, len(cards))
	case tea.KeyLeft:
		r.cardIndex = clampIndex(r.cardIndex-1, len(cards))
	case tea.KeyRight, tea.KeyTab:
		r.cardIndex = clampIndex(r.cardIndex+1, len(cards))
	case tea.KeyEnter:
		r.openSelectedCard()
	case tea.KeyEsc:
		r.dispatchController(func(c Controller) { c.OnQuit() })
	case 'g':
		r.dispatchController(func(c Controller) { c.OnGenerateChallenge() })
	case 'c':
		r.cycleFilter()
	case 'p':
		if len(r.personalityOpts) > 0 {
			r.pickerOpen = true
			r.overlayPos, r.overlayVel = 0, 0
			return r, r.animateIfNeeded()
		}
	case 's':
		r.dispatchController(func(c Controller) { c.OnOpenStats() })
	}
	return r, nil
}

func (r *Root) handleChallengeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.Code {
	case tea.KeyEsc:
		r.dispatchController(func(c Controller) { c.OnOpenDashboard() })
		return r, nil
	case tea.KeyTab:
		r.toggleChallengeFocus()
		return r, nil
	case tea.KeyF1:
		r.dispatchController(func(c Controller) { c.OnRequestHint() })
		return r, nil
	case tea.KeyPgUp:
		r.chatScroll++
		return r, nil
	case tea.KeyPgDown:
		if r.chatScroll > 0 {
			r.chatScroll--
		}
		return r, nil
	case tea.KeyEnter:
		return r.submitFocusedInput()
	}

	var cmd tea.Cmd
	if r.focus == focusFlag {
		r.flagInput, cmd = r.flagInput.Update(msg)
	} else {
		r.chatInput, cmd = r.chatInput.Update(msg)
	}
	return r, cmd
}

func (r *Root) toggleChallengeFocus() {
	if r.focus == focusFlag {
		r.focus = focusChat
		r.flagInput.Blur()
		r.chatInput.Focus()
	} else {
		r.focus = focusFlag
		r.chatInput.Blur()
		r.flagInput.Focus()
	}
}

func (r *Root) submitFocusedInput() (tea.Model, tea.Cmd) {
	if r.focus == focusFlag {
		candidate := r.flagInput.Value()
		if strings.TrimSpace(candidate) == "" {
			return r, nil
		}
		id := r.challenge.ID
		r.flagInput.SetValue("")
		r.dispatchController(func(c Controller) { c.OnSubmitFlag(id, candidate) })
		return r, nil
	}
	text := strings.TrimSpace(r.chatInput.Value())
	if text == "" {
		return r, nil
	}
	if r.assistantBusy {
		r.statusFlash = "Host is still responding"
		return r, nil
	}
	r.chatInput.SetValue("")
	r.dispatchController(func(c Controller) { c.OnSendChat(text) })
	return r, nil
}

func (r *Root) handleOverlayKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if msg.Code == tea.KeyEsc || (msg.Mod == 0 && (msg.Code == 'q' || msg.Code == 'Q')) {
		r.dismissTopOverlay()
		return r, r.animateIfNeeded()
	}

	if r.topOverlay() == "picker" {
		switch msg.Code {
		case tea.KeyUp:
			r.pickerIndex = wrapIndex(r.pickerIndex-1, len(r.personalityOpts))
		case tea.KeyDown, tea.KeyTab:
			r.pickerIndex = wrapIndex(r.pickerIndex+1, len(r.personalityOpts))
		case tea.KeyEnter:
			if r.pickerIndex < len(r.personalityOpts) {
				value := r.personalityOpts[r.pickerIndex].Value
				r.pickerOpen = false
				r.dispatchController(func(c Controller) { c.OnChangePersonality(value) })
			}
		}
	}
	return r, nil
}

func (r *Root) dismissTopOverlay() {
	switch r.topOverlay() {
	case "info":
		r.infoOpen = false
		r.infoTitle = ""
		r.infoText = ""
	case "picker":
		r.pickerOpen = false
	}
}

func (r *Root) handleMouseClick(msg tea.MouseClickMsg) (tea.Model, tea.Cmd) {
	mouse := msg.Mouse()
	r.recordInputEvent(fmt.Sprintf("mouse_click:%d,%d button:%v", mouse.X, mouse.Y, mouse.Button))

	if r.mouseScope == "off" || mouse.Button != tea.MouseLeft {
		return r, nil
	}
	if r.overlayActive() {
		return r.handleOverlayMouseClick(mouse.X, mouse.Y)
	}
	if r.screen == ScreenDashboard {
		return r.handleDashboardMouseClick(mouse.X, mouse.Y)
	}
	return r, nil
}

func (r *Root) handleDashboardMouseClick(x, y int) (tea.Model, tea.Cmd) {
	cards := r.dashboard.Cards
	if len(cards) == 0 {
		return r, nil
	}
	// Cards are rendered one per row inside the grid panel.
	row := y - 3
	if row < 0 || row >= r.visibleCardRows() {
		return r, nil
	}
	idx := r.cardWindowStart() + row
	if idx < 0 || idx >= len(cards) {
		return r, nil
	}
	if idx == r.cardIndex {
		r.openSelectedCard()
		return r, nil
	}
	r.cardIndex = idx
	_ = x
	return r, nil
}

func (r *Root) handleOverlayMouseClick(x, y int) (tea.Model, tea.Cmd) {
	if r.topOverlay() != "picker" {
		return r, nil
	}
	spec, ok := r.overlaySpec("picker")
	if !ok {
		return r, nil
	}
	if x < spec.startCol+1 || x >= spec.startCol+spec.width-1 || y < spec.startRow+1 || y >= spec.startRow+spec.height-1 {
		return r, nil
	}
	row := y - (spec.startRow + 1)
	if row >= 0 && row < len(r.personalityOpts) {
		value := r.personalityOpts[row].Value
		r.pickerIndex = row
		r.pickerOpen = false
		r.dispatchController(func(c Controller) { c.OnChangePersonality(value) })
	}
	return r, nil
}

func (r *Root) handleMouseWheel(msg tea.MouseWheelMsg) (tea.Model, tea.Cmd) {
	mouse := msg.Mouse()
	if r.mouseScope == "off" {
		return r, nil
	}
	delta := 0
	if mouse.Button == tea.MouseWheelUp {
		delta = -1
	} else if mouse.Button == tea.MouseWheelDown {
		delta = 1
	}
	if delta == 0 {
		return r, nil
	}
	switch r.screen {
	case ScreenDashboard:
		r.cardIndex = clampIndex(r.cardIndex+delta, len(r.dashboard.Cards))
	case ScreenChallenge:
		r.chatScroll -= delta
		if r.chatScroll < 0 {
			r.chatScroll = 0
		}
	}
	return r, nil
}

func (r *Root) openSelectedCard() {
	cards := r.dashboard.Cards
	if len(cards) == 0 {
		return
	}
	idx := clampIndex(r.cardIndex, len(cards))
	id := cards[idx].ID
	r.dispatchController(func(c Controller) { c.OnSelectChallenge(id) })
}

func (r *Root) cycleFilter() {
	if len(r.dashboard.Filters) == 0 {
		return
	}
	r.filterIndex = (r.filterIndex + 1) % len(r.dashboard.Filters)
	next := r.dashboard.Filters[r.filterIndex]
	r.cardIndex = 0
	r.dispatchController(func(c Controller) { c.OnFilterCategory(next) })
}

var bootBanner = []string{
	`  ____ ___ ____  _   _ _____ ____  _____ ___  ____   ____ _____ `,
	` / ___|_ _|  _ \| | | | ____|  _ \|  ___/ _ \|  _ \ / ___| ____|`,
	`| |    | || |_) | |_| |  _| | |_) | |_ | | | | |_) | |  _|  _|  `,
	`| |___ | ||  __/|  _  | |___|  _ <|  _|| |_| |  _ <| |_| | |___ `,
	` \____|___|_|   |_| |_|_____|_| \_\_|   \___/|_| \_\\____|_____|`,
}

func (r *Root) renderBoot() string {
	lines := make([]string, 0, len(bootBanner)+8)
	if r.cols >= 70 && !r.ascii {
		for _, l := range bootBanner {
			lines = append(lines, r.theme.Accent.Render(l))
		}
	} else {
		lines = append(lines, r.theme.Accent.Render("C I P H E R F O R G E"))
	}
	lines = append(lines, "")
	lines = append(lines, r.theme.Muted.Render("offensive security training grid"))
	lines = append(lines, "")
	lines = append(lines, r.theme.PanelBody.Render(fmt.Sprintf("challenges loaded: %d", r.header.Total)))
	lines = append(lines, r.theme.PanelBody.Render("host personality: "+firstNonEmptyStr(r.header.Personality, "unset")))
	lines = append(lines, "")
	lines = append(lines, r.theme.Pending.Render("[ENTER] initialize uplink    [ESC] abort"))

	block := strings.Join(lines, "\n")
	return lipgloss.Place(r.cols, r.rows, lipgloss.Center, lipgloss.Center, block)
}

func (r *Root) renderDashboard() string {
	w, h := r.cols, r.rows
	header := r.headerText()
	status := r.statusText()
	bodyH := max(3, h-2)

	gridW := w
	detailW := 0
	if r.layout == LayoutWide {
		detailW = min(50, max(34, w/3))
		gridW = w - detailW
	}

	grid := r.drawPanel(r.gridTitle(), r.cardLines(gridW-4), gridW, bodyH)
	body := grid
	if detailW > 0 {
		detail := r.drawPanel("Briefing", strings.Split(strings.TrimSuffix(r.cardDetailText(), "\n"), "\n"), detailW, bodyH)
		body = lipgloss.JoinHorizontal(lipgloss.Top, grid, detail)
	}
	return header + "\n" + body + "\n" + status
}

func (r *Root) gridTitle() string {
	filter := firstNonEmptyStr(r.dashboard.FilterLabel, "ALL")
	return "Challenges [" + filter + "]"
}

func (r *Root) dashboardColumns() int {
	// The grid renders one card per row; vertical navigation moves one
	// row, so the column span is 1.
	return 1
}

func (r *Root) visibleCardRows() int {
	return max(1, r.rows-2-2)
}

func (r *Root) cardWindowStart() int {
	rows := r.visibleCardRows()
	if r.cardIndex < rows {
		return 0
	}
	return r.cardIndex - rows + 1
}

func (r *Root) cardLines(width int) []string {
	cards := r.dashboard.Cards
	if len(cards) == 0 {
		return []string{"No challenges match this filter.", "", "Press c to change category, g to generate one."}
	}
	start := r.cardWindowStart()
	end := min(len(cards), start+r.visibleCardRows())
	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		card := cards[i]
		prefix := "  "
		if i == clampIndex(r.cardIndex, len(cards)) {
			prefix = "> "
		}
		mark := "[ ]"
		if card.Solved {
			mark = "[v]"
			if !r.ascii {
				mark = "[✓]"
			}
		}
		tag := ""
		if card.Synthesized {
			tag = " *GEN*"
		}
		line := fmt.Sprintf("%s%s %s  %s / %s  %dpts%s", prefix, mark, card.Title, card.CategoryLabel, card.Difficulty, card.Points, tag)
		lines = append(lines, trimForWidth(line, max(10, width)))
	}
	return lines
}

func (r *Root) cardDetailText() string {
	cards := r.dashboard.Cards
	if len(cards) == 0 {
		return "Nothing selected."
	}
	card := cards[clampIndex(r.cardIndex, len(cards))]
	var b strings.Builder
	b.WriteString(card.Title + "\n")
	b.WriteString(fmt.Sprintf("%s / %s\n", card.CategoryLabel, card.Difficulty))
	b.WriteString(fmt.Sprintf("Reward: %d points\n", card.Points))
	if card.Solved {
		b.WriteString("Status: SOLVED\n")
	} else {
		b.WriteString("Status: open\n")
	}
	if card.Synthesized {
		b.WriteString("Origin: synthesized this session\n")
	}
	b.WriteString("\nEnter: open    g: generate    c: category\np: personality    s: stats")
	return b.String()
}

func (r *Root) renderChallenge() string {
	w, h := r.cols, r.rows
	header := r.headerText()
	status := r.statusText()
	bodyH := max(3, h-2)

	if r.layout == LayoutWide {
		chatW := min(60, max(40, w/3))
		briefW := w - chatW
		brief := r.drawPanel("Briefing", r.briefingLines(briefW-4, bodyH-2), briefW, bodyH)
		chat := r.drawPanel("Uplink", r.chatLines(chatW-4, bodyH-2), chatW, bodyH)
		return header + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, brief, chat) + "\n" + status
	}

	briefH := max(3, bodyH*2/3)
	chatH := max(3, bodyH-briefH)
	brief := r.drawPanel("Briefing", r.briefingLines(w-4, briefH-2), w, briefH)
	chat := r.drawPanel("Uplink", r.chatLines(w-4, chatH-2), w, chatH)
	return header + "\n" + brief + "\n" + chat + "\n" + status
}

func (r *Root) briefingLines(width, height int) []string {
	ch := r.challenge
	lines := make([]string, 0, height)
	lines = append(lines, fmt.Sprintf("%s  [%s / %s]  %dpts", ch.Title, ch.CategoryLabel, ch.Difficulty, ch.Points))
	if ch.Solved {
		lines = append(lines, r.theme.Solved.Render("SOLVED"))
	}
	lines = append(lines, "")

	desc := strings.TrimSpace(ch.Description)
	if r.markdown != nil && desc != "" {
		if rendered, err := r.markdown.Render(desc); err == nil {
			desc = strings.TrimSpace(ansi.Strip(rendered))
		}
	}
	for _, l := range wrapText(desc, max(10, width)) {
		lines = append(lines, l)
	}
	if strings.TrimSpace(ch.Content) != "" {
		lines = append(lines, "", "── data ──")
		for _, l := range wrapText(ch.Content, max(10, width)) {
			lines = append(lines, l)
		}
	}
	lines = append(lines, "")

	flagMarker := "  "
	if r.focus == focusFlag {
		flagMarker = "> "
	}
	lines = append(lines, flagMarker+"FLAG: "+r.flagInput.View())
	lines = append(lines, "")
	lines = append(lines, r.theme.Muted.Render("Tab: switch field  Enter: submit  F1: hint  Esc: dashboard"))

	for i := range lines {
		lines[i] = trimForWidth(lines[i], max(10, width))
	}
	if len(lines) > height && height > 0 {
		lines = lines[:height]
	}
	return lines
}

func (r *Root) chatLines(width, height int) []string {
	inputRows := 2
	msgRows := max(1, height-inputRows)

	rendered := make([]string, 0, len(r.conversation)*2)
	for _, m := range r.conversation {
		style := r.theme.Operator
		label := "you"
		switch m.Sender {
		case "assistant":
			style = r.theme.Assistant
			label = "host"
		case "system":
			style = r.theme.System
			label = "sys"
		}
		prefix := fmt.Sprintf("[%s %s] ", m.Stamp, label)
		wrapped := wrapText(m.Text, max(10, width-2))
		for i, l := range wrapped {
			if i == 0 {
				rendered = append(rendered, style.Render(trimForWidth(prefix+l, max(10, width))))
			} else {
				rendered = append(rendered, style.Render(trimForWidth("  "+l, max(10, width))))
			}
		}
	}

	start := len(rendered) - msgRows - r.chatScroll
	if start < 0 {
		start = 0
	}
	end := min(len(rendered), start+msgRows)
	lines := append([]string(nil), rendered[start:end]...)
	for len(lines) < msgRows {
		lines = append(lines, "")
	}

	chatMarker := "  "
	if r.focus == focusChat {
		chatMarker = "> "
	}
	inputLine := chatMarker + r.chatInput.View()
	if r.assistantBusy {
		inputLine = chatMarker + strings.TrimSpace(r.busySpin.View()) + " awaiting host..."
	}
	lines = append(lines, trimForWidth(inputLine, max(10, width)))
	return lines
}

func (r *Root) renderOverlay() string {
	spec, ok := r.overlaySpec(r.topOverlay())
	if !ok {
		return ""
	}
	return r.drawPanel(spec.title, spec.lines, spec.width, spec.height)
}

type overlaySpec struct {
	title    string
	lines    []string
	width    int
	height   int
	startRow int
	startCol int
}

func (r *Root) overlaySpec(top string) (overlaySpec, bool) {
	if top == "" {
		return overlaySpec{}, false
	}
	w := min(max(48, r.cols/2), r.cols)
	var title string
	var lines []string
	switch top {
	case "picker":
		title = "Host Personality"
		for i, opt := range r.personalityOpts {
			prefix := "  "
			if i == r.pickerIndex {
				prefix = "> "
			}
			marker := "   "
			if opt.Selected {
				marker = " * "
			}
			lines = append(lines, prefix+marker+opt.Label)
		}
		lines = append(lines, "", "Enter: select    Esc: close")
	case "info":
		title = firstNonEmptyStr(r.infoTitle, "Info")
		lines = strings.Split(strings.TrimSuffix(r.infoText, "\n"), "\n")
		lines = append(lines, "", "Esc/q: close")
	default:
		return overlaySpec{}, false
	}
	if len(lines) == 0 {
		lines = []string{"(empty)"}
	}
	h := min(len(lines)+2, max(8, r.rows-4))
	return overlaySpec{
		title:    title,
		lines:    lines,
		width:    w,
		height:   h,
		startRow: (r.rows - h) / 2,
		startCol: (r.cols - w) / 2,
	}, true
}

func (r *Root) topOverlay() string {
	switch {
	case r.infoOpen:
		return "info"
	case r.pickerOpen:
		return "picker"
	}
	return ""
}

func (r *Root) overlayActive() bool {
	return r.topOverlay() != ""
}

func (r *Root) headerText() string {
	width := max(1, r.cols-1)
	rank := firstNonEmptyStr(r.header.Rank, "Script Kiddie")
	parts := []string{
		"CIPHERFORGE",
		fmt.Sprintf("Score: %06d", r.header.Score),
		rank,
		fmt.Sprintf("Solved: %d/%d", r.header.SolvedCount, r.header.Total),
	}
	if r.header.Personality != "" {
		parts = append(parts, "Host: "+r.header.Personality)
	}
	txt := strings.Join(parts, " | ")
	txt = trimForWidth(txt, width)
	if r.debug {
		txt = fmt.Sprintf("%s | %dx%d %v", txt, r.cols, r.rows, r.layout)
		txt = trimForWidth(txt, width)
	}
	return r.theme.Header.Width(max(1, r.cols)).Render(txt)
}

func (r *Root) statusText() string {
	keys := r.help.View(r.keymap)
	if keys == "" {
		keys = "Enter Open  g Generate  c Category  p Personality  s Stats  Ctrl+Q Quit"
	}
	if r.generating {
		keys += " | " + r.theme.Accent.Render(strings.TrimSpace(r.busySpin.View())+" Generating...")
	}
	if r.statusFlash != "" {
		keys += " | " + r.statusFlash
	}
	keys = trimForWidth(keys, max(1, r.cols-1))
	return r.theme.Status.Width(max(1, r.cols)).Render(keys)
}

func (r *Root) drawPanel(title string, lines []string, width, height int) string {
	width = max(4, width)
	height = max(3, height)
	innerW := width - 2
	innerH := height - 2

	h := "─"
	v := "│"
	tl := "┌"
	tr := "┐"
	bl := "└"
	br := "┘"
	if r.ascii {
		h = "-"
		v = "|"
		tl, tr, bl, br = "+", "+", "+", "+"
	}

	top := tl + strings.Repeat(h, innerW) + tr
	if title != "" && innerW > 2 {
		t := " " + title + " "
		runes := []rune(top)
		start := 1
		for i, ch := range []rune(t) {
			pos := start + i
			if pos >= len(runes)-1 {
				break
			}
			runes[pos] = ch
		}
		top = string(runes)
	}

	out := make([]string, 0, height)
	out = append(out, r.theme.PanelBorder.Render(top))
	for row := 0; row < innerH; row++ {
		line := ""
		if row < len(lines) {
			line = lines[row]
		}
		line = padRune(line, innerW)
		out = append(out, r.theme.PanelBorder.Render(v)+r.theme.PanelBody.Render(line)+r.theme.PanelBorder.Render(v))
	}
	out = append(out, r.theme.PanelBorder.Render(bl+strings.Repeat(h, innerW)+br))
	return strings.Join(out, "\n")
}

func (r *Root) animateIfNeeded() tea.Cmd {
	target := 0.0
	if r.pickerOpen {
		target = 1.0
	}
	if r.shouldAnimate(target) {
		return animateTickCmd()
	}
	return nil
}

func (r *Root) shouldAnimate(target float64) bool {
	if r.motionLevel == "off" {
		return false
	}
	if target > 0 {
		return r.overlayPos < 0.999 || abs(r.overlayVel) > 0.001
	}
	return r.overlayPos > 0.001 || abs(r.overlayVel) > 0.001
}

func (r *Root) currentMouseMode() tea.MouseMode {
	switch r.mouseScope {
	case "off":
		return tea.MouseModeNone
	case "full":
		return tea.MouseModeCellMotion
	default:
		if r.screen == ScreenChallenge && !r.overlayActive() {
			return tea.MouseModeNone
		}
		return tea.MouseModeCellMotion
	}
}

func clockTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return clockMsg(t) })
}

func animateTickCmd() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return animateMsg(t) })
}

func spinnerTickCmd(model spinner.Model) tea.Cmd {
	return func() tea.Msg {
		return model.Tick()
	}
}

func normalizeStyleVariant(v string) string {
	switch strings.TrimSpace(v) {
	case "phosphor", "midnight", "neon_grid":
		return strings.TrimSpace(v)
	default:
		return "neon_grid"
	}
}

func normalizeMotionLevel(v string) string {
	switch strings.TrimSpace(v) {
	case "off", "reduced", "full":
		return strings.TrimSpace(v)
	default:
		return "full"
	}
}

func normalizeMouseScope(v string) string {
	switch strings.TrimSpace(v) {
	case "off", "scoped", "full":
		return strings.TrimSpace(v)
	default:
		return "scoped"
	}
}

func (r *Root) recordInputEvent(event string) {
	r.lastInputEvent = trimForWidth(strings.TrimSpace(event), 160)
}

func (r *Root) onModelPanic(where string, recovered any, msg tea.Msg) {
	if r.statusFlash == "" {
		r.statusFlash = "Recovered UI panic"
	}
	message := fmt.Sprintf("%v", recovered)
	msgType := ""
	if msg != nil {
		msgType = fmt.Sprintf("%T", msg)
	}
	r.logger.Error("ui.panic_recovered", map[string]any{
		"where":       where,
		"panic":       message,
		"messageType": msgType,
		"screen":      r.screen,
		"cols":        r.cols,
		"rows":        r.rows,
		"overlay":     r.topOverlay(),
		"last_input":  r.lastInputEvent,
		"stack":       string(debug.Stack()),
	})
}

func firstNonEmptyStr(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return a
	}
	return b
}

func wrapIndex(i, n int) int {
	if n <= 0 {
		return 0
	}
	if i < 0 {
		i = n - 1
	}
	if i >= n {
		i = 0
	}
	return i
}

func clampIndex(i, n int) int {
	if n <= 0 {
		return 0
	}
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func padRune(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(strings.ReplaceAll(s, "\t", "    "))
	if len(r) > width {
		r = r[:width]
	}
	if len(r) < width {
		r = append(r, []rune(strings.Repeat(" ", width-len(r)))...)
	}
	return string(r)
}

func wrapText(s string, width int) []string {
	if width <= 0 {
		return nil
	}
	out := make([]string, 0, 4)
	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		line := ""
		for _, word := range words {
			if line == "" {
				line = word
				continue
			}
			if len([]rune(line))+1+len([]rune(word)) > width {
				out = append(out, line)
				line = word
				continue
			}
			line += " " + word
		}
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// composeOverlayAt splices an overlay block into the base frame at a
// fixed position. Both sides are stripped of ANSI sequences first so
// the rune splice cannot land inside an escape.
func composeOverlayAt(base, overlay string, cols, rows, startRow, startCol int) string {
	if cols <= 0 || rows <= 0 {
		return base
	}
	base = ansi.Strip(base)
	overlay = ansi.Strip(overlay)
	baseLines := strings.Split(base, "\n")
	if len(baseLines) < rows {
		pad := make([]string, rows-len(baseLines))
		baseLines = append(baseLines, pad...)
	}
	for i := 0; i < rows; i++ {
		baseLines[i] = padRune(baseLines[i], cols)
	}

	overlayLines := strings.Split(strings.TrimRight(overlay, "\n"), "\n")
	if len(overlayLines) == 0 {
		return strings.Join(baseLines[:rows], "\n")
	}
	ow := 1
	for _, line := range overlayLines {
		lw := len([]rune(line))
		if lw > ow {
			ow = lw
		}
	}
	if ow > cols {
		ow = cols
	}
	oh := len(overlayLines)
	if oh > rows {
		oh = rows
	}
	if startCol < 0 {
		startCol = 0
	}

	for i := 0; i < oh; i++ {
		row := startRow + i
		if row < 0 || row >= rows {
			continue
		}
		dst := []rune(baseLines[row])
		src := []rune(overlayLines[i])
		if len(src) > ow {
			src = src[:ow]
		}
		for j := 0; j < ow && startCol+j < len(dst); j++ {
			dst[startCol+j] = ' '
		}
		for j := 0; j < len(src) && startCol+j < len(dst); j++ {
			dst[startCol+j] = src[j]
		}
		baseLines[row] = string(dst)
	}
	return strings.Join(baseLines[:rows], "\n")
}

func trimForWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(strings.ReplaceAll(ansi.Strip(s), "\n", " "))
	if len(r) <= width {
		return string(r)
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}

var _ tea.Model = (*Root)(nil)
var _ View = (*Root)(nil)
