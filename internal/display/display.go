// Package display provides terminal output and the interactive cook mode.
//
// The [CookUI] type runs a Bubble Tea program over a loaded
// [viewmodel.CookViewModel]. It subscribes to the completion state of
// every step and redraws when any of them changes; the status bar at the
// bottom shows elapsed time and progress.
package display

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hammamikhairi/recipebook/internal/duration"
	"github.com/hammamikhairi/recipebook/internal/viewmodel"
)

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Quit   key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var keys = keyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Toggle: key.NewBinding(key.WithKeys(" ", "enter", "x"), key.WithHelp("space", "done/undo")),
	Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

// CookUI runs cook mode for one recipe.
type CookUI struct {
	vm      *viewmodel.CookViewModel
	program *tea.Program

	mu      sync.Mutex
	cancels []func()
}

// NewCookUI creates the display for a loaded cook view model.
func NewCookUI(vm *viewmodel.CookViewModel) *CookUI {
	return &CookUI{vm: vm}
}

// Run starts the Bubble Tea event loop. Blocks until the user quits.
func (u *CookUI) Run() error {
	u.program = tea.NewProgram(newCookModel(u.vm), tea.WithAltScreen())

	u.subscribe()
	cancelSteps := u.vm.Steps.Subscribe(func([]*viewmodel.CookStepViewModel) {
		u.subscribe()
		u.program.Send(stepsChangedMsg{})
	})
	defer cancelSteps()
	defer u.unsubscribe()

	_, err := u.program.Run()
	return err
}

// subscribe (re)attaches to the completion state of every current step.
func (u *CookUI) subscribe() {
	u.unsubscribe()
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, s := range u.vm.Steps.Items() {
		u.cancels = append(u.cancels, s.IsCompleted.Subscribe(func(bool) {
			u.program.Send(stepsChangedMsg{})
		}))
	}
}

func (u *CookUI) unsubscribe() {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, cancel := range u.cancels {
		cancel()
	}
	u.cancels = nil
}

// ── Bubble Tea model ─────────────────────────────────────────────

type cookModel struct {
	vm     *viewmodel.CookViewModel
	cursor int
	help   help.Model
	width  int
	err    error
}

// Messages.
type (
	tickMsg         time.Time
	stepsChangedMsg struct{}
	toggledMsg      struct{ err error }
)

func newCookModel(vm *viewmodel.CookViewModel) cookModel {
	return cookModel{vm: vm, help: help.New()}
}

func (m cookModel) Init() tea.Cmd {
	return tea.Batch(tickCmd(), tea.SetWindowTitle(m.vm.Title.Get()))
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// toggleCmd flips a step outside Update; the step's subscribers send
// messages to the program and must not run inside the event loop.
func toggleCmd(vm *viewmodel.CookViewModel, index int) tea.Cmd {
	return func() tea.Msg {
		return toggledMsg{err: vm.Toggle(index)}
	}
}

func (m cookModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < m.vm.Steps.Len()-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Toggle):
			return m, toggleCmd(m.vm, m.cursor)
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case toggledMsg:
		m.err = msg.err
		return m, nil

	case stepsChangedMsg:
		if n := m.vm.Steps.Len(); m.cursor >= n {
			m.cursor = max(n-1, 0)
		}
		return m, nil

	case tickMsg:
		return m, tickCmd()
	}
	return m, nil
}

func (m cookModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.vm.Title.Get()))
	b.WriteString("\n\n")

	steps := m.vm.Steps.Items()
	stops := m.vm.StopTimes()
	planned := m.vm.PlannedStopMinutes()
	for i, s := range steps {
		b.WriteString(m.renderStep(i, s, stops[i], planned[i]))
	}

	if m.err != nil {
		b.WriteString(RenderError(m.err))
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	b.WriteString(m.renderBar())
	b.WriteByte('\n')
	b.WriteString(m.help.View(keys))
	return b.String()
}

func (m cookModel) renderStep(i int, s *viewmodel.CookStepViewModel, stop time.Duration, plannedStop int) string {
	var b strings.Builder

	pointer := "  "
	if i == m.cursor {
		pointer = cursorStyle.Render("> ")
	}
	box := "[ ]"
	text := s.Instructions.Get()
	line := primaryStyle.Render(text)
	if s.IsCompleted.Get() {
		box = "[x]"
		line = doneStyle.Render(text)
	}

	b.WriteString(pointer + stepStyle.Render(fmt.Sprintf("%s %d.", box, i+1)) + " " + line)
	if s.IsCompleted.Get() {
		b.WriteString(labelStyle.Render("  at ") + timerRunStyle.Render(fmtDuration(stop)))
	}
	if s.PlannedMinutes > 0 {
		b.WriteString(secondaryStyle.Render("  (plan " + duration.FromMinutes(plannedStop) + ")"))
	}
	b.WriteByte('\n')

	if i == m.cursor {
		for _, ing := range s.Ingredients.Items() {
			b.WriteString(secondaryStyle.Render("      - " + ing))
			b.WriteByte('\n')
		}
		for _, in := range s.OtherInputs.Items() {
			b.WriteString(secondaryStyle.Render("      + " + in))
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (m cookModel) renderBar() string {
	done, total := m.vm.Progress()
	parts := []string{
		labelStyle.Render("elapsed: ") + timerRunStyle.Render(fmtDuration(m.vm.Elapsed())),
		labelStyle.Render(fmt.Sprintf("%d/%d steps", done, total)),
	}
	if m.vm.Completed() {
		parts = append(parts, stepStyle.Render("done!"))
	}

	content := " " + strings.Join(parts, sepStyle.Render("  │  ")) + " "

	w := m.width
	if w <= 0 {
		w = 80
	}
	return barBg.Width(w).Render(content)
}

// ── Helpers ──────────────────────────────────────────────────────

func fmtDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm%02ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}
