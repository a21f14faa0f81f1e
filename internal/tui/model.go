// Package tui is an interactive line-at-a-time assembler. Every accepted line
// is shown with the bytes it produced; a rejected line is reported and
// forgotten.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"asm6502/internal/session"
	"asm6502/pkg/asm"
	"asm6502/pkg/diag"
)

type entryKind int

const (
	entrySource entryKind = iota // accepted line and its bytes
	entryValue                   // expression result
	entryInfo                    // command output
	entryError
)

type entry struct {
	kind entryKind
	text string
}

const helpText = "enter: assemble  =expr: evaluate  :list :symbols :ast :clear :help  esc: quit"

// Model is the Bubbletea model of the session screen
type Model struct {
	width  int
	height int
	ready  bool

	input    textinput.Model
	viewport viewport.Model

	session *session.Session
	entries []entry

	history      []string
	historyIndex int // -1 when not browsing
}

func New(opts asm.Options) Model {
	ti := textinput.New()
	ti.Placeholder = "LDA #$01"
	ti.Prompt = "> "
	ti.CharLimit = 256
	ti.Focus()

	return Model{
		input:        ti,
		session:      session.New(opts),
		historyIndex: -1,
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			line := m.input.Value()
			m.input.SetValue("")
			m.historyIndex = -1
			if strings.TrimSpace(line) != "" {
				m.history = append(m.history, line)
			}
			if m.execute(line) {
				return m, tea.Quit
			}
			m.refresh()
			return m, nil
		case "up":
			m.browseHistory(-1)
			return m, nil
		case "down":
			m.browseHistory(1)
			return m, nil
		case "pgup", "pgdown":
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 2
		footerHeight := 5 // input box + status + help
		viewportHeight := max(msg.Height-headerHeight-footerHeight, 1)

		if !m.ready {
			m.viewport = viewport.New(msg.Width, viewportHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = viewportHeight
		}
		m.input.Width = msg.Width - 8
		m.refresh()
	}

	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// execute runs one input line and reports whether the user asked to quit.
func (m *Model) execute(line string) bool {
	trimmed := strings.TrimSpace(line)
	switch {
	case strings.HasPrefix(trimmed, "="):
		v, err := m.session.Eval(trimmed[1:])
		if err != nil {
			m.push(entryError, err.Error()+pointAt(trimmed[1:], 1, err))
			return false
		}
		m.push(entryValue, fmt.Sprintf("%s = %d ($%X)", strings.TrimSpace(trimmed[1:]), v, v))
		return false

	case strings.HasPrefix(trimmed, ":"):
		return m.command(trimmed[1:])
	}

	lineNo := len(m.session.Lines()) + 1
	res, err := m.session.Submit(line)
	if err != nil {
		m.push(entryError, err.Error()+pointAt(line, lineNo, err))
		return false
	}
	if len(res.Emitted) == 0 {
		m.push(entrySource, "                  "+res.Line)
		return false
	}
	for _, l := range res.Emitted {
		m.push(entrySource, formatListingLine(l))
	}
	return false
}

func (m *Model) command(name string) bool {
	switch name {
	case "q", "quit":
		return true
	case "list":
		if text := m.session.Program().ListingString(); text != "" {
			m.push(entryInfo, strings.TrimRight(text, "\n"))
		} else {
			m.push(entryInfo, "(no code)")
		}
	case "symbols":
		m.push(entryInfo, strings.TrimRight(m.session.Symbols(), "\n"))
	case "ast":
		if text := m.session.AST(); text != "" {
			m.push(entryInfo, strings.TrimRight(text, "\n"))
		} else {
			m.push(entryInfo, "(empty program)")
		}
	case "clear":
		m.session.Clear()
		m.entries = nil
	case "help":
		m.push(entryInfo, helpText)
	default:
		m.push(entryError, fmt.Sprintf("unknown command :%s", name))
	}
	return false
}

// pointAt echoes src with a caret under the column err reports, when err
// points into src as line number line.
func pointAt(src string, line int, err error) string {
	pos := diag.PosOf(err)
	if pos.Line != line || pos.Col < 1 || pos.Col > len(src)+1 {
		return ""
	}
	return "\n  " + src + "\n  " + strings.Repeat(" ", pos.Col-1) + "^"
}

func (m *Model) push(kind entryKind, text string) {
	m.entries = append(m.entries, entry{kind: kind, text: text})
}

func (m *Model) browseHistory(dir int) {
	if len(m.history) == 0 {
		return
	}
	switch {
	case m.historyIndex == -1 && dir < 0:
		m.historyIndex = len(m.history) - 1
	case m.historyIndex == -1:
		return
	default:
		m.historyIndex += dir
	}
	if m.historyIndex >= len(m.history) {
		m.historyIndex = -1
		m.input.SetValue("")
		return
	}
	if m.historyIndex < 0 {
		m.historyIndex = 0
	}
	m.input.SetValue(m.history[m.historyIndex])
	m.input.CursorEnd()
}

func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderEntries())
	m.viewport.GotoBottom()
}

func formatListingLine(l asm.ListingLine) string {
	hex := make([]string, len(l.Bytes))
	for i, b := range l.Bytes {
		hex[i] = fmt.Sprintf("%02X", b)
	}
	return fmt.Sprintf("$%04X  %-8s  %s", l.Addr, strings.Join(hex, " "), l.Source)
}

func (m Model) renderEntries() string {
	lines := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		switch e.kind {
		case entrySource:
			lines = append(lines, renderSource(e.text))
		case entryValue:
			lines = append(lines, ValueStyle.Render(e.text))
		case entryInfo:
			lines = append(lines, InfoStyle.Render(e.text))
		case entryError:
			lines = append(lines, ErrorMessageStyle.Render("error: "+e.text))
		}
	}
	return strings.Join(lines, "\n")
}

// renderSource colours the address, bytes and source columns of a listing
// line.
func renderSource(text string) string {
	if len(text) < 18 || text[0] != '$' {
		return SourceStyle.Render(text)
	}
	return AddrStyle.Render(text[:7]) + BytesStyle.Render(text[7:17]) + SourceStyle.Render(text[17:])
}

func (m Model) View() string {
	if !m.ready {
		return "starting..."
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("asm6502"))
	b.WriteString("\n\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(InputStyle.Width(max(m.width-2, 10)).Render(m.input.View()))
	b.WriteString("\n")

	prog := m.session.Program()
	status := fmt.Sprintf("origin $%04X  %d lines  %d bytes", prog.Origin, len(m.session.Lines()), len(prog.Code))
	b.WriteString(StatusBarStyle.Render(status))
	b.WriteString("\n")
	b.WriteString(HelpStyle.Render(helpText))
	return b.String()
}

// Run starts the session TUI
func Run(opts asm.Options) error {
	p := tea.NewProgram(New(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
