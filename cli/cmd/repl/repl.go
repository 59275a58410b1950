package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/pyx/lang"
	"github.com/ardnew/pyx/log"
)

// editDoneMsg is sent when the editor replaced the session.
type editDoneMsg struct{}

// editCancelledMsg is sent when the user cleared the editor content.
type editCancelledMsg struct{}

// editDeclinedMsg is sent when the user declined to re-edit after a
// compile error.
type editDeclinedMsg struct{}

// editErrorMsg is sent when the edit process fails.
type editErrorMsg struct{ err error }

const (
	sourcePrompt = "➜ "
	morePrompt   = "… "
	ctrlPrompt   = " :"
)

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode):

  help         Print this text
  list         List names bound by the session
  source       Print the session's pyx source
  python       Print the session transpiled to Python
  edit         Edit the session in $EDITOR
  save <file>  Write the session's pyx source to file
  reset        Discard the session
  clear        Clear screen
  quit         Exit REPL

Usage:
  Type a pyx statement to print its Python translation
  End a line with ':' to start a block; an empty line ends it
  Completions appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Use Up/Down arrows for history navigation (mode switches automatically)
  Use Shift+Up/Shift+Down for history navigation within current mode only
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// inputMode represents the current input mode.
type inputMode int

const (
	modeSource inputMode = iota
	modeCtrl
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc      func() context.Context
	input        textinput.Model
	session      *Session
	logger       log.Logger
	history      *History
	historyIdx   int
	matches      fuzzy.Matches // current fuzzy match results
	candidates   []string
	wordStart    int
	wordEnd      int
	suggIdx      int
	tabActive    bool
	preTabText   string
	preTabCursor int
	width        int
	quitting     bool
	mode         inputMode
	sourceText   string
	sourceCursor int
	ctrlText     string
	ctrlCursor   int
}

// Run starts the REPL. If src is not nil, its content seeds the session.
// History is kept in cacheDir.
func Run(
	ctx context.Context,
	src io.Reader,
	cacheDir string,
	logger log.Logger,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	session := NewSession(lang.WithLogger(logger))

	if src != nil {
		data, err := lang.ReadSource(src)
		if err != nil {
			return err
		}

		if err := session.Replace(ctx, string(data)); err != nil {
			return err
		}
	}

	logger.TraceContext(ctx, "repl session loaded",
		slog.Int("symbols", len(session.Symbols())))

	history := NewHistory(filepath.Join(cacheDir, baseHistory))
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history", slog.Any("error", err))
	}

	p := tea.NewProgram(newModel(ctx, session, history, logger), tea.WithContext(ctx))
	_, err = p.Run()

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	session *Session,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(sourcePrompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		session:    session,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
		mode:       modeSource,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(sourcePrompt) - 2

		return m, nil

	case editDoneMsg:
		m.logger.TraceContext(m.ctxFunc(), "repl edit complete",
			slog.Int("symbols", len(m.session.Symbols())))

		return m, tea.Println(resultStyle.Render("✔ session updated"))

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("edit cancelled"))

	case editDeclinedMsg:
		m.quitting = true

		return m, tea.Quit

	case editErrorMsg:
		return m, tea.Println(errorStyle.Render("error: " + msg.err.Error()))
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	input := m.input.Value()
	call := detectFunctionCall(input, m.input.Position())

	switch {
	case m.historyIdx < m.history.Len():
		hint := fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len())
		b.WriteString(hintStyle.Render(hint))

	case strings.TrimSpace(input) == "":
		hint := "Type a pyx statement or press Esc for commands"

		switch {
		case m.mode == modeCtrl:
			hint = "Type: " + strings.Join(ctrlCommands, ", ") + " (press Esc to return)"
		case m.session.Pending():
			hint = "Continue the block, or enter an empty line to end it"
		}

		b.WriteString(hintStyle.Render(hint))

	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width))

	case call.inCall && m.mode == modeSource:
		if params, ok := m.session.Signature(call.name); ok {
			b.WriteString(renderSignatureHint(call.name, params, call.argIndex))
		}
	}

	b.WriteString("\n")

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		refreshMatches(&m, false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if !m.tabActive || len(m.matches) == 0 {
			return m.executeInput()
		}

		// Lock in the current tab candidate without executing.
		m.tabActive = false
		refreshMatches(&m, true)

		return m, nil

	case tea.KeyTab:
		return m.cycle(1)

	case tea.KeyShiftTab:
		return m.cycle(-1)

	case tea.KeyUp:
		return m.historyStep(-1, false)

	case tea.KeyDown:
		return m.historyStep(1, false)

	case tea.KeyShiftUp:
		return m.historyStep(-1, true)

	case tea.KeyShiftDown:
		return m.historyStep(1, true)

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m, false)

			return m, nil
		}

		if m.mode == modeSource {
			return m.switchToMode(modeCtrl), nil
		}

		return m.switchToMode(modeSource), nil

	case tea.KeyRunes, tea.KeySpace:
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m, true)

		return m, cmd
	}

	// Backspace, delete, cursor keys, and the like edit without
	// auto-confirming a completion.
	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

// cycle moves the tab selection by step. A sole candidate is accepted at
// once.
func (m model) cycle(step int) (model, tea.Cmd) {
	n := len(m.matches)
	if n == 0 {
		return m, nil
	}

	if n == 1 {
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m, nil
	}

	if m.tabActive {
		m.suggIdx = (m.suggIdx + step + n) % n
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		m.suggIdx = 0
		if step < 0 {
			m.suggIdx = n - 1
		}
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m, nil
}

// replaceCurrentWord replaces the current word in the input with
// replacement and moves the cursor after it.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	cursor := m.wordStart + len(replacement)

	m.input.SetValue(input[:m.wordStart] + replacement + input[m.wordEnd:])
	m.input.SetCursor(cursor)

	m.wordEnd = cursor
}

// refreshMatches recomputes fuzzy matches for the current input. When
// autoConfirm is set and the typed word already equals the sole candidate,
// the completion is accepted.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.candidates, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	if m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	raw := m.input.Value()
	input := strings.TrimSpace(raw)

	m.sourceText, m.sourceCursor = "", 0
	m.ctrlText, m.ctrlCursor = "", 0
	m.input.SetValue("")
	m.matches = nil

	if m.mode == modeCtrl {
		if input == "" {
			return m, nil
		}

		m.addHistory(input)

		return m.executeCommand(input)
	}

	// An empty line matters only when it ends a block.
	if input == "" && !m.session.Pending() {
		return m, nil
	}

	m.addHistory(raw)

	prompt := sourcePrompt
	if m.session.Pending() {
		prompt = morePrompt
	}

	echo := tea.Println(promptStyle.Render(prompt) + inputStyle.Render(raw))

	py, src, more, err := m.session.Eval(m.ctxFunc(), raw)

	m.logger.TraceContext(m.ctxFunc(), "repl eval",
		slog.String("input", raw),
		slog.Bool("more", more),
		slog.Bool("ok", err == nil))

	m.input.Prompt = promptStyle.Render(sourcePrompt)
	if more {
		m.input.Prompt = promptStyle.Render(morePrompt)
	}

	switch {
	case err != nil:
		return m, tea.Sequence(echo,
			tea.Println(errorStyle.Render(lang.Describe(err, []byte(src)))))
	case more:
		return m, echo
	default:
		return m, tea.Sequence(echo,
			tea.Println(resultStyle.Render(strings.TrimRight(py, "\n"))))
	}
}

func (m model) addHistory(line string) {
	if err := m.history.Add(line, m.mode); err != nil {
		m.logger.DebugContext(m.ctxFunc(), "history write failed", slog.Any("error", err))
	}
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	parts := strings.Fields(input)
	echo := tea.Println(ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input))

	cmd, args := parts[0], parts[1:]

	m.logger.TraceContext(m.ctxFunc(), "repl command",
		slog.String("command", cmd),
		slog.Any("args", args))

	switch cmd {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echo, tea.Println(helpMessage()))

	case "l", "list":
		return m, tea.Sequence(echo, tea.Println(m.listSymbols()))

	case "source":
		return m, tea.Sequence(echo, tea.Println(m.session.Source()))

	case "python":
		py, err := m.session.Python(m.ctxFunc())
		if err != nil {
			return m, tea.Sequence(echo, tea.Println(errorStyle.Render(err.Error())))
		}

		return m, tea.Sequence(echo, tea.Println(resultStyle.Render(py)))

	case "s", "save":
		if len(args) != 1 {
			return m, tea.Sequence(echo,
				tea.Println(errorStyle.Render(ErrUsage.Error()+": save <file>")))
		}

		if err := os.WriteFile(args[0], []byte(m.session.Source()), 0o644); err != nil { //nolint:gosec
			return m, tea.Sequence(echo, tea.Println(errorStyle.Render(err.Error())))
		}

		return m, tea.Sequence(echo, tea.Println(hintStyle.Render("wrote "+args[0])))

	case "reset":
		m.session.Reset()
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)

		return m, tea.Sequence(echo, tea.Println(hintStyle.Render("session discarded")))

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		return m, tea.Sequence(echo, m.edit())

	default:
		return m, tea.Println(
			errorStyle.Render("Unknown command: " + cmd + " (try 'help')"),
		)
	}
}

func (m model) edit() tea.Cmd {
	cmd := &editCommand{
		session: m.session,
		ctxFunc: m.ctxFunc,
		logger:  m.logger,
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editDeclinedMsg{}
		case err != nil:
			return editErrorMsg{err: err}
		case !cmd.replaced:
			return editCancelledMsg{}
		default:
			return editDoneMsg{}
		}
	})
}

func (m model) listSymbols() string {
	var b strings.Builder

	for _, name := range m.session.Symbols() {
		b.WriteString("  " + name)

		if params, ok := m.session.Signature(name); ok {
			b.WriteString(hintStyle.Render("(" + strings.Join(params, ", ") + ")"))
		}

		b.WriteString("\n")
	}

	return b.String()
}

// historyStep moves through history by step. With sameMode set, entries
// of the other mode are skipped; otherwise the mode follows the entry.
func (m model) historyStep(step int, sameMode bool) (model, tea.Cmd) {
	for i := m.historyIdx + step; i >= 0 && i < m.history.Len(); i += step {
		entry, err := m.history.Entry(i)
		if err != nil || (sameMode && entry.Mode != m.mode) {
			continue
		}

		if entry.Mode != m.mode {
			m = m.switchToMode(entry.Mode)
		}

		m.historyIdx = i
		m.input.SetValue(entry.Line)
		m.input.SetCursor(len(entry.Line))
		refreshMatches(&m, false)

		return m, nil
	}

	if step > 0 && m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		refreshMatches(&m, false)
	}

	return m, nil
}

// switchToMode switches to mode, saving and restoring each mode's input.
func (m model) switchToMode(mode inputMode) model {
	if m.mode == modeSource {
		m.sourceText, m.sourceCursor = m.input.Value(), m.input.Position()
	} else {
		m.ctrlText, m.ctrlCursor = m.input.Value(), m.input.Position()
	}

	m.mode = mode

	if mode == modeSource {
		prompt := sourcePrompt
		if m.session.Pending() {
			prompt = morePrompt
		}

		m.input.Prompt = promptStyle.Render(prompt)
		m.input.SetValue(m.sourceText)
		m.input.SetCursor(m.sourceCursor)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
		m.input.SetValue(m.ctrlText)
		m.input.SetCursor(m.ctrlCursor)
	}

	refreshMatches(&m, false)

	return m
}
