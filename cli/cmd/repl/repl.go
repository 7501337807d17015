package repl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/spipe/lang"
	"github.com/ardnew/spipe/log"
	"github.com/ardnew/spipe/pipe"
)

// editDoneMsg is sent when the external editor exits.
type editDoneMsg struct {
	text string
	err  error
}

const (
	evalPrompt = "=> "
	ctrlPrompt = " :"
)

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode):

  help     Print this cruft
  steps    Show what each step marker expands to
  fmt      Print the last pipeline in canonical form
  lint     Lint the last pipeline
  words    List the names offered for completion
  edit     Edit the pipeline in external $EDITOR
  clear    Clear screen and forget cached expansions
  quit     Exit REPL

Usage:
  Type a pipeline to print its expansion
  Completions appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Press Space to accept the current candidate
  Press Esc to toggle between pipeline and command modes
  Use Up/Down arrows for history navigation (mode switches automatically)
  Use Shift+Up/Shift+Down for history navigation within current mode only
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// inputMode represents the current input mode.
type inputMode int

const (
	modeEval inputMode = iota
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
	matchStyle      = lipgloss.NewStyle().
			Foreground(lipgloss.Color("4")).
			Bold(true)
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
	selectedMatchStyle = selectedStyle.Bold(true)
)

// formatCommand formats the pipeline echo line with prompt and input styled.
func formatCommand(input string) string {
	return promptStyle.Render(evalPrompt) + inputStyle.Render(input)
}

// formatCtrlCommand formats the control command echo line with prompt and
// input styled.
func formatCtrlCommand(input string) string {
	return ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input)
}

// Config configures a REPL session.
type Config struct {
	// HistoryDir is the directory of the history file. History is not saved
	// if it is empty.
	HistoryDir string
	// Indent is the number of spaces per block level in printed expansions.
	Indent int
	// Logger receives trace records of the session.
	Logger log.Logger
	// Options are passed to every expansion.
	Options []pipe.Option
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc      func() context.Context
	input        textinput.Model
	opts         []pipe.Option
	logger       log.Logger
	history      *History
	words        *vocabulary
	templates    map[pipe.StepKind]string
	last         string        // last pipeline expanded without error
	matches      fuzzy.Matches // current fuzzy match results
	candidates   []string      // backing candidate list
	historyIdx   int
	wordStart    int  // byte offset of current word start
	wordEnd      int  // byte offset of current word end
	suggIdx      int  // selected candidate index
	tabActive    bool // whether user is tab-cycling
	preTabText   string
	preTabCursor int
	width        int // terminal width for ellipsization
	quitting     bool
	mode         inputMode
	evalText     string
	evalCursor   int
	ctrlText     string
	ctrlCursor   int
}

// Run starts an interactive session on the terminal.
func Run(ctx context.Context, cfg Config) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	var path string
	if cfg.HistoryDir != "" {
		path = filepath.Join(cfg.HistoryDir, baseHistory)
	}

	history := NewHistory(path)
	if err := history.Load(); err != nil {
		cfg.Logger.WarnContext(ctx, "could not load history",
			slog.String("path", path),
			slog.String("error", err.Error()))
	}

	cfg.Logger.TraceContext(ctx, "repl start",
		slog.String("history", path),
		slog.Int("entry_count", history.Len()))

	m := newModel(ctx, cfg, history)

	_, err = tea.NewProgram(m, tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}

	return err
}

const defaultWidth = 80

func newModel(ctx context.Context, cfg Config, history *History) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = defaultWidth

	opts := append(cfg.Options[:len(cfg.Options):len(cfg.Options)],
		pipe.WithIndent(cfg.Indent))

	words := newVocabulary()
	for _, entry := range history.Entries() {
		if entry.Mode == modeEval {
			words.learn(entry.Line)
		}
	}

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		opts:       opts,
		logger:     cfg.Logger,
		history:    history,
		words:      words,
		templates:  stepTemplates(ctx, cfg.Options...),
		historyIdx: history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
		mode:       modeEval,
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
		m.input.Width = max(msg.Width-len(evalPrompt)-2, 1)

		return m, nil

	case editDoneMsg:
		if msg.err != nil {
			return m, tea.Println(errorStyle.Render("edit failed: " + msg.err.Error()))
		}

		if msg.text == "" {
			return m, tea.Println(hintStyle.Render("edit cancelled"))
		}

		m, _ = m.switchToMode(modeEval)
		m.input.SetValue(strings.Join(strings.Split(msg.text, "\n"), " "))
		m.input.CursorEnd()
		refreshMatches(&m, false)

		return m, nil
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

	switch {
	case m.historyIdx < m.history.Len():
		hint := fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len())
		b.WriteString(hintStyle.Render(hint))

	case strings.TrimSpace(input) == "":
		hint := "Type a pipeline or press Esc for commands"
		if m.mode == modeCtrl {
			hint = "Type: " + strings.Join(ctrlCommands, ", ") + " (press Esc to return)"
		}

		b.WriteString(hintStyle.Render(hint))

	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width))

	case m.mode == modeEval:
		// Describe the step being typed.
		if kind, ok := stepAt(input, byteOffset(input, m.input.Position())); ok {
			if expansion, ok := m.templates[kind]; ok {
				b.WriteString(renderStepHint(kind, expansion))
			}
		}
	}

	b.WriteString("\n")

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctxFunc(), "repl keypress",
		slog.String("key", msg.String()),
		slog.Int("type", int(msg.Type)))

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
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.historyStep(-1, false), nil

	case tea.KeyDown:
		return m.historyStep(1, false), nil

	case tea.KeyShiftUp:
		return m.historyStep(-1, true), nil

	case tea.KeyShiftDown:
		return m.historyStep(1, true), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m, false)

			return m, nil
		}

		return m.toggleMode()

	case tea.KeyRunes, tea.KeySpace:
		// Space is a "breaking" key while tab-cycling.
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m, true)

		return m, cmd
	}

	// For any other key (backspace, delete, arrows, etc.),
	// update input and recompute matches without auto-confirm.
	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

// cycle moves the tab selection by dir, starting tab-cycling if needed.
func (m model) cycle(dir int) model {
	switch len(m.matches) {
	case 0:
		return m

	case 1:
		// Single candidate: complete and confirm immediately.
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m
	}

	if m.tabActive {
		m.suggIdx = (m.suggIdx + dir + len(m.matches)) % len(m.matches)
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		m.suggIdx = 0
		if dir < 0 {
			m.suggIdx = len(m.matches) - 1
		}
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m
}

// replaceCurrentWord replaces the current word boundaries in the input with
// the given replacement text and repositions the cursor.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	newCursor := m.wordStart + len(replacement)
	value := input[:m.wordStart] + replacement + input[m.wordEnd:]

	m.input.SetValue(value)
	m.input.SetCursor(runeIndex(value, newCursor))

	m.wordEnd = newCursor
}

// refreshMatches recomputes fuzzy matches for the current input state.
// When autoConfirm is true it also auto-confirms the completion when exactly
// one candidate remains and the typed word already equals that candidate.
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
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	m.evalText, m.evalCursor = "", 0
	m.ctrlText, m.ctrlCursor = "", 0
	m.input.SetValue("")
	m.matches = nil

	if err := m.history.Add(input, m.mode); err != nil {
		m.logger.WarnContext(m.ctxFunc(), "could not save history",
			slog.String("error", err.Error()))
	}

	m.historyIdx = m.history.Len()

	if m.mode == modeCtrl {
		return m.executeCommand(input)
	}

	out, err := m.expand(input)
	if err != nil {
		return m, tea.Sequence(
			tea.Println(formatCommand(input)),
			tea.Println(errorStyle.Render(describeError(err))),
		)
	}

	return m, tea.Sequence(
		tea.Println(formatCommand(input)),
		tea.Println(resultStyle.Render(out)),
	)
}

// expand expands input and, on success, remembers it as the last pipeline
// and learns its identifiers.
func (m *model) expand(input string) (string, error) {
	out, err := pipe.ExpandCached(m.ctxFunc(), input, m.opts...)

	m.logger.TraceContext(m.ctxFunc(), "repl expand",
		slog.String("input", input),
		slog.Bool("ok", err == nil))

	if err != nil {
		return "", err
	}

	m.last = input
	m.words.learn(input)

	return out, nil
}

// describeError renders err with the offending source line when it is a
// diagnostic.
func describeError(err error) string {
	var diag *lang.Diagnostic
	if errors.As(err, &diag) {
		return "error: " + diag.Error() + "\n" + strings.TrimSuffix(diag.Snippet(), "\n")
	}

	return "error: " + err.Error()
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	echo := tea.Println(formatCtrlCommand(input))

	m.logger.TraceContext(m.ctxFunc(), "repl command",
		slog.String("command", parts[0]),
		slog.Any("args", parts[1:]))

	switch parts[0] {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echo, tea.Println(helpMessage()))

	case "s", "steps":
		return m, tea.Sequence(echo, tea.Println(m.stepsView()))

	case "f", "fmt":
		return m, tea.Sequence(echo, tea.Println(m.fmtView()))

	case "l", "lint":
		return m, tea.Sequence(echo, tea.Println(m.lintView()))

	case "w", "words":
		return m, tea.Sequence(echo, tea.Println(m.wordsView()))

	case "c", "clear":
		pipe.ClearCache()

		return m, tea.ClearScreen

	case "e", "edit":
		return m, tea.Sequence(echo, m.edit())

	default:
		return m, tea.Println(
			errorStyle.Render("Unknown command: " + parts[0] + " (try 'help')"),
		)
	}
}

// edit opens the pending pipeline, or the last one, in the external editor.
func (m model) edit() tea.Cmd {
	text := m.evalText
	if text == "" {
		text = m.last
	}

	cmd := &editCommand{ctx: m.ctxFunc(), text: text}

	return tea.Exec(cmd, func(err error) tea.Msg {
		return editDoneMsg{text: cmd.result, err: err}
	})
}

func (m model) stepsView() string {
	var b strings.Builder

	for kind := range pipe.StepKinds() {
		if expansion, ok := m.templates[kind]; ok {
			b.WriteString("  " + renderStepHint(kind, expansion) + "\n")
		}
	}

	return b.String()
}

func (m model) fmtView() string {
	if m.last == "" {
		return hintStyle.Render("no pipeline yet")
	}

	pl, err := pipe.Parse(m.ctxFunc(), m.last, m.opts...)
	if err != nil {
		return errorStyle.Render(describeError(err))
	}

	return resultStyle.Render(pl.String())
}

func (m model) lintView() string {
	if m.last == "" {
		return hintStyle.Render("no pipeline yet")
	}

	pl, err := pipe.Parse(m.ctxFunc(), m.last, m.opts...)
	if err != nil {
		return errorStyle.Render(describeError(err))
	}

	findings, err := pipe.Lint(m.ctxFunc(), pl)
	if err != nil {
		return errorStyle.Render(describeError(err))
	}

	if len(findings) == 0 {
		return resultStyle.Render("no findings")
	}

	var b strings.Builder

	for _, f := range findings {
		fmt.Fprintf(&b, "  step %d: %s: %s %s\n",
			f.Step, f.Severity, f.Message, hintStyle.Render("["+f.Rule+"]"))
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func (m model) wordsView() string {
	return "  " + strings.Join(m.words.candidates(false), " ") + "\n" +
		"  ." + strings.Join(m.words.candidates(true), " .")
}

func (m model) historyStep(dir int, sameMode bool) model {
	for i := m.historyIdx + dir; i >= 0 && i < m.history.Len(); i += dir {
		entry, err := m.history.Entry(i)
		if err != nil {
			break
		}

		if sameMode && entry.Mode != m.mode {
			continue
		}

		m.historyIdx = i

		if m.mode != entry.Mode {
			m, _ = m.switchToMode(entry.Mode)
		}

		m.input.SetValue(entry.Line)
		m.input.CursorEnd()
		refreshMatches(&m, false)

		return m
	}

	// Moving down past the newest entry clears the input.
	if dir > 0 && m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		refreshMatches(&m, false)
	}

	return m
}

// toggleMode switches between eval and control modes.
func (m model) toggleMode() (model, tea.Cmd) {
	if m.mode == modeEval {
		return m.switchToMode(modeCtrl)
	}

	return m.switchToMode(modeEval)
}

// switchToMode switches to the specified mode, preserving input state.
func (m model) switchToMode(mode inputMode) (model, tea.Cmd) {
	if m.mode == modeEval {
		m.evalText = m.input.Value()
		m.evalCursor = m.input.Position()
	} else {
		m.ctrlText = m.input.Value()
		m.ctrlCursor = m.input.Position()
	}

	m.mode = mode
	if mode == modeEval {
		m.input.Prompt = promptStyle.Render(evalPrompt)
		m.input.SetValue(m.evalText)
		m.input.SetCursor(m.evalCursor)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
		m.input.SetValue(m.ctrlText)
		m.input.SetCursor(m.ctrlCursor)
	}

	refreshMatches(&m, false)

	return m, nil
}
