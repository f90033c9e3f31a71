// Command starbasic-repl is an interactive console for the runtime,
// grounded on dr8co-kong/repl's Bubble Tea model and adapted from
// bracket balancing to this language's keyword-delimited blocks. Each
// accepted line, or completed multi-line block, is spawned as its own
// Process on a shared ProcessList,
// so the console doubles as a small, visible driver of the scheduler's
// suspend/resume machinery instead of a one-shot eval loop.
package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/example/starbasic/builtins"
	"github.com/example/starbasic/parser"
	"github.com/example/starbasic/trace"
	"github.com/example/starbasic/types"
	"github.com/example/starbasic/vm"
	"github.com/example/starbasic/world"
)

const (
	Prompt     = "] "
	ContPrompt = "» "
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7D56F4")).
			Bold(true)

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F87"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#767676"))
)

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		fmt.Println("error running console:", err)
	}
}

// historyEntry is one completed line and what came of it.
type historyEntry struct {
	input   string
	output  string
	isError bool
	elapsed time.Duration
}

type evalResultMsg struct {
	entry historyEntry
}

type model struct {
	textInput textinput.Model
	spinner   spinner.Model
	history   []historyEntry

	w   *world.World
	reg *builtins.Registry
	pl  *vm.ProcessList
	seq int

	buffer     []string
	blockDepth int
	evaluating bool
	current    string
}

func initialModel() model {
	ti := textinput.New()
	ti.Placeholder = "Dim x = 1"
	ti.Focus()
	ti.Width = 80
	ti.Prompt = promptStyle.Render(Prompt)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))

	trace.Init(false, nil, nil)
	w := world.New(world.DefaultOptions())
	reg := builtins.NewRegistry(w)
	reg.InstallOn(w)

	return model{
		textInput: ti,
		spinner:   sp,
		w:         w,
		reg:       reg,
		pl:        vm.NewProcessList(vm.NewVM(reg, w)),
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// blockKeyword reports the depth delta a line's leading keyword
// contributes. CASE/ELSE/ELSEIF are neutral: they close the previous
// arm but never the enclosing block, so they don't touch depth.
func blockKeyword(line string) int {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return 0
	}
	switch strings.ToUpper(fields[0]) {
	case "IF", "WHILE", "UNTIL", "DO", "FOR", "FOREACH", "TRY", "SELECT", "WITH", "SUB", "FUNCTION", "STRUCT":
		return 1
	case "ENDIF", "LOOP", "ENDWHILE", "NEXT", "ENDTRY", "ENDSELECT", "ENDWITH", "ENDSUB", "ENDFUNCTION", "ENDSTRUCT":
		return -1
	}
	return 0
}

// multilineSource replays a fixed slice of lines to the Tokenizer, the
// same contract a script file's CommandSource satisfies.
type multilineSource struct {
	lines []string
	i     int
}

func (s *multilineSource) ReadNextLine() (string, bool) {
	if s.i >= len(s.lines) {
		return "", false
	}
	line := s.lines[s.i]
	s.i++
	return line, true
}

func (m *model) evalCmd(lines []string) tea.Cmd {
	w, reg, pl := m.w, m.reg, m.pl
	m.seq++
	id := m.seq
	return func() tea.Msg {
		start := time.Now()
		input := strings.Join(lines, "\n")

		bco, cerr := vm.NewStatementCompiler(&multilineSource{lines: lines}, fmt.Sprintf("<repl:%d>", id), vm.DefaultSCC()).Compile()
		if cerr != nil {
			return evalResultMsg{historyEntry{input: input, output: "compile error: " + cerr.Error(), isError: true, elapsed: time.Since(start)}}
		}

		proc := pl.Spawn(bco, 0, w.Options.TickLimit)
		pl.RunSlice()
		for proc.GetState() == vm.StateRunnable || proc.GetState() == vm.StateRunning {
			pl.RunSlice()
		}

		elapsed := time.Since(start)
		switch proc.GetState() {
		case vm.StateEnded:
			out := "Null"
			if proc.Result != nil && proc.Result != types.Null {
				out = proc.Result.String()
			}
			return evalResultMsg{historyEntry{input: input, output: out, elapsed: elapsed}}
		case vm.StateFailed:
			msg := "process failed"
			if proc.Err != nil {
				msg = proc.Err.Code.String() + ": " + proc.Err.Message
			}
			return evalResultMsg{historyEntry{input: input, output: msg, isError: true, elapsed: elapsed}}
		default:
			return evalResultMsg{historyEntry{
				input:   input,
				output:  fmt.Sprintf("process %d suspended (%s); %d process(es) still scheduled", proc.ID, proc.GetState(), pl.Count()),
				elapsed: elapsed,
			}}
		}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.evaluating {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case evalResultMsg:
		m.evaluating = false
		m.history = append(m.history, msg.entry)
		m.current = ""
		return m, nil

	case tea.KeyMsg:
		if m.evaluating {
			if msg.Type == tea.KeyCtrlC {
				return m, tea.Quit
			}
			return m, m.spinner.Tick
		}

		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyCtrlD:
			return m, tea.Quit
		case tea.KeyEnter:
			line := m.textInput.Value()
			m.textInput.SetValue("")

			if line == "" && len(m.buffer) == 0 {
				return m, nil
			}

			m.buffer = append(m.buffer, line)
			m.blockDepth += blockKeyword(line)

			if m.blockDepth > 0 {
				return m, nil
			}

			lines := m.buffer
			m.buffer = nil
			m.blockDepth = 0
			m.evaluating = true
			m.current = strings.Join(lines, "\n")
			return m, m.evalCmd(lines)
		}
	}

	if !m.evaluating {
		m.textInput, cmd = m.textInput.Update(msg)
	}
	if m.evaluating {
		return m, m.spinner.Tick
	}
	return m, cmd
}

func (m model) View() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" starbasic console "))
	s.WriteString("\n\n")

	for _, h := range m.history {
		for i, line := range strings.Split(h.input, "\n") {
			if i == 0 {
				s.WriteString(promptStyle.Render(Prompt))
			} else {
				s.WriteString(promptStyle.Render(ContPrompt))
			}
			s.WriteString(line)
			s.WriteString("\n")
		}
		if h.isError {
			s.WriteString(errorStyle.Render(h.output))
		} else {
			s.WriteString(resultStyle.Render(h.output))
		}
		if h.elapsed > 10*time.Millisecond {
			s.WriteString(statusStyle.Render(" (" + strconv.FormatFloat(h.elapsed.Seconds(), 'f', 2, 64) + "s)"))
		}
		s.WriteString("\n\n")
	}

	if m.evaluating {
		s.WriteString(promptStyle.Render(Prompt))
		s.WriteString(m.current)
		s.WriteString("\n")
		s.WriteString(m.spinner.View())
		s.WriteString(" running...\n\n")
	}

	if len(m.buffer) > 0 {
		for i, line := range m.buffer {
			if i == 0 {
				s.WriteString(promptStyle.Render(Prompt))
			} else {
				s.WriteString(promptStyle.Render(ContPrompt))
			}
			s.WriteString(line)
			s.WriteString("\n")
		}
	}

	if !m.evaluating {
		if m.blockDepth > 0 {
			m.textInput.Prompt = promptStyle.Render(ContPrompt)
		} else {
			m.textInput.Prompt = promptStyle.Render(Prompt)
		}
		s.WriteString(m.textInput.View())
		s.WriteString("\n")
	}

	s.WriteString(statusStyle.Render(fmt.Sprintf("\n%d process(es) scheduled · Esc/Ctrl+C to exit", m.pl.Count())))

	return s.String()
}

var _ parser.CommandSource = (*multilineSource)(nil)
