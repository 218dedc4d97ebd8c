// Package shell implements the interactive command shell named in spec §6:
// a single loop accepting "help", "run <file> [-ast] [-sakir] [-rawllvm]
// [-llvmir]" and "exit". It is built on the Charm libraries the way
// dr8co-kong's repl package drives a line-oriented interpreter loop, adapted
// from an expression REPL to a command shell around the compile pipeline.
package shell

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"vslc/internal/util"
)

const (
	// Prompt is the shell's input prompt.
	Prompt = "vslc> "
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
			Foreground(lipgloss.Color("#FF5F87")).
			Bold(true)

	historyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#767676"))
)

// commandResultMsg carries one command's outcome back into Update, the way
// dr8co-kong's repl carries an evalResultMsg back from its async evaluator.
type commandResultMsg struct {
	output  string
	isError bool
	elapsed time.Duration
	quit    bool
}

type historyEntry struct {
	input   string
	output  string
	isError bool
	elapsed time.Duration
}

type model struct {
	textInput textinput.Model
	spinner   spinner.Model
	history   []historyEntry
	running   bool
	current   string
	noColor   bool
}

func initialModel(noColor bool) model {
	ti := textinput.New()
	ti.Placeholder = "help | run <file> [-ast] [-sakir] [-rawllvm] [-llvmir] | exit"
	ti.Focus()
	ti.Width = 80
	ti.Prompt = promptStyle.Render(Prompt)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF79C6"))

	return model{textInput: ti, spinner: s, noColor: noColor}
}

func (m model) style(st lipgloss.Style, s string) string {
	if m.noColor {
		return s
	}
	return st.Render(s)
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// runCmd executes one shell command line asynchronously, the way
// dr8co-kong's evalCmd runs evaluation off the update loop.
func runCmd(line string) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		out, quit, err := Dispatch(line)
		elapsed := time.Since(start)
		if err != nil {
			return commandResultMsg{output: err.Error(), isError: true, elapsed: elapsed, quit: quit}
		}
		return commandResultMsg{output: out, elapsed: elapsed, quit: quit}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.running {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case commandResultMsg:
		m.running = false
		m.history = append(m.history, historyEntry{
			input:   m.current,
			output:  msg.output,
			isError: msg.isError,
			elapsed: msg.elapsed,
		})
		m.current = ""
		if msg.quit {
			return m, tea.Quit
		}
		return m, nil

	case tea.KeyMsg:
		if m.running && msg.Type != tea.KeyCtrlC {
			return m, m.spinner.Tick
		}
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyCtrlD:
			return m, tea.Quit
		case tea.KeyEnter:
			line := strings.TrimSpace(m.textInput.Value())
			m.textInput.SetValue("")
			if line == "" {
				return m, nil
			}
			m.running = true
			m.current = line
			return m, runCmd(line)
		}
	}

	if !m.running {
		m.textInput, cmd = m.textInput.Update(msg)
	}
	if m.running {
		return m, m.spinner.Tick
	}
	return m, cmd
}

func (m model) View() string {
	var s strings.Builder

	s.WriteString(m.style(titleStyle, " vslc "))
	s.WriteString("\n\n")

	for _, entry := range m.history {
		s.WriteString(m.style(promptStyle, Prompt))
		s.WriteString(entry.input)
		s.WriteString("\n")
		if entry.isError {
			s.WriteString(m.style(errorStyle, entry.output))
		} else {
			s.WriteString(m.style(resultStyle, entry.output))
		}
		if entry.elapsed > 10*time.Millisecond {
			s.WriteString(m.style(historyStyle, fmt.Sprintf(" (%.2fs)", entry.elapsed.Seconds())))
		}
		s.WriteString("\n\n")
	}

	if m.running {
		s.WriteString(m.style(promptStyle, Prompt))
		s.WriteString(m.current)
		s.WriteString("\n")
		s.WriteString(m.spinner.View())
		s.WriteString(" running...\n\n")
	} else {
		s.WriteString(m.textInput.View())
		s.WriteString("\n")
	}

	s.WriteString(m.style(historyStyle, "Ctrl+C or Ctrl+D to exit"))
	return s.String()
}

// Options configures Start.
type Options struct {
	NoColor bool
}

// Start launches the interactive shell. It blocks until the user exits.
func Start(options Options) error {
	util.Log.Info("shell: starting")
	p := tea.NewProgram(initialModel(options.NoColor))
	_, err := p.Run()
	return err
}
