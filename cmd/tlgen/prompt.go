package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"tlgen/internal/settings"
)

// question is one prompt of the config dialog.
type question struct {
	key     string
	prompt  string
	current string
}

const (
	keyTool     = "tool"
	keyTime     = "timestamp_format"
	keyLevel    = "log_level"
	keyProgress = "progress"
)

// configQuestions lists the settings prompts; current values come from cur.
func configQuestions(cur *settings.Settings) []question {
	return []question{
		{key: keyTool, prompt: "Generator name", current: cur.ToolName()},
		{key: keyTime, prompt: "Timestamp format (strftime)", current: cur.TimeFormat()},
		{key: keyLevel, prompt: "Log level", current: cur.Level().String()},
		{key: keyProgress, prompt: "Show progress bar (true/false)", current: strconv.FormatBool(cur.ShowProgress())},
	}
}

// applyAnswers returns a copy of cur with the non-empty answers applied.
func applyAnswers(cur *settings.Settings, answers map[string]string) (*settings.Settings, error) {
	next := &settings.Settings{}
	if cur != nil {
		*next = *cur
	}
	if v := strings.TrimSpace(answers[keyTool]); v != "" {
		next.Tool = v
	}
	if v := strings.TrimSpace(answers[keyTime]); v != "" {
		next.TimestampFormat = v
	}
	if v := strings.TrimSpace(answers[keyLevel]); v != "" {
		next.LogLevel = strings.ToLower(v)
	}
	if v := strings.TrimSpace(answers[keyProgress]); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("progress: %q is not true or false", v)
		}
		next.Progress = &b
	}
	if err := next.Validate(); err != nil {
		return nil, err
	}
	return next, nil
}

// promptModel is a bubbletea model that asks one question at a time.
type promptModel struct {
	questions []question
	idx       int
	inputs    []textinput.Model
	done      bool
}

func newPromptModel(questions []question) promptModel {
	inputs := make([]textinput.Model, len(questions))
	for i, q := range questions {
		ti := textinput.New()
		ti.Placeholder = q.current
		ti.CharLimit = 256
		inputs[i] = ti
	}
	m := promptModel{
		questions: questions,
		inputs:    inputs,
	}
	if len(inputs) > 0 {
		m.inputs[0].Focus()
	}
	return m
}

func (m promptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			if m.idx < len(m.inputs)-1 {
				m.inputs[m.idx].Blur()
				m.idx++
				m.inputs[m.idx].Focus()
				return m, textinput.Blink
			}
			m.done = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.inputs[m.idx], cmd = m.inputs[m.idx].Update(msg)
	return m, cmd
}

func (m promptModel) View() string {
	if m.done || len(m.questions) == 0 {
		return ""
	}
	q := m.questions[m.idx]
	return fmt.Sprintf("%s [%s]: %s\n", q.prompt, q.current, m.inputs[m.idx].View())
}

// answers returns the typed values keyed by question key.
func (m promptModel) answers() map[string]string {
	out := make(map[string]string, len(m.questions))
	for i, q := range m.questions {
		out[q.key] = m.inputs[i].Value()
	}
	return out
}

// promptQuestions runs the TUI and returns answers keyed by question key.
func promptQuestions(questions []question) (map[string]string, error) {
	if len(questions) == 0 {
		return map[string]string{}, nil
	}
	p := tea.NewProgram(newPromptModel(questions))
	result, err := p.Run()
	if err != nil {
		return nil, err
	}
	final, ok := result.(promptModel)
	if !ok || !final.done {
		return nil, fmt.Errorf("prompt cancelled")
	}
	return final.answers(), nil
}
